package model

import (
	"fmt"
	"time"
)

// Status identifies one of the three board columns.
type Status string

const (
	StatusTodo  Status = "todo"
	StatusDoing Status = "doing"
	StatusDone  Status = "done"
)

// Statuses lists the board columns in display order.
var Statuses = []Status{StatusTodo, StatusDoing, StatusDone}

// ParseStatus validates a raw column name, e.g. from a drop event.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusTodo, StatusDoing, StatusDone:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Label returns the column title shown in the UI.
func (s Status) Label() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusDoing:
		return "Doing"
	case StatusDone:
		return "Done"
	}
	return string(s)
}

// Priority is the task urgency level.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Priorities lists the levels in ascending urgency order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is one of the three known levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a single card on the board.
type Task struct {
	// ID is the opaque unique identifier assigned at creation.
	ID string `json:"id"`

	// Title is the card headline. Never empty for a stored task.
	Title string `json:"title"`

	// Description is optional free text.
	Description string `json:"description"`

	// Priority is the urgency level (use Priority* constants).
	Priority Priority `json:"priority"`

	// DueDate is the optional target day; nil means not set.
	// Only the calendar date is meaningful.
	DueDate *time.Time `json:"dueDate,omitempty"`

	// Tags are free-form labels, trimmed and non-empty.
	Tags []string `json:"tags"`

	// CreatedAt is set once at creation and never changes.
	CreatedAt time.Time `json:"createdAt"`
}

// BoardState maps each status column to its ordered task list.
// The JSON layout is the stored record format: {todo:[],doing:[],done:[]}.
type BoardState struct {
	Todo  []Task `json:"todo"`
	Doing []Task `json:"doing"`
	Done  []Task `json:"done"`
}

// EmptyBoard returns a board with three empty columns.
func EmptyBoard() BoardState {
	return BoardState{Todo: []Task{}, Doing: []Task{}, Done: []Task{}}
}

// List returns the task list for the given status.
func (b *BoardState) List(s Status) []Task {
	switch s {
	case StatusTodo:
		return b.Todo
	case StatusDoing:
		return b.Doing
	case StatusDone:
		return b.Done
	}
	return nil
}

// SetList replaces the task list for the given status.
func (b *BoardState) SetList(s Status, tasks []Task) {
	switch s {
	case StatusTodo:
		b.Todo = tasks
	case StatusDoing:
		b.Doing = tasks
	case StatusDone:
		b.Done = tasks
	}
}

// Normalize replaces nil columns with empty slices so a hydrated board
// always serializes back to the {todo:[],doing:[],done:[]} layout.
func (b *BoardState) Normalize() {
	if b.Todo == nil {
		b.Todo = []Task{}
	}
	if b.Doing == nil {
		b.Doing = []Task{}
	}
	if b.Done == nil {
		b.Done = []Task{}
	}
}

// TotalCount returns the number of tasks across all three columns.
func (b *BoardState) TotalCount() int {
	return len(b.Todo) + len(b.Doing) + len(b.Done)
}
