package board

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nhle/taskboard/internal/activity"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/store"
)

// Board is the in-memory task-board state: three ordered status columns
// and the activity history. All mutation goes through its operations;
// every user-meaningful change appends one activity entry and writes both
// records back to storage.
//
// The board is single-writer: operations run to completion in response
// to discrete user actions, so no locking is involved.
type Board struct {
	state    model.BoardState
	log      *activity.Log
	storage  store.Storage
	identity Identity
	logger   zerolog.Logger
}

// DropPosition addresses one slot in one status column.
type DropPosition struct {
	Status model.Status
	Index  int
}

// DropEvent is the terminal event of one move gesture. A nil Destination
// means the gesture was cancelled.
type DropEvent struct {
	Source      DropPosition
	Destination *DropPosition
}

// New hydrates a board from storage. A missing or unreadable record
// hydrates as empty; startup never fails on bad data.
func New(storage store.Storage, identity Identity, logger zerolog.Logger) *Board {
	state, err := storage.LoadBoard()
	if err != nil {
		logger.Warn().Err(err).Msg("hydrating board from empty state")
		state = model.EmptyBoard()
	}

	log := activity.NewLog()
	entries, err := storage.LoadActivity()
	if err != nil {
		logger.Warn().Err(err).Msg("hydrating activity log from empty state")
		entries = nil
	}
	log.Replace(entries)

	return &Board{
		state:    state,
		log:      log,
		storage:  storage,
		identity: identity,
		logger:   logger,
	}
}

// Create validates and adds a new task at the end of the todo column,
// returning the created task.
func (b *Board) Create(
	title, description string,
	priority model.Priority,
	dueDate *time.Time,
	tags []string,
) (model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Task{}, fmt.Errorf("creating task: %w", ErrEmptyTitle)
	}
	if !priority.Valid() {
		priority = model.PriorityMedium
	}

	task := model.Task{
		ID:          b.identity.NewID(),
		Title:       title,
		Description: strings.TrimSpace(description),
		Priority:    priority,
		DueDate:     dueDate,
		Tags:        cleanTags(tags),
		CreatedAt:   b.identity.Now(),
	}

	b.state.Todo = append(b.state.Todo, task)
	b.record(activity.ActionCreated, task.Title)
	b.persist()

	return task, nil
}

// Edit replaces the title of the task with the given id, keeping its
// column and position, and returns the updated task.
func (b *Board) Edit(taskID, newTitle string) (model.Task, error) {
	newTitle = strings.TrimSpace(newTitle)
	if newTitle == "" {
		return model.Task{}, fmt.Errorf("editing task %s: %w", taskID, ErrEmptyTitle)
	}

	status, index, ok := b.locate(taskID)
	if !ok {
		return model.Task{}, fmt.Errorf("editing task %s: %w", taskID, ErrTaskNotFound)
	}

	list := b.state.List(status)
	list[index].Title = newTitle

	b.record(activity.ActionEdited, newTitle)
	b.persist()

	return list[index], nil
}

// Delete removes the task with the given id from its column.
//
// Destructive: callers are expected to gate this behind a user
// confirmation; the board itself does not confirm.
func (b *Board) Delete(taskID string) error {
	status, index, ok := b.locate(taskID)
	if !ok {
		return fmt.Errorf("deleting task %s: %w", taskID, ErrTaskNotFound)
	}

	list := b.state.List(status)
	title := list[index].Title
	b.state.SetList(status, append(list[:index:index], list[index+1:]...))

	b.record(activity.ActionDeleted, title)
	b.persist()

	return nil
}

// Move relocates the task at srcIndex in src to dstIndex in dst using
// remove-then-insert splice semantics: for a same-column move the
// destination index is interpreted against the post-removal list. A move
// to the exact source position is a no-op; any executed move, including a
// reorder within one column, records one activity entry.
func (b *Board) Move(taskID string, src model.Status, srcIndex int, dst model.Status, dstIndex int) error {
	srcList := b.state.List(src)
	if srcIndex < 0 || srcIndex >= len(srcList) {
		return fmt.Errorf("moving task %s from %s[%d]: %w", taskID, src, srcIndex, ErrIndexOutOfRange)
	}
	if srcList[srcIndex].ID != taskID {
		// Stale position: the board changed between gesture start and drop.
		return fmt.Errorf("moving task %s from %s[%d]: %w", taskID, src, srcIndex, ErrIndexOutOfRange)
	}
	if src == dst && srcIndex == dstIndex {
		return nil
	}

	task := srcList[srcIndex]
	b.state.SetList(src, append(srcList[:srcIndex:srcIndex], srcList[srcIndex+1:]...))

	dstList := b.state.List(dst)
	if dstIndex < 0 {
		dstIndex = 0
	}
	if dstIndex > len(dstList) {
		dstIndex = len(dstList)
	}
	inserted := make([]model.Task, 0, len(dstList)+1)
	inserted = append(inserted, dstList[:dstIndex]...)
	inserted = append(inserted, task)
	inserted = append(inserted, dstList[dstIndex:]...)
	b.state.SetList(dst, inserted)

	b.record(activity.ActionMoved, task.Title)
	b.persist()

	return nil
}

// ApplyDrop resolves a gesture's terminal event into a Move. A cancelled
// gesture (nil destination) is a no-op.
func (b *Board) ApplyDrop(ev DropEvent) error {
	if ev.Destination == nil {
		return nil
	}

	srcList := b.state.List(ev.Source.Status)
	if ev.Source.Index < 0 || ev.Source.Index >= len(srcList) {
		return fmt.Errorf("resolving drop at %s[%d]: %w", ev.Source.Status, ev.Source.Index, ErrIndexOutOfRange)
	}

	taskID := srcList[ev.Source.Index].ID
	return b.Move(taskID, ev.Source.Status, ev.Source.Index, ev.Destination.Status, ev.Destination.Index)
}

// Reset clears all three columns and the activity history in one action.
// No activity entry is recorded; there is nothing left to attach it to.
func (b *Board) Reset() {
	b.state = model.EmptyBoard()
	b.log.Clear()
	b.persist()
}

// Find returns the task with the given id and its column.
func (b *Board) Find(taskID string) (model.Task, model.Status, error) {
	status, index, ok := b.locate(taskID)
	if !ok {
		return model.Task{}, "", fmt.Errorf("looking up task %s: %w", taskID, ErrTaskNotFound)
	}
	return b.state.List(status)[index], status, nil
}

// List returns a copy of the task list for the given status.
func (b *Board) List(status model.Status) []model.Task {
	list := b.state.List(status)
	out := make([]model.Task, len(list))
	copy(out, list)
	return out
}

// TotalCount returns the number of tasks across all columns.
func (b *Board) TotalCount() int {
	return b.state.TotalCount()
}

// DoneCount returns the number of tasks in the done column.
func (b *Board) DoneCount() int {
	return len(b.state.Done)
}

// Progress returns the completed fraction in [0, 1], 0 for an empty board.
func (b *Board) Progress() float64 {
	total := b.TotalCount()
	if total == 0 {
		return 0
	}
	return float64(b.DoneCount()) / float64(total)
}

// Activity returns the board's activity log.
func (b *Board) Activity() *activity.Log {
	return b.log
}

// Today returns the current time from the board's clock, for overdue
// checks and elapsed-time labels recomputed at render time.
func (b *Board) Today() time.Time {
	return b.identity.Now()
}

// locate finds the column and position of a task by id.
func (b *Board) locate(taskID string) (model.Status, int, bool) {
	for _, status := range model.Statuses {
		for i, task := range b.state.List(status) {
			if task.ID == taskID {
				return status, i, true
			}
		}
	}
	return "", 0, false
}

// record appends one activity entry for a user-meaningful change.
func (b *Board) record(action, title string) {
	b.log.Append(activity.NewEntry(action, title, b.identity.Now()))
}

// persist writes both records back to storage. Write failures are
// surfaced in the log and otherwise ignored; they never abort the session.
func (b *Board) persist() {
	if err := b.storage.SaveBoard(b.state); err != nil {
		b.logger.Warn().Err(err).Msg("saving board state")
	}
	if err := b.storage.SaveActivity(b.log.Entries()); err != nil {
		b.logger.Warn().Err(err).Msg("saving activity log")
	}
}

// cleanTags trims each tag and drops the empties.
func cleanTags(tags []string) []string {
	out := []string{}
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
