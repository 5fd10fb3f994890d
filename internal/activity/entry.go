package activity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category is the structured kind of a board change, assigned when the
// entry is recorded so presentation never has to parse the action label.
type Category string

const (
	CategoryCreated Category = "created"
	CategoryMoved   Category = "moved"
	CategoryEdited  Category = "edited"
	CategoryDeleted Category = "deleted"
	CategoryOther   Category = "other"
)

// Action labels for the four user-meaningful board changes.
const (
	ActionCreated = "Task created"
	ActionMoved   = "Task moved"
	ActionEdited  = "Task edited"
	ActionDeleted = "Task deleted"
)

// Entry is one immutable record of a user-visible board change.
type Entry struct {
	// ID is the unique identifier for this entry.
	ID string `json:"id,omitempty"`

	// Action is the human-readable event label, e.g. "Task moved".
	Action string `json:"action"`

	// Title is a snapshot of the subject task's title at event time.
	Title string `json:"title"`

	// Time is when the change happened.
	Time time.Time `json:"time"`

	// Category is the structured event kind. Records written by older
	// versions may lack it; see Entry.Kind.
	Category Category `json:"category,omitempty"`
}

// NewEntry builds an entry for the given action and task title.
func NewEntry(action, title string, at time.Time) Entry {
	return Entry{
		ID:       uuid.New().String(),
		Action:   action,
		Title:    title,
		Time:     at,
		Category: Classify(action),
	}
}

// Kind returns the entry's category, classifying the action label for
// records hydrated without one.
func (e Entry) Kind() Category {
	if e.Category != "" {
		return e.Category
	}
	return Classify(e.Action)
}

// Classify maps a free-text action label to a category by keyword.
func Classify(action string) Category {
	a := strings.ToLower(action)
	switch {
	case strings.Contains(a, "created"):
		return CategoryCreated
	case strings.Contains(a, "moved"):
		return CategoryMoved
	case strings.Contains(a, "edited"):
		return CategoryEdited
	case strings.Contains(a, "deleted"):
		return CategoryDeleted
	}
	return CategoryOther
}
