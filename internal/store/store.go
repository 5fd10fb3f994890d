package store

import (
	"github.com/nhle/taskboard/internal/activity"
	"github.com/nhle/taskboard/internal/model"
)

// Record keys for the two durable board records and the session flag.
// These names are the storage contract; changing them orphans saved data.
const (
	KeyBoard    = "taskBoard"
	KeyActivity = "activityLog"
	KeyAuth     = "isAuth"
)

// Storage is the persistence interface for the board state, the activity
// history, and the session flag.
//
// Load methods treat a missing or malformed record as absent and return
// the empty default instead of an error, so a corrupt record never blocks
// startup. Save methods replace the full record; callers treat failures
// as best-effort (surface and continue).
type Storage interface {
	LoadBoard() (model.BoardState, error)
	SaveBoard(state model.BoardState) error

	LoadActivity() ([]activity.Entry, error)
	SaveActivity(entries []activity.Entry) error

	GetFlag(key string) (bool, error)
	SetFlag(key string, value bool) error
}
