package board

import "errors"

// Operation errors. All are recovered at the boundary nearest the user
// action; none leaves the board partially mutated.
var (
	// ErrEmptyTitle rejects a create or edit whose title trims to nothing.
	ErrEmptyTitle = errors.New("title must not be empty")

	// ErrTaskNotFound means no task with the given id exists in any column.
	ErrTaskNotFound = errors.New("task not found")

	// ErrIndexOutOfRange means a move referenced a stale or invalid
	// position, e.g. the board changed between gesture start and drop.
	ErrIndexOutOfRange = errors.New("position out of range")
)
