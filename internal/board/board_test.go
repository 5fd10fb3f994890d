package board_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskboard/internal/activity"
	"github.com/nhle/taskboard/internal/board"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/store"
	"github.com/nhle/taskboard/tests/testutil"
)

// stubIdentity issues predictable ids and a pinned clock.
type stubIdentity struct {
	next int
	now  time.Time
}

func (s *stubIdentity) NewID() string {
	s.next++
	return fmt.Sprintf("task-%d", s.next)
}

func (s *stubIdentity) Now() time.Time {
	return s.now
}

func newTestBoard(t *testing.T) (*board.Board, *stubIdentity, *store.SQLiteStore) {
	t.Helper()

	storage := testutil.NewTestStore(t)
	id := &stubIdentity{now: time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)}
	b := board.New(storage, id, zerolog.Nop())

	return b, id, storage
}

func mustCreate(t *testing.T, b *board.Board, title string) model.Task {
	t.Helper()

	task, err := b.Create(title, "", model.PriorityMedium, nil, nil)
	require.NoError(t, err)

	return task
}

func TestCreateRejectsEmptyTitle(t *testing.T) {
	b, _, _ := newTestBoard(t)

	for _, title := range []string{"", "   ", "\t\n"} {
		_, err := b.Create(title, "details", model.PriorityHigh, nil, nil)
		assert.ErrorIs(t, err, board.ErrEmptyTitle)
	}

	assert.Equal(t, 0, b.TotalCount())
	assert.Equal(t, 0, b.Activity().Len())
}

func TestCreateAppendsToTodo(t *testing.T) {
	b, _, _ := newTestBoard(t)

	first := mustCreate(t, b, "first")
	task, err := b.Create("  second  ", "  some details  ", model.PriorityHigh, nil,
		[]string{" design ", "", "urgent"})
	require.NoError(t, err)

	assert.Equal(t, "second", task.Title)
	assert.Equal(t, "some details", task.Description)
	assert.Equal(t, model.PriorityHigh, task.Priority)
	assert.Equal(t, []string{"design", "urgent"}, task.Tags)
	assert.NotEmpty(t, task.ID)
	assert.NotEqual(t, first.ID, task.ID)

	todo := b.List(model.StatusTodo)
	require.Len(t, todo, 2)
	assert.Equal(t, task.ID, todo[1].ID)

	head := b.Activity().Recent(1)[0]
	assert.Equal(t, activity.ActionCreated, head.Action)
	assert.Equal(t, "second", head.Title)
	assert.Equal(t, activity.CategoryCreated, head.Kind())
}

func TestCreateDefaultsInvalidPriority(t *testing.T) {
	b, _, _ := newTestBoard(t)

	task, err := b.Create("untitled priority", "", model.Priority("Urgent"), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, model.PriorityMedium, task.Priority)
}

func TestEdit(t *testing.T) {
	b, _, _ := newTestBoard(t)

	a := mustCreate(t, b, "alpha")
	mustCreate(t, b, "bravo")

	updated, err := b.Edit(a.ID, "  alpha prime  ")
	require.NoError(t, err)
	assert.Equal(t, "alpha prime", updated.Title)

	// Position and column are preserved.
	todo := b.List(model.StatusTodo)
	require.Len(t, todo, 2)
	assert.Equal(t, a.ID, todo[0].ID)
	assert.Equal(t, "alpha prime", todo[0].Title)

	head := b.Activity().Recent(1)[0]
	assert.Equal(t, activity.ActionEdited, head.Action)
	assert.Equal(t, "alpha prime", head.Title)
}

func TestEditRejectsEmptyTitle(t *testing.T) {
	b, _, _ := newTestBoard(t)

	a := mustCreate(t, b, "keep me")

	_, err := b.Edit(a.ID, "   ")
	assert.ErrorIs(t, err, board.ErrEmptyTitle)

	got, _, err := b.Find(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep me", got.Title)
}

func TestEditUnknownTask(t *testing.T) {
	b, _, _ := newTestBoard(t)

	_, err := b.Edit("missing", "new title")
	assert.ErrorIs(t, err, board.ErrTaskNotFound)
}

func TestDelete(t *testing.T) {
	b, _, _ := newTestBoard(t)

	a := mustCreate(t, b, "doomed")

	require.NoError(t, b.Delete(a.ID))
	assert.Equal(t, 0, b.TotalCount())

	_, _, err := b.Find(a.ID)
	assert.ErrorIs(t, err, board.ErrTaskNotFound)

	err = b.Delete(a.ID)
	assert.ErrorIs(t, err, board.ErrTaskNotFound)

	head := b.Activity().Recent(1)[0]
	assert.Equal(t, activity.ActionDeleted, head.Action)
	assert.Equal(t, "doomed", head.Title)
}

func TestMoveAcrossColumns(t *testing.T) {
	b, _, _ := newTestBoard(t)

	a := mustCreate(t, b, "a")
	c := mustCreate(t, b, "b")

	require.NoError(t, b.Move(a.ID, model.StatusTodo, 0, model.StatusDoing, 0))

	assert.Equal(t, []string{c.ID}, ids(b.List(model.StatusTodo)))
	assert.Equal(t, []string{a.ID}, ids(b.List(model.StatusDoing)))
	assert.Equal(t, 2, b.TotalCount())

	head := b.Activity().Recent(1)[0]
	assert.Equal(t, activity.ActionMoved, head.Action)
	assert.Equal(t, "a", head.Title)
}

func TestMoveWithinColumnSpliceSemantics(t *testing.T) {
	b, _, _ := newTestBoard(t)

	a := mustCreate(t, b, "a")
	c := mustCreate(t, b, "b")
	d := mustCreate(t, b, "c")

	// Downward: the destination index addresses the post-removal list,
	// so moving a from 0 to 1 lands it between the other two.
	require.NoError(t, b.Move(a.ID, model.StatusTodo, 0, model.StatusTodo, 1))
	assert.Equal(t, []string{c.ID, a.ID, d.ID}, ids(b.List(model.StatusTodo)))

	// Upward: back to the head.
	require.NoError(t, b.Move(a.ID, model.StatusTodo, 1, model.StatusTodo, 0))
	assert.Equal(t, []string{a.ID, c.ID, d.ID}, ids(b.List(model.StatusTodo)))

	// To the very end.
	require.NoError(t, b.Move(a.ID, model.StatusTodo, 0, model.StatusTodo, 2))
	assert.Equal(t, []string{c.ID, d.ID, a.ID}, ids(b.List(model.StatusTodo)))
}

func TestMoveSamePositionIsNoOp(t *testing.T) {
	b, _, _ := newTestBoard(t)

	a := mustCreate(t, b, "a")
	mustCreate(t, b, "b")
	logged := b.Activity().Len()

	require.NoError(t, b.Move(a.ID, model.StatusTodo, 0, model.StatusTodo, 0))

	assert.Equal(t, a.ID, b.List(model.StatusTodo)[0].ID)
	assert.Equal(t, logged, b.Activity().Len())
}

func TestMoveStalePosition(t *testing.T) {
	b, _, _ := newTestBoard(t)

	a := mustCreate(t, b, "a")
	c := mustCreate(t, b, "b")

	// Index out of bounds.
	err := b.Move(a.ID, model.StatusTodo, 5, model.StatusDoing, 0)
	assert.ErrorIs(t, err, board.ErrIndexOutOfRange)

	// Index addresses a different task than the gesture started on.
	err = b.Move(a.ID, model.StatusTodo, 1, model.StatusDoing, 0)
	assert.ErrorIs(t, err, board.ErrIndexOutOfRange)

	// The board is unchanged either way.
	assert.Equal(t, []string{a.ID, c.ID}, ids(b.List(model.StatusTodo)))
	assert.Empty(t, b.List(model.StatusDoing))
}

func TestMoveClampsDestinationIndex(t *testing.T) {
	b, _, _ := newTestBoard(t)

	a := mustCreate(t, b, "a")
	mustCreate(t, b, "b")

	require.NoError(t, b.Move(a.ID, model.StatusTodo, 0, model.StatusDone, 99))
	assert.Equal(t, []string{a.ID}, ids(b.List(model.StatusDone)))
}

func TestMoveConservesTaskCount(t *testing.T) {
	b, _, _ := newTestBoard(t)

	t1 := mustCreate(t, b, "one")
	t2 := mustCreate(t, b, "two")
	t3 := mustCreate(t, b, "three")

	require.NoError(t, b.Move(t1.ID, model.StatusTodo, 0, model.StatusDoing, 0))
	require.NoError(t, b.Move(t3.ID, model.StatusTodo, 1, model.StatusDoing, 1))
	require.NoError(t, b.Move(t2.ID, model.StatusTodo, 0, model.StatusDone, 0))
	require.NoError(t, b.Move(t1.ID, model.StatusDoing, 0, model.StatusDoing, 1))

	assert.Equal(t, 3, b.TotalCount())

	// Each task lives in exactly one column.
	seen := map[string]int{}
	for _, status := range model.Statuses {
		for _, task := range b.List(status) {
			seen[task.ID]++
		}
	}
	assert.Equal(t, map[string]int{t1.ID: 1, t2.ID: 1, t3.ID: 1}, seen)
}

func TestApplyDrop(t *testing.T) {
	b, _, _ := newTestBoard(t)

	a := mustCreate(t, b, "a")

	// A cancelled gesture is a no-op.
	require.NoError(t, b.ApplyDrop(board.DropEvent{
		Source: board.DropPosition{Status: model.StatusTodo, Index: 0},
	}))
	assert.Equal(t, []string{a.ID}, ids(b.List(model.StatusTodo)))

	require.NoError(t, b.ApplyDrop(board.DropEvent{
		Source:      board.DropPosition{Status: model.StatusTodo, Index: 0},
		Destination: &board.DropPosition{Status: model.StatusDone, Index: 0},
	}))
	assert.Empty(t, b.List(model.StatusTodo))
	assert.Equal(t, []string{a.ID}, ids(b.List(model.StatusDone)))

	// A drop from a stale source slot is rejected.
	err := b.ApplyDrop(board.DropEvent{
		Source:      board.DropPosition{Status: model.StatusTodo, Index: 0},
		Destination: &board.DropPosition{Status: model.StatusDone, Index: 0},
	})
	assert.ErrorIs(t, err, board.ErrIndexOutOfRange)
}

func TestResetClearsBoardAndLog(t *testing.T) {
	b, _, storage := newTestBoard(t)

	mustCreate(t, b, "one")
	mustCreate(t, b, "two")
	require.Positive(t, b.Activity().Len())

	b.Reset()

	assert.Equal(t, 0, b.TotalCount())
	assert.Equal(t, 0, b.Activity().Len())

	// The cleared state survives a reload from persistence.
	reloaded := board.New(storage, &stubIdentity{now: time.Now()}, zerolog.Nop())
	assert.Equal(t, 0, reloaded.TotalCount())
	assert.Equal(t, 0, reloaded.Activity().Len())
}

func TestPersistenceRoundtrip(t *testing.T) {
	b, id, storage := newTestBoard(t)

	due := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	task, err := b.Create("persisted", "body", model.PriorityLow, &due, []string{"x"})
	require.NoError(t, err)
	require.NoError(t, b.Move(task.ID, model.StatusTodo, 0, model.StatusDoing, 0))

	reloaded := board.New(storage, id, zerolog.Nop())

	doing := reloaded.List(model.StatusDoing)
	require.Len(t, doing, 1)
	assert.Equal(t, task.ID, doing[0].ID)
	assert.Equal(t, "persisted", doing[0].Title)
	assert.Equal(t, model.PriorityLow, doing[0].Priority)
	require.NotNil(t, doing[0].DueDate)
	assert.True(t, due.Equal(*doing[0].DueDate))
	assert.Equal(t, []string{"x"}, doing[0].Tags)

	entries := reloaded.Activity().Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, activity.ActionMoved, entries[0].Action)
	assert.Equal(t, activity.ActionCreated, entries[1].Action)
}

// TestBoardLifecycle walks the full create / move / delete flow.
func TestBoardLifecycle(t *testing.T) {
	b, _, _ := newTestBoard(t)

	task, err := b.Create("Write spec", "", model.PriorityHigh, nil, nil)
	require.NoError(t, err)

	todo := b.List(model.StatusTodo)
	require.Len(t, todo, 1)
	assert.Equal(t, task.ID, todo[0].ID)

	head := b.Activity().Recent(1)[0]
	assert.Equal(t, activity.ActionCreated, head.Action)
	assert.Equal(t, "Write spec", head.Title)

	require.NoError(t, b.Move(task.ID, model.StatusTodo, 0, model.StatusDoing, 0))
	assert.Empty(t, b.List(model.StatusTodo))
	assert.Equal(t, task.ID, b.List(model.StatusDoing)[0].ID)

	head = b.Activity().Recent(1)[0]
	assert.Equal(t, activity.ActionMoved, head.Action)
	assert.Equal(t, "Write spec", head.Title)

	require.NoError(t, b.Delete(task.ID))
	assert.Empty(t, b.List(model.StatusDoing))

	head = b.Activity().Recent(1)[0]
	assert.Equal(t, activity.ActionDeleted, head.Action)
	assert.Equal(t, "Write spec", head.Title)

	_, _, err = b.Find(task.ID)
	assert.True(t, errors.Is(err, board.ErrTaskNotFound))
}

// brokenStorage loads empty defaults and fails every write.
type brokenStorage struct{}

func (brokenStorage) LoadBoard() (model.BoardState, error)    { return model.EmptyBoard(), nil }
func (brokenStorage) SaveBoard(model.BoardState) error        { return errors.New("disk full") }
func (brokenStorage) LoadActivity() ([]activity.Entry, error) { return nil, nil }
func (brokenStorage) SaveActivity([]activity.Entry) error     { return errors.New("disk full") }
func (brokenStorage) GetFlag(string) (bool, error)            { return false, nil }
func (brokenStorage) SetFlag(string, bool) error              { return errors.New("disk full") }

// Write failures are surfaced in the log and swallowed; the in-memory
// board keeps working for the rest of the session.
func TestMutationsSurviveWriteFailures(t *testing.T) {
	id := &stubIdentity{now: time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)}
	b := board.New(brokenStorage{}, id, zerolog.Nop())

	task, err := b.Create("resilient", "", model.PriorityMedium, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, b.TotalCount())

	require.NoError(t, b.Move(task.ID, model.StatusTodo, 0, model.StatusDone, 0))
	assert.Equal(t, 1, b.DoneCount())
	assert.Equal(t, 2, b.Activity().Len())

	_, err = b.Edit(task.ID, "still resilient")
	require.NoError(t, err)

	require.NoError(t, b.Delete(task.ID))
	assert.Equal(t, 0, b.TotalCount())

	b.Reset()
	assert.Equal(t, 0, b.Activity().Len())
}

func ids(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}
