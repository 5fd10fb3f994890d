package session_test

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskboard/internal/activity"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/session"
	"github.com/nhle/taskboard/tests/testutil"
)

const username = "intern@demo.com"

// fakeCredentials is an in-memory CredentialStore.
type fakeCredentials struct {
	values map[string]string
}

func newFakeCredentials() *fakeCredentials {
	return &fakeCredentials{values: make(map[string]string)}
}

func (f *fakeCredentials) Get(key string) (string, error) {
	v, ok := f.values[key]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}

func (f *fakeCredentials) Set(key, value string) error {
	f.values[key] = value
	return nil
}

func TestFirstLoginEnrollsPassword(t *testing.T) {
	storage := testutil.NewTestStore(t)
	creds := newFakeCredentials()
	gate := session.NewGate(storage, creds, username, zerolog.Nop())

	assert.False(t, gate.IsAuthenticated())

	require.NoError(t, gate.Login(username, "hunter2"))
	assert.True(t, gate.IsAuthenticated())
	assert.Equal(t, "hunter2", creds.values["login-password"])

	// Later logins must match the enrolled password.
	gate.Logout()
	assert.ErrorIs(t, gate.Login(username, "wrong"), session.ErrBadCredentials)
	assert.False(t, gate.IsAuthenticated())

	require.NoError(t, gate.Login(username, "hunter2"))
	assert.True(t, gate.IsAuthenticated())
}

func TestLoginRejectsBadInput(t *testing.T) {
	storage := testutil.NewTestStore(t)
	gate := session.NewGate(storage, newFakeCredentials(), username, zerolog.Nop())

	assert.ErrorIs(t, gate.Login("someone@else.com", "hunter2"), session.ErrBadCredentials)
	assert.ErrorIs(t, gate.Login(username, ""), session.ErrBadCredentials)
	assert.False(t, gate.IsAuthenticated())
}

func TestLoginEmailIsCaseInsensitive(t *testing.T) {
	storage := testutil.NewTestStore(t)
	gate := session.NewGate(storage, newFakeCredentials(), username, zerolog.Nop())

	require.NoError(t, gate.Login("  Intern@Demo.COM ", "hunter2"))
	assert.True(t, gate.IsAuthenticated())
}

// brokenStorage loads empty defaults and fails every write.
type brokenStorage struct{}

func (brokenStorage) LoadBoard() (model.BoardState, error)    { return model.EmptyBoard(), nil }
func (brokenStorage) SaveBoard(model.BoardState) error        { return errors.New("disk full") }
func (brokenStorage) LoadActivity() ([]activity.Entry, error) { return nil, nil }
func (brokenStorage) SaveActivity([]activity.Entry) error     { return errors.New("disk full") }
func (brokenStorage) GetFlag(string) (bool, error)            { return false, errors.New("disk full") }
func (brokenStorage) SetFlag(string, bool) error              { return errors.New("disk full") }

// Flag persistence is best-effort; a broken store never blocks login or
// logout, only restart survival.
func TestSessionSurvivesFlagWriteFailures(t *testing.T) {
	gate := session.NewGate(brokenStorage{}, newFakeCredentials(), username, zerolog.Nop())
	assert.False(t, gate.IsAuthenticated())

	require.NoError(t, gate.Login(username, "hunter2"))
	assert.True(t, gate.IsAuthenticated())

	gate.Logout()
	assert.False(t, gate.IsAuthenticated())
}

func TestSessionFlagSurvivesRestart(t *testing.T) {
	storage := testutil.NewTestStore(t)
	creds := newFakeCredentials()

	gate := session.NewGate(storage, creds, username, zerolog.Nop())
	require.NoError(t, gate.Login(username, "hunter2"))

	// A new gate over the same storage restores the open session.
	restored := session.NewGate(storage, creds, username, zerolog.Nop())
	assert.True(t, restored.IsAuthenticated())

	restored.Logout()
	again := session.NewGate(storage, creds, username, zerolog.Nop())
	assert.False(t, again.IsAuthenticated())
}
