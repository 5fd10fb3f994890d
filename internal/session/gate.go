package session

import (
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nhle/taskboard/internal/credential"
	"github.com/nhle/taskboard/internal/store"
)

// passwordKey is the keyring entry holding the login password.
const passwordKey = "login-password"

// ErrBadCredentials is returned for any rejected login attempt.
var ErrBadCredentials = errors.New("invalid email or password")

// CredentialStore reads and writes the stored login secret.
type CredentialStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// KeyringCredentials backs CredentialStore with the system keyring.
type KeyringCredentials struct{}

func (KeyringCredentials) Get(key string) (string, error) { return credential.Get(key) }
func (KeyringCredentials) Set(key, value string) error    { return credential.Set(key, value) }

// Gate is the single process-wide authenticated/not-authenticated flag
// checked before the board is reachable. The flag survives restarts via
// the storage record; it does not distinguish users.
type Gate struct {
	storage  store.Storage
	creds    CredentialStore
	username string
	authed   bool
	logger   zerolog.Logger
}

// NewGate builds a gate for the configured account, restoring the
// session flag from storage.
func NewGate(storage store.Storage, creds CredentialStore, username string, logger zerolog.Logger) *Gate {
	authed, err := storage.GetFlag(store.KeyAuth)
	if err != nil {
		logger.Warn().Err(err).Msg("reading session flag")
		authed = false
	}

	return &Gate{
		storage:  storage,
		creds:    creds,
		username: username,
		authed:   authed,
		logger:   logger,
	}
}

// IsAuthenticated reports whether the board is reachable.
func (g *Gate) IsAuthenticated() bool {
	return g.authed
}

// Login verifies the email and password and opens the session. The first
// successful login enrolls its password as the stored credential; later
// logins must match it.
func (g *Gate) Login(email, password string) error {
	if !strings.EqualFold(strings.TrimSpace(email), g.username) {
		return ErrBadCredentials
	}
	if password == "" {
		return ErrBadCredentials
	}

	stored, err := g.creds.Get(passwordKey)
	if err != nil || stored == "" {
		// No credential enrolled yet.
		if err := g.creds.Set(passwordKey, password); err != nil {
			g.logger.Warn().Err(err).Msg("storing login credential")
		}
	} else if stored != password {
		return ErrBadCredentials
	}

	g.setFlag(true)
	return nil
}

// Logout closes the session.
func (g *Gate) Logout() {
	g.setFlag(false)
}

// setFlag updates the in-memory flag and persists it best-effort.
func (g *Gate) setFlag(value bool) {
	g.authed = value
	if err := g.storage.SetFlag(store.KeyAuth, value); err != nil {
		g.logger.Warn().Err(err).Msg("saving session flag")
	}
}
