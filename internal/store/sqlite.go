package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/taskboard/internal/activity"
	"github.com/nhle/taskboard/internal/model"
)

// SQLiteStore implements the Storage interface with a local SQLite
// database holding whole-record key/value rows: the serialized board
// under KeyBoard and the serialized activity history under KeyActivity.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// LoadBoard hydrates the board record. A missing or malformed record
// yields an empty board rather than an error.
func (s *SQLiteStore) LoadBoard() (model.BoardState, error) {
	raw, ok, err := s.getRecord(KeyBoard)
	if err != nil {
		return model.EmptyBoard(), fmt.Errorf("loading board record: %w", err)
	}
	if !ok {
		return model.EmptyBoard(), nil
	}

	var state model.BoardState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		// Corrupt record: treat as absent.
		return model.EmptyBoard(), nil
	}
	state.Normalize()
	return state, nil
}

// SaveBoard replaces the board record with the full serialized state.
func (s *SQLiteStore) SaveBoard(state model.BoardState) error {
	state.Normalize()
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshaling board state: %w", err)
	}
	return s.setRecord(KeyBoard, string(raw))
}

// LoadActivity hydrates the activity history, newest first. A missing or
// malformed record yields an empty history.
func (s *SQLiteStore) LoadActivity() ([]activity.Entry, error) {
	raw, ok, err := s.getRecord(KeyActivity)
	if err != nil {
		return []activity.Entry{}, fmt.Errorf("loading activity record: %w", err)
	}
	if !ok {
		return []activity.Entry{}, nil
	}

	var entries []activity.Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return []activity.Entry{}, nil
	}
	if entries == nil {
		entries = []activity.Entry{}
	}
	return entries, nil
}

// SaveActivity replaces the activity record with the full history.
func (s *SQLiteStore) SaveActivity(entries []activity.Entry) error {
	if entries == nil {
		entries = []activity.Entry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling activity log: %w", err)
	}
	return s.setRecord(KeyActivity, string(raw))
}

// GetFlag reads a boolean record. Absent or unparseable flags read false.
func (s *SQLiteStore) GetFlag(key string) (bool, error) {
	raw, ok, err := s.getRecord(key)
	if err != nil {
		return false, fmt.Errorf("loading flag %q: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	return raw == "true", nil
}

// SetFlag writes a boolean record.
func (s *SQLiteStore) SetFlag(key string, value bool) error {
	raw := "false"
	if value {
		raw = "true"
	}
	return s.setRecord(key, raw)
}

// getRecord returns the raw value for key and whether the record exists.
func (s *SQLiteStore) getRecord(key string) (string, bool, error) {
	var value string
	err := s.db.Get(&value, "SELECT value FROM records WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading record %q: %w", key, err)
	}
	return value, true, nil
}

// setRecord inserts or replaces the record for key.
func (s *SQLiteStore) setRecord(key, value string) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO records (key, value, updated_at)
		VALUES (?, ?, ?)`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("writing record %q: %w", key, err)
	}
	return nil
}
