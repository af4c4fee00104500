package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"digital.vasic.challengegame/pkg/game"
)

const schema = `
CREATE TABLE IF NOT EXISTS game_states (
	slot       TEXT PRIMARY KEY,
	version    INTEGER NOT NULL,
	state_json BLOB NOT NULL,
	saved_at   INTEGER NOT NULL
)`

// SQLiteStore keeps states in a SQLite database, one row per save
// slot.
type SQLiteStore struct {
	db   *sql.DB
	slot string
}

// OpenSQLite opens (creating if needed) the database at path and
// binds the store to slot.
func OpenSQLite(ctx context.Context, path, slot string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, newError("open", ErrAccess, errors.New("storage path is required"))
	}
	if strings.TrimSpace(slot) == "" {
		return nil, newError("open", ErrAccess, errors.New("save slot is required"))
	}

	dsn := filepath.Clean(path) +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, newError("open", ErrIO, fmt.Errorf("open sqlite db: %w", err))
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, newError("open", ErrIO, fmt.Errorf("ping sqlite db: %w", err))
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, newError("open", ErrIO, fmt.Errorf("create schema: %w", err))
	}
	return &SQLiteStore{db: db, slot: slot}, nil
}

// Close releases the underlying connection.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Slot returns the save slot this store reads and writes.
func (s *SQLiteStore) Slot() string { return s.slot }

// SaveGameState implements GameStatePersistence.
func (s *SQLiteStore) SaveGameState(ctx context.Context, state *game.GameState) error {
	data, err := Encode(state)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO game_states (slot, version, state_json, saved_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET
		   version = excluded.version,
		   state_json = excluded.state_json,
		   saved_at = excluded.saved_at`,
		s.slot, formatVersion, data, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return newError("save", ErrIO, err)
	}
	return nil
}

// LoadGameState implements GameStatePersistence.
func (s *SQLiteStore) LoadGameState(ctx context.Context) (*game.GameState, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT state_json FROM game_states WHERE slot = ?`, s.slot,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, newError("load", ErrStateNotFound, nil)
	}
	if err != nil {
		return nil, newError("load", ErrIO, err)
	}
	return Decode(data)
}

// Slots lists every save slot in the database.
func (s *SQLiteStore) Slots(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT slot FROM game_states ORDER BY slot`)
	if err != nil {
		return nil, newError("slots", ErrIO, err)
	}
	defer rows.Close()

	var slots []string
	for rows.Next() {
		var slot string
		if err := rows.Scan(&slot); err != nil {
			return nil, newError("slots", ErrIO, err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, newError("slots", ErrIO, err)
	}
	return slots, nil
}

// Delete removes the bound slot. Deleting a missing slot is not an
// error.
func (s *SQLiteStore) Delete(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM game_states WHERE slot = ?`, s.slot); err != nil {
		return newError("delete", ErrIO, err)
	}
	return nil
}

// WithSlot returns a store sharing the connection but bound to
// another slot.
func (s *SQLiteStore) WithSlot(slot string) *SQLiteStore {
	return &SQLiteStore{db: s.db, slot: slot}
}
