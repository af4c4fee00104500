// Package persistence saves and restores a GameState. Every store
// is safe for concurrent use: a load never observes a half-written
// save, and concurrent saves resolve as last writer wins.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"digital.vasic.challengegame/pkg/game"
)

// GameStatePersistence is the contract a storage backend
// satisfies.
type GameStatePersistence interface {
	SaveGameState(ctx context.Context, state *game.GameState) error
	LoadGameState(ctx context.Context) (*game.GameState, error)
}

// Failure kinds. An *Error wraps exactly one of them.
var (
	ErrIO            = errors.New("storage i/o failure")
	ErrSerialization = errors.New("state serialization failure")
	ErrStateNotFound = errors.New("no saved game state")
	ErrAccess        = errors.New("storage access denied")
)

// Error records a failed store operation.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

// Unwrap exposes the kind and the cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(op string, kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// classify maps an operating system error to a failure kind.
func classify(op string, err error) *Error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return newError(op, ErrStateNotFound, err)
	case errors.Is(err, fs.ErrPermission):
		return newError(op, ErrAccess, err)
	default:
		return newError(op, ErrIO, err)
	}
}

// formatVersion is bumped when the stored layout changes.
const formatVersion = 1

type document struct {
	Version int             `json:"version"`
	SavedAt time.Time       `json:"saved_at"`
	State   *game.GameState `json:"state"`
}

// Encode renders a state in its stored form.
func Encode(state *game.GameState) ([]byte, error) {
	if state == nil {
		return nil, newError("encode", ErrSerialization, errors.New("nil state"))
	}
	data, err := json.Marshal(document{
		Version: formatVersion,
		SavedAt: time.Now().UTC(),
		State:   state,
	})
	if err != nil {
		return nil, newError("encode", ErrSerialization, err)
	}
	return data, nil
}

// Decode parses the stored form and checks the state's invariants.
func Decode(data []byte) (*game.GameState, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, newError("decode", ErrSerialization, err)
	}
	if doc.Version != formatVersion {
		return nil, newError("decode", ErrSerialization,
			fmt.Errorf("unsupported format version %d", doc.Version))
	}
	if doc.State == nil {
		return nil, newError("decode", ErrSerialization, errors.New("missing state"))
	}
	if err := doc.State.Validate(); err != nil {
		return nil, newError("decode", ErrSerialization, err)
	}
	return doc.State, nil
}

func checkContext(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return newError(op, ErrIO, err)
	}
	return nil
}
