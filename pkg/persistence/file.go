package persistence

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"digital.vasic.challengegame/pkg/game"
)

// FileStore keeps the state in one JSON file. Saves write a
// temporary file next to the target and rename it into place.
type FileStore struct {
	mu   sync.RWMutex
	path string
}

// NewFileStore creates a store backed by path. The file is created
// on the first save.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, newError("open", ErrAccess, errors.New("store path is required"))
	}
	return &FileStore{path: filepath.Clean(path)}, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

// SaveGameState implements GameStatePersistence.
func (s *FileStore) SaveGameState(ctx context.Context, state *game.GameState) error {
	if err := checkContext(ctx, "save"); err != nil {
		return err
	}
	data, err := Encode(state)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return classify("save", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return classify("save", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return classify("save", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return classify("save", err)
	}
	if err := tmp.Close(); err != nil {
		return classify("save", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return classify("save", err)
	}
	return nil
}

// LoadGameState implements GameStatePersistence.
func (s *FileStore) LoadGameState(ctx context.Context) (*game.GameState, error) {
	if err := checkContext(ctx, "load"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	data, err := os.ReadFile(s.path)
	s.mu.RUnlock()
	if err != nil {
		return nil, classify("load", err)
	}
	return Decode(data)
}
