package persistence

import (
	"context"
	"sync"

	"digital.vasic.challengegame/pkg/event"
	"digital.vasic.challengegame/pkg/game"
	"digital.vasic.challengegame/pkg/logging"
)

// Autosaver saves the game after every published event without
// blocking the publisher. Handle only records the latest snapshot;
// a background goroutine writes it. When saves fall behind, only
// the newest pending snapshot is written.
type Autosaver struct {
	store    GameStatePersistence
	snapshot func() game.GameState
	logger   logging.Logger
	ctx      context.Context

	mu      sync.Mutex
	pending *game.GameState
	closed  bool
	saves   int
	lastErr error

	wake chan struct{}
	done chan struct{}
}

// AutosaveOption configures an Autosaver.
type AutosaveOption func(*Autosaver)

// WithAutosaveLogger sets the logger save failures are reported to.
func WithAutosaveLogger(l logging.Logger) AutosaveOption {
	return func(a *Autosaver) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAutosaver starts the background writer. snapshot is called
// from Handle and must return a copy of the current state, such as
// game.Controller.State. ctx bounds every save.
func NewAutosaver(
	ctx context.Context,
	store GameStatePersistence,
	snapshot func() game.GameState,
	opts ...AutosaveOption,
) *Autosaver {
	a := &Autosaver{
		store:    store,
		snapshot: snapshot,
		logger:   logging.NullLogger{},
		ctx:      ctx,
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	go a.run()
	return a
}

// Handle is an event.Handler.
func (a *Autosaver) Handle(e event.Event) error {
	s := a.snapshot()

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.pending = &s
	select {
	case a.wake <- struct{}{}:
	default:
	}
	return nil
}

func (a *Autosaver) run() {
	defer close(a.done)
	for range a.wake {
		a.flush()
	}
	a.flush()
}

func (a *Autosaver) flush() {
	a.mu.Lock()
	s := a.pending
	a.pending = nil
	a.mu.Unlock()
	if s == nil {
		return
	}

	err := a.store.SaveGameState(a.ctx, s)

	a.mu.Lock()
	a.saves++
	a.lastErr = err
	a.mu.Unlock()
	if err != nil {
		a.logger.Error("autosave failed", logging.ErrorField(err))
		return
	}
	a.logger.Debug("game saved",
		logging.IntField("position", s.Position),
		logging.IntField("results", len(s.Results)),
	)
}

// Close stops accepting snapshots, writes any pending one and
// waits for the writer to exit. It returns the error of the last
// save attempt.
func (a *Autosaver) Close() error {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.wake)
	}
	a.mu.Unlock()

	<-a.done

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// Saves returns how many save attempts were made.
func (a *Autosaver) Saves() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.saves
}
