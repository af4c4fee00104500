// Package game holds the player's game state and the controller
// that is its only mutator. Every command runs against a copy of
// the state; the copy replaces the live state only when the whole
// command succeeds, and the events describing the transition are
// published afterwards in the order their sub-steps happened.
package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"digital.vasic.challengegame/pkg/challenge"
	"digital.vasic.challengegame/pkg/command"
	"digital.vasic.challengegame/pkg/event"
	"digital.vasic.challengegame/pkg/logging"
	"digital.vasic.challengegame/pkg/metrics"
)

// Controller executes commands against one GameState.
//
// Execute must not be called concurrently for the same controller;
// callers serialize commands per player session. State may be
// called from any goroutine.
type Controller struct {
	mu    sync.RWMutex
	state GameState

	bus     *event.Bus
	now     func() time.Time
	newID   func() string
	logger  logging.Logger
	metrics metrics.GameMetrics
}

// Option configures a Controller.
type Option func(*Controller)

// WithBus publishes events on b instead of a private bus.
func WithBus(b *event.Bus) Option {
	return func(c *Controller) {
		if b != nil {
			c.bus = b
		}
	}
}

// WithClock sets the time source for timestamps and time limits.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m metrics.GameMetrics) Option {
	return func(c *Controller) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithEventIDs sets the generator of event identifiers.
func WithEventIDs(gen func() string) Option {
	return func(c *Controller) {
		if gen != nil {
			c.newID = gen
		}
	}
}

// NewController takes a copy of state and returns a controller for
// it. A nil state starts an empty game with no path.
func NewController(state *GameState, opts ...Option) *Controller {
	c := &Controller{
		state:   GameState{Active: NoActive},
		now:     func() time.Time { return time.Now().UTC().Round(0) },
		newID:   uuid.NewString,
		logger:  logging.NullLogger{},
		metrics: metrics.NoopMetrics{},
	}
	if state != nil {
		c.state = state.Clone()
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.bus == nil {
		c.bus = event.NewBus(event.WithLogger(c.logger))
	}
	return c
}

// Bus returns the bus events are published on.
func (c *Controller) Bus() *event.Bus { return c.bus }

// State returns a deep copy of the current state.
func (c *Controller) State() GameState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Clone()
}

// Execute applies one command. On failure the state is unchanged
// and nothing is published. On success the new state is committed
// before the first event is delivered.
func (c *Controller) Execute(cmd command.Command) error {
	if cmd == nil {
		return fmt.Errorf("%w: nil command", ErrInvalidGameState)
	}
	begin := time.Now()

	c.mu.RLock()
	next := c.state.Clone()
	c.mu.RUnlock()

	tx := &transition{state: &next, now: c.now().UTC()}
	var err error
	switch cmd := cmd.(type) {
	case command.GameCommand:
		err = tx.navigate(cmd)
	case command.ChallengeCommand:
		err = tx.act(cmd)
	default:
		err = fmt.Errorf("%w: unsupported command %T", ErrInvalidGameState, cmd)
	}

	c.metrics.RecordCommand(cmd.Name(), err == nil, time.Since(begin))
	log := c.logger.WithFields(
		logging.CommandField(command.Describe(cmd)),
		logging.IndexField(next.Position),
	)
	if err != nil {
		log.Warn("command rejected", logging.ErrorField(err))
		return err
	}

	c.mu.Lock()
	c.state = next
	c.mu.Unlock()

	for _, s := range tx.solves {
		c.metrics.RecordSolve(string(s.kind), s.correct)
	}
	c.metrics.SetActiveChallenges(next.inProgress())
	log.Debug("command executed", logging.IntField("events", len(tx.events)))

	for _, e := range tx.events {
		e = event.WithID(e, c.newID())
		c.metrics.RecordEvent(string(e.EventType()))
		c.bus.Publish(e)
	}
	return nil
}

type solve struct {
	kind    challenge.Kind
	correct bool
}

// transition accumulates the effects of one command on a private
// copy of the state.
type transition struct {
	state  *GameState
	now    time.Time
	events []event.Event
	solves []solve
}

func (tx *transition) emit(e event.Event) {
	tx.events = append(tx.events, e)
}

func (tx *transition) navigate(cmd command.GameCommand) error {
	s := tx.state
	n := len(s.Challenges)
	if n == 0 {
		return ErrGamePathNotFound
	}
	if active, ok := s.ActiveChallenge(); ok {
		return fmt.Errorf(
			"%w: challenge %s at index %d is in progress",
			ErrInvalidGameState, active.ID, s.Active,
		)
	}

	from := s.Position
	var (
		to   int
		move func(from, to int, at time.Time) event.GameEvent
	)
	switch cmd.Type {
	case command.NextChallenge:
		to, move = from+1, event.NextTask
	case command.PreviousChallenge:
		to, move = from-1, event.PreviousTask
	case command.SelectChallenge:
		to, move = cmd.Index, event.SelectTask
	default:
		return fmt.Errorf("%w: unknown game command %q", ErrInvalidGameState, cmd.Type)
	}
	if to < 0 || to >= n {
		return fmt.Errorf("%w: index %d, path has %d", ErrChallengeNotFound, to, n)
	}

	s.Position = to
	tx.emit(move(from, to, tx.now))
	return nil
}

func (tx *transition) act(cmd command.ChallengeCommand) error {
	s := tx.state
	if len(s.Challenges) == 0 {
		return ErrGamePathNotFound
	}
	idx := s.Position
	ch, ok := s.Current()
	if !ok {
		return fmt.Errorf("%w: index %d", ErrChallengeNotFound, idx)
	}
	if s.Active != NoActive && s.Active != idx {
		return fmt.Errorf(
			"%w: challenge at index %d is in progress",
			ErrInvalidGameState, s.Active,
		)
	}
	wrap := func(err error) error {
		return &ChallengeError{Index: idx, ChallengeID: ch.ID, Err: err}
	}

	switch cmd.Type {
	case command.StartChallenge:
		return tx.start(idx, ch, wrap)

	case command.SolveOption:
		if ch.Status != challenge.StatusInProgress &&
			ch.Status != challenge.StatusFinished {
			if err := tx.start(idx, ch, wrap); err != nil {
				return err
			}
		}
		attempt, err := ch.Solve(idx, cmd.Input, tx.now)
		if err != nil {
			return wrap(err)
		}
		tx.solves = append(tx.solves, solve{kind: ch.Kind, correct: attempt.Correct})
		if attempt.Correct {
			tx.emit(event.SolvedCorrect(idx, ch.ID, tx.now))
		} else {
			tx.emit(event.SolvedIncorrect(idx, ch.ID, tx.now))
		}
		if attempt.Finished {
			tx.finish(idx, *attempt.Result)
		}
		return nil

	case command.AbandonChallenge:
		r, err := ch.Abandon(idx, tx.now)
		if err != nil {
			return wrap(err)
		}
		tx.emit(event.Abandoned(idx, ch.ID, tx.now))
		tx.finish(idx, r)
		return nil
	}
	return fmt.Errorf("%w: unknown challenge command %q", ErrInvalidGameState, cmd.Type)
}

func (tx *transition) start(
	idx int,
	ch *challenge.Challenge,
	wrap func(error) error,
) error {
	if err := ch.Start(tx.now); err != nil {
		return wrap(err)
	}
	tx.state.Active = idx
	tx.emit(event.Started(idx, ch.ID, tx.now))
	return nil
}

// finish records the result, clears the active slot and moves the
// cursor on when there is a next challenge.
func (tx *transition) finish(idx int, r challenge.Result) {
	s := tx.state
	s.Results = append(s.Results, r)
	s.Active = NoActive
	tx.emit(event.Finish(r, tx.now))

	if idx+1 < len(s.Challenges) {
		s.Position = idx + 1
		tx.emit(event.NextTask(idx, idx+1, tx.now))
	}
}
