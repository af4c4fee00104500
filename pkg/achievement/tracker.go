package achievement

import (
	"sync"

	"digital.vasic.challengegame/pkg/event"
	"digital.vasic.challengegame/pkg/logging"
	"digital.vasic.challengegame/pkg/statistic"
)

// Tracker re-evaluates achievements whenever a challenge finishes
// and reports the ones unlocked for the first time. Subscribe its
// Handle method to the game's event bus.
type Tracker struct {
	mu        sync.Mutex
	evaluator *Evaluator
	defs      []Definition
	provider  statistic.Provider
	unlocked  map[string]bool
	onUnlock  func([]Definition)
	logger    logging.Logger
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// OnUnlock sets the callback receiving newly unlocked definitions.
func OnUnlock(fn func([]Definition)) TrackerOption {
	return func(t *Tracker) { t.onUnlock = fn }
}

// WithTrackerLogger sets the logger.
func WithTrackerLogger(l logging.Logger) TrackerOption {
	return func(t *Tracker) {
		if l != nil {
			t.logger = l
		}
	}
}

// NewTracker creates a tracker over defs. The provider should be
// live so every evaluation sees the latest history.
func NewTracker(
	ev *Evaluator,
	defs []Definition,
	p statistic.Provider,
	opts ...TrackerOption,
) *Tracker {
	t := &Tracker{
		evaluator: ev,
		defs:      defs,
		provider:  p,
		unlocked:  make(map[string]bool),
		logger:    logging.NullLogger{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Prime marks everything that already holds as unlocked without
// reporting it. Use it when resuming a saved game.
func (t *Tracker) Prime() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, d := range t.evaluator.Evaluate(t.defs, t.provider) {
		t.unlocked[d.ID] = true
	}
}

// Handle is an event.Handler. Only Finish events trigger an
// evaluation.
func (t *Tracker) Handle(e event.Event) error {
	if e.EventType() != event.TypeFinish {
		return nil
	}
	fresh := t.Refresh()
	if len(fresh) > 0 && t.onUnlock != nil {
		t.onUnlock(fresh)
	}
	return nil
}

// Refresh evaluates now and returns the definitions unlocked since
// the last evaluation.
func (t *Tracker) Refresh() []Definition {
	t.mu.Lock()
	defer t.mu.Unlock()

	var fresh []Definition
	for _, d := range t.evaluator.Evaluate(t.defs, t.provider) {
		if t.unlocked[d.ID] {
			continue
		}
		t.unlocked[d.ID] = true
		fresh = append(fresh, d)
		t.logger.Info("achievement unlocked",
			logging.StringField("achievement", d.ID),
		)
	}
	return fresh
}

// Unlocked returns every unlocked definition in definition order.
func (t *Tracker) Unlocked() []Definition {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []Definition
	for _, d := range t.defs {
		if t.unlocked[d.ID] {
			out = append(out, d)
		}
	}
	return out
}
