// Package metrics records counters about commands, events and
// answers handled by the game controller.
package metrics

import "time"

// GameMetrics defines the interface for recording game metrics.
type GameMetrics interface {
	// RecordCommand records one executed command and whether it
	// succeeded.
	RecordCommand(name string, ok bool, duration time.Duration)
	// RecordEvent records one published event.
	RecordEvent(eventType string)
	// RecordSolve records one judged answer for a challenge kind.
	RecordSolve(kind string, correct bool)
	// SetActiveChallenges sets the gauge of in-progress challenges.
	SetActiveChallenges(count int)
}

// NoopMetrics is a no-op implementation of GameMetrics useful for
// testing or when metrics collection is disabled.
type NoopMetrics struct{}

func (NoopMetrics) RecordCommand(_ string, _ bool, _ time.Duration) {}
func (NoopMetrics) RecordEvent(_ string)                            {}
func (NoopMetrics) RecordSolve(_ string, _ bool)                    {}
func (NoopMetrics) SetActiveChallenges(_ int)                       {}
