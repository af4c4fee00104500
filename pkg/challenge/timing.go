package challenge

import "time"

// Timing is the timed capability of a challenge: when the attempt
// started, when it ended and an optional limit on its length.
type Timing struct {
	// TimeLimit rejects answers submitted after the limit has
	// elapsed. Zero means untimed.
	TimeLimit time.Duration `json:"time_limit,omitempty"`

	StartedAt time.Time `json:"started_at,omitzero"`
	EndedAt   time.Time `json:"ended_at,omitzero"`
}

// Timed reports whether a time limit applies.
func (t Timing) Timed() bool { return t.TimeLimit > 0 }

// Elapsed returns the attempt duration. Before the attempt starts
// it is zero; while running it is measured against now.
func (t Timing) Elapsed(now time.Time) time.Duration {
	if t.StartedAt.IsZero() {
		return 0
	}
	if !t.EndedAt.IsZero() {
		return t.EndedAt.Sub(t.StartedAt)
	}
	return now.Sub(t.StartedAt)
}

// Remaining returns the time left before the limit expires, or
// zero for untimed or expired attempts.
func (t Timing) Remaining(now time.Time) time.Duration {
	if !t.Timed() {
		return 0
	}
	left := t.TimeLimit - t.Elapsed(now)
	if left < 0 {
		return 0
	}
	return left
}

// Expired reports whether a running timed attempt is past its
// limit.
func (t Timing) Expired(now time.Time) bool {
	return t.Timed() && !t.StartedAt.IsZero() &&
		t.Elapsed(now) > t.TimeLimit
}

func (t *Timing) start(now time.Time) {
	t.StartedAt = now
	t.EndedAt = time.Time{}
}

func (t *Timing) end(now time.Time) {
	if t.StartedAt.IsZero() {
		t.StartedAt = now
	}
	t.EndedAt = now
}
