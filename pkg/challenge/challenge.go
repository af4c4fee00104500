// Package challenge models the tasks a player attempts on a game
// map: their content, the inputs a player submits, the results
// recorded once a task is finished, and the per-kind logic that
// decides whether an input solves a task.
package challenge

import (
	"fmt"
	"time"
)

// ID uniquely identifies a challenge.
type ID string

// Kind names one of the closed set of challenge variants.
type Kind string

const (
	KindMultipleChoice Kind = "multiple_choice"
	KindSortTable      Kind = "sort_table"
	KindCustom         Kind = "custom"
)

// Valid reports whether k is a known challenge kind.
func (k Kind) Valid() bool {
	switch k {
	case KindMultipleChoice, KindSortTable, KindCustom:
		return true
	}
	return false
}

// Status is the lifecycle position of a challenge.
type Status string

// A challenge moves NotStarted -> InProgress -> Finished. Finished
// is terminal.
const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusFinished   Status = "finished"
)

// Solvable is implemented by every challenge kind payload. Solve
// reports whether the input is a correct answer, or fails with a
// challenge-specific error when the input cannot be judged.
type Solvable interface {
	Solve(in Input) (bool, error)
}

// Challenge is a single task instance on the game path. It carries
// exactly one kind payload matching Kind, the player's progress and
// the attempt timing.
type Challenge struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Kind        Kind   `json:"kind"`

	// MaxAttempts finishes the challenge unsolved once this many
	// incorrect answers were given. Zero means unlimited.
	MaxAttempts int `json:"max_attempts,omitempty"`

	MultipleChoice *MultipleChoice `json:"multiple_choice,omitempty"`
	SortTable      *SortTable      `json:"sort_table,omitempty"`
	Custom         *Custom         `json:"custom,omitempty"`

	Status   Status   `json:"status"`
	Progress Progress `json:"progress"`
	Timing
}

// Attempt describes the effect of one Solve call.
type Attempt struct {
	Correct  bool
	Finished bool

	// Result is set once the attempt finished the challenge.
	Result *Result
}

// Solvable returns the kind payload that decides answers for this
// challenge.
func (c *Challenge) Solvable() (Solvable, error) {
	var s Solvable
	switch c.Kind {
	case KindMultipleChoice:
		if c.MultipleChoice != nil {
			s = c.MultipleChoice
		}
	case KindSortTable:
		if c.SortTable != nil {
			s = c.SortTable
		}
	case KindCustom:
		if c.Custom != nil {
			s = c.Custom
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, c.Kind)
	}
	if s == nil {
		return nil, fmt.Errorf(
			"%w: challenge %s has no %s payload",
			ErrMissingPayload, c.ID, c.Kind,
		)
	}
	return s, nil
}

// Start moves a NotStarted challenge to InProgress and records the
// start timestamp.
func (c *Challenge) Start(now time.Time) error {
	switch c.Status {
	case StatusInProgress:
		return fmt.Errorf("%w: %s", ErrAlreadyStarted, c.ID)
	case StatusFinished:
		return fmt.Errorf("%w: %s", ErrFinished, c.ID)
	}
	if _, err := c.Solvable(); err != nil {
		return err
	}
	c.Status = StatusInProgress
	c.Timing.start(now)
	return nil
}

// Solve judges an input against an in-progress challenge. Nothing
// is mutated when an error is returned. A correct answer, or an
// incorrect one that exhausts MaxAttempts, finishes the challenge
// and produces its Result; index is the challenge's position on
// the game path.
func (c *Challenge) Solve(
	index int,
	in Input,
	now time.Time,
) (Attempt, error) {
	switch c.Status {
	case StatusInProgress:
	case StatusFinished:
		return Attempt{}, fmt.Errorf("%w: %s", ErrFinished, c.ID)
	default:
		return Attempt{}, fmt.Errorf("%w: %s", ErrNotStarted, c.ID)
	}
	if in.Kind != c.Kind {
		return Attempt{}, fmt.Errorf(
			"%w: challenge %s expects %s, got %s",
			ErrKindMismatch, c.ID, c.Kind, in.Kind,
		)
	}
	if c.Timing.Expired(now) {
		return Attempt{}, fmt.Errorf(
			"%w: %s after %s",
			ErrTimeLimitExceeded, c.ID, c.TimeLimit,
		)
	}

	solver, err := c.Solvable()
	if err != nil {
		return Attempt{}, err
	}
	correct, err := solver.Solve(in)
	if err != nil {
		return Attempt{}, err
	}

	c.Progress.record(correct)
	attempt := Attempt{Correct: correct}

	exhausted := c.MaxAttempts > 0 &&
		c.Progress.Incorrect >= c.MaxAttempts
	if correct || exhausted {
		r := c.finish(index, now, correct, false)
		r.setPayload(in)
		attempt.Finished = true
		attempt.Result = &r
	}
	return attempt, nil
}

// Abandon finishes an in-progress challenge without solving it.
func (c *Challenge) Abandon(index int, now time.Time) (Result, error) {
	if c.Status != StatusInProgress {
		return Result{}, fmt.Errorf(
			"%w: %s is %s", ErrNotInProgress, c.ID, c.Status,
		)
	}
	return c.finish(index, now, false, true), nil
}

func (c *Challenge) finish(
	index int,
	now time.Time,
	solved, abandoned bool,
) Result {
	c.Status = StatusFinished
	c.Timing.end(now)
	return Result{
		Index:       index,
		ChallengeID: c.ID,
		Kind:        c.Kind,
		Solved:      solved,
		Abandoned:   abandoned,
		Attempts:    c.Progress.Attempts,
		Correct:     c.Progress.Correct,
		Incorrect:   c.Progress.Incorrect,
		StartedAt:   c.StartedAt,
		FinishedAt:  c.EndedAt,
		Duration:    c.Timing.Elapsed(now),
	}
}

// Clone returns a deep copy of the challenge.
func (c Challenge) Clone() Challenge {
	out := c
	if c.MultipleChoice != nil {
		mc := c.MultipleChoice.clone()
		out.MultipleChoice = &mc
	}
	if c.SortTable != nil {
		st := c.SortTable.clone()
		out.SortTable = &st
	}
	if c.Custom != nil {
		cu := c.Custom.clone()
		out.Custom = &cu
	}
	return out
}
