package game

import (
	"errors"
	"fmt"
	"slices"

	"digital.vasic.challengegame/pkg/challenge"
)

// NoActive marks a GameState with no challenge in progress.
const NoActive = -1

// GameState is the mutable record of one player's progress through
// a game path. Only a Controller mutates it.
type GameState struct {
	// MapID names the map the path was built from.
	MapID string `json:"map_id"`

	// Position is the cursor over Challenges.
	Position int `json:"position"`

	// Challenges is the game path, in play order.
	Challenges []challenge.Challenge `json:"challenges"`

	// Active is the index of the in-progress challenge, or
	// NoActive.
	Active int `json:"active"`

	// Results holds one entry per finished challenge, in the
	// order they finished.
	Results []challenge.Result `json:"results"`
}

// NewGameState creates a fresh state over the given path with the
// cursor on the first challenge.
func NewGameState(mapID string, path []challenge.Challenge) *GameState {
	s := &GameState{
		MapID:  mapID,
		Active: NoActive,
	}
	for _, c := range path {
		s.Challenges = append(s.Challenges, c.Clone())
	}
	return s
}

// Clone returns a deep copy.
func (s GameState) Clone() GameState {
	out := s
	if s.Challenges != nil {
		out.Challenges = make([]challenge.Challenge, len(s.Challenges))
		for i, c := range s.Challenges {
			out.Challenges[i] = c.Clone()
		}
	}
	if s.Results != nil {
		out.Results = make([]challenge.Result, len(s.Results))
		for i, r := range s.Results {
			out.Results[i] = r.Clone()
		}
	}
	return out
}

// Current returns the challenge under the cursor.
func (s *GameState) Current() (*challenge.Challenge, bool) {
	if s.Position < 0 || s.Position >= len(s.Challenges) {
		return nil, false
	}
	return &s.Challenges[s.Position], true
}

// ActiveChallenge returns the in-progress challenge, if any.
func (s *GameState) ActiveChallenge() (*challenge.Challenge, bool) {
	if s.Active < 0 || s.Active >= len(s.Challenges) {
		return nil, false
	}
	return &s.Challenges[s.Active], true
}

// ResultFor returns the recorded result of the challenge at index.
func (s GameState) ResultFor(index int) (challenge.Result, bool) {
	i := slices.IndexFunc(s.Results, func(r challenge.Result) bool {
		return r.Index == index
	})
	if i < 0 {
		return challenge.Result{}, false
	}
	return s.Results[i], true
}

// Finished reports whether every challenge on the path has a
// result.
func (s GameState) Finished() bool {
	return len(s.Challenges) > 0 && len(s.Results) == len(s.Challenges)
}

func (s *GameState) inProgress() int {
	n := 0
	for _, c := range s.Challenges {
		if c.Status == challenge.StatusInProgress {
			n++
		}
	}
	return n
}

// Validate checks the structural invariants of a state, typically
// one restored from storage: the cursor is on the path, at most one
// challenge is in progress and it is the one Active points at, and
// a result exists for an index exactly when that challenge is
// finished.
func (s *GameState) Validate() error {
	var errs []error
	n := len(s.Challenges)
	if n == 0 && s.Position != 0 {
		errs = append(errs, fmt.Errorf("position %d on an empty path", s.Position))
	}
	if n > 0 && (s.Position < 0 || s.Position >= n) {
		errs = append(errs, fmt.Errorf("position %d out of range", s.Position))
	}

	switch {
	case s.Active == NoActive:
		if s.inProgress() != 0 {
			errs = append(errs, errors.New("challenge in progress but none active"))
		}
	case s.Active < 0 || s.Active >= n:
		errs = append(errs, fmt.Errorf("active %d out of range", s.Active))
	default:
		if s.Challenges[s.Active].Status != challenge.StatusInProgress {
			errs = append(errs, fmt.Errorf("active challenge %d is not in progress", s.Active))
		}
		if s.inProgress() > 1 {
			errs = append(errs, errors.New("more than one challenge in progress"))
		}
	}

	seen := make(map[int]bool, len(s.Results))
	for _, r := range s.Results {
		if r.Index < 0 || r.Index >= n {
			errs = append(errs, fmt.Errorf("result index %d out of range", r.Index))
			continue
		}
		if seen[r.Index] {
			errs = append(errs, fmt.Errorf("duplicate result for index %d", r.Index))
		}
		seen[r.Index] = true
		if s.Challenges[r.Index].ID != r.ChallengeID {
			errs = append(errs, fmt.Errorf(
				"result %d names %s, path has %s",
				r.Index, r.ChallengeID, s.Challenges[r.Index].ID,
			))
		}
	}
	for i, c := range s.Challenges {
		if (c.Status == challenge.StatusFinished) != seen[i] {
			errs = append(errs, fmt.Errorf(
				"challenge %d is %s but has result=%t", i, c.Status, seen[i],
			))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidGameState, errors.Join(errs...))
	}
	return nil
}
