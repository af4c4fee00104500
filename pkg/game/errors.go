package game

import (
	"errors"
	"fmt"

	"digital.vasic.challengegame/pkg/challenge"
)

// Failures returned by Controller.Execute.
var (
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrGamePathNotFound  = errors.New("game path not found")
	ErrInvalidGameState  = errors.New("invalid game state")
	ErrChallenge         = errors.New("challenge error")
)

// ChallengeError wraps a failure reported by the challenge under
// the cursor. It matches both ErrChallenge and the underlying
// challenge error.
type ChallengeError struct {
	Index       int
	ChallengeID challenge.ID
	Err         error
}

func (e *ChallengeError) Error() string {
	return fmt.Sprintf(
		"challenge %s at index %d: %v", e.ChallengeID, e.Index, e.Err,
	)
}

// Unwrap exposes ErrChallenge and the cause.
func (e *ChallengeError) Unwrap() []error {
	return []error{ErrChallenge, e.Err}
}
