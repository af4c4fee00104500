package challenge

import "errors"

// Challenge-specific failures. The game controller wraps these in
// its own challenge error.
var (
	ErrUnknownKind       = errors.New("unknown challenge kind")
	ErrMissingPayload    = errors.New("challenge payload missing")
	ErrKindMismatch      = errors.New("input kind does not match challenge")
	ErrNotStarted        = errors.New("challenge not started")
	ErrAlreadyStarted    = errors.New("challenge already started")
	ErrNotInProgress     = errors.New("challenge not in progress")
	ErrFinished          = errors.New("challenge already finished")
	ErrTimeLimitExceeded = errors.New("challenge time limit exceeded")
	ErrEmptyInput        = errors.New("input is empty")
	ErrUnknownOption     = errors.New("unknown option")
	ErrInvalidOrder      = errors.New("order is not a permutation of the rows")
)
