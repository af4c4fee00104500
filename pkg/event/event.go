// Package event carries the facts the game controller publishes
// after each state transition, and the in-process bus that hands
// them to observers.
package event

import (
	"time"

	"digital.vasic.challengegame/pkg/challenge"
)

// Type is the discriminant of an event.
type Type string

// Game events describe cursor movement over the path.
const (
	TypeNextTask     Type = "next_task"
	TypePreviousTask Type = "previous_task"
	TypeSelectTask   Type = "select_task"
)

// Challenge events describe what happened to one challenge.
const (
	TypeChallengeStarted Type = "challenge_started"
	TypeSolvedCorrect    Type = "solved_correct"
	TypeSolvedIncorrect  Type = "solved_incorrect"
	TypeAbandoned        Type = "abandoned"
	TypeFinish           Type = "finish"
)

// IsGame reports whether t belongs to the game event family.
func (t Type) IsGame() bool {
	switch t {
	case TypeNextTask, TypePreviousTask, TypeSelectTask:
		return true
	}
	return false
}

// IsChallenge reports whether t belongs to the challenge event
// family.
func (t Type) IsChallenge() bool {
	switch t {
	case TypeChallengeStarted, TypeSolvedCorrect,
		TypeSolvedIncorrect, TypeAbandoned, TypeFinish:
		return true
	}
	return false
}

// Event is an immutable, timestamped fact. The set is closed:
// only GameEvent and ChallengeEvent implement it.
type Event interface {
	EventType() Type
	OccurredAt() time.Time
	isEvent()
}

// GameEvent reports that the cursor moved from one path index to
// another.
type GameEvent struct {
	ID        string    `json:"id,omitempty"`
	Type      Type      `json:"type"`
	From      int       `json:"from"`
	To        int       `json:"to"`
	Timestamp time.Time `json:"timestamp"`
}

// EventType implements Event.
func (e GameEvent) EventType() Type { return e.Type }

// OccurredAt implements Event.
func (e GameEvent) OccurredAt() time.Time { return e.Timestamp }

func (GameEvent) isEvent() {}

// ChallengeEvent reports progress on the challenge at Index.
// Result is set on Finish events only.
type ChallengeEvent struct {
	ID          string            `json:"id,omitempty"`
	Type        Type              `json:"type"`
	Index       int               `json:"index"`
	ChallengeID challenge.ID      `json:"challenge_id"`
	Result      *challenge.Result `json:"result,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}

// EventType implements Event.
func (e ChallengeEvent) EventType() Type { return e.Type }

// OccurredAt implements Event.
func (e ChallengeEvent) OccurredAt() time.Time { return e.Timestamp }

func (ChallengeEvent) isEvent() {}

// NextTask reports a move to the following challenge.
func NextTask(from, to int, at time.Time) GameEvent {
	return GameEvent{Type: TypeNextTask, From: from, To: to, Timestamp: at}
}

// PreviousTask reports a move to the preceding challenge.
func PreviousTask(from, to int, at time.Time) GameEvent {
	return GameEvent{Type: TypePreviousTask, From: from, To: to, Timestamp: at}
}

// SelectTask reports a jump to an arbitrary challenge.
func SelectTask(from, to int, at time.Time) GameEvent {
	return GameEvent{Type: TypeSelectTask, From: from, To: to, Timestamp: at}
}

// Started reports that a challenge moved to in progress.
func Started(index int, id challenge.ID, at time.Time) ChallengeEvent {
	return ChallengeEvent{
		Type: TypeChallengeStarted, Index: index,
		ChallengeID: id, Timestamp: at,
	}
}

// SolvedCorrect reports a correct answer.
func SolvedCorrect(index int, id challenge.ID, at time.Time) ChallengeEvent {
	return ChallengeEvent{
		Type: TypeSolvedCorrect, Index: index,
		ChallengeID: id, Timestamp: at,
	}
}

// SolvedIncorrect reports an incorrect answer.
func SolvedIncorrect(index int, id challenge.ID, at time.Time) ChallengeEvent {
	return ChallengeEvent{
		Type: TypeSolvedIncorrect, Index: index,
		ChallengeID: id, Timestamp: at,
	}
}

// Abandoned reports that the player gave up on a challenge.
func Abandoned(index int, id challenge.ID, at time.Time) ChallengeEvent {
	return ChallengeEvent{
		Type: TypeAbandoned, Index: index,
		ChallengeID: id, Timestamp: at,
	}
}

// Finish reports the recorded result of a challenge.
func Finish(r challenge.Result, at time.Time) ChallengeEvent {
	rc := r.Clone()
	return ChallengeEvent{
		Type: TypeFinish, Index: r.Index,
		ChallengeID: r.ChallengeID, Result: &rc, Timestamp: at,
	}
}

// WithID returns a copy of e carrying the given identifier.
func WithID(e Event, id string) Event {
	switch ev := e.(type) {
	case GameEvent:
		ev.ID = id
		return ev
	case ChallengeEvent:
		ev.ID = id
		return ev
	}
	return e
}

// IDOf returns the identifier carried by e, if any.
func IDOf(e Event) string {
	switch ev := e.(type) {
	case GameEvent:
		return ev.ID
	case ChallengeEvent:
		return ev.ID
	}
	return ""
}
