package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"digital.vasic.challengegame/pkg/challenge"
)

// Decode failure kinds. A *ParseError wraps exactly one of them.
var (
	ErrParse            = errors.New("malformed event")
	ErrUnknownEventType = errors.New("unknown event type")
	ErrMissingData      = errors.New("missing event data")
	ErrInvalidData      = errors.New("invalid event data")
)

// ParseError reports why a wire event could not be decoded.
type ParseError struct {
	Kind  error
	Type  string
	Cause error
}

func (e *ParseError) Error() string {
	msg := "parse event"
	if e.Type != "" {
		msg += fmt.Sprintf(" %q", e.Type)
	}
	msg += ": " + e.Kind.Error()
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes the kind and the cause.
func (e *ParseError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// Envelope is the wire form of an event.
type Envelope struct {
	EventType Type            `json:"event_type"`
	ID        string          `json:"id,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

type gamePayload struct {
	From *int `json:"from"`
	To   *int `json:"to"`
}

type challengePayload struct {
	Index       *int              `json:"index"`
	ChallengeID challenge.ID      `json:"challenge_id"`
	Result      *challenge.Result `json:"result,omitempty"`
}

// ToEnvelope converts an event to its wire envelope.
func ToEnvelope(e Event) (Envelope, error) {
	var (
		payload any
		id      string
	)
	switch ev := e.(type) {
	case GameEvent:
		payload = gamePayload{From: &ev.From, To: &ev.To}
		id = ev.ID
	case ChallengeEvent:
		payload = challengePayload{
			Index:       &ev.Index,
			ChallengeID: ev.ChallengeID,
			Result:      ev.Result,
		}
		id = ev.ID
	default:
		return Envelope{}, fmt.Errorf("encode event: unsupported %T", e)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode event payload: %w", err)
	}
	return Envelope{
		EventType: e.EventType(),
		ID:        id,
		Timestamp: e.OccurredAt(),
		Payload:   raw,
	}, nil
}

// Encode renders an event as JSON.
func Encode(e Event) ([]byte, error) {
	env, err := ToEnvelope(e)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}

// Decode parses the JSON form produced by Encode.
func Decode(data []byte) (Event, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &ParseError{Kind: ErrParse, Cause: err}
	}
	return FromEnvelope(env)
}

// FromEnvelope converts a wire envelope back to an event.
func FromEnvelope(env Envelope) (Event, error) {
	typ := string(env.EventType)
	if typ == "" {
		return nil, &ParseError{
			Kind: ErrMissingData, Cause: errors.New("event_type is required"),
		}
	}
	if !env.EventType.IsGame() && !env.EventType.IsChallenge() {
		return nil, &ParseError{Kind: ErrUnknownEventType, Type: typ}
	}
	if len(env.Payload) == 0 || string(env.Payload) == "null" {
		return nil, &ParseError{Kind: ErrMissingData, Type: typ}
	}
	if env.Timestamp.IsZero() {
		return nil, &ParseError{
			Kind: ErrMissingData, Type: typ,
			Cause: errors.New("timestamp is required"),
		}
	}

	if env.EventType.IsGame() {
		var p gamePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, &ParseError{Kind: ErrInvalidData, Type: typ, Cause: err}
		}
		if p.From == nil || p.To == nil {
			return nil, &ParseError{
				Kind: ErrMissingData, Type: typ,
				Cause: errors.New("from and to are required"),
			}
		}
		return GameEvent{
			ID: env.ID, Type: env.EventType,
			From: *p.From, To: *p.To, Timestamp: env.Timestamp,
		}, nil
	}

	var p challengePayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		return nil, &ParseError{Kind: ErrInvalidData, Type: typ, Cause: err}
	}
	if p.Index == nil || p.ChallengeID == "" {
		return nil, &ParseError{
			Kind: ErrMissingData, Type: typ,
			Cause: errors.New("index and challenge_id are required"),
		}
	}
	if env.EventType == TypeFinish && p.Result == nil {
		return nil, &ParseError{
			Kind: ErrMissingData, Type: typ,
			Cause: errors.New("finish requires a result"),
		}
	}
	if p.Result != nil && p.Result.Index != *p.Index {
		return nil, &ParseError{
			Kind: ErrInvalidData, Type: typ,
			Cause: fmt.Errorf(
				"result index %d does not match event index %d",
				p.Result.Index, *p.Index,
			),
		}
	}
	return ChallengeEvent{
		ID: env.ID, Type: env.EventType, Index: *p.Index,
		ChallengeID: p.ChallengeID, Result: p.Result,
		Timestamp: env.Timestamp,
	}, nil
}
