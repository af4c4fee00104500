package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.challengegame/pkg/challenge"
)

// solvedResult builds a solved multiple choice result for tests.
func solvedResult(t *testing.T) challenge.Result {
	t.Helper()
	r := challenge.MultipleChoiceResult(2)
	r.Index = 1
	r.ChallengeID = "c2"
	r.Solved = true
	r.Attempts = 1
	r.Correct = 1
	r.StartedAt = t0
	r.FinishedAt = t0.Add(5 * time.Second)
	r.Duration = 5 * time.Second
	return r
}

func TestCodec_RoundTrip(t *testing.T) {
	events := []Event{
		WithID(NextTask(0, 1, t0), "e1"),
		PreviousTask(2, 1, t0),
		SelectTask(1, 0, t0),
		Started(0, "c1", t0),
		SolvedIncorrect(0, "c1", t0),
		SolvedCorrect(0, "c1", t0),
		Abandoned(3, "c4", t0),
		Finish(solvedResult(t), t0),
	}
	for _, e := range events {
		t.Run(string(e.EventType()), func(t *testing.T) {
			data, err := Encode(e)
			require.NoError(t, err)
			got, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, e, got)
		})
	}
}

func TestCodec_EnvelopeShape(t *testing.T) {
	data, err := Encode(NextTask(0, 1, t0))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"event_type": "next_task",
		"timestamp": "2026-03-01T10:00:00Z",
		"payload": {"from": 0, "to": 1}
	}`, string(data))
}

func TestCodec_DecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		kind error
	}{
		{"malformed", `{`, ErrParse},
		{"missing type", `{"timestamp":"2026-03-01T10:00:00Z","payload":{}}`, ErrMissingData},
		{"unknown type", `{"event_type":"teleport","timestamp":"2026-03-01T10:00:00Z","payload":{}}`, ErrUnknownEventType},
		{"null payload", `{"event_type":"next_task","timestamp":"2026-03-01T10:00:00Z","payload":null}`, ErrMissingData},
		{"no timestamp", `{"event_type":"next_task","payload":{"from":0,"to":1}}`, ErrMissingData},
		{"missing to", `{"event_type":"next_task","timestamp":"2026-03-01T10:00:00Z","payload":{"from":0}}`, ErrMissingData},
		{"bad from", `{"event_type":"next_task","timestamp":"2026-03-01T10:00:00Z","payload":{"from":"x","to":1}}`, ErrInvalidData},
		{"missing challenge", `{"event_type":"abandoned","timestamp":"2026-03-01T10:00:00Z","payload":{"index":0}}`, ErrMissingData},
		{"finish without result", `{"event_type":"finish","timestamp":"2026-03-01T10:00:00Z","payload":{"index":0,"challenge_id":"c1"}}`, ErrMissingData},
		{"result index mismatch", `{"event_type":"finish","timestamp":"2026-03-01T10:00:00Z","payload":{"index":0,"challenge_id":"c1","result":{"index":4,"challenge_id":"c1","kind":"custom"}}}`, ErrInvalidData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.in))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)

			var perr *ParseError
			assert.ErrorAs(t, err, &perr)
		})
	}
}
