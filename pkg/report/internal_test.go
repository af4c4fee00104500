package report

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppendToHistory_MarshalError(t *testing.T) {
	original := jsonMarshal
	t.Cleanup(func() { jsonMarshal = original })
	jsonMarshal = func(v any) ([]byte, error) {
		return nil, assert.AnError
	}

	path := filepath.Join(t.TempDir(), "history.jsonl")
	err := AppendToHistory(path, HistoricalEntry{ChallengeID: "a"})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "marshal history entry")
}

func TestJSONRenderer_MarshalError(t *testing.T) {
	original := jsonMarshalIndent
	t.Cleanup(func() { jsonMarshalIndent = original })
	jsonMarshalIndent = func(v any, prefix, indent string) ([]byte, error) {
		return nil, assert.AnError
	}

	var buf bytes.Buffer
	err := NewJSONRenderer(true).Render(&buf, &Summary{})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Zero(t, buf.Len())
}

type failingWriter struct{ writes int }

func (f *failingWriter) Write(p []byte) (int, error) {
	f.writes++
	return 0, assert.AnError
}

func TestHTMLRenderer_StopsAfterWriteError(t *testing.T) {
	w := &failingWriter{}
	err := HTMLRenderer{}.Render(w, &Summary{MapID: "quiz"})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, w.writes)
}
