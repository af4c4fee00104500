package report

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"digital.vasic.challengegame/pkg/challenge"
	"digital.vasic.challengegame/pkg/event"
)

// jsonMarshal is replaceable in tests.
var jsonMarshal = json.Marshal

// HistoricalEntry is one line of the history log.
type HistoricalEntry struct {
	Timestamp   time.Time      `json:"timestamp"`
	SessionID   string         `json:"session_id,omitempty"`
	MapID       string         `json:"map_id,omitempty"`
	Index       int            `json:"index"`
	ChallengeID challenge.ID   `json:"challenge_id"`
	Kind        challenge.Kind `json:"kind"`
	Outcome     string         `json:"outcome"`
	Attempts    int            `json:"attempts"`
	Correct     int            `json:"correct"`
	Incorrect   int            `json:"incorrect"`
	Duration    string         `json:"duration"`
}

// NewHistoricalEntry describes a finished result.
func NewHistoricalEntry(
	sessionID, mapID string,
	r challenge.Result,
) HistoricalEntry {
	ts := r.FinishedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return HistoricalEntry{
		Timestamp:   ts,
		SessionID:   sessionID,
		MapID:       mapID,
		Index:       r.Index,
		ChallengeID: r.ChallengeID,
		Kind:        r.Kind,
		Outcome:     r.Outcome(),
		Attempts:    r.Attempts,
		Correct:     r.Correct,
		Incorrect:   r.Incorrect,
		Duration:    r.Duration.String(),
	}
}

// AppendToHistory adds an entry to the log stored at historyPath.
// Each entry is a single JSON line.
func AppendToHistory(historyPath string, entry HistoricalEntry) error {
	data, err := jsonMarshal(entry)
	if err != nil {
		return fmt.Errorf(
			"failed to marshal history entry: %w", err,
		)
	}

	file, err := os.OpenFile(
		historyPath,
		os.O_CREATE|os.O_APPEND|os.O_WRONLY,
		0644,
	)
	if err != nil {
		return fmt.Errorf(
			"failed to open history file: %w", err,
		)
	}
	defer func() { _ = file.Close() }()

	_, err = fmt.Fprintln(file, string(data))
	return err
}

// ReadHistory returns every entry in the log. A missing file is an
// empty history.
func ReadHistory(historyPath string) ([]HistoricalEntry, error) {
	file, err := os.Open(historyPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var entries []HistoricalEntry
	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var e HistoricalEntry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("history line %d: %w", line, err)
		}
		entries = append(entries, e)
	}
	return entries, scanner.Err()
}

// HistoryWriter is an event handler that appends every Finish
// event's result to a history file.
type HistoryWriter struct {
	mu        sync.Mutex
	path      string
	sessionID string
	mapID     string
}

// NewHistoryWriter creates a writer appending to path.
func NewHistoryWriter(path, sessionID, mapID string) *HistoryWriter {
	return &HistoryWriter{path: path, sessionID: sessionID, mapID: mapID}
}

// Path returns the history file path.
func (h *HistoryWriter) Path() string { return h.path }

// Handle implements event.Handler.
func (h *HistoryWriter) Handle(e event.Event) error {
	ce, ok := e.(event.ChallengeEvent)
	if !ok || ce.Type != event.TypeFinish || ce.Result == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return AppendToHistory(
		h.path, NewHistoricalEntry(h.sessionID, h.mapID, *ce.Result),
	)
}
