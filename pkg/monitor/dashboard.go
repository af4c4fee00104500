package monitor

import (
	"sync"
	"time"

	"digital.vasic.challengegame/pkg/challenge"
	"digital.vasic.challengegame/pkg/event"
	"digital.vasic.challengegame/pkg/game"
)

// Challenge statuses shown on the dashboard.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusSolved     = "solved"
	StatusFailed     = "failed"
	StatusAbandoned  = "abandoned"
)

// DashboardData is a live view of one game, kept current by
// feeding it events.
type DashboardData struct {
	mu         sync.RWMutex
	SessionID  string           `json:"session_id"`
	MapID      string           `json:"map_id"`
	StartTime  time.Time        `json:"start_time"`
	Status     string           `json:"status"` // playing, finished
	Position   int              `json:"position"`
	Challenges []ChallengeState `json:"challenges"`
	Summary    DashboardSummary `json:"summary"`
}

// ChallengeState is one row of the dashboard.
type ChallengeState struct {
	Index     int           `json:"index"`
	ID        challenge.ID  `json:"id"`
	Name      string        `json:"name"`
	Category  string        `json:"category,omitempty"`
	Status    string        `json:"status"`
	Correct   int           `json:"correct"`
	Incorrect int           `json:"incorrect"`
	StartTime *time.Time    `json:"start_time,omitempty"`
	EndTime   *time.Time    `json:"end_time,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
}

// DashboardSummary holds aggregate stats for the dashboard.
type DashboardSummary struct {
	Total      int     `json:"total"`
	Solved     int     `json:"solved"`
	Failed     int     `json:"failed"`
	Abandoned  int     `json:"abandoned"`
	InProgress int     `json:"in_progress"`
	Pending    int     `json:"pending"`
	SolveRate  float64 `json:"solve_rate"`
	Elapsed    string  `json:"elapsed"`
}

// NewDashboardData creates a dashboard seeded from a game state.
func NewDashboardData(sessionID string, state game.GameState) *DashboardData {
	d := &DashboardData{
		SessionID:  sessionID,
		MapID:      state.MapID,
		StartTime:  time.Now(),
		Status:     "playing",
		Position:   state.Position,
		Challenges: make([]ChallengeState, len(state.Challenges)),
	}
	for i, c := range state.Challenges {
		row := ChallengeState{
			Index:     i,
			ID:        c.ID,
			Name:      c.Name,
			Category:  c.Category,
			Status:    StatusPending,
			Correct:   c.Progress.Correct,
			Incorrect: c.Progress.Incorrect,
		}
		if c.Status == challenge.StatusInProgress {
			row.Status = StatusInProgress
			started := c.StartedAt
			row.StartTime = &started
		}
		d.Challenges[i] = row
	}
	for _, r := range state.Results {
		if r.Index >= 0 && r.Index < len(d.Challenges) {
			d.Challenges[r.Index].finish(r)
		}
	}
	d.recalcSummary()
	return d
}

func (s *ChallengeState) finish(r challenge.Result) {
	s.Status = r.Outcome()
	s.Correct = r.Correct
	s.Incorrect = r.Incorrect
	s.Duration = r.Duration
	if !r.StartedAt.IsZero() {
		started := r.StartedAt
		s.StartTime = &started
	}
	if !r.FinishedAt.IsZero() {
		ended := r.FinishedAt
		s.EndTime = &ended
	}
}

// Handle is an event.Handler.
func (d *DashboardData) Handle(e event.Event) error {
	d.UpdateFromEvent(e)
	return nil
}

// UpdateFromEvent applies one event. Events naming an index the
// dashboard does not know are ignored.
func (d *DashboardData) UpdateFromEvent(e event.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch ev := e.(type) {
	case event.GameEvent:
		d.Position = ev.To
	case event.ChallengeEvent:
		if ev.Index < 0 || ev.Index >= len(d.Challenges) {
			return
		}
		row := &d.Challenges[ev.Index]
		at := ev.Timestamp
		switch ev.Type {
		case event.TypeChallengeStarted:
			row.Status = StatusInProgress
			row.StartTime = &at
		case event.TypeSolvedCorrect:
			row.Correct++
		case event.TypeSolvedIncorrect:
			row.Incorrect++
		case event.TypeFinish:
			if ev.Result != nil {
				row.finish(*ev.Result)
			}
		}
	}
	d.recalcSummary()
}

func (d *DashboardData) recalcSummary() {
	s := DashboardSummary{}
	for _, ch := range d.Challenges {
		s.Total++
		switch ch.Status {
		case StatusSolved:
			s.Solved++
		case StatusFailed:
			s.Failed++
		case StatusAbandoned:
			s.Abandoned++
		case StatusInProgress:
			s.InProgress++
		default:
			s.Pending++
		}
	}
	if finished := s.Solved + s.Failed + s.Abandoned; finished > 0 {
		s.SolveRate = float64(s.Solved) / float64(finished) * 100
	}
	if s.Total > 0 && s.Pending == 0 && s.InProgress == 0 {
		d.Status = "finished"
	}
	s.Elapsed = time.Since(d.StartTime).Round(time.Millisecond).String()
	d.Summary = s
}

// Snapshot returns a copy of the current dashboard state.
func (d *DashboardData) Snapshot() DashboardData {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return DashboardData{
		SessionID:  d.SessionID,
		MapID:      d.MapID,
		StartTime:  d.StartTime,
		Status:     d.Status,
		Position:   d.Position,
		Challenges: append([]ChallengeState(nil), d.Challenges...),
		Summary:    d.Summary,
	}
}

// BuildDashboardData replays the collector's events over a
// dashboard seeded from the initial state.
func BuildDashboardData(
	sessionID string,
	initial game.GameState,
	collector *EventCollector,
) *DashboardData {
	data := NewDashboardData(sessionID, initial)
	for _, e := range collector.Events() {
		data.UpdateFromEvent(e)
	}
	return data
}
