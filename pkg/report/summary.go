package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"digital.vasic.challengegame/pkg/achievement"
	"digital.vasic.challengegame/pkg/challenge"
	"digital.vasic.challengegame/pkg/game"
	"digital.vasic.challengegame/pkg/statistic"
)

// Summary aggregates one game.
type Summary struct {
	ID           string                `json:"id"`
	GeneratedAt  time.Time             `json:"generated_at"`
	MapID        string                `json:"map_id"`
	Challenges   []ChallengeSummary    `json:"challenges"`
	Total        int                   `json:"total"`
	Finished     int                   `json:"finished"`
	Solved       int                   `json:"solved"`
	Failed       int                   `json:"failed"`
	Abandoned    int                   `json:"abandoned"`
	PlayTime     time.Duration         `json:"play_time"`
	Statistics   []statistic.Statistic `json:"statistics,omitempty"`
	Achievements []AchievementSummary  `json:"achievements,omitempty"`
}

// ChallengeSummary is one row of a Summary.
type ChallengeSummary struct {
	Index       int           `json:"index"`
	ChallengeID challenge.ID  `json:"challenge_id"`
	Name        string        `json:"name"`
	Category    string        `json:"category,omitempty"`
	Status      string        `json:"status"`
	Attempts    int           `json:"attempts"`
	Duration    time.Duration `json:"duration"`
}

// AchievementSummary names an unlocked achievement.
type AchievementSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// BuildSummary summarizes a game state. provider may be nil, in
// which case no statistics are included.
func BuildSummary(
	state game.GameState,
	provider statistic.Provider,
	unlocked []achievement.Definition,
) *Summary {
	now := time.Now().UTC()
	s := &Summary{
		ID: fmt.Sprintf(
			"summary_%s", now.Format("20060102_150405"),
		),
		GeneratedAt: now,
		MapID:       state.MapID,
		Challenges:  make([]ChallengeSummary, len(state.Challenges)),
		Total:       len(state.Challenges),
	}
	for i, c := range state.Challenges {
		status := string(c.Status)
		if c.Status == "" {
			status = string(challenge.StatusNotStarted)
		}
		s.Challenges[i] = ChallengeSummary{
			Index:       i,
			ChallengeID: c.ID,
			Name:        c.Name,
			Category:    c.Category,
			Status:      status,
			Attempts:    c.Progress.Attempts,
		}
	}
	for _, r := range state.Results {
		s.Finished++
		s.PlayTime += r.Duration
		switch r.Outcome() {
		case "solved":
			s.Solved++
		case "abandoned":
			s.Abandoned++
		default:
			s.Failed++
		}
		if r.Index >= 0 && r.Index < len(s.Challenges) {
			s.Challenges[r.Index].Status = r.Outcome()
			s.Challenges[r.Index].Duration = r.Duration
		}
	}
	if provider != nil {
		s.Statistics = provider.All()
	}
	for _, d := range unlocked {
		s.Achievements = append(s.Achievements, AchievementSummary{
			ID: d.ID, Name: d.Name, Description: d.Description,
		})
	}
	return s
}

// SaveSummary writes the summary into outputDir once per renderer
// and points latest_summary.<ext> at the newest file. It returns
// the written paths.
func SaveSummary(
	summary *Summary,
	outputDir string,
	renderers ...Renderer,
) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf(
			"failed to create output directory: %w", err,
		)
	}

	ts := summary.GeneratedAt.Format("20060102_150405")
	var paths []string
	for _, r := range renderers {
		name := fmt.Sprintf("summary_%s.%s", ts, r.Extension())
		path := filepath.Join(outputDir, name)
		f, err := os.Create(path)
		if err != nil {
			return paths, fmt.Errorf("failed to create %s: %w", name, err)
		}
		err = r.Render(f, summary)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", name, err)
		}
		paths = append(paths, path)

		latest := filepath.Join(outputDir, "latest_summary."+r.Extension())
		_ = os.Remove(latest)
		_ = os.Symlink(name, latest)
	}
	return paths, nil
}
