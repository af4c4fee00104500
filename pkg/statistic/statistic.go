// Package statistic derives named facts about a player's play from
// the recorded challenge results. Values are recomputed on every
// lookup; nothing is cached or persisted.
package statistic

import (
	"slices"
	"strings"
	"time"

	"digital.vasic.challengegame/pkg/challenge"
)

// Statistic names.
const (
	Attempts            = "attempts"
	CorrectAnswers      = "correct_answers"
	IncorrectAnswers    = "incorrect_answers"
	Accuracy            = "accuracy"
	ChallengesTotal     = "challenges_total"
	ChallengesFinished  = "challenges_finished"
	ChallengesSolved    = "challenges_solved"
	ChallengesAbandoned = "challenges_abandoned"
	SuccessRate         = "success_rate"
	CompletionRate      = "completion_rate"
	FirstTrySolves      = "first_try_solves"
	LongestStreak       = "longest_streak"
	AverageSolveSeconds = "average_solve_seconds"
	FastestSolveSeconds = "fastest_solve_seconds"
	LastOutcome         = "last_outcome"
)

// Statistic is a named fact. Numeric facts set Value; categorical
// facts set Text and leave Value at zero.
type Statistic struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Text  string  `json:"text,omitempty"`
	Unit  string  `json:"unit,omitempty"`
}

// Categorical reports whether the statistic carries text.
func (s Statistic) Categorical() bool { return s.Text != "" }

// Provider looks up statistics by name.
type Provider interface {
	// Statistic returns the named statistic, or false when the
	// provider does not know the name.
	Statistic(name string) (Statistic, bool)

	// All returns every statistic ordered by name.
	All() []Statistic
}

// Source returns the current results and the number of challenges
// on the path.
type Source func() ([]challenge.Result, int)

// HistoryProvider computes statistics from a result history.
type HistoryProvider struct {
	source Source
}

// NewHistoryProvider returns a provider over a fixed history. The
// results are copied.
func NewHistoryProvider(results []challenge.Result, total int) *HistoryProvider {
	own := slices.Clone(results)
	return &HistoryProvider{source: func() ([]challenge.Result, int) {
		return own, total
	}}
}

// NewLiveProvider returns a provider that calls source on every
// lookup, so values always reflect the latest history.
func NewLiveProvider(source Source) *HistoryProvider {
	return &HistoryProvider{source: source}
}

// Statistic implements Provider.
func (p *HistoryProvider) Statistic(name string) (Statistic, bool) {
	for _, s := range p.All() {
		if s.Name == name {
			return s, true
		}
	}
	return Statistic{}, false
}

// All implements Provider.
func (p *HistoryProvider) All() []Statistic {
	results, total := p.source()
	out := compute(results, total)
	slices.SortFunc(out, func(a, b Statistic) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

func compute(results []challenge.Result, total int) []Statistic {
	var (
		attempts, correct, incorrect int
		solved, abandoned, firstTry  int
		streak, longest              int
		solveTime, fastest           time.Duration
		timed                        bool
	)
	for _, r := range results {
		attempts += r.Attempts
		correct += r.Correct
		incorrect += r.Incorrect
		if r.Abandoned {
			abandoned++
		}
		if !r.Solved {
			streak = 0
			continue
		}
		solved++
		if r.Attempts == 1 {
			firstTry++
		}
		streak++
		longest = max(longest, streak)
		solveTime += r.Duration
		if !timed || r.Duration < fastest {
			fastest = r.Duration
			timed = true
		}
	}

	finished := len(results)
	total = max(total, finished)
	last := "none"
	if finished > 0 {
		last = results[finished-1].Outcome()
	}
	var average float64
	if solved > 0 {
		average = solveTime.Seconds() / float64(solved)
	}

	return []Statistic{
		{Name: Attempts, Value: float64(attempts)},
		{Name: CorrectAnswers, Value: float64(correct)},
		{Name: IncorrectAnswers, Value: float64(incorrect)},
		{Name: Accuracy, Value: ratio(correct, attempts), Unit: "ratio"},
		{Name: ChallengesTotal, Value: float64(total)},
		{Name: ChallengesFinished, Value: float64(finished)},
		{Name: ChallengesSolved, Value: float64(solved)},
		{Name: ChallengesAbandoned, Value: float64(abandoned)},
		{Name: SuccessRate, Value: ratio(solved, finished), Unit: "ratio"},
		{Name: CompletionRate, Value: ratio(finished, total), Unit: "ratio"},
		{Name: FirstTrySolves, Value: float64(firstTry)},
		{Name: LongestStreak, Value: float64(longest)},
		{Name: AverageSolveSeconds, Value: average, Unit: "seconds"},
		{Name: FastestSolveSeconds, Value: fastest.Seconds(), Unit: "seconds"},
		{Name: LastOutcome, Text: last},
	}
}
