package statistic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.challengegame/pkg/challenge"
)

func solved(index, attempts int, d time.Duration) challenge.Result {
	return challenge.Result{
		Index: index, Solved: true, Attempts: attempts,
		Correct: 1, Incorrect: attempts - 1, Duration: d,
	}
}

func value(t *testing.T, p Provider, name string) float64 {
	t.Helper()
	s, ok := p.Statistic(name)
	require.True(t, ok, name)
	return s.Value
}

func TestProvider_EmptyHistory(t *testing.T) {
	p := NewHistoryProvider(nil, 0)

	assert.Equal(t, 0.0, value(t, p, SuccessRate))
	assert.Equal(t, 0.0, value(t, p, Accuracy))
	assert.Equal(t, 0.0, value(t, p, CompletionRate))
	assert.Equal(t, 0.0, value(t, p, AverageSolveSeconds))

	last, ok := p.Statistic(LastOutcome)
	require.True(t, ok)
	assert.Equal(t, "none", last.Text)
	assert.True(t, last.Categorical())
}

func TestProvider_UnknownStatistic(t *testing.T) {
	_, ok := NewHistoryProvider(nil, 3).Statistic("karma")
	assert.False(t, ok)
}

func TestProvider_AllOrderedByName(t *testing.T) {
	all := NewHistoryProvider(nil, 0).All()
	require.Len(t, all, 15)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Name, all[i].Name)
	}
}

func TestProvider_History(t *testing.T) {
	results := []challenge.Result{
		solved(0, 1, 10*time.Second),
		solved(1, 3, 30*time.Second),
		{Index: 2, Abandoned: true, Attempts: 1, Incorrect: 1},
		solved(3, 1, 5*time.Second),
		{Index: 4, Attempts: 2, Incorrect: 2},
	}
	p := NewHistoryProvider(results, 8)

	assert.Equal(t, 8.0, value(t, p, Attempts))
	assert.Equal(t, 3.0, value(t, p, CorrectAnswers))
	assert.Equal(t, 5.0, value(t, p, IncorrectAnswers))
	assert.InDelta(t, 3.0/8.0, value(t, p, Accuracy), 1e-9)
	assert.Equal(t, 8.0, value(t, p, ChallengesTotal))
	assert.Equal(t, 5.0, value(t, p, ChallengesFinished))
	assert.Equal(t, 3.0, value(t, p, ChallengesSolved))
	assert.Equal(t, 1.0, value(t, p, ChallengesAbandoned))
	assert.InDelta(t, 0.6, value(t, p, SuccessRate), 1e-9)
	assert.InDelta(t, 5.0/8.0, value(t, p, CompletionRate), 1e-9)
	assert.Equal(t, 2.0, value(t, p, FirstTrySolves))
	assert.Equal(t, 2.0, value(t, p, LongestStreak))
	assert.InDelta(t, 15.0, value(t, p, AverageSolveSeconds), 1e-9)
	assert.Equal(t, 5.0, value(t, p, FastestSolveSeconds))

	last, _ := p.Statistic(LastOutcome)
	assert.Equal(t, "failed", last.Text)
}

func TestProvider_FastestKeepsZeroDuration(t *testing.T) {
	p := NewHistoryProvider([]challenge.Result{
		solved(0, 1, 0),
		solved(1, 1, 5*time.Second),
	}, 2)
	assert.Equal(t, 0.0, value(t, p, FastestSolveSeconds))

	p = NewHistoryProvider([]challenge.Result{
		{Index: 0, Abandoned: true},
		solved(1, 2, 4*time.Second),
		solved(2, 1, 7*time.Second),
	}, 3)
	assert.Equal(t, 4.0, value(t, p, FastestSolveSeconds))
}

func TestProvider_HistoryIsCopied(t *testing.T) {
	results := []challenge.Result{solved(0, 1, time.Second)}
	p := NewHistoryProvider(results, 1)
	results[0].Solved = false

	assert.Equal(t, 1.0, value(t, p, ChallengesSolved))
}

func TestLiveProvider_Recomputes(t *testing.T) {
	var results []challenge.Result
	p := NewLiveProvider(func() ([]challenge.Result, int) { return results, 2 })

	assert.Equal(t, 0.0, value(t, p, ChallengesSolved))
	results = append(results, solved(0, 1, time.Second))
	assert.Equal(t, 1.0, value(t, p, ChallengesSolved))
	assert.InDelta(t, 0.5, value(t, p, CompletionRate), 1e-9)
}
