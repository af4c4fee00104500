package achievement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.challengegame/pkg/challenge"
	"digital.vasic.challengegame/pkg/event"
	"digital.vasic.challengegame/pkg/statistic"
)

func TestTracker_ReportsEachUnlockOnce(t *testing.T) {
	var results []challenge.Result
	provider := statistic.NewLiveProvider(func() ([]challenge.Result, int) {
		return results, 3
	})
	defs := []Definition{
		def("first", cond(statistic.ChallengesSolved, ">=", 1)),
		def("triple", cond(statistic.ChallengesSolved, ">=", 3)),
	}

	var reported [][]string
	tr := NewTracker(NewEvaluator(), defs, provider, OnUnlock(func(ds []Definition) {
		ids := make([]string, len(ds))
		for i, d := range ds {
			ids[i] = d.ID
		}
		reported = append(reported, ids)
	}))

	bus := event.NewBus()
	bus.Subscribe(tr.Handle)
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		r := challenge.Result{Index: i, ChallengeID: "c", Solved: true, Attempts: 1, Correct: 1}
		results = append(results, r)
		bus.Publish(event.SolvedCorrect(i, "c", at))
		require.Empty(t, bus.Publish(event.Finish(r, at)))
	}

	assert.Equal(t, [][]string{{"first"}, {"triple"}}, reported)
	assert.Len(t, tr.Unlocked(), 2)
}

func TestTracker_PrimeSuppressesExisting(t *testing.T) {
	results := []challenge.Result{{Index: 0, Solved: true, Attempts: 1, Correct: 1}}
	provider := statistic.NewHistoryProvider(results, 2)
	defs := []Definition{def("first", cond(statistic.ChallengesSolved, ">=", 1))}

	called := false
	tr := NewTracker(NewEvaluator(), defs, provider, OnUnlock(func([]Definition) { called = true }))
	tr.Prime()

	require.NoError(t, tr.Handle(event.Finish(results[0], time.Now())))
	assert.False(t, called)
	assert.Equal(t, defs, tr.Unlocked())
	assert.Empty(t, tr.Refresh())
}

func TestTracker_IgnoresOtherEvents(t *testing.T) {
	provider := statistic.NewHistoryProvider(nil, 0)
	tr := NewTracker(NewEvaluator(), []Definition{
		def("zero", cond(statistic.Attempts, "==", 0)),
	}, provider)

	require.NoError(t, tr.Handle(event.NextTask(0, 1, time.Now())))
	assert.Empty(t, tr.Unlocked())
}
