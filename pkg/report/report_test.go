package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"digital.vasic.challengegame/pkg/challenge"
	"digital.vasic.challengegame/pkg/command"
	"digital.vasic.challengegame/pkg/game"
)

var t0 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func question(id challenge.ID, answer string) challenge.Challenge {
	return challenge.Challenge{
		ID:          id,
		Name:        "Question " + string(id),
		Category:    "geo|graphy",
		Kind:        challenge.KindCustom,
		MaxAttempts: 1,
		Status:      challenge.StatusNotStarted,
		Custom:      &challenge.Custom{Answers: []string{answer}},
	}
}

// played returns a controller after solving the first challenge
// and failing the second; the third is untouched.
func played(t *testing.T, history *HistoryWriter) *game.Controller {
	t.Helper()
	now := t0
	ctrl := game.NewController(
		game.NewGameState("quiz", []challenge.Challenge{
			question("a", "one"),
			question("b", "two"),
			question("c", "three"),
		}),
		game.WithClock(func() time.Time {
			now = now.Add(2 * time.Second)
			return now
		}),
	)
	if history != nil {
		ctrl.Bus().Subscribe(history.Handle)
	}
	require.NoError(t, ctrl.Execute(command.Start()))
	require.NoError(t, ctrl.Execute(command.Solve(challenge.CustomInput("one"))))
	require.NoError(t, ctrl.Execute(command.Start()))
	require.NoError(t, ctrl.Execute(command.Solve(challenge.CustomInput("wrong"))))
	return ctrl
}
