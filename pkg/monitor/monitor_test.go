package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"digital.vasic.challengegame/pkg/challenge"
	"digital.vasic.challengegame/pkg/command"
	"digital.vasic.challengegame/pkg/event"
	"digital.vasic.challengegame/pkg/game"
)

var t0 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func question(id challenge.ID, answer string) challenge.Challenge {
	return challenge.Challenge{
		ID:          id,
		Name:        string(id),
		Category:    "trivia",
		Kind:        challenge.KindCustom,
		MaxAttempts: 1,
		Status:      challenge.StatusNotStarted,
		Custom:      &challenge.Custom{Answers: []string{answer}},
	}
}

func newState() *game.GameState {
	return game.NewGameState("quiz", []challenge.Challenge{
		question("first", "one"),
		question("second", "two"),
		question("third", "three"),
	})
}

// newGame wires a controller to the given handlers.
func newGame(t *testing.T, handlers ...event.Handler) *game.Controller {
	t.Helper()
	now := t0
	ctrl := game.NewController(newState(), game.WithClock(func() time.Time {
		now = now.Add(time.Second)
		return now
	}))
	for _, h := range handlers {
		ctrl.Bus().Subscribe(h)
	}
	return ctrl
}

// play solves the first challenge, fails the second and abandons
// the third.
func play(t *testing.T, ctrl *game.Controller) {
	t.Helper()
	require.NoError(t, ctrl.Execute(command.Solve(challenge.CustomInput("one"))))
	require.NoError(t, ctrl.Execute(command.Solve(challenge.CustomInput("nope"))))
	require.NoError(t, ctrl.Execute(command.Start()))
	require.NoError(t, ctrl.Execute(command.Abandon()))
}
