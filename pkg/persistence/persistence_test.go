package persistence

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.challengegame/pkg/challenge"
	"digital.vasic.challengegame/pkg/command"
	"digital.vasic.challengegame/pkg/game"
)

func path() []challenge.Challenge {
	return []challenge.Challenge{
		{
			ID: "capital", Name: "Capital", Kind: challenge.KindMultipleChoice,
			Status: challenge.StatusNotStarted,
			MultipleChoice: &challenge.MultipleChoice{
				Question: "Capital of France?",
				Options:  []challenge.Option{{ID: 1, Text: "Berlin"}, {ID: 2, Text: "Paris"}},
				Correct:  []int{2},
			},
		},
		{
			ID: "river", Name: "River", Kind: challenge.KindCustom, MaxAttempts: 3,
			Status: challenge.StatusNotStarted,
			Custom: &challenge.Custom{Prompt: "Longest river?", Answers: []string{"Nile"}},
			Timing: challenge.Timing{TimeLimit: time.Minute},
		},
	}
}

// playedState returns a state with one finished and one in-progress
// challenge.
func playedState(t *testing.T) *game.GameState {
	t.Helper()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	ctrl := game.NewController(
		game.NewGameState("europe", path()),
		game.WithClock(func() time.Time {
			now = now.Add(1500 * time.Millisecond)
			return now
		}),
	)
	require.NoError(t, ctrl.Execute(command.Solve(challenge.MultipleChoiceInput(2))))
	require.NoError(t, ctrl.Execute(command.Solve(challenge.CustomInput("Amazon"))))
	s := ctrl.State()
	return &s
}

type storeCase struct {
	name string
	open func(t *testing.T) GameStatePersistence
}

func stores() []storeCase {
	return []storeCase{
		{"memory", func(t *testing.T) GameStatePersistence {
			return NewMemoryStore()
		}},
		{"file", func(t *testing.T) GameStatePersistence {
			s, err := NewFileStore(filepath.Join(t.TempDir(), "saves", "game.json"))
			require.NoError(t, err)
			return s
		}},
		{"sqlite", func(t *testing.T) GameStatePersistence {
			s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "game.db"), "default")
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		}},
	}
}

func TestStores_RoundTrip(t *testing.T) {
	ctx := context.Background()
	for _, sc := range stores() {
		t.Run(sc.name, func(t *testing.T) {
			store := sc.open(t)
			state := playedState(t)

			require.NoError(t, store.SaveGameState(ctx, state))
			got, err := store.LoadGameState(ctx)
			require.NoError(t, err)
			assert.Equal(t, state, got)
		})
	}
}

func TestStores_RoundTripZonedClockAndEmptySlices(t *testing.T) {
	ctx := context.Background()
	cet := time.FixedZone("CET", 3600)
	challenges := append(path(), challenge.Challenge{
		ID: "delta", Name: "Delta", Kind: challenge.KindCustom,
		Status: challenge.StatusNotStarted,
		Custom: &challenge.Custom{Answers: []string{}, Pattern: `d[ea]lta`},
	})

	for _, sc := range stores() {
		t.Run(sc.name, func(t *testing.T) {
			now := time.Date(2026, 3, 1, 11, 0, 0, 0, cet)
			ctrl := game.NewController(
				game.NewGameState("europe", challenges),
				game.WithClock(func() time.Time {
					now = now.Add(time.Second)
					return now
				}),
			)
			require.NoError(t, ctrl.Execute(command.Solve(challenge.MultipleChoiceInput(2))))
			require.NoError(t, ctrl.Execute(command.Start()))
			state := ctrl.State()

			store := sc.open(t)
			require.NoError(t, store.SaveGameState(ctx, &state))
			got, err := store.LoadGameState(ctx)
			require.NoError(t, err)
			assert.Equal(t, &state, got)
			assert.Equal(t, time.UTC, got.Challenges[1].StartedAt.Location())
			assert.NotNil(t, got.Challenges[2].Custom.Answers)
			assert.Empty(t, got.Challenges[2].Custom.Answers)
		})
	}
}

func TestStores_StateNotFound(t *testing.T) {
	for _, sc := range stores() {
		t.Run(sc.name, func(t *testing.T) {
			_, err := sc.open(t).LoadGameState(context.Background())
			assert.ErrorIs(t, err, ErrStateNotFound)

			var perr *Error
			assert.ErrorAs(t, err, &perr)
		})
	}
}

func TestStores_LastWriterWins(t *testing.T) {
	ctx := context.Background()
	for _, sc := range stores() {
		t.Run(sc.name, func(t *testing.T) {
			store := sc.open(t)
			first := game.NewGameState("first", path())
			second := playedState(t)

			require.NoError(t, store.SaveGameState(ctx, first))
			require.NoError(t, store.SaveGameState(ctx, second))
			got, err := store.LoadGameState(ctx)
			require.NoError(t, err)
			assert.Equal(t, "europe", got.MapID)
		})
	}
}

func TestMemoryStore_ConcurrentSaveLoad(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	a := game.NewGameState("a", path())
	b := playedState(t)
	require.NoError(t, store.SaveGameState(ctx, a))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			s := a
			if i%2 == 0 {
				s = b
			}
			assert.NoError(t, store.SaveGameState(ctx, s))
		}(i)
		go func() {
			defer wg.Done()
			got, err := store.LoadGameState(ctx)
			if assert.NoError(t, err) {
				assert.Contains(t, []string{"a", "europe"}, got.MapID)
			}
		}()
	}
	wg.Wait()
}

func TestMemoryStore_SavedStateIsDetached(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	state := game.NewGameState("europe", path())
	require.NoError(t, store.SaveGameState(ctx, state))

	state.MapID = "changed"
	got, err := store.LoadGameState(ctx)
	require.NoError(t, err)
	assert.Equal(t, "europe", got.MapID)
}

func TestStores_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewMemoryStore()
	assert.ErrorIs(t, store.SaveGameState(ctx, game.NewGameState("x", nil)), ErrIO)
	_, err := store.LoadGameState(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecode_Errors(t *testing.T) {
	invalid := game.NewGameState("europe", path())
	invalid.Active = 0
	data, err := Encode(invalid)
	require.NoError(t, err)

	for name, in := range map[string][]byte{
		"garbage":        []byte("not json"),
		"future version": []byte(`{"version": 99, "state": {}}`),
		"missing state":  []byte(`{"version": 1}`),
		"invariants":     data,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(in)
			assert.ErrorIs(t, err, ErrSerialization)
		})
	}

	_, err = Encode(nil)
	assert.ErrorIs(t, err, ErrSerialization)
}

func TestFileStore_Errors(t *testing.T) {
	_, err := NewFileStore("")
	assert.ErrorIs(t, err, ErrAccess)

	dir := t.TempDir()
	target := filepath.Join(dir, "game.json")
	require.NoError(t, os.WriteFile(target, []byte("{"), 0o644))
	store, err := NewFileStore(target)
	require.NoError(t, err)
	_, err = store.LoadGameState(context.Background())
	assert.ErrorIs(t, err, ErrSerialization)

	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	store, err = NewFileStore(filepath.Join(blocker, "game.json"))
	require.NoError(t, err)
	err = store.SaveGameState(context.Background(), game.NewGameState("x", nil))
	assert.ErrorIs(t, err, ErrIO)
}

func TestFileStore_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(filepath.Join(dir, "game.json"))
	require.NoError(t, err)
	require.NoError(t, store.SaveGameState(context.Background(), playedState(t)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "game.json", entries[0].Name())
}

func TestSQLiteStore_Slots(t *testing.T) {
	ctx := context.Background()
	store, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "game.db"), "alice")
	require.NoError(t, err)
	defer store.Close()
	bob := store.WithSlot("bob")

	require.NoError(t, store.SaveGameState(ctx, playedState(t)))
	require.NoError(t, bob.SaveGameState(ctx, game.NewGameState("bob-map", path())))

	slots, err := store.Slots(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, slots)

	got, err := bob.LoadGameState(ctx)
	require.NoError(t, err)
	assert.Equal(t, "bob-map", got.MapID)

	require.NoError(t, bob.Delete(ctx))
	_, err = bob.LoadGameState(ctx)
	assert.ErrorIs(t, err, ErrStateNotFound)
	assert.Equal(t, "alice", store.Slot())
}

func TestOpenSQLite_RequiresPathAndSlot(t *testing.T) {
	_, err := OpenSQLite(context.Background(), "", "default")
	assert.ErrorIs(t, err, ErrAccess)
	_, err = OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "x.db"), " ")
	assert.ErrorIs(t, err, ErrAccess)
}
