package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.challengegame/pkg/bank"
	"digital.vasic.challengegame/pkg/challenge"
	"digital.vasic.challengegame/pkg/game"
)

func def(id challenge.ID, category string, deps ...challenge.ID) *challenge.Definition {
	return &challenge.Definition{
		ID:           id,
		Name:         "Challenge " + string(id),
		Category:     category,
		Kind:         challenge.KindCustom,
		Dependencies: deps,
		Custom:       &challenge.Custom{Answers: []string{"yes"}},
	}
}

func register(t *testing.T, defs ...*challenge.Definition) *DefaultRegistry {
	t.Helper()
	r := NewRegistry()
	for _, d := range defs {
		require.NoError(t, r.RegisterDefinition(d))
	}
	return r
}

func pathIDs(path []challenge.Challenge) []challenge.ID {
	ids := make([]challenge.ID, len(path))
	for i, c := range path {
		ids[i] = c.ID
	}
	return ids
}

func TestRegistry_RegisterDefinition(t *testing.T) {
	r := register(t, def("b", "x"), def("a", "y"))
	assert.Equal(t, 2, r.Count())

	err := r.RegisterDefinition(def("a", "z"))
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	err = r.RegisterDefinition(&challenge.Definition{ID: "bad", Name: "Bad", Kind: "riddle"})
	assert.ErrorIs(t, err, challenge.ErrUnknownKind)

	assert.Error(t, r.RegisterDefinition(nil))
	assert.Equal(t, 2, r.Count())
}

func TestRegistry_GetAndList(t *testing.T) {
	r := register(t, def("c", "x"), def("a", "y"), def("b", "x"))

	got, err := r.Get("b")
	require.NoError(t, err)
	assert.Equal(t, "Challenge b", got.Name)

	_, err = r.Get("zzz")
	assert.ErrorIs(t, err, ErrNotFound)

	var ids []challenge.ID
	for _, d := range r.List() {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []challenge.ID{"a", "b", "c"}, ids)

	x := r.ListByCategory("x")
	require.Len(t, x, 2)
	assert.Equal(t, challenge.ID("b"), x[0].ID)
	assert.Empty(t, r.ListByCategory("none"))

	r.Clear()
	assert.Zero(t, r.Count())
}

func TestRegistry_ValidateDependencies(t *testing.T) {
	r := register(t, def("a", ""), def("b", "", "a", "ghost"), def("c", "", "phantom"))

	err := r.ValidateDependencies()
	assert.ErrorIs(t, err, ErrMissingDependency)
	assert.ErrorContains(t, err, "b depends on ghost")
	assert.ErrorContains(t, err, "c depends on phantom")

	_, err = r.BuildPath()
	assert.ErrorIs(t, err, ErrMissingDependency)

	assert.NoError(t, register(t, def("a", ""), def("b", "", "a")).ValidateDependencies())
}

func TestRegistry_BuildPath(t *testing.T) {
	r := register(t,
		def("quiz", "", "capital", "planets"),
		def("planets", ""),
		def("capital", "", "alphabet"),
		def("alphabet", ""),
		def("zebra", ""),
	)

	path, err := r.BuildPath()
	require.NoError(t, err)
	assert.Equal(t,
		[]challenge.ID{"alphabet", "capital", "planets", "quiz", "zebra"},
		pathIDs(path))
	for _, c := range path {
		assert.Equal(t, challenge.StatusNotStarted, c.Status)
	}
}

func TestRegistry_BuildPathDetectsCycles(t *testing.T) {
	r := register(t,
		def("a", "", "c"),
		def("b", "", "a"),
		def("c", "", "b"),
		def("d", ""),
	)

	_, err := r.BuildPath()
	require.ErrorIs(t, err, ErrCycle)
	assert.ErrorContains(t, err, "a -> c -> b -> a")
}

func TestRegistry_SelfDependency(t *testing.T) {
	_, err := register(t, def("a", "", "a")).BuildPath()
	require.ErrorIs(t, err, ErrCycle)
	assert.ErrorContains(t, err, "a -> a")
}

func TestRegistry_NewGameState(t *testing.T) {
	r := register(t, def("b", "", "a"), def("a", ""))

	state, err := r.NewGameState("europe")
	require.NoError(t, err)
	assert.Equal(t, "europe", state.MapID)
	assert.Equal(t, game.NoActive, state.Active)
	assert.Equal(t, []challenge.ID{"a", "b"}, pathIDs(state.Challenges))
	assert.NoError(t, state.Validate())

	_, err = NewRegistry().NewGameState("empty")
	assert.ErrorIs(t, err, game.ErrGamePathNotFound)
}

func TestLoadDefinitions(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bank.yaml"), []byte(`version: "1"
challenges:
  - id: second
    name: Second
    kind: custom
    dependencies: [first]
    custom: {answers: [b]}
  - id: first
    name: First
    kind: custom
    custom: {answers: [a]}
`), 0644))

	r := NewRegistry()
	require.NoError(t, LoadDefinitions(r, dir))
	path, err := r.BuildPath()
	require.NoError(t, err)
	assert.Equal(t, []challenge.ID{"first", "second"}, pathIDs(path))

	err = LoadBank(r, mustBank(t, dir))
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	assert.Error(t, LoadDefinitions(NewRegistry(), filepath.Join(dir, "missing")))
}

func mustBank(t *testing.T, path string) *bank.Bank {
	t.Helper()
	b := bank.New()
	require.NoError(t, b.Load(path))
	return b
}
