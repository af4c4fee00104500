package achievement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"digital.vasic.challengegame/pkg/statistic"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Statistic(name string) (statistic.Statistic, bool) {
	args := m.Called(name)
	return args.Get(0).(statistic.Statistic), args.Bool(1)
}

func (m *mockProvider) All() []statistic.Statistic {
	return m.Called().Get(0).([]statistic.Statistic)
}

// mapProvider serves fixed statistics.
type mapProvider map[string]statistic.Statistic

func (p mapProvider) Statistic(name string) (statistic.Statistic, bool) {
	s, ok := p[name]
	return s, ok
}

func (p mapProvider) All() []statistic.Statistic {
	out := make([]statistic.Statistic, 0, len(p))
	for _, s := range p {
		out = append(out, s)
	}
	return out
}

func stats() mapProvider {
	return mapProvider{
		"success_rate":      {Name: "success_rate", Value: 0.8},
		"challenges_solved": {Name: "challenges_solved", Value: 4},
		"last_outcome":      {Name: "last_outcome", Text: "solved"},
	}
}

func def(id string, conds ...Condition) Definition {
	return Definition{ID: id, Name: id, Conditions: conds}
}

func cond(stat, op string, threshold float64) Condition {
	return Condition{Statistic: stat, Comparison: op, Threshold: threshold}
}

func TestNewEvaluator_Builtins(t *testing.T) {
	e := NewEvaluator()
	assert.Equal(t, []string{"!=", "<", "<=", "==", ">", ">="}, e.Comparisons())
}

func TestEvaluator_Comparisons(t *testing.T) {
	tests := []struct {
		op        string
		threshold float64
		want      bool
	}{
		{">=", 0.8, true},
		{">=", 0.9, false},
		{">", 0.8, false},
		{">", 0.7, true},
		{"<=", 0.8, true},
		{"<", 0.8, false},
		{"<", 0.81, true},
		{"==", 0.8, true},
		{"==", 0.5, false},
		{"!=", 0.5, true},
		{"!=", 0.8, false},
	}
	e := NewEvaluator()
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			r := e.Check(def("a", cond("success_rate", tt.op, tt.threshold)), stats())
			assert.Equal(t, tt.want, r.Passed, r.Message)
			assert.False(t, r.Skipped)
		})
	}
}

func TestEvaluator_CategoricalComparisons(t *testing.T) {
	e := NewEvaluator()
	p := stats()

	eq := Condition{Statistic: "last_outcome", Comparison: "==", Value: "solved"}
	ne := Condition{Statistic: "last_outcome", Comparison: "!=", Value: "solved"}
	ge := Condition{Statistic: "last_outcome", Comparison: ">=", Value: "solved"}

	assert.True(t, e.Check(def("eq", eq), p).Passed)
	assert.False(t, e.Check(def("ne", ne), p).Passed)

	r := e.Check(def("ge", ge), p)
	assert.False(t, r.Passed)
	assert.Contains(t, r.Conditions[0].Message, "categorical")
}

func TestEvaluator_MissingStatisticSkips(t *testing.T) {
	p := &mockProvider{}
	p.On("Statistic", "success_rate").Return(statistic.Statistic{Name: "success_rate", Value: 1}, true)
	p.On("Statistic", "karma").Return(statistic.Statistic{}, false)

	e := NewEvaluator()
	d := def("mixed", cond("success_rate", ">=", 0.5), cond("karma", ">", 10))
	d.Match = MatchAny

	r := e.Check(d, p)
	assert.True(t, r.Skipped)
	assert.False(t, r.Passed)
	assert.True(t, r.Conditions[1].Missing)
	assert.Empty(t, e.Evaluate([]Definition{d}, p))
	p.AssertExpectations(t)
}

func TestEvaluator_UnknownComparisonFails(t *testing.T) {
	r := NewEvaluator().Check(def("x", cond("success_rate", "~=", 1)), stats())
	assert.False(t, r.Passed)
	assert.False(t, r.Skipped)
	assert.Contains(t, r.Conditions[0].Message, "unknown comparison")
}

func TestEvaluator_MatchAllAndAny(t *testing.T) {
	e := NewEvaluator()
	all := def("all", cond("success_rate", ">=", 0.5), cond("challenges_solved", ">=", 10))
	anyDef := all
	anyDef.ID = "any"
	anyDef.Match = MatchAny

	assert.False(t, e.Check(all, stats()).Passed)
	assert.True(t, e.Check(anyDef, stats()).Passed)
}

func TestEvaluator_EvaluateOrderAndDedupe(t *testing.T) {
	e := NewEvaluator()
	defs := []Definition{
		def("solver", cond("challenges_solved", ">=", 3)),
		def("perfect", cond("success_rate", "==", 1)),
		def("accurate", cond("success_rate", ">=", 0.75)),
		def("solver", cond("challenges_solved", ">=", 100)),
		def("empty"),
	}

	got := e.Evaluate(defs, stats())
	ids := make([]string, len(got))
	for i, d := range got {
		ids[i] = d.ID
	}
	assert.Equal(t, []string{"solver", "accurate"}, ids)
}

func TestEvaluator_Idempotent(t *testing.T) {
	e := NewEvaluator()
	defs := []Definition{
		def("solver", cond("challenges_solved", ">=", 3)),
		def("accurate", cond("success_rate", ">=", 0.75)),
	}
	assert.Equal(t, e.Evaluate(defs, stats()), e.Evaluate(defs, stats()))
}

func TestEvaluator_Register(t *testing.T) {
	e := NewEvaluator()
	err := e.Register("between", func(s statistic.Statistic, c Condition) (bool, string) {
		return s.Value > 0 && s.Value < c.Threshold, "between"
	})
	require.NoError(t, err)
	assert.True(t, e.HasComparison("between"))
	assert.True(t, e.Check(def("b", cond("success_rate", "between", 1)), stats()).Passed)

	err = e.Register(">=", func(statistic.Statistic, Condition) (bool, string) { return true, "" })
	assert.ErrorContains(t, err, "already registered")
	assert.Error(t, e.Register("", nil))
}
