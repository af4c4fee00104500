package challenge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultipleChoice_Solve_MultiSelect(t *testing.T) {
	mc := &MultipleChoice{
		Options: []Option{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}},
		Correct: []int{1, 3},
	}

	tests := []struct {
		name    string
		options []int
		want    bool
	}{
		{"exact set", []int{1, 3}, true},
		{"any order", []int{3, 1}, true},
		{"duplicates collapse", []int{3, 1, 3}, true},
		{"subset", []int{1}, false},
		{"superset", []int{1, 2, 3}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mc.Solve(MultipleChoiceInput(tt.options...))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSortTable_Solve(t *testing.T) {
	st := &SortTable{
		Rows: []Row{
			{ID: "a", Label: "1969"},
			{ID: "b", Label: "1989"},
			{ID: "c", Label: "2001"},
		},
		Solution: []string{"a", "b", "c"},
	}

	ok, err := st.Solve(SortTableInput("a", "b", "c"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = st.Solve(SortTableInput("b", "a", "c"))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = st.Solve(SortTableInput("a", "b"))
	assert.ErrorIs(t, err, ErrInvalidOrder)

	_, err = st.Solve(SortTableInput("a", "a", "c"))
	assert.ErrorIs(t, err, ErrInvalidOrder)

	_, err = st.Solve(SortTableInput("a", "b", "z"))
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

func TestCustom_Solve(t *testing.T) {
	tests := []struct {
		name   string
		custom Custom
		answer string
		want   bool
	}{
		{"case insensitive", Custom{Answers: []string{"Go"}}, " go ", true},
		{"case sensitive miss", Custom{Answers: []string{"Go"}, CaseSensitive: true}, "go", false},
		{"case sensitive hit", Custom{Answers: []string{"Go"}, CaseSensitive: true}, "Go", true},
		{"pattern", Custom{Pattern: `^4\s*2$`}, "4 2", true},
		{"pattern miss", Custom{Pattern: `^42$`}, "43", false},
		{"pattern whole answer", Custom{Pattern: `ni+le`}, "NIILE", true},
		{"pattern substring", Custom{Pattern: `nile`}, "juvenile", false},
		{"pattern alternation", Custom{Pattern: `nile|amazon`}, "the amazon", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.custom.Solve(CustomInput(tt.answer))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCustom_Solve_Errors(t *testing.T) {
	c := &Custom{Pattern: "("}

	_, err := c.Solve(CustomInput(""))
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = c.Solve(CustomInput("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compile answer pattern")
}
