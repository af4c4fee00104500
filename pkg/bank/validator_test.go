package bank

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.challengegame/pkg/challenge"
)

func TestValidateFile_Valid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlBank), 0644))
	assert.Empty(t, ValidateFile(path))
}

func TestValidateFile_Problems(t *testing.T) {
	path := createTestBankFile(t, t.TempDir(), "bad.json", BankFile{
		Challenges: []challenge.Definition{
			custom("dup", ""),
			custom("dup", ""),
			{Name: "no id", Kind: challenge.KindCustom, Custom: &challenge.Custom{Answers: []string{"x"}}},
			{
				ID: "mc", Name: "mc", Kind: challenge.KindMultipleChoice,
				MultipleChoice: &challenge.MultipleChoice{
					Options: []challenge.Option{{ID: 1}},
					Correct: []int{9},
				},
			},
			{
				ID: "sort", Name: "sort", Kind: challenge.KindSortTable,
				SortTable: &challenge.SortTable{
					Rows:     []challenge.Row{{ID: "a"}, {ID: "b"}},
					Solution: []string{"a"},
				},
			},
			{ID: "empty", Name: "empty", Kind: challenge.KindCustom},
		},
	})

	errs := ValidateFile(path)
	byField := map[string][]int{}
	for _, e := range errs {
		byField[e.Field] = append(byField[e.Field], e.Index)
	}

	assert.Equal(t, []int{-1}, byField["version"])
	assert.Contains(t, byField["id"], 1, "duplicate")
	assert.Contains(t, byField["id"], 2, "missing")
	assert.Contains(t, byField["definition"], 3, "correct option not among options")
	assert.Contains(t, byField["definition"], 4, "sort rows mismatch")
	assert.Contains(t, byField["definition"], 5, "missing payload")

	var dup, payload bool
	for _, e := range errs {
		dup = dup || errors.Is(e, ErrDuplicateID)
		payload = payload || errors.Is(e, challenge.ErrMissingPayload)
	}
	assert.True(t, dup)
	assert.True(t, payload)
}

func TestValidateFile_Unreadable(t *testing.T) {
	errs := ValidateFile(filepath.Join(t.TempDir(), "none.json"))
	require.Len(t, errs, 1)
	assert.Equal(t, "file", errs[0].Field)
	assert.Equal(t, -1, errs[0].Index)
}

func TestValidate_Empty(t *testing.T) {
	errs := Validate(&BankFile{Version: "1"})
	require.Len(t, errs, 1)
	assert.Equal(t, "challenges: no challenges defined", errs[0].Error())
}

func TestValidationError_Error(t *testing.T) {
	e := &ValidationError{Field: "name", Message: "required", Index: 2}
	assert.Equal(t, "challenges[2].name: required", e.Error())
}
