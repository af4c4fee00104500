package challenge

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Option is one selectable answer of a multiple choice question.
type Option struct {
	ID   int    `json:"id" yaml:"id"`
	Text string `json:"text" yaml:"text"`
}

// MultipleChoice asks the player to pick the correct option(s).
// An input is correct when it selects exactly the correct set, in
// any order.
type MultipleChoice struct {
	Question string   `json:"question" yaml:"question"`
	Options  []Option `json:"options" yaml:"options"`
	Correct  []int    `json:"correct" yaml:"correct"`
}

// Solve implements Solvable.
func (m *MultipleChoice) Solve(in Input) (bool, error) {
	if len(in.Options) == 0 {
		return false, ErrEmptyInput
	}
	seen := make(map[int]bool, len(in.Options))
	for _, id := range in.Options {
		if !m.hasOption(id) {
			return false, fmt.Errorf("%w: %d", ErrUnknownOption, id)
		}
		seen[id] = true
	}
	if len(seen) != len(m.Correct) {
		return false, nil
	}
	for _, id := range m.Correct {
		if !seen[id] {
			return false, nil
		}
	}
	return true, nil
}

func (m *MultipleChoice) hasOption(id int) bool {
	for _, o := range m.Options {
		if o.ID == id {
			return true
		}
	}
	return false
}

func (m *MultipleChoice) clone() MultipleChoice {
	return MultipleChoice{
		Question: m.Question,
		Options:  slices.Clone(m.Options),
		Correct:  slices.Clone(m.Correct),
	}
}

// Row is one entry of a sort table.
type Row struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// SortTable asks the player to put rows in order. Solution lists
// the row IDs in the correct order.
type SortTable struct {
	Prompt   string   `json:"prompt" yaml:"prompt"`
	Rows     []Row    `json:"rows" yaml:"rows"`
	Solution []string `json:"solution" yaml:"solution"`
}

// Solve implements Solvable. The submitted order must name every
// row exactly once.
func (s *SortTable) Solve(in Input) (bool, error) {
	if len(in.Order) == 0 {
		return false, ErrEmptyInput
	}
	if len(in.Order) != len(s.Rows) {
		return false, fmt.Errorf(
			"%w: got %d rows, want %d",
			ErrInvalidOrder, len(in.Order), len(s.Rows),
		)
	}
	known := make(map[string]bool, len(s.Rows))
	for _, r := range s.Rows {
		known[r.ID] = true
	}
	for _, id := range in.Order {
		if !known[id] {
			return false, fmt.Errorf(
				"%w: unknown or repeated row %q",
				ErrInvalidOrder, id,
			)
		}
		delete(known, id)
	}
	return slices.Equal(in.Order, s.Solution), nil
}

func (s *SortTable) clone() SortTable {
	return SortTable{
		Prompt:   s.Prompt,
		Rows:     slices.Clone(s.Rows),
		Solution: slices.Clone(s.Solution),
	}
}

// Custom accepts a free-form answer. It is correct when it matches
// one of Answers (trimmed, case-insensitive unless CaseSensitive)
// or the optional Pattern regular expression, which must match the
// whole answer.
type Custom struct {
	Prompt        string   `json:"prompt" yaml:"prompt"`
	Answers       []string `json:"answers" yaml:"answers,omitempty"`
	Pattern       string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	CaseSensitive bool     `json:"case_sensitive,omitempty" yaml:"case_sensitive,omitempty"`
}

// Solve implements Solvable.
func (c *Custom) Solve(in Input) (bool, error) {
	answer := strings.TrimSpace(in.Answer)
	if answer == "" {
		return false, ErrEmptyInput
	}
	for _, want := range c.Answers {
		want = strings.TrimSpace(want)
		if c.CaseSensitive && answer == want {
			return true, nil
		}
		if !c.CaseSensitive && strings.EqualFold(answer, want) {
			return true, nil
		}
	}
	if c.Pattern == "" {
		return false, nil
	}
	re, err := c.compile()
	if err != nil {
		return false, err
	}
	return re.MatchString(answer), nil
}

func (c *Custom) compile() (*regexp.Regexp, error) {
	expr := "^(?:" + c.Pattern + ")$"
	if !c.CaseSensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile answer pattern: %w", err)
	}
	return re, nil
}

func (c *Custom) clone() Custom {
	out := *c
	out.Answers = slices.Clone(c.Answers)
	return out
}
