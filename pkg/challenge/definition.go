package challenge

import (
	"errors"
	"fmt"
	"time"
)

// Definition describes a challenge declaratively. It captures
// everything needed to place a challenge on a game path without
// writing Go code; banks of definitions are loaded from JSON or
// YAML files.
type Definition struct {
	ID          ID     `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Category    string `json:"category" yaml:"category"`
	Kind        Kind   `json:"kind" yaml:"kind"`

	// Dependencies lists challenges that must come earlier on the
	// game path.
	Dependencies []ID `json:"dependencies" yaml:"dependencies"`

	// MaxAttempts limits incorrect answers; zero is unlimited.
	MaxAttempts int `json:"max_attempts,omitempty" yaml:"max_attempts,omitempty"`

	// TimeLimit is a Go duration string such as "90s". Empty means
	// untimed.
	TimeLimit string `json:"time_limit,omitempty" yaml:"time_limit,omitempty"`

	MultipleChoice *MultipleChoice `json:"multiple_choice,omitempty" yaml:"multiple_choice,omitempty"`
	SortTable      *SortTable      `json:"sort_table,omitempty" yaml:"sort_table,omitempty"`
	Custom         *Custom         `json:"custom,omitempty" yaml:"custom,omitempty"`
}

// Validate checks that the definition can produce a playable
// challenge. All problems found are joined into one error.
func (d *Definition) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id is required"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if !d.Kind.Valid() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownKind, d.Kind))
	}
	if d.MaxAttempts < 0 {
		errs = append(errs, errors.New("max_attempts must not be negative"))
	}
	if _, err := d.timeLimit(); err != nil {
		errs = append(errs, err)
	}

	switch d.Kind {
	case KindMultipleChoice:
		errs = append(errs, d.validateMultipleChoice()...)
	case KindSortTable:
		errs = append(errs, d.validateSortTable()...)
	case KindCustom:
		if d.Custom == nil {
			errs = append(errs, ErrMissingPayload)
		} else if len(d.Custom.Answers) == 0 && d.Custom.Pattern == "" {
			errs = append(errs, errors.New("custom: answers or pattern required"))
		} else if d.Custom.Pattern != "" {
			if _, err := d.Custom.compile(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (d *Definition) validateMultipleChoice() []error {
	mc := d.MultipleChoice
	if mc == nil {
		return []error{ErrMissingPayload}
	}
	var errs []error
	if len(mc.Options) == 0 {
		errs = append(errs, errors.New("multiple_choice: options required"))
	}
	if len(mc.Correct) == 0 {
		errs = append(errs, errors.New("multiple_choice: correct option required"))
	}
	ids := make(map[int]bool, len(mc.Options))
	for _, o := range mc.Options {
		if ids[o.ID] {
			errs = append(errs, fmt.Errorf("multiple_choice: duplicate option %d", o.ID))
		}
		ids[o.ID] = true
	}
	for _, id := range mc.Correct {
		if !ids[id] {
			errs = append(errs, fmt.Errorf(
				"multiple_choice: correct option %d is not an option", id,
			))
		}
	}
	return errs
}

func (d *Definition) validateSortTable() []error {
	st := d.SortTable
	if st == nil {
		return []error{ErrMissingPayload}
	}
	if len(st.Rows) == 0 {
		return []error{errors.New("sort_table: rows required")}
	}
	probe := SortTable{Rows: st.Rows}
	if _, err := probe.Solve(SortTableInput(st.Solution...)); err != nil {
		return []error{fmt.Errorf("sort_table: solution: %w", err)}
	}
	return nil
}

func (d *Definition) timeLimit() (time.Duration, error) {
	if d.TimeLimit == "" {
		return 0, nil
	}
	limit, err := time.ParseDuration(d.TimeLimit)
	if err != nil {
		return 0, fmt.Errorf("time_limit: %w", err)
	}
	if limit < 0 {
		return 0, errors.New("time_limit must not be negative")
	}
	return limit, nil
}

// NewChallenge builds a NotStarted challenge from the definition.
func (d *Definition) NewChallenge() (Challenge, error) {
	if err := d.Validate(); err != nil {
		return Challenge{}, fmt.Errorf("challenge %s: %w", d.ID, err)
	}
	limit, _ := d.timeLimit()
	c := Challenge{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
		Kind:        d.Kind,
		MaxAttempts: d.MaxAttempts,
		Status:      StatusNotStarted,
		Timing:      Timing{TimeLimit: limit},
	}
	switch d.Kind {
	case KindMultipleChoice:
		mc := d.MultipleChoice.clone()
		c.MultipleChoice = &mc
	case KindSortTable:
		st := d.SortTable.clone()
		c.SortTable = &st
	case KindCustom:
		cu := d.Custom.clone()
		c.Custom = &cu
	}
	return c, nil
}
