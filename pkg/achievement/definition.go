// Package achievement decides which achievements a player has
// unlocked. An Evaluator is a pure rule engine over statistics; a
// Tracker remembers what was already unlocked and reports new
// unlocks as the game progresses.
package achievement

import (
	"errors"
	"fmt"
)

// Match selects how a definition combines its conditions.
type Match string

const (
	// MatchAll requires every condition to hold. It is the
	// default.
	MatchAll Match = "all"
	// MatchAny requires at least one condition to hold.
	MatchAny Match = "any"
)

// Condition compares one named statistic against a threshold.
type Condition struct {
	// Statistic is the name looked up in the provider.
	Statistic string `json:"statistic" yaml:"statistic"`

	// Comparison is a registered operator such as ">=".
	Comparison string `json:"comparison" yaml:"comparison"`

	// Threshold is compared against numeric statistics.
	Threshold float64 `json:"threshold,omitempty" yaml:"threshold,omitempty"`

	// Value is compared against categorical statistics. When set,
	// Threshold is ignored.
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
}

func (c Condition) String() string {
	if c.Value != "" {
		return fmt.Sprintf("%s %s %s", c.Statistic, c.Comparison, c.Value)
	}
	return fmt.Sprintf("%s %s %g", c.Statistic, c.Comparison, c.Threshold)
}

// Definition is a static achievement rule.
type Definition struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Match       Match       `json:"match,omitempty" yaml:"match,omitempty"`
	Conditions  []Condition `json:"conditions,omitempty" yaml:"conditions,omitempty"`

	// When holds conditions in their compact text form, for
	// example "success_rate >= 0.8". They are parsed into
	// Conditions when a definition file is loaded.
	When []string `json:"when,omitempty" yaml:"when,omitempty"`
}

// Validate checks that the definition is complete.
func (d *Definition) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id is required"))
	}
	if len(d.Conditions) == 0 {
		errs = append(errs, errors.New("at least one condition is required"))
	}
	switch d.Match {
	case "", MatchAll, MatchAny:
	default:
		errs = append(errs, fmt.Errorf("unknown match %q", d.Match))
	}
	for i, c := range d.Conditions {
		if c.Statistic == "" {
			errs = append(errs, fmt.Errorf("condition %d: statistic is required", i))
		}
		if c.Comparison == "" {
			errs = append(errs, fmt.Errorf("condition %d: comparison is required", i))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("achievement %q: %w", d.ID, err)
	}
	return nil
}

func (d *Definition) match() Match {
	if d.Match == "" {
		return MatchAll
	}
	return d.Match
}

// ConditionResult is the outcome of one condition.
type ConditionResult struct {
	Condition Condition `json:"condition"`
	Actual    any       `json:"actual,omitempty"`
	Passed    bool      `json:"passed"`
	Missing   bool      `json:"missing,omitempty"`
	Message   string    `json:"message"`
}

// Result is the outcome of checking one definition.
type Result struct {
	AchievementID string            `json:"achievement_id"`
	Passed        bool              `json:"passed"`
	Skipped       bool              `json:"skipped,omitempty"`
	Conditions    []ConditionResult `json:"conditions"`
	Message       string            `json:"message"`
}
