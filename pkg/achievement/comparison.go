package achievement

import (
	"fmt"
	"math"

	"digital.vasic.challengegame/pkg/statistic"
)

// Comparator decides whether a statistic satisfies a condition and
// explains the outcome.
type Comparator func(actual statistic.Statistic, c Condition) (bool, string)

const epsilon = 1e-9

func numeric(
	op string,
	holds func(a, b float64) bool,
) Comparator {
	return func(actual statistic.Statistic, c Condition) (bool, string) {
		if c.Value != "" || actual.Categorical() {
			return false, fmt.Sprintf(
				"%s compares numbers, %s is categorical", op, c.Statistic,
			)
		}
		ok := holds(actual.Value, c.Threshold)
		return ok, fmt.Sprintf(
			"%s = %g, want %s %g", c.Statistic, actual.Value, op, c.Threshold,
		)
	}
}

func equality(op string, want bool) Comparator {
	return func(actual statistic.Statistic, c Condition) (bool, string) {
		if c.Value != "" || actual.Categorical() {
			ok := (actual.Text == c.Value) == want
			return ok, fmt.Sprintf(
				"%s = %q, want %s %q", c.Statistic, actual.Text, op, c.Value,
			)
		}
		ok := (math.Abs(actual.Value-c.Threshold) < epsilon) == want
		return ok, fmt.Sprintf(
			"%s = %g, want %s %g", c.Statistic, actual.Value, op, c.Threshold,
		)
	}
}

func builtinComparators() map[string]Comparator {
	return map[string]Comparator{
		">=": numeric(">=", func(a, b float64) bool { return a >= b-epsilon }),
		">":  numeric(">", func(a, b float64) bool { return a > b+epsilon }),
		"<=": numeric("<=", func(a, b float64) bool { return a <= b+epsilon }),
		"<":  numeric("<", func(a, b float64) bool { return a < b-epsilon }),
		"==": equality("==", true),
		"!=": equality("!=", false),
	}
}
