package achievement

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCondition parses the compact form "statistic op operand":
//
//	"success_rate >= 0.8"     -> numeric threshold
//	"last_outcome == solved"  -> categorical value
func ParseCondition(s string) (Condition, error) {
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return Condition{}, fmt.Errorf(
			"condition %q: want \"statistic op operand\"", s,
		)
	}
	c := Condition{Statistic: fields[0], Comparison: fields[1]}
	if f, err := strconv.ParseFloat(fields[2], 64); err == nil {
		c.Threshold = f
	} else {
		c.Value = strings.Trim(fields[2], `"'`)
	}
	return c, nil
}
