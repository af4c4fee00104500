package achievement

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"digital.vasic.challengegame/pkg/statistic"
)

// Evaluator checks achievement definitions against statistics. It
// keeps no memory between calls: identical statistics always give
// identical results. It is safe for concurrent use.
type Evaluator struct {
	mu          sync.RWMutex
	comparators map[string]Comparator
}

// NewEvaluator creates an Evaluator with the comparisons >=, >, <=,
// <, == and != registered.
func NewEvaluator() *Evaluator {
	return &Evaluator{comparators: builtinComparators()}
}

// Register adds a custom comparison operator. It fails if the
// operator is already registered.
func (e *Evaluator) Register(op string, cmp Comparator) error {
	op = strings.TrimSpace(op)
	if op == "" || cmp == nil {
		return fmt.Errorf("comparison operator and function are required")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.comparators[op]; exists {
		return fmt.Errorf("comparison already registered: %s", op)
	}
	e.comparators[op] = cmp
	return nil
}

// HasComparison reports whether op is registered.
func (e *Evaluator) HasComparison(op string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.comparators[op]
	return ok
}

// Comparisons returns the registered operators, sorted.
func (e *Evaluator) Comparisons() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ops := make([]string, 0, len(e.comparators))
	for op := range e.comparators {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

// Check evaluates one definition. A definition referencing a
// statistic the provider does not know is skipped, never passed.
func (e *Evaluator) Check(def Definition, p statistic.Provider) Result {
	res := Result{
		AchievementID: def.ID,
		Conditions:    make([]ConditionResult, 0, len(def.Conditions)),
	}
	if len(def.Conditions) == 0 {
		res.Skipped = true
		res.Message = "no conditions"
		return res
	}

	passed := 0
	for _, c := range def.Conditions {
		cr := e.checkCondition(c, p)
		if cr.Missing {
			res.Skipped = true
		}
		if cr.Passed {
			passed++
		}
		res.Conditions = append(res.Conditions, cr)
	}

	switch {
	case res.Skipped:
		res.Message = "statistic not available"
	case def.match() == MatchAny:
		res.Passed = passed > 0
		res.Message = fmt.Sprintf("%d of %d conditions hold, need any", passed, len(def.Conditions))
	default:
		res.Passed = passed == len(def.Conditions)
		res.Message = fmt.Sprintf("%d of %d conditions hold", passed, len(def.Conditions))
	}
	return res
}

func (e *Evaluator) checkCondition(c Condition, p statistic.Provider) ConditionResult {
	cr := ConditionResult{Condition: c}

	e.mu.RLock()
	cmp, ok := e.comparators[c.Comparison]
	e.mu.RUnlock()
	if !ok {
		cr.Message = fmt.Sprintf("unknown comparison: %s", c.Comparison)
		return cr
	}

	actual, ok := p.Statistic(c.Statistic)
	if !ok {
		cr.Missing = true
		cr.Message = fmt.Sprintf("statistic not found: %s", c.Statistic)
		return cr
	}
	if actual.Categorical() {
		cr.Actual = actual.Text
	} else {
		cr.Actual = actual.Value
	}
	cr.Passed, cr.Message = cmp(actual, c)
	return cr
}

// Evaluate returns the definitions whose predicate holds, in input
// order and without duplicate IDs.
func (e *Evaluator) Evaluate(
	defs []Definition,
	p statistic.Provider,
) []Definition {
	seen := make(map[string]bool, len(defs))
	var unlocked []Definition
	for _, d := range defs {
		if seen[d.ID] {
			continue
		}
		seen[d.ID] = true
		if e.Check(d, p).Passed {
			unlocked = append(unlocked, d)
		}
	}
	return unlocked
}
