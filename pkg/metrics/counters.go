package metrics

import (
	"sort"
	"sync"
	"time"
)

// Counters implements GameMetrics with in-memory counters. It is
// safe for concurrent use; the host application exports the values
// however it likes.
type Counters struct {
	mu        sync.RWMutex
	commands  map[string]int
	durations map[string]time.Duration
	events    map[string]int
	solves    map[string]int
	active    int
}

// NewCounters creates an empty Counters instance.
func NewCounters() *Counters {
	return &Counters{
		commands:  make(map[string]int),
		durations: make(map[string]time.Duration),
		events:    make(map[string]int),
		solves:    make(map[string]int),
	}
}

func outcome(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}

func (m *Counters) RecordCommand(name string, ok bool, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commands[name+":"+outcome(ok, "ok", "failed")]++
	m.durations[name] += duration
}

func (m *Counters) RecordEvent(eventType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[eventType]++
}

func (m *Counters) RecordSolve(kind string, correct bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.solves[kind+":"+outcome(correct, "correct", "incorrect")]++
}

func (m *Counters) SetActiveChallenges(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = count
}

// CommandCount returns the count for a command+outcome
// combination.
func (m *Counters) CommandCount(name string, ok bool) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.commands[name+":"+outcome(ok, "ok", "failed")]
}

// CommandDuration returns the total time spent executing the
// named command.
func (m *Counters) CommandDuration(name string) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.durations[name]
}

// EventCount returns how many events of the type were recorded.
func (m *Counters) EventCount(eventType string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.events[eventType]
}

// SolveCount returns the count for a kind+correctness combination.
func (m *Counters) SolveCount(kind string, correct bool) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.solves[kind+":"+outcome(correct, "correct", "incorrect")]
}

// ActiveChallenges returns the current in-progress gauge.
func (m *Counters) ActiveChallenges() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// Snapshot returns every counter keyed by "kind/name", in sorted
// key order.
func (m *Counters) Snapshot() []Sample {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Sample
	for k, v := range m.commands {
		out = append(out, Sample{Key: "command/" + k, Value: v})
	}
	for k, v := range m.events {
		out = append(out, Sample{Key: "event/" + k, Value: v})
	}
	for k, v := range m.solves {
		out = append(out, Sample{Key: "solve/" + k, Value: v})
	}
	out = append(out, Sample{Key: "gauge/active_challenges", Value: m.active})
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Sample is one named counter value.
type Sample struct {
	Key   string `json:"key"`
	Value int    `json:"value"`
}
