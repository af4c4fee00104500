// Package monitor observes a running game for UI layers: it keeps
// an event log with tallies, a per-challenge dashboard, and streams
// events to WebSocket clients. Nothing here mutates game state.
package monitor

import (
	"sync"
	"time"

	"digital.vasic.challengegame/pkg/event"
)

// EventCollector records every event it receives.
type EventCollector struct {
	mu       sync.RWMutex
	events   []event.Event
	handlers []func(event.Event)
	stats    CollectorStats
}

// CollectorStats holds aggregate counts.
type CollectorStats struct {
	Total     int                `json:"total"`
	ByType    map[event.Type]int `json:"by_type"`
	Solved    int                `json:"solved"`
	Failed    int                `json:"failed"`
	Abandoned int                `json:"abandoned"`
	StartTime time.Time          `json:"start_time"`
	LastEvent time.Time          `json:"last_event,omitzero"`
}

func newStats() CollectorStats {
	return CollectorStats{
		ByType:    make(map[event.Type]int),
		StartTime: time.Now(),
	}
}

// NewEventCollector creates a new event collector.
func NewEventCollector() *EventCollector {
	return &EventCollector{
		events: make([]event.Event, 0, 64),
		stats:  newStats(),
	}
}

// OnEvent registers a handler to be called for each event.
func (c *EventCollector) OnEvent(handler func(event.Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, handler)
}

// Handle is an event.Handler.
func (c *EventCollector) Handle(e event.Event) error {
	c.Emit(e)
	return nil
}

// Emit records an event and notifies all handlers.
func (c *EventCollector) Emit(e event.Event) {
	c.mu.Lock()
	c.events = append(c.events, e)
	c.stats.Total++
	c.stats.ByType[e.EventType()]++
	c.stats.LastEvent = e.OccurredAt()
	if ce, ok := e.(event.ChallengeEvent); ok && ce.Result != nil {
		switch ce.Result.Outcome() {
		case "solved":
			c.stats.Solved++
		case "abandoned":
			c.stats.Abandoned++
		default:
			c.stats.Failed++
		}
	}
	handlers := make([]func(event.Event), len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.Unlock()

	for _, h := range handlers {
		h(e)
	}
}

// Events returns a copy of all collected events.
func (c *EventCollector) Events() []event.Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]event.Event, len(c.events))
	copy(result, c.events)
	return result
}

// Stats returns the current aggregate statistics.
func (c *EventCollector) Stats() CollectorStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.stats
	s.ByType = make(map[event.Type]int, len(c.stats.ByType))
	for k, v := range c.stats.ByType {
		s.ByType[k] = v
	}
	return s
}

// Reset clears all collected events and statistics.
func (c *EventCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = c.events[:0]
	c.stats = newStats()
}
