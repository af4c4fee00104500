package event

import (
	"fmt"
	"sync"

	"digital.vasic.challengegame/pkg/logging"
)

// Handler receives one published event. A returned error is
// reported by the bus but never stops delivery to other handlers.
type Handler func(Event) error

// Subscription is an opaque token identifying one registered
// handler.
type Subscription uint64

// DeliveryError records a handler that failed for an event.
type DeliveryError struct {
	Subscription Subscription
	Event        Type
	Err          error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf(
		"subscriber %d failed on %s: %v",
		e.Subscription, e.Event, e.Err,
	)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

type subscriber struct {
	id      Subscription
	handler Handler
}

// Bus is an in-process publish/subscribe registry. Publish is
// synchronous: every handler registered when Publish starts runs
// once, in subscription order, before Publish returns.
// Subscribing or unsubscribing from inside a handler is safe and
// takes effect from the next Publish.
//
// Bus is safe for concurrent use, but delivery order across
// concurrent Publish calls is not defined; the game controller
// publishes from a single goroutine.
type Bus struct {
	mu     sync.RWMutex
	next   Subscription
	subs   []subscriber
	logger logging.Logger
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithLogger reports handler failures to l.
func WithLogger(l logging.Logger) BusOption {
	return func(b *Bus) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBus creates an empty Bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{logger: logging.NullLogger{}}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers h and returns its handle.
func (b *Bus) Subscribe(h Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.next++
	b.subs = append(b.subs, subscriber{id: b.next, handler: h})
	return b.next
}

// Observe registers a handler that cannot fail.
func (b *Bus) Observe(fn func(Event)) Subscription {
	return b.Subscribe(func(e Event) error {
		fn(e)
		return nil
	})
}

// Unsubscribe removes the handler registered under s. It reports
// whether the handle was live.
func (b *Bus) Unsubscribe(s Subscription) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.subs {
		if sub.id == s {
			subs := make([]subscriber, 0, len(b.subs)-1)
			subs = append(subs, b.subs[:i]...)
			b.subs = append(subs, b.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of registered handlers.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Publish delivers e to every handler registered at the time of
// the call and returns the failures, in delivery order. A handler
// that panics is reported like one that returned an error.
func (b *Bus) Publish(e Event) []error {
	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()

	var errs []error
	for _, sub := range subs {
		if err := deliver(sub.handler, e); err != nil {
			derr := &DeliveryError{
				Subscription: sub.id,
				Event:        e.EventType(),
				Err:          err,
			}
			b.logger.Warn("event subscriber failed",
				logging.EventField(string(e.EventType())),
				logging.IntField("subscription", int(sub.id)),
				logging.ErrorField(err),
			)
			errs = append(errs, derr)
		}
	}
	return errs
}

func deliver(h Handler, e Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return h(e)
}
