// Package events implements the Navigator's synchronous lifecycle event bus.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/expozr/navigator/pkg/types"
)

// subscription pairs a listener with a registration ordinal so removal does
// not disturb fan-out order.
type subscription struct {
	id int
	fn types.Listener
}

// Bus fans events out to registered listeners synchronously, in
// registration order. A listener that panics is recovered and logged; the
// remaining listeners still run and the triggering operation is unaffected.
type Bus struct {
	mu        sync.Mutex
	nextID    int
	listeners map[string][]subscription
	log       zerolog.Logger
}

// NewBus creates an empty bus.
func NewBus(log zerolog.Logger) *Bus {
	return &Bus{
		listeners: make(map[string][]subscription),
		log:       log,
	}
}

// On registers fn for the named event and returns an unsubscribe function.
func (b *Bus) On(name string, fn types.Listener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.listeners[name] = append(b.listeners[name], subscription{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.listeners[name]
		for i, s := range subs {
			if s.id == id {
				b.listeners[name] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Emit builds an Event from the partial payload and delivers it. The ID and
// timestamp are assigned here; ev.Name must be set by the caller.
func (b *Bus) Emit(ev types.Event) {
	ev.ID = uuid.Must(uuid.NewV7()).String()
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	b.mu.Lock()
	subs := make([]subscription, len(b.listeners[ev.Name]))
	copy(subs, b.listeners[ev.Name])
	b.mu.Unlock()

	for _, s := range subs {
		b.deliver(ev, s)
	}
}

// deliver invokes one listener, containing any panic.
func (b *Bus) deliver(ev types.Event, s subscription) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Warn().Str("event", ev.Name).Any("panic", r).Msg("event listener panicked")
		}
	}()
	s.fn(ev)
}
