package types

import "time"

// Lifecycle event names. The vocabulary is fixed; listeners subscribe by
// name and receive an Event payload.
const (
	EventSourceLoaded   = "source:loaded"
	EventCargoLoading   = "cargo:loading"
	EventCargoLoaded    = "cargo:loaded"
	EventCargoError     = "cargo:error"
	EventCacheHit       = "cache:hit"
	EventCacheMiss      = "cache:miss"
	EventNavigatorReset = "navigator:reset"
)

// Event is the payload delivered to listeners. Only the fields relevant to
// the event name are populated.
type Event struct {
	// ID is a UUID v7 assigned at emission.
	ID   string
	Name string
	At   time.Time

	// Source is the alias of the source involved, when any.
	Source string
	// Cargo is the cargo name involved, when any.
	Cargo string
	// Key is the cache key for cache:hit / cache:miss.
	Key string
	// Err carries the failure for cargo:error.
	Err error
}

// Listener receives events synchronously, in registration order. A
// panicking listener does not prevent later listeners from running.
type Listener func(Event)
