package types

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Store is the uniform contract over the cache backends. Every operation
// takes a context so callers stay backend-agnostic: the in-process map
// ignores it, the persistent backends use it for I/O.
//
// A TTL of zero means the entry never expires until explicitly cleared.
// Reading an expired entry deletes it and reports a miss (lazy eviction).
// Backend I/O failures are returned as *CacheError.
type Store interface {
	// Get returns the stored value and true, or nil and false on a miss.
	// Persistent backends return values as json.RawMessage; use
	// DecodeValue to normalize.
	Get(ctx context.Context, key string) (any, bool, error)

	// Set stores value under key. ttl of zero means no expiry.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error

	// Has reports whether a live entry exists without returning it.
	Has(ctx context.Context, key string) (bool, error)

	// Delete removes the entry. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every entry.
	Clear(ctx context.Context) error

	// Size returns the number of entries, including not-yet-evicted
	// expired ones.
	Size(ctx context.Context) (int, error)

	// Close releases backend resources. Idempotent.
	Close() error
}

// Sweeper is implemented by stores that can actively remove expired
// entries instead of relying on lazy eviction alone.
type Sweeper interface {
	// CleanExpired removes expired entries and returns how many went.
	CleanExpired(ctx context.Context) (int, error)
}

// CacheEntry is the stored shape used by the persistent backends.
// ExpiresAt of zero means no expiry.
type CacheEntry struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	ExpiresAt int64           `json:"expiresAt"` // unix milliseconds, 0 = never
}

// Expired reports whether the entry is past its expiry at time now.
func (e CacheEntry) Expired(now time.Time) bool {
	return e.ExpiresAt != 0 && now.UnixMilli() >= e.ExpiresAt
}

// DecodeValue normalizes a Store value into *T. In-process backends hand
// back the original value (preserving identity); persistent backends hand
// back raw JSON, which is unmarshalled here.
func DecodeValue[T any](v any) (*T, error) {
	switch val := v.(type) {
	case *T:
		return val, nil
	case T:
		return &val, nil
	case json.RawMessage:
		out := new(T)
		if err := json.Unmarshal(val, out); err != nil {
			return nil, fmt.Errorf("decoding cached value: %w", err)
		}
		return out, nil
	case []byte:
		out := new(T)
		if err := json.Unmarshal(val, out); err != nil {
			return nil, fmt.Errorf("decoding cached value: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cached value has unexpected type %T", v)
	}
}
