// Package strategy implements the per-format load strategies and the
// registry the loader dispatches through. Formats are a closed tagged set;
// dispatch is by tag, not inheritance, so callers can re-register any slot
// with their own implementation.
package strategy

import (
	"context"
	"sync"

	"github.com/expozr/navigator/pkg/types"
)

// Request is one load attempt against a concrete artifact location.
type Request struct {
	// URL is the artifact to fetch and execute.
	URL string

	// Slot is the agreed output binding for scoped (universal-wrapper)
	// execution. Empty means the sandbox scrapes the scope diff.
	Slot string
}

// Strategy loads one packaging format.
type Strategy interface {
	// Tag identifies the strategy on LoadedCargo results.
	Tag() types.StrategyTag

	// Supported reports whether the current environment can actually run
	// this strategy. Unsupported strategies are filtered out of candidate
	// ordering rather than failing at load time.
	Supported() bool

	// AttemptLoad fetches and executes the artifact, returning the raw
	// module payload.
	AttemptLoad(ctx context.Context, req Request) (any, error)
}

// Registry maps formats to strategies. It doubles as the environment
// capability probe for candidate ordering.
type Registry struct {
	mu         sync.RWMutex
	strategies map[types.Format]Strategy
}

// NewRegistry creates an empty strategy registry.
func NewRegistry() *Registry {
	return &Registry{strategies: make(map[types.Format]Strategy)}
}

// Register binds s to format f, replacing any previous binding.
func (r *Registry) Register(f types.Format, s Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[f] = s
}

// For returns the strategy registered for f.
func (r *Registry) For(f types.Format) (Strategy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.strategies[f]
	return s, ok
}

// Supports reports whether f has a registered, runnable strategy. This is
// the Environment answer used when ordering candidates.
func (r *Registry) Supports(f types.Format) bool {
	s, ok := r.For(f)
	return ok && s.Supported()
}
