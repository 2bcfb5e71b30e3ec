package cache

import (
	"context"
	"time"
)

// Noop accepts every write and reports every read as a miss. It backs the
// "none" cache strategy so callers never have to branch on caching being
// disabled.
type Noop struct{}

// NewNoop creates the no-op store.
func NewNoop() *Noop { return &Noop{} }

func (Noop) Get(context.Context, string) (any, bool, error)            { return nil, false, nil }
func (Noop) Set(context.Context, string, any, time.Duration) error     { return nil }
func (Noop) Has(context.Context, string) (bool, error)                 { return false, nil }
func (Noop) Delete(context.Context, string) error                      { return nil }
func (Noop) Clear(context.Context) error                               { return nil }
func (Noop) Size(context.Context) (int, error)                         { return 0, nil }
func (Noop) Close() error                                              { return nil }
