// Package cache exposes the factory for the storage-backed cache while
// keeping the backend implementations internal.
//
// Example:
//
//	store, err := cache.New(types.Config{
//	    CacheStrategy: types.CacheSQLite,
//	    CacheDir:      ".expozr-cache",
//	})
//	defer store.Close()
package cache

import (
	"github.com/expozr/navigator/internal/cache"
	"github.com/expozr/navigator/pkg/types"
)

// New opens the store backend selected by cfg.CacheStrategy: memory (the
// default), file, sqlite, or none.
func New(cfg types.Config) (types.Store, error) {
	return cache.New(cfg)
}
