package cache

import (
	"fmt"
	"os"

	"github.com/expozr/navigator/pkg/types"
)

// New selects and opens the store backend named by cfg.CacheStrategy.
// Persistent backends root their files at cfg.CacheDir.
func New(cfg types.Config) (types.Store, error) {
	switch cfg.CacheStrategy {
	case types.CacheMemory, "":
		return NewMemory(), nil
	case types.CacheFile:
		return NewFile(cfg.CacheDir)
	case types.CacheSQLite:
		return NewSQLite(cfg.CacheDir)
	case types.CacheNone:
		return NewNoop(), nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrCacheUnknown, cfg.CacheStrategy)
	}
}

// ensureDir creates dir when it does not exist.
func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}
