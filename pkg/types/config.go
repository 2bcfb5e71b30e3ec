package types

import (
	"errors"
	"time"
)

// Cache strategy names accepted by Config.CacheStrategy.
const (
	CacheMemory = "memory"
	CacheFile   = "file"
	CacheSQLite = "sqlite"
	CacheNone   = "none"
)

// Configuration defaults.
const (
	DefaultTimeout      = 30 * time.Second
	DefaultAttempts     = 3
	DefaultRetryDelay   = 1 * time.Second
	DefaultBackoff      = 1.0
	DefaultInventoryTTL = 5 * time.Minute
)

// Config holds the Navigator's live configuration. The zero value is not
// usable; start from DefaultConfig and override fields.
type Config struct {
	// Timeout bounds one load attempt. The timeout is advisory: the caller
	// stops waiting, but the underlying I/O is not cancelled and may still
	// complete afterward.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// Attempts is the number of tries per format candidate.
	Attempts int `json:"attempts" yaml:"attempts"`

	// RetryDelay is the wait before the second attempt; subsequent waits
	// are multiplied by Backoff.
	RetryDelay time.Duration `json:"retryDelay" yaml:"retry_delay"`

	// Backoff multiplies the delay between consecutive attempts.
	// 1.0 means a fixed delay.
	Backoff float64 `json:"backoff" yaml:"backoff"`

	// CacheStrategy selects the store backend: memory, file, sqlite, none.
	CacheStrategy string `json:"cacheStrategy" yaml:"cache_strategy"`

	// CacheDir is the data directory for persistent store backends.
	CacheDir string `json:"cacheDir,omitempty" yaml:"cache_dir,omitempty"`

	// InventoryTTL bounds how long a fetched inventory is served from
	// cache before a re-fetch. Zero means inventories never expire.
	InventoryTTL time.Duration `json:"inventoryTTL" yaml:"inventory_ttl"`

	// DefaultFormat, when set, is the global format preference applied
	// when neither the call options nor the descriptor express one.
	DefaultFormat Format `json:"defaultFormat,omitempty" yaml:"default_format,omitempty"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:       DefaultTimeout,
		Attempts:      DefaultAttempts,
		RetryDelay:    DefaultRetryDelay,
		Backoff:       DefaultBackoff,
		CacheStrategy: CacheMemory,
		InventoryTTL:  DefaultInventoryTTL,
	}
}

// Config validation errors.
var (
	ErrTimeoutNegative    = errors.New("timeout must not be negative")
	ErrAttemptsInvalid    = errors.New("attempts must be at least 1")
	ErrRetryDelayNegative = errors.New("retry delay must not be negative")
	ErrBackoffInvalid     = errors.New("backoff multiplier must be at least 1")
	ErrCacheUnknown       = errors.New("unknown cache strategy")
)

// knownCacheStrategies lists the store backends Validate accepts.
var knownCacheStrategies = map[string]bool{
	CacheMemory: true,
	CacheFile:   true,
	CacheSQLite: true,
	CacheNone:   true,
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Timeout < 0 {
		return ErrTimeoutNegative
	}
	if c.Attempts < 1 {
		return ErrAttemptsInvalid
	}
	if c.RetryDelay < 0 {
		return ErrRetryDelayNegative
	}
	if c.Backoff < 1 {
		return ErrBackoffInvalid
	}
	if !knownCacheStrategies[c.CacheStrategy] {
		return ErrCacheUnknown
	}
	if c.DefaultFormat != "" && !c.DefaultFormat.Valid() {
		return ErrUnknownFormat
	}
	return nil
}

// ConfigPatch is a partial configuration merged into a live Config by
// Navigator.UpdateConfig. Nil fields are left untouched.
type ConfigPatch struct {
	Timeout       *time.Duration
	Attempts      *int
	RetryDelay    *time.Duration
	Backoff       *float64
	InventoryTTL  *time.Duration
	DefaultFormat *Format
}

// Apply merges the patch into c and returns the result.
func (p ConfigPatch) Apply(c Config) Config {
	if p.Timeout != nil {
		c.Timeout = *p.Timeout
	}
	if p.Attempts != nil {
		c.Attempts = *p.Attempts
	}
	if p.RetryDelay != nil {
		c.RetryDelay = *p.RetryDelay
	}
	if p.Backoff != nil {
		c.Backoff = *p.Backoff
	}
	if p.InventoryTTL != nil {
		c.InventoryTTL = *p.InventoryTTL
	}
	if p.DefaultFormat != nil {
		c.DefaultFormat = *p.DefaultFormat
	}
	return c
}

// LoadOptions carries per-call overrides for one LoadCargo invocation.
type LoadOptions struct {
	// Format is an explicit packaging-format preference. It outranks
	// every other ordering input.
	Format Format

	// FallbackFormats are tried, in order, after Format and before any
	// hint- or config-derived candidates.
	FallbackFormats []Format

	// Strategy pins a registered strategy tag instead of the one mapped
	// from the winning format.
	Strategy StrategyTag

	// Exports names the specific exports to extract from the resolved
	// payload. Empty means the default export (or the whole payload when
	// no default exists).
	Exports []string

	// NoDiscovery restricts candidate generation to the literal declared
	// entry, skipping the filename-pattern variants. Discovery is on by
	// default.
	NoDiscovery bool

	// SuppressErrors downgrades a failed load to a nil result instead of
	// an error. Used by best-effort callers.
	SuppressErrors bool

	// Timeout and Attempts override the Navigator configuration for this
	// call when positive.
	Timeout  time.Duration
	Attempts int
}
