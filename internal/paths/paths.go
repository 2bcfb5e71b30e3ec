// Package paths resolves the configuration and cache directory locations
// used by the navigator CLI.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// CWD-relative cache directory used when no override is active.
const DefaultCacheDirName = ".expozr-cache"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "EXPOZR_CONFIG_DIR"
	EnvCacheDir  = "EXPOZR_CACHE_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/expozr (fallback ~/.config/expozr)
// macOS:   ~/Library/Application Support/expozr
// Windows: %APPDATA%/expozr
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "expozr"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "expozr"), nil
	default:
		// macOS and Windows use os.UserConfigDir which returns
		// ~/Library/Application Support on macOS and %APPDATA% on Windows.
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "expozr"), nil
	}
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > EXPOZR_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveCacheDir returns the cache directory for persistent store
// backends following the precedence chain: flag > config file value >
// EXPOZR_CACHE_DIR env > $(CWD)/.expozr-cache.
func ResolveCacheDir(flag, configValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(EnvCacheDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultCacheDirName), nil
}
