// Config loading for the navigator CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/expozr/navigator/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// Config keys.
	cfgKeyCacheStrategy = "cache_strategy"
	cfgKeyCacheDir      = "cache_dir"
	cfgKeyTimeout       = "timeout"
	cfgKeyAttempts      = "attempts"
	cfgKeyRetryDelay    = "retry_delay"
	cfgKeyBackoff       = "backoff"
	cfgKeyInventoryTTL  = "inventory_ttl"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# Navigator CLI configuration

# Cache strategy: memory, file, sqlite, none
cache_strategy: memory

# Cache directory for persistent backends (optional; overridable by --cache-dir)
# cache_dir:

# Per-attempt load timeout
timeout: 30s

# Retry attempts per format candidate
attempts: 3

# Delay before the second attempt; multiplied by backoff afterwards
retry_delay: 1s
backoff: 1.0

# How long fetched inventories are served from cache (0 = forever)
inventory_ttl: 5m
`

// loadConfig reads config.yaml from the resolved config directory using
// Viper, creating the directory and a default config.yaml on first run.
// A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyCacheStrategy, types.CacheMemory)
	v.SetDefault(cfgKeyTimeout, types.DefaultTimeout)
	v.SetDefault(cfgKeyAttempts, types.DefaultAttempts)
	v.SetDefault(cfgKeyRetryDelay, types.DefaultRetryDelay)
	v.SetDefault(cfgKeyBackoff, types.DefaultBackoff)
	v.SetDefault(cfgKeyInventoryTTL, types.DefaultInventoryTTL)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// ensureDefaultConfigFile creates a default config.yaml when the file does
// not exist yet.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
