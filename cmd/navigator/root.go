// Root command for the navigator CLI.
package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/expozr/navigator/internal/logging"
	"github.com/expozr/navigator/internal/paths"
	"github.com/expozr/navigator/pkg/navigator"
	"github.com/expozr/navigator/pkg/types"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
)

// Global flag values.
var (
	flagConfigDir string
	flagCacheDir  string
	flagCache     string
	flagTimeout   time.Duration
	flagJSON      bool
	flagVerbose   bool
)

// engineConfig is resolved by PersistentPreRunE from config.yaml and the
// global flags, so every subcommand builds its Navigator the same way.
var engineConfig types.Config

var rootCmd = &cobra.Command{
	Use:   "navigator",
	Short: "Navigator loads remote cargo published by expozr sources",
	Long: `Navigator resolves a source's inventory manifest, orders packaging-format
candidates, and loads cargo with retry, timeouts, and caching.`,
	Version:      navigator.Version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := paths.ResolveConfigDir(flagConfigDir)
		if err != nil {
			return err
		}
		v, err := loadConfig(configDir)
		if err != nil {
			return err
		}

		cacheDir, err := paths.ResolveCacheDir(flagCacheDir, v.GetString(cfgKeyCacheDir))
		if err != nil {
			return err
		}

		engineConfig = types.DefaultConfig()
		engineConfig.CacheStrategy = v.GetString(cfgKeyCacheStrategy)
		engineConfig.CacheDir = cacheDir
		engineConfig.Timeout = v.GetDuration(cfgKeyTimeout)
		engineConfig.Attempts = v.GetInt(cfgKeyAttempts)
		engineConfig.RetryDelay = v.GetDuration(cfgKeyRetryDelay)
		engineConfig.Backoff = v.GetFloat64(cfgKeyBackoff)
		engineConfig.InventoryTTL = v.GetDuration(cfgKeyInventoryTTL)

		if flagCache != "" {
			engineConfig.CacheStrategy = flagCache
		}
		if flagTimeout > 0 {
			engineConfig.Timeout = flagTimeout
		}
		return engineConfig.Validate()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagCacheDir, "cache-dir", "", "cache directory for persistent backends (default: $(CWD)/.expozr-cache)")
	rootCmd.PersistentFlags().StringVar(&flagCache, "cache", "", "cache strategy: memory, file, sqlite, none")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "per-attempt load timeout")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(inventoryCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(preloadCmd)
}

// newNavigator builds a Navigator from the resolved configuration.
func newNavigator() (*navigator.Navigator, error) {
	return navigator.New(engineConfig, navigator.WithLogger(logging.Console(flagVerbose)))
}
