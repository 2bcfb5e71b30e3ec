// Preload command: best-effort cache warming for a source's cargo.
package main

import (
	"fmt"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/expozr/navigator/pkg/types"
)

var preloadCmd = &cobra.Command{
	Use:   "preload <source-url> [cargo...]",
	Short: "Warm the cache for some or all of a source's cargo",
	Long: `Preload loads the named cargo (or every cargo the inventory declares)
best-effort: individual failures are reported but never abort the run.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nav, err := newNavigator()
		if err != nil {
			return err
		}
		defer nav.Close()

		// Preload interleaves loads, so the listener runs concurrently.
		var failed atomic.Int32
		unsubscribe := nav.On(types.EventCargoError, func(ev types.Event) {
			failed.Add(1)
			fmt.Printf("  failed %s: %v\n", ev.Cargo, ev.Err)
		})
		defer unsubscribe()

		nav.Preload(cmd.Context(), args[0], args[1:]...)
		fmt.Printf("preload finished (%d failures)\n", failed.Load())
		return nil
	},
}
