// Inventory command: fetch and print a source's manifest.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

var inventoryCmd = &cobra.Command{
	Use:   "inventory <source-url>",
	Short: "Fetch and print a source's inventory manifest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nav, err := newNavigator()
		if err != nil {
			return err
		}
		defer nav.Close()

		inv, err := nav.GetInventory(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if flagJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(inv)
		}

		fmt.Printf("%s %s (%s)\n", inv.Source.Name, inv.Source.Version, inv.Source.URL)
		names := make([]string, 0, len(inv.CargoIndex))
		for name := range inv.CargoIndex {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			desc := inv.CargoIndex[name]
			fmt.Printf("  %-24s %-10s %s\n", name, desc.Version, desc.Entry)
		}
		return nil
	},
}
