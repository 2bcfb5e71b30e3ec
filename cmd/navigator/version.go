// Version command for the navigator CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/expozr/navigator/pkg/navigator"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the navigator version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("navigator", navigator.Version)
	},
}
