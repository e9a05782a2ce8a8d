package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"trunkline/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the trunkline version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("trunkline version " + version.Get())
	},
}
