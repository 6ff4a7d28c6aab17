// Version command for the blendbench CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/blendbench/pkg/blendbench"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the blendbench version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("blendbench", blendbench.Version)
	},
}
