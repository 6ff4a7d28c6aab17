// Branches command: list recorded revisions in merge order.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var branchesCmd = &cobra.Command{
	Use:   "branches",
	Short: "List recorded branches in merge order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := attachStore()
		if err != nil {
			return err
		}
		defer st.Detach()

		branches, err := st.Branches()
		if err != nil {
			return err
		}

		if flagJSON {
			return printJSON(branches)
		}
		for _, b := range branches {
			fmt.Println(b)
		}
		return nil
	},
}
