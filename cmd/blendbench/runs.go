// Runs command: show the append-only log of harness sessions.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List logged deblend-and-measure sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := attachStore()
		if err != nil {
			return err
		}
		defer st.Detach()

		runs, err := st.Runs()
		if err != nil {
			return err
		}

		if flagJSON {
			return printJSON(runs)
		}
		for _, r := range runs {
			saved := " "
			if r.Saved {
				saved = "*"
			}
			fmt.Printf("%s %s  %-12s %-8s %3d scenes %4d rows  %.0fms\n",
				saved, r.StartedAt.Format("2006-01-02 15:04:05"),
				r.Branch, r.SetID, r.SceneCount, r.RowCount, r.Duration)
		}
		return nil
	},
}
