// Plotdata command: emit the plot-ready JSON document for one metric.
package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/blendbench/pkg/measure"
)

var (
	flagPlotMetric   string
	flagPlotBranches []string
	flagPlotScatter  []string
)

var plotDataCmd = &cobra.Command{
	Use:   "plotdata <set-id>",
	Short: "Emit plot-ready scatter and box/violin data for a metric",
	Long: `Plotdata reduces stored record tables into the JSON document the
external plotting tool renders: scatter series for the chosen revisions
plus box/violin summaries for every plotted revision.

With no --scatter, the two most recently merged branches are scattered.
With no --branches, every recorded branch is summarized.

Example:
  blendbench plotdata set1 --metric "g diff"
  blendbench plotdata set1 --metric runtime --scatter pr-100,pr-101`,
	Args: cobra.ExactArgs(1),
	RunE: runPlotData,
}

func init() {
	plotDataCmd.Flags().StringVar(&flagPlotMetric, "metric", "", "metric name (required)")
	plotDataCmd.Flags().StringSliceVar(&flagPlotBranches, "branches", nil, "branches to summarize (default: all recorded)")
	plotDataCmd.Flags().StringSliceVar(&flagPlotScatter, "scatter", nil, "branches to scatter (default: last two recorded)")
	plotDataCmd.MarkFlagRequired("metric")
}

func runPlotData(cmd *cobra.Command, args []string) error {
	setID := args[0]

	st, err := attachStore()
	if err != nil {
		return err
	}
	defer st.Detach()

	metric, branches, err := resolveMetricAndBranches(st, flagPlotMetric, flagPlotBranches)
	if err != nil {
		return err
	}

	scatter := flagPlotScatter
	if len(scatter) == 0 {
		// Default to the two most recently merged branches.
		scatter = branches
		if len(scatter) > 2 {
			scatter = scatter[len(scatter)-2:]
		}
	}

	columns := make(map[string][]float64, len(branches)+len(scatter))
	for _, branch := range append(append([]string{}, branches...), scatter...) {
		if _, ok := columns[branch]; ok {
			continue
		}
		col, err := st.MetricColumn(setID, branch, metric.Name)
		if err != nil {
			return err
		}
		columns[branch] = col
	}

	pd, err := measure.BuildPlotData(setID, metric, branches, scatter, columns)
	if err != nil {
		return err
	}
	return printJSON(pd)
}
