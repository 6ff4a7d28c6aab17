// Summary command: reduce stored revisions' metric columns to summary
// statistics for comparison.
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/blendbench/internal/store"
	"github.com/mesh-intelligence/blendbench/pkg/measure"
	"github.com/mesh-intelligence/blendbench/pkg/types"
)

var (
	flagSummaryMetric   string
	flagSummaryBranches []string
)

var summaryCmd = &cobra.Command{
	Use:   "summary <set-id>",
	Short: "Summarize a metric across recorded branches",
	Long: `Summary reduces the stored record tables of one blend set to
per-branch summary statistics (mean, quartiles, whiskers) for a metric.

With no --branches, every recorded branch is summarized in merge order.

Example:
  blendbench summary set1 --metric runtime
  blendbench summary set1 --metric "g diff" --branches pr-100,pr-101`,
	Args: cobra.ExactArgs(1),
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().StringVar(&flagSummaryMetric, "metric", "", "metric name (required)")
	summaryCmd.Flags().StringSliceVar(&flagSummaryBranches, "branches", nil, "branches to summarize (default: all recorded)")
	summaryCmd.MarkFlagRequired("metric")
}

func runSummary(cmd *cobra.Command, args []string) error {
	setID := args[0]

	st, err := attachStore()
	if err != nil {
		return err
	}
	defer st.Detach()

	metric, branches, err := resolveMetricAndBranches(st, flagSummaryMetric, flagSummaryBranches)
	if err != nil {
		return err
	}

	summaries := make([]measure.Summary, 0, len(branches))
	for _, branch := range branches {
		col, err := st.MetricColumn(setID, branch, metric.Name)
		if err != nil {
			return err
		}
		s, err := measure.Summarize(branch, metric, col)
		if err != nil {
			return err
		}
		summaries = append(summaries, s)
	}

	if flagJSON {
		return printJSON(summaries)
	}

	fmt.Printf("%s (%s)\n", metric.Name, metric.Units)
	fmt.Printf("%-16s %6s %12s %12s %12s %12s\n", "branch", "count", "mean", "q1", "median", "q3")
	for _, s := range summaries {
		fmt.Printf("%-16s %6d %12.4g %12.4g %12.4g %12.4g\n",
			s.Branch, s.Count, s.Mean, s.Q1, s.Median, s.Q3)
	}
	return nil
}

// resolveMetricAndBranches validates a metric name against the configured
// band registry and defaults the branch list to every recorded branch.
func resolveMetricAndBranches(st *store.Store, metricName string, branches []string) (types.Metric, []string, error) {
	metric, ok := types.MetricByName(cfg.bands, metricName)
	if !ok {
		names := make([]string, 0)
		for _, m := range types.Metrics(cfg.bands) {
			names = append(names, m.Name)
		}
		return types.Metric{}, nil, fmt.Errorf("%w: %q (valid: %s)",
			types.ErrUnknownMetric, metricName, strings.Join(names, ", "))
	}

	if len(branches) == 0 {
		recorded, err := st.Branches()
		if err != nil {
			return types.Metric{}, nil, err
		}
		branches = recorded
	}
	if len(branches) == 0 {
		return types.Metric{}, nil, fmt.Errorf("no branches recorded: %w", types.ErrBranchUnknown)
	}
	return metric, branches, nil
}
