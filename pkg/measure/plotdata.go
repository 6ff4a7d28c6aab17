// This file assembles the plot-ready document consumed by the external
// rendering tool. The harness only computes values; drawing happens
// elsewhere.
package measure

import (
	"fmt"
	"math"

	"github.com/mesh-intelligence/blendbench/pkg/types"
)

// Series is one branch's samples for a scatter panel, in row order (blend
// index order within the record table).
type Series struct {
	Branch  string    `json:"branch"`
	Samples []float64 `json:"samples"`
}

// PlotData is the full document for one metric over a blend set: scatter
// series for the chosen revisions plus box/violin summaries for every
// plotted revision. When LogScale is set the scatter samples are already
// log10-transformed.
type PlotData struct {
	SetID     string    `json:"set_id"`
	Metric    string    `json:"metric"`
	Units     string    `json:"units"`
	LogScale  bool      `json:"log_scale"`
	Scatter   []Series  `json:"scatter"`
	Summaries []Summary `json:"summaries"`
}

// BuildPlotData reduces the per-branch columns of one metric into a
// PlotData document. branches orders the summaries; scatterBranches picks
// the series shown in the scatter panel (typically the two most recent).
// A branch present in either list must have a non-empty column; a missing
// column is an error rather than a silently absent series.
func BuildPlotData(setID string, metric types.Metric, branches, scatterBranches []string, columns map[string][]float64) (*PlotData, error) {
	// The log-axis choice is shared by every panel: any branch spanning
	// more than two decades forces the whole group onto a log scale.
	logScale := false
	for _, branch := range branches {
		col, ok := columns[branch]
		if !ok || len(col) == 0 {
			return nil, fmt.Errorf("branch %q: %w", branch, ErrNoSamples)
		}
		logScale = logScale || NeedsLogScale(col)
	}

	pd := &PlotData{
		SetID:    setID,
		Metric:   metric.Name,
		Units:    metric.Units,
		LogScale: logScale,
	}

	for _, branch := range scatterBranches {
		col, ok := columns[branch]
		if !ok || len(col) == 0 {
			return nil, fmt.Errorf("scatter branch %q: %w", branch, ErrNoSamples)
		}
		samples := col
		if metric.Abs {
			samples = absSamples(col)
		}
		if logScale {
			samples = Log10Samples(samples)
		} else {
			cp := make([]float64, len(samples))
			copy(cp, samples)
			samples = cp
		}
		pd.Scatter = append(pd.Scatter, Series{Branch: branch, Samples: samples})
	}

	for _, branch := range branches {
		s, err := Summarize(branch, metric, columns[branch])
		if err != nil {
			return nil, fmt.Errorf("summarizing branch %q: %w", branch, err)
		}
		pd.Summaries = append(pd.Summaries, s)
	}
	return pd, nil
}

func absSamples(samples []float64) []float64 {
	out := make([]float64, len(samples))
	for i, v := range samples {
		out[i] = math.Abs(v)
	}
	return out
}
