// This file implements the cross-revision reduction: quartiles, outlier
// whiskers, and log-scale detection over stored metric columns.
package measure

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/mesh-intelligence/blendbench/pkg/types"
)

// ErrNoSamples is returned when a summary is requested over an empty column.
var ErrNoSamples = errors.New("no samples to summarize")

// logScaleDecades is the span of log10 magnitudes beyond which a metric is
// displayed on a log axis.
const logScaleDecades = 2.0

// Summary holds the reduction of one metric column for one revision.
type Summary struct {
	Branch      string  `json:"branch"`
	Count       int     `json:"count"`
	Mean        float64 `json:"mean"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Q1          float64 `json:"q1"`
	Median      float64 `json:"median"`
	Q3          float64 `json:"q3"`
	WhiskerLow  float64 `json:"whisker_low"`
	WhiskerHigh float64 `json:"whisker_high"`
}

// Summarize reduces one branch's samples for a metric. Abs metrics are
// folded to |v| before reduction. The input slice is not modified.
func Summarize(branch string, metric types.Metric, samples []float64) (Summary, error) {
	if len(samples) == 0 {
		return Summary{}, ErrNoSamples
	}

	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	if metric.Abs {
		for i, v := range sorted {
			sorted[i] = math.Abs(v)
		}
	}
	sort.Float64s(sorted)

	q1 := stat.Quantile(0.25, stat.Empirical, sorted, nil)
	median := stat.Quantile(0.5, stat.Empirical, sorted, nil)
	q3 := stat.Quantile(0.75, stat.Empirical, sorted, nil)
	low, high := AdjacentValues(sorted, q1, q3)

	return Summary{
		Branch:      branch,
		Count:       len(sorted),
		Mean:        stat.Mean(sorted, nil),
		Min:         sorted[0],
		Max:         sorted[len(sorted)-1],
		Q1:          q1,
		Median:      median,
		Q3:          q3,
		WhiskerLow:  low,
		WhiskerHigh: high,
	}, nil
}

// AdjacentValues computes the box-plot whisker positions: the quartiles
// extended by 1.5x the interquartile range, clipped to the observed data
// range. sorted must be ascending and non-empty.
func AdjacentValues(sorted []float64, q1, q3 float64) (low, high float64) {
	iqr := q3 - q1
	high = q3 + 1.5*iqr
	if max := sorted[len(sorted)-1]; high > max {
		high = max
	}
	if high < q3 {
		high = q3
	}
	low = q1 - 1.5*iqr
	if min := sorted[0]; low < min {
		low = min
	}
	if low > q1 {
		low = q1
	}
	return low, high
}

// NeedsLogScale reports whether the positive magnitudes in samples span
// more than two orders of magnitude, in which case the metric should be
// displayed on a log10 axis. Non-positive samples are ignored; a column
// with fewer than two positive samples never needs a log axis.
func NeedsLogScale(samples []float64) bool {
	min, max := math.Inf(1), math.Inf(-1)
	n := 0
	for _, v := range samples {
		v = math.Abs(v)
		if v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			continue
		}
		lv := math.Log10(v)
		if lv < min {
			min = lv
		}
		if lv > max {
			max = lv
		}
		n++
	}
	return n >= 2 && max-min > logScaleDecades
}

// Log10Samples returns log10(|v|) for each positive-magnitude sample,
// dropping the rest. Used to build scatter series once NeedsLogScale has
// decided the axis.
func Log10Samples(samples []float64) []float64 {
	out := make([]float64, 0, len(samples))
	for _, v := range samples {
		v = math.Abs(v)
		if v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			continue
		}
		out = append(out, math.Log10(v))
	}
	return out
}
