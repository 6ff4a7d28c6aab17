package measure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/blendbench/pkg/types"
)

func TestSummarize(t *testing.T) {
	samples := []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
	metric := types.Metric{Name: "runtime", Units: "time/source (ms)"}

	s, err := Summarize("pr-101", metric, samples)
	require.NoError(t, err)

	assert.Equal(t, "pr-101", s.Branch)
	assert.Equal(t, 10, s.Count)
	assert.InDelta(t, 5.5, s.Mean, 1e-12)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 10.0, s.Max)
	assert.Equal(t, 3.0, s.Q1)
	assert.Equal(t, 5.0, s.Median)
	assert.Equal(t, 8.0, s.Q3)

	// Whiskers extend 1.5*IQR past the quartiles but clip to the data.
	assert.Equal(t, 1.0, s.WhiskerLow)
	assert.Equal(t, 10.0, s.WhiskerHigh)

	// The input must not be reordered.
	assert.Equal(t, []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}, samples)
}

func TestSummarizeAbsMetric(t *testing.T) {
	metric := types.Metric{Name: "g diff", Units: "truth-model", Abs: true}

	s, err := Summarize("pr-101", metric, []float64{-4, 2, -1, 3})
	require.NoError(t, err)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 4.0, s.Max)
	assert.InDelta(t, 2.5, s.Mean, 1e-12)
}

func TestSummarizeEmpty(t *testing.T) {
	_, err := Summarize("pr-101", types.Metric{Name: "runtime"}, nil)
	assert.ErrorIs(t, err, ErrNoSamples)
}

func TestAdjacentValues(t *testing.T) {
	t.Run("whiskers inside data range", func(t *testing.T) {
		sorted := []float64{-100, 1, 2, 3, 4, 5, 100}
		low, high := AdjacentValues(sorted, 2, 4)
		assert.Equal(t, -1.0, low)
		assert.Equal(t, 7.0, high)
	})

	t.Run("whiskers clipped to data range", func(t *testing.T) {
		sorted := []float64{1, 2, 3, 4, 5}
		low, high := AdjacentValues(sorted, 2, 4)
		assert.Equal(t, 1.0, low)
		assert.Equal(t, 5.0, high)
	})

	t.Run("zero IQR collapses to quartiles", func(t *testing.T) {
		sorted := []float64{3, 3, 3}
		low, high := AdjacentValues(sorted, 3, 3)
		assert.Equal(t, 3.0, low)
		assert.Equal(t, 3.0, high)
	})
}

func TestNeedsLogScale(t *testing.T) {
	tests := []struct {
		name    string
		samples []float64
		want    bool
	}{
		{name: "narrow range", samples: []float64{1, 5, 80}, want: false},
		{name: "exactly two decades", samples: []float64{1, 100}, want: false},
		{name: "three decades", samples: []float64{1, 2000}, want: true},
		{name: "negative magnitudes count", samples: []float64{-1, -2000}, want: true},
		{name: "zeros ignored", samples: []float64{0, 0, 1, 5}, want: false},
		{name: "single positive sample", samples: []float64{0, 1e6}, want: false},
		{name: "empty", samples: nil, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NeedsLogScale(tt.samples))
		})
	}
}

func TestLog10Samples(t *testing.T) {
	got := Log10Samples([]float64{1, 10, -100, 0})
	assert.Equal(t, []float64{0, 1, 2}, got)
}

func TestBuildPlotData(t *testing.T) {
	metric := types.Metric{Name: "runtime", Units: "time/source (ms)"}
	columns := map[string][]float64{
		"pr-100": {1, 2, 3, 4},
		"pr-101": {2, 3, 4, 5},
	}

	pd, err := BuildPlotData("set1", metric, []string{"pr-100", "pr-101"}, []string{"pr-101"}, columns)
	require.NoError(t, err)

	assert.Equal(t, "set1", pd.SetID)
	assert.Equal(t, "runtime", pd.Metric)
	assert.False(t, pd.LogScale)
	require.Len(t, pd.Scatter, 1)
	assert.Equal(t, "pr-101", pd.Scatter[0].Branch)
	assert.Equal(t, []float64{2, 3, 4, 5}, pd.Scatter[0].Samples)
	require.Len(t, pd.Summaries, 2)
	assert.Equal(t, "pr-100", pd.Summaries[0].Branch)
	assert.Equal(t, 4, pd.Summaries[0].Count)
}

func TestBuildPlotDataLogScaleSharedAcrossBranches(t *testing.T) {
	metric := types.Metric{Name: "logL", Units: "logL", Abs: true}
	columns := map[string][]float64{
		"pr-100": {1, 2, 3},
		"pr-101": {1, 5000}, // spans >2 decades, forces log axis for all
	}

	pd, err := BuildPlotData("set1", metric, []string{"pr-100", "pr-101"}, []string{"pr-100"}, columns)
	require.NoError(t, err)
	assert.True(t, pd.LogScale)
	// pr-100's scatter series is log10 even though pr-100 alone is narrow.
	assert.InDelta(t, 0.0, pd.Scatter[0].Samples[0], 1e-12)
}

func TestBuildPlotDataMissingBranch(t *testing.T) {
	metric := types.Metric{Name: "runtime"}
	_, err := BuildPlotData("set1", metric, []string{"pr-404"}, nil, map[string][]float64{})
	assert.ErrorIs(t, err, ErrNoSamples)
}
