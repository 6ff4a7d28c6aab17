package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordTableAppendAndLen(t *testing.T) {
	table := NewRecordTable("pr-101", "set1")
	assert.Equal(t, 0, table.Len())

	table.Append(Measurement{BlendID: "blend1", SourceIndex: 0})
	table.Append(
		Measurement{BlendID: "blend2", SourceIndex: 0},
		Measurement{BlendID: "blend2", SourceIndex: 1},
	)

	assert.Equal(t, 3, table.Len())
	assert.Equal(t, "pr-101", table.Branch)
	assert.Equal(t, "set1", table.SetID)
}

func TestRecordTableColumn(t *testing.T) {
	table := NewRecordTable("pr-101", "set1")
	table.Append(
		Measurement{
			BlendID:    "blend1",
			RuntimeMS:  12.5,
			Iterations: 40,
			BandDiff:   map[string]float64{"g": 0.1, "r": -0.2},
		},
		Measurement{
			BlendID:     "blend1",
			SourceIndex: 1,
			RuntimeMS:   12.5,
			Iterations:  40,
			BandDiff:    map[string]float64{"g": 0.3, "r": 0.0},
		},
	)

	runtime, err := table.Column(MetricRuntime)
	require.NoError(t, err)
	assert.Equal(t, []float64{12.5, 12.5}, runtime)

	gdiff, err := table.Column(DiffMetricName("g"))
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.3}, gdiff)

	_, err = table.Column("nonsense")
	assert.ErrorIs(t, err, ErrUnknownMetric)

	_, err = table.Column(DiffMetricName("z"))
	assert.ErrorIs(t, err, ErrUnknownBand)
}

func TestRecordTableValidate(t *testing.T) {
	assert.ErrorIs(t, NewRecordTable("", "set1").Validate(), ErrEmptyBranch)
	assert.ErrorIs(t, NewRecordTable("pr-101", "").Validate(), ErrEmptySetID)
	assert.NoError(t, NewRecordTable("pr-101", "set1").Validate())
}

func TestMetricRegistry(t *testing.T) {
	metrics := Metrics([]string{"g", "r"})
	require.Len(t, metrics, 7)

	names := make([]string, 0, len(metrics))
	for _, m := range metrics {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{
		MetricInitTime, MetricRuntime, MetricIterations,
		MetricInitLogL, MetricLogL, "g diff", "r diff",
	}, names)

	m, ok := MetricByName([]string{"g", "r"}, "g diff")
	require.True(t, ok)
	assert.True(t, m.Abs)
	assert.Equal(t, "truth-model", m.Units)

	_, ok = MetricByName([]string{"g", "r"}, "u diff")
	assert.False(t, ok)
}

func TestBandFromDiffMetric(t *testing.T) {
	band, ok := BandFromDiffMetric("g diff")
	require.True(t, ok)
	assert.Equal(t, "g", band)

	_, ok = BandFromDiffMetric("runtime")
	assert.False(t, ok)

	_, ok = BandFromDiffMetric(" diff")
	assert.False(t, ok)

	_, ok = BandFromDiffMetric("init logL diff")
	assert.False(t, ok)
}
