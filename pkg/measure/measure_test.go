package measure

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/blendbench/pkg/scene"
	"github.com/mesh-intelligence/blendbench/pkg/types"
)

func TestFluxToMag(t *testing.T) {
	tests := []struct {
		name      string
		flux      float64
		zeropoint float64
		want      float64
	}{
		{name: "unit flux equals zeropoint", flux: 1, zeropoint: 27, want: 27},
		{name: "flux 100 is five magnitudes brighter", flux: 100, zeropoint: 27, want: 22},
		{name: "flux 1e4 is ten magnitudes brighter", flux: 1e4, zeropoint: 27, want: 17},
		{name: "alternate zeropoint", flux: 100, zeropoint: 30, want: 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, FluxToMag(tt.flux, tt.zeropoint), 1e-12)
		})
	}

	t.Run("non-positive flux is +Inf", func(t *testing.T) {
		assert.True(t, math.IsInf(FluxToMag(0, 27), 1))
		assert.True(t, math.IsInf(FluxToMag(-3, 27), 1))
	})
}

func TestMatchCenter(t *testing.T) {
	centers := []scene.Center{
		{Y: 10, X: 20},
		{Y: 14, X: 7},
		{Y: 30, X: 30},
	}

	t.Run("exact integer match", func(t *testing.T) {
		idx, err := MatchCenter(centers, scene.CatalogEntry{Y: 14.9, X: 7.2})
		require.NoError(t, err)
		assert.Equal(t, 1, idx)
	})

	t.Run("no match is an error", func(t *testing.T) {
		_, err := MatchCenter(centers, scene.CatalogEntry{Y: 15.0, X: 7.2})
		assert.ErrorIs(t, err, ErrNoMatch)
		assert.ErrorContains(t, err, "(15, 7)")
	})

	t.Run("ambiguous match is an error", func(t *testing.T) {
		dup := append([]scene.Center{{Y: 10, X: 20}}, centers...)
		_, err := MatchCenter(dup, scene.CatalogEntry{Y: 10.4, X: 20.9})
		assert.ErrorIs(t, err, ErrAmbiguousMatch)
		assert.ErrorContains(t, err, "(10, 20)")
	})
}

// fixedBlend builds a one-band scene with two centers and two catalog
// entries matched to them.
func fixedBlend() *scene.Scene {
	img := scene.Image{Data: [][]float64{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}}}
	return &scene.Scene{
		BlendID:  "blend1",
		Bands:    []string{"g"},
		Images:   map[string]scene.Image{"g": img},
		Variance: map[string]scene.Image{"g": img},
		Centers:  []scene.Center{{Y: 0, X: 0}, {Y: 2, X: 2}},
		Matched: []scene.CatalogEntry{
			{Y: 0.3, X: 0.1, TrueMag: map[string]float64{"g": 25.0}},
			{Y: 2.5, X: 2.5, TrueMag: map[string]float64{"g": 23.0}},
		},
	}
}

func TestBlendFixedFluxDiff(t *testing.T) {
	s := fixedBlend()

	// A stub deblender returning a fixed flux of 100 in every band:
	// modelMag = 27 - 2.5*log10(100) = 22, so diff = trueMag - 22 exactly.
	models := []*types.SourceModel{
		{Flux: map[string]float64{"g": 100}},
		{Flux: map[string]float64{"g": 100}},
	}
	metrics := SceneMetrics{InitTimeMS: 3, RuntimeMS: 8, Iterations: 1, InitLogL: -10, LogL: -5}

	rows, err := Blend(s, models, metrics, 27)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "blend1", rows[0].BlendID)
	assert.Equal(t, 0, rows[0].SourceIndex)
	assert.InDelta(t, 25.0-22.0, rows[0].BandDiff["g"], 1e-12)
	assert.Equal(t, 1, rows[1].SourceIndex)
	assert.InDelta(t, 23.0-22.0, rows[1].BandDiff["g"], 1e-12)

	// Scene metrics are repeated on every row.
	for _, row := range rows {
		assert.Equal(t, 8.0, row.RuntimeMS)
		assert.Equal(t, -5.0, row.LogL)
	}
}

func TestBlendSkippedSourceProducesNoRow(t *testing.T) {
	s := fixedBlend()
	models := []*types.SourceModel{
		nil,
		{Flux: map[string]float64{"g": 100}},
	}

	rows, err := Blend(s, models, SceneMetrics{}, 27)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].SourceIndex)
}

func TestBlendModelCountMismatch(t *testing.T) {
	s := fixedBlend()
	_, err := Blend(s, []*types.SourceModel{{Flux: map[string]float64{"g": 1}}}, SceneMetrics{}, 27)
	assert.ErrorContains(t, err, "1 models for 2 centers")
}

func TestBlendMissingBand(t *testing.T) {
	s := fixedBlend()
	models := []*types.SourceModel{
		{Flux: map[string]float64{}},
		{Flux: map[string]float64{"g": 100}},
	}
	_, err := Blend(s, models, SceneMetrics{}, 27)
	assert.ErrorIs(t, err, ErrMissingBand)
}

func TestBlendUnmatchedCatalogEntry(t *testing.T) {
	s := fixedBlend()
	s.Matched[1].Y = 7.0
	models := []*types.SourceModel{
		{Flux: map[string]float64{"g": 100}},
		{Flux: map[string]float64{"g": 100}},
	}
	_, err := Blend(s, models, SceneMetrics{}, 27)
	assert.ErrorIs(t, err, ErrNoMatch)
}
