// Package measure implements the measurement-and-comparison pipeline:
// matching recovered sources back to ground-truth catalog entries by pixel
// coordinate, converting flux to magnitudes, and computing per-band flux
// differences against truth.
package measure

import (
	"errors"
	"fmt"
	"math"

	"github.com/mesh-intelligence/blendbench/pkg/scene"
	"github.com/mesh-intelligence/blendbench/pkg/types"
)

// Matching errors. Both are wrapped with the blend ID and the position that
// failed; a wrong silent pick is never an option.
var (
	ErrNoMatch        = errors.New("no candidate center matches catalog position")
	ErrAmbiguousMatch = errors.New("multiple candidate centers match catalog position")
	ErrMissingBand    = errors.New("source model is missing a band flux")
)

// FluxToMag converts a linear flux to a magnitude using the set's
// photometric zeropoint: mag = zeropoint - 2.5*log10(flux).
// Non-positive flux yields +Inf, which the caller treats as a failed model.
func FluxToMag(flux, zeropoint float64) float64 {
	if flux <= 0 {
		return math.Inf(1)
	}
	return zeropoint - 2.5*math.Log10(flux)
}

// MatchCenter returns the index of the candidate center whose integer pixel
// coordinates exactly equal the catalog entry's position truncated to
// integers. Zero matches returns ErrNoMatch; more than one returns
// ErrAmbiguousMatch.
func MatchCenter(centers []scene.Center, entry scene.CatalogEntry) (int, error) {
	cy, cx := int(entry.Y), int(entry.X)
	matched := -1
	for i, c := range centers {
		if c.Y != cy || c.X != cx {
			continue
		}
		if matched >= 0 {
			return 0, fmt.Errorf("%w: (%d, %d)", ErrAmbiguousMatch, cy, cx)
		}
		matched = i
	}
	if matched < 0 {
		return 0, fmt.Errorf("%w: (%d, %d)", ErrNoMatch, cy, cx)
	}
	return matched, nil
}

// SceneMetrics carries the per-scene scalars repeated on every measurement
// row of the blend.
type SceneMetrics struct {
	InitTimeMS float64
	RuntimeMS  float64 // per source
	Iterations float64
	InitLogL   float64
	LogL       float64
}

// Blend measures every matched catalog entry in a single blend against the
// recovered source models. models is indexed like s.Centers; a nil entry is
// a skipped source and produces no row. Each row holds the per-band
// difference trueMag - modelMag plus the scene-level metrics.
func Blend(s *scene.Scene, models []*types.SourceModel, metrics SceneMetrics, zeropoint float64) ([]types.Measurement, error) {
	if len(models) != len(s.Centers) {
		return nil, fmt.Errorf("blend %s: %d models for %d centers", s.BlendID, len(models), len(s.Centers))
	}

	var rows []types.Measurement
	for k, entry := range s.Matched {
		idx, err := MatchCenter(s.Centers, entry)
		if err != nil {
			return nil, fmt.Errorf("blend %s, catalog entry %d: %w", s.BlendID, k, err)
		}
		model := models[idx]
		if model == nil {
			continue
		}

		diff := make(map[string]float64, len(s.Bands))
		for _, band := range s.Bands {
			flux, ok := model.Flux[band]
			if !ok {
				return nil, fmt.Errorf("blend %s, source %d: %w: %q", s.BlendID, idx, ErrMissingBand, band)
			}
			diff[band] = entry.TrueMag[band] - FluxToMag(flux, zeropoint)
		}

		rows = append(rows, types.Measurement{
			BlendID:     s.BlendID,
			SourceIndex: idx,
			BandDiff:    diff,
			InitTimeMS:  metrics.InitTimeMS,
			RuntimeMS:   metrics.RuntimeMS,
			Iterations:  metrics.Iterations,
			InitLogL:    metrics.InitLogL,
			LogL:        metrics.LogL,
		})
	}
	return rows, nil
}
