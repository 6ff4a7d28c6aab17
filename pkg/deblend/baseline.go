// This file implements the built-in reference deblender: box-aperture
// photometry around each candidate center with a uniform per-source model.
// It exists so the harness runs end to end without an external optimizer;
// it is deliberately crude and converges in a single "iteration".
package deblend

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/mesh-intelligence/blendbench/pkg/scene"
	"github.com/mesh-intelligence/blendbench/pkg/types"
)

// DefaultAperture is the half-width in pixels of the photometry box.
const DefaultAperture = 5

// Baseline measures each candidate source by summing unmasked pixels in a
// (2*Aperture+1)-square box around its center, in every band.
type Baseline struct {
	Aperture int
}

// NewBaseline returns a Baseline with the default aperture.
func NewBaseline() *Baseline {
	return &Baseline{Aperture: DefaultAperture}
}

// Deblend implements the Deblender interface. The solver settings are
// ignored: aperture photometry has no iteration loop.
func (b *Baseline) Deblend(ctx context.Context, s *scene.Scene, _ Settings) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r := b.Aperture
	if r <= 0 {
		r = DefaultAperture
	}

	initStart := time.Now()
	h, w := s.Shape()
	if h == 0 || w == 0 {
		return nil, fmt.Errorf("blend %s: empty image planes", s.BlendID)
	}

	// Inverse-variance weights, zeroed where the footprint mask covers the
	// pixel, and the Gaussian normalization term over the weighted pixels.
	weights := make(map[string][][]float64, len(s.Bands))
	logNorm := 0.0
	weighted := 0
	for _, band := range s.Bands {
		vr := s.Variance[band].Data
		wgrid := make([][]float64, h)
		for y := 0; y < h; y++ {
			wgrid[y] = make([]float64, w)
			for x := 0; x < w; x++ {
				if s.Masked(y, x) || vr[y][x] <= 0 {
					continue
				}
				wgrid[y][x] = 1 / vr[y][x]
				logNorm += math.Log(vr[y][x]) / 2
				weighted++
			}
		}
		weights[band] = wgrid
	}
	logNorm += float64(weighted) / 2 * math.Log(2*math.Pi)
	initTime := time.Since(initStart)

	fitStart := time.Now()
	models := make([]*types.SourceModel, len(s.Centers))
	modelImg := make(map[string][][]float64, len(s.Bands))
	for _, band := range s.Bands {
		grid := make([][]float64, h)
		for y := range grid {
			grid[y] = make([]float64, w)
		}
		modelImg[band] = grid
	}

	for i, c := range s.Centers {
		y0, y1 := clamp(c.Y-r, h), clamp(c.Y+r+1, h)
		x0, x1 := clamp(c.X-r, w), clamp(c.X+r+1, w)
		npix := (y1 - y0) * (x1 - x0)
		if npix == 0 {
			// Center lies outside the image: skip the source.
			continue
		}

		flux := make(map[string]float64, len(s.Bands))
		for _, band := range s.Bands {
			img := s.Images[band].Data
			sum := 0.0
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					if weights[band][y][x] > 0 {
						sum += img[y][x]
					}
				}
			}
			flux[band] = sum

			// Spread the flux uniformly over the box as the source model.
			per := sum / float64(npix)
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					modelImg[band][y][x] += per
				}
			}
		}
		models[i] = &types.SourceModel{Flux: flux}
	}

	// Gaussian log-likelihood of the residual against the composite model.
	// The init value is the same likelihood against an empty model.
	initLoss, fitLoss := 0.0, 0.0
	for _, band := range s.Bands {
		img := s.Images[band].Data
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				wt := weights[band][y][x]
				if wt <= 0 {
					continue
				}
				initLoss += wt * img[y][x] * img[y][x] / 2
				resid := img[y][x] - modelImg[band][y][x]
				fitLoss += wt * resid * resid / 2
			}
		}
	}

	return &Result{
		Models:     models,
		Iterations: 1,
		InitLogL:   -initLoss - logNorm,
		LogL:       -fitLoss - logNorm,
		InitTime:   initTime,
		FitTime:    time.Since(fitStart),
	}, nil
}

func clamp(v, limit int) int {
	if v < 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	return v
}
