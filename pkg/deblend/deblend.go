// Package deblend defines the boundary to the deblending library under
// test and the runner that drives it over a blend set. The optimizer
// itself is an external dependency; the harness only calls it and measures
// what comes back.
package deblend

import (
	"context"
	"time"

	"github.com/mesh-intelligence/blendbench/pkg/scene"
	"github.com/mesh-intelligence/blendbench/pkg/types"
)

// Result is everything a deblender reports for one scene.
type Result struct {
	// Models is indexed like the scene's candidate centers. A nil entry
	// marks a source the deblender skipped.
	Models []*types.SourceModel

	Iterations int
	InitLogL   float64 // log-likelihood before fitting
	LogL       float64 // log-likelihood after the final iteration
	InitTime   time.Duration
	FitTime    time.Duration
}

// Settings are the solver knobs forwarded on every call. Deblenders that
// have no iteration concept ignore them.
type Settings struct {
	MaxIter int
	ERel    float64
}

// Deblender separates one blended scene into per-source models. The
// implementation under test lives outside this module; Baseline is the
// built-in reference.
type Deblender interface {
	Deblend(ctx context.Context, s *scene.Scene, settings Settings) (*Result, error)
}

// Func adapts a plain function to the Deblender interface. Useful for stub
// deblenders in tests and for wrapping external library bindings.
type Func func(ctx context.Context, s *scene.Scene, settings Settings) (*Result, error)

// Deblend implements the Deblender interface.
func (f Func) Deblend(ctx context.Context, s *scene.Scene, settings Settings) (*Result, error) {
	return f(ctx, s, settings)
}
