// Package scene defines the synthetic blend scene record and its on-disk
// format. A scene bundles the multi-band images, noise variance, footprint
// mask, candidate source centers, matched ground-truth catalog, and PSF
// kernels for one blend. Scenes are immutable once loaded.
package scene

import (
	"errors"
	"fmt"
)

// Scene errors.
var (
	ErrNoBands       = errors.New("scene has no bands")
	ErrBandMismatch  = errors.New("per-band data does not match band list")
	ErrShapeMismatch = errors.New("image planes disagree on shape")
	ErrNoCenters     = errors.New("scene has no candidate centers")
)

// Image is a single-band pixel grid stored row-major, Data[y][x].
type Image struct {
	Data [][]float64 `json:"data"`
}

// Shape returns (height, width). A ragged or empty grid returns (0, 0).
func (im Image) Shape() (int, int) {
	if len(im.Data) == 0 {
		return 0, 0
	}
	w := len(im.Data[0])
	for _, row := range im.Data {
		if len(row) != w {
			return 0, 0
		}
	}
	return len(im.Data), w
}

// Center is a candidate source position in integer pixel coordinates.
type Center struct {
	Y int `json:"y"`
	X int `json:"x"`
}

// CatalogEntry is one matched ground-truth source: its sub-pixel position
// and its true magnitude in each band.
type CatalogEntry struct {
	Y       float64            `json:"y"`
	X       float64            `json:"x"`
	TrueMag map[string]float64 `json:"true_mag"`
}

// Scene is one synthetic blend: everything the deblender and the
// measurement pipeline need for a single test case.
type Scene struct {
	BlendID  string                 `json:"blend_id"`
	Bands    []string               `json:"bands"`
	Images   map[string]Image       `json:"images"`
	Variance map[string]Image       `json:"variance"`
	Mask     [][]bool               `json:"footprint"`
	Centers  []Center               `json:"centers"`
	Matched  []CatalogEntry         `json:"matched"`
	PSF      map[string][][]float64 `json:"psf"`
}

// Validate checks band consistency and shape agreement across the image,
// variance, and mask planes.
func (s *Scene) Validate() error {
	if len(s.Bands) == 0 {
		return ErrNoBands
	}
	if len(s.Images) != len(s.Bands) || len(s.Variance) != len(s.Bands) {
		return fmt.Errorf("%w: %d bands, %d images, %d variance planes",
			ErrBandMismatch, len(s.Bands), len(s.Images), len(s.Variance))
	}
	var h, w int
	for i, band := range s.Bands {
		img, ok := s.Images[band]
		if !ok {
			return fmt.Errorf("%w: missing image for band %q", ErrBandMismatch, band)
		}
		vr, ok := s.Variance[band]
		if !ok {
			return fmt.Errorf("%w: missing variance for band %q", ErrBandMismatch, band)
		}
		ih, iw := img.Shape()
		if ih == 0 || iw == 0 {
			return fmt.Errorf("%w: band %q image is empty or ragged", ErrShapeMismatch, band)
		}
		if i == 0 {
			h, w = ih, iw
		} else if ih != h || iw != w {
			return fmt.Errorf("%w: band %q is %dx%d, want %dx%d", ErrShapeMismatch, band, ih, iw, h, w)
		}
		if vh, vw := vr.Shape(); vh != h || vw != w {
			return fmt.Errorf("%w: band %q variance is %dx%d, want %dx%d", ErrShapeMismatch, band, vh, vw, h, w)
		}
	}
	if len(s.Mask) != 0 {
		if len(s.Mask) != h {
			return fmt.Errorf("%w: mask height %d, want %d", ErrShapeMismatch, len(s.Mask), h)
		}
		for y, row := range s.Mask {
			if len(row) != w {
				return fmt.Errorf("%w: mask row %d width %d, want %d", ErrShapeMismatch, y, len(row), w)
			}
		}
	}
	if len(s.Centers) == 0 {
		return ErrNoCenters
	}
	return nil
}

// Masked reports whether the footprint mask covers the pixel. Scenes
// without a mask treat every pixel as unmasked.
func (s *Scene) Masked(y, x int) bool {
	return len(s.Mask) > 0 && s.Mask[y][x]
}

// Shape returns the common (height, width) of the scene's image planes.
// Call only after Validate.
func (s *Scene) Shape() (int, int) {
	if len(s.Bands) == 0 {
		return 0, 0
	}
	return s.Images[s.Bands[0]].Shape()
}
