package types

import "errors"

// Default photometric and solver settings. Zeropoint 27 matches the
// calibration of the synthetic blend sets.
const (
	DefaultZeropoint = 27.0
	DefaultMaxIter   = 200
	DefaultERel      = 1e-4
)

// DefaultBands is the filter ordering used by the synthetic blend sets.
var DefaultBands = []string{"g", "r", "i", "z", "y"}

// Config holds directory locations and deblender settings for a harness run.
type Config struct {
	DataDir   string   `json:"data_dir" yaml:"data_dir"`
	BlendDir  string   `json:"blend_dir" yaml:"blend_dir"`
	Bands     []string `json:"bands" yaml:"bands"`
	Zeropoint float64  `json:"zeropoint" yaml:"zeropoint"`
	MaxIter   int      `json:"max_iter" yaml:"max_iter"`
	ERel      float64  `json:"e_rel" yaml:"e_rel"`
}

// Config validation errors.
var (
	ErrNoBands          = errors.New("bands must not be empty")
	ErrDuplicateBand    = errors.New("duplicate band name")
	ErrMaxIterInvalid   = errors.New("max iterations must be positive")
	ErrERelInvalid      = errors.New("relative error tolerance must be positive")
	ErrZeropointInvalid = errors.New("zeropoint must be finite and positive")
)

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if len(c.Bands) == 0 {
		return ErrNoBands
	}
	seen := make(map[string]bool, len(c.Bands))
	for _, b := range c.Bands {
		if seen[b] {
			return ErrDuplicateBand
		}
		seen[b] = true
	}
	if c.MaxIter <= 0 {
		return ErrMaxIterInvalid
	}
	if c.ERel <= 0 {
		return ErrERelInvalid
	}
	if c.Zeropoint <= 0 {
		return ErrZeropointInvalid
	}
	return nil
}

// DefaultConfig returns a Config populated with the standard band list and
// solver settings. DataDir and BlendDir are left empty for the caller to
// resolve.
func DefaultConfig() Config {
	bands := make([]string, len(DefaultBands))
	copy(bands, DefaultBands)
	return Config{
		Bands:     bands,
		Zeropoint: DefaultZeropoint,
		MaxIter:   DefaultMaxIter,
		ERel:      DefaultERel,
	}
}
