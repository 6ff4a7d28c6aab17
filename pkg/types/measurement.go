package types

import "errors"

// Scene-level metric names. Each measurement row carries these in addition
// to the per-band flux differences.
const (
	MetricInitTime   = "init time"
	MetricRuntime    = "runtime"
	MetricIterations = "iterations"
	MetricInitLogL   = "init logL"
	MetricLogL       = "logL"
)

// Measurement is one row of a revision record table: one matched source in
// one blend. Scene-level values (timing, iterations, likelihood) are
// repeated on every row of the same blend, so any metric can be read as a
// flat column across the table. Rows are append-only and never mutated.
type Measurement struct {
	BlendID     string `json:"blend_id"`
	SourceIndex int    `json:"source_index"`

	// BandDiff maps band name to trueMag - modelMag for that band.
	BandDiff map[string]float64 `json:"band_diff"`

	InitTimeMS float64 `json:"init_time_ms"`
	RuntimeMS  float64 `json:"runtime_ms"`
	Iterations float64 `json:"iterations"`
	InitLogL   float64 `json:"init_logl"`
	LogL       float64 `json:"logl"`
}

// Measurement access errors.
var (
	ErrUnknownMetric = errors.New("unknown metric")
	ErrUnknownBand   = errors.New("unknown band")
)

// Value returns the named metric value for this row. Band metrics use the
// "<band> diff" form. Returns ErrUnknownMetric for unrecognized names and
// ErrUnknownBand when a band diff was never measured for this row.
func (m Measurement) Value(metric string) (float64, error) {
	switch metric {
	case MetricInitTime:
		return m.InitTimeMS, nil
	case MetricRuntime:
		return m.RuntimeMS, nil
	case MetricIterations:
		return m.Iterations, nil
	case MetricInitLogL:
		return m.InitLogL, nil
	case MetricLogL:
		return m.LogL, nil
	}
	band, ok := BandFromDiffMetric(metric)
	if !ok {
		return 0, ErrUnknownMetric
	}
	v, ok := m.BandDiff[band]
	if !ok {
		return 0, ErrUnknownBand
	}
	return v, nil
}
