package types

// SourceModel is the recovered model for one candidate source: its total
// flux in each band, in linear (counts) units. A nil SourceModel in a
// result slice marks a source the deblender skipped.
type SourceModel struct {
	Flux map[string]float64 `json:"flux"`
}
