package types

import "time"

// Run records one invocation of the deblend-and-measure loop. Runs are
// appended to the run log whether or not their tables were saved, so timing
// regressions can be traced back to a specific session.
type Run struct {
	RunID      string    `json:"run_id"` // UUID v7, generated on creation
	Branch     string    `json:"branch"`
	SetID      string    `json:"set_id"`
	StartedAt  time.Time `json:"started_at"`
	Duration   float64   `json:"duration_ms"`
	SceneCount int       `json:"scene_count"`
	RowCount   int       `json:"row_count"`
	Saved      bool      `json:"saved"`
}
