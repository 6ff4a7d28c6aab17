package types

import (
	"errors"
	"fmt"
)

// RecordTable is the concatenation of all measurements for one code
// revision across an entire blend set. Tables grow by appending whole
// blends; existing rows are never mutated.
type RecordTable struct {
	Branch string        `json:"branch"`
	SetID  string        `json:"set_id"`
	Rows   []Measurement `json:"rows"`
}

// Record table and persistence errors.
var (
	ErrBranchExists  = errors.New("branch already recorded")
	ErrBranchUnknown = errors.New("branch not recorded")
	ErrEmptyBranch   = errors.New("branch name must not be empty")
	ErrEmptySetID    = errors.New("set ID must not be empty")
)

// NewRecordTable returns an empty table for the given revision and set.
func NewRecordTable(branch, setID string) *RecordTable {
	return &RecordTable{Branch: branch, SetID: setID}
}

// Append adds one blend's measurements to the table.
func (t *RecordTable) Append(rows ...Measurement) {
	t.Rows = append(t.Rows, rows...)
}

// Len returns the number of measurement rows.
func (t *RecordTable) Len() int {
	return len(t.Rows)
}

// Column extracts the named metric as a flat slice in row order.
func (t *RecordTable) Column(metric string) ([]float64, error) {
	col := make([]float64, 0, len(t.Rows))
	for i, row := range t.Rows {
		v, err := row.Value(metric)
		if err != nil {
			return nil, fmt.Errorf("row %d (%s/%d): %w", i, row.BlendID, row.SourceIndex, err)
		}
		col = append(col, v)
	}
	return col, nil
}

// Validate checks that the table is keyed by a branch and set.
func (t *RecordTable) Validate() error {
	if t.Branch == "" {
		return ErrEmptyBranch
	}
	if t.SetID == "" {
		return ErrEmptySetID
	}
	return nil
}
