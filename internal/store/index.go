// This file loads stored revision tables into the SQLite index and serves
// metric-column queries from it.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/blendbench/pkg/types"
)

// loadAllTables walks the data directory and loads every stored revision
// table into the measurements index. Loading is transactional: either the
// whole index is populated or it stays empty. Caller holds s.mu.
func (s *Store) loadAllTables() error {
	setIDs, err := listSetIDs(s.dataDir)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	for _, setID := range setIDs {
		setDir := filepath.Join(s.dataDir, setID)
		entries, err := os.ReadDir(setDir)
		if err != nil {
			return fmt.Errorf("listing set %s: %w", setID, err)
		}
		for _, e := range entries {
			branch, ok := strings.CutSuffix(e.Name(), recordSuffix)
			if !ok || e.IsDir() {
				continue
			}
			records, err := readJSONL(filepath.Join(setDir, e.Name()))
			if err != nil {
				return err
			}
			if err := insertRows(tx, setID, branch, records); err != nil {
				return fmt.Errorf("indexing %s/%s: %w", setID, e.Name(), err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

// indexTable refreshes the index rows for one revision table after a save.
// Caller holds s.mu.
func (s *Store) indexTable(table *types.RecordTable) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning index transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"DELETE FROM measurements WHERE set_id = ? AND branch = ?",
		table.SetID, table.Branch,
	); err != nil {
		return fmt.Errorf("clearing index rows: %w", err)
	}

	for i, row := range table.Rows {
		if err := insertRow(tx, table.SetID, table.Branch, i, row); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing index transaction: %w", err)
	}
	return nil
}

// insertRows decodes raw JSONL records and inserts their metric values.
// Malformed records were already filtered by readJSONL; records that do
// not decode as measurements are an error here, since the index must agree
// with the source of truth.
func insertRows(tx *sql.Tx, setID, branch string, records []json.RawMessage) error {
	for i, rec := range records {
		var row types.Measurement
		if err := json.Unmarshal(rec, &row); err != nil {
			return fmt.Errorf("decoding row %d: %w", i, err)
		}
		if err := insertRow(tx, setID, branch, i, row); err != nil {
			return err
		}
	}
	return nil
}

// insertRow explodes one measurement into per-metric index rows.
func insertRow(tx *sql.Tx, setID, branch string, rowIdx int, row types.Measurement) error {
	values := map[string]float64{
		types.MetricInitTime:   row.InitTimeMS,
		types.MetricRuntime:    row.RuntimeMS,
		types.MetricIterations: row.Iterations,
		types.MetricInitLogL:   row.InitLogL,
		types.MetricLogL:       row.LogL,
	}
	for band, diff := range row.BandDiff {
		values[types.DiffMetricName(band)] = diff
	}
	for metric, value := range values {
		if _, err := tx.Exec(
			`INSERT INTO measurements (set_id, branch, row_idx, blend_id, source_index, metric, value)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			setID, branch, rowIdx, row.BlendID, row.SourceIndex, metric, value,
		); err != nil {
			return fmt.Errorf("inserting row %d metric %q: %w", rowIdx, metric, err)
		}
	}
	return nil
}

// MetricColumn returns one metric's values for a revision, in record-table
// row order. Returns ErrBranchUnknown when the revision holds no rows for
// the set, and ErrUnknownMetric when the rows exist but the metric does
// not.
func (s *Store) MetricColumn(setID, branch, metric string) ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return nil, ErrDetached
	}

	rows, err := s.db.Query(
		`SELECT value FROM measurements
		 WHERE set_id = ? AND branch = ? AND metric = ?
		 ORDER BY row_idx`,
		setID, branch, metric,
	)
	if err != nil {
		return nil, fmt.Errorf("querying %s column: %w", metric, err)
	}
	defer rows.Close()

	var col []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning %s column: %w", metric, err)
		}
		col = append(col, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading %s column: %w", metric, err)
	}

	if len(col) == 0 {
		n, err := s.rowCountLocked(setID, branch)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, fmt.Errorf("branch %s, set %s: %w", branch, setID, types.ErrBranchUnknown)
		}
		return nil, fmt.Errorf("%q for branch %s, set %s: %w", metric, branch, setID, types.ErrUnknownMetric)
	}
	return col, nil
}

// RowCount returns the number of record-table rows indexed for a revision.
func (s *Store) RowCount(setID, branch string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return 0, ErrDetached
	}
	return s.rowCountLocked(setID, branch)
}

func (s *Store) rowCountLocked(setID, branch string) (int, error) {
	var n int
	err := s.db.QueryRow(
		"SELECT COUNT(DISTINCT row_idx) FROM measurements WHERE set_id = ? AND branch = ?",
		setID, branch,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting rows: %w", err)
	}
	return n, nil
}
