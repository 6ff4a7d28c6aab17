// This file implements the Store lifecycle and revision-table persistence.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/blendbench/pkg/types"
)

// Store lifecycle errors.
var (
	ErrDetached        = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

const (
	indexFile    = "index.db"
	runsFile     = "runs.jsonl"
	recordSuffix = ".records.jsonl"
)

// Store persists one record table per revision under a data directory:
//
//	<dataDir>/branches.json            ordered revision list
//	<dataDir>/runs.jsonl               append-only run log
//	<dataDir>/<setID>/<branch>.records.jsonl
//	<dataDir>/index.db                 rebuilt SQLite query index
type Store struct {
	mu       sync.RWMutex
	dataDir  string
	db       *sql.DB
	attached bool
}

// New creates a Store rooted at dataDir. The store is not attached; call
// Attach before use.
func New(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

// TableFilename returns the file name a revision's records are stored
// under inside its set directory.
func TableFilename(branch string) string {
	return branch + recordSuffix
}

// Attach creates the data directory if needed, rebuilds the SQLite index
// from every stored revision table, and makes the store ready for queries.
// Returns ErrAlreadyAttached if called while attached.
func (s *Store) Attach() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attached {
		return ErrAlreadyAttached
	}
	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	// The index is disposable: remove and rebuild from the JSONL source
	// of truth.
	dbPath := filepath.Join(s.dataDir, indexFile)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening index: %w", err)
	}
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	s.db = db
	s.attached = true

	if err := s.loadAllTables(); err != nil {
		db.Close()
		s.db = nil
		s.attached = false
		return fmt.Errorf("loading stored tables: %w", err)
	}
	return nil
}

// Detach closes the SQLite index. Idempotent. After Detach, queries return
// ErrDetached; the JSONL files remain intact.
func (s *Store) Detach() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("closing index: %w", err)
	}
	s.db = nil
	s.attached = false
	return nil
}

// SaveTable persists a revision's record table. Saving a branch that is
// already recorded fails with ErrBranchExists naming the branch and set
// unless overwrite is set, in which case the prior table is replaced. The
// branch is appended to branches.json on first save, and the index rows
// for the branch are refreshed.
func (s *Store) SaveTable(table *types.RecordTable, overwrite bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return ErrDetached
	}
	if err := table.Validate(); err != nil {
		return err
	}

	branches, err := readBranches(s.dataDir)
	if err != nil {
		return err
	}
	for _, b := range branches {
		if b == table.Branch && !overwrite {
			return fmt.Errorf("branch %s has already been analyzed for set %s, pass overwrite to replace it: %w",
				table.Branch, table.SetID, types.ErrBranchExists)
		}
	}

	setDir := filepath.Join(s.dataDir, table.SetID)
	if err := os.MkdirAll(setDir, 0o755); err != nil {
		return fmt.Errorf("creating set dir: %w", err)
	}

	records := make([]json.RawMessage, 0, len(table.Rows))
	for i, row := range table.Rows {
		data, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("encoding row %d: %w", i, err)
		}
		records = append(records, data)
	}
	if err := writeJSONL(filepath.Join(setDir, TableFilename(table.Branch)), records); err != nil {
		return err
	}
	if err := saveBranch(s.dataDir, table.Branch); err != nil {
		return err
	}
	return s.indexTable(table)
}

// LoadTable reads a revision's record table back from its JSONL file.
// Returns ErrBranchUnknown if the table was never saved for this set.
func (s *Store) LoadTable(setID, branch string) (*types.RecordTable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return nil, ErrDetached
	}
	path := filepath.Join(s.dataDir, setID, TableFilename(branch))
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("branch %s, set %s: %w", branch, setID, types.ErrBranchUnknown)
	}
	records, err := readJSONL(path)
	if err != nil {
		return nil, err
	}

	table := types.NewRecordTable(branch, setID)
	for i, rec := range records {
		var row types.Measurement
		if err := json.Unmarshal(rec, &row); err != nil {
			return nil, fmt.Errorf("decoding row %d of %s: %w", i, path, err)
		}
		table.Append(row)
	}
	return table, nil
}

// SaveRun appends a run record to the run log.
func (s *Store) SaveRun(run *types.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return ErrDetached
	}
	return appendJSONL(filepath.Join(s.dataDir, runsFile), run)
}

// Runs returns every logged run in append order.
func (s *Store) Runs() ([]types.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return nil, ErrDetached
	}
	path := filepath.Join(s.dataDir, runsFile)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	records, err := readJSONL(path)
	if err != nil {
		return nil, err
	}
	runs := make([]types.Run, 0, len(records))
	for i, rec := range records {
		var run types.Run
		if err := json.Unmarshal(rec, &run); err != nil {
			return nil, fmt.Errorf("decoding run %d: %w", i, err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// SetIDs returns the blend-set directories that hold at least one stored
// revision table, sorted.
func (s *Store) SetIDs() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return nil, ErrDetached
	}
	return listSetIDs(s.dataDir)
}

func listSetIDs(dataDir string) ([]string, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("listing data dir: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		ids = append(ids, e.Name())
	}
	return ids, nil
}
