// This file manages branches.json: the ordered list of revisions whose
// results have been recorded, in the order they were merged.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const branchesFile = "branches.json"

// branchList is the on-disk shape of branches.json.
type branchList struct {
	Branches []string `json:"branches"`
}

// Branches returns the recorded revisions in merge order. A missing
// branches.json is an empty list, not an error.
func (s *Store) Branches() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return nil, ErrDetached
	}
	return readBranches(s.dataDir)
}

func readBranches(dataDir string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(dataDir, branchesFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", branchesFile, err)
	}
	var list branchList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", branchesFile, err)
	}
	return list.Branches, nil
}

// saveBranch appends a branch to branches.json if not already present.
// Appending an existing branch is a no-op, so overwriting a revision's
// table keeps its original position in the merge order.
func saveBranch(dataDir, branch string) error {
	branches, err := readBranches(dataDir)
	if err != nil {
		return err
	}
	for _, b := range branches {
		if b == branch {
			return nil
		}
	}
	branches = append(branches, branch)

	data, err := json.Marshal(branchList{Branches: branches})
	if err != nil {
		return fmt.Errorf("encoding %s: %w", branchesFile, err)
	}
	return writeFileAtomic(filepath.Join(dataDir, branchesFile), data)
}

// writeFileAtomic writes data via the temp-file, rename pattern used for
// every source-of-truth file in the data directory.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".branches-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
