// Shared helpers for blendbench CLI commands.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/blendbench/internal/store"
)

// attachStore creates a store over the resolved data directory and
// attaches it, rebuilding the metric index from the stored tables. The
// caller must defer st.Detach().
func attachStore() (*store.Store, error) {
	st := store.New(cfg.dataDir)
	if err := st.Attach(); err != nil {
		return nil, fmt.Errorf("attach store: %w", err)
	}
	return st, nil
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(output))
	return nil
}
