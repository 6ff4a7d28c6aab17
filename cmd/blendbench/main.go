// Package main provides the blendbench CLI: a regression-testing harness
// that deblends synthetic blend sets, measures recovered fluxes against
// ground truth, and tracks the results across code revisions.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mesh-intelligence/blendbench/pkg/types"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to the CLI exit code: validation problems the
// user can fix are user errors, everything else is a system error.
func exitCode(err error) int {
	switch {
	case errors.Is(err, types.ErrBranchExists),
		errors.Is(err, types.ErrBranchUnknown),
		errors.Is(err, types.ErrUnknownMetric),
		errors.Is(err, types.ErrEmptyBranch),
		errors.Is(err, types.ErrEmptySetID):
		return exitUserError
	default:
		return exitSysError
	}
}
