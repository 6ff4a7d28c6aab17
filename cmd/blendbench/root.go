// Root command for the blendbench CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/blendbench/internal/paths"
	"github.com/mesh-intelligence/blendbench/pkg/blendbench"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagBlendDir  string
	flagJSON      bool
)

// cfg holds the merged configuration (config.yaml + defaults), loaded by
// PersistentPreRunE so every subcommand can use it. Directory fields are
// already resolved through the flag > config > env > default chain.
var cfg = struct {
	dataDir   string
	blendDir  string
	bands     []string
	zeropoint float64
	maxIter   int
	eRel      float64
}{}

var rootCmd = &cobra.Command{
	Use:   "blendbench",
	Short: "Blendbench is a deblending regression-testing harness",
	Long: `Blendbench runs a source-deblending library over synthetic blend
scenes, compares the recovered per-source fluxes against ground truth, and
records per-revision quality and performance metrics for comparison.`,
	Version: blendbench.Version,
	// Do not print usage on errors returned by subcommands.
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadGlobalConfig()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: $(CWD)/.blendbench)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.blendbench-db)")
	rootCmd.PersistentFlags().StringVar(&flagBlendDir, "blend-dir", "", "blend set directory (default: $(CWD)/blends)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(branchesCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(plotDataCmd)
}

// resolveConfigDir returns the configuration directory following the
// precedence chain: --config-dir flag > BLENDBENCH_CONFIG_DIR env > default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}
