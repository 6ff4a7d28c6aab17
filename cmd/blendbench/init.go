// Init command for the blendbench CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize blendbench configuration and data directories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return fmt.Errorf("init: %w", err)
		}
		if err := ensureConfigDir(configDir); err != nil {
			return fmt.Errorf("init: %w", err)
		}
		if err := ensureDefaultConfigFile(configDir); err != nil {
			return fmt.Errorf("init: %w", err)
		}

		// Attaching creates the data directory and an empty index.
		st, err := attachStore()
		if err != nil {
			return fmt.Errorf("init: %w", err)
		}
		defer st.Detach()

		if err := os.MkdirAll(cfg.blendDir, 0o755); err != nil {
			return fmt.Errorf("init: create blend dir: %w", err)
		}

		fmt.Println("Blendbench initialized")
		fmt.Println("  config:", configDir)
		fmt.Println("  data:  ", cfg.dataDir)
		fmt.Println("  blends:", cfg.blendDir)
		return nil
	},
}
