// Config loading for the blendbench CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/blendbench/internal/paths"
	"github.com/mesh-intelligence/blendbench/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyDataDir   = "data_dir"
	cfgKeyBlendDir  = "blend_dir"
	cfgKeyBands     = "bands"
	cfgKeyZeropoint = "zeropoint"
	cfgKeyMaxIter   = "max_iter"
	cfgKeyERel      = "e_rel"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Blendbench CLI configuration

# Directories (optional; overridable by --data-dir / --blend-dir flags)
# data_dir:
# blend_dir:

# Photometric zeropoint of the synthetic blend sets
zeropoint: 27

# Filter bands, in image order
bands: [g, r, i, z, y]

# Deblender solver settings
max_iter: 200
e_rel: 1.0e-4
`

// loadGlobalConfig reads config.yaml from the resolved config directory
// and populates the global cfg, resolving directories through the
// flag > config.yaml > env > default chain.
func loadGlobalConfig() error {
	configDir, err := resolveConfigDir()
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}

	v, err := loadConfigFile(configDir)
	if err != nil {
		return err
	}

	cfg.dataDir, err = paths.ResolveDataDir(flagDataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}
	cfg.blendDir, err = paths.ResolveBlendDir(flagBlendDir, v.GetString(cfgKeyBlendDir))
	if err != nil {
		return fmt.Errorf("resolve blend dir: %w", err)
	}
	cfg.bands = v.GetStringSlice(cfgKeyBands)
	cfg.zeropoint = v.GetFloat64(cfgKeyZeropoint)
	cfg.maxIter = v.GetInt(cfgKeyMaxIter)
	cfg.eRel = v.GetFloat64(cfgKeyERel)
	return nil
}

// loadConfigFile reads config.yaml using Viper. A missing config.yaml is
// not an error; defaults apply.
func loadConfigFile(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBands, types.DefaultBands)
	v.SetDefault(cfgKeyZeropoint, types.DefaultZeropoint)
	v.SetDefault(cfgKeyMaxIter, types.DefaultMaxIter)
	v.SetDefault(cfgKeyERel, types.DefaultERel)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// harnessConfig builds the types.Config the runner and store consume from
// the loaded globals.
func harnessConfig() types.Config {
	return types.Config{
		DataDir:   cfg.dataDir,
		BlendDir:  cfg.blendDir,
		Bands:     cfg.bands,
		Zeropoint: cfg.zeropoint,
		MaxIter:   cfg.maxIter,
		ERel:      cfg.eRel,
	}
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does
// not exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		// File already exists.
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
