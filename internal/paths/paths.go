// Package paths resolves configuration, data, and blend directory
// locations for the blendbench CLI.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// CWD-relative directory names.
const (
	DefaultConfigDirName = ".blendbench"
	DefaultDataDirName   = ".blendbench-db"
	DefaultBlendDirName  = "blends"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "BLENDBENCH_CONFIG_DIR"
	EnvDataDir   = "BLENDBENCH_DATA_DIR"
	EnvBlendDir  = "BLENDBENCH_BLEND_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/blendbench (fallback ~/.config/blendbench)
// macOS:   ~/Library/Application Support/blendbench
// Windows: %APPDATA%/blendbench
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "blendbench"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "blendbench"), nil
	default:
		// macOS and Windows use os.UserConfigDir which returns
		// ~/Library/Application Support on macOS and %APPDATA% on Windows.
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "blendbench"), nil
	}
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > BLENDBENCH_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence
// chain: flag > config.yaml value > BLENDBENCH_DATA_DIR env > the
// CWD-relative default $(CWD)/.blendbench-db.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	return resolveCWDRelative(flag, configYAMLValue, EnvDataDir, DefaultDataDirName)
}

// ResolveBlendDir returns the blend-set directory following the precedence
// chain: flag > config.yaml value > BLENDBENCH_BLEND_DIR env > the
// CWD-relative default $(CWD)/blends.
func ResolveBlendDir(flag, configYAMLValue string) (string, error) {
	return resolveCWDRelative(flag, configYAMLValue, EnvBlendDir, DefaultBlendDirName)
}

func resolveCWDRelative(flag, configYAMLValue, envVar, defaultName string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configYAMLValue != "" {
		return filepath.Abs(configYAMLValue)
	}
	if env := os.Getenv(envVar); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, defaultName), nil
}
