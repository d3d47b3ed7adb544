// Package paths resolves configuration and data directory locations.
package paths

import (
	"os"
	"path/filepath"
)

// CWD-relative directory names used when nothing else is configured.
const (
	DefaultConfigDirName = ".cadence"
	DefaultDataDirName   = ".cadence-db"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "CADENCE_CONFIG_DIR"
	EnvDataDir   = "CADENCE_DATA_DIR"
)

// ConfigFileName is the configuration file inside the config directory.
const ConfigFileName = "config.yaml"

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > CADENCE_CONFIG_DIR env > $(CWD)/.cadence.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return cwdJoin(DefaultConfigDirName)
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > CADENCE_DATA_DIR env > configValue > $(CWD)/.cadence-db.
//
// A relative configValue is taken relative to the current directory, not the
// config directory.
func ResolveDataDir(flag, configValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	return cwdJoin(DefaultDataDirName)
}

// ConfigFile returns the path of config.yaml inside configDir.
func ConfigFile(configDir string) string {
	return filepath.Join(configDir, ConfigFileName)
}

func cwdJoin(name string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, name), nil
}
