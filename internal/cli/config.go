// Config loading for the cadence CLI.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/cadence/internal/paths"
	"github.com/mesh-intelligence/cadence/internal/validate"
	"github.com/mesh-intelligence/cadence/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "CADENCE"

	cfgKeyBackend            = "backend"
	cfgKeyDataDir            = "data_dir"
	cfgKeySyncStrategy       = "sync_strategy"
	cfgKeyPhoneRegion        = "phone_region"
	cfgKeyDefaultPeriodicity = "default_periodicity"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend            string `yaml:"backend"`
	DataDir            string `yaml:"data_dir,omitempty"`
	SyncStrategy       string `yaml:"sync_strategy"`
	PhoneRegion        string `yaml:"phone_region"`
	DefaultPeriodicity int    `yaml:"default_periodicity"`
}

func defaultConfigFile() configFile {
	return configFile{
		Backend:            types.BackendSQLite,
		SyncStrategy:       types.SyncImmediate,
		PhoneRegion:        validate.DefaultRegion,
		DefaultPeriodicity: types.DefaultPeriodicity,
	}
}

// loadConfig reads config.yaml from configDir using Viper. A missing
// config.yaml is not an error; the defaults apply. CADENCE_* environment
// variables override file values.
func loadConfig(configDir string) (*viper.Viper, error) {
	def := defaultConfigFile()

	v := viper.New()
	v.SetDefault(cfgKeyBackend, def.Backend)
	v.SetDefault(cfgKeySyncStrategy, def.SyncStrategy)
	v.SetDefault(cfgKeyPhoneRegion, def.PhoneRegion)
	v.SetDefault(cfgKeyDefaultPeriodicity, def.DefaultPeriodicity)
	v.SetDefault(cfgKeyDataDir, "")
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// writeConfigIfMissing creates configDir and a config.yaml with default
// values if the file does not exist. It reports whether a file was written.
func writeConfigIfMissing(configDir, dataDir string) (bool, error) {
	path := paths.ConfigFile(configDir)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}

	cfg := defaultConfigFile()
	cfg.DataDir = dataDir
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
