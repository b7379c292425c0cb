package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/leonardotrapani/longscribe/internal/logging"
)

const (
	// EnvConfigPath overrides the config file location.
	EnvConfigPath = "LONGSCRIBE_CONFIG"
	// EnvDotenvPath names a .env file to load instead of ./.env.
	EnvDotenvPath = "LONGSCRIBE_ENV"
)

// GetConfigPath returns $LONGSCRIBE_CONFIG, else
// $XDG_CONFIG_HOME/longscribe/config.toml (os.UserConfigDir).
func GetConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "longscribe", "config.toml"), nil
}

// Load reads the config at path (GetConfigPath when empty). A missing file
// yields the defaults; keys absent from the file keep their default values.
func Load(path string) (*Config, error) {
	log := logging.Component("config")

	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	config := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Debug().Str("path", path).Msg("no config file, using defaults")
		return config, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat config file %s: %w", path, err)
	}

	meta, err := toml.DecodeFile(path, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	for _, key := range meta.Undecoded() {
		log.Warn().Str("key", key.String()).Str("path", path).Msg("unknown config key ignored")
	}

	if config.Providers == nil {
		config.Providers = make(map[string]ProviderConfig)
	}

	log.Debug().Str("path", path).Msg("configuration loaded")
	return config, nil
}

// Save writes config to path as TOML, replacing any existing file.
func Save(path string, config *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".config-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp config: %w", err)
	}
	defer os.Remove(tmp.Name())

	// api keys may be stored here
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set config permissions: %w", err)
	}
	if err := toml.NewEncoder(tmp).Encode(config); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// LoadEnv loads $LONGSCRIBE_ENV, or ./.env when unset, into the process
// environment. Variables already set win. Returns the files loaded.
func LoadEnv() ([]string, error) {
	path := strings.TrimSpace(os.Getenv(EnvDotenvPath))
	explicit := path != ""
	if !explicit {
		path = ".env"
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil, nil
		}
		return nil, fmt.Errorf("env file %s: %w", path, err)
	}

	if err := godotenv.Load(path); err != nil {
		return nil, fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return []string{path}, nil
}
