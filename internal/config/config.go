// Package config loads user settings for the jot CLI.
//
// Settings are layered: built-in defaults, then the YAML config file, then
// JOT_* environment variables. Command-line flags are applied on top by the
// caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/bryan-cox/jotledger/internal/model"
)

// Defaults.
const (
	DefaultFile  = ".history.yml"
	DefaultState = model.StateNotStarted
	EnvPrefix    = "JOT"
)

// Config holds the resolved settings.
type Config struct {
	// File is the history path. Its extension selects the storage backend.
	File string
	// DefaultState is used when the state prompt is skipped.
	DefaultState model.JotState
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{File: DefaultFile, DefaultState: DefaultState}
}

// Path returns the config file location: $XDG_CONFIG_HOME/jot/config.yaml,
// falling back to ~/.config/jot/config.yaml.
func Path() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "jot", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "jot", "config.yaml")
}

// Load resolves settings from the config file at path (skipped when empty
// or missing) and the environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("file", DefaultFile)
	v.SetDefault("default_state", string(DefaultState))
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("could not read config '%s': %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("could not stat config '%s': %w", path, err)
		}
	}

	state, err := model.ParseJotState(v.GetString("default_state"))
	if err != nil {
		return nil, fmt.Errorf("invalid default_state: %w", err)
	}
	cfg := &Config{
		File:         v.GetString("file"),
		DefaultState: state,
	}
	if cfg.File == "" {
		cfg.File = DefaultFile
	}
	return cfg, nil
}
