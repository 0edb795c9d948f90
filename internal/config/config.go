// Package config provides configuration loading for maintainer-tools.
//
// Configuration is loaded using Viper, supporting a YAML config file and
// environment variable overrides. Everything has a working default; the
// config file only exists so operators can pin their fork remote, GitHub
// user or editor instead of repeating flags on every release.
//
// Configuration priority (highest to lowest):
//  1. Command line flags
//  2. Environment variables (MAINTAINER_TOOLS_ prefix)
//  3. User config file: <user-config-dir>/maintainer-tools/config.yaml
//  4. Probed repository defaults / [DefaultConfig]
package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the operator's persistent preferences.
type Config struct {
	// Owner is the GitHub organization owning the canonical repository.
	Owner string `mapstructure:"owner"`

	// Remote is the preferred push remote. Empty means guess the fork
	// remote from the configured git remotes.
	Remote string `mapstructure:"remote"`

	// User is the GitHub username. Empty means the local login name.
	User string `mapstructure:"user"`

	// Editor overrides $EDITOR for the changelog editing step.
	Editor string `mapstructure:"editor"`
}

// DefaultConfig returns a Config with the stock osbuild defaults.
func DefaultConfig() *Config {
	return &Config{
		Owner: "osbuild",
	}
}

// Load reads the user config file and environment overrides on top of
// [DefaultConfig]. A missing config file is fine; a malformed one is an
// error.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("owner", "osbuild")
	v.SetDefault("remote", "")
	v.SetDefault("user", "")
	v.SetDefault("editor", "")

	v.SetEnvPrefix("MAINTAINER_TOOLS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.config/maintainer-tools")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
