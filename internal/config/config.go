// Package config handles configuration loading and management for
// trunkline. It supports XDG config paths, project-level overrides,
// and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for trunkline.
type Config struct {
	Paths Paths     `mapstructure:"paths" yaml:"paths"`
	Git   GitConfig `mapstructure:"git" yaml:"git"`
}

// Paths holds the directory layout: the trunk repository, the
// worktrees root, and the auxiliary files trunkline owns.
type Paths struct {
	// Trunk is the shared integration repository.
	Trunk string `mapstructure:"trunk" yaml:"trunk"`
	// Worktrees is the root directory for per-agent working copies.
	Worktrees string `mapstructure:"worktrees" yaml:"worktrees"`
	// Database is the SQLite registry and audit log.
	Database string `mapstructure:"database" yaml:"database"`
	// DebugLog receives reconciliation debug output; empty disables it.
	DebugLog string `mapstructure:"debug_log" yaml:"debug_log"`
}

// GitConfig holds git subprocess settings.
type GitConfig struct {
	// CommandTimeout bounds each git subprocess.
	CommandTimeout time.Duration `mapstructure:"command_timeout" yaml:"command_timeout"`
}

// ProjectConfigName is the per-project override file searched for in
// the working directory and its parents.
const ProjectConfigName = ".trunkline.yaml"

// Load loads configuration from XDG paths, project overrides, and
// environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (TRUNKLINE_*)
// 2. Project config (.trunkline.yaml in current directory or parent)
// 3. User config (~/.config/trunkline/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("TRUNKLINE")
	v.AutomaticEnv()
	v.BindEnv("paths.trunk", "TRUNKLINE_TRUNK")
	v.BindEnv("paths.worktrees", "TRUNKLINE_WORKTREES")
	v.BindEnv("paths.database", "TRUNKLINE_DATABASE")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	// Defaults always unmarshal cleanly.
	_ = v.Unmarshal(cfg)
	return cfg
}

// TemplateYAML renders a commented starter config for `trunkline init`.
// Durations are rendered in their string form so the file round-trips
// through the loader.
func TemplateYAML() ([]byte, error) {
	cfg := Default()
	tree := map[string]interface{}{
		"paths": map[string]string{
			"trunk":     cfg.Paths.Trunk,
			"worktrees": cfg.Paths.Worktrees,
			"database":  cfg.Paths.Database,
			"debug_log": cfg.Paths.DebugLog,
		},
		"git": map[string]string{
			"command_timeout": cfg.Git.CommandTimeout.String(),
		},
	}

	out, err := yaml.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("marshal config template: %w", err)
	}
	header := "# trunkline project configuration.\n" +
		"# Values here override ~/.config/trunkline/config.yaml.\n"
	return append([]byte(header), out...), nil
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	cacheDir := os.Getenv("XDG_CACHE_HOME")
	if cacheDir == "" {
		home, _ := os.UserHomeDir()
		cacheDir = filepath.Join(home, ".cache")
	}

	v.SetDefault("paths.trunk", filepath.Join(dataDir, "trunkline", "trunk"))
	v.SetDefault("paths.worktrees", filepath.Join(cacheDir, "trunkline", "worktrees"))
	v.SetDefault("paths.database", filepath.Join(dataDir, "trunkline", "trunkline.db"))
	v.SetDefault("paths.debug_log", "")

	v.SetDefault("git.command_timeout", "2m")
}

// getUserConfigDir returns the XDG config directory for trunkline.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "trunkline")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "trunkline")
	}
	return filepath.Join(home, ".config", "trunkline")
}

// findProjectConfig searches for .trunkline.yaml in the current
// directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		candidate := filepath.Join(dir, ProjectConfigName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
