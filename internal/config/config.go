// Copyright (c) 2025 Binadox (https://binadox.com)
// This software is licensed under the zlib license. See LICENSE file for details.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"vl_installer/internal/mirror"
	"vl_installer/internal/platform"
)

// EnvPrefix is prepended to every environment override (VL_INSTALLER_PYTHON, ...)
const EnvPrefix = "VL_INSTALLER"

// Sudo modes for system package manager commands
const (
	SudoAuto   = "auto"   // sudo unless already privileged
	SudoAlways = "always" // always prefix with sudo
	SudoNever  = "never"  // never prefix with sudo
)

// Config holds all configuration for the installer
type Config struct {
	Python            string        `mapstructure:"python"`
	WorkDir           string        `mapstructure:"work_dir"`
	RequirementsFile  string        `mapstructure:"requirements_file"`
	BootstrapPackages []string      `mapstructure:"bootstrap_packages"`
	LaunchCommand     []string      `mapstructure:"launch_command"`
	Launch            bool          `mapstructure:"launch"`
	Sudo              string        `mapstructure:"sudo"`
	DownloadTimeout   time.Duration `mapstructure:"download_timeout"` // 0 waits forever
	Mirror            MirrorConfig  `mapstructure:"mirror"`
	StateFile         string        `mapstructure:"state_file"`
	LogFile           string        `mapstructure:"log_file"`
}

// MirrorConfig controls package index mirror selection
type MirrorConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Candidates []string      `mapstructure:"candidates"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Python:            platform.CurrentOS().DefaultPython(),
		WorkDir:           ".",
		RequirementsFile:  "requirements.txt",
		BootstrapPackages: []string{"requests", "rich", "ruamel.yaml"},
		LaunchCommand:     []string{"streamlit", "run", "st.py"},
		Launch:            true,
		Sudo:              SudoAuto,
		Mirror: MirrorConfig{
			Enabled:    true,
			Candidates: append([]string(nil), mirror.DefaultCandidates...),
			Timeout:    mirror.DefaultProbeTimeout,
		},
	}
}

// Load reads configuration from file and environment.
// Priority (highest to lowest): CLI flags > Env vars > Config file > Defaults
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variable overrides; nested keys use "_" (VL_INSTALLER_MIRROR_ENABLED)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind config keys
	v.SetDefault("python", cfg.Python)
	v.SetDefault("work_dir", cfg.WorkDir)
	v.SetDefault("requirements_file", cfg.RequirementsFile)
	v.SetDefault("bootstrap_packages", cfg.BootstrapPackages)
	v.SetDefault("launch_command", cfg.LaunchCommand)
	v.SetDefault("launch", cfg.Launch)
	v.SetDefault("sudo", cfg.Sudo)
	v.SetDefault("download_timeout", cfg.DownloadTimeout)
	v.SetDefault("mirror.enabled", cfg.Mirror.Enabled)
	v.SetDefault("mirror.candidates", cfg.Mirror.Candidates)
	v.SetDefault("mirror.timeout", cfg.Mirror.Timeout)
	v.SetDefault("state_file", cfg.StateFile)
	v.SetDefault("log_file", cfg.LogFile)

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present
func (c *Config) Validate() error {
	if c.Python == "" {
		return fmt.Errorf("python is required")
	}
	if c.WorkDir == "" {
		return fmt.Errorf("work_dir is required")
	}
	if c.RequirementsFile == "" {
		return fmt.Errorf("requirements_file is required")
	}
	if c.Launch && len(c.LaunchCommand) == 0 {
		return fmt.Errorf("launch_command is required when launch is enabled")
	}
	switch c.Sudo {
	case SudoAuto, SudoAlways, SudoNever:
	default:
		return fmt.Errorf("sudo must be one of %s, %s, %s", SudoAuto, SudoAlways, SudoNever)
	}
	if c.DownloadTimeout < 0 {
		return fmt.Errorf("download_timeout must be >= 0")
	}
	if c.Mirror.Timeout < 0 {
		return fmt.Errorf("mirror.timeout must be >= 0")
	}
	return nil
}

// UseSudo resolves the sudo mode for a process with the given privilege
func (c *Config) UseSudo(privileged bool) bool {
	switch c.Sudo {
	case SudoAlways:
		return true
	case SudoNever:
		return false
	default:
		return !privileged
	}
}

// Flags carries command line overrides; empty values leave config untouched
type Flags struct {
	WorkDir          string
	Python           string
	RequirementsFile string
	StateFile        string
	LogFile          string
	NoLaunch         bool
	NoMirror         bool
}

// ApplyFlags merges CLI flag values into config (non-empty values override)
func (c *Config) ApplyFlags(f Flags) {
	if f.WorkDir != "" {
		c.WorkDir = f.WorkDir
	}
	if f.Python != "" {
		c.Python = f.Python
	}
	if f.RequirementsFile != "" {
		c.RequirementsFile = f.RequirementsFile
	}
	if f.StateFile != "" {
		c.StateFile = f.StateFile
	}
	if f.LogFile != "" {
		c.LogFile = f.LogFile
	}
	if f.NoLaunch {
		c.Launch = false
	}
	if f.NoMirror {
		c.Mirror.Enabled = false
	}
}

// configFile represents the YAML structure for saving config
type configFile struct {
	Python            string         `yaml:"python"`
	WorkDir           string         `yaml:"work_dir"`
	RequirementsFile  string         `yaml:"requirements_file"`
	BootstrapPackages []string       `yaml:"bootstrap_packages"`
	LaunchCommand     []string       `yaml:"launch_command"`
	Launch            bool           `yaml:"launch"`
	Sudo              string         `yaml:"sudo"`
	DownloadTimeout   string         `yaml:"download_timeout"`
	Mirror            mirrorFileBody `yaml:"mirror"`
	StateFile         string         `yaml:"state_file,omitempty"`
	LogFile           string         `yaml:"log_file,omitempty"`
}

type mirrorFileBody struct {
	Enabled    bool     `yaml:"enabled"`
	Candidates []string `yaml:"candidates"`
	Timeout    string   `yaml:"timeout"`
}

// SaveToFile writes the configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	cf := configFile{
		Python:            c.Python,
		WorkDir:           c.WorkDir,
		RequirementsFile:  c.RequirementsFile,
		BootstrapPackages: c.BootstrapPackages,
		LaunchCommand:     c.LaunchCommand,
		Launch:            c.Launch,
		Sudo:              c.Sudo,
		DownloadTimeout:   c.DownloadTimeout.String(),
		Mirror: mirrorFileBody{
			Enabled:    c.Mirror.Enabled,
			Candidates: c.Mirror.Candidates,
			Timeout:    c.Mirror.Timeout.String(),
		},
		StateFile: c.StateFile,
		LogFile:   c.LogFile,
	}

	data, err := yaml.Marshal(cf)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
