// Package config provides centralized configuration management using Viper.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for rentdesk.
type Config struct {
	APIBaseURL     string        `mapstructure:"api_base_url" yaml:"api_base_url"`
	DataDir        string        `mapstructure:"data_dir" yaml:"data_dir"`
	LogLevel       string        `mapstructure:"log_level" yaml:"log_level"`
	LogFile        string        `mapstructure:"log_file" yaml:"log_file"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	ReadRetries    int           `mapstructure:"read_retries" yaml:"read_retries"`
	Language       string        `mapstructure:"language" yaml:"language"`
	Journal        bool          `mapstructure:"journal" yaml:"journal"`
}

// envBindings maps config keys to the environment variables read for them,
// in priority order. VITE_API_BASE_URL is honoured so a deployment can share
// one environment with the web dashboard.
var envBindings = map[string][]string{
	"api_base_url":    {"RENTDESK_API_BASE_URL", "VITE_API_BASE_URL"},
	"data_dir":        {"RENTDESK_DATA_DIR"},
	"log_level":       {"RENTDESK_LOG_LEVEL"},
	"log_file":        {"RENTDESK_LOG_FILE"},
	"request_timeout": {"RENTDESK_REQUEST_TIMEOUT"},
	"read_retries":    {"RENTDESK_READ_RETRIES"},
	"language":        {"RENTDESK_LANGUAGE"},
	"journal":         {"RENTDESK_JOURNAL"},
}

// Load loads configuration with full precedence:
// ENV vars > project config > XDG global config > defaults.
// CLI flags are applied on top by the caller.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("rentdesk")

	v.SetDefault("api_base_url", "http://localhost:8080/api")
	v.SetDefault("data_dir", ".rentdesk")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("request_timeout", "30s")
	v.SetDefault("read_retries", 2)
	v.SetDefault("language", "")
	v.SetDefault("journal", true)

	v.SetEnvPrefix("RENTDESK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for key, envs := range envBindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Validate checks values that would otherwise fail late, mid-wizard.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("api_base_url is required")
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("invalid api_base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api_base_url must be http or https, got %q", c.APIBaseURL)
	}
	if c.ReadRetries < 0 {
		return errors.New("read_retries must be >= 0")
	}
	if c.RequestTimeout < 0 {
		return errors.New("request_timeout must be >= 0")
	}
	return nil
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/rentdesk/rentdesk.yml or $XDG_CONFIG_HOME/rentdesk/rentdesk.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "rentdesk", "rentdesk.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "rentdesk", "rentdesk.yml")
}

// ProjectPath returns the project-local config path.
func ProjectPath() string {
	return "rentdesk.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

// fileYAML is the on-disk shape; durations are written as text so viper
// reads them back through its string-to-duration hook.
type fileYAML struct {
	APIBaseURL     string `yaml:"api_base_url"`
	DataDir        string `yaml:"data_dir"`
	LogLevel       string `yaml:"log_level"`
	LogFile        string `yaml:"log_file"`
	RequestTimeout string `yaml:"request_timeout"`
	ReadRetries    int    `yaml:"read_retries"`
	Language       string `yaml:"language"`
	Journal        bool   `yaml:"journal"`
}

func write(path string, cfg *Config) error {
	data, err := yaml.Marshal(fileYAML{
		APIBaseURL:     cfg.APIBaseURL,
		DataDir:        cfg.DataDir,
		LogLevel:       cfg.LogLevel,
		LogFile:        cfg.LogFile,
		RequestTimeout: cfg.RequestTimeout.String(),
		ReadRetries:    cfg.ReadRetries,
		Language:       cfg.Language,
		Journal:        cfg.Journal,
	})
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
