package main

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ProjectConfig holds the contents of .figscan/config.yaml.
type ProjectConfig struct {
	Project        string   `yaml:"project"`
	StorePath      string   `yaml:"store_path"`
	Capacity       int      `yaml:"capacity"`
	BatchSize      int      `yaml:"batch_size"`
	FileTimeoutSec int      `yaml:"file_timeout_seconds"`
	NoNameFallback bool     `yaml:"no_name_fallback"`
	Include        []string `yaml:"include"`
	Exclude        []string `yaml:"exclude"`
	LogLevel       string   `yaml:"log_level"`
	LogFormat      string   `yaml:"log_format"`
}

// loadProjectConfig reads .figscan/config.yaml from the current directory.
// Returns nil (no error) if the file does not exist.
func loadProjectConfig() (*ProjectConfig, error) {
	data, err := os.ReadFile(filepath.Join(".figscan", "config.yaml"))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolveToken returns the access token to use, applying the fallback chain:
// explicit --token flag, then the FIGMA_TOKEN environment variable (which
// godotenv may have populated from a .env file).
func resolveToken(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv("FIGMA_TOKEN")
}

// resolveStorePath returns the session store path: flag, config file, then
// ~/.figscan/sessions.db.
func resolveStorePath(flagValue string, cfg *ProjectConfig) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg != nil && cfg.StorePath != "" {
		return cfg.StorePath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".figscan", "sessions.db")
	}
	return filepath.Join(home, ".figscan", "sessions.db")
}

func (c *ProjectConfig) fileTimeout() time.Duration {
	if c == nil || c.FileTimeoutSec <= 0 {
		return 0
	}
	return time.Duration(c.FileTimeoutSec) * time.Second
}
