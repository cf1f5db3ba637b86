// Package config handles configuration loading for goalie.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration. Flags and environment
// variables override anything loaded from the file.
type Config struct {
	// DataDir is set by the caller, not from the config file.
	DataDir string `yaml:"-"`
	// QuotaBytes caps each stored document. Zero selects the default.
	QuotaBytes int64 `yaml:"quota_bytes"`
	// Offline forces offline mode: no probing, reorders always queue.
	Offline bool        `yaml:"offline"`
	Probe   ProbeConfig `yaml:"probe"`
}

// ProbeConfig configures the connectivity probe.
type ProbeConfig struct {
	Addr string `yaml:"addr"`
	// Interval is a Go duration string, e.g. "15s".
	Interval string `yaml:"interval"`
}

// IntervalOrZero parses the probe interval; an empty or invalid value
// yields zero, which lets the monitor pick its default.
func (p ProbeConfig) IntervalOrZero() time.Duration {
	if p.Interval == "" {
		return 0
	}
	d, err := time.ParseDuration(p.Interval)
	if err != nil {
		return 0
	}
	return d
}

// Load reads the YAML config at path. A missing file yields the zero
// config; the caller's dataDir is always applied.
func Load(path, dataDir string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.DataDir = dataDir
	return cfg, nil
}

// DefaultConfigPath returns the XDG-style default config file location.
func DefaultConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "goalie", "config.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "goalie", "config.yaml")
}
