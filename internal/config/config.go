/*
Package config loads the device manifest that tells raidctl which
files back a volume's N devices and how many sectors each holds. It
exists only to make the CLI runnable end to end.
*/
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config is the on-disk device manifest.
type Config struct {
	// Sectors is the per-device sector count.
	Sectors int `yaml:"sectors"`
	// Devices lists the backing file path for each underlying device,
	// in device-index order.
	Devices []string `yaml:"devices"`
	// LogLevel controls raidlog's verbosity: debug, info, warn, error.
	LogLevel string `yaml:"logLevel"`
	// MetricsAddr is the listen address for the Prometheus /metrics
	// endpoint, empty to disable.
	MetricsAddr string `yaml:"metricsAddr"`
}

// Load reads and parses a YAML device manifest from path.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := &Config{LogLevel: "info"}
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if len(cfg.Devices) < 3 {
		return nil, fmt.Errorf("config: at least 3 devices required, got %d", len(cfg.Devices))
	}
	if cfg.Sectors <= 0 {
		return nil, fmt.Errorf("config: sectors must be positive, got %d", cfg.Sectors)
	}

	return cfg, nil
}
