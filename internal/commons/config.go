package commons

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"orderdesk/internal/config"
)

// LoadConfig reads a YAML config file on top of the built-in defaults, so a
// file only needs the keys it changes.
func LoadConfig(path string) (*config.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := config.Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// Load reads the file named by CONFIG_FILE when it is set and the
// environment otherwise.
func Load() (*config.Config, error) {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		return LoadConfig(path)
	}
	return config.Load()
}
