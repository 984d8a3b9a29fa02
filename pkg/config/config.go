// Package config provides configuration loading and validation for
// chromaprof. Values can come from a YAML file, from CLI flags, or both;
// the merged result is validated once before any processing starts.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"chromaprof/internal/models"
)

// Config is the process-wide configuration. It is constructed and validated
// once at startup and read-only afterwards; the pipeline never prompts.
type Config struct {
	// Identifier is the dataset tag scoping all filenames of one run,
	// e.g. "W" or "SF".
	Identifier string `yaml:"identifier"`

	// DistanceUpper is the physical distance at the left edge (column 0)
	// of every image.
	DistanceUpper float64 `yaml:"distanceUpper"`

	// DistanceLower is the physical distance toward the right edge.
	// Must be strictly less than DistanceUpper.
	DistanceLower float64 `yaml:"distanceLower"`

	// Channel selects the color channel to profile: R, G or B.
	Channel string `yaml:"channel"`

	// BlurRadius is the Gaussian blur kernel radius applied to every image
	// before alignment. 0 disables blurring.
	BlurRadius int `yaml:"blurRadius"`

	// InputDir is the folder holding the replicate images.
	InputDir string `yaml:"inputDir"`

	// OutputDir is the folder receiving the CSV and aligned-image artifacts.
	OutputDir string `yaml:"outputDir"`

	// LogDir is the folder receiving the per-run log file.
	LogDir string `yaml:"logDir"`

	// Verbose enables debug-level logging.
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns a configuration with default values. Identifier and
// the folder paths have no sensible defaults and stay empty.
func DefaultConfig() *Config {
	return &Config{
		Channel:    "R",
		BlurRadius: 10,
		LogDir:     "logs",
	}
}

// LoadConfig loads configuration from a YAML file on top of the defaults.
// A missing file returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// Validate checks every invariant the pipeline depends on. It replaces the
// prompt-until-valid loop a terminal frontend would run: a bad value is a
// startup error, never re-asked for.
func (c *Config) Validate() error {
	if c.Identifier == "" {
		return fmt.Errorf("identifier must not be empty")
	}
	if c.DistanceLower >= c.DistanceUpper {
		return fmt.Errorf("distance lower bound (%v) must be less than upper bound (%v)",
			c.DistanceLower, c.DistanceUpper)
	}
	if _, err := models.ParseChannel(c.Channel); err != nil {
		return err
	}
	if c.BlurRadius < 0 {
		return fmt.Errorf("blur radius must be non-negative, got %d", c.BlurRadius)
	}
	if c.InputDir == "" {
		return fmt.Errorf("input folder must be specified")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output folder must be specified")
	}
	return nil
}

// ParsedChannel returns the channel selector as its enum value. Validate
// accepts only parseable tags, so an error here means the configuration
// bypassed validation.
func (c *Config) ParsedChannel() (models.Channel, error) {
	return models.ParseChannel(c.Channel)
}
