// Package config loads the run configuration for grainstat from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"semgrain/internal/grain"

	"gopkg.in/yaml.v3"
)

// Analysis backends.
const (
	BackendNative = "native"
	BackendOpenCV = "opencv"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the run configuration. Every field may be overridden by a
// command line flag.
type Config struct {
	// InputDir holds the micrographs to analyze
	InputDir string `yaml:"input_dir"`

	// OutputDir receives the per-image outputs and analysis_summary.json
	OutputDir string `yaml:"output_dir"`

	// PixelSize is the physical edge length of one pixel, in µm
	PixelSize float64 `yaml:"pixel_size"`

	// MinGrainSize is the smallest region kept, in pixels
	MinGrainSize int `yaml:"min_grain_size"`

	// Polarity is "bright" or "dark"
	Polarity string `yaml:"polarity"`

	// Backend is "native" or "opencv"
	Backend string `yaml:"backend"`

	// Histogram enables a <base>_histogram.png per image
	Histogram bool `yaml:"histogram"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	p := grain.DefaultParams()
	return &Config{
		InputDir:     "images",
		OutputDir:    "results",
		PixelSize:    p.PixelSize,
		MinGrainSize: p.MinGrainSize,
		Polarity:     p.Polarity.String(),
		Backend:      BackendNative,
	}
}

// LoadConfig loads configuration from a YAML file.
// If the file doesn't exist, it returns the default configuration.
// Keys missing from the file keep their default values.
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

// SaveConfig saves the configuration to a YAML file
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

// GrainParams converts the measurement settings to grain.Params.
func (c *Config) GrainParams() (grain.Params, error) {
	polarity, err := grain.ParsePolarity(c.Polarity)
	if err != nil {
		return grain.Params{}, err
	}
	p := grain.DefaultParams().
		WithPixelSize(c.PixelSize).
		WithMinGrainSize(c.MinGrainSize).
		WithPolarity(polarity)
	return p, p.Validate()
}

// Validate checks directories, backend and measurement parameters.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.InputDir) == "" {
		return fmt.Errorf("%w: input_dir is empty", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return fmt.Errorf("%w: output_dir is empty", ErrInvalidConfig)
	}
	switch c.Backend {
	case BackendNative, BackendOpenCV:
	default:
		return fmt.Errorf("%w: unknown backend %q (want %s or %s)", ErrInvalidConfig, c.Backend, BackendNative, BackendOpenCV)
	}
	if _, err := c.GrainParams(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Overrides carries values given explicitly on the command line. Zero values
// mean "not given" and leave the loaded configuration untouched.
type Overrides struct {
	InputDir     string
	OutputDir    string
	PixelSize    float64
	MinGrainSize int
	Polarity     string
	Backend      string
	Histogram    bool
}

// Apply copies every explicitly given value in o over c.
func (c *Config) Apply(o Overrides) {
	if o.InputDir != "" {
		c.InputDir = o.InputDir
	}
	if o.OutputDir != "" {
		c.OutputDir = o.OutputDir
	}
	if o.PixelSize != 0 {
		c.PixelSize = o.PixelSize
	}
	if o.MinGrainSize != 0 {
		c.MinGrainSize = o.MinGrainSize
	}
	if o.Polarity != "" {
		c.Polarity = o.Polarity
	}
	if o.Backend != "" {
		c.Backend = o.Backend
	}
	if o.Histogram {
		c.Histogram = true
	}
}
