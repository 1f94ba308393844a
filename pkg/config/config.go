// Package config provides configuration loading and management for the
// FLIM post-processing tools. It handles loading configuration from
// YAML files and provides defaults matching the lab's usual TCSPC
// acquisition settings.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/brp-optics/flimfitutils/internal/models"
	"github.com/brp-optics/flimfitutils/pkg/threshold"
)

// Config represents the application configuration loaded from YAML.
type Config struct {
	// Grid describes the expected shape of exported .asc grids.
	Grid struct {
		// Rows and Cols are the scan dimensions in pixels.
		Rows int `yaml:"rows"`
		Cols int `yaml:"cols"`
	} `yaml:"grid"`

	// Acquisition holds the TCSPC settings that the photon saturation
	// threshold is derived from.
	Acquisition struct {
		// RepetitionMHz is the laser repetition frequency in MHz.
		RepetitionMHz float64 `yaml:"repetitionMHz"`

		// PixelDwellUs is the pixel dwell time in microseconds.
		PixelDwellUs float64 `yaml:"pixelDwellUs"`

		// FramesAccumulated is the number of frames summed per scan.
		FramesAccumulated float64 `yaml:"framesAccumulated"`

		// SaturationFraction is the photon count fraction above which
		// TCSPC pile-up distorts the decay (0.3 = 30%).
		SaturationFraction float64 `yaml:"saturationFraction"`
	} `yaml:"acquisition"`

	// Fit holds the validity limits applied to fit results.
	Fit struct {
		// MinBinnedPhotons is the minimum binned photon count for a
		// confident fit.
		MinBinnedPhotons float64 `yaml:"minBinnedPhotons"`

		// ChiSqMin and ChiSqMax bound acceptable reduced chi-square.
		ChiSqMin float64 `yaml:"chiSqMin"`
		ChiSqMax float64 `yaml:"chiSqMax"`
	} `yaml:"fit"`

	// Dataset lists the recognized quantity suffixes in match order.
	// Longer suffixes must come before their prefixes. Treating the
	// list as data rather than a constant lets tests substitute
	// fixtures and lets a new export version be handled by editing a
	// file instead of the code.
	Dataset struct {
		Suffixes []string `yaml:"suffixes"`
	} `yaml:"dataset"`

	// Output parameters.
	Output struct {
		// Suffix replaces the .asc extension on thresholded exports.
		Suffix string `yaml:"suffix"`

		// Verbose controls per-file progress output.
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Grid.Rows = 256
	cfg.Grid.Cols = 256

	cfg.Acquisition.RepetitionMHz = 80
	cfg.Acquisition.PixelDwellUs = 5
	cfg.Acquisition.FramesAccumulated = 45
	cfg.Acquisition.SaturationFraction = 0.3

	cfg.Fit.MinBinnedPhotons = 3000
	cfg.Fit.ChiSqMin = 0.5
	cfg.Fit.ChiSqMax = 2

	for _, kind := range models.DefaultVocabulary() {
		cfg.Dataset.Suffixes = append(cfg.Dataset.Suffixes, kind.Suffix())
	}

	cfg.Output.Suffix = ".th.asc"
	cfg.Output.Verbose = false

	return cfg
}

// LoadConfig loads configuration from a YAML file.
// If the file doesn't exist, it returns the default configuration.
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

// Vocabulary resolves the configured suffix list to quantity kinds.
// An unrecognized suffix is an error: a misspelled entry would
// otherwise silently produce an empty dataset.
func (c *Config) Vocabulary() ([]models.Kind, error) {
	kinds := make([]models.Kind, 0, len(c.Dataset.Suffixes))
	for _, s := range c.Dataset.Suffixes {
		kind, ok := models.KindFromSuffix(s)
		if !ok {
			return nil, fmt.Errorf("config: unknown quantity suffix %q", s)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

// ThresholdSpec derives the default validity criteria from the
// configured acquisition and fit parameters:
//
//   - amplitudes and lifetimes must be non-negative,
//   - the raw photon count must stay below the pile-up saturation
//     limit (fraction x repetition x dwell x frames),
//   - chi-square must fall within the configured band,
//   - the rebinned photon count must reach the confident-fit floor.
func (c *Config) ThresholdSpec() threshold.Spec {
	maxPhotons := c.Acquisition.SaturationFraction *
		c.Acquisition.RepetitionMHz *
		c.Acquisition.PixelDwellUs *
		c.Acquisition.FramesAccumulated

	inf := math.Inf(1)
	return threshold.Spec{
		models.KindA1:            {Min: 0, Max: inf},
		models.KindA2:            {Min: 0, Max: inf},
		models.KindT1:            {Min: 0, Max: inf},
		models.KindT2:            {Min: 0, Max: inf},
		models.KindPhotons:       {Min: 0, Max: maxPhotons},
		models.KindChi:           {Min: c.Fit.ChiSqMin, Max: c.Fit.ChiSqMax},
		models.KindBinnedPhotons: {Min: c.Fit.MinBinnedPhotons, Max: inf},
	}
}
