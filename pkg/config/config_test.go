package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/brp-optics/flimfitutils/internal/models"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Grid.Rows != 256 || cfg.Grid.Cols != 256 {
		t.Errorf("Expected 256x256 grid, got %dx%d", cfg.Grid.Rows, cfg.Grid.Cols)
	}
	if cfg.Fit.ChiSqMin != 0.5 || cfg.Fit.ChiSqMax != 2 {
		t.Errorf("Expected chi-square band [0.5, 2], got [%g, %g]",
			cfg.Fit.ChiSqMin, cfg.Fit.ChiSqMax)
	}
	if cfg.Output.Suffix != ".th.asc" {
		t.Errorf("Expected output suffix .th.asc, got %q", cfg.Output.Suffix)
	}
	if len(cfg.Dataset.Suffixes) == 0 {
		t.Fatal("Expected a default suffix vocabulary")
	}
	// Longer suffixes must sort before their prefixes so a1[%] is
	// matched before a1.
	for i := 1; i < len(cfg.Dataset.Suffixes); i++ {
		if len(cfg.Dataset.Suffixes[i]) > len(cfg.Dataset.Suffixes[i-1]) {
			t.Errorf("Suffix %q sorts after shorter %q",
				cfg.Dataset.Suffixes[i], cfg.Dataset.Suffixes[i-1])
		}
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Expected defaults for a missing file, got error %v", err)
	}
	if cfg.Grid.Rows != 256 {
		t.Errorf("Expected default rows 256, got %d", cfg.Grid.Rows)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	content := `grid:
  rows: 512
  cols: 512
fit:
  minBinnedPhotons: 1000
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Grid.Rows != 512 {
		t.Errorf("Expected overridden rows 512, got %d", cfg.Grid.Rows)
	}
	if cfg.Fit.MinBinnedPhotons != 1000 {
		t.Errorf("Expected overridden photon floor 1000, got %g", cfg.Fit.MinBinnedPhotons)
	}
	// Untouched sections keep their defaults.
	if cfg.Acquisition.RepetitionMHz != 80 {
		t.Errorf("Expected default repetition 80 MHz, got %g", cfg.Acquisition.RepetitionMHz)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "cfg.yaml")
	cfg := DefaultConfig()
	cfg.Grid.Rows = 128

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Grid.Rows != 128 {
		t.Errorf("Expected rows 128 after round trip, got %d", loaded.Grid.Rows)
	}
}

func TestVocabulary(t *testing.T) {
	cfg := DefaultConfig()
	kinds, err := cfg.Vocabulary()
	if err != nil {
		t.Fatalf("Vocabulary failed: %v", err)
	}
	if len(kinds) != len(cfg.Dataset.Suffixes) {
		t.Errorf("Expected %d kinds, got %d", len(cfg.Dataset.Suffixes), len(kinds))
	}

	cfg.Dataset.Suffixes = append(cfg.Dataset.Suffixes, "bogus")
	if _, err := cfg.Vocabulary(); err == nil {
		t.Error("Expected an error for an unknown suffix")
	}
}

func TestThresholdSpec(t *testing.T) {
	spec := DefaultConfig().ThresholdSpec()

	// 0.3 x 80 MHz x 5 us x 45 frames.
	photons, ok := spec[models.KindPhotons]
	if !ok {
		t.Fatal("Expected a photon saturation criterion")
	}
	if photons.Max != 5400 {
		t.Errorf("Expected photon saturation limit 5400, got %g", photons.Max)
	}

	chi := spec[models.KindChi]
	if chi.Min != 0.5 || chi.Max != 2 {
		t.Errorf("Expected chi-square band [0.5, 2], got %+v", chi)
	}

	binned := spec[models.KindBinnedPhotons]
	if binned.Min != 3000 || !math.IsInf(binned.Max, 1) {
		t.Errorf("Expected binned photon floor [3000, +Inf), got %+v", binned)
	}

	for _, k := range []models.Kind{models.KindA1, models.KindA2, models.KindT1, models.KindT2} {
		rng, ok := spec[k]
		if !ok || rng.Min != 0 || !math.IsInf(rng.Max, 1) {
			t.Errorf("%s: expected [0, +Inf), got %+v (present %v)", k, rng, ok)
		}
	}
}
