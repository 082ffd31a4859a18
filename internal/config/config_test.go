package config

import (
	"os"
	"path/filepath"
	"testing"

	"semgrain/internal/grain"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, "images", cfg.InputDir)
	require.Equal(t, "results", cfg.OutputDir)
	require.Equal(t, 0.1, cfg.PixelSize)
	require.Equal(t, 50, cfg.MinGrainSize)
	require.Equal(t, "bright", cfg.Polarity)
	require.Equal(t, BackendNative, cfg.Backend)
	require.False(t, cfg.Histogram)
	require.NoError(t, cfg.Validate())

	p, err := cfg.GrainParams()
	require.NoError(t, err)
	require.Equal(t, grain.DefaultParams(), p)
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grainstat.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pixel_size: 0.25\npolarity: dark\nhistogram: true\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 0.25, cfg.PixelSize)
	require.Equal(t, "dark", cfg.Polarity)
	require.True(t, cfg.Histogram)
	// Untouched keys keep defaults
	require.Equal(t, 50, cfg.MinGrainSize)
	require.Equal(t, "images", cfg.InputDir)

	p, err := cfg.GrainParams()
	require.NoError(t, err)
	require.Equal(t, grain.PolarityDark, p.Polarity)
	require.InDelta(t, 0.0625, p.PixelAreaUM2(), 1e-12)
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pixel_size: [oops\n"), 0644))
	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "grainstat.yaml")
	cfg := DefaultConfig()
	cfg.MinGrainSize = 120
	cfg.Backend = BackendOpenCV
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}

func TestApplyPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grainstat.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pixel_size: 0.25\nmin_grain_size: 10\noutput_dir: out\n"), 0644))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	cfg.Apply(Overrides{MinGrainSize: 75, InputDir: "sem"})
	require.Equal(t, 0.25, cfg.PixelSize)  // file
	require.Equal(t, 75, cfg.MinGrainSize) // flag
	require.Equal(t, "sem", cfg.InputDir)  // flag
	require.Equal(t, "out", cfg.OutputDir) // file
	require.Equal(t, "bright", cfg.Polarity)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"empty input":  func(c *Config) { c.InputDir = " " },
		"empty output": func(c *Config) { c.OutputDir = "" },
		"bad backend":  func(c *Config) { c.Backend = "cuda" },
		"zero pixel":   func(c *Config) { c.PixelSize = 0 },
		"negative min": func(c *Config) { c.MinGrainSize = -1 },
		"bad polarity": func(c *Config) { c.Polarity = "sideways" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(cfg)
			require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	cfg := DefaultConfig()
	cfg.PixelSize = -2
	require.ErrorIs(t, cfg.Validate(), grain.ErrInvalidParams)
}
