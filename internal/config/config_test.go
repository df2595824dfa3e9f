package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/daryltucker/flux-runner/internal/assets"
	"github.com/daryltucker/flux-runner/internal/config"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := config.DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Sweeps, 3)
	assert.Equal(t, "Base", cfg.Sweeps[0].Name)
	assert.True(t, cfg.Sweeps[0].IsBase())
	assert.True(t, cfg.Probe.StopOnInfeasible)
}

// TestEmbeddedConfigMatchesDefaults keeps `config init` output in sync.
func TestEmbeddedConfigMatchesDefaults(t *testing.T) {
	var got config.Config
	require.NoError(t, yaml.Unmarshal(assets.DefaultConfig, &got))
	assert.Equal(t, *config.DefaultConfig(), got)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flux.yaml")
	data := []byte(`
output_dir: out
workers: 3
plots: false
sweeps:
  - name: Oxphos cap
    reaction: oxphos
    bound: upper
    values: [0, 10, 20]
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, 3, cfg.Workers)
	assert.False(t, cfg.Plots)
	require.Len(t, cfg.Sweeps, 1)
	assert.Equal(t, []float64{0, 10, 20}, cfg.Sweeps[0].Values)

	// Untouched keys keep their defaults.
	assert.Equal(t, "scenarios.csv", cfg.CSVFile)
	assert.Len(t, cfg.Overrides, 4)
}

func TestLoadErrors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: [1"), 0644))
	_, err = config.Load(path)
	require.Error(t, err)

	path = filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 0"), 0644))
	_, err = config.Load(path)
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("FLUX_WORKERS", "2")
	t.Setenv("FLUX_OUTPUT_DIR", "from-env")

	path := filepath.Join(t.TempDir(), "flux.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 5"), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Workers, "environment wins over the file")
	assert.Equal(t, "from-env", cfg.OutputDir)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"FLUX_OUTPUT_DIR": "/tmp/flux",
		"FLUX_LOG_LEVEL":  "debug",
		"FLUX_LOG_FORMAT": "json",
		"FLUX_WORKERS":    "8",
		"FLUX_PLOTS":      "false",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := config.DefaultConfig()
	require.NoError(t, cfg.ApplyEnv(lookup))
	assert.Equal(t, "/tmp/flux", cfg.OutputDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 8, cfg.Workers)
	assert.False(t, cfg.Plots)

	env["FLUX_WORKERS"] = "many"
	require.ErrorIs(t, config.DefaultConfig().ApplyEnv(lookup), config.ErrInvalidConfig)

	env["FLUX_WORKERS"] = "1"
	env["FLUX_PLOTS"] = "maybe"
	require.ErrorIs(t, config.DefaultConfig().ApplyEnv(lookup), config.ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"workers", func(c *config.Config) { c.Workers = 0 }, "workers must be >= 1"},
		{"output dir", func(c *config.Config) { c.OutputDir = "" }, "output_dir is required"},
		{"override without reaction", func(c *config.Config) {
			c.Overrides = append(c.Overrides, config.Override{Upper: new(float64)})
		}, "reaction is required"},
		{"override without bound", func(c *config.Config) {
			c.Overrides = append(c.Overrides, config.Override{Reaction: "oxphos"})
		}, "set lower and/or upper"},
		{"duplicate sweep", func(c *config.Config) { c.Sweeps = append(c.Sweeps, config.Sweep{Name: "Base"}) }, "duplicate name"},
		{"sweep bound", func(c *config.Config) { c.Sweeps[1].Bound = "side" }, "unknown bound kind"},
		{"sweep step", func(c *config.Config) { c.Sweeps[1].Step = 0 }, "non-zero step"},
		{"probe step", func(c *config.Config) { c.Probe.Step = 0 }, "demand_probe: step"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, config.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
