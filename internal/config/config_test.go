package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 20, cfg.NumBoot)
	assert.Equal(t, 1000, cfg.NumSim)
	assert.Contains(t, cfg.ToString(), "n_boot=20")
}

func TestValidateRanges(t *testing.T) {
	cases := map[string]func(*Config){
		"n_obs too small": func(c *Config) { c.NumObsBootstrap = 2 },
		"n_obs too large": func(c *Config) { c.NumObsFitting = 500 },
		"confidence":      func(c *Config) { c.Confidence = 1 },
		"alpha":           func(c *Config) { c.Alpha = 0 },
		"grid":            func(c *Config) { c.GridMax = c.GridMin },
		"format":          func(c *Config) { c.Format = "xml" },
		"plot extension":  func(c *Config) { c.PlotFile = "out.svg" },
		"n_sim":           func(c *Config) { c.NumSim = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), "invalid configuration")
		})
	}

	cfg := Default()
	cfg.PlotFile = "figure.png"
	assert.NoError(t, cfg.Validate())
}

func TestBindFlags(t *testing.T) {
	cfg := Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	Bind(fs, cfg)

	require.NoError(t, fs.Parse([]string{"--seed=42", "--n-boot=200", "-f", "json", "--plot", "x.pdf"}))
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, 200, cfg.NumBoot)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "x.pdf", cfg.PlotFile)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvPrefix+"SEED", "7")
	t.Setenv(EnvPrefix+"NUM_SIM", "250")
	t.Setenv(EnvPrefix+"FORMAT", "yaml")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), cfg.Seed)
	assert.Equal(t, 250, cfg.NumSim)
	assert.Equal(t, "yaml", cfg.Format)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("STATAPPS_ALPHA=0.01\n"), 0o644))
	t.Chdir(dir)
	t.Cleanup(func() { os.Unsetenv(EnvPrefix + "ALPHA") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0.01, cfg.Alpha)
}

func TestLoadBadEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvPrefix+"NUM_BOOT", "many")

	_, err := Load()
	assert.ErrorContains(t, err, "STATAPPS_NUM_BOOT")
}
