package config

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultArchive, cfg.GetString(ConfigArchive))
	assert.Equal(t, runtime.NumCPU(), cfg.GetInt(ConfigWorkers))
	assert.Equal(t, 100000, cfg.GetInt(ConfigReportEvery))
	assert.Equal(t, 1.0, cfg.GetFloat64(ConfigReportInterval))
	assert.Equal(t, "doorhack.log", cfg.GetString(ConfigLog))
	assert.Equal(t, "password.txt", cfg.GetString(ConfigCredentialFile))
	assert.False(t, cfg.GetBool(ConfigRateHistogram))
}

func TestLoadFlags(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.Load([]string{
		"--workers", "4",
		"--report-every", "500",
		"--report-interval", "0.5",
		"--rate-histogram",
		"vault.zip",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.GetInt(ConfigWorkers))
	assert.Equal(t, 500, cfg.GetInt(ConfigReportEvery))
	assert.Equal(t, 0.5, cfg.GetFloat64(ConfigReportInterval))
	assert.True(t, cfg.GetBool(ConfigRateHistogram))
	assert.Equal(t, "vault.zip", cfg.GetString(ConfigArchive))
}

func TestLoadUnknownFlag(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.Load([]string{"--no-such-flag"}))
}

func TestLoadZeroValue(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.Load(nil))
	assert.Equal(t, DefaultArchive, cfg.GetString(ConfigArchive))
}

func TestSetOverrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Set(ConfigWorkers, 2)
	assert.Equal(t, 2, cfg.GetInt(ConfigWorkers))
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("DOORHACK_WORKERS", "7")
	cfg := DefaultConfig()
	require.NoError(t, cfg.Load(nil))
	assert.Equal(t, 7, cfg.GetInt(ConfigWorkers))
}

func TestAllSettings(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Load(nil))
	settings := cfg.AllSettings()
	assert.Contains(t, settings, ConfigWorkers)
	assert.Contains(t, settings, ConfigArchive)
}
