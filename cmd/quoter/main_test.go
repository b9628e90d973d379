package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig("quoter_config.toml")
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, cfg.LogLevel)
	assert.Equal(t, ":8090", cfg.ListenAddress)

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorContains(t, err, "failed to open config")

	unknown := filepath.Join(t.TempDir(), "unknown.toml")
	require.NoError(t, os.WriteFile(unknown, []byte("not_a_field = 1\n"), 0o600))
	_, err = loadConfig(unknown)
	require.Error(t, err)

	invalid := filepath.Join(t.TempDir(), "invalid.toml")
	require.NoError(t, os.WriteFile(invalid, []byte("payee_address = \"0x01\"\n"), 0o600))
	_, err = loadConfig(invalid)
	require.ErrorContains(t, err, "invalid config")
}

func TestRunQuoter_RequiresKey(t *testing.T) {
	t.Setenv(privateKeyEnvVar, "")
	require.ErrorContains(t, runQuoter("quoter_config.toml"), privateKeyEnvVar)
}
