package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		path := writeConfig(t, `
logger:
  verbosity: debug
device:
  ordinal: 1
gemm:
  m: 64
  n: 32
  k: 16
  alpha: 2.5
  beta: 0.5
  precision: single
  batch: 4
metrics:
  listenAddress: ":9191"
`)
		config, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, "debug", config.Logger.Verbosity)
		assert.Equal(t, int32(1), config.Device.Ordinal)
		assert.Equal(t, 64, config.Gemm.M)
		assert.Equal(t, 32, config.Gemm.N)
		assert.Equal(t, 16, config.Gemm.K)
		assert.Equal(t, 2.5, config.Gemm.Alpha)
		assert.Equal(t, 0.5, config.Gemm.Beta)
		assert.Equal(t, "single", config.Gemm.Precision)
		assert.Equal(t, 4, config.Gemm.Batch)
		assert.Equal(t, ":9191", config.Metrics.ListenAddress)
	})

	t.Run("partial config keeps defaults", func(t *testing.T) {
		path := writeConfig(t, "device:\n  ordinal: 1\n")
		config, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, int32(1), config.Device.Ordinal)
		assert.Equal(t, "info", config.Logger.Verbosity)
		assert.Equal(t, 256, config.Gemm.M)
		assert.Equal(t, "double", config.Gemm.Precision)
		assert.Equal(t, ":9090", config.Metrics.ListenAddress)
	})

	t.Run("empty path returns defaults", func(t *testing.T) {
		config, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), config)
	})

	t.Run("non-existent file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "gemm: ["))
		assert.Error(t, err)
	})

	t.Run("rejects negative dimensions", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "gemm:\n  m: -1\n"))
		assert.Error(t, err)
	})

	t.Run("rejects unknown precision", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "gemm:\n  precision: quad\n"))
		assert.Error(t, err)
	})

	t.Run("rejects zero batch", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "gemm:\n  batch: 0\n"))
		assert.Error(t, err)
	})
}
