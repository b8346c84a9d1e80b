package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "x", cfg.Engine.Variable)
	assert.Equal(t, []string{"direct", "infinity", "algebraic", "lhopital", "numeric", "taylor"}, cfg.Engine.Strategies)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, ":8080", cfg.Server.Addr())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Output.Format)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LIMITCALC_ENGINE_VARIABLE", "t")
	t.Setenv("LIMITCALC_ENGINE_STRATEGIES", "direct,numeric")
	t.Setenv("LIMITCALC_SERVER_PORT", "9090")
	t.Setenv("LIMITCALC_LOG_LEVEL", "debug")
	t.Setenv("LIMITCALC_SERVER_WRITE_TIMEOUT", "5s")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "t", cfg.Engine.Variable)
	assert.Equal(t, []string{"direct", "numeric"}, cfg.Engine.Strategies)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 5*time.Second, cfg.Server.WriteTimeout)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limitcalc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
engine:
  variable: theta
server:
  host: 127.0.0.1
  port: 7000
output:
  format: yaml
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "theta", cfg.Engine.Variable)
	assert.Equal(t, "127.0.0.1:7000", cfg.Server.Addr())
	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limitcalc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 7000\n"), 0o600))
	t.Setenv("LIMITCALC_SERVER_PORT", "7001")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7001, cfg.Server.Port)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"LIMITCALC_SERVER_PORT":       "70000",
		"LIMITCALC_LOG_LEVEL":         "loud",
		"LIMITCALC_ENGINE_STRATEGIES": "direct,guess",
		"LIMITCALC_ENGINE_VARIABLE":   "x-y",
		"LIMITCALC_LOG_FORMAT":        "xml",
		"LIMITCALC_OUTPUT_FORMAT":     "xml",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			_, err := Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "validation failed")
		})
	}
}

func TestLoad_Variable(t *testing.T) {
	t.Setenv("LIMITCALC_ENGINE_VARIABLE", "y_1")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "y_1", cfg.Engine.Variable)

	for _, name := range []string{"sin", "1y", "_y"} {
		t.Run(name, func(t *testing.T) {
			t.Setenv("LIMITCALC_ENGINE_VARIABLE", name)
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
