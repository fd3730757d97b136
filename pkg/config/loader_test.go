package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/stockalert/pkg/config"
)

type monitorConfig struct {
	Interval time.Duration `env:"CHECK_INTERVAL" envDefault:"15m"`
	Source   string        `env:"INVENTORY_SOURCE" envDefault:"http"`
	Enabled  bool          `env:"MONITOR_ENABLED" envDefault:"true"`
}

type requiredConfig struct {
	BackendURL string `env:"BACKEND_URL,required"`
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	var cfg monitorConfig
	err := config.Load(&cfg, config.WithEnvironment(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.Interval)
	assert.Equal(t, "http", cfg.Source)
	assert.True(t, cfg.Enabled)
}

func TestLoad_Prefix(t *testing.T) {
	t.Parallel()

	var cfg monitorConfig
	err := config.Load(&cfg,
		config.WithPrefix("STOCKALERT_"),
		config.WithEnvironment(map[string]string{
			"STOCKALERT_CHECK_INTERVAL":   "5m",
			"STOCKALERT_INVENTORY_SOURCE": "postgres",
			"CHECK_INTERVAL":              "1h",
		}),
	)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, cfg.Interval)
	assert.Equal(t, "postgres", cfg.Source)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Parallel()

	var cfg requiredConfig
	err := config.Load(&cfg, config.WithEnvironment(map[string]string{}))
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrParsingConfig)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Parallel()

	var cfg monitorConfig
	err := config.Load(&cfg, config.WithEnvironment(map[string]string{
		"CHECK_INTERVAL": "soon",
	}))
	assert.ErrorIs(t, err, config.ErrParsingConfig)
}

func TestLoad_NilPointer(t *testing.T) {
	t.Parallel()

	var cfg *monitorConfig
	assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
}

func TestLoad_MissingEnvFile(t *testing.T) {
	t.Parallel()

	var cfg monitorConfig
	err := config.Load(&cfg, config.WithEnvFiles(filepath.Join(t.TempDir(), "missing.env")))
	assert.ErrorIs(t, err, config.ErrEnvFile)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("STOCKALERT_TEST_BACKEND_URL=http://backend.local\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("STOCKALERT_TEST_BACKEND_URL") })

	var cfg requiredConfig
	err := config.Load(&cfg, config.WithPrefix("STOCKALERT_TEST_"), config.WithEnvFiles(path))
	require.NoError(t, err)
	assert.Equal(t, "http://backend.local", cfg.BackendURL)
}

func TestMustLoad_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		var cfg requiredConfig
		config.MustLoad(&cfg, config.WithEnvironment(map[string]string{}))
	})
}
