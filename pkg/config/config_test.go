package config

import (
	"testing"

	"github.com/caarlos0/env/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Port      int      `env:"TEST_CFG_PORT" envDefault:"8080"`
	UploadDir string   `env:"TEST_CFG_UPLOAD_DIR" envDefault:"./public"`
	Brokers   []string `env:"TEST_CFG_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	Enabled   bool     `env:"TEST_CFG_ENABLED" envDefault:"false"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	err := Load(&cfg)

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "./public", cfg.UploadDir)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Brokers)
	assert.False(t, cfg.Enabled)
}

func TestLoad_FromEnvVars(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "9090")
	t.Setenv("TEST_CFG_BROKERS", "a:1,b:2")
	t.Setenv("TEST_CFG_ENABLED", "true")

	var cfg testConfig
	err := Load(&cfg)

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, []string{"a:1", "b:2"}, cfg.Brokers)
	assert.True(t, cfg.Enabled)
}

func TestLoad_WithOptionsEnvironment(t *testing.T) {
	var cfg testConfig
	err := Load(&cfg, env.Options{Environment: map[string]string{"TEST_CFG_PORT": "7000"}})

	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "not-a-number")

	var cfg testConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}
