package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	require.Equal(t, 15*time.Millisecond, cfg.TypeInterval)
	require.Equal(t, 300*time.Millisecond, cfg.PaceDelay)
	require.Equal(t, "info", cfg.LogLevel)
	require.NotEmpty(t, cfg.CacheDir)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"endpoint_url: https://api.example.com/chat\ntype_interval: 5ms\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://api.example.com/chat", cfg.EndpointURL)
	require.Equal(t, 5*time.Millisecond, cfg.TypeInterval)
	require.Equal(t, 300*time.Millisecond, cfg.PaceDelay)
}

func TestLoad_MissingYAMLFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("endpoint_url: https://file.example.com\n"), 0o600))
	t.Setenv("RIGHTHOME_ENDPOINT", "https://env.example.com")
	t.Setenv("RIGHTHOME_PACE_DELAY", "100ms")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://env.example.com", cfg.EndpointURL)
	require.Equal(t, 100*time.Millisecond, cfg.PaceDelay)
}

func TestLoad_BadDurationFails(t *testing.T) {
	t.Setenv("RIGHTHOME_TYPE_INTERVAL", "fast")
	_, err := Load("")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Config{EndpointURL: "https://api.example.com/chat", CacheDir: "/tmp/cache"}
	require.NoError(t, cfg.Validate())

	cfg.EndpointURL = ""
	require.Error(t, cfg.Validate())

	cfg.EndpointURL = "not-a-url"
	require.Error(t, cfg.Validate())

	cfg = Config{EndpointURL: "https://api.example.com", CacheDir: ""}
	require.Error(t, cfg.Validate())
}
