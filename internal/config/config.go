// Package config loads runtime settings from an optional YAML file, a
// local .env file, and the process environment, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultHTTPTimeout  = 30 * time.Second
	defaultTypeInterval = 15 * time.Millisecond
	defaultPaceDelay    = 300 * time.Millisecond
	defaultLogLevel     = "info"
)

type Config struct {
	EndpointURL  string        `yaml:"endpoint_url"`
	CacheDir     string        `yaml:"cache_dir"`
	HTTPTimeout  time.Duration `yaml:"http_timeout"`
	TypeInterval time.Duration `yaml:"type_interval"`
	PaceDelay    time.Duration `yaml:"pace_delay"`
	LogPath      string        `yaml:"log_path"`
	LogLevel     string        `yaml:"log_level"`
}

// Load builds the configuration. yamlPath may be empty; a missing file
// at a non-empty path is an error, a missing .env is not.
func Load(yamlPath string) (Config, error) {
	cfg := defaults()

	if yamlPath != "" {
		raw, err := os.ReadFile(yamlPath)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", yamlPath, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", yamlPath, err)
		}
	}

	// .env fills the environment without overriding what is already set.
	_ = godotenv.Load()

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func defaults() Config {
	return Config{
		CacheDir:     defaultCacheDir(),
		HTTPTimeout:  defaultHTTPTimeout,
		TypeInterval: defaultTypeInterval,
		PaceDelay:    defaultPaceDelay,
		LogPath:      defaultLogPath(),
		LogLevel:     defaultLogLevel,
	}
}

func defaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return ".righthome"
	}
	return filepath.Join(base, "righthome")
}

func defaultLogPath() string {
	return filepath.Join(defaultCacheDir(), "righthome.log")
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("RIGHTHOME_ENDPOINT"); v != "" {
		cfg.EndpointURL = v
	}
	if v := os.Getenv("RIGHTHOME_CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
	if v := os.Getenv("RIGHTHOME_LOG_PATH"); v != "" {
		cfg.LogPath = v
	}
	if v := os.Getenv("RIGHTHOME_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	for _, d := range []struct {
		name string
		dst  *time.Duration
	}{
		{"RIGHTHOME_HTTP_TIMEOUT", &cfg.HTTPTimeout},
		{"RIGHTHOME_TYPE_INTERVAL", &cfg.TypeInterval},
		{"RIGHTHOME_PACE_DELAY", &cfg.PaceDelay},
	} {
		v := os.Getenv(d.name)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: parse %s: %w", d.name, err)
		}
		*d.dst = parsed
	}
	return nil
}

// Validate checks the settings a live conversation needs. Commands that
// only touch the local cache skip it.
func (c Config) Validate() error {
	if c.EndpointURL == "" {
		return errors.New("config: endpoint URL must be set (RIGHTHOME_ENDPOINT)")
	}
	u, err := url.Parse(c.EndpointURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: endpoint URL %q is not absolute", c.EndpointURL)
	}
	if c.CacheDir == "" {
		return errors.New("config: cache dir must not be empty")
	}
	return nil
}
