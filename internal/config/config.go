package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	API struct {
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"api"`
	Credentials struct {
		// Path of the YAML credentials file. Ignored when Redis is configured.
		Path    string `yaml:"path"`
		Profile string `yaml:"profile"`
	} `yaml:"credentials"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Questions struct {
		CacheTTL string `yaml:"cache_ttl"`
	} `yaml:"questions"`
}

// Default is the configuration used when no file exists.
func Default() Config {
	cfg := Config{}
	cfg.API.BaseURL = "http://localhost:5000/api"
	cfg.API.Timeout = "15s"
	cfg.Credentials.Path = defaultCredentialsPath()
	cfg.Credentials.Profile = "default"
	return cfg
}

// Load reads YAML config from path over the defaults. A missing file is not an
// error; the CLI must work before anyone writes a config.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

func defaultCredentialsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".assessctl-credentials.yaml"
	}
	return filepath.Join(dir, "assessctl", "credentials.yaml")
}
