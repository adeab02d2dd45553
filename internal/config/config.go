package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hrdash/internal/session"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the client configuration. Everything that varies per deployment
// (the two service base URLs above all) lives here; behavior does not.
type Config struct {
	API    APIConfig    `yaml:"api"`
	Logger LoggerConfig `yaml:"logger"`
}

type APIConfig struct {
	// BaseURL is the auth/CRUD service (login, list_data, filter,
	// update_profile, presigned_url).
	BaseURL string `yaml:"base_url"`
	// ParseURL is the parse service (POST /parse).
	ParseURL string `yaml:"parse_url"`
	// TimeoutSeconds applies to every request except raw byte uploads,
	// which get UploadTimeoutSeconds (large files over slow links).
	TimeoutSeconds       int `yaml:"timeout_seconds"`
	UploadTimeoutSeconds int `yaml:"upload_timeout_seconds"`
}

type LoggerConfig struct {
	Level      string `yaml:"level"`       // debug, info, warn, error
	Format     string `yaml:"format"`      // json, pretty
	TimeFormat string `yaml:"time_format"` // zerolog time field format
	// File receives TUI logs so log lines never corrupt the alternate
	// screen. Empty means discard while the TUI runs.
	File string `yaml:"file"`
}

func (a APIConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

func (a APIConfig) UploadTimeout() time.Duration {
	if a.UploadTimeoutSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(a.UploadTimeoutSeconds) * time.Second
}

// Load reads the config file and applies env overrides.
//
// Resolution order for the file path: the explicit argument, $HRDASH_CONFIG,
// then <config dir>/config.yaml. A missing file is not an error (env vars or
// defaults may be enough); an unreadable or malformed file is.
func Load(path string) (*Config, error) {
	// Best-effort .env so local setups can keep URLs out of shell rc files.
	_ = godotenv.Load()

	if path == "" {
		path = strings.TrimSpace(os.Getenv("HRDASH_CONFIG"))
	}
	if path == "" {
		dir, err := session.ConfigDir()
		if err == nil {
			path = filepath.Join(dir, "config.yaml")
		}
	}

	cfg := &Config{}
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
			// Fall through to env/defaults.
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("HRDASH_API_URL")); v != "" {
		cfg.API.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("HRDASH_PARSE_URL")); v != "" {
		cfg.API.ParseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("HRDASH_LOG_LEVEL")); v != "" {
		cfg.Logger.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("HRDASH_LOG_FORMAT")); v != "" {
		cfg.Logger.Format = v
	}
	if v := strings.TrimSpace(os.Getenv("HRDASH_LOG_FILE")); v != "" {
		cfg.Logger.File = v
	}
}

func applyDefaults(cfg *Config) {
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")
	cfg.API.ParseURL = strings.TrimRight(strings.TrimSpace(cfg.API.ParseURL), "/")
	if cfg.Logger.Level == "" {
		cfg.Logger.Level = "info"
	}
	if cfg.Logger.Format == "" {
		cfg.Logger.Format = "pretty"
	}
}

// Validate checks the fields remote operations cannot work without.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url is not configured (set it in config.yaml or HRDASH_API_URL)")
	}
	if c.API.ParseURL == "" {
		return errors.New("api.parse_url is not configured (set it in config.yaml or HRDASH_PARSE_URL)")
	}
	return nil
}
