// Package config loads studentdesk settings from the environment and an
// optional YAML file.
//
// Sources, lowest to highest priority: env-default tags, a .env file in the
// working directory, the YAML file named by -config or CONFIG_PATH, and the
// process environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// PathEnv names the YAML config file when -config is not given.
const PathEnv = "CONFIG_PATH"

// Config is the root configuration.
type Config struct {
	API    APIConfig    `yaml:"api"`
	Log    LogConfig    `yaml:"log"`
	UI     UIConfig     `yaml:"ui"`
	Photo  PhotoConfig  `yaml:"photo"`
	Export ExportConfig `yaml:"export"`
	OTel   OTelConfig   `yaml:"otel"`
}

// APIConfig locates the student REST backend.
type APIConfig struct {
	BaseURL  string        `yaml:"base_url" env:"STUDENTDESK_API_URL" env-default:"http://localhost:8080"`
	BasePath string        `yaml:"base_path" env:"STUDENTDESK_API_PATH" env-default:"/api/students"`
	Timeout  time.Duration `yaml:"timeout" env:"STUDENTDESK_HTTP_TIMEOUT" env-default:"10s"`
}

// LogConfig controls the zap logger. The TUI owns stdout, so logs go to File.
type LogConfig struct {
	File   string `yaml:"file" env:"STUDENTDESK_LOG_FILE" env-default:"studentdesk.log"`
	Level  string `yaml:"level" env:"STUDENTDESK_LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"STUDENTDESK_LOG_FORMAT" env-default:"json"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	// DateLayout is a Go time layout used for birth dates in the table.
	DateLayout string `yaml:"date_layout" env:"STUDENTDESK_DATE_LAYOUT" env-default:"02/01/2006"`
}

// PhotoConfig bounds photo uploads.
type PhotoConfig struct {
	MaxBytes int64 `yaml:"max_bytes" env:"STUDENTDESK_PHOTO_MAX_BYTES" env-default:"5242880"`
}

// ExportConfig sets where CSV/PDF exports are written. Empty means
// ~/.studentdesk/exports.
type ExportConfig struct {
	Dir string `yaml:"dir" env:"STUDENTDESK_EXPORT_DIR"`
}

// OTelConfig enables OTLP trace export when Endpoint is set.
type OTelConfig struct {
	Endpoint    string `yaml:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName string `yaml:"service_name" env:"OTEL_SERVICE_NAME" env-default:"studentdesk"`
}

// Load reads configuration. path may be empty, in which case CONFIG_PATH is
// consulted and, failing that, only the environment is read.
func Load(path string) (*Config, error) {
	// A missing .env is normal.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if path == "" {
		path = os.Getenv(PathEnv)
	}

	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %q: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values cleanenv cannot.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api base url %q: must be an absolute http(s) URL", c.API.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api base url %q: unsupported scheme %q", c.API.BaseURL, u.Scheme)
	}
	if !strings.HasPrefix(c.API.BasePath, "/") {
		return fmt.Errorf("api base path %q: must start with /", c.API.BasePath)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api timeout must be positive, got %s", c.API.Timeout)
	}
	if c.Photo.MaxBytes <= 0 {
		return fmt.Errorf("photo max bytes must be positive, got %d", c.Photo.MaxBytes)
	}
	return nil
}

// StudentsURL joins the base URL and base path.
func (c *Config) StudentsURL() string {
	return strings.TrimRight(c.API.BaseURL, "/") + "/" + strings.Trim(c.API.BasePath, "/")
}
