package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults for configuration values that are not set anywhere.
const (
	DefaultAPIURL       = "http://localhost:8000"
	DefaultMaxUploadMB  = 500
	DefaultHTTPTimeout  = 120 * time.Second
	DefaultConfigName   = ".vedit.yaml"
	DefaultStateDirName = ".vedit"
	DefaultDatabaseName = "session.db"
)

// Config holds client configuration. Values come from the YAML config
// file, overridden by environment variables. The API base URL is never
// hard-coded into the client.
type Config struct {
	APIURL         string `yaml:"api_url"`
	MaxUploadMB    int64  `yaml:"max_upload_mb"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	StateDir       string `yaml:"state_dir"`
	DownloadDir    string `yaml:"download_dir"`
}

// LoadConfig reads the config file at path (or ~/.vedit.yaml when path
// is empty), loads a .env file if one is present, and applies
// environment overrides. A missing config file is not an error.
func LoadConfig(path string) (*Config, error) {
	// .env is a development convenience; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		APIURL:         DefaultAPIURL,
		MaxUploadMB:    DefaultMaxUploadMB,
		TimeoutSeconds: int(DefaultHTTPTimeout / time.Second),
	}

	if path == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, DefaultConfigName)
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if cfg.StateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		cfg.StateDir = filepath.Join(home, DefaultStateDirName)
	}
	if cfg.DownloadDir == "" {
		cfg.DownloadDir = "."
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("VEDIT_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("VEDIT_MAX_UPLOAD_MB"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.MaxUploadMB = n
		}
	}
	if v := os.Getenv("VEDIT_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("VEDIT_STATE_DIR"); v != "" {
		cfg.StateDir = v
	}
	if v := os.Getenv("VEDIT_DOWNLOAD_DIR"); v != "" {
		cfg.DownloadDir = v
	}
}

// MaxUploadBytes returns the upload size ceiling in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB * 1024 * 1024
}

// Timeout returns the HTTP timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DatabasePath returns the path of the local session store database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.StateDir, DefaultDatabaseName)
}

// Save writes the config back to path in YAML form.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
