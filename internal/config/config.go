// Package config loads HalalCheck settings from config.toml, an optional
// config.<env>.toml overlay, and HALALCHECK_* environment variables.
package config

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/halalcheck/halalcheck/pkg/database"
	"github.com/halalcheck/halalcheck/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"
)

// DatabaseEnv is shared with cmd/migrate so both resolve the same database.
var DatabaseEnv = &database.Env{
	URL:             "HALALCHECK_DB_URL",
	Host:            "HALALCHECK_DB_HOST",
	Port:            "HALALCHECK_DB_PORT",
	Name:            "HALALCHECK_DB_NAME",
	User:            "HALALCHECK_DB_USER",
	Password:        "HALALCHECK_DB_PASSWORD",
	SSLMode:         "HALALCHECK_DB_SSL_MODE",
	MaxOpenConns:    "HALALCHECK_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "HALALCHECK_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "HALALCHECK_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "HALALCHECK_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "HALALCHECK_STORAGE_CONTAINER_NAME",
	ConnectionString: "HALALCHECK_STORAGE_CONNECTION_STRING",
}

type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	API             APIConfig       `toml:"api"`
	Agent           AgentConfig     `toml:"agent"`
	Analysis        AnalysisConfig  `toml:"analysis"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env names the deployment environment. It selects the overlay file.
func (c *Config) Env() string {
	return cmp.Or(os.Getenv("HALALCHECK_ENV"), "local")
}

func (c *Config) ShutdownTimeoutDuration() time.Duration {
	return duration(c.ShutdownTimeout)
}

// Load builds the configuration. Both files are optional; without them
// defaults and the environment supply every value.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := decodeFile(BaseConfigFile, cfg); err != nil {
		return nil, err
	}

	if env := os.Getenv("HALALCHECK_ENV"); env != "" {
		var overlay Config
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if err := decodeFile(path, &overlay); err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(&overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}
	return cfg, nil
}

// decodeFile unmarshals path into cfg. A missing file is not an error.
func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case err != nil:
		return fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// Merge copies every non-zero field of overlay onto c.
func (c *Config) Merge(overlay *Config) {
	mergeString(&c.ShutdownTimeout, overlay.ShutdownTimeout)
	mergeString(&c.Version, overlay.Version)
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Agent.Merge(&overlay.Agent)
	c.Analysis.Merge(&overlay.Analysis)
}

func (c *Config) finalize() error {
	c.ShutdownTimeout = cmp.Or(c.ShutdownTimeout, "30s")
	c.Version = cmp.Or(c.Version, "0.1.0")
	envString("HALALCHECK_SHUTDOWN_TIMEOUT", &c.ShutdownTimeout)
	envString("HALALCHECK_VERSION", &c.Version)

	if err := checkDuration("shutdown_timeout", c.ShutdownTimeout); err != nil {
		return err
	}

	sections := []struct {
		name     string
		finalize func() error
	}{
		{"server", c.Server.Finalize},
		{"database", func() error { return c.Database.Finalize(DatabaseEnv) }},
		{"storage", func() error { return c.Storage.Finalize(storageEnv) }},
		{"api", c.API.Finalize},
		{"agent", c.Agent.Finalize},
		{"analysis", c.Analysis.Finalize},
	}
	for _, s := range sections {
		if err := s.finalize(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}
