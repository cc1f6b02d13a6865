package storage

import (
	"errors"
	"os"
)

// Config locates the report container.
type Config struct {
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
}

// Env names the variables that override Config. Empty names are skipped.
type Env struct {
	ContainerName    string
	ConnectionString string
}

// Finalize defaults the container to "reports", applies env and requires a
// connection string.
func (c *Config) Finalize(env *Env) error {
	if c.ContainerName == "" {
		c.ContainerName = "reports"
	}
	if env != nil {
		override(&c.ContainerName, env.ContainerName)
		override(&c.ConnectionString, env.ConnectionString)
	}

	if c.ConnectionString == "" {
		return errors.New("connection_string required")
	}
	return nil
}

func (c *Config) Merge(overlay *Config) {
	if overlay.ContainerName != "" {
		c.ContainerName = overlay.ContainerName
	}
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
}

func override(dst *string, key string) {
	if key == "" {
		return
	}
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
