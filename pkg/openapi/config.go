package openapi

import "os"

// Config is the document metadata shown to API consumers.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
}

type ConfigEnv struct {
	Title       string
	Description string
}

func (c *Config) Finalize(env *ConfigEnv) error {
	if c.Title == "" {
		c.Title = "HalalCheck API"
	}
	if c.Description == "" {
		c.Description = "Halal compliance assessment of food product ingredient lists."
	}
	if env != nil {
		override(env.Title, &c.Title)
		override(env.Description, &c.Description)
	}
	return nil
}

func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
}

func override(key string, dst *string) {
	if key == "" {
		return
	}
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
