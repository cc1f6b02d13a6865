package config

import (
	"fmt"

	"github.com/halalcheck/halalcheck/pkg/formatting"
	"github.com/halalcheck/halalcheck/pkg/middleware"
	"github.com/halalcheck/halalcheck/pkg/openapi"
	"github.com/halalcheck/halalcheck/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "HALALCHECK_CORS_ENABLED",
	Origins:          "HALALCHECK_CORS_ORIGINS",
	AllowedMethods:   "HALALCHECK_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "HALALCHECK_CORS_ALLOWED_HEADERS",
	AllowCredentials: "HALALCHECK_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "HALALCHECK_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "HALALCHECK_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "HALALCHECK_PAGINATION_MAX_PAGE_SIZE",
}

var openAPIEnv = &openapi.ConfigEnv{
	Title:       "HALALCHECK_OPENAPI_TITLE",
	Description: "HALALCHECK_OPENAPI_DESCRIPTION",
}

// APIConfig holds API routing, CORS, pagination, and OpenAPI settings.
type APIConfig struct {
	BasePath    string                `toml:"base_path"`
	MaxBodySize string                `toml:"max_body_size"`
	CORS        middleware.CORSConfig `toml:"cors"`
	Pagination  pagination.Config     `toml:"pagination"`
	OpenAPI     openapi.Config        `toml:"openapi"`
}

// MaxBodySizeBytes returns the request body limit in bytes.
func (c *APIConfig) MaxBodySizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxBodySize)
	if err != nil {
		return 1024 * 1024
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openAPIEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	mergeString(&c.BasePath, overlay.BasePath)
	mergeString(&c.MaxBodySize, overlay.MaxBodySize)

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "1MB"
	}
}

func (c *APIConfig) loadEnv() {
	envString("HALALCHECK_API_BASE_PATH", &c.BasePath)
	envString("HALALCHECK_API_MAX_BODY_SIZE", &c.MaxBodySize)
}
