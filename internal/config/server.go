package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	ReadTimeout     string `toml:"read_timeout"`
	WriteTimeout    string `toml:"write_timeout"`
	ShutdownTimeout string `toml:"shutdown_timeout"`
}

func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *ServerConfig) ReadTimeoutDuration() time.Duration     { return duration(c.ReadTimeout) }
func (c *ServerConfig) WriteTimeoutDuration() time.Duration    { return duration(c.WriteTimeout) }
func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration { return duration(c.ShutdownTimeout) }

// Finalize fills defaults, applies HALALCHECK_SERVER_* overrides, and
// validates the result.
func (c *ServerConfig) Finalize() error {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.ReadTimeout == "" {
		c.ReadTimeout = "30s"
	}
	// Analyses of long ingredient lists hold the connection for the whole
	// classifier loop.
	if c.WriteTimeout == "" {
		c.WriteTimeout = "5m"
	}
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}

	envString("HALALCHECK_SERVER_HOST", &c.Host)
	envInt("HALALCHECK_SERVER_PORT", &c.Port)
	envString("HALALCHECK_SERVER_READ_TIMEOUT", &c.ReadTimeout)
	envString("HALALCHECK_SERVER_WRITE_TIMEOUT", &c.WriteTimeout)
	envString("HALALCHECK_SERVER_SHUTDOWN_TIMEOUT", &c.ShutdownTimeout)

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	return errors.Join(
		checkDuration("read_timeout", c.ReadTimeout),
		checkDuration("write_timeout", c.WriteTimeout),
		checkDuration("shutdown_timeout", c.ShutdownTimeout),
	)
}

func (c *ServerConfig) Merge(overlay *ServerConfig) {
	mergeString(&c.Host, overlay.Host)
	mergeNumber(&c.Port, overlay.Port)
	mergeString(&c.ReadTimeout, overlay.ReadTimeout)
	mergeString(&c.WriteTimeout, overlay.WriteTimeout)
	mergeString(&c.ShutdownTimeout, overlay.ShutdownTimeout)
}
