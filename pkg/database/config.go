package database

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config locates the PostgreSQL database holding reference ingredients,
// prompts and analyses. URL, when set, takes precedence over the discrete
// connection fields.
type Config struct {
	URL             string `toml:"url"`
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	Name            string `toml:"name"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	SSLMode         string `toml:"ssl_mode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime string `toml:"conn_max_lifetime"`
	ConnTimeout     string `toml:"conn_timeout"`
}

// Env names the environment variables overriding Config fields.
type Env struct {
	URL             string
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    string
	MaxIdleConns    string
	ConnMaxLifetime string
	ConnTimeout     string
}

func (c *Config) ConnMaxLifetimeDuration() time.Duration {
	d, _ := time.ParseDuration(c.ConnMaxLifetime)
	return d
}

func (c *Config) ConnTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ConnTimeout)
	return d
}

// ConnString renders the config as a postgres:// URL.
func (c *Config) ConnString() string {
	if c.URL != "" {
		return c.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	if c.Password == "" {
		u.User = url.User(c.User)
	}
	return u.String()
}

// Finalize fills defaults, applies env overrides and validates.
func (c *Config) Finalize(env *Env) error {
	setDefault(&c.Host, "localhost")
	setDefault(&c.SSLMode, "disable")
	setDefault(&c.ConnMaxLifetime, "15m")
	setDefault(&c.ConnTimeout, "5s")
	if c.Port == 0 {
		c.Port = 5432
	}
	if c.MaxOpenConns == 0 {
		c.MaxOpenConns = 25
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = 5
	}

	if env != nil {
		for key, dst := range map[string]*string{
			env.URL:             &c.URL,
			env.Host:            &c.Host,
			env.Name:            &c.Name,
			env.User:            &c.User,
			env.Password:        &c.Password,
			env.SSLMode:         &c.SSLMode,
			env.ConnMaxLifetime: &c.ConnMaxLifetime,
			env.ConnTimeout:     &c.ConnTimeout,
		} {
			if v := getenv(key); v != "" {
				*dst = v
			}
		}
		for key, dst := range map[string]*int{
			env.Port:         &c.Port,
			env.MaxOpenConns: &c.MaxOpenConns,
			env.MaxIdleConns: &c.MaxIdleConns,
		} {
			if n, err := strconv.Atoi(getenv(key)); err == nil {
				*dst = n
			}
		}
	}

	return c.validate()
}

// Merge copies every non-zero overlay field onto c.
func (c *Config) Merge(o *Config) {
	mergeString(&c.URL, o.URL)
	mergeString(&c.Host, o.Host)
	mergeString(&c.Name, o.Name)
	mergeString(&c.User, o.User)
	mergeString(&c.Password, o.Password)
	mergeString(&c.SSLMode, o.SSLMode)
	mergeString(&c.ConnMaxLifetime, o.ConnMaxLifetime)
	mergeString(&c.ConnTimeout, o.ConnTimeout)
	if o.Port != 0 {
		c.Port = o.Port
	}
	if o.MaxOpenConns != 0 {
		c.MaxOpenConns = o.MaxOpenConns
	}
	if o.MaxIdleConns != 0 {
		c.MaxIdleConns = o.MaxIdleConns
	}
}

func (c *Config) validate() error {
	if c.URL == "" && (c.Name == "" || c.User == "") {
		return errors.New("url or both name and user required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return fmt.Errorf("max_idle_conns (%d) exceeds max_open_conns (%d)", c.MaxIdleConns, c.MaxOpenConns)
	}
	for field, v := range map[string]string{"conn_max_lifetime": c.ConnMaxLifetime, "conn_timeout": c.ConnTimeout} {
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("invalid %s: %w", field, err)
		}
	}
	return nil
}

func getenv(key string) string {
	if key == "" {
		return ""
	}
	return os.Getenv(key)
}

func setDefault(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
