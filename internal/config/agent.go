package config

import (
	"errors"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// AgentConfig describes the text-generation backend used by the parse and
// classify stages. Unset fields fall back to go-agents defaults.
type AgentConfig struct {
	Name       string `toml:"name"`
	Provider   string `toml:"provider"`
	BaseURL    string `toml:"base_url"`
	Model      string `toml:"model"`
	Token      string `toml:"token"`
	Deployment string `toml:"deployment"`
	APIVersion string `toml:"api_version"`
	AuthType   string `toml:"auth_type"`
}

// Finalize applies go-agents defaults, environment variable overrides, and validation.
func (c *AgentConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *AgentConfig) Merge(overlay *AgentConfig) {
	mergeString(&c.Name, overlay.Name)
	mergeString(&c.Provider, overlay.Provider)
	mergeString(&c.BaseURL, overlay.BaseURL)
	mergeString(&c.Model, overlay.Model)
	mergeString(&c.Token, overlay.Token)
	mergeString(&c.Deployment, overlay.Deployment)
	mergeString(&c.APIVersion, overlay.APIVersion)
	mergeString(&c.AuthType, overlay.AuthType)
}

// AgentConfig converts the finalized settings into a go-agents configuration.
func (c *AgentConfig) AgentConfig() gaconfig.AgentConfig {
	cfg := gaconfig.DefaultAgentConfig()
	cfg.Name = c.Name

	if cfg.Provider == nil {
		cfg.Provider = &gaconfig.ProviderConfig{}
	}
	cfg.Provider.Name = c.Provider
	cfg.Provider.BaseURL = c.BaseURL

	options := make(map[string]any)
	setOption := func(key, value string) {
		if value != "" {
			options[key] = value
		}
	}
	setOption("token", c.Token)
	setOption("deployment", c.Deployment)
	setOption("api_version", c.APIVersion)
	setOption("auth_type", c.AuthType)
	cfg.Provider.Options = options

	if cfg.Model == nil {
		cfg.Model = &gaconfig.ModelConfig{}
	}
	cfg.Model.Name = c.Model

	return cfg
}

func (c *AgentConfig) loadDefaults() {
	defaults := gaconfig.DefaultAgentConfig()

	if c.Name == "" {
		c.Name = defaults.Name
	}
	if defaults.Provider != nil {
		if c.Provider == "" {
			c.Provider = defaults.Provider.Name
		}
		if c.BaseURL == "" {
			c.BaseURL = defaults.Provider.BaseURL
		}
	}
	if defaults.Model != nil && c.Model == "" {
		c.Model = defaults.Model.Name
	}
	if c.Name == "" {
		c.Name = "halalcheck"
	}
	if c.Provider == "" {
		c.Provider = "ollama"
	}
	if c.Model == "" {
		c.Model = "llama3.1:8b"
	}
}

func (c *AgentConfig) loadEnv() {
	envString("HALALCHECK_AGENT_NAME", &c.Name)
	envString("HALALCHECK_AGENT_PROVIDER_NAME", &c.Provider)
	envString("HALALCHECK_AGENT_BASE_URL", &c.BaseURL)
	envString("HALALCHECK_AGENT_MODEL_NAME", &c.Model)
	envString("HALALCHECK_AGENT_TOKEN", &c.Token)
	envString("HALALCHECK_AGENT_DEPLOYMENT", &c.Deployment)
	envString("HALALCHECK_AGENT_API_VERSION", &c.APIVersion)
	envString("HALALCHECK_AGENT_AUTH_TYPE", &c.AuthType)
}

func (c *AgentConfig) validate() error {
	if c.Name == "" {
		return errors.New("name required")
	}
	if c.Provider == "" {
		return errors.New("provider required")
	}
	if c.Model == "" {
		return errors.New("model required")
	}
	return nil
}
