package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents/pkg/agent"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// GenerateOptions are the sampling parameters for one text-generation call.
type GenerateOptions struct {
	Temperature float64
	MaxTokens   int
	JSON        bool
}

func (o GenerateOptions) toMap() map[string]any {
	opts := map[string]any{
		"temperature": o.Temperature,
	}
	if o.MaxTokens > 0 {
		opts["max_tokens"] = o.MaxTokens
	}
	if o.JSON {
		opts["response_format"] = map[string]any{"type": "json_object"}
	}
	return opts
}

// Generator produces free-form text from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

type agentGenerator struct {
	cfg gaconfig.AgentConfig
}

// NewAgentGenerator returns a Generator backed by a go-agents chat agent.
func NewAgentGenerator(cfg gaconfig.AgentConfig) Generator {
	return &agentGenerator{cfg: cfg}
}

func (g *agentGenerator) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	a, err := agent.New(&g.cfg)
	if err != nil {
		return "", fmt.Errorf("create agent: %w", err)
	}

	resp, err := a.Chat(ctx, prompt, opts.toMap())
	if err != nil {
		return "", fmt.Errorf("chat call: %w", err)
	}

	return resp.Content(), nil
}
