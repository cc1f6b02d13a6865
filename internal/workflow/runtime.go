package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/halalcheck/halalcheck/internal/config"
	"github.com/halalcheck/halalcheck/internal/ingredients"
	"github.com/halalcheck/halalcheck/internal/prompts"
)

// Lookup resolves an ingredient name against the reference table.
type Lookup interface {
	Lookup(ctx context.Context, name, language string) (*ingredients.Match, error)
}

// Prompts supplies stage instructions and output specs.
type Prompts interface {
	Instructions(ctx context.Context, stage prompts.Stage) (string, error)
	Spec(stage prompts.Stage) (string, error)
}

// Runtime bundles the dependencies that workflow nodes require.
// It is constructed by higher-level composition code from Infrastructure and Domain systems.
type Runtime struct {
	Generator Generator
	Lookup    Lookup
	Prompts   Prompts
	Limiter   *rate.Limiter
	Config    config.AnalysisConfig
	Logger    *slog.Logger
}

// NewLimiter spaces classifier calls at least interval apart. A single
// limiter is shared by every analysis in the process.
func NewLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// pace blocks until the limiter admits the next classifier call. It only
// fails when ctx ends, so a deadline shorter than the interval still waits
// out the interval instead of failing early.
func (rt *Runtime) pace(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r := rt.Limiter.Reserve()
	delay := r.Delay()
	if delay == 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	}
}

// generate issues one bounded text-generation call. Transport failures and
// timeouts are reported as ErrUpstreamUnavailable.
func (rt *Runtime) generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	if timeout := rt.Config.CallTimeoutDuration(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	content, err := rt.Generator.Generate(ctx, prompt, opts)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	return content, nil
}

func (rt *Runtime) maxIngredients() int {
	if n := rt.Config.MaxIngredients; n > 0 && n < config.MaxIngredientsLimit {
		return n
	}
	return config.MaxIngredientsLimit
}
