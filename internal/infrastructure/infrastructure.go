// Package infrastructure builds the process-wide systems every domain
// shares: the logger, the database pool, report storage, the generation
// backend settings and the classifier call limiter.
package infrastructure

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/time/rate"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/halalcheck/halalcheck/internal/config"
	"github.com/halalcheck/halalcheck/internal/workflow"
	"github.com/halalcheck/halalcheck/pkg/database"
	"github.com/halalcheck/halalcheck/pkg/lifecycle"
	"github.com/halalcheck/halalcheck/pkg/storage"
)

// Infrastructure is created once per process. Limiter is shared by every
// analysis, so concurrent requests together stay under the configured
// classifier call rate.
type Infrastructure struct {
	Agent     gaconfig.AgentConfig
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Limiter   *rate.Limiter
}

// New constructs the systems without contacting any of them. Start
// registers their lifecycle hooks.
func New(cfg *config.Config) (*Infrastructure, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	interval := cfg.Analysis.ClassifyIntervalDuration()
	logger.Info("classifier calls spaced", "interval", interval, "call_timeout", cfg.Analysis.CallTimeoutDuration())

	return &Infrastructure{
		Agent:     cfg.Agent.AgentConfig(),
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Limiter:   workflow.NewLimiter(interval),
	}, nil
}

func (i *Infrastructure) Start() error {
	return errors.Join(
		wrap("database", i.Database.Start(i.Lifecycle)),
		wrap("storage", i.Storage.Start(i.Lifecycle)),
	)
}

func wrap(system string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("start %s: %w", system, err)
}
