package api

import (
	"github.com/halalcheck/halalcheck/internal/config"
	"github.com/halalcheck/halalcheck/internal/infrastructure"
	"github.com/halalcheck/halalcheck/pkg/pagination"
)

// Runtime is the infrastructure as the API module sees it: the same shared
// systems with an api-scoped logger, plus the settings only the API reads.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Analysis   config.AnalysisConfig
}

func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	scoped := *infra
	scoped.Logger = infra.Logger.With("module", "api")

	return &Runtime{
		Infrastructure: &scoped,
		Pagination:     cfg.API.Pagination,
		Analysis:       cfg.Analysis,
	}
}
