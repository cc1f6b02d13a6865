package api

import (
	"github.com/halalcheck/halalcheck/internal/analyses"
	"github.com/halalcheck/halalcheck/internal/audit"
	"github.com/halalcheck/halalcheck/internal/ingredients"
	"github.com/halalcheck/halalcheck/internal/prompts"
	"github.com/halalcheck/halalcheck/internal/workflow"
	"github.com/halalcheck/halalcheck/pkg/routes"
)

// Domain holds the systems behind the API routes.
type Domain struct {
	Analyses    analyses.System
	Audit       audit.System
	Ingredients ingredients.System
	Prompts     prompts.System
}

// NewDomain builds the systems over one shared connection pool. The
// analyses system drives the workflow, which reads reference ingredients
// and prompt overrides through the other two.
func NewDomain(runtime *Runtime) *Domain {
	db := runtime.Database.Connection()

	ingredientsSystem := ingredients.New(
		db,
		runtime.Logger,
		runtime.Pagination,
		runtime.Analysis.SimilarityThreshold,
	)

	promptsSystem := prompts.New(db, runtime.Logger, runtime.Pagination)
	auditSystem := audit.New(db, runtime.Logger, runtime.Pagination)

	wf := &workflow.Runtime{
		Generator: workflow.NewAgentGenerator(runtime.Agent),
		Lookup:    ingredientsSystem,
		Prompts:   promptsSystem,
		Limiter:   runtime.Limiter,
		Config:    runtime.Analysis,
		Logger:    runtime.Logger.With("system", "workflow"),
	}

	analysesSystem := analyses.New(
		db,
		wf,
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Analyses:    analysesSystem,
		Audit:       auditSystem,
		Ingredients: ingredientsSystem,
		Prompts:     promptsSystem,
	}
}

func (d *Domain) groups() []routes.Group {
	return []routes.Group{
		d.Analyses.Handler().Routes(),
		d.Ingredients.Handler().Routes(),
		d.Prompts.Handler().Routes(),
		d.Audit.Handler().Routes(),
	}
}
