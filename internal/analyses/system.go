package analyses

import (
	"context"

	"github.com/google/uuid"

	"github.com/halalcheck/halalcheck/internal/workflow"
	"github.com/halalcheck/halalcheck/pkg/pagination"
	"github.com/halalcheck/halalcheck/pkg/storage"
)

// System defines product analysis operations.
type System interface {
	Handler() *Handler

	// Analyze runs the workflow for one product and stores the result.
	// Storage failures are logged; the result is still returned.
	Analyze(ctx context.Context, cmd AnalyzeCommand) (*workflow.Result, error)
	// AnalyzeBatch analyzes several products with bounded concurrency.
	// A failing product never aborts the others.
	AnalyzeBatch(ctx context.Context, cmd BatchCommand) ([]BatchItem, error)

	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Analysis], error)
	Find(ctx context.Context, id uuid.UUID) (*Analysis, error)
	Delete(ctx context.Context, id uuid.UUID, cmd DeleteCommand) error

	Export(ctx context.Context, id uuid.UUID) (*Export, error)
	Report(ctx context.Context, id uuid.UUID) (*storage.Object, error)
}
