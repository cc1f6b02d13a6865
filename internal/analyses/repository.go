package analyses

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/halalcheck/halalcheck/internal/audit"
	"github.com/halalcheck/halalcheck/internal/workflow"
	"github.com/halalcheck/halalcheck/pkg/pagination"
	"github.com/halalcheck/halalcheck/pkg/query"
	"github.com/halalcheck/halalcheck/pkg/repository"
	"github.com/halalcheck/halalcheck/pkg/storage"
)

type repo struct {
	db         *sql.DB
	rt         *workflow.Runtime
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates the analysis system. rt is shared by every analysis so its
// limiter spaces classifier calls process-wide.
func New(
	db *sql.DB,
	rt *workflow.Runtime,
	storage storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		rt:         rt,
		storage:    storage,
		logger:     logger.With("system", "analyses"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) Analyze(ctx context.Context, cmd AnalyzeCommand) (*workflow.Result, error) {
	if err := r.check(cmd); err != nil {
		return nil, err
	}

	result, err := workflow.Execute(ctx, r.rt, cmd.request())
	if err != nil {
		return nil, fmt.Errorf("analyze product: %w", err)
	}

	if err := r.save(context.WithoutCancel(ctx), result); err != nil {
		r.logger.Error("analysis not persisted",
			"analysis_id", result.ID,
			"error", err,
		)
	}

	r.logger.Info("product analyzed",
		"analysis_id", result.ID,
		"overall_status", result.OverallStatus,
		"ingredients", result.Summary.Total,
		"degraded", result.Degraded,
		"processing_time_ms", result.ProcessingTimeMs,
	)
	return result, nil
}

func (r *repo) AnalyzeBatch(ctx context.Context, cmd BatchCommand) ([]BatchItem, error) {
	if limit := r.rt.Config.MaxBatchSize; limit > 0 && len(cmd.Items) > limit {
		return nil, fmt.Errorf("%w: %d items, limit %d", ErrBatchTooLarge, len(cmd.Items), limit)
	}

	items := make([]BatchItem, len(cmd.Items))

	var g errgroup.Group
	g.SetLimit(max(r.rt.Config.BatchConcurrency, 1))

	for i, c := range cmd.Items {
		g.Go(func() error {
			items[i].Index = i
			result, err := r.Analyze(ctx, c)
			if err != nil {
				items[i].Error = err.Error()
				return nil
			}
			items[i].Result = result
			return nil
		})
	}

	g.Wait()
	return items, nil
}

func (r *repo) check(cmd AnalyzeCommand) error {
	if strings.TrimSpace(cmd.IngredientText) == "" {
		return ErrEmptyText
	}
	if limit := r.rt.Config.MaxTextLength; limit > 0 && utf8.RuneCountInString(cmd.IngredientText) > limit {
		return fmt.Errorf("%w: limit %d characters", ErrTextTooLong, limit)
	}
	return nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Analysis], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereNull(deletedAt).
		WhereSearch(page.Search, "ProductName", "IngredientText")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count analyses: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanAnalysis)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	q, args := query.NewBuilder(projection).WhereNull(deletedAt).BuildSingle("ID", id)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAnalysis)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	verdictsQ := fmt.Sprintf(
		"SELECT %s FROM %s WHERE i.analysis_id = $1 ORDER BY i.position",
		verdictProjection.Columns(),
		verdictProjection.Table(),
	)

	verdicts, err := repository.QueryMany(ctx, r.db, verdictsQ, []any{id}, scanVerdict)
	if err != nil {
		return nil, fmt.Errorf("query ingredient verdicts: %w", err)
	}

	a.Ingredients = verdicts
	return &a, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID, cmd DeleteCommand) error {
	err := repository.InTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"UPDATE product_analyses SET deleted_at = now(), deleted_by = $2 WHERE id = $1 AND deleted_at IS NULL",
			id, cmd.DeletedBy,
		); err != nil {
			return err
		}

		_, err := audit.Record(ctx, tx, audit.RecordCommand{
			EntityType: EntityType,
			EntityID:   id,
			Action:     audit.ActionDelete,
			Actor:      cmd.DeletedBy,
			Reason:     cmd.Reason,
		})
		return err
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("analysis deleted", "id", id, "deleted_by", cmd.DeletedBy)

	// A deleted analysis keeps no downloadable report.
	if err := r.storage.Delete(ctx, ReportKey(id)); err != nil && !errors.Is(err, storage.ErrNotFound) {
		r.logger.Warn("exported report not removed", "id", id, "error", err)
	}
	return nil
}

func scanVerdict(s repository.Scanner) (workflow.IngredientVerdict, error) {
	var v workflow.IngredientVerdict
	err := s.Scan(
		&v.DetectedName,
		&v.StandardName,
		&v.Status,
		&v.RiskLevel,
		&v.Confidence,
		&v.Reasoning,
		&v.RequiresExpertReview,
		repository.JSONB(&v.Warnings),
		repository.JSONB(&v.Suggestions),
		&v.Source,
		&v.MatchTier,
		repository.JSONB(&v.ENumbers),
		repository.JSONB(&v.Categories),
	)
	return v, err
}
