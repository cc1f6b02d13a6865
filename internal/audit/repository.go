package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/halalcheck/halalcheck/pkg/pagination"
	"github.com/halalcheck/halalcheck/pkg/query"
	"github.com/halalcheck/halalcheck/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "audit"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Entry], error) {
	page.Normalize(r.pagination)

	qb := query.NewBuilder(projection, newestFirst).WhereSearch(page.Search, "Reason", "Actor")
	qb = filters.apply(qb).OrderByFields(page.Sort)

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count audit entries: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Entry, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)
	e, err := repository.QueryOne(ctx, r.db, q, args, scanEntry)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &e, nil
}

const insertEntry = `INSERT INTO audit_logs (entity_type, entity_id, action, actor, reason)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, entity_type, entity_id, action, actor, reason, created_at`

// Record writes one entry through q, which is normally the transaction
// making the audited change. A failure must roll that change back.
func Record(ctx context.Context, q repository.Querier, cmd RecordCommand) (*Entry, error) {
	args := []any{cmd.EntityType, cmd.EntityID, cmd.Action, cmd.Actor, cmd.Reason}
	e, err := repository.QueryOne(ctx, q, insertEntry, args, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("record audit entry: %w", repository.MapError(err, ErrNotFound, ErrDuplicate))
	}
	return &e, nil
}
