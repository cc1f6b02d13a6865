package prompts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/halalcheck/halalcheck/pkg/pagination"
	"github.com/halalcheck/halalcheck/pkg/query"
	"github.com/halalcheck/halalcheck/pkg/repository"
)

// resolvedTTL bounds how long a resolved instruction text is reused. The
// classifier asks once per ingredient, so without it a 50 ingredient
// product costs 50 identical queries. Local writes clear it immediately.
const resolvedTTL = 30 * time.Second

type resolved struct {
	text string
	at   time.Time
}

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config

	mu    sync.RWMutex
	cache map[Stage]resolved
}

func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "prompts"),
		pagination: pagination,
		cache:      map[Stage]resolved{},
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) Spec(stage Stage) (string, error) {
	return Spec(stage)
}

func (r *repo) Instructions(ctx context.Context, stage Stage) (string, error) {
	r.mu.RLock()
	hit, ok := r.cache[stage]
	r.mu.RUnlock()
	if ok && time.Since(hit.at) < resolvedTTL {
		return hit.text, nil
	}

	active := true
	q, args := query.NewBuilder(projection).
		WhereEquals("Stage", stage).
		WhereEquals("Active", &active).
		BuildSingleOrNull()

	var text string
	p, err := repository.QueryOne(ctx, r.db, q, args, scanPrompt)
	switch {
	case err == nil:
		text = p.Instructions
	case errors.Is(err, sql.ErrNoRows):
		if text, err = DefaultInstructions(stage); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("resolve %s instructions: %w", stage, err)
	}

	r.mu.Lock()
	r.cache[stage] = resolved{text: text, at: time.Now()}
	r.mu.Unlock()
	return text, nil
}

func (r *repo) forget() {
	r.mu.Lock()
	clear(r.cache)
	r.mu.Unlock()
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Prompt], error) {
	page.Normalize(r.pagination)

	qb := filters.apply(query.NewBuilder(projection, byStageThenName...)).
		WhereSearch(page.Search, "Name", "Description").
		OrderByFields(page.Sort)

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count prompts: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanPrompt)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)
	p, err := repository.QueryOne(ctx, r.db, q, args, scanPrompt)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) Create(ctx context.Context, cmd Command) (*Prompt, error) {
	q := "INSERT INTO prompts (name, stage, instructions, description) VALUES ($1, $2, $3, $4) " + returning
	return r.write(ctx, "created", q, cmd.Name, cmd.Stage, cmd.Instructions, cmd.Description)
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd Command) (*Prompt, error) {
	q := `UPDATE prompts
		SET name = $2, stage = $3, instructions = $4, description = $5, updated_at = now()
		WHERE id = $1 ` + returning
	return r.write(ctx, "updated", q, id, cmd.Name, cmd.Stage, cmd.Instructions, cmd.Description)
}

func (r *repo) Deactivate(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	q := "UPDATE prompts SET active = false, updated_at = now() WHERE id = $1 " + returning
	return r.write(ctx, "deactivated", q, id)
}

// Activate clears the stage's current override and activates id in one
// transaction, keeping the one-active-per-stage index satisfied.
func (r *repo) Activate(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Prompt, error) {
		clearQ := `UPDATE prompts SET active = false, updated_at = now()
			WHERE active AND id <> $1 AND stage = (SELECT stage FROM prompts WHERE id = $1)`
		if _, err := tx.ExecContext(ctx, clearQ, id); err != nil {
			return Prompt{}, fmt.Errorf("clear active override: %w", err)
		}

		q := "UPDATE prompts SET active = true, updated_at = now() WHERE id = $1 " + returning
		return repository.QueryOne(ctx, tx, q, []any{id}, scanPrompt)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.forget()
	r.logger.Info("prompt activated", "id", p.ID, "name", p.Name, "stage", p.Stage)
	return &p, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	err := repository.InTx(ctx, r.db, func(tx *sql.Tx) error {
		return repository.ExecExpectOne(ctx, tx, "DELETE FROM prompts WHERE id = $1", id)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.forget()
	r.logger.Info("prompt deleted", "id", id)
	return nil
}

func (r *repo) write(ctx context.Context, action, q string, args ...any) (*Prompt, error) {
	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Prompt, error) {
		return repository.QueryOne(ctx, tx, q, args, scanPrompt)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.forget()
	r.logger.Info("prompt "+action, "id", p.ID, "name", p.Name, "stage", p.Stage, "active", p.Active)
	return &p, nil
}
