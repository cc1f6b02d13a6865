package ingredients

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
	threshold  float64
}

// New creates the reference table system. threshold is the minimum trigram
// similarity accepted by the fuzzy lookup tier.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
	threshold float64,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "ingredients"),
		pagination: pagination,
		threshold:  threshold,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Ingredient], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "Reasoning")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count ingredients: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanIngredient)
	if err != nil {
		return nil, fmt.Errorf("query ingredients: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Ingredient, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	ing, err := repository.QueryOne(ctx, r.db, q, args, scanIngredient)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &ing, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Ingredient, error) {
	if err := cmd.normalize(); err != nil {
		return nil, err
	}

	args, err := commandArgs(cmd)
	if err != nil {
		return nil, err
	}

	q := `
		INSERT INTO reference_ingredients(
			name, aliases, translations, e_numbers, categories, status, risk_level,
			confidence, reasoning, requires_expert_review, warnings, suggestions)
		VALUES ($1, $2::jsonb, $3::jsonb, $4::jsonb, $5::jsonb, $6, $7, $8, $9, $10, $11::jsonb, $12::jsonb)
		RETURNING ` + returning

	ing, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Ingredient, error) {
		return repository.QueryOne(ctx, tx, q, args, scanIngredient)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("ingredient created", "id", ing.ID, "name", ing.Name, "status", ing.Status)
	return &ing, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Ingredient, error) {
	create := CreateCommand(cmd)
	if err := create.normalize(); err != nil {
		return nil, err
	}

	args, err := commandArgs(create)
	if err != nil {
		return nil, err
	}

	q := `
		UPDATE reference_ingredients
		SET name = $1, aliases = $2::jsonb, translations = $3::jsonb, e_numbers = $4::jsonb,
			categories = $5::jsonb, status = $6, risk_level = $7, confidence = $8, reasoning = $9,
			requires_expert_review = $10, warnings = $11::jsonb, suggestions = $12::jsonb,
			updated_at = now()
		WHERE id = $13
		RETURNING ` + returning

	ing, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Ingredient, error) {
		return repository.QueryOne(ctx, tx, q, append(args, id), scanIngredient)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("ingredient updated", "id", ing.ID, "name", ing.Name, "status", ing.Status)
	return &ing, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	err := repository.InTx(ctx, r.db, func(tx *sql.Tx) error {
		return repository.ExecExpectOne(ctx, tx, "DELETE FROM reference_ingredients WHERE id = $1", id)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("ingredient deleted", "id", id)
	return nil
}

func commandArgs(cmd CreateCommand) ([]any, error) {
	jsonb := make([]string, 0, 6)
	for _, v := range []any{cmd.Aliases, cmd.Translations, cmd.ENumbers, cmd.Categories, cmd.Warnings, cmd.Suggestions} {
		s, err := repository.JSONBArg(v)
		if err != nil {
			return nil, err
		}
		jsonb = append(jsonb, s)
	}

	return []any{
		cmd.Name,
		jsonb[0], jsonb[1], jsonb[2], jsonb[3],
		cmd.Status,
		cmd.RiskLevel,
		cmd.Confidence,
		cmd.Reasoning,
		cmd.RequiresExpertReview,
		jsonb[4], jsonb[5],
	}, nil
}
