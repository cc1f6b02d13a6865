package ingredients

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/halalcheck/halalcheck/pkg/repository"
)

// seq is the insertion order; created_at is shared by rows seeded together.
const tieOrder = " ORDER BY r.seq LIMIT 1"

type lookupStep struct {
	tier   Tier
	clause string
}

// Exact-to-loose sub-tiers. $1 is always the ingredient name.
var lookupSteps = []lookupStep{
	{TierExact, "lower(r.name) = lower($1)"},
	{TierSubstring, "strpos(lower(r.name), lower($1)) > 0"},
	{TierAlias, "EXISTS (SELECT 1 FROM jsonb_array_elements_text(r.aliases) AS a(alias) WHERE lower(a.alias) = lower($1))"},
}

// Lookup resolves name against the reference table. The first sub-tier with
// a hit wins; ties resolve to the earliest inserted row. Returns nil, nil when nothing matches.
func (r *repo) Lookup(ctx context.Context, name, language string) (*Match, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	for _, step := range lookupSteps {
		m, err := r.lookupOne(ctx, step.tier, step.clause, name)
		if err != nil || m != nil {
			return m, err
		}
	}

	if lang := strings.ToLower(strings.TrimSpace(language)); lang != "" {
		m, err := r.lookupOne(ctx, TierTranslation, "lower(r.translations ->> $2) = lower($1)", name, lang)
		if err != nil || m != nil {
			return m, err
		}
	}

	if IsENumber(name) {
		m, err := r.lookupOne(ctx, TierENumber, "r.e_numbers ? $1", strings.ToUpper(name))
		if err != nil || m != nil {
			return m, err
		}
	}

	return r.lookupSimilar(ctx, name)
}

func (r *repo) lookupOne(ctx context.Context, tier Tier, clause string, args ...any) (*Match, error) {
	q := fmt.Sprintf("SELECT %s FROM %s WHERE %s%s", projection.Columns(), projection.Table(), clause, tieOrder)

	ing, err := repository.QueryOne(ctx, r.db, q, args, scanIngredient)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup %s tier: %w", tier, err)
	}

	r.logger.Debug("reference match", "name", args[0], "tier", tier, "ingredient", ing.Name)
	return &Match{Ingredient: ing, Tier: tier}, nil
}

func (r *repo) lookupSimilar(ctx context.Context, name string) (*Match, error) {
	q := fmt.Sprintf(`SELECT %s, similarity(lower(r.name), lower($1)) AS score
		FROM %s
		WHERE similarity(lower(r.name), lower($1)) > $2
		ORDER BY score DESC, r.seq LIMIT 1`,
		projection.Columns(), projection.Table())

	var score float64
	ing, err := repository.QueryOne(ctx, r.db, q, []any{name, r.threshold}, func(s repository.Scanner) (Ingredient, error) {
		return scanIngredientWith(s, &score)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup %s tier: %w", TierSimilarity, err)
	}

	r.logger.Debug("reference match", "name", name, "tier", TierSimilarity, "ingredient", ing.Name, "similarity", score)
	return &Match{Ingredient: ing, Tier: TierSimilarity, Similarity: score}, nil
}
