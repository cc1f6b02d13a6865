package ingredients

import (
	"context"

	"github.com/google/uuid"

	"github.com/halalcheck/halalcheck/pkg/pagination"
)

// System defines reference table operations.
type System interface {
	Handler() *Handler

	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Ingredient], error)
	Find(ctx context.Context, id uuid.UUID) (*Ingredient, error)
	Create(ctx context.Context, cmd CreateCommand) (*Ingredient, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Ingredient, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Lookup resolves a parsed ingredient name to a reference row, trying
	// exact name, substring, alias, translation, E-number, then trigram
	// similarity. Returns nil, nil when no tier matches.
	Lookup(ctx context.Context, name, language string) (*Match, error)
}
