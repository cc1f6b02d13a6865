package ingredients

import (
	"net/url"
	"strconv"

	"github.com/halalcheck/halalcheck/pkg/query"
	"github.com/halalcheck/halalcheck/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "reference_ingredients", "r").
	Project("id", "ID").
	Project("name", "Name").
	Project("aliases", "Aliases").
	Project("translations", "Translations").
	Project("e_numbers", "ENumbers").
	Project("categories", "Categories").
	Project("status", "Status").
	Project("risk_level", "RiskLevel").
	Project("confidence", "Confidence").
	Project("reasoning", "Reasoning").
	Project("requires_expert_review", "RequiresExpertReview").
	Project("warnings", "Warnings").
	Project("suggestions", "Suggestions").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "Name"}

// returning mirrors the projection for INSERT/UPDATE ... RETURNING.
const returning = `id, name, aliases, translations, e_numbers, categories, status, risk_level,
	confidence, reasoning, requires_expert_review, warnings, suggestions, created_at, updated_at`

// Filters narrows reference table queries. Nil fields are ignored.
type Filters struct {
	Status       *Status    `json:"status,omitempty"`
	RiskLevel    *RiskLevel `json:"risk_level,omitempty"`
	Category     *string    `json:"category,omitempty"`
	ExpertReview *bool      `json:"requires_expert_review,omitempty"`
}

func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("RiskLevel", f.RiskLevel).
		WhereHas("Categories", f.Category).
		WhereEquals("RequiresExpertReview", f.ExpertReview)
}

// FiltersFromQuery reads filters from URL query parameters, ignoring invalid values.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s, err := ParseStatus(values.Get("status")); err == nil {
		f.Status = &s
	}
	if r, err := ParseRiskLevel(values.Get("risk_level")); err == nil {
		f.RiskLevel = &r
	}
	if c := values.Get("category"); c != "" {
		f.Category = &c
	}
	if v := values.Get("requires_expert_review"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			f.ExpertReview = &b
		}
	}

	return f
}

func scanIngredient(s repository.Scanner) (Ingredient, error) {
	return scanIngredientWith(s)
}

// scanIngredientWith scans the projected columns followed by extra destinations.
func scanIngredientWith(s repository.Scanner, extra ...any) (Ingredient, error) {
	var i Ingredient
	dest := []any{
		&i.ID,
		&i.Name,
		repository.JSONB(&i.Aliases),
		repository.JSONB(&i.Translations),
		repository.JSONB(&i.ENumbers),
		repository.JSONB(&i.Categories),
		&i.Status,
		&i.RiskLevel,
		&i.Confidence,
		&i.Reasoning,
		&i.RequiresExpertReview,
		repository.JSONB(&i.Warnings),
		repository.JSONB(&i.Suggestions),
		&i.CreatedAt,
		&i.UpdatedAt,
	}
	err := s.Scan(append(dest, extra...)...)
	return i, err
}
