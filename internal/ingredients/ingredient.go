// Package ingredients is the authoritative reference table of known food
// ingredients and the tiered lookup the classifier consults before falling
// back to the text-generation backend.
package ingredients

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var eNumberPattern = regexp.MustCompile(`(?i)^E\d+[a-z]?$`)

// Ingredient is one row of the reference table.
type Ingredient struct {
	ID                   uuid.UUID         `json:"id"`
	Name                 string            `json:"name"`
	Aliases              []string          `json:"aliases"`
	Translations         map[string]string `json:"translations"`
	ENumbers             []string          `json:"e_numbers"`
	Categories           []string          `json:"categories"`
	Status               Status            `json:"status"`
	RiskLevel            RiskLevel         `json:"risk_level"`
	Confidence           float64           `json:"confidence"`
	Reasoning            string            `json:"reasoning"`
	RequiresExpertReview bool              `json:"requires_expert_review"`
	Warnings             []string          `json:"warnings"`
	Suggestions          []string          `json:"suggestions"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
}

type CreateCommand struct {
	Name                 string            `json:"name" validate:"required,max=200"`
	Aliases              []string          `json:"aliases" validate:"omitempty,max=50,dive,required,max=200"`
	Translations         map[string]string `json:"translations" validate:"omitempty,dive,keys,min=2,max=5,endkeys,required,max=200"`
	ENumbers             []string          `json:"e_numbers" validate:"omitempty,max=20"`
	Categories           []string          `json:"categories" validate:"omitempty,max=20,dive,required,max=100"`
	Status               Status            `json:"status" validate:"required"`
	RiskLevel            RiskLevel         `json:"risk_level" validate:"required"`
	Confidence           float64           `json:"confidence" validate:"gte=0,lte=1"`
	Reasoning            string            `json:"reasoning" validate:"required,max=2000"`
	RequiresExpertReview bool              `json:"requires_expert_review"`
	Warnings             []string          `json:"warnings" validate:"omitempty,max=20"`
	Suggestions          []string          `json:"suggestions" validate:"omitempty,max=20"`
}

type UpdateCommand CreateCommand

// Tier identifies which reference lookup step produced a match.
type Tier string

const (
	TierExact       Tier = "exact"
	TierSubstring   Tier = "substring"
	TierAlias       Tier = "alias"
	TierTranslation Tier = "translation"
	TierENumber     Tier = "e_number"
	TierSimilarity  Tier = "similarity"
)

// Match is a successful reference lookup.
type Match struct {
	Ingredient Ingredient `json:"ingredient"`
	Tier       Tier       `json:"tier"`
	Similarity float64    `json:"similarity,omitempty"`
}

// Confidence is the row confidence, or the trigram similarity for fuzzy matches.
func (m Match) Confidence() float64 {
	if m.Tier == TierSimilarity {
		return m.Similarity
	}
	return m.Ingredient.Confidence
}

// IsENumber reports whether s is an E-number token such as E471 or E160a.
func IsENumber(s string) bool {
	return eNumberPattern.MatchString(strings.TrimSpace(s))
}

// normalize trims input, upper-cases E-numbers, lower-cases translation
// languages, and replaces nil collections with empty ones so jsonb columns
// never hold null.
func (c *CreateCommand) normalize() error {
	c.Name = strings.TrimSpace(c.Name)

	if len(c.Translations) > 0 {
		translations := make(map[string]string, len(c.Translations))
		for lang, name := range c.Translations {
			translations[strings.ToLower(strings.TrimSpace(lang))] = strings.TrimSpace(name)
		}
		c.Translations = translations
	}

	for i, e := range c.ENumbers {
		e = strings.ToUpper(strings.TrimSpace(e))
		if !eNumberPattern.MatchString(e) {
			return ErrInvalidENumber
		}
		c.ENumbers[i] = e
	}

	if c.Aliases == nil {
		c.Aliases = []string{}
	}
	if c.Translations == nil {
		c.Translations = map[string]string{}
	}
	if c.ENumbers == nil {
		c.ENumbers = []string{}
	}
	if c.Categories == nil {
		c.Categories = []string{}
	}
	if c.Warnings == nil {
		c.Warnings = []string{}
	}
	if c.Suggestions == nil {
		c.Suggestions = []string{}
	}
	return nil
}
