package workflow

import (
	"time"

	"github.com/google/uuid"

	"github.com/halalcheck/halalcheck/internal/ingredients"
)

const (
	KeyRequest     = "request"
	KeyIngredients = "ingredients"
	KeyVerdicts    = "verdicts"
	KeyAggregation = "aggregation"
)

// Source records where a verdict came from. It is informational only.
type Source string

const (
	SourceDatabase Source = "DATABASE"
	SourceAI       Source = "AI"
	SourceFallback Source = "FALLBACK"
)

// Request is the product submitted for analysis.
type Request struct {
	ProductName           string     `json:"product_name"`
	IngredientText        string     `json:"ingredient_text"`
	Language              string     `json:"language"`
	Region                string     `json:"region"`
	CertificationStandard string     `json:"certification_standard"`
	UserID                *uuid.UUID `json:"user_id,omitempty"`
	OrganizationID        *uuid.UUID `json:"organization_id,omitempty"`
}

// IngredientVerdict is the classification of one detected ingredient.
type IngredientVerdict struct {
	DetectedName         string                `json:"detected_name"`
	StandardName         string                `json:"standard_name"`
	Status               ingredients.Status    `json:"status"`
	RiskLevel            ingredients.RiskLevel `json:"risk_level"`
	Confidence           float64               `json:"confidence"`
	Reasoning            string                `json:"reasoning"`
	RequiresExpertReview bool                  `json:"requires_expert_review"`
	Warnings             []string              `json:"warnings"`
	Suggestions          []string              `json:"suggestions"`
	Source               Source                `json:"source"`
	MatchTier            ingredients.Tier      `json:"match_tier,omitempty"`
	ENumbers             []string              `json:"e_numbers"`
	Categories           []string              `json:"categories"`
}

// Degraded reports whether the verdict was synthesized or is low confidence.
func (v IngredientVerdict) Degraded() bool {
	return v.Source == SourceFallback || v.Confidence < 0.5
}

// Summary counts verdicts by status. Total always equals the sum of the counts.
type Summary struct {
	Total          int `json:"total"`
	HalalCount     int `json:"halal_count"`
	HaramCount     int `json:"haram_count"`
	MashboohCount  int `json:"mashbooh_count"`
	UncertainCount int `json:"uncertain_count"`
}

// Aggregation is the product-level outcome derived from the verdicts.
type Aggregation struct {
	OverallStatus        ingredients.Status    `json:"overall_status"`
	OverallRiskLevel     ingredients.RiskLevel `json:"overall_risk_level"`
	ExpertReviewRequired bool                  `json:"expert_review_required"`
	Summary              Summary               `json:"summary"`
	Recommendations      []string              `json:"recommendations"`
}

// Result is the complete analysis of one product.
type Result struct {
	ID uuid.UUID `json:"id"`
	Request
	OverallStatus        ingredients.Status    `json:"overall_status"`
	OverallRiskLevel     ingredients.RiskLevel `json:"overall_risk_level"`
	Ingredients          []IngredientVerdict   `json:"ingredients"`
	Summary              Summary               `json:"summary"`
	Recommendations      []string              `json:"recommendations"`
	ExpertReviewRequired bool                  `json:"expert_review_required"`
	Degraded             bool                  `json:"degraded"`
	AnalyzedAt           time.Time             `json:"analyzed_at"`
	ProcessingTimeMs     int64                 `json:"processing_time_ms"`
}
