// Package analyses runs product analyses through the workflow and keeps the
// stored history: best-effort persistence, queries, soft deletion with an
// audit entry, and JSON report export to blob storage.
package analyses

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/halalcheck/halalcheck/internal/ingredients"
	"github.com/halalcheck/halalcheck/internal/workflow"
)

// EntityType identifies analyses in the audit log.
const EntityType = "product_analysis"

// Analysis is a stored product analysis. Ingredients is populated by Find only.
type Analysis struct {
	ID                    uuid.UUID                    `json:"id"`
	ProductName           string                       `json:"product_name"`
	IngredientText        string                       `json:"ingredient_text"`
	Language              string                       `json:"language"`
	Region                string                       `json:"region"`
	CertificationStandard string                       `json:"certification_standard"`
	OverallStatus         ingredients.Status           `json:"overall_status"`
	OverallRiskLevel      ingredients.RiskLevel        `json:"overall_risk_level"`
	Summary               workflow.Summary             `json:"summary"`
	Recommendations       []string                     `json:"recommendations"`
	ExpertReviewRequired  bool                         `json:"expert_review_required"`
	Degraded              bool                         `json:"degraded"`
	UserID                *uuid.UUID                   `json:"user_id,omitempty"`
	OrganizationID        *uuid.UUID                   `json:"organization_id,omitempty"`
	AnalyzedAt            time.Time                    `json:"analyzed_at"`
	ProcessingTimeMs      int64                        `json:"processing_time_ms"`
	Ingredients           []workflow.IngredientVerdict `json:"ingredients,omitempty"`
}

// AnalyzeCommand is a product submitted for analysis.
type AnalyzeCommand struct {
	ProductName           string     `json:"product_name" validate:"max=200"`
	IngredientText        string     `json:"ingredient_text" validate:"required"`
	Language              string     `json:"language" validate:"omitempty,max=10"`
	Region                string     `json:"region" validate:"omitempty,max=50"`
	CertificationStandard string     `json:"certification_standard" validate:"omitempty,max=100"`
	UserID                *uuid.UUID `json:"user_id,omitempty"`
	OrganizationID        *uuid.UUID `json:"organization_id,omitempty"`
}

func (c AnalyzeCommand) request() workflow.Request {
	return workflow.Request{
		ProductName:           strings.TrimSpace(c.ProductName),
		IngredientText:        c.IngredientText,
		Language:              strings.TrimSpace(c.Language),
		Region:                strings.TrimSpace(c.Region),
		CertificationStandard: strings.TrimSpace(c.CertificationStandard),
		UserID:                c.UserID,
		OrganizationID:        c.OrganizationID,
	}
}

// BatchCommand submits several products at once.
type BatchCommand struct {
	Items []AnalyzeCommand `json:"items" validate:"required,min=1,dive"`
}

// BatchItem is the outcome for one product of a batch, in submission order.
type BatchItem struct {
	Index  int              `json:"index"`
	Result *workflow.Result `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// DeleteCommand names who removed an analysis and why.
type DeleteCommand struct {
	DeletedBy string `json:"deleted_by" validate:"required,max=200"`
	Reason    string `json:"reason" validate:"max=1000"`
}

// Export describes an uploaded report.
type Export struct {
	AnalysisID  uuid.UUID `json:"analysis_id"`
	Key         string    `json:"key"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Report is the document written to blob storage by Export.
type Report struct {
	GeneratedAt time.Time `json:"generated_at"`
	Analysis    Analysis  `json:"analysis"`
}

// ReportKey returns the blob storage key for an analysis report.
func ReportKey(id uuid.UUID) string {
	return "reports/" + id.String() + ".json"
}
