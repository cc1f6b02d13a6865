package analyses

import (
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/halalcheck/halalcheck/internal/ingredients"
	"github.com/halalcheck/halalcheck/pkg/query"
	"github.com/halalcheck/halalcheck/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "product_analyses", "a").
	Project("id", "ID").
	Project("product_name", "ProductName").
	Project("ingredient_text", "IngredientText").
	Project("language", "Language").
	Project("region", "Region").
	Project("certification_standard", "CertificationStandard").
	Project("overall_status", "OverallStatus").
	Project("overall_risk_level", "OverallRiskLevel").
	Project("total", "Total").
	Project("halal_count", "HalalCount").
	Project("haram_count", "HaramCount").
	Project("mashbooh_count", "MashboohCount").
	Project("uncertain_count", "UncertainCount").
	Project("recommendations", "Recommendations").
	Project("expert_review_required", "ExpertReviewRequired").
	Project("degraded", "Degraded").
	Project("user_id", "UserID").
	Project("organization_id", "OrganizationID").
	Project("analyzed_at", "AnalyzedAt").
	Project("processing_time_ms", "ProcessingTimeMs")

var defaultSort = query.SortField{
	Field:      "AnalyzedAt",
	Descending: true,
}

const deletedAt = "a.deleted_at"

var verdictProjection = query.
	NewProjectionMap("public", "ingredient_analyses", "i").
	Project("detected_name", "DetectedName").
	Project("standard_name", "StandardName").
	Project("status", "Status").
	Project("risk_level", "RiskLevel").
	Project("confidence", "Confidence").
	Project("reasoning", "Reasoning").
	Project("requires_expert_review", "RequiresExpertReview").
	Project("warnings", "Warnings").
	Project("suggestions", "Suggestions").
	Project("source", "Source").
	Project("match_tier", "MatchTier").
	Project("e_numbers", "ENumbers").
	Project("categories", "Categories")

// Filters contains optional filtering criteria for analysis queries.
// Nil fields are ignored.
type Filters struct {
	OverallStatus    *ingredients.Status    `json:"overall_status,omitempty"`
	OverallRiskLevel *ingredients.RiskLevel `json:"overall_risk_level,omitempty"`
	UserID           *uuid.UUID             `json:"user_id,omitempty"`
	OrganizationID   *uuid.UUID             `json:"organization_id,omitempty"`
	ExpertReview     *bool                  `json:"expert_review_required,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("OverallStatus", f.OverallStatus).
		WhereEquals("OverallRiskLevel", f.OverallRiskLevel).
		WhereEquals("UserID", f.UserID).
		WhereEquals("OrganizationID", f.OrganizationID).
		WhereEquals("ExpertReviewRequired", f.ExpertReview)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Unparseable values are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s, err := ingredients.ParseStatus(values.Get("overall_status")); err == nil {
		f.OverallStatus = &s
	}

	if r, err := ingredients.ParseRiskLevel(values.Get("overall_risk_level")); err == nil {
		f.OverallRiskLevel = &r
	}

	if v := values.Get("user_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.UserID = &id
		}
	}

	if v := values.Get("organization_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.OrganizationID = &id
		}
	}

	if v := values.Get("expert_review_required"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			f.ExpertReview = &b
		}
	}

	return f
}

func scanAnalysis(s repository.Scanner) (Analysis, error) {
	var a Analysis
	err := s.Scan(
		&a.ID,
		&a.ProductName,
		&a.IngredientText,
		&a.Language,
		&a.Region,
		&a.CertificationStandard,
		&a.OverallStatus,
		&a.OverallRiskLevel,
		&a.Summary.Total,
		&a.Summary.HalalCount,
		&a.Summary.HaramCount,
		&a.Summary.MashboohCount,
		&a.Summary.UncertainCount,
		repository.JSONB(&a.Recommendations),
		&a.ExpertReviewRequired,
		&a.Degraded,
		&a.UserID,
		&a.OrganizationID,
		&a.AnalyzedAt,
		&a.ProcessingTimeMs,
	)
	if err != nil {
		return a, err
	}

	if a.Recommendations == nil {
		a.Recommendations = []string{}
	}
	return a, nil
}
