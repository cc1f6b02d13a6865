package analyses

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/halalcheck/halalcheck/internal/workflow"
	"github.com/halalcheck/halalcheck/pkg/repository"
)

const insertAnalysis = `
	INSERT INTO product_analyses(
		id, product_name, ingredient_text, language, region, certification_standard,
		overall_status, overall_risk_level, total, halal_count, haram_count,
		mashbooh_count, uncertain_count, recommendations, expert_review_required,
		degraded, user_id, organization_id, analyzed_at, processing_time_ms)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14::jsonb, $15, $16, $17, $18, $19, $20)`

const insertVerdict = `
	INSERT INTO ingredient_analyses(
		analysis_id, position, detected_name, standard_name, status, risk_level,
		confidence, reasoning, requires_expert_review, warnings, suggestions,
		source, match_tier, e_numbers, categories)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::jsonb, $11::jsonb, $12, $13, $14::jsonb, $15::jsonb)`

// save writes the product row and its ingredient rows in one transaction.
func (r *repo) save(ctx context.Context, result *workflow.Result) error {
	recommendations, err := repository.JSONBArg(result.Recommendations)
	if err != nil {
		return err
	}

	return repository.InTx(ctx, r.db, func(tx *sql.Tx) error {
		s := result.Summary
		if _, err := tx.ExecContext(ctx, insertAnalysis,
			result.ID,
			result.ProductName,
			result.IngredientText,
			result.Language,
			result.Region,
			result.CertificationStandard,
			result.OverallStatus,
			result.OverallRiskLevel,
			s.Total, s.HalalCount, s.HaramCount, s.MashboohCount, s.UncertainCount,
			recommendations,
			result.ExpertReviewRequired,
			result.Degraded,
			result.UserID,
			result.OrganizationID,
			result.AnalyzedAt,
			result.ProcessingTimeMs,
		); err != nil {
			return fmt.Errorf("insert analysis: %w", err)
		}

		for i, v := range result.Ingredients {
			args, err := verdictArgs(v)
			if err != nil {
				return err
			}
			args = append([]any{result.ID, i}, args...)

			if _, err := tx.ExecContext(ctx, insertVerdict, args...); err != nil {
				return fmt.Errorf("insert ingredient %d: %w", i, err)
			}
		}

		return nil
	})
}

func verdictArgs(v workflow.IngredientVerdict) ([]any, error) {
	jsonb := make([]string, 0, 4)
	for _, list := range [][]string{v.Warnings, v.Suggestions, v.ENumbers, v.Categories} {
		if list == nil {
			list = []string{}
		}
		s, err := repository.JSONBArg(list)
		if err != nil {
			return nil, err
		}
		jsonb = append(jsonb, s)
	}

	return []any{
		v.DetectedName,
		v.StandardName,
		v.Status,
		v.RiskLevel,
		v.Confidence,
		v.Reasoning,
		v.RequiresExpertReview,
		jsonb[0], jsonb[1],
		v.Source,
		v.MatchTier,
		jsonb[2], jsonb[3],
	}, nil
}
