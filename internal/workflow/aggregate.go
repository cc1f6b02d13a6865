package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/halalcheck/halalcheck/internal/ingredients"
)

// AggregateNode returns a state node that derives the product-level verdict
// from the per-ingredient verdicts.
func AggregateNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		verdicts, err := extract[[]IngredientVerdict](s, KeyVerdicts)
		if err != nil {
			return s, fmt.Errorf("aggregate: %w", err)
		}

		agg := Aggregate(verdicts)

		rt.Logger.InfoContext(
			ctx, "aggregate node complete",
			"overall_status", agg.OverallStatus,
			"overall_risk_level", agg.OverallRiskLevel,
			"expert_review", agg.ExpertReviewRequired,
		)

		s = s.Set(KeyAggregation, agg)
		return s, nil
	})
}

// Aggregate applies the product-level precedence rules. Any HARAM verdict
// makes the product HARAM; otherwise any MASHBOOH or UNCERTAIN verdict makes
// it MASHBOOH; otherwise it is HALAL, including when there are no verdicts.
func Aggregate(verdicts []IngredientVerdict) Aggregation {
	summary := Summarize(verdicts)

	status := ingredients.StatusHalal
	switch {
	case summary.HaramCount > 0:
		status = ingredients.StatusHaram
	case summary.MashboohCount > 0 || summary.UncertainCount > 0:
		status = ingredients.StatusMashbooh
	}

	risk := ingredients.RiskLow
	switch {
	case summary.HaramCount > 0:
		risk = ingredients.RiskHigh
	case summary.MashboohCount > 0 || summary.UncertainCount > 0:
		risk = ingredients.RiskMedium
	}

	review := summary.UncertainCount > 0 || summary.MashboohCount > 2
	for _, v := range verdicts {
		if v.RequiresExpertReview {
			review = true
			break
		}
	}

	return Aggregation{
		OverallStatus:        status,
		OverallRiskLevel:     risk,
		ExpertReviewRequired: review,
		Summary:              summary,
		Recommendations:      Recommendations(verdicts, summary, review),
	}
}

// Summarize counts verdicts by status.
func Summarize(verdicts []IngredientVerdict) Summary {
	s := Summary{Total: len(verdicts)}
	for _, v := range verdicts {
		switch v.Status {
		case ingredients.StatusHalal:
			s.HalalCount++
		case ingredients.StatusHaram:
			s.HaramCount++
		case ingredients.StatusMashbooh:
			s.MashboohCount++
		default:
			s.UncertainCount++
		}
	}
	return s
}

// Recommendations renders the advice list for a product from its counts.
func Recommendations(verdicts []IngredientVerdict, s Summary, expertReview bool) []string {
	recs := make([]string, 0)

	if s.Total == 0 {
		return append(recs,
			"No ingredients were detected. Check the ingredient list and submit it again.",
		)
	}

	if s.HaramCount > 0 {
		recs = append(recs,
			fmt.Sprintf("The product contains %s and is not suitable for halal consumption.", plural(s.HaramCount, "haram ingredient")),
			fmt.Sprintf("Remove or replace: %s.", names(verdicts, ingredients.StatusHaram)),
		)
	}

	if s.MashboohCount > 0 {
		recs = append(recs,
			fmt.Sprintf("Obtain halal certificates from suppliers for %s: %s.", plural(s.MashboohCount, "doubtful ingredient"), names(verdicts, ingredients.StatusMashbooh)),
		)
	}

	if s.UncertainCount > 0 {
		recs = append(recs,
			fmt.Sprintf("%s could not be classified automatically: %s.", plural(s.UncertainCount, "ingredient"), names(verdicts, ingredients.StatusUncertain)),
		)
	}

	if expertReview {
		recs = append(recs, "Have a qualified halal authority review this product before certification.")
	}

	if s.HalalCount == s.Total {
		recs = append(recs, "All ingredients are halal. The product is suitable for halal consumption.")
	}

	return recs
}

func names(verdicts []IngredientVerdict, status ingredients.Status) string {
	var out []string
	for _, v := range verdicts {
		if v.Status == status {
			out = append(out, v.StandardName)
		}
	}
	return strings.Join(out, ", ")
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
