package workflow_test

import (
	"strings"
	"testing"

	"github.com/halalcheck/halalcheck/internal/ingredients"
	"github.com/halalcheck/halalcheck/internal/workflow"
)

func verdict(name string, status ingredients.Status, review bool) workflow.IngredientVerdict {
	return workflow.IngredientVerdict{
		DetectedName:         name,
		StandardName:         name,
		Status:               status,
		Confidence:           0.9,
		Reasoning:            "test",
		RequiresExpertReview: review,
		Source:               workflow.SourceDatabase,
	}
}

func verdicts(statuses ...ingredients.Status) []workflow.IngredientVerdict {
	out := make([]workflow.IngredientVerdict, len(statuses))
	for i, s := range statuses {
		out[i] = verdict(strings.ToLower(string(s)), s, false)
	}
	return out
}

const (
	halal     = ingredients.StatusHalal
	haram     = ingredients.StatusHaram
	mashbooh  = ingredients.StatusMashbooh
	uncertain = ingredients.StatusUncertain
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name       string
		verdicts   []workflow.IngredientVerdict
		wantStatus ingredients.Status
		wantRisk   ingredients.RiskLevel
		wantReview bool
	}{
		{"empty", nil, halal, ingredients.RiskLow, false},
		{"all halal", verdicts(halal, halal, halal), halal, ingredients.RiskLow, false},
		{"one haram dominates", verdicts(halal, halal, haram), haram, ingredients.RiskHigh, false},
		{"haram beats mashbooh", verdicts(mashbooh, haram, uncertain), haram, ingredients.RiskHigh, true},
		{"single mashbooh", verdicts(halal, mashbooh), mashbooh, ingredients.RiskMedium, false},
		{"single uncertain", verdicts(halal, uncertain), mashbooh, ingredients.RiskMedium, true},
		{"two uncertain", verdicts(uncertain, uncertain), mashbooh, ingredients.RiskMedium, true},
		{"two mashbooh no review", verdicts(mashbooh, mashbooh, halal), mashbooh, ingredients.RiskMedium, false},
		{"three mashbooh need review", verdicts(mashbooh, mashbooh, mashbooh), mashbooh, ingredients.RiskMedium, true},
		{
			"flagged halal needs review",
			[]workflow.IngredientVerdict{verdict("gelatin", halal, true), verdict("salt", halal, false)},
			halal, ingredients.RiskLow, true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := workflow.Aggregate(tt.verdicts)

			if agg.OverallStatus != tt.wantStatus {
				t.Errorf("status = %s, want %s", agg.OverallStatus, tt.wantStatus)
			}
			if agg.OverallRiskLevel != tt.wantRisk {
				t.Errorf("risk = %s, want %s", agg.OverallRiskLevel, tt.wantRisk)
			}
			if agg.ExpertReviewRequired != tt.wantReview {
				t.Errorf("expert review = %v, want %v", agg.ExpertReviewRequired, tt.wantReview)
			}

			s := agg.Summary
			if s.Total != len(tt.verdicts) || s.HalalCount+s.HaramCount+s.MashboohCount+s.UncertainCount != s.Total {
				t.Errorf("summary inconsistent: %+v", s)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	got := workflow.Summarize(verdicts(halal, haram, mashbooh, uncertain, halal, uncertain))
	want := workflow.Summary{Total: 6, HalalCount: 2, HaramCount: 1, MashboohCount: 1, UncertainCount: 2}
	if got != want {
		t.Errorf("Summarize() = %+v, want %+v", got, want)
	}
}

func TestRecommendations(t *testing.T) {
	t.Run("haram names offending ingredients", func(t *testing.T) {
		vs := []workflow.IngredientVerdict{verdict("Pork gelatin", haram, false), verdict("Salt", halal, false)}
		agg := workflow.Aggregate(vs)

		joined := strings.Join(agg.Recommendations, "\n")
		if !strings.Contains(joined, "not suitable for halal consumption") {
			t.Errorf("missing haram warning: %q", agg.Recommendations)
		}
		if !strings.Contains(joined, "Pork gelatin") {
			t.Errorf("missing offending ingredient: %q", agg.Recommendations)
		}
	})

	t.Run("mashbooh asks for certificates", func(t *testing.T) {
		vs := []workflow.IngredientVerdict{verdict("E471", mashbooh, false)}
		recs := workflow.Aggregate(vs).Recommendations

		if len(recs) == 0 || !strings.Contains(recs[0], "certificates") || !strings.Contains(recs[0], "E471") {
			t.Errorf("recommendations = %q", recs)
		}
	})

	t.Run("review recommended when required", func(t *testing.T) {
		recs := workflow.Aggregate(verdicts(uncertain)).Recommendations
		if !strings.Contains(strings.Join(recs, "\n"), "halal authority") {
			t.Errorf("recommendations = %q", recs)
		}
	})

	t.Run("all halal affirms suitability", func(t *testing.T) {
		recs := workflow.Aggregate(verdicts(halal, halal)).Recommendations
		if len(recs) != 1 || !strings.Contains(recs[0], "suitable for halal consumption") {
			t.Errorf("recommendations = %q", recs)
		}
	})
}

func TestDegraded(t *testing.T) {
	low := verdict("x", halal, false)
	low.Confidence = 0.4

	fallback := verdict("y", uncertain, true)
	fallback.Source = workflow.SourceFallback

	tests := []struct {
		name     string
		verdicts []workflow.IngredientVerdict
		want     bool
	}{
		{"empty", nil, true},
		{"confident", verdicts(halal, haram), false},
		{"low confidence", []workflow.IngredientVerdict{low}, true},
		{"fallback", []workflow.IngredientVerdict{verdict("z", halal, false), fallback}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := workflow.Degraded(tt.verdicts); got != tt.want {
				t.Errorf("Degraded() = %v, want %v", got, tt.want)
			}
		})
	}
}
