package ingredients_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/halalcheck/halalcheck/internal/ingredients"
)

func ptr[T any](v T) *T { return &v }

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    ingredients.Status
		wantErr bool
	}{
		{"HALAL", ingredients.StatusHalal, false},
		{"haram", ingredients.StatusHaram, false},
		{" Mashbooh ", ingredients.StatusMashbooh, false},
		{"UNCERTAIN", ingredients.StatusUncertain, false},
		{"KOSHER", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ingredients.ParseStatus(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ingredients.ErrInvalidStatus) {
					t.Errorf("ParseStatus(%q) error = %v, want ErrInvalidStatus", tt.input, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseStatus(%q) = %q, %v; want %q", tt.input, got, err, tt.want)
			}
		})
	}
}

func TestRiskLevelUnmarshalJSON(t *testing.T) {
	var r ingredients.RiskLevel
	if err := json.Unmarshal([]byte(`"medium"`), &r); err != nil || r != ingredients.RiskMedium {
		t.Errorf("Unmarshal(medium) = %q, %v", r, err)
	}
	if err := json.Unmarshal([]byte(`"SEVERE"`), &r); !errors.Is(err, ingredients.ErrInvalidRiskLevel) {
		t.Errorf("Unmarshal(SEVERE) error = %v, want ErrInvalidRiskLevel", err)
	}
}

func TestIsENumber(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"E120", true},
		{"e471", true},
		{"E160a", true},
		{" E322 ", true},
		{"E", false},
		{"E12x3", false},
		{"E 120", false},
		{"beef", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ingredients.IsENumber(tt.input); got != tt.want {
				t.Errorf("IsENumber(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestMatchConfidence(t *testing.T) {
	ing := ingredients.Ingredient{Name: "Gelatin", Confidence: 0.9}

	exact := ingredients.Match{Ingredient: ing, Tier: ingredients.TierExact}
	if got := exact.Confidence(); got != 0.9 {
		t.Errorf("exact Confidence() = %v, want 0.9", got)
	}

	fuzzy := ingredients.Match{Ingredient: ing, Tier: ingredients.TierSimilarity, Similarity: 0.74}
	if got := fuzzy.Confidence(); got != 0.74 {
		t.Errorf("similarity Confidence() = %v, want 0.74", got)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", ingredients.ErrNotFound, http.StatusNotFound},
		{"no match", ingredients.ErrNoMatch, http.StatusNotFound},
		{"duplicate", ingredients.ErrDuplicate, http.StatusConflict},
		{"invalid status", ingredients.ErrInvalidStatus, http.StatusBadRequest},
		{"invalid e-number", fmt.Errorf("create: %w", ingredients.ErrInvalidENumber), http.StatusBadRequest},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ingredients.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFiltersFromQuery(t *testing.T) {
	f := ingredients.FiltersFromQuery(url.Values{
		"status":                 {"mashbooh"},
		"risk_level":             {"bogus"},
		"category":               {"emulsifier"},
		"requires_expert_review": {"true"},
	})

	if f.Status == nil || *f.Status != ingredients.StatusMashbooh {
		t.Errorf("Status = %v, want MASHBOOH", f.Status)
	}
	if f.RiskLevel != nil {
		t.Errorf("RiskLevel = %v, want nil for invalid value", *f.RiskLevel)
	}
	if f.Category == nil || *f.Category != "emulsifier" {
		t.Errorf("Category = %v, want emulsifier", f.Category)
	}
	if f.ExpertReview == nil || !*f.ExpertReview {
		t.Errorf("ExpertReview = %v, want true", f.ExpertReview)
	}
}
