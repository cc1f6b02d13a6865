package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/halalcheck/halalcheck/internal/ingredients"
	"github.com/halalcheck/halalcheck/internal/prompts"
	"github.com/halalcheck/halalcheck/pkg/formatting"
)

const (
	referenceFailureConfidence  = 0.1
	generativeFailureConfidence = 0.3
)

type classifyResponse struct {
	StandardName         string   `json:"standard_name"`
	Status               string   `json:"status"`
	RiskLevel            string   `json:"risk_level"`
	Confidence           *float64 `json:"confidence"`
	Reasoning            string   `json:"reasoning"`
	RequiresExpertReview bool     `json:"requires_expert_review"`
	Warnings             []string `json:"warnings"`
	Suggestions          []string `json:"suggestions"`
	ENumbers             []string `json:"e_numbers"`
	Categories           []string `json:"categories"`
}

// ClassifyNode returns a state node that classifies the parsed ingredients
// one at a time. Calls are spaced by the runtime limiter; every ingredient
// receives exactly one verdict, in parse order.
func ClassifyNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		req, err := extract[Request](s, KeyRequest)
		if err != nil {
			return s, fmt.Errorf("classify: %w", err)
		}

		names, err := extract[[]string](s, KeyIngredients)
		if err != nil {
			return s, fmt.Errorf("classify: %w", err)
		}

		verdicts := ClassifyAll(ctx, rt, names, req)

		rt.Logger.InfoContext(
			ctx, "classify node complete",
			"ingredient_count", len(verdicts),
		)

		s = s.Set(KeyVerdicts, verdicts)
		return s, nil
	})
}

// ClassifyAll classifies names sequentially. When ctx ends mid-loop the
// remaining names receive fallback verdicts.
func ClassifyAll(ctx context.Context, rt *Runtime, names []string, req Request) []IngredientVerdict {
	verdicts := make([]IngredientVerdict, 0, len(names))

	for _, name := range names {
		if err := rt.pace(ctx); err != nil {
			verdicts = append(verdicts, fallbackVerdict(
				name,
				referenceFailureConfidence,
				"Analysis was interrupted before this ingredient could be classified.",
			))
			continue
		}

		v, err := Classify(ctx, rt, name, req)
		if err != nil {
			rt.Logger.WarnContext(ctx, "ingredient degraded", "ingredient", name, "error", err)
		}
		verdicts = append(verdicts, v)
	}

	return verdicts
}

// Classify resolves one ingredient: the reference table first, the
// generative rubric only when the table has no match. The verdict is always
// well formed; a non-nil *ClassificationError marks it as synthesized.
func Classify(ctx context.Context, rt *Runtime, name string, req Request) (IngredientVerdict, error) {
	match, err := rt.Lookup.Lookup(ctx, name, req.Language)
	if err != nil {
		v := fallbackVerdict(
			name,
			referenceFailureConfidence,
			"Reference lookup failed; the ingredient could not be verified and needs manual review.",
		)
		return v, &ClassificationError{
			Ingredient: name,
			Tier:       TierReference,
			Err:        fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err),
		}
	}
	if match != nil {
		return fromMatch(name, match), nil
	}

	v, err := classifyGenerative(ctx, rt, name, req)
	if err != nil {
		reason := "Automated classification was unavailable; the ingredient needs manual review."
		if errors.Is(err, ErrMalformedReply) {
			reason = "Automated classification returned an unreadable verdict; the ingredient needs manual review."
		}
		return fallbackVerdict(name, generativeFailureConfidence, reason), &ClassificationError{
			Ingredient: name,
			Tier:       TierGenerative,
			Err:        err,
		}
	}

	return v, nil
}

func classifyGenerative(ctx context.Context, rt *Runtime, name string, req Request) (IngredientVerdict, error) {
	prompt, err := ComposePrompt(ctx, rt.Prompts, prompts.StageClassify, classifyInput(name, req))
	if err != nil {
		return IngredientVerdict{}, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}

	content, err := rt.generate(ctx, prompt, GenerateOptions{
		Temperature: rt.Config.ClassifyTemperature,
		MaxTokens:   rt.Config.ClassifyMaxTokens,
		JSON:        true,
	})
	if err != nil {
		return IngredientVerdict{}, err
	}

	parsed, err := formatting.Parse[classifyResponse](content)
	if err != nil {
		return IngredientVerdict{}, fmt.Errorf("%w: %w", ErrMalformedReply, err)
	}

	return fromResponse(name, parsed)
}

func fromMatch(name string, m *ingredients.Match) IngredientVerdict {
	ing := m.Ingredient
	return IngredientVerdict{
		DetectedName:         name,
		StandardName:         ing.Name,
		Status:               ing.Status,
		RiskLevel:            ing.RiskLevel,
		Confidence:           clamp(m.Confidence()),
		Reasoning:            orDefault(ing.Reasoning, "Matched a reference ingredient."),
		RequiresExpertReview: ing.RequiresExpertReview || ing.Status == ingredients.StatusUncertain,
		Warnings:             nonNil(ing.Warnings),
		Suggestions:          nonNil(ing.Suggestions),
		Source:               SourceDatabase,
		MatchTier:            m.Tier,
		ENumbers:             nonNil(ing.ENumbers),
		Categories:           nonNil(ing.Categories),
	}
}

func fromResponse(name string, r classifyResponse) (IngredientVerdict, error) {
	status, err := ingredients.ParseStatus(r.Status)
	if err != nil {
		return IngredientVerdict{}, fmt.Errorf("%w: %w", ErrMalformedReply, err)
	}

	risk, err := ingredients.ParseRiskLevel(r.RiskLevel)
	if err != nil {
		risk = defaultRisk(status)
	}

	confidence := 0.5
	if r.Confidence != nil {
		confidence = clamp(*r.Confidence)
	}

	return IngredientVerdict{
		DetectedName:         name,
		StandardName:         orDefault(r.StandardName, name),
		Status:               status,
		RiskLevel:            risk,
		Confidence:           confidence,
		Reasoning:            orDefault(r.Reasoning, "Classified by the language model without a stated reason."),
		RequiresExpertReview: r.RequiresExpertReview || status == ingredients.StatusUncertain,
		Warnings:             nonNil(r.Warnings),
		Suggestions:          nonNil(r.Suggestions),
		Source:               SourceAI,
		ENumbers:             upper(r.ENumbers),
		Categories:           nonNil(r.Categories),
	}, nil
}

func fallbackVerdict(name string, confidence float64, reasoning string) IngredientVerdict {
	return IngredientVerdict{
		DetectedName:         name,
		StandardName:         name,
		Status:               ingredients.StatusUncertain,
		RiskLevel:            ingredients.RiskMedium,
		Confidence:           confidence,
		Reasoning:            reasoning,
		RequiresExpertReview: true,
		Warnings:             []string{"Verification required: this ingredient was not classified automatically."},
		Suggestions:          []string{"Request a halal certificate or specification sheet from the supplier."},
		Source:               SourceFallback,
		ENumbers:             []string{},
		Categories:           []string{},
	}
}

func defaultRisk(s ingredients.Status) ingredients.RiskLevel {
	switch s {
	case ingredients.StatusHaram:
		return ingredients.RiskHigh
	case ingredients.StatusHalal:
		return ingredients.RiskLow
	default:
		return ingredients.RiskMedium
	}
}

func clamp(f float64) float64 {
	return min(max(f, 0), 1)
}

func orDefault(s, fallback string) string {
	if s = strings.TrimSpace(s); s == "" {
		return fallback
	}
	return s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func upper(s []string) []string {
	out := make([]string, 0, len(s))
	for _, v := range s {
		if v = strings.ToUpper(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}
