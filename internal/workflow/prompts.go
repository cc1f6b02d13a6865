package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/halalcheck/halalcheck/internal/prompts"
)

// ComposePrompt builds a prompt by combining tunable instructions, the
// immutable output spec, and the stage input for a given workflow stage.
func ComposePrompt(
	ctx context.Context,
	ps Prompts,
	stage prompts.Stage,
	input string,
) (string, error) {
	instructions, err := ps.Instructions(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load instructions for %s: %w", stage, err)
	}

	spec, err := ps.Spec(stage)
	if err != nil {
		return "", fmt.Errorf("load spec for %s: %w", stage, err)
	}

	var sb strings.Builder
	sb.WriteString(instructions)
	sb.WriteString("\n\n")
	sb.WriteString(spec)
	sb.WriteString("\n\n")
	sb.WriteString(input)

	return sb.String(), nil
}

func parseInput(rawText, language string) string {
	return fmt.Sprintf("Language: %s\n\nIngredient list:\n%s", orUnspecified(language), rawText)
}

func classifyInput(name string, req Request) string {
	return fmt.Sprintf(
		"Ingredient: %s\nLanguage: %s\nRegion: %s\nCertification standard: %s",
		name,
		orUnspecified(req.Language),
		orUnspecified(req.Region),
		orUnspecified(req.CertificationStandard),
	)
}

func orUnspecified(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "unspecified"
	}
	return s
}
