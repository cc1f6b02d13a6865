package workflow

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/halalcheck/halalcheck/internal/prompts"
)

var (
	listMarker  = regexp.MustCompile(`^(?:\d+\s*[.):]|[-*•·])\s*`)
	fallbackSep = regexp.MustCompile(`[,;]`)
)

// ParseNode returns a state node that splits the request's ingredient text
// into individual ingredient names.
func ParseNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		req, err := extract[Request](s, KeyRequest)
		if err != nil {
			return s, fmt.Errorf("parse: %w", err)
		}

		names := Parse(ctx, rt, req.IngredientText, req.Language)

		rt.Logger.InfoContext(
			ctx, "parse node complete",
			"ingredient_count", len(names),
		)

		s = s.Set(KeyIngredients, names)
		return s, nil
	})
}

// Parse asks the generator for one canonical ingredient name per line. Any
// backend failure or empty reply falls back to splitting rawText on commas
// and semicolons. The result never exceeds the configured ingredient cap.
func Parse(ctx context.Context, rt *Runtime, rawText, language string) []string {
	if strings.TrimSpace(rawText) == "" {
		return []string{}
	}

	names, err := parseWithGenerator(ctx, rt, rawText, language)
	if err != nil {
		rt.Logger.WarnContext(ctx, "parse fell back to naive split", "error", err)
		return splitFallback(rawText, rt.maxIngredients())
	}
	if len(names) == 0 {
		rt.Logger.WarnContext(ctx, "parse reply was empty, falling back to naive split")
		return splitFallback(rawText, rt.maxIngredients())
	}

	return names
}

func parseWithGenerator(ctx context.Context, rt *Runtime, rawText, language string) ([]string, error) {
	prompt, err := ComposePrompt(ctx, rt.Prompts, prompts.StageParse, parseInput(rawText, language))
	if err != nil {
		return nil, err
	}

	content, err := rt.generate(ctx, prompt, GenerateOptions{
		Temperature: rt.Config.ParseTemperature,
		MaxTokens:   rt.Config.ParseMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	return parseLines(content, rt.maxIngredients()), nil
}

// parseLines keeps one name per non-empty line, stripping list numbering
// and bullets. Lines that are only a marker are dropped.
func parseLines(content string, limit int) []string {
	names := make([]string, 0)
	for line := range strings.SplitSeq(content, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(listMarker.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}

		names = append(names, line)
		if len(names) == limit {
			break
		}
	}
	return names
}

func splitFallback(rawText string, limit int) []string {
	names := make([]string, 0)
	for _, part := range fallbackSep.Split(rawText, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		names = append(names, part)
		if len(names) == limit {
			break
		}
	}
	return names
}
