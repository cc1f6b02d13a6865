package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// Execute runs the analysis workflow for a single product. It builds the
// state graph (parse → classify → aggregate), executes it, and assembles the
// Result from the final state. Per-ingredient and parse failures degrade the
// result instead of returning an error; only graph failures are returned.
func Execute(ctx context.Context, rt *Runtime, req Request) (*Result, error) {
	id := uuid.New()
	started := time.Now()

	graph, err := buildGraph(rt)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	initialState := state.New(nil)
	initialState = initialState.Set(KeyRequest, req)

	finalState, err := graph.Execute(ctx, initialState)
	if err != nil {
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	result, err := extractResult(finalState)
	if err != nil {
		return nil, err
	}

	result.ID = id
	result.AnalyzedAt = time.Now().UTC()
	result.ProcessingTimeMs = time.Since(started).Milliseconds()

	if result.Degraded {
		rt.Logger.WarnContext(
			ctx, "analysis degraded",
			"analysis_id", id,
			"total", result.Summary.Total,
		)
	}

	return result, nil
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("halalcheck-analysis")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("parse", ParseNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("classify", ClassifyNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("aggregate", AggregateNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("parse", "classify", nil); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("classify", "aggregate", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("parse"); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint("aggregate"); err != nil {
		return nil, err
	}

	return graph, nil
}

func extractResult(s state.State) (*Result, error) {
	req, err := extract[Request](s, KeyRequest)
	if err != nil {
		return nil, err
	}

	verdicts, err := extract[[]IngredientVerdict](s, KeyVerdicts)
	if err != nil {
		return nil, err
	}

	agg, err := extract[Aggregation](s, KeyAggregation)
	if err != nil {
		return nil, err
	}

	return &Result{
		Request:              req,
		OverallStatus:        agg.OverallStatus,
		OverallRiskLevel:     agg.OverallRiskLevel,
		Ingredients:          verdicts,
		Summary:              agg.Summary,
		Recommendations:      agg.Recommendations,
		ExpertReviewRequired: agg.ExpertReviewRequired,
		Degraded:             Degraded(verdicts),
	}, nil
}

// Degraded reports whether a result should be read with caution: nothing
// was detected, or at least one verdict is synthesized or low confidence.
func Degraded(verdicts []IngredientVerdict) bool {
	if len(verdicts) == 0 {
		return true
	}
	for _, v := range verdicts {
		if v.Degraded() {
			return true
		}
	}
	return false
}

func extract[T any](s state.State, key string) (T, error) {
	var zero T

	val, ok := s.Get(key)
	if !ok {
		return zero, fmt.Errorf("%w: missing %s in state", ErrInvalidState, key)
	}

	v, ok := val.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s is %T", ErrInvalidState, key, val)
	}

	return v, nil
}
