// Package workflow implements the ingredient analysis pipeline. A state graph
// runs parse → classify → aggregate for one product; every stage degrades on
// upstream failure instead of aborting the analysis.
package workflow

import (
	"errors"
	"fmt"
)

// Sentinel errors for workflow operations.
var (
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrMalformedReply      = errors.New("malformed upstream reply")
	ErrInvalidState        = errors.New("invalid workflow state")
)

// ClassifyTier names the resolution step that failed for an ingredient.
type ClassifyTier string

const (
	TierReference  ClassifyTier = "reference"
	TierGenerative ClassifyTier = "generative"
)

// ClassificationError reports why an ingredient verdict was synthesized
// rather than resolved. The accompanying verdict is still well formed.
type ClassificationError struct {
	Ingredient string
	Tier       ClassifyTier
	Err        error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classify %q (%s tier): %v", e.Ingredient, e.Tier, e.Err)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}
