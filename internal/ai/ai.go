package ai

import (
	"context"

	"github.com/venturemap/vc-matcher/internal/profile"
)

// Analysis is the scored outcome of one founder/investor evaluation. Score is
// always an integer in [0,100]; evaluations that cannot produce one never yield
// an Analysis.
type Analysis struct {
	Score     int
	Reasoning string
	Raw       string
}

// Evaluator scores a single founder/investor pair. A non-nil error means the
// pair could not be scored; callers drop the pair instead of failing the run.
type Evaluator interface {
	Evaluate(ctx context.Context, founder *profile.Founder, investor *profile.Investor) (*Analysis, error)
}
