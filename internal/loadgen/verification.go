package loadgen

import (
	"fmt"

	"github.com/birdiedeals/birdie/internal/domain/model"
)

// verifyRecommendation checks the envelope invariants a client relies on:
// unique deals, scores in [0,1] and non-increasing, a non-empty reasoning, and
// a gap analysis only when a gap was found.
func verifyRecommendation(rec *model.Recommendation) error {
	if rec.Reasoning == "" {
		return fmt.Errorf("%w: empty reasoning", ErrViolation)
	}
	if rec.Deals == nil {
		return fmt.Errorf("%w: deals must be a list", ErrViolation)
	}

	seen := make(map[string]struct{}, len(rec.Deals))
	prev := 1.0
	for i, d := range rec.Deals {
		if _, dup := seen[d.ID]; dup {
			return fmt.Errorf("%w: deal %s listed twice", ErrViolation, d.ID)
		}
		seen[d.ID] = struct{}{}

		if d.MatchScore == nil {
			return fmt.Errorf("%w: deal %s has no match score", ErrViolation, d.ID)
		}
		score := *d.MatchScore
		if score < 0 || score > 1 {
			return fmt.Errorf("%w: deal %s score %.2f out of range", ErrViolation, d.ID, score)
		}
		if i > 0 && score > prev {
			return fmt.Errorf("%w: deal %s ranked below a lower score", ErrViolation, d.ID)
		}
		prev = score
	}

	if rec.GappingAnalysis != nil && !rec.GappingAnalysis.HasGap {
		return fmt.Errorf("%w: gap analysis attached without a gap", ErrViolation)
	}
	return nil
}
