package footprint

import (
	"fmt"
	"math"

	"greenmetrics.io/carbontrack/pkg/apperror"
)

// Submission maps category name to the reported quantity for one day.
type Submission map[string]float64

// Result is the scored outcome of a single submission.
type Result struct {
	Total      float64            `json:"total"`
	Breakdown  map[string]float64 `json:"breakdown"`
	Comparison float64            `json:"comparison"`
}

// Score computes the weighted footprint of a submission against the
// catalog. Pure function: no side effects, same inputs same outputs.
//
// Every catalog category must be present with a non-negative finite
// quantity, and no key outside the catalog is accepted.
func Score(sub Submission) (*Result, error) {
	for name := range sub {
		if _, ok := emissionFactors[name]; !ok {
			return nil, fmt.Errorf("%w: unknown category %q", apperror.ErrValidation, name)
		}
	}

	breakdown := make(map[string]float64, len(categories))
	total := 0.0
	for _, name := range categories {
		qty, ok := sub[name]
		if !ok {
			return nil, fmt.Errorf("%w: missing category %q", apperror.ErrValidation, name)
		}
		if qty < 0 || math.IsNaN(qty) || math.IsInf(qty, 0) {
			return nil, fmt.Errorf("%w: quantity for %q must be a non-negative number", apperror.ErrValidation, name)
		}

		contribution := qty * emissionFactors[name]
		breakdown[name] = contribution
		total += contribution
	}

	return &Result{
		Total:      total,
		Breakdown:  breakdown,
		Comparison: (total / AverageBaseline) * 100,
	}, nil
}
