package similarity

import (
	"fmt"

	"github.com/ewilliams-labs/resonate/internal/core/domain"
)

// Weights holds per-dimension multipliers for the weighted strategy.
// A missing dimension weighs 1.0. Valid weights lie in [0,10].
type Weights map[string]float64

// Get returns the weight for a dimension, defaulting to 1.0.
func (w Weights) Get(dim string) float64 {
	if w == nil {
		return 1.0
	}
	if v, ok := w[dim]; ok {
		return v
	}
	return 1.0
}

// Validate checks that every weight names a known dimension and lies
// within [0,10].
func (w Weights) Validate() error {
	known := make(map[string]struct{}, len(domain.FeatureDimensions))
	for _, dim := range domain.FeatureDimensions {
		known[dim] = struct{}{}
	}
	for dim, v := range w {
		if _, ok := known[dim]; !ok {
			return fmt.Errorf("similarity: unknown weight dimension %q", dim)
		}
		if v < 0 || v > 10 {
			return fmt.Errorf("similarity: weight for %q must be in [0,10], got %g", dim, v)
		}
	}
	return nil
}
