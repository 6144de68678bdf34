// core/enrich/enrich.go
// Package enrich tests an observed hit count against a hit-count
// distribution.
package enrich

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/matthuska/motifcounter/core/errs"
	"github.com/matthuska/motifcounter/core/hitcount"
)

// Result of one enrichment test.
type Result struct {
	Observed int
	// Expected is d.Mean(). A tail bin with mass biases it low, so d
	// should be sized with hitcount.Bound.
	Expected float64
	PValue   float64 // P(X >= Observed)
	Fold     float64 // Observed / Expected
	// PoissonPValue is P(Y >= Observed) for Y ~ Poisson(Expected), which
	// ignores clumping.
	PoissonPValue float64
}

// Test computes the upper-tail p-value and fold enrichment. observed must
// lie below the distribution's tail bin, or on it.
func Test(d *hitcount.Distribution, observed int) (Result, error) {
	if d == nil || len(d.Probs) == 0 {
		return Result{}, fmt.Errorf("enrich: hit-count distribution is required: %w", errs.ErrValidation)
	}
	if observed < 0 {
		return Result{}, fmt.Errorf("enrich: negative observed count %d: %w", observed, errs.ErrValidation)
	}
	if observed > d.MaxHits() {
		return Result{}, fmt.Errorf("enrich: observed count %d beyond distribution support %d: %w", observed, d.MaxHits(), errs.ErrValidation)
	}
	mean := d.Mean()
	r := Result{
		Observed:      observed,
		Expected:      mean,
		PValue:        min(d.Tail(observed), 1),
		Fold:          math.Inf(1),
		PoissonPValue: poissonTail(mean, observed),
	}
	if mean > 0 {
		r.Fold = float64(observed) / mean
	} else if observed == 0 {
		r.Fold = math.NaN()
	}
	return r, nil
}

func poissonTail(mean float64, k int) float64 {
	if k <= 0 {
		return 1
	}
	if mean <= 0 {
		return 0
	}
	return distuv.Poisson{Lambda: mean}.Survival(float64(k - 1))
}
