// core/cpois/cpois.go
// Package cpois approximates the number of motif hits in a set of regions
// by a compound Poisson distribution: a Poisson number of clumps, each
// holding a random number of overlapping hits.
//
// The approximation assumes hits are rare. When alpha is relaxed clumps
// start to touch and the model overestimates the hit count; use the
// combinatorial model there.
package cpois

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/matthuska/motifcounter/core/errs"
	"github.com/matthuska/motifcounter/core/hitcount"
	"github.com/matthuska/motifcounter/core/overlap"
)

// maxLambda keeps exp(-lambda) clear of underflow in the Panjer recursion.
// Larger rates are split in halves and recombined by convolution.
const maxLambda = 500

// Compute returns the hit-count distribution for regions of the given
// lengths. maxHits <= 0 picks a bound from the mean and variance.
func Compute(ov *overlap.Set, lengths []int, maxHits int) (*hitcount.Distribution, error) {
	if ov == nil || ov.Len() == 0 {
		return nil, fmt.Errorf("cpois: overlap set is required: %w", errs.ErrValidation)
	}
	for i, r := range lengths {
		if r < 0 {
			return nil, fmt.Errorf("cpois: region %d has negative length %d: %w", i, r, errs.ErrValidation)
		}
	}
	ch := ov.Chain()
	lambda := Lambda(ov, lengths)

	mom, err := ch.Moments()
	if err != nil {
		return nil, err
	}
	if maxHits <= 0 {
		maxHits = hitcount.Bound(lambda*mom.MeanSize, lambda*mom.SizeSecond)
	}

	sizes := ch.Sizes(maxHits)
	rate, halvings := lambda, 0
	for rate > maxLambda {
		rate /= 2
		halvings++
	}
	head := panjer(rate, sizes, maxHits)
	for ; halvings > 0; halvings-- {
		head = hitcount.ConvolveHeads(head, head)
	}
	d, err := hitcount.FromHead(head)
	if err != nil {
		return nil, err
	}
	return d, d.Check()
}

// Lambda is the expected number of clumps in regions of the given lengths.
func Lambda(ov *overlap.Set, lengths []int) float64 {
	ch := ov.Chain()
	lambda := 0.0
	for _, r := range lengths {
		lambda += ch.Clumps(r - ov.Len() + 1)
	}
	return lambda
}

// panjer returns P(X = n), n < maxHits, for X a Poisson(lambda) sum of
// clump sizes drawn from f, f[0] == 0.
func panjer(lambda float64, f []float64, maxHits int) []float64 {
	p := make([]float64, maxHits)
	if lambda == 0 {
		p[0] = 1
		return p
	}
	p[0] = distuv.Poisson{Lambda: lambda}.Prob(0)
	for n := 1; n < maxHits; n++ {
		acc := 0.0
		for j := 1; j <= n && j < len(f); j++ {
			acc += float64(j) * f[j] * p[n-j]
		}
		p[n] = lambda / float64(n) * acc
	}
	return p
}
