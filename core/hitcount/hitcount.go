// core/hitcount/hitcount.go
// Package hitcount holds distributions over the number of motif hits in a
// set of regions.
package hitcount

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/matthuska/motifcounter/core/errs"
)

// Tolerance bounds |Σ Probs − 1|.
const Tolerance = 1e-6

// Distribution is P(X = n) for n = 0..MaxHits-1; the last entry is the
// upper tail P(X >= MaxHits).
type Distribution struct {
	Probs []float64
}

// FromHead builds a distribution from exact probabilities of counts
// 0..len(head)-1 and appends the remaining mass as the tail bin.
func FromHead(head []float64) (*Distribution, error) {
	if len(head) == 0 {
		return nil, fmt.Errorf("hitcount: empty distribution: %w", errs.ErrValidation)
	}
	probs := make([]float64, len(head)+1)
	copy(probs, head)
	for i, p := range probs[:len(head)] {
		if p < 0 {
			if p < -Tolerance {
				return nil, fmt.Errorf("hitcount: negative probability %g at count %d: %w", p, i, errs.ErrNumericTolerance)
			}
			probs[i] = 0
		}
	}
	rest := 1 - floats.Sum(probs)
	if rest < -Tolerance {
		return nil, fmt.Errorf("hitcount: head mass exceeds one by %g: %w", -rest, errs.ErrNumericTolerance)
	}
	probs[len(head)] = max(rest, 0)
	return &Distribution{Probs: probs}, nil
}

// MaxHits is the count of the tail bin.
func (d *Distribution) MaxHits() int { return len(d.Probs) - 1 }

// Counts returns the count axis 0..MaxHits.
func (d *Distribution) Counts() []int {
	c := make([]int, len(d.Probs))
	for i := range c {
		c[i] = i
	}
	return c
}

// Sum is the total mass.
func (d *Distribution) Sum() float64 { return floats.Sum(d.Probs) }

// Check fails with ErrNumericTolerance when the mass is not one.
func (d *Distribution) Check() error {
	if s := d.Sum(); math.Abs(s-1) > Tolerance {
		return fmt.Errorf("hitcount: distribution sums to %.12g: %w", s, errs.ErrNumericTolerance)
	}
	return nil
}

// Mean is E[X], counting the tail bin at MaxHits. It is a lower bound on
// the untruncated mean whenever the tail bin carries mass; size MaxHits
// with Bound to make the difference negligible.
func (d *Distribution) Mean() float64 {
	m := 0.0
	for n, p := range d.Probs {
		m += float64(n) * p
	}
	return m
}

// Variance is Var[X], counting the tail bin at MaxHits.
func (d *Distribution) Variance() float64 {
	mu := d.Mean()
	v := 0.0
	for n, p := range d.Probs {
		x := float64(n) - mu
		v += x * x * p
	}
	return v
}

// Tail returns P(X >= k).
func (d *Distribution) Tail(k int) float64 {
	if k <= 0 {
		return 1
	}
	if k > d.MaxHits() {
		return 0
	}
	t := 0.0
	for i := len(d.Probs) - 1; i >= k; i-- {
		t += d.Probs[i]
	}
	return t
}

// ConvolveHeads convolves two exact heads and keeps len(a) entries.
func ConvolveHeads(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i, x := range a {
		if x == 0 {
			continue
		}
		for j := 0; i+j < len(out) && j < len(b); j++ {
			out[i+j] += x * b[j]
		}
	}
	return out
}

// Convolve returns the distribution of the sum of independent counts,
// truncated to the smaller MaxHits.
func Convolve(a, b *Distribution) (*Distribution, error) {
	m := min(a.MaxHits(), b.MaxHits())
	return FromHead(ConvolveHeads(a.Probs[:m], b.Probs[:m]))
}

// Power returns the distribution of the sum of n independent copies of d.
func Power(d *Distribution, n int) (*Distribution, error) {
	m := d.MaxHits()
	out := make([]float64, m)
	out[0] = 1
	base := d.Probs[:m]
	for ; n > 0; n >>= 1 {
		if n&1 == 1 {
			out = ConvolveHeads(out, base)
		}
		if n > 1 {
			base = ConvolveHeads(base, base)
		}
	}
	return FromHead(out)
}

// Bound picks a MaxHits large enough to hold all but a negligible tail of
// a count with the given mean and variance.
func Bound(mean, variance float64) int {
	return int(math.Ceil(mean+12*math.Sqrt(max(variance, 0)))) + 10
}
