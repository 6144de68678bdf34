// internal/estimate/estimate.go
// Package estimate fits an order-d background model to sequences.
package estimate

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/matthuska/motifcounter/core/background"
	"github.com/matthuska/motifcounter/core/dna"
	"github.com/matthuska/motifcounter/core/errs"
)

// DefaultPseudocount is added to every (d+1)-mer count.
const DefaultPseudocount = 1.0

// Options control estimation.
type Options struct {
	Order       int
	Pseudocount float64
	// SingleStrand counts only the given strand; by default the reverse
	// complement is counted as well, which makes the model strand-symmetric.
	SingleStrand bool
}

// Counter accumulates (d+1)-mer counts.
type Counter struct {
	o      Options
	counts []float64 // (d+1)-mer code → count
}

// NewCounter returns an empty counter.
func NewCounter(o Options) (*Counter, error) {
	if o.Order < 0 || o.Order > background.MaxOrder {
		return nil, fmt.Errorf("estimate: order %d outside 0..%d: %w", o.Order, background.MaxOrder, errs.ErrValidation)
	}
	if o.Pseudocount == 0 {
		o.Pseudocount = DefaultPseudocount
	}
	if o.Pseudocount < 0 {
		return nil, fmt.Errorf("estimate: negative pseudocount %g: %w", o.Pseudocount, errs.ErrValidation)
	}
	return &Counter{o: o, counts: make([]float64, dna.Pow(o.Order+1))}, nil
}

// Add counts every window of d+1 unambiguous symbols in seq.
func (c *Counter) Add(seq []byte) {
	c.add(dna.Encode(seq))
	if !c.o.SingleStrand {
		c.add(dna.Encode(dna.RevComp(seq)))
	}
}

func (c *Counter) add(codes []int8) {
	k := c.o.Order + 1
	mask := dna.Pow(k) - 1
	word, run := 0, 0
	for _, x := range codes {
		if x < 0 {
			word, run = 0, 0
			continue
		}
		word = (word*dna.K + int(x)) & mask
		if run++; run >= k {
			c.counts[word]++
		}
	}
}

// Model normalizes the counts into a validated model. The stationary
// vector is the fixed point of the estimated chain.
func (c *Counter) Model() (*background.Model, error) {
	n := dna.Pow(c.o.Order)
	trans := make([][dna.K]float64, n)
	freq := make([]float64, n)
	for ctx := 0; ctx < n; ctx++ {
		sum := 0.0
		for a := 0; a < dna.K; a++ {
			v := c.counts[ctx*dna.K+a] + c.o.Pseudocount
			trans[ctx][a] = v
			sum += v
		}
		for a := range trans[ctx] {
			trans[ctx][a] /= sum
		}
		freq[ctx] = sum
	}
	floats.Scale(1/floats.Sum(freq), freq)
	return background.New(c.o.Order, stationary(c.o.Order, freq, trans), trans)
}

// stationary iterates the chain on d-contexts from start until it settles.
func stationary(order int, start []float64, trans [][dna.K]float64) []float64 {
	n := len(start)
	pi := append([]float64(nil), start...)
	if order == 0 {
		return pi
	}
	next := make([]float64, n)
	for it := 0; it < 10000; it++ {
		clear(next)
		for ctx, p := range pi {
			for a := 0; a < dna.K; a++ {
				next[(ctx*dna.K+a)&(n-1)] += p * trans[ctx][a]
			}
		}
		floats.Scale(1/floats.Sum(next), next)
		diff := floats.Distance(pi, next, math.Inf(1))
		pi, next = next, pi
		if diff < 1e-15 {
			break
		}
	}
	return pi
}

// FromSequences estimates a model from seqs.
func FromSequences(ctx context.Context, seqs [][]byte, o Options) (*background.Model, error) {
	c, err := NewCounter(o)
	if err != nil {
		return nil, err
	}
	for _, s := range seqs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c.Add(s)
	}
	return c.Model()
}
