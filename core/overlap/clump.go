// core/overlap/clump.go
package overlap

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/matthuska/motifcounter/core/errs"
)

// Hit types. Reverse exists only for double-stranded sets.
const (
	Forward = 0
	Reverse = 1
)

// maxClumpSize bounds the size series in Moments.
const maxClumpSize = 1 << 16

// Chain models a clump as a run of hits where each hit is directly followed
// by another with the peeled beta probabilities, or ends the clump.
type Chain struct {
	set   *Set
	Types int
	Alpha []float64 // per-type hit probability per position
	// Next[s][t] = Σ_j beta_st(j), each row scaled down to at most 1
	Next  [][]float64
	Kill  []float64 // 1 - Σ_t Next[s][t]
	Theta []float64 // clump starts per position, by first hit type
	Edge  []float64 // clump starts at the first position of a region
	scale []float64
}

// Chain derives the clump chain of s.
func (s *Set) Chain() *Chain {
	types := 2
	alpha := []float64{s.Alpha, s.AlphaRev}
	if s.Singlestranded {
		types = 1
		alpha = alpha[:1]
	}
	c := &Chain{
		set:   s,
		Types: types,
		Alpha: alpha,
		Next:  make([][]float64, types),
		Kill:  make([]float64, types),
		Theta: make([]float64, types),
		Edge:  make([]float64, types),
		scale: make([]float64, types),
	}
	for a := 0; a < types; a++ {
		c.scale[a] = 1
		c.Next[a] = make([]float64, types)
		row := 0.0
		for b := 0; b < types; b++ {
			for j := 0; j < s.Len(); j++ {
				c.Next[a][b] += c.raw(a, b, j)
			}
			row += c.Next[a][b]
		}
		if row > 1 {
			c.scale[a] = 1 / row
			for b := range c.Next[a] {
				c.Next[a][b] /= row
			}
			row = 1
		}
		c.Kill[a] = 1 - row
	}
	for b := 0; b < types; b++ {
		v := alpha[b]
		for a := 0; a < types; a++ {
			v -= alpha[a] * c.Next[a][b]
		}
		c.Theta[b] = max(v, 0)
	}
	c.Edge[Forward] = alpha[Forward]
	if types == 2 {
		c.Edge[Reverse] = max(alpha[Reverse]-alpha[Forward]*c.Step(Forward, Reverse, 0), 0)
	}
	return c
}

func (c *Chain) raw(a, b, j int) float64 {
	s := c.set
	if j < 0 || j >= s.Len() {
		return 0
	}
	switch {
	case a == b:
		if j == 0 {
			return 0
		}
		return s.Beta[j]
	case a == Forward:
		return s.Beta3p[j]
	default:
		if j == 0 {
			return 0
		}
		return s.Beta5p[j]
	}
}

// Step is the probability that a hit of type a is directly followed by a
// hit of type b, j positions later.
func (c *Chain) Step(a, b, j int) float64 { return c.raw(a, b, j) * c.scale[a] }

// ThetaSum is the total clump start rate.
func (c *Chain) ThetaSum() float64 { return floats.Sum(c.Theta) }

// EdgeSum is the clump start probability at a region's first position.
func (c *Chain) EdgeSum() float64 { return floats.Sum(c.Edge) }

// Clumps is the expected number of clumps among n window starts.
func (c *Chain) Clumps(n int) float64 {
	if n <= 0 {
		return 0
	}
	return c.ThetaSum()*float64(n-1) + c.EdgeSum()
}

// Sizes returns P(clump size = n) for n = 0..limit; entry 0 is zero.
func (c *Chain) Sizes(limit int) []float64 {
	f := make([]float64, limit+1)
	v := c.startVector()
	for n := 1; n <= limit && v != nil; n++ {
		for a, x := range v {
			f[n] += x * c.Kill[a]
		}
		v = c.advance(v)
	}
	return f
}

// Moments summarizes the clump size and span distributions.
type Moments struct {
	MeanSize   float64
	SizeSecond float64 // E[size^2]
	MeanSpan   float64 // E[last - first hit position]
}

// Moments sums the size series until the surviving mass is negligible.
func (c *Chain) Moments() (Moments, error) {
	var m Moments
	v := c.startVector()
	if v == nil {
		return Moments{MeanSize: 1, SizeSecond: 1}, nil
	}
	step := make([]float64, c.Types)
	for a := 0; a < c.Types; a++ {
		for b := 0; b < c.Types; b++ {
			for j := 0; j < c.set.Len(); j++ {
				step[a] += float64(j) * c.Step(a, b, j)
			}
		}
	}
	for n := 1; n <= maxClumpSize; n++ {
		alive := 0.0
		for a, x := range v {
			p := x * c.Kill[a]
			m.MeanSize += float64(n) * p
			m.SizeSecond += float64(n) * float64(n) * p
			m.MeanSpan += x * step[a]
			alive += x
		}
		if alive < 1e-15 {
			return m, nil
		}
		v = c.advance(v)
	}
	return m, fmt.Errorf("overlap: clump size series does not converge: %w", errs.ErrNumericTolerance)
}

func (c *Chain) startVector() []float64 {
	t := c.ThetaSum()
	if t <= 0 {
		return nil
	}
	v := make([]float64, c.Types)
	for a := range v {
		v[a] = c.Theta[a] / t
	}
	return v
}

func (c *Chain) advance(v []float64) []float64 {
	out := make([]float64, c.Types)
	for a, x := range v {
		for b := range out {
			out[b] += x * c.Next[a][b]
		}
	}
	return out
}
