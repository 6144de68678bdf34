// core/comb/comb.go
// Package comb computes the hit-count distribution of one region by a
// dynamic program over positions that places clumps one after another.
//
// At each window start the chain is either free or sitting on the latest
// hit of a clump. From free, a clump starts with its conditional start
// probability. From a hit, the next hit of the clump follows after j
// positions with the peeled beta probabilities, or the clump ends and the
// chain is free again once the last hit's window has been passed. Hits
// that would fall past the last window start end the clump instead.
//
// Unlike the compound Poisson model this does not assume rare hits, but it
// costs O(length × L × maxHits) and handles one region length per call.
package comb

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/matthuska/motifcounter/core/errs"
	"github.com/matthuska/motifcounter/core/hitcount"
	"github.com/matthuska/motifcounter/core/overlap"
)

type cell struct {
	free []float64
	hit  [][]float64 // hit[type][n]
}

// Compute returns the hit-count distribution of a region of the given
// length scanned on both strands. maxHits <= 0 picks a bound.
func Compute(ov *overlap.Set, length, maxHits int) (*hitcount.Distribution, error) {
	if ov == nil || ov.Len() == 0 {
		return nil, fmt.Errorf("comb: overlap set is required: %w", errs.ErrValidation)
	}
	if ov.Singlestranded {
		return nil, fmt.Errorf("comb: only double-stranded scanning is supported: %w", errs.ErrValidation)
	}
	if length < 0 {
		return nil, fmt.Errorf("comb: negative region length %d: %w", length, errs.ErrValidation)
	}
	l := ov.Len()
	ch := ov.Chain()
	mom, err := ch.Moments()
	if err != nil {
		return nil, err
	}
	starts := length - l + 1
	if maxHits <= 0 {
		lambda := ch.Clumps(starts)
		maxHits = hitcount.Bound(lambda*mom.MeanSize, lambda*mom.SizeSecond)
	}
	if starts <= 0 {
		return hitcount.FromHead(delta(maxHits))
	}

	// clump starts conditional on the chain being free
	pFree := 1 - ch.ThetaSum()*(mom.MeanSpan+float64(l)-1)
	start := make([]float64, ch.Types)
	if pFree > 0 {
		floats.ScaleTo(start, 1/pFree, ch.Theta)
	} else {
		copy(start, ch.Theta)
	}
	if s := floats.Sum(start); s > 1 {
		floats.Scale(1/s, start)
	}
	edge := append([]float64(nil), ch.Edge...)

	ring := make([]cell, l+1)
	for i := range ring {
		ring[i] = newCell(ch.Types, maxHits)
	}
	done := make([]float64, maxHits+1)
	inc := func(n int) int { return min(n+1, maxHits) }
	toFree := func(pos, n int, v float64) {
		if pos >= starts {
			done[n] += v
			return
		}
		ring[pos%len(ring)].free[n] += v
	}
	ring[0].free[0] = 1

	for i := 0; i < starts; i++ {
		cur := ring[i%len(ring)]
		st := start
		if i == 0 {
			st = edge
		}
		stay := max(1-floats.Sum(st), 0)
		for n, v := range cur.free {
			if v == 0 {
				continue
			}
			for t, p := range st {
				cur.hit[t][inc(n)] += v * p
			}
			toFree(i+1, n, v*stay)
		}
		// forward before reverse: a forward hit may pair with a reverse
		// hit on the same position
		for s := 0; s < ch.Types; s++ {
			for n, v := range cur.hit[s] {
				if v == 0 {
					continue
				}
				end := ch.Kill[s]
				for t := 0; t < ch.Types; t++ {
					for j := 0; j < l; j++ {
						p := ch.Step(s, t, j)
						if p == 0 {
							continue
						}
						if i+j >= starts {
							end += p
							continue
						}
						ring[(i+j)%len(ring)].hit[t][inc(n)] += v * p
					}
				}
				toFree(i+l, n, v*end)
			}
		}
		cur.reset()
	}

	d, err := hitcount.FromHead(done[:maxHits])
	if err != nil {
		return nil, err
	}
	return d, d.Check()
}

func newCell(types, maxHits int) cell {
	c := cell{free: make([]float64, maxHits+1), hit: make([][]float64, types)}
	for t := range c.hit {
		c.hit[t] = make([]float64, maxHits+1)
	}
	return c
}

func (c cell) reset() {
	clear(c.free)
	for _, h := range c.hit {
		clear(h)
	}
}

func delta(maxHits int) []float64 {
	head := make([]float64, max(maxHits, 1))
	head[0] = 1
	return head
}
