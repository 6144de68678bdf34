// core/score/distribution.go
package score

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/matthuska/motifcounter/core/dna"
	"github.com/matthuska/motifcounter/core/errs"
)

// SumTolerance bounds |Σ Probs − 1| for a computed distribution.
const SumTolerance = 1e-6

// MaxBruteForceLen caps the enumeration in BruteForce (4^L words).
const MaxBruteForceLen = 10

// Distribution is the probability of every score bin under the background.
// Scores are ascending; Scores[i] == (MinBin+i)*Granularity.
type Distribution struct {
	Granularity float64
	MinBin      int
	Scores      []float64
	Probs       []float64
}

// Len is the number of bins.
func (d *Distribution) Len() int { return len(d.Probs) }

// MaxBin is the highest bin.
func (d *Distribution) MaxBin() int { return d.MinBin + len(d.Probs) - 1 }

// Prob returns P(score bin == bin).
func (d *Distribution) Prob(bin int) float64 {
	i := bin - d.MinBin
	if i < 0 || i >= len(d.Probs) {
		return 0
	}
	return d.Probs[i]
}

// Tail returns P(score bin > bin), summed from the top for accuracy.
func (d *Distribution) Tail(bin int) float64 {
	t := 0.0
	for i := len(d.Probs) - 1; i >= 0 && d.MinBin+i > bin; i-- {
		t += d.Probs[i]
	}
	return t
}

// Sum is the total mass.
func (d *Distribution) Sum() float64 { return floats.Sum(d.Probs) }

// Mean is the expected score.
func (d *Distribution) Mean() float64 { return floats.Dot(d.Scores, d.Probs) }

// Compute runs the DP over (trajectory state, partial score bin).
// After L columns the per-state distributions are summed.
func Compute(s *Scorer) (*Distribution, error) {
	bg := s.bg
	minBin, maxBin := s.Range()
	w := maxBin - minBin + 1

	cur := [][]float64{make([]float64, w)}
	cur[0][-minBin] = 1
	// occupied index range of the partial sums
	lo, hi := -minBin, -minBin

	for c := 0; c < s.Len(); c++ {
		next := make([][]float64, bg.States(c+1))
		for i := range next {
			next[i] = make([]float64, w)
		}
		for state, row := range cur {
			local := s.Local(c, state)
			for a := 0; a < dna.K; a++ {
				p := bg.Cond(c, state, a)
				shift := s.Contrib(c, local, a)
				dst := next[bg.Next(c, state, a)]
				for i := lo; i <= hi; i++ {
					if v := row[i]; v != 0 {
						dst[i+shift] += v * p
					}
				}
			}
		}
		cmin, cmax := s.ColumnRange(c)
		lo += cmin
		hi += cmax
		cur = next
	}

	probs := make([]float64, w)
	for _, row := range cur {
		floats.Add(probs, row)
	}
	return finish(s, minBin, probs)
}

// BruteForce enumerates all 4^L words and accumulates their probability in
// the bin they score. It is a cross-check for Compute on short motifs.
func BruteForce(s *Scorer) (*Distribution, error) {
	l := s.Len()
	if l > MaxBruteForceLen {
		return nil, fmt.Errorf("score: brute force limited to length %d, got %d: %w", MaxBruteForceLen, l, errs.ErrValidation)
	}
	minBin, maxBin := s.Range()
	probs := make([]float64, maxBin-minBin+1)
	codes := make([]int8, l)
	ints := make([]int, l)
	for word := 0; word < dna.Pow(l); word++ {
		x := word
		for i := l - 1; i >= 0; i-- {
			codes[i] = int8(x & 3)
			ints[i] = x & 3
			x >>= 2
		}
		bin, _ := s.Bin(codes)
		probs[bin-minBin] += s.bg.Prob(ints)
	}
	return finish(s, minBin, probs)
}

// finish trims zero-mass edges and checks normalization.
func finish(s *Scorer, minBin int, probs []float64) (*Distribution, error) {
	first, last := 0, len(probs)-1
	for first < last && probs[first] == 0 {
		first++
	}
	for last > first && probs[last] == 0 {
		last--
	}
	probs = probs[first : last+1]
	d := &Distribution{
		Granularity: s.gran,
		MinBin:      minBin + first,
		Scores:      make([]float64, len(probs)),
		Probs:       probs,
	}
	for i := range probs {
		d.Scores[i] = s.Value(d.MinBin + i)
	}
	if sum := d.Sum(); math.Abs(sum-1) > SumTolerance {
		return nil, fmt.Errorf("score: distribution sums to %.12g: %w", sum, errs.ErrNumericTolerance)
	}
	return d, nil
}
