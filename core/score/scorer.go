// core/score/scorer.go
// Discretized log-likelihood-ratio scoring shared by the score DP, the
// overlap DP and sequence scanning.
//
// A window x_0..x_{L-1} scores
//
//	Σ_c round((log M[x_c, c] − log Pbg(x_c | x_{c-w}..x_{c-1})) / g)
//
// in units of the granularity g, where w = min(c, d) and the first d
// columns are conditioned on stationary prefix marginals. The score depends
// on the window alone, never on sequence outside it.
package score

import (
	"fmt"
	"math"

	"github.com/matthuska/motifcounter/core/background"
	"github.com/matthuska/motifcounter/core/dna"
	"github.com/matthuska/motifcounter/core/errs"
	"github.com/matthuska/motifcounter/core/motif"
)

// DefaultGranularity is the score grid pitch.
const DefaultGranularity = 0.1

// Scorer holds integer per-column contributions for one motif orientation.
type Scorer struct {
	bg   *background.Model
	gran float64
	// bins[c][local*4+sym]
	bins   [][]int
	colMin []int
	colMax []int
	// exact[c][local*4+sym], unrounded, for reporting
	exact [][]float64
}

// NewScorer precomputes contributions of m against bg on a grid of pitch gran.
func NewScorer(m *motif.Motif, bg *background.Model, gran float64) (*Scorer, error) {
	if m == nil || bg == nil {
		return nil, fmt.Errorf("score: motif and background are required: %w", errs.ErrValidation)
	}
	if !(gran > 0) || math.IsInf(gran, 0) {
		return nil, fmt.Errorf("score: granularity %g must be > 0: %w", gran, errs.ErrValidation)
	}
	l := m.Len()
	s := &Scorer{
		bg:     bg,
		gran:   gran,
		bins:   make([][]int, l),
		colMin: make([]int, l),
		colMax: make([]int, l),
		exact:  make([][]float64, l),
	}
	for c := 0; c < l; c++ {
		n := bg.States(c)
		s.bins[c] = make([]int, n*dna.K)
		s.exact[c] = make([]float64, n*dna.K)
		s.colMin[c], s.colMax[c] = math.MaxInt, math.MinInt
		for local := 0; local < n; local++ {
			for a := 0; a < dna.K; a++ {
				v := math.Log(m.Prob(a, c)) - math.Log(bg.Cond(c, local, a))
				b := int(math.Round(v / gran))
				s.exact[c][local*dna.K+a] = v
				s.bins[c][local*dna.K+a] = b
				s.colMin[c] = min(s.colMin[c], b)
				s.colMax[c] = max(s.colMax[c], b)
			}
		}
	}
	return s, nil
}

// Len is the motif width.
func (s *Scorer) Len() int { return len(s.bins) }

// Granularity is the grid pitch.
func (s *Scorer) Granularity() float64 { return s.gran }

// Background returns the model the scorer was built against.
func (s *Scorer) Background() *background.Model { return s.bg }

// Local reduces a trajectory state (positioned at or after column c of the
// window) to the window-local context used by column c.
func (s *Scorer) Local(c, state int) int {
	return background.Suffix(state, s.bg.Width(c))
}

// Contrib returns the integer contribution of sym at column c given the
// window-local context.
func (s *Scorer) Contrib(c, local, sym int) int { return s.bins[c][local*dna.K+sym] }

// ColumnRange returns the smallest and largest contribution of column c.
func (s *Scorer) ColumnRange(c int) (lo, hi int) { return s.colMin[c], s.colMax[c] }

// Range returns the smallest and largest attainable total bin.
func (s *Scorer) Range() (lo, hi int) {
	for c := range s.bins {
		lo += s.colMin[c]
		hi += s.colMax[c]
	}
	return lo, hi
}

// Value converts a bin to a score.
func (s *Scorer) Value(bin int) float64 { return float64(bin) * s.gran }

// Bin scores one window of symbol codes. ok is false when the window is
// shorter than the motif or contains an ambiguous symbol.
func (s *Scorer) Bin(codes []int8) (bin int, ok bool) {
	if len(codes) < len(s.bins) {
		return 0, false
	}
	state := 0
	for c := range s.bins {
		a := int(codes[c])
		if a < 0 {
			return 0, false
		}
		bin += s.bins[c][state*dna.K+a]
		state = s.bg.Next(c, state, a)
	}
	return bin, true
}

// Exact returns the unrounded score of a window.
func (s *Scorer) Exact(codes []int8) (float64, bool) {
	if len(codes) < len(s.bins) {
		return 0, false
	}
	v, state := 0.0, 0
	for c := range s.bins {
		a := int(codes[c])
		if a < 0 {
			return 0, false
		}
		v += s.exact[c][state*dna.K+a]
		state = s.bg.Next(c, state, a)
	}
	return v, true
}

// MaxRoundingError bounds |Exact − Value(Bin)| for any window.
func (s *Scorer) MaxRoundingError() float64 {
	return float64(len(s.bins)) * s.gran / 2
}
