// core/motif/motif.go
// Position frequency matrix over A/C/G/T.
package motif

import (
	"fmt"
	"math"

	"github.com/matthuska/motifcounter/core/dna"
	"github.com/matthuska/motifcounter/core/errs"
)

// ColumnTolerance bounds |Σ column − 1|.
const ColumnTolerance = 1e-6

// Motif is a validated 4×L matrix of strictly positive probabilities.
// It is immutable; accessors never expose the backing arrays.
type Motif struct {
	cols [][dna.K]float64
}

// New validates rows[symbol][position] and returns a Motif.
func New(rows [dna.K][]float64) (*Motif, error) {
	l := len(rows[0])
	for a := 1; a < dna.K; a++ {
		if len(rows[a]) != l {
			return nil, fmt.Errorf("motif: row %c has %d columns, want %d: %w", dna.Letter(a), len(rows[a]), l, errs.ErrValidation)
		}
	}
	cols := make([][dna.K]float64, l)
	for c := 0; c < l; c++ {
		for a := 0; a < dna.K; a++ {
			cols[c][a] = rows[a][c]
		}
	}
	return FromColumns(cols)
}

// FromColumns validates cols[position][symbol] and returns a Motif.
func FromColumns(cols [][dna.K]float64) (*Motif, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("motif: no columns: %w", errs.ErrValidation)
	}
	out := make([][dna.K]float64, len(cols))
	for c, col := range cols {
		sum := 0.0
		for a, p := range col {
			if !(p > 0) || math.IsInf(p, 0) {
				return nil, fmt.Errorf("motif: entry %c at column %d is %g, must be > 0: %w", dna.Letter(a), c+1, p, errs.ErrValidation)
			}
			sum += p
		}
		if math.Abs(sum-1) > ColumnTolerance {
			return nil, fmt.Errorf("motif: column %d sums to %g: %w", c+1, sum, errs.ErrValidation)
		}
		out[c] = col
	}
	return &Motif{cols: out}, nil
}

// Len is the motif width L.
func (m *Motif) Len() int { return len(m.cols) }

// Prob returns P(sym at column col).
func (m *Motif) Prob(sym, col int) float64 { return m.cols[col][sym] }

// Column returns a copy of column col.
func (m *Motif) Column(col int) [dna.K]float64 { return m.cols[col] }

// Rows returns a copy as rows[symbol][position].
func (m *Motif) Rows() [dna.K][]float64 {
	var rows [dna.K][]float64
	for a := 0; a < dna.K; a++ {
		rows[a] = make([]float64, len(m.cols))
		for c := range m.cols {
			rows[a][c] = m.cols[c][a]
		}
	}
	return rows
}

// RevComp returns the reverse-complement motif: column order reversed and
// every symbol replaced by its complement.
func (m *Motif) RevComp() *Motif {
	l := len(m.cols)
	out := make([][dna.K]float64, l)
	for c := 0; c < l; c++ {
		for a := 0; a < dna.K; a++ {
			out[l-1-c][dna.Comp(a)] = m.cols[c][a]
		}
	}
	return &Motif{cols: out}
}

// Palindromic reports whether m equals its reverse complement within tol.
func (m *Motif) Palindromic(tol float64) bool {
	rc := m.RevComp()
	for c := range m.cols {
		for a := 0; a < dna.K; a++ {
			if math.Abs(m.cols[c][a]-rc.cols[c][a]) > tol {
				return false
			}
		}
	}
	return true
}
