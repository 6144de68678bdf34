// Package fixture builds deterministic motifs and backgrounds for core tests.
package fixture

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matthuska/motifcounter/core/background"
	"github.com/matthuska/motifcounter/core/dna"
	"github.com/matthuska/motifcounter/core/motif"
)

// Motif builds a motif from columns.
func Motif(tb testing.TB, cols ...[dna.K]float64) *motif.Motif {
	tb.Helper()
	m, err := motif.FromColumns(cols)
	require.NoError(tb, err)
	return m
}

// APreferring returns an L-column motif with every column [0.7,0.1,0.1,0.1].
func APreferring(tb testing.TB, l int) *motif.Motif {
	cols := make([][dna.K]float64, l)
	for i := range cols {
		cols[i] = [dna.K]float64{0.7, 0.1, 0.1, 0.1}
	}
	return Motif(tb, cols...)
}

// Random returns an L-column motif with a dominant base per column.
func Random(tb testing.TB, l int, seed int64) *motif.Motif {
	r := rand.New(rand.NewSource(seed))
	cols := make([][dna.K]float64, l)
	for i := range cols {
		top := r.Intn(dna.K)
		sum := 0.0
		for a := 0; a < dna.K; a++ {
			v := 0.05 + 0.2*r.Float64()
			if a == top {
				v += 1.5
			}
			cols[i][a] = v
			sum += v
		}
		for a := range cols[i] {
			cols[i][a] /= sum
		}
	}
	return Motif(tb, cols...)
}

// Palindrome returns a motif equal to its reverse complement (even length).
func Palindrome(tb testing.TB, half int, seed int64) *motif.Motif {
	left := Random(tb, half, seed)
	cols := make([][dna.K]float64, 2*half)
	for c := 0; c < half; c++ {
		cols[c] = left.Column(c)
		for a := 0; a < dna.K; a++ {
			cols[2*half-1-c][dna.Comp(a)] = cols[c][a]
		}
	}
	return Motif(tb, cols...)
}

// Background returns a strand-asymmetric order-d model with its exact
// stationary distribution.
func Background(tb testing.TB, order int, seed int64) *background.Model {
	tb.Helper()
	r := rand.New(rand.NewSource(seed))
	n := dna.Pow(order)
	tr := make([][dna.K]float64, n)
	for ctx := range tr {
		sum := 0.0
		for a := 0; a < dna.K; a++ {
			tr[ctx][a] = 0.5 + r.Float64()
			sum += tr[ctx][a]
		}
		for a := range tr[ctx] {
			tr[ctx][a] /= sum
		}
	}
	st := Stationary(order, tr)
	m, err := background.New(order, st, tr)
	require.NoError(tb, err)
	return m
}

// Stationary solves the stationary vector over d-contexts by power iteration.
func Stationary(order int, tr [][dna.K]float64) []float64 {
	n := len(tr)
	pi := make([]float64, n)
	for i := range pi {
		pi[i] = 1 / float64(n)
	}
	for it := 0; it < 5000; it++ {
		next := make([]float64, n)
		for ctx, p := range pi {
			for a := 0; a < dna.K; a++ {
				nx := 0
				if order > 0 {
					nx = (ctx*dna.K + a) & (n - 1)
				}
				next[nx] += p * tr[ctx][a]
			}
		}
		pi = next
	}
	return pi
}

// Sample draws n symbol codes from bg, starting from its stationary state.
func Sample(bg *background.Model, n int, r *rand.Rand) []int8 {
	codes := make([]int8, n)
	state := 0
	for pos := range codes {
		u, acc, a := r.Float64(), 0.0, 0
		for ; a < dna.K-1; a++ {
			acc += bg.Cond(pos, state, a)
			if u < acc {
				break
			}
		}
		codes[pos] = int8(a)
		state = bg.Next(pos, state, a)
	}
	return codes
}
