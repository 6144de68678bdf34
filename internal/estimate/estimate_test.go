package estimate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matthuska/motifcounter/core/dna"
	"github.com/matthuska/motifcounter/core/errs"
)

func TestOrderZeroIsStrandSymmetric(t *testing.T) {
	bg, err := FromSequences(context.Background(), [][]byte{[]byte("AAAAAAAACG")}, Options{Order: 0})
	require.NoError(t, err)
	require.Equal(t, 0, bg.Order())
	require.InDelta(t, 1, bg.Stationary(0), 1e-12)
	// A:8 C:1 G:1 plus complements T:8 G:1 C:1, pseudocount 1 each
	require.InDelta(t, 9.0/24, bg.Transition(0, dna.A), 1e-12)
	require.InDelta(t, 3.0/24, bg.Transition(0, dna.C), 1e-12)
	require.InDelta(t, bg.Transition(0, dna.A), bg.Transition(0, dna.T), 1e-12)
}

func TestOrderOneCounts(t *testing.T) {
	c, err := NewCounter(Options{Order: 1, SingleStrand: true, Pseudocount: 1e-6})
	require.NoError(t, err)
	c.Add([]byte("ACACACNACGT"))
	bg, err := c.Model()
	require.NoError(t, err)
	// after A always C; after C twice A and once G. The N breaks two pairs.
	require.InDelta(t, 1, bg.Transition(dna.A, dna.C), 1e-5)
	require.InDelta(t, 2.0/3, bg.Transition(dna.C, dna.A), 1e-5)
	require.InDelta(t, 1.0/3, bg.Transition(dna.C, dna.G), 1e-5)

	sum := 0.0
	for ctx := 0; ctx < bg.NumContexts(); ctx++ {
		sum += bg.Stationary(ctx)
	}
	require.InDelta(t, 1, sum, 1e-9)
}

func TestStationaryIsFixedPoint(t *testing.T) {
	seqs := [][]byte{[]byte("ACGTTGCAAGGCTTAACCGGTATATCGCGA"), []byte("GGGGCCCAAATTTACGT")}
	bg, err := FromSequences(context.Background(), seqs, Options{Order: 2})
	require.NoError(t, err)
	n := bg.NumContexts()
	next := make([]float64, n)
	for ctx := 0; ctx < n; ctx++ {
		for a := 0; a < dna.K; a++ {
			next[(ctx*dna.K+a)&(n-1)] += bg.Stationary(ctx) * bg.Transition(ctx, a)
		}
	}
	for ctx := range next {
		require.InDelta(t, bg.Stationary(ctx), next[ctx], 1e-9)
	}
}

func TestOptionsValidation(t *testing.T) {
	_, err := NewCounter(Options{Order: -1})
	require.ErrorIs(t, err, errs.ErrValidation)
	_, err = NewCounter(Options{Order: 11})
	require.ErrorIs(t, err, errs.ErrValidation)
	_, err = NewCounter(Options{Pseudocount: -1})
	require.ErrorIs(t, err, errs.ErrValidation)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = FromSequences(ctx, [][]byte{[]byte("ACGT")}, Options{})
	require.ErrorIs(t, err, context.Canceled)
}
