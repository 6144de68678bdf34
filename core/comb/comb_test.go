package comb

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matthuska/motifcounter/core/background"
	"github.com/matthuska/motifcounter/core/cpois"
	"github.com/matthuska/motifcounter/core/errs"
	"github.com/matthuska/motifcounter/core/internal/fixture"
	"github.com/matthuska/motifcounter/core/motif"
	"github.com/matthuska/motifcounter/core/overlap"
	"github.com/matthuska/motifcounter/core/score"
	"github.com/matthuska/motifcounter/core/threshold"
)

func overlapSet(t *testing.T, m *motif.Motif, bg *background.Model, alpha float64, single bool) *overlap.Set {
	t.Helper()
	fwd, err := score.NewScorer(m, bg, score.DefaultGranularity)
	require.NoError(t, err)
	rev, err := score.NewScorer(m.RevComp(), bg, score.DefaultGranularity)
	require.NoError(t, err)
	d, err := score.Compute(fwd)
	require.NoError(t, err)
	th, err := threshold.Calibrate(d, alpha)
	require.NoError(t, err)
	ov, err := overlap.Compute(fwd, rev, th, single)
	require.NoError(t, err)
	return ov
}

func TestSumsToOne(t *testing.T) {
	ov := overlapSet(t, fixture.Random(t, 8, 1), fixture.Background(t, 1, 2), 0.01, false)
	for _, n := range []int{0, 7, 8, 9, 100, 1000} {
		d, err := Compute(ov, n, 0)
		require.NoError(t, err)
		require.InDelta(t, 1, d.Sum(), 1e-9, "length %d", n)
	}
	d, err := Compute(ov, 7, 0)
	require.NoError(t, err)
	require.Equal(t, 1.0, d.Probs[0])

	// a single window holds at most one hit per strand
	d, err = Compute(ov, 8, 0)
	require.NoError(t, err)
	require.InDelta(t, 0, d.Tail(3), 1e-12)
}

func TestAgreesWithCompoundPoisson(t *testing.T) {
	const length = 500
	ov := overlapSet(t, fixture.Random(t, 8, 4), fixture.Background(t, 1, 7), 0.001, false)
	cd, err := Compute(ov, length, 40)
	require.NoError(t, err)
	pd, err := cpois.Compute(ov, []int{length}, 40)
	require.NoError(t, err)

	require.InEpsilon(t, pd.Mean(), cd.Mean(), 0.05)
	for k := 0; k <= 40; k++ {
		require.InDelta(t, pd.Probs[k], cd.Probs[k], 0.01, "P(X=%d)", k)
		require.InDelta(t, pd.Tail(k), cd.Tail(k), 0.01, "P(X>=%d)", k)
	}
}

// Without a rare-hit assumption the combinatorial model tracks sampled
// counts at a relaxed alpha, where the compound Poisson model over-disperses.
func TestAgainstSimulation(t *testing.T) {
	const (
		length = 150
		trials = 3000
	)
	bg := fixture.Background(t, 1, 6)
	m := fixture.Random(t, 8, 17)
	fwd, err := score.NewScorer(m, bg, score.DefaultGranularity)
	require.NoError(t, err)
	rev, err := score.NewScorer(m.RevComp(), bg, score.DefaultGranularity)
	require.NoError(t, err)
	sd, err := score.Compute(fwd)
	require.NoError(t, err)
	th, err := threshold.Calibrate(sd, 0.01)
	require.NoError(t, err)
	ov, err := overlap.Compute(fwd, rev, th, false)
	require.NoError(t, err)
	d, err := Compute(ov, length, 0)
	require.NoError(t, err)

	r := rand.New(rand.NewSource(99))
	counts := make([]float64, trials)
	mean := 0.0
	for i := range counts {
		codes := fixture.Sample(bg, length, r)
		for p := 0; p+fwd.Len() <= length; p++ {
			if b, _ := fwd.Bin(codes[p:]); th.Hit(b) {
				counts[i]++
			}
			if b, _ := rev.Bin(codes[p:]); th.Hit(b) {
				counts[i]++
			}
		}
		mean += counts[i]
	}
	mean /= trials
	variance := 0.0
	for _, c := range counts {
		variance += (c - mean) * (c - mean)
	}
	variance /= trials - 1

	require.InEpsilon(t, mean, d.Mean(), 0.08)
	require.InEpsilon(t, variance, d.Variance(), 0.15)
}

func TestPalindromeHasEvenCounts(t *testing.T) {
	ov := overlapSet(t, fixture.Palindrome(t, 3, 8), background.Uniform(1), 0.01, false)
	d, err := Compute(ov, 300, 0)
	require.NoError(t, err)
	for n := 1; n < d.MaxHits(); n += 2 {
		require.InDelta(t, 0, d.Probs[n], 1e-6, "count %d", n)
	}
}

func TestRejectsSinglestranded(t *testing.T) {
	ov := overlapSet(t, fixture.Random(t, 6, 1), background.Uniform(0), 0.01, true)
	_, err := Compute(ov, 100, 0)
	require.ErrorIs(t, err, errs.ErrValidation)
	_, err = Compute(nil, 100, 0)
	require.ErrorIs(t, err, errs.ErrValidation)
}
