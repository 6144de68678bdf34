package cpois

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matthuska/motifcounter/core/background"
	"github.com/matthuska/motifcounter/core/errs"
	"github.com/matthuska/motifcounter/core/internal/fixture"
	"github.com/matthuska/motifcounter/core/motif"
	"github.com/matthuska/motifcounter/core/overlap"
	"github.com/matthuska/motifcounter/core/score"
	"github.com/matthuska/motifcounter/core/threshold"
)

type model struct {
	bg       *background.Model
	fwd, rev *score.Scorer
	th       threshold.Threshold
	ov       *overlap.Set
}

func build(t *testing.T, m *motif.Motif, bg *background.Model, alpha float64, single bool) model {
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
	return model{bg: bg, fwd: fwd, rev: rev, th: th, ov: ov}
}

func TestSumsToOne(t *testing.T) {
	mod := build(t, fixture.Random(t, 8, 1), fixture.Background(t, 1, 2), 0.001, false)
	for _, lengths := range [][]int{{100}, {1000}, {500, 300, 7}, {3}} {
		d, err := Compute(mod.ov, lengths, 0)
		require.NoError(t, err)
		require.InDelta(t, 1, d.Sum(), 1e-9, "%v", lengths)
	}
	d, err := Compute(mod.ov, []int{5}, 0)
	require.NoError(t, err)
	require.Equal(t, 1.0, d.Probs[0])
}

func TestMeanMatchesHitRate(t *testing.T) {
	for _, single := range []bool{false, true} {
		mod := build(t, fixture.Random(t, 8, 3), fixture.Background(t, 1, 2), 0.01, single)
		d, err := Compute(mod.ov, []int{400, 250}, 0)
		require.NoError(t, err)
		windows := float64(400-8+1) + float64(250-8+1)
		want := (mod.ov.Alpha + mod.ov.AlphaRev) * windows
		require.InEpsilon(t, want, d.Mean(), 1e-3, "single=%v", single)
	}
}

// Large rates are split and recombined by convolution.
func TestLargeLambda(t *testing.T) {
	mod := build(t, fixture.Random(t, 8, 3), background.Uniform(0), 0.01, false)
	lengths := []int{40000}
	require.Greater(t, Lambda(mod.ov, lengths), float64(maxLambda))
	d, err := Compute(mod.ov, lengths, 0)
	require.NoError(t, err)
	require.InDelta(t, 1, d.Sum(), 1e-6)
	want := (mod.ov.Alpha + mod.ov.AlphaRev) * float64(40000-8+1)
	require.InEpsilon(t, want, d.Mean(), 1e-3)
}

func TestPalindromeHasEvenCounts(t *testing.T) {
	mod := build(t, fixture.Palindrome(t, 3, 8), background.Uniform(1), 0.01, false)
	d, err := Compute(mod.ov, []int{300}, 0)
	require.NoError(t, err)
	for n := 1; n < d.MaxHits(); n += 2 {
		require.InDelta(t, 0, d.Probs[n], 1e-6, "count %d", n)
	}
	require.Greater(t, d.Probs[2], 0.01)
}

// simulate samples regions from the background and counts hits on both
// strands, returning the mean, sample variance and fraction of hit-free
// regions.
func simulate(mod model, length, trials int, seed int64) (mean, variance, zero float64) {
	r := rand.New(rand.NewSource(seed))
	counts := make([]float64, trials)
	for i := range counts {
		codes := fixture.Sample(mod.bg, length, r)
		n := 0
		for p := 0; p+mod.fwd.Len() <= length; p++ {
			if b, _ := mod.fwd.Bin(codes[p:]); mod.th.Hit(b) {
				n++
			}
			if b, _ := mod.rev.Bin(codes[p:]); mod.th.Hit(b) {
				n++
			}
		}
		counts[i] = float64(n)
		if n == 0 {
			zero++
		}
	}
	for _, c := range counts {
		mean += c
	}
	mean /= float64(trials)
	for _, c := range counts {
		variance += (c - mean) * (c - mean)
	}
	variance /= float64(trials - 1)
	return mean, variance, zero / float64(trials)
}

func TestAgainstSimulation(t *testing.T) {
	const length = 1500
	mod := build(t, fixture.Random(t, 8, 17), fixture.Background(t, 1, 6), 0.001, false)
	d, err := Compute(mod.ov, []int{length}, 0)
	require.NoError(t, err)

	mean, variance, zero := simulate(mod, length, 3000, 99)
	require.InEpsilon(t, mean, d.Mean(), 0.08)
	require.InEpsilon(t, variance, d.Variance(), 0.2)
	require.InDelta(t, zero, d.Probs[0], 0.04)
	require.False(t, math.IsNaN(d.Variance()))
}

// With frequent hits the rare-clump assumption no longer holds and the
// model over-disperses.
func TestConservativeAtRelaxedAlpha(t *testing.T) {
	const length = 150
	mod := build(t, fixture.Random(t, 8, 17), fixture.Background(t, 1, 6), 0.01, false)
	d, err := Compute(mod.ov, []int{length}, 0)
	require.NoError(t, err)

	mean, variance, _ := simulate(mod, length, 3000, 99)
	require.InEpsilon(t, mean, d.Mean(), 0.08)
	require.GreaterOrEqual(t, d.Variance(), variance)
}

func TestValidation(t *testing.T) {
	_, err := Compute(nil, []int{10}, 0)
	require.ErrorIs(t, err, errs.ErrValidation)
	mod := build(t, fixture.Random(t, 6, 1), background.Uniform(0), 0.01, true)
	_, err = Compute(mod.ov, []int{-1}, 0)
	require.ErrorIs(t, err, errs.ErrValidation)
}
