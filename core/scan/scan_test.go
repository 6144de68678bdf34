package scan

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matthuska/motifcounter/core/background"
	"github.com/matthuska/motifcounter/core/dna"
	"github.com/matthuska/motifcounter/core/errs"
	"github.com/matthuska/motifcounter/core/internal/fixture"
	"github.com/matthuska/motifcounter/core/motif"
	"github.com/matthuska/motifcounter/core/score"
	"github.com/matthuska/motifcounter/core/threshold"
)

func newScanner(t *testing.T, m *motif.Motif, bg *background.Model, alpha float64, single bool) *Scanner {
	t.Helper()
	fwd, err := score.NewScorer(m, bg, score.DefaultGranularity)
	require.NoError(t, err)
	rev, err := score.NewScorer(m.RevComp(), bg, score.DefaultGranularity)
	require.NoError(t, err)
	d, err := score.Compute(fwd)
	require.NoError(t, err)
	th, err := threshold.Calibrate(d, alpha)
	require.NoError(t, err)
	s, err := New(fwd, rev, th, single)
	require.NoError(t, err)
	return s
}

func randomSeq(r *rand.Rand, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = "ACGT"[r.Intn(4)]
	}
	return b
}

func TestShortSequenceIsEmpty(t *testing.T) {
	s := newScanner(t, fixture.APreferring(t, 4), background.Uniform(0), 0.01, false)
	for _, seq := range []string{"", "A", "ACG"} {
		r := s.Sequence([]byte(seq))
		require.NotNil(t, r.FwdScores)
		require.Len(t, r.FwdScores, 0)
		require.Len(t, r.RevScores, 0)
		require.Len(t, r.FwdHits, 0)
		require.Len(t, r.RevHits, 0)
		require.Zero(t, r.Hits())
	}
}

func TestSequenceScores(t *testing.T) {
	s := newScanner(t, fixture.APreferring(t, 4), background.Uniform(0), 0.01, false)
	r := s.Sequence([]byte("ccAAAAtt"))
	require.Len(t, r.FwdScores, 5)
	// AAAA at window 2 is the top forward score; TTTT-free so reverse stays low
	require.InDelta(t, 4.0, r.FwdScores[2], 1e-12)
	require.True(t, r.FwdHits[2])
	for p, v := range r.FwdScores {
		if p != 2 {
			require.Less(t, v, r.FwdScores[2])
		}
	}

	r = s.Sequence([]byte("GGTTTTGG"))
	require.True(t, r.RevHits[2])
	require.InDelta(t, 4.0, r.RevScores[2], 1e-12)
	require.False(t, r.FwdHits[2])
}

func TestAmbiguousWindows(t *testing.T) {
	s := newScanner(t, fixture.APreferring(t, 3), background.Uniform(0), 0.05, false)
	r := s.Sequence([]byte("AANAAA"))
	require.Len(t, r.FwdScores, 4)
	for p := 0; p < 3; p++ {
		require.True(t, math.IsNaN(r.FwdScores[p]), "window %d", p)
		require.False(t, r.FwdHits[p])
		require.True(t, math.IsNaN(r.RevScores[p]))
	}
	require.False(t, math.IsNaN(r.FwdScores[3]))
	require.True(t, r.FwdHits[3])
}

// On a strand-symmetric order-0 background the reverse strand of a sequence
// scores like the forward strand of its reverse complement.
func TestReverseStrandSymmetry(t *testing.T) {
	s := newScanner(t, fixture.Random(t, 7, 4), background.Uniform(0), 0.01, false)
	seq := randomSeq(rand.New(rand.NewSource(1)), 200)
	a := s.Sequence(seq)
	b := s.Sequence(dna.RevComp(seq))
	n := len(a.FwdScores)
	for p := 0; p < n; p++ {
		require.InDelta(t, b.FwdScores[n-1-p], a.RevScores[p], 1e-9)
		require.Equal(t, b.FwdHits[n-1-p], a.RevHits[p])
	}
}

func TestSinglestranded(t *testing.T) {
	s := newScanner(t, fixture.Random(t, 6, 4), fixture.Background(t, 1, 1), 0.01, true)
	r := s.Sequence([]byte("ACGTACGTACGT"))
	require.Len(t, r.FwdScores, 7)
	require.Empty(t, r.RevScores)
	require.Empty(t, r.RevHits)

	_, err := New(s.fwd, nil, s.th, false)
	require.ErrorIs(t, err, errs.ErrValidation)
	_, err = New(nil, nil, s.th, true)
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestSetMatchesSequential(t *testing.T) {
	s := newScanner(t, fixture.Random(t, 8, 2), fixture.Background(t, 2, 3), 0.01, false)
	r := rand.New(rand.NewSource(5))
	seqs := make([][]byte, 40)
	for i := range seqs {
		seqs[i] = randomSeq(r, 20+r.Intn(300))
	}
	got, err := s.Set(context.Background(), seqs, 4)
	require.NoError(t, err)
	require.Len(t, got, len(seqs))
	total := 0
	for i, seq := range seqs {
		want := s.Sequence(seq)
		require.Equal(t, want.FwdHits, got[i].FwdHits)
		require.Equal(t, want.RevHits, got[i].RevHits)
		total += want.Hits()
	}
	require.Equal(t, total, CountHits(got))
	require.Greater(t, total, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Set(ctx, seqs, 2)
	require.ErrorIs(t, err, context.Canceled)
}

func TestProfile(t *testing.T) {
	s := newScanner(t, fixture.APreferring(t, 3), background.Uniform(0), 0.05, false)
	seqs := [][]byte{[]byte("AAAC"), []byte("CAAA"), []byte("NNNN")}
	p, err := s.Profile(context.Background(), seqs, 0)
	require.NoError(t, err)
	require.Equal(t, 3, p.Sequences)
	require.Len(t, p.FwdScores, 2)
	require.InDelta(t, 1.0/3, p.FwdHitFreq[0], 1e-12)
	require.InDelta(t, 1.0/3, p.FwdHitFreq[1], 1e-12)

	aaa := s.Sequence([]byte("AAA")).FwdScores[0]
	caa := s.Sequence([]byte("CAA")).FwdScores[0]
	require.InDelta(t, (aaa+caa)/2, p.FwdScores[0], 1e-12)

	_, err = s.Profile(context.Background(), [][]byte{[]byte("AAAA"), []byte("AAA")}, 0)
	require.ErrorIs(t, err, errs.ErrValidation)
	_, err = s.Profile(context.Background(), nil, 0)
	require.ErrorIs(t, err, errs.ErrValidation)

	all, err := s.Profile(context.Background(), [][]byte{[]byte("NNNN")}, 1)
	require.NoError(t, err)
	require.True(t, math.IsNaN(all.FwdScores[0]))
}

func TestHistogram(t *testing.T) {
	s := newScanner(t, fixture.Random(t, 5, 9), background.Uniform(0), 0.01, false)
	results := []Result{
		s.Sequence([]byte("ACGTACGTNNACGT")),
		s.Sequence([]byte("TTTTT")),
		s.Sequence([]byte("AC")),
	}
	h := s.Histogram(results)
	windows := 0
	for _, r := range results {
		for i := range r.FwdScores {
			if !math.IsNaN(r.FwdScores[i]) {
				windows += 2
			}
		}
	}
	require.Equal(t, windows, h.Total())
	require.Equal(t, score.DefaultGranularity, h.Granularity)
	require.InDelta(t, float64(h.MinBin)*h.Granularity, h.Score(0), 1e-12)

	require.Zero(t, s.Histogram(nil).Total())
}
