// core/scan/scan.go
// Package scan scores concrete sequences window by window with the same
// discretized scorer the score DP uses.
package scan

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/matthuska/motifcounter/core/dna"
	"github.com/matthuska/motifcounter/core/errs"
	"github.com/matthuska/motifcounter/core/score"
	"github.com/matthuska/motifcounter/core/threshold"
)

// Result is aligned to 0-based window starts 0..len(seq)-L. Windows with an
// ambiguous symbol score NaN and are never hits. Reverse vectors are empty
// for single-stranded scanners.
type Result struct {
	FwdScores []float64
	RevScores []float64
	FwdHits   []bool
	RevHits   []bool
}

// Hits counts hits on both strands.
func (r Result) Hits() int {
	n := 0
	for _, h := range r.FwdHits {
		if h {
			n++
		}
	}
	for _, h := range r.RevHits {
		if h {
			n++
		}
	}
	return n
}

// Scanner is safe for concurrent use.
type Scanner struct {
	fwd, rev *score.Scorer
	th       threshold.Threshold
	single   bool
}

// New returns a scanner. rev scores the reverse-complement motif and may be
// nil when singlestranded is set.
func New(fwd, rev *score.Scorer, th threshold.Threshold, singlestranded bool) (*Scanner, error) {
	if fwd == nil {
		return nil, fmt.Errorf("scan: forward scorer is required: %w", errs.ErrValidation)
	}
	if !singlestranded && (rev == nil || rev.Len() != fwd.Len()) {
		return nil, fmt.Errorf("scan: reverse scorer of length %d is required: %w", fwd.Len(), errs.ErrValidation)
	}
	return &Scanner{fwd: fwd, rev: rev, th: th, single: singlestranded}, nil
}

// Len is the motif width.
func (s *Scanner) Len() int { return s.fwd.Len() }

// Singlestranded reports whether only the forward strand is scanned.
func (s *Scanner) Singlestranded() bool { return s.single }

// Sequence scans one sequence. A sequence shorter than the motif yields an
// empty result.
func (s *Scanner) Sequence(seq []byte) Result {
	codes := dna.Encode(seq)
	n := max(len(codes)-s.fwd.Len()+1, 0)
	r := Result{
		FwdScores: make([]float64, n),
		FwdHits:   make([]bool, n),
	}
	s.strand(s.fwd, codes, r.FwdScores, r.FwdHits)
	if !s.single {
		r.RevScores = make([]float64, n)
		r.RevHits = make([]bool, n)
		s.strand(s.rev, codes, r.RevScores, r.RevHits)
	} else {
		r.RevScores, r.RevHits = []float64{}, []bool{}
	}
	return r
}

func (s *Scanner) strand(sc *score.Scorer, codes []int8, scores []float64, hits []bool) {
	for p := range scores {
		bin, ok := sc.Bin(codes[p:])
		if !ok {
			scores[p] = math.NaN()
			continue
		}
		scores[p] = sc.Value(bin)
		hits[p] = s.th.Hit(bin)
	}
}

// Set scans every sequence on up to threads workers (0 = all CPUs) and
// returns results in input order.
func (s *Scanner) Set(ctx context.Context, seqs [][]byte, threads int) ([]Result, error) {
	out := make([]Result, len(seqs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers(threads))
	for i := range seqs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = s.Sequence(seqs[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func workers(threads int) int {
	if threads <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return threads
}

// CountHits totals hits over all results.
func CountHits(results []Result) int {
	n := 0
	for _, r := range results {
		n += r.Hits()
	}
	return n
}
