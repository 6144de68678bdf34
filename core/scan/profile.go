// core/scan/profile.go
package scan

import (
	"context"
	"fmt"
	"math"

	"github.com/matthuska/motifcounter/core/errs"
)

// Profile averages per-position scores and hit frequencies over a set of
// equal-length sequences. Positions where no sequence has a scorable
// window carry NaN scores.
type Profile struct {
	Sequences  int
	FwdScores  []float64
	RevScores  []float64
	FwdHitFreq []float64
	RevHitFreq []float64
}

// Profile scans seqs and aggregates them position by position. All
// sequences must have the same length.
func (s *Scanner) Profile(ctx context.Context, seqs [][]byte, threads int) (*Profile, error) {
	if len(seqs) == 0 {
		return nil, fmt.Errorf("scan: profile needs at least one sequence: %w", errs.ErrValidation)
	}
	for i, q := range seqs {
		if len(q) != len(seqs[0]) {
			return nil, fmt.Errorf("scan: sequence %d has length %d, expected %d: %w", i, len(q), len(seqs[0]), errs.ErrValidation)
		}
	}
	results, err := s.Set(ctx, seqs, threads)
	if err != nil {
		return nil, err
	}
	n := len(results[0].FwdScores)
	p := &Profile{Sequences: len(seqs)}
	p.FwdScores, p.FwdHitFreq = average(results, n, func(r Result) ([]float64, []bool) { return r.FwdScores, r.FwdHits })
	if s.single {
		p.RevScores, p.RevHitFreq = []float64{}, []float64{}
	} else {
		p.RevScores, p.RevHitFreq = average(results, n, func(r Result) ([]float64, []bool) { return r.RevScores, r.RevHits })
	}
	return p, nil
}

func average(results []Result, n int, pick func(Result) ([]float64, []bool)) (scores, freq []float64) {
	scores = make([]float64, n)
	freq = make([]float64, n)
	seen := make([]int, n)
	for _, r := range results {
		sc, hits := pick(r)
		for i := 0; i < n; i++ {
			if !math.IsNaN(sc[i]) {
				scores[i] += sc[i]
				seen[i]++
			}
			if hits[i] {
				freq[i]++
			}
		}
	}
	for i := range scores {
		if seen[i] == 0 {
			scores[i] = math.NaN()
		} else {
			scores[i] /= float64(seen[i])
		}
		freq[i] /= float64(len(results))
	}
	return scores, freq
}
