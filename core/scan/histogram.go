// core/scan/histogram.go
package scan

import "math"

// Histogram counts observed window scores on the scorer's grid. Counts[i]
// is the number of windows with score (MinBin+i)*Granularity.
type Histogram struct {
	Granularity float64
	MinBin      int
	Counts      []int
}

// Histogram bins the scores of every scorable window on both strands.
func (s *Scanner) Histogram(results []Result) Histogram {
	g := s.fwd.Granularity()
	h := Histogram{Granularity: g}
	lo, hi := math.MaxInt, math.MinInt
	bins := func(visit func(int)) {
		for _, r := range results {
			for _, v := range r.FwdScores {
				if !math.IsNaN(v) {
					visit(int(math.Round(v / g)))
				}
			}
			for _, v := range r.RevScores {
				if !math.IsNaN(v) {
					visit(int(math.Round(v / g)))
				}
			}
		}
	}
	bins(func(b int) { lo, hi = min(lo, b), max(hi, b) })
	if lo > hi {
		return h
	}
	h.MinBin = lo
	h.Counts = make([]int, hi-lo+1)
	bins(func(b int) { h.Counts[b-lo]++ })
	return h
}

// Total is the number of binned windows.
func (h Histogram) Total() int {
	n := 0
	for _, c := range h.Counts {
		n += c
	}
	return n
}

// Score returns the score of bin index i.
func (h Histogram) Score(i int) float64 { return float64(h.MinBin+i) * h.Granularity }
