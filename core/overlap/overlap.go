// core/overlap/overlap.go
// Package overlap computes how likely two motif hits are to co-occur at
// every relative offset and strand pairing.
//
// Offsets index every slice: entry k describes a second hit starting k
// positions after the first. Three pairings are computed:
//
//	Gamma/Beta     same strand, k = 1..L-1 (entry 0 unused)
//	Gamma3p/Beta3p forward then reverse, k = 0..L-1
//	Gamma5p/Beta5p reverse then forward, k = 1..L-1 (entry 0 unused)
//
// Gamma is P(second hit | first hit). Beta is the probability that the
// second hit is the next hit after the first, with no hit of either strand
// in between. Betas come from the renewal decomposition
//
//	gpp(i) = Σ_{j=1..i} bpp(j) gpp(i-j) + Σ_{j=0..i-1} bpm(j) gmp(i-j)
//	gpm(i) = Σ_{j=1..i} bpp(j) gpm(i-j) + Σ_{j=0..i} bpm(j) gpp(i-j)
//	gmp(i) = Σ_{j=1..i} bmp(j) gpp(i-j) + Σ_{j=1..i-1} bpp(j) gmp(i-j)
//
// with gpp(0) = 1, solved for increasing i. Hits on one position are
// ordered forward before reverse, and reverse/reverse pairs reuse the
// forward/forward values.
package overlap

import (
	"fmt"

	"github.com/matthuska/motifcounter/core/errs"
	"github.com/matthuska/motifcounter/core/score"
	"github.com/matthuska/motifcounter/core/threshold"
)

// Set holds overlap probabilities for one motif, background and threshold.
type Set struct {
	Alpha    float64 // forward hit probability per position
	AlphaRev float64 // reverse hit probability per position; 0 when single-stranded

	Beta, Beta3p, Beta5p    []float64
	Gamma, Gamma3p, Gamma5p []float64

	Singlestranded bool
}

// Len is the motif width.
func (s *Set) Len() int { return len(s.Gamma) }

// Compute runs the joint DP for every offset and pairing and peels the
// betas. rev scores the reverse-complement motif and may be nil when
// singlestranded is set. th must be calibrated on fwd's score distribution:
// its achieved Alpha is taken as the forward hit probability.
func Compute(fwd, rev *score.Scorer, th threshold.Threshold, singlestranded bool) (*Set, error) {
	if fwd == nil {
		return nil, fmt.Errorf("overlap: forward scorer is required: %w", errs.ErrValidation)
	}
	l := fwd.Len()
	if !singlestranded {
		switch {
		case rev == nil:
			return nil, fmt.Errorf("overlap: reverse scorer is required on both strands: %w", errs.ErrValidation)
		case rev.Len() != l:
			return nil, fmt.Errorf("overlap: reverse motif length %d != %d: %w", rev.Len(), l, errs.ErrValidation)
		case rev.Background() != fwd.Background():
			return nil, fmt.Errorf("overlap: scorers built against different backgrounds: %w", errs.ErrValidation)
		case rev.Granularity() != fwd.Granularity():
			return nil, fmt.Errorf("overlap: granularity %g != %g: %w", rev.Granularity(), fwd.Granularity(), errs.ErrValidation)
		}
	}
	if !(th.Alpha > 0 && th.Alpha < 1) {
		return nil, fmt.Errorf("overlap: threshold alpha %g outside (0,1): %w", th.Alpha, errs.ErrValidation)
	}
	bg := fwd.Background()

	s := &Set{
		Alpha:          th.Alpha,
		Beta:           make([]float64, l),
		Beta3p:         make([]float64, l),
		Beta5p:         make([]float64, l),
		Gamma:          make([]float64, l),
		Gamma3p:        make([]float64, l),
		Gamma5p:        make([]float64, l),
		Singlestranded: singlestranded,
	}

	wf := newWindow(fwd, th.Bin)
	for k := 1; k < l; k++ {
		s.Gamma[k] = ratio(joint(bg, wf, wf, k), s.Alpha)
	}
	if !singlestranded {
		// the reverse-complement motif has its own score distribution
		dr, err := score.Compute(rev)
		if err != nil {
			return nil, err
		}
		s.AlphaRev = dr.Tail(th.Bin)
		wr := newWindow(rev, th.Bin)
		for k := 0; k < l; k++ {
			s.Gamma3p[k] = ratio(joint(bg, wf, wr, k), s.Alpha)
		}
		for k := 1; k < l; k++ {
			s.Gamma5p[k] = ratio(joint(bg, wr, wf, k), s.AlphaRev)
		}
	}
	s.peel()
	return s, nil
}

func ratio(joint, marginal float64) float64 {
	if marginal <= 0 {
		return 0
	}
	return clamp(joint/marginal, 1)
}

func clamp(v, hi float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > hi:
		return hi
	}
	return v
}

// peel solves the renewal decomposition for the betas. Single-stranded sets
// have zero cross-strand gammas, which leaves the cross-strand betas zero.
func (s *Set) peel() {
	gpp, gpm, gmp := s.Gamma, s.Gamma3p, s.Gamma5p
	bpp, bpm, bmp := s.Beta, s.Beta3p, s.Beta5p
	for i := 0; i < len(gpp); i++ {
		if i > 0 {
			v := gpp[i]
			for j := 1; j < i; j++ {
				v -= bpp[j] * gpp[i-j]
			}
			for j := 0; j < i; j++ {
				v -= bpm[j] * gmp[i-j]
			}
			bpp[i] = clamp(v, gpp[i])
		}

		v := gpm[i]
		for j := 1; j <= i; j++ {
			v -= bpp[j] * gpm[i-j]
		}
		for j := 0; j < i; j++ {
			v -= bpm[j] * gpp[i-j]
		}
		bpm[i] = clamp(v, gpm[i])

		if i > 0 {
			v := gmp[i]
			for j := 1; j < i; j++ {
				v -= bmp[j]*gpp[i-j] + bpp[j]*gmp[i-j]
			}
			bmp[i] = clamp(v, gmp[i])
		}
	}
}
