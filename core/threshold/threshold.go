// core/threshold/threshold.go
// Package threshold turns a target false-positive probability into a score
// cutoff on the discrete grid of a score distribution.
package threshold

import (
	"fmt"

	"github.com/matthuska/motifcounter/core/errs"
	"github.com/matthuska/motifcounter/core/score"
)

// DefaultAlpha is the default false-positive probability of a single window.
const DefaultAlpha = 0.001

// Threshold is a calibrated cutoff. A window is a hit when its score bin is
// strictly greater than Bin.
type Threshold struct {
	Value     float64 // score at Bin
	Bin       int
	Alpha     float64 // achieved P(score > Value)
	Requested float64
}

// Hit reports whether bin passes the cutoff.
func (t Threshold) Hit(bin int) bool { return bin > t.Bin }

// Calibrate walks the bins from the top and returns the lowest bin whose
// strictly-higher tail does not exceed alpha. Only bins carrying mass are
// candidates; at least one bin above the cutoff must remain.
func Calibrate(d *score.Distribution, alpha float64) (Threshold, error) {
	if !(alpha > 0 && alpha < 1) {
		return Threshold{}, fmt.Errorf("threshold: alpha %g outside (0,1): %w", alpha, errs.ErrValidation)
	}
	if d == nil || d.Len() == 0 {
		return Threshold{}, fmt.Errorf("threshold: empty score distribution: %w", errs.ErrValidation)
	}

	// tail = P(score > bin i) while walking down
	tail := 0.0
	best := -1
	bestTail := 0.0
	for i := d.Len() - 1; i >= 0; i-- {
		if d.Probs[i] == 0 {
			continue
		}
		if tail > alpha {
			break
		}
		best, bestTail = i, tail
		tail += d.Probs[i]
	}
	if best < 0 || best == lastNonZero(d) {
		return Threshold{}, fmt.Errorf("threshold: alpha %g below smallest tail probability %.3g: %w",
			alpha, smallestTail(d), errs.ErrThresholdUnattainable)
	}
	return Threshold{
		Value:     d.Scores[best],
		Bin:       d.MinBin + best,
		Alpha:     bestTail,
		Requested: alpha,
	}, nil
}

func lastNonZero(d *score.Distribution) int {
	for i := d.Len() - 1; i >= 0; i-- {
		if d.Probs[i] != 0 {
			return i
		}
	}
	return -1
}

// smallestTail is the mass of the top bin, the smallest achievable alpha.
func smallestTail(d *score.Distribution) float64 {
	if i := lastNonZero(d); i >= 0 {
		return d.Probs[i]
	}
	return 0
}
