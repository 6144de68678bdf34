// Package errs defines the error conditions reported by the core packages.
//
// Callers match them with errors.Is; every error returned by a core package
// wraps exactly one of these sentinels with call-site context.
package errs

import "errors"

var (
	// ErrValidation reports a malformed motif, background model or sequence
	// set (non-positive entries, rows not summing to one, mismatched order or
	// length). Fatal: the caller must supply corrected input.
	ErrValidation = errors.New("validation failed")

	// ErrThresholdUnattainable reports that the requested alpha is below the
	// smallest non-trivial tail probability of the score distribution. The
	// caller should relax alpha.
	ErrThresholdUnattainable = errors.New("threshold unattainable for requested alpha")

	// ErrNumericTolerance reports a probability distribution whose mass
	// deviates from one beyond tolerance. It indicates a grid or DP bug.
	ErrNumericTolerance = errors.New("numeric tolerance exceeded")
)
