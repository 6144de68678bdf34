// internal/cmdutil/exit.go
package cmdutil

import (
	"context"
	"errors"

	"github.com/matthuska/motifcounter/core/errs"
	"github.com/matthuska/motifcounter/internal/writers"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitUsage       = 2 // bad flags or invalid input
	ExitRuntime     = 3
	ExitUnreachable = 4 // alpha below the smallest attainable tail
	ExitCanceled    = 130
)

// ExitCode maps an error to the process exit code. Broken pipes count as
// success: the reader went away on purpose.
func ExitCode(err error) int {
	switch {
	case err == nil, writers.IsBrokenPipe(err):
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitCanceled
	case errors.Is(err, errs.ErrThresholdUnattainable):
		return ExitUnreachable
	case errors.Is(err, errs.ErrValidation):
		return ExitUsage
	}
	return ExitRuntime
}
