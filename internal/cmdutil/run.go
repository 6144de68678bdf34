// internal/cmdutil/run.go
package cmdutil

import (
	"context"

	"github.com/matthuska/motifcounter/internal/pipeline"
)

// RunStream runs the shared pipeline, applies a visitor, and streams results via send.
// It returns the number of hits seen and the first error encountered.
func RunStream(
	ctx context.Context,
	cfg pipeline.Config,
	seqFiles []string,
	sc pipeline.Scanner,
	visit func(pipeline.Item) error,
	send func(pipeline.Item) error,
) (int, error) {
	total := 0
	err := pipeline.ForEachResult(ctx, cfg, seqFiles, sc, func(it pipeline.Item) error {
		if visit != nil {
			if err := visit(it); err != nil {
				return err
			}
		}
		total += it.Result.Hits()
		return send(it)
	})
	return total, err
}
