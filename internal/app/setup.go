// internal/app/setup.go
package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/matthuska/motifcounter/core/background"
	"github.com/matthuska/motifcounter/core/errs"
	"github.com/matthuska/motifcounter/core/fasta"
	"github.com/matthuska/motifcounter/internal/cli"
	"github.com/matthuska/motifcounter/internal/engine"
	"github.com/matthuska/motifcounter/internal/estimate"
	"github.com/matthuska/motifcounter/internal/motifio"
	"github.com/matthuska/motifcounter/internal/output"
	"github.com/matthuska/motifcounter/internal/writers"
)

func noArgs(_ *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments %v: %w", args, errs.ErrValidation)
	}
	return nil
}

func minArgs(n int, what string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) < n {
			return fmt.Errorf("at least %d %s required: %w", n, what, errs.ErrValidation)
		}
		return nil
	}
}

// loaded is a calibrated motif with its display name.
type loaded struct {
	name  string
	model *engine.Model
}

func (st *state) load(ctx context.Context) (loaded, error) {
	c := st.cfg
	if c.Motif == "" {
		return loaded{}, fmt.Errorf("--motif is required: %w", errs.ErrValidation)
	}
	mx, err := motifio.ReadFile(c.Motif, motifio.Options{Transpose: c.Transpose, Pseudocount: c.Pseudocount})
	if err != nil {
		return loaded{}, err
	}
	bg, err := st.background(ctx)
	if err != nil {
		return loaded{}, err
	}
	eng := engine.New(engine.Config{
		Granularity:    c.Granularity,
		Alpha:          c.Alpha,
		Singlestranded: c.Singlestranded,
	})
	md, err := eng.Model(mx.Motif, bg)
	if err != nil {
		return loaded{}, err
	}
	name := mx.Name
	if name == "" {
		name = mx.ID
	}
	if name == "" {
		name = filepath.Base(c.Motif)
	}
	st.log.WithFields(logrus.Fields{
		"motif":     name,
		"width":     md.Len(),
		"order":     bg.Order(),
		"threshold": md.Threshold.Value,
		"alpha":     md.Threshold.Alpha,
	}).Debug("calibrated motif")
	return loaded{name: name, model: md}, nil
}

// background estimates the model from --background files, or returns the
// uniform model when none are given.
func (st *state) background(ctx context.Context) (*background.Model, error) {
	c := st.cfg
	if len(c.Background) == 0 {
		return background.Uniform(0), nil
	}
	files, err := cli.ExpandPositionals(c.Background)
	if err != nil {
		return nil, err
	}
	seqs, err := st.sequences(ctx, files)
	if err != nil {
		return nil, err
	}
	return estimate.FromSequences(ctx, seqs, estimate.Options{Order: c.Order, Pseudocount: c.BgPseudocount})
}

// sequences loads every record of files, warning about empty records.
func (st *state) sequences(ctx context.Context, files []string) ([][]byte, error) {
	recs, err := fasta.ReadAll(ctx, files)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("no FASTA records in %v: %w", files, errs.ErrValidation)
	}
	seqs := make([][]byte, len(recs))
	for i, r := range recs {
		if len(r.Seq) == 0 {
			st.log.Warnf("record %q is empty", r.ID)
		}
		seqs[i] = r.Seq
	}
	return seqs, nil
}

func (st *state) inputs(ctx context.Context, args []string) ([][]byte, error) {
	files, err := cli.ExpandPositionals(args)
	if err != nil {
		return nil, err
	}
	return st.sequences(ctx, files)
}

func (st *state) write(r output.Report) error {
	return writers.WriteReport(st.cfg.Output, st.out, r)
}
