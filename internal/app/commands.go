// internal/app/commands.go
package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matthuska/motifcounter/core/errs"
	"github.com/matthuska/motifcounter/core/scan"
	"github.com/matthuska/motifcounter/internal/cli"
	"github.com/matthuska/motifcounter/internal/cmdutil"
	"github.com/matthuska/motifcounter/internal/engine"
	"github.com/matthuska/motifcounter/internal/estimate"
	"github.com/matthuska/motifcounter/internal/output"
	"github.com/matthuska/motifcounter/internal/pipeline"
	"github.com/matthuska/motifcounter/internal/runutil"
	"github.com/matthuska/motifcounter/internal/writers"
)

// motifFlags registers what every motif-based command needs.
func motifFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	cli.RegisterMotif(fs)
	cli.RegisterBackground(fs, 1)
	cli.RegisterThreshold(fs)
}

func scoreDistCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scoredist",
		Short: "Print the motif score distribution under the background",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := st.load(cmd.Context())
			if err != nil {
				return err
			}
			return st.write(output.ScoreDist{Motif: l.name, Dist: l.model.Dist})
		},
	}
	motifFlags(cmd)
	return cmd
}

func thresholdCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "threshold",
		Short: "Calibrate the score threshold for a false-positive level",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := st.load(cmd.Context())
			if err != nil {
				return err
			}
			return st.write(output.Threshold{Motif: l.name, Threshold: l.model.Threshold})
		},
	}
	motifFlags(cmd)
	return cmd
}

func overlapCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overlap",
		Short: "Print the overlap probabilities of motif hits",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := st.load(cmd.Context())
			if err != nil {
				return err
			}
			ov, err := l.model.Overlap()
			if err != nil {
				return err
			}
			return st.write(output.Overlap{Motif: l.name, Set: ov})
		},
	}
	motifFlags(cmd)
	return cmd
}

func hitDistCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hitdist [seqs.fa ...]",
		Short: "Distribution of the number of hits in regions of given lengths",
		Long: `
Compute the distribution of the number of motif hits in regions whose
lengths are given with --length and/or taken from FASTA records.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			kind, err := engine.ParseKind(st.cfg.Model)
			if err != nil {
				return err
			}
			lengths := append([]int(nil), st.cfg.Lengths...)
			if len(args) > 0 {
				seqs, err := st.inputs(ctx, args)
				if err != nil {
					return err
				}
				lengths = append(lengths, engine.Lengths(seqs)...)
			}
			if len(lengths) == 0 {
				return fmt.Errorf("give --length or FASTA files: %w", errs.ErrValidation)
			}
			l, err := st.load(ctx)
			if err != nil {
				return err
			}
			if st.cfg.MaxHits > 0 {
				bound, err := l.model.Bound(lengths)
				if err != nil {
					return err
				}
				if st.cfg.MaxHits < bound {
					st.log.Warnf("--max-hits %d is below the automatic bound %d; the reported mean is a lower bound", st.cfg.MaxHits, bound)
				}
			}
			d, err := l.model.HitCounts(kind, lengths, st.cfg.MaxHits)
			if err != nil {
				return err
			}
			st.log.Debugf("%s: %d regions, mean %.4g hits", kind, len(lengths), d.Mean())
			return st.write(output.HitCount{Model: string(kind), Lengths: lengths, Dist: d})
		},
	}
	motifFlags(cmd)
	cli.RegisterModel(cmd.Flags())
	cli.RegisterLengths(cmd.Flags())
	return cmd
}

func scanCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan seqs.fa [...]",
		Short: "Report motif hits in each sequence",
		Args:  minArgs(1, "FASTA file(s)"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			files, err := cli.ExpandPositionals(args)
			if err != nil {
				return err
			}
			l, err := st.load(ctx)
			if err != nil {
				return err
			}
			sc, err := l.model.Scanner()
			if err != nil {
				return err
			}
			if st.cfg.Histogram {
				return st.histogram(ctx, files, sc)
			}
			return st.scan(ctx, files, sc)
		},
	}
	motifFlags(cmd)
	cli.RegisterThreads(cmd.Flags())
	cli.RegisterScan(cmd.Flags())
	return cmd
}

func (st *state) pipelineConfig() pipeline.Config {
	return pipeline.Config{Threads: runutil.EffectiveThreads(st.cfg.Threads)}
}

func (st *state) scan(parent context.Context, files []string, sc *scan.Scanner) error {
	pc := st.pipelineConfig()
	in, writeErr := writers.StartSequenceWriter(st.out, st.cfg.Output,
		writers.SequenceOptions{Header: !st.cfg.NoHeader, Scores: st.cfg.Scores}, pc.Threads*4)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	n := 0
	total, perr := cmdutil.RunStream(ctx, pc, files, sc,
		func(it pipeline.Item) error {
			n++
			if it.Length < sc.Len() {
				st.log.Debugf("%s: shorter than the motif", it.ID)
			}
			return nil
		},
		func(it pipeline.Item) error {
			select {
			case in <- it:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	)
	close(in)
	if werr := <-writeErr; werr != nil {
		return werr
	}
	if perr != nil {
		return perr
	}
	st.log.Infof("scanned %d sequences, %d hits", n, total)
	if total == 0 && st.cfg.NoMatchExitCode != 0 {
		return exitError{code: st.cfg.NoMatchExitCode}
	}
	return nil
}

func (st *state) histogram(ctx context.Context, files []string, sc *scan.Scanner) error {
	var results []scan.Result
	_, err := cmdutil.RunStream(ctx, st.pipelineConfig(), files, sc, nil, func(it pipeline.Item) error {
		results = append(results, it.Result)
		return nil
	})
	if err != nil {
		return err
	}
	return st.write(output.Histogram{Histogram: sc.Histogram(results)})
}

func profileCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile seqs.fa [...]",
		Short: "Average per-position scores and hit frequencies over equal-length sequences",
		Args:  minArgs(1, "FASTA file(s)"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			seqs, err := st.inputs(ctx, args)
			if err != nil {
				return err
			}
			l, err := st.load(ctx)
			if err != nil {
				return err
			}
			sc, err := l.model.Scanner()
			if err != nil {
				return err
			}
			p, err := sc.Profile(ctx, seqs, st.cfg.Threads)
			if err != nil {
				return err
			}
			return st.write(output.Profile{Profile: p})
		},
	}
	motifFlags(cmd)
	cli.RegisterThreads(cmd.Flags())
	return cmd
}

func enrichCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enrich seqs.fa [...]",
		Short: "Test whether the sequences hold more hits than expected",
		Args:  minArgs(1, "FASTA file(s)"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			kind, err := engine.ParseKind(st.cfg.Model)
			if err != nil {
				return err
			}
			seqs, err := st.inputs(ctx, args)
			if err != nil {
				return err
			}
			l, err := st.load(ctx)
			if err != nil {
				return err
			}
			sc, err := l.model.Scanner()
			if err != nil {
				return err
			}
			results, err := sc.Set(ctx, seqs, st.cfg.Threads)
			if err != nil {
				return err
			}
			observed := scan.CountHits(results)
			r, _, err := l.model.Enrich(kind, engine.Lengths(seqs), observed)
			if err != nil {
				return err
			}
			return st.write(output.Enrichment{
				Model:     string(kind),
				Sequences: len(seqs),
				Result:    r,
				Threshold: l.model.Threshold,
			})
		},
	}
	motifFlags(cmd)
	cli.RegisterModel(cmd.Flags())
	cli.RegisterThreads(cmd.Flags())
	return cmd
}

func backgroundCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "background seqs.fa [...]",
		Short: "Estimate an order-d Markov background from sequences",
		Args:  minArgs(1, "FASTA file(s)"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			seqs, err := st.inputs(ctx, args)
			if err != nil {
				return err
			}
			bg, err := estimate.FromSequences(ctx, seqs, estimate.Options{
				Order:       st.cfg.Order,
				Pseudocount: st.cfg.BgPseudocount,
			})
			if err != nil {
				return err
			}
			return st.write(output.Background{Model: bg})
		},
	}
	fs := cmd.Flags()
	fs.IntP("order", "d", 1, "Markov order of the background")
	fs.Float64("bg-pseudocount", estimate.DefaultPseudocount, "pseudocount added to background word counts")
	return cmd
}
