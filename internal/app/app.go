// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/matthuska/motifcounter/core/errs"
	"github.com/matthuska/motifcounter/internal/cli"
	"github.com/matthuska/motifcounter/internal/cmdutil"
	"github.com/matthuska/motifcounter/internal/config"
	"github.com/matthuska/motifcounter/internal/writers"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

// exitError carries a non-error exit status, e.g. --no-match-exit-code.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// state is shared by the commands of one invocation.
type state struct {
	out    io.Writer
	stderr io.Writer
	cfg    config.Config
	log    *logrus.Logger
	ran    bool // flags parsed and config loaded
}

func newRootCommand(st *state) *cobra.Command {
	root := &cobra.Command{
		Use:   "motifcounter",
		Short: "Significance of transcription factor motif hits in DNA sequences",
		Long: `
Compute score distributions, score thresholds, overlap probabilities and
the distribution of the number of motif hits in DNA sequences under an
order-d Markov background, and test observed hit counts for enrichment.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			file, _ := cmd.Flags().GetString("config")
			v, err := config.NewViper(file)
			if err != nil {
				return err
			}
			if st.cfg, err = config.Load(v, cmd.Flags()); err != nil {
				return err
			}
			st.log = cmdutil.NewLogger(st.stderr, st.cfg.Quiet, st.cfg.Verbose)
			st.ran = true
			if _, ok := writers.ReportWriters[st.cfg.Output]; !ok {
				return fmt.Errorf("invalid --output %q (want one of %v): %w", st.cfg.Output, writers.Formats(), errs.ErrValidation)
			}
			return nil
		},
	}
	cli.RegisterGlobal(root.PersistentFlags())
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%v: %w", err, errs.ErrValidation)
	})
	root.AddCommand(
		scoreDistCommand(st),
		thresholdCommand(st),
		overlapCommand(st),
		hitDistCommand(st),
		scanCommand(st),
		profileCommand(st),
		enrichCommand(st),
		backgroundCommand(st),
	)
	return root
}

// RunContext runs one invocation and returns the process exit code.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	st := &state{out: outw, stderr: stderr}

	root := newRootCommand(st)
	if argv == nil {
		argv = []string{} // cobra falls back to os.Args on nil
	}
	root.SetArgs(argv)
	root.SetOut(outw)
	root.SetErr(stderr)

	err := root.ExecuteContext(parent)
	if ferr := outw.Flush(); err == nil && ferr != nil {
		err = ferr
	}

	var ee exitError
	switch {
	case err == nil:
		return cmdutil.ExitOK
	case errors.As(err, &ee):
		return ee.code
	}
	code := cmdutil.ExitCode(err)
	if code == cmdutil.ExitOK || code == cmdutil.ExitCanceled {
		return code
	}
	log := st.log
	if log == nil {
		log = cmdutil.NewLogger(stderr, false, false)
	}
	if !st.ran {
		log.Errorf("%v (see --help)", err)
		return cmdutil.ExitUsage
	}
	log.Error(err)
	if code == cmdutil.ExitUnreachable {
		log.Warn("relax --alpha or lower --granularity")
	}
	return code
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
