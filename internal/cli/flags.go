// internal/cli/flags.go
package cli

import (
	"github.com/spf13/pflag"

	"github.com/matthuska/motifcounter/core/score"
	"github.com/matthuska/motifcounter/core/threshold"
	"github.com/matthuska/motifcounter/internal/estimate"
	"github.com/matthuska/motifcounter/internal/motifio"
)

// Flag groups. Names double as config keys, so they must match the
// mapstructure tags in internal/config.

func RegisterMotif(fs *pflag.FlagSet) {
	fs.StringP("motif", "m", "", "motif count or frequency matrix (plain, JASPAR)")
	fs.Bool("transpose", false, "motif file has one row per position [false]")
	fs.Float64("pseudocount", motifio.DefaultPseudocount, "pseudocount added to motif entries")
}

func RegisterBackground(fs *pflag.FlagSet, order int) {
	fs.StringSliceP("background", "b", nil, "FASTA file(s) to estimate the background from (default uniform)")
	fs.IntP("order", "d", order, "Markov order of the background")
	fs.Float64("bg-pseudocount", estimate.DefaultPseudocount, "pseudocount added to background word counts")
}

func RegisterThreshold(fs *pflag.FlagSet) {
	fs.Float64P("alpha", "a", threshold.DefaultAlpha, "false-positive probability per window")
	fs.Float64("granularity", score.DefaultGranularity, "score bin width")
	fs.Bool("singlestranded", false, "scan the forward strand only [false]")
}

func RegisterModel(fs *pflag.FlagSet) {
	fs.String("model", "cpois", "hit-count model: cpois | comb")
	fs.Int("max-hits", 0, "largest hit count tracked (0=auto)")
}

func RegisterLengths(fs *pflag.FlagSet) {
	fs.IntSliceP("length", "l", nil, "region length (repeatable)")
}

func RegisterThreads(fs *pflag.FlagSet) {
	fs.IntP("threads", "t", 0, "worker threads (0=all CPUs)")
}

func RegisterScan(fs *pflag.FlagSet) {
	fs.Bool("scores", false, "include per-window scores (json/jsonl) [false]")
	fs.Bool("histogram", false, "emit the observed score histogram instead of hits [false]")
	fs.Int("no-match-exit-code", 0, "exit code when no window is a hit")
}

// RegisterGlobal adds the flags every command shares.
func RegisterGlobal(fs *pflag.FlagSet) {
	fs.String("config", "", "config file (YAML, TOML or JSON)")
	fs.StringP("output", "o", "text", "output: text | json | jsonl | csv")
	fs.Bool("no-header", false, "suppress the header line (text) [false]")
	fs.BoolP("quiet", "q", false, "only log errors [false]")
	fs.Bool("verbose", false, "log debug details [false]")
}
