// Package config holds the app-wide settings unmarshalled from Viper.
// Values layer as defaults, then an optional config file, then
// MOTIFCOUNTER_* environment variables, then command-line flags.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/matthuska/motifcounter/core/errs"
	"github.com/matthuska/motifcounter/core/score"
	"github.com/matthuska/motifcounter/core/threshold"
	"github.com/matthuska/motifcounter/internal/estimate"
	"github.com/matthuska/motifcounter/internal/motifio"
)

// EnvPrefix prefixes environment overrides, e.g. MOTIFCOUNTER_ALPHA.
const EnvPrefix = "MOTIFCOUNTER"

// Config is the root-level settings struct.
type Config struct {
	// motif matrix file
	Motif string `mapstructure:"motif"`
	// read the motif as one row per position
	Transpose bool `mapstructure:"transpose"`
	// pseudocount added to motif counts
	Pseudocount float64 `mapstructure:"pseudocount"`

	// FASTA files to estimate the background from; empty = uniform
	Background []string `mapstructure:"background"`
	// Markov order of the background
	Order int `mapstructure:"order"`
	// pseudocount added to background word counts
	BgPseudocount float64 `mapstructure:"bg-pseudocount"`

	Alpha          float64 `mapstructure:"alpha"`
	Granularity    float64 `mapstructure:"granularity"`
	Singlestranded bool    `mapstructure:"singlestranded"`

	// hit-count model: cpois or comb
	Model string `mapstructure:"model"`
	// region lengths for hitdist
	Lengths []int `mapstructure:"length"`
	// hit-count support; 0 = automatic
	MaxHits int `mapstructure:"max-hits"`

	Threads int `mapstructure:"threads"`

	Output   string `mapstructure:"output"`
	NoHeader bool   `mapstructure:"no-header"`
	// scan: include per-window scores in JSON/JSONL
	Scores bool `mapstructure:"scores"`
	// scan: emit the score histogram instead of hits
	Histogram bool `mapstructure:"histogram"`
	// scan: exit code when no window is a hit
	NoMatchExitCode int `mapstructure:"no-match-exit-code"`

	Quiet   bool `mapstructure:"quiet"`
	Verbose bool `mapstructure:"verbose"`
}

// Defaults registers the default of every key on v.
func Defaults(v *viper.Viper) {
	v.SetDefault("pseudocount", motifio.DefaultPseudocount)
	v.SetDefault("order", 1)
	v.SetDefault("bg-pseudocount", estimate.DefaultPseudocount)
	v.SetDefault("alpha", threshold.DefaultAlpha)
	v.SetDefault("granularity", score.DefaultGranularity)
	v.SetDefault("model", "cpois")
	v.SetDefault("output", "text")
}

// NewViper returns a Viper instance with defaults and environment
// overrides installed, reading configFile when it is non-empty.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	Defaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config %s: %v: %w", configFile, err, errs.ErrValidation)
		}
	}
	return v, nil
}

// Load binds fs to v and decodes the merged settings.
func Load(v *viper.Viper, fs *pflag.FlagSet) (Config, error) {
	var c Config
	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return c, err
		}
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("unable to decode settings: %v: %w", err, errs.ErrValidation)
	}
	return c, c.Validate()
}

// Validate checks ranges that the core would otherwise reject with a less
// specific message.
func (c Config) Validate() error {
	switch {
	case c.Alpha <= 0 || c.Alpha >= 1:
		return fmt.Errorf("--alpha must be in (0,1), got %g: %w", c.Alpha, errs.ErrValidation)
	case c.Granularity <= 0:
		return fmt.Errorf("--granularity must be > 0, got %g: %w", c.Granularity, errs.ErrValidation)
	case c.Order < 0:
		return fmt.Errorf("--order must be >= 0, got %d: %w", c.Order, errs.ErrValidation)
	case c.Pseudocount < 0 || c.BgPseudocount < 0:
		return fmt.Errorf("pseudocounts must be >= 0: %w", errs.ErrValidation)
	case c.MaxHits < 0:
		return fmt.Errorf("--max-hits must be >= 0, got %d: %w", c.MaxHits, errs.ErrValidation)
	case c.Threads < 0:
		return fmt.Errorf("--threads must be >= 0, got %d: %w", c.Threads, errs.ErrValidation)
	case c.NoMatchExitCode < 0 || c.NoMatchExitCode > 255:
		return fmt.Errorf("--no-match-exit-code must be between 0 and 255: %w", errs.ErrValidation)
	}
	for _, l := range c.Lengths {
		if l < 0 {
			return fmt.Errorf("--length must be >= 0, got %d: %w", l, errs.ErrValidation)
		}
	}
	return nil
}
