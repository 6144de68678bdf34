// internal/output/common.go
package output

import (
	"math"
	"strconv"
	"strings"
)

// Column headers for text/TSV outputs. Keep these as the single source of
// truth; the CSV frames use the same names.
const (
	ScoreDistHeader  = "score\tprob"
	OverlapHeader    = "offset\tgamma\tgamma3p\tgamma5p\tbeta\tbeta3p\tbeta5p"
	HitCountHeader   = "hits\tprob"
	BackgroundHeader = "context\tstationary\tA\tC\tG\tT"
	ProfileHeader    = "position\tfwd_score\trev_score\tfwd_hit_freq\trev_hit_freq"
	HistogramHeader  = "score\tcount"
	SequenceHeader   = "sequence_id\tstrand\tposition\tscore"
)

// NA marks undefined numbers in text output.
const NA = "NA"

var nan = math.NaN()

// FormatFloat renders v compactly, NaN as NA.
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return NA
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// Nullable maps NaN entries to nil for JSON.
func Nullable(xs []float64) []*float64 {
	if xs == nil {
		return nil
	}
	out := make([]*float64, len(xs))
	for i := range xs {
		if !math.IsNaN(xs[i]) {
			v := xs[i]
			out[i] = &v
		}
	}
	return out
}

// NullableScalar is nil for NaN and ±Inf.
func NullableScalar(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func row(fields ...string) string { return strings.Join(fields, "\t") + "\n" }
