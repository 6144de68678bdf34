// internal/output/report.go
package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/matthuska/motifcounter/core/background"
	"github.com/matthuska/motifcounter/core/enrich"
	"github.com/matthuska/motifcounter/core/hitcount"
	"github.com/matthuska/motifcounter/core/overlap"
	"github.com/matthuska/motifcounter/core/scan"
	"github.com/matthuska/motifcounter/core/score"
	"github.com/matthuska/motifcounter/core/threshold"
	"github.com/matthuska/motifcounter/pkg/api"
)

// Report is one result renderable in every output format: TSV text, a
// gota frame for CSV, and a v1 wire value for JSON/JSONL.
type Report interface {
	WriteText(w io.Writer) error
	Frame() dataframe.DataFrame
	API() any
}

// floatCol stores floats pre-formatted; gota's own float formatting rounds
// to six decimals, which flattens small probabilities to zero.
func floatCol(name string, xs []float64) series.Series {
	s := make([]string, len(xs))
	for i, x := range xs {
		s[i] = FormatFloat(x)
	}
	return series.New(s, series.String, name)
}

func intCol(name string, xs []int) series.Series { return series.New(xs, series.Int, name) }

/* -------------------------------------------------------------------------- */
/*                              score distribution                            */
/* -------------------------------------------------------------------------- */

type ScoreDist struct {
	Motif string
	Dist  *score.Distribution
}

func (r ScoreDist) WriteText(w io.Writer) error {
	var b strings.Builder
	b.WriteString(ScoreDistHeader + "\n")
	for i, s := range r.Dist.Scores {
		b.WriteString(row(FormatFloat(s), FormatFloat(r.Dist.Probs[i])))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (r ScoreDist) Frame() dataframe.DataFrame {
	return dataframe.New(floatCol("score", r.Dist.Scores), floatCol("prob", r.Dist.Probs))
}

func (r ScoreDist) API() any {
	return api.ScoreDistV1{
		Motif:       r.Motif,
		Granularity: r.Dist.Granularity,
		Scores:      append([]float64(nil), r.Dist.Scores...),
		Probs:       append([]float64(nil), r.Dist.Probs...),
	}
}

/* -------------------------------------------------------------------------- */
/*                                  threshold                                 */
/* -------------------------------------------------------------------------- */

type Threshold struct {
	Motif     string
	Threshold threshold.Threshold
}

func (r Threshold) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "threshold\talpha\trequested_alpha\n%s\t%s\t%s\n",
		FormatFloat(r.Threshold.Value), FormatFloat(r.Threshold.Alpha), FormatFloat(r.Threshold.Requested))
	return err
}

func (r Threshold) Frame() dataframe.DataFrame {
	return dataframe.New(
		floatCol("threshold", []float64{r.Threshold.Value}),
		floatCol("alpha", []float64{r.Threshold.Alpha}),
		floatCol("requested_alpha", []float64{r.Threshold.Requested}),
	)
}

func (r Threshold) API() any {
	return api.ThresholdV1{
		Motif:     r.Motif,
		Threshold: r.Threshold.Value,
		Alpha:     r.Threshold.Alpha,
		Requested: r.Threshold.Requested,
	}
}

/* -------------------------------------------------------------------------- */
/*                                   overlap                                  */
/* -------------------------------------------------------------------------- */

type Overlap struct {
	Motif string
	Set   *overlap.Set
}

func (r Overlap) WriteText(w io.Writer) error {
	s := r.Set
	var b strings.Builder
	fmt.Fprintf(&b, "# alpha=%s alpha_rev=%s singlestranded=%t\n", FormatFloat(s.Alpha), FormatFloat(s.AlphaRev), s.Singlestranded)
	b.WriteString(OverlapHeader + "\n")
	for k := 0; k < s.Len(); k++ {
		b.WriteString(row(strconv.Itoa(k),
			FormatFloat(s.Gamma[k]), FormatFloat(s.Gamma3p[k]), FormatFloat(s.Gamma5p[k]),
			FormatFloat(s.Beta[k]), FormatFloat(s.Beta3p[k]), FormatFloat(s.Beta5p[k])))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (r Overlap) Frame() dataframe.DataFrame {
	s := r.Set
	offsets := make([]int, s.Len())
	for k := range offsets {
		offsets[k] = k
	}
	return dataframe.New(
		intCol("offset", offsets),
		floatCol("gamma", s.Gamma), floatCol("gamma3p", s.Gamma3p), floatCol("gamma5p", s.Gamma5p),
		floatCol("beta", s.Beta), floatCol("beta3p", s.Beta3p), floatCol("beta5p", s.Beta5p),
	)
}

func (r Overlap) API() any {
	s := r.Set
	return api.OverlapV1{
		Motif:          r.Motif,
		Alpha:          s.Alpha,
		AlphaRev:       s.AlphaRev,
		Beta:           s.Beta,
		Beta3p:         s.Beta3p,
		Beta5p:         s.Beta5p,
		Gamma:          s.Gamma,
		Gamma3p:        s.Gamma3p,
		Gamma5p:        s.Gamma5p,
		Singlestranded: s.Singlestranded,
	}
}

/* -------------------------------------------------------------------------- */
/*                                  hit counts                                */
/* -------------------------------------------------------------------------- */

// HitCount renders a number-of-hits distribution. The last row is the tail
// P(X >= hits).
type HitCount struct {
	Model   string
	Lengths []int
	Dist    *hitcount.Distribution
}

func (r HitCount) WriteText(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# model=%s mean=%s\n", r.Model, FormatFloat(r.Dist.Mean()))
	b.WriteString(HitCountHeader + "\n")
	last := r.Dist.MaxHits()
	for k, p := range r.Dist.Probs {
		n := strconv.Itoa(k)
		if k == last {
			n = ">=" + n
		}
		b.WriteString(row(n, FormatFloat(p)))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (r HitCount) Frame() dataframe.DataFrame {
	return dataframe.New(intCol("hits", r.Dist.Counts()), floatCol("prob", r.Dist.Probs))
}

func (r HitCount) API() any {
	return api.HitCountV1{
		Model:   r.Model,
		Lengths: r.Lengths,
		Counts:  r.Dist.Counts(),
		Probs:   append([]float64(nil), r.Dist.Probs...),
		Mean:    r.Dist.Mean(),
	}
}

/* -------------------------------------------------------------------------- */
/*                                 enrichment                                 */
/* -------------------------------------------------------------------------- */

type Enrichment struct {
	Model     string
	Sequences int
	Result    enrich.Result
	Threshold threshold.Threshold
}

var enrichmentCols = []string{"model", "sequences", "observed", "expected", "fold", "pvalue", "poisson_pvalue", "threshold", "alpha"}

func (r Enrichment) WriteText(w io.Writer) error {
	e := r.Result
	_, err := io.WriteString(w, strings.Join(enrichmentCols, "\t")+"\n"+row(
		r.Model, strconv.Itoa(r.Sequences), strconv.Itoa(e.Observed),
		FormatFloat(e.Expected), FormatFloat(e.Fold), FormatFloat(e.PValue), FormatFloat(e.PoissonPValue),
		FormatFloat(r.Threshold.Value), FormatFloat(r.Threshold.Alpha)))
	return err
}

func (r Enrichment) Frame() dataframe.DataFrame {
	e := r.Result
	return dataframe.New(
		series.New([]string{r.Model}, series.String, "model"),
		intCol("sequences", []int{r.Sequences}),
		intCol("observed", []int{e.Observed}),
		floatCol("expected", []float64{e.Expected}),
		floatCol("fold", []float64{e.Fold}),
		floatCol("pvalue", []float64{e.PValue}),
		floatCol("poisson_pvalue", []float64{e.PoissonPValue}),
		floatCol("threshold", []float64{r.Threshold.Value}),
		floatCol("alpha", []float64{r.Threshold.Alpha}),
	)
}

func (r Enrichment) API() any {
	e := r.Result
	return api.EnrichmentV1{
		Model:         r.Model,
		Sequences:     r.Sequences,
		Observed:      e.Observed,
		Expected:      e.Expected,
		Fold:          NullableScalar(e.Fold),
		PValue:        e.PValue,
		PoissonPValue: e.PoissonPValue,
		Threshold:     r.Threshold.Value,
		Alpha:         r.Threshold.Alpha,
	}
}

/* -------------------------------------------------------------------------- */
/*                                 background                                 */
/* -------------------------------------------------------------------------- */

type Background struct {
	Model *background.Model
}

func (r Background) contexts() []string {
	out := make([]string, r.Model.NumContexts())
	for c := range out {
		out[c] = r.Model.ContextString(c)
		if out[c] == "" {
			out[c] = "-"
		}
	}
	return out
}

func (r Background) WriteText(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# order=%d\n", r.Model.Order())
	b.WriteString(BackgroundHeader + "\n")
	tr := r.Model.TransitionTable()
	for c, name := range r.contexts() {
		b.WriteString(row(name, FormatFloat(r.Model.Stationary(c)),
			FormatFloat(tr[c][0]), FormatFloat(tr[c][1]), FormatFloat(tr[c][2]), FormatFloat(tr[c][3])))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (r Background) Frame() dataframe.DataFrame {
	tr := r.Model.TransitionTable()
	cols := [4][]float64{}
	for _, t := range tr {
		for s := range cols {
			cols[s] = append(cols[s], t[s])
		}
	}
	return dataframe.New(
		series.New(r.contexts(), series.String, "context"),
		floatCol("stationary", r.Model.StationaryVector()),
		floatCol("A", cols[0]), floatCol("C", cols[1]), floatCol("G", cols[2]), floatCol("T", cols[3]),
	)
}

func (r Background) API() any {
	return api.BackgroundV1{
		Order:      r.Model.Order(),
		Contexts:   r.contexts(),
		Stationary: r.Model.StationaryVector(),
		Transition: r.Model.TransitionTable(),
	}
}

/* -------------------------------------------------------------------------- */
/*                                   profile                                  */
/* -------------------------------------------------------------------------- */

type Profile struct {
	Profile *scan.Profile
}

// rev pads the reverse vectors of a single-stranded profile with NaN.
func (r Profile) rev() (scores, freq []float64) {
	p := r.Profile
	if len(p.RevScores) == len(p.FwdScores) {
		return p.RevScores, p.RevHitFreq
	}
	scores = make([]float64, len(p.FwdScores))
	freq = make([]float64, len(p.FwdScores))
	for i := range scores {
		scores[i] = nan
		freq[i] = nan
	}
	return scores, freq
}

func (r Profile) WriteText(w io.Writer) error {
	p := r.Profile
	rs, rf := r.rev()
	var b strings.Builder
	fmt.Fprintf(&b, "# sequences=%d\n", p.Sequences)
	b.WriteString(ProfileHeader + "\n")
	for i := range p.FwdScores {
		b.WriteString(row(strconv.Itoa(i), FormatFloat(p.FwdScores[i]), FormatFloat(rs[i]),
			FormatFloat(p.FwdHitFreq[i]), FormatFloat(rf[i])))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (r Profile) Frame() dataframe.DataFrame {
	p := r.Profile
	rs, rf := r.rev()
	pos := make([]int, len(p.FwdScores))
	for i := range pos {
		pos[i] = i
	}
	return dataframe.New(
		intCol("position", pos),
		floatCol("fwd_score", p.FwdScores), floatCol("rev_score", rs),
		floatCol("fwd_hit_freq", p.FwdHitFreq), floatCol("rev_hit_freq", rf),
	)
}

func (r Profile) API() any {
	p := r.Profile
	v := api.ProfileV1{
		Sequences:  p.Sequences,
		FwdScores:  Nullable(p.FwdScores),
		FwdHitFreq: p.FwdHitFreq,
	}
	if len(p.RevScores) > 0 {
		v.RevScores = Nullable(p.RevScores)
		v.RevHitFreq = p.RevHitFreq
	}
	return v
}

/* -------------------------------------------------------------------------- */
/*                                  histogram                                 */
/* -------------------------------------------------------------------------- */

type Histogram struct {
	Histogram scan.Histogram
}

func (r Histogram) scores() []float64 {
	out := make([]float64, len(r.Histogram.Counts))
	for i := range out {
		out[i] = r.Histogram.Score(i)
	}
	return out
}

func (r Histogram) WriteText(w io.Writer) error {
	var b strings.Builder
	b.WriteString(HistogramHeader + "\n")
	for i, s := range r.scores() {
		b.WriteString(row(FormatFloat(s), strconv.Itoa(r.Histogram.Counts[i])))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (r Histogram) Frame() dataframe.DataFrame {
	return dataframe.New(floatCol("score", r.scores()), intCol("count", r.Histogram.Counts))
}

func (r Histogram) API() any {
	return api.HistogramV1{
		Granularity: r.Histogram.Granularity,
		Scores:      r.scores(),
		Counts:      append([]int(nil), r.Histogram.Counts...),
	}
}
