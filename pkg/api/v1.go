// pkg/api/v1.go
// Package api holds the stable JSON/JSONL schemas written by motifcounter.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
// Scores that are undefined (windows with ambiguous bases, positions no
// sequence covers) are encoded as null.
package api

// ScoreDistV1 is the score distribution of one motif.
type ScoreDistV1 struct {
	Motif       string    `json:"motif,omitempty"`
	Granularity float64   `json:"granularity"`
	Scores      []float64 `json:"scores"`
	Probs       []float64 `json:"probs"`
}

// ThresholdV1 is a calibrated hit cutoff.
type ThresholdV1 struct {
	Motif     string  `json:"motif,omitempty"`
	Threshold float64 `json:"threshold"`
	Alpha     float64 `json:"alpha"`
	Requested float64 `json:"requested_alpha"`
}

// OverlapV1 holds overlap probabilities indexed by offset.
type OverlapV1 struct {
	Motif          string    `json:"motif,omitempty"`
	Alpha          float64   `json:"alpha"`
	AlphaRev       float64   `json:"alpha_rev,omitempty"`
	Beta           []float64 `json:"beta"`
	Beta3p         []float64 `json:"beta3p"`
	Beta5p         []float64 `json:"beta5p"`
	Gamma          []float64 `json:"gamma"`
	Gamma3p        []float64 `json:"gamma3p"`
	Gamma5p        []float64 `json:"gamma5p"`
	Singlestranded bool      `json:"singlestranded"`
}

// HitCountV1 is a number-of-hits distribution; the last entry is P(X >= max).
type HitCountV1 struct {
	Model   string    `json:"model"`
	Lengths []int     `json:"lengths,omitempty"`
	Counts  []int     `json:"counts"`
	Probs   []float64 `json:"probs"`
	Mean    float64   `json:"mean"`
}

// SequenceV1 is the scan of one sequence. Positions are 0-based window starts.
type SequenceV1 struct {
	ID        string     `json:"id"`
	File      string     `json:"file,omitempty"`
	Length    int        `json:"length"`
	FwdHits   []int      `json:"fwd_hits"`
	RevHits   []int      `json:"rev_hits,omitempty"`
	FwdScores []*float64 `json:"fwd_scores,omitempty"`
	RevScores []*float64 `json:"rev_scores,omitempty"`
}

// ProfileV1 is a per-position average over equal-length sequences.
type ProfileV1 struct {
	Sequences  int        `json:"sequences"`
	FwdScores  []*float64 `json:"fwd_scores"`
	RevScores  []*float64 `json:"rev_scores,omitempty"`
	FwdHitFreq []float64  `json:"fwd_hit_freq"`
	RevHitFreq []float64  `json:"rev_hit_freq,omitempty"`
}

// EnrichmentV1 is the result of an enrichment test.
type EnrichmentV1 struct {
	Model         string   `json:"model"`
	Sequences     int      `json:"sequences"`
	Observed      int      `json:"observed"`
	Expected      float64  `json:"expected"`
	Fold          *float64 `json:"fold"` // null when expected is zero
	PValue        float64  `json:"pvalue"`
	PoissonPValue float64  `json:"poisson_pvalue"`
	Threshold     float64  `json:"threshold"`
	Alpha         float64  `json:"alpha"`
}

// BackgroundV1 is an estimated background model.
type BackgroundV1 struct {
	Order      int          `json:"order"`
	Contexts   []string     `json:"contexts"`
	Stationary []float64    `json:"stationary"`
	Transition [][4]float64 `json:"transition"`
}

// HistogramV1 counts observed window scores.
type HistogramV1 struct {
	Granularity float64   `json:"granularity"`
	Scores      []float64 `json:"scores"`
	Counts      []int     `json:"counts"`
}
