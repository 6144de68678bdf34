// internal/output/sequence.go
package output

import (
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/matthuska/motifcounter/internal/pipeline"
	"github.com/matthuska/motifcounter/pkg/api"
)

// Hit is one window above the threshold.
type Hit struct {
	SequenceID string
	Strand     byte // '+' or '-'
	Position   int  // 0-based window start
	Score      float64
}

// Hits lists the hits of one scanned record, forward strand first.
func Hits(it pipeline.Item) []Hit {
	var out []Hit
	r := it.Result
	for p, h := range r.FwdHits {
		if h {
			out = append(out, Hit{SequenceID: it.ID, Strand: '+', Position: p, Score: r.FwdScores[p]})
		}
	}
	for p, h := range r.RevHits {
		if h {
			out = append(out, Hit{SequenceID: it.ID, Strand: '-', Position: p, Score: r.RevScores[p]})
		}
	}
	return out
}

// FormatHitRowTSV renders one hit in SequenceHeader column order.
func FormatHitRowTSV(h Hit) string {
	return row(h.SequenceID, string(h.Strand), strconv.Itoa(h.Position), FormatFloat(h.Score))
}

// HitsFrame collects hits into a frame with the SequenceHeader columns.
func HitsFrame(hits []Hit) dataframe.DataFrame {
	ids := make([]string, len(hits))
	strands := make([]string, len(hits))
	pos := make([]int, len(hits))
	scores := make([]float64, len(hits))
	for i, h := range hits {
		ids[i], strands[i], pos[i], scores[i] = h.SequenceID, string(h.Strand), h.Position, h.Score
	}
	cols := strings.Split(SequenceHeader, "\t")
	return dataframe.New(
		series.New(ids, series.String, cols[0]),
		series.New(strands, series.String, cols[1]),
		intCol(cols[2], pos),
		floatCol(cols[3], scores),
	)
}

// ToAPISequence converts a scanned record to the stable wire schema (v1).
// Per-window scores are attached only when withScores is set.
func ToAPISequence(it pipeline.Item, withScores bool) api.SequenceV1 {
	r := it.Result
	v := api.SequenceV1{
		ID:      it.ID,
		File:    it.File,
		Length:  it.Length,
		FwdHits: positions(r.FwdHits),
	}
	if len(r.RevHits) > 0 {
		v.RevHits = positions(r.RevHits)
	}
	if withScores {
		v.FwdScores = Nullable(r.FwdScores)
		if len(r.RevScores) > 0 {
			v.RevScores = Nullable(r.RevScores)
		}
	}
	return v
}

func positions(hits []bool) []int {
	out := []int{}
	for p, h := range hits {
		if h {
			out = append(out, p)
		}
	}
	return out
}
