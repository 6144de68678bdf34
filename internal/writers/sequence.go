// internal/writers/sequence.go
package writers

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matthuska/motifcounter/internal/jsonlutil"
	"github.com/matthuska/motifcounter/internal/output"
	"github.com/matthuska/motifcounter/internal/pipeline"
	"github.com/matthuska/motifcounter/pkg/api"
)

// SequenceOptions controls how scanned records are written.
type SequenceOptions struct {
	Header bool // text: print the column header
	Scores bool // json/jsonl: include per-window scores
}

// StartSequenceWriter spins up a writer goroutine for scanned records.
// text and jsonl stream; json and csv buffer until the channel is closed.
func StartSequenceWriter(out io.Writer, format string, opt SequenceOptions, bufSize int) (chan<- pipeline.Item, <-chan error) {
	if format == "jsonl" {
		return jsonlutil.Start[pipeline.Item](out, bufSize,
			func(enc *json.Encoder, it pipeline.Item) error {
				return enc.Encode(output.ToAPISequence(it, opt.Scores))
			},
			IsBrokenPipe,
		)
	}
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan pipeline.Item, bufSize)
	errCh := make(chan error, 1)

	go func() {
		var err error
		switch format {
		case "text":
			if opt.Header {
				_, err = io.WriteString(out, output.SequenceHeader+"\n")
			}
			for it := range in {
				if err != nil {
					continue
				}
				for _, h := range output.Hits(it) {
					if _, err = io.WriteString(out, output.FormatHitRowTSV(h)); err != nil {
						break
					}
				}
			}

		case "json":
			buf := []api.SequenceV1{}
			for it := range in {
				buf = append(buf, output.ToAPISequence(it, opt.Scores))
			}
			err = encodePretty(out, buf)

		case "csv":
			var hits []output.Hit
			for it := range in {
				hits = append(hits, output.Hits(it)...)
			}
			err = writeFrame(out, output.HitsFrame(hits))

		default:
			for range in {
			}
			err = fmt.Errorf("unsupported output %q", format)
		}
		if IsBrokenPipe(err) {
			err = nil
		}
		errCh <- err
	}()

	return in, errCh
}
