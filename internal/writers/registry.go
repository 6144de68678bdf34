// internal/writers/registry.go
package writers

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/go-gota/gota/dataframe"

	"github.com/matthuska/motifcounter/internal/output"
)

// Report writer registry (format → handler). Register in init() blocks.
var ReportWriters = map[string]func(w io.Writer, r output.Report) error{}

// Register is idempotent, last wins.
func Register(format string, fn func(io.Writer, output.Report) error) { ReportWriters[format] = fn }

// Formats lists the registered formats, sorted.
func Formats() []string {
	out := make([]string, 0, len(ReportWriters))
	for f := range ReportWriters {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// WriteReport dispatches r to the writer for format. Broken pipes are not
// errors.
func WriteReport(format string, w io.Writer, r output.Report) error {
	fn, ok := ReportWriters[format]
	if !ok {
		return fmt.Errorf("unknown report format %q (no writer registered)", format)
	}
	if err := fn(w, r); err != nil && !IsBrokenPipe(err) {
		return err
	}
	return nil
}

func init() {
	Register("text", func(w io.Writer, r output.Report) error { return r.WriteText(w) })
	Register("json", func(w io.Writer, r output.Report) error { return encodePretty(w, r.API()) })
	Register("jsonl", func(w io.Writer, r output.Report) error { return json.NewEncoder(w).Encode(r.API()) })
	Register("csv", func(w io.Writer, r output.Report) error { return writeFrame(w, r.Frame()) })
}

func writeFrame(w io.Writer, df dataframe.DataFrame) error {
	if df.Err != nil {
		return df.Err
	}
	return df.WriteCSV(w, dataframe.WriteHeader(true))
}
