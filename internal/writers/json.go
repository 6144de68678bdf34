// internal/writers/json.go
package writers

import (
	"encoding/json"
	"io"
)

// encodePretty writes v as one indented JSON document.
func encodePretty(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
