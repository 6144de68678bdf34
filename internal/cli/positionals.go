// internal/cli/positionals.go
package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/matthuska/motifcounter/core/errs"
)

func hasGlobMeta(s string) bool { return strings.ContainsAny(s, "*?[") }

// ExpandPositionals expands any globs among path-like positionals. "-"
// (stdin) passes through.
func ExpandPositionals(posArgs []string) ([]string, error) {
	var out []string
	for _, a := range posArgs {
		if a == "-" {
			out = append(out, a)
			continue
		}
		if hasGlobMeta(a) {
			m, err := filepath.Glob(a)
			if err != nil {
				return nil, fmt.Errorf("bad glob %q: %v: %w", a, err, errs.ErrValidation)
			}
			if len(m) == 0 {
				return nil, fmt.Errorf("no input matched %q: %w", a, errs.ErrValidation)
			}
			out = append(out, m...)
		} else {
			out = append(out, a)
		}
	}
	return out, nil
}
