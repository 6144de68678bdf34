// ./internal/arch/arch_test.go
package arch

import (
	"bytes"
	"encoding/json"
	"io"
	"os/exec"
	"strings"
	"testing"
)

const mod = "github.com/matthuska/motifcounter/"

type pkg struct {
	ImportPath string
	Imports    []string
	Standard   bool
}

func TestImportBoundaries(t *testing.T) {
	cmd := exec.Command("go", "list", "-json", "./...")
	cmd.Dir = "../.." // module root; tests run in the package directory
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		t.Fatalf("go list: %v", err)
	}
	dec := json.NewDecoder(&out)

	// Import-path prefixes each package prefix must not depend on.
	presentation := []string{
		mod + "internal/", "github.com/spf13/", "github.com/sirupsen/logrus", "github.com/go-gota/",
	}
	bans := map[string][]string{
		mod + "core/": presentation,
		mod + "internal/engine": {
			mod + "internal/pipeline", mod + "internal/writers", mod + "internal/output",
			mod + "internal/cli", mod + "internal/config", mod + "internal/cmdutil",
			mod + "internal/app", mod + "cmd/",
		},
		mod + "internal/pipeline": {
			mod + "internal/engine", mod + "internal/writers", mod + "internal/output",
			mod + "internal/cli", mod + "internal/config", mod + "internal/cmdutil",
			mod + "internal/app", mod + "cmd/",
		},
		mod + "internal/writers": {
			mod + "internal/engine", mod + "internal/cli", mod + "internal/config",
			mod + "internal/cmdutil", mod + "internal/app", mod + "cmd/",
		},
		mod + "internal/output": {
			mod + "internal/engine", mod + "internal/writers", mod + "internal/cli",
			mod + "internal/config", mod + "internal/cmdutil", mod + "internal/app", mod + "cmd/",
		},
		mod + "pkg/api": {mod},
	}

	var violations []string
	for {
		var p pkg
		if err := dec.Decode(&p); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !strings.HasPrefix(p.ImportPath, mod) {
			continue
		}
		imp := p.ImportPath
		for prefix, forbidden := range bans {
			if !strings.HasPrefix(imp, prefix) {
				continue
			}
			for _, dep := range p.Imports {
				for _, ban := range forbidden {
					if strings.HasPrefix(dep, ban) {
						violations = append(violations, imp+" → "+dep)
					}
				}
			}
		}
	}

	if len(violations) > 0 {
		t.Fatalf("import boundary violations:\n  %s", strings.Join(violations, "\n  "))
	}
}
