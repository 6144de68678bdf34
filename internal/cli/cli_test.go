package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"

	"github.com/matthuska/motifcounter/core/errs"
)

func TestExpandPositionals(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.fa")
	b := filepath.Join(dir, "b.fa")
	_ = os.WriteFile(a, []byte(">a\nA\n"), 0o644)
	_ = os.WriteFile(b, []byte(">b\nA\n"), 0o644)
	got, err := ExpandPositionals([]string{filepath.Join(dir, "*.fa"), "-"})
	if err != nil || len(got) != 3 || got[2] != "-" {
		t.Fatalf("expand: err=%v got=%v", err, got)
	}
	if _, err := ExpandPositionals([]string{filepath.Join(dir, "*.fq")}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("unmatched glob: %v", err)
	}
}

func TestFlagGroupsDoNotCollide(t *testing.T) {
	fs := pflag.NewFlagSet("x", pflag.ContinueOnError)
	RegisterGlobal(fs)
	RegisterMotif(fs)
	RegisterBackground(fs, 1)
	RegisterThreshold(fs)
	RegisterModel(fs)
	RegisterLengths(fs)
	RegisterThreads(fs)
	RegisterScan(fs)
	err := fs.Parse([]string{"-m", "m.txt", "-b", "x.fa", "-d", "2", "-a", "0.01", "-l", "100", "-l", "200", "-o", "csv"})
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := fs.GetIntSlice("length"); len(got) != 2 {
		t.Fatalf("length: %v", got)
	}
	if got, _ := fs.GetFloat64("alpha"); got != 0.01 {
		t.Fatalf("alpha: %v", got)
	}
}
