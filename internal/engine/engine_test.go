// internal/engine/engine_test.go
package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/matthuska/motifcounter/core/background"
	"github.com/matthuska/motifcounter/core/comb"
	"github.com/matthuska/motifcounter/core/dna"
	"github.com/matthuska/motifcounter/core/errs"
	"github.com/matthuska/motifcounter/core/hitcount"
	"github.com/matthuska/motifcounter/core/motif"
)

func testMotif(t *testing.T) *motif.Motif {
	t.Helper()
	m, err := motif.FromColumns([][dna.K]float64{
		{.7, .1, .1, .1},
		{.1, .1, .7, .1},
		{.1, .7, .1, .1},
		{.1, .1, .1, .7},
		{.7, .1, .1, .1},
		{.25, .25, .25, .25},
	})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestModelIsCached(t *testing.T) {
	e := New(Config{Alpha: 0.01})
	m, bg := testMotif(t), background.Uniform(1)
	a, err := e.Model(m, bg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.Model(testMotif(t), background.Uniform(1))
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatalf("equal inputs should share a cached model")
	}
	c, err := New(Config{Alpha: 0.05}).Model(m, bg)
	if err != nil {
		t.Fatal(err)
	}
	if c.Threshold.Bin > a.Threshold.Bin {
		t.Fatalf("relaxed alpha should not raise the threshold: %d vs %d", c.Threshold.Bin, a.Threshold.Bin)
	}
}

func TestDefaults(t *testing.T) {
	cfg := New(Config{}).Config()
	if cfg.Granularity != 0.1 || cfg.Alpha != 0.001 || cfg.CacheSize != 16 {
		t.Fatalf("defaults: %+v", cfg)
	}
}

func TestCombGroupsLengths(t *testing.T) {
	md, err := New(Config{Alpha: 0.01}).Model(testMotif(t), background.Uniform(0))
	if err != nil {
		t.Fatal(err)
	}
	lengths := []int{60, 40, 60}
	got, err := md.HitCounts(Combinatorial, lengths, 12)
	if err != nil {
		t.Fatal(err)
	}
	ov, err := md.Overlap()
	if err != nil {
		t.Fatal(err)
	}
	want, err := comb.Compute(ov, 60, 12)
	if err != nil {
		t.Fatal(err)
	}
	for _, l := range []int{40, 60} {
		d, err := comb.Compute(ov, l, 12)
		if err != nil {
			t.Fatal(err)
		}
		if want, err = hitcount.Convolve(want, d); err != nil {
			t.Fatal(err)
		}
	}
	for k := range want.Probs {
		if d := got.Probs[k] - want.Probs[k]; d > 1e-12 || d < -1e-12 {
			t.Fatalf("P(%d): got %g want %g", k, got.Probs[k], want.Probs[k])
		}
	}
}

func TestModelsAgreeOnMean(t *testing.T) {
	md, err := New(Config{Alpha: 0.01}).Model(testMotif(t), background.Uniform(1))
	if err != nil {
		t.Fatal(err)
	}
	lengths := []int{300, 200}
	cp, err := md.HitCounts(CompoundPoisson, lengths, 0)
	if err != nil {
		t.Fatal(err)
	}
	cb, err := md.HitCounts(Combinatorial, lengths, 0)
	if err != nil {
		t.Fatal(err)
	}
	if r := cb.Mean() / cp.Mean(); r < 0.9 || r > 1.1 {
		t.Fatalf("means diverge: comb %g cpois %g", cb.Mean(), cp.Mean())
	}
}

func TestEnrichWidensSupport(t *testing.T) {
	md, err := New(Config{Alpha: 0.01}).Model(testMotif(t), background.Uniform(0))
	if err != nil {
		t.Fatal(err)
	}
	bound, err := md.Bound([]int{100})
	if err != nil {
		t.Fatal(err)
	}
	r, d, err := md.Enrich(CompoundPoisson, []int{100}, bound+5)
	if err != nil {
		t.Fatal(err)
	}
	if d.MaxHits() < bound+6 {
		t.Fatalf("support %d does not cover observed %d", d.MaxHits(), bound+5)
	}
	if r.PValue > 1e-6 || r.Fold <= 1 {
		t.Fatalf("extreme count should be significant: %+v", r)
	}
}

func TestEnrichExpectedIgnoresSmallBound(t *testing.T) {
	md, err := New(Config{Alpha: 0.01}).Model(testMotif(t), background.Uniform(0))
	if err != nil {
		t.Fatal(err)
	}
	lengths := []int{200, 300}
	full, err := md.HitCounts(CompoundPoisson, lengths, 0)
	if err != nil {
		t.Fatal(err)
	}
	small, err := md.HitCounts(CompoundPoisson, lengths, 1)
	if err != nil {
		t.Fatal(err)
	}
	if small.Probs[1] == 0 || small.Mean() >= full.Mean() {
		t.Fatalf("a one-hit support should bias the mean low: %g vs %g", small.Mean(), full.Mean())
	}
	r, _, err := md.Enrich(CompoundPoisson, lengths, 0)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(r.Expected-full.Mean()) > 1e-12 {
		t.Fatalf("expected %g, want %g", r.Expected, full.Mean())
	}
}

func TestHitCountsValidation(t *testing.T) {
	md, err := New(Config{Alpha: 0.01}).Model(testMotif(t), background.Uniform(0))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := md.HitCounts(CompoundPoisson, nil, 0); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("no lengths: %v", err)
	}
	if _, err := md.HitCounts(Kind("bogus"), []int{10}, 0); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("bad kind: %v", err)
	}
	if _, err := New(Config{}).Model(nil, background.Uniform(0)); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("nil motif: %v", err)
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"cpois": CompoundPoisson, " COMB ": Combinatorial} {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Fatalf("%q: got %q %v", in, got, err)
		}
	}
	if _, err := ParseKind("poisson"); err == nil {
		t.Fatal("expected error")
	}
}

func TestScannerUsesThreshold(t *testing.T) {
	md, err := New(Config{Alpha: 0.01, Singlestranded: true}).Model(testMotif(t), background.Uniform(0))
	if err != nil {
		t.Fatal(err)
	}
	sc, err := md.Scanner()
	if err != nil {
		t.Fatal(err)
	}
	r := sc.Sequence([]byte("TTAGCTAT"))
	if !r.FwdHits[2] {
		t.Fatalf("consensus window should be a hit: %+v", r)
	}
	if len(r.RevHits) != 0 {
		t.Fatalf("single strand should not score reverse")
	}
}
