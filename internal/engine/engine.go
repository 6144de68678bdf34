// internal/engine/engine.go
package engine

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/matthuska/motifcounter/core/background"
	"github.com/matthuska/motifcounter/core/comb"
	"github.com/matthuska/motifcounter/core/cpois"
	"github.com/matthuska/motifcounter/core/enrich"
	"github.com/matthuska/motifcounter/core/errs"
	"github.com/matthuska/motifcounter/core/hitcount"
	"github.com/matthuska/motifcounter/core/motif"
	"github.com/matthuska/motifcounter/core/overlap"
	"github.com/matthuska/motifcounter/core/scan"
	"github.com/matthuska/motifcounter/core/score"
	"github.com/matthuska/motifcounter/core/threshold"
	"github.com/matthuska/motifcounter/internal/runutil"
)

// Kind selects the hit-count model.
type Kind string

const (
	CompoundPoisson Kind = "cpois"
	Combinatorial   Kind = "comb"
)

// ParseKind accepts "cpois" or "comb" (case-insensitive).
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case CompoundPoisson, Combinatorial:
		return k, nil
	}
	return "", fmt.Errorf("unknown hit-count model %q (want cpois or comb): %w", s, errs.ErrValidation)
}

type Config struct {
	Granularity    float64 // score bin width; 0 = score.DefaultGranularity
	Alpha          float64 // false-positive level; 0 = threshold.DefaultAlpha
	Singlestranded bool
	CacheSize      int // calibrated models kept; 0 = 16
}

// Engine builds and memoizes Models. It is safe for concurrent use.
type Engine struct {
	cfg   Config
	mu    sync.Mutex
	cache *runutil.LRU[uint64, *Model]
}

func New(c Config) *Engine {
	if c.Granularity == 0 {
		c.Granularity = score.DefaultGranularity
	}
	if c.Alpha == 0 {
		c.Alpha = threshold.DefaultAlpha
	}
	if c.CacheSize <= 0 {
		c.CacheSize = 16
	}
	return &Engine{cfg: c, cache: runutil.NewLRU[uint64, *Model](c.CacheSize)}
}

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// Model is a motif calibrated against one background.
type Model struct {
	Motif          *motif.Motif
	Background     *background.Model
	Fwd, Rev       *score.Scorer
	Dist           *score.Distribution
	Threshold      threshold.Threshold
	Singlestranded bool

	once  sync.Once
	ov    *overlap.Set
	ovErr error
}

// Model scores m against bg, computes its score distribution, and
// calibrates the threshold. Results are cached by content.
func (e *Engine) Model(m *motif.Motif, bg *background.Model) (*Model, error) {
	if m == nil || bg == nil {
		return nil, fmt.Errorf("engine: motif and background are required: %w", errs.ErrValidation)
	}
	key := e.key(m, bg)
	e.mu.Lock()
	if md, ok := e.cache.Get(key); ok {
		e.mu.Unlock()
		return md, nil
	}
	e.mu.Unlock()

	md, err := e.build(m, bg)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	e.cache.Put(key, md)
	e.mu.Unlock()
	return md, nil
}

func (e *Engine) build(m *motif.Motif, bg *background.Model) (*Model, error) {
	fwd, err := score.NewScorer(m, bg, e.cfg.Granularity)
	if err != nil {
		return nil, err
	}
	rev, err := score.NewScorer(m.RevComp(), bg, e.cfg.Granularity)
	if err != nil {
		return nil, err
	}
	dist, err := score.Compute(fwd)
	if err != nil {
		return nil, err
	}
	th, err := threshold.Calibrate(dist, e.cfg.Alpha)
	if err != nil {
		return nil, err
	}
	return &Model{
		Motif:          m,
		Background:     bg,
		Fwd:            fwd,
		Rev:            rev,
		Dist:           dist,
		Threshold:      th,
		Singlestranded: e.cfg.Singlestranded,
	}, nil
}

// key hashes everything a Model depends on.
func (e *Engine) key(m *motif.Motif, bg *background.Model) uint64 {
	h := xxhash.New()
	var buf [8]byte
	put := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = h.Write(buf[:])
	}
	put(e.cfg.Granularity)
	put(e.cfg.Alpha)
	if e.cfg.Singlestranded {
		put(1)
	}
	put(float64(m.Len()))
	for c := 0; c < m.Len(); c++ {
		for _, p := range m.Column(c) {
			put(p)
		}
	}
	put(float64(bg.Order()))
	for _, p := range bg.StationaryVector() {
		put(p)
	}
	for _, row := range bg.TransitionTable() {
		for _, p := range row {
			put(p)
		}
	}
	return h.Sum64()
}

// Len is the motif width.
func (md *Model) Len() int { return md.Fwd.Len() }

// Overlap computes the overlap probabilities once.
func (md *Model) Overlap() (*overlap.Set, error) {
	md.once.Do(func() {
		md.ov, md.ovErr = overlap.Compute(md.Fwd, md.Rev, md.Threshold, md.Singlestranded)
	})
	return md.ov, md.ovErr
}

// Scanner returns a scanner using the calibrated threshold.
func (md *Model) Scanner() (*scan.Scanner, error) {
	return scan.New(md.Fwd, md.Rev, md.Threshold, md.Singlestranded)
}

// Bound is the automatic maxHits for regions of the given lengths.
func (md *Model) Bound(lengths []int) (int, error) {
	ov, err := md.Overlap()
	if err != nil {
		return 0, err
	}
	mom, err := ov.Chain().Moments()
	if err != nil {
		return 0, err
	}
	lambda := cpois.Lambda(ov, lengths)
	return hitcount.Bound(lambda*mom.MeanSize, lambda*mom.SizeSecond), nil
}

// HitCounts returns the distribution of the total number of hits in
// regions of the given lengths. maxHits <= 0 picks a bound.
func (md *Model) HitCounts(kind Kind, lengths []int, maxHits int) (*hitcount.Distribution, error) {
	if len(lengths) == 0 {
		return nil, fmt.Errorf("engine: at least one region length is required: %w", errs.ErrValidation)
	}
	ov, err := md.Overlap()
	if err != nil {
		return nil, err
	}
	if maxHits <= 0 {
		if maxHits, err = md.Bound(lengths); err != nil {
			return nil, err
		}
	}
	switch kind {
	case CompoundPoisson:
		return cpois.Compute(ov, lengths, maxHits)
	case Combinatorial:
		return combined(ov, lengths, maxHits)
	}
	return nil, fmt.Errorf("engine: unknown hit-count model %q: %w", kind, errs.ErrValidation)
}

// combined runs the combinatorial model once per distinct length and
// convolves the per-region distributions.
func combined(ov *overlap.Set, lengths []int, maxHits int) (*hitcount.Distribution, error) {
	groups := map[int]int{}
	for _, l := range lengths {
		groups[l]++
	}
	uniq := make([]int, 0, len(groups))
	for l := range groups {
		uniq = append(uniq, l)
	}
	sort.Ints(uniq)

	var total *hitcount.Distribution
	for _, l := range uniq {
		one, err := comb.Compute(ov, l, maxHits)
		if err != nil {
			return nil, err
		}
		part, err := hitcount.Power(one, groups[l])
		if err != nil {
			return nil, err
		}
		if total == nil {
			total = part
			continue
		}
		if total, err = hitcount.Convolve(total, part); err != nil {
			return nil, err
		}
	}
	return total, total.Check()
}

// Enrich tests observed hits in regions of the given lengths. The hit-count
// support is the automatic bound, widened to cover observed when needed, so
// the expected count is not truncated by a small max-hits setting.
func (md *Model) Enrich(kind Kind, lengths []int, observed int) (enrich.Result, *hitcount.Distribution, error) {
	maxHits, err := md.Bound(lengths)
	if err != nil {
		return enrich.Result{}, nil, err
	}
	maxHits = max(maxHits, observed+1)
	d, err := md.HitCounts(kind, lengths, maxHits)
	if err != nil {
		return enrich.Result{}, nil, err
	}
	r, err := enrich.Test(d, observed)
	return r, d, err
}

// Lengths returns the lengths of seqs.
func Lengths(seqs [][]byte) []int {
	out := make([]int, len(seqs))
	for i, s := range seqs {
		out[i] = len(s)
	}
	return out
}

