// core/background/background.go
// Order-d Markov background over A/C/G/T.
//
// Contexts are the 4^d words of length d, coded with the oldest symbol in the
// most significant 2 bits. The same code space is used by every DP: a
// trajectory state after p symbols is the word formed by the last min(p, d)
// symbols, so states grow from the empty word until they saturate at order d.
package background

import (
	"fmt"
	"math"

	"github.com/matthuska/motifcounter/core/dna"
	"github.com/matthuska/motifcounter/core/errs"
)

// Tolerance bounds |Σ row − 1| for the stationary vector and each transition row.
const Tolerance = 1e-6

// MaxOrder is the largest supported Markov order.
const MaxOrder = 10

// Model is an immutable order-d Markov chain.
type Model struct {
	order int
	// stationary[ctx], len 4^d
	stationary []float64
	// trans[ctx*4+sym], len 4^(d+1)
	trans []float64
	// marg[k][prefix] = P(first k symbols == prefix) under the stationary vector
	marg [][]float64
}

// New validates and returns a Model. stationary has 4^order entries and
// trans has 4^order rows of 4 entries; every entry must be strictly
// positive so that log-likelihood ratios stay finite.
func New(order int, stationary []float64, trans [][dna.K]float64) (*Model, error) {
	if order < 0 {
		return nil, fmt.Errorf("background: order %d < 0: %w", order, errs.ErrValidation)
	}
	if order > MaxOrder {
		return nil, fmt.Errorf("background: order %d too large (max %d): %w", order, MaxOrder, errs.ErrValidation)
	}
	n := dna.Pow(order)
	if len(stationary) != n {
		return nil, fmt.Errorf("background: stationary vector has %d entries, order %d needs %d: %w", len(stationary), order, n, errs.ErrValidation)
	}
	if len(trans) != n {
		return nil, fmt.Errorf("background: transition table has %d rows, order %d needs %d: %w", len(trans), order, n, errs.ErrValidation)
	}
	if err := checkDist("stationary vector", stationary); err != nil {
		return nil, err
	}
	m := &Model{
		order:      order,
		stationary: append([]float64(nil), stationary...),
		trans:      make([]float64, n*dna.K),
	}
	for ctx, row := range trans {
		if err := checkDist(fmt.Sprintf("transition row %s", m.ContextString(ctx)), row[:]); err != nil {
			return nil, err
		}
		copy(m.trans[ctx*dna.K:], row[:])
	}
	m.marg = marginals(order, m.stationary)
	return m, nil
}

// NewUniform returns the order-d model with all probabilities equal.
func NewUniform(order int) (*Model, error) {
	if order < 0 || order > MaxOrder {
		return nil, fmt.Errorf("background: order %d outside 0..%d: %w", order, MaxOrder, errs.ErrValidation)
	}
	n := dna.Pow(order)
	st := make([]float64, n)
	tr := make([][dna.K]float64, n)
	for i := range st {
		st[i] = 1 / float64(n)
		tr[i] = [dna.K]float64{0.25, 0.25, 0.25, 0.25}
	}
	return New(order, st, tr)
}

// Uniform is like NewUniform but panics when order is outside
// 0..MaxOrder. Use it for constant orders only.
func Uniform(order int) *Model {
	m, err := NewUniform(order)
	if err != nil {
		panic(err)
	}
	return m
}

func checkDist(what string, p []float64) error {
	sum := 0.0
	for i, v := range p {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("background: %s entry %d is %g, must be > 0: %w", what, i, v, errs.ErrValidation)
		}
		sum += v
	}
	if math.Abs(sum-1) > Tolerance {
		return fmt.Errorf("background: %s sums to %g: %w", what, sum, errs.ErrValidation)
	}
	return nil
}

func marginals(order int, st []float64) [][]float64 {
	marg := make([][]float64, order+1)
	marg[order] = st
	for k := order - 1; k >= 0; k-- {
		marg[k] = make([]float64, dna.Pow(k))
		for p, v := range marg[k+1] {
			marg[k][p>>2] += v
		}
	}
	return marg
}

// Order is the Markov order d.
func (m *Model) Order() int { return m.order }

// NumContexts is 4^d.
func (m *Model) NumContexts() int { return len(m.stationary) }

// Stationary returns the stationary probability of context ctx.
func (m *Model) Stationary(ctx int) float64 { return m.stationary[ctx] }

// Transition returns P(sym | ctx).
func (m *Model) Transition(ctx, sym int) float64 { return m.trans[ctx*dna.K+sym] }

// StationaryVector returns a copy of the stationary vector.
func (m *Model) StationaryVector() []float64 { return append([]float64(nil), m.stationary...) }

// TransitionTable returns a copy of the transition table.
func (m *Model) TransitionTable() [][dna.K]float64 {
	out := make([][dna.K]float64, len(m.stationary))
	for ctx := range out {
		copy(out[ctx][:], m.trans[ctx*dna.K:(ctx+1)*dna.K])
	}
	return out
}

// ContextString renders a context code as letters.
func (m *Model) ContextString(ctx int) string {
	b := make([]byte, m.order)
	for i := m.order - 1; i >= 0; i-- {
		b[i] = dna.Letter(ctx & 3)
		ctx >>= 2
	}
	return string(b)
}

// ---------- trajectory walker ----------

// Width is the number of symbols a state carries after pos symbols.
func (m *Model) Width(pos int) int {
	if pos < m.order {
		return pos
	}
	return m.order
}

// States returns the number of trajectory states after pos symbols.
func (m *Model) States(pos int) int { return dna.Pow(m.Width(pos)) }

// Cond returns P(sym at position pos | state), where state codes the
// last Width(pos) symbols. Positions before the order is reached are seeded
// from the stationary distribution.
func (m *Model) Cond(pos, state, sym int) float64 {
	if pos < m.order {
		return m.marg[pos+1][state*dna.K+sym] / m.marg[pos][state]
	}
	return m.trans[state*dna.K+sym]
}

// Next returns the state after appending sym at position pos.
func (m *Model) Next(pos, state, sym int) int {
	if pos < m.order {
		return state*dna.K + sym
	}
	return (state*dna.K + sym) & (len(m.stationary) - 1)
}

// Suffix keeps the last n symbols of a state.
func Suffix(state, n int) int { return state & (dna.Pow(n) - 1) }

// Prob returns the probability of the symbol codes under the chain.
func (m *Model) Prob(codes []int) float64 {
	p := 1.0
	state := 0
	for pos, a := range codes {
		p *= m.Cond(pos, state, a)
		state = m.Next(pos, state, a)
	}
	return p
}
