// core/overlap/joint.go
package overlap

import (
	"gonum.org/v1/gonum/floats"

	"github.com/matthuska/motifcounter/core/background"
	"github.com/matthuska/motifcounter/core/dna"
	"github.com/matthuska/motifcounter/core/score"
)

// window follows one occurrence's partial score through the joint DP.
// Partial sums that can no longer exceed the cutoff are dropped, and those
// that can no longer fall to it collapse into one hit slot, so after n
// columns only bins in [lo[n], hi[n]] are kept explicitly.
type window struct {
	s   *score.Scorer
	cut int
	// a partial sum after n columns is a sure hit above hitAbove[n] and a
	// sure miss at or below missAt[n]
	hitAbove []int
	missAt   []int
	lo, hi   []int
}

func newWindow(s *score.Scorer, cut int) *window {
	l := s.Len()
	w := &window{
		s:        s,
		cut:      cut,
		hitAbove: make([]int, l+1),
		missAt:   make([]int, l+1),
		lo:       make([]int, l+1),
		hi:       make([]int, l+1),
	}
	remMin, remMax := make([]int, l+1), make([]int, l+1)
	for c := l - 1; c >= 0; c-- {
		a, b := s.ColumnRange(c)
		remMin[c] = remMin[c+1] + a
		remMax[c] = remMax[c+1] + b
	}
	reachMin, reachMax := 0, 0
	for n := 0; n <= l; n++ {
		if n > 0 {
			a, b := s.ColumnRange(n - 1)
			reachMin += a
			reachMax += b
		}
		w.hitAbove[n] = cut - remMin[n]
		w.missAt[n] = cut - remMax[n]
		w.lo[n] = max(w.missAt[n]+1, reachMin)
		w.hi[n] = min(w.hitAbove[n], reachMax)
	}
	return w
}

// slots is the grid width after n columns; the hit slot is last.
func (w *window) slots(n int) int {
	return max(w.hi[n]-w.lo[n]+1, 0) + 1
}

// slot places partial sum b after n columns. ok is false for a sure miss.
func (w *window) slot(n, b int) (int, bool) {
	switch {
	case b > w.hitAbove[n]:
		return w.slots(n) - 1, true
	case b <= w.missAt[n]:
		return 0, false
	}
	return b - w.lo[n], true
}

// step fills dst with the slot each slot at n columns moves to when sym is
// read at window column c from trajectory state st; -1 marks a dropped
// slot. An inactive window keeps its slots.
func (w *window) step(dst []int, n int, active bool, c, st, sym int) []int {
	cnt := w.slots(n)
	dst = dst[:0]
	if !active {
		for i := 0; i < cnt; i++ {
			dst = append(dst, i)
		}
		return dst
	}
	d := w.s.Contrib(c, w.s.Local(c, st), sym)
	for i := 0; i < cnt-1; i++ {
		j, ok := w.slot(n+1, w.lo[n]+i+d)
		if !ok {
			j = -1
		}
		dst = append(dst, j)
	}
	return append(dst, w.slots(n+1)-1)
}

// joint returns P(a hits at [0,L) and b hits at [k,k+L)) with both windows
// read off one background trajectory. The trajectory state carries the
// last min(pos, d) symbols; each window reduces it to its own local context.
func joint(bg *background.Model, a, b *window, k int) float64 {
	l := a.s.Len()
	i1, ok1 := a.slot(0, 0)
	i2, ok2 := b.slot(0, 0)
	if !ok1 || !ok2 {
		return 0
	}
	n1, n2 := 0, 0
	s1, s2 := a.slots(0), b.slots(0)
	cur := [][]float64{make([]float64, s1*s2)}
	cur[0][i1*s2+i2] = 1

	var map1, map2 []int
	for pos := 0; pos < k+l; pos++ {
		act1, act2 := pos < l, pos >= k
		m1, m2 := n1, n2
		if act1 {
			m1++
		}
		if act2 {
			m2++
		}
		t1, t2 := a.slots(m1), b.slots(m2)
		next := make([][]float64, bg.States(pos+1))
		for i := range next {
			next[i] = make([]float64, t1*t2)
		}
		for st, grid := range cur {
			for sym := 0; sym < dna.K; sym++ {
				p := bg.Cond(pos, st, sym)
				dst := next[bg.Next(pos, st, sym)]
				map1 = a.step(map1, n1, act1, pos, st, sym)
				map2 = b.step(map2, n2, act2, pos-k, st, sym)
				for x, y1 := range map1 {
					if y1 < 0 {
						continue
					}
					row := grid[x*s2 : (x+1)*s2]
					out := dst[y1*t2 : (y1+1)*t2]
					for y, v := range row {
						if v == 0 {
							continue
						}
						if y2 := map2[y]; y2 >= 0 {
							out[y2] += v * p
						}
					}
				}
			}
		}
		cur, n1, n2, s1, s2 = next, m1, m2, t1, t2
	}

	// both windows are resolved: every grid is the single hit/hit cell
	total := 0.0
	for _, g := range cur {
		total += floats.Sum(g)
	}
	return total
}
