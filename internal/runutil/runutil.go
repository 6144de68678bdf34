// internal/runutil/runutil.go
package runutil

import "runtime"

// EffectiveThreads resolves a --threads value: n > 0 is used as-is,
// anything else means one worker per CPU.
func EffectiveThreads(n int) int {
	if n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// WindowCount is the number of motif windows that fit in each region.
func WindowCount(lengths []int, motifLen int) int {
	n := 0
	for _, l := range lengths {
		if w := l - motifLen + 1; w > 0 {
			n += w
		}
	}
	return n
}
