// core/dna/dna.go
// Nucleotide alphabet shared by every core package.
// Symbols are coded 0..3 in the order A, C, G, T so that the complement of
// code x is 3-x.
package dna

import (
	"fmt"
	"unicode"
)

// Alphabet size.
const K = 4

// Symbol codes.
const (
	A = 0
	C = 1
	G = 2
	T = 3
)

// Ambiguous is returned by Code for bytes outside A/C/G/T.
const Ambiguous = -1

var (
	code       [256]int8
	complement [256]byte
)

func init() {
	for i := range code {
		code[i] = Ambiguous
	}
	code['A'], code['a'] = A, A
	code['C'], code['c'] = C, C
	code['G'], code['g'] = G, G
	code['T'], code['t'] = T, T

	complement['A'] = 'T'
	complement['C'] = 'G'
	complement['G'] = 'C'
	complement['T'] = 'A'
	complement['a'] = 't'
	complement['c'] = 'g'
	complement['g'] = 'c'
	complement['t'] = 'a'
	complement['R'] = 'Y'
	complement['Y'] = 'R'
	complement['S'] = 'S'
	complement['W'] = 'W'
	complement['K'] = 'M'
	complement['M'] = 'K'
	complement['B'] = 'V'
	complement['V'] = 'B'
	complement['D'] = 'H'
	complement['H'] = 'D'
	complement['N'] = 'N'
}

// Code maps a nucleotide byte to 0..3, or Ambiguous.
func Code(b byte) int { return int(code[b]) }

// Letter is the inverse of Code for 0..3.
func Letter(x int) byte { return "ACGT"[x] }

// Comp returns the complement code of x.
func Comp(x int) int { return K - 1 - x }

// Encode converts seq to symbol codes. Ambiguous bytes become Ambiguous.
func Encode(seq []byte) []int8 {
	out := make([]int8, len(seq))
	for i, b := range seq {
		out[i] = code[b]
	}
	return out
}

// RevComp returns the reverse complement of seq (IUPAC aware; unknown bytes map to N).
func RevComp(seq []byte) []byte {
	n := len(seq)
	if n == 0 {
		return nil
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		c := complement[seq[n-1-i]]
		if c == 0 {
			c = 'N'
		}
		out[i] = c
	}
	return out
}

// Normalize removes whitespace and uppercases bases.
func Normalize(seq []byte) []byte {
	out := make([]byte, 0, len(seq))
	for _, b := range seq {
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' {
			continue
		}
		out = append(out, byte(unicode.ToUpper(rune(b))))
	}
	return out
}

// Validate reports the first byte of seq that is not A/C/G/T (case-insensitive).
func Validate(seq []byte) error {
	for i, b := range seq {
		if code[b] == Ambiguous {
			return fmt.Errorf("invalid base %q at %d; allowed: A C G T", b, i+1)
		}
	}
	return nil
}

// Pow returns K^n as an int.
func Pow(n int) int { return 1 << (2 * n) }
