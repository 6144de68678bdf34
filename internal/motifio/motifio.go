// internal/motifio/motifio.go
// Package motifio reads position frequency matrices from text files.
//
// Accepted layouts, one matrix per file:
//
//	plain       4 whitespace-separated rows (A, C, G, T) of L numbers
//	JASPAR      ">ID name" header, rows like "A  [ 3 0 12 ]"
//	transposed  L rows of 4 numbers (with Options.Transpose)
//
// Lines starting with '#' are comments. Values may be counts or
// probabilities; every column is shifted by a pseudocount and renormalized
// so that all entries are strictly positive.
package motifio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/matthuska/motifcounter/core/dna"
	"github.com/matthuska/motifcounter/core/errs"
	"github.com/matthuska/motifcounter/core/motif"
)

// DefaultPseudocount is added to every entry before normalization.
const DefaultPseudocount = 0.01

// Options control parsing.
type Options struct {
	Transpose   bool
	Pseudocount float64
}

// Matrix is a parsed motif with its optional JASPAR name.
type Matrix struct {
	ID, Name string
	Motif    *motif.Motif
}

// ReadFile parses the matrix in path.
func ReadFile(path string, o Options) (*Matrix, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	m, err := Read(fh, o)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Read parses one matrix from r.
func Read(r io.Reader, o Options) (*Matrix, error) {
	var (
		out  Matrix
		rows [][]float64
	)
	sc := bufio.NewScanner(r)
	for ln := 1; sc.Scan(); ln++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		if line[0] == '>' {
			f := strings.Fields(line[1:])
			if len(f) > 0 {
				out.ID = f[0]
			}
			if len(f) > 1 {
				out.Name = strings.Join(f[1:], " ")
			}
			continue
		}
		row, err := parseRow(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %v: %w", ln, err, errs.ErrValidation)
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	cols, err := columns(rows, o.Transpose)
	if err != nil {
		return nil, err
	}
	pc := o.Pseudocount
	if pc == 0 {
		pc = DefaultPseudocount
	}
	if pc < 0 {
		return nil, fmt.Errorf("motifio: negative pseudocount %g: %w", pc, errs.ErrValidation)
	}
	for c := range cols {
		sum := 0.0
		for a := range cols[c] {
			cols[c][a] += pc
			sum += cols[c][a]
		}
		for a := range cols[c] {
			cols[c][a] /= sum
		}
	}
	m, err := motif.FromColumns(cols)
	if err != nil {
		return nil, err
	}
	out.Motif = m
	return &out, nil
}

// parseRow strips an optional base label and JASPAR brackets.
func parseRow(line string) ([]float64, error) {
	line = strings.NewReplacer("[", " ", "]", " ").Replace(line)
	f := strings.Fields(line)
	if len(f) > 0 {
		if _, err := strconv.ParseFloat(f[0], 64); err != nil && len(f[0]) == 1 && dna.Code(f[0][0]) >= 0 {
			f = f[1:]
		}
	}
	row := make([]float64, 0, len(f))
	for _, s := range f {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", s)
		}
		if v < 0 {
			return nil, fmt.Errorf("negative entry %g", v)
		}
		row = append(row, v)
	}
	return row, nil
}

func columns(rows [][]float64, transpose bool) ([][dna.K]float64, error) {
	if transpose {
		cols := make([][dna.K]float64, len(rows))
		for i, r := range rows {
			if len(r) != dna.K {
				return nil, fmt.Errorf("motifio: row %d has %d entries, want %d: %w", i+1, len(r), dna.K, errs.ErrValidation)
			}
			copy(cols[i][:], r)
		}
		if len(cols) == 0 {
			return nil, fmt.Errorf("motifio: empty matrix: %w", errs.ErrValidation)
		}
		return cols, nil
	}
	if len(rows) != dna.K {
		return nil, fmt.Errorf("motifio: found %d rows, want %d (A, C, G, T): %w", len(rows), dna.K, errs.ErrValidation)
	}
	l := len(rows[0])
	if l == 0 {
		return nil, fmt.Errorf("motifio: empty matrix: %w", errs.ErrValidation)
	}
	cols := make([][dna.K]float64, l)
	for a, r := range rows {
		if len(r) != l {
			return nil, fmt.Errorf("motifio: row %c has %d columns, want %d: %w", dna.Letter(a), len(r), l, errs.ErrValidation)
		}
		for c, v := range r {
			cols[c][a] = v
		}
	}
	return cols, nil
}
