package motifio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matthuska/motifcounter/core/dna"
	"github.com/matthuska/motifcounter/core/errs"
)

const jaspar = `>MA0139.1 CTCF
A  [ 87 167 281  56   8 ]
C  [291 145  49 800 903 ]
G  [ 76 414 449  21   0 ]
T  [459 187 134  36   2 ]
`

func TestReadJASPAR(t *testing.T) {
	m, err := Read(strings.NewReader(jaspar), Options{})
	require.NoError(t, err)
	require.Equal(t, "MA0139.1", m.ID)
	require.Equal(t, "CTCF", m.Name)
	require.Equal(t, 5, m.Motif.Len())

	// zero count becomes a small positive probability
	p := m.Motif.Prob(dna.G, 4)
	require.Greater(t, p, 0.0)
	require.Less(t, p, 1e-4)
	for c := 0; c < m.Motif.Len(); c++ {
		col := m.Motif.Column(c)
		require.InDelta(t, 1, col[0]+col[1]+col[2]+col[3], 1e-12)
	}
}

func TestReadPlainAndTransposed(t *testing.T) {
	plain := "# comment\n0.7 0.1\n0.1 0.1\n0.1 0.7\n0.1 0.1\n"
	a, err := Read(strings.NewReader(plain), Options{Pseudocount: 1e-9})
	require.NoError(t, err)
	require.InDelta(t, 0.7, a.Motif.Prob(dna.A, 0), 1e-6)
	require.InDelta(t, 0.7, a.Motif.Prob(dna.G, 1), 1e-6)

	tr := "0.7 0.1 0.1 0.1\n0.1 0.1 0.7 0.1\n"
	b, err := Read(strings.NewReader(tr), Options{Transpose: true, Pseudocount: 1e-9})
	require.NoError(t, err)
	require.Equal(t, a.Motif.Rows(), b.Motif.Rows())
}

func TestReadErrors(t *testing.T) {
	cases := map[string]string{
		"three rows":  "1 2\n3 4\n5 6\n",
		"ragged":      "1 2\n3\n5 6\n7 8\n",
		"negative":    "1 -2\n3 4\n5 6\n7 8\n",
		"not numeric": "1 x\n3 4\n5 6\n7 8\n",
		"empty":       "",
	}
	for name, in := range cases {
		_, err := Read(strings.NewReader(in), Options{})
		require.ErrorIs(t, err, errs.ErrValidation, name)
	}
}

func TestReadFile(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "ctcf.jaspar")
	require.NoError(t, os.WriteFile(fn, []byte(jaspar), 0o644))
	m, err := ReadFile(fn, Options{})
	require.NoError(t, err)
	require.Equal(t, 5, m.Motif.Len())

	_, err = ReadFile(filepath.Join(t.TempDir(), "nope"), Options{})
	require.Error(t, err)
}
