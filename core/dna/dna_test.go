package dna

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRevCompSimple(t *testing.T) {
	require.Equal(t, []byte("GACT"), RevComp([]byte("AGTC")))
}

func TestRevCompAmbiguous(t *testing.T) {
	require.Equal(t, []byte("NBDHVKMWSRY"), RevComp([]byte("RYSWKMBDHVN")))
}

func TestComplementIsInvolution(t *testing.T) {
	for _, b := range []byte("ACGTacgtRYSWKMBDHVN") {
		c := RevComp([]byte{b})
		require.NotEqual(t, byte(0), c[0], "%c", b)
		require.Equal(t, []byte{b}, RevComp(c), "%c", b)
	}
	require.Equal(t, []byte("acgt"), RevComp([]byte("acgt")))
}

func TestRevCompEmpty(t *testing.T) {
	require.Nil(t, RevComp(nil))
	require.Empty(t, RevComp([]byte("")))
}

func TestCodeRoundTrip(t *testing.T) {
	for x := 0; x < K; x++ {
		require.Equal(t, x, Code(Letter(x)))
		require.Equal(t, Comp(x), Code(RevComp([]byte{Letter(x)})[0]))
	}
	require.Equal(t, Ambiguous, Code('N'))
	require.Equal(t, C, Code('c'))
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate([]byte("acgtACGT")))
	err := Validate([]byte("ACNT"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "at 3")
}

func TestNormalize(t *testing.T) {
	require.Equal(t, []byte("ACGT"), Normalize([]byte(" a c\tg\nt ")))
}
