package sprintz

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPackUniformRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(20))

	for nbits := 1; nbits <= 8; nbits++ {
		for _, n := range []int{1, 3, 7, 8, 9, 15, 16, 17, 64} {
			src := make([]byte, n)
			rng.Read(src)

			mask := byte(widthMask64(nbits))
			for i := range src {
				src[i] &= mask
			}

			nchunks := (n + blockSz - 1) / blockSz
			dst := make([]byte, nchunks*nbits)
			written := PackUniform(dst, src, nbits)
			require.Equal(t, nchunks*nbits, written)

			got := make([]byte, n)
			nvalues := UnpackUniform(got, dst, nbits, n)
			require.Equal(t, n, nvalues)
			require.Equal(t, src, got, "nbits=%d n=%d", nbits, n)
		}
	}
}

func TestPackUniformZeroWidth(t *testing.T) {
	src := make([]byte, 16)
	dst := make([]byte, 0)
	written := PackUniform(dst, src, 0)
	require.Equal(t, 0, written)

	got := make([]byte, 16)
	nvalues := UnpackUniform(got, dst, 0, 16)
	require.Equal(t, 16, nvalues)
	require.Equal(t, src, got)
}

func TestPackUniformFullWidthIsIdentity(t *testing.T) {
	src := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	dst := make([]byte, 8)
	PackUniform(dst, src, 8)
	require.Equal(t, src, dst)
}

// TestPackUniformAllLanesSurvive guards against extracting only byte 0 of
// each 8-byte chunk: every lane must carry distinguishable, recoverable
// data, not just the first.
func TestPackUniformAllLanesSurvive(t *testing.T) {
	src := []byte{0x03, 0x01, 0x02, 0x03, 0x00, 0x01, 0x02, 0x03}
	dst := make([]byte, 2)
	written := PackUniform(dst, src, 2)
	require.Equal(t, 2, written)

	got := make([]byte, 8)
	UnpackUniform(got, dst, 2, 8)
	require.Equal(t, src, got)
}
