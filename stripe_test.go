package sprintz

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func packUnpackRoundTrip(t *testing.T, ndims int, rows []byte) {
	t.Helper()

	nstripes := nstripesFor(ndims)
	st := newBlockStats(nstripes)
	analyzeBlock(st, rows, ndims, ndims)

	packed := make([]byte, blockSz*st.rowBytes+8)
	packBlock(packed, rows, ndims, st)

	got := make([]byte, blockSz*ndims+8)
	unpackBlock(got, packed, ndims, st)

	require.Equal(t, rows, got[:blockSz*ndims])
}

func TestStripePackUnpackRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for _, ndims := range []int{1, 3, 7, 8, 9, 16, 33, 128} {
		rows := make([]byte, blockSz*ndims)
		rng.Read(rows)
		packUnpackRoundTrip(t, ndims, rows)
	}
}

func TestStripePackUnpackAllZero(t *testing.T) {
	ndims := 16
	rows := make([]byte, blockSz*ndims)
	packUnpackRoundTrip(t, ndims, rows)

	nstripes := nstripesFor(ndims)
	st := newBlockStats(nstripes)
	analyzeBlock(st, rows, ndims, ndims)
	require.Equal(t, 0, st.rowBits)
	require.Equal(t, 0, st.rowBytes)
}

// TestStripeSlowPathOverrun exercises the extra-byte slow path in packBlock
// and its mirror in unpackBlock: a stripe whose packed width plus its
// bit-offset exceeds 64 bits must spill its final bit(s) into a ninth byte.
func TestStripeSlowPathOverrun(t *testing.T) {
	const ndims = 16
	rows := make([]byte, blockSz*ndims)

	for row := 0; row < blockSz; row++ {
		for d := 0; d < 7; d++ {
			rows[row*ndims+d] = 1 // stripe 0, dims 0..6: width 1 each
		}
		rows[row*ndims+7] = 0 // stripe 0, dim 7: width 0
		for d := 8; d < 16; d++ {
			rows[row*ndims+d] = 0xff // stripe 1, dims 8..15: width 8 each
		}
	}

	nstripes := nstripesFor(ndims)
	st := newBlockStats(nstripes)
	analyzeBlock(st, rows, ndims, ndims)

	require.EqualValues(t, 7, st.widths[0])
	require.EqualValues(t, 64, st.widths[1])
	require.Equal(t, 71, st.rowBits)
	require.Equal(t, 9, st.rowBytes)

	offsetBits := st.bitoffsets[1] & 7
	require.EqualValues(t, 7, offsetBits)
	require.Greater(t, int(st.widths[1])+int(offsetBits), 64)

	packUnpackRoundTrip(t, ndims, rows)
}
