package sprintz

import (
	"math/bits"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNeededNBits(t *testing.T) {
	t.Run("matches bits.Len8 for every byte value", func(t *testing.T) {
		for m := 0; m <= 255; m++ {
			w := neededNBits(byte(m))
			require.Equal(t, bits.Len8(byte(m)), w)
		}
	})

	t.Run("zero needs zero bits", func(t *testing.T) {
		require.Equal(t, 0, neededNBits(0))
	})

	t.Run("w is the unique bound 2^(w-1) <= m < 2^w", func(t *testing.T) {
		for m := 1; m <= 255; m++ {
			w := neededNBits(byte(m))
			require.LessOrEqual(t, 1<<uint(w-1), m)
			require.Less(t, m, 1<<uint(w))
		}
	})
}

func TestHeaderWidthRoundTrip(t *testing.T) {
	for w := 0; w <= 6; w++ {
		stored := headerWidth(w)
		require.Equal(t, w, actualWidth(stored))
	}

	// 7 and 8 both collapse to a stored value whose decode is always 8.
	require.Equal(t, uint8(7), headerWidth(7))
	require.Equal(t, uint8(7), headerWidth(8))
	require.Equal(t, 8, actualWidth(7))
}

func TestEffectiveWidthCollapsesSevenToEight(t *testing.T) {
	require.Equal(t, 8, effectiveWidth(7))
	require.Equal(t, 8, effectiveWidth(8))
	for w := 0; w <= 6; w++ {
		require.Equal(t, w, effectiveWidth(w))
	}

	// The round trip through the header must agree with effectiveWidth,
	// since that's what the decoder actually reconstructs.
	for w := 0; w <= 8; w++ {
		ew := effectiveWidth(w)
		require.Equal(t, ew, actualWidth(headerWidth(ew)))
	}
}

func TestWidthMask(t *testing.T) {
	require.Equal(t, uint64(0), widthMask(0))
	require.Equal(t, uint64(0xff), widthMask(8))
	for w := 1; w < 7; w++ {
		require.Equal(t, uint64(1)<<uint(w)-1, widthMask(w))
	}

	// w=7 never occurs as an effective width in practice (effectiveWidth and
	// actualWidth both collapse it to 8), and widthMask treats it the same
	// as 8 via the shared header-encoding lookup.
	require.Equal(t, widthMask(8), widthMask(7))
}
