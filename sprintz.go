package sprintz

import "fmt"

// Mode selects one of the three encode/decode mode pairs. It exists for
// callers that pick a mode dynamically (e.g. from a config value) rather
// than calling one of the six named functions directly.
type Mode int

const (
	// ModeRowMajor is bit-packing only, no delta, no RLE.
	ModeRowMajor Mode = iota
	// ModeRowMajorDelta adds a per-dimension zig-zag delta stage.
	ModeRowMajorDelta
	// ModeRowMajorDeltaRLE adds run-length encoding of all-zero-delta
	// blocks on top of ModeRowMajorDelta.
	ModeRowMajorDeltaRLE
)

func (m Mode) String() string {
	switch m {
	case ModeRowMajor:
		return "rowmajor"
	case ModeRowMajorDelta:
		return "rowmajor-delta"
	case ModeRowMajorDeltaRLE:
		return "rowmajor-delta-rle"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Encode dispatches to the Encode* function matching m.
func (m Mode) Encode(src, dst []byte, ndims int, writeSize bool) (int, error) {
	switch m {
	case ModeRowMajor:
		return EncodeRowMajor(src, dst, ndims, writeSize)
	case ModeRowMajorDelta:
		return EncodeRowMajorDelta(src, dst, ndims, writeSize)
	case ModeRowMajorDeltaRLE:
		return EncodeRowMajorDeltaRLE(src, dst, ndims, writeSize)
	default:
		return 0, fmt.Errorf("%w: %s", ErrInvalidMode, m)
	}
}

// Decode dispatches to the Decode* function matching m.
func (m Mode) Decode(src, dst []byte) (int, error) {
	switch m {
	case ModeRowMajor:
		return DecodeRowMajor(src, dst)
	case ModeRowMajorDelta:
		return DecodeRowMajorDelta(src, dst)
	case ModeRowMajorDeltaRLE:
		return DecodeRowMajorDeltaRLE(src, dst)
	default:
		return 0, fmt.Errorf("%w: %s", ErrInvalidMode, m)
	}
}
