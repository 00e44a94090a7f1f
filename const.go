package sprintz

// Format constants. group_sz_blocks is fixed at 2: the wire format places
// the headers for both blocks of a group at the group's head, and any other
// value changes that layout (see DESIGN.md).
const (
	blockSz       = 8 // records per block
	stripeSz      = 8 // dimensions per stripe
	groupSzBlocks = 2 // blocks per group
	nbitsSzBits   = 3 // header bits per dimension

	// minDataSize is the literal, dimension-independent threshold below
	// which an input cannot possibly hold one complete group's worth of
	// rows (8*block_sz*group_sz_blocks bytes in the original, regardless
	// of ndims) and is copied verbatim instead. This is distinct from
	// groupSzBytes(ndims), the real per-call group size in bytes.
	minDataSize = 8 * blockSz * groupSzBlocks

	maxRunNBlocks = 0x7FFF // 15-bit run-length cap

	metadataHeaderSize = 8 // both Mode A and Mode B headers are 8 bytes

	maxModeALength  = uint64(1) << 48 // L must fit in 48 bits
	maxRLERemainder = uint64(1) << 16 // remaining_len must fit in 16 bits

	maxDimsRLE    = 1024   // D < 1024 for rowmajor-delta-rle
	maxDimsPacked = 65536  // D < 65536 for the other two modes
)

// nbitsToMaskTable maps a 3-bit header width (0..7) to the smallest mask of
// the form 2^k-1 that covers a value needing that many bits; widthMask
// consults this table rather than computing the mask arithmetically. Two
// identical 16-byte halves mirror the source's AVX2 in-lane shuffle table;
// only the first 8 entries are read by the scalar header codec.
var nbitsToMaskTable = [32]byte{
	0x00, 0x01, 0x03, 0x07, 0x0f, 0x1f, 0x3f, 0xff,
	0xff, 0, 0, 0, 0, 0, 0, 0,
	0x00, 0x01, 0x03, 0x07, 0x0f, 0x1f, 0x3f, 0xff,
	0xff, 0, 0, 0, 0, 0, 0, 0,
}

func nstripesFor(ndims int) int {
	return (ndims + stripeSz - 1) / stripeSz
}

func headerBytesFor(ndims int) int {
	totalBits := ndims * nbitsSzBits * groupSzBlocks
	return (totalBits + 7) / 8
}

func groupSzBytes(ndims int) int {
	return ndims * blockSz * groupSzBlocks
}
