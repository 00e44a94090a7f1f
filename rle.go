package sprintz

// RLE State Machine: a run is a contiguous sequence of blocks whose every
// dimension has width 0 (every delta is zero). The encoder replaces a run's
// header and body with a single variable-length field capped at
// maxRunNBlocks. The decoder replicates the last emitted record (or, for a
// run at the very start of the stream, emits zero bytes) in its place.

// appendRunLength appends the 1- or 2-byte variable-length encoding of
// length to dst and returns the result. length must be <= maxRunNBlocks.
func appendRunLength(dst []byte, length int) []byte {
	low := byte(length & 0x7f)
	if length <= 0x7f {
		return append(dst, low)
	}

	return append(dst, low|0x80, byte(length>>7))
}

// readRunLength reads a run-length field from the front of src, returning
// the decoded length and the number of bytes consumed (1 or 2).
func readRunLength(src []byte) (length int, nbytes int) {
	low := src[0]
	if low&0x80 == 0 {
		return int(low), 1
	}

	high := src[1]

	return int(low&0x7f) | int(high)<<7, 2
}
