package sprintz

import "encoding/binary"

// Metadata headers are always 8 bytes, always little-endian — the format has
// no cross-endian portability goal, so this package writes with
// encoding/binary.LittleEndian directly rather than routing through a
// switchable byte-order engine (see DESIGN.md).

// writeMetadataA writes the Mode A header (rowmajor, rowmajor-delta):
// bytes 0..5 hold the original length L (48 bits), bytes 6..7 hold ndims.
func writeMetadataA(dst []byte, length uint64, ndims int) error {
	if length >= maxModeALength {
		return ErrOversizedInput
	}

	var buf [metadataHeaderSize]byte
	buf[0] = byte(length)
	buf[1] = byte(length >> 8)
	buf[2] = byte(length >> 16)
	buf[3] = byte(length >> 24)
	buf[4] = byte(length >> 32)
	buf[5] = byte(length >> 40)
	binary.LittleEndian.PutUint16(buf[6:8], uint16(ndims))
	copy(dst, buf[:])

	return nil
}

// readMetadataA reads a Mode A header.
func readMetadataA(src []byte) (length uint64, ndims int) {
	length = uint64(src[0]) | uint64(src[1])<<8 | uint64(src[2])<<16 |
		uint64(src[3])<<24 | uint64(src[4])<<32 | uint64(src[5])<<40
	ndims = int(binary.LittleEndian.Uint16(src[6:8]))

	return length, ndims
}

// writeMetadataB writes the Mode B header (rowmajor-delta-rle):
// bytes 0..3 hold the number of complete groups, bytes 4..5 hold the
// uncompressed tail length, bytes 6..7 hold ndims.
func writeMetadataB(dst []byte, ngroups uint32, remainingLen int, ndims int) error {
	if uint64(remainingLen) >= maxRLERemainder {
		return ErrOversizedInput
	}

	binary.LittleEndian.PutUint32(dst[0:4], ngroups)
	binary.LittleEndian.PutUint16(dst[4:6], uint16(remainingLen))
	binary.LittleEndian.PutUint16(dst[6:8], uint16(ndims))

	return nil
}

// readMetadataB reads a Mode B header.
func readMetadataB(src []byte) (ngroups uint32, remainingLen int, ndims int) {
	ngroups = binary.LittleEndian.Uint32(src[0:4])
	remainingLen = int(binary.LittleEndian.Uint16(src[4:6]))
	ndims = int(binary.LittleEndian.Uint16(src[6:8]))

	return ngroups, remainingLen, ndims
}
