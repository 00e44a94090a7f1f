package sprintz

// PackUniform and UnpackUniform are the header-free, single-bit-width
// building block the BitWidth Analyzer's per-block variable-width packer
// generalizes: every 8 bytes of src are packed into nbits bytes at a
// caller-chosen, uniform width, with no header, no delta, no RLE. len(src)
// need not be a multiple of 8; a short final chunk is treated as
// zero-padded. nbits must be in 0..8; with nbits 0 nothing is written and
// UnpackUniform reconstructs zeros.

// PackUniform packs src into dst at a uniform nbits-bit width per byte and
// returns the number of bytes written, ceil(len(src)/8)*nbits.
func PackUniform(dst, src []byte, nbits int) int {
	mask := tileByte(byte(widthMask64(nbits)))
	written := 0

	for i := 0; i < len(src); i += blockSz {
		data := loadWord8(src, i)
		packed := pextU64(data, mask)
		storeWord8(dst[written:], 0, packed)
		written += nbits
	}

	return written
}

// UnpackUniform is the inverse of PackUniform: nvalues is the number of
// original bytes to reconstruct (src holds ceil(nvalues/8)*nbits bytes).
func UnpackUniform(dst, src []byte, nbits, nvalues int) int {
	mask := tileByte(byte(widthMask64(nbits)))
	read, written := 0, 0

	for written < nvalues {
		packed := loadWord8(src, read)
		val := pdepU64(packed, mask)

		n := blockSz
		if nvalues-written < n {
			n = nvalues - written
		}
		storeWord8(dst[written:written+n], 0, val)

		read += nbits
		written += blockSz
	}

	return nvalues
}
