package sprintz

import "encoding/binary"

// blockStats holds the per-stripe statistics the Stripe Packer and Header
// Codec both need for one block: bit-width, bit-offset, deposit/extract
// mask, and packed 3-bit-per-dimension header word.
type blockStats struct {
	nstripes   int
	widths     []byte   // sum of per-dim widths in the stripe, 0..64
	bitoffsets []uint32 // cumulative bit offset of each stripe's first bit
	masks      []uint64 // per-stripe pext/pdep mask
	headers    []uint32 // per-stripe packed 3-bit-per-dim header value
	rowBits    int
	rowBytes   int
}

// analyzeBlock computes blockStats for one 8-row block of rowStride-strided
// data (either the raw source for rowmajor, or a delta+zig-zag buffer for
// the delta modes). rows must have at least 8*rowStride bytes available,
// or be safely short: analyzeBlock treats any read past the end as zero.
func analyzeBlock(st *blockStats, rows []byte, rowStride, ndims int) {
	clearBlockStats(st)

	for d := 0; d < ndims; d++ {
		var orReduction byte
		for i := 0; i < blockSz; i++ {
			orReduction |= safeByteAt(rows, i*rowStride+d)
		}

		w := effectiveWidth(neededNBits(orReduction))
		stripe := d / stripeSz
		idx := d % stripeSz

		st.widths[stripe] += byte(w)
		st.masks[stripe] |= widthMask(w) << uint(idx*8)
		st.headers[stripe] |= uint32(headerWidth(w)) << uint(idx*nbitsSzBits)
	}

	finalizeBlockStats(st)
}

// finalizeBlockStats computes stripe bit-offsets and row size from widths
// already populated in st, shared by analyzeBlock (encode) and
// readBlockHeader (decode).
func finalizeBlockStats(st *blockStats) {
	var cum uint32
	for s := 0; s < st.nstripes; s++ {
		st.bitoffsets[s] = cum
		cum += uint32(st.widths[s])
	}
	st.rowBits = int(cum)
	st.rowBytes = (st.rowBits + 7) / 8
}

func clearBlockStats(st *blockStats) {
	for i := range st.widths {
		st.widths[i] = 0
	}
	for i := range st.masks {
		st.masks[i] = 0
	}
	for i := range st.headers {
		st.headers[i] = 0
	}
}

// newBlockStats allocates scratch slices for a block with the given number
// of stripes. Call clearBlockStats (done inside analyzeBlock) between
// blocks to reuse the allocation.
func newBlockStats(nstripes int) *blockStats {
	return &blockStats{
		nstripes:   nstripes,
		widths:     make([]byte, nstripes),
		bitoffsets: make([]uint32, nstripes),
		masks:      make([]uint64, nstripes),
		headers:    make([]uint32, nstripes),
	}
}

// packBlock packs the eight rows of src (rowStride-strided, ndims real
// dimensions per row) into dst using the layout described by st. dst must
// hold at least blockSz*st.rowBytes+8 bytes (the trailing 8 bytes absorb
// the final stripe's legitimate overrun into the following row).
//
// Stripes are packed in ascending order: the slow-path extra byte a stripe
// writes just past its own 8-byte word is a plain assignment, not an OR, so
// a later stripe's OR-write into that same byte must come after it.
func packBlock(dst []byte, src []byte, rowStride int, st *blockStats) {
	for s := 0; s < st.nstripes; s++ {
		offsetBits := st.bitoffsets[s] & 7
		offsetBytes := int(st.bitoffsets[s] >> 3)
		width := int(st.widths[s])
		totalBits := width + int(offsetBits)
		mask := st.masks[s]

		for row := 0; row < blockSz; row++ {
			data := loadWord8(src, row*rowStride+s*stripeSz)
			packed := pextU64(data, mask)
			writeData := packed << offsetBits
			pos := row*st.rowBytes + offsetBytes

			orInto(dst, pos, writeData)

			if totalBits > 64 {
				nbitsLost := totalBits - 64
				extra := byte(packed >> uint(width-nbitsLost))
				setByteAt(dst, pos+8, extra)
			}
		}
	}
}

// unpackBlock is the inverse of packBlock: it reads the packed block at src
// (st.rowBytes-strided) and writes blockSz rows of ndims bytes each into
// dst (rowStride-strided). dst needs no slack past its last row: the 8-byte
// stores are clipped at len(dst).
//
// Stripes are unpacked in descending order: the 8-byte store of a row's
// final stripe may spill past that row's last dimension into the leading
// bytes of the next row in dst, so stripe 0's stores, done last, overwrite
// that spill with the correct values.
func unpackBlock(dst []byte, src []byte, rowStride int, st *blockStats) {
	for s := st.nstripes - 1; s >= 0; s-- {
		offsetBits := st.bitoffsets[s] & 7
		offsetBytes := int(st.bitoffsets[s] >> 3)
		width := int(st.widths[s])
		totalBits := width + int(offsetBits)
		mask := st.masks[s]
		wmask := widthMask64(width)

		for row := 0; row < blockSz; row++ {
			pos := row*st.rowBytes + offsetBytes
			packedData := loadWord8(src, pos) >> offsetBits

			if totalBits > 64 {
				nbitsLost := totalBits - 64
				high := loadWord8(src, pos+8)
				packedData |= high << uint(width-nbitsLost)
			}
			packedData &= wmask

			dstWord := pdepU64(packedData, mask)
			storeWord8(dst, row*rowStride+s*stripeSz, dstWord)
		}
	}
}

func widthMask64(w int) uint64 {
	if w >= 64 {
		return ^uint64(0)
	}
	if w == 0 {
		return 0
	}

	return uint64(1)<<uint(w) - 1
}

// loadWord8 reads 8 bytes starting at start as a little-endian uint64,
// treating any portion past the end of buf as zero. The stripe packer
// relies on this to read the final, possibly partial, stripe of a row
// without requiring the caller to pad the source buffer.
func loadWord8(buf []byte, start int) uint64 {
	if start < 0 || start >= len(buf) {
		return 0
	}
	end := start + 8
	if end <= len(buf) {
		return binary.LittleEndian.Uint64(buf[start:end])
	}

	var tmp [8]byte
	copy(tmp[:], buf[start:])

	return binary.LittleEndian.Uint64(tmp[:])
}

// storeWord8 writes the low 8 bytes of v at start, clipping to len(dst).
// Used on decode: the final stripe of a row may legitimately spill into
// the next row's leading bytes, which is resolved by unpacking stripes in
// descending order (see unpackBlock).
func storeWord8(dst []byte, start int, v uint64) {
	n := 8
	if start+n > len(dst) {
		n = len(dst) - start
	}
	for i := 0; i < n; i++ {
		dst[start+i] = byte(v >> uint(8*i))
	}
}

// orInto ORs the low 8 bytes of v into dst starting at pos, clipping to
// len(dst).
func orInto(dst []byte, pos int, v uint64) {
	n := 8
	if pos+n > len(dst) {
		n = len(dst) - pos
	}
	for i := 0; i < n; i++ {
		dst[pos+i] |= byte(v >> uint(8*i))
	}
}

func safeByteAt(buf []byte, i int) byte {
	if i < 0 || i >= len(buf) {
		return 0
	}

	return buf[i]
}

func setByteAt(buf []byte, i int, v byte) {
	if i < 0 || i >= len(buf) {
		return
	}
	buf[i] = v
}
