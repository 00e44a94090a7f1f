package sprintz

import "github.com/dblalock/sprintz/internal/pool"

// Group/Block Driver: orchestrates the BitWidth Analyzer, Stripe Packer,
// Header Codec, Delta/Zig-zag Stage and RLE State Machine across an entire
// stream, and the Metadata Header that precedes the body.
//
// The driver is the one place in the package that allocates scratch memory
// of any real size, and it does so from internal/pool rather than with bare
// make(): the output accumulator comes from a ByteBufferPool sized for
// whole streams, and the per-dimension delta state and per-block pack/unpack
// scratch come from the slice pools, both returned before the call exits.

// MaxEncodedLen returns a conservative upper bound on the encoded size of
// an srcLen-byte input with the given dimensionality, suitable for sizing
// the dst buffer passed to one of the Encode* functions.
func MaxEncodedLen(srcLen, ndims int) int {
	if ndims <= 0 {
		return metadataHeaderSize + srcLen
	}

	groupBytes := groupSzBytes(ndims)
	ngroups := (srcLen + groupBytes - 1) / groupBytes

	return metadataHeaderSize + srcLen + 8 + ngroups*headerBytesFor(ndims)
}

func checkDims(ndims, limit int) error {
	if ndims <= 0 {
		return ErrInvalidDimensions
	}
	if ndims >= limit {
		return ErrTooManyDimensions
	}

	return nil
}

// encodeCore implements the shared body of EncodeRowMajor and
// EncodeRowMajorDelta: group/block framing, the BitWidth Analyzer, Header
// Codec and Stripe Packer, with the Delta/Zig-zag Stage spliced in when
// useDelta is set.
func encodeCore(src []byte, ndims int, useDelta bool) []byte {
	if len(src) < minDataSize {
		return append([]byte(nil), src...)
	}

	groupBytes := groupSzBytes(ndims)
	ngroups := len(src) / groupBytes
	tailStart := ngroups * groupBytes
	nstripes := nstripesFor(ndims)
	headerBytes := headerBytesFor(ndims)
	blockBytes := ndims * blockSz

	st := newBlockStats(nstripes)

	var prev []byte
	var putPrev func()
	var deltaScratch []byte
	var putDeltaScratch func()
	if useDelta {
		prev, putPrev = pool.GetByteSlice(ndims)
		defer putPrev()
		deltaScratch, putDeltaScratch = pool.GetByteSlice(blockSz * ndims)
		defer putDeltaScratch()
	}

	maxRowBytes := nstripes * 8
	packed, putPacked := pool.GetByteSlice(blockSz*maxRowBytes + 8)
	defer putPacked()

	buf := pool.GetBlobBuffer()
	defer pool.PutBlobBuffer(buf)
	buf.Grow(MaxEncodedLen(len(src), ndims))

	for g := 0; g < ngroups; g++ {
		groupSrc := src[g*groupBytes : (g+1)*groupBytes]
		headerStart := buf.Len()
		buf.MustWrite(make([]byte, headerBytes))

		for b := 0; b < groupSzBlocks; b++ {
			blockSrc := groupSrc[b*blockBytes : (b+1)*blockBytes]

			rows := blockSrc
			if useDelta {
				deltaEncodeBlock(deltaScratch, blockSrc, ndims, ndims, prev)
				rows = deltaScratch
			}

			analyzeBlock(st, rows, ndims, ndims)
			writeBlockHeader(buf.Slice(headerStart, headerStart+headerBytes), b, ndims, st)

			packedLen := blockSz*st.rowBytes + 8
			clear(packed[:packedLen])
			packBlock(packed[:packedLen], rows, ndims, st)
			buf.MustWrite(packed[:blockSz*st.rowBytes])
		}
	}

	buf.MustWrite(src[tailStart:])

	return append([]byte(nil), buf.Bytes()...)
}

// decodeCore is the inverse of encodeCore; length is the original L read
// from the Mode A metadata header.
func decodeCore(src []byte, ndims int, useDelta bool, length int) []byte {
	if length < minDataSize {
		return append([]byte(nil), src[:length]...)
	}

	groupBytes := groupSzBytes(ndims)
	ngroups := length / groupBytes
	tailLen := length - ngroups*groupBytes
	nstripes := nstripesFor(ndims)
	headerBytes := headerBytesFor(ndims)
	blockBytes := ndims * blockSz

	st := newBlockStats(nstripes)

	var prev []byte
	var putPrev func()
	var deltaScratch []byte
	var putDeltaScratch func()
	if useDelta {
		prev, putPrev = pool.GetByteSlice(ndims)
		defer putPrev()
		deltaScratch, putDeltaScratch = pool.GetByteSlice(blockSz * ndims)
		defer putDeltaScratch()
	}

	blockOut, putBlockOut := pool.GetByteSlice(blockBytes)
	defer putBlockOut()

	buf := pool.GetBlobBuffer()
	defer pool.PutBlobBuffer(buf)
	buf.Grow(length)

	pos := 0

	for g := 0; g < ngroups; g++ {
		headerBuf := src[pos : pos+headerBytes]
		pos += headerBytes

		for b := 0; b < groupSzBlocks; b++ {
			readBlockHeader(headerBuf, b, ndims, st)
			packedLen := blockSz * st.rowBytes
			packed := src[pos : pos+packedLen]
			pos += packedLen

			if useDelta {
				unpackBlock(deltaScratch, packed, ndims, st)
				deltaDecodeBlock(blockOut, deltaScratch, ndims, ndims, prev)
			} else {
				unpackBlock(blockOut, packed, ndims, st)
			}
			buf.MustWrite(blockOut)
		}
	}

	buf.MustWrite(src[pos : pos+tailLen])

	return append([]byte(nil), buf.Bytes()...)
}

// encodeDeltaRLECore is the run-length-aware counterpart of encodeCore. It
// both produces the body bytes and discovers ngroups dynamically, since a
// run can close a group early or absorb input past where a fixed group
// count would otherwise land.
func encodeDeltaRLECore(src []byte, ndims int) (out []byte, ngroups uint32, consumed int) {
	groupBytes := groupSzBytes(ndims)
	blockBytes := ndims * blockSz
	nstripes := nstripesFor(ndims)
	headerBytes := headerBytesFor(ndims)

	st := newBlockStats(nstripes)
	prev, putPrev := pool.GetByteSlice(ndims)
	defer putPrev()
	deltaScratch, putDeltaScratch := pool.GetByteSlice(blockSz * ndims)
	defer putDeltaScratch()

	maxRowBytes := nstripes * 8
	packed, putPacked := pool.GetByteSlice(blockSz*maxRowBytes + 8)
	defer putPacked()

	buf := pool.GetBlobBuffer()
	defer pool.PutBlobBuffer(buf)
	buf.Grow(MaxEncodedLen(len(src), ndims))

	pos := 0
	runLen := 0

	finish := func() ([]byte, uint32, int) {
		buf.MustWrite(src[pos:])

		return append([]byte(nil), buf.Bytes()...), ngroups, pos
	}

	for len(src)-pos >= groupBytes {
		ngroups++
		headerStart := buf.Len()
		buf.MustWrite(make([]byte, headerBytes))
		b := 0
		haveBlock := false // true when st/deltaScratch hold an unconsumed candidate block

		for b < groupSzBlocks {
			if !haveBlock {
				if len(src)-pos < blockBytes {
					break // ran out of input mid-group
				}
				deltaEncodeBlock(deltaScratch, src[pos:pos+blockBytes], ndims, ndims, prev)
				analyzeBlock(st, deltaScratch, ndims, ndims)
			}
			haveBlock = false

			if st.rowBits == 0 && runLen < maxRunNBlocks {
				runLen++
				pos += blockBytes

				continue
			}

			if runLen > 0 {
				buf.MustWrite(appendRunLength(nil, runLen))
				runLen = 0
				b++

				if b == groupSzBlocks {
					ngroups++
					headerStart = buf.Len()
					buf.MustWrite(make([]byte, headerBytes))
					b = 0
					haveBlock = true

					continue
				}

				if st.rowBits == 0 {
					runLen++
					pos += blockBytes

					continue
				}
			}

			writeBlockHeader(buf.Slice(headerStart, headerStart+headerBytes), b, ndims, st)
			packedLen := blockSz*st.rowBytes + 8
			clear(packed[:packedLen])
			packBlock(packed[:packedLen], deltaScratch, ndims, st)
			buf.MustWrite(packed[:blockSz*st.rowBytes])
			pos += blockBytes
			b++
		}

		if b < groupSzBlocks {
			if runLen > 0 {
				buf.MustWrite(appendRunLength(nil, runLen))
				runLen = 0
				b++
			}
			for ; b < groupSzBlocks; b++ {
				buf.MustWrite([]byte{0})
			}

			return finish()
		}
	}

	return finish()
}

// decodeDeltaRLECore is the inverse of encodeDeltaRLECore.
func decodeDeltaRLECore(src []byte, ndims int, ngroups uint32, tailLen int) []byte {
	nstripes := nstripesFor(ndims)
	headerBytes := headerBytesFor(ndims)
	blockBytes := ndims * blockSz

	st := newBlockStats(nstripes)
	prev, putPrev := pool.GetByteSlice(ndims)
	defer putPrev()
	deltaScratch, putDeltaScratch := pool.GetByteSlice(blockSz * ndims)
	defer putDeltaScratch()
	blockOut, putBlockOut := pool.GetByteSlice(blockBytes)
	defer putBlockOut()
	last, putLast := pool.GetByteSlice(ndims)
	defer putLast()

	pos := 0
	buf := pool.GetBlobBuffer()
	defer pool.PutBlobBuffer(buf)
	buf.Grow(int(ngroups)*blockBytes*groupSzBlocks + tailLen)
	seenBlock := false

	for g := uint32(0); g < ngroups; g++ {
		headerBuf := src[pos : pos+headerBytes]
		pos += headerBytes

		for b := 0; b < groupSzBlocks; b++ {
			readBlockHeader(headerBuf, b, ndims, st)

			if st.rowBits == 0 {
				length, nbytes := readRunLength(src[pos:])
				pos += nbytes
				ncopies := length * blockSz

				if !seenBlock {
					start := buf.Len()
					buf.ExtendOrGrow(ncopies * ndims)
					clear(buf.Bytes()[start:])
				} else {
					copy(last, buf.Bytes()[buf.Len()-ndims:])
					start := buf.Len()
					buf.ExtendOrGrow(ncopies * ndims)
					memrep(buf.Bytes()[start:], last, ncopies)
				}
				seenBlock = true

				continue
			}

			packedLen := blockSz * st.rowBytes
			packed := src[pos : pos+packedLen]
			pos += packedLen

			unpackBlock(deltaScratch, packed, ndims, st)
			deltaDecodeBlock(blockOut, deltaScratch, ndims, ndims, prev)
			buf.MustWrite(blockOut)
			seenBlock = true
		}
	}

	buf.MustWrite(src[pos : pos+tailLen])

	return append([]byte(nil), buf.Bytes()...)
}

// EncodeRowMajor bit-packs src (ndims-dimensional records) with no delta
// and no run-length encoding.
func EncodeRowMajor(src []byte, dst []byte, ndims int, writeSize bool) (int, error) {
	if err := checkDims(ndims, maxDimsPacked); err != nil {
		return 0, err
	}

	body := encodeCore(src, ndims, false)

	n := 0
	if writeSize {
		if err := writeMetadataA(dst, uint64(len(src)), ndims); err != nil {
			return 0, err
		}
		n = metadataHeaderSize
	}

	return n + copy(dst[n:], body), nil
}

// DecodeRowMajor reverses EncodeRowMajor, reading its Mode A metadata
// header from the front of src.
func DecodeRowMajor(src []byte, dst []byte) (int, error) {
	length, ndims := readMetadataA(src)
	if ndims == 0 {
		return 0, ErrInvalidDimensions
	}

	body := decodeCore(src[metadataHeaderSize:], ndims, false, int(length))

	return copy(dst, body), nil
}

// EncodeRowMajorDelta bit-packs the per-dimension zig-zag deltas of src.
func EncodeRowMajorDelta(src []byte, dst []byte, ndims int, writeSize bool) (int, error) {
	if err := checkDims(ndims, maxDimsPacked); err != nil {
		return 0, err
	}

	body := encodeCore(src, ndims, true)

	n := 0
	if writeSize {
		if err := writeMetadataA(dst, uint64(len(src)), ndims); err != nil {
			return 0, err
		}
		n = metadataHeaderSize
	}

	return n + copy(dst[n:], body), nil
}

// DecodeRowMajorDelta reverses EncodeRowMajorDelta.
func DecodeRowMajorDelta(src []byte, dst []byte) (int, error) {
	length, ndims := readMetadataA(src)
	if ndims == 0 {
		return 0, ErrInvalidDimensions
	}

	body := decodeCore(src[metadataHeaderSize:], ndims, true, int(length))

	return copy(dst, body), nil
}

// EncodeRowMajorDeltaRLE is EncodeRowMajorDelta with runs of all-zero-delta
// blocks collapsed into a length field.
func EncodeRowMajorDeltaRLE(src []byte, dst []byte, ndims int, writeSize bool) (int, error) {
	if err := checkDims(ndims, maxDimsRLE); err != nil {
		return 0, err
	}

	if len(src) < minDataSize {
		n := 0
		if writeSize {
			if err := writeMetadataB(dst, 0, len(src), ndims); err != nil {
				return 0, err
			}
			n = metadataHeaderSize
		}

		return n + copy(dst[n:], src), nil
	}

	body, ngroups, consumed := encodeDeltaRLECore(src, ndims)
	remainingLen := len(src) - consumed

	n := 0
	if writeSize {
		if err := writeMetadataB(dst, ngroups, remainingLen, ndims); err != nil {
			return 0, err
		}
		n = metadataHeaderSize
	}

	return n + copy(dst[n:], body), nil
}

// DecodeRowMajorDeltaRLE reverses EncodeRowMajorDeltaRLE, reading its
// Mode B metadata header from the front of src.
func DecodeRowMajorDeltaRLE(src []byte, dst []byte) (int, error) {
	ngroups, remainingLen, ndims := readMetadataB(src)
	if ndims == 0 {
		return 0, ErrInvalidDimensions
	}

	body := src[metadataHeaderSize:]
	if ngroups == 0 && remainingLen < minDataSize {
		return copy(dst, body[:remainingLen]), nil
	}

	out := decodeDeltaRLECore(body, ndims, ngroups, remainingLen)

	return copy(dst, out), nil
}
