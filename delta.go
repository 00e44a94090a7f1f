package sprintz

// Delta/Zig-zag Stage: per-dimension first-order difference with the
// previous value carried across block boundaries, then zig-zag mapped to
// unsigned. prev holds one byte per dimension and is mutated in place; it
// must be zero-initialized before the first block of a stream so the first
// block's deltas are taken against an implicit all-zero record.

// deltaEncodeBlock writes blockSz*ndims zig-zag bytes (ndims-stride,
// dimension-major within each row) into dst from the blockSz rows of src
// (rowStride-strided), updating prev as it goes.
func deltaEncodeBlock(dst []byte, src []byte, rowStride, ndims int, prev []byte) {
	for d := 0; d < ndims; d++ {
		p := prev[d]
		for row := 0; row < blockSz; row++ {
			val := src[row*rowStride+d]
			delta := val - p
			dst[row*ndims+d] = zigzagEncode(int8(delta))
			p = val
		}
		prev[d] = p
	}
}

// deltaDecodeBlock is the inverse of deltaEncodeBlock: raw holds blockSz
// rows of ndims zig-zag bytes (tightly packed, as produced by unpackBlock),
// dst receives the reconstructed values at rowStride stride.
func deltaDecodeBlock(dst []byte, raw []byte, rowStride, ndims int, prev []byte) {
	for d := 0; d < ndims; d++ {
		p := prev[d]
		for row := 0; row < blockSz; row++ {
			delta := zigzagDecode(raw[row*ndims+d])
			val := p + byte(delta)
			dst[row*rowStride+d] = val
			p = val
		}
		prev[d] = p
	}
}
