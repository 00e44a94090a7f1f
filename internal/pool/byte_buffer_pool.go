package pool

import (
	"io"
	"sync"
)

// streamBufferDefaultSize and streamBufferMaxThreshold size the pool backing
// GetBlobBuffer/PutBlobBuffer: the driver asks for one buffer per Encode*/
// Decode* call and fills it with an entire encoded or decoded stream, so the
// default capacity is picked to absorb a few groups' worth of output without
// reallocating, and the threshold keeps one unusually large call from
// pinning an oversized buffer in the pool forever.
const (
	streamBufferDefaultSize  = 1024 * 16  // 16KiB
	streamBufferMaxThreshold = 1024 * 128 // 128KiB
)

// ByteBuffer is a growable byte slice with pool-friendly reset semantics:
// B is reused across Get/Put cycles instead of being reallocated each time.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer allocates a ByteBuffer with the given starting capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the buffer's current contents.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset truncates the buffer to length zero without releasing its backing
// array.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len reports the buffer's current length.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap reports the buffer's current capacity.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// MustWrite appends data to the buffer, growing it if needed.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.B = append(bb.B, data...)
}

// Slice returns bb.B[start:end]. The bound check is against capacity, not
// length, so callers may slice into a region already reserved by a prior
// MustWrite of zero bytes.
func (bb *ByteBuffer) Slice(start, end int) []byte {
	if start < 0 || end < start || end > cap(bb.B) {
		panic("Slice: invalid indices")
	}

	return bb.B[start:end]
}

// SetLength truncates or re-extends the buffer to exactly n bytes, which
// must not exceed the current capacity.
func (bb *ByteBuffer) SetLength(n int) {
	if n < 0 || n > cap(bb.B) {
		panic("SetLength: invalid length")
	}
	bb.B = bb.B[:n]
}

// Extend grows the buffer's length by n bytes in place if there is enough
// spare capacity, reporting whether it did. The newly-visible bytes are
// whatever was left over from a previous use of the backing array and are
// not zeroed.
func (bb *ByteBuffer) Extend(n int) bool {
	curLen := len(bb.B)
	if cap(bb.B)-curLen < n {
		return false
	}

	bb.B = bb.B[:curLen+n]

	return true
}

// ExtendOrGrow extends the buffer by n bytes, reallocating via Grow when the
// fast in-place Extend path doesn't have room. Like Extend, bytes exposed by
// the fast path are not zeroed; only a reallocation (Grow) zeroes them,
// since it comes from a fresh make().
func (bb *ByteBuffer) ExtendOrGrow(n int) {
	if bb.Extend(n) {
		return
	}

	start := len(bb.B)
	bb.Grow(n)
	bb.B = bb.B[:start+n]
}

// Grow ensures the buffer can accept requiredBytes more bytes without a
// further reallocation. Small buffers grow by a fixed increment; buffers
// already past 4x that size grow by a quarter of their capacity, to avoid
// both frequent small reallocations and runaway doubling.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := streamBufferDefaultSize
	if cap(bb.B) > 4*streamBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}

	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write implements io.Writer.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteTo implements io.WriterTo.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ByteBufferPool is a sync.Pool of ByteBuffers, with an optional cap on the
// capacity of a buffer it will retain.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool whose buffers start at defaultSize and
// are discarded, rather than retained, once their capacity exceeds
// maxThreshold (0 disables the threshold).
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool, allocating one if the pool is
// empty.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put resets bb and returns it to the pool, unless its capacity has grown
// past maxThreshold, in which case it is left for the garbage collector.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var streamBufferPool = NewByteBufferPool(streamBufferDefaultSize, streamBufferMaxThreshold)

// GetBlobBuffer retrieves a ByteBuffer from the package-wide stream-output
// pool used by encodeCore/decodeCore and their RLE counterparts.
func GetBlobBuffer() *ByteBuffer {
	return streamBufferPool.Get()
}

// PutBlobBuffer returns bb to the pool GetBlobBuffer draws from.
func PutBlobBuffer(bb *ByteBuffer) {
	streamBufferPool.Put(bb)
}
