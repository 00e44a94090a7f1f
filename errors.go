package sprintz

import "errors"

// ErrInvalidDimensions is returned when D (the number of one-byte dimensions
// per record) is not positive: zero or negative on encode, zero on decode.
var ErrInvalidDimensions = errors.New("sprintz: ndims must be greater than zero")

// ErrTooManyDimensions is returned when D reaches the mode's wire-format
// limit: D must be below 1024 for the RLE mode (so that
// group_sz_blocks*D*(block_sz-1) fits in 16 bits) and below 65536 for the
// other two modes.
var ErrTooManyDimensions = errors.New("sprintz: ndims exceeds the limit for this mode")

// ErrOversizedInput is returned when the encoder is asked to write a
// metadata header but the input (or, for the RLE mode, the uncompressed
// tail) does not fit in the header's length field.
var ErrOversizedInput = errors.New("sprintz: input length does not fit in the metadata header")

// ErrShortBuffer reports a destination buffer too small for the output. The
// Encode* and Decode* functions do not return it: they copy as much of the
// output as fits in dst and return the number of bytes copied.
var ErrShortBuffer = errors.New("sprintz: destination buffer too small")

// ErrInvalidMode is returned by Mode.Encode/Mode.Decode when called on a
// Mode value outside the three defined constants.
var ErrInvalidMode = errors.New("sprintz: invalid mode")
