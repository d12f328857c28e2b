package minipb

// EncodeVarint appends x to the buffer in base-128 little-endian form,
// setting the continuation (high) bit on every byte but the last.
func (b *Buffer) EncodeVarint(x uint64) error {
	for x >= 0x80 {
		b.buf = append(b.buf, byte(x)|0x80)
		x >>= 7
	}
	b.buf = append(b.buf, byte(x))
	return nil
}

// DecodeVarint reads a base-128 little-endian varint from the read
// cursor. It fails with an *EndOfMessageError if the buffer runs out
// before a terminating byte (high bit clear) is seen, and with
// ErrVarintOverflow if more than 10 bytes are consumed without one.
func (b *Buffer) DecodeVarint() (uint64, error) {
	var x uint64
	start := b.index
	i := b.index
	l := len(b.buf)

	for shift := uint(0); shift < 70; shift += 7 {
		if i >= l {
			return 0, endOfMessage(i > start)
		}
		c := b.buf[i]
		i++
		if shift == 63 && c > 1 {
			// 10th byte: only bit 0 may be set, else the value overflows 64 bits.
			return 0, ErrVarintOverflow
		}
		x |= uint64(c&0x7f) << shift
		if c < 0x80 {
			b.index = i
			return x, nil
		}
	}
	return 0, ErrVarintOverflow
}

// EncodeZigZag64 maps a signed 64-bit integer to an unsigned one such
// that small-magnitude values (positive or negative) encode to small
// varints: (n << 1) XOR (n >> 63), using arithmetic right shift.
func EncodeZigZag64(n int64) uint64 {
	return uint64(n<<1) ^ uint64(n>>63)
}

// DecodeZigZag64 is the inverse of EncodeZigZag64.
func DecodeZigZag64(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}

// EncodeZigZag32 is the 32-bit analogue of EncodeZigZag64.
func EncodeZigZag32(n int32) uint64 {
	return uint64(uint32(n<<1) ^ uint32(n>>31))
}

// DecodeZigZag32 is the inverse of EncodeZigZag32.
func DecodeZigZag32(u uint64) int32 {
	v := uint32(u)
	return int32(v>>1) ^ -int32(v&1)
}

// defaultTCWidth is the bit width used for two's-complement varints
// (semantic type 't') when a Schema does not override it.
const defaultTCWidth = 64

// EncodeTwosComplement appends the two's-complement varint encoding of n
// within a W-bit domain: if n is negative it is first masked to its low
// W bits (so, e.g., a negative value with W=32 occupies 5 bytes rather
// than the 10 that W=64, Protobuf's own convention, gives), then varint-encoded
// as an ordinary unsigned value. W must be a positive multiple of 8; 64
// is the default used when a schema does not override it.
func (b *Buffer) EncodeTwosComplement(n int64, w uint) error {
	if w == 0 {
		w = defaultTCWidth
	}
	var u uint64
	if w >= 64 {
		u = uint64(n)
	} else {
		mask := uint64(1)<<w - 1
		u = uint64(n) & mask
	}
	return b.EncodeVarint(u)
}

// DecodeTwosComplement reads a varint and sign-extends bit W-1 to
// reconstruct the signed value it represents. W must match the width
// used to encode it.
func (b *Buffer) DecodeTwosComplement(w uint) (int64, error) {
	if w == 0 {
		w = defaultTCWidth
	}
	u, err := b.DecodeVarint()
	if err != nil {
		return 0, err
	}
	if w >= 64 {
		return int64(u), nil
	}
	signBit := uint64(1) << (w - 1)
	if u&signBit != 0 {
		u |= ^(uint64(1)<<w - 1) // sign-extend into the high bits
	}
	return int64(u), nil
}

// EncodeBool appends a boolean as the varint 0 or 1.
func (b *Buffer) EncodeBool(v bool) error {
	if v {
		return b.EncodeVarint(1)
	}
	return b.EncodeVarint(0)
}

// DecodeBool reads a varint and reports whether it is non-zero.
func (b *Buffer) DecodeBool() (bool, error) {
	v, err := b.DecodeVarint()
	if err != nil {
		return false, err
	}
	return v != 0, nil
}
