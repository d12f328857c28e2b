package minipb

import (
	"encoding/binary"
	"math"
)

// EncodeFixed32 appends x as 4 little-endian bytes.
func (b *Buffer) EncodeFixed32(x uint32) error {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], x)
	b.write(tmp[:])
	return nil
}

// DecodeFixed32 reads 4 little-endian bytes as an unsigned 32-bit integer.
func (b *Buffer) DecodeFixed32() (uint32, error) {
	if b.Len() < 4 {
		return 0, endOfMessage(b.Len() > 0)
	}
	x := binary.LittleEndian.Uint32(b.buf[b.index : b.index+4])
	b.index += 4
	return x, nil
}

// EncodeFixed64 appends x as 8 little-endian bytes.
func (b *Buffer) EncodeFixed64(x uint64) error {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], x)
	b.write(tmp[:])
	return nil
}

// DecodeFixed64 reads 8 little-endian bytes as an unsigned 64-bit integer.
func (b *Buffer) DecodeFixed64() (uint64, error) {
	if b.Len() < 8 {
		return 0, endOfMessage(b.Len() > 0)
	}
	x := binary.LittleEndian.Uint64(b.buf[b.index : b.index+8])
	b.index += 8
	return x, nil
}

// EncodeFloat32 appends the IEEE-754 bit pattern of f as 4 little-endian bytes.
func (b *Buffer) EncodeFloat32(f float32) error {
	return b.EncodeFixed32(math.Float32bits(f))
}

// DecodeFloat32 is the inverse of EncodeFloat32.
func (b *Buffer) DecodeFloat32() (float32, error) {
	x, err := b.DecodeFixed32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(x), nil
}

// EncodeFloat64 appends the IEEE-754 bit pattern of f as 8 little-endian bytes.
func (b *Buffer) EncodeFloat64(f float64) error {
	return b.EncodeFixed64(math.Float64bits(f))
}

// DecodeFloat64 is the inverse of EncodeFloat64.
func (b *Buffer) DecodeFloat64() (float64, error) {
	x, err := b.DecodeFixed64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(x), nil
}
