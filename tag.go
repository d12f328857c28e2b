package minipb

import "math"

// WireType is the Protobuf wire type carried by every tag. Only the four
// values below are supported; groups (3, 4) are rejected on decode.
type WireType int8

const (
	WireVarint           WireType = 0
	WireFixed64          WireType = 1
	WireLengthDelimited  WireType = 2
	wireStartGroup       WireType = 3 // unsupported, kept only to recognize and reject it
	wireEndGroup         WireType = 4 // unsupported, kept only to recognize and reject it
	WireFixed32          WireType = 5
)

func (w WireType) String() string {
	switch w {
	case WireVarint:
		return "varint"
	case WireFixed64:
		return "fixed64"
	case WireLengthDelimited:
		return "length-delimited"
	case WireFixed32:
		return "fixed32"
	case wireStartGroup:
		return "start-group"
	case wireEndGroup:
		return "end-group"
	default:
		return "unknown"
	}
}

func (w WireType) valid() bool {
	switch w {
	case WireVarint, WireFixed64, WireLengthDelimited, WireFixed32:
		return true
	default:
		return false
	}
}

// maxFieldNumber is the largest field number a tag can carry: 2^29 - 1.
const maxFieldNumber = 1<<29 - 1

// EncodeTag appends the varint-encoded (fieldNumber<<3)|wireType tag to the
// buffer's write cursor.
func (b *Buffer) EncodeTag(fieldNumber int32, wireType WireType) error {
	if fieldNumber < 1 || fieldNumber > maxFieldNumber {
		return codecErr(ValueOutOfRange, "field number %d out of range [1, %d]", fieldNumber, maxFieldNumber)
	}
	return b.EncodeVarint(uint64(fieldNumber)<<3 | uint64(wireType&7))
}

// DecodeTag reads a tag varint and splits it into a field number and wire
// type. It fails with a *CodecError{Kind: WireTypeMismatch} if the wire
// type is a group marker (3 or 4), since groups are unsupported.
func (b *Buffer) DecodeTag() (fieldNumber int32, wireType WireType, err error) {
	v, err := b.DecodeVarint()
	if err != nil {
		return 0, 0, err
	}
	wireType = WireType(v & 7)
	n := v >> 3
	if n == 0 || n > math.MaxInt32 || n > maxFieldNumber {
		return 0, 0, codecErr(ValueOutOfRange, "tag field number %d out of range", n)
	}
	if !wireType.valid() {
		return 0, 0, codecErr(WireTypeMismatch, "unsupported wire type %d (groups are not supported)", wireType)
	}
	return int32(n), wireType, nil
}
