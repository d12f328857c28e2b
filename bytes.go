package minipb

import "unicode/utf8"

// EncodeBytes appends a length-delimited record: the unsigned varint
// length of p followed by p itself.
func (b *Buffer) EncodeBytes(p []byte) error {
	if err := b.EncodeVarint(uint64(len(p))); err != nil {
		return err
	}
	b.write(p)
	return nil
}

// DecodeBytes reads a length-delimited record and returns an independent
// copy of its payload (the decoder never aliases the caller's source slice).
func (b *Buffer) DecodeBytes() ([]byte, error) {
	n, err := b.DecodeVarint()
	if err != nil {
		return nil, err
	}
	start := b.index
	end := start + int(n)
	if n > uint64(maxFieldNumber)<<3 || end < start || end > len(b.buf) {
		return nil, endOfMessage(true)
	}
	out := make([]byte, n)
	copy(out, b.buf[start:end])
	b.index = end
	return out, nil
}

// EncodeString appends a length-delimited record holding the UTF-8 bytes of s.
func (b *Buffer) EncodeString(s string) error {
	return b.EncodeBytes([]byte(s))
}

// DecodeString reads a length-delimited record and validates it as UTF-8,
// failing with a *CodecError{Kind: BadString} if it is not.
func (b *Buffer) DecodeString() (string, error) {
	raw, err := b.DecodeBytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(raw) {
		return "", codecErr(BadString, "field is not valid UTF-8")
	}
	return string(raw), nil
}
