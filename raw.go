package minipb

// Record is a single schema-less tagged value: the triple §3.5 of the
// design describes. Data holds the raw, uninterpreted payload for the
// record's wire type:
//
//	WireVarint:          uint64
//	WireFixed32:         uint32
//	WireFixed64:         uint64
//	WireLengthDelimited: []byte
type Record struct {
	ID       int32
	WireType WireType
	Data     interface{}
}

// EncodeRaw serializes a sequence of records with no schema involved:
// each becomes tag || payload, concatenated in order. It does not
// validate field numbers beyond what EncodeTag itself enforces, and it
// does no interpretation of Data beyond dispatching on WireType.
func EncodeRaw(records []Record) ([]byte, error) {
	w := NewWriter(0)
	for i, r := range records {
		if err := w.EncodeTag(r.ID, r.WireType); err != nil {
			return nil, err
		}
		switch r.WireType {
		case WireVarint:
			v, ok := toUint64(r.Data)
			if !ok {
				return nil, codecErr(ValueOutOfRange, "record %d: varint data must be an unsigned integer, got %T", i, r.Data)
			}
			if err := w.EncodeVarint(v); err != nil {
				return nil, err
			}
		case WireFixed32:
			v, ok := toUint32(r.Data)
			if !ok {
				return nil, codecErr(ValueOutOfRange, "record %d: fixed32 data must fit in uint32, got %T", i, r.Data)
			}
			if err := w.EncodeFixed32(v); err != nil {
				return nil, err
			}
		case WireFixed64:
			v, ok := toUint64(r.Data)
			if !ok {
				return nil, codecErr(ValueOutOfRange, "record %d: fixed64 data must be an unsigned integer, got %T", i, r.Data)
			}
			if err := w.EncodeFixed64(v); err != nil {
				return nil, err
			}
		case WireLengthDelimited:
			p, ok := r.Data.([]byte)
			if !ok {
				if s, ok2 := r.Data.(string); ok2 {
					p = []byte(s)
				} else {
					return nil, codecErr(ValueOutOfRange, "record %d: length-delimited data must be []byte or string, got %T", i, r.Data)
				}
			}
			if err := w.EncodeBytes(p); err != nil {
				return nil, err
			}
		default:
			return nil, codecErr(WireTypeMismatch, "record %d: unsupported wire type %d", i, r.WireType)
		}
	}
	return w.Bytes(), nil
}

func toUint64(v interface{}) (uint64, bool) {
	switch x := v.(type) {
	case uint64:
		return x, true
	case uint32:
		return uint64(x), true
	case int64:
		return uint64(x), true
	case int:
		return uint64(x), true
	case int32:
		return uint64(x), true
	default:
		return 0, false
	}
}

func toUint32(v interface{}) (uint32, bool) {
	switch x := v.(type) {
	case uint32:
		return x, true
	case uint64:
		if x > 0xffffffff {
			return 0, false
		}
		return uint32(x), true
	case int:
		return uint32(x), true
	case int32:
		return uint32(x), true
	default:
		return 0, false
	}
}

// RawDecoder is a restartable cursor over a byte buffer that yields one
// Record at a time with no schema lookup, no value interpretation, and
// no recursion into nested messages. Pos reports the current offset, so
// a caller can save it and resume decoding later from a fresh RawDecoder
// built over the same (or a continuation of the same) buffer.
type RawDecoder struct {
	r *Buffer
}

// NewRawDecoder builds a cursor starting at the beginning of buf.
func NewRawDecoder(buf []byte) *RawDecoder {
	return &RawDecoder{r: NewBuffer(buf)}
}

// Pos returns the current read offset into the underlying buffer.
func (d *RawDecoder) Pos() int {
	return d.r.Pos()
}

// Done reports whether the cursor has reached a clean end-of-input
// boundary (no partial record pending).
func (d *RawDecoder) Done() bool {
	return d.r.EOF()
}

// Next decodes and returns the next record. When the cursor is already
// at a clean end-of-input boundary, it returns (Record{}, io.EOF)-style
// exhaustion via the ok=false return, not an error: callers loop
// `for { rec, ok, err := d.Next(); ... }`. A truncated record (the tag,
// length, or fixed-width payload runs past the end of the buffer) is
// reported as a *EndOfMessageError with Partial set according to
// whether any bytes of the incomplete record were consumed.
func (d *RawDecoder) Next() (rec Record, ok bool, err error) {
	if d.r.EOF() {
		return Record{}, false, nil
	}
	boundary := d.r.Pos()
	id, wt, err := d.r.DecodeTag()
	if err != nil {
		// A failed tag read leaves the cursor at the boundary, so the
		// varint decoder's own Partial flag is already relative to it.
		return Record{}, false, err
	}
	switch wt {
	case WireVarint:
		v, err := d.r.DecodeVarint()
		if err != nil {
			return Record{}, false, asEndOfMessage(err, d.r.Pos() > boundary)
		}
		return Record{ID: id, WireType: wt, Data: v}, true, nil
	case WireFixed32:
		v, err := d.r.DecodeFixed32()
		if err != nil {
			return Record{}, false, asEndOfMessage(err, d.r.Pos() > boundary)
		}
		return Record{ID: id, WireType: wt, Data: v}, true, nil
	case WireFixed64:
		v, err := d.r.DecodeFixed64()
		if err != nil {
			return Record{}, false, asEndOfMessage(err, d.r.Pos() > boundary)
		}
		return Record{ID: id, WireType: wt, Data: v}, true, nil
	case WireLengthDelimited:
		v, err := d.r.DecodeBytes()
		if err != nil {
			return Record{}, false, asEndOfMessage(err, d.r.Pos() > boundary)
		}
		return Record{ID: id, WireType: wt, Data: v}, true, nil
	default:
		return Record{}, false, codecErr(WireTypeMismatch, "unsupported wire type %d", wt)
	}
}

// asEndOfMessage normalizes any truncation error from a lower-level
// Decode* call into an *EndOfMessageError with Partial recomputed
// relative to the record boundary this Next() call started from.
func asEndOfMessage(err error, partial bool) error {
	if _, ok := err.(*EndOfMessageError); ok {
		return endOfMessage(partial)
	}
	return err
}

// DecodeRaw decodes every record in buf into a slice, convenience over
// RawDecoder for callers that don't need to pause and resume the cursor.
// A trailing incomplete record is reported as an *EndOfMessageError.
func DecodeRaw(buf []byte) ([]Record, error) {
	d := NewRawDecoder(buf)
	var out []Record
	for {
		rec, ok, err := d.Next()
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, rec)
	}
}
