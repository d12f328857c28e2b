package minipb

import "fmt"

// Encode serializes payload against the schema, per spec §4.7. If the
// schema is key/value (IsKV), payload must be a map[string]interface{};
// otherwise it must be a []interface{} whose length equals len(Fields())
// (including placeholder "x" slots, whose corresponding entry is
// ignored). Fields are emitted strictly in schema declaration order.
func (s *Schema) Encode(payload interface{}) ([]byte, error) {
	w := NewWriter(64)
	if s.kv {
		m, ok := payload.(map[string]interface{})
		if !ok {
			return nil, codecErr(ValueOutOfRange, "key/value schema requires a map[string]interface{} payload, got %T", payload)
		}
		if err := s.encodeKV(w, m); err != nil {
			return nil, err
		}
	} else {
		seq, ok := payload.([]interface{})
		if !ok {
			return nil, codecErr(ValueOutOfRange, "positional schema requires a []interface{} payload, got %T", payload)
		}
		if err := s.encodePositional(w, seq); err != nil {
			return nil, err
		}
	}
	return w.Bytes(), nil
}

func (s *Schema) encodeKV(w *Buffer, m map[string]interface{}) error {
	for i := range s.fields {
		f := &s.fields[i]
		v, present := m[f.Name]
		if err := s.encodeField(w, f, v, present && !isMissing(v, true)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Schema) encodePositional(w *Buffer, seq []interface{}) error {
	if len(seq) != len(s.fields) {
		return codecErr(ValueOutOfRange, "positional payload has %d entries, schema has %d fields", len(seq), len(s.fields))
	}
	for i := range s.fields {
		f := &s.fields[i]
		v := seq[i]
		if err := s.encodeField(w, f, v, !isMissing(v, true)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Schema) encodeField(w *Buffer, f *Field, v interface{}, present bool) error {
	if f.Type == TypePlaceholder {
		return nil
	}
	if !present {
		if f.Required {
			return codecErr(RequiredFieldMissing, "field %s is required", fieldLabel(*f))
		}
		return nil // repeated-missing and scalar-optional-missing both emit nothing
	}

	if f.Nested != nil {
		return s.encodeNestedField(w, f, v)
	}
	if f.Repeated {
		return s.encodeRepeatedScalar(w, f, v)
	}
	return encodeScalarRecord(w, f.Tag, f.Type, s.TCWidth(), v)
}

func (s *Schema) encodeNestedField(w *Buffer, f *Field, v interface{}) error {
	if !f.Repeated {
		return encodeNestedMessage(w, f.Tag, f.Nested, v)
	}
	elems, ok := iterateSequence(v)
	if !ok {
		return codecErr(ValueOutOfRange, "field %s is repeated nested; expected a sequence of sub-payloads, got %T", fieldLabel(*f), v)
	}
	for _, elem := range elems {
		if err := encodeNestedMessage(w, f.Tag, f.Nested, elem); err != nil {
			return err
		}
	}
	return nil
}

func encodeNestedMessage(w *Buffer, tag int32, nested *Schema, payload interface{}) error {
	body, err := nested.Encode(payload)
	if err != nil {
		return err
	}
	if err := w.EncodeTag(tag, WireLengthDelimited); err != nil {
		return err
	}
	return w.EncodeBytes(body)
}

func (s *Schema) encodeRepeatedScalar(w *Buffer, f *Field, v interface{}) error {
	elems, ok := iterateSequence(v)
	if !ok {
		return codecErr(ValueOutOfRange, "field %s is repeated; expected a sequence, got %T", fieldLabel(*f), v)
	}
	if len(elems) == 0 {
		return nil
	}
	if !f.Packed {
		for _, elem := range elems {
			if err := encodeScalarRecord(w, f.Tag, f.Type, s.TCWidth(), elem); err != nil {
				return err
			}
		}
		return nil
	}
	// Packed: concatenate every element's raw value bytes with no
	// per-element tag, then emit once as a single length-delimited
	// record under the field's tag.
	body := NewWriter(8 * len(elems))
	for _, elem := range elems {
		if err := encodeScalarValue(body, f.Type, s.TCWidth(), elem); err != nil {
			return err
		}
	}
	if err := w.EncodeTag(f.Tag, WireLengthDelimited); err != nil {
		return err
	}
	return w.EncodeBytes(body.Bytes())
}

// encodeScalarRecord emits tag + value for one scalar instance.
func encodeScalarRecord(w *Buffer, tag int32, t SemanticType, width uint, v interface{}) error {
	wt, _ := t.wireType()
	if err := w.EncodeTag(tag, wt); err != nil {
		return err
	}
	return encodeScalarValue(w, t, width, v)
}

// encodeScalarValue appends only the raw value bytes for a scalar,
// without a tag -- used directly for packed-repeated elements, and via
// encodeScalarRecord for everything else.
func encodeScalarValue(w *Buffer, t SemanticType, width uint, v interface{}) error {
	switch t.canonicalize() {
	case TypeSFixed32:
		n, ok := asInt64(v)
		if !ok {
			return codecErr(ValueOutOfRange, "expected an integer for sfixed32, got %T", v)
		}
		return w.EncodeFixed32(uint32(int32(n)))
	case TypeFixed32:
		n, ok := asUint64(v)
		if !ok {
			return codecErr(ValueOutOfRange, "expected an unsigned integer for fixed32, got %T", v)
		}
		if n > 0xffffffff {
			return codecErr(ValueOutOfRange, "value %d does not fit in fixed32", n)
		}
		return w.EncodeFixed32(uint32(n))
	case TypeSFixed64:
		n, ok := asInt64(v)
		if !ok {
			return codecErr(ValueOutOfRange, "expected an integer for sfixed64, got %T", v)
		}
		return w.EncodeFixed64(uint64(n))
	case TypeFixed64:
		n, ok := asUint64(v)
		if !ok {
			return codecErr(ValueOutOfRange, "expected an unsigned integer for fixed64, got %T", v)
		}
		return w.EncodeFixed64(n)
	case TypeFloat32:
		f, ok := asFloat64(v)
		if !ok {
			return codecErr(ValueOutOfRange, "expected a number for float32, got %T", v)
		}
		return w.EncodeFloat32(float32(f))
	case TypeFloat64:
		f, ok := asFloat64(v)
		if !ok {
			return codecErr(ValueOutOfRange, "expected a number for float64, got %T", v)
		}
		return w.EncodeFloat64(f)
	case TypeBytes:
		b, ok := asBytes(v)
		if !ok {
			return codecErr(ValueOutOfRange, "expected []byte for bytes field, got %T", v)
		}
		return w.EncodeBytes(b)
	case TypeString:
		str, ok := asString(v)
		if !ok {
			return codecErr(ValueOutOfRange, "expected string for text field, got %T", v)
		}
		return w.EncodeString(str)
	case TypeBool:
		b, ok := asBool(v)
		if !ok {
			return codecErr(ValueOutOfRange, "expected bool, got %T", v)
		}
		return w.EncodeBool(b)
	case TypeTCVarint:
		n, ok := asInt64(v)
		if !ok {
			return codecErr(ValueOutOfRange, "expected an integer for two's-complement varint, got %T", v)
		}
		return w.EncodeTwosComplement(n, width)
	case TypeUvarint:
		n, ok := asUint64(v)
		if !ok {
			return codecErr(ValueOutOfRange, "expected an unsigned integer for varint, got %T", v)
		}
		return w.EncodeVarint(n)
	case TypeZigZag:
		n, ok := asInt64(v)
		if !ok {
			return codecErr(ValueOutOfRange, "expected an integer for zigzag varint, got %T", v)
		}
		return w.EncodeVarint(EncodeZigZag64(n))
	default:
		return fmt.Errorf("minipb: unhandled semantic type %q", byte(t))
	}
}
