package minipb

// fieldAccum accumulates decoded values for one field while the tag
// stream is consumed: "one" holds the last-wins value for a
// non-repeated field, "many" the accumulated values for a repeated one.
type fieldAccum struct {
	seen bool
	one  interface{}
	many []interface{}
}

// Decode parses data against the schema, per spec §4.8, and returns
// either a map[string]interface{} (when the schema is key/value) or a
// []interface{} whose length equals len(Fields()) (when compiled from a
// format string), with "x" placeholder slots and absent optional scalars
// filled with NoValue. Repeated fields always materialize as a
// []interface{}, possibly empty, never nil-as-absent.
func (s *Schema) Decode(data []byte) (interface{}, error) {
	acc := make(map[int32]*fieldAccum, len(s.fields))
	for i := range s.fields {
		acc[s.fields[i].Tag] = &fieldAccum{}
	}

	r := NewBuffer(data)
	for !r.EOF() {
		tag, wt, err := r.DecodeTag()
		if err != nil {
			return nil, err
		}
		f := s.byTag[tag]
		if f == nil {
			return nil, codecErr(UnknownField, "decoded tag %d has no matching field in schema", tag)
		}
		a := acc[tag]
		expected := f.wireType()

		switch {
		case wt == expected:
			if f.Nested != nil {
				raw, err := r.DecodeBytes()
				if err != nil {
					return nil, forcePartial(err)
				}
				sub, err := f.Nested.Decode(raw)
				if err != nil {
					return nil, err
				}
				a.seen = true
				if f.Repeated {
					a.many = append(a.many, sub)
				} else {
					a.one = sub
				}
				continue
			}
			v, err := decodeScalarValue(r, f.Type, s.TCWidth())
			if err != nil {
				return nil, forcePartial(err)
			}
			a.seen = true
			if f.Repeated {
				a.many = append(a.many, v)
			} else {
				a.one = v
			}

		case f.Repeated && f.Nested == nil && wt == WireLengthDelimited && isPackableScalar(f.Type):
			raw, err := r.DecodeBytes()
			if err != nil {
				return nil, forcePartial(err)
			}
			elems, err := splitPacked(raw, f.Type, s.TCWidth())
			if err != nil {
				return nil, err
			}
			a.seen = true
			a.many = append(a.many, elems...)

		default:
			return nil, codecErr(WireTypeMismatch, "field %s: expected wire type %s, got %s", fieldLabel(*f), expected, wt)
		}
	}

	for i := range s.fields {
		f := &s.fields[i]
		if f.Required && !acc[f.Tag].seen {
			return nil, codecErr(RequiredFieldMissing, "field %s was never set", fieldLabel(*f))
		}
	}

	if s.kv {
		return s.buildNamedResult(acc), nil
	}
	return s.buildPositionalResult(acc), nil
}

func (s *Schema) buildPositionalResult(acc map[int32]*fieldAccum) []interface{} {
	out := make([]interface{}, len(s.fields))
	for i := range s.fields {
		f := &s.fields[i]
		out[i] = s.resolvedValue(f, acc[f.Tag])
	}
	return out
}

func (s *Schema) buildNamedResult(acc map[int32]*fieldAccum) map[string]interface{} {
	out := make(map[string]interface{}, len(s.fields))
	for i := range s.fields {
		f := &s.fields[i]
		a := acc[f.Tag]
		if f.Repeated {
			out[f.Name] = resolvedMany(a)
			continue
		}
		if f.Type == TypePlaceholder {
			if !s.sparseDict {
				out[f.Name] = NoValue
			}
			continue
		}
		if a.seen {
			out[f.Name] = a.one
			continue
		}
		if !s.sparseDict {
			out[f.Name] = NoValue
		}
	}
	return out
}

func (s *Schema) resolvedValue(f *Field, a *fieldAccum) interface{} {
	switch {
	case f.Type == TypePlaceholder:
		return NoValue
	case f.Repeated:
		return resolvedMany(a)
	case a.seen:
		return a.one
	default:
		return NoValue
	}
}

func resolvedMany(a *fieldAccum) []interface{} {
	if a.many == nil {
		return []interface{}{}
	}
	return a.many
}

// forcePartial re-reports a truncation that occurs anywhere after a tag
// has already been successfully read as Partial == true: the tag's bytes
// were necessarily consumed past the record boundary the tag started at.
func forcePartial(err error) error {
	if _, ok := err.(*EndOfMessageError); ok {
		return endOfMessage(true)
	}
	return err
}

// decodeScalarValue reads one scalar value of the given semantic type
// from r, assuming the caller has already confirmed the wire type
// matches (or is re-splitting a packed payload, in which case r wraps
// just that payload).
func decodeScalarValue(r *Buffer, t SemanticType, width uint) (interface{}, error) {
	switch t.canonicalize() {
	case TypeSFixed32:
		v, err := r.DecodeFixed32()
		if err != nil {
			return nil, err
		}
		return int32(v), nil
	case TypeFixed32:
		return r.DecodeFixed32()
	case TypeSFixed64:
		v, err := r.DecodeFixed64()
		if err != nil {
			return nil, err
		}
		return int64(v), nil
	case TypeFixed64:
		return r.DecodeFixed64()
	case TypeFloat32:
		return r.DecodeFloat32()
	case TypeFloat64:
		return r.DecodeFloat64()
	case TypeBytes:
		return r.DecodeBytes()
	case TypeString:
		return r.DecodeString()
	case TypeBool:
		return r.DecodeBool()
	case TypeTCVarint:
		return r.DecodeTwosComplement(width)
	case TypeUvarint:
		return r.DecodeVarint()
	case TypeZigZag:
		u, err := r.DecodeVarint()
		if err != nil {
			return nil, err
		}
		return DecodeZigZag64(u), nil
	default:
		return nil, codecErr(WireTypeMismatch, "type %q has no scalar decoding", byte(t))
	}
}

// splitPacked re-interprets a length-delimited payload as a run of
// packed scalar values with no per-element tags, per spec §4.8's
// packed/unpacked reconciliation rule.
func splitPacked(raw []byte, t SemanticType, width uint) ([]interface{}, error) {
	wt, _ := t.wireType()
	if wt == WireFixed32 && len(raw)%4 != 0 {
		return nil, codecErr(ValueOutOfRange, "packed fixed32 payload length %d is not a multiple of 4", len(raw))
	}
	if wt == WireFixed64 && len(raw)%8 != 0 {
		return nil, codecErr(ValueOutOfRange, "packed fixed64 payload length %d is not a multiple of 8", len(raw))
	}
	sub := NewBuffer(raw)
	var out []interface{}
	for !sub.EOF() {
		v, err := decodeScalarValue(sub, t, width)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if out == nil {
		out = []interface{}{}
	}
	return out, nil
}
