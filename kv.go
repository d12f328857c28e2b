package minipb

// KVField is one entry of a key/value schema, covering the three tuple
// shapes spec §4.6 allows:
//
//	(name, type_code)                    -> Scalar(name, typeCode)
//	(name, nested_schema)                -> Nested(name, schema)
//	(name, prefix_code, nested_schema)    -> NestedWithPrefix(name, prefix, schema)
//
// These are the only forms CompileKV accepts; build them with the
// constructors below rather than the struct literal.
type KVField struct {
	name       string
	typeCode   string
	nested     *Schema
	nestedSet  bool
	prefixCode string
}

// Scalar describes a (name, type_code) entry. typeCode may carry the same
// '*'/'+'/'#' prefixes as a single format-string element (e.g. "*U",
// "+t"), but must not contain '[' or a numeric suffix, since each entry
// is exactly one field.
func Scalar(name, typeCode string) KVField {
	return KVField{name: name, typeCode: typeCode}
}

// Nested describes a (name, nested_schema) entry: shorthand for an
// unprefixed (optional, non-repeated) nested message.
func Nested(name string, schema *Schema) KVField {
	return KVField{name: name, nested: schema, nestedSet: true}
}

// NestedWithPrefix describes a (name, prefix_code, nested_schema) entry.
// prefixCode must be one of "[", "*[", "+[", "#[", "*+[", "+*[" (the last
// two are accepted synonyms for "#[", per spec §4.6).
func NestedWithPrefix(name, prefixCode string, schema *Schema) KVField {
	return KVField{name: name, nested: schema, nestedSet: true, prefixCode: prefixCode}
}

// CompileKV compiles a sequence of key/value entries into a Schema, per
// spec §4.6. Field names must be unique within the sequence; each entry
// consumes one tag slot, assigned sequentially starting at 1.
func CompileKV(entries []KVField) (*Schema, error) {
	s := newSchema(true)
	tag := int32(1)
	for _, e := range entries {
		f, err := compileKVEntry(e, tag)
		if err != nil {
			return nil, err
		}
		s.fields = append(s.fields, f)
		tag++
	}
	if err := s.finalize(); err != nil {
		return nil, err
	}
	return s, nil
}

func compileKVEntry(e KVField, tag int32) (Field, error) {
	if e.name == "" {
		return Field{}, badFormat(-1, "key/value field at tag %d has an empty name", tag)
	}
	if e.nestedSet {
		return compileKVNested(e, tag)
	}
	return compileKVScalar(e, tag)
}

func compileKVScalar(e KVField, tag int32) (Field, error) {
	p := &formatParser{src: e.typeCode}
	fields, err := p.parseElement()
	if err != nil {
		return Field{}, err
	}
	if len(fields) != 1 {
		return Field{}, badFormat(-1, "field %q: scalar type code %q must not use a numeric suffix", e.name, e.typeCode)
	}
	if p.pos != len(p.src) {
		return Field{}, badFormat(-1, "field %q: unexpected trailing characters in type code %q", e.name, e.typeCode)
	}
	if fields[0].Nested != nil {
		return Field{}, badFormat(-1, "field %q: Scalar type code %q must not contain '['; use Nested/NestedWithPrefix instead", e.name, e.typeCode)
	}
	f := fields[0]
	f.Tag = tag
	f.Name = e.name
	return f, nil
}

func compileKVNested(e KVField, tag int32) (Field, error) {
	if e.nested == nil || len(e.nested.fields) == 0 {
		return Field{}, badFormat(-1, "field %q: nested schema is nil or empty", e.name)
	}
	required, repeated, packed, err := parseNestedPrefixCode(e.name, e.prefixCode)
	if err != nil {
		return Field{}, err
	}
	return Field{
		Tag:      tag,
		Name:     e.name,
		Type:     typeNested,
		Required: required,
		Repeated: repeated,
		Packed:   packed,
		Nested:   e.nested,
	}, nil
}

// parseNestedPrefixCode accepts the literal tokens spec §4.6 allows for a
// nested entry's cardinality. "#[" / "*+[" / "+*[" are accepted as
// synonyms meaning "repeated"; a wire-packed nested message is not a
// meaningful concept (each instance is its own length-delimited record),
// so none of them set Packed — they just mark Repeated, same as "+[".
func parseNestedPrefixCode(name, code string) (required, repeated, packed bool, err error) {
	switch code {
	case "", "[":
		return false, false, false, nil
	case "*[":
		return true, false, false, nil
	case "+[":
		return false, true, false, nil
	case "#[", "*+[", "+*[":
		return false, true, false, nil
	default:
		return false, false, false, badFormat(-1, "field %q: invalid nested prefix code %q", name, code)
	}
}
