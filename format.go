package minipb

// CompileFormat compiles a compact type-code format string into a Schema,
// per spec §4.5:
//
//	format   := element*
//	element  := prefix* type suffix?
//	prefix   := '*' | '+' | '#' | '[' … ']'
//	type     := one letter from the semantic-type table
//	suffix   := DIGIT+          ; repeats this element count times
//
// '*' marks the next field required, '+' marks it repeated (unpacked),
// '#' marks it packed-repeated, and '[' opens a nested message closed by
// the matching ']' (arbitrary nesting depth, brackets must balance). A
// numeric suffix after a type letter (or after the closing ']' of a
// nested group) expands to that many consecutive fields of the same
// shape, each consuming its own sequential tag number.
func CompileFormat(format string) (*Schema, error) {
	p := &formatParser{src: format}
	fields, err := p.parseElements(false)
	if err != nil {
		return nil, err
	}
	s := newSchema(false)
	s.fields = fields
	if err := s.finalize(); err != nil {
		return nil, err
	}
	return s, nil
}

type formatParser struct {
	src    string
	pos    int
	nextTag int32
}

// parseElements consumes elements until the source is exhausted (nested
// == false) or a matching ']' is reached (nested == true, which is then
// also consumed).
func (p *formatParser) parseElements(nested bool) ([]Field, error) {
	var fields []Field
	sawAny := false
	for {
		if p.pos >= len(p.src) {
			if nested {
				return nil, badFormat(p.pos, "unterminated '[' nested group")
			}
			return fields, nil
		}
		if p.src[p.pos] == ']' {
			if nested {
				if !sawAny {
					return nil, badFormat(p.pos, "empty nested group '[]'")
				}
				p.pos++ // consume ']'
				return fields, nil
			}
			return nil, badFormat(p.pos, "unmatched ']'")
		}
		f, err := p.parseElement()
		if err != nil {
			return nil, err
		}
		fields = append(fields, f...)
		sawAny = true
	}
}

// parseElement parses one "prefix* type suffix?" production, expanding a
// numeric suffix into multiple Field entries.
func (p *formatParser) parseElement() ([]Field, error) {
	var required, repeated, packed bool
	var haveStar, havePlus, haveHash bool

	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '*':
			if haveStar {
				return nil, badFormat(p.pos, "duplicate '*' prefix")
			}
			haveStar, required = true, true
			p.pos++
		case '+':
			if havePlus {
				return nil, badFormat(p.pos, "duplicate '+' prefix")
			}
			havePlus, repeated = true, true
			p.pos++
		case '#':
			if haveHash {
				return nil, badFormat(p.pos, "duplicate '#' prefix")
			}
			haveHash, packed, repeated = true, true, true
			p.pos++
		default:
			goto prefixesDone
		}
	}
prefixesDone:
	if required && repeated {
		return nil, badFormat(p.pos, "a field cannot be both required ('*') and repeated ('+'/'#')")
	}

	if p.pos >= len(p.src) {
		return nil, badFormat(p.pos, "expected a type code or '[' after prefix")
	}

	if p.src[p.pos] == '[' {
		p.pos++ // consume '['
		// This field's own tag is assigned from the enclosing schema's
		// counter; the bracketed substring gets an independent counter
		// starting back at 1, since nested tags are a separate namespace.
		ownTag := p.nextTagValue()
		savedNextTag := p.nextTag
		p.nextTag = 1
		nestedFields, err := p.parseElements(true)
		if err != nil {
			return nil, err
		}
		p.nextTag = savedNextTag

		nested := newSchema(false)
		nested.fields = nestedFields
		if err := nested.finalize(); err != nil {
			return nil, err
		}
		count, err := p.parseSuffix()
		if err != nil {
			return nil, err
		}
		out := make([]Field, 0, count)
		for i := 0; i < count; i++ {
			tag := ownTag
			if i > 0 {
				tag = p.nextTagValue()
			}
			out = append(out, Field{Tag: tag, Type: typeNested, Required: required, Repeated: repeated, Packed: packed, Nested: nested})
		}
		return out, nil
	}

	t := SemanticType(p.src[p.pos])
	if t != TypePlaceholder && !isKnownScalarType(t.canonicalize()) {
		return nil, badFormat(p.pos, "unknown type code %q", p.src[p.pos])
	}
	p.pos++
	if packed && !isPackableScalar(t) {
		return nil, badFormat(p.pos, "type %q cannot be packed", byte(t))
	}

	count, err := p.parseSuffix()
	if err != nil {
		return nil, err
	}
	out := make([]Field, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, Field{Tag: p.nextTagValue(), Type: t, Required: required, Repeated: repeated, Packed: packed})
	}
	return out, nil
}

func isPackableScalar(t SemanticType) bool {
	switch t.canonicalize() {
	case TypeBool, TypeTCVarint, TypeUvarint, TypeZigZag,
		TypeSFixed32, TypeFixed32, TypeFloat32,
		TypeSFixed64, TypeFixed64, TypeFloat64:
		return true
	default:
		return false
	}
}

// parseSuffix reads an optional DIGIT+ numeric suffix, defaulting to 1.
func (p *formatParser) parseSuffix() (int, error) {
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	if p.pos == start {
		return 1, nil
	}
	digits := p.src[start:p.pos]
	n := 0
	for _, c := range digits {
		n = n*10 + int(c-'0')
	}
	if n <= 0 {
		return 0, badFormat(start, "suffix %q must be a positive integer", digits)
	}
	return n, nil
}

func (p *formatParser) nextTagValue() int32 {
	if p.nextTag == 0 {
		p.nextTag = 1
	}
	tag := p.nextTag
	p.nextTag++
	return tag
}
