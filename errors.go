package minipb

import "fmt"

// FormatError is returned when a schema (either a format string or a
// key/value entry sequence) fails to compile. It corresponds to the
// "BadFormatString" case of the error taxonomy: unknown type code,
// unmatched bracket, duplicate prefix, empty nested group, empty or
// invalid numeric suffix, or a duplicate field name.
type FormatError struct {
	Msg string
	Pos int // byte offset into the source format string, -1 if not applicable
}

func (e *FormatError) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("minipb: bad format string at offset %d: %s", e.Pos, e.Msg)
	}
	return fmt.Sprintf("minipb: bad schema: %s", e.Msg)
}

func badFormat(pos int, format string, args ...interface{}) *FormatError {
	return &FormatError{Msg: fmt.Sprintf(format, args...), Pos: pos}
}

// CodecErrorKind distinguishes the runtime failure sub-cases that can
// occur while encoding or decoding against a compiled Schema.
type CodecErrorKind int

const (
	// WireTypeMismatch means a decoded record's wire type does not match
	// what the schema expects for that field's tag.
	WireTypeMismatch CodecErrorKind = iota
	// UnknownField means a decoded tag has no corresponding field in the schema.
	UnknownField
	// RequiredFieldMissing means a required field was absent on encode, or
	// never observed on decode.
	RequiredFieldMissing
	// BadString means a length-delimited "U" field's bytes are not valid UTF-8.
	BadString
	// ValueOutOfRange means a supplied or decoded value does not fit the
	// field's declared semantic type (e.g. an unsigned varint overflow, or
	// a float given for a strictly-typed integer field).
	ValueOutOfRange
	// VarintOverflow means a varint continued for more than 10 bytes
	// without terminating.
	VarintOverflow
)

func (k CodecErrorKind) String() string {
	switch k {
	case WireTypeMismatch:
		return "WireTypeMismatch"
	case UnknownField:
		return "UnknownField"
	case RequiredFieldMissing:
		return "RequiredFieldMissing"
	case BadString:
		return "BadString"
	case ValueOutOfRange:
		return "ValueOutOfRange"
	case VarintOverflow:
		return "VarintOverflow"
	default:
		return "CodecError"
	}
}

// CodecError is the umbrella runtime error for encode/decode failures.
// Use errors.As to recover it and inspect Kind.
type CodecError struct {
	Kind   CodecErrorKind
	Detail string
}

func (e *CodecError) Error() string {
	if e.Detail == "" {
		return "minipb: " + e.Kind.String()
	}
	return fmt.Sprintf("minipb: %s: %s", e.Kind, e.Detail)
}

func codecErr(kind CodecErrorKind, format string, args ...interface{}) *CodecError {
	return &CodecError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// ErrVarintOverflow is returned when a varint does not terminate within
// 10 bytes. It is always a *CodecError with Kind == VarintOverflow; it is
// provided as a sentinel for callers that only care about this one case.
var ErrVarintOverflow = &CodecError{Kind: VarintOverflow, Detail: "varint exceeds 10 bytes"}

// EndOfMessageError is returned when the input ended where more bytes were
// expected. Partial reports whether any bytes belonging to the incomplete
// record were consumed past the last fully-decoded record boundary.
type EndOfMessageError struct {
	Partial bool
}

func (e *EndOfMessageError) Error() string {
	if e.Partial {
		return "minipb: unexpected end of message (partial record consumed)"
	}
	return "minipb: unexpected end of message"
}

func endOfMessage(partial bool) *EndOfMessageError {
	return &EndOfMessageError{Partial: partial}
}
