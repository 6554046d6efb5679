package secure

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"unicode/utf8"
)

const redacted = "[REDACTED]"

// Bytes is a JSON string decoded into a mutable buffer so it can be wiped.
type Bytes []byte

// UnmarshalJSON copies the string contents into a fresh buffer. A previous
// value is wiped first, so a key repeated in a document leaves nothing behind.
// null leaves b nil; an empty string leaves it empty but non-nil.
func (b *Bytes) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		b.Wipe()
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return &json.UnmarshalTypeError{Value: jsonKind(data), Type: reflect.TypeOf(Bytes(nil))}
	}

	raw := data[1 : len(data)-1]
	if bytes.IndexByte(raw, '\\') < 0 {
		buf := make([]byte, len(raw))
		copy(buf, raw)
		b.replace(buf)
		return nil
	}

	// Escaped content goes through the standard decoder. The intermediate
	// string cannot be wiped.
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	b.replace(append(make([]byte, 0, len(s)), s...))
	return nil
}

func (b *Bytes) replace(buf []byte) {
	Wipe(*b)
	*b = buf
}

// MarshalJSON never emits the value.
func (b Bytes) MarshalJSON() ([]byte, error) {
	return []byte(`"` + redacted + `"`), nil
}

// String implements fmt.Stringer without exposing the value.
func (b Bytes) String() string {
	return redacted
}

// GoString implements fmt.GoStringer for %#v.
func (b Bytes) GoString() string {
	return redacted
}

// Mask returns a placeholder with the same number of characters as the value.
func (b Bytes) Mask() string {
	return strings.Repeat("*", utf8.RuneCount(b))
}

// Wipe zeroes the buffer and releases it. Safe on a nil receiver.
func (b *Bytes) Wipe() {
	if b == nil {
		return
	}
	Wipe(*b)
	*b = nil
}

func jsonKind(data []byte) string {
	if len(data) == 0 {
		return "empty input"
	}
	switch data[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case 't', 'f':
		return "bool"
	case '"':
		return "string"
	default:
		return "number"
	}
}
