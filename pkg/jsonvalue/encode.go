package jsonvalue

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Quote renders s as a JSON string literal without HTML escaping.
func Quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return strconv.Quote(s)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// MarshalJSON encodes v compactly, preserving member order and number
// literals. An Invalid value encodes as null.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	writeCompact(&buf, v)
	return buf.Bytes(), nil
}

// Compact returns the compact JSON encoding of v.
func (v Value) Compact() string {
	var buf bytes.Buffer
	writeCompact(&buf, v)
	return buf.String()
}

func writeCompact(buf *bytes.Buffer, v Value) {
	switch v.kind {
	case Object:
		buf.WriteByte('{')
		for i, m := range v.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(Quote(m.Key))
			buf.WriteByte(':')
			writeCompact(buf, m.Value)
		}
		buf.WriteByte('}')
	case Array:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeCompact(buf, item)
		}
		buf.WriteByte(']')
	case Invalid:
		buf.WriteString("null")
	default:
		buf.WriteString(v.Literal())
	}
}
