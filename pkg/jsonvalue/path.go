package jsonvalue

import (
	"strconv"
	"strings"
)

// Segment is one step of a path from the document root: an object key or an
// array index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// KeySegment returns an object key step.
func KeySegment(key string) Segment { return Segment{Key: key} }

// IndexSegment returns an array index step.
func IndexSegment(i int) Segment { return Segment{Index: i, IsIndex: true} }

// At walks segments from v and returns the value found there.
func (v Value) At(segments []Segment) (Value, bool) {
	cur := v
	for _, seg := range segments {
		var ok bool
		if seg.IsIndex {
			cur, ok = cur.Index(seg.Index)
		} else {
			cur, ok = cur.Get(seg.Key)
		}
		if !ok {
			return Value{}, false
		}
	}
	return cur, true
}

// FormatPath renders segments in CEL selector notation rooted at "_", e.g.
// _.items[0].name or _["bad-key"].
func FormatPath(segments []Segment) string {
	var b strings.Builder
	b.WriteString("_")
	for _, seg := range segments {
		switch {
		case seg.IsIndex:
			b.WriteString("[")
			b.WriteString(strconv.Itoa(seg.Index))
			b.WriteString("]")
		case isIdentifier(seg.Key):
			b.WriteString(".")
			b.WriteString(seg.Key)
		default:
			b.WriteString("[")
			b.WriteString(Quote(seg.Key))
			b.WriteString("]")
		}
	}
	return b.String()
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
