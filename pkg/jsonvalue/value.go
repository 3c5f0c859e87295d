// Package jsonvalue provides an ordered, tagged representation of JSON values.
//
// Object members keep their insertion order and numbers keep the literal text
// they were parsed from, so a document can be rendered back byte-for-byte in the
// order the author wrote it.
package jsonvalue

import (
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	// Invalid is the zero Kind and stands for "no value at all".
	Invalid Kind = iota
	Null
	String
	Number
	Bool
	Object
	Array
)

var kindNames = [...]string{"invalid", "null", "string", "number", "bool", "object", "array"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Member is a single key/value pair of an object.
type Member struct {
	Key   string
	Value Value
}

// Value is an immutable JSON value. The zero Value is Invalid.
type Value struct {
	kind    Kind
	text    string // string contents or number literal
	boolean bool
	members []Member
	items   []Value
}

// NullValue returns a JSON null.
func NullValue() Value { return Value{kind: Null} }

// StringValue returns a JSON string.
func StringValue(s string) Value { return Value{kind: String, text: s} }

// BoolValue returns a JSON boolean.
func BoolValue(b bool) Value { return Value{kind: Bool, boolean: b} }

// NumberValue returns a JSON number holding the literal exactly as given.
// An empty literal is treated as 0.
func NumberValue(literal string) Value {
	literal = strings.TrimSpace(literal)
	if literal == "" {
		literal = "0"
	}
	return Value{kind: Number, text: literal}
}

// IntValue returns a JSON number for an integer.
func IntValue(i int64) Value { return Value{kind: Number, text: strconv.FormatInt(i, 10)} }

// FloatValue returns a JSON number for a float, dropping a trailing ".0" for
// integral values.
func FloatValue(f float64) Value {
	if f == float64(int64(f)) && f < 1e15 && f > -1e15 {
		return IntValue(int64(f))
	}
	return Value{kind: Number, text: strconv.FormatFloat(f, 'g', -1, 64)}
}

// ObjectValue returns a JSON object. Duplicate keys keep the position of
// their first occurrence and the value of their last.
func ObjectValue(members ...Member) Value {
	out := make([]Member, 0, len(members))
	var seen map[string]int
	for _, m := range members {
		if seen == nil {
			seen = make(map[string]int, len(members))
		}
		if i, ok := seen[m.Key]; ok {
			out[i].Value = m.Value
			continue
		}
		seen[m.Key] = len(out)
		out = append(out, m)
	}
	return Value{kind: Object, members: out}
}

// ArrayValue returns a JSON array.
func ArrayValue(items ...Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: Array, items: cp}
}

// Kind reports the variant of v.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether v holds any value (including null).
func (v Value) IsValid() bool { return v.kind != Invalid }

// IsContainer reports whether v is an object or an array.
func (v Value) IsContainer() bool { return v.kind == Object || v.kind == Array }

// IsEmptyish reports whether v carries no data: invalid or null.
func (v Value) IsEmptyish() bool { return v.kind == Invalid || v.kind == Null }

// Len returns the number of members or items for containers and 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case Object:
		return len(v.members)
	case Array:
		return len(v.items)
	default:
		return 0
	}
}

// Members returns the object's members in insertion order. The slice must not
// be modified.
func (v Value) Members() []Member {
	if v.kind != Object {
		return nil
	}
	return v.members
}

// Items returns the array's items. The slice must not be modified.
func (v Value) Items() []Value {
	if v.kind != Array {
		return nil
	}
	return v.items
}

// Get returns the member value for key.
func (v Value) Get(key string) (Value, bool) {
	for _, m := range v.Members() {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Index returns the i-th array item.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != Array || i < 0 || i >= len(v.items) {
		return Value{}, false
	}
	return v.items[i], true
}

// Str returns the contents of a string value.
func (v Value) Str() string {
	if v.kind != String {
		return ""
	}
	return v.text
}

// NumberLiteral returns the literal text of a number value.
func (v Value) NumberLiteral() string {
	if v.kind != Number {
		return ""
	}
	return v.text
}

// Bool returns the boolean held by v.
func (v Value) Bool() bool { return v.kind == Bool && v.boolean }

// Literal renders a primitive as JSON text. Containers render as {...} or [...].
func (v Value) Literal() string {
	switch v.kind {
	case Null:
		return "null"
	case String:
		return Quote(v.text)
	case Number:
		return v.text
	case Bool:
		if v.boolean {
			return "true"
		}
		return "false"
	case Object:
		return "{...}"
	case Array:
		return "[...]"
	default:
		return ""
	}
}

// Equal reports whether a and b are structurally identical, including member
// order and number literals.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case String, Number:
		return a.text == b.text
	case Bool:
		return a.boolean == b.boolean
	case Object:
		if len(a.members) != len(b.members) {
			return false
		}
		for i := range a.members {
			if a.members[i].Key != b.members[i].Key || !Equal(a.members[i].Value, b.members[i].Value) {
				return false
			}
		}
		return true
	case Array:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
