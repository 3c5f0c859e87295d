// Package jsontest provides rapid generators for JSON documents.
package jsontest

import (
	"pgregory.net/rapid"

	"github.com/oakwood-commons/jvx/pkg/jsonvalue"
)

var keyRunes = []rune{'a', 'b', 'c', 'x', '.', '[', ']', '#', ':', '"', ' ', 'é'}

// Key draws short object keys that include id and tokenizer metacharacters.
func Key() *rapid.Generator[string] {
	return rapid.StringOfN(rapid.SampledFrom(keyRunes), 0, 4, -1)
}

// Primitive draws a null, bool, number or string.
func Primitive() *rapid.Generator[jsonvalue.Value] {
	return rapid.Custom(func(t *rapid.T) jsonvalue.Value {
		switch rapid.IntRange(0, 3).Draw(t, "primitive") {
		case 0:
			return jsonvalue.NullValue()
		case 1:
			return jsonvalue.BoolValue(rapid.Bool().Draw(t, "bool"))
		case 2:
			return jsonvalue.IntValue(rapid.Int64Range(-1000, 1000).Draw(t, "int"))
		default:
			return jsonvalue.StringValue(Key().Draw(t, "string"))
		}
	})
}

// Value draws a document nested at most depth levels.
func Value(depth int) *rapid.Generator[jsonvalue.Value] {
	return rapid.Custom(func(t *rapid.T) jsonvalue.Value {
		return draw(t, depth)
	})
}

func draw(t *rapid.T, depth int) jsonvalue.Value {
	choice := 0
	if depth > 0 {
		choice = rapid.IntRange(0, 2).Draw(t, "shape")
	}
	switch choice {
	case 1:
		n := rapid.IntRange(0, 4).Draw(t, "members")
		members := make([]jsonvalue.Member, 0, n)
		for i := 0; i < n; i++ {
			members = append(members, jsonvalue.Member{Key: Key().Draw(t, "key"), Value: draw(t, depth-1)})
		}
		return jsonvalue.ObjectValue(members...)
	case 2:
		n := rapid.IntRange(0, 4).Draw(t, "items")
		items := make([]jsonvalue.Value, 0, n)
		for i := 0; i < n; i++ {
			items = append(items, draw(t, depth-1))
		}
		return jsonvalue.ArrayValue(items...)
	default:
		return Primitive().Draw(t, "leaf")
	}
}
