package jsonvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectValueDuplicateKeysLastWins(t *testing.T) {
	v := ObjectValue(
		Member{Key: "a", Value: IntValue(1)},
		Member{Key: "b", Value: IntValue(2)},
		Member{Key: "a", Value: IntValue(3)},
	)
	require.Equal(t, 2, v.Len())
	assert.Equal(t, "a", v.Members()[0].Key)
	assert.Equal(t, "3", v.Members()[0].Value.NumberLiteral())
	assert.Equal(t, "b", v.Members()[1].Key)
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"null", NullValue(), "null"},
		{"true", BoolValue(true), "true"},
		{"false", BoolValue(false), "false"},
		{"number literal kept", NumberValue("1.50"), "1.50"},
		{"string quoted", StringValue(`say "hi"`), `"say \"hi\""`},
		{"no html escaping", StringValue("<a&b>"), `"<a&b>"`},
		{"object", ObjectValue(), "{...}"},
		{"array", ArrayValue(), "[...]"},
		{"invalid", Value{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.Literal())
		})
	}
}

func TestFloatValue(t *testing.T) {
	assert.Equal(t, "42", FloatValue(42).NumberLiteral())
	assert.Equal(t, "1.5", FloatValue(1.5).NumberLiteral())
}

func TestCompactPreservesOrder(t *testing.T) {
	v := ObjectValue(
		Member{Key: "z", Value: ArrayValue(IntValue(1), NullValue())},
		Member{Key: "a", Value: StringValue("x")},
	)
	assert.Equal(t, `{"z":[1,null],"a":"x"}`, v.Compact())

	data, err := v.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, v.Compact(), string(data))
}

func TestInterfaceRoundTrip(t *testing.T) {
	v := ObjectValue(
		Member{Key: "b", Value: IntValue(2)},
		Member{Key: "a", Value: ArrayValue(StringValue("x"), BoolValue(true), NumberValue("2.5"))},
	)
	native := v.Interface()
	m, ok := native.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, int64(2), m["b"])
	assert.Equal(t, []interface{}{"x", true, 2.5}, m["a"])

	back := FromInterface(native)
	// Keys come back sorted.
	require.Equal(t, 2, back.Len())
	assert.Equal(t, "a", back.Members()[0].Key)
	assert.Equal(t, "b", back.Members()[1].Key)
}

func TestFromInterfaceStruct(t *testing.T) {
	type item struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	v := FromInterface(item{Name: "n", Count: 3})
	require.Equal(t, Object, v.Kind())
	got, ok := v.Get("count")
	require.True(t, ok)
	assert.Equal(t, "3", got.NumberLiteral())
}

func TestAtAndFormatPath(t *testing.T) {
	v := ObjectValue(Member{Key: "items", Value: ArrayValue(
		ObjectValue(Member{Key: "bad-key", Value: StringValue("ok")}),
	)})
	path := []Segment{KeySegment("items"), IndexSegment(0), KeySegment("bad-key")}
	got, ok := v.At(path)
	require.True(t, ok)
	assert.Equal(t, "ok", got.Str())
	assert.Equal(t, `_.items[0]["bad-key"]`, FormatPath(path))

	_, ok = v.At([]Segment{KeySegment("missing")})
	assert.False(t, ok)
	assert.Equal(t, "_", FormatPath(nil))
}

func TestEqual(t *testing.T) {
	a := ObjectValue(Member{Key: "a", Value: IntValue(1)}, Member{Key: "b", Value: IntValue(2)})
	b := ObjectValue(Member{Key: "b", Value: IntValue(2)}, Member{Key: "a", Value: IntValue(1)})
	assert.True(t, Equal(a, a))
	assert.False(t, Equal(a, b), "member order is significant")
	assert.False(t, Equal(NumberValue("1.0"), NumberValue("1")))
}
