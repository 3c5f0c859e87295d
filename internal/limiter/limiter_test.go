package limiter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/jvx/pkg/jsonvalue"
)

func TestValidate(t *testing.T) {
	valid := []Config{{}, {Limit: 10}, {Offset: 5}, {Limit: 10, Offset: 5}, {Tail: 3}, {Tail: 3, Offset: 9}}
	for _, c := range valid {
		assert.NoError(t, c.Validate(), "%+v", c)
	}

	assert.ErrorIs(t, Config{Limit: 1, Tail: 1}.Validate(), ErrConflict)
	for _, c := range []Config{{Limit: -1}, {Offset: -2}, {Tail: -3}} {
		err := c.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "non-negative")
	}
	assert.EqualError(t, Config{Offset: -2}.Validate(), "--offset must be non-negative, got -2")
}

func TestIsActive(t *testing.T) {
	assert.False(t, Config{}.IsActive())
	assert.True(t, Config{Limit: 1}.IsActive())
	assert.True(t, Config{Offset: 1}.IsActive())
	assert.True(t, Config{Tail: 1}.IsActive())
}

func TestRange(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		n      int
		lo, hi int
	}{
		{"limit", Config{Limit: 3}, 10, 0, 3},
		{"offset", Config{Offset: 7}, 10, 7, 10},
		{"offset and limit", Config{Offset: 2, Limit: 3}, 10, 2, 5},
		{"limit past end", Config{Offset: 8, Limit: 5}, 10, 8, 10},
		{"offset past end", Config{Offset: 20}, 10, 10, 10},
		{"tail", Config{Tail: 4}, 10, 6, 10},
		{"tail ignores offset", Config{Tail: 2, Offset: 5}, 10, 8, 10},
		{"tail longer than input", Config{Tail: 50}, 10, 0, 10},
		{"empty input", Config{Limit: 2}, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := tt.cfg.Range(tt.n)
			assert.Equal(t, tt.lo, lo, "lo")
			assert.Equal(t, tt.hi, hi, "hi")
		})
	}
}

func numbers(n int) jsonvalue.Value {
	items := make([]jsonvalue.Value, n)
	for i := range items {
		items[i] = jsonvalue.IntValue(int64(i + 1))
	}
	return jsonvalue.ArrayValue(items...)
}

func TestApplyArray(t *testing.T) {
	arr := numbers(6)
	assert.Equal(t, "[2,3]", Config{Offset: 1, Limit: 2}.Apply(arr).Compact())
	assert.Equal(t, "[5,6]", Config{Tail: 2}.Apply(arr).Compact())
	assert.Equal(t, "[]", Config{Offset: 9}.Apply(arr).Compact())
	assert.Equal(t, arr.Compact(), Config{}.Apply(arr).Compact())
	assert.Equal(t, 6, arr.Len(), "input is not modified")
}

func TestApplyObjectKeepsMemberOrder(t *testing.T) {
	obj := jsonvalue.ObjectValue(
		jsonvalue.Member{Key: "z", Value: jsonvalue.IntValue(1)},
		jsonvalue.Member{Key: "a", Value: jsonvalue.IntValue(2)},
		jsonvalue.Member{Key: "m", Value: jsonvalue.IntValue(3)},
	)
	assert.Equal(t, `{"z":1,"a":2}`, Config{Limit: 2}.Apply(obj).Compact())
	assert.Equal(t, `{"m":3}`, Config{Tail: 1}.Apply(obj).Compact())
}

func TestApplyScalarPassesThrough(t *testing.T) {
	for _, v := range []jsonvalue.Value{jsonvalue.StringValue("x"), jsonvalue.NullValue(), {}} {
		got := Config{Limit: 1}.Apply(v)
		assert.True(t, jsonvalue.Equal(got, v), v.Kind().String())
	}
}
