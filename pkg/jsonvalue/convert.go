package jsonvalue

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/goccy/go-json"
)

// Interface converts v into plain Go values: map[string]interface{},
// []interface{}, string, bool, int64/float64 and nil.
func (v Value) Interface() interface{} {
	switch v.kind {
	case String:
		return v.text
	case Bool:
		return v.boolean
	case Number:
		if i, err := strconv.ParseInt(v.text, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(v.text, 64); err == nil {
			return f
		}
		return v.text
	case Object:
		m := make(map[string]interface{}, len(v.members))
		for _, member := range v.members {
			m[member.Key] = member.Value.Interface()
		}
		return m
	case Array:
		out := make([]interface{}, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}
		return out
	default:
		return nil
	}
}

// FromInterface converts plain Go values (as produced by decoders or
// expression evaluators) into a Value. Map keys are sorted because Go maps
// carry no order.
func FromInterface(x interface{}) Value {
	switch t := x.(type) {
	case nil:
		return NullValue()
	case Value:
		return t
	case bool:
		return BoolValue(t)
	case string:
		return StringValue(t)
	case []byte:
		return StringValue(string(t))
	case json.Number:
		return NumberValue(t.String())
	case float64:
		return FloatValue(t)
	case float32:
		return FloatValue(float64(t))
	case int:
		return IntValue(int64(t))
	case int8:
		return IntValue(int64(t))
	case int16:
		return IntValue(int64(t))
	case int32:
		return IntValue(int64(t))
	case int64:
		return IntValue(t)
	case uint:
		return NumberValue(strconv.FormatUint(uint64(t), 10))
	case uint8:
		return NumberValue(strconv.FormatUint(uint64(t), 10))
	case uint16:
		return NumberValue(strconv.FormatUint(uint64(t), 10))
	case uint32:
		return NumberValue(strconv.FormatUint(uint64(t), 10))
	case uint64:
		return NumberValue(strconv.FormatUint(t, 10))
	case []interface{}:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = FromInterface(item)
		}
		return Value{kind: Array, items: items}
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		members := make([]Member, len(keys))
		for i, k := range keys {
			members[i] = Member{Key: k, Value: FromInterface(t[k])}
		}
		return Value{kind: Object, members: members}
	case map[interface{}]interface{}:
		conv := make(map[string]interface{}, len(t))
		for k, val := range t {
			conv[fmt.Sprint(k)] = val
		}
		return FromInterface(conv)
	}
	return fromReflect(reflect.ValueOf(x))
}

func fromReflect(rv reflect.Value) Value {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return NullValue()
		}
		return FromInterface(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		items := make([]Value, rv.Len())
		for i := range items {
			items[i] = FromInterface(rv.Index(i).Interface())
		}
		return Value{kind: Array, items: items}
	case reflect.Map:
		conv := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			conv[fmt.Sprint(iter.Key().Interface())] = iter.Value().Interface()
		}
		return FromInterface(conv)
	case reflect.Struct:
		// Round-trip through JSON so struct tags are honored.
		data, err := json.Marshal(rv.Interface())
		if err != nil {
			return StringValue(fmt.Sprint(rv.Interface()))
		}
		var generic interface{}
		if err := json.Unmarshal(data, &generic); err != nil {
			return StringValue(string(data))
		}
		return FromInterface(generic)
	case reflect.Invalid:
		return NullValue()
	default:
		return StringValue(fmt.Sprint(rv.Interface()))
	}
}
