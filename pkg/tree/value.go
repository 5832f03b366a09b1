// Package tree holds the JSON value model and the annotate/filter pipeline
// that turns a value plus an access log into the tree that gets displayed.
package tree

import (
	"fmt"
	"strconv"
)

// Kind identifies the shape of a Value or Node.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// IsContainer reports whether the kind holds child values.
func (k Kind) IsContainer() bool {
	return k == Array || k == Object
}

// Field is one key/value pair of an object, in document order.
type Field struct {
	Key   string
	Value Value
}

// Value is a JSON value. Objects keep their keys in insertion order.
// The zero Value is null.
type Value struct {
	Kind   Kind
	Scalar any // bool, int64, float64 or string for scalar kinds
	Items  []Value
	Fields []Field
}

// NullValue returns the null value.
func NullValue() Value { return Value{} }

// BoolValue wraps b.
func BoolValue(b bool) Value { return Value{Kind: Bool, Scalar: b} }

// StringValue wraps s.
func StringValue(s string) Value { return Value{Kind: String, Scalar: s} }

// IntValue wraps an integral number.
func IntValue(n int64) Value { return Value{Kind: Number, Scalar: n} }

// FloatValue wraps a floating point number.
func FloatValue(f float64) Value { return Value{Kind: Number, Scalar: f} }

// ArrayValue builds an array from items.
func ArrayValue(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{Kind: Array, Items: items}
}

// ObjectValue builds an object from fields, keeping their order.
func ObjectValue(fields ...Field) Value {
	if fields == nil {
		fields = []Field{}
	}
	return Value{Kind: Object, Fields: fields}
}

// F is shorthand for a Field.
func F(key string, v Value) Field { return Field{Key: key, Value: v} }

// FromInterface converts decoded Go data (maps, slices, scalars) into a
// Value. Map keys have no order in Go, so they are sorted.
func FromInterface(data any) (Value, error) {
	switch v := data.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return BoolValue(v), nil
	case string:
		return StringValue(v), nil
	case int:
		return IntValue(int64(v)), nil
	case int32:
		return IntValue(int64(v)), nil
	case int64:
		return IntValue(v), nil
	case uint64:
		return FloatValue(float64(v)), nil
	case float32:
		return FloatValue(float64(v)), nil
	case float64:
		return FloatValue(v), nil
	case []any:
		items := make([]Value, 0, len(v))
		for i, item := range v {
			iv, err := FromInterface(item)
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			items = append(items, iv)
		}
		return ArrayValue(items...), nil
	case map[string]any:
		keys := sortedKeys(v)
		fields := make([]Field, 0, len(keys))
		for _, k := range keys {
			fv, err := FromInterface(v[k])
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", k, err)
			}
			fields = append(fields, F(k, fv))
		}
		return ObjectValue(fields...), nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", data)
	}
}

// Interface converts the value back to plain Go data. Object order is lost.
func (v Value) Interface() any {
	switch v.Kind {
	case Array:
		out := make([]any, len(v.Items))
		for i, item := range v.Items {
			out[i] = item.Interface()
		}
		return out
	case Object:
		out := make(map[string]any, len(v.Fields))
		for _, f := range v.Fields {
			out[f.Key] = f.Value.Interface()
		}
		return out
	case Null:
		return nil
	default:
		return v.Scalar
	}
}

// Len returns the number of direct children of a container, or 0.
func (v Value) Len() int {
	switch v.Kind {
	case Array:
		return len(v.Items)
	case Object:
		return len(v.Fields)
	default:
		return 0
	}
}

// Lookup returns the value for key in an object, or the element at a
// stringified index in an array.
func (v Value) Lookup(key string) (Value, bool) {
	switch v.Kind {
	case Object:
		for _, f := range v.Fields {
			if f.Key == key {
				return f.Value, true
			}
		}
	case Array:
		i, err := strconv.Atoi(key)
		if err == nil && i >= 0 && i < len(v.Items) {
			return v.Items[i], true
		}
	}
	return Value{}, false
}
