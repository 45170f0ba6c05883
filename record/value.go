package record

import (
	"fmt"
	"reflect"
)

// Kind identifies the variant held by a Value. The set is deliberately
// finite: provider values that match no kind are carried as KindForeign
// rather than rejected, so unknown future types stay usable.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindBytes
	KindList
	KindRecord
	KindForeign
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindList:
		return "list"
	case KindRecord:
		return "record"
	case KindForeign:
		return "foreign"
	default:
		return fmt.Sprintf("kind(%d)", k)
	}
}

// Value is a tagged variant over the recognized field kinds.
type Value struct {
	kind    Kind
	boolVal bool
	intVal  int64
	fltVal  float64
	strVal  string
	binVal  []byte
	list    []Value
	nested  *Record
	foreign any
}

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, boolVal: b} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, intVal: i} }

// Float returns a floating-point value.
func Float(f float64) Value { return Value{kind: KindFloat, fltVal: f} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, strVal: s} }

// Bytes returns a binary value. The slice is not copied.
func Bytes(b []byte) Value { return Value{kind: KindBytes, binVal: b} }

// List returns a sequence value.
func List(items ...Value) Value { return Value{kind: KindList, list: items} }

// Nested returns a value holding a nested record.
func Nested(r *Record) Value { return Value{kind: KindRecord, nested: r} }

// Foreign returns an opaque passthrough value for provider types the
// adapter does not recognize.
func Foreign(v any) Value { return Value{kind: KindForeign, foreign: v} }

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean value. ok is false if the kind differs.
func (v Value) AsBool() (val bool, ok bool) { return v.boolVal, v.kind == KindBool }

// AsInt returns the integer value. ok is false if the kind differs.
func (v Value) AsInt() (val int64, ok bool) { return v.intVal, v.kind == KindInt }

// AsFloat returns the float value. Integer values widen. ok is false otherwise.
func (v Value) AsFloat() (val float64, ok bool) {
	switch v.kind {
	case KindFloat:
		return v.fltVal, true
	case KindInt:
		return float64(v.intVal), true
	default:
		return 0, false
	}
}

// AsString returns the string value. ok is false if the kind differs.
func (v Value) AsString() (val string, ok bool) { return v.strVal, v.kind == KindString }

// AsBytes returns the binary value. ok is false if the kind differs.
func (v Value) AsBytes() (val []byte, ok bool) { return v.binVal, v.kind == KindBytes }

// AsList returns the sequence items. ok is false if the kind differs.
func (v Value) AsList() (items []Value, ok bool) { return v.list, v.kind == KindList }

// AsRecord returns the nested record. ok is false if the kind differs.
func (v Value) AsRecord() (r *Record, ok bool) { return v.nested, v.kind == KindRecord }

// AsForeign returns the opaque foreign value. ok is false if the kind differs.
func (v Value) AsForeign() (val any, ok bool) { return v.foreign, v.kind == KindForeign }

// Native returns the value as a plain Go value: bool, int64, float64,
// string, []byte, []any, map[string]any, the foreign value, or nil.
func (v Value) Native() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.boolVal
	case KindInt:
		return v.intVal
	case KindFloat:
		return v.fltVal
	case KindString:
		return v.strVal
	case KindBytes:
		return v.binVal
	case KindList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.Native()
		}
		return out
	case KindRecord:
		return v.nested.Native()
	default:
		return v.foreign
	}
}

// Equal reports deep equality of two values. Foreign values compare by
// interface equality and may report false for incomparable types.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.boolVal == o.boolVal
	case KindInt:
		return v.intVal == o.intVal
	case KindFloat:
		return v.fltVal == o.fltVal
	case KindString:
		return v.strVal == o.strVal
	case KindBytes:
		if len(v.binVal) != len(o.binVal) {
			return false
		}
		for i := range v.binVal {
			if v.binVal[i] != o.binVal[i] {
				return false
			}
		}
		return true
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case KindRecord:
		return v.nested.Equal(o.nested)
	default:
		return foreignEqual(v.foreign, o.foreign)
	}
}

// foreignEqual compares opaque passthrough values by interface
// equality. Incomparable dynamic types (slices, maps, funcs) report
// false instead of panicking.
func foreignEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

// GoString implements fmt.GoStringer for debugging output.
func (v Value) GoString() string {
	return fmt.Sprintf("%s(%v)", v.kind, v.Native())
}
