package record

import (
	"math"
	"reflect"
	"sort"

	"github.com/datakit-go/datastream/errors"
)

// Adapter converts raw provider records into host-native Records.
//
// Conversion dispatches on the raw value's concrete type over a finite
// recognized set. Unrecognized types degrade to Foreign passthrough
// values rather than failing; only types that can never represent data
// (functions, channels) are rejected with a conversion failure.
type Adapter struct {
	// FieldOrder, when set, fixes the field order of adapted records.
	// Fields absent from the raw record are skipped; raw fields not
	// listed are appended in sorted order. When unset, fields are
	// emitted in sorted order for schema stability.
	FieldOrder []string
}

// Adapt converts one raw record.
func (a *Adapter) Adapt(raw map[string]any) (*Record, error) {
	rec := New()
	for _, name := range a.orderedNames(raw) {
		v, err := AdaptValue(name, raw[name])
		if err != nil {
			return nil, err
		}
		rec.Set(name, v)
	}
	return rec, nil
}

// AdaptRaw builds a record whose fields carry the provider values
// untouched, as Foreign passthroughs. Used when native conversion is
// switched off.
func (a *Adapter) AdaptRaw(raw map[string]any) *Record {
	rec := New()
	for _, name := range a.orderedNames(raw) {
		rec.Set(name, Foreign(raw[name]))
	}
	return rec
}

func (a *Adapter) orderedNames(raw map[string]any) []string {
	names := make([]string, 0, len(raw))
	if len(a.FieldOrder) > 0 {
		seen := make(map[string]bool, len(a.FieldOrder))
		for _, name := range a.FieldOrder {
			if _, ok := raw[name]; ok {
				names = append(names, name)
				seen[name] = true
			}
		}
		rest := make([]string, 0, len(raw))
		for name := range raw {
			if !seen[name] {
				rest = append(rest, name)
			}
		}
		sort.Strings(rest)
		return append(names, rest...)
	}
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AdaptValue converts one raw field value. field is used for diagnostics.
func AdaptValue(field string, raw any) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return Null(), nil
	case Value:
		return v, nil
	case *Record:
		return Nested(v), nil
	case bool:
		return Bool(v), nil
	case int:
		return Int(int64(v)), nil
	case int8:
		return Int(int64(v)), nil
	case int16:
		return Int(int64(v)), nil
	case int32:
		return Int(int64(v)), nil
	case int64:
		return Int(v), nil
	case uint:
		if uint64(v) > math.MaxInt64 {
			return Float(float64(v)), nil
		}
		return Int(int64(v)), nil
	case uint8:
		return Int(int64(v)), nil
	case uint16:
		return Int(int64(v)), nil
	case uint32:
		return Int(int64(v)), nil
	case uint64:
		// Values past the signed range would wrap negative; degrade to
		// Float rather than corrupt the magnitude.
		if v > math.MaxInt64 {
			return Float(float64(v)), nil
		}
		return Int(int64(v)), nil
	case float32:
		return Float(float64(v)), nil
	case float64:
		return Float(v), nil
	case string:
		return String(v), nil
	case []byte:
		return Bytes(v), nil
	case []any:
		items := make([]Value, len(v))
		for i, item := range v {
			adapted, err := AdaptValue(field, item)
			if err != nil {
				return Value{}, err
			}
			items[i] = adapted
		}
		return List(items...), nil
	case map[string]any:
		a := Adapter{}
		nested, err := a.Adapt(v)
		if err != nil {
			return Value{}, err
		}
		return Nested(nested), nil
	default:
		if k := reflect.ValueOf(raw).Kind(); k == reflect.Func || k == reflect.Chan {
			return Value{}, errors.ConversionFailure(field, k.String())
		}
		return Foreign(raw), nil
	}
}
