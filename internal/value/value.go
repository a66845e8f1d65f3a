// Package value implements the recursive, typed configuration tree of spec
// section 4.2: null/bool/int/float/string/array/map, with structural
// equality, deep copy, and a right-biased structural "extend" built on
// dario.cat/mergo. Arrays are ordered sequences; maps preserve
// first-insertion order for iteration, mirroring the teacher's
// internal/config decode style of pairing a map with an explicit order
// slice.
package value

import (
	"fmt"

	"dario.cat/mergo"
)

// Kind discriminates the Value sum type.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindSigned
	KindUnsigned
	KindReal
	KindString
	KindArray
	KindMap
)

// Value is the recursive configuration datum. The zero Value is Null.
type Value struct {
	kind   Kind
	b      bool
	i      int64
	u      uint64
	f      float64
	s      string
	arr    []Value
	m      *orderedMap
	frozen bool
}

type orderedMap struct {
	order   []string
	entries map[string]Value
}

func newOrderedMap() *orderedMap {
	return &orderedMap{entries: make(map[string]Value)}
}

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Signed returns a signed integer value.
func Signed(i int64) Value { return Value{kind: KindSigned, i: i} }

// Unsigned returns an unsigned integer value.
func Unsigned(u uint64) Value { return Value{kind: KindUnsigned, u: u} }

// Real returns a floating point value.
func Real(f float64) Value { return Value{kind: KindReal, f: f} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array returns an array value wrapping a copy of elems.
func Array(elems ...Value) Value {
	cp := make([]Value, len(elems))
	copy(cp, elems)
	return Value{kind: KindArray, arr: cp}
}

// Map returns an empty map value.
func Map() Value {
	return Value{kind: KindMap, m: newOrderedMap()}
}

// Kind reports the value's discriminant.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean payload and whether v is a bool.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsSigned returns the signed integer payload and whether v is signed.
func (v Value) AsSigned() (int64, bool) { return v.i, v.kind == KindSigned }

// AsUnsigned returns the unsigned integer payload and whether v is unsigned.
func (v Value) AsUnsigned() (uint64, bool) { return v.u, v.kind == KindUnsigned }

// AsReal returns the float payload and whether v is real.
func (v Value) AsReal() (float64, bool) { return v.f, v.kind == KindReal }

// AsString returns the string payload and whether v is a string.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// Len returns the number of elements/entries for array/map values, 0
// otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindMap:
		if v.m == nil {
			return 0
		}
		return len(v.m.order)
	default:
		return 0
	}
}

// At returns the i'th array element. Panics if v is not an array or i is
// out of range — a caller-side programming error, not a runtime condition.
func (v Value) At(i int) Value {
	if v.kind != KindArray {
		panic("value: At called on non-array value")
	}
	return v.arr[i]
}

// Get returns the map entry for key and whether it was present.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMap || v.m == nil {
		return Value{}, false
	}
	val, ok := v.m.entries[key]
	return val, ok
}

// Keys returns map keys in first-insertion order.
func (v Value) Keys() []string {
	if v.kind != KindMap || v.m == nil {
		return nil
	}
	out := make([]string, len(v.m.order))
	copy(out, v.m.order)
	return out
}

// Set inserts or replaces a map entry, preserving first-insertion order.
// Set returns an error if v is frozen or not a map.
func (v *Value) Set(key string, val Value) error {
	if v.kind != KindMap {
		return fmt.Errorf("value: Set called on non-map value")
	}
	if v.frozen {
		return errFrozen("Set")
	}
	if v.m == nil {
		v.m = newOrderedMap()
	}
	if _, exists := v.m.entries[key]; !exists {
		v.m.order = append(v.m.order, key)
	}
	v.m.entries[key] = val
	return nil
}

// Append adds an element to an array value. Returns an error if v is frozen
// or not an array.
func (v *Value) Append(val Value) error {
	if v.kind != KindArray {
		return fmt.Errorf("value: Append called on non-array value")
	}
	if v.frozen {
		return errFrozen("Append")
	}
	v.arr = append(v.arr, val)
	return nil
}

func errFrozen(op string) error {
	return fmt.Errorf("value: %s on frozen value", op)
}

// Freeze recursively marks v and every nested array element / map entry as
// frozen. Frozen values reject Set/Append.
func (v *Value) Freeze() {
	v.frozen = true
	switch v.kind {
	case KindArray:
		for i := range v.arr {
			v.arr[i].Freeze()
		}
	case KindMap:
		if v.m != nil {
			for _, k := range v.m.order {
				entry := v.m.entries[k]
				entry.Freeze()
				v.m.entries[k] = entry
			}
		}
	}
}

// Frozen reports whether v has been frozen.
func (v Value) Frozen() bool { return v.frozen }

// Clone returns a deep, unfrozen copy of v.
func (v Value) Clone() Value {
	out := v
	out.frozen = false
	switch v.kind {
	case KindArray:
		out.arr = make([]Value, len(v.arr))
		for i, e := range v.arr {
			out.arr[i] = e.Clone()
		}
	case KindMap:
		out.m = newOrderedMap()
		if v.m != nil {
			out.m.order = append([]string(nil), v.m.order...)
			for _, k := range v.m.order {
				out.m.entries[k] = v.m.entries[k].Clone()
			}
		}
	}
	return out
}

// Equal reports deep structural equality between v and other.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindSigned:
		return v.i == other.i
	case KindUnsigned:
		return v.u == other.u
	case KindReal:
		return v.f == other.f
	case KindString:
		return v.s == other.s
	case KindArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if v.Len() != other.Len() {
			return false
		}
		for _, k := range v.Keys() {
			a, _ := v.Get(k)
			b, ok := other.Get(k)
			if !ok || !a.Equal(b) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Extend performs a right-biased structural merge: scalars and arrays from
// other replace v's; maps are merged key by key, recursing into nested
// maps. Both operands are left untouched; the result is returned fresh.
// Map merging is delegated to dario.cat/mergo over a plain map[string]any
// projection so the merge semantics (right-bias, nested-map recursion) come
// from a maintained library rather than a hand-rolled recursive walk.
func Extend(base, overlay Value) (Value, error) {
	if base.kind != KindMap || overlay.kind != KindMap {
		// Non-map values: overlay wins outright unless it is Null, per
		// spec's right-bias rule applied to the whole value.
		if overlay.kind == KindNull {
			return base.Clone(), nil
		}
		return overlay.Clone(), nil
	}

	baseNative := toNative(base).(map[string]interface{})
	overlayNative := toNative(overlay).(map[string]interface{})

	if err := mergo.Merge(&baseNative, overlayNative, mergo.WithOverride); err != nil {
		return Value{}, fmt.Errorf("value: extend: %w", err)
	}
	return fromNative(baseNative), nil
}

// FromNative converts a decoded document (as produced by yaml.v3 or
// encoding/json unmarshaling into interface{}) into a Value tree. Unknown
// concrete types decode to Null rather than panicking, since a config
// loader should report a validation error, not crash on odd YAML.
func FromNative(in interface{}) Value { return fromNative(in) }

// ToNative converts v back into plain Go values (map[string]interface{},
// []interface{}, and scalars), the inverse of FromNative.
func ToNative(v Value) interface{} { return toNative(v) }

func toNative(v Value) interface{} {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindSigned:
		return v.i
	case KindUnsigned:
		return v.u
	case KindReal:
		return v.f
	case KindString:
		return v.s
	case KindArray:
		out := make([]interface{}, len(v.arr))
		for i, e := range v.arr {
			out[i] = toNative(e)
		}
		return out
	case KindMap:
		out := make(map[string]interface{})
		for _, k := range v.Keys() {
			entry, _ := v.Get(k)
			out[k] = toNative(entry)
		}
		return out
	default:
		return nil
	}
}

func fromNative(in interface{}) Value {
	switch t := in.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(t)
	case int64:
		return Signed(t)
	case int:
		return Signed(int64(t))
	case uint64:
		return Unsigned(t)
	case float64:
		return Real(t)
	case string:
		return String(t)
	case []interface{}:
		elems := make([]Value, len(t))
		for i, e := range t {
			elems[i] = fromNative(e)
		}
		return Array(elems...)
	case map[string]interface{}:
		out := Map()
		// Key order: t is a plain Go map, whose iteration order is
		// undefined, so the resulting Map's key order is arbitrary (this
		// includes Extend's result); callers that need a
		// stable order should Freeze and rely on Keys() sorting at their
		// own layer (e.g. internal/config sorts validation errors, not
		// Value iteration).
		for k, val := range t {
			_ = out.Set(k, fromNative(val))
		}
		return out
	default:
		return Null()
	}
}
