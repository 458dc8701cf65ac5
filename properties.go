/*
Copyright © 2026 the h5features authors.
This file is part of h5features.

h5features is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

h5features is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with h5features.  If not, see <http://www.gnu.org/licenses/>.
*/

package h5features

import "sort"

// ValueKind discriminates the dynamic type held by a Value. The
// vector-of-properties kind is distinct from the scalar vector kinds: the
// encoder (see propcodec.go) dispatches on Kind, never on runtime element
// inspection.
type ValueKind int

// The value kinds a property node can hold.
const (
	KindBool ValueKind = iota
	KindInt32
	KindFloat64
	KindString
	KindInt32Vector
	KindFloat64Vector
	KindStringVector
	KindProperties
	KindPropertiesVector
)

// Value is a tagged variant: exactly the field matching Kind is meaningful.
// The Properties case is boxed in a pointer so that Properties can recur
// through Value without an infinite-size struct.
type Value struct {
	kind ValueKind

	boolVal   bool
	int32Val  int32
	floatVal  float64
	stringVal string

	int32Vec  []int32
	floatVec  []float64
	stringVec []string

	propsVal  *Properties
	propsVec  []Properties
}

// Kind returns the dynamic kind of v.
func (v Value) Kind() ValueKind { return v.kind }

// BoolValue builds a Value holding a bool.
func BoolValue(b bool) Value { return Value{kind: KindBool, boolVal: b} }

// Int32Value builds a Value holding an int32.
func Int32Value(i int32) Value { return Value{kind: KindInt32, int32Val: i} }

// Float64Value builds a Value holding a float64.
func Float64Value(f float64) Value { return Value{kind: KindFloat64, floatVal: f} }

// StringValue builds a Value holding a string.
func StringValue(s string) Value { return Value{kind: KindString, stringVal: s} }

// Int32VectorValue builds a Value holding a homogeneous []int32.
func Int32VectorValue(v []int32) Value {
	return Value{kind: KindInt32Vector, int32Vec: append([]int32(nil), v...)}
}

// Float64VectorValue builds a Value holding a homogeneous []float64.
func Float64VectorValue(v []float64) Value {
	return Value{kind: KindFloat64Vector, floatVec: append([]float64(nil), v...)}
}

// StringVectorValue builds a Value holding a homogeneous []string.
func StringVectorValue(v []string) Value {
	return Value{kind: KindStringVector, stringVec: append([]string(nil), v...)}
}

// PropertiesValue builds a Value holding a nested Properties map.
func PropertiesValue(p Properties) Value {
	cp := p.clone()
	return Value{kind: KindProperties, propsVal: &cp}
}

// PropertiesVectorValue builds a Value holding a heterogeneous list of
// Properties maps. This is a distinct Kind from the scalar vector kinds so
// the property codec never has to guess from element types.
func PropertiesVectorValue(v []Properties) Value {
	out := make([]Properties, len(v))
	for i, p := range v {
		out[i] = p.clone()
	}
	return Value{kind: KindPropertiesVector, propsVec: out}
}

// AsBool returns the held bool and whether Kind is KindBool.
func (v Value) AsBool() (bool, bool) { return v.boolVal, v.kind == KindBool }

// AsInt32 returns the held int32 and whether Kind is KindInt32.
func (v Value) AsInt32() (int32, bool) { return v.int32Val, v.kind == KindInt32 }

// AsFloat64 returns the held float64 and whether Kind is KindFloat64.
func (v Value) AsFloat64() (float64, bool) { return v.floatVal, v.kind == KindFloat64 }

// AsString returns the held string and whether Kind is KindString.
func (v Value) AsString() (string, bool) { return v.stringVal, v.kind == KindString }

// AsInt32Vector returns the held []int32 and whether Kind is KindInt32Vector.
func (v Value) AsInt32Vector() ([]int32, bool) { return v.int32Vec, v.kind == KindInt32Vector }

// AsFloat64Vector returns the held []float64 and whether Kind is KindFloat64Vector.
func (v Value) AsFloat64Vector() ([]float64, bool) { return v.floatVec, v.kind == KindFloat64Vector }

// AsStringVector returns the held []string and whether Kind is KindStringVector.
func (v Value) AsStringVector() ([]string, bool) { return v.stringVec, v.kind == KindStringVector }

// AsProperties returns the held nested Properties and whether Kind is
// KindProperties.
func (v Value) AsProperties() (Properties, bool) {
	if v.kind != KindProperties || v.propsVal == nil {
		return Properties{}, false
	}
	return *v.propsVal, true
}

// AsPropertiesVector returns the held []Properties and whether Kind is
// KindPropertiesVector.
func (v Value) AsPropertiesVector() ([]Properties, bool) {
	return v.propsVec, v.kind == KindPropertiesVector
}

// Equal reports whether v and other hold the same kind and value,
// recursively for nested properties.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.boolVal == other.boolVal
	case KindInt32:
		return v.int32Val == other.int32Val
	case KindFloat64:
		return v.floatVal == other.floatVal
	case KindString:
		return v.stringVal == other.stringVal
	case KindInt32Vector:
		return equalInt32s(v.int32Vec, other.int32Vec)
	case KindFloat64Vector:
		return equalFloat64s(v.floatVec, other.floatVec)
	case KindStringVector:
		return equalStrings(v.stringVec, other.stringVec)
	case KindProperties:
		a, _ := v.AsProperties()
		b, _ := other.AsProperties()
		return a.Equal(b)
	case KindPropertiesVector:
		if len(v.propsVec) != len(other.propsVec) {
			return false
		}
		for i := range v.propsVec {
			if !v.propsVec[i].Equal(other.propsVec[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func equalInt32s(a, b []int32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalFloat64s(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Properties is an immutable mapping from non-empty string keys to Value
// nodes, equal structurally (recursively for nested maps and vectors of
// maps). Ordering of keys is never observable; the set of names is.
type Properties struct {
	values map[string]Value
}

// NewProperties builds a Properties from a copy of m, so the result does not
// alias the caller's map. The Values are stored as given; their vectors and
// nested Properties were already copied when each Value was built.
// When check is true, the result is validated (see Validate) and an *Error
// of category InvalidValue is returned on failure. When check is false the
// instance may be transiently invalid; this is used internally by readers
// that trust the on-disk layout.
func NewProperties(m map[string]Value, check bool) (Properties, error) {
	p := Properties{values: make(map[string]Value, len(m))}
	for k, v := range m {
		p.values[k] = v
	}
	if check {
		if err := p.Validate(); err != nil {
			return Properties{}, err
		}
	}
	return p, nil
}

// Validate returns an *Error of category InvalidValue if p, or any
// Properties value nested within it (directly or inside a
// PropertiesVector), carries an empty-string key.
func (p Properties) Validate() error {
	for k, v := range p.values {
		if k == "" {
			return NewInvalidValue("property name must not be empty")
		}
		switch v.Kind() {
		case KindProperties:
			nested, _ := v.AsProperties()
			if err := nested.Validate(); err != nil {
				return err
			}
		case KindPropertiesVector:
			vec, _ := v.AsPropertiesVector()
			for _, nested := range vec {
				if err := nested.Validate(); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// clone returns a value copy of p. Since Value.propsVal/propsVec are already
// deep-copied at construction time (PropertiesValue/PropertiesVectorValue),
// copying the top-level map is sufficient to give the result independent
// storage.
func (p Properties) clone() Properties {
	out := make(map[string]Value, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return Properties{values: out}
}

// Size returns the number of (name, value) pairs stored.
func (p Properties) Size() int { return len(p.values) }

// Names returns the sorted set of stored property names.
func (p Properties) Names() []string {
	names := make([]string, 0, len(p.values))
	for k := range p.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Contains reports whether a value is stored under name.
func (p Properties) Contains(name string) bool {
	_, ok := p.values[name]
	return ok
}

// Get returns the value stored under name.
func (p Properties) Get(name string) (Value, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Delete returns a copy of p with name removed, if present.
func (p Properties) Delete(name string) Properties {
	out := p.clone()
	delete(out.values, name)
	return out
}

// Set returns a copy of p with (name, value) added or replaced. When check
// is true, an empty name is rejected as an *Error of category InvalidValue,
// matching NewProperties.
func (p Properties) Set(name string, value Value, check bool) (Properties, error) {
	if check && name == "" {
		return Properties{}, NewInvalidValue("property name must not be empty")
	}
	out := p.clone()
	out.values[name] = value
	return out, nil
}

// Equal reports whether p and other hold the same set of names each mapped
// to an equal Value.
func (p Properties) Equal(other Properties) bool {
	if len(p.values) != len(other.values) {
		return false
	}
	for k, v := range p.values {
		ov, ok := other.values[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}
