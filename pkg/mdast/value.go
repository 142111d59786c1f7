package mdast

import (
	"slices"
	"strconv"
	"strings"
)

// ValueType tags the variant held by a Value.
type ValueType uint8

// Value variants.
const (
	ValueString ValueType = iota
	ValueInt
	ValueBool
	ValueStrings
)

// String returns the variant name.
func (t ValueType) String() string {
	switch t {
	case ValueString:
		return "string"
	case ValueInt:
		return "int"
	case ValueBool:
		return "bool"
	case ValueStrings:
		return "strings"
	default:
		return "invalid"
	}
}

// Value is a metadata value: a string, an integer, a boolean, or an
// ordered sequence of strings. The zero Value is the empty string.
type Value struct {
	typ  ValueType
	str  string
	num  int
	flag bool
	list []string
}

// StringValue returns a string Value.
func StringValue(s string) Value {
	return Value{typ: ValueString, str: s}
}

// IntValue returns an integer Value.
func IntValue(i int) Value {
	return Value{typ: ValueInt, num: i}
}

// BoolValue returns a boolean Value.
func BoolValue(b bool) Value {
	return Value{typ: ValueBool, flag: b}
}

// StringsValue returns a sequence Value. The slice is copied.
func StringsValue(items []string) Value {
	return Value{typ: ValueStrings, list: slices.Clone(items)}
}

// Type reports which variant v holds.
func (v Value) Type() ValueType {
	return v.typ
}

// AsString returns the string variant.
func (v Value) AsString() (string, bool) {
	return v.str, v.typ == ValueString
}

// AsInt returns the integer variant.
func (v Value) AsInt() (int, bool) {
	return v.num, v.typ == ValueInt
}

// AsBool returns the boolean variant.
func (v Value) AsBool() (bool, bool) {
	return v.flag, v.typ == ValueBool
}

// AsStrings returns a copy of the sequence variant.
func (v Value) AsStrings() ([]string, bool) {
	if v.typ != ValueStrings {
		return nil, false
	}
	return slices.Clone(v.list), true
}

// Equal reports whether two values hold the same variant and content.
func (v Value) Equal(other Value) bool {
	if v.typ != other.typ {
		return false
	}
	switch v.typ {
	case ValueString:
		return v.str == other.str
	case ValueInt:
		return v.num == other.num
	case ValueBool:
		return v.flag == other.flag
	case ValueStrings:
		return slices.Equal(v.list, other.list)
	default:
		return false
	}
}

// String formats the value for dumps. Sequences print as ["a", "b"].
func (v Value) String() string {
	switch v.typ {
	case ValueInt:
		return strconv.Itoa(v.num)
	case ValueBool:
		return strconv.FormatBool(v.flag)
	case ValueStrings:
		quoted := make([]string, len(v.list))
		for i, item := range v.list {
			quoted[i] = strconv.Quote(item)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	default:
		return v.str
	}
}

// Meta maps metadata keys to values.
type Meta map[string]Value

// Get returns the value stored under key.
func (m Meta) Get(key string) (Value, bool) {
	v, ok := m[key]
	return v, ok
}

// Has reports whether key is set. An optional key that is absent is
// "not set", which differs from a key set to an empty string.
func (m Meta) Has(key string) bool {
	_, ok := m[key]
	return ok
}

// StringOf returns the string stored under key, or "" when the key is
// absent or holds another variant.
func (m Meta) StringOf(key string) string {
	s, _ := m[key].AsString()
	return s
}

// IntOf returns the integer stored under key, or 0.
func (m Meta) IntOf(key string) int {
	i, _ := m[key].AsInt()
	return i
}

// BoolOf returns the boolean stored under key, or false.
func (m Meta) BoolOf(key string) bool {
	b, _ := m[key].AsBool()
	return b
}

// Keys returns the keys in sorted order.
func (m Meta) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
