package judge

import (
	"encoding/json"
	"strconv"
	"strings"
)

// OutputsMatch decides pass/fail for one test case. Both strings are
// trimmed of surrounding whitespace; if both parse as JSON they are
// compared structurally, which normalizes the different ways runtimes
// render booleans and numbers. Otherwise the comparison falls back to
// case-insensitive equality of the trimmed text. The fallback can
// accept type mismatches that happen to print the same; that behavior
// is kept for compatibility with existing challenges.
func OutputsMatch(actual, expected string) bool {
	actual = strings.TrimSpace(actual)
	expected = strings.TrimSpace(expected)

	av, aok := ParseValue(actual)
	ev, eok := ParseValue(expected)
	if aok && eok {
		return av.Equal(ev)
	}

	return strings.EqualFold(actual, expected)
}

type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// Value is a parsed JSON document as a tagged variant. Structural
// equality over Values is order-sensitive for arrays and
// key-set-sensitive for objects.
type Value struct {
	Kind   ValueKind
	Bool   bool
	Number json.Number
	Str    string
	Array  []Value
	Object map[string]Value
}

// ParseValue parses s as a single JSON document. The second return is
// false when s is not valid JSON or has trailing content.
func ParseValue(s string) (Value, bool) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return Value{}, false
	}
	if dec.More() {
		return Value{}, false
	}
	return fromDecoded(raw), true
}

func fromDecoded(raw interface{}) Value {
	switch v := raw.(type) {
	case nil:
		return Value{Kind: KindNull}
	case bool:
		return Value{Kind: KindBool, Bool: v}
	case json.Number:
		return Value{Kind: KindNumber, Number: v}
	case string:
		return Value{Kind: KindString, Str: v}
	case []interface{}:
		arr := make([]Value, len(v))
		for i, item := range v {
			arr[i] = fromDecoded(item)
		}
		return Value{Kind: KindArray, Array: arr}
	case map[string]interface{}:
		obj := make(map[string]Value, len(v))
		for k, item := range v {
			obj[k] = fromDecoded(item)
		}
		return Value{Kind: KindObject, Object: obj}
	default:
		return Value{Kind: KindNull}
	}
}

// Equal reports deep structural equality. Values of different kinds are
// never equal; a number never equals the string that prints the same.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindBool:
		return v.Bool == other.Bool
	case KindNumber:
		return numbersEqual(v.Number, other.Number)
	case KindString:
		return v.Str == other.Str
	case KindArray:
		if len(v.Array) != len(other.Array) {
			return false
		}
		for i := range v.Array {
			if !v.Array[i].Equal(other.Array[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.Object) != len(other.Object) {
			return false
		}
		for k, val := range v.Object {
			otherVal, ok := other.Object[k]
			if !ok || !val.Equal(otherVal) {
				return false
			}
		}
		return true
	}
	return false
}

// numbersEqual treats 1 and 1.0 as equal, matching how different
// runtimes print numeric results.
func numbersEqual(a, b json.Number) bool {
	if a.String() == b.String() {
		return true
	}
	af, errA := strconv.ParseFloat(a.String(), 64)
	bf, errB := strconv.ParseFloat(b.String(), 64)
	if errA != nil || errB != nil {
		return false
	}
	return af == bf
}
