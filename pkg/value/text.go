package value

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Text returns the canonical textual form of v.
//
// Strings are returned unchanged and nil becomes "null". Composite values
// render their elements recursively, quoting string elements so ("a", 1)
// and (a, 1) stay distinct:
//
//	Tuple{Leaf{2}, Leaf{3}}  -> (2, 3)
//	Tuple{Leaf{"x"}}         -> ("x",)
//	Seq{Leaf{4}, Leaf{5}}    -> [4, 5]
//	Map{{1, Leaf{"a"}}}      -> {1: "a"}
//
// Native Go maps, slices and arrays are lifted with [Of] first. Other values
// use their String or Error method when they have one, then fmt.Sprint. A
// nil pointer whose method would dereference it renders as "<nil>".
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case Leaf:
		return Text(x.V)
	case Tuple:
		if len(x) == 1 {
			return "(" + elemText(x[0]) + ",)"
		}
		return "(" + joinElems(x) + ")"
	case Seq:
		return "[" + joinElems(x) + "]"
	case Map:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = keyText(e.Key) + ": " + elemText(e.Value)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case bool:
		return strconv.FormatBool(x)
	case fmt.Stringer, error:
		// fmt turns a panic from a nil receiver into "<nil>".
		return fmt.Sprint(x)
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Array:
		return Text(Of(v))
	case reflect.Slice:
		if _, ok := v.([]byte); !ok {
			return Text(Of(v))
		}
	}
	return fmt.Sprint(v)
}

func joinElems(vs []Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = elemText(v)
	}
	return strings.Join(parts, ", ")
}

// elemText renders a value nested inside a composite.
func elemText(v Value) string {
	if l, ok := v.(Leaf); ok {
		if s, ok := l.V.(string); ok {
			return strconv.Quote(s)
		}
	}
	return Text(v)
}

func keyText(k any) string {
	if s, ok := k.(string); ok {
		return strconv.Quote(s)
	}
	return Text(k)
}
