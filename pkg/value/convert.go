package value

import (
	"reflect"
	"sort"
)

// Of lifts a native Go value into a Value tree.
//
// Values that already implement Value are returned as-is. Maps become Map
// with entries sorted by the textual form of their keys; array-typed keys
// become Tuple keys. Slices become Seq, except byte slices which stay
// leaves. Arrays become Tuple. Nil maps and nil slices become a nil Leaf,
// matching how encoding/json writes them. Everything else is a Leaf.
func Of(v any) Value {
	switch x := v.(type) {
	case Value:
		return x
	case nil, string, []byte, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, uintptr,
		float32, float64:
		return Leaf{V: x}
	case []any:
		if x == nil {
			return Leaf{}
		}
		seq := make(Seq, len(x))
		for i, e := range x {
			seq[i] = Of(e)
		}
		return seq
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.IsNil() {
			return Leaf{}
		}
		return mapOf(rv)
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return Leaf{V: v}
		}
		if rv.IsNil() {
			return Leaf{}
		}
		seq := make(Seq, rv.Len())
		for i := range seq {
			seq[i] = Of(rv.Index(i).Interface())
		}
		return seq
	case reflect.Array:
		tup := make(Tuple, rv.Len())
		for i := range tup {
			tup[i] = Of(rv.Index(i).Interface())
		}
		return tup
	}
	return Leaf{V: v}
}

func mapOf(rv reflect.Value) Map {
	type keyed struct {
		text  string
		entry Entry
	}
	items := make([]keyed, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := keyOf(iter.Key())
		items = append(items, keyed{
			text:  Text(k),
			entry: Entry{Key: k, Value: Of(iter.Value().Interface())},
		})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].text < items[j].text })

	m := make(Map, len(items))
	for i, it := range items {
		m[i] = it.entry
	}
	return m
}

// keyOf unwraps a reflected map key. Interface-typed keys are resolved to
// their dynamic value first so an array stored in a map[any]V still
// becomes a Tuple.
func keyOf(k reflect.Value) any {
	if k.Kind() == reflect.Interface {
		if k.IsNil() {
			return nil
		}
		k = k.Elem()
	}
	if k.Kind() == reflect.Array {
		return Of(k.Interface())
	}
	return k.Interface()
}
