// Package normalize rewrites every mapping key in a value tree to its
// textual form so the tree can be written as JSON, where object keys must
// be strings.
//
// Normalization walks maps, sequences and tuples at any depth and builds a
// fresh container at every level. Leaves are shared with the input, not
// copied. The input is never modified.
//
// When two keys share a textual form (the int 1 and the string "1"), the
// later entry's value wins and the key keeps the position where it first
// appeared, the same result as assigning both into an insertion-ordered
// map.
package normalize

import "github.com/matzehuels/safedump/pkg/value"

// Keys returns a copy of v in which every Map key is a string.
func Keys(v value.Value) value.Value {
	switch x := v.(type) {
	case value.Map:
		out := make(value.Map, 0, len(x))
		index := make(map[string]int, len(x))
		for _, e := range x {
			key := value.Text(e.Key)
			val := Keys(e.Value)
			if i, ok := index[key]; ok {
				out[i].Value = val
				continue
			}
			index[key] = len(out)
			out = append(out, value.Entry{Key: key, Value: val})
		}
		return out
	case value.Seq:
		out := make(value.Seq, len(x))
		for i, e := range x {
			out[i] = Keys(e)
		}
		return out
	case value.Tuple:
		out := make(value.Tuple, len(x))
		for i, e := range x {
			out[i] = Keys(e)
		}
		return out
	default:
		return v
	}
}

// Any lifts a native Go value with [value.Of] and normalizes it.
func Any(v any) value.Value {
	return Keys(value.Of(v))
}
