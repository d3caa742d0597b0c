// Package value defines the tree shape that safedump normalizes and encodes.
//
// # Variants
//
// A [Value] is one of exactly four shapes:
//
//   - [Map]: an ordered mapping whose keys may be of any type
//   - [Seq]: an ordered sequence
//   - [Tuple]: a fixed-size tuple
//   - [Leaf]: a primitive or opaque object with no structure of interest
//
// The set is closed (the interface has an unexported method), so consumers
// dispatch with a type switch over the four variants instead of inspecting
// arbitrary runtime types.
//
// # Lifting Go values
//
// [Of] converts native Go data into a tree: maps become [Map], slices become
// [Seq], arrays become [Tuple], and anything else is wrapped in a [Leaf].
// Go maps have no insertion order, so [Of] orders their entries by the
// textual form of each key. Build a [Map] literal directly when order matters:
//
//	v := value.Map{
//	    {Key: 1, Value: value.Leaf{V: "a"}},
//	    {Key: value.Tuple{value.Leaf{V: 2}, value.Leaf{V: 3}}, Value: value.Of([]int{4, 5})},
//	}
//
// # Textual conversion
//
// [Text] is the universal to-string used for map keys and for leaves the
// JSON encoder cannot represent. Tuples render as "(2, 3)", sequences as
// "[4, 5]", and nil as "null".
package value

// Kind identifies which variant a Value is.
type Kind int

const (
	KindLeaf Kind = iota
	KindMap
	KindSeq
	KindTuple
)

// String returns the lowercase variant name.
func (k Kind) String() string {
	switch k {
	case KindMap:
		return "map"
	case KindSeq:
		return "seq"
	case KindTuple:
		return "tuple"
	default:
		return "leaf"
	}
}

// Value is a node in the input tree.
type Value interface {
	Kind() Kind
	isValue()
}

// Entry is one key/value pair of a Map.
type Entry struct {
	Key   any
	Value Value
}

// Map is an ordered mapping. Keys may be any type, including Tuple.
type Map []Entry

// Seq is an ordered sequence.
type Seq []Value

// Tuple is a fixed-size tuple; its arity is its length.
type Tuple []Value

// Leaf wraps a value with no further structure.
type Leaf struct {
	V any
}

func (Map) Kind() Kind   { return KindMap }
func (Seq) Kind() Kind   { return KindSeq }
func (Tuple) Kind() Kind { return KindTuple }
func (Leaf) Kind() Kind  { return KindLeaf }

func (Map) isValue()   {}
func (Seq) isValue()   {}
func (Tuple) isValue() {}
func (Leaf) isValue()  {}

func (m Map) String() string   { return Text(m) }
func (s Seq) String() string   { return Text(s) }
func (t Tuple) String() string { return Text(t) }
func (l Leaf) String() string  { return Text(l) }
