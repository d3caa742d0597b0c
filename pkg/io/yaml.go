package io

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/safedump/pkg/errors"
	"github.com/matzehuels/safedump/pkg/value"
)

// ReadYAML decodes the first YAML document from r. An empty stream decodes
// to a nil leaf.
func ReadYAML(r io.Reader) (value.Value, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return value.Leaf{}, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode yaml")
	}

	v, err := fromNode(&doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode yaml")
	}
	return v, nil
}

func fromNode(n *yaml.Node) (value.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.Leaf{}, nil
		}
		return fromNode(n.Content[0])
	case yaml.AliasNode:
		return fromNode(n.Alias)
	case yaml.MappingNode:
		return fromMapping(n)
	case yaml.SequenceNode:
		seq := make(value.Seq, len(n.Content))
		for i, c := range n.Content {
			v, err := fromNode(c)
			if err != nil {
				return nil, err
			}
			seq[i] = v
		}
		return seq, nil
	case yaml.ScalarNode:
		s, err := scalar(n)
		if err != nil {
			return nil, err
		}
		return value.Leaf{V: s}, nil
	}
	return nil, fmt.Errorf("line %d: unsupported yaml node kind %d", n.Line, n.Kind)
}

// fromMapping converts a mapping node and applies "<<" merge keys. Keys
// written in the mapping win over merged ones; among merged mappings the
// first to define a key wins. Merged entries take the place of the "<<" key.
func fromMapping(n *yaml.Node) (value.Value, error) {
	type item struct {
		entry  value.Entry
		merged bool
	}

	items := make([]item, 0, len(n.Content)/2)
	explicit := make(map[string]bool)
	for i := 0; i+1 < len(n.Content); i += 2 {
		kn, vn := n.Content[i], n.Content[i+1]
		if isMerge(kn) {
			merged, err := mergeSources(vn)
			if err != nil {
				return nil, err
			}
			for _, e := range merged {
				items = append(items, item{entry: e, merged: true})
			}
			continue
		}

		k, err := nodeKey(kn)
		if err != nil {
			return nil, err
		}
		v, err := fromNode(vn)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", vn.Line, err)
		}
		explicit[keyID(k)] = true
		items = append(items, item{entry: value.Entry{Key: k, Value: v}})
	}

	m := make(value.Map, 0, len(items))
	seen := make(map[string]bool)
	for _, it := range items {
		if it.merged {
			id := keyID(it.entry.Key)
			if explicit[id] || seen[id] {
				continue
			}
			seen[id] = true
		}
		m = append(m, it.entry)
	}
	return m, nil
}

func isMerge(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Value == "<<" && n.ShortTag() == "!!merge"
}

// mergeSources returns the entries a "<<" value contributes: one mapping or
// a sequence of mappings, in order.
func mergeSources(n *yaml.Node) (value.Map, error) {
	v, err := fromNode(n)
	if err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case value.Map:
		return x, nil
	case value.Seq:
		var out value.Map
		for _, e := range x {
			m, ok := e.(value.Map)
			if !ok {
				return nil, fmt.Errorf("line %d: merge sequence must contain only mappings", n.Line)
			}
			out = append(out, m...)
		}
		return out, nil
	}
	return nil, fmt.Errorf("line %d: merge value must be a mapping or a sequence of mappings", n.Line)
}

// keyID identifies a key by type and text, so the int key 1 and the string
// key "1" stay distinct.
func keyID(k any) string {
	return fmt.Sprintf("%T:%s", k, value.Text(k))
}

// nodeKey converts a mapping key node. Scalars keep their resolved type,
// sequences become tuples and nested mappings are kept as maps.
func nodeKey(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return nodeKey(n.Alias)
	case yaml.ScalarNode:
		return scalar(n)
	case yaml.SequenceNode:
		tup := make(value.Tuple, len(n.Content))
		for i, c := range n.Content {
			v, err := fromNode(c)
			if err != nil {
				return nil, err
			}
			tup[i] = v
		}
		return tup, nil
	}
	return fromNode(n)
}

// scalar resolves a scalar node to its Go value. yaml.v3 leaves implicit
// timestamps as strings when decoding into an interface, so they are
// decoded into time.Time explicitly.
func scalar(n *yaml.Node) (any, error) {
	if n.ShortTag() == "!!timestamp" {
		var t time.Time
		if err := n.Decode(&t); err == nil {
			return t, nil
		}
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, fmt.Errorf("line %d: %w", n.Line, err)
	}
	return v, nil
}
