package io

import (
	"io"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/safedump/pkg/errors"
	"github.com/matzehuels/safedump/pkg/value"
)

// keySep joins TOML key paths. Keys may contain dots, so a control byte is
// used instead.
const keySep = "\x00"

// ReadTOML decodes a TOML document from r. Table keys keep their document
// order; keys the metadata does not list (inline tables inside arrays) are
// appended in sorted order.
func ReadTOML(r io.Reader) (value.Value, error) {
	var data map[string]any
	md, err := toml.NewDecoder(r).Decode(&data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode toml")
	}
	return fromTOML(data, "", keyOrder(md.Keys())), nil
}

// keyOrder groups key names by their parent path in first-seen order.
// Entries of an array of tables share their parent path.
func keyOrder(keys []toml.Key) map[string][]string {
	order := make(map[string][]string)
	seen := make(map[string]bool)
	for _, k := range keys {
		if len(k) == 0 {
			continue
		}
		full := strings.Join(k, keySep)
		if seen[full] {
			continue
		}
		seen[full] = true
		parent := strings.Join(k[:len(k)-1], keySep)
		order[parent] = append(order[parent], k[len(k)-1])
	}
	return order
}

func fromTOML(v any, path string, order map[string][]string) value.Value {
	switch x := v.(type) {
	case map[string]any:
		m := make(value.Map, 0, len(x))
		used := make(map[string]bool, len(x))
		for _, k := range order[path] {
			child, ok := x[k]
			if !ok || used[k] {
				continue
			}
			used[k] = true
			m = append(m, value.Entry{Key: k, Value: fromTOML(child, childPath(path, k), order)})
		}

		var rest []string
		for k := range x {
			if !used[k] {
				rest = append(rest, k)
			}
		}
		sort.Strings(rest)
		for _, k := range rest {
			m = append(m, value.Entry{Key: k, Value: fromTOML(x[k], childPath(path, k), order)})
		}
		return m
	case []map[string]any:
		seq := make(value.Seq, len(x))
		for i, t := range x {
			seq[i] = fromTOML(t, path, order)
		}
		return seq
	case []any:
		seq := make(value.Seq, len(x))
		for i, e := range x {
			seq[i] = fromTOML(e, path, order)
		}
		return seq
	}
	return value.Leaf{V: v}
}

func childPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + keySep + key
}
