package io

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/safedump/pkg/errors"
	"github.com/matzehuels/safedump/pkg/value"
)

// ReadJSON decodes one JSON document from r, keeping object key order.
// Numbers are kept as json.Number leaves. Trailing data after the document
// is an error.
func ReadJSON(r io.Reader) (value.Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	v, err := decodeJSON(dec)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode json")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New(errors.ErrCodeInvalidInput, "decode json: unexpected data after document")
	}
	return v, nil
}

func decodeJSON(dec *json.Decoder) (value.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return value.Leaf{V: tok}, nil
	}

	switch delim {
	case '{':
		m := value.Map{}
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := kt.(string)
			if !ok {
				return nil, fmt.Errorf("object key %v is not a string", kt)
			}
			v, err := decodeJSON(dec)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			m = append(m, value.Entry{Key: key, Value: v})
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return m, nil
	case '[':
		seq := value.Seq{}
		for dec.More() {
			v, err := decodeJSON(dec)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", len(seq), err)
			}
			seq = append(seq, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return seq, nil
	}
	return nil, fmt.Errorf("unexpected delimiter %v", delim)
}
