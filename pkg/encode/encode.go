// Package encode writes value trees as JSON without failing on leaf types
// that JSON cannot represent.
//
// # Leaves
//
// Strings, booleans, numbers and nil are encoded directly. Any other leaf
// goes through encoding/json first, so types with a MarshalJSON or
// MarshalText method (time.Time, net.IP, big.Int) and plain structs keep
// their usual JSON form. If encoding/json rejects the leaf (funcs, channels,
// complex numbers, structs holding them), the encoder writes the leaf's
// textual form as a JSON string instead. That replacement is produced by a
// [Fallback], which defaults to [value.Text].
//
// NaN and infinite floats are not replaced: JSON has no spelling for them,
// so they fail with a MALFORMED_INPUT error.
//
// # Layout
//
// Indent 0 produces compact output in encoding/json's style. A positive
// indent puts every element on its own line, nested by that many spaces:
//
//	enc := encode.New(encode.WithIndent(2))
//	b, err := enc.Encode(normalize.Any(data))
//
// Map keys are expected to be strings already (see package normalize);
// any other key is converted with [value.Text] as it is written.
package encode

import (
	"bytes"
	"encoding"
	"encoding/json"
	"io"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/matzehuels/safedump/pkg/errors"
	"github.com/matzehuels/safedump/pkg/value"
)

// Fallback returns the replacement text for a leaf encoding/json rejects.
type Fallback func(v any) string

// Option configures an [Encoder].
type Option func(*Encoder)

// WithIndent sets the number of spaces per nesting level. 0 means compact.
func WithIndent(n int) Option { return func(e *Encoder) { e.indent = n } }

// WithFallback replaces the default textual fallback. A nil f is ignored.
func WithFallback(f Fallback) Option {
	return func(e *Encoder) {
		if f != nil {
			e.fallback = f
		}
	}
}

// WithEscapeHTML escapes <, > and & inside strings, as json.Marshal does.
func WithEscapeHTML(on bool) Option { return func(e *Encoder) { e.escapeHTML = on } }

// Encoder serializes value trees to JSON. It holds only configuration and
// is safe for concurrent use.
type Encoder struct {
	indent     int
	fallback   Fallback
	escapeHTML bool
}

// New creates an Encoder. Without options it writes compact JSON with
// HTML escaping off and [value.Text] as the fallback.
func New(opts ...Option) *Encoder {
	e := &Encoder{fallback: value.Text}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encode returns the JSON encoding of v.
func (e *Encoder) Encode(v value.Value) ([]byte, error) {
	if err := errors.ValidateIndent(e.indent); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := e.writeValue(&buf, v); err != nil {
		return nil, err
	}
	if e.indent == 0 {
		return buf.Bytes(), nil
	}

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", strings.Repeat(" ", e.indent)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "indent output")
	}
	return out.Bytes(), nil
}

// Write encodes v and writes it to w.
func (e *Encoder) Write(w io.Writer, v value.Value) error {
	b, err := e.Encode(v)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func (e *Encoder) writeValue(buf *bytes.Buffer, v value.Value) error {
	switch x := v.(type) {
	case nil:
		buf.WriteString("null")
	case value.Map:
		buf.WriteByte('{')
		for i, entry := range x {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, ok := entry.Key.(string)
			if !ok {
				key = value.Text(entry.Key)
			}
			if err := e.writeString(buf, key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := e.writeValue(buf, entry.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case value.Seq:
		return e.writeArray(buf, x)
	case value.Tuple:
		return e.writeArray(buf, x)
	case value.Leaf:
		return e.writeLeaf(buf, x.V)
	}
	return nil
}

func (e *Encoder) writeArray(buf *bytes.Buffer, vs []value.Value) error {
	buf.WriteByte('[')
	for i, v := range vs {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := e.writeValue(buf, v); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

func (e *Encoder) writeLeaf(buf *bytes.Buffer, v any) error {
	switch x := v.(type) {
	case nil:
		buf.WriteString("null")
		return nil
	case value.Value:
		return e.writeValue(buf, x)
	case string:
		return e.writeString(buf, x)
	case bool:
		buf.WriteString(strconv.FormatBool(x))
		return nil
	}

	if !hasMarshaler(v) {
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Float32, reflect.Float64:
			if f := rv.Float(); math.IsNaN(f) || math.IsInf(f, 0) {
				return errors.New(errors.ErrCodeMalformedInput, "unsupported float value: %v", f)
			}
		}
	}

	b, err := e.marshal(v)
	if err != nil {
		return e.writeString(buf, e.fallback(v))
	}
	buf.Write(b)
	return nil
}

func (e *Encoder) writeString(buf *bytes.Buffer, s string) error {
	b, err := e.marshal(s)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode string")
	}
	buf.Write(b)
	return nil
}

// marshal runs encoding/json on v with the encoder's HTML setting and
// without the trailing newline json.Encoder appends.
func (e *Encoder) marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(e.escapeHTML)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func hasMarshaler(v any) bool {
	switch v.(type) {
	case json.Marshaler, encoding.TextMarshaler:
		return true
	}
	return false
}
