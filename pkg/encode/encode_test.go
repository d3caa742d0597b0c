package encode

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/safedump/pkg/errors"
	"github.com/matzehuels/safedump/pkg/normalize"
	"github.com/matzehuels/safedump/pkg/value"
)

type opaque struct {
	Name string
	Hook func()
}

func (o opaque) String() string { return "opaque<" + o.Name + ">" }

type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func example() value.Value {
	return normalize.Keys(value.Map{
		{Key: 1, Value: value.Leaf{V: "a"}},
		{Key: value.Tuple{value.Leaf{V: 2}, value.Leaf{V: 3}}, Value: value.Seq{value.Leaf{V: 4}, value.Leaf{V: 5}}},
	})
}

func TestEncodeCompact(t *testing.T) {
	got, err := New().Encode(example())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := `{"1":"a","(2, 3)":[4,5]}`
	if string(got) != want {
		t.Errorf("Encode() = %s, want %s", got, want)
	}
}

func TestEncodeIndent(t *testing.T) {
	got, err := New(WithIndent(2)).Encode(example())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := `{
  "1": "a",
  "(2, 3)": [
    4,
    5
  ]
}`
	if string(got) != want {
		t.Errorf("Encode() =\n%s\nwant\n%s", got, want)
	}
}

func TestEncodeIndentWidth(t *testing.T) {
	got, err := New(WithIndent(4)).Encode(value.Map{{Key: "a", Value: value.Map{}}, {Key: "b", Value: value.Seq{}}})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := "{\n    \"a\": {},\n    \"b\": []\n}"
	if string(got) != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestEncodeNegativeIndent(t *testing.T) {
	_, err := New(WithIndent(-1)).Encode(value.Leaf{V: 1})
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Encode() error = %v, want %s", err, errors.ErrCodeInvalidConfig)
	}
}

func TestEncodeLeaves(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, `null`},
		{"string", "hi", `"hi"`},
		{"bool", false, `false`},
		{"int", -7, `-7`},
		{"uint8", uint8(200), `200`},
		{"float", 1.25, `1.25`},
		{"whole float", 2.0, `2`},
		{"json number", json.Number("12.50"), `12.50`},
		{"html not escaped", "<a&b>", `"<a&b>"`},
		{"time uses MarshalJSON", ts, `"2024-01-02T03:04:05Z"`},
		{"bytes use base64", []byte("hi"), `"aGk="`},
		{"struct via reflection", point{1, 2}, `{"x":1,"y":2}`},
		{"complex falls back", complex(1, 2), `"(1+2i)"`},
		{"unsupported struct falls back", opaque{Name: "n"}, `"opaque<n>"`},
		{"nested value", value.Seq{value.Leaf{V: 1}}, `[1]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New().Encode(value.Leaf{V: tt.in})
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Encode() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestEncodeFuncAndChanNeverFail(t *testing.T) {
	in := value.Map{
		{Key: "fn", Value: value.Leaf{V: func() {}}},
		{Key: "ch", Value: value.Leaf{V: make(chan int)}},
	}

	got, err := New().Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(got, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, got)
	}
	for _, k := range []string{"fn", "ch"} {
		if _, ok := decoded[k].(string); !ok {
			t.Errorf("%s = %#v, want string", k, decoded[k])
		}
	}
}

func TestEncodeCustomFallback(t *testing.T) {
	enc := New(WithFallback(func(v any) string { return "unsupported" }))
	got, err := enc.Encode(value.Seq{value.Leaf{V: complex(0, 1)}, value.Leaf{V: "ok"}})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if want := `["unsupported","ok"]`; string(got) != want {
		t.Errorf("Encode() = %s, want %s", got, want)
	}
}

func TestEncodeNilFallbackIgnored(t *testing.T) {
	got, err := New(WithFallback(nil)).Encode(value.Leaf{V: complex(1, 0)})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if want := `"(1+0i)"`; string(got) != want {
		t.Errorf("Encode() = %s, want %s", got, want)
	}
}

func TestEncodeEscapeHTML(t *testing.T) {
	got, err := New(WithEscapeHTML(true)).Encode(value.Map{{Key: "<k>", Value: value.Leaf{V: "a&b"}}})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if want := `{"\u003ck\u003e":"a\u0026b"}`; string(got) != want {
		t.Errorf("Encode() = %s, want %s", got, want)
	}
}

func TestEncodeNonFiniteFloats(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := New().Encode(value.Seq{value.Leaf{V: f}})
		if !errors.Is(err, errors.ErrCodeMalformedInput) {
			t.Errorf("Encode(%v) error = %v, want %s", f, err, errors.ErrCodeMalformedInput)
		}
	}

	_, err := New().Encode(value.Leaf{V: float32(math.Inf(1))})
	if !errors.Is(err, errors.ErrCodeMalformedInput) {
		t.Errorf("Encode(float32 inf) error = %v, want %s", err, errors.ErrCodeMalformedInput)
	}
}

func TestEncodeUnnormalizedKeys(t *testing.T) {
	got, err := New().Encode(value.Map{{Key: 3, Value: value.Leaf{V: true}}})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if want := `{"3":true}`; string(got) != want {
		t.Errorf("Encode() = %s, want %s", got, want)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	in := normalize.Keys(value.Map{
		{Key: "name", Value: value.Leaf{V: "safedump"}},
		{Key: 2, Value: value.Seq{value.Leaf{V: 1.5}, value.Leaf{V: true}, value.Leaf{}}},
		{Key: "nested", Value: value.Map{{Key: "k", Value: value.Tuple{value.Leaf{V: "x"}}}}},
	})

	for _, indent := range []int{0, 2} {
		got, err := New(WithIndent(indent)).Encode(in)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}

		var decoded any
		if err := json.Unmarshal(got, &decoded); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}

		want := map[string]any{
			"name":   "safedump",
			"2":      []any{1.5, true, nil},
			"nested": map[string]any{"k": []any{"x"}},
		}
		if diff := cmp.Diff(want, decoded); diff != "" {
			t.Errorf("indent %d: round trip mismatch (-want +got):\n%s", indent, diff)
		}
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	if err := New().Write(&buf, value.Seq{value.Leaf{V: "x"}}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := buf.String(); got != `["x"]` {
		t.Errorf("Write() wrote %s", got)
	}

	buf.Reset()
	err := New().Write(&buf, value.Leaf{V: math.NaN()})
	if err == nil {
		t.Fatal("Write(NaN) succeeded")
	}
	if strings.TrimSpace(buf.String()) != "" {
		t.Errorf("Write wrote partial output %q", buf.String())
	}
}
