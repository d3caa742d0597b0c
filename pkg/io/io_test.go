package io

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/safedump/pkg/dump"
	"github.com/matzehuels/safedump/pkg/errors"
	"github.com/matzehuels/safedump/pkg/value"
)

func TestReadJSON(t *testing.T) {
	in := `{"b": 1, "a": [true, null, "x"], "b": 2.50}`

	got, err := ReadJSON(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}

	want := value.Map{
		{Key: "b", Value: value.Leaf{V: json.Number("1")}},
		{Key: "a", Value: value.Seq{value.Leaf{V: true}, value.Leaf{}, value.Leaf{V: "x"}}},
		{Key: "b", Value: value.Leaf{V: json.Number("2.50")}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReadJSON() mismatch (-want +got):\n%s", diff)
	}

	out, err := dump.Safe(got, dump.WithIndent(0))
	if err != nil {
		t.Fatalf("Safe: %v", err)
	}
	if want := `{"b":2.50,"a":[true,null,"x"]}`; out != want {
		t.Errorf("Safe() = %s, want %s", out, want)
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"malformed", `{"a":}`},
		{"trailing data", `{} {}`},
		{"unterminated", `[1, 2`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.in))
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("ReadJSON(%q) error = %v, want %s", tt.in, err, errors.ErrCodeInvalidInput)
			}
		})
	}
}

const yamlDoc = `1: a
? [2, 3]
: [4, 5]
true: yes
name: demo
when: 2024-01-02
anchor: &a {x: 1}
ref: *a
`

func TestReadYAML(t *testing.T) {
	got, err := ReadYAML(strings.NewReader(yamlDoc))
	if err != nil {
		t.Fatalf("ReadYAML: %v", err)
	}

	anchored := value.Map{{Key: "x", Value: value.Leaf{V: 1}}}
	want := value.Map{
		{Key: 1, Value: value.Leaf{V: "a"}},
		{Key: value.Tuple{value.Leaf{V: 2}, value.Leaf{V: 3}}, Value: value.Seq{value.Leaf{V: 4}, value.Leaf{V: 5}}},
		{Key: true, Value: value.Leaf{V: "yes"}},
		{Key: "name", Value: value.Leaf{V: "demo"}},
		{Key: "when", Value: value.Leaf{V: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}},
		{Key: "anchor", Value: anchored},
		{Key: "ref", Value: anchored},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReadYAML() mismatch (-want +got):\n%s", diff)
	}

	out, err := dump.Safe(got, dump.WithIndent(0))
	if err != nil {
		t.Fatalf("Safe: %v", err)
	}
	wantOut := `{"1":"a","(2, 3)":[4,5],"true":"yes","name":"demo","when":"2024-01-02T00:00:00Z","anchor":{"x":1},"ref":{"x":1}}`
	if out != wantOut {
		t.Errorf("Safe() =\n%s\nwant\n%s", out, wantOut)
	}
}

func TestReadYAMLEmptyAndInvalid(t *testing.T) {
	got, err := ReadYAML(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ReadYAML(empty): %v", err)
	}
	if diff := cmp.Diff(value.Value(value.Leaf{}), got); diff != "" {
		t.Errorf("ReadYAML(empty) mismatch (-want +got):\n%s", diff)
	}

	_, err = ReadYAML(strings.NewReader("a: [1, 2"))
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ReadYAML(invalid) error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestReadYAMLMergeKeys(t *testing.T) {
	doc := `base: &b {x: 1, z: 0}
extra: &e {x: 9, w: 1}
child: {<<: *b, y: 2, x: 3}
multi:
  <<: [*b, *e]
  y: 2
`
	got, err := ReadYAML(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ReadYAML: %v", err)
	}

	out, err := dump.Safe(got, dump.WithIndent(0))
	if err != nil {
		t.Fatalf("Safe: %v", err)
	}
	want := `{"base":{"x":1,"z":0},"extra":{"x":9,"w":1},` +
		`"child":{"z":0,"y":2,"x":3},` +
		`"multi":{"x":1,"z":0,"w":1,"y":2}}`
	if out != want {
		t.Errorf("Safe() =\n%s\nwant\n%s", out, want)
	}
}

func TestReadYAMLInvalidMerge(t *testing.T) {
	for _, doc := range []string{"a: {<<: 1}\n", "a: {<<: [1, 2]}\n"} {
		_, err := ReadYAML(strings.NewReader(doc))
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("ReadYAML(%q) error = %v, want %s", doc, err, errors.ErrCodeInvalidInput)
		}
	}

	// A quoted "<<" is an ordinary key.
	got, err := ReadYAML(strings.NewReader(`{"<<": 1}`))
	if err != nil {
		t.Fatalf("ReadYAML: %v", err)
	}
	want := value.Map{{Key: "<<", Value: value.Leaf{V: 1}}}
	if diff := cmp.Diff(value.Value(want), got); diff != "" {
		t.Errorf("ReadYAML() mismatch (-want +got):\n%s", diff)
	}
}

const tomlDoc = `title = "demo"
zeta = 1
alpha = 2

[server]
port = 8080
host = "localhost"

[[items]]
name = "a"
when = 1979-05-27T07:32:00Z

[[items]]
name = "b"
`

func TestReadTOML(t *testing.T) {
	got, err := ReadTOML(strings.NewReader(tomlDoc))
	if err != nil {
		t.Fatalf("ReadTOML: %v", err)
	}

	want := value.Map{
		{Key: "title", Value: value.Leaf{V: "demo"}},
		{Key: "zeta", Value: value.Leaf{V: int64(1)}},
		{Key: "alpha", Value: value.Leaf{V: int64(2)}},
		{Key: "server", Value: value.Map{
			{Key: "port", Value: value.Leaf{V: int64(8080)}},
			{Key: "host", Value: value.Leaf{V: "localhost"}},
		}},
		{Key: "items", Value: value.Seq{
			value.Map{
				{Key: "name", Value: value.Leaf{V: "a"}},
				{Key: "when", Value: value.Leaf{V: time.Date(1979, 5, 27, 7, 32, 0, 0, time.UTC)}},
			},
			value.Map{{Key: "name", Value: value.Leaf{V: "b"}}},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReadTOML() mismatch (-want +got):\n%s", diff)
	}
}

func TestReadTOMLInvalid(t *testing.T) {
	_, err := ReadTOML(strings.NewReader("a = "))
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ReadTOML(invalid) error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"YAML", FormatYAML, false},
		{"yml", FormatYAML, false},
		{" toml ", FormatTOML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"a.json":      FormatJSON,
		"dir/b.yaml":  FormatYAML,
		"c.YML":       FormatYAML,
		"Cargo.toml":  FormatTOML,
		"noextension": "",
		"notes.txt":   "",
	}

	for path, want := range tests {
		got, err := FormatFromPath(path)
		if want == "" {
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("FormatFromPath(%q) error = %v, want %s", path, err, errors.ErrCodeInvalidFormat)
			}
			continue
		}
		if err != nil || got != want {
			t.Errorf("FormatFromPath(%q) = %q, %v; want %q", path, got, err, want)
		}
	}
}

func TestImport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.yml")
	if err := os.WriteFile(path, []byte("2: two\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := Import(path, "")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	want := value.Map{{Key: 2, Value: value.Leaf{V: "two"}}}
	if diff := cmp.Diff(value.Value(want), got); diff != "" {
		t.Errorf("Import() mismatch (-want +got):\n%s", diff)
	}

	// An explicit format wins over the extension.
	jsonPath := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(jsonPath, []byte(`[1]`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Import(jsonPath, FormatJSON); err != nil {
		t.Errorf("Import(explicit json): %v", err)
	}

	if _, err := Import(filepath.Join(dir, "missing.json"), ""); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Import(missing) error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
	if _, err := Import(jsonPath, ""); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Import(.txt) error = %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
	if _, err := Read(strings.NewReader("{}"), "ini"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Read(ini) error = %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
}
