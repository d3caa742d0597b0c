// Package io decodes JSON, YAML and TOML documents into value trees.
//
// # Overview
//
// The decoders feed the safedump command line: whatever the input format,
// the result is a [value.Value] that keeps the document's key order and the
// native type of every key, so the dump step can show exactly how each key
// was textualized.
//
// # Formats
//
//   - JSON ([ReadJSON]): objects become ordered maps, numbers stay
//     json.Number so no precision is lost. Duplicate keys are kept; the
//     normalizer later resolves them last-write-wins.
//   - YAML ([ReadYAML]): keys keep their YAML type. "1:" is an int key,
//     "true:" a bool key, "? [2, 3]" a tuple key. Timestamps decode to
//     time.Time leaves. Aliases are followed.
//   - TOML ([ReadTOML]): tables keep document order. Dates and times decode
//     to time.Time leaves.
//
// # Import
//
// Use [Import] to read a file, sniffing the format from its extension when
// none is given, or [Read] for any io.Reader:
//
//	v, err := io.Import("config.yaml", "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, err := dump.Safe(v)
//
// All decoders return INVALID_INPUT errors for malformed documents.
package io
