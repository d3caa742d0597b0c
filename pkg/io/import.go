package io

import (
	stderrors "errors"
	"io"
	"io/fs"
	"os"

	"github.com/matzehuels/safedump/pkg/errors"
	"github.com/matzehuels/safedump/pkg/value"
)

// Read decodes a document of the given format from r. Read does not close r.
func Read(r io.Reader, f Format) (value.Value, error) {
	switch f {
	case FormatJSON:
		return ReadJSON(r)
	case FormatYAML:
		return ReadYAML(r)
	case FormatTOML:
		return ReadTOML(r)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported input format %q", f)
}

// Import reads the document at path. An empty format is inferred from the
// file extension.
func Import(path string, f Format) (value.Value, error) {
	if f == "" {
		var err error
		if f, err = FormatFromPath(path); err != nil {
			return nil, err
		}
	}

	file, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeFilesystem, err, "open %s", path)
	}
	defer file.Close()
	return Read(file, f)
}
