// Package sink decides what happens to finished JSON text.
//
// A [Sink] is configured with one of three modes:
//
//   - print: write the text and a newline to standard output
//   - save_file: truncate-write the text to a file path
//   - return: hand the text back to the caller
//
// Sinks are small immutable values. Build one with [Return], [Print],
// [PrintTo], [SaveFile] or [New] and reuse it freely; it holds no per-call
// state.
//
// The save_file mode does not create directories, retry, or lock the file.
// Two concurrent writers to the same path race and the last one wins.
package sink

import (
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/safedump/pkg/errors"
)

// Mode selects how a Sink disposes of text.
type Mode string

// Supported modes.
const (
	ModePrint    Mode = "print"
	ModeSaveFile Mode = "save_file"
	ModeReturn   Mode = "return"
)

// Modes lists the supported modes.
func Modes() []Mode {
	return []Mode{ModePrint, ModeSaveFile, ModeReturn}
}

// Valid reports whether m is a supported mode.
func (m Mode) Valid() bool {
	switch m {
	case ModePrint, ModeSaveFile, ModeReturn:
		return true
	}
	return false
}

// ParseMode converts s to a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", errors.New(errors.ErrCodeInvalidConfig, "invalid output mode %q (want print, save_file or return)", s)
	}
	return m, nil
}

// Sink is an output destination.
type Sink struct {
	mode Mode
	path string
	out  io.Writer
}

// New creates a Sink without validating it. Use [Sink.Validate] to check
// the configuration before doing work that depends on it.
func New(mode Mode, path string) Sink {
	return Sink{mode: mode, path: path}
}

// Return creates a sink that hands the text back to the caller.
func Return() Sink { return Sink{mode: ModeReturn} }

// Print creates a sink that writes to os.Stdout.
func Print() Sink { return Sink{mode: ModePrint} }

// PrintTo creates a print sink that writes to w instead of os.Stdout.
func PrintTo(w io.Writer) Sink { return Sink{mode: ModePrint, out: w} }

// SaveFile creates a sink that writes to the file at path.
func SaveFile(path string) Sink { return Sink{mode: ModeSaveFile, path: path} }

// Mode returns the configured mode.
func (s Sink) Mode() Mode { return s.mode }

// Path returns the destination path of a save_file sink.
func (s Sink) Path() string { return s.path }

// String describes the sink, e.g. "save_file(out.json)".
func (s Sink) String() string {
	if s.mode == ModeSaveFile {
		return fmt.Sprintf("%s(%s)", s.mode, s.path)
	}
	return string(s.mode)
}

// Validate reports an INVALID_CONFIG error for an unknown mode or a
// save_file sink without a path.
func (s Sink) Validate() error {
	if !s.mode.Valid() {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid mode %q selected for output handling", s.mode)
	}
	if s.mode == ModeSaveFile && s.path == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "save_file mode requires a path")
	}
	return nil
}

// Dispose delivers text according to the sink's mode. Only the return mode
// yields the text back; the other modes return "".
func (s Sink) Dispose(text string) (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}

	switch s.mode {
	case ModePrint:
		w := s.out
		if w == nil {
			w = os.Stdout
		}
		if _, err := io.WriteString(w, text+"\n"); err != nil {
			return "", errors.Wrap(errors.ErrCodeFilesystem, err, "print output")
		}
		return "", nil
	case ModeSaveFile:
		return "", writeFile(s.path, text)
	default:
		return text, nil
	}
}

// writeFile truncates path and writes text to it. The file is closed on
// every path; a close error is reported only if the write succeeded.
func writeFile(path, text string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFilesystem, err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrap(errors.ErrCodeFilesystem, cerr, "close %s", path)
		}
	}()

	if _, werr := io.WriteString(f, text); werr != nil {
		return errors.Wrap(errors.ErrCodeFilesystem, werr, "write %s", path)
	}
	return nil
}
