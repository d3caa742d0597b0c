package cli

import (
	stderrors "errors"
	"io/fs"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/safedump/pkg/dump"
	"github.com/matzehuels/safedump/pkg/errors"
	pkgio "github.com/matzehuels/safedump/pkg/io"
	"github.com/matzehuels/safedump/pkg/sink"
)

// fileConfig is the layout of a --config file:
//
//	indent = 4
//	escape_html = false
//	format = "yaml"
//
//	[output]
//	mode = "save_file"
//	path = "out.json"
//
// Pointer fields distinguish "unset" from the zero value.
type fileConfig struct {
	Indent     *int   `toml:"indent"`
	EscapeHTML *bool  `toml:"escape_html"`
	Format     string `toml:"format"`
	Output     struct {
		Mode string `toml:"mode"`
		Path string `toml:"path"`
	} `toml:"output"`
}

// loadConfig decodes the TOML file at path. Unknown keys are rejected so a
// typo does not silently fall back to a default.
func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// settings is the resolved configuration for one dump run.
type settings struct {
	indent     int
	escapeHTML bool
	format     pkgio.Format // empty: infer from the file extension
	mode       sink.Mode
	path       string
}

// dumpFlags holds the raw flag values of the dump command.
type dumpFlags struct {
	format     string
	indent     int
	mode       string
	output     string
	config     string
	escapeHTML bool
}

// resolveSettings layers defaults, the config file and explicitly set flags,
// in that order. changed reports whether a flag was given on the command line.
//
// Passing --output without --mode selects save_file.
func resolveSettings(f dumpFlags, changed func(name string) bool) (settings, error) {
	s := settings{indent: dump.DefaultIndent, mode: sink.ModePrint}
	format := ""
	mode := string(sink.ModePrint)

	if f.config != "" {
		cfg, err := loadConfig(f.config)
		if err != nil {
			return s, err
		}
		if cfg.Indent != nil {
			s.indent = *cfg.Indent
		}
		if cfg.EscapeHTML != nil {
			s.escapeHTML = *cfg.EscapeHTML
		}
		if cfg.Format != "" {
			format = cfg.Format
		}
		if cfg.Output.Mode != "" {
			mode = cfg.Output.Mode
		}
		s.path = cfg.Output.Path
	}

	if changed("indent") {
		s.indent = f.indent
	}
	if changed("escape-html") {
		s.escapeHTML = f.escapeHTML
	}
	if changed("format") {
		format = f.format
	}
	if changed("mode") {
		mode = f.mode
	}
	if changed("output") {
		s.path = f.output
		if !changed("mode") {
			mode = string(sink.ModeSaveFile)
		}
	}

	var err error
	if s.mode, err = sink.ParseMode(mode); err != nil {
		return s, err
	}
	if err := errors.ValidateIndent(s.indent); err != nil {
		return s, err
	}
	if format != "" {
		if s.format, err = pkgio.ParseFormat(format); err != nil {
			return s, err
		}
	}
	if s.mode == sink.ModeSaveFile {
		if err := errors.ValidateOutputPath(s.path); err != nil {
			return s, err
		}
	}
	return s, nil
}
