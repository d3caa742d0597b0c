package cli

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/matzehuels/safedump/pkg/dump"
	pkgio "github.com/matzehuels/safedump/pkg/io"
	"github.com/matzehuels/safedump/pkg/sink"
	"github.com/matzehuels/safedump/pkg/value"
)

// stdinName is the argument that selects standard input.
const stdinName = "-"

// dumpCommand creates the dump command.
func (c *CLI) dumpCommand() *cobra.Command {
	var f dumpFlags

	cmd := &cobra.Command{
		Use:   "dump [file|url]",
		Short: "Convert a JSON, YAML or TOML document to JSON",
		Long: `Convert a JSON, YAML or TOML document to JSON.

Every map key becomes text: 1 becomes "1", true becomes "true" and a YAML
sequence key [2, 3] becomes "(2, 3)". Values JSON cannot hold are written as
their text form.

The input may be a file path or an http(s) URL. Its format is inferred from
the extension unless --format is given. Without an argument, or with "-",
the document is read from standard input as JSON unless --format says
otherwise.`,
		Example: `  # Print a YAML file as JSON
  safedump dump config.yaml

  # Compact output saved to a file
  safedump dump Cargo.toml --indent 0 -o cargo.json

  # Fetch a remote document
  safedump dump https://example.com/config.yaml

  # Read from standard input
  cat doc.yml | safedump dump --format yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := stdinName
			if len(args) == 1 {
				input = args[0]
			}
			s, err := resolveSettings(f, cmd.Flags().Changed)
			if err != nil {
				return err
			}
			return c.runDump(cmd.Context(), input, s, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&f.format, "format", "", "input format: json, yaml or toml (default: from extension)")
	cmd.Flags().IntVar(&f.indent, "indent", dump.DefaultIndent, "indentation width, 0 for compact output")
	cmd.Flags().StringVar(&f.mode, "mode", string(sink.ModePrint), "output mode: print, save_file or return")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (implies --mode save_file)")
	cmd.Flags().StringVar(&f.config, "config", "", "TOML config file")
	cmd.Flags().BoolVar(&f.escapeHTML, "escape-html", false, "escape <, > and & in strings")

	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{string(pkgio.FormatJSON), string(pkgio.FormatYAML), string(pkgio.FormatTOML)},
		cobra.ShellCompDirectiveNoFileComp,
	))
	_ = cmd.RegisterFlagCompletionFunc("mode", cobra.FixedCompletions(
		[]string{string(sink.ModePrint), string(sink.ModeSaveFile), string(sink.ModeReturn)},
		cobra.ShellCompDirectiveNoFileComp,
	))

	return cmd
}

// runDump reads input, converts it and delivers the JSON according to s.
// JSON goes to stdout; status lines go to stderr.
func (c *CLI) runDump(ctx context.Context, input string, s settings, stdin io.Reader, stdout, stderr io.Writer) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	data, err := readInput(ctx, input, s.format, stdin)
	if err != nil {
		return err
	}
	logger.Debug("Decoded input", "source", input, "kind", data.Kind())

	var out sink.Sink
	switch s.mode {
	case sink.ModePrint:
		out = sink.PrintTo(stdout)
	case sink.ModeSaveFile:
		out = sink.SaveFile(s.path)
	default:
		out = sink.New(s.mode, s.path)
	}

	var replaced atomic.Int64
	fallback := func(v any) string {
		replaced.Add(1)
		logger.Debug("Replaced unsupported value", "type", fmt.Sprintf("%T", v))
		return value.Text(v)
	}

	text, err := dump.SafeContext(ctx, data,
		dump.WithIndent(s.indent),
		dump.WithSink(out),
		dump.WithFallback(fallback),
		dump.WithEscapeHTML(s.escapeHTML),
	)
	if err != nil {
		return err
	}

	if n := replaced.Load(); n > 0 {
		printWarning(stderr, "%d value(s) written as text", n)
	}

	switch s.mode {
	case sink.ModeReturn:
		fmt.Fprintln(stdout, text)
	case sink.ModeSaveFile:
		printSuccess(stderr, "Saved JSON")
		printFile(stderr, s.path)
	}

	prog.done("Dumped", "source", input, "sink", out.String())
	return nil
}

// readInput decodes the document named by input: a file, an http(s) URL or
// standard input. Standard input defaults to JSON since it has no extension
// to infer a format from.
func readInput(ctx context.Context, input string, f pkgio.Format, stdin io.Reader) (value.Value, error) {
	if pkgio.IsURL(input) {
		return pkgio.Fetch(ctx, nil, input, f)
	}
	if input == stdinName {
		if f == "" {
			f = pkgio.FormatJSON
		}
		return pkgio.Read(stdin, f)
	}
	return pkgio.Import(input, f)
}

// modesCommand lists the output modes.
func (c *CLI) modesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List the supported output modes",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			for _, m := range sink.Modes() {
				printKeyValue(w, string(m), modeDescriptions[m])
			}
		},
	}
}

var modeDescriptions = map[sink.Mode]string{
	sink.ModePrint:    "write the JSON to standard output",
	sink.ModeSaveFile: "write the JSON to the --output file, replacing it",
	sink.ModeReturn:   "return the JSON to the caller (printed by the CLI)",
}
