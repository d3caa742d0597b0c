// Package dump converts arbitrary Go data to JSON text without failing on
// keys or values that encoding/json would reject.
//
// [Safe] runs three steps:
//
//  1. normalize: every map key, at any depth, becomes its textual form
//  2. encode: the tree is written as JSON; leaves JSON cannot represent are
//     written as their textual form instead of failing
//  3. sink: the text is printed, saved to a file, or returned
//
// By default the text is indented by 2 spaces and returned:
//
//	out, err := dump.Safe(map[any]any{1: "a", [2]int{2, 3}: []int{4, 5}})
//	// {
//	//   "(2, 3)": [
//	//     4,
//	//     5
//	//   ],
//	//   "1": "a"
//	// }
//
// Use a [value.Map] to control key order, since Go maps have none.
//
// Failures are never recovered: an invalid sink is reported before any
// encoding happens, and encoding or file errors are returned as-is.
package dump

import (
	"context"
	"time"

	"github.com/matzehuels/safedump/pkg/encode"
	"github.com/matzehuels/safedump/pkg/normalize"
	"github.com/matzehuels/safedump/pkg/observability"
	"github.com/matzehuels/safedump/pkg/sink"
)

// DefaultIndent is the indentation width used when none is given.
const DefaultIndent = 2

// Option configures a dump call.
type Option func(*options)

type options struct {
	indent  int
	sink    sink.Sink
	encOpts []encode.Option
}

// WithIndent sets the indentation width. 0 produces compact output.
func WithIndent(n int) Option { return func(o *options) { o.indent = n } }

// WithSink sets the output destination. The default returns the text.
func WithSink(s sink.Sink) Option { return func(o *options) { o.sink = s } }

// WithFallback replaces the textual fallback for unsupported leaves.
func WithFallback(f encode.Fallback) Option {
	return func(o *options) { o.encOpts = append(o.encOpts, encode.WithFallback(f)) }
}

// WithEscapeHTML escapes <, > and & inside strings.
func WithEscapeHTML(on bool) Option {
	return func(o *options) { o.encOpts = append(o.encOpts, encode.WithEscapeHTML(on)) }
}

// Safe converts data to JSON and disposes of it through the configured sink.
// It returns the text only when the sink is in return mode.
func Safe(data any, opts ...Option) (string, error) {
	return SafeContext(context.Background(), data, opts...)
}

// SafeContext is like [Safe] and reports the call to the registered
// [observability] hooks under ctx.
func SafeContext(ctx context.Context, data any, opts ...Option) (out string, err error) {
	o := options{indent: DefaultIndent, sink: sink.Return()}
	for _, opt := range opts {
		opt(&o)
	}

	mode := string(o.sink.Mode())
	hooks := observability.Dump()
	hooks.OnDumpStart(ctx, mode)
	start := time.Now()
	size := 0
	defer func() {
		hooks.OnDumpComplete(ctx, mode, size, time.Since(start), err)
	}()

	if err := o.sink.Validate(); err != nil {
		return "", err
	}

	enc := encode.New(append([]encode.Option{encode.WithIndent(o.indent)}, o.encOpts...)...)
	b, err := enc.Encode(normalize.Any(data))
	if err != nil {
		return "", err
	}
	size = len(b)

	out, err = o.sink.Dispose(string(b))
	observability.Sink().OnDispose(ctx, mode, size, err)
	return out, err
}

// Dumps is the positional form of [Safe]: data, indentation width and sink.
func Dumps(data any, indent int, s sink.Sink) (string, error) {
	return Safe(data, WithIndent(indent), WithSink(s))
}
