package tracewrap

import (
	"context"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"tracewrap/internal/execctx"
)

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	fd := f.Fd()
	return term.IsTerminal(int(fd)) || isatty.IsCygwinTerminal(fd)
}

// OpenOutput resolves a trace output path: "", "-" and "stdout" name standard
// output, "stderr" names standard error, anything else is created as a file.
// The returned close function only closes files opened here.
func OpenOutput(path string) (io.Writer, func() error, error) {
	nop := func() error { return nil }
	switch path {
	case "", "-", "stdout":
		return os.Stdout, nop, nil
	case "stderr":
		return os.Stderr, nop, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open trace output")
	}
	return f, f.Close, nil
}

// EnterContext stamps the calling goroutine's identity on ctx. Goroutines
// that make traced calls can call it once at their entry point.
func EnterContext(ctx context.Context) context.Context {
	return execctx.Enter(ctx)
}

// WithContextID attaches an explicit execution context identity to ctx.
func WithContextID(ctx context.Context, id ContextID) context.Context {
	return execctx.WithID(ctx, id)
}

// CurrentContextID returns the identity traced calls made with ctx use.
func CurrentContextID(ctx context.Context) ContextID {
	return execctx.Current(ctx)
}
