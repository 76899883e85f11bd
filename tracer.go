package tracewrap

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"tracewrap/internal/execctx"
	"tracewrap/internal/format"
	"tracewrap/internal/intercept"
	"tracewrap/object"
)

// Tracer owns the trace output and the interceptions it installed.
type Tracer struct {
	formatter *format.Formatter
	tracker   *execctx.Tracker
	logger    *slog.Logger
	unwind    bool
	colour    bool

	mu     sync.Mutex
	active []*intercept.Interception
	scoped int // interceptions held by running Scope calls
}

// New creates a Tracer. Nothing is traced until Wrap or Scope is called.
func New(opts Options) *Tracer {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origin := opts.Origin
	if origin == (ContextID{}) {
		origin = execctx.Ambient()
	}

	colour := opts.Colour.Enabled(out)
	tracker := execctx.NewTracker(origin, len(format.Palette))
	return &Tracer{
		formatter: format.New(out, tracker, format.NewStyles(colour), logger),
		tracker:   tracker,
		logger:    logger,
		unwind:    opts.UnwindOnFailure,
		colour:    colour,
	}
}

// Colour reports whether the tracer writes colour sequences.
func (t *Tracer) Colour() bool { return t.colour }

// Origin returns the main execution context of the tracer.
func (t *Tracer) Origin() ContextID { return t.tracker.Origin() }

// Wrap traces the protected-and-public self and instance methods of each
// receiver until Unwrap is called.
func (t *Tracer) Wrap(receivers ...*object.Receiver) error {
	return t.WrapWith(WrapOptions{}, receivers...)
}

// WrapWith is Wrap with explicit options. Options are validated before
// anything is installed, so a failed call leaves dispatch untouched.
func (t *Tracer) WrapWith(opts WrapOptions, receivers ...*object.Receiver) error {
	ics, err := t.install(opts, receivers)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.active = append(t.active, ics...)
	t.mu.Unlock()
	return nil
}

// Scope installs interceptions, runs fn with the tracer and removes them
// again when fn returns or panics. fn's error or panic propagates unchanged.
// Interceptions fn adds through Wrap stay until Unwrap.
func (t *Tracer) Scope(ctx context.Context, opts WrapOptions, receivers []*object.Receiver, fn func(context.Context, *Tracer) error) error {
	ics, err := t.install(opts, receivers)
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.scoped += len(ics)
	t.mu.Unlock()

	defer func() {
		t.uninstall(ics)
		t.mu.Lock()
		t.scoped -= len(ics)
		t.mu.Unlock()
	}()

	return fn(ctx, t)
}

// Unwrap removes every interception registered through Wrap. It is safe to
// call any number of times.
func (t *Tracer) Unwrap() {
	t.mu.Lock()
	ics := t.active
	t.active = nil
	t.mu.Unlock()

	t.uninstall(ics)
}

// Active reports whether any interception of this tracer is installed.
func (t *Tracer) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.active)+t.scoped > 0
}

// Run creates a tracer from cfg and runs fn inside Scope.
func Run(ctx context.Context, cfg Config, receivers []*object.Receiver, fn func(context.Context, *Tracer) error) error {
	return New(cfg.Options).Scope(ctx, cfg.Wrap, receivers, fn)
}

func (t *Tracer) install(opts WrapOptions, receivers []*object.Receiver) ([]*intercept.Interception, error) {
	kinds, vis, err := opts.resolve()
	if err != nil {
		return nil, err
	}
	for _, r := range receivers {
		if r == nil {
			return nil, object.InvalidOption("receiver", "nil")
		}
	}

	hooks := t.hooks()
	var ics []*intercept.Interception
	for _, r := range receivers {
		for _, kind := range kinds {
			ic, err := intercept.Install(r, kind, vis, hooks)
			if err != nil {
				t.uninstall(ics)
				return nil, err
			}
			t.logger.Debug("tracewrap: installed",
				slog.String("receiver", r.Name()),
				slog.String("kind", kind.String()),
				slog.String("visibility", vis.String()),
				slog.Int("methods", len(ic.Names())))
			ics = append(ics, ic)
		}
	}
	return ics, nil
}

func (t *Tracer) uninstall(ics []*intercept.Interception) {
	for _, ic := range ics {
		ic.Uninstall()
		t.logger.Debug("tracewrap: uninstalled",
			slog.String("receiver", ic.Receiver().Name()),
			slog.String("kind", ic.Kind().String()))
	}
}

func (t *Tracer) hooks() intercept.Hooks {
	h := intercept.Hooks{
		Call: func(ctx context.Context, ev format.Event) {
			t.formatter.Call(execctx.Current(ctx), ev)
		},
		Return: func(ctx context.Context, ev format.Event) {
			t.formatter.Return(execctx.Current(ctx), ev)
		},
	}
	if t.unwind {
		h.Failure = func(ctx context.Context, _ format.Event) {
			t.formatter.Unwind(execctx.Current(ctx))
		}
	}
	return h
}
