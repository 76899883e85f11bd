package tracewrap

import (
	"io"
	"log/slog"
	"strings"

	"tracewrap/internal/execctx"
	"tracewrap/object"
)

// ErrInvalidOption marks errors caused by an unrecognised option value.
var ErrInvalidOption = object.ErrInvalidOption

// ColourMode controls whether trace lines carry ANSI colour sequences.
type ColourMode uint8

const (
	// ColourAuto colours output when the sink is an interactive terminal.
	ColourAuto ColourMode = iota
	// ColourOn always colours output.
	ColourOn
	// ColourOff never colours output.
	ColourOff
)

// String returns the string representation of ColourMode.
func (m ColourMode) String() string {
	switch m {
	case ColourAuto:
		return "auto"
	case ColourOn:
		return "on"
	case ColourOff:
		return "off"
	default:
		return "unknown"
	}
}

// ParseColourMode converts a string to ColourMode.
func ParseColourMode(s string) (ColourMode, error) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "", "auto":
		return ColourAuto, nil
	case "on", "true", "always":
		return ColourOn, nil
	case "off", "false", "never":
		return ColourOff, nil
	default:
		return ColourAuto, object.InvalidOption("colour mode", s+" (expected: auto|on|off)")
	}
}

// Enabled resolves the mode for a concrete sink.
func (m ColourMode) Enabled(w io.Writer) bool {
	switch m {
	case ColourOn:
		return true
	case ColourOff:
		return false
	default:
		return isTerminal(w)
	}
}

// MethodType selects which method tables Wrap instruments.
type MethodType uint8

const (
	// AllMethods traces self and instance methods. It is the default.
	AllMethods MethodType = iota
	// SelfMethods traces methods called directly on the receiver.
	SelfMethods
	// InstanceMethods traces methods called on instances of the receiver.
	InstanceMethods
)

// String returns the string representation of MethodType.
func (t MethodType) String() string {
	switch t {
	case AllMethods:
		return "all"
	case SelfMethods:
		return "self"
	case InstanceMethods:
		return "instance"
	default:
		return "unknown"
	}
}

// ParseMethodType converts a string to MethodType.
func ParseMethodType(s string) (MethodType, error) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "", "all", "both":
		return AllMethods, nil
	case "self", "methods":
		return SelfMethods, nil
	case "instance", "instance_methods":
		return InstanceMethods, nil
	default:
		return AllMethods, object.InvalidOption("method type", s+" (expected: self|instance|all)")
	}
}

func (t MethodType) kinds() ([]object.Kind, error) {
	switch t {
	case AllMethods:
		return []object.Kind{object.Self, object.Instance}, nil
	case SelfMethods:
		return []object.Kind{object.Self}, nil
	case InstanceMethods:
		return []object.Kind{object.Instance}, nil
	default:
		return nil, object.InvalidOption("method type", uint8(t))
	}
}

// DefaultVisibility is the threshold used when WrapOptions leaves it unset.
const DefaultVisibility = object.Protected

// Options configure a Tracer.
type Options struct {
	// Output receives the trace lines. Defaults to os.Stdout.
	Output io.Writer
	// Colour selects coloured output. Defaults to ColourAuto.
	Colour ColourMode
	// Logger receives the tracer's own diagnostics, never trace lines.
	// Defaults to slog.Default().
	Logger *slog.Logger
	// UnwindOnFailure restores the indentation of a context when a traced
	// call fails. No return line is written either way.
	UnwindOnFailure bool
	// Origin is the main execution context, whose lines carry no tag.
	// Defaults to the goroutine calling New.
	Origin ContextID
}

// WrapOptions select what Wrap instruments on each receiver.
type WrapOptions struct {
	MethodType MethodType
	// Visibility is the cascading threshold; zero means DefaultVisibility.
	Visibility object.Visibility
}

func (o WrapOptions) resolve() ([]object.Kind, object.Visibility, error) {
	kinds, err := o.MethodType.kinds()
	if err != nil {
		return nil, 0, err
	}
	vis := o.Visibility
	if vis == 0 {
		vis = DefaultVisibility
	}
	if !vis.Valid() {
		return nil, 0, object.InvalidOption("visibility", uint8(vis))
	}
	return kinds, vis, nil
}

// Config combines tracer construction options with wrap options, for the
// one-shot Run form.
type Config struct {
	Options
	Wrap WrapOptions
}

// ContextID identifies an execution context: a process and a goroutine.
type ContextID = execctx.ID
