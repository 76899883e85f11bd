// Package format renders call and return events as lines of a call tree and
// writes them to the trace output.
package format

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	"fortio.org/safecast"
	"github.com/fatih/color"

	"tracewrap/internal/execctx"
	"tracewrap/object"
)

// Palette holds the colours handed to execution contexts in first-seen order.
// None of them is used for the static tokens.
var Palette = []color.Attribute{
	color.FgRed,
	color.FgBlue,
	color.FgHiRed,
	color.FgHiBlue,
	color.FgHiGreen,
	color.FgHiMagenta,
	color.FgHiCyan,
	color.FgHiYellow,
}

// Styles are the colours of each token category.
type Styles struct {
	Receiver *color.Color
	Method   *color.Color
	Value    *color.Color
	Return   *color.Color
	Contexts []*color.Color
}

// NewStyles builds the token styles with colour forced on or off.
func NewStyles(enabled bool) Styles {
	s := Styles{
		Receiver: color.New(color.Bold, color.FgGreen),
		Method:   color.New(color.FgCyan),
		Value:    color.New(color.FgMagenta),
		Return:   color.New(color.Bold, color.FgYellow),
	}
	for _, attr := range Palette {
		s.Contexts = append(s.Contexts, color.New(attr))
	}
	for _, c := range s.all() {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

func (s Styles) all() []*color.Color {
	return append([]*color.Color{s.Receiver, s.Method, s.Value, s.Return}, s.Contexts...)
}

// Formatter renders events and emits them for a Tracker's contexts.
type Formatter struct {
	tracker *execctx.Tracker
	styles  Styles
	logger  *slog.Logger

	mu sync.Mutex
	w  io.Writer
}

// New creates a Formatter writing to w.
func New(w io.Writer, tracker *execctx.Tracker, styles Styles, logger *slog.Logger) *Formatter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Formatter{
		tracker: tracker,
		styles:  styles,
		logger:  logger,
		w:       w,
	}
}

// Call emits the call line for ev and nests the context one level deeper.
func (f *Formatter) Call(id execctx.ID, ev Event) {
	c := f.tracker.Get(id)
	f.writeln(f.RenderCall(ev, c))
	c.Increment()
}

// Return leaves one level and emits the return line for ev.
func (f *Formatter) Return(id execctx.ID, ev Event) {
	c := f.tracker.Get(id)
	c.Decrement()
	f.writeln(f.RenderReturn(ev, c))
}

// Unwind leaves one level without emitting anything.
func (f *Formatter) Unwind(id execctx.ID) {
	f.tracker.Get(id).Decrement()
}

// RenderCall renders a call line at the context's current depth:
//
//	  [tag ]Receiver.method(arg, key: arg)
func (f *Formatter) RenderCall(ev Event, c *execctx.Context) string {
	var sb strings.Builder
	f.prefix(&sb, ev, c)
	sb.WriteByte('(')
	f.args(&sb, ev.Args)
	sb.WriteByte(')')
	return sb.String()
}

// RenderReturn renders a return line at the context's current depth:
//
//	  [tag ]Receiver.method return result
func (f *Formatter) RenderReturn(ev Event, c *execctx.Context) string {
	var sb strings.Builder
	f.prefix(&sb, ev, c)
	sb.WriteByte(' ')
	sb.WriteString(f.styles.Return.Sprint("return"))
	sb.WriteByte(' ')
	sb.WriteString(f.styles.Value.Sprint(Preview(ev.Result)))
	return sb.String()
}

func (f *Formatter) prefix(sb *strings.Builder, ev Event, c *execctx.Context) {
	sb.WriteString(Indent(c.Depth()))
	if tag := f.tracker.Tag(c.ID()); tag != "" {
		style := f.styles.Contexts[c.Colour()%len(f.styles.Contexts)]
		sb.WriteString(style.Sprint(tag))
		sb.WriteByte(' ')
	}
	if ev.Main {
		sb.WriteString(f.styles.Method.Sprint(ev.Method))
		return
	}
	sb.WriteString(f.styles.Receiver.Sprint(ev.Receiver))
	sb.WriteString(ev.Sep)
	sb.WriteString(f.styles.Method.Sprint(ev.Method))
}

func (f *Formatter) args(sb *strings.Builder, args object.Args) {
	first := true
	sep := func() {
		if !first {
			sb.WriteString(", ")
		}
		first = false
	}
	for _, v := range args.Positional() {
		sep()
		sb.WriteString(f.styles.Value.Sprint(Preview(v)))
	}
	for _, arg := range args.Named() {
		sep()
		sb.WriteString(arg.Name)
		sb.WriteString(": ")
		sb.WriteString(f.styles.Value.Sprint(Preview(arg.Value)))
	}
}

// Indent returns the leading whitespace for a line at depth: two spaces per
// level plus one. The conversion can only fail where int is 32 bits and depth
// exceeds math.MaxInt32; such a line is rendered at the outermost level
// rather than allocating gigabytes of padding.
func Indent(depth uint32) string {
	n, err := safecast.Conv[int](depth)
	if err != nil {
		return "  "
	}
	return strings.Repeat("  ", n+1)
}

func (f *Formatter) writeln(line string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Best-effort write - a broken trace sink must not break the traced code
	if _, err := io.WriteString(f.w, line+"\n"); err != nil {
		f.logger.Warn("tracewrap: write trace line", slog.Any("error", err))
	}
}
