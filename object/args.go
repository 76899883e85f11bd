package object

import (
	"context"

	"github.com/cockroachdb/errors"
)

// ErrNoBlock is returned by Args.Yield when the call carried no block.
var ErrNoBlock = errors.New("no block given")

// Arg is one entry of an argument list. Positional entries have an empty Name.
type Arg struct {
	Name  string
	Value any
}

// Kw builds a named argument for use at a call site.
func Kw(name string, value any) Arg {
	return Arg{Name: name, Value: value}
}

// Named reports whether the argument was passed by name.
func (a Arg) Named() bool { return a.Name != "" }

// Block is a callback handed to a method alongside its arguments.
type Block func(ctx context.Context, args ...any) (any, error)

// Args is the ordered argument list of one call plus an optional block.
type Args struct {
	List  []Arg
	Block Block
}

// ArgsOf builds Args from call-site values. Arg values keep their name,
// a Block (or a func with the Block signature) becomes the block, and
// everything else is positional.
func ArgsOf(values ...any) Args {
	var args Args
	for _, v := range values {
		switch x := v.(type) {
		case Arg:
			args.List = append(args.List, x)
		case Block:
			args.Block = x
		case func(context.Context, ...any) (any, error):
			args.Block = x
		default:
			args.List = append(args.List, Arg{Value: v})
		}
	}
	return args
}

// Values converts the list back to call-site form, so that ArgsOf(a.Values()...)
// reproduces a.
func (a Args) Values() []any {
	out := make([]any, 0, len(a.List)+1)
	for _, arg := range a.List {
		if arg.Named() {
			out = append(out, arg)
			continue
		}
		out = append(out, arg.Value)
	}
	if a.Block != nil {
		out = append(out, a.Block)
	}
	return out
}

// Positional returns the values of the positional entries in order.
func (a Args) Positional() []any {
	var out []any
	for _, arg := range a.List {
		if !arg.Named() {
			out = append(out, arg.Value)
		}
	}
	return out
}

// Named returns the named entries in order.
func (a Args) Named() []Arg {
	var out []Arg
	for _, arg := range a.List {
		if arg.Named() {
			out = append(out, arg)
		}
	}
	return out
}

// HasNamed reports whether any entry was passed by name.
func (a Args) HasNamed() bool {
	for _, arg := range a.List {
		if arg.Named() {
			return true
		}
	}
	return false
}

// Lookup returns the value of the last named entry called name.
func (a Args) Lookup(name string) (any, bool) {
	for i := len(a.List) - 1; i >= 0; i-- {
		if a.List[i].Name == name {
			return a.List[i].Value, true
		}
	}
	return nil, false
}

// At returns the i-th positional value, or def when there are fewer.
func (a Args) At(i int, def any) any {
	pos := a.Positional()
	if i < 0 || i >= len(pos) {
		return def
	}
	return pos[i]
}

// WithoutNamed returns a copy holding only the positional entries and the
// block. The result never carries an empty named section.
func (a Args) WithoutNamed() Args {
	out := Args{Block: a.Block}
	for _, arg := range a.List {
		if !arg.Named() {
			out.List = append(out.List, arg)
		}
	}
	return out
}

// Yield invokes the block with the given values.
func (a Args) Yield(ctx context.Context, values ...any) (any, error) {
	if a.Block == nil {
		return nil, ErrNoBlock
	}
	return a.Block(ctx, values...)
}
