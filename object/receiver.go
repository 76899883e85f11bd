package object

import (
	"context"

	"github.com/cockroachdb/errors"
)

// rootMethods are answered by every object.
var rootMethods = map[string]struct{}{
	"class":   {},
	"inspect": {},
	"name":    {},
}

// IsRootMethod reports whether name belongs to the universal base methods.
func IsRootMethod(name string) bool {
	_, ok := rootMethods[name]
	return ok
}

// Receiver is a module or class whose methods can be traced.
type Receiver struct {
	name     string
	main     bool
	self     *table
	instance *table // nil for modules
}

// Main is the top-level receiver. Its methods behave like free functions.
var Main = newReceiver("main", true, false)

// NewModule creates a receiver that cannot produce instances.
func NewModule(name string) *Receiver {
	return newReceiver(name, false, false)
}

// NewClass creates a receiver whose instances share an instance method table.
func NewClass(name string) *Receiver {
	return newReceiver(name, false, true)
}

func newReceiver(name string, main, class bool) *Receiver {
	r := &Receiver{name: name, main: main, self: newTable()}
	r.self.define(Method{Name: "name", Func: func(context.Context, Object, Args) (any, error) {
		return r.name, nil
	}})
	r.self.define(Method{Name: "inspect", Func: func(context.Context, Object, Args) (any, error) {
		return r.Inspect(), nil
	}})
	if class {
		r.instance = newTable()
		r.instance.define(Method{Name: "class", Func: func(context.Context, Object, Args) (any, error) {
			return r, nil
		}})
		r.instance.define(Method{Name: "inspect", Func: func(_ context.Context, self Object, _ Args) (any, error) {
			return self.Inspect(), nil
		}})
	}
	return r
}

// Name returns the display name of the receiver.
func (r *Receiver) Name() string { return r.name }

// Inspect returns the display name; receivers render as their name.
func (r *Receiver) Inspect() string { return r.name }

// String implements fmt.Stringer.
func (r *Receiver) String() string { return r.name }

// IsMain reports whether r is the top-level receiver.
func (r *Receiver) IsMain() bool { return r.main }

// CanInstantiate reports whether r is a class.
func (r *Receiver) CanInstantiate() bool { return r.instance != nil }

// Define registers a method callable on the receiver itself.
func (r *Receiver) Define(m Method) *Receiver {
	r.self.define(m)
	return r
}

// DefineInstance registers a method callable on instances. It panics when r
// is not a class.
func (r *Receiver) DefineInstance(m Method) *Receiver {
	if r.instance == nil {
		panic(errors.AssertionFailedf("%s is not a class", r.name))
	}
	r.instance.define(m)
	return r
}

// New creates an instance. It panics when r is not a class.
func (r *Receiver) New() *Obj {
	if r.instance == nil {
		panic(errors.AssertionFailedf("%s is not a class", r.name))
	}
	return &Obj{class: r}
}

// Methods lists the methods of the given kind in definition order, root
// methods included.
func (r *Receiver) Methods(kind Kind) []Method {
	t := r.table(kind)
	if t == nil {
		return nil
	}
	return t.list()
}

// Method looks up a single method.
func (r *Receiver) Method(kind Kind, name string) (Method, bool) {
	t := r.table(kind)
	if t == nil {
		return Method{}, false
	}
	return t.lookup(name)
}

// Layers returns the number of decorators currently installed on a method.
func (r *Receiver) Layers(kind Kind, name string) int {
	t := r.table(kind)
	if t == nil {
		return 0
	}
	return t.depth(name)
}

// PushLayer installs fn as the newest decorator of the named method.
func (r *Receiver) PushLayer(kind Kind, name string, fn LayerFunc) (*Layer, error) {
	t := r.table(kind)
	if t == nil {
		return nil, errors.Wrapf(ErrNoMethod, "%s has no %s methods", r.name, kind)
	}
	return t.push(name, fn)
}

// RemoveLayer uninstalls l from the named method. It reports false when l is
// not installed there.
func (r *Receiver) RemoveLayer(kind Kind, name string, l *Layer) bool {
	t := r.table(kind)
	if t == nil {
		return false
	}
	return t.remove(name, l)
}

// Call invokes a public self method.
func (r *Receiver) Call(ctx context.Context, name string, args ...any) (any, error) {
	return r.self.dispatch(ctx, r, name, ArgsOf(args...), false)
}

// Send invokes a self method of any visibility.
func (r *Receiver) Send(ctx context.Context, name string, args ...any) (any, error) {
	return r.self.dispatch(ctx, r, name, ArgsOf(args...), true)
}

func (r *Receiver) table(kind Kind) *table {
	switch kind {
	case Self:
		return r.self
	case Instance:
		return r.instance
	default:
		return nil
	}
}

// Obj is an instance produced by a class.
type Obj struct {
	class *Receiver
}

// Class returns the receiver that produced the instance.
func (i *Obj) Class() *Receiver { return i.class }

// Inspect returns "#<Class>".
func (i *Obj) Inspect() string { return "#<" + i.class.name + ">" }

// Call invokes a public instance method.
func (i *Obj) Call(ctx context.Context, name string, args ...any) (any, error) {
	return i.class.instance.dispatch(ctx, i, name, ArgsOf(args...), false)
}

// Send invokes an instance method of any visibility.
func (i *Obj) Send(ctx context.Context, name string, args ...any) (any, error) {
	return i.class.instance.dispatch(ctx, i, name, ArgsOf(args...), true)
}
