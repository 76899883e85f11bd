package object

import (
	"context"
	"slices"
	"sync"

	"github.com/cockroachdb/errors"
)

var (
	// ErrNoMethod is returned when a call names a method that is undefined or
	// not visible to the caller.
	ErrNoMethod = errors.New("no such method")
	// ErrUnexpectedNamed is returned when named arguments are passed to a
	// method that does not accept them.
	ErrUnexpectedNamed = errors.New("method does not accept named arguments")
)

// Object is anything methods can be dispatched on.
type Object interface {
	// Call invokes a public method.
	Call(ctx context.Context, name string, args ...any) (any, error)
	// Send invokes a method regardless of its visibility.
	Send(ctx context.Context, name string, args ...any) (any, error)
	// Inspect returns the debug representation of the object.
	Inspect() string
}

// Inspector is implemented by values with their own debug representation.
type Inspector interface {
	Inspect() string
}

// Func is a method implementation. self is the receiver for self methods and
// the instance for instance methods.
type Func func(ctx context.Context, self Object, args Args) (any, error)

// Next continues a call into the next-older layer of a method chain.
type Next func(ctx context.Context, args Args) (any, error)

// LayerFunc is a decorator placed in front of a method.
type LayerFunc func(ctx context.Context, self Object, args Args, next Next) (any, error)

// Layer is the handle of an installed decorator.
type Layer struct {
	fn LayerFunc
}

// Method describes one registered method.
type Method struct {
	Name         string
	Visibility   Visibility // zero means Public
	AcceptsNamed bool
	Func         Func
}

type entry struct {
	method Method
	layers []*Layer // oldest first, replaced on write
}

// table is one method namespace.
type table struct {
	mu      sync.RWMutex
	order   []string
	methods map[string]*entry
}

func newTable() *table {
	return &table{methods: make(map[string]*entry)}
}

func (t *table) define(m Method) {
	if m.Name == "" {
		panic(errors.AssertionFailedf("define: empty method name"))
	}
	if m.Visibility == 0 {
		m.Visibility = Public
	}
	if !m.Visibility.Valid() {
		panic(errors.AssertionFailedf("define %s: invalid visibility %d", m.Name, m.Visibility))
	}
	if m.Func == nil {
		panic(errors.AssertionFailedf("define %s: nil func", m.Name))
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.methods[m.Name]; ok {
		// Redefinition keeps installed layers in front of the new body.
		e.method = m
		return
	}
	t.order = append(t.order, m.Name)
	t.methods[m.Name] = &entry{method: m}
}

func (t *table) lookup(name string) (Method, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.methods[name]
	if !ok {
		return Method{}, false
	}
	return e.method, true
}

func (t *table) list() []Method {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Method, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.methods[name].method)
	}
	return out
}

func (t *table) depth(name string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if e, ok := t.methods[name]; ok {
		return len(e.layers)
	}
	return 0
}

func (t *table) push(name string, fn LayerFunc) (*Layer, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.methods[name]
	if !ok {
		return nil, errors.Wrapf(ErrNoMethod, "%s", name)
	}
	l := &Layer{fn: fn}
	layers := make([]*Layer, len(e.layers), len(e.layers)+1)
	copy(layers, e.layers)
	e.layers = append(layers, l)
	return l, nil
}

func (t *table) remove(name string, l *Layer) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.methods[name]
	if !ok {
		return false
	}
	i := slices.Index(e.layers, l)
	if i < 0 {
		return false
	}
	e.layers = slices.Concat(e.layers[:i], e.layers[i+1:])
	return true
}

func (t *table) dispatch(ctx context.Context, self Object, name string, args Args, private bool) (any, error) {
	t.mu.RLock()
	e, ok := t.methods[name]
	var (
		m      Method
		layers []*Layer
	)
	if ok {
		m, layers = e.method, e.layers
	}
	t.mu.RUnlock()

	if !ok {
		return nil, errors.Wrapf(ErrNoMethod, "undefined method %q for %s", name, self.Inspect())
	}
	if !private && m.Visibility != Public {
		return nil, errors.Wrapf(ErrNoMethod, "%s method %q called for %s", m.Visibility, name, self.Inspect())
	}
	if !m.AcceptsNamed && args.HasNamed() {
		return nil, errors.Wrapf(ErrUnexpectedNamed, "%s", name)
	}
	return invoke(ctx, self, m, layers, len(layers)-1, args)
}

// invoke runs layers[i] with a continuation into layers[i-1], bottoming out
// in the method body. layers is a snapshot, so removals during the call only
// affect later calls.
func invoke(ctx context.Context, self Object, m Method, layers []*Layer, i int, args Args) (any, error) {
	if i < 0 {
		return m.Func(ctx, self, args)
	}
	next := func(ctx context.Context, args Args) (any, error) {
		return invoke(ctx, self, m, layers, i-1, args)
	}
	return layers[i].fn(ctx, self, args, next)
}
