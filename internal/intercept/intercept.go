// Package intercept installs tracing decorators in front of receiver methods.
package intercept

import (
	"context"
	"sync"

	"tracewrap/internal/format"
	"tracewrap/internal/selector"
	"tracewrap/object"
)

// Hooks receive the events produced by installed proxies.
type Hooks struct {
	Call   func(ctx context.Context, ev format.Event)
	Return func(ctx context.Context, ev format.Event)
	// Failure, if set, runs when the forwarded call returns an error or
	// panics. The failure itself still propagates unchanged.
	Failure func(ctx context.Context, ev format.Event)
}

// Interception is the set of proxies created by one Install call.
type Interception struct {
	receiver *object.Receiver
	kind     object.Kind
	names    []string
	layers   []*object.Layer

	once sync.Once
}

// Install selects the receiver's methods of the given kind up to threshold and
// pushes a tracing proxy in front of each one.
func Install(r *object.Receiver, kind object.Kind, threshold object.Visibility, hooks Hooks) (*Interception, error) {
	names, err := selector.Select(r, kind, threshold)
	if err != nil {
		return nil, err
	}

	ic := &Interception{receiver: r, kind: kind}
	for _, name := range names {
		m, ok := r.Method(kind, name)
		if !ok {
			continue
		}
		layer, err := r.PushLayer(kind, name, proxy(r, kind, m, hooks))
		if err != nil {
			ic.Uninstall()
			return nil, err
		}
		ic.names = append(ic.names, name)
		ic.layers = append(ic.layers, layer)
	}
	return ic, nil
}

// Receiver returns the receiver the interception was installed on.
func (ic *Interception) Receiver() *object.Receiver { return ic.receiver }

// Kind returns the method kind the interception covers.
func (ic *Interception) Kind() object.Kind { return ic.kind }

// Names returns the intercepted method names.
func (ic *Interception) Names() []string { return ic.names }

// Uninstall removes exactly the proxies this interception installed. Calls
// after the first do nothing.
func (ic *Interception) Uninstall() {
	ic.once.Do(func() {
		for i, layer := range ic.layers {
			ic.receiver.RemoveLayer(ic.kind, ic.names[i], layer)
		}
	})
}

// proxy builds the decorator for one method.
func proxy(r *object.Receiver, kind object.Kind, m object.Method, hooks Hooks) object.LayerFunc {
	base := format.Event{
		Receiver: r.Name(),
		Main:     r.IsMain(),
		Sep:      kind.Separator(),
		Method:   m.Name,
	}

	return func(ctx context.Context, _ object.Object, args object.Args, next object.Next) (any, error) {
		ev := base
		ev.Kind = format.KindCall
		ev.Args = args
		hooks.Call(ctx, ev)

		fwd := args
		if !acceptsNamed(r, kind, m) {
			fwd = args.WithoutNamed()
		}

		result, err := forward(ctx, fwd, next, hooks.Failure, ev)
		if err != nil {
			return result, err
		}

		ev.Kind = format.KindReturn
		ev.Result = result
		hooks.Return(ctx, ev)
		return result, nil
	}
}

// acceptsNamed reads the flag from the method as currently registered, so a
// redefinition after Install is honoured.
func acceptsNamed(r *object.Receiver, kind object.Kind, m object.Method) bool {
	if cur, ok := r.Method(kind, m.Name); ok {
		return cur.AcceptsNamed
	}
	return m.AcceptsNamed
}

func forward(ctx context.Context, args object.Args, next object.Next, failure func(context.Context, format.Event), ev format.Event) (result any, err error) {
	if failure == nil {
		return next(ctx, args)
	}
	completed := false
	defer func() {
		if !completed || err != nil {
			failure(ctx, ev)
		}
	}()
	result, err = next(ctx, args)
	completed = true
	return result, err
}
