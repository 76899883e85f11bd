// Package object provides the receiver model that tracewrap instruments.
//
// Go cannot patch methods at run time, so traceable code registers its entry
// points explicitly. A Receiver is either a module (a namespace of functions)
// or a class, a namespace whose instances (Obj values) share one instance
// method table. Every method is registered with a Visibility and a flag saying
// whether it accepts named arguments.
//
// # Dispatch
//
// Calls go through Call (public methods only) or Send (any visibility):
//
//	mod := object.NewModule("Greeter")
//	mod.Define(object.Method{Name: "hello", Func: hello})
//	out, err := mod.Call(ctx, "hello", "world", object.Kw("loud", true))
//
// Each method owns a chain of layers. A call enters the newest layer, and every
// layer receives a Next continuation that resolves to the next-older layer,
// ending at the registered implementation. Layers can be removed in any order;
// removing one exposes the rest of the chain intact.
//
// # Root methods
//
// Receivers answer "name" and "inspect", instances answer "class" and
// "inspect". These form the universal base shared by every object and are
// never selected for tracing.
package object
