// Package tracewrap writes a nested, human-readable trace of method calls on
// selected receivers: every call with its arguments and every return with a
// preview of its result.
//
// # Usage
//
// Wrap receivers for the duration of a block:
//
//	cfg := tracewrap.Config{Options: tracewrap.Options{Output: os.Stderr}}
//	err := tracewrap.Run(ctx, cfg, []*object.Receiver{mod, cls}, func(ctx context.Context, _ *tracewrap.Tracer) error {
//		_, err := mod.Call(ctx, "subject")
//		return err
//	})
//
// or until Unwrap is called:
//
//	tracer := tracewrap.New(tracewrap.Options{Colour: tracewrap.ColourOff})
//	err := tracer.WrapWith(tracewrap.WrapOptions{MethodType: tracewrap.SelfMethods}, mod)
//	...
//	tracer.Unwrap()
//
// Output looks like:
//
//	  MyClass.meaning(x: 40)
//	    MyClass#plus_two(40)
//	    MyClass#plus_two return 42
//	  MyClass.meaning return 42
//
// Self methods are joined to the receiver with ".", instance methods with "#".
// Long values are cut to 20 characters, an ellipsis and the final character.
//
// # Selection
//
// WrapOptions choose the method tables (self, instance or both) and a
// visibility threshold. Thresholds cascade: Protected selects public and
// protected methods, Private selects everything. Root methods such as
// "inspect" are never traced.
//
// # Execution contexts
//
// Each goroutine keeps its own indentation depth and colour. Lines from the
// goroutine that created the Tracer carry no tag; other goroutines are tagged
// with the last four characters of their id. Calls made with a context from
// EnterContext carry that identity without a stack lookup.
//
// # Profiles
//
// LoadProfile reads output and wrap settings from a TOML file; Profile.Open
// turns it into a Config.
package tracewrap
