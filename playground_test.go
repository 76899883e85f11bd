package tracewrap

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"tracewrap/object"
)

var errNegative = errors.New("must be positive")

func join(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}

// newPlayModule mirrors a module with a yielding method and a plain one.
func newPlayModule() *object.Receiver {
	return object.NewModule("PlayModule").
		Define(object.Method{Name: "one", Func: func(_ context.Context, _ object.Object, args object.Args) (any, error) {
			return fmt.Sprintf("%v and a one", args.At(0, "")), nil
		}}).
		Define(object.Method{Name: "two", AcceptsNamed: true, Func: func(ctx context.Context, _ object.Object, args object.Args) (any, error) {
			return args.Yield(ctx, object.Args{List: args.List}.Values()...)
		}})
}

// newPlayClass has self and instance methods of every visibility.
func newPlayClass() *object.Receiver {
	cls := object.NewClass("PlayClass")
	cls.Define(object.Method{Name: "play_hello", Func: func(ctx context.Context, _ object.Object, _ object.Args) (any, error) {
		return cls.New().Call(ctx, "play", "hello", "world")
	}})
	cls.DefineInstance(object.Method{Name: "play", Func: func(_ context.Context, _ object.Object, args object.Args) (any, error) {
		return join(args.Positional()), nil
	}})
	cls.DefineInstance(object.Method{Name: "play_friendly", Func: func(ctx context.Context, self object.Object, args object.Args) (any, error) {
		return self.Send(ctx, "friendly", args.Values()...)
	}})
	cls.DefineInstance(object.Method{Name: "play_solitaire", Func: func(ctx context.Context, self object.Object, args object.Args) (any, error) {
		return self.Send(ctx, "solitaire", args.Values()...)
	}})
	cls.DefineInstance(object.Method{Name: "friendly", Visibility: object.Protected, Func: func(_ context.Context, _ object.Object, args object.Args) (any, error) {
		return "friends: " + join(args.Positional()), nil
	}})
	cls.DefineInstance(object.Method{Name: "solitaire", Visibility: object.Private, Func: func(_ context.Context, _ object.Object, args object.Args) (any, error) {
		return "solo: " + join(args.Positional()), nil
	}})
	return cls
}

// newPlayArgs exercises every argument shape.
func newPlayArgs() *object.Receiver {
	named := func(args object.Args) []string {
		var out []string
		for _, arg := range args.Named() {
			out = append(out, fmt.Sprintf("%s=%v", arg.Name, arg.Value))
		}
		sort.Strings(out)
		return out
	}
	return object.NewModule("PlayArgs").
		Define(object.Method{Name: "full", AcceptsNamed: true, Func: func(_ context.Context, _ object.Object, args object.Args) (any, error) {
			a, ok := args.Lookup("a")
			if !ok {
				a = 3
			}
			return []int{args.At(0, 0).(int), args.At(1, 1).(int), a.(int)}, nil
		}}).
		Define(object.Method{Name: "full_rest", AcceptsNamed: true, Func: func(ctx context.Context, _ object.Object, args object.Args) (any, error) {
			return args.Yield(ctx, object.Args{List: args.List}.Values()...)
		}}).
		Define(object.Method{Name: "rest", Func: func(_ context.Context, _ object.Object, args object.Args) (any, error) {
			var out []string
			for _, v := range args.Positional() {
				out = append(out, fmt.Sprint(v))
			}
			return out, nil
		}}).
		Define(object.Method{Name: "key_rest", AcceptsNamed: true, Func: func(_ context.Context, _ object.Object, args object.Args) (any, error) {
			return named(args), nil
		}}).
		Define(object.Method{Name: "both_rest", AcceptsNamed: true, Func: func(_ context.Context, _ object.Object, args object.Args) (any, error) {
			return len(args.Positional()) + len(named(args)), nil
		}})
}

// newPlayFib is a naive recursive fibonacci, for deep nesting.
func newPlayFib() *object.Receiver {
	return object.NewClass("PlayFib").DefineInstance(object.Method{Name: "fib",
		Func: func(ctx context.Context, self object.Object, args object.Args) (any, error) {
			n := args.At(0, 0).(int)
			if n < 0 {
				return nil, errNegative
			}
			if n <= 1 {
				return 1, nil
			}
			a, err := self.Call(ctx, "fib", n-1)
			if err != nil {
				return nil, err
			}
			b, err := self.Call(ctx, "fib", n-2)
			if err != nil {
				return nil, err
			}
			return a.(int) + b.(int), nil
		}})
}

func playground() map[string]*object.Receiver {
	return map[string]*object.Receiver{
		"PlayModule": newPlayModule(),
		"PlayClass":  newPlayClass(),
		"PlayArgs":   newPlayArgs(),
		"PlayFib":    newPlayFib(),
	}
}
