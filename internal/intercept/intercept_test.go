package intercept

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracewrap/internal/format"
	"tracewrap/object"
)

// recorder collects hook invocations as short strings.
type recorder struct {
	events []string
}

func (r *recorder) hooks(tag string) Hooks {
	return Hooks{
		Call: func(_ context.Context, ev format.Event) {
			r.events = append(r.events, fmt.Sprintf("%s call %s%s%s %v", tag, ev.Receiver, ev.Sep, ev.Method, ev.Args.List))
		},
		Return: func(_ context.Context, ev format.Event) {
			r.events = append(r.events, fmt.Sprintf("%s return %s%s%s %v", tag, ev.Receiver, ev.Sep, ev.Method, ev.Result))
		},
	}
}

var errBoom = errors.New("boom")

func newMod() *object.Receiver {
	return object.NewModule("Mod").
		Define(object.Method{Name: "one", Func: func(_ context.Context, _ object.Object, args object.Args) (any, error) {
			return fmt.Sprintf("%v and a one", args.At(0, "")), nil
		}}).
		Define(object.Method{Name: "kw", AcceptsNamed: true, Func: func(_ context.Context, _ object.Object, args object.Args) (any, error) {
			return args.List, nil
		}}).
		Define(object.Method{Name: "plain", Func: func(_ context.Context, _ object.Object, args object.Args) (any, error) {
			if args.Named() != nil {
				return nil, errors.New("named container leaked")
			}
			return len(args.List), nil
		}}).
		Define(object.Method{Name: "fail", Func: func(context.Context, object.Object, object.Args) (any, error) {
			return "partial", errBoom
		}}).
		Define(object.Method{Name: "explode", Func: func(context.Context, object.Object, object.Args) (any, error) {
			panic("kaboom")
		}}).
		Define(object.Method{Name: "secret", Visibility: object.Private, Func: func(context.Context, object.Object, object.Args) (any, error) {
			return "s", nil
		}})
}

func TestInstallForwardsAndRecords(t *testing.T) {
	ctx := context.Background()
	mod := newMod()
	rec := &recorder{}

	ic, err := Install(mod, object.Self, object.Protected, rec.hooks("t"))
	require.NoError(t, err)
	defer ic.Uninstall()

	assert.Equal(t, []string{"one", "kw", "plain", "fail", "explode"}, ic.Names())
	assert.Equal(t, object.Self, ic.Kind())
	assert.Same(t, mod, ic.Receiver())

	out, err := mod.Call(ctx, "one", "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc and a one", out)
	assert.Equal(t, []string{
		`t call Mod.one [{ abc}]`,
		`t return Mod.one abc and a one`,
	}, rec.events)
}

func TestNamedArgumentsForwarding(t *testing.T) {
	ctx := context.Background()
	mod := newMod()
	rec := &recorder{}
	ic, err := Install(mod, object.Self, object.Public, rec.hooks("t"))
	require.NoError(t, err)
	defer ic.Uninstall()

	out, err := mod.Call(ctx, "kw", 1, object.Kw("a", 2))
	require.NoError(t, err)
	assert.Equal(t, []object.Arg{{Value: 1}, {Name: "a", Value: 2}}, out)

	out, err = mod.Call(ctx, "plain", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, out)
}

func TestProxyStripsNamedForPlainMethods(t *testing.T) {
	ctx := context.Background()
	mod := newMod()
	m, ok := mod.Method(object.Self, "plain")
	require.True(t, ok)
	rec := &recorder{}

	var forwarded object.Args
	next := func(_ context.Context, args object.Args) (any, error) {
		forwarded = args
		return len(args.List), nil
	}
	layer := proxy(mod, object.Self, m, rec.hooks("t"))
	out, err := layer(ctx, mod, object.ArgsOf(1, object.Kw("a", 2)), next)
	require.NoError(t, err)
	assert.Equal(t, 1, out)
	assert.False(t, forwarded.HasNamed())
	assert.Equal(t, []object.Arg{{Value: 1}}, forwarded.List)
	assert.Equal(t, []string{
		`t call Mod.plain [{ 1} {a 2}]`,
		`t return Mod.plain 1`,
	}, rec.events)
}

func TestRedefinitionChangesNamedForwarding(t *testing.T) {
	ctx := context.Background()
	mod := object.NewModule("M").Define(object.Method{Name: "m",
		Func: func(_ context.Context, _ object.Object, args object.Args) (any, error) {
			return len(args.List), nil
		}})
	rec := &recorder{}
	ic, err := Install(mod, object.Self, object.Public, rec.hooks("t"))
	require.NoError(t, err)

	mod.Define(object.Method{Name: "m", AcceptsNamed: true,
		Func: func(_ context.Context, _ object.Object, args object.Args) (any, error) {
			v, _ := args.Lookup("a")
			return v, nil
		}})

	traced, err := mod.Call(ctx, "m", object.Kw("a", 7))
	require.NoError(t, err)
	ic.Uninstall()
	plain, err := mod.Call(ctx, "m", object.Kw("a", 7))
	require.NoError(t, err)

	assert.Equal(t, 7, traced)
	assert.Equal(t, plain, traced)
	assert.Equal(t, []string{
		`t call M.m [{a 7}]`,
		`t return M.m 7`,
	}, rec.events)
}

func TestFailurePropagatesWithoutReturn(t *testing.T) {
	ctx := context.Background()
	mod := newMod()
	rec := &recorder{}
	ic, err := Install(mod, object.Self, object.Public, rec.hooks("t"))
	require.NoError(t, err)
	defer ic.Uninstall()

	out, err := mod.Call(ctx, "fail")
	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, "partial", out)
	assert.Equal(t, []string{`t call Mod.fail []`}, rec.events)

	rec.events = nil
	assert.PanicsWithValue(t, "kaboom", func() { _, _ = mod.Call(ctx, "explode") })
	assert.Equal(t, []string{`t call Mod.explode []`}, rec.events)
}

func TestFailureHook(t *testing.T) {
	ctx := context.Background()
	mod := newMod()
	rec := &recorder{}
	hooks := rec.hooks("t")
	hooks.Failure = func(_ context.Context, ev format.Event) {
		rec.events = append(rec.events, "t failure "+ev.Method)
	}
	ic, err := Install(mod, object.Self, object.Public, hooks)
	require.NoError(t, err)
	defer ic.Uninstall()

	_, err = mod.Call(ctx, "fail")
	require.ErrorIs(t, err, errBoom)
	assert.PanicsWithValue(t, "kaboom", func() { _, _ = mod.Call(ctx, "explode") })
	_, err = mod.Call(ctx, "one", "x")
	require.NoError(t, err)

	assert.Equal(t, []string{
		`t call Mod.fail []`,
		`t failure fail`,
		`t call Mod.explode []`,
		`t failure explode`,
		`t call Mod.one [{ x}]`,
		`t return Mod.one x and a one`,
	}, rec.events)
}

func TestLayeredInstallUnwrapOrder(t *testing.T) {
	ctx := context.Background()
	mod := newMod()
	rec := &recorder{}

	first, err := Install(mod, object.Self, object.Public, rec.hooks("first"))
	require.NoError(t, err)
	second, err := Install(mod, object.Self, object.Public, rec.hooks("second"))
	require.NoError(t, err)
	assert.Equal(t, 2, mod.Layers(object.Self, "one"))

	_, err = mod.Call(ctx, "one", "a")
	require.NoError(t, err)
	assert.Equal(t, []string{
		`second call Mod.one [{ a}]`,
		`first call Mod.one [{ a}]`,
		`first return Mod.one a and a one`,
		`second return Mod.one a and a one`,
	}, rec.events)

	// Removing the older layer keeps the newer one working.
	rec.events = nil
	first.Uninstall()
	_, err = mod.Call(ctx, "one", "b")
	require.NoError(t, err)
	assert.Equal(t, []string{
		`second call Mod.one [{ b}]`,
		`second return Mod.one b and a one`,
	}, rec.events)

	second.Uninstall()
	second.Uninstall()
	first.Uninstall()
	assert.Equal(t, 0, mod.Layers(object.Self, "one"))

	rec.events = nil
	out, err := mod.Call(ctx, "one", "c")
	require.NoError(t, err)
	assert.Equal(t, "c and a one", out)
	assert.Empty(t, rec.events)
}

func TestInstallInstanceMethods(t *testing.T) {
	ctx := context.Background()
	cls := object.NewClass("PlayFib").DefineInstance(object.Method{Name: "fib",
		Func: func(ctx context.Context, self object.Object, args object.Args) (any, error) {
			n := args.At(0, 0).(int)
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

	rec := &recorder{}
	ic, err := Install(cls, object.Instance, object.Protected, rec.hooks("t"))
	require.NoError(t, err)
	defer ic.Uninstall()

	out, err := cls.New().Call(ctx, "fib", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, out)
	assert.Equal(t, []string{
		`t call PlayFib#fib [{ 2}]`,
		`t call PlayFib#fib [{ 1}]`,
		`t return PlayFib#fib 1`,
		`t call PlayFib#fib [{ 0}]`,
		`t return PlayFib#fib 1`,
		`t return PlayFib#fib 2`,
	}, rec.events)
}

func TestInstallInvalidInstallsNothing(t *testing.T) {
	mod := newMod()
	_, err := Install(mod, object.Self, object.Visibility(0), (&recorder{}).hooks("t"))
	require.True(t, errors.Is(err, object.ErrInvalidOption))
	assert.Equal(t, 0, mod.Layers(object.Self, "one"))
}

func TestPrivateSelection(t *testing.T) {
	ctx := context.Background()
	mod := newMod()
	rec := &recorder{}
	ic, err := Install(mod, object.Self, object.Private, rec.hooks("t"))
	require.NoError(t, err)
	defer ic.Uninstall()
	assert.Contains(t, ic.Names(), "secret")

	out, err := mod.Send(ctx, "secret")
	require.NoError(t, err)
	assert.Equal(t, "s", out)
	assert.True(t, strings.HasPrefix(rec.events[0], "t call Mod.secret"))
}
