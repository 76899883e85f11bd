package execctx

import (
	"bytes"
	"context"
	"os"
	"runtime"
	"strconv"
)

// mainGoroutine is the id the runtime gives the goroutine running main.main.
const mainGoroutine = 1

// ID identifies one logical thread of execution.
type ID struct {
	PID     int
	Thread  string
	Primary bool // Thread is the primary thread of process PID
}

// String returns "pid:thread".
func (id ID) String() string {
	return strconv.Itoa(id.PID) + ":" + id.Thread
}

// Ambient returns the ID of the calling goroutine.
func Ambient() ID {
	gid := goroutineID()
	return ID{
		PID:     os.Getpid(),
		Thread:  strconv.FormatUint(gid, 10),
		Primary: gid == mainGoroutine,
	}
}

// goroutineID extracts the current goroutine ID using runtime.Stack.
func goroutineID() uint64 {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	buf = buf[:n]

	// Stack format: "goroutine 123 [running]:\n..."
	const prefix = "goroutine "
	if !bytes.HasPrefix(buf, []byte(prefix)) {
		return 0
	}

	buf = buf[len(prefix):]
	end := bytes.IndexByte(buf, ' ')
	if end < 0 {
		return 0
	}

	gid, err := strconv.ParseUint(string(buf[:end]), 10, 64)
	if err != nil {
		return 0
	}
	return gid
}

type ctxKey struct{}

// WithID attaches an explicit execution context ID.
func WithID(ctx context.Context, id ID) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey{}, id)
}

// Enter stamps the calling goroutine's ID on ctx. Call it at the entry point
// of each goroutine that makes traced calls, so the lookup happens once.
func Enter(ctx context.Context) context.Context {
	return WithID(ctx, Ambient())
}

// Current returns the ID carried by ctx, falling back to the calling
// goroutine's ambient ID.
func Current(ctx context.Context) ID {
	if ctx != nil {
		if id, ok := ctx.Value(ctxKey{}).(ID); ok {
			return id
		}
	}
	return Ambient()
}
