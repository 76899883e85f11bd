// Package execctx tracks per-execution-context trace state: indentation depth
// and display colour, keyed by process and goroutine.
package execctx

import (
	"strconv"
	"sync"
	"sync/atomic"
)

// Context is the trace state of one execution context.
type Context struct {
	id     ID
	colour int
	depth  atomic.Uint32
}

// ID returns the identity of the context.
func (c *Context) ID() ID { return c.id }

// Colour returns the palette index assigned to the context.
func (c *Context) Colour() int { return c.colour }

// Depth returns the current indentation depth.
func (c *Context) Depth() uint32 { return c.depth.Load() }

// Increment nests one level deeper.
func (c *Context) Increment() { c.depth.Add(1) }

// Decrement leaves one level, never going below zero.
func (c *Context) Decrement() {
	for {
		d := c.depth.Load()
		if d == 0 {
			return
		}
		if c.depth.CompareAndSwap(d, d-1) {
			return
		}
	}
}

// Tracker owns the context registry of one tracer.
type Tracker struct {
	origin  ID
	palette int

	mu       sync.Mutex
	contexts map[ID]*Context
}

// NewTracker creates a Tracker whose main context is origin. Colours are
// assigned from a palette of paletteSize entries.
func NewTracker(origin ID, paletteSize int) *Tracker {
	if paletteSize <= 0 {
		paletteSize = 1
	}
	return &Tracker{
		origin:   origin,
		palette:  paletteSize,
		contexts: make(map[ID]*Context),
	}
}

// Origin returns the main context ID.
func (t *Tracker) Origin() ID { return t.origin }

// Get returns the context for id, creating it on first use. The palette
// index is the number of contexts seen before it, wrapping around.
func (t *Tracker) Get(id ID) *Context {
	t.mu.Lock()
	defer t.mu.Unlock()
	if c, ok := t.contexts[id]; ok {
		return c
	}
	c := &Context{id: id, colour: len(t.contexts) % t.palette}
	t.contexts[id] = c
	return c
}

// Len returns the number of contexts seen so far.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.contexts)
}

// Tag returns the label printed in front of lines from id. The main context
// has no tag. A primary thread of another process is labelled by its pid;
// anything else by "pid:" plus the last four characters of the thread, with
// the pid dropped when it matches the main process.
func (t *Tracker) Tag(id ID) string {
	if id == t.origin {
		return ""
	}
	pid := strconv.Itoa(id.PID)
	if id.Primary {
		return pid
	}
	thread := id.Thread
	if r := []rune(thread); len(r) > 4 {
		thread = string(r[len(r)-4:])
	}
	if id.PID == t.origin.PID {
		return thread
	}
	return pid + ":" + thread
}
