// Package tracetest provides helpers for asserting on trace output.
package tracetest

import (
	"regexp"
	"strings"
	"sync"
)

// Recorder is an io.Writer that keeps the last N complete lines written to
// it in a circular buffer. A capacity of zero keeps every line.
type Recorder struct {
	mu       sync.Mutex
	lines    []string
	capacity int
	head     int  // next write position when bounded
	full     bool // has wrapped around
	partial  strings.Builder
}

// NewRecorder creates a Recorder with the given capacity.
func NewRecorder(capacity int) *Recorder {
	if capacity < 0 {
		capacity = 0
	}
	r := &Recorder{capacity: capacity}
	if capacity > 0 {
		r.lines = make([]string, capacity)
	}
	return r
}

// Write splits p into lines. Text after the last newline is held until the
// line is completed by a later write.
func (r *Recorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	text := string(p)
	for {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			r.partial.WriteString(text)
			return len(p), nil
		}
		r.partial.WriteString(text[:i])
		r.add(r.partial.String())
		r.partial.Reset()
		text = text[i+1:]
	}
}

func (r *Recorder) add(line string) {
	if r.capacity == 0 {
		r.lines = append(r.lines, line)
		return
	}
	r.lines[r.head] = line
	r.head = (r.head + 1) % r.capacity
	if r.head == 0 {
		r.full = true
	}
}

// Lines returns a copy of the stored lines in chronological order.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.capacity == 0 {
		return append([]string(nil), r.lines...)
	}
	if !r.full {
		result := make([]string, r.head)
		copy(result, r.lines[:r.head])
		return result
	}
	result := make([]string, r.capacity)
	copy(result, r.lines[r.head:])
	copy(result[r.capacity-r.head:], r.lines[:r.head])
	return result
}

// String returns the stored lines, each terminated by a newline.
func (r *Recorder) String() string {
	lines := r.Lines()
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.head, r.full = 0, false
	r.partial.Reset()
	if r.capacity == 0 {
		r.lines = nil
		return
	}
	r.lines = make([]string, r.capacity)
}

var escapes = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripColour removes ANSI colour sequences from text.
func StripColour(text string) string {
	return escapes.ReplaceAllString(text, "")
}

// Dedent removes the common leading whitespace of a raw-string fixture and a
// leading newline, so expected traces can be written inline.
func Dedent(text string) string {
	text = strings.TrimPrefix(text, "\n")
	lines := strings.Split(text, "\n")
	common := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, "\t"))
		if common < 0 || n < common {
			common = n
		}
	}
	if common <= 0 {
		return text
	}
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}
		lines[i] = line[common:]
	}
	return strings.Join(lines, "\n")
}
