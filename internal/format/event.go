package format

import "tracewrap/object"

// Kind represents the type of trace event.
type Kind uint8

const (
	// KindCall marks entry into a traced method.
	KindCall Kind = iota + 1
	// KindReturn marks a traced method returning normally.
	KindReturn
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindCall:
		return "call"
	case KindReturn:
		return "return"
	default:
		return "unknown"
	}
}

// Event is one call or return of a traced method.
type Event struct {
	Kind     Kind
	Receiver string // display name of the receiver
	Main     bool   // receiver is the top-level receiver
	Sep      string // "." for self methods, "#" for instance methods
	Method   string
	Args     object.Args
	Result   any // set on KindReturn
}
