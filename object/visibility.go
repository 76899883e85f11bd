package object

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrInvalidOption marks errors caused by an unrecognised option value.
var ErrInvalidOption = errors.New("invalid option")

// InvalidOption returns an ErrInvalidOption error naming the option and the
// value that was received.
func InvalidOption(option string, value any) error {
	return errors.Mark(errors.Newf("invalid %s: %v", option, value), ErrInvalidOption)
}

// Visibility is the accessibility level of a method.
// Higher values are less accessible, so thresholds cascade.
type Visibility uint8

const (
	// Public methods are callable from anywhere.
	Public Visibility = iota + 1
	// Protected methods are callable from the receiver and its relatives.
	Protected
	// Private methods are callable only through Send.
	Private
)

// String returns the string representation of Visibility.
func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Protected:
		return "protected"
	case Private:
		return "private"
	default:
		return "unknown"
	}
}

// Valid reports whether v is one of the declared visibilities.
func (v Visibility) Valid() bool {
	return v >= Public && v <= Private
}

// Includes reports whether a method with visibility m is selected by the
// threshold v.
func (v Visibility) Includes(m Visibility) bool {
	return m.Valid() && m <= v
}

// ParseVisibility converts a string to a Visibility.
func ParseVisibility(s string) (Visibility, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "public":
		return Public, nil
	case "protected":
		return Protected, nil
	case "private":
		return Private, nil
	default:
		return 0, InvalidOption("visibility", strings.TrimSpace(s)+" (expected: public|protected|private)")
	}
}

// Kind selects which method table of a receiver is addressed.
type Kind uint8

const (
	// Self addresses methods callable on the receiver itself.
	Self Kind = iota + 1
	// Instance addresses methods callable on instances of a class.
	Instance
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case Self:
		return "self"
	case Instance:
		return "instance"
	default:
		return "unknown"
	}
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k == Self || k == Instance
}

// Separator is the token placed between receiver and method name when a call
// of this kind is displayed.
func (k Kind) Separator() string {
	if k == Instance {
		return "#"
	}
	return "."
}
