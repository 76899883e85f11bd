package format

import (
	"fmt"

	"tracewrap/object"
)

const (
	// PreviewLimit is the number of characters kept from a long preview.
	PreviewLimit = 20
	// Ellipsis marks a truncated preview.
	Ellipsis = "…"
)

// Inspect returns the debug representation of v: Inspect() for
// object.Inspector values, Go syntax otherwise.
func Inspect(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case object.Inspector:
		return x.Inspect()
	default:
		return fmt.Sprintf("%#v", v)
	}
}

// Preview returns the debug representation of v, truncated to PreviewLimit
// characters followed by an ellipsis and the final character.
func Preview(v any) string {
	return Truncate(Inspect(v))
}

// Truncate applies the preview length rule to text.
func Truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= PreviewLimit {
		return text
	}
	return string(runes[:PreviewLimit]) + Ellipsis + string(runes[len(runes)-1])
}
