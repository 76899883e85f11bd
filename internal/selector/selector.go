// Package selector computes which methods of a receiver get traced.
package selector

import "tracewrap/object"

// Select returns the names of the receiver's methods of the given kind whose
// visibility is within threshold, in definition order. Root methods are
// never selected. Instance selection on a receiver that cannot produce
// instances is empty.
func Select(r *object.Receiver, kind object.Kind, threshold object.Visibility) ([]string, error) {
	if !threshold.Valid() {
		return nil, object.InvalidOption("visibility", uint8(threshold))
	}
	if !kind.Valid() {
		return nil, object.InvalidOption("method kind", uint8(kind))
	}
	if kind == object.Instance && !r.CanInstantiate() {
		return nil, nil
	}

	var names []string
	for _, m := range r.Methods(kind) {
		if object.IsRootMethod(m.Name) || !threshold.Includes(m.Visibility) {
			continue
		}
		names = append(names, m.Name)
	}
	return names, nil
}
