package rewriter

import (
	"strings"

	"imprint/internal/domain"
)

// FormatMarker renders m as "<ns>.mark.<name>(<args>)". Arguments use their
// natural string form; the parentheses are omitted when there are none.
func FormatMarker(namespace string, m domain.Marker) string {
	out := namespace + ".mark." + m.Name
	if len(m.Args) > 0 {
		out += "(" + strings.Join(m.ArgStrings(), ", ") + ")"
	}
	return out
}

// FormatMarkers renders markers comma separated, for marks=[...]
func FormatMarkers(namespace string, markers []domain.Marker) string {
	formatted := make([]string, len(markers))
	for i, m := range markers {
		formatted[i] = FormatMarker(namespace, m)
	}
	return strings.Join(formatted, ", ")
}

// FormatDecoration renders m as a decorator line without indentation
func FormatDecoration(namespace string, m domain.Marker) string {
	return "@" + FormatMarker(namespace, m)
}

// appendMissing appends the markers of add not already present in base or earlier in add
func appendMissing(base, add []domain.Marker) []domain.Marker {
	out := append([]domain.Marker(nil), base...)
	for _, m := range add {
		if domain.ContainsMarker(out, m) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// pendingMarkers returns markers not already in existing, without repeats, in input order
func pendingMarkers(existing, markers []domain.Marker) []domain.Marker {
	var pending []domain.Marker
	for _, m := range markers {
		if domain.ContainsMarker(existing, m) || domain.ContainsMarker(pending, m) {
			continue
		}
		pending = append(pending, m)
	}
	return pending
}
