package domain

import (
	"fmt"
	"strings"
)

// Marker is a named test annotation with positional arguments, e.g. testcaseid(12345)
type Marker struct {
	Name string `json:"name" yaml:"name"`
	Args []any  `json:"args,omitempty" yaml:"args,omitempty"`
}

// Unwrap returns the marker itself
func (m Marker) Unwrap() Marker {
	return m
}

// ArgStrings returns the natural string form of every argument
func (m Marker) ArgStrings() []string {
	args := make([]string, len(m.Args))
	for i, arg := range m.Args {
		args[i] = fmt.Sprint(arg)
	}
	return args
}

// Equal reports structural identity: same name and same rendered arguments.
// Arguments read back from source are text while assigned ones may be numbers,
// so they are compared by their string form.
func (m Marker) Equal(other Marker) bool {
	if m.Name != other.Name || len(m.Args) != len(other.Args) {
		return false
	}
	mine, theirs := m.ArgStrings(), other.ArgStrings()
	for i := range mine {
		if mine[i] != theirs[i] {
			return false
		}
	}
	return true
}

// String renders the marker without namespace, e.g. "testcaseid(12345)" or "slow"
func (m Marker) String() string {
	if len(m.Args) == 0 {
		return m.Name
	}
	return m.Name + "(" + strings.Join(m.ArgStrings(), ", ") + ")"
}

// MarkDecorator wraps a Marker the way a decorator factory (pytest.mark.x) does
type MarkDecorator struct {
	Mark Marker
}

// Unwrap returns the wrapped marker
func (d MarkDecorator) Unwrap() Marker {
	return d.Mark
}

// Markable is either a bare Marker or a MarkDecorator
type Markable interface {
	Unwrap() Marker
}

// ContainsMarker reports whether a structurally equal marker is in markers
func ContainsMarker(markers []Marker, m Marker) bool {
	for _, existing := range markers {
		if existing.Equal(m) {
			return true
		}
	}
	return false
}

// MarkerStrings renders each marker with String
func MarkerStrings(markers []Marker) []string {
	out := make([]string, len(markers))
	for i, m := range markers {
		out[i] = m.String()
	}
	return out
}
