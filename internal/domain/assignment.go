package domain

// Assignment maps a test display name to the markers to apply, in order
type Assignment map[string][]Markable

// Lookup returns the unwrapped markers assigned to name; absent names get none
func (a Assignment) Lookup(name string) []Marker {
	marks, ok := a[name]
	if !ok {
		return nil
	}
	out := make([]Marker, 0, len(marks))
	for _, m := range marks {
		if m == nil {
			continue
		}
		out = append(out, m.Unwrap())
	}
	return out
}

// Add appends markers to the entry of name
func (a Assignment) Add(name string, marks ...Markable) {
	a[name] = append(a[name], marks...)
}
