package domain

// Span is an inclusive, 1-based line range inside a source file
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Overlaps reports whether two spans share at least one line
func (s Span) Overlaps(other Span) bool {
	return s.Start <= other.End && other.Start <= s.End
}

// Location points at a test definition in a source file
type Location struct {
	File string // Path to the source file
	Line int    // Line of the def statement
	Span Span   // Lines of the whole definition including decorators
}

// FunctionID identifies the function behind one or more test items
type FunctionID string

// NewFunctionID builds the identity of a function from its file and qualified name
func NewFunctionID(file, qualname string) FunctionID {
	return FunctionID(file + "::" + qualname)
}

// ParamValue is one entry of a parametrize header
type ParamValue struct {
	Text   string   // Source text placed inside param(...)
	ID     string   // Id used in the variant display name
	Kwargs string   // Extra keyword arguments of an explicit param(...) entry, e.g. id="x"
	Marks  []Marker // Markers already attached to this value
}

// Equal compares two values including their attached markers
func (v ParamValue) Equal(other ParamValue) bool {
	if v.Text != other.Text || v.ID != other.ID || v.Kwargs != other.Kwargs || len(v.Marks) != len(other.Marks) {
		return false
	}
	for i := range v.Marks {
		if !v.Marks[i].Equal(other.Marks[i]) {
			return false
		}
	}
	return true
}

// ParametrizeHeader is the (parameter name, values) declaration of a parametrized function
type ParametrizeHeader struct {
	ParamName string
	Values    []ParamValue
	Kwargs    string // Other keyword arguments as source text, e.g. indirect=True
}

// Equal reports whether two headers declare the same name, keyword arguments and values in the same order
func (h ParametrizeHeader) Equal(other ParametrizeHeader) bool {
	if h.ParamName != other.ParamName || h.Kwargs != other.Kwargs || len(h.Values) != len(other.Values) {
		return false
	}
	for i := range h.Values {
		if !h.Values[i].Equal(other.Values[i]) {
			return false
		}
	}
	return true
}

// TestItem is one concrete, runnable test instance
type TestItem struct {
	Name            string             // Display name, with [id] suffix for parametrized variants
	OriginalName    string             // Function name without suffix
	Function        FunctionID         // Shared by all variants of one function
	Location        Location           // Where the definition lives
	Source          string             // Exact text of Location.Span at discovery time
	ExistingMarkers []Marker           // Markers already decorating the function
	Parametrize     *ParametrizeHeader // Set only for parametrized variants
}

// IsParametrized reports whether the item is a variant of a parametrized function
func (t TestItem) IsParametrized() bool {
	return t.Parametrize != nil
}

// Assigned pairs a test item with the markers to apply to it
type Assigned struct {
	Item    TestItem
	Markers []Marker
}

// Family groups the variants of one parametrized function
type Family struct {
	Function FunctionID
	Variants []Assigned
}

// Selection is the Selector output: singular items and parametrized families,
// both in discovery order
type Selection struct {
	Singular     []Assigned
	Parametrized []Family
}
