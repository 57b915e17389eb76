package selector

import (
	"sort"

	"imprint/internal/discovery"
	"imprint/internal/domain"
)

// Selector partitions discovered tests into singular items and parametrized families
type Selector struct {
	filter *discovery.Filter
}

// New creates a new Selector
func New(filter *discovery.Filter) *Selector {
	return &Selector{filter: filter}
}

// Select keeps the items under scope, looks up their markers by exact display
// name and routes them. Variants of a parametrized function are grouped by
// function; groups and items keep discovery order. Nothing is deduplicated here.
func (s *Selector) Select(items []domain.TestItem, assignment domain.Assignment, scope string) (domain.Selection, error) {
	var sel domain.Selection
	families := make(map[domain.FunctionID]int)

	for _, item := range items {
		ok, err := s.filter.InScope(item.Location.File, scope)
		if err != nil {
			return domain.Selection{}, err
		}
		if !ok {
			continue
		}

		entry := domain.Assigned{Item: item, Markers: assignment.Lookup(item.Name)}
		if !item.IsParametrized() {
			sel.Singular = append(sel.Singular, entry)
			continue
		}

		idx, seen := families[item.Function]
		if !seen {
			idx = len(sel.Parametrized)
			families[item.Function] = idx
			sel.Parametrized = append(sel.Parametrized, domain.Family{Function: item.Function})
		}
		sel.Parametrized[idx].Variants = append(sel.Parametrized[idx].Variants, entry)
	}

	return sel, nil
}

// Unmatched returns the assigned test names no item carries, sorted
func Unmatched(items []domain.TestItem, assignment domain.Assignment) []string {
	known := make(map[string]bool, len(items))
	for _, item := range items {
		known[item.Name] = true
	}

	var names []string
	for name := range assignment {
		if !known[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
