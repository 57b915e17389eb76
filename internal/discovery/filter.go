package discovery

import (
	"fmt"
	"path/filepath"
	"strings"

	"imprint/internal/domain"
)

// Filter filters test files by name pattern and test items by scope
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName filters test files by name pattern using wildcard matching
// Supports patterns like "test_user*.py" or "*payment*"
func (f *Filter) FilterByName(tests []string, pattern string) []string {
	if pattern == "" {
		return tests
	}

	var filtered []string

	for _, test := range tests {
		testName := filepath.Base(test)

		matched, err := filepath.Match(pattern, testName)
		if err == nil && matched {
			filtered = append(filtered, test)
			continue
		}

		// Flexible match for patterns like "*payment*": every non-empty part must occur
		if strings.Contains(pattern, "*") {
			hasNonEmptyPart := false
			allPartsMatch := true
			for _, part := range strings.Split(pattern, "*") {
				if part == "" {
					continue
				}
				hasNonEmptyPart = true
				if !strings.Contains(testName, part) {
					allPartsMatch = false
					break
				}
			}
			if hasNonEmptyPart && allPartsMatch {
				filtered = append(filtered, test)
			}
			continue
		}

		// If no wildcards, do a simple contains check
		if !strings.Contains(pattern, "?") && strings.Contains(testName, pattern) {
			filtered = append(filtered, test)
		}
	}

	return filtered
}

// InScope reports whether file lies in scope or one of its subdirectories.
// Both paths are resolved to absolute form first.
func (f *Filter) InScope(file, scope string) (bool, error) {
	absScope, err := filepath.Abs(scope)
	if err != nil {
		return false, fmt.Errorf("resolve scope %s: %w", scope, err)
	}
	absFile, err := filepath.Abs(file)
	if err != nil {
		return false, fmt.Errorf("resolve test file %s: %w", file, err)
	}

	rel, err := filepath.Rel(absScope, filepath.Dir(absFile))
	if err != nil {
		return false, nil
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))), nil
}

// FilterByScope keeps the items whose source file lies under scope
func (f *Filter) FilterByScope(items []domain.TestItem, scope string) ([]domain.TestItem, error) {
	var filtered []domain.TestItem
	for _, item := range items {
		ok, err := f.InScope(item.Location.File, scope)
		if err != nil {
			return nil, err
		}
		if ok {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}
