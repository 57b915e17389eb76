package discovery

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imprint/internal/domain"
)

func TestFilter_FilterByName(t *testing.T) {
	filter := NewFilter()

	tests := []struct {
		name     string
		tests    []string
		pattern  string
		expected int // Expected number of matches
	}{
		{
			name:     "empty pattern returns all",
			tests:    []string{"test_user.py", "test_payment.py", "test_order.py"},
			pattern:  "",
			expected: 3,
		},
		{
			name:     "wildcard pattern matches suffix",
			tests:    []string{"test_user.py", "test_payment.py", "test_order.py"},
			pattern:  "*user.py",
			expected: 1,
		},
		{
			name:     "wildcard pattern matches substring",
			tests:    []string{"test_user.py", "test_payment.py", "test_order.py", "test_payment_service.py"},
			pattern:  "*payment*",
			expected: 2,
		},
		{
			name:     "simple contains match",
			tests:    []string{"test_user.py", "test_payment.py", "test_order.py"},
			pattern:  "payment",
			expected: 1,
		},
		{
			name:     "no matches",
			tests:    []string{"test_user.py", "test_payment.py"},
			pattern:  "*nonexistent*",
			expected: 0,
		},
		{
			name:     "full path with wildcard",
			tests:    []string{"/path/to/test_user.py", "/path/to/test_payment.py"},
			pattern:  "*user.py",
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := filter.FilterByName(tt.tests, tt.pattern)
			assert.Len(t, result, tt.expected)
		})
	}
}

func TestFilter_InScope(t *testing.T) {
	filter := NewFilter()
	root := t.TempDir()

	tests := []struct {
		name  string
		file  string
		scope string
		want  bool
	}{
		{"file directly in scope", filepath.Join(root, "tests", "test_a.py"), filepath.Join(root, "tests"), true},
		{"file in nested directory", filepath.Join(root, "tests", "api", "test_a.py"), filepath.Join(root, "tests"), true},
		{"file outside scope", filepath.Join(root, "other", "test_a.py"), filepath.Join(root, "tests"), false},
		{"sibling with shared prefix", filepath.Join(root, "tests2", "test_a.py"), filepath.Join(root, "tests"), false},
		{"file above scope", filepath.Join(root, "test_a.py"), filepath.Join(root, "tests"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := filter.InScope(tt.file, tt.scope)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilter_FilterByScope(t *testing.T) {
	filter := NewFilter()
	root := t.TempDir()

	items := []domain.TestItem{
		{Name: "test_in", Location: domain.Location{File: filepath.Join(root, "tests", "test_a.py")}},
		{Name: "test_out", Location: domain.Location{File: filepath.Join(root, "scripts", "test_b.py")}},
	}

	filtered, err := filter.FilterByScope(items, filepath.Join(root, "tests"))
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "test_in", filtered[0].Name)
}
