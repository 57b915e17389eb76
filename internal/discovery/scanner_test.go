package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanner_Scan(t *testing.T) {
	tmpDir := t.TempDir()

	testFiles := []string{
		"tests/unit/test_user.py",
		"tests/unit/payment_test.py",
		"tests/integration/test_order.py",
		"tests/unit/conftest.py",
		"venv/lib/test_vendored.py",
		".tox/py312/test_hidden.py",
		"helpers.py",
	}
	for _, file := range testFiles {
		fullPath := filepath.Join(tmpDir, file)
		require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0755))
		require.NoError(t, os.WriteFile(fullPath, []byte("def test_x():\n    pass\n"), 0644))
	}

	scanner := NewScanner([]string{"venv", "node_modules"}, []string{"test_*.py", "*_test.py"})

	t.Run("scans test files correctly", func(t *testing.T) {
		results, err := scanner.Scan(tmpDir)
		require.NoError(t, err)

		// Vendored, hidden and non-test files are skipped
		assert.Len(t, results, 3)
		assert.Contains(t, results, filepath.Join(tmpDir, "tests/unit/test_user.py"))
		assert.Contains(t, results, filepath.Join(tmpDir, "tests/unit/payment_test.py"))
		assert.Contains(t, results, filepath.Join(tmpDir, "tests/integration/test_order.py"))
	})

	t.Run("returns error for non-existent directory", func(t *testing.T) {
		_, err := scanner.Scan("/non/existent/path")
		assert.Error(t, err)
	})

	t.Run("returns error for file instead of directory", func(t *testing.T) {
		_, err := scanner.Scan(filepath.Join(tmpDir, "helpers.py"))
		assert.Error(t, err)
	})
}
