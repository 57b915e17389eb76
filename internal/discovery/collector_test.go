package discovery

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imprint/internal/config"
	"imprint/internal/domain"
	"imprint/internal/execution"
)

type failingExecutor struct{}

func (failingExecutor) Execute(ctx context.Context, files []string) ([]domain.ParseResult, time.Duration, error) {
	return nil, 0, errors.New("parse failed")
}

func writeTestTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func TestCollector_Collect(t *testing.T) {
	root := writeTestTree(t, map[string]string{
		"tests/api/test_users.py":   "def test_list():\n    pass\n\ndef test_create():\n    pass\n",
		"tests/api/test_orders.py":  "import pytest\n\n@pytest.mark.parametrize(\"n\", [1, 2])\ndef test_total(n):\n    pass\n",
		"tests/unit/test_models.py": "def test_model():\n    pass\n",
	})

	cfg := config.New()
	cfg.Processors = 2
	parser := NewParser("pytest", nil)
	pool := execution.NewWorkerPool(cfg, parser, execution.NewRoundRobinScheduler(), nil)
	collector := NewCollector(NewScanner(nil, []string{"test_*.py"}), NewFilter(), pool, nil)

	names := func(items []domain.TestItem) []string {
		out := make([]string, len(items))
		for i, item := range items {
			out[i] = item.Name
		}
		return out
	}

	t.Run("collects every test under root", func(t *testing.T) {
		items, err := collector.Collect(context.Background(), Options{Root: root})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"test_list", "test_create", "test_total[1]", "test_total[2]", "test_model"}, names(items))
	})

	t.Run("scope restricts items", func(t *testing.T) {
		items, err := collector.Collect(context.Background(), Options{Root: root, Scope: filepath.Join(root, "tests", "unit")})
		require.NoError(t, err)
		assert.Equal(t, []string{"test_model"}, names(items))
	})

	t.Run("name filter restricts files", func(t *testing.T) {
		items, err := collector.Collect(context.Background(), Options{Root: root, NameFilter: "*orders*"})
		require.NoError(t, err)
		assert.Equal(t, []string{"test_total[1]", "test_total[2]"}, names(items))
	})

	t.Run("each call returns a fresh result", func(t *testing.T) {
		first, err := collector.Collect(context.Background(), Options{Root: root})
		require.NoError(t, err)
		second, err := collector.Collect(context.Background(), Options{Root: root})
		require.NoError(t, err)
		assert.Equal(t, len(first), len(second))
	})

	t.Run("executor errors are returned", func(t *testing.T) {
		failing := NewCollector(NewScanner(nil, []string{"test_*.py"}), NewFilter(), failingExecutor{}, nil)
		_, err := failing.Collect(context.Background(), Options{Root: root})
		assert.Error(t, err)
	})
}
