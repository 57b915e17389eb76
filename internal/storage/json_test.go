package storage

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imprint/internal/config"
	"imprint/internal/domain"
)

func TestJSONStorage(t *testing.T) {
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()
	store := NewJSONStorage(cfg)

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoReport)

	report := &domain.RunReport{
		Meta: domain.RunMeta{FilesTouched: 1, TestsMarked: 2, FamiliesRewritten: 1, MarkersApplied: 3, Duration: "12ms"},
		Details: []domain.MarkedTest{
			{TestName: "test_a", FilePath: "tests/test_a.py", Line: 4, Markers: []string{"testcaseid(1)"}},
			{TestName: "test_b[2]", FilePath: "tests/test_a.py", Line: 9, Markers: []string{"testcaseid(2)", "smoke"}},
		},
	}
	require.NoError(t, store.Save(report))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, report, loaded)

	t.Run("empty details are saved as a list", func(t *testing.T) {
		require.NoError(t, store.Save(&domain.RunReport{}))
		data, err := os.ReadFile(cfg.GetOutputPath())
		require.NoError(t, err)
		assert.Contains(t, string(data), `"details": []`)
	})

	t.Run("corrupt file", func(t *testing.T) {
		require.NoError(t, os.WriteFile(cfg.GetOutputPath(), []byte("{"), 0644))
		_, err := store.Load()
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNoReport)
	})
}
