package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_GetTestPath(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected string
	}{
		{
			name: "default path",
			config: &Config{
				ProjectPath: ".",
				TestPath:    ".",
				Flags:       Flags{},
			},
			expected: ".",
		},
		{
			name: "with test path flag",
			config: &Config{
				ProjectPath: "/project",
				TestPath:    ".",
				Flags: Flags{
					TestPath: "tests",
				},
			},
			expected: "/project/tests",
		},
		{
			name: "absolute test path",
			config: &Config{
				ProjectPath: "/project",
				TestPath:    ".",
				Flags: Flags{
					TestPath: "/absolute/path",
				},
			},
			expected: "/absolute/path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.GetTestPath())
		})
	}
}

func TestConfig_GetScopePath(t *testing.T) {
	t.Run("defaults to test path", func(t *testing.T) {
		cfg := &Config{ProjectPath: "/project", TestPath: ".", Flags: Flags{TestPath: "tests"}}
		assert.Equal(t, "/project/tests", cfg.GetScopePath())
	})

	t.Run("scope flag relative to project", func(t *testing.T) {
		cfg := &Config{ProjectPath: "/project", TestPath: ".", Flags: Flags{TestPath: "tests", Scope: "tests/api"}}
		assert.Equal(t, "/project/tests/api", cfg.GetScopePath())
	})
}

func TestConfig_ApplyFlags(t *testing.T) {
	cfg := New()
	cfg.ApplyFlags(Flags{Processors: 8, Strict: true, Assignments: "marks.yaml"})

	assert.Equal(t, 8, cfg.Processors)
	assert.True(t, cfg.Strict)
	assert.Equal(t, filepath.Join(".", "marks.yaml"), cfg.GetAssignmentsPath())
}

func TestConfig_LoadEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("IMPRINT_PYTHON=python3.12\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("IMPRINT_PYTHON") })
	t.Setenv("IMPRINT_NAMESPACE", "pt")
	t.Setenv("IMPRINT_STRICT", "true")

	cfg := New()
	cfg.ProjectPath = dir
	cfg.LoadEnv()

	assert.Equal(t, "pt", cfg.Namespace)
	assert.True(t, cfg.Strict)
	assert.Equal(t, "python3.12", cfg.Python)
	assert.Equal(t, DefaultMarksTable, cfg.MarksTable)
}

func TestNew(t *testing.T) {
	cfg := New()

	assert.Equal(t, DefaultProjectPath, cfg.ProjectPath)
	assert.Equal(t, DefaultNamespace, cfg.Namespace)
	assert.Equal(t, DefaultProcessors, cfg.Processors)
	assert.Len(t, cfg.PathsToIgnore, len(DefaultPathsToIgnore))
	assert.Len(t, cfg.FilePatterns, len(DefaultFilePatterns))
	assert.False(t, cfg.Strict)
}
