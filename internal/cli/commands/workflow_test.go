package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imprint/internal/assignment"
	"imprint/internal/cli"
	"imprint/internal/config"
)

func newTestProject(t *testing.T) (*config.Config, string) {
	t.Helper()
	root := t.TempDir()
	testFile := filepath.Join(root, "tests", "test_login.py")
	require.NoError(t, os.MkdirAll(filepath.Dir(testFile), 0755))
	require.NoError(t, os.WriteFile(testFile, []byte("def test_login():\n    pass\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "marks.yaml"), []byte("test_login:\n  - testcaseid(42)\n"), 0644))

	cfg := config.New()
	cfg.ProjectPath = root
	return cfg, testFile
}

func TestWorkflow_Sources(t *testing.T) {
	cfg, _ := newTestProject(t)
	w := NewCommands(cfg, nil).Plan.workflow

	_, err := w.sources()
	assert.ErrorIs(t, err, ErrNoAssignmentSource)

	flags := cli.Flags{Assignments: "marks.yaml"}
	cfg.ApplyFlags(flags.ToConfigFlags())
	sources, err := w.sources()
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.IsType(t, &assignment.FileSource{}, sources[0])

	flags.UseDB = true
	cfg.ApplyFlags(flags.ToConfigFlags())
	sources, err = w.sources()
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.IsType(t, &assignment.MySQLSource{}, sources[1])
}

func TestWorkflow_SelectionAndApply(t *testing.T) {
	cfg, testFile := newTestProject(t)
	flags := cli.Flags{Assignments: "marks.yaml"}
	cfg.ApplyFlags(flags.ToConfigFlags())
	w := NewCommands(cfg, nil).Apply.workflow

	sel, err := w.selection(context.Background())
	require.NoError(t, err)
	require.Len(t, sel.Singular, 1)
	assert.Equal(t, "test_login", sel.Singular[0].Item.Name)

	report, changes, err := w.applier().Apply(sel)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, 1, report.Meta.MarkersApplied)

	content, err := os.ReadFile(testFile)
	require.NoError(t, err)
	assert.Equal(t, "@pytest.mark.testcaseid(42)\ndef test_login():\n    pass\n", string(content))
}
