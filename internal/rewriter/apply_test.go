package rewriter

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imprint/internal/discovery"
	"imprint/internal/domain"
	"imprint/internal/selector"
)

const applyModule = `import pytest


def test_without_mark():
    pass


@pytest.mark.testcaseid(12345)
def test_with_mark():
    pass


@pytest.mark.parametrize("value", [1, 2, 3])
def test_parametrized(value):
    assert isinstance(value, int)
`

const appliedModule = `import pytest


@pytest.mark.testcaseid(54321)
def test_without_mark():
    pass


@pytest.mark.testcaseid(12345)
def test_with_mark():
    pass


@pytest.mark.parametrize("value", (
    pytest.param(1, marks=[pytest.mark.testcaseid(11111)]),
    pytest.param(2, marks=[]),
    pytest.param(3, marks=[pytest.mark.testcaseid(33333)]),
))
def test_parametrized(value):
    assert isinstance(value, int)
`

type recordingProgress struct {
	updates  []int
	finished bool
}

func (p *recordingProgress) Update(done, total int) { p.updates = append(p.updates, done) }
func (p *recordingProgress) Finish()                { p.finished = true }

func writeModule(t *testing.T, content string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test_mod.py")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return dir, path
}

func selectFrom(t *testing.T, dir, path string, assignment domain.Assignment) domain.Selection {
	t.Helper()
	items, err := discovery.NewParser("pytest", nil).FindTestItems(context.Background(), path)
	require.NoError(t, err)
	sel, err := selector.New(discovery.NewFilter()).Select(items, assignment, dir)
	require.NoError(t, err)
	return sel
}

func sampleAssignment() domain.Assignment {
	return domain.Assignment{
		"test_without_mark":    {domain.MarkDecorator{Mark: testcaseid(54321)}},
		"test_with_mark":       {testcaseid(12345)},
		"test_parametrized[1]": {testcaseid(11111)},
		"test_parametrized[3]": {domain.MarkDecorator{Mark: testcaseid(33333)}},
	}
}

func TestApplier_Apply(t *testing.T) {
	dir, path := writeModule(t, applyModule)
	progress := &recordingProgress{}
	applier := NewApplier(New("pytest", false), nil)
	applier.SetProgress(progress)

	report, changes, err := applier.Apply(selectFrom(t, dir, path, sampleAssignment()))
	require.NoError(t, err)
	require.Len(t, changes, 1)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, appliedModule, string(content))

	assert.Equal(t, 1, report.Meta.FilesTouched)
	assert.Equal(t, 1, report.Meta.FamiliesRewritten)
	assert.Equal(t, 3, report.Meta.TestsMarked)
	assert.Equal(t, 3, report.Meta.MarkersApplied)
	assert.Equal(t, []int{1}, progress.updates)
	assert.True(t, progress.finished)

	names := make([]string, len(report.Details))
	for i, d := range report.Details {
		names[i] = d.TestName
	}
	assert.ElementsMatch(t, []string{"test_without_mark", "test_parametrized[1]", "test_parametrized[3]"}, names)

	t.Run("second run changes nothing", func(t *testing.T) {
		report, changes, err := applier.Apply(selectFrom(t, dir, path, sampleAssignment()))
		require.NoError(t, err)
		assert.Empty(t, changes)
		assert.Equal(t, 0, report.Meta.FilesTouched)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, appliedModule, string(content))
	})
}

func TestApplier_ApplyKeepsCRLF(t *testing.T) {
	crlf := func(s string) string { return strings.ReplaceAll(s, "\n", "\r\n") }
	dir, path := writeModule(t, crlf(applyModule))
	applier := NewApplier(New("pytest", false), nil)

	_, changes, err := applier.Apply(selectFrom(t, dir, path, sampleAssignment()))
	require.NoError(t, err)
	require.Len(t, changes, 1)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, crlf(appliedModule), string(content))
}

func TestApplier_PlanSkipsUnassigned(t *testing.T) {
	dir, path := writeModule(t, applyModule)
	applier := NewApplier(New("pytest", false), nil)

	edits, err := applier.Plan(selectFrom(t, dir, path, domain.Assignment{}))
	require.NoError(t, err)
	assert.Empty(t, edits)
}

func TestApplier_AbortsBeforeWriting(t *testing.T) {
	dir, path := writeModule(t, applyModule)
	sel := selectFrom(t, dir, path, sampleAssignment())

	other := *sel.Parametrized[0].Variants[0].Item.Parametrize
	other.Values = other.Values[:2]
	sel.Parametrized[0].Variants[1].Item.Parametrize = &other

	_, _, err := NewApplier(New("pytest", false), nil).Apply(sel)
	assert.ErrorIs(t, err, ErrHeaderMismatch)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, applyModule, string(content))
}

func TestApplier_RenderDetectsStaleFile(t *testing.T) {
	dir, path := writeModule(t, applyModule)
	applier := NewApplier(New("pytest", false), nil)

	edits, err := applier.Plan(selectFrom(t, dir, path, sampleAssignment()))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("import pytest\n"), 0644))

	_, err = applier.Render(edits)
	assert.ErrorIs(t, err, ErrSpanMismatch)
}
