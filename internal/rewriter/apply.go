package rewriter

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"imprint/internal/domain"
)

// Progress receives updates while files are written
type Progress interface {
	Update(done, total int)
	Finish()
}

// FileChange is the planned new content of one file
type FileChange struct {
	Path   string
	Before string
	After  string
	Mode   os.FileMode
	Edits  []Edit
}

// Applier turns a selection into file rewrites. All edits are computed and
// checked before the first write, so a failing family aborts the run with
// every file untouched.
type Applier struct {
	rewriter *Rewriter
	logger   *zap.Logger
	progress Progress
}

// NewApplier creates a new Applier
func NewApplier(rw *Rewriter, logger *zap.Logger) *Applier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Applier{rewriter: rw, logger: logger}
}

// SetProgress sets the progress reporter used by Commit
func (a *Applier) SetProgress(progress Progress) {
	a.progress = progress
}

// Plan computes the edits for sel without reading any file.
// Singular items without markers and families without any assigned marker produce no edit.
func (a *Applier) Plan(sel domain.Selection) ([]Edit, error) {
	var edits []Edit

	for _, entry := range sel.Singular {
		if len(entry.Markers) == 0 {
			continue
		}
		item := entry.Item
		decorated, err := a.rewriter.DecorateSingle(item, entry.Markers)
		if err != nil {
			return nil, fmt.Errorf("rewrite %s: %w", item.Name, err)
		}
		if decorated == item.Source {
			continue
		}
		edits = append(edits, Edit{
			File:        item.Location.File,
			Span:        item.Location.Span,
			Original:    item.Source,
			Replacement: decorated,
			Tests: []domain.MarkedTest{markedTest(item,
				pendingMarkers(item.ExistingMarkers, entry.Markers))},
		})
	}

	for _, family := range sel.Parametrized {
		if !hasMarkers(family) {
			continue
		}
		decorated, err := a.rewriter.DecorateParametrized(family.Variants)
		if err != nil {
			return nil, fmt.Errorf("rewrite %s: %w", family.Function, err)
		}
		first := family.Variants[0].Item
		if decorated == first.Source {
			if !a.rewriter.HasParametrizeHeader(first.Source) {
				a.logger.Warn("no parametrize decoration found, function left unchanged",
					zap.String("function", string(family.Function)))
			}
			continue
		}
		edits = append(edits, Edit{
			File:        first.Location.File,
			Span:        first.Location.Span,
			Original:    first.Source,
			Replacement: decorated,
			Family:      true,
			Tests:       familyTests(family),
		})
	}

	return edits, nil
}

// Render reads every file touched by edits and splices them in memory.
// Files are returned in order of their first edit.
func (a *Applier) Render(edits []Edit) ([]FileChange, error) {
	var order []string
	byFile := make(map[string][]Edit)
	for _, e := range edits {
		if _, ok := byFile[e.File]; !ok {
			order = append(order, e.File)
		}
		byFile[e.File] = append(byFile[e.File], e)
	}

	var changes []FileChange
	for _, path := range order {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		before := string(content)
		after, err := Splice(before, byFile[path])
		if err != nil {
			return nil, err
		}
		if after == before {
			continue
		}
		changes = append(changes, FileChange{
			Path:   path,
			Before: before,
			After:  after,
			Mode:   info.Mode().Perm(),
			Edits:  byFile[path],
		})
	}
	return changes, nil
}

// Commit writes every change with a single full write per file.
// There is no rollback: a failed write leaves earlier files rewritten.
func (a *Applier) Commit(changes []FileChange) error {
	for i, change := range changes {
		if err := os.WriteFile(change.Path, []byte(change.After), change.Mode); err != nil {
			return fmt.Errorf("write %s: %w", change.Path, err)
		}
		a.logger.Info("rewrote file",
			zap.String("file", change.Path),
			zap.Int("edits", len(change.Edits)))
		if a.progress != nil {
			a.progress.Update(i+1, len(changes))
		}
	}
	if a.progress != nil {
		a.progress.Finish()
	}
	return nil
}

// Apply plans, renders and commits sel, returning the run report
func (a *Applier) Apply(sel domain.Selection) (*domain.RunReport, []FileChange, error) {
	startTime := time.Now()

	edits, err := a.Plan(sel)
	if err != nil {
		return nil, nil, err
	}
	changes, err := a.Render(edits)
	if err != nil {
		return nil, nil, err
	}
	if err := a.Commit(changes); err != nil {
		return nil, changes, err
	}

	return a.Report(changes, time.Since(startTime)), changes, nil
}

// Report summarizes changes
func (a *Applier) Report(changes []FileChange, duration time.Duration) *domain.RunReport {
	report := &domain.RunReport{
		Meta: domain.RunMeta{
			FilesTouched:    len(changes),
			Strict:          a.rewriter.Strict(),
			Duration:        duration.String(),
			DurationSeconds: duration.Seconds(),
			Timestamp:       time.Now().Format(time.RFC3339),
		},
		Details: []domain.MarkedTest{},
	}
	for _, change := range changes {
		for _, e := range change.Edits {
			if e.Family {
				report.Meta.FamiliesRewritten++
			}
			for _, test := range e.Tests {
				report.Meta.TestsMarked++
				report.Meta.MarkersApplied += len(test.Markers)
				report.Details = append(report.Details, test)
			}
		}
	}
	return report
}

func hasMarkers(family domain.Family) bool {
	for _, v := range family.Variants {
		if len(v.Markers) > 0 {
			return true
		}
	}
	return false
}

// familyTests lists the variants that gain markers in a family rewrite
func familyTests(family domain.Family) []domain.MarkedTest {
	var tests []domain.MarkedTest
	header := family.Variants[0].Item.Parametrize
	for _, value := range header.Values {
		v, ok := variantFor(value, family.Variants)
		if !ok {
			continue
		}
		if added := pendingMarkers(value.Marks, v.Markers); len(added) > 0 {
			tests = append(tests, markedTest(v.Item, added))
		}
	}
	return tests
}

func markedTest(item domain.TestItem, markers []domain.Marker) domain.MarkedTest {
	return domain.MarkedTest{
		TestName: item.Name,
		FilePath: item.Location.File,
		Line:     item.Location.Line,
		Markers:  domain.MarkerStrings(markers),
	}
}
