package ui

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"

	"imprint/internal/config"
	"imprint/internal/domain"
	"imprint/internal/rewriter"
)

// Formatter formats and displays output
type Formatter struct {
	config *config.Config
}

// NewFormatter creates a new Formatter
func NewFormatter(cfg *config.Config) *Formatter {
	return &Formatter{config: cfg}
}

// PrintRunStats displays the meta statistics of a run report
func (f *Formatter) PrintRunStats(report *domain.RunReport) {
	meta := report.Meta

	fmt.Print("\n")
	color.Cyan("╔═══════════════════════════════════════════════════════════════╗")
	color.Cyan("║                      Marker Run Statistics                    ║")
	color.Cyan("╚═══════════════════════════════════════════════════════════════╝\n")

	fmt.Println("┌─────────────────────────────────┬─────────────────────────────┐")
	row := func(label string, value string, paint func(string, ...interface{})) {
		fmt.Printf("│ %-31s │ ", label)
		paint("%-27s │\n", value)
	}
	sep := func() {
		fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")
	}

	row("Files Touched", fmt.Sprint(meta.FilesTouched), color.White)
	sep()
	row("Tests Marked", fmt.Sprint(meta.TestsMarked), color.Green)
	sep()
	row("Parametrized Families", fmt.Sprint(meta.FamiliesRewritten), color.Green)
	sep()
	row("Markers Applied", fmt.Sprint(meta.MarkersApplied), color.Green)
	sep()
	row("Strict", fmt.Sprint(meta.Strict), color.White)
	sep()
	row("Duration", fmt.Sprintf("%.2fs", meta.DurationSeconds), color.White)
	sep()
	row("Timestamp", meta.Timestamp, color.White)
	fmt.Println("└─────────────────────────────────┴─────────────────────────────┘")

	fmt.Println()
	if meta.TestsMarked == 0 {
		color.Green("✓ Nothing to do, every assigned marker is already present")
		return
	}
	color.Green("✓ %d marker(s) applied to %d test(s) in %d file(s)", meta.MarkersApplied, meta.TestsMarked, meta.FilesTouched)
	fmt.Println()
	f.printMarkedTree(report.Details)
}

// TreeNode represents a node in the file tree structure
type TreeNode struct {
	Name     string
	Children map[string]*TreeNode
	Tests    []domain.MarkedTest
	IsFile   bool
}

// buildTree groups marked tests by the directories of their files
func (f *Formatter) buildTree(tests []domain.MarkedTest) *TreeNode {
	root := &TreeNode{Children: make(map[string]*TreeNode)}

	for _, test := range tests {
		parts := strings.Split(filepath.ToSlash(f.relPath(test.FilePath)), "/")
		current := root
		for i, part := range parts {
			if part == "" || part == "." {
				continue
			}
			if current.Children[part] == nil {
				current.Children[part] = &TreeNode{
					Name:     part,
					Children: make(map[string]*TreeNode),
					IsFile:   i == len(parts)-1,
				}
			}
			current = current.Children[part]
		}
		current.Tests = append(current.Tests, test)
	}
	return root
}

func (f *Formatter) printMarkedTree(tests []domain.MarkedTest) {
	if len(tests) == 0 {
		return
	}
	f.printTreeNode(f.buildTree(tests), "")
}

func (f *Formatter) printTreeNode(node *TreeNode, prefix string) {
	var keys []string
	for key := range node.Children {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for i, key := range keys {
		child := node.Children[key]
		last := i == len(keys)-1

		connector, childPrefix := "├── ", prefix+"│   "
		if last {
			connector, childPrefix = "└── ", prefix+"    "
		}

		if !child.IsFile {
			color.Cyan("%s%s%s", prefix, connector, child.Name)
			f.printTreeNode(child, childPrefix)
			continue
		}

		color.Yellow("%s%s%s", prefix, connector, child.Name)
		for j, test := range child.Tests {
			testConnector := "├── "
			if j == len(child.Tests)-1 {
				testConnector = "└── "
			}
			fmt.Printf("%s%s%s %s\n", childPrefix, testConnector, test.TestName,
				color.GreenString("+ %s", strings.Join(test.Markers, ", ")))
		}
	}
}

// PrintTestList prints the discovered tests grouped by file, with their existing markers
func (f *Formatter) PrintTestList(items []domain.TestItem) {
	var files []string
	byFile := make(map[string][]domain.TestItem)
	for _, item := range items {
		if _, ok := byFile[item.Location.File]; !ok {
			files = append(files, item.Location.File)
		}
		byFile[item.Location.File] = append(byFile[item.Location.File], item)
	}

	color.Green("Found %d test(s) in %d file(s):\n", len(items), len(files))

	for i, file := range files {
		isLastFile := i == len(files)-1
		if isLastFile {
			color.Cyan("└── %s", f.relPath(file))
		} else {
			color.Cyan("├── %s", f.relPath(file))
		}

		tests := byFile[file]
		for j, item := range tests {
			var prefix string
			switch {
			case isLastFile && j == len(tests)-1:
				prefix = "    └── "
			case isLastFile:
				prefix = "    ├── "
			case j == len(tests)-1:
				prefix = "│   └── "
			default:
				prefix = "│   ├── "
			}

			line := color.YellowString(item.Name)
			if marks := existingMarks(item); len(marks) > 0 {
				line += " " + color.HiBlackString("[%s]", strings.Join(marks, ", "))
			}
			fmt.Printf("%s%s\n", prefix, line)
		}

		if i < len(files)-1 {
			fmt.Println()
		}
	}
}

// existingMarks lists the markers already on item, including those on its own parametrize value
func existingMarks(item domain.TestItem) []string {
	marks := domain.MarkerStrings(item.ExistingMarkers)
	if item.Parametrize == nil {
		return marks
	}
	for _, value := range item.Parametrize.Values {
		if item.Name == item.OriginalName+"["+value.ID+"]" {
			marks = append(marks, domain.MarkerStrings(value.Marks)...)
		}
	}
	return marks
}

// PrintDiffs prints a colored unified diff per planned file change
func (f *Formatter) PrintDiffs(changes []rewriter.FileChange) error {
	if len(changes) == 0 {
		color.Green("✓ Nothing to do, every assigned marker is already present")
		return nil
	}

	for _, change := range changes {
		diff, err := f.Diff(change)
		if err != nil {
			return err
		}
		for _, line := range strings.SplitAfter(diff, "\n") {
			switch {
			case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
				color.New(color.Bold).Print(line)
			case strings.HasPrefix(line, "@@"):
				color.New(color.FgCyan).Print(line)
			case strings.HasPrefix(line, "+"):
				color.New(color.FgGreen).Print(line)
			case strings.HasPrefix(line, "-"):
				color.New(color.FgRed).Print(line)
			default:
				fmt.Print(line)
			}
		}
	}

	color.Yellow("\n%d file(s) would be rewritten (dry run, nothing written)", len(changes))
	return nil
}

// Diff renders change as a unified diff with paths relative to the project
func (f *Formatter) Diff(change rewriter.FileChange) (string, error) {
	path := filepath.ToSlash(f.relPath(change.Path))
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(change.Before),
		B:        difflib.SplitLines(change.After),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	}
	out, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("diff %s: %w", path, err)
	}
	return out, nil
}

// PrintUnmatched warns about assigned test names no discovered test carries
func (f *Formatter) PrintUnmatched(names []string) {
	if len(names) == 0 {
		return
	}
	color.Yellow("⚠ %d assigned test name(s) matched no discovered test:", len(names))
	for _, name := range names {
		color.Yellow("  - %s", name)
	}
	fmt.Println()
}

// PrintVerify displays the outcome of re-collecting the rewritten files
func (f *Formatter) PrintVerify(result domain.CollectResult) {
	if result.Success && result.Errors == 0 {
		color.Green("✓ Collection check passed: %d test(s) collected", result.Collected)
		return
	}
	color.Red("✗ Collection check failed: %d error(s), %d test(s) collected", result.Errors, result.Collected)
	if result.Output != "" {
		fmt.Println(result.Output)
	}
}

func (f *Formatter) relPath(path string) string {
	if f.config == nil || f.config.ProjectPath == "" {
		return path
	}
	root, err := filepath.Abs(f.config.ProjectPath)
	if err != nil {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
