package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"imprint/internal/domain"
)

// ReportViewer browses the tests marked by the last run in an interactive TUI
type ReportViewer struct{}

// NewReportViewer creates a new ReportViewer
func NewReportViewer() *ReportViewer {
	return &ReportViewer{}
}

// View opens the report in a list/details layout
func (rv *ReportViewer) View(report *domain.RunReport) error {
	if len(report.Details) == 0 {
		color.Green("✓ The last run marked no tests")
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	for i, test := range report.Details {
		list.AddItem(fmt.Sprintf("[yellow]%d.[white] %s", i+1, tview.Escape(test.TestName)), "", 0, nil)
	}
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsView, 0, 1, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true).
		SetText(formatReportHeader(report.Meta))

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index < 0 || index >= len(report.Details) {
			return
		}
		test := report.Details[index]
		statsView.SetText(formatMarkedStats(test))
		detailsView.SetText(formatMarkedDetails(test))
	}

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC, tcell.KeyEsc:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'q' {
				app.Stop()
				return nil
			}
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(int, string, string, rune) {
		updateDetails()
	})
	updateDetails()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func formatReportHeader(meta domain.RunMeta) string {
	return fmt.Sprintf(" Marked Tests (%d tests, %d markers, %d files) %s | ↑↓ navigate, → details, ← back, q to exit ",
		meta.TestsMarked, meta.MarkersApplied, meta.FilesTouched, meta.Timestamp)
}

// formatMarkedStats formats the path header for a marked test
func formatMarkedStats(test domain.MarkedTest) string {
	path := test.FilePath
	if path == "" {
		path = "Unknown path"
	}
	return fmt.Sprintf("[cyan]path:[white] [yellow]%s:%d[white]::[yellow]%s[white]\n",
		tview.Escape(path), test.Line, tview.Escape(test.TestName))
}

// formatMarkedDetails lists the markers applied to a test using tview color tags
func formatMarkedDetails(test domain.MarkedTest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[green]✓ Test: %s[white]\n\n", tview.Escape(test.TestName))
	fmt.Fprintf(&b, "[cyan]File: %s[white]\n", tview.Escape(test.FilePath))
	if test.Line > 0 {
		fmt.Fprintf(&b, "[yellow]Line: %d[white]\n", test.Line)
	}
	fmt.Fprintf(&b, "\n[yellow]Markers applied:[white]\n")
	for _, m := range test.Markers {
		fmt.Fprintf(&b, "  + %s\n", tview.Escape(m))
	}
	return b.String()
}
