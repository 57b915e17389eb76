package ui

import "imprint/internal/domain"

// Viewer displays a run report in an interactive TUI
type Viewer interface {
	View(report *domain.RunReport) error
}
