package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"imprint/internal/config"
	"imprint/internal/discovery"
	"imprint/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	config    *config.Config
	collector *discovery.Collector
	formatter *ui.Formatter
}

// NewListCommand creates a new ListCommand
func NewListCommand(
	cfg *config.Config,
	collector *discovery.Collector,
	formatter *ui.Formatter,
) *ListCommand {
	return &ListCommand{
		config:    cfg,
		collector: collector,
		formatter: formatter,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	items, err := lc.collector.Collect(cmd.Context(), discovery.Options{
		Root:       lc.config.GetTestPath(),
		NameFilter: lc.config.Flags.NameFilter,
		Scope:      lc.config.GetScopePath(),
	})
	if err != nil {
		return err
	}

	if len(items) == 0 {
		color.Yellow("No tests found")
		return nil
	}

	lc.formatter.PrintTestList(items)
	return nil
}
