package commands

import (
	"github.com/spf13/cobra"

	"imprint/internal/ui"
)

// PlanCommand handles the plan command
type PlanCommand struct {
	workflow  *workflow
	formatter *ui.Formatter
}

// NewPlanCommand creates a new PlanCommand
func NewPlanCommand(w *workflow, formatter *ui.Formatter) *PlanCommand {
	return &PlanCommand{workflow: w, formatter: formatter}
}

// Execute runs the command. Nothing is written.
func (pc *PlanCommand) Execute(cmd *cobra.Command, args []string) error {
	sel, err := pc.workflow.selection(cmd.Context())
	if err != nil {
		return err
	}

	applier := pc.workflow.applier()
	edits, err := applier.Plan(sel)
	if err != nil {
		return err
	}
	changes, err := applier.Render(edits)
	if err != nil {
		return err
	}

	return pc.formatter.PrintDiffs(changes)
}
