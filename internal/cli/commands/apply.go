package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"imprint/internal/config"
	"imprint/internal/execution"
	"imprint/internal/parser"
	"imprint/internal/rewriter"
	"imprint/internal/storage"
	"imprint/internal/ui"
)

// ApplyCommand handles the apply command
type ApplyCommand struct {
	config    *config.Config
	workflow  *workflow
	runner    *execution.Runner
	parser    parser.Parser
	storage   storage.Storage
	formatter *ui.Formatter
	logger    *zap.Logger
}

// NewApplyCommand creates a new ApplyCommand
func NewApplyCommand(
	cfg *config.Config,
	w *workflow,
	runner *execution.Runner,
	p parser.Parser,
	st storage.Storage,
	formatter *ui.Formatter,
	logger *zap.Logger,
) *ApplyCommand {
	return &ApplyCommand{
		config:    cfg,
		workflow:  w,
		runner:    runner,
		parser:    p,
		storage:   st,
		formatter: formatter,
		logger:    logger,
	}
}

// Execute runs the command
func (ac *ApplyCommand) Execute(cmd *cobra.Command, args []string) error {
	sel, err := ac.workflow.selection(cmd.Context())
	if err != nil {
		return err
	}

	applier := ac.workflow.applier()
	applier.SetProgress(ui.NewProgressBar())

	report, changes, err := applier.Apply(sel)
	if err != nil {
		return err
	}

	// Save report
	if err := ac.storage.Save(report); err != nil {
		return fmt.Errorf("failed to save run report: %w", err)
	}

	ac.formatter.PrintRunStats(report)

	if !ac.config.Flags.Verify || len(changes) == 0 {
		return nil
	}
	return ac.verify(cmd, changes)
}

// verify re-collects the rewritten files with pytest
func (ac *ApplyCommand) verify(cmd *cobra.Command, changes []rewriter.FileChange) error {
	files := make([]string, len(changes))
	for i, change := range changes {
		files[i] = change.Path
	}

	ac.logger.Debug("verifying rewritten files", zap.Strings("files", files))
	result := ac.runner.Run(cmd.Context(), files)
	result.Collected, result.Errors = ac.parser.ParseCollectCounts(result)
	ac.logger.Debug("collected after rewrite", zap.Strings("node_ids", ac.parser.NodeIDs(result)))
	ac.formatter.PrintVerify(result)

	if result.Errors > 0 {
		return fmt.Errorf("collection check failed with %d error(s)", result.Errors)
	}
	return nil
}
