package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"imprint/internal/cli"
	"imprint/internal/config"
	"imprint/internal/discovery"
	"imprint/internal/execution"
	"imprint/internal/parser"
	"imprint/internal/selector"
	"imprint/internal/storage"
	"imprint/internal/ui"
)

// Commands holds all CLI commands
type Commands struct {
	List   *ListCommand
	Plan   *PlanCommand
	Apply  *ApplyCommand
	Report *ReportCommand
}

// NewCommands creates all commands with dependencies
func NewCommands(cfg *config.Config, logger *zap.Logger) *Commands {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Initialize dependencies
	scanner := discovery.NewScanner(cfg.PathsToIgnore, cfg.FilePatterns)
	filter := discovery.NewFilter()
	itemParser := discovery.NewParser(cfg.Namespace, logger)
	scheduler := execution.NewRoundRobinScheduler()
	pool := execution.NewWorkerPool(cfg, itemParser, scheduler, logger)
	collector := discovery.NewCollector(scanner, filter, pool, logger)
	sel := selector.New(filter)
	runner := execution.NewRunner(cfg)
	pytestParser := parser.NewPytestParser()
	jsonStorage := storage.NewJSONStorage(cfg)
	formatter := ui.NewFormatter(cfg)
	viewer := ui.NewReportViewer()

	workflow := newWorkflow(cfg, collector, sel, formatter, logger)

	return &Commands{
		List:   NewListCommand(cfg, collector, formatter),
		Plan:   NewPlanCommand(workflow, formatter),
		Apply:  NewApplyCommand(cfg, workflow, runner, pytestParser, jsonStorage, formatter, logger),
		Report: NewReportCommand(cfg, jsonStorage, formatter, viewer),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	// Update config with flags after parsing
	applyFlags := func(cmd *cobra.Command, args []string) error {
		cfg.ApplyFlags(flags.ToConfigFlags())
		return nil
	}

	// List command
	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List discovered tests",
		Long:    "Scan and list all pytest tests with the markers they already carry",
		RunE:    c.List.Execute,
		PreRunE: applyFlags,
	}
	addDiscoveryFlags(listCmd, flags)
	rootCmd.AddCommand(listCmd)

	// Plan command
	planCmd := &cobra.Command{
		Use:     "plan",
		Short:   "Show the rewrites apply would make",
		Long:    "Compute every marker rewrite for the assignment and print unified diffs without writing any file",
		RunE:    c.Plan.Execute,
		PreRunE: applyFlags,
	}
	addDiscoveryFlags(planCmd, flags)
	addAssignmentFlags(planCmd, flags)
	rootCmd.AddCommand(planCmd)

	// Apply command
	applyCmd := &cobra.Command{
		Use:     "apply",
		Short:   "Write assigned markers into test sources",
		Long:    "Decorate singular tests and rebuild parametrize decorations so every assigned marker is present in the source",
		RunE:    c.Apply.Execute,
		PreRunE: applyFlags,
	}
	addDiscoveryFlags(applyCmd, flags)
	addAssignmentFlags(applyCmd, flags)
	applyCmd.Flags().BoolVar(&flags.Verify, "verify", false, "Run pytest --collect-only on rewritten files and fail on collection errors")
	rootCmd.AddCommand(applyCmd)

	// Report command
	reportCmd := &cobra.Command{
		Use:     "report",
		Short:   "Show the last apply run",
		Long:    "Display the tests marked by the last apply run, from storage/imprint-report.json",
		RunE:    c.Report.Execute,
		PreRunE: applyFlags,
	}
	reportCmd.Flags().BoolVarP(&flags.Interactive, "interactive", "i", false, "Browse the report in an interactive viewer")
	rootCmd.AddCommand(reportCmd)
}

func addDiscoveryFlags(cmd *cobra.Command, flags *cli.Flags) {
	cmd.Flags().IntVarP(&flags.Processors, "processors", "p", config.DefaultProcessors, "Number of files parsed in parallel")
	cmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path to the folder where test detection should start")
	cmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter test files by name pattern (supports wildcards, e.g., 'test_api*' or '*payment*')")
	cmd.Flags().StringVarP(&flags.Scope, "scope", "s", "", "Only tests under this directory are considered")
}

func addAssignmentFlags(cmd *cobra.Command, flags *cli.Flags) {
	cmd.Flags().StringVarP(&flags.Assignments, "assignments", "a", "", "YAML or JSON file mapping test names to markers")
	cmd.Flags().BoolVar(&flags.UseDB, "db", false, "Load assignments from the test-management database (DB_* settings)")
	cmd.Flags().BoolVar(&flags.Strict, "strict", false, "Fail when a parametrized test has no parametrize decoration to rewrite")
}
