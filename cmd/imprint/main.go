package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"imprint/internal/cli"
	"imprint/internal/cli/commands"
	"imprint/internal/config"
)

var version = "dev"

func main() {
	// Warnings only unless --verbose
	level := zap.NewAtomicLevelAt(zapcore.WarnLevel)
	logConfig := zap.NewProductionConfig()
	logConfig.Level = level
	logger, err := logConfig.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create root command
	rootCmd := &cobra.Command{
		Use:     "imprint",
		Short:   "Write pytest markers into test sources",
		Long:    `Applies externally assigned pytest markers (e.g. test-management case ids) to test functions by rewriting their source: decorators for singular tests, pytest.param(..., marks=[...]) entries for parametrized ones.`,
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flags.Verbose {
				level.SetLevel(zapcore.DebugLevel)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVar(&flags.Verbose, "verbose", false, "Enable debug logging")

	// Create initial config with defaults and .env overrides
	cfg := config.Load(flags.ToConfigFlags())

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg, logger)

	// Register all commands
	cmds.Register(rootCmd, &flags, cfg)

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
