package execution

import (
	"context"
	"os"
	"os/exec"

	"imprint/internal/config"
	"imprint/internal/domain"
)

// Runner runs the test framework's collection over rewritten files
type Runner struct {
	config *config.Config
}

// NewRunner creates a new Runner
func NewRunner(cfg *config.Config) *Runner {
	return &Runner{config: cfg}
}

// Command builds the collection command for files without running it
func (r *Runner) Command(ctx context.Context, files []string) *exec.Cmd {
	args := append([]string{"-m", "pytest", "--collect-only", "-q"}, files...)
	cmd := exec.CommandContext(ctx, r.config.Python, args...)
	cmd.Env = os.Environ()
	cmd.Dir = r.config.ProjectPath
	return cmd
}

// Run collects tests from files so rewritten decorations are re-parsed by pytest
func (r *Runner) Run(ctx context.Context, files []string) domain.CollectResult {
	output, err := r.Command(ctx, files).CombinedOutput()

	return domain.CollectResult{
		Success: err == nil,
		Output:  string(output),
		Error:   err,
	}
}
