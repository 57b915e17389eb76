package commands

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"imprint/internal/assignment"
	"imprint/internal/config"
	"imprint/internal/discovery"
	"imprint/internal/domain"
	"imprint/internal/rewriter"
	"imprint/internal/selector"
	"imprint/internal/ui"
)

// ErrNoAssignmentSource is returned when neither --assignments nor --db is given
var ErrNoAssignmentSource = errors.New("no assignment source: use --assignments <file> or --db")

// workflow is the discovery and selection shared by plan and apply
type workflow struct {
	config    *config.Config
	collector *discovery.Collector
	selector  *selector.Selector
	formatter *ui.Formatter
	logger    *zap.Logger
}

func newWorkflow(cfg *config.Config, collector *discovery.Collector, sel *selector.Selector, formatter *ui.Formatter, logger *zap.Logger) *workflow {
	return &workflow{
		config:    cfg,
		collector: collector,
		selector:  sel,
		formatter: formatter,
		logger:    logger,
	}
}

// sources returns the configured assignment sources, file first
func (w *workflow) sources() ([]assignment.Source, error) {
	var sources []assignment.Source
	if path := w.config.GetAssignmentsPath(); path != "" {
		sources = append(sources, assignment.NewFileSource(path))
	}
	if w.config.Flags.UseDB {
		src, err := assignment.NewMySQLSource(assignment.LoadDBConfig(w.config.ProjectPath), w.config.MarksTable, w.logger)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	if len(sources) == 0 {
		return nil, ErrNoAssignmentSource
	}
	return sources, nil
}

// selection loads the assignment, discovers tests and routes them
func (w *workflow) selection(ctx context.Context) (domain.Selection, error) {
	sources, err := w.sources()
	if err != nil {
		return domain.Selection{}, err
	}
	assigned, err := assignment.Merge(ctx, sources...)
	if err != nil {
		return domain.Selection{}, err
	}

	scope := w.config.GetScopePath()
	items, err := w.collector.Collect(ctx, discovery.Options{
		Root:       w.config.GetTestPath(),
		NameFilter: w.config.Flags.NameFilter,
		Scope:      scope,
	})
	if err != nil {
		return domain.Selection{}, err
	}

	w.formatter.PrintUnmatched(selector.Unmatched(items, assigned))
	return w.selector.Select(items, assigned, scope)
}

// applier builds an applier for the current namespace and strictness
func (w *workflow) applier() *rewriter.Applier {
	return rewriter.NewApplier(rewriter.New(w.config.Namespace, w.config.Strict), w.logger)
}
