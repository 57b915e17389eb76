package discovery

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"imprint/internal/domain"
)

// Executor parses test files, possibly in parallel, returning one result per file in input order
type Executor interface {
	Execute(ctx context.Context, files []string) ([]domain.ParseResult, time.Duration, error)
}

// Options selects what a collection run returns
type Options struct {
	Root       string // Directory to scan
	NameFilter string // File name wildcard filter, empty for all
	Scope      string // Only items under this directory are returned, empty for Root
}

// Collector discovers test items. Every call returns a fresh result;
// nothing is buffered between runs.
type Collector struct {
	scanner  *Scanner
	filter   *Filter
	executor Executor
	logger   *zap.Logger
}

// NewCollector creates a new Collector
func NewCollector(scanner *Scanner, filter *Filter, executor Executor, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		scanner:  scanner,
		filter:   filter,
		executor: executor,
		logger:   logger,
	}
}

// Collect scans opts.Root and returns the test items in scan order
func (c *Collector) Collect(ctx context.Context, opts Options) ([]domain.TestItem, error) {
	files, err := c.scanner.Scan(opts.Root)
	if err != nil {
		return nil, err
	}
	files = c.filter.FilterByName(files, opts.NameFilter)

	results, duration, err := c.executor.Execute(ctx, files)
	if err != nil {
		return nil, err
	}

	var items []domain.TestItem
	for _, result := range results {
		if result.Err != nil {
			return nil, fmt.Errorf("collect %s: %w", result.Path, result.Err)
		}
		items = append(items, result.Items...)
	}

	scope := opts.Scope
	if scope == "" {
		scope = opts.Root
	}
	items, err = c.filter.FilterByScope(items, scope)
	if err != nil {
		return nil, err
	}

	c.logger.Info("collected tests",
		zap.String("root", opts.Root),
		zap.String("scope", scope),
		zap.Int("files", len(files)),
		zap.Int("items", len(items)),
		zap.Duration("duration", duration))
	return items, nil
}
