package execution

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"imprint/internal/config"
	"imprint/internal/domain"
)

// WorkerPool parses test files in parallel. Parsing only reads files;
// rewriting stays sequential in the rewriter.
type WorkerPool struct {
	config    *config.Config
	parser    ItemParser
	scheduler Scheduler
	logger    *zap.Logger
}

// NewWorkerPool creates a new WorkerPool
func NewWorkerPool(cfg *config.Config, parser ItemParser, scheduler Scheduler, logger *zap.Logger) *WorkerPool {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkerPool{
		config:    cfg,
		parser:    parser,
		scheduler: scheduler,
		logger:    logger,
	}
}

// Execute parses files and returns one result per file in input order.
// The first parse failure cancels the remaining work and is returned.
func (wp *WorkerPool) Execute(ctx context.Context, files []string) ([]domain.ParseResult, time.Duration, error) {
	if len(files) == 0 {
		return nil, 0, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	startTime := time.Now()
	batches := wp.scheduler.Schedule(len(files), wp.config.Processors)
	results := make([]domain.ParseResult, len(files))

	var mu sync.Mutex
	var firstErr error

	var wg sync.WaitGroup
	for i, batch := range batches {
		wg.Add(1)
		go func(workerID int, batch []int) {
			defer wg.Done()
			for _, idx := range batch {
				if ctx.Err() != nil {
					return
				}
				path := files[idx]
				items, err := wp.parser.FindTestItems(ctx, path)
				// each index is owned by exactly one worker
				results[idx] = domain.ParseResult{Path: path, Items: items, Err: err}
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = fmt.Errorf("worker %d: %w", workerID, err)
					}
					mu.Unlock()
					cancel()
					return
				}
			}
			wp.logger.Debug("worker finished",
				zap.Int("worker", workerID),
				zap.Int("files", len(batch)))
		}(i+1, batch)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, time.Since(startTime), firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, time.Since(startTime), err
	}
	return results, time.Since(startTime), nil
}
