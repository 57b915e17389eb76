package execution

// Scheduler distributes file indices across workers
type Scheduler interface {
	Schedule(count, workerCount int) [][]int
}

// RoundRobinScheduler distributes files evenly across workers
type RoundRobinScheduler struct{}

// NewRoundRobinScheduler creates a new RoundRobinScheduler
func NewRoundRobinScheduler() *RoundRobinScheduler {
	return &RoundRobinScheduler{}
}

// Schedule assigns indices 0..count-1 to workers using round-robin.
// Worker i gets indices i, i+workerCount, i+2*workerCount, ...
func (s *RoundRobinScheduler) Schedule(count, workerCount int) [][]int {
	if workerCount <= 0 {
		workerCount = 1
	}
	if count < workerCount {
		workerCount = count
	}

	distribution := make([][]int, workerCount)
	for i := 0; i < count; i++ {
		worker := i % workerCount
		distribution[worker] = append(distribution[worker], i)
	}

	return distribution
}
