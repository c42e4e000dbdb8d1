// Package work runs independent, failure-isolated tasks across a
// bounded set of workers. Candidate scoring fans out through here.
package work

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/abelbrown/curator/internal/logging"
)

// Task is one unit of independent work. A failing task is logged and
// skipped; it never stops its siblings.
type Task func() error

// Pool is a fixed-size worker pool
type Pool struct {
	workers int
}

// NewPool creates a pool with the specified number of workers.
// If workers <= 0, uses runtime.NumCPU().
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool{workers: workers}
}

// Run executes all tasks and blocks until they finish or the context
// is cancelled. Returns the number of failed tasks.
func (p *Pool) Run(ctx context.Context, tasks []Task) int {
	if len(tasks) == 0 {
		return 0
	}

	queue := make(chan Task)
	var failed int64
	var wg sync.WaitGroup

	workers := p.workers
	if workers > len(tasks) {
		workers = len(tasks)
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range queue {
				if err := task(); err != nil {
					atomic.AddInt64(&failed, 1)
					logging.Warn("Task failed", "error", err)
				}
			}
		}()
	}

	for _, task := range tasks {
		select {
		case <-ctx.Done():
			close(queue)
			wg.Wait()
			return int(atomic.LoadInt64(&failed))
		case queue <- task:
		}
	}
	close(queue)
	wg.Wait()

	return int(atomic.LoadInt64(&failed))
}
