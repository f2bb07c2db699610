// Package worker provides a bounded worker pool and outbound rate limiting.
package worker

import (
	"context"
	"sync"
)

// Job is a unit of work identified by its position in the submitted batch
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of one job
type Result interface {
	GetError() error
}

// Pool runs a batch of jobs across a fixed number of workers.
// Results come back indexed by submission order, so callers can rely on
// a stable ordering regardless of completion order.
type Pool struct {
	workers int
}

// NewPool creates a pool with the specified number of workers
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Run executes all jobs and returns their results in submission order.
// A canceled context stops workers from picking up new jobs; jobs already
// running observe the cancellation through their own context handling.
func (p *Pool) Run(ctx context.Context, jobs []Job) []Result {
	if len(jobs) == 0 {
		return nil
	}

	type indexedJob struct {
		index int
		job   Job
	}

	queue := make(chan indexedJob)
	results := make([]Result, len(jobs))

	var wg sync.WaitGroup
	workers := p.workers
	if workers > len(jobs) {
		workers = len(jobs)
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range queue {
				results[item.index] = item.job.Execute(ctx)
			}
		}()
	}

	for i, job := range jobs {
		select {
		case <-ctx.Done():
		case queue <- indexedJob{index: i, job: job}:
			continue
		}
		break
	}
	close(queue)

	wg.Wait()
	return results
}
