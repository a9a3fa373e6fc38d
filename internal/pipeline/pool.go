package pipeline

import (
	"context"
	"runtime"
	"sync"
)

// Pool runs independent pipeline jobs on a bounded set of goroutines.
// Runs share no state, so results only depend on their own input.
type Pool struct {
	opts    Options
	workers int
}

// NewPool creates a pool that processes every job with opts. The number of
// goroutines is opts.Workers, or runtime.NumCPU() when that is not positive.
func NewPool(opts Options) *Pool {
	n := opts.Workers
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return &Pool{opts: opts, workers: n}
}

// Process runs Process on every input and returns the results in input
// order. Once ctx is done, jobs that have not started yet are not run and
// get an error result carrying ctx.Err(); jobs already running finish.
func (p *Pool) Process(ctx context.Context, inputs [][]byte) []*Result {
	results := make([]*Result, len(inputs))
	jobs := make(chan int)
	p.opts.debugf("batch: %d images on up to %d workers", len(inputs), p.workers)

	var wg sync.WaitGroup
	for w := 0; w < min(p.workers, len(inputs)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					results[idx] = errorResult(err.Error())
					continue
				}
				results[idx] = Process(inputs[idx], p.opts)
			}
		}()
	}

feed:
	for i := range inputs {
		select {
		case jobs <- i:
		case <-ctx.Done():
			for j := i; j < len(inputs); j++ {
				results[j] = errorResult(ctx.Err().Error())
			}
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	return results
}
