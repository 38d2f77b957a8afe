package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/anikamehra/resumelens/internal/queue"
)

// Runner consumes the trigger queue with a fixed pool of goroutines.
type Runner struct {
	queue       queue.Queue
	worker      *Worker
	concurrency int
}

func NewRunner(q queue.Queue, w *Worker, concurrency int) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Runner{queue: q, worker: w, concurrency: concurrency}
}

// Run blocks, consuming jobs until ctx is cancelled, then waits for
// in-flight jobs to finish. A claimed job is always driven to a terminal
// state, so processing runs on a fresh context rather than the consume
// context.
func (r *Runner) Run(ctx context.Context) {
	slog.Info("starting workers", "concurrency", r.concurrency)

	var wg sync.WaitGroup
	for i := 0; i < r.concurrency; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			r.consume(ctx, id)
		}(i)
	}
	wg.Wait()

	slog.Info("workers stopped")
}

func (r *Runner) consume(ctx context.Context, id int) {
	for {
		jobID, err := r.queue.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("receiving from queue", "worker", id, "error", err)
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return
			}
			continue
		}

		if err := r.worker.Process(context.Background(), jobID); err != nil &&
			!errors.Is(err, context.Canceled) {
			slog.Error("processing job", "worker", id, "job_id", jobID, "error", err)
		}
	}
}
