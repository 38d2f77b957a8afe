package poller

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const defaultInterval = 2 * time.Second

// Outcome is the result of a polling task: the terminal snapshot, or the
// error that stopped polling (including context cancellation).
type Outcome struct {
	Status *JobStatus
	Err    error
}

// Handle is a running polling task. Cancel stops it; no further requests
// are made after Cancel returns and the outcome is delivered on Done.
type Handle struct {
	done   chan Outcome
	cancel context.CancelFunc
}

// Done returns a channel that receives exactly one Outcome.
func (h *Handle) Done() <-chan Outcome { return h.done }

// Cancel stops the polling task. Safe to call more than once.
func (h *Handle) Cancel() { h.cancel() }

// Poller polls job status at a fixed interval. Requests never overlap: the
// next one is scheduled only after the previous response arrives.
type Poller struct {
	client   *Client
	interval time.Duration
}

// NewPoller creates a Poller. A non-positive interval falls back to the
// default of 2s.
func NewPoller(client *Client, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Poller{client: client, interval: interval}
}

// Start begins polling jobID in a background goroutine. Polling stops when
// the job reaches a terminal state, a request fails, the parent ctx is
// done, or the handle is cancelled.
func (p *Poller) Start(ctx context.Context, jobID uuid.UUID) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{
		done:   make(chan Outcome, 1),
		cancel: cancel,
	}

	go func() {
		defer cancel()
		h.done <- p.poll(ctx, jobID)
	}()

	return h
}

// Wait polls synchronously until a terminal state or error.
func (p *Poller) Wait(ctx context.Context, jobID uuid.UUID) (*JobStatus, error) {
	out := p.poll(ctx, jobID)
	return out.Status, out.Err
}

func (p *Poller) poll(ctx context.Context, jobID uuid.UUID) Outcome {
	timer := time.NewTimer(0) // first request fires immediately
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return Outcome{Err: ctx.Err()}
		case <-timer.C:
		}

		status, err := p.client.Status(ctx, jobID)
		if err != nil {
			if ctx.Err() != nil {
				return Outcome{Err: ctx.Err()}
			}
			return Outcome{Err: err}
		}
		if status.Terminal() {
			return Outcome{Status: status}
		}

		timer.Reset(p.interval)
	}
}
