package queue

import (
	"context"

	"github.com/google/uuid"
)

// MemoryQueue is an in-process Queue for tests and single-binary
// deployments without Redis.
type MemoryQueue struct {
	ch chan uuid.UUID
}

// NewMemoryQueue creates a MemoryQueue with the given buffer size.
func NewMemoryQueue(size int) *MemoryQueue {
	if size <= 0 {
		size = 64
	}
	return &MemoryQueue{ch: make(chan uuid.UUID, size)}
}

func (q *MemoryQueue) Publish(ctx context.Context, jobID uuid.UUID) error {
	select {
	case q.ch <- jobID:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryQueue) Receive(ctx context.Context) (uuid.UUID, error) {
	select {
	case id, ok := <-q.ch:
		if !ok {
			return uuid.Nil, ErrClosed
		}
		return id, nil
	case <-ctx.Done():
		return uuid.Nil, ctx.Err()
	}
}

var _ Queue = (*MemoryQueue)(nil)
