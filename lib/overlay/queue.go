package overlay

import (
	"context"
	"sync"
)

type task func(ctx context.Context)

// queue is an unbounded FIFO drained by a single goroutine. Pushing never
// blocks, so stream callbacks can enqueue from their own goroutine.
type queue struct {
	mu     sync.Mutex
	items  []task
	closed bool
	signal chan struct{}
}

func newQueue() *queue {
	return &queue{signal: make(chan struct{}, 1)}
}

func (q *queue) push(t task) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, t)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

func (q *queue) drain() []task {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	return items
}

func (q *queue) close() {
	q.mu.Lock()
	q.closed = true
	q.items = nil
	q.mu.Unlock()
}

// run executes tasks in push order until ctx is done.
func (q *queue) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-q.signal:
		}
		for _, t := range q.drain() {
			if ctx.Err() != nil {
				return
			}
			t(ctx)
		}
	}
}
