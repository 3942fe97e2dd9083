package conversations

import (
	"context"
	"sync"
)

// Snapshot is the full result set of a live query at one point in time.
// A snapshot with Err set is the last one its subscription delivers.
type Snapshot[T any] struct {
	Items []T
	Err   error
}

// Subscription is a live query. Snapshots arrive on C, which is closed once the
// producer has exited.
type Subscription[T any] struct {
	C <-chan Snapshot[T]

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Emit hands a snapshot to the consumer. It returns false once the subscription
// is cancelled, after which the producer must return.
type Emit[T any] func(Snapshot[T]) bool

// Subscribe runs produce in its own goroutine until it returns or the
// subscription is cancelled.
func Subscribe[T any](ctx context.Context, produce func(ctx context.Context, emit Emit[T])) *Subscription[T] {
	ctx, cancel := context.WithCancel(ctx)
	c := make(chan Snapshot[T])
	s := &Subscription[T]{C: c, cancel: cancel, done: make(chan struct{})}

	emit := func(snap Snapshot[T]) bool {
		select {
		case c <- snap:
			return true
		case <-ctx.Done():
			return false
		}
	}

	go func() {
		defer close(s.done)
		defer close(c)
		produce(ctx, emit)
	}()
	return s
}

// Unsubscribe stops delivery and waits for the producer to exit. No snapshot is
// delivered after it returns.
func (s *Subscription[T]) Unsubscribe() {
	s.once.Do(s.cancel)
	<-s.done
}
