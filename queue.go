package bqueue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xyhelper/bqueue/cond"
	"github.com/xyhelper/bqueue/internal/ring"
)

// Queue is a bounded, blocking, concurrency-safe FIFO.
//
// Put blocks while the queue holds Cap values and Take blocks while it holds
// none. Values leave in exactly the order they entered, whatever the number of
// producers and consumers. After Close, Put fails with ErrClosed and Take
// drains what is left before failing with ErrClosed.
//
// All methods are safe for concurrent use by multiple goroutines. The zero
// value is not ready for use; construct via New or MustNew.
type Queue[T any] struct {
	mu       sync.Mutex
	notEmpty *cond.Cond // consumers wait here
	notFull  *cond.Cond // producers wait here
	items    *ring.Buffer[T]
	closed   bool
	high     int

	policy TimeoutPolicy
	log    *logrus.Entry
}

// New creates a queue holding at most capacity values.
//
// It returns ErrInvalidCapacity when capacity < 1: a zero-capacity queue
// would block every Put forever. Capacity is a limit; storage is allocated as
// values arrive, so any positive capacity is accepted.
func New[T any](capacity int, opts ...Option) (*Queue[T], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	cfg := newConfig(opts)
	q := &Queue[T]{
		items:  ring.New[T](capacity),
		policy: cfg.policy,
		log: cfg.logger.WithFields(logrus.Fields{
			"package":  "bqueue",
			"capacity": capacity,
		}),
	}
	q.notEmpty = cond.New(&q.mu)
	q.notFull = cond.New(&q.mu)

	q.log.WithFields(logrus.Fields{
		"function":       "New",
		"timeout_policy": cfg.policy.String(),
	}).Debug("Queue created")
	return q, nil
}

// MustNew is like New but panics on an invalid capacity.
func MustNew[T any](capacity int, opts ...Option) *Queue[T] {
	q, err := New[T](capacity, opts...)
	if err != nil {
		panic(err)
	}
	return q
}

// Put appends v to the tail, blocking while the queue is full.
//
// It returns ErrClosed, without enqueuing v, if the queue is closed before
// space becomes available.
func (q *Queue[T]) Put(v T) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for !q.closed && q.items.Full() {
		q.notFull.Wait()
	}
	return q.pushLocked(v)
}

// PutContext is Put that gives up when ctx is done, returning ctx.Err().
func (q *Queue[T]) PutContext(ctx context.Context, v T) error {
	if ctx == nil {
		ctx = context.Background()
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	for !q.closed && q.items.Full() {
		if err := q.notFull.WaitContext(ctx); err != nil {
			q.log.WithFields(logrus.Fields{
				"function": "PutContext",
				"error":    err.Error(),
			}).Trace("Put abandoned")
			return err
		}
	}
	return q.pushLocked(v)
}

// PutMany puts items in order, blocking as needed, and returns how many were
// enqueued. It stops at the first error, which is always ErrClosed.
// Other producers may interleave with the batch while it waits for space.
func (q *Queue[T]) PutMany(items ...T) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, v := range items {
		for !q.closed && q.items.Full() {
			q.notFull.Wait()
		}
		if err := q.pushLocked(v); err != nil {
			return i, err
		}
	}
	return len(items), nil
}

// TryPut appends v without blocking. It returns false when the queue is full
// or closed.
func (q *Queue[T]) TryPut(v T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.items.Full() {
		return false
	}
	return q.pushLocked(v) == nil
}

// Take removes and returns the head value, blocking while the queue is empty.
//
// Once the queue is closed, Take keeps returning buffered values until none
// are left and then returns ErrClosed.
func (q *Queue[T]) Take() (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for !q.closed && q.items.Empty() {
		q.notEmpty.Wait()
	}
	return q.popLocked()
}

// TakeTimeout is Take bounded by d.
//
// It returns ErrTimeout when no value arrived in time; nothing is removed in
// that case. How d is spent across repeated wakes depends on the queue's
// TimeoutPolicy. A d <= 0 polls once.
func (q *Queue[T]) TakeTimeout(d time.Duration) (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	start := time.Now()
	deadline := start.Add(d)
	for !q.closed && q.items.Empty() {
		wait := d
		if q.policy == DeadlinePolicy {
			wait = time.Until(deadline)
		}
		// A value may have landed while the timer fired; take it if so.
		if !q.notEmpty.WaitTimeout(wait) && !q.closed && q.items.Empty() {
			q.log.WithFields(logrus.Fields{
				"function": "TakeTimeout",
				"budget":   d,
				"waited":   time.Since(start),
			}).Trace("Take timed out")
			var zero T
			return zero, ErrTimeout
		}
	}
	return q.popLocked()
}

// TakeContext is Take that gives up when ctx is done, returning ctx.Err().
func (q *Queue[T]) TakeContext(ctx context.Context) (T, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	for !q.closed && q.items.Empty() {
		if err := q.notEmpty.WaitContext(ctx); err != nil {
			q.log.WithFields(logrus.Fields{
				"function": "TakeContext",
				"error":    err.Error(),
			}).Trace("Take abandoned")
			var zero T
			return zero, err
		}
	}
	return q.popLocked()
}

// TryTake removes and returns the head value without blocking.
// ok is false if the queue is empty.
func (q *Queue[T]) TryTake() (v T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	v, ok = q.items.Pop()
	if ok {
		q.notFull.Signal()
	}
	return
}

// Peek returns the head value without removing it. ok is false when empty.
func (q *Queue[T]) Peek() (v T, ok bool) {
	q.mu.Lock()
	v, ok = q.items.Peek()
	q.mu.Unlock()
	return
}

// Len returns the number of values currently queued. The result is a
// snapshot and may be stale by the time the caller acts on it.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	n := q.items.Len()
	q.mu.Unlock()
	return n
}

// Cap returns the fixed capacity.
func (q *Queue[T]) Cap() int { return q.items.Cap() }

// IsEmpty reports whether the queue is empty. Like Len it is only a snapshot:
// it must not be used to predict whether a following Take will block.
func (q *Queue[T]) IsEmpty() bool { return q.Len() == 0 }

// IsFull reports whether the queue holds Cap values. Snapshot, as IsEmpty.
func (q *Queue[T]) IsFull() bool { return q.Len() == q.Cap() }

// HighWater returns the largest number of values the queue has held at once.
func (q *Queue[T]) HighWater() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.high
}

// ToSlice returns a copy of the queued values in FIFO order. Snapshot, as
// IsEmpty.
func (q *Queue[T]) ToSlice() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.ToSlice()
}

// Clear discards every queued value and wakes all producers blocked on a full
// queue. It returns the number of values discarded. Clear does not close the
// queue.
func (q *Queue[T]) Clear() int {
	q.mu.Lock()
	n := q.items.Len()
	q.items.Clear()
	if n > 0 {
		q.notFull.Broadcast()
	}
	q.mu.Unlock()

	q.log.WithFields(logrus.Fields{
		"function":  "Clear",
		"discarded": n,
	}).Debug("Queue cleared")
	return n
}

// Close marks the queue closed and wakes every blocked producer and consumer.
// Blocked and future Puts return ErrClosed; Takes drain the remaining values
// and then return ErrClosed. Close is idempotent.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	pending := q.items.Len()
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
	q.mu.Unlock()

	q.log.WithFields(logrus.Fields{
		"function": "Close",
		"pending":  pending,
	}).Debug("Queue closed")
}

// Closed reports whether Close has been called.
func (q *Queue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// pushLocked appends v and wakes one consumer. q.mu must be held and the
// queue must not be full unless it is closed.
func (q *Queue[T]) pushLocked(v T) error {
	if q.closed {
		return ErrClosed
	}
	q.items.Push(v)
	if n := q.items.Len(); n > q.high {
		q.high = n
	}
	q.notEmpty.Signal()
	return nil
}

// popLocked removes the head and wakes one producer. q.mu must be held.
func (q *Queue[T]) popLocked() (T, error) {
	v, ok := q.items.Pop()
	if !ok {
		return v, ErrClosed
	}
	q.notFull.Signal()
	return v, nil
}
