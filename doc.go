// Package bqueue provides a generic, bounded, blocking FIFO queue.
//
// A Queue has a fixed capacity chosen at construction. Put blocks producers
// while the queue is full and Take blocks consumers while it is empty, so a
// fast producer is throttled by a slow consumer instead of growing an
// unbounded buffer. TakeTimeout bounds the consumer's wait, and the
// PutContext/TakeContext variants accept a context for cancellation.
//
// All exported methods use internal locking and may be called from multiple
// goroutines. Construct a queue with New or MustNew; close it with Close to
// tell consumers that no more values will arrive.
package bqueue
