// Package ring provides the bounded FIFO storage behind bqueue.Queue.
//
// A Buffer is not safe for concurrent use; the owning queue serialises every
// call under its own mutex.
package ring

// initialSize caps the first allocation; storage grows on demand up to the
// buffer's capacity.
const initialSize = 16

// Buffer is a bounded FIFO ring. The capacity is a limit, not an allocation:
// backing storage starts small and doubles as values arrive, never past the
// capacity. The zero value has capacity 0 and rejects every Push; construct
// via New.
type Buffer[T any] struct {
	data []T
	head int
	n    int
	max  int
}

// New creates a ring holding at most capacity values. A negative capacity is
// treated as 0.
func New[T any](capacity int) *Buffer[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer[T]{max: capacity}
}

// Push appends v to the tail.
//
// Returns false, leaving the ring unchanged, when it is full. Amortized
// complexity: O(1).
func (b *Buffer[T]) Push(v T) bool {
	if b.n == b.max {
		return false
	}
	if b.n == len(b.data) {
		b.grow()
	}
	b.data[(b.head+b.n)%len(b.data)] = v
	b.n++
	return true
}

// grow enlarges storage, unwrapping the contents so head is 0 again.
// Called only when every slot is in use and n < max.
func (b *Buffer[T]) grow() {
	size := len(b.data) * 2
	if size < initialSize {
		size = initialSize
	}
	// Guards overflow as well as the capacity limit.
	if size > b.max || size < len(b.data) {
		size = b.max
	}
	next := make([]T, size)
	k := copy(next, b.data[b.head:])
	copy(next[k:], b.data[:b.head])
	b.data = next
	b.head = 0
}

// Pop removes and returns the head value.
//
// The second result is false when the ring is empty. Complexity: O(1).
func (b *Buffer[T]) Pop() (T, bool) {
	var zero T
	if b.n == 0 {
		return zero, false
	}
	v := b.data[b.head]
	// Drop the reference so the GC can reclaim it.
	b.data[b.head] = zero
	b.head = (b.head + 1) % len(b.data)
	b.n--
	return v, true
}

// Peek returns the head value without removing it.
func (b *Buffer[T]) Peek() (T, bool) {
	var zero T
	if b.n == 0 {
		return zero, false
	}
	return b.data[b.head], true
}

// Len returns the number of values held.
func (b *Buffer[T]) Len() int { return b.n }

// Cap returns the capacity limit.
func (b *Buffer[T]) Cap() int { return b.max }

// Full reports whether Push would fail.
func (b *Buffer[T]) Full() bool { return b.n == b.max }

// Empty reports whether Pop would fail.
func (b *Buffer[T]) Empty() bool { return b.n == 0 }

// Clear removes all values. Allocated storage is kept for reuse.
// Complexity: O(allocated slots).
func (b *Buffer[T]) Clear() {
	clear(b.data)
	b.head = 0
	b.n = 0
}

// ToSlice returns a copy of the contents in FIFO order.
func (b *Buffer[T]) ToSlice() []T {
	out := make([]T, b.n)
	for i := 0; i < b.n; i++ {
		out[i] = b.data[(b.head+i)%len(b.data)]
	}
	return out
}
