package bqueue

import (
	"context"
	"errors"
)

var (
	// ErrClosed is returned by Put once the queue is closed, and by Take once
	// the queue is closed and drained.
	ErrClosed = errors.New("bqueue: queue closed")

	// ErrTimeout is returned by TakeTimeout when no value arrived within the
	// budget. It is an expected outcome rather than a failure; the queue is
	// left untouched.
	ErrTimeout = errors.New("bqueue: take timed out")

	// ErrInvalidCapacity is returned by New for a capacity below 1.
	ErrInvalidCapacity = errors.New("bqueue: capacity must be positive")
)

// ErrCanceled is returned by the context variants when the context is canceled.
var ErrCanceled = context.Canceled

// ErrDeadlineExceeded is returned by the context variants when the context deadline expires.
var ErrDeadlineExceeded = context.DeadlineExceeded

// IsContextError reports whether err equals context.Canceled or context.DeadlineExceeded.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// IsTimeout reports whether err is ErrTimeout.
func IsTimeout(err error) bool { return errors.Is(err, ErrTimeout) }

// IsClosed reports whether err is ErrClosed.
func IsClosed(err error) bool { return errors.Is(err, ErrClosed) }
