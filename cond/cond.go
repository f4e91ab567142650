// Package cond provides a condition variable with timed and cancellable waits.
//
// Cond follows the contract of sync.Cond (Wait, Signal, Broadcast against an
// associated sync.Locker) and adds WaitTimeout and WaitContext, which
// sync.Cond cannot offer. A waiter is registered before the locker is
// released, so a Signal issued by anyone who acquires the locker afterwards
// always reaches it. Waiters are woken in the order they started waiting.
package cond

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// Cond is a condition variable associated with a sync.Locker.
//
// The zero value is not usable; construct via New. A Cond must not be copied
// after first use.
type Cond struct {
	// L is held while observing or changing the condition.
	L sync.Locker

	mu      sync.Mutex
	waiters list.List // of chan struct{}
}

// New returns a Cond bound to l. It panics if l is nil.
func New(l sync.Locker) *Cond {
	if l == nil {
		panic("cond: nil Locker")
	}
	return &Cond{L: l}
}

// Wait atomically unlocks c.L and suspends the calling goroutine until
// Signal or Broadcast wakes it, then locks c.L again before returning.
//
// As with sync.Cond, callers must recheck their condition in a loop:
//
//	c.L.Lock()
//	for !condition() {
//	    c.Wait()
//	}
//	... use condition ...
//	c.L.Unlock()
func (c *Cond) Wait() {
	_, ch := c.register()
	c.L.Unlock()
	<-ch
	c.L.Lock()
}

// WaitTimeout is Wait bounded by d.
//
// It reports true when woken by Signal or Broadcast and false when d elapsed
// first. c.L is held again on return in both cases. A signal that arrives
// together with the timeout is never dropped: the waiter reports true and the
// signal is consumed. For d <= 0 it returns false without releasing c.L.
func (c *Cond) WaitTimeout(d time.Duration) bool {
	if d <= 0 {
		return false
	}
	t := time.NewTimer(d)
	defer t.Stop()
	return waitOn(c, t.C)
}

// WaitContext is Wait that also returns when ctx is done.
//
// It returns nil when woken by Signal or Broadcast and ctx.Err() otherwise.
// If ctx is already done, it returns ctx.Err() without releasing c.L.
func (c *Cond) WaitContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if waitOn(c, ctx.Done()) {
		return nil
	}
	return ctx.Err()
}

// Signal wakes the longest-waiting goroutine, if there is one.
//
// It is allowed but not required for the caller to hold c.L.
func (c *Cond) Signal() {
	c.mu.Lock()
	if e := c.waiters.Front(); e != nil {
		close(c.waiters.Remove(e).(chan struct{}))
	}
	c.mu.Unlock()
}

// Broadcast wakes all waiting goroutines.
func (c *Cond) Broadcast() {
	c.mu.Lock()
	for e := c.waiters.Front(); e != nil; e = c.waiters.Front() {
		close(c.waiters.Remove(e).(chan struct{}))
	}
	c.mu.Unlock()
}

// Waiters returns the number of goroutines currently suspended in a wait.
func (c *Cond) Waiters() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.waiters.Len()
}

func (c *Cond) register() (*list.Element, chan struct{}) {
	ch := make(chan struct{})
	c.mu.Lock()
	e := c.waiters.PushBack(ch)
	c.mu.Unlock()
	return e, ch
}

// waitOn suspends until c is signaled or until done delivers or closes. It
// reports whether the waiter was signaled. D lets timer and context channels
// share it.
func waitOn[D any](c *Cond, done <-chan D) bool {
	e, ch := c.register()
	c.L.Unlock()
	select {
	case <-ch:
		c.L.Lock()
		return true
	case <-done:
	}
	signaled := c.deregister(e, ch)
	c.L.Lock()
	return signaled
}

// deregister removes a waiter that gave up. It returns true if a signaler
// got to it first, in which case the wakeup belongs to this waiter.
func (c *Cond) deregister(e *list.Element, ch chan struct{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	// Signalers close ch while holding c.mu, so this check cannot race.
	select {
	case <-ch:
		return true
	default:
	}
	c.waiters.Remove(e)
	return false
}
