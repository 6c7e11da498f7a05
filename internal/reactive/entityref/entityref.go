// Package entityref implements the weak-reference owning handle every
// entity monitor task is built on (spec invariant: "every per-entity
// monitor task holds only a weak reference to its entity"). An Owner is
// the strong handle returned to callers; a Weak is what a monitor task
// holds. Upgrade fails once the Owner has been Closed (deterministic,
// used by tests) or become unreachable to the garbage collector (the
// production path, via runtime.AddCleanup).
package entityref

import (
	"context"
	"runtime"
)

// Owner is a strong handle to a value of type T. The entity is
// considered "owned" until the Owner has either been explicitly Closed
// or become unreachable to the garbage collector.
type Owner[T any] struct {
	val    *T
	ctx    context.Context
	cancel context.CancelFunc
}

// New wraps val in an Owner. The returned Owner's liveness context is
// canceled once it is garbage collected without having been explicitly
// Closed — this is what lets a monitor task self-terminate even if a
// caller forgets to Close.
func New[T any](val *T) *Owner[T] {
	ctx, cancel := context.WithCancel(context.Background())
	o := &Owner[T]{val: val, ctx: ctx, cancel: cancel}
	runtime.AddCleanup(o, func(c context.CancelFunc) { c() }, cancel)
	return o
}

// Value returns the underlying pointer.
func (o *Owner[T]) Value() *T { return o.val }

// Weak returns a weak reference suitable for handing to a monitor task.
func (o *Owner[T]) Weak() Weak[T] { return Weak[T]{ctx: o.ctx, val: o.val} }

// Close releases the owning handle immediately, without waiting for
// garbage collection. After Close, Weak.Upgrade on its Weak will fail
// on the next check.
func (o *Owner[T]) Close() { o.cancel() }

// Done returns a channel closed once the owner has been closed or
// garbage-collected, so a monitor loop can select on it directly instead of
// polling Upgrade in a busy loop.
func (o *Owner[T]) Done() <-chan struct{} { return o.ctx.Done() }

// Weak is a non-owning reference to an entity. It must be upgraded
// before the value can be used; upgrade fails once the owning handle is
// gone.
type Weak[T any] struct {
	ctx context.Context
	val *T
}

// Upgrade attempts to obtain the entity. ok is false once the owner has
// been Closed or collected, at which point a monitor task must return.
func (w Weak[T]) Upgrade() (val *T, ok bool) {
	select {
	case <-w.ctx.Done():
		return nil, false
	default:
		return w.val, true
	}
}

// Done returns a channel closed once the owner is gone, letting a
// monitor loop select on owner death alongside its backend change
// streams instead of re-checking Upgrade on every source firing.
func (w Weak[T]) Done() <-chan struct{} { return w.ctx.Done() }
