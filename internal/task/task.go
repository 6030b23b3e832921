// ABOUTME: Background task runner delivering exactly one outcome per task.
// ABOUTME: Gate serialises triggers so at most one task of a kind is in flight.
package task

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/semaphore"
)

// ErrBusy is returned when a gate is already held.
var ErrBusy = errors.New("another task is already running")

// Outcome is the single result of a task: a value or an error.
type Outcome[T any] struct {
	Value T
	Err   error
}

// Run executes fn on its own goroutine. The returned channel receives
// exactly one Outcome and is then closed. A panic in fn is delivered as an
// error instead of crashing the process.
func Run[T any](ctx context.Context, fn func(context.Context) (T, error)) <-chan Outcome[T] {
	ch := make(chan Outcome[T], 1)
	go func() {
		defer close(ch)
		var out Outcome[T]
		defer func() {
			if r := recover(); r != nil {
				out = Outcome[T]{Err: fmt.Errorf("task panicked: %v", r)}
			}
			ch <- out
		}()
		out.Value, out.Err = fn(ctx)
	}()
	return ch
}

// Wait runs fn and blocks until its outcome arrives or ctx ends.
func Wait[T any](ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	select {
	case out := <-Run(ctx, fn):
		return out.Value, out.Err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Gate admits one holder at a time and rejects, rather than queues, the rest.
type Gate struct {
	sem *semaphore.Weighted
}

// NewGate returns an open gate.
func NewGate() *Gate {
	return &Gate{sem: semaphore.NewWeighted(1)}
}

// TryEnter takes the gate. It returns a release func, or ErrBusy if the gate
// is already held.
func (g *Gate) TryEnter() (func(), error) {
	if !g.sem.TryAcquire(1) {
		return nil, ErrBusy
	}
	return func() { g.sem.Release(1) }, nil
}
