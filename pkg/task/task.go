// Package task provides the unit of asynchronous computation used by the
// state engine: a named, cooperatively cancellable function with progress
// reporting.
//
// A computation receives a [Runtime] and must call [Runtime.Checkpoint] (or
// [Runtime.Progress]) inside long loops. Checkpoints are the only points where
// cancellation is observed; there is no preemption between them. Running a
// task inside another task's runtime (see [RunChild]) shares the parent's
// context, so cancelling the parent cancels all nested work. That is the only
// cancellation propagation mechanism in the system.
package task

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

var taskID atomic.Uint64

// Task is a deferred unit of work producing a T. It is inert until Run is
// called and carries no state between runs.
type Task[T any] struct {
	name string
	fn   func(rt *Runtime) (T, error)
}

// New builds a task from a name and a computation. The name appears in
// progress events and logs; keep it short and human-readable
// ("parse ccp4", "assembly symmetry").
func New[T any](name string, fn func(rt *Runtime) (T, error)) *Task[T] {
	return &Task[T]{name: name, fn: fn}
}

// Name returns the task's display name.
func (t *Task[T]) Name() string { return t.name }

// Run executes the task under ctx with no observer. The computation's error is
// returned as-is (wrapped with the task name); it is never swallowed.
func (t *Task[T]) Run(ctx context.Context) (T, error) {
	return t.RunObserved(ctx, nil)
}

// RunObserved executes the task under ctx, emitting lifecycle events to obs.
// A nil obs is valid and silently discards events.
func (t *Task[T]) RunObserved(ctx context.Context, obs Observer) (T, error) {
	rt := &Runtime{
		ctx:   ctx,
		obs:   obs,
		id:    taskID.Add(1),
		name:  t.name,
		start: time.Now(),
	}
	return run(rt, t)
}

func run[T any](rt *Runtime, t *Task[T]) (T, error) {
	rt.emit(Event{Type: EventStarted, TaskID: rt.id, Task: t.name})
	v, err := t.fn(rt)
	if err != nil {
		var zero T
		rt.emit(Event{Type: EventFinished, TaskID: rt.id, Task: t.name, Err: err, Elapsed: time.Since(rt.start)})
		return zero, fmt.Errorf("task %q: %w", t.name, err)
	}
	rt.emit(Event{Type: EventFinished, TaskID: rt.id, Task: t.name, Elapsed: time.Since(rt.start)})
	return v, nil
}

// RunChild executes child inside the parent runtime rt. The child shares rt's
// context and observer: cancelling the parent context cancels the child, and
// the child's events are reported alongside the parent's.
func RunChild[T any](rt *Runtime, child *Task[T]) (T, error) {
	sub := &Runtime{
		ctx:   rt.ctx,
		obs:   rt.obs,
		id:    taskID.Add(1),
		name:  child.name,
		start: time.Now(),
	}
	return run(sub, child)
}

// Runtime is the execution context handed to a running computation. It is
// valid only for the duration of the run and must not be retained.
type Runtime struct {
	ctx   context.Context
	obs   Observer
	id    uint64
	name  string
	start time.Time
}

// Context returns the context governing this run. Blocking calls made by the
// computation (fetch, store access) must take it.
func (rt *Runtime) Context() context.Context { return rt.ctx }

// TaskID returns the unique id of this run.
func (rt *Runtime) TaskID() uint64 { return rt.id }

// Checkpoint is the cooperative yield point. It reports progress text (when
// msg is non-empty) and returns the context's error if the run was cancelled.
// Long construction loops must call it periodically; a loop that never
// checkpoints cannot be cancelled.
func (rt *Runtime) Checkpoint(msg string) error {
	if err := rt.ctx.Err(); err != nil {
		return err
	}
	if msg != "" {
		rt.emit(Event{Type: EventProgressed, TaskID: rt.id, Task: rt.name, Message: msg, Indeterminate: true})
	}
	return nil
}

// Progress is Checkpoint with a determinate position: current out of max units
// of work done. It always emits an event.
func (rt *Runtime) Progress(msg string, current, max int) error {
	if err := rt.ctx.Err(); err != nil {
		return err
	}
	rt.emit(Event{Type: EventProgressed, TaskID: rt.id, Task: rt.name, Message: msg, Current: current, Max: max})
	return nil
}

func (rt *Runtime) emit(e Event) {
	if rt.obs != nil {
		rt.obs(e)
	}
}

// Background returns a runtime bound to ctx that belongs to no task. It exists
// for call sites that need to invoke runtime-taking code (property attachment,
// geometry builders) outside of a task run, primarily in tests and one-shot
// tools.
func Background(ctx context.Context) *Runtime {
	return &Runtime{ctx: ctx, id: taskID.Add(1), name: "background", start: time.Now()}
}
