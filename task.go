package oqpi

import "context"

// taskOptions holds configuration resolved from TaskOption values.
type taskOptions struct {
	ctx   context.Context
	hooks TaskHooks
}

// TaskOption configures a Task at construction time.
type TaskOption interface {
	applyTask(*taskOptions)
}

type taskOptionFunc func(*taskOptions)

func (f taskOptionFunc) applyTask(o *taskOptions) { f(o) }

// WithTaskContext sets the context.Context passed to the task's payload.
// Defaults to context.Background().
func WithTaskContext(ctx context.Context) TaskOption {
	return taskOptionFunc(func(o *taskOptions) { o.ctx = ctx })
}

// WithTaskHooks attaches a TaskHooks bundle, composed once at construction
// time rather than mutated afterward.
func WithTaskHooks(hooks TaskHooks) TaskOption {
	return taskOptionFunc(func(o *taskOptions) { o.hooks = hooks })
}

func resolveTaskOptions(opts []TaskOption) taskOptions {
	cfg := taskOptions{ctx: context.Background()}
	for _, opt := range opts {
		if opt != nil {
			opt.applyTask(&cfg)
		}
	}
	return cfg
}

// Task is a leaf unit of work: a typed callable plus its result slot. T is
// the payload's return type; fire-and-forget tasks use Task[struct{}]
// since their result is never observed.
type Task[T any] struct {
	taskBase
	ctx    context.Context
	fn     func(context.Context) (T, error)
	result Result[T]
	hooks  TaskHooks
}

// NewTask builds a waitable task from a payload returning (T, error).
func NewTask[T any](name string, priority Priority, fn func(context.Context) (T, error), opts ...TaskOption) *Task[T] {
	cfg := resolveTaskOptions(opts)
	return &Task[T]{
		taskBase: newTaskBase(name, priority, Waitable),
		ctx:      cfg.ctx,
		fn:       fn,
		hooks:    cfg.hooks,
	}
}

// NewFireAndForgetTask builds a task whose completion is never waited on;
// its result, if any, is discarded.
func NewFireAndForgetTask(name string, priority Priority, fn func(context.Context) error, opts ...TaskOption) *Task[struct{}] {
	cfg := resolveTaskOptions(opts)
	return &Task[struct{}]{
		taskBase: newTaskBase(name, priority, FireAndForget),
		ctx:      cfg.ctx,
		fn: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, fn(ctx)
		},
		hooks: cfg.hooks,
	}
}

// Execute runs the pre-hook, payload, result capture, post-hook, then
// transitions to done and notifies. A payload panic is recovered and
// stored as an aborted result rather than crashing the worker.
func (t *Task[T]) Execute() {
	t.hooks.preExecute(t)
	t.runPayload()
	t.hooks.postExecute(t)
	t.finish(t)
}

func (t *Task[T]) runPayload() {
	defer func() {
		if r := recover(); r != nil {
			t.result.setAborted(&PanicError{Value: r, Name: t.name})
		}
	}()
	v, err := t.fn(t.ctx)
	if err != nil {
		t.result.setAborted(err)
		return
	}
	t.result.setValue(v)
}

// executeSingleThreaded implements the debug/serial execution path: grab,
// and if successful, run inline.
func (t *Task[T]) executeSingleThreaded() bool {
	if !t.TryGrab() {
		return false
	}
	t.Execute()
	return true
}

// ActiveWait implements priority-donation-style cooperative completion:
// the caller runs the payload itself if it wins the grab, otherwise
// blocks like Wait.
func (t *Task[T]) ActiveWait() error {
	if t.taskType == FireAndForget {
		return ErrWaitOnFireAndForget
	}
	if t.TryGrab() {
		t.Execute()
		return nil
	}
	return t.Wait()
}

// GetResult returns the task's stored result. It is a programmer error to
// call this before the task is done, or on a fire-and-forget task.
func GetResult[T any](t *Task[T]) (T, error) {
	if t.taskType == FireAndForget {
		var zero T
		return zero, ErrWaitOnFireAndForget
	}
	if !t.IsDone() {
		var zero T
		return zero, ErrResultNotReady
	}
	return t.result.Get()
}

// WaitForResult blocks until done, then returns the result.
func WaitForResult[T any](t *Task[T]) (T, error) {
	if err := t.Wait(); err != nil {
		var zero T
		return zero, err
	}
	return GetResult(t)
}
