package sig

import "github.com/AnatoleLucet/sig/internal"

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}

	return v.(T)
}

type Signal[T any] struct {
	signal *internal.Signal
}

// NewSignal creates your tipical read/write signal.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{
		internal.GetRuntime().NewSignal(initial),
	}
}

// Read the current value of the signal, tracking the dependency if within a reactive context.
func (s *Signal[T]) Read() T {
	return as[T](s.signal.Read())
}

// Peek reads the current value without tracking it.
func (s *Signal[T]) Peek() T {
	return as[T](s.signal.Peek())
}

// Write a new value to the signal, triggering updates to any dependents.
// Writing a value equal to the current one does nothing.
func (s *Signal[T]) Write(v T) {
	s.signal.Write(v)
}

// Epoch returns the clock value of the last write that changed the signal,
// or 0 if it still holds its initial value.
func (s *Signal[T]) Epoch() int64 {
	return s.signal.Epoch()
}

// Update writes the result of fn applied to the current (untracked) value.
func (s *Signal[T]) Update(fn func(T) T) {
	s.Write(fn(s.Peek()))
}

type Computed[T any] struct {
	computed *internal.Computed
}

// NewComputed creates a computed signal that derives its value from other signals (its a memo).
// The computation is lazy: it runs on first read, then only when a source changed.
func NewComputed[T any](compute func() T) *Computed[T] {
	return &Computed[T]{
		internal.GetRuntime().NewComputed(func() any {
			return compute()
		}),
	}
}

// Read the current value of the computed signal, tracking the dependency if within a reactive context.
// If the computation panicked, the panic is raised again on every read until a source changes.
func (c *Computed[T]) Read() T {
	return as[T](c.computed.Read())
}

// TryRead is like Read but returns the computation's panic as an error.
func (c *Computed[T]) TryRead() (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = asError(r)
		}
	}()

	return c.Read(), nil
}

// Peek returns the last computed value without refreshing or tracking it.
func (c *Computed[T]) Peek() T {
	return as[T](c.computed.Peek())
}

// Dispose detaches the computed from its sources.
func (c *Computed[T]) Dispose() {
	c.computed.Dispose()
}

type Effect struct {
	effect *internal.Effect
}

// NewEffect creates a reactive effect that runs the given function now,
// then whenever its dependencies change.
// If the first run panics, the effect is disposed and the panic propagates.
func NewEffect(fn func()) *Effect {
	return &Effect{
		internal.GetRuntime().NewEffect(fn),
	}
}

// Dispose stops the effect and runs its cleanups.
func (e *Effect) Dispose() {
	e.effect.Dispose()
}

// NewBatch batches multiple signal writes into a single update cycle,
// instead of triggering updates after each write.
func NewBatch(fn func()) {
	internal.GetRuntime().NewBatch(fn)
}

// TryBatch is like NewBatch but returns the first panic raised by fn or by an effect as an error.
func TryBatch(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = asError(r)
		}
	}()

	NewBatch(fn)
	return nil
}

// Untrack runs the given function without tracking any reactive dependencies.
func Untrack[T any](fn func() T) T {
	var result T
	internal.GetRuntime().Untrack(func() { result = fn() })
	return result
}

// OnCleanup registers a function to be called when the current scope is cleared.
func OnCleanup(fn func()) {
	internal.GetRuntime().OnCleanup(fn)
}

// OnSettled registers a function to be called once, after the next flush of effects.
func OnSettled(fn func()) {
	internal.GetRuntime().OnSettled(fn)
}

type Context[T any] struct {
	ctx *internal.Context
}

// NewContext creates a new reactive context with an initial value.
func NewContext[T any](initial T) *Context[T] {
	return &Context[T]{
		internal.GetRuntime().NewContext(initial),
	}
}

// Value retrieves the current value of the context,
// inheriting from parent scopes if not set in the current scope.
func (c *Context[T]) Value() T {
	return as[T](c.ctx.Value())
}

// Set a new value for the context in the current scope.
func (c *Context[T]) Set(value T) {
	c.ctx.Set(value)
}

type Scope struct {
	scope *internal.Scope
}

// NewScope creates a new reactive scope, owned by the current scope if any.
// A scope manages the lifecycle of reactive nodes created within its context.
func NewScope() *Scope {
	return &Scope{
		internal.GetRuntime().NewScope(),
	}
}

// Run a function within the context of this scope.
// Each reactive node created within the function will be owned by this scope,
// and will be disposed when Clear or Dispose is called on it.
func (s *Scope) Run(fn func() error) error { return s.scope.Run(fn) }

// Clear disposes everything the scope owns, children first, then cleanups in registration order.
// The scope stays usable.
func (s *Scope) Clear() { s.scope.Clear() }

// Dispose clears the scope and detaches it from its parent.
func (s *Scope) Dispose() { s.scope.Dispose() }

// Add a cleanup function to be called ONCE when the scope is cleared.
func (s *Scope) OnCleanup(fn func()) { s.scope.OnCleanup(fn) }

// Add a function to be called when a panic occurs within this scope.
// If no error listener is registered, the panic will propagate as usual.
func (s *Scope) OnError(fn func(any)) { s.scope.OnError(fn) }

// Depth is the position of the scope in the scope tree, 1 for a root scope.
func (s *Scope) Depth() int { return s.scope.Depth() }

// SetMaxFlushIterations changes how many passes a flush may take before
// further writes stop scheduling effects. The default is 100.
func SetMaxFlushIterations(n int) {
	internal.GetRuntime().SetMaxFlushIterations(n)
}

// SetObserver installs scheduler hooks on the runtime of the calling goroutine.
func SetObserver(o Observer) {
	internal.GetRuntime().SetObserver(o)
}

// Observer receives scheduler events, see metrics.Observer and LogObserver.
type Observer = internal.Observer

// Observers fans events out to several observers.
type Observers = internal.Observers
