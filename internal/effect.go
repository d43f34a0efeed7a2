package internal

import "time"

type EffectFlags int

const FlagNone EffectFlags = 0

const (
	FlagRunning EffectFlags = 1 << iota
	FlagQueued
	FlagOutdated
	FlagDisposed
)

type Effect struct {
	rt *Runtime

	fn func()

	sources []*DependencyLink

	// the value of the clock when the last run started
	seen int64

	flags EffectFlags

	// owns everything created while the effect runs, cleared before each re-run
	scope *Scope
}

// NewEffect creates an effect and runs it once. If that first run panics the
// effect is disposed and the panic propagates to the caller.
func (r *Runtime) NewEffect(fn func()) *Effect {
	parent := r.CurrentScope()

	e := &Effect{
		rt:    r,
		fn:    fn,
		scope: newScope(r, parent),
	}

	if recovered := e.run(); recovered != nil {
		if parent == nil || !parent.handle(recovered) {
			e.Dispose()
			panic(recovered)
		}
	}

	// one-shot effects that own nothing are not worth tracking
	if parent != nil && !e.HasFlag(FlagDisposed) && (len(e.sources) > 0 || e.scope.owns()) {
		parent.OnCleanup(e.Dispose)
	}

	return e
}

func (e *Effect) HasFlag(flag EffectFlags) bool {
	return e.flags&flag != 0
}

func (e *Effect) addFlag(flag EffectFlags) {
	e.flags |= flag
}

func (e *Effect) removeFlag(flag EffectFlags) {
	e.flags &^= flag
}

// Depth is the position of the effect in the scope tree.
func (e *Effect) Depth() int {
	return e.scope.depth
}

// Sources returns the number of signals the effect currently depends on.
func (e *Effect) Sources() int {
	return len(e.sources)
}

func (e *Effect) notify() {
	if e.flags&(FlagQueued|FlagRunning|FlagDisposed) != 0 {
		return
	}

	if !e.rt.scheduler.Enqueue(e) {
		return
	}

	e.addFlag(FlagQueued | FlagOutdated)
}

// run clears what the previous run created, executes fn in a fresh
// evaluation and reconciles the sources. A panic raised by fn is returned.
func (e *Effect) run() (recovered any) {
	if e.HasFlag(FlagRunning) {
		return nil
	}
	e.addFlag(FlagRunning)
	e.removeFlag(FlagOutdated)

	r := e.rt
	start := time.Now()

	e.scope.Clear()

	e.seen = r.clock

	collected, recovered := r.tracker.Collect(r.nextEvaluation(), e.scope, e.fn)
	e.sources = reconcile(e, e.sources, collected, true)
	e.removeFlag(FlagRunning)

	if e.HasFlag(FlagDisposed) {
		// disposed while running, release what was deferred and whatever
		// the rest of the run registered
		release(e.sources)
		e.sources = nil
		e.scope.Clear()
	}

	r.observer.EffectRan(e.scope.depth, time.Since(start), recovered)

	return recovered
}

// refresh re-runs the effect if one of its sources changed since the last run.
func (e *Effect) refresh() any {
	if e.HasFlag(FlagDisposed) {
		return nil
	}

	if !needsRecompute(e.sources, e.seen) {
		e.removeFlag(FlagOutdated)
		return nil
	}

	recovered := e.run()
	if recovered != nil && e.scope.parent != nil && e.scope.parent.handle(recovered) {
		return nil
	}

	return recovered
}

// Dispose stops the effect. Cleanups run immediately; the sources are
// released right away unless the effect is running, in which case they are
// released when the run completes.
func (e *Effect) Dispose() {
	if e.HasFlag(FlagDisposed) {
		return
	}
	e.addFlag(FlagDisposed)

	e.scope.Clear()

	if !e.HasFlag(FlagRunning) {
		release(e.sources)
		e.sources = nil
	}
}
