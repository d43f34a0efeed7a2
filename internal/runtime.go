package internal

// DefaultMaxFlushIterations bounds how many passes a single flush may take
// before further notifications stop scheduling effects.
const DefaultMaxFlushIterations = 100

type Runtime struct {
	// global logical clock, advanced on every effective signal write
	clock int64

	// monotonic id handed to each evaluation, used to dedupe reads
	evaluations int64

	tracker   *Tracker
	batcher   *Batcher
	scheduler *Scheduler
	settled   *SettledQueue

	observer Observer
}

func NewRuntime() *Runtime {
	return &Runtime{
		tracker:   NewTracker(),
		batcher:   NewBatcher(),
		scheduler: NewScheduler(DefaultMaxFlushIterations),
		settled:   NewSettledQueue(),
		observer:  nopObserver{},
	}
}

// Epoch returns the current value of the global clock.
func (r *Runtime) Epoch() int64 {
	return r.clock
}

func (r *Runtime) nextEpoch() int64 {
	r.clock++
	return r.clock
}

func (r *Runtime) nextEvaluation() int64 {
	r.evaluations++
	return r.evaluations
}

// SetObserver installs hooks called by the scheduler. A nil observer disables them.
func (r *Runtime) SetObserver(o Observer) {
	if o == nil {
		o = nopObserver{}
	}
	r.observer = o
}

// SetMaxFlushIterations changes the runaway threshold of the scheduler.
func (r *Runtime) SetMaxFlushIterations(n int) {
	if n <= 0 {
		n = DefaultMaxFlushIterations
	}
	r.scheduler.maxIterations = n
}

func (r *Runtime) CurrentScope() *Scope {
	return r.tracker.CurrentScope()
}

// OnCleanup registers fn on the current scope. It is a no-op outside of any scope.
func (r *Runtime) OnCleanup(fn func()) {
	if scope := r.CurrentScope(); scope != nil {
		scope.OnCleanup(fn)
	}
}

// OnSettled runs fn once, after the next flush has drained every pending effect.
func (r *Runtime) OnSettled(fn func()) {
	r.settled.Enqueue(fn)
}

func (r *Runtime) Untrack(fn func()) {
	r.tracker.RunUntracked(fn)
}
