package internal

type Scheduler struct {
	pending *DepthHeap

	// number of passes taken by the running flush
	iterations int

	// passes after which notifications stop scheduling effects
	maxIterations int

	// set once per flush when the iteration budget ran out
	exhausted bool

	running bool
}

func NewScheduler(maxIterations int) *Scheduler {
	return &Scheduler{
		pending:       NewHeap(),
		maxIterations: maxIterations,
	}
}

// Enqueue adds e to the pending effects. It returns false when the running
// flush exhausted its iteration budget, in which case e is dropped.
func (s *Scheduler) Enqueue(e *Effect) bool {
	if s.running && s.iterations >= s.maxIterations {
		s.exhausted = true
		return false
	}

	s.pending.Insert(e)
	return true
}

// Pending returns the number of queued effects.
func (s *Scheduler) Pending() int {
	return s.pending.Len()
}

// Flush drains the pending effects, shallow first, until no new work is
// scheduled. Panics raised by effects are collected so siblings still run;
// the first one is re-raised once the flush is over.
func (r *Runtime) Flush() {
	s := r.scheduler
	if s.running {
		return
	}

	if s.pending.Len() == 0 {
		r.settled.Run()
		return
	}

	s.running = true
	s.iterations = 0
	s.exhausted = false

	var first any
	ran := 0

	for s.pending.Len() > 0 {
		s.iterations++

		for _, e := range s.pending.Drain() {
			e.removeFlag(FlagQueued)

			if e.HasFlag(FlagDisposed) {
				continue
			}

			ran++
			if recovered := e.refresh(); recovered != nil && first == nil {
				first = recovered
			}
		}
	}

	passes, exhausted := s.iterations, s.exhausted
	s.running = false
	s.iterations = 0
	s.exhausted = false

	if exhausted {
		r.observer.Runaway(passes)
	}
	r.observer.Flushed(passes, ran, first)

	r.settled.Run()

	if first != nil {
		panic(first)
	}
}
