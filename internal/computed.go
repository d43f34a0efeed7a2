package internal

import "slices"

type Computed struct {
	*Signal

	compute func() any

	sources []*DependencyLink

	// the value of the clock when the last evaluation started
	seen int64

	// the value of the clock when this computed was last known up to date
	worldEpoch int64

	// cached panic of the last evaluation, re-raised on read
	err any

	initialized bool
	outdated    bool
	running     bool
	disposed    bool

	// scope this computed was created in, receives its disposer once it has sources
	scope      *Scope
	registered bool
}

func (r *Runtime) NewComputed(compute func() any) *Computed {
	c := &Computed{
		Signal:  r.NewSignal(nil),
		compute: compute,
		scope:   r.CurrentScope(),
	}
	c.Signal.computed = c

	return c
}

// Read refreshes the computed if needed and returns its value, tracking the
// dependency if within a reactive evaluation. A cached panic is re-raised.
func (c *Computed) Read() any {
	c.rt.tracker.Track(c.Signal)

	c.Refresh()
	if c.err != nil {
		panic(c.err)
	}

	return c.value
}

// Peek returns the last computed value without refreshing or tracking.
func (c *Computed) Peek() any {
	return c.value
}

// Err returns the cached panic of the last evaluation, if any.
func (c *Computed) Err() any {
	return c.err
}

func (c *Computed) active() bool {
	return len(c.targets) > 0 && !c.disposed
}

// Refresh brings the cached value up to date and reports whether it changed.
func (c *Computed) Refresh() bool {
	if c.running {
		// cycle, keep the stale value
		return false
	}

	r := c.rt

	if c.initialized {
		if c.active() && !c.outdated {
			return false
		}

		if !c.active() && c.worldEpoch == r.clock {
			return false
		}

		if !needsRecompute(c.sources, c.seen) {
			c.outdated = false
			c.worldEpoch = r.clock
			return false
		}
	}

	c.running = true
	c.seen = r.clock

	var value any
	sources, recovered := r.tracker.Collect(r.nextEvaluation(), nil, func() {
		value = c.compute()
	})

	c.running = false
	c.sources = reconcile(c, c.sources, sources, c.active())
	c.outdated = false
	c.worldEpoch = r.clock

	changed := !c.initialized
	c.initialized = true

	if recovered != nil {
		c.err = recovered
		changed = true
	} else {
		if c.err != nil || !isEqual(c.value, value) {
			changed = true
		}
		c.err = nil
		c.value = value
	}

	if changed {
		c.epoch = r.clock
	}

	if !c.registered && c.scope != nil && len(c.sources) > 0 {
		c.registered = true
		c.scope.OnCleanup(c.Dispose)
	}

	return changed
}

func (c *Computed) notify() {
	if c.disposed {
		return
	}
	c.outdated = true

	for _, link := range slices.Clone(c.targets) {
		link.sub.notify()
	}
}

// activate subscribes to the sources once the first target subscribes.
func (c *Computed) activate() {
	if c.disposed {
		return
	}

	for _, link := range c.sources {
		if link.idx < 0 {
			link.dep.subscribe(link)
		}
	}

	// reads happened while nobody listened, let the next refresh check epochs
	c.outdated = true
}

// deactivate unsubscribes from the sources once the last target is gone.
func (c *Computed) deactivate() {
	release(c.sources)
}

// Dispose detaches the computed from its sources. It can still be read, but
// no longer propagates changes.
func (c *Computed) Dispose() {
	c.disposed = true
	release(c.sources)
}

// needsRecompute reports whether any source changed after seen, refreshing
// upstream computeds along the way.
func needsRecompute(links []*DependencyLink, seen int64) bool {
	for _, link := range links {
		dep := link.dep

		if dep.computed != nil {
			dep.computed.Refresh()
		}

		if dep.epoch > seen {
			return true
		}
	}

	return false
}
