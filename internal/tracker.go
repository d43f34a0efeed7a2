package internal

// evaluation collects the sources read while a computed or an effect runs.
type evaluation struct {
	id      int64
	sources []*Signal
}

type Tracker struct {
	tracking bool

	currentScope *Scope      // for lifecycle/cleanup tracking
	current      *evaluation // for reactive dependency tracking
}

func NewTracker() *Tracker {
	return &Tracker{
		tracking: true,
	}
}

func (t *Tracker) CurrentScope() *Scope {
	return t.currentScope
}

func (t *Tracker) RunWithScope(scope *Scope, fn func()) {
	prev := t.currentScope
	t.currentScope = scope
	defer func() { t.currentScope = prev }()

	fn()
}

// Collect runs fn as a fresh evaluation with scope as the current scope and
// returns every signal read during the run. A panic raised by fn is recovered
// and returned; the previous ambient state is restored either way.
func (t *Tracker) Collect(id int64, scope *Scope, fn func()) (sources []*Signal, recovered any) {
	prevScope := t.currentScope
	prevEval := t.current
	prevTracking := t.tracking

	frame := &evaluation{id: id}
	t.currentScope = scope
	t.current = frame
	t.tracking = true

	defer func() {
		t.currentScope = prevScope
		t.current = prevEval
		t.tracking = prevTracking
	}()

	func() {
		defer func() { recovered = recover() }()
		fn()
	}()

	return frame.sources, recovered
}

func (t *Tracker) RunUntracked(fn func()) {
	prev := t.tracking
	t.tracking = false
	defer func() { t.tracking = prev }()

	fn()
}

// Track records s as a source of the running evaluation.
// Repeated reads within the same evaluation are recorded once.
func (t *Tracker) Track(s *Signal) {
	if !t.ShouldTrack() {
		return
	}

	if s.accessID == t.current.id {
		return
	}
	s.accessID = t.current.id

	t.current.sources = append(t.current.sources, s)
}

func (t *Tracker) ShouldTrack() bool {
	return t.current != nil && t.tracking
}
