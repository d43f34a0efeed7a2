package internal

type Batcher struct {
	// each nested batch increases the depth by 1
	// if depth > 0, effects are queued until the outermost batch is complete
	depth int
}

func NewBatcher() *Batcher {
	return &Batcher{
		depth: 0,
	}
}

func (b *Batcher) IsBatching() bool {
	return b.depth > 0
}

func (b *Batcher) Batch(fn, onComplete func()) {
	b.depth++
	defer func() {
		b.depth--
		if b.depth == 0 && onComplete != nil {
			onComplete()
		}
	}()

	fn()
}

// NewBatch runs fn and flushes the pending effects once, when the outermost
// batch completes. The first panic raised by an effect during that flush is
// re-raised here after every pending effect had its chance to run.
func (r *Runtime) NewBatch(fn func()) {
	r.batcher.Batch(fn, r.Flush)
}
