package internal

// DepthHeap buckets pending effects by scope depth. Draining yields shallow
// effects first and keeps insertion order within a depth.
type DepthHeap struct {
	min int
	max int

	buckets [][]*Effect // [depth]effects

	size int
}

func NewHeap() *DepthHeap {
	return &DepthHeap{
		min:     -1,
		buckets: make([][]*Effect, 64),
	}
}

func (h *DepthHeap) Insert(e *Effect) {
	depth := e.Depth()

	if depth >= len(h.buckets) {
		grown := make([][]*Effect, depth*2)
		copy(grown, h.buckets)
		h.buckets = grown
	}

	h.buckets[depth] = append(h.buckets[depth], e)
	h.size++

	if h.min < 0 || depth < h.min {
		h.min = depth
	}
	if depth > h.max {
		h.max = depth
	}
}

func (h *DepthHeap) Len() int {
	return h.size
}

// Drain empties the heap and returns its effects in ascending depth order.
func (h *DepthHeap) Drain() []*Effect {
	if h.size == 0 {
		return nil
	}

	effects := make([]*Effect, 0, h.size)
	for depth := h.min; depth <= h.max; depth++ {
		effects = append(effects, h.buckets[depth]...)
		h.buckets[depth] = h.buckets[depth][:0]
	}

	h.min = -1
	h.max = 0
	h.size = 0

	return effects
}
