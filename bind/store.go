package bind

import "github.com/AnatoleLucet/sig"

// Store is anything that can be subscribed to. Subscribe must call fn with
// the current value right away and return a function that unsubscribes.
type Store[T any] interface {
	Subscribe(fn func(T)) (unsubscribe func())
}

// Subscribe follows store from the current scope and returns an accessor for
// its latest value. The subscription ends when the scope is cleared.
func Subscribe[T any](store Store[T]) func() T {
	var zero T
	value := sig.NewSignal(zero)

	if store == nil {
		return value.Read
	}

	unsubscribe := store.Subscribe(value.Write)
	sig.OnCleanup(unsubscribe)

	return value.Read
}

// Writable is a Store holding a single value.
type Writable[T any] struct {
	value       T
	subscribers map[int]func(T)
	next        int
}

func NewWritable[T any](initial T) *Writable[T] {
	return &Writable[T]{
		value:       initial,
		subscribers: map[int]func(T){},
	}
}

func (w *Writable[T]) Subscribe(fn func(T)) func() {
	id := w.next
	w.next++
	w.subscribers[id] = fn

	fn(w.value)

	return func() { delete(w.subscribers, id) }
}

func (w *Writable[T]) Get() T {
	return w.value
}

func (w *Writable[T]) Set(v T) {
	w.value = v

	sig.NewBatch(func() {
		for _, fn := range w.subscribers {
			fn(v)
		}
	})
}

func (w *Writable[T]) Update(fn func(T) T) {
	w.Set(fn(w.value))
}

// Subscribers returns the number of active subscriptions.
func (w *Writable[T]) Subscribers() int {
	return len(w.subscribers)
}
