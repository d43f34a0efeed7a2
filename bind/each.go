package bind

import "github.com/AnatoleLucet/sig"

type eachItem[T any] struct {
	scope *sig.Scope
	value *sig.Signal[T]
	index *sig.Signal[int]
}

// Each mounts render once per element of items. Each element gets its own
// scope and signals for its value and index. When the list changes, existing
// positions are updated in place, new tail elements are mounted and removed
// tail elements are disposed. Elements are never moved.
func Each[T any](items func() []T, render func(value *sig.Signal[T], index *sig.Signal[int])) *sig.Effect {
	container := sig.NewScope()

	var mounted []*eachItem[T]

	return sig.NewEffect(func() {
		list := items()

		shared := min(len(list), len(mounted))
		for i := 0; i < shared; i++ {
			mounted[i].value.Write(list[i])
		}

		for i := len(mounted) - 1; i >= len(list); i-- {
			mounted[i].scope.Dispose()
			mounted[i] = nil
		}
		if len(mounted) > len(list) {
			mounted = mounted[:len(list)]
		}

		for i := len(mounted); i < len(list); i++ {
			item := &eachItem[T]{
				value: sig.NewSignal(list[i]),
				index: sig.NewSignal(i),
			}
			item.scope = mount(container, func() {
				render(item.value, item.index)
			})
			mounted = append(mounted, item)
		}
	})
}
