// Package bind implements the block bindings that compiled components rely on:
// conditional, list, await and keyed regions, text bindings and store
// subscriptions. Every region is mounted in its own scope, so tearing a region
// down disposes everything created while it was mounted.
package bind

import (
	"fmt"

	"github.com/AnatoleLucet/sig"
)

// Block mounts one region. Everything it creates belongs to the current scope.
type Block func()

// mount runs block in a fresh scope owned by container.
func mount(container *sig.Scope, block Block) *sig.Scope {
	var region *sig.Scope

	container.Run(func() error {
		region = sig.NewScope()
		return nil
	})

	if block != nil {
		sig.Untrack(func() struct{} {
			region.Run(func() error {
				block()
				return nil
			})
			return struct{}{}
		})
	}

	return region
}

// Text keeps a text node in sync with value through set.
// A value that reads no signal is written once.
func Text(set func(string), value func() any) *sig.Effect {
	return sig.NewEffect(func() {
		set(stringify(value()))
	})
}

func stringify(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// If mounts blocks[selector()] and switches region whenever the selected index
// changes. An index outside of blocks mounts nothing.
func If(selector func() int, blocks ...Block) *sig.Effect {
	container := sig.NewScope()
	current := -1

	var region *sig.Scope

	return sig.NewEffect(func() {
		index := selector()
		if index == current && region != nil {
			return
		}

		if region != nil {
			region.Dispose()
			region = nil
		}
		current = index

		if index >= 0 && index < len(blocks) {
			region = mount(container, blocks[index])
		}
	})
}

// Key remounts block whenever key changes.
func Key[K comparable](key func() K, block Block) *sig.Effect {
	container := sig.NewScope()

	var region *sig.Scope
	var last K

	return sig.NewEffect(func() {
		k := key()
		if region != nil && k == last {
			return
		}
		last = k

		if region != nil {
			region.Dispose()
		}
		region = mount(container, block)
	})
}
