//go:build property
// +build property

package sig

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestSchedulerProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: an effect runs at most once per batch, and sees the last value written
	properties.Property("batch coalescing", prop.ForAll(
		func(writes []int) bool {
			count := NewSignal(-1)

			var seen []int
			e := NewEffect(func() {
				seen = append(seen, count.Read())
			})
			defer e.Dispose()

			NewBatch(func() {
				for _, v := range writes {
					count.Write(v)
				}
			})

			changed, cur := false, -1
			for _, v := range writes {
				if v != cur {
					changed, cur = true, v
				}
			}
			if !changed {
				return len(seen) == 1
			}
			return len(seen) == 2 && seen[1] == cur
		},
		gen.SliceOf(gen.IntRange(-1, 5)),
	))

	// Property: an effect over a diamond never observes inconsistent branches
	properties.Property("glitch freedom", prop.ForAll(
		func(writes []int) bool {
			a := NewSignal(0)
			left := NewComputed(func() int { return a.Read() + 1 })
			right := NewComputed(func() int { return a.Read() * 2 })

			consistent := true
			runs := 0
			e := NewEffect(func() {
				runs++
				l, r := left.Read(), right.Read()
				if r != (l-1)*2 {
					consistent = false
				}
			})
			defer e.Dispose()

			changes := 0
			last := 0
			for _, v := range writes {
				if v != last {
					changes++
					last = v
				}
				a.Write(v)
			}

			return consistent && runs == changes+1
		},
		gen.SliceOf(gen.IntRange(0, 3)),
	))

	// Property: clearing a scope runs every cleanup exactly once, in order
	properties.Property("scope teardown", prop.ForAll(
		func(n int) bool {
			var order []int
			s := NewScope()
			s.Run(func() error {
				for i := 0; i < n; i++ {
					OnCleanup(func() { order = append(order, i) })
				}
				return nil
			})
			s.Dispose()
			s.Dispose()

			if len(order) != n {
				return false
			}
			for i, v := range order {
				if v != i {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 20),
	))

	properties.TestingRun(t)
}
