package sig

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScope(t *testing.T) {
	t.Run("runs function and disposes", func(t *testing.T) {
		log := []string{}

		o := NewScope()

		o.Run(func() error {
			NewEffect(func() {
				log = append(log, "effect")

				OnCleanup(func() { log = append(log, "cleanup") })
			})

			return nil
		})

		log = append(log, "ran")
		o.Dispose()
		log = append(log, "disposed")

		assert.Equal(t, []string{
			"effect",
			"ran",
			"cleanup",
			"disposed",
		}, log)
	})

	t.Run("nested scopes", func(t *testing.T) {
		log := []string{}

		o := NewScope()
		o.OnCleanup(func() {
			log = append(log, "parent disposed")
		})

		o.Run(func() error {
			NewScope().OnCleanup(func() {
				log = append(log, "child disposed")
			})

			return nil
		})

		o.Dispose()

		assert.Equal(t, []string{
			"child disposed",
			"parent disposed",
		}, log)
	})

	t.Run("sibling effects disposal order", func(t *testing.T) {
		log := []string{}

		o := NewScope()

		o.Run(func() error {
			OnCleanup(func() {
				log = append(log, "cleanup")
			})

			NewEffect(func() {
				log = append(log, "running first")

				NewEffect(func() {
					log = append(log, "running nested")
					OnCleanup(func() { log = append(log, "cleanup nested") })
				})

				OnCleanup(func() { log = append(log, "cleanup first") })
			})

			NewEffect(func() {
				log = append(log, "running second")
				OnCleanup(func() { log = append(log, "cleanup second") })
			})

			return nil
		})

		log = append(log, "ran")
		o.Dispose()
		log = append(log, "disposed")

		assert.Equal(t, []string{
			"running first",
			"running nested",
			"running second",
			"ran",
			"cleanup",
			"cleanup nested",
			"cleanup first",
			"cleanup second",
			"disposed",
		}, log)
	})

	t.Run("catches panics with OnError", func(t *testing.T) {
		log := []string{}

		o := NewScope()
		o.OnError(func(err any) {
			log = append(log, fmt.Sprintf("caught %v", err))
		})

		var errSignal *Signal[error]

		o.Run(func() error {
			// should propagate if scope has no error listener
			NewScope().Run(func() error {
				errSignal = NewSignal[error](nil)

				NewEffect(func() {
					if e := errSignal.Read(); e != nil {
						panic(e)
					}
				})

				return nil
			})

			return nil
		})

		// check if panic in effects are caught
		errSignal.Write(errors.New("oops"))

		assert.Equal(t, []string{
			"caught oops",
		}, log)
	})

	t.Run("disposal prevents effect re-runs", func(t *testing.T) {
		log := []int{}

		o := NewScope()

		count := NewSignal(0)

		o.Run(func() error {
			NewEffect(func() {
				log = append(log, count.Read())
			})

			return nil
		})

		count.Write(1)
		o.Dispose()

		// this should not trigger the effect
		count.Write(2)

		assert.Equal(t, []int{0, 1}, log)
	})

	t.Run("disposal during effect execution", func(t *testing.T) {
		log := []int{}

		o := NewScope()

		count := NewSignal(0)

		NewEffect(func() {
			if count.Read() > 0 {
				o.Dispose()
			}
		})

		o.Run(func() error {
			NewEffect(func() {
				log = append(log, count.Read())
			})

			return nil
		})

		count.Write(1)

		assert.Equal(t, []int{0}, log)
	})

	t.Run("clearing reaches effects in nested scopes", func(t *testing.T) {
		runs := 0

		count := NewSignal(0)
		outer := NewScope()

		outer.Run(func() error {
			return NewScope().Run(func() error {
				NewEffect(func() {
					count.Read()
					runs++
				})
				return nil
			})
		})

		count.Write(1)
		assert.Equal(t, 2, runs)

		outer.Clear()

		count.Write(2)
		count.Write(3)
		assert.Equal(t, 2, runs)
	})

	t.Run("clear keeps the scope usable", func(t *testing.T) {
		log := []string{}

		s := NewScope()
		s.Run(func() error {
			OnCleanup(func() { log = append(log, "first") })
			return nil
		})

		s.Clear()
		s.Run(func() error {
			OnCleanup(func() { log = append(log, "second") })
			return nil
		})
		s.Clear()

		assert.Equal(t, []string{"first", "second"}, log)
	})

	t.Run("depth", func(t *testing.T) {
		parent := NewScope()
		assert.Equal(t, 1, parent.Depth())

		var child *Scope
		parent.Run(func() error {
			child = NewScope()
			return nil
		})
		assert.Equal(t, 2, child.Depth())
	})

	t.Run("run returns the function error", func(t *testing.T) {
		err := NewScope().Run(func() error {
			return errors.New("oops")
		})
		assert.EqualError(t, err, "oops")
	})

	t.Run("effect panic without handler propagates", func(t *testing.T) {
		assert.PanicsWithValue(t, "boom", func() {
			NewScope().Run(func() error {
				NewEffect(func() { panic("boom") })
				return nil
			})
		})
	})
}
