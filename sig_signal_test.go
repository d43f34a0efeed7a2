package sig

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignal(t *testing.T) {
	t.Run("read and write", func(t *testing.T) {
		name := NewSignal("ada")
		assert.Equal(t, "ada", name.Read())

		name.Write("grace")
		assert.Equal(t, "grace", name.Read())
		assert.Equal(t, "grace", name.Peek())

		name.Update(func(s string) string { return s + " hopper" })
		assert.Equal(t, "grace hopper", name.Read())
	})

	t.Run("equal writes are ignored", func(t *testing.T) {
		runs := 0

		count := NewSignal(2)
		NewEffect(func() {
			count.Read()
			runs++
		})

		assert.Equal(t, int64(0), count.Epoch())

		count.Write(2)
		assert.Equal(t, 1, runs)
		assert.Equal(t, int64(0), count.Epoch())

		count.Write(3)
		assert.Equal(t, 2, runs)
		epoch := count.Epoch()
		assert.Positive(t, epoch)

		count.Update(func(n int) int { return n })
		assert.Equal(t, 2, runs)
		assert.Equal(t, epoch, count.Epoch())
	})

	t.Run("written from another goroutine", func(t *testing.T) {
		var wg sync.WaitGroup
		hits := NewSignal(0)

		wg.Go(func() {
			hits.Update(func(n int) int { return n + 1 })
		})

		wg.Wait()
		assert.Equal(t, 1, hits.Read())
	})

	t.Run("nil interface values", func(t *testing.T) {
		err := NewSignal[error](nil)
		assert.Nil(t, err.Read())

		err.Write(errors.New("boom"))
		assert.EqualError(t, err.Read(), "boom")

		err.Write(nil)
		assert.Nil(t, err.Read())
	})
}
