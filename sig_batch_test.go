package sig

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatch(t *testing.T) {
	t.Run("coalesces writes", func(t *testing.T) {
		log := []string{}

		name := NewSignal("ada")
		NewEffect(func() {
			log = append(log, "hello "+name.Read())
		})

		NewBatch(func() {
			name.Write("grace")
			name.Write("linus")
			log = append(log, "written")
		})

		assert.Equal(t, []string{
			"hello ada",
			"written",
			"hello linus",
		}, log)
	})

	t.Run("reads inside see new values", func(t *testing.T) {
		log := []string{}

		first := NewSignal("a")
		last := NewSignal("b")

		NewEffect(func() {
			log = append(log, fmt.Sprintf("first %s", first.Read()))
		})
		NewEffect(func() {
			log = append(log, fmt.Sprintf("last %s", last.Read()))
		})

		NewBatch(func() {
			first.Write("x")
			last.Write(first.Read() + "y")
			log = append(log, "written")
		})

		assert.Equal(t, []string{
			"first a",
			"last b",
			"written",
			"first x",
			"last xy",
		}, log)
	})

	t.Run("flushes at the outermost end", func(t *testing.T) {
		log := []string{}

		count := NewSignal(1)
		NewEffect(func() {
			log = append(log, fmt.Sprintf("run %d", count.Read()))
		})

		NewBatch(func() {
			NewBatch(func() {
				count.Write(2)
			})
			log = append(log, "inner done")
			count.Write(3)
		})

		assert.Equal(t, []string{
			"run 1",
			"inner done",
			"run 3",
		}, log)
	})

	t.Run("try batch reports effect panics", func(t *testing.T) {
		log := []string{}

		count := NewSignal(0)
		NewEffect(func() {
			if count.Read() == 2 {
				panic("two")
			}
		})
		NewEffect(func() {
			log = append(log, fmt.Sprintf("sibling %d", count.Read()))
		})

		err := TryBatch(func() { count.Write(1) })
		assert.NoError(t, err)

		err = TryBatch(func() { count.Write(2) })
		assert.EqualError(t, err, "sig: panic: two")

		assert.Equal(t, []string{
			"sibling 0",
			"sibling 1",
			"sibling 2",
		}, log)
	})
}
