package sig

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOnSettled(t *testing.T) {
	t.Run("runs after the flush", func(t *testing.T) {
		log := []string{}

		price := NewSignal(10)
		NewEffect(func() {
			log = append(log, fmt.Sprintf("price %d", price.Read()))
		})

		OnSettled(func() {
			log = append(log, "settled")
		})

		price.Write(12)

		assert.Equal(t, []string{
			"price 10",
			"price 12",
			"settled",
		}, log)
	})

	t.Run("waits for effects scheduled during the flush", func(t *testing.T) {
		log := []string{}

		celsius := NewSignal(0)
		fahrenheit := NewSignal(32)

		NewEffect(func() {
			fahrenheit.Write(celsius.Read()*9/5 + 32)
		})

		NewEffect(func() {
			log = append(log, fmt.Sprintf("%dF", fahrenheit.Read()))
		})

		OnSettled(func() {
			log = append(log, "settled")
		})

		celsius.Write(100)

		assert.Equal(t, []string{
			"32F",
			"212F",
			"settled",
		}, log)
	})

	t.Run("runs once", func(t *testing.T) {
		log := []string{}

		n := NewSignal(0)
		NewEffect(func() {
			log = append(log, fmt.Sprintf("n %d", n.Read()))
		})

		OnSettled(func() {
			log = append(log, "settled")
		})

		n.Write(1)
		n.Write(2)

		assert.Equal(t, []string{
			"n 0",
			"n 1",
			"settled",
			"n 2",
		}, log)
	})

	t.Run("an empty batch settles", func(t *testing.T) {
		log := []string{}

		OnSettled(func() {
			log = append(log, "settled")
		})

		NewBatch(func() {})

		assert.Equal(t, []string{"settled"}, log)
	})

	t.Run("registered by an effect", func(t *testing.T) {
		log := []string{}

		n := NewSignal(0)
		NewEffect(func() {
			v := n.Read()
			if v > 0 {
				OnSettled(func() {
					log = append(log, fmt.Sprintf("settled after %d", v))
				})
			}
			log = append(log, fmt.Sprintf("n %d", v))
		})

		n.Write(1)

		assert.Equal(t, []string{
			"n 0",
			"n 1",
			"settled after 1",
		}, log)
	})

	t.Run("bound to the calling goroutine", func(t *testing.T) {
		var wg sync.WaitGroup
		log := []string{}

		// a graph built on another goroutine settles there
		wg.Go(func() {
			count := NewSignal(0)
			NewEffect(func() {
				log = append(log, fmt.Sprintf("changed %d", count.Read()))
			})

			OnSettled(func() {
				log = append(log, "settled")
			})

			count.Write(10)
		})

		wg.Wait()

		OnSettled(func() {
			log = append(log, "never")
		})

		assert.Equal(t, []string{
			"changed 0",
			"changed 10",
			"settled",
		}, log)
	})
}
