package sig

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUntrack(t *testing.T) {
	t.Run("reads are not tracked", func(t *testing.T) {
		log := []string{}

		label := NewSignal("clicks")
		count := NewSignal(0)

		NewEffect(func() {
			l := Untrack(label.Read)
			log = append(log, fmt.Sprintf("%s %d", l, count.Read()))
		})

		label.Write("taps")
		count.Write(1)

		assert.Equal(t, []string{
			"clicks 0",
			"taps 1",
		}, log)
	})

	t.Run("computed read untracked", func(t *testing.T) {
		runs := 0

		count := NewSignal(1)
		double := NewComputed(func() int { return count.Read() * 2 })

		NewEffect(func() {
			Untrack(double.Read)
			runs++
		})

		count.Write(2)
		assert.Equal(t, 1, runs)
		assert.Equal(t, 4, double.Read())
	})
}
