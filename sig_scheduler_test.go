package sig

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recordingObserver struct {
	runs     int
	flushes  []int
	runaways []int
	failures []any
}

func (o *recordingObserver) EffectRan(depth int, elapsed time.Duration, recovered any) {
	o.runs++
}

func (o *recordingObserver) Flushed(passes int, effects int, recovered any) {
	o.flushes = append(o.flushes, passes)
	if recovered != nil {
		o.failures = append(o.failures, recovered)
	}
}

func (o *recordingObserver) Runaway(passes int) {
	o.runaways = append(o.runaways, passes)
}

func TestScheduler(t *testing.T) {
	t.Run("runaway loop is suppressed", func(t *testing.T) {
		obs := &recordingObserver{}
		SetObserver(obs)
		SetMaxFlushIterations(10)
		t.Cleanup(func() {
			SetObserver(nil)
			SetMaxFlushIterations(100)
		})

		a := NewSignal(0)
		b := NewSignal(0)
		runs := 0
		NewEffect(func() {
			runs++
			b.Write(a.Read() + 1)
		})
		NewEffect(func() {
			runs++
			a.Write(b.Read() + 1)
		})

		a.Write(100)
		assert.Equal(t, []int{10}, obs.runaways)

		// a later write schedules again
		before := runs
		a.Write(-100)
		assert.Greater(t, runs, before)
		assert.Equal(t, []int{10, 10}, obs.runaways)
	})

	t.Run("parents run before children", func(t *testing.T) {
		log := []string{}

		count := NewSignal(0)

		NewEffect(func() {
			v := count.Read()
			log = append(log, "parent")

			NewEffect(func() {
				log = append(log, "child")
				_ = count.Read() + v
			})
		})

		log = log[:0]
		count.Write(1)

		assert.Equal(t, []string{"parent", "child"}, log)
	})

	t.Run("first panic is raised after the flush", func(t *testing.T) {
		log := []string{}

		trigger := NewSignal(0)

		NewEffect(func() {
			if trigger.Read() > 0 {
				panic("first")
			}
		})
		NewEffect(func() {
			if v := trigger.Read(); v > 0 {
				log = append(log, "sibling ran")
			}
		})
		OnSettled(func() { log = append(log, "settled") })

		err := TryBatch(func() { trigger.Write(1) })

		assert.EqualError(t, err, "sig: panic: first")
		assert.Equal(t, []string{"sibling ran", "settled"}, log)
	})

	t.Run("observer sees flushes", func(t *testing.T) {
		obs := &recordingObserver{}
		SetObserver(obs)
		t.Cleanup(func() { SetObserver(nil) })

		count := NewSignal(0)
		NewEffect(func() { count.Read() })

		count.Write(1)

		assert.Equal(t, 2, obs.runs)
		assert.Equal(t, []int{1}, obs.flushes)
	})
}

func TestLogObserver(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	obs := LogObserver(logger)
	obs.Runaway(100)
	obs.Flushed(3, 2, "boom")

	assert.Contains(t, buf.String(), "update loop suppressed")
	assert.Contains(t, buf.String(), "passes=100")
	assert.Contains(t, buf.String(), "flush finished with error")
}
