package internal

import "time"

// Observer receives scheduler events. Implementations must not write signals.
type Observer interface {
	// EffectRan is called after every effect run, with the panic it raised if any.
	EffectRan(depth int, elapsed time.Duration, recovered any)

	// Flushed is called when a flush drained all pending effects.
	Flushed(passes int, effects int, recovered any)

	// Runaway is called when a flush ran out of iterations and stopped scheduling effects.
	Runaway(passes int)
}

type nopObserver struct{}

func (nopObserver) EffectRan(int, time.Duration, any) {}
func (nopObserver) Flushed(int, int, any)             {}
func (nopObserver) Runaway(int)                       {}

// Observers fans events out to several observers.
type Observers []Observer

func (o Observers) EffectRan(depth int, elapsed time.Duration, recovered any) {
	for _, obs := range o {
		obs.EffectRan(depth, elapsed, recovered)
	}
}

func (o Observers) Flushed(passes int, effects int, recovered any) {
	for _, obs := range o {
		obs.Flushed(passes, effects, recovered)
	}
}

func (o Observers) Runaway(passes int) {
	for _, obs := range o {
		obs.Runaway(passes)
	}
}
