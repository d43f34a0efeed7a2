package bind

import (
	"errors"

	"github.com/AnatoleLucet/sig"
)

// ErrRejected stands in for a nil rejection reason.
var ErrRejected = errors.New("bind: promise rejected")

// Promise is a value that settles later. Callbacks must be invoked on the
// goroutine that owns the reactive graph.
type Promise[T any] interface {
	Then(resolve func(T), reject func(error))
}

// Status of an await region.
type Status int

const (
	Pending Status = iota
	Resolved
	Rejected
)

// Await mounts pending while the promise returned by promise is unsettled,
// then then or catch. A new promise restarts the cycle; settlements of
// promises that were replaced in the meantime are ignored.
func Await[T any](
	promise func() Promise[T],
	pending Block,
	then func(value *sig.Signal[T]),
	catch func(err *sig.Signal[error]),
) *sig.Effect {
	status := sig.NewSignal(Pending)
	value := sig.NewSignal(*new(T))
	failure := sig.NewSignal[error](nil)

	generation := 0

	fx := sig.NewEffect(func() {
		p := promise()

		generation++
		gen := generation

		status.Write(Pending)

		if p == nil {
			return
		}

		sig.Untrack(func() struct{} {
			p.Then(
				func(v T) {
					if gen != generation {
						return
					}
					sig.NewBatch(func() {
						value.Write(v)
						status.Write(Resolved)
					})
				},
				func(err error) {
					if gen != generation {
						return
					}
					if err == nil {
						err = ErrRejected
					}
					sig.NewBatch(func() {
						failure.Write(err)
						status.Write(Rejected)
					})
				},
			)
			return struct{}{}
		})
	})

	var thenBlock, catchBlock Block
	if then != nil {
		thenBlock = func() { then(value) }
	}
	if catch != nil {
		catchBlock = func() { catch(failure) }
	}

	If(func() int { return int(status.Read()) }, pending, thenBlock, catchBlock)

	return fx
}

// Deferred is a Promise settled by hand.
type Deferred[T any] struct {
	settled bool
	value   T
	err     error

	resolves []func(T)
	rejects  []func(error)
}

func NewDeferred[T any]() *Deferred[T] {
	return &Deferred[T]{}
}

func (d *Deferred[T]) Then(resolve func(T), reject func(error)) {
	if d.settled {
		if d.err != nil {
			if reject != nil {
				reject(d.err)
			}
		} else if resolve != nil {
			resolve(d.value)
		}
		return
	}

	if resolve != nil {
		d.resolves = append(d.resolves, resolve)
	}
	if reject != nil {
		d.rejects = append(d.rejects, reject)
	}
}

func (d *Deferred[T]) Resolve(v T) {
	if d.settled {
		return
	}
	d.settled = true
	d.value = v

	for _, fn := range d.resolves {
		fn(v)
	}
	d.resolves, d.rejects = nil, nil
}

// Reject settles d with err, or ErrRejected if err is nil.
func (d *Deferred[T]) Reject(err error) {
	if d.settled {
		return
	}
	if err == nil {
		err = ErrRejected
	}
	d.settled = true
	d.err = err

	for _, fn := range d.rejects {
		fn(err)
	}
	d.resolves, d.rejects = nil, nil
}
