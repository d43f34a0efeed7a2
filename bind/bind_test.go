package bind

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AnatoleLucet/sig"
)

func TestIf(t *testing.T) {
	log := []string{}

	show := sig.NewSignal(true)
	If(
		func() int {
			if show.Read() {
				return 0
			}
			return 1
		},
		func() {
			log = append(log, "mount a")
			sig.OnCleanup(func() { log = append(log, "unmount a") })
		},
		func() {
			log = append(log, "mount b")
			sig.OnCleanup(func() { log = append(log, "unmount b") })
		},
	)

	show.Write(false)
	show.Write(true)

	assert.Equal(t, []string{
		"mount a",
		"unmount a",
		"mount b",
		"unmount b",
		"mount a",
	}, log)
}

func TestIfOutOfRange(t *testing.T) {
	log := []string{}

	index := sig.NewSignal(-1)
	If(index.Read, func() {
		log = append(log, "mounted")
		sig.OnCleanup(func() { log = append(log, "unmounted") })
	})

	index.Write(0)
	index.Write(3)

	assert.Equal(t, []string{"mounted", "unmounted"}, log)
}

func TestKey(t *testing.T) {
	log := []string{}

	key := sig.NewSignal(1)
	Key(key.Read, func() {
		log = append(log, "mount")
		sig.OnCleanup(func() { log = append(log, "unmount") })
	})

	key.Write(2)
	key.Write(2)

	assert.Equal(t, []string{"mount", "unmount", "mount"}, log)
}

func TestEach(t *testing.T) {
	log := []string{}

	items := sig.NewSignal([]string{"a", "b"})
	Each(items.Read, func(value *sig.Signal[string], index *sig.Signal[int]) {
		sig.NewEffect(func() {
			log = append(log, fmt.Sprintf("%d:%s", index.Read(), value.Read()))
		})
		sig.OnCleanup(func() { log = append(log, "drop "+value.Peek()) })
	})
	assert.Equal(t, []string{"0:a", "1:b"}, log)

	log = log[:0]
	items.Write([]string{"x", "b", "c"})
	assert.ElementsMatch(t, []string{"0:x", "2:c"}, log)

	log = log[:0]
	items.Write([]string{"x"})
	assert.Equal(t, []string{"drop c", "drop b"}, log)
}

func TestAwait(t *testing.T) {
	log := []string{}

	first := NewDeferred[int]()
	promise := sig.NewSignal[Promise[int]](first)

	Await(
		promise.Read,
		func() { log = append(log, "pending") },
		func(value *sig.Signal[int]) {
			sig.NewEffect(func() { log = append(log, fmt.Sprintf("then %d", value.Read())) })
		},
		func(err *sig.Signal[error]) {
			sig.NewEffect(func() { log = append(log, "catch "+err.Read().Error()) })
		},
	)
	assert.Equal(t, []string{"pending"}, log)

	first.Resolve(5)
	assert.Equal(t, []string{"pending", "then 5"}, log)

	log = log[:0]
	stale := NewDeferred[int]()
	promise.Write(stale)
	second := NewDeferred[int]()
	promise.Write(second)

	stale.Resolve(1)
	second.Reject(errors.New("nope"))

	assert.Equal(t, []string{"pending", "catch nope"}, log)
}

func TestAwaitNilRejection(t *testing.T) {
	log := []string{}

	d := NewDeferred[string]()
	Await(
		func() Promise[string] { return d },
		nil,
		func(value *sig.Signal[string]) { log = append(log, "then "+value.Read()) },
		func(err *sig.Signal[error]) { log = append(log, "catch "+err.Read().Error()) },
	)

	d.Reject(nil)
	d.Then(
		func(string) { log = append(log, "late then") },
		func(err error) { log = append(log, fmt.Sprintf("late catch %t", errors.Is(err, ErrRejected))) },
	)

	assert.Equal(t, []string{"catch bind: promise rejected", "late catch true"}, log)
}

func TestSubscribe(t *testing.T) {
	log := []int{}

	store := NewWritable(1)
	scope := sig.NewScope()

	scope.Run(func() error {
		count := Subscribe[int](store)
		sig.NewEffect(func() {
			log = append(log, count())
		})
		return nil
	})

	store.Set(2)
	assert.Equal(t, 1, store.Subscribers())

	scope.Dispose()
	assert.Equal(t, 0, store.Subscribers())

	store.Set(3)
	assert.Equal(t, []int{1, 2}, log)
}

func TestText(t *testing.T) {
	var got string

	value := sig.NewSignal[any](1)
	Text(func(s string) { got = s }, value.Read)
	assert.Equal(t, "1", got)

	value.Write(nil)
	assert.Equal(t, "", got)

	value.Write("hello")
	assert.Equal(t, "hello", got)
}
