package internal

import (
	"reflect"
	"slices"
)

type Signal struct {
	rt *Runtime

	value any

	// clock value of the last effective write
	epoch int64

	// id of the last evaluation that recorded this signal as a source
	accessID int64

	targets []*DependencyLink

	// set when this signal is the value cell of a computed
	computed *Computed
}

func (r *Runtime) NewSignal(initial any) *Signal {
	return &Signal{
		rt:    r,
		value: initial,
	}
}

// Read returns the current value, tracking the dependency if within a reactive evaluation.
func (s *Signal) Read() any {
	s.rt.tracker.Track(s)

	return s.value
}

// Peek returns the current value without tracking.
func (s *Signal) Peek() any {
	return s.value
}

func (s *Signal) Epoch() int64 {
	return s.epoch
}

// Write stores v and notifies dependents when it differs from the current value.
// Dependent effects run once the outermost batch ends.
func (s *Signal) Write(v any) {
	if isEqual(s.value, v) {
		return
	}

	s.value = v
	s.epoch = s.rt.nextEpoch()

	s.rt.NewBatch(s.notifyTargets)
}

func (s *Signal) notifyTargets() {
	// clonning to avoid mutation during iteration
	for _, link := range slices.Clone(s.targets) {
		link.sub.notify()
	}
}

func (s *Signal) subscribe(link *DependencyLink) {
	link.idx = len(s.targets)
	s.targets = append(s.targets, link)

	if s.computed != nil && len(s.targets) == 1 {
		s.computed.activate()
	}
}

// unsubscribe removes link in O(1) by swapping the last link into its slot.
func (s *Signal) unsubscribe(link *DependencyLink) {
	i := link.idx
	if i < 0 || i >= len(s.targets) || s.targets[i] != link {
		return
	}

	last := len(s.targets) - 1
	s.targets[i] = s.targets[last]
	s.targets[i].idx = i
	s.targets[last] = nil
	s.targets = s.targets[:last]
	link.idx = -1

	if s.computed != nil && len(s.targets) == 0 {
		s.computed.deactivate()
	}
}

// Subscribers returns the number of targets currently subscribed.
func (s *Signal) Subscribers() int {
	return len(s.targets)
}

// isEqual is the identity check used on writes. Values whose dynamic type is
// not comparable are always considered different.
func isEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}

	if !reflect.ValueOf(a).Comparable() {
		return false
	}

	return a == b
}
