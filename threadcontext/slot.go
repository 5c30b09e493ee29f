package threadcontext

import "sync"

// Slot is a single ambient context cell, such as the current principal or
// locale of one logical execution path.
type Slot[T any] struct {
	name  string
	mu    sync.RWMutex
	value T
}

// NewSlot creates a slot holding initial
func NewSlot[T any](name string, initial T) *Slot[T] {
	return &Slot[T]{name: name, value: initial}
}

// Name returns the slot name
func (s *Slot[T]) Name() string {
	return s.name
}

// Get returns the current value
func (s *Slot[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set replaces the current value and returns the previous one
func (s *Slot[T]) Set(value T) T {
	s.mu.Lock()
	defer s.mu.Unlock()
	previous := s.value
	s.value = value
	return previous
}

// Service returns the Service view of the slot
func (s *Slot[T]) Service() Service {
	return slotService[T]{slot: s}
}

type slotSnapshot[T any] struct {
	slot  *Slot[T]
	value T
}

type slotDisplaced[T any] struct {
	slot  *Slot[T]
	value T
}

type slotService[T any] struct {
	slot *Slot[T]
}

func (s slotService[T]) Capture() Snapshot {
	return slotSnapshot[T]{slot: s.slot, value: s.slot.Get()}
}

func (s slotService[T]) Apply(snapshot Snapshot) Displaced {
	snap, ok := snapshot.(slotSnapshot[T])
	if !ok || snap.slot != s.slot {
		fail("apply", s.slot.name, ErrForeignSnapshot)
	}
	return slotDisplaced[T]{slot: s.slot, value: s.slot.Set(snap.value)}
}

func (s slotService[T]) Restore(snapshot Snapshot, displaced Displaced) {
	if snap, ok := snapshot.(slotSnapshot[T]); !ok || snap.slot != s.slot {
		fail("restore", s.slot.name, ErrForeignSnapshot)
	}
	moved, ok := displaced.(slotDisplaced[T])
	if !ok || moved.slot != s.slot {
		fail("restore", s.slot.name, ErrForeignDisplaced)
	}
	s.slot.Set(moved.value)
}
