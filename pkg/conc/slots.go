// Package conc contains the concurrency primitives used by the runtime: an
// array of atomically updated slots, a scoped lock and joinable threads.
package conc

import "sync/atomic"

// AtomicSlots is a fixed-size array of pointers, each of which is read and
// written atomically. The zero value is an array of length 0.
type AtomicSlots[T any] struct {
	slots []atomic.Pointer[T]
}

// NewAtomicSlots returns an AtomicSlots with n empty slots.
func NewAtomicSlots[T any](n int) *AtomicSlots[T] {
	return &AtomicSlots[T]{make([]atomic.Pointer[T], n)}
}

// Len returns the number of slots.
func (a *AtomicSlots[T]) Len() int { return len(a.slots) }

// Get returns the current content of slot i, or nil if it is empty.
func (a *AtomicSlots[T]) Get(i int) *T { return a.slots[i].Load() }

// Set stores v in slot i unconditionally.
func (a *AtomicSlots[T]) Set(i int, v *T) { a.slots[i].Store(v) }

// CompareAndExchange stores v in slot i if it currently holds expected. It
// returns the content of the slot after the operation: v if the exchange
// happened, the value that prevented it otherwise.
func (a *AtomicSlots[T]) CompareAndExchange(i int, expected, v *T) *T {
	for {
		if a.slots[i].CompareAndSwap(expected, v) {
			return v
		}
		if cur := a.slots[i].Load(); cur != expected {
			return cur
		}
	}
}

// CheckOrUpdate returns the content of slot i if it is non-nil. Otherwise it
// calls init and tries to install the result; if another goroutine won the
// race, the value it installed is returned instead. init may therefore run
// more than once, but only one of its results is ever observable.
//
// If init returns an error, nothing is installed and the error is returned.
func (a *AtomicSlots[T]) CheckOrUpdate(i int, init func() (*T, error)) (*T, error) {
	if cur := a.slots[i].Load(); cur != nil {
		return cur, nil
	}
	v, err := init()
	if err != nil {
		return nil, err
	}
	return a.CompareAndExchange(i, nil, v), nil
}
