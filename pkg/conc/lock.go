package conc

import "sync"

// Lock is a mutual exclusion lock that is only acquired for the duration of
// a function call. The zero value is an unlocked Lock.
type Lock struct {
	mu sync.Mutex
}

// Do runs f with l held, releasing it on every exit path of f including
// panics.
func (l *Lock) Do(f func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	f()
}

// WithLock runs f with l held and returns what f returns. The lock is
// released on every exit path of f including panics.
func WithLock[T any](l *Lock, f func() (T, error)) (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return f()
}
