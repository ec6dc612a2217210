package conc

import (
	"fmt"
	"runtime/debug"
)

// Thread is a unit of work running on its own goroutine.
type Thread struct {
	name string
	done chan struct{}
	err  error
}

// PanicError is returned by Thread.Join when the function of the thread
// panicked.
type PanicError struct {
	Thread string
	Value  any
	Stack  []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("thread %s panicked: %v", e.Thread, e.Value)
}

// Spawn starts running f on a new goroutine.
func Spawn(name string, f func() error) *Thread {
	t := &Thread{name: name, done: make(chan struct{})}
	go func() {
		defer close(t.done)
		defer func() {
			if r := recover(); r != nil {
				t.err = &PanicError{name, r, debug.Stack()}
			}
		}()
		t.err = f()
	}()
	return t
}

// Name returns the name the thread was spawned with.
func (t *Thread) Name() string { return t.name }

// Join waits for the thread to finish and returns the error its function
// returned. It may be called any number of times from any goroutine.
func (t *Thread) Join() error {
	<-t.done
	return t.err
}
