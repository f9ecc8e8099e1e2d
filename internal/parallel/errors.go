package parallel

import (
	"fmt"
	"sync"
)

// ErrorCollector records the first non-nil error reported by a set of
// goroutines. It is safe for concurrent use; its zero value is ready.
type ErrorCollector struct {
	once sync.Once
	err  error
}

// SetError records err if it is non-nil and no error was recorded yet.
func (ec *ErrorCollector) SetError(err error) {
	if err == nil {
		return
	}
	ec.once.Do(func() {
		ec.err = err
	})
}

// Err returns the first recorded error, or nil. It must only be called after
// every goroutine that may call SetError has finished.
func (ec *ErrorCollector) Err() error {
	return ec.err
}

// PanicError reports a panic recovered inside a worker goroutine.
type PanicError struct {
	// Worker is the index of the worker that panicked.
	Worker int
	// Value is the value passed to panic.
	Value any
	// Stack is the goroutine stack at the time of the panic.
	Stack []byte
}

// Error returns a message naming the worker and the panic value.
func (e *PanicError) Error() string {
	return fmt.Sprintf("worker %d panicked: %v", e.Worker, e.Value)
}

// Unwrap exposes the panic value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
