// Package parallel runs a fixed set of independent tasks in their own
// goroutines and waits for all of them, turning worker panics into errors.
package parallel

import (
	"runtime/debug"
	"sync"
)

// ForEach calls fn(i) for i in [0, n), each in its own goroutine, and blocks
// until every call has returned. No task is abandoned: ForEach waits for all
// of them even after one has failed.
//
// A panic inside fn is recovered and reported as a *PanicError. The first
// error (or recovered panic) to be recorded is returned.
func ForEach(n int, fn func(i int) error) error {
	if n <= 0 {
		return nil
	}

	var (
		wg sync.WaitGroup
		ec ErrorCollector
	)
	wg.Add(n)
	for i := range n {
		go func(worker int) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					ec.SetError(&PanicError{Worker: worker, Value: r, Stack: debug.Stack()})
				}
			}()
			ec.SetError(fn(worker))
		}(i)
	}
	wg.Wait()
	return ec.Err()
}
