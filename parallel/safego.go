package parallel

import "sync"

// SafeGo runs fn in a new goroutine tracked by wg. A panic inside fn is
// recovered and handed to onPanic (when non-nil) instead of crashing the
// process.
func SafeGo(wg *sync.WaitGroup, fn func(), onPanic func(any)) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil && onPanic != nil {
				onPanic(r)
			}
		}()
		fn()
	}()
}
