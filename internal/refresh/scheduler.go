// Package refresh drives periodic wholesale re-fetch of list data. Each
// tick replaces the previous snapshot; nothing is merged field by field.
package refresh

import (
	"context"
	"log"
	"sync"
	"time"
)

// Task is the cancellation handle for one polling loop.
type Task struct {
	done chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

// Start polls fetch on a fixed interval and hands each successful result
// to apply. An immediate first fetch runs before the interval elapses.
//
// Ticks are skipped, never queued: while a fetch is in flight the loop is
// not receiving, and the stale tick left in the ticker channel is drained
// after the fetch returns, so at most one fetch is in flight at any time.
// A failed fetch is logged and the previous snapshot stays in place; the
// next tick runs normally.
func Start[T any](name string, interval time.Duration, fetch func(context.Context) (T, error), apply func(T)) *Task {
	t := &Task{done: make(chan struct{})}

	tick := func() {
		result, err := fetch(context.Background())
		if err != nil {
			log.Printf("refresh %s: fetch: %v", name, err)
			return
		}

		// A fetch that was in flight when Stop was called may still
		// complete; its result is discarded rather than applied to a
		// torn-down view.
		select {
		case <-t.done:
			return
		default:
		}
		apply(result)
	}

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		tick()
		for {
			select {
			case <-t.done:
				return
			case <-ticker.C:
				tick()
				select {
				case <-ticker.C: // drop the tick that fired mid-fetch
				default:
				}
			}
		}
	}()

	return t
}

// Stop cancels future ticks immediately. An in-flight fetch is allowed to
// complete but its result is discarded. Safe to call more than once.
func (t *Task) Stop() {
	t.once.Do(func() { close(t.done) })
}

// Wait blocks until the polling goroutine has exited.
func (t *Task) Wait() {
	t.wg.Wait()
}
