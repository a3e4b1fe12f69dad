package refresh

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestAtMostOneFetchInFlight(t *testing.T) {
	var inFlight, maxInFlight, fetches int32

	fetch := func(ctx context.Context) (int, error) {
		n := atomic.AddInt32(&inFlight, 1)
		defer atomic.AddInt32(&inFlight, -1)
		for {
			old := atomic.LoadInt32(&maxInFlight)
			if n <= old || atomic.CompareAndSwapInt32(&maxInFlight, old, n) {
				break
			}
		}
		atomic.AddInt32(&fetches, 1)
		// Slower than the tick interval: following ticks must be
		// skipped, not queued.
		time.Sleep(30 * time.Millisecond)
		return 0, nil
	}

	task := Start("test", 10*time.Millisecond, fetch, func(int) {})
	time.Sleep(150 * time.Millisecond)
	task.Stop()
	task.Wait()

	if got := atomic.LoadInt32(&maxInFlight); got != 1 {
		t.Fatalf("max fetches in flight = %d, want 1", got)
	}
	// With a 30ms fetch on a 10ms interval, a queued-tick implementation
	// would fetch ~15 times in 150ms; skipping caps it near 5.
	if got := atomic.LoadInt32(&fetches); got > 8 {
		t.Fatalf("%d fetches in 150ms, ticks were queued instead of skipped", got)
	}
}

func TestFailedTickKeepsPolling(t *testing.T) {
	var fetches, applies int32

	fetch := func(ctx context.Context) (int, error) {
		n := atomic.AddInt32(&fetches, 1)
		if n == 1 {
			return 0, errors.New("backend down")
		}
		return int(n), nil
	}

	task := Start("test", 5*time.Millisecond, fetch, func(int) {
		atomic.AddInt32(&applies, 1)
	})
	time.Sleep(40 * time.Millisecond)
	task.Stop()
	task.Wait()

	if atomic.LoadInt32(&fetches) < 2 {
		t.Fatal("scheduler stopped after a transient failure")
	}
	if atomic.LoadInt32(&applies) == 0 {
		t.Fatal("no result applied after recovery")
	}
}

func TestStopDiscardsInFlightResult(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var applied int32

	fetch := func(ctx context.Context) (int, error) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		return 42, nil
	}

	task := Start("test", time.Hour, fetch, func(int) {
		atomic.AddInt32(&applied, 1)
	})

	<-started
	task.Stop() // cancel while the first fetch is in flight
	close(release)
	task.Wait()

	if atomic.LoadInt32(&applied) != 0 {
		t.Fatal("result of an in-flight fetch was applied after Stop")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	task := Start("test", time.Hour, func(ctx context.Context) (int, error) { return 0, nil }, func(int) {})
	task.Stop()
	task.Stop()
	task.Wait()
}
