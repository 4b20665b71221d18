package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlightDo(t *testing.T) {
	var g SingleFlight
	var calls atomic.Int32
	var shared atomic.Int32

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			val, err, dedup := g.Do("key", func() (any, error) {
				calls.Add(1)
				time.Sleep(5 * time.Millisecond)
				return 42, nil
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if val != 42 {
				t.Errorf("unexpected value: %v", val)
			}
			if dedup {
				shared.Add(1)
			}
		}()
	}
	wg.Wait()

	if calls.Load() != 1 {
		t.Fatalf("expected one call, got %d", calls.Load())
	}
	if shared.Load() != 9 {
		t.Fatalf("expected nine deduplicated callers, got %d", shared.Load())
	}
}

func TestSingleFlightDistinctKeys(t *testing.T) {
	var g SingleFlight

	val, _, _ := g.Do("a", func() (any, error) { return "a", nil })
	if val != "a" {
		t.Fatalf("unexpected value: %v", val)
	}
	val, _, _ = g.Do("b", func() (any, error) { return "b", nil })
	if val != "b" {
		t.Fatalf("unexpected value: %v", val)
	}
}
