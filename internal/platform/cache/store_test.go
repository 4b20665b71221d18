package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStoreSetGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewStore(time.Minute)

	store.Set(ctx, "eda:1", "summary")
	got, ok := store.Get(ctx, "eda:1")
	if !ok || got != "summary" {
		t.Fatalf("unexpected get: %v %v", got, ok)
	}

	store.Delete(ctx, "eda:1")
	if _, ok := store.Get(ctx, "eda:1"); ok {
		t.Fatal("expected key to be deleted")
	}
}

func TestStoreTTLExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewStore(10 * time.Millisecond)

	store.Set(ctx, "k", 1)
	time.Sleep(25 * time.Millisecond)
	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatal("expected key to expire")
	}
	if store.Len() != 0 {
		t.Fatalf("expected expired entry to be evicted, len=%d", store.Len())
	}
}

func TestStoreDeletePrefix(t *testing.T) {
	ctx := context.Background()
	store := NewStore(time.Minute)

	store.Set(ctx, "dataset:1:eda", 1)
	store.Set(ctx, "dataset:1:hypothesis", 2)
	store.Set(ctx, "dataset:2:eda", 3)

	store.DeletePrefix(ctx, "dataset:1:")
	if store.Len() != 1 {
		t.Fatalf("expected one entry left, got %d", store.Len())
	}
	if _, ok := store.Get(ctx, "dataset:2:eda"); !ok {
		t.Fatal("expected other dataset entry to survive")
	}
}

func TestStoreGetOrLoadDeduplicates(t *testing.T) {
	ctx := context.Background()
	store := NewStore(time.Minute)

	var loads atomic.Int32
	loader := func(context.Context) (any, error) {
		loads.Add(1)
		time.Sleep(5 * time.Millisecond)
		return "built", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := store.GetOrLoad(ctx, "key", loader)
			if err != nil || got != "built" {
				t.Errorf("unexpected result: %v %v", got, err)
			}
		}()
	}
	wg.Wait()

	if loads.Load() != 1 {
		t.Fatalf("expected a single load, got %d", loads.Load())
	}
}

func TestStoreGetOrLoadError(t *testing.T) {
	ctx := context.Background()
	store := NewStore(time.Minute)

	wantErr := errors.New("load failed")
	_, err := store.GetOrLoad(ctx, "key", func(context.Context) (any, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected load error, got %v", err)
	}
	if _, ok := store.Get(ctx, "key"); ok {
		t.Fatal("failed load must not be cached")
	}
}
