package utils

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestKeySetNoDuplicates(t *testing.T) {
	s := NewKeySet()

	added := s.Add("https://www.google.com/maps/place/a")
	if !added {
		t.Error("first Add should return true")
	}

	added = s.Add("https://www.google.com/maps/place/a")
	if added {
		t.Error("second Add of same key should return false")
	}

	if !s.Contains("https://www.google.com/maps/place/a") {
		t.Error("Contains should report the added key")
	}
	if s.Size() != 1 {
		t.Errorf("size: got %d, want 1", s.Size())
	}
}

func TestKeySetConcurrency(t *testing.T) {
	s := NewKeySet()
	var added int64

	pool := NewWorkerPool(10, 0)
	for i := 0; i < 100; i++ {
		pool.Submit(context.Background(), func(context.Context) {
			if s.Add("same") {
				atomic.AddInt64(&added, 1)
			}
		})
	}
	pool.Wait()

	if added != 1 {
		t.Errorf("expected exactly 1 successful add, got %d", added)
	}
}

func TestWorkerPoolRateLimit(t *testing.T) {
	rateLimitMs := 50
	pool := NewWorkerPool(1, rateLimitMs)

	var mu sync.Mutex
	var timestamps []time.Time

	for i := 0; i < 3; i++ {
		pool.Submit(context.Background(), func(context.Context) {
			mu.Lock()
			timestamps = append(timestamps, time.Now())
			mu.Unlock()
		})
	}
	pool.Wait()

	min := time.Duration(rateLimitMs) * time.Millisecond
	for i := 1; i < len(timestamps); i++ {
		gap := timestamps[i].Sub(timestamps[i-1])
		if gap < min {
			t.Errorf("gap between job %d and %d: %v < minimum %v", i-1, i, gap, min)
		}
	}
	if started, _ := pool.Stats(); started != 3 {
		t.Errorf("started: got %d, want 3", started)
	}
}

func TestWorkerPoolSkipsAfterCancel(t *testing.T) {
	pool := NewWorkerPool(1, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran int64
	pool.Submit(ctx, func(context.Context) { atomic.AddInt64(&ran, 1) })
	pool.Wait()

	if ran != 0 {
		t.Errorf("job ran %d times on a canceled context", ran)
	}
	if _, canceled := pool.Stats(); canceled != 1 {
		t.Errorf("canceled: got %d, want 1", canceled)
	}
}
