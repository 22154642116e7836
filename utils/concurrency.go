package utils

import (
	"context"
	"sync"
	"time"
)

// WorkerPool runs jobs on a bounded number of goroutines, spacing job
// starts by at least the configured interval.
type WorkerPool struct {
	interval  time.Duration
	semaphore chan struct{}
	wg        sync.WaitGroup

	mu       sync.Mutex
	lastJob  time.Time
	started  int
	canceled int
}

// NewWorkerPool creates a WorkerPool with the given concurrency and rate limit.
func NewWorkerPool(maxWorkers, rateLimitMs int) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &WorkerPool{
		interval:  time.Duration(rateLimitMs) * time.Millisecond,
		semaphore: make(chan struct{}, maxWorkers),
	}
}

// Submit enqueues a job. If ctx is done before a slot frees up, the job
// is skipped.
func (wp *WorkerPool) Submit(ctx context.Context, job func(ctx context.Context)) {
	select {
	case wp.semaphore <- struct{}{}:
	case <-ctx.Done():
		wp.mu.Lock()
		wp.canceled++
		wp.mu.Unlock()
		return
	}

	wp.wg.Add(1)
	go func() {
		defer wp.wg.Done()
		defer func() { <-wp.semaphore }()

		if !wp.waitTurn(ctx) {
			return
		}
		job(ctx)
	}()
}

// Wait blocks until all submitted jobs have completed.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// Stats returns how many jobs started and how many were skipped by cancellation.
func (wp *WorkerPool) Stats() (started, canceled int) {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	return wp.started, wp.canceled
}

func (wp *WorkerPool) waitTurn(ctx context.Context) bool {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if ctx.Err() != nil {
		wp.canceled++
		return false
	}
	if !wp.lastJob.IsZero() {
		if wait := wp.interval - time.Since(wp.lastJob); wait > 0 {
			t := time.NewTimer(wait)
			select {
			case <-t.C:
			case <-ctx.Done():
				t.Stop()
				wp.canceled++
				return false
			}
		}
	}
	wp.lastJob = time.Now()
	wp.started++
	return true
}

// KeySet is a thread-safe set of strings, used to skip places already seen.
type KeySet struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewKeySet creates an empty KeySet.
func NewKeySet() *KeySet {
	return &KeySet{seen: make(map[string]struct{})}
}

// Add returns true if key was newly added, false if already present.
func (s *KeySet) Add(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seen[key]; exists {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

// Contains returns true if key has been added.
func (s *KeySet) Contains(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.seen[key]
	return exists
}

// Size returns the number of unique keys tracked.
func (s *KeySet) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}
