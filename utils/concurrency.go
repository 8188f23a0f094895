package utils

import (
	"context"
	"sync"
	"time"
)

// WorkerPool bounds how many jobs run at once and spaces job starts by a
// minimum interval. With one worker there is a single outstanding call to
// the collaborator behind it.
type WorkerPool struct {
	slots    chan struct{}
	interval time.Duration
	wg       sync.WaitGroup

	mu        sync.Mutex
	nextStart time.Time
}

// NewWorkerPool creates a WorkerPool running at most maxWorkers jobs, starting
// them at least rateLimitMs apart.
func NewWorkerPool(maxWorkers, rateLimitMs int) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &WorkerPool{
		slots:    make(chan struct{}, maxWorkers),
		interval: time.Duration(rateLimitMs) * time.Millisecond,
	}
}

// Do runs job on the caller's goroutine once a slot is free and the rate
// limit allows. It returns ctx.Err() without running job if ctx ends first.
func (wp *WorkerPool) Do(ctx context.Context, job func()) error {
	select {
	case wp.slots <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-wp.slots }()

	if err := wp.pace(ctx); err != nil {
		return err
	}
	job()
	return nil
}

// Submit runs job asynchronously. It blocks while all workers are busy.
func (wp *WorkerPool) Submit(job func()) {
	wp.wg.Add(1)
	wp.slots <- struct{}{}
	go func() {
		defer wp.wg.Done()
		defer func() { <-wp.slots }()
		_ = wp.pace(context.Background())
		job()
	}()
}

// Wait blocks until all submitted jobs have completed.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// pace reserves the next start time and sleeps until it.
func (wp *WorkerPool) pace(ctx context.Context) error {
	wp.mu.Lock()
	now := time.Now()
	start := wp.nextStart
	if start.Before(now) {
		start = now
	}
	wp.nextStart = start.Add(wp.interval)
	wp.mu.Unlock()

	wait := time.Until(start)
	if wait <= 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// StringSet is a concurrency-safe set of keys: listing ids, addresses,
// building names.
type StringSet struct {
	mu   sync.RWMutex
	keys map[string]struct{}
}

func NewStringSet() *StringSet {
	return &StringSet{keys: make(map[string]struct{})}
}

// Add reports whether key was new.
func (s *StringSet) Add(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.keys[key]; ok {
		return false
	}
	s.keys[key] = struct{}{}
	return true
}

func (s *StringSet) Contains(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.keys[key]
	return ok
}

// Size is the number of distinct keys added.
func (s *StringSet) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.keys)
}
