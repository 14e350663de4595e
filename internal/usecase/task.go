package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/caloriefinder/backend/internal/domain"
)

// Callbacks receive the outcome of an asynchronous search.
// Exactly one of them is called, exactly once.
type Callbacks struct {
	OnSuccess func(result *domain.SearchResult)
	OnFailure func(err error)
}

// Task states; a task leaves taskRunning exactly once
const (
	taskRunning int32 = iota
	taskDelivering
	taskSuperseded
)

// Task is a search running on its own goroutine
type Task struct {
	seq    uint64
	cancel context.CancelFunc
	done   chan struct{}
	state  atomic.Int32
}

// Seq returns the sequence number of the search; later searches have larger numbers
func (t *Task) Seq() uint64 { return t.seq }

// Cancel aborts the in-flight request. The failure callback still fires.
func (t *Task) Cancel() { t.cancel() }

// Done is closed after the callback has returned
func (t *Task) Done() <-chan struct{} { return t.done }

// supersede marks the task stale unless its outcome is already being delivered
func (t *Task) supersede() {
	t.state.CompareAndSwap(taskRunning, taskSuperseded)
	t.cancel()
}

// beginDelivery reports whether the task was still current when its search finished
func (t *Task) beginDelivery() bool {
	return t.state.CompareAndSwap(taskRunning, taskDelivering)
}

// Execute starts a search without blocking the caller
func (s *SearchService) Execute(ctx context.Context, query string, cb Callbacks) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{
		seq:    s.nextSeq(),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go t.run(ctx, s, query, cb)

	return t
}

func (t *Task) run(ctx context.Context, s *SearchService, query string, cb Callbacks) {
	defer close(t.done)
	defer t.cancel()

	result, err := t.safeSearch(ctx, s, query)
	if !t.beginDelivery() {
		result, err = nil, domain.ErrSuperseded
	}

	if err != nil {
		if cb.OnFailure != nil {
			cb.OnFailure(err)
		}
		return
	}
	if cb.OnSuccess != nil {
		cb.OnSuccess(result)
	}
}

func (t *Task) safeSearch(ctx context.Context, s *SearchService, query string) (result *domain.SearchResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Search] #%d worker panic: %v", t.seq, r)
			result, err = nil, fmt.Errorf("search failed: %v", r)
		}
	}()

	return s.search(ctx, t.seq, query)
}

// Session serializes searches for one consumer, such as a single window or
// connection. Starting a search supersedes the previous one: its request is
// cancelled and, unless its outcome was already being delivered, its
// callbacks receive domain.ErrSuperseded.
type Session struct {
	svc     *SearchService
	mu      sync.Mutex
	current *Task
}

// NewSession creates a session bound to the service
func (s *SearchService) NewSession() *Session {
	return &Session{svc: s}
}

// Execute starts a search and supersedes any search still in flight
func (ss *Session) Execute(ctx context.Context, query string, cb Callbacks) *Task {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if ss.current != nil {
		ss.current.supersede()
	}
	ss.current = ss.svc.Execute(ctx, query, cb)
	return ss.current
}

// Close supersedes the in-flight search, if any
func (ss *Session) Close() {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if ss.current != nil {
		ss.current.supersede()
		ss.current = nil
	}
}
