package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Sparkle-Window-Cleaning/service-booking/internal/domain/booking"
)

const testReference = "SWC-1718000000123-0A1B2C3D"

var fixedNow = time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC)

type fakeSubmitter struct {
	mu      sync.Mutex
	calls   int
	drafts  []booking.BookingDraft
	result  SubmissionResult
	err     error
	started chan struct{}
	release chan struct{}
}

func newSucceedingSubmitter() *fakeSubmitter {
	return &fakeSubmitter{result: SubmissionResult{
		Success:          true,
		BookingReference: testReference,
		SubmittedAt:      fixedNow,
	}}
}

func (f *fakeSubmitter) Submit(_ context.Context, draft booking.BookingDraft) (SubmissionResult, error) {
	f.mu.Lock()
	f.calls++
	f.drafts = append(f.drafts, draft)
	started, release := f.started, f.release
	result, err := f.result, f.err
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if release != nil {
		<-release
	}
	return result, err
}

func (f *fakeSubmitter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeSubmitter) set(result SubmissionResult, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.result = result
	f.err = err
}

type memoryStore struct {
	mu      sync.Mutex
	entries map[string]SavedDraft
	saves   int
	clears  int
	loadErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: map[string]SavedDraft{}}
}

func (m *memoryStore) Save(_ context.Context, key string, saved SavedDraft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	m.entries[key] = saved
	return nil
}

func (m *memoryStore) Load(_ context.Context, key string) (*SavedDraft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	saved, ok := m.entries[key]
	if !ok {
		return nil, nil
	}
	return &saved, nil
}

func (m *memoryStore) Clear(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clears++
	delete(m.entries, key)
	return nil
}

func (m *memoryStore) get(key string) (SavedDraft, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	saved, ok := m.entries[key]
	return saved, ok
}

type recordingAnalytics struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingAnalytics) Track(_ context.Context, e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingAnalytics) types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

// manualScheduler runs tasks only when fire is called.
type manualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	mu      sync.Mutex
	delay   time.Duration
	task    func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}

func (m *manualScheduler) Schedule(delay time.Duration, task func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTimer{delay: delay, task: task}
	m.timers = append(m.timers, t)
	return t
}

func (m *manualScheduler) active() []*manualTimer {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*manualTimer
	for _, t := range m.timers {
		t.mu.Lock()
		if !t.stopped {
			out = append(out, t)
		}
		t.mu.Unlock()
	}
	return out
}

func (m *manualScheduler) fire() {
	for _, t := range m.active() {
		if t.Stop() {
			t.task()
		}
	}
}

var errBackendDown = errors.New("backend unavailable")
