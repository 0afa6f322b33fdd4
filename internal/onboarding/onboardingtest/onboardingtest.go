// Package onboardingtest provides deterministic doubles for onboarding tests.
package onboardingtest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Iron-Ham/focusgate/internal/onboarding"
)

// ManualScheduler is an onboarding.Scheduler driven by Advance instead of
// wall time.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	s       *ManualScheduler
	due     time.Duration
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

// NewManualScheduler returns a scheduler at time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// AfterFunc schedules f at now+d.
func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) onboarding.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTimer{s: s, due: s.now + d, seq: s.seq, fn: f}
	s.timers = append(s.timers, t)
	return t
}

// Stop cancels the timer.
func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves time forward by d and runs every timer that came due, in
// due order, outside the scheduler lock.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	var due []*manualTimer
	var rest []*manualTimer
	for _, t := range s.timers {
		switch {
		case t.stopped:
		case t.due <= s.now:
			t.fired = true
			due = append(due, t)
		default:
			rest = append(rest, t)
		}
	}
	s.timers = rest
	s.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].seq < due[j].seq
	})
	for _, t := range due {
		t.fn()
	}
}

// Pending returns the number of timers that are neither stopped nor fired.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// StubStore is an onboarding.Store with scripted results.
type StubStore struct {
	mu sync.Mutex

	// Record is returned by GetOnboardingState; CompleteOnboarding sets it.
	Record *onboarding.Record
	// GetErr and CompleteErr, when set, are returned instead.
	GetErr      error
	CompleteErr error
	// Gate, when non-nil, blocks both calls until it is closed or ctx ends.
	Gate chan struct{}

	Gets      int
	Completes int
}

// GetOnboardingState implements onboarding.Store.
func (s *StubStore) GetOnboardingState(ctx context.Context) (*onboarding.Record, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Gets++
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	if s.Record == nil {
		return nil, nil
	}
	rec := *s.Record
	return &rec, nil
}

// CompleteOnboarding implements onboarding.Store.
func (s *StubStore) CompleteOnboarding(ctx context.Context) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Completes++
	if s.CompleteErr != nil {
		return s.CompleteErr
	}
	s.Record = &onboarding.Record{Completed: true}
	return nil
}

// Persisted reports the stored completion flag.
func (s *StubStore) Persisted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Record != nil && s.Record.Completed
}

// SetCompleteErr changes the scripted completion error.
func (s *StubStore) SetCompleteErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CompleteErr = err
}

func (s *StubStore) wait(ctx context.Context) error {
	if s.Gate == nil {
		return nil
	}
	select {
	case <-s.Gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
