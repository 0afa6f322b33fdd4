package onboarding

import (
	"context"
	"sync"
	"time"

	"github.com/Iron-Ham/focusgate/internal/errors"
	"github.com/Iron-Ham/focusgate/internal/logging"
)

// DefaultAutoAdvanceDelay is how long a success acknowledgment stays up
// before the tour moves on.
const DefaultAutoAdvanceDelay = 2 * time.Second

// State is a snapshot of one surface's tour.
type State struct {
	HasCompletedOnboarding bool
	CurrentStep            Step
	IsVisible              bool
	ShowSuccessMessage     bool
	SuccessMessage         string
	IsLoading              bool
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithScheduler replaces the timer used for auto-advance.
func WithScheduler(s Scheduler) Option {
	return func(q *Sequencer) {
		if s != nil {
			q.scheduler = s
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(q *Sequencer) {
		if l != nil {
			q.logger = l
		}
	}
}

// WithAutoAdvanceDelay overrides DefaultAutoAdvanceDelay.
func WithAutoAdvanceDelay(d time.Duration) Option {
	return func(q *Sequencer) {
		if d > 0 {
			q.delay = d
		}
	}
}

// WithOnChange registers a callback invoked with the new state after every
// mutation. It runs outside the Sequencer's lock, possibly on the timer
// goroutine.
func WithOnChange(fn func(State)) Option {
	return func(q *Sequencer) {
		q.onChange = fn
	}
}

// Sequencer holds the tour state for one mounted surface. It is safe for
// concurrent use; every transition is applied under a single lock.
type Sequencer struct {
	store     Store
	scheduler Scheduler
	logger    *logging.Logger
	delay     time.Duration
	onChange  func(State)

	mu        sync.Mutex
	state     State
	loadBegun bool
	unmounted bool

	// pending auto-advance; timerGen invalidates callbacks of replaced timers
	timer    Timer
	timerGen uint64
}

// New creates a Sequencer in its pre-hydration state: step 0, hidden,
// loading.
func New(store Store, opts ...Option) *Sequencer {
	q := &Sequencer{
		store:     store,
		scheduler: SystemScheduler{},
		logger:    logging.NopLogger(),
		delay:     DefaultAutoAdvanceDelay,
		state: State{
			CurrentStep: StepWelcome,
			IsLoading:   true,
		},
	}
	for _, opt := range opts {
		opt(q)
	}
	q.logger = q.logger.WithComponent("onboarding")
	return q
}

// State returns a snapshot of the current state.
func (q *Sequencer) State() State {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// Delay returns the auto-advance delay in effect.
func (q *Sequencer) Delay() time.Duration {
	return q.delay
}

// Load hydrates completion from the store. On success the tour is visible
// only if it was never completed; on failure it is shown anyway and the
// error is returned after the state has settled. IsLoading clears exactly
// once. Only the first call reads the store.
func (q *Sequencer) Load(ctx context.Context) error {
	q.mu.Lock()
	if q.loadBegun || q.unmounted {
		q.mu.Unlock()
		return nil
	}
	q.loadBegun = true
	q.mu.Unlock()

	rec, err := q.store.GetOnboardingState(ctx)

	q.mu.Lock()
	if q.unmounted {
		q.mu.Unlock()
		q.logger.Debug("discarding hydration result after unmount")
		return nil
	}
	if err != nil {
		q.state.IsVisible = true
	} else {
		completed := rec != nil && rec.Completed
		q.state.HasCompletedOnboarding = completed
		q.state.IsVisible = !completed
	}
	q.state.IsLoading = false
	snapshot := q.state
	q.mu.Unlock()

	if err != nil {
		q.logger.Warn("failed to load onboarding state, showing tour", "error", err.Error())
	} else {
		q.logger.Debug("onboarding state loaded", "completed", snapshot.HasCompletedOnboarding)
	}
	q.notify(snapshot)
	return err
}

// NextStep advances one step, stopping at LastStep, and clears the success
// acknowledgment. A pending auto-advance is cancelled.
func (q *Sequencer) NextStep() {
	q.mutate(func(s *State) {
		q.cancelTimerLocked()
		if s.CurrentStep < LastStep {
			s.CurrentStep++
		}
		s.ShowSuccessMessage = false
	})
}

// GoToStep jumps to n clamped into the valid range and clears the success
// acknowledgment. A pending auto-advance is cancelled.
func (q *Sequencer) GoToStep(n int) {
	q.mutate(func(s *State) {
		q.cancelTimerLocked()
		s.CurrentStep = Clamp(n)
		s.ShowSuccessMessage = false
	})
}

// ShowSuccess displays message and schedules NextStep after the
// auto-advance delay. A newer ShowSuccess replaces the pending advance.
func (q *Sequencer) ShowSuccess(message string) {
	q.mutate(func(s *State) {
		q.cancelTimerLocked()
		s.ShowSuccessMessage = true
		s.SuccessMessage = message

		gen := q.timerGen
		q.timer = q.scheduler.AfterFunc(q.delay, func() { q.autoAdvance(gen) })
	})
}

func (q *Sequencer) autoAdvance(gen uint64) {
	q.mu.Lock()
	if q.unmounted || gen != q.timerGen {
		q.mu.Unlock()
		return
	}
	q.timer = nil
	q.timerGen++
	if q.state.CurrentStep < LastStep {
		q.state.CurrentStep++
	}
	q.state.ShowSuccessMessage = false
	snapshot := q.state
	q.mu.Unlock()

	q.logger.Debug("auto-advanced", "step", snapshot.CurrentStep.String())
	q.notify(snapshot)
}

// CompleteOnboarding persists completion. On success the tour is marked
// complete and hidden. On failure the error is logged and returned and the
// state is left unchanged so the user can retry.
func (q *Sequencer) CompleteOnboarding(ctx context.Context) error {
	q.mu.Lock()
	if q.unmounted {
		q.mu.Unlock()
		return errors.ErrClosed
	}
	q.mu.Unlock()

	if err := q.store.CompleteOnboarding(ctx); err != nil {
		q.logger.Error("failed to persist onboarding completion", "error", err.Error())
		return err
	}

	q.mu.Lock()
	if q.unmounted {
		q.mu.Unlock()
		q.logger.Debug("discarding completion result after unmount")
		return nil
	}
	q.state.HasCompletedOnboarding = true
	q.state.IsVisible = false
	snapshot := q.state
	q.mu.Unlock()

	q.logger.Info("onboarding completed")
	q.notify(snapshot)
	return nil
}

// SkipOnboarding completes the tour without visiting the remaining steps.
func (q *Sequencer) SkipOnboarding(ctx context.Context) error {
	q.logger.Debug("skipping onboarding", "step", q.State().CurrentStep.String())
	return q.CompleteOnboarding(ctx)
}

// RestartOnboarding replays the tour from the first step. Persisted
// completion is untouched.
func (q *Sequencer) RestartOnboarding() {
	q.mutate(func(s *State) {
		q.cancelTimerLocked()
		s.CurrentStep = StepWelcome
		s.IsVisible = true
		s.ShowSuccessMessage = false
	})
}

// CloseOnboarding hides the tour without completing it.
func (q *Sequencer) CloseOnboarding() {
	q.mutate(func(s *State) {
		s.IsVisible = false
	})
}

// Unmount cancels any pending auto-advance and turns every later transition
// and async result into a no-op. Safe to call more than once.
func (q *Sequencer) Unmount() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.unmounted {
		return
	}
	q.unmounted = true
	q.cancelTimerLocked()
}

// Unmounted reports whether Unmount was called.
func (q *Sequencer) Unmounted() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.unmounted
}

// mutate applies fn under the lock and notifies with the result. Nothing
// happens after Unmount.
func (q *Sequencer) mutate(fn func(*State)) {
	q.mu.Lock()
	if q.unmounted {
		q.mu.Unlock()
		return
	}
	fn(&q.state)
	snapshot := q.state
	q.mu.Unlock()

	q.notify(snapshot)
}

// cancelTimerLocked stops the pending auto-advance. Callers hold q.mu.
func (q *Sequencer) cancelTimerLocked() {
	q.timerGen++
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
}

func (q *Sequencer) notify(s State) {
	if q.onChange != nil {
		q.onChange(s)
	}
}
