package onboarding_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Iron-Ham/focusgate/internal/errors"
	"github.com/Iron-Ham/focusgate/internal/onboarding"
	"github.com/Iron-Ham/focusgate/internal/onboarding/onboardingtest"
)

func newSequencer(t *testing.T, store onboarding.Store, opts ...onboarding.Option) (*onboarding.Sequencer, *onboardingtest.ManualScheduler) {
	t.Helper()
	sched := onboardingtest.NewManualScheduler()
	opts = append([]onboarding.Option{onboarding.WithScheduler(sched)}, opts...)
	seq := onboarding.New(store, opts...)
	t.Cleanup(seq.Unmount)
	return seq, sched
}

func loaded(t *testing.T, store onboarding.Store) (*onboarding.Sequencer, *onboardingtest.ManualScheduler) {
	t.Helper()
	seq, sched := newSequencer(t, store)
	if err := seq.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return seq, sched
}

func TestNew_InitialState(t *testing.T) {
	seq, _ := newSequencer(t, &onboardingtest.StubStore{})

	want := onboarding.State{CurrentStep: onboarding.StepWelcome, IsLoading: true}
	if diff := cmp.Diff(want, seq.State()); diff != "" {
		t.Errorf("State() mismatch (-want +got):\n%s", diff)
	}
	if seq.Delay() != onboarding.DefaultAutoAdvanceDelay {
		t.Errorf("Delay() = %v, want %v", seq.Delay(), onboarding.DefaultAutoAdvanceDelay)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		store   *onboardingtest.StubStore
		want    onboarding.State
		wantErr bool
	}{
		{
			name:  "nothing persisted",
			store: &onboardingtest.StubStore{},
			want:  onboarding.State{IsVisible: true},
		},
		{
			name:  "persisted not completed",
			store: &onboardingtest.StubStore{Record: &onboarding.Record{Completed: false}},
			want:  onboarding.State{IsVisible: true},
		},
		{
			name:  "persisted completed",
			store: &onboardingtest.StubStore{Record: &onboarding.Record{Completed: true}},
			want:  onboarding.State{HasCompletedOnboarding: true, IsVisible: false},
		},
		{
			name:    "storage failure fails open",
			store:   &onboardingtest.StubStore{GetErr: errors.NewStorageError("read", "onboarding.json", fmt.Errorf("disk gone"))},
			want:    onboarding.State{IsVisible: true},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, _ := newSequencer(t, tt.store)

			err := seq.Load(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, seq.State()); diff != "" {
				t.Errorf("State() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad_SettlesLoadingExactlyOnce(t *testing.T) {
	gate := make(chan struct{})
	store := &onboardingtest.StubStore{Gate: gate}

	var mu sync.Mutex
	var loadingFlips int
	seq, _ := newSequencer(t, store, onboarding.WithOnChange(func(s onboarding.State) {
		mu.Lock()
		defer mu.Unlock()
		if !s.IsLoading {
			loadingFlips++
		}
	}))

	done := make(chan error, 1)
	go func() { done <- seq.Load(context.Background()) }()

	if !seq.State().IsLoading {
		t.Fatal("IsLoading cleared before hydration resolved")
	}
	close(gate)
	if err := <-done; err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := seq.Load(context.Background()); err != nil {
		t.Fatalf("second Load() error = %v", err)
	}

	if seq.State().IsLoading {
		t.Error("IsLoading still true after hydration")
	}
	if store.Gets != 1 {
		t.Errorf("store read %d times, want 1", store.Gets)
	}
	mu.Lock()
	defer mu.Unlock()
	if loadingFlips != 1 {
		t.Errorf("observed %d settled notifications, want 1", loadingFlips)
	}
}

func TestLoad_DiscardedAfterUnmount(t *testing.T) {
	gate := make(chan struct{})
	store := &onboardingtest.StubStore{Gate: gate, Record: &onboarding.Record{Completed: true}}

	notified := 0
	seq, _ := newSequencer(t, store, onboarding.WithOnChange(func(onboarding.State) { notified++ }))

	done := make(chan error, 1)
	go func() { done <- seq.Load(context.Background()) }()

	// Make sure Load reached the store before unmounting.
	time.Sleep(10 * time.Millisecond)
	seq.Unmount()
	close(gate)
	if err := <-done; err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := onboarding.State{CurrentStep: onboarding.StepWelcome, IsLoading: true}
	if diff := cmp.Diff(want, seq.State()); diff != "" {
		t.Errorf("State() changed after unmount (-want +got):\n%s", diff)
	}
	if notified != 0 {
		t.Errorf("OnChange called %d times after unmount", notified)
	}
}

func TestGoToStep_Clamps(t *testing.T) {
	tests := []struct {
		in   int
		want onboarding.Step
	}{
		{-5, onboarding.StepWelcome},
		{-1, onboarding.StepWelcome},
		{0, onboarding.StepWelcome},
		{3, onboarding.StepAddToGroup},
		{7, onboarding.StepToolbarIcon},
		{8, onboarding.LastStep},
		{99, onboarding.LastStep},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.in), func(t *testing.T) {
			seq, _ := loaded(t, &onboardingtest.StubStore{})
			seq.GoToStep(tt.in)
			if got := seq.State().CurrentStep; got != tt.want {
				t.Errorf("GoToStep(%d) -> %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNextStep_StopsAtLastStep(t *testing.T) {
	seq, _ := loaded(t, &onboardingtest.StubStore{})

	for i := 0; i < 10; i++ {
		seq.NextStep()
	}

	if got := seq.State().CurrentStep; got != onboarding.LastStep {
		t.Errorf("CurrentStep = %v, want %v", got, onboarding.LastStep)
	}
	if int(onboarding.LastStep) != 7 || onboarding.StepCount != 8 {
		t.Errorf("LastStep/StepCount = %d/%d, want 7/8", onboarding.LastStep, onboarding.StepCount)
	}
}

func TestNavigationClearsSuccess(t *testing.T) {
	tests := []struct {
		name string
		act  func(*onboarding.Sequencer)
	}{
		{"NextStep", func(s *onboarding.Sequencer) { s.NextStep() }},
		{"NextStep at ceiling", func(s *onboarding.Sequencer) { s.GoToStep(99); s.ShowSuccess("again"); s.NextStep() }},
		{"GoToStep", func(s *onboarding.Sequencer) { s.GoToStep(4) }},
		{"RestartOnboarding", func(s *onboarding.Sequencer) { s.RestartOnboarding() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, sched := loaded(t, &onboardingtest.StubStore{})
			seq.ShowSuccess("Nice")
			tt.act(seq)

			if seq.State().ShowSuccessMessage {
				t.Error("ShowSuccessMessage still set")
			}
			if sched.Pending() != 0 {
				t.Errorf("Pending() = %d, want 0 after manual navigation", sched.Pending())
			}
		})
	}
}

func TestShowSuccess_AutoAdvance(t *testing.T) {
	seq, sched := loaded(t, &onboardingtest.StubStore{})
	seq.GoToStep(2)

	seq.ShowSuccess("x")

	st := seq.State()
	if !st.ShowSuccessMessage || st.SuccessMessage != "x" {
		t.Fatalf("after ShowSuccess: ShowSuccessMessage=%v SuccessMessage=%q", st.ShowSuccessMessage, st.SuccessMessage)
	}
	if st.CurrentStep != 2 {
		t.Fatalf("CurrentStep advanced early: %v", st.CurrentStep)
	}

	sched.Advance(onboarding.DefaultAutoAdvanceDelay - time.Millisecond)
	if seq.State().CurrentStep != 2 {
		t.Fatalf("advanced before the delay elapsed")
	}

	sched.Advance(time.Millisecond)
	st = seq.State()
	if st.CurrentStep != 3 {
		t.Errorf("CurrentStep = %v, want 3", st.CurrentStep)
	}
	if st.ShowSuccessMessage {
		t.Error("ShowSuccessMessage still set after auto-advance")
	}

	sched.Advance(time.Hour)
	if seq.State().CurrentStep != 3 {
		t.Errorf("advanced more than once: %v", seq.State().CurrentStep)
	}
}

func TestShowSuccess_CustomDelay(t *testing.T) {
	sched := onboardingtest.NewManualScheduler()
	seq := onboarding.New(&onboardingtest.StubStore{},
		onboarding.WithScheduler(sched),
		onboarding.WithAutoAdvanceDelay(500*time.Millisecond))
	defer seq.Unmount()

	seq.ShowSuccess("fast")
	sched.Advance(500 * time.Millisecond)

	if got := seq.State().CurrentStep; got != onboarding.StepAddSite {
		t.Errorf("CurrentStep = %v, want %v", got, onboarding.StepAddSite)
	}
}

func TestShowSuccess_NewestReplacesPending(t *testing.T) {
	seq, sched := loaded(t, &onboardingtest.StubStore{})

	seq.ShowSuccess("first")
	sched.Advance(time.Second)
	seq.ShowSuccess("second")

	if sched.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", sched.Pending())
	}
	sched.Advance(time.Second)
	if seq.State().CurrentStep != onboarding.StepWelcome {
		t.Fatal("replaced timer advanced the tour")
	}
	sched.Advance(time.Second)

	st := seq.State()
	if st.CurrentStep != onboarding.StepAddSite {
		t.Errorf("CurrentStep = %v, want %v", st.CurrentStep, onboarding.StepAddSite)
	}
	if st.SuccessMessage != "second" {
		t.Errorf("SuccessMessage = %q, want second", st.SuccessMessage)
	}
}

func TestShowSuccess_AtLastStep(t *testing.T) {
	seq, sched := loaded(t, &onboardingtest.StubStore{})
	seq.GoToStep(int(onboarding.LastStep))

	seq.ShowSuccess("done")
	sched.Advance(onboarding.DefaultAutoAdvanceDelay)

	st := seq.State()
	if st.CurrentStep != onboarding.LastStep || st.ShowSuccessMessage {
		t.Errorf("state = %+v, want last step with success cleared", st)
	}
}

func TestUnmount_CancelsAutoAdvance(t *testing.T) {
	seq, sched := loaded(t, &onboardingtest.StubStore{})

	seq.ShowSuccess("bye")
	before := seq.State()
	seq.Unmount()
	seq.Unmount()

	if sched.Pending() != 0 {
		t.Errorf("Pending() = %d after Unmount, want 0", sched.Pending())
	}
	sched.Advance(time.Minute)

	if diff := cmp.Diff(before, seq.State()); diff != "" {
		t.Errorf("state mutated after unmount (-want +got):\n%s", diff)
	}
	if !seq.Unmounted() {
		t.Error("Unmounted() = false")
	}

	seq.NextStep()
	seq.RestartOnboarding()
	if diff := cmp.Diff(before, seq.State()); diff != "" {
		t.Errorf("transition applied after unmount (-want +got):\n%s", diff)
	}
}

func TestCompleteOnboarding(t *testing.T) {
	tests := []struct {
		name string
		run  func(*onboarding.Sequencer, context.Context) error
	}{
		{"complete", (*onboarding.Sequencer).CompleteOnboarding},
		{"skip", (*onboarding.Sequencer).SkipOnboarding},
	}

	for _, tt := range tests {
		t.Run(tt.name+" success", func(t *testing.T) {
			store := &onboardingtest.StubStore{}
			seq, _ := loaded(t, store)
			seq.GoToStep(3)

			if err := tt.run(seq, context.Background()); err != nil {
				t.Fatalf("error = %v", err)
			}

			st := seq.State()
			if !st.HasCompletedOnboarding || st.IsVisible {
				t.Errorf("state = %+v, want completed and hidden", st)
			}
			if st.CurrentStep != 3 {
				t.Errorf("CurrentStep = %v, want unchanged 3", st.CurrentStep)
			}
			if !store.Persisted() || store.Completes != 1 {
				t.Errorf("store persisted=%v completes=%d, want true/1", store.Persisted(), store.Completes)
			}
		})

		t.Run(tt.name+" failure", func(t *testing.T) {
			writeErr := errors.NewStorageError("write", "onboarding.json", fmt.Errorf("read-only"))
			store := &onboardingtest.StubStore{CompleteErr: writeErr}
			seq, _ := loaded(t, store)
			before := seq.State()

			err := tt.run(seq, context.Background())
			if !errors.Is(err, errors.ErrStorageUnavailable) {
				t.Fatalf("error = %v, want storage error", err)
			}
			if diff := cmp.Diff(before, seq.State()); diff != "" {
				t.Errorf("state changed on failed write (-want +got):\n%s", diff)
			}

			// The user can retry once storage recovers.
			store.SetCompleteErr(nil)
			if err := tt.run(seq, context.Background()); err != nil {
				t.Fatalf("retry error = %v", err)
			}
			if !seq.State().HasCompletedOnboarding {
				t.Error("retry did not complete onboarding")
			}
		})
	}
}

func TestCompleteOnboarding_AfterUnmount(t *testing.T) {
	store := &onboardingtest.StubStore{}
	seq, _ := loaded(t, store)
	seq.Unmount()

	if err := seq.CompleteOnboarding(context.Background()); !errors.Is(err, errors.ErrClosed) {
		t.Errorf("CompleteOnboarding() error = %v, want ErrClosed", err)
	}
	if store.Completes != 0 {
		t.Errorf("store written %d times after unmount", store.Completes)
	}
}

func TestRestartOnboarding(t *testing.T) {
	store := &onboardingtest.StubStore{Record: &onboarding.Record{Completed: true}}
	seq, _ := loaded(t, store)
	seq.GoToStep(5)

	seq.RestartOnboarding()

	want := onboarding.State{
		HasCompletedOnboarding: true,
		CurrentStep:            onboarding.StepWelcome,
		IsVisible:              true,
	}
	if diff := cmp.Diff(want, seq.State()); diff != "" {
		t.Errorf("State() mismatch (-want +got):\n%s", diff)
	}
	if !store.Persisted() {
		t.Error("restart cleared persisted completion")
	}
	if store.Completes != 0 {
		t.Errorf("restart wrote to the store %d times", store.Completes)
	}
}

func TestCloseOnboarding(t *testing.T) {
	store := &onboardingtest.StubStore{}
	seq, _ := loaded(t, store)
	seq.GoToStep(4)

	seq.CloseOnboarding()

	st := seq.State()
	if st.IsVisible {
		t.Error("IsVisible still true after close")
	}
	if st.CurrentStep != 4 {
		t.Errorf("CurrentStep = %v, want 4", st.CurrentStep)
	}
	if st.HasCompletedOnboarding || store.Persisted() {
		t.Error("close must not complete onboarding")
	}
}

func TestOnChange(t *testing.T) {
	var steps []onboarding.Step
	seq, sched := newSequencer(t, &onboardingtest.StubStore{}, onboarding.WithOnChange(func(s onboarding.State) {
		steps = append(steps, s.CurrentStep)
	}))

	_ = seq.Load(context.Background())
	seq.NextStep()
	seq.ShowSuccess("ok")
	sched.Advance(onboarding.DefaultAutoAdvanceDelay)
	seq.GoToStep(-3)

	want := []onboarding.Step{0, 1, 1, 2, 0}
	if diff := cmp.Diff(want, steps); diff != "" {
		t.Errorf("notified steps mismatch (-want +got):\n%s", diff)
	}
}

func TestSequencer_RealScheduler(t *testing.T) {
	changed := make(chan onboarding.State, 4)
	seq := onboarding.New(&onboardingtest.StubStore{},
		onboarding.WithAutoAdvanceDelay(10*time.Millisecond),
		onboarding.WithOnChange(func(s onboarding.State) { changed <- s }))
	defer seq.Unmount()

	seq.ShowSuccess("tick")
	<-changed

	select {
	case st := <-changed:
		if st.CurrentStep != onboarding.StepAddSite || st.ShowSuccessMessage {
			t.Errorf("auto-advance state = %+v", st)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("auto-advance did not fire")
	}
}
