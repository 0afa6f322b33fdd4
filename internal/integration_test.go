// Package internal contains integration tests that verify the surface
// packages work together: a producer appends to the broadcast log and every
// mounted surface converges on the same view.
package internal

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/Iron-Ham/focusgate/internal/broadcast"
	"github.com/Iron-Ham/focusgate/internal/mirror"
	"github.com/Iron-Ham/focusgate/internal/onboarding"
	"github.com/Iron-Ham/focusgate/internal/onboarding/onboardingtest"
	"github.com/Iron-Ham/focusgate/internal/surface"
	"github.com/Iron-Ham/focusgate/internal/testutil"
)

func emitAll(t *testing.T, log *broadcast.Log, events ...broadcast.Event) {
	t.Helper()
	for _, ev := range events {
		if err := log.Emit(ev); err != nil {
			t.Fatalf("Emit(%s) error = %v", ev.Name(), err)
		}
	}
}

func TestSurfacesFollowBroadcastLog(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	dir := t.TempDir()
	log := broadcast.NewLog(filepath.Join(dir, "broadcasts.jsonl"))

	ch, err := broadcast.NewFileChannel(log.Path(), broadcast.FileChannelOptions{}, nil)
	if err != nil {
		t.Fatalf("NewFileChannel() error = %v", err)
	}
	if err := ch.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer func() { _ = ch.Close() }()

	sched := onboardingtest.NewManualScheduler()
	store := onboarding.NewFileStore(dir)
	seq := onboarding.New(store, onboarding.WithScheduler(sched))

	tour, err := surface.New(surface.Config{Name: "tour", Channel: ch, Sequencer: seq})
	if err != nil {
		t.Fatalf("surface.New(tour) error = %v", err)
	}
	popup, err := surface.New(surface.Config{Name: "popup", Channel: ch})
	if err != nil {
		t.Fatalf("surface.New(popup) error = %v", err)
	}

	// The popup's own siteAdded handler is broken; its mirror must still
	// update and the tour must not notice.
	var popupPanics atomic.Int32
	popup.Refresh(broadcast.HandlersFor(broadcast.EventSiteAdded, func(broadcast.Event) error {
		popupPanics.Add(1)
		panic("popup render failed")
	}))

	for _, s := range []*surface.Surface{tour, popup} {
		if err := s.Mount(ctx); err != nil {
			t.Fatalf("Mount(%s) error = %v", s.Name(), err)
		}
	}
	defer popup.Unmount()
	defer tour.Unmount()

	if got := ch.ListenerCount(); got != 2 {
		t.Fatalf("ListenerCount() = %d, want one per surface", got)
	}
	if st := seq.State(); !st.IsVisible || st.IsLoading {
		t.Fatalf("tour state after mount = %+v", st)
	}

	emitAll(t, log,
		broadcast.GroupAdded{Group: broadcast.Group{ID: "g1", Name: "Social"}},
		broadcast.SiteAdded{Site: broadcast.Site{ID: "s1", Host: "social.example", TimeLimitMinutes: 15}},
		broadcast.SiteAddedToGroup{SiteID: "s1", GroupID: "g1"},
		broadcast.QuickLimitAdded{Site: broadcast.Site{ID: "s2", Host: "video.example"}},
		broadcast.SiteDeleted{SiteID: "s2"},
	)

	want := mirror.Counts{Sites: 1, Groups: 1}
	testutil.Eventually(t, 5*time.Second, func() bool {
		return tour.Relay().Delivered() == 5 && popup.Relay().Delivered() == 5 &&
			tour.Mirror().Counts() == want && popup.Mirror().Counts() == want
	}, "surfaces did not apply every broadcast")

	for _, s := range []*surface.Surface{tour, popup} {
		if diff := cmp.Diff(want, s.Mirror().Counts()); diff != "" {
			t.Errorf("%s counts mismatch (-want +got):\n%s", s.Name(), diff)
		}
	}
	if diff := cmp.Diff(tour.Mirror().Snapshot(), popup.Mirror().Snapshot()); diff != "" {
		t.Errorf("mirrors diverged (-tour +popup):\n%s", diff)
	}

	if got := popupPanics.Load(); got != 1 {
		t.Errorf("popup handler ran %d times, want 1", got)
	}
	if got := popup.Relay().Faults(); got != 1 {
		t.Errorf("popup Faults() = %d, want 1", got)
	}
	if got := tour.Relay().Faults(); got != 0 {
		t.Errorf("tour Faults() = %d, want 0", got)
	}

	// Tour progress: acknowledge, then close the tour surface before the
	// auto-advance fires.
	seq.ShowSuccess("Site added.")
	if err := seq.CompleteOnboarding(ctx); err != nil {
		t.Fatalf("CompleteOnboarding() error = %v", err)
	}
	tour.Unmount()
	sched.Advance(onboarding.DefaultAutoAdvanceDelay)
	if got := seq.State().CurrentStep; got != onboarding.StepWelcome {
		t.Errorf("auto-advance fired after unmount: step %v", got)
	}
	if got := ch.ListenerCount(); got != 1 {
		t.Errorf("ListenerCount() after tour unmount = %d, want 1", got)
	}

	// Only the popup hears later traffic.
	emitAll(t, log, broadcast.GroupDeleted{GroupID: "g1"})
	testutil.Eventually(t, 5*time.Second, func() bool {
		return popup.Mirror().Counts() == mirror.Counts{Sites: 1, Ungrouped: 1}
	}, "popup did not apply the broadcast sent after the tour unmounted")
	if got := tour.Relay().Delivered(); got != 5 {
		t.Errorf("tour Delivered() = %d after unmount, want 5", got)
	}
	if got := tour.Mirror().Counts(); got != want {
		t.Errorf("tour mirror changed after unmount: %+v", got)
	}

	// A fresh tour surface sees the persisted completion.
	next := onboarding.New(onboarding.NewFileStore(dir), onboarding.WithScheduler(sched))
	defer next.Unmount()
	if err := next.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if st := next.State(); !st.HasCompletedOnboarding || st.IsVisible {
		t.Errorf("reloaded tour state = %+v, want completed and hidden", st)
	}
}
