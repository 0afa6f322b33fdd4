package broadcast

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHub_AddListener(t *testing.T) {
	hub := NewHub(nil)

	id1 := hub.AddListener(func(Envelope) {})
	id2 := hub.AddListener(func(Envelope) {})

	if id1 == "" || id2 == "" {
		t.Fatal("AddListener should return a non-empty ID")
	}
	if id1 == id2 {
		t.Errorf("AddListener returned duplicate ID %q", id1)
	}
	if hub.ListenerCount() != 2 {
		t.Errorf("ListenerCount() = %d, want 2", hub.ListenerCount())
	}
}

func TestHub_PublishOrder(t *testing.T) {
	hub := NewHub(nil)

	var order []string
	hub.AddListener(func(env Envelope) { order = append(order, "first:"+string(env.Event)) })
	hub.AddListener(func(env Envelope) { order = append(order, "second:"+string(env.Event)) })

	hub.Publish(Envelope{Type: BroadcastType, Event: EventSiteAdded})
	hub.Publish(Envelope{Type: BroadcastType, Event: EventSiteDeleted})

	want := []string{
		"first:siteAdded", "second:siteAdded",
		"first:siteDeleted", "second:siteDeleted",
	}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Errorf("delivery order mismatch (-want +got):\n%s", diff)
	}
}

func TestHub_RemoveListener(t *testing.T) {
	hub := NewHub(nil)

	called := false
	id := hub.AddListener(func(Envelope) { called = true })

	if !hub.RemoveListener(id) {
		t.Error("RemoveListener should return true for existing listener")
	}
	if hub.RemoveListener(id) {
		t.Error("second RemoveListener should return false")
	}
	if hub.RemoveListener("nonexistent") {
		t.Error("RemoveListener should return false for unknown ID")
	}

	hub.Publish(Envelope{Type: BroadcastType})
	if called {
		t.Error("removed listener should not be called")
	}
}

func TestHub_ListenerPanicIsolated(t *testing.T) {
	hub := NewHub(nil)

	var got []EventName
	hub.AddListener(func(Envelope) { panic("boom") })
	hub.AddListener(func(env Envelope) { got = append(got, env.Event) })

	hub.Publish(Envelope{Type: BroadcastType, Event: EventGroupAdded})
	hub.Publish(Envelope{Type: BroadcastType, Event: EventGroupDeleted})

	if diff := cmp.Diff([]EventName{EventGroupAdded, EventGroupDeleted}, got); diff != "" {
		t.Errorf("second listener deliveries (-want +got):\n%s", diff)
	}
}

func TestHub_PublishEvent(t *testing.T) {
	hub := NewHub(nil)

	var got Envelope
	hub.AddListener(func(env Envelope) { got = env })

	if err := hub.PublishEvent(SiteDeleted{SiteID: "s-9"}); err != nil {
		t.Fatalf("PublishEvent() error = %v", err)
	}
	ev, err := Decode(got)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if diff := cmp.Diff(SiteDeleted{SiteID: "s-9"}, ev); diff != "" {
		t.Errorf("published event mismatch (-want +got):\n%s", diff)
	}
}

func TestHub_Clear(t *testing.T) {
	hub := NewHub(nil)
	hub.AddListener(func(Envelope) {})
	hub.AddListener(func(Envelope) {})

	hub.Clear()

	if hub.ListenerCount() != 0 {
		t.Errorf("ListenerCount() after Clear = %d, want 0", hub.ListenerCount())
	}
}

func TestHub_ConcurrentAccess(t *testing.T) {
	hub := NewHub(nil)

	var mu sync.Mutex
	count := 0
	hub.AddListener(func(Envelope) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			hub.Publish(Envelope{Type: BroadcastType, Event: EventSiteAdded})
		}()
		go func() {
			defer wg.Done()
			id := hub.AddListener(func(Envelope) {})
			hub.RemoveListener(id)
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if count != 50 {
		t.Errorf("stable listener saw %d envelopes, want 50", count)
	}
}
