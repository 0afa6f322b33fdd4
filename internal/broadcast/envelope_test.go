package broadcast

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Iron-Ham/focusgate/internal/errors"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func sampleEvents() []Event {
	site := Site{ID: "s-1", Host: "news.example.com", TimeLimitMinutes: 30, GroupID: "g-1"}
	group := Group{ID: "g-1", Name: "News", VisitLimit: 5, SiteIDs: []string{"s-1"}}
	return []Event{
		SiteAdded{Site: site},
		SiteUpdated{Site: site, Patch: SitePatch{TimeLimitMinutes: intPtr(30)}},
		SiteDeleted{SiteID: "s-1"},
		GroupAdded{Group: group},
		GroupUpdated{Group: group, Patch: GroupPatch{Name: strPtr("News")}},
		GroupDeleted{GroupID: "g-1"},
		SiteAddedToGroup{SiteID: "s-1", GroupID: "g-1"},
		SiteRemovedFromGroup{SiteID: "s-1", GroupID: "g-1"},
		QuickLimitAdded{Site: Site{ID: "s-2", Host: "video.example.com", VisitLimit: 3}},
	}
}

func TestEncodeDecode(t *testing.T) {
	events := sampleEvents()
	if len(events) != len(EventNames()) {
		t.Fatalf("sampleEvents covers %d events, want %d", len(events), len(EventNames()))
	}

	for _, ev := range events {
		t.Run(string(ev.Name()), func(t *testing.T) {
			env, err := Encode(ev)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if env.Type != BroadcastType {
				t.Errorf("Type = %q, want %q", env.Type, BroadcastType)
			}
			if env.Event != ev.Name() {
				t.Errorf("Event = %q, want %q", env.Event, ev.Name())
			}

			got, err := Decode(env)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if diff := cmp.Diff(ev, got); diff != "" {
				t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecode_WireFormat(t *testing.T) {
	raw := `{"type":"BROADCAST","event":"siteUpdated","data":{"site":{"id":"s-1","host":"a.example"},"updates":{"visitLimit":4}}}`

	var env Envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	ev, err := Decode(env)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	want := SiteUpdated{
		Site:  Site{ID: "s-1", Host: "a.example"},
		Patch: SitePatch{VisitLimit: intPtr(4)},
	}
	if diff := cmp.Diff(want, ev); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     Envelope
		wantErr error
	}{
		{
			name:    "other message type",
			env:     Envelope{Type: "GET_SITES", Event: EventSiteAdded, Data: json.RawMessage(`{}`)},
			wantErr: errors.ErrNotBroadcast,
		},
		{
			name:    "empty type",
			env:     Envelope{Event: EventSiteAdded, Data: json.RawMessage(`{}`)},
			wantErr: errors.ErrNotBroadcast,
		},
		{
			name:    "unknown event",
			env:     Envelope{Type: BroadcastType, Event: "messageAdded", Data: json.RawMessage(`{}`)},
			wantErr: errors.ErrUnknownEvent,
		},
		{
			name:    "missing data",
			env:     Envelope{Type: BroadcastType, Event: EventSiteDeleted},
			wantErr: errors.ErrMalformedPayload,
		},
		{
			name:    "null data",
			env:     Envelope{Type: BroadcastType, Event: EventSiteDeleted, Data: json.RawMessage(`null`)},
			wantErr: errors.ErrMalformedPayload,
		},
		{
			name:    "wrong shape",
			env:     Envelope{Type: BroadcastType, Event: EventSiteDeleted, Data: json.RawMessage(`{"siteId":42}`)},
			wantErr: errors.ErrMalformedPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := Decode(tt.env)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Decode() error = %v, want %v", err, tt.wantErr)
			}
			if ev != nil {
				t.Errorf("Decode() event = %v, want nil", ev)
			}
		})
	}
}

func TestEventName_Known(t *testing.T) {
	for _, name := range EventNames() {
		if !name.Known() {
			t.Errorf("%q.Known() = false, want true", name)
		}
	}
	for _, name := range []EventName{"", "messageAdded", "SiteAdded"} {
		if name.Known() {
			t.Errorf("%q.Known() = true, want false", name)
		}
	}
}
