package broadcast

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Iron-Ham/focusgate/internal/errors"
)

// BroadcastType is the envelope discriminator for relay traffic. Other
// message types share the channel but belong to other listeners.
const BroadcastType = "BROADCAST"

// Envelope is the wire shape of every message on a Channel.
type Envelope struct {
	Type  string          `json:"type"`
	Event EventName       `json:"event,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// IsBroadcast reports whether the envelope carries relay traffic.
func (e Envelope) IsBroadcast() bool {
	return e.Type == BroadcastType
}

// Encode wraps an event in a BROADCAST envelope.
func Encode(ev Event) (Envelope, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s: %w", ev.Name(), err)
	}
	return Envelope{Type: BroadcastType, Event: ev.Name(), Data: data}, nil
}

// Decode turns a BROADCAST envelope into its typed event.
//
// It returns ErrNotBroadcast for other envelope types, ErrUnknownEvent for
// names outside the closed set and ErrMalformedPayload when the data does not
// fit the event's payload.
func Decode(env Envelope) (Event, error) {
	if !env.IsBroadcast() {
		return nil, errors.ErrNotBroadcast
	}

	switch env.Event {
	case EventSiteAdded:
		return decodePayload[SiteAdded](env)
	case EventSiteUpdated:
		return decodePayload[SiteUpdated](env)
	case EventSiteDeleted:
		return decodePayload[SiteDeleted](env)
	case EventGroupAdded:
		return decodePayload[GroupAdded](env)
	case EventGroupUpdated:
		return decodePayload[GroupUpdated](env)
	case EventGroupDeleted:
		return decodePayload[GroupDeleted](env)
	case EventSiteAddedToGroup:
		return decodePayload[SiteAddedToGroup](env)
	case EventSiteRemovedFromGroup:
		return decodePayload[SiteRemovedFromGroup](env)
	case EventQuickLimitAdded:
		return decodePayload[QuickLimitAdded](env)
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownEvent, env.Event)
	}
}

func decodePayload[T Event](env Envelope) (Event, error) {
	var payload T
	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, fmt.Errorf("%w: %s has no data", errors.ErrMalformedPayload, env.Event)
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errors.ErrMalformedPayload, env.Event, err)
	}
	return payload, nil
}
