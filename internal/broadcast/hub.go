package broadcast

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/google/uuid"

	"github.com/Iron-Ham/focusgate/internal/logging"
)

type registration struct {
	id       string
	listener Listener
}

// Hub is an in-process Channel. Publish is synchronous: it returns once every
// listener registered at the time of the call has seen the envelope.
type Hub struct {
	mu        sync.RWMutex
	listeners []registration
	logger    *logging.Logger
}

// NewHub creates an empty Hub. A nil logger discards output.
func NewHub(logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Hub{logger: logger.WithComponent("hub")}
}

// AddListener registers l and returns its id.
func (h *Hub) AddListener(l Listener) string {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := uuid.NewString()
	h.listeners = append(h.listeners, registration{id: id, listener: l})
	return id
}

// RemoveListener unregisters a listener by id.
func (h *Hub) RemoveListener(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, reg := range h.listeners {
		if reg.id == id {
			h.listeners = append(h.listeners[:i:i], h.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// Publish delivers env to all listeners in registration order. A listener
// that panics is logged and skipped; delivery continues with the next one.
func (h *Hub) Publish(env Envelope) {
	h.mu.RLock()
	snapshot := make([]registration, len(h.listeners))
	copy(snapshot, h.listeners)
	h.mu.RUnlock()

	for _, reg := range snapshot {
		h.safeCall(reg, env)
	}
}

// PublishEvent encodes ev and publishes it.
func (h *Hub) PublishEvent(ev Event) error {
	env, err := Encode(ev)
	if err != nil {
		return err
	}
	h.Publish(env)
	return nil
}

func (h *Hub) safeCall(reg registration, env Envelope) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("listener panicked",
				"listener", reg.id,
				"type", env.Type,
				"event", string(env.Event),
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()))
		}
	}()
	reg.listener(env)
}

// ListenerCount returns the number of registered listeners.
func (h *Hub) ListenerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}

// Clear removes all listeners.
func (h *Hub) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = nil
}
