package broadcast

import (
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/Iron-Ham/focusgate/internal/errors"
	"github.com/Iron-Ham/focusgate/internal/logging"
)

// Relay connects one mounted surface to a Channel. It holds at most one
// listener on the channel no matter how often the handler set is rebuilt.
type Relay struct {
	ch     Channel
	logger *logging.Logger

	mu         sync.Mutex
	handlers   Handlers
	listenerID string
	generation uint64

	delivered atomic.Uint64
	faults    atomic.Uint64
	lastFault atomic.Pointer[errors.HandlerError]
}

// NewRelay creates a Relay on ch. Nothing is registered until Subscribe.
// A nil logger discards output.
func NewRelay(ch Channel, logger *logging.Logger) *Relay {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Relay{
		ch:     ch,
		logger: logger.WithComponent("relay"),
	}
}

// Subscribe installs h as the relay's handler set, replacing any previous
// set, and registers the channel listener if none is live yet.
//
// The returned func unsubscribes. It acts at most once and only while h is
// still the current set; after a later Subscribe it is a no-op, so a stale
// teardown cannot remove the newer registration.
func (r *Relay) Subscribe(h Handlers) func() {
	r.mu.Lock()
	r.handlers = h
	r.generation++
	gen := r.generation
	if r.listenerID == "" {
		r.listenerID = r.ch.AddListener(r.dispatch)
		r.logger.Debug("listener registered", "listener", r.listenerID)
	}
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { r.unsubscribe(gen) })
	}
}

// SubscribeOne is Subscribe with a single handler for name. An unknown name
// registers an empty set.
func (r *Relay) SubscribeOne(name EventName, fn func(Event) error) func() {
	return r.Subscribe(HandlersFor(name, fn))
}

// Unsubscribe removes the channel listener regardless of which Subscribe
// installed it. Calling it with nothing registered is a no-op.
func (r *Relay) Unsubscribe() {
	r.unsubscribe(0)
}

// unsubscribe removes the listener if gen is 0 or still current.
func (r *Relay) unsubscribe(gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.listenerID == "" {
		return
	}
	if gen != 0 && gen != r.generation {
		return
	}
	id := r.listenerID
	r.listenerID = ""
	r.handlers = Handlers{}
	if !r.ch.RemoveListener(id) {
		r.logger.Debug("listener already gone", "listener", id)
		return
	}
	r.logger.Debug("listener removed", "listener", id)
}

// Active reports whether a channel listener is registered.
func (r *Relay) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listenerID != ""
}

// Delivered returns how many envelopes were handed to a handler, including
// ones whose handler then failed.
func (r *Relay) Delivered() uint64 {
	return r.delivered.Load()
}

// Faults returns how many handler invocations failed or panicked.
func (r *Relay) Faults() uint64 {
	return r.faults.Load()
}

// LastFault returns the most recent handler fault, or nil.
func (r *Relay) LastFault() *errors.HandlerError {
	return r.lastFault.Load()
}

// dispatch is the single channel listener.
func (r *Relay) dispatch(env Envelope) {
	if !env.IsBroadcast() {
		return
	}

	r.mu.Lock()
	h := r.handlers
	live := r.listenerID != ""
	r.mu.Unlock()

	if !live {
		return
	}
	if !h.Has(env.Event) {
		if !env.Event.Known() {
			r.logger.Debug("ignoring unknown event", "event", string(env.Event))
		}
		return
	}

	ev, err := Decode(env)
	if err != nil {
		r.logger.Warn("dropping broadcast", "event", string(env.Event), "error", err.Error())
		return
	}

	r.safeCall(h, ev)
}

// safeCall runs the handler for ev. Errors and panics are recorded and
// logged; they never reach the channel.
func (r *Relay) safeCall(h Handlers, ev Event) {
	name := string(ev.Name())
	defer func() {
		if v := recover(); v != nil {
			r.fault(errors.NewHandlerPanic(name, v, string(debug.Stack())))
		}
	}()

	r.delivered.Add(1)
	if _, err := h.call(ev); err != nil {
		r.fault(errors.NewHandlerError(name, err))
	}
}

func (r *Relay) fault(herr *errors.HandlerError) {
	r.faults.Add(1)
	r.lastFault.Store(herr)

	sev := errors.GetSeverity(herr)
	args := []any{"event", herr.Event, "severity", sev.String(), "error", fmt.Sprint(herr.Unwrap())}
	if herr.Stack != "" {
		args = append(args, "stack", herr.Stack)
	}
	switch sev {
	case errors.SeverityCritical, errors.SeverityError:
		r.logger.Error("broadcast handler failed", args...)
	case errors.SeverityWarning:
		r.logger.Warn("broadcast handler failed", args...)
	default:
		r.logger.Info("broadcast handler failed", args...)
	}
}
