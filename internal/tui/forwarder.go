package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/focusgate/internal/broadcast"
	"github.com/Iron-Ham/focusgate/internal/onboarding"
)

// Sender is the part of *tea.Program the Forwarder uses.
type Sender interface {
	Send(msg tea.Msg)
}

// Forwarder carries sequencer changes and broadcasts from their own
// goroutines into a running program. Until a program is attached, and after
// it is detached, everything is dropped.
type Forwarder struct {
	mu     sync.RWMutex
	sender Sender
	now    func() time.Time
}

// NewForwarder creates a detached Forwarder.
func NewForwarder() *Forwarder {
	return &Forwarder{now: time.Now}
}

// Attach starts forwarding to s.
func (f *Forwarder) Attach(s Sender) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sender = s
}

// Detach stops forwarding.
func (f *Forwarder) Detach() {
	f.Attach(nil)
}

func (f *Forwarder) current() Sender {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.sender
}

// State forwards a sequencer change. It is meant for onboarding.WithOnChange.
//
// The send happens on its own goroutine: sequencer calls made from inside
// Update notify synchronously, and a blocking Send there would deadlock the
// program's event loop.
func (f *Forwarder) State(s onboarding.State) {
	sender := f.current()
	if sender == nil {
		return
	}
	go sender.Send(StateMsg(s))
}

// Broadcast forwards ev. Sends are synchronous so the feed keeps channel
// order.
func (f *Forwarder) Broadcast(ev broadcast.Event) error {
	sender := f.current()
	if sender == nil {
		return nil
	}
	sender.Send(BroadcastMsg{At: f.now(), Event: ev})
	return nil
}

// Handlers returns a handler set forwarding every event kind.
func (f *Forwarder) Handlers() broadcast.Handlers {
	return broadcast.AllHandlers(f.Broadcast)
}
