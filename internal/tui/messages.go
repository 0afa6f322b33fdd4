package tui

import (
	"time"

	"github.com/Iron-Ham/focusgate/internal/broadcast"
	"github.com/Iron-Ham/focusgate/internal/onboarding"
)

// StateMsg reports that the sequencer changed. The model re-reads the
// sequencer on receipt, so late or reordered messages are harmless.
type StateMsg onboarding.State

// BroadcastMsg carries a broadcast the surface has already applied to its
// mirror.
type BroadcastMsg struct {
	At    time.Time
	Event broadcast.Event
}

// completionMsg is returned by the complete/skip command once the store
// write settles.
type completionMsg struct {
	skipped bool
	err     error
}
