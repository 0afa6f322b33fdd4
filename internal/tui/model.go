// Package tui is focusgate's terminal surface: the onboarding tour with a
// live feed of the broadcasts the surface receives.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/focusgate/internal/broadcast"
	"github.com/Iron-Ham/focusgate/internal/errors"
	"github.com/Iron-Ham/focusgate/internal/mirror"
	"github.com/Iron-Ham/focusgate/internal/onboarding"
	"github.com/Iron-Ham/focusgate/internal/surface"
)

// DefaultFeedSize is how many broadcasts the feed keeps when none is
// configured.
const DefaultFeedSize = 8

// FeedEntry is one line of the broadcast feed.
type FeedEntry struct {
	At      time.Time
	Event   broadcast.EventName
	Summary string
}

// Model is the bubbletea model for a mounted surface.
type Model struct {
	ctx      context.Context
	surface  *surface.Surface
	seq      *onboarding.Sequencer
	keys     keyMap
	help     help.Model
	feedSize int

	state  onboarding.State
	counts mirror.Counts
	feed   []FeedEntry
	status string
	err    error

	width    int
	height   int
	quitting bool
}

// NewModel creates a Model for s. The surface's sequencer may be nil, in
// which case only the feed is shown.
func NewModel(ctx context.Context, s *surface.Surface, feedSize int) Model {
	if feedSize <= 0 {
		feedSize = DefaultFeedSize
	}
	m := Model{
		ctx:      ctx,
		surface:  s,
		seq:      s.Sequencer(),
		keys:     defaultKeyMap(),
		help:     help.New(),
		feedSize: feedSize,
		width:    80,
	}
	m.keys.setTourEnabled(m.seq != nil)
	m.syncState()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StateMsg:
		m.syncState()
		return m, nil

	case BroadcastMsg:
		m.pushFeed(msg)
		return m, nil

	case completionMsg:
		m.syncState()
		switch {
		case msg.err != nil:
			m.err = msg.err
			m.status = ""
		case msg.skipped:
			m.err = nil
			m.status = "Tour skipped"
		default:
			m.err = nil
			m.status = "Tour complete"
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}
	if m.seq == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Next):
		m.seq.NextStep()
	case key.Matches(msg, m.keys.Jump):
		n, err := strconv.Atoi(msg.String())
		if err != nil {
			return m, nil
		}
		m.seq.GoToStep(n - 1)
	case key.Matches(msg, m.keys.Acknowledge):
		m.seq.ShowSuccess(successMessage(m.state.CurrentStep))
	case key.Matches(msg, m.keys.Complete):
		return m, m.completeCmd(false)
	case key.Matches(msg, m.keys.Skip):
		return m, m.completeCmd(true)
	case key.Matches(msg, m.keys.Restart):
		m.status = ""
		m.err = nil
		m.seq.RestartOnboarding()
	case key.Matches(msg, m.keys.Close):
		m.seq.CloseOnboarding()
	default:
		return m, nil
	}
	m.syncState()
	return m, nil
}

// completeCmd persists completion off the event loop.
func (m Model) completeCmd(skip bool) tea.Cmd {
	seq, ctx := m.seq, m.ctx
	return func() tea.Msg {
		var err error
		if skip {
			err = seq.SkipOnboarding(ctx)
		} else {
			err = seq.CompleteOnboarding(ctx)
		}
		return completionMsg{skipped: skip, err: err}
	}
}

func (m *Model) syncState() {
	if m.seq != nil {
		m.state = m.seq.State()
	}
	m.counts = m.surface.Mirror().Counts()
}

func (m *Model) pushFeed(msg BroadcastMsg) {
	if msg.Event == nil {
		return
	}
	m.feed = append(m.feed, FeedEntry{
		At:      msg.At,
		Event:   msg.Event.Name(),
		Summary: broadcast.Describe(msg.Event),
	})
	if over := len(m.feed) - m.feedSize; over > 0 {
		m.feed = append(m.feed[:0:0], m.feed[over:]...)
	}
	m.counts = m.surface.Mirror().Counts()
}

// State returns the tour state the model last rendered.
func (m Model) State() onboarding.State { return m.state }

// Feed returns the feed, oldest first.
func (m Model) Feed() []FeedEntry { return m.feed }

// Status returns the last completion outcome shown to the user. A failed
// save shows its message only when it is meant for users, and offers a
// retry only when repeating the action may succeed.
func (m Model) Status() string {
	if m.err == nil {
		return m.status
	}
	msg := "Could not save progress"
	if errors.IsUserFacing(m.err) {
		msg = fmt.Sprintf("%s: %v", msg, m.err)
	}
	if errors.IsRetryable(m.err) {
		return msg + ". Press c to retry."
	}
	return msg + "."
}

// Quitting reports whether the user asked to quit.
func (m Model) Quitting() bool { return m.quitting }
