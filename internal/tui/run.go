package tui

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/Iron-Ham/focusgate/internal/errors"
	"github.com/Iron-Ham/focusgate/internal/surface"
)

// RunOptions configures Run.
type RunOptions struct {
	// FeedSize caps the broadcast feed (default DefaultFeedSize).
	FeedSize int
	// AltScreen forces the alternate screen on or off. By default it is used
	// when stdout is a terminal.
	AltScreen *bool
	// Start, if set, runs once the surface is mounted. The tour passes the
	// broadcast channel's Start here so a replay reaches the new listener.
	Start func() error
}

// Run mounts s, runs the tour program until the user quits or ctx is
// cancelled, then unmounts s. fw must be the Forwarder the surface's
// sequencer notifies through.
func Run(ctx context.Context, s *surface.Surface, fw *Forwarder, opts RunOptions) error {
	model := NewModel(ctx, s, opts.FeedSize)

	altScreen := term.IsTerminal(int(os.Stdout.Fd()))
	if opts.AltScreen != nil {
		altScreen = *opts.AltScreen
	}
	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if altScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}

	p := tea.NewProgram(model, progOpts...)
	fw.Attach(p)
	defer fw.Detach()

	s.Refresh(fw.Handlers())
	if err := s.Mount(ctx); err != nil {
		return err
	}
	defer s.Unmount()
	if opts.Start != nil {
		if err := opts.Start(); err != nil {
			return err
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
