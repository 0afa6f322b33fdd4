package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/gobwas/glob"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Iron-Ham/focusgate/internal/broadcast"
	"github.com/Iron-Ham/focusgate/internal/surface"
	"github.com/Iron-Ham/focusgate/internal/tui/styles"
	"github.com/Iron-Ham/focusgate/internal/util"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print broadcasts as a headless surface receives them",
	Long: `Mount a headless surface and print every broadcast it receives.

Filters are glob patterns over event names and may be repeated.

Examples:
  # Everything
  focusgate watch

  # Only group traffic, as JSON envelopes
  focusgate watch --filter 'group*' --filter 'site*Group' --json

  # Replay the log from the beginning
  focusgate watch --from-start`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

var (
	watchFilters   []string
	watchJSON      bool
	watchFromStart bool
)

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringArrayVar(&watchFilters, "filter", nil, "Only print events matching this glob (repeatable)")
	watchCmd.Flags().BoolVar(&watchJSON, "json", false, "Print each broadcast as its JSON envelope")
	watchCmd.Flags().BoolVar(&watchFromStart, "from-start", false, "Replay the whole broadcast log first")
}

// eventColumnWidth fits the longest event name.
const eventColumnWidth = 20

// eventFilter matches event names against any of its globs. An empty
// filter matches everything.
type eventFilter []glob.Glob

func compileFilter(patterns []string) (eventFilter, error) {
	var f eventFilter
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid filter %q: %w", p, err)
		}
		matched := false
		for _, name := range broadcast.EventNames() {
			if g.Match(string(name)) {
				matched = true
				break
			}
		}
		if !matched {
			return nil, fmt.Errorf("filter %q matches no event", p)
		}
		f = append(f, g)
	}
	return f, nil
}

func (f eventFilter) Match(name broadcast.EventName) bool {
	if len(f) == 0 {
		return true
	}
	for _, g := range f {
		if g.Match(string(name)) {
			return true
		}
	}
	return false
}

// watchPrinter writes one line per broadcast. Handlers run on the channel's
// goroutine; mu keeps lines whole if several surfaces share a printer.
type watchPrinter struct {
	mu     sync.Mutex
	out    io.Writer
	filter eventFilter
	asJSON bool
	color  bool
	width  int
	now    func() time.Time
}

func (p *watchPrinter) handle(ev broadcast.Event) error {
	if !p.filter.Match(ev.Name()) {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.asJSON {
		env, err := broadcast.Encode(ev)
		if err != nil {
			return err
		}
		line, err := json.Marshal(env)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(p.out, "%s\n", line)
		return err
	}

	name := string(ev.Name())
	label := util.FitWidth(name, eventColumnWidth)
	if p.color {
		label = lipgloss.NewStyle().Foreground(styles.EventColor(name)).Render(label)
	}
	line := fmt.Sprintf("%s  %s  %s", p.now().Format("15:04:05"), label, broadcast.Describe(ev))
	if p.width > 0 {
		line = util.TruncateANSI(line, p.width)
	}
	_, err := fmt.Fprintln(p.out, line)
	return err
}

// terminalWidth reports whether w is a terminal and, if so, its width.
func terminalWidth(w io.Writer) (bool, int) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return false, 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return true, 0
	}
	return true, width
}

func runWatch(cmd *cobra.Command, args []string) error {
	filter, err := compileFilter(watchFilters)
	if err != nil {
		return err
	}

	env, err := loadEnv()
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	ch, err := env.openChannel(watchFromStart)
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	out := cmd.OutOrStdout()
	isTTY, width := terminalWidth(out)
	printer := &watchPrinter{
		out:    out,
		filter: filter,
		asJSON: watchJSON,
		color:  isTTY && !watchJSON,
		width:  width,
		now:    time.Now,
	}

	s, err := surface.New(surface.Config{Name: "watch", Channel: ch, Logger: env.logger})
	if err != nil {
		return err
	}
	s.Refresh(broadcast.AllHandlers(printer.handle))
	if err := s.Mount(cmd.Context()); err != nil {
		return err
	}
	defer s.Unmount()
	if err := ch.Start(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (Ctrl+C to stop)\n", ch.Path())
	<-cmd.Context().Done()

	relay := s.Relay()
	fmt.Fprintf(cmd.ErrOrStderr(), "\n%d broadcasts delivered, %d handler faults\n", relay.Delivered(), relay.Faults())
	return nil
}
