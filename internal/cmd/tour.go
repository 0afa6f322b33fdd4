package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/focusgate/internal/onboarding"
	"github.com/Iron-Ham/focusgate/internal/surface"
	"github.com/Iron-Ham/focusgate/internal/tui"
)

var tourCmd = &cobra.Command{
	Use:   "tour",
	Short: "Open the onboarding tour",
	Long: `Open the onboarding tour as a terminal surface.

The tour shows the current step, the broadcasts the surface receives
and a summary of the sites and groups it has seen. Completing or
skipping the tour is persisted to the storage directory; closing it
is not.

With --ephemeral the tour starts from the first step and its progress
is kept in memory only, so it can be walked through without changing
the saved onboarding record.`,
	Args: cobra.NoArgs,
	RunE: runTour,
}

var (
	tourReplay    bool
	tourEphemeral bool
)

func init() {
	rootCmd.AddCommand(tourCmd)

	tourCmd.Flags().BoolVar(&tourReplay, "replay", false, "Replay the whole broadcast log into the feed")
	tourCmd.Flags().BoolVar(&tourEphemeral, "ephemeral", false, "Keep tour progress in memory instead of the storage directory")
}

// tourStore picks where the tour records completion.
func tourStore(env *runtimeEnv, ephemeral bool) onboarding.Store {
	if ephemeral {
		env.logger.Debug("using in-memory onboarding store")
		return onboarding.NewMemoryStore(nil)
	}
	return env.store()
}

func runTour(cmd *cobra.Command, args []string) error {
	env, err := loadEnv()
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	ch, err := env.openChannel(tourReplay)
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	fw := tui.NewForwarder()
	seq := onboarding.New(tourStore(env, tourEphemeral),
		onboarding.WithLogger(env.logger.WithSurface("tour")),
		onboarding.WithAutoAdvanceDelay(env.cfg.Onboarding.AutoAdvanceDelay()),
		onboarding.WithOnChange(fw.State),
	)
	s, err := surface.New(surface.Config{
		Name:      "tour",
		Channel:   ch,
		Sequencer: seq,
		Logger:    env.logger,
	})
	if err != nil {
		return err
	}

	return tui.Run(cmd.Context(), s, fw, tui.RunOptions{
		FeedSize: env.cfg.TUI.FeedSize,
		Start:    ch.Start,
	})
}
