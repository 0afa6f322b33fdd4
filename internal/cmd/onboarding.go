package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var onboardingCmd = &cobra.Command{
	Use:   "onboarding",
	Short: "Inspect or change persisted onboarding progress",
}

var onboardingStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the tour has been completed",
	Args:  cobra.NoArgs,
	RunE:  runOnboardingStatus,
}

var onboardingCompleteCmd = &cobra.Command{
	Use:   "complete",
	Short: "Mark the tour as completed",
	Args:  cobra.NoArgs,
	RunE:  runOnboardingComplete,
}

var onboardingResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear completion so the tour shows again",
	Args:  cobra.NoArgs,
	RunE:  runOnboardingReset,
}

func init() {
	rootCmd.AddCommand(onboardingCmd)
	onboardingCmd.AddCommand(onboardingStatusCmd)
	onboardingCmd.AddCommand(onboardingCompleteCmd)
	onboardingCmd.AddCommand(onboardingResetCmd)
}

func runOnboardingStatus(cmd *cobra.Command, args []string) error {
	env, err := loadEnv()
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	store := env.store()
	rec, err := store.GetOnboardingState(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case rec == nil:
		fmt.Fprintln(out, "Onboarding: not started")
	case rec.Completed:
		fmt.Fprintln(out, "Onboarding: completed")
	default:
		fmt.Fprintln(out, "Onboarding: not completed")
	}
	fmt.Fprintf(out, "Record: %s\n", store.Path())
	return nil
}

func runOnboardingComplete(cmd *cobra.Command, args []string) error {
	env, err := loadEnv()
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	if err := env.store().CompleteOnboarding(cmd.Context()); err != nil {
		return err
	}
	env.logger.Info("onboarding marked complete from cli")
	fmt.Fprintln(cmd.OutOrStdout(), "Onboarding marked as completed")
	return nil
}

func runOnboardingReset(cmd *cobra.Command, args []string) error {
	env, err := loadEnv()
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	if err := env.store().Reset(cmd.Context()); err != nil {
		return err
	}
	env.logger.Info("onboarding reset from cli")
	fmt.Fprintln(cmd.OutOrStdout(), "Onboarding reset; the tour will show on next launch")
	return nil
}
