// Package onboarding drives the first-run tour shown by a UI surface.
//
// A [Sequencer] owns the in-memory tour state for one mounted surface: the
// current step, visibility and a transient success acknowledgment. The only
// persisted fact is whether the user completed (or skipped) the tour, read and
// written through a [Store].
//
// # Lifecycle
//
//	seq := onboarding.New(store, onboarding.WithLogger(logger))
//	_ = seq.Load(ctx)            // hydrate; fails open toward showing the tour
//	seq.ShowSuccess("Site added") // acknowledge, then auto-advance after 2s
//	_ = seq.CompleteOnboarding(ctx)
//	seq.Unmount()                 // cancels the pending auto-advance
//
// Navigation is clamped to [StepWelcome]..[LastStep]; out-of-range input is
// never an error. Results of Load and CompleteOnboarding that arrive after
// Unmount are discarded.
package onboarding
