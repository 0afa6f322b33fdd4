package onboarding

import "fmt"

// Step is a position in the tour.
type Step int

const (
	StepWelcome Step = iota
	StepAddSite
	StepGroupsTab
	StepAddToGroup
	StepMessagesTab
	StepMessagesList
	StepCompletion
	StepToolbarIcon
)

const (
	// LastStep is the final step index.
	LastStep = StepToolbarIcon
	// StepCount is the number of steps in the tour.
	StepCount = int(LastStep) + 1
)

var stepNames = [StepCount]string{
	"Welcome",
	"Add Site",
	"Groups Tab",
	"Add To Group",
	"Messages Tab",
	"Messages List",
	"Completion",
	"Toolbar Icon",
}

// String returns the display name of the step.
func (s Step) String() string {
	if s < StepWelcome || s > LastStep {
		return fmt.Sprintf("Step(%d)", int(s))
	}
	return stepNames[s]
}

// Clamp returns n limited to the valid step range.
func Clamp(n int) Step {
	switch {
	case n < int(StepWelcome):
		return StepWelcome
	case n > int(LastStep):
		return LastStep
	default:
		return Step(n)
	}
}

// Steps returns every step in order.
func Steps() []Step {
	steps := make([]Step, StepCount)
	for i := range steps {
		steps[i] = Step(i)
	}
	return steps
}
