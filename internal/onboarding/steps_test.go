package onboarding

import "testing"

func TestStep_String(t *testing.T) {
	tests := []struct {
		step Step
		want string
	}{
		{StepWelcome, "Welcome"},
		{StepAddSite, "Add Site"},
		{StepMessagesList, "Messages List"},
		{StepToolbarIcon, "Toolbar Icon"},
		{Step(-1), "Step(-1)"},
		{Step(8), "Step(8)"},
	}
	for _, tt := range tests {
		if got := tt.step.String(); got != tt.want {
			t.Errorf("Step(%d).String() = %q, want %q", int(tt.step), got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		in   int
		want Step
	}{
		{-5, StepWelcome},
		{0, StepWelcome},
		{6, StepCompletion},
		{7, LastStep},
		{99, LastStep},
	}
	for _, tt := range tests {
		if got := Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%d) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSteps(t *testing.T) {
	steps := Steps()
	if len(steps) != StepCount {
		t.Fatalf("len(Steps()) = %d, want %d", len(steps), StepCount)
	}
	for i, s := range steps {
		if int(s) != i {
			t.Errorf("Steps()[%d] = %d", i, s)
		}
	}
}
