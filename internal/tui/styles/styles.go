// Package styles holds the lipgloss palette shared by focusgate's terminal
// surfaces.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors - all colors meet WCAG AA contrast (4.5:1) on both black and dark surfaces
	PrimaryColor   = lipgloss.Color("#A78BFA") // Purple
	SecondaryColor = lipgloss.Color("#10B981") // Green
	WarningColor   = lipgloss.Color("#F59E0B") // Amber
	ErrorColor     = lipgloss.Color("#F87171") // Red
	MutedColor     = lipgloss.Color("#9CA3AF") // Gray
	SurfaceColor   = lipgloss.Color("#1F2937") // Dark surface
	TextColor      = lipgloss.Color("#F9FAFB") // Light text
	BorderColor    = lipgloss.Color("#6B7280") // Gray
	BlueColor      = lipgloss.Color("#60A5FA") // Blue

	// Convenience styles for colors
	Primary   = lipgloss.NewStyle().Foreground(PrimaryColor)
	Secondary = lipgloss.NewStyle().Foreground(SecondaryColor)
	Warning   = lipgloss.NewStyle().Foreground(WarningColor)
	Error     = lipgloss.NewStyle().Foreground(ErrorColor)
	Muted     = lipgloss.NewStyle().Foreground(MutedColor)
	Text      = lipgloss.NewStyle().Foreground(TextColor)

	// Base styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor)

	Subtitle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)

	Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(BorderColor).
		MarginBottom(1)

	// Content area
	ContentBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	SectionHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(SecondaryColor)

	// Tour steps
	StepCurrent = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextColor).
			Background(PrimaryColor).
			Padding(0, 1)

	StepDone = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Padding(0, 1)

	StepPending = lipgloss.NewStyle().
			Foreground(MutedColor).
			Padding(0, 1)

	SuccessBanner = lipgloss.NewStyle().
			Bold(true).
			Foreground(SurfaceColor).
			Background(SecondaryColor).
			Padding(0, 1)

	// Help bar
	HelpBar = lipgloss.NewStyle().
		Foreground(MutedColor).
		MarginTop(1)

	HelpKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(SecondaryColor)

	// Footer / status bar
	StatusBar = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(SurfaceColor).
			Padding(0, 1)

	ErrorBar = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)
)

// EventColor returns the feed color for a broadcast event name.
func EventColor(event string) lipgloss.Color {
	switch event {
	case "siteAdded", "groupAdded":
		return SecondaryColor
	case "siteUpdated", "groupUpdated":
		return BlueColor
	case "siteDeleted", "groupDeleted":
		return ErrorColor
	case "siteAddedToGroup", "siteRemovedFromGroup":
		return PrimaryColor
	case "quickLimitAdded":
		return WarningColor
	default:
		return MutedColor
	}
}

// EventIcon returns the feed icon for a broadcast event name.
func EventIcon(event string) string {
	switch event {
	case "siteAdded", "groupAdded", "quickLimitAdded":
		return "+"
	case "siteUpdated", "groupUpdated":
		return "~"
	case "siteDeleted", "groupDeleted":
		return "-"
	case "siteAddedToGroup":
		return "→"
	case "siteRemovedFromGroup":
		return "←"
	default:
		return "·"
	}
}
