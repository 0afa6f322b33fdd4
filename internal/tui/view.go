package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/focusgate/internal/onboarding"
	"github.com/Iron-Ham/focusgate/internal/tui/styles"
	"github.com/Iron-Ham/focusgate/internal/util"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.Header.Render("focusgate · " + m.surface.Name()))
	b.WriteString("\n")

	if m.seq != nil {
		b.WriteString(m.renderTour())
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderCounts())
	b.WriteString("\n\n")
	b.WriteString(m.renderFeed())

	if status := m.Status(); status != "" {
		b.WriteString("\n")
		if m.err != nil {
			b.WriteString(styles.ErrorBar.Render(util.TruncateANSI(status, m.width)))
		} else {
			b.WriteString(styles.Secondary.Render(status))
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.HelpBar.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) renderTour() string {
	switch {
	case m.state.IsLoading:
		return styles.Muted.Render("Loading tour…")
	case !m.state.IsVisible && m.state.HasCompletedOnboarding:
		return styles.Muted.Render("Tour complete. Press r to replay it.")
	case !m.state.IsVisible:
		return styles.Muted.Render("Tour hidden. Press r to start again.")
	}

	var markers []string
	for _, step := range onboarding.Steps() {
		label := fmt.Sprintf("%d", int(step)+1)
		switch {
		case step == m.state.CurrentStep:
			markers = append(markers, styles.StepCurrent.Render(label))
		case step < m.state.CurrentStep:
			markers = append(markers, styles.StepDone.Render(label))
		default:
			markers = append(markers, styles.StepPending.Render(label))
		}
	}

	current := m.state.CurrentStep
	lines := []string{
		lipgloss.JoinHorizontal(lipgloss.Top, markers...),
		"",
		styles.Title.Render(stepTitle(current)),
		util.TruncateANSI(stepBody(current), m.contentWidth()),
	}
	if m.state.ShowSuccessMessage {
		lines = append(lines, "", styles.SuccessBanner.Render(m.state.SuccessMessage))
	}
	return styles.ContentBox.Width(m.contentWidth()).Render(strings.Join(lines, "\n"))
}

func (m Model) renderCounts() string {
	c := m.counts
	return styles.Muted.Render(fmt.Sprintf("sites %d · groups %d · ungrouped %d", c.Sites, c.Groups, c.Ungrouped))
}

func (m Model) renderFeed() string {
	var b strings.Builder
	b.WriteString(styles.SectionHeader.Render("Recent broadcasts"))
	if len(m.feed) == 0 {
		b.WriteString("\n")
		b.WriteString(styles.Muted.Render("  nothing yet"))
		return b.String()
	}
	for i := len(m.feed) - 1; i >= 0; i-- {
		e := m.feed[i]
		name := string(e.Event)
		icon := lipgloss.NewStyle().Foreground(styles.EventColor(name)).Render(styles.EventIcon(name))
		line := fmt.Sprintf("  %s %s %s", styles.Muted.Render(e.At.Format("15:04:05")), icon, e.Summary)
		b.WriteString("\n")
		b.WriteString(util.TruncateANSI(line, m.width))
	}
	return b.String()
}

// contentWidth is the inner width of the tour box.
func (m Model) contentWidth() int {
	const frame = 4 // border + padding
	if m.width <= frame+10 {
		return 10
	}
	return m.width - frame
}
