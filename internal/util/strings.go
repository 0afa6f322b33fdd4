// Package util provides shared helpers for terminal rendering.
package util

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// TruncateString truncates s to maxLen runes, adding "..." if truncated.
// It does not understand ANSI escapes; use TruncateANSI for styled text.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 3 {
		return "..."
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

// TruncateANSI truncates s to maxWidth visual columns, adding "..." if
// truncated. Escape sequences and wide characters are handled.
func TruncateANSI(s string, maxWidth int) string {
	if maxWidth <= 3 {
		return "..."
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	return ansi.Truncate(s, maxWidth, "...")
}

// FitWidth truncates or right-pads s to exactly width visual columns.
func FitWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = TruncateANSI(s, width)
	if w := ansi.StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}
