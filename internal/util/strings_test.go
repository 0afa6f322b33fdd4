package util

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short string unchanged", "siteAdded", 20, "siteAdded"},
		{"exact length unchanged", "siteAdded", 9, "siteAdded"},
		{"truncated with ellipsis", "siteRemovedFromGroup", 10, "siteRem..."},
		{"tiny limit", "siteAdded", 3, "..."},
		{"unicode counts runes", "ニュースサイト", 5, "ニュ..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateString(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestTruncateANSI(t *testing.T) {
	styled := lipgloss.NewStyle().Bold(true).Render("groupUpdated news")

	tests := []struct {
		name     string
		input    string
		maxWidth int
		wantW    int
	}{
		{"plain fits", "siteAdded", 20, 9},
		{"plain truncated", "siteRemovedFromGroup s-1 g-1", 12, 12},
		{"styled truncated", styled, 10, 10},
		{"tiny limit", "siteAdded", 2, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateANSI(tt.input, tt.maxWidth)
			if w := ansi.StringWidth(got); w != tt.wantW {
				t.Errorf("TruncateANSI width = %d, want %d (%q)", w, tt.wantW, got)
			}
		})
	}
}

func TestFitWidth(t *testing.T) {
	tests := []struct {
		input string
		width int
		want  string
	}{
		{"abc", 6, "abc   "},
		{"abcdefghij", 6, "abc..."},
		{"abc", 3, "abc"},
		{"abc", 0, ""},
	}

	for _, tt := range tests {
		if got := FitWidth(tt.input, tt.width); got != tt.want {
			t.Errorf("FitWidth(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.want)
		}
	}
}
