// Package textutil measures and fits text to terminal columns.
package textutil

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Ellipsis marks truncated cell text.
const Ellipsis = "…"

// Width returns the number of terminal columns s occupies. ANSI styling is
// ignored.
func Width(s string) int {
	return lipgloss.Width(s)
}

// Truncate fits plain text into max columns, ending with Ellipsis when cut.
// Wide runes (CJK, emoji) count as two columns.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= max {
		return s
	}
	if max <= runewidth.StringWidth(Ellipsis) {
		return Ellipsis
	}
	return runewidth.Truncate(s, max, Ellipsis)
}

// PadRight truncates or pads s with spaces to exactly width columns.
func PadRight(s string, width int) string {
	s = Truncate(s, width)
	if gap := width - runewidth.StringWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// Label pads a form label to width columns plus one separating space.
// Labels wider than width are kept whole.
func Label(s string, width int) string {
	if runewidth.StringWidth(s) >= width {
		return s + " "
	}
	return PadRight(s, width)
}
