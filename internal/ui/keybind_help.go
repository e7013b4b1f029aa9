package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// leaderKeyMap adapts the leader menu at one prefix to help.KeyMap.
type leaderKeyMap struct {
	hints []Hint
}

var _ help.KeyMap = leaderKeyMap{}

// ShortHelp implements help.KeyMap.
func (m leaderKeyMap) ShortHelp() []key.Binding {
	if len(m.hints) == 0 {
		return nil
	}
	out := make([]key.Binding, 0, len(m.hints)+1)
	for _, h := range m.hints {
		out = append(out, key.NewBinding(key.WithKeys(h.Key), key.WithHelp(h.Key, h.Desc)))
	}
	return append(out, key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")))
}

// FullHelp implements help.KeyMap.
func (m leaderKeyMap) FullHelp() [][]key.Binding {
	if short := m.ShortHelp(); short != nil {
		return [][]key.Binding{short}
	}
	return nil
}

// RenderKeybindHelp draws the leader menu for the handler's buffered
// sequence, showing only bindings live in mode.
func RenderKeybindHelp(h *KeyHandler, mode FormMode) string {
	if h == nil || h.Registry == nil {
		return ""
	}
	prefix := h.Prefix()
	km := leaderKeyMap{hints: h.Registry.LeaderHints(prefix, mode)}
	if len(km.hints) == 0 {
		return ""
	}
	if prefix == "" {
		prefix = leaderSeq
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccent)).
		Padding(0, 1)
	return box.Render(Styles.Muted.Render(prefix) + " " + newHelpModel().ShortHelpView(km.ShortHelp()))
}

// newHelpModel returns a bubbles/help model in the console palette.
func newHelpModel() help.Model {
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true)
	h.Styles.ShortDesc = Styles.Muted
	h.Styles.ShortSeparator = Styles.Muted
	return h
}

// RenderStatusHelp renders the always-visible key hints for the focused panel.
func RenderStatusHelp(focus string, mode FormMode) string {
	var pairs [][2]string
	switch focus {
	case PanelForm:
		pairs = [][2]string{
			{"↑/↓", "field"}, {"enter", "next/load photo"}, {"ctrl+s", strings.ToLower(mode.SubmitLabel())},
			{"ctrl+x", "remove photo"}, {"esc", "cancel"}, {"tab", "focus"},
		}
	case PanelSearch:
		pairs = [][2]string{{"enter", "search"}, {"esc", "clear"}, {"tab", "focus"}}
	default:
		pairs = [][2]string{
			{"j/k", "select"}, {"h/l", "page"}, {"e", "edit"}, {"d", "delete"},
			{"n", "new"}, {"/", "search"}, {"r", "reload"}, {"SPC", "menu"}, {"q", "quit"},
		}
	}
	bindings := make([]key.Binding, len(pairs))
	for i, p := range pairs {
		bindings[i] = key.NewBinding(key.WithKeys(p[0]), key.WithHelp(p[0], p[1]))
	}
	return newHelpModel().ShortHelpView(bindings)
}
