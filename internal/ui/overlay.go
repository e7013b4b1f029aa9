package ui

import (
	"slices"

	tea "github.com/charmbracelet/bubbletea"
)

// Overlay is a modal drawn over the console. While open it takes every key.
type Overlay struct {
	View    View
	Dismiss []string // keys that close it without asking the view
}

// IsDismissKey reports whether key closes the overlay.
func (o Overlay) IsDismissKey(key string) bool {
	return slices.Contains(o.Dismiss, key)
}

// OverlayStack holds open overlays; the last one pushed is on top.
type OverlayStack struct {
	items []Overlay
}

// Push opens o on top.
func (s *OverlayStack) Push(o Overlay) {
	s.items = append(s.items, o)
}

// Pop closes the top overlay.
func (s *OverlayStack) Pop() (Overlay, bool) {
	top, ok := s.Peek()
	if ok {
		s.items = s.items[:len(s.items)-1]
	}
	return top, ok
}

// Peek returns the top overlay.
func (s *OverlayStack) Peek() (Overlay, bool) {
	if len(s.items) == 0 {
		return Overlay{}, false
	}
	return s.items[len(s.items)-1], true
}

// Len returns the number of open overlays.
func (s *OverlayStack) Len() int {
	return len(s.items)
}

// UpdateTop routes msg to the top overlay. ok is false when none is open.
func (s *OverlayStack) UpdateTop(msg tea.Msg) (cmd tea.Cmd, ok bool) {
	if len(s.items) == 0 {
		return nil, false
	}
	top := &s.items[len(s.items)-1]
	top.View, cmd = top.View.Update(msg)
	return cmd, true
}

// View draws the top overlay, or "".
func (s *OverlayStack) View() string {
	if top, ok := s.Peek(); ok {
		return top.View.View()
	}
	return ""
}
