package ui

import (
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// SearchView is the search bar. Enter searches, Esc clears.
type SearchView struct {
	Input   textinput.Model
	focused bool
}

var _ View = (*SearchView)(nil)

// NewSearchView returns an empty search bar.
func NewSearchView() *SearchView {
	ti := textinput.New()
	ti.Prompt = "Search: "
	ti.Placeholder = "name contains..."
	ti.CharLimit = 100
	ti.Width = 40
	ti.Cursor.SetMode(cursor.CursorStatic)
	return &SearchView{Input: ti}
}

// Init implements View.
func (s *SearchView) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (s *SearchView) Update(msg tea.Msg) (View, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter":
			return s, msgCmd(SearchStudentsMsg{})
		case "esc":
			return s, msgCmd(ClearSearchMsg{})
		}
	}
	var cmd tea.Cmd
	s.Input, cmd = s.Input.Update(msg)
	return s, cmd
}

// View implements View.
func (s *SearchView) View() string {
	return s.Input.View()
}

// Value returns the raw search text.
func (s *SearchView) Value() string {
	return s.Input.Value()
}

// Reset clears the search text.
func (s *SearchView) Reset() {
	s.Input.SetValue("")
}

// Focus focuses the input.
func (s *SearchView) Focus() {
	s.focused = true
	s.Input.Focus()
}

// Blur blurs the input.
func (s *SearchView) Blur() {
	s.focused = false
	s.Input.Blur()
}
