package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"studentdesk/internal/student"
)

// ConfirmModal asks a yes/no question. y or enter sends the confirm
// message; n or esc dismisses.
type ConfirmModal struct {
	Title   string
	Label   string
	Details string
	Confirm tea.Msg
}

var _ View = (*ConfirmModal)(nil)

// NewDeleteStudentConfirmModal asks before deleting student id. rec may be
// the zero record when the row is no longer loaded.
func NewDeleteStudentConfirmModal(id int64, rec student.Record) *ConfirmModal {
	details := fmt.Sprintf("#%d", id)
	if rec.Name != "" {
		details += " " + rec.Name
	}
	return &ConfirmModal{
		Title:   "Delete student?",
		Label:   "Are you sure you want to delete this student?",
		Details: details,
		Confirm: ConfirmDeleteMsg{ID: id},
	}
}

// Init implements View.
func (m *ConfirmModal) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (m *ConfirmModal) Update(msg tea.Msg) (View, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch k.String() {
	case "esc", "n":
		return m, msgCmd(DismissModalMsg{})
	case "enter", "y":
		if m.Confirm != nil {
			return m, msgCmd(m.Confirm)
		}
	}
	return m, nil
}

// View implements View.
func (m *ConfirmModal) View() string {
	body := Styles.ModalTitle.Render(m.Title) + "\n\n" + m.Label
	if m.Details != "" {
		body += "\n" + Styles.Details.Render(m.Details)
	}
	body += "\n\n" + Styles.Hint.Render("y/enter confirm · n/esc cancel")
	return Styles.ModalBox.Render(body)
}
