package ui

// FormMode is the state of the student form: creating a new record or
// editing a fetched one.
type FormMode int

const (
	ModeCreate FormMode = iota
	ModeEdit
)

func (m FormMode) String() string {
	switch m {
	case ModeCreate:
		return "Create"
	case ModeEdit:
		return "Edit"
	default:
		return "Unknown"
	}
}

// Title is the form heading for the mode.
func (m FormMode) Title() string {
	if m == ModeEdit {
		return "Edit Student"
	}
	return "Add New Student"
}

// SubmitLabel is the label of the form's save action.
func (m FormMode) SubmitLabel() string {
	if m == ModeEdit {
		return "Update"
	}
	return "Save"
}
