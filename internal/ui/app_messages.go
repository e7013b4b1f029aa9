package ui

import (
	"studentdesk/internal/export"
	"studentdesk/internal/photo"
	"studentdesk/internal/student"
)

// fetchKind says why a list or search request was issued.
type fetchKind int

const (
	fetchList    fetchKind = iota // LoadStudents
	fetchSearch                   // SearchStudents
	fetchRefresh                  // re-run of the active view after save or delete
)

// LoadStudentsMsg asks for a full reload (r, SPC r).
type LoadStudentsMsg struct{}

// SearchStudentsMsg runs a search with the search bar's current value.
type SearchStudentsMsg struct{}

// ClearSearchMsg clears the search and restores the full list.
type ClearSearchMsg struct{}

// ChangePageMsg moves the table to a page (0-based).
type ChangePageMsg struct {
	Page int
}

// SaveStudentMsg submits the form.
type SaveStudentMsg struct{}

// EditStudentMsg loads a student into the form.
type EditStudentMsg struct {
	ID int64
}

// DeleteStudentMsg asks to delete a student; a confirmation modal follows.
type DeleteStudentMsg struct {
	ID int64
}

// ConfirmDeleteMsg is sent when the user confirms a delete.
type ConfirmDeleteMsg struct {
	ID int64
}

// DismissModalMsg is sent when user cancels a modal (Esc).
type DismissModalMsg struct{}

// PhotoChosenMsg is sent when a photo path is entered in the form.
type PhotoChosenMsg struct {
	Path string
}

// RemovePhotoMsg clears the pending photo.
type RemovePhotoMsg struct{}

// ResetFormMsg clears the form back to Create mode.
type ResetFormMsg struct{}

// NewStudentMsg resets the form and focuses it.
type NewStudentMsg struct{}

// FocusPanelMsg moves focus to a panel.
type FocusPanelMsg struct {
	Panel string
}

// ExportMsg writes the current view to a file.
type ExportMsg struct {
	Format export.Format
}

// DismissAlertsMsg clears every alert (SPC x).
type DismissAlertsMsg struct{}

// StudentsLoadedMsg carries the result of a list or search request.
// Exactly one of Records or Err is meaningful.
type StudentsLoadedMsg struct {
	Gen     uint64
	Kind    fetchKind
	Term    string
	Records []student.Record
	Err     error
}

// StudentLoadedMsg carries the result of fetching one student for edit.
type StudentLoadedMsg struct {
	Gen    uint64
	Record student.Record
	Err    error
}

// StudentSavedMsg carries the result of a create or update.
type StudentSavedMsg struct {
	Update bool
	Record student.Record
	Err    error
}

// StudentDeletedMsg carries the result of a delete.
type StudentDeletedMsg struct {
	ID  int64
	Err error
}

// PhotoLoadedMsg carries the result of reading a photo file.
type PhotoLoadedMsg struct {
	Gen   uint64
	Image photo.Image
	Err   error
}

// ExportedMsg carries the result of an export.
type ExportedMsg struct {
	Format export.Format
	Count  int
	Path   string
	Err    error
}

// alertExpiredMsg dismisses one alert after AlertLifetime.
type alertExpiredMsg struct {
	ID int
}
