package ui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"studentdesk/internal/api"
	"studentdesk/internal/photo"
)

// handleMsg dispatches non-key messages: user intents from views and
// keybinds, and results of commands.
func (a *AppModel) handleMsg(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case LoadStudentsMsg:
		return a.LoadStudents()
	case SearchStudentsMsg:
		return a.SearchStudents()
	case ClearSearchMsg:
		return a.ClearSearch()
	case ChangePageMsg:
		return a.ChangePage(msg.Page)
	case SaveStudentMsg:
		return a.SaveStudent()
	case EditStudentMsg:
		return a.EditStudent(msg.ID)
	case DeleteStudentMsg:
		return a.DeleteStudent(msg.ID)
	case ConfirmDeleteMsg:
		a.Overlays.Pop()
		return deleteCmd(a.ctx, a.API, msg.ID)
	case DismissModalMsg:
		a.Overlays.Pop()
		return nil
	case PhotoChosenMsg:
		return a.HandlePhotoChange(msg.Path)
	case RemovePhotoMsg:
		return a.RemovePhoto()
	case ResetFormMsg:
		return a.ResetForm()
	case NewStudentMsg:
		cmd := a.ResetForm()
		a.Focus.SetFocus(PanelForm)
		return cmd
	case FocusPanelMsg:
		a.Focus.SetFocus(msg.Panel)
		return nil
	case ExportMsg:
		return a.ExportView(msg.Format)
	case DismissAlertsMsg:
		a.Alerts.Clear()
		return nil
	case alertExpiredMsg:
		a.Alerts.Dismiss(msg.ID)
		return nil

	case StudentsLoadedMsg:
		return a.handleStudentsLoaded(msg)
	case StudentLoadedMsg:
		return a.handleStudentLoaded(msg)
	case StudentSavedMsg:
		return a.handleStudentSaved(msg)
	case StudentDeletedMsg:
		return a.handleStudentDeleted(msg)
	case PhotoLoadedMsg:
		return a.handlePhotoLoaded(msg)
	case ExportedMsg:
		return a.handleExported(msg)
	}
	return nil
}

func (a *AppModel) handleStudentsLoaded(msg StudentsLoadedMsg) tea.Cmd {
	if msg.Gen != a.viewGen {
		a.Logger.Debug("dropping stale students response",
			zap.Uint64("gen", msg.Gen), zap.Uint64("current", a.viewGen))
		return nil
	}
	if a.cancelView != nil {
		a.cancelView()
		a.cancelView = nil
	}

	if msg.Err != nil {
		text := "Failed to load students: " + msg.Err.Error()
		if msg.Term != "" {
			text = "Search failed: " + msg.Err.Error()
		}
		a.logAPIError("students request failed", msg.Err, zap.String("term", msg.Term))
		a.setState(a.State.Failed(text))
		return a.showAlert(AlertDanger, text)
	}

	switch msg.Kind {
	case fetchList:
		a.Search.Reset()
		a.setState(a.State.Loaded(msg.Records))
	case fetchSearch:
		a.setState(a.State.Searched(msg.Term, msg.Records))
	case fetchRefresh:
		a.setState(a.State.Refreshed(msg.Records))
	}
	a.Logger.Debug("students loaded", zap.Int("count", len(msg.Records)), zap.String("term", msg.Term))
	return nil
}

func (a *AppModel) handleStudentLoaded(msg StudentLoadedMsg) tea.Cmd {
	if msg.Gen != a.editGen {
		a.Logger.Debug("dropping stale student response", zap.Uint64("gen", msg.Gen))
		return nil
	}
	if a.cancelEdit != nil {
		a.cancelEdit()
		a.cancelEdit = nil
	}
	if msg.Err != nil {
		a.logAPIError("load student failed", msg.Err)
		return a.showAlert(AlertDanger, "Failed to load student details. Please try again.")
	}

	rec := msg.Record
	preview := ""
	if rec.HasPhoto() {
		preview = previewFor(rec.PhotoBase64)
	}
	a.photoGen++
	a.Form.Fill(rec, preview)
	a.Focus.SetFocus(PanelForm)
	a.Form.SetActive(fieldName)
	return nil
}

func (a *AppModel) handleStudentSaved(msg StudentSavedMsg) tea.Cmd {
	if msg.Err != nil {
		a.logAPIError("save student failed", msg.Err, zap.Bool("update", msg.Update))
		return a.showAlert(AlertDanger, "Failed to save student. Please try again.")
	}
	a.Logger.Info("student saved", zap.Int64("id", msg.Record.ID), zap.Bool("update", msg.Update))
	a.ResetForm()

	text := "Student added successfully!"
	if msg.Update {
		text = "Student updated successfully!"
	}
	return tea.Batch(a.refreshView(), a.showAlert(AlertSuccess, text))
}

func (a *AppModel) handleStudentDeleted(msg StudentDeletedMsg) tea.Cmd {
	if msg.Err != nil {
		a.logAPIError("delete student failed", msg.Err, zap.Int64("id", msg.ID))
		return a.showAlert(AlertDanger, "Failed to delete student. Please try again.")
	}
	a.Logger.Info("student deleted", zap.Int64("id", msg.ID))
	return tea.Batch(a.refreshView(), a.showAlert(AlertSuccess, "Student deleted successfully!"))
}

func (a *AppModel) handlePhotoLoaded(msg PhotoLoadedMsg) tea.Cmd {
	if msg.Gen != a.photoGen {
		a.Logger.Debug("dropping stale photo read", zap.Uint64("gen", msg.Gen))
		return nil
	}
	if msg.Err != nil {
		a.Form.Loading = false
		a.Logger.Warn("read photo failed", zap.Error(msg.Err))
		switch {
		case errors.Is(msg.Err, photo.ErrNotImage):
			return a.showAlert(AlertWarning, "Please choose an image file")
		case errors.Is(msg.Err, photo.ErrTooLarge):
			return a.showAlert(AlertWarning, "Photo is too large")
		default:
			return a.showAlert(AlertWarning, "Failed to read photo: "+msg.Err.Error())
		}
	}
	a.Form.SetPhoto(msg.Image.Base64, previewFor(msg.Image.Base64))
	return nil
}

func (a *AppModel) handleExported(msg ExportedMsg) tea.Cmd {
	if msg.Err != nil {
		a.Logger.Warn("export failed", zap.String("format", string(msg.Format)), zap.Error(msg.Err))
		return a.showAlert(AlertDanger, "Export failed: "+msg.Err.Error())
	}
	a.Logger.Info("exported students", zap.String("path", msg.Path), zap.Int("count", msg.Count))
	return a.showAlert(AlertSuccess, fmt.Sprintf("Exported %d students to %s", msg.Count, msg.Path))
}

// logAPIError logs a failed backend call with its kind, status and request id.
func (a *AppModel) logAPIError(text string, err error, fields ...zap.Field) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		fields = append(fields,
			zap.String("op", apiErr.Op),
			zap.Stringer("kind", apiErr.Kind),
			zap.Int("status", apiErr.Status),
			zap.String("request_id", apiErr.RequestID),
		)
	}
	a.Logger.Warn(text, append(fields, zap.Error(err))...)
}
