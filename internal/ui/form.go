package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"studentdesk/internal/student"
	"studentdesk/internal/ui/textutil"
)

// Form fields in input order.
const (
	fieldName = iota
	fieldBirthDate
	fieldMobileNo
	fieldPhoto
	fieldCount
)

var fieldLabels = [fieldCount]string{"Name", "Birth Date", "Mobile No", "Photo file"}

// previewCols and previewLines size the form's photo preview.
const (
	previewCols  = 16
	previewLines = 8
)

// FormView is the add/edit student form.
type FormView struct {
	Mode    FormMode
	ID      int64
	Inputs  [fieldCount]textinput.Model
	Active  int
	Photo   *string // pending base64 photo; nil sends null
	Preview string  // rendered preview, or a label
	Loading bool    // a photo read is in flight
	focused bool

	// loaded holds the stored text of each field filled from a record and
	// shown what the input displayed after sanitizing it. A field still
	// showing that text saves the stored value unchanged.
	loaded, shown [fieldCount]string
}

var _ View = (*FormView)(nil)

// NewFormView returns an empty form in Create mode.
func NewFormView() *FormView {
	f := &FormView{}
	placeholders := [fieldCount]string{"Full name", "YYYY-MM-DD", "Mobile number", "/path/to/photo.jpg"}
	for i := range f.Inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholders[i]
		ti.Width = 40
		ti.Cursor.SetMode(cursor.CursorStatic)
		f.Inputs[i] = ti
	}
	f.Inputs[fieldBirthDate].CharLimit = len(student.DateLayout)
	f.Inputs[fieldPhoto].CharLimit = 4096
	return f
}

// Init implements View.
func (f *FormView) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (f *FormView) Update(msg tea.Msg) (View, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "ctrl+s":
			return f, msgCmd(SaveStudentMsg{})
		case "ctrl+x":
			return f, msgCmd(RemovePhotoMsg{})
		case "esc":
			return f, msgCmd(ResetFormMsg{})
		case "up":
			f.SetActive(f.Active - 1)
			return f, nil
		case "down":
			f.SetActive(f.Active + 1)
			return f, nil
		case "enter":
			if f.Active == fieldPhoto {
				path := strings.TrimSpace(f.Inputs[fieldPhoto].Value())
				if path == "" {
					return f, nil
				}
				return f, msgCmd(PhotoChosenMsg{Path: path})
			}
			f.SetActive(f.Active + 1)
			return f, nil
		}
	}

	var cmd tea.Cmd
	f.Inputs[f.Active], cmd = f.Inputs[f.Active].Update(msg)
	return f, cmd
}

// View implements View.
func (f *FormView) View() string {
	var b strings.Builder
	b.WriteString(Styles.Title.Render(f.Mode.Title()))
	if f.Mode == ModeEdit {
		b.WriteString(Styles.Muted.Render(" #" + formatID(f.ID)))
	}
	b.WriteString("\n\n")

	for i := range f.Inputs {
		label := fieldLabels[i]
		style := Styles.Muted
		if f.focused && i == f.Active {
			style = Styles.Selected
		}
		b.WriteString(style.Render(padLabel(label)))
		b.WriteString(f.Inputs[i].View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case f.Loading:
		b.WriteString(Styles.Muted.Render("Reading photo..."))
	case f.Preview != "":
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			Styles.Muted.Render(padLabel("Preview")), f.Preview))
	default:
		b.WriteString(Styles.Empty.Render(padLabel("Preview") + "No Photo"))
	}
	b.WriteString("\n\n")
	b.WriteString(Styles.Status.Render("[ctrl+s] " + f.Mode.SubmitLabel()))
	if f.Mode == ModeEdit {
		b.WriteString("  " + Styles.Muted.Render("[esc] Cancel"))
	}
	return b.String()
}

// Focus focuses the active input.
func (f *FormView) Focus() {
	f.focused = true
	f.syncFocus()
}

// Blur blurs every input.
func (f *FormView) Blur() {
	f.focused = false
	f.syncFocus()
}

// SetActive moves the cursor to field i, clamped.
func (f *FormView) SetActive(i int) {
	if i < 0 {
		i = 0
	}
	if i >= fieldCount {
		i = fieldCount - 1
	}
	f.Active = i
	f.syncFocus()
}

// FocusField moves the cursor to the input backing a Draft field name.
func (f *FormView) FocusField(field string) {
	switch field {
	case "Name":
		f.SetActive(fieldName)
	case "BirthDate":
		f.SetActive(fieldBirthDate)
	case "MobileNo":
		f.SetActive(fieldMobileNo)
	}
}

func (f *FormView) syncFocus() {
	for i := range f.Inputs {
		if f.focused && i == f.Active {
			f.Inputs[i].Focus()
		} else {
			f.Inputs[i].Blur()
		}
	}
}

// Draft snapshots the form.
func (f *FormView) Draft() student.Draft {
	return student.Draft{
		ID:        f.ID,
		Name:      f.value(fieldName),
		BirthDate: f.value(fieldBirthDate),
		MobileNo:  f.value(fieldMobileNo),
		Photo:     f.Photo,
	}
}

func (f *FormView) value(i int) string {
	v := f.Inputs[i].Value()
	if f.Mode == ModeEdit && v == f.shown[i] {
		return f.loaded[i]
	}
	return v
}

func (f *FormView) load(i int, v string) {
	f.Inputs[i].SetValue(v)
	f.loaded[i] = v
	f.shown[i] = f.Inputs[i].Value()
}

// Fill loads a fetched record and switches to Edit mode.
func (f *FormView) Fill(rec student.Record, preview string) {
	d := student.DraftFromRecord(rec)
	f.ID = d.ID
	f.load(fieldName, d.Name)
	f.load(fieldBirthDate, d.BirthDate)
	f.load(fieldMobileNo, d.MobileNo)
	f.Inputs[fieldPhoto].SetValue("")
	f.Photo = d.Photo
	f.Preview = ""
	if f.Photo != nil {
		f.Preview = preview
	}
	f.Loading = false
	f.Mode = ModeEdit
	f.SetActive(fieldName)
}

// SetPhoto stores a freshly read photo as pending.
func (f *FormView) SetPhoto(encoded, preview string) {
	f.Photo = &encoded
	f.Preview = preview
	f.Loading = false
}

// ClearPhoto drops the pending photo and the photo path.
func (f *FormView) ClearPhoto() {
	f.Inputs[fieldPhoto].SetValue("")
	f.Photo = nil
	f.Preview = ""
	f.Loading = false
}

// Reset clears every field and returns to Create mode.
func (f *FormView) Reset() {
	for i := range f.Inputs {
		f.Inputs[i].SetValue("")
	}
	f.loaded = [fieldCount]string{}
	f.shown = [fieldCount]string{}
	f.ID = 0
	f.Photo = nil
	f.Preview = ""
	f.Loading = false
	f.Mode = ModeCreate
	f.SetActive(fieldName)
}

func padLabel(s string) string {
	return textutil.Label(s, 12)
}
