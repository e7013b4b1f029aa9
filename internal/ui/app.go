package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"studentdesk/internal/export"
	"studentdesk/internal/photo"
	"studentdesk/internal/student"
	"studentdesk/internal/view"
)

// wideLayout is the terminal width from which the form sits beside the table.
const wideLayout = 120

// Options configures NewAppModel.
type Options struct {
	API           StudentAPI
	Exporter      Exporter // nil disables export
	Logger        *zap.Logger
	DateLayout    string // birth date display layout
	PhotoMaxBytes int64
	Context       context.Context // parent of every request context
}

// AppModel is the root model. It owns the list state and the form, and runs
// every backend call as a command whose result comes back as a message.
//
// List and search share one generation counter: starting a fetch cancels
// the previous one and results tagged with an older generation are dropped.
// Edit fetches and photo reads have their own counters.
type AppModel struct {
	API           StudentAPI
	Exporter      Exporter
	Logger        *zap.Logger
	LoadPhoto     PhotoLoader
	PhotoMaxBytes int64

	State      view.State
	Form       *FormView
	Search     *SearchView
	Table      *StudentTableView
	Alerts     *AlertStack
	Overlays   OverlayStack
	Focus      *FocusManager
	KeyHandler *KeyHandler
	Spinner    spinner.Model

	ctx        context.Context
	cancelView context.CancelFunc
	cancelEdit context.CancelFunc
	viewGen    uint64
	editGen    uint64
	photoGen   uint64
	tick       tickFunc
	width      int
	height     int
}

// Ensure AppModel can be used as tea.Model via adapter.
var _ tea.Model = (*appModelAdapter)(nil)

// appModelAdapter wraps AppModel to implement tea.Model.
type appModelAdapter struct {
	*AppModel
}

// NewAppModel creates the root application model.
func NewAppModel(opts Options) *AppModel {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	layout := opts.DateLayout
	if layout == "" {
		layout = student.DateLayout
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = Styles.Status

	a := &AppModel{
		API:           opts.API,
		Exporter:      opts.Exporter,
		Logger:        logger,
		LoadPhoto:     photo.Load,
		PhotoMaxBytes: opts.PhotoMaxBytes,
		Form:          NewFormView(),
		Search:        NewSearchView(),
		Table:         NewStudentTableView(layout),
		Alerts:        &AlertStack{},
		KeyHandler:    NewKeyHandler(newKeybindRegistry()),
		Spinner:       sp,
		ctx:           ctx,
		tick:          tea.Tick,
	}
	a.KeyHandler.Mode = func() FormMode { return a.Form.Mode }
	a.Focus = NewFocusManager(PanelTable, PanelForm, PanelSearch)
	a.Focus.OnChange = a.onFocusChange
	a.onFocusChange("", a.Focus.Current)
	return a
}

func newKeybindRegistry() *KeybindRegistry {
	reg := NewKeybindRegistry()
	reg.BindWithDesc("q", tea.Quit, "Quit")
	reg.BindWithDesc("SPC q", tea.Quit, "Quit")
	reg.BindWithDesc("SPC r", msgCmd(LoadStudentsMsg{}), "Reload")
	reg.BindWithDesc("SPC /", msgCmd(FocusPanelMsg{Panel: PanelSearch}), "Search")
	reg.BindWithDesc("SPC c", msgCmd(ClearSearchMsg{}), "Clear search")
	reg.BindWithDesc("SPC n", msgCmd(NewStudentMsg{}), "New student")
	reg.BindWithDesc("SPC x", msgCmd(DismissAlertsMsg{}), "Dismiss alerts")
	reg.BindWithDesc("SPC e c", msgCmd(ExportMsg{Format: export.FormatCSV}), "Export CSV")
	reg.BindWithDesc("SPC e p", msgCmd(ExportMsg{Format: export.FormatPDF}), "Export PDF")
	reg.BindWithDesc("SPC f s", msgCmd(SaveStudentMsg{}), "Save")
	reg.BindWithDesc("SPC f r", msgCmd(ResetFormMsg{}), "Reset")
	reg.BindWithDesc("SPC f x", msgCmd(RemovePhotoMsg{}), "Remove photo")
	reg.BindWithDescForMode("SPC f c", msgCmd(ResetFormMsg{}), "Cancel edit", []FormMode{ModeEdit})
	return reg
}

// AsTeaModel returns a tea.Model adapter for use with tea.NewProgram.
func (a *AppModel) AsTeaModel() tea.Model {
	return &appModelAdapter{AppModel: a}
}

// Close cancels in-flight requests.
func (a *AppModel) Close() {
	if a.cancelView != nil {
		a.cancelView()
		a.cancelView = nil
	}
	if a.cancelEdit != nil {
		a.cancelEdit()
		a.cancelEdit = nil
	}
}

// Init implements tea.Model.
func (a *appModelAdapter) Init() tea.Cmd {
	return a.LoadStudents()
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		return a, nil
	case tea.KeyMsg:
		return a, a.handleKey(msg)
	case spinner.TickMsg:
		if !a.busy() {
			return a, nil
		}
		var cmd tea.Cmd
		a.Spinner, cmd = a.Spinner.Update(msg)
		return a, cmd
	}
	return a, a.handleMsg(msg)
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	a.Table.Spinner = a.Spinner.View()

	form := panelStyle(a.Focus.Is(PanelForm)).Render(a.Form.View())
	search := panelStyle(a.Focus.Is(PanelSearch)).Render(a.Search.View())
	table := panelStyle(a.Focus.Is(PanelTable)).Render(a.Table.View())

	var body string
	if a.width >= wideLayout {
		body = lipgloss.JoinHorizontal(lipgloss.Top, form, " ",
			lipgloss.JoinVertical(lipgloss.Left, search, table))
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, form, search, table)
	}

	parts := []string{Styles.Title.Render("Student Management System")}
	if alerts := a.Alerts.View(); alerts != "" {
		parts = append(parts, alerts)
	}
	parts = append(parts, body)
	if a.KeyHandler != nil && a.KeyHandler.LeaderWaiting {
		parts = append(parts, RenderKeybindHelp(a.KeyHandler, a.Form.Mode))
	} else {
		parts = append(parts, RenderStatusHelp(a.Focus.Current, a.Form.Mode))
	}
	base := strings.Join(parts, "\n")

	if a.Overlays.Len() > 0 {
		modal := a.Overlays.View()
		if a.width > 0 && a.height > 0 {
			return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, modal)
		}
		return base + "\n" + modal
	}
	return base
}

func panelStyle(focused bool) lipgloss.Style {
	if focused {
		return Styles.PanelFocus
	}
	return Styles.Panel
}

// handleKey routes a key: open modals first, then global keys, then the
// keybind system (table only, so text inputs receive SPC and letters), then
// the focused panel.
func (a *AppModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	s := msg.String()
	if top, ok := a.Overlays.Peek(); ok {
		if top.IsDismissKey(s) {
			a.Overlays.Pop()
			return nil
		}
		cmd, _ := a.Overlays.UpdateTop(msg)
		return cmd
	}

	if s == "ctrl+c" {
		return tea.Quit
	}
	if a.Focus.Is(PanelTable) && a.KeyHandler != nil {
		if consumed, cmd := a.KeyHandler.Handle(msg); consumed {
			return cmd
		}
	}
	switch s {
	case "tab":
		a.Focus.Next()
		return nil
	case "shift+tab":
		a.Focus.Prev()
		return nil
	}

	_, cmd := a.focusedView().Update(msg)
	return cmd
}

func (a *AppModel) focusedView() View {
	switch a.Focus.Current {
	case PanelForm:
		return a.Form
	case PanelSearch:
		return a.Search
	default:
		return a.Table
	}
}

func (a *AppModel) onFocusChange(_, to string) {
	a.Form.Blur()
	a.Search.Blur()
	a.Table.Blur()
	switch to {
	case PanelForm:
		a.Form.Focus()
	case PanelSearch:
		a.Search.Focus()
	case PanelTable:
		a.Table.Focus()
	}
}

func (a *AppModel) busy() bool {
	return a.State.Status == view.StatusLoading || a.State.Status == view.StatusSearching
}

func (a *AppModel) setState(s view.State) {
	a.State = s
	a.Table.SetState(s)
}

// beginViewFetch cancels any in-flight list or search and returns the
// context and generation for a new one.
func (a *AppModel) beginViewFetch() (context.Context, uint64) {
	a.invalidateView()
	ctx, cancel := context.WithCancel(a.ctx)
	a.cancelView = cancel
	return ctx, a.viewGen
}

func (a *AppModel) invalidateView() {
	if a.cancelView != nil {
		a.cancelView()
		a.cancelView = nil
	}
	a.viewGen++
}

func (a *AppModel) invalidateEdit() {
	if a.cancelEdit != nil {
		a.cancelEdit()
		a.cancelEdit = nil
	}
	a.editGen++
}

// showAlert pushes an alert and schedules its dismissal.
func (a *AppModel) showAlert(kind AlertKind, text string) tea.Cmd {
	al := a.Alerts.Push(kind, text)
	a.Logger.Debug("alert", zap.Stringer("kind", kind), zap.String("text", text))
	return alertExpiryCmd(a.tick, al.ID)
}

// LoadStudents fetches the full list, replacing both projections.
func (a *AppModel) LoadStudents() tea.Cmd {
	a.setState(a.State.Loading())
	ctx, gen := a.beginViewFetch()
	return tea.Batch(listCmd(ctx, a.API, gen, fetchList), a.Spinner.Tick)
}

// SearchStudents searches by the trimmed search bar value.
func (a *AppModel) SearchStudents() tea.Cmd {
	term := strings.TrimSpace(a.Search.Value())
	if term == "" {
		return a.showAlert(AlertWarning, "Please enter a search term")
	}
	a.setState(a.State.SearchStarted(term))
	ctx, gen := a.beginViewFetch()
	return tea.Batch(searchCmd(ctx, a.API, gen, fetchSearch, term), a.Spinner.Tick)
}

// ClearSearch restores the last full list without a network call.
// A search in flight is abandoned; a list load in flight is kept.
func (a *AppModel) ClearSearch() tea.Cmd {
	loading := a.State.Status == view.StatusLoading
	if a.State.Status == view.StatusSearching {
		a.invalidateView()
	}
	a.Search.Reset()
	s := a.State.ClearedSearch()
	if loading {
		s = s.Loading()
	}
	a.setState(s)
	return nil
}

// ChangePage moves to page n of the filtered set, clamped.
func (a *AppModel) ChangePage(n int) tea.Cmd {
	a.setState(a.State.WithPage(n))
	return nil
}

// refreshView re-runs the active view (search or list) keeping the page.
func (a *AppModel) refreshView() tea.Cmd {
	ctx, gen := a.beginViewFetch()
	if a.State.Searching() {
		term := a.State.SearchTerm
		a.setState(a.State.SearchStarted(term))
		return tea.Batch(searchCmd(ctx, a.API, gen, fetchRefresh, term), a.Spinner.Tick)
	}
	a.setState(a.State.Loading())
	return tea.Batch(listCmd(ctx, a.API, gen, fetchRefresh), a.Spinner.Tick)
}

// SaveStudent validates the form and creates or updates the student.
func (a *AppModel) SaveStudent() tea.Cmd {
	draft := a.Form.Draft()
	if err := draft.Validate(); err != nil {
		var fe *student.FieldError
		if errors.As(err, &fe) {
			a.Focus.SetFocus(PanelForm)
			a.Form.FocusField(fe.Field)
			return a.showAlert(AlertWarning, fe.Message)
		}
		return a.showAlert(AlertWarning, err.Error())
	}
	payload, err := draft.Payload()
	if err != nil {
		return a.showAlert(AlertWarning, "Birth Date must be a valid date (YYYY-MM-DD)")
	}
	a.Logger.Debug("saving student", zap.Int64("id", draft.ID), zap.Bool("update", draft.IsUpdate()),
		zap.Bool("photo", payload.PhotoBase64 != nil))
	return tea.Batch(
		a.showAlert(AlertInfo, "Saving student..."),
		saveCmd(a.ctx, a.API, draft.ID, payload),
	)
}

// EditStudent fetches a student into the form.
func (a *AppModel) EditStudent(id int64) tea.Cmd {
	a.invalidateEdit()
	ctx, cancel := context.WithCancel(a.ctx)
	a.cancelEdit = cancel
	return getCmd(ctx, a.API, a.editGen, id)
}

// DeleteStudent asks for confirmation before deleting.
func (a *AppModel) DeleteStudent(id int64) tea.Cmd {
	if id == 0 {
		return a.showAlert(AlertDanger, "Invalid student ID")
	}
	a.Overlays.Push(Overlay{
		View:    NewDeleteStudentConfirmModal(id, a.findRecord(id)),
		Dismiss: []string{"esc"},
	})
	return nil
}

// HandlePhotoChange reads the photo at path off the event loop.
func (a *AppModel) HandlePhotoChange(path string) tea.Cmd {
	a.photoGen++
	a.Form.Loading = true
	return loadPhotoCmd(a.LoadPhoto, a.photoGen, path, a.PhotoMaxBytes)
}

// RemovePhoto drops the pending photo. Saved records are unaffected.
func (a *AppModel) RemovePhoto() tea.Cmd {
	a.photoGen++
	a.Form.ClearPhoto()
	return nil
}

// ResetForm returns the form to Create mode, abandoning any edit fetch or
// photo read in flight.
func (a *AppModel) ResetForm() tea.Cmd {
	a.invalidateEdit()
	a.photoGen++
	a.Form.Reset()
	return nil
}

// ExportView writes the filtered records of the current view to a file.
func (a *AppModel) ExportView(format export.Format) tea.Cmd {
	if a.Exporter == nil {
		return a.showAlert(AlertWarning, "Export is not configured")
	}
	if len(a.State.Filtered) == 0 {
		return a.showAlert(AlertWarning, "Nothing to export")
	}
	title := "Students"
	if a.State.Searching() {
		title = "Students matching \"" + a.State.SearchTerm + "\""
	}
	records := append([]student.Record(nil), a.State.Filtered...)
	return exportCmd(a.Exporter, format, title, records)
}

func (a *AppModel) findRecord(id int64) student.Record {
	for _, set := range [][]student.Record{a.State.Filtered, a.State.All} {
		for _, r := range set {
			if r.ID == id {
				return r
			}
		}
	}
	return student.Record{}
}

// previewFor renders the form preview for an encoded photo.
func previewFor(encoded string) string {
	if len(encoded) > photo.MaxEncodedLen {
		return Styles.Details.Render(labelLargePhoto)
	}
	out, err := photo.Render(encoded, previewCols, previewLines)
	if err != nil {
		return Styles.Error.Render(labelPhotoError)
	}
	return out
}
