package ui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"studentdesk/internal/photo"
	"studentdesk/internal/student"
	"studentdesk/internal/ui/textutil"
	"studentdesk/internal/view"
)

// Photo cell labels.
const (
	labelNoPhoto    = "No Photo"
	labelLargePhoto = "Large Photo"
	labelPhotoError = "Photo Error"
)

// thumbCols is the width of a table thumbnail in cells (one line high).
const thumbCols = 4

var tableHeaders = []string{"ID", "Photo", "Name", "Birth Date", "Mobile No", "Actions"}

// StudentTableView draws the current page of students and the pager.
type StudentTableView struct {
	State      view.State
	Cursor     int    // selected row on the current page
	DateLayout string // birth date display layout
	Spinner    string // spinner frame shown on loading rows
	focused    bool
	thumbs     map[int64]thumbEntry
}

type thumbEntry struct {
	data string
	out  string
}

var _ View = (*StudentTableView)(nil)

// NewStudentTableView returns an empty table.
func NewStudentTableView(dateLayout string) *StudentTableView {
	return &StudentTableView{DateLayout: dateLayout, thumbs: make(map[int64]thumbEntry)}
}

// Init implements View.
func (t *StudentTableView) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (t *StudentTableView) Update(msg tea.Msg) (View, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return t, nil
	}
	pager := view.BuildPager(t.State)
	s := k.String()
	switch s {
	case "j", "down":
		if t.Cursor < len(t.State.PageRecords())-1 {
			t.Cursor++
		}
	case "k", "up":
		if t.Cursor > 0 {
			t.Cursor--
		}
	case "h", "left", "pgup":
		if pager.Prev {
			return t, msgCmd(ChangePageMsg{Page: pager.Current - 1})
		}
	case "l", "right", "pgdown":
		if pager.Next {
			return t, msgCmd(ChangePageMsg{Page: pager.Current + 1})
		}
	case "g", "home":
		return t, msgCmd(ChangePageMsg{Page: 0})
	case "G", "end":
		return t, msgCmd(ChangePageMsg{Page: pager.Total - 1})
	case "e", "enter":
		if rec, ok := t.Selected(); ok {
			return t, msgCmd(EditStudentMsg{ID: rec.ID})
		}
	case "d", "delete":
		if rec, ok := t.Selected(); ok {
			return t, msgCmd(DeleteStudentMsg{ID: rec.ID})
		}
	case "r":
		return t, msgCmd(LoadStudentsMsg{})
	case "/":
		return t, msgCmd(FocusPanelMsg{Panel: PanelSearch})
	case "n":
		return t, msgCmd(NewStudentMsg{})
	case "c":
		if t.State.Searching() {
			return t, msgCmd(ClearSearchMsg{})
		}
	default:
		if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= 9 && n <= pager.Total {
			return t, msgCmd(ChangePageMsg{Page: n - 1})
		}
	}
	return t, nil
}

// SetState replaces the state, keeping the cursor on the page.
func (t *StudentTableView) SetState(s view.State) {
	if s.Page != t.State.Page {
		t.Cursor = 0
	}
	t.State = s
	if n := len(s.PageRecords()); t.Cursor >= n {
		t.Cursor = n - 1
	}
	if t.Cursor < 0 {
		t.Cursor = 0
	}
}

// Selected returns the record under the cursor.
func (t *StudentTableView) Selected() (student.Record, bool) {
	if t.State.Status != view.StatusIdle {
		return student.Record{}, false
	}
	page := t.State.PageRecords()
	if t.Cursor < 0 || t.Cursor >= len(page) {
		return student.Record{}, false
	}
	return page[t.Cursor], true
}

// Focus marks the table focused.
func (t *StudentTableView) Focus() { t.focused = true }

// Blur marks the table unfocused.
func (t *StudentTableView) Blur() { t.focused = false }

// View implements View.
func (t *StudentTableView) View() string {
	tree := view.BuildTable(t.State, t.DateLayout)

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(Styles.Muted).
		Headers(tableHeaders...)

	if tree.Message != "" {
		msgStyle := Styles.Empty
		text := tree.Message
		switch tree.MessageKind {
		case view.MessageError:
			msgStyle = Styles.Error
		case view.MessageInfo:
			if t.State.Status == view.StatusLoading || t.State.Status == view.StatusSearching {
				text = strings.TrimSpace(t.Spinner + " " + text)
			}
		}
		tbl.StyleFunc(func(row, col int) lipgloss.Style { return Styles.Header })
		return tbl.Render() + "\n" + msgStyle.Render(text)
	}

	for _, row := range tree.Rows {
		tbl.Row(
			formatID(row.ID),
			t.thumbnail(row),
			textutil.Truncate(row.Name, 28),
			row.BirthDate,
			textutil.Truncate(row.MobileNo, 16),
			"[e]dit [d]elete",
		)
	}
	tbl.StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return Styles.Header
		case t.focused && row == t.Cursor:
			return Styles.Selected.Padding(0, 1)
		case col == len(tableHeaders)-1:
			return Styles.Hint.Padding(0, 1)
		default:
			return Styles.Cell
		}
	})

	out := tbl.Render()
	if p := renderPager(view.BuildPager(t.State)); p != "" {
		out += "\n" + p
	}
	return out + "\n" + Styles.Muted.Render(t.summary())
}

func (t *StudentTableView) summary() string {
	n := len(t.State.Filtered)
	noun := "students"
	if n == 1 {
		noun = "student"
	}
	if t.State.Searching() {
		return fmt.Sprintf("%d %s matching %q of %d", n, noun, t.State.SearchTerm, len(t.State.All))
	}
	return fmt.Sprintf("%d %s", n, noun)
}

// thumbnail renders a row's photo cell, caching decoded thumbnails by id.
func (t *StudentTableView) thumbnail(row view.Row) string {
	switch row.Photo {
	case view.PhotoNone:
		return Styles.Muted.Render(labelNoPhoto)
	case view.PhotoLarge:
		return Styles.Details.Render(labelLargePhoto)
	}
	if e, ok := t.thumbs[row.ID]; ok && e.data == row.PhotoData {
		return e.out
	}
	out, err := photo.Render(row.PhotoData, thumbCols, 1)
	if err != nil {
		out = Styles.Error.Render(labelPhotoError)
	}
	if t.thumbs == nil {
		t.thumbs = make(map[int64]thumbEntry)
	}
	t.thumbs[row.ID] = thumbEntry{data: row.PhotoData, out: out}
	return out
}

// renderPager draws Prev, one control per page and Next, or "" when hidden.
func renderPager(p view.Pager) string {
	if !p.Visible {
		return ""
	}
	parts := make([]string, 0, len(p.Buttons)+2)
	parts = append(parts, pagerControl("‹ Prev", p.Prev))
	for _, b := range p.Buttons {
		if b.Active {
			parts = append(parts, Styles.Active.Render(" "+b.Label+" "))
		} else {
			parts = append(parts, Styles.Normal.Render(" "+b.Label+" "))
		}
	}
	parts = append(parts, pagerControl("Next ›", p.Next))
	return strings.Join(parts, " ")
}

func pagerControl(label string, enabled bool) string {
	if !enabled {
		return Styles.Disabled.Render(label)
	}
	return Styles.Status.Render(label)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
