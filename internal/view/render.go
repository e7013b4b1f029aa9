package view

import (
	"fmt"
	"strconv"

	"studentdesk/internal/photo"
)

// MessageKind distinguishes the single spanning row shown instead of records.
type MessageKind int

const (
	MessageNone MessageKind = iota
	MessageInfo
	MessageError
)

// PhotoState is how a row's photo cell should be drawn.
type PhotoState int

const (
	PhotoNone PhotoState = iota
	PhotoLarge           // encoded payload over photo.MaxEncodedLen; never decoded
	PhotoReady
)

// Row is one student row of the table.
type Row struct {
	ID        int64
	Photo     PhotoState
	PhotoData string // set when Photo is PhotoReady
	Name      string
	BirthDate string
	MobileNo  string
}

// Table is the render tree for the student table. When Message is set the
// table shows that single row and Rows is empty.
type Table struct {
	Rows        []Row
	Message     string
	MessageKind MessageKind
}

// BuildTable builds the table for the current page. Birth dates are
// formatted with dateLayout.
func BuildTable(s State, dateLayout string) Table {
	switch s.Status {
	case StatusLoading:
		return Table{Message: "Loading students...", MessageKind: MessageInfo}
	case StatusSearching:
		return Table{Message: "Searching...", MessageKind: MessageInfo}
	case StatusError:
		return Table{Message: s.Err, MessageKind: MessageError}
	}

	if len(s.Filtered) == 0 {
		msg := "No students found"
		if s.Searching() {
			msg = fmt.Sprintf("No students found matching \"%s\"", s.SearchTerm)
		}
		return Table{Message: msg, MessageKind: MessageInfo}
	}

	page := s.PageRecords()
	rows := make([]Row, 0, len(page))
	for _, rec := range page {
		row := Row{
			ID:        rec.ID,
			Name:      rec.Name,
			BirthDate: rec.BirthDate.Display(dateLayout),
			MobileNo:  rec.MobileNo,
		}
		switch {
		case !rec.HasPhoto():
			row.Photo = PhotoNone
		case len(rec.PhotoBase64) > photo.MaxEncodedLen:
			row.Photo = PhotoLarge
		default:
			row.Photo = PhotoReady
			row.PhotoData = rec.PhotoBase64
		}
		rows = append(rows, row)
	}
	return Table{Rows: rows}
}

// PageButton is one page-number control.
type PageButton struct {
	Index  int
	Label  string
	Active bool
}

// Pager is the render tree for the pagination controls.
type Pager struct {
	Visible bool
	Prev    bool // enabled
	Next    bool // enabled
	Buttons []PageButton
	Current int
	Total   int
}

// BuildPager builds the pager. It is hidden while a message row is shown
// and when everything fits on one page.
func BuildPager(s State) Pager {
	total := s.Pages()
	current := Clamp(s.Page, len(s.Filtered))
	p := Pager{Current: current, Total: total}
	if s.Status != StatusIdle || len(s.Filtered) == 0 || total <= 1 {
		return p
	}

	p.Visible = true
	p.Prev = current > 0
	p.Next = current < total-1
	p.Buttons = make([]PageButton, total)
	for i := range p.Buttons {
		p.Buttons[i] = PageButton{Index: i, Label: strconv.Itoa(i + 1), Active: i == current}
	}
	return p
}
