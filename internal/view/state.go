// Package view holds the console's list state and the pure functions that
// turn it into a render tree. Nothing here performs I/O.
package view

import "studentdesk/internal/student"

// PageSize is the number of rows per page.
const PageSize = 5

// Status is what the table area is currently showing instead of rows.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSearching
	StatusError
)

// State is the list-side state of the console. Transition methods return a
// new State; slices are replaced wholesale and never mutated in place.
type State struct {
	All        []student.Record // last full list
	Filtered   []student.Record // All, or the last search result
	Page       int
	SearchTerm string
	Status     Status
	Err        string // inline error row, set with StatusError
}

// PageCount returns ceil(n/PageSize), never less than 1.
func PageCount(n int) int {
	if n <= 0 {
		return 1
	}
	return (n + PageSize - 1) / PageSize
}

// Clamp bounds page to [0, PageCount(n)-1].
func Clamp(page, n int) int {
	last := PageCount(n) - 1
	if page > last {
		return last
	}
	if page < 0 {
		return 0
	}
	return page
}

// Slice returns records[page*PageSize : min((page+1)*PageSize, len)].
// page is clamped first.
func Slice(records []student.Record, page int) []student.Record {
	page = Clamp(page, len(records))
	start := page * PageSize
	if start >= len(records) {
		return nil
	}
	end := start + PageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}

// Pages returns the page count of the filtered set.
func (s State) Pages() int {
	return PageCount(len(s.Filtered))
}

// PageRecords returns the records on the current page.
func (s State) PageRecords() []student.Record {
	return Slice(s.Filtered, s.Page)
}

// Searching reports whether a search term is active.
func (s State) Searching() bool {
	return s.SearchTerm != ""
}

// Loading marks a list fetch in flight.
func (s State) Loading() State {
	s.Status = StatusLoading
	s.Err = ""
	return s
}

// SearchStarted records term and marks a search in flight.
func (s State) SearchStarted(term string) State {
	s.SearchTerm = term
	s.Status = StatusSearching
	s.Err = ""
	return s
}

// Loaded replaces both projections with a fresh full list and clears any search.
func (s State) Loaded(records []student.Record) State {
	s.All = records
	s.Filtered = records
	s.SearchTerm = ""
	s.Page = 0
	s.Status = StatusIdle
	s.Err = ""
	return s
}

// Searched replaces Filtered with a search result. All is untouched.
func (s State) Searched(term string, records []student.Record) State {
	s.Filtered = records
	s.SearchTerm = term
	s.Page = 0
	s.Status = StatusIdle
	s.Err = ""
	return s
}

// ClearedSearch restores Filtered from All.
func (s State) ClearedSearch() State {
	s.Filtered = s.All
	s.SearchTerm = ""
	s.Page = 0
	s.Status = StatusIdle
	s.Err = ""
	return s
}

// Refreshed applies the result of re-running the active view after a save
// or delete. The current page is kept, clamped to the new page count.
func (s State) Refreshed(records []student.Record) State {
	if !s.Searching() {
		s.All = records
	}
	s.Filtered = records
	s.Page = Clamp(s.Page, len(records))
	s.Status = StatusIdle
	s.Err = ""
	return s
}

// WithPage moves to page n, clamped.
func (s State) WithPage(n int) State {
	s.Page = Clamp(n, len(s.Filtered))
	return s
}

// Failed shows msg as an inline error row. The projections are kept.
func (s State) Failed(msg string) State {
	s.Status = StatusError
	s.Err = msg
	return s
}
