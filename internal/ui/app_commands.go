package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"studentdesk/internal/export"
	"studentdesk/internal/photo"
	"studentdesk/internal/student"
)

// StudentAPI is the REST backend. *api.Client implements it.
type StudentAPI interface {
	List(ctx context.Context) ([]student.Record, error)
	Search(ctx context.Context, term string) ([]student.Record, error)
	Get(ctx context.Context, id int64) (student.Record, error)
	Create(ctx context.Context, p student.Payload) (student.Record, error)
	Update(ctx context.Context, id int64, p student.Payload) (student.Record, error)
	Delete(ctx context.Context, id int64) error
}

// Exporter writes records to a file and returns its path.
// *export.Store implements it.
type Exporter interface {
	Write(format export.Format, title string, records []student.Record) (string, error)
}

// PhotoLoader reads and encodes an image file. photo.Load is the default.
type PhotoLoader func(path string, maxBytes int64) (photo.Image, error)

// tickFunc schedules a message; tea.Tick outside tests.
type tickFunc func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

// listCmd fetches every student.
func listCmd(ctx context.Context, api StudentAPI, gen uint64, kind fetchKind) tea.Cmd {
	return func() tea.Msg {
		records, err := api.List(ctx)
		return StudentsLoadedMsg{Gen: gen, Kind: kind, Records: records, Err: err}
	}
}

// searchCmd fetches the students matching term.
func searchCmd(ctx context.Context, api StudentAPI, gen uint64, kind fetchKind, term string) tea.Cmd {
	return func() tea.Msg {
		records, err := api.Search(ctx, term)
		return StudentsLoadedMsg{Gen: gen, Kind: kind, Term: term, Records: records, Err: err}
	}
}

// getCmd fetches one student for the edit form.
func getCmd(ctx context.Context, api StudentAPI, gen uint64, id int64) tea.Cmd {
	return func() tea.Msg {
		rec, err := api.Get(ctx, id)
		return StudentLoadedMsg{Gen: gen, Record: rec, Err: err}
	}
}

// saveCmd creates the student when id is zero and updates it otherwise.
func saveCmd(ctx context.Context, api StudentAPI, id int64, p student.Payload) tea.Cmd {
	return func() tea.Msg {
		if id == 0 {
			rec, err := api.Create(ctx, p)
			return StudentSavedMsg{Record: rec, Err: err}
		}
		rec, err := api.Update(ctx, id, p)
		return StudentSavedMsg{Update: true, Record: rec, Err: err}
	}
}

// deleteCmd deletes one student.
func deleteCmd(ctx context.Context, api StudentAPI, id int64) tea.Cmd {
	return func() tea.Msg {
		return StudentDeletedMsg{ID: id, Err: api.Delete(ctx, id)}
	}
}

// loadPhotoCmd reads a photo file off the event loop.
func loadPhotoCmd(load PhotoLoader, gen uint64, path string, maxBytes int64) tea.Cmd {
	return func() tea.Msg {
		img, err := load(path, maxBytes)
		return PhotoLoadedMsg{Gen: gen, Image: img, Err: err}
	}
}

// exportCmd writes records with exp.
func exportCmd(exp Exporter, format export.Format, title string, records []student.Record) tea.Cmd {
	return func() tea.Msg {
		path, err := exp.Write(format, title, records)
		return ExportedMsg{Format: format, Count: len(records), Path: path, Err: err}
	}
}

// alertExpiryCmd returns a command that dismisses alert id after AlertLifetime.
func alertExpiryCmd(tick tickFunc, id int) tea.Cmd {
	return tick(AlertLifetime, func(time.Time) tea.Msg {
		return alertExpiredMsg{ID: id}
	})
}

// msgCmd wraps a message as a command.
func msgCmd(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
