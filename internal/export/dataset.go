// Package export writes the students in the current view to CSV or PDF.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"studentdesk/internal/student"
)

// Format is an export file format.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// Columns of every export, in order.
var Columns = []string{"ID", "Name", "Birth Date", "Mobile No", "Photo"}

// Dataset is tabular export content keyed by column name.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// NewDataset converts records to rows. Photos are reported as yes/no, never
// as their encoded payload.
func NewDataset(records []student.Record) Dataset {
	ds := Dataset{Headers: Columns, Rows: make([]map[string]string, 0, len(records))}
	for _, rec := range records {
		hasPhoto := "no"
		if rec.HasPhoto() {
			hasPhoto = "yes"
		}
		ds.Rows = append(ds.Rows, map[string]string{
			"ID":         strconv.FormatInt(rec.ID, 10),
			"Name":       rec.Name,
			"Birth Date": rec.BirthDate.String(),
			"Mobile No":  rec.MobileNo,
			"Photo":      hasPhoto,
		})
	}
	return ds
}

// RenderCSV encodes the dataset as CSV with a header row.
func RenderCSV(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range data.Rows {
		if err := w.Write(data.record(row)); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPDF lays the dataset out as a landscape A4 table under title.
func RenderPDF(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetTitle(title, true)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
		pdf.Ln(3)
	}

	widths := columnWidths(len(data.Headers))
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range data.Headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Helvetica", "", 9)
	for _, row := range data.Rows {
		for i, v := range data.record(row) {
			pdf.CellFormat(widths[i], 7, tr(v), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (d Dataset) record(row map[string]string) []string {
	out := make([]string, len(d.Headers))
	for i, h := range d.Headers {
		out[i] = strings.TrimSpace(row[h])
	}
	return out
}

// columnWidths gives the ID and Photo columns a fixed narrow width and
// splits the rest of the page evenly.
func columnWidths(n int) []float64 {
	const usable = 277.0
	widths := make([]float64, n)
	if n != len(Columns) {
		for i := range widths {
			widths[i] = usable / float64(n)
		}
		return widths
	}
	narrow := 20.0
	wide := (usable - 2*narrow) / float64(n-2)
	for i := range widths {
		widths[i] = wide
	}
	widths[0] = narrow
	widths[n-1] = narrow
	return widths
}
