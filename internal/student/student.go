// Package student holds the student record model shared by the API client,
// the view state and the console, plus the form draft and its validation.
package student

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for birth dates.
const DateLayout = "2006-01-02"

// Record is a student as returned by the backend.
// ID is zero until the backend has assigned one.
type Record struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name"`
	BirthDate   Date   `json:"birthDate"`
	MobileNo    string `json:"mobileNo"`
	PhotoBase64 string `json:"photoBase64,omitempty"`
}

// HasPhoto reports whether the record carries an encoded photo.
func (r Record) HasPhoto() bool {
	return r.PhotoBase64 != ""
}

// Payload is the JSON body sent on create and update.
// PhotoBase64 encodes as null when no photo is pending.
type Payload struct {
	Name        string  `json:"name"`
	BirthDate   Date    `json:"birthDate"`
	MobileNo    string  `json:"mobileNo"`
	PhotoBase64 *string `json:"photoBase64"`
}

// Date is a calendar date without a time of day.
type Date struct {
	time.Time
}

// NewDate returns the date for the given year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{t}, nil
}

// String returns the date in wire format, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// Display formats the date with layout; the zero date renders empty.
func (d Date) Display(layout string) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(layout)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts "YYYY-MM-DD", a full RFC 3339 timestamp, a
// [year, month, day] array, or null.
func (d *Date) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var parts []int
		if err := json.Unmarshal(data, &parts); err != nil {
			return fmt.Errorf("decode date array: %w", err)
		}
		if len(parts) < 3 {
			return fmt.Errorf("decode date array: want 3 elements, got %d", len(parts))
		}
		*d = NewDate(parts[0], time.Month(parts[1]), parts[2])
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decode date: %w", err)
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		*d = Date{t}
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("decode date %q: %w", s, err)
	}
	*d = NewDate(t.Year(), t.Month(), t.Day())
	return nil
}
