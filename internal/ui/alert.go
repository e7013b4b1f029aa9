package ui

import (
	"strings"
	"time"
)

// AlertLifetime is how long an alert stays before dismissing itself.
const AlertLifetime = 5 * time.Second

// maxAlerts caps the stack; the oldest alert is dropped first.
const maxAlerts = 4

// AlertKind is the severity of an alert.
type AlertKind int

const (
	AlertInfo AlertKind = iota
	AlertSuccess
	AlertWarning
	AlertDanger
)

func (k AlertKind) String() string {
	switch k {
	case AlertInfo:
		return "info"
	case AlertSuccess:
		return "success"
	case AlertWarning:
		return "warning"
	case AlertDanger:
		return "danger"
	default:
		return "unknown"
	}
}

// Alert is a transient message shown above the form.
type Alert struct {
	ID   int
	Kind AlertKind
	Text string
}

// AlertStack holds visible alerts, newest first.
type AlertStack struct {
	Alerts []Alert
	nextID int
}

// Push adds an alert on top and returns it.
func (s *AlertStack) Push(kind AlertKind, text string) Alert {
	s.nextID++
	a := Alert{ID: s.nextID, Kind: kind, Text: text}
	s.Alerts = append([]Alert{a}, s.Alerts...)
	if len(s.Alerts) > maxAlerts {
		s.Alerts = s.Alerts[:maxAlerts]
	}
	return a
}

// Dismiss removes the alert with id. It reports whether one was removed.
func (s *AlertStack) Dismiss(id int) bool {
	for i, a := range s.Alerts {
		if a.ID == id {
			s.Alerts = append(s.Alerts[:i:i], s.Alerts[i+1:]...)
			return true
		}
	}
	return false
}

// Clear removes every alert.
func (s *AlertStack) Clear() {
	s.Alerts = nil
}

// Latest returns the newest alert.
func (s *AlertStack) Latest() (Alert, bool) {
	if len(s.Alerts) == 0 {
		return Alert{}, false
	}
	return s.Alerts[0], true
}

// View renders the alerts one per line.
func (s *AlertStack) View() string {
	if len(s.Alerts) == 0 {
		return ""
	}
	lines := make([]string, len(s.Alerts))
	for i, a := range s.Alerts {
		lines[i] = alertStyle(a.Kind).Render(a.Text)
	}
	return strings.Join(lines, "\n")
}
