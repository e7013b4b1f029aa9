// Package ui is the studentdesk console: a Bubble Tea program with a student
// form, a search bar, a paged student table, transient alerts and a delete
// confirmation modal.
//
// Core abstractions:
//   - View: a region with its own Init/Update/View (form, search, table, modal)
//   - AppModel: owns the list state and runs every REST call as a tea.Cmd
//   - FocusManager: rotates focus across the form, search and table panels
//   - OverlayStack: modals that capture all input until dismissed
//   - KeybindRegistry/KeyHandler: single keys and SPC-leader sequences
package ui
