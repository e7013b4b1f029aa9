package ui

import "github.com/charmbracelet/lipgloss"

// Palette (ANSI 256).
const (
	ColorAccent    = "86"  // titles, headers, focused controls
	ColorHighlight = "205" // selection and focused panel border
	ColorDanger    = "196"
	ColorWarning   = "208"
	ColorSuccess   = "42"
	ColorInfo      = "39"
	ColorMuted     = "241"
	ColorText      = "252"
	ColorDim       = "243"
)

// Styles is the console's shared style sheet.
var Styles = struct {
	Title      lipgloss.Style
	Panel      lipgloss.Style
	PanelFocus lipgloss.Style

	Selected lipgloss.Style
	Muted    lipgloss.Style
	Normal   lipgloss.Style
	Hint     lipgloss.Style
	Status   lipgloss.Style
	Empty    lipgloss.Style // no-rows and no-photo placeholders
	Error    lipgloss.Style
	Details  lipgloss.Style

	// Student table and pager.
	Header   lipgloss.Style
	Cell     lipgloss.Style
	Disabled lipgloss.Style
	Active   lipgloss.Style

	// Confirmation modal.
	ModalBox   lipgloss.Style
	ModalTitle lipgloss.Style
}{
	Title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccent)),
	Panel: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorDim)).
		Padding(0, 1),
	PanelFocus: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Padding(0, 1),

	Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorHighlight)),
	Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color(ColorMuted)),
	Normal:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorText)),
	Hint:     lipgloss.NewStyle().Foreground(lipgloss.Color(ColorMuted)),
	Status:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccent)),
	Empty:    lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color(ColorMuted)),
	Error:    lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDanger)),
	Details:  lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning)),

	Header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccent)).Padding(0, 1),
	Cell:     lipgloss.NewStyle().Foreground(lipgloss.Color(ColorText)).Padding(0, 1),
	Disabled: lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color(ColorDim)),
	Active:   lipgloss.NewStyle().Bold(true).Reverse(true).Foreground(lipgloss.Color(ColorHighlight)),

	ModalBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorDanger)).
		Padding(1, 2),
	ModalTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorDanger)),
}

// alertStyle draws an alert as a coloured left-ruled line.
func alertStyle(kind AlertKind) lipgloss.Style {
	color := ColorInfo
	switch kind {
	case AlertSuccess:
		color = ColorSuccess
	case AlertWarning:
		color = ColorWarning
	case AlertDanger:
		color = ColorDanger
	}
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color(color)).
		Foreground(lipgloss.Color(color)).
		PaddingLeft(1)
}
