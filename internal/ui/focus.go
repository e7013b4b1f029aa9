package ui

// Panel IDs in tab order.
const (
	PanelForm   = "form"
	PanelSearch = "search"
	PanelTable  = "table"
)

// FocusManager tracks and rotates focus across panels.
type FocusManager struct {
	Current  string   // ID of the currently focused panel
	Order    []string // Tab order for focus rotation
	OnChange func(from, to string)
}

// NewFocusManager starts focus on the first panel in order.
func NewFocusManager(order ...string) *FocusManager {
	f := &FocusManager{Order: order}
	if len(order) > 0 {
		f.Current = order[0]
	}
	return f
}

// Next advances focus to the next panel in order.
// Returns the new current focus ID.
func (f *FocusManager) Next() string {
	if len(f.Order) == 0 {
		return ""
	}
	f.move((f.indexOf(f.Current) + 1) % len(f.Order))
	return f.Current
}

// Prev moves focus to the previous panel in order.
func (f *FocusManager) Prev() string {
	if len(f.Order) == 0 {
		return ""
	}
	idx := f.indexOf(f.Current) - 1
	if idx < 0 {
		idx = len(f.Order) - 1
	}
	f.move(idx)
	return f.Current
}

// SetFocus sets focus to the given panel ID.
// Returns true if the ID exists in order.
func (f *FocusManager) SetFocus(id string) bool {
	idx := f.indexOf(id)
	if idx < 0 {
		return false
	}
	f.move(idx)
	return true
}

// Is reports whether id has focus.
func (f *FocusManager) Is(id string) bool {
	return f.Current == id
}

func (f *FocusManager) indexOf(id string) int {
	for i, o := range f.Order {
		if o == id {
			return i
		}
	}
	return -1
}

func (f *FocusManager) move(idx int) {
	from := f.Current
	f.Current = f.Order[idx]
	if f.OnChange != nil && from != f.Current {
		f.OnChange(from, f.Current)
	}
}
