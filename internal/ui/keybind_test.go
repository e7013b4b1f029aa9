package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"studentdesk/internal/export"
)

func TestKeybindRegistry_BindLookup(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("q", tea.Quit)
	reg.Bind("SPC q", tea.Quit)
	reg.Bind("j", nil)

	if reg.Lookup("q") == nil {
		t.Error("expected q to be bound")
	}
	if reg.Lookup("SPC q") == nil {
		t.Error("expected SPC q to be bound")
	}
	if reg.Lookup("unknown") != nil {
		t.Error("expected unknown to be unbound")
	}
}

func TestKeyHandler_LeaderKey(t *testing.T) {
	reg := NewKeybindRegistry()
	var executed bool
	reg.Bind("SPC x", func() tea.Msg {
		executed = true
		return nil
	})
	h := NewKeyHandler(reg)

	// Press space -> leader waiting (Bubble Tea reports space as " ")
	consumed, cmd := h.Handle(keyMsg(" "))
	if !consumed || cmd != nil {
		t.Errorf("space: consumed=%v cmd=%v", consumed, cmd)
	}
	if !h.LeaderWaiting {
		t.Error("expected leader waiting after space")
	}

	// Press x -> execute SPC x
	consumed, cmd = h.Handle(keyMsg("x"))
	if !consumed {
		t.Errorf("x: expected consumed")
	}
	if h.LeaderWaiting {
		t.Error("leader should not be waiting after completing sequence")
	}
	if cmd != nil {
		cmd()
		if !executed {
			t.Error("expected command to execute")
		}
	}
}

func TestKeyHandler_EscCancelsLeader(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("SPC x", tea.Quit)
	h := NewKeyHandler(reg)

	h.Handle(keyMsg(" "))
	if !h.LeaderWaiting {
		t.Fatal("expected leader waiting")
	}

	consumed, cmd := h.Handle(keyMsg("esc"))
	if !consumed || cmd != nil {
		t.Errorf("esc: consumed=%v cmd=%v", consumed, cmd)
	}
	if h.LeaderWaiting {
		t.Error("esc should cancel leader mode")
	}
}

func TestKeyHandler_SingleKey(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("q", tea.Quit)
	h := NewKeyHandler(reg)

	consumed, cmd := h.Handle(keyMsg("q"))
	if !consumed || cmd == nil {
		t.Errorf("q: consumed=%v cmd=%v", consumed, cmd)
	}
}

func TestKeyHandler_NestedLeaderSequence(t *testing.T) {
	h := NewKeyHandler(newKeybindRegistry())

	for _, k := range []string{" ", "e"} {
		consumed, cmd := h.Handle(keyMsg(k))
		if !consumed || cmd != nil {
			t.Fatalf("%q: consumed=%v cmd=%v", k, consumed, cmd)
		}
	}
	if !h.LeaderWaiting {
		t.Fatal("SPC e should wait for a third key")
	}
	consumed, cmd := h.Handle(keyMsg("p"))
	if !consumed || cmd == nil {
		t.Fatalf("p: consumed=%v cmd=%v", consumed, cmd)
	}
	if msg, ok := cmd().(ExportMsg); !ok || msg.Format != export.FormatPDF {
		t.Errorf("SPC e p sent %#v", cmd())
	}
}

func TestKeybindRegistry_LeaderHints(t *testing.T) {
	reg := newKeybindRegistry()

	top := reg.LeaderHints("", ModeCreate)
	var keys []string
	for _, h := range top {
		keys = append(keys, h.Key)
	}
	if got, want := strings.Join(keys, ","), "q,r,/,c,n,x,e,f"; got != want {
		t.Errorf("top-level keys = %s, want %s", got, want)
	}
	for _, h := range top {
		if h.Key == "e" && h.Desc != "Export" {
			t.Errorf("e hint = %q, want submenu label", h.Desc)
		}
	}

	hasCancel := func(hints []Hint) bool {
		for _, h := range hints {
			if h.Key == "c" {
				return true
			}
		}
		return false
	}
	if hasCancel(reg.LeaderHints("SPC f", ModeCreate)) {
		t.Error("cancel edit should be hidden in create mode")
	}
	if !hasCancel(reg.LeaderHints("SPC f", ModeEdit)) {
		t.Error("cancel edit should be offered in edit mode")
	}
}

func TestKeyHandler_ModeFilteredBinding(t *testing.T) {
	mode := ModeCreate
	h := NewKeyHandler(newKeybindRegistry())
	h.Mode = func() FormMode { return mode }

	h.Handle(keyMsg(" "))
	h.Handle(keyMsg("f"))
	if _, cmd := h.Handle(keyMsg("c")); cmd != nil {
		t.Error("SPC f c should be inert in create mode")
	}

	mode = ModeEdit
	h.Handle(keyMsg(" "))
	h.Handle(keyMsg("f"))
	if _, cmd := h.Handle(keyMsg("c")); cmd == nil {
		t.Error("SPC f c should fire in edit mode")
	}
}

func TestRenderKeybindHelp(t *testing.T) {
	h := NewKeyHandler(newKeybindRegistry())
	h.Handle(keyMsg(" "))
	h.Handle(keyMsg("e"))

	out := RenderKeybindHelp(h, ModeCreate)
	for _, want := range []string{"SPC e", "Export CSV", "Export PDF", "cancel"} {
		if !strings.Contains(out, want) {
			t.Errorf("help missing %q:\n%s", want, out)
		}
	}
}

func TestKeyHandler_UnboundFallsThrough(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("q", tea.Quit)
	h := NewKeyHandler(reg)

	consumed, _ := h.Handle(keyMsg("j"))
	if consumed {
		t.Error("unbound j should not be consumed")
	}
}

// keyMsg creates a tea.KeyMsg for testing. Bubble Tea uses KeyType and Runes.
// KeySpace.String() returns " ", KeyEsc returns "esc", etc.
func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "space", " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+x":
		return tea.KeyMsg{Type: tea.KeyCtrlX}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}
