package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Leader key as reported by tea.KeyMsg.String(), and its sequence notation.
const (
	leaderKey = " "
	leaderSeq = "SPC"
)

// Keybind is one registered key sequence. Sequences use spacemacs-style
// notation: "q", "SPC r", "SPC e c".
type Keybind struct {
	Seq   string
	Desc  string
	Cmd   tea.Cmd
	Modes []FormMode // empty: live in every form mode
}

func (k Keybind) liveIn(mode FormMode) bool {
	if len(k.Modes) == 0 {
		return true
	}
	for _, m := range k.Modes {
		if m == mode {
			return true
		}
	}
	return false
}

// KeybindRegistry holds the table-panel keybinds in registration order.
type KeybindRegistry struct {
	binds map[string]Keybind
	order []string
}

// NewKeybindRegistry creates an empty registry.
func NewKeybindRegistry() *KeybindRegistry {
	return &KeybindRegistry{binds: make(map[string]Keybind)}
}

// Bind registers cmd under seq with no description.
func (r *KeybindRegistry) Bind(seq string, cmd tea.Cmd) {
	r.add(Keybind{Seq: seq, Cmd: cmd})
}

// BindWithDesc registers cmd under seq for every form mode.
func (r *KeybindRegistry) BindWithDesc(seq string, cmd tea.Cmd, desc string) {
	r.add(Keybind{Seq: seq, Cmd: cmd, Desc: desc})
}

// BindWithDescForMode registers cmd under seq, live only in modes.
func (r *KeybindRegistry) BindWithDescForMode(seq string, cmd tea.Cmd, desc string, modes []FormMode) {
	r.add(Keybind{Seq: seq, Cmd: cmd, Desc: desc, Modes: modes})
}

func (r *KeybindRegistry) add(k Keybind) {
	k.Seq = normalizeSeq(k.Seq)
	if _, ok := r.binds[k.Seq]; !ok {
		r.order = append(r.order, k.Seq)
	}
	r.binds[k.Seq] = k
}

// Lookup returns the command bound to seq in any mode, or nil.
func (r *KeybindRegistry) Lookup(seq string) tea.Cmd {
	return r.binds[normalizeSeq(seq)].Cmd
}

// LookupMode returns the command bound to seq if it is live in mode.
func (r *KeybindRegistry) LookupMode(seq string, mode FormMode) tea.Cmd {
	k, ok := r.binds[normalizeSeq(seq)]
	if !ok || !k.liveIn(mode) {
		return nil
	}
	return k.Cmd
}

// HasPrefix reports whether a longer sequence continues seq.
func (r *KeybindRegistry) HasPrefix(seq string) bool {
	prefix := normalizeSeq(seq) + " "
	for _, s := range r.order {
		if strings.HasPrefix(s, prefix) && r.binds[s].Cmd != nil {
			return true
		}
	}
	return false
}

// Hint is one entry of the leader menu.
type Hint struct {
	Key  string
	Desc string
}

// submenuLabels names first-level leader keys that open a submenu.
var submenuLabels = map[string]string{
	"e": "Export",
	"f": "Form",
}

// LeaderHints lists the next keys after prefix ("" or "SPC" for the top
// level, "SPC f" for the form submenu) in registration order. Bindings not
// live in mode are skipped.
func (r *KeybindRegistry) LeaderHints(prefix string, mode FormMode) []Hint {
	prefix = normalizeSeq(prefix)
	if prefix == "" {
		prefix = leaderSeq
	}
	prefix += " "

	var hints []Hint
	seen := make(map[string]bool)
	for _, s := range r.order {
		k := r.binds[s]
		if k.Cmd == nil || !strings.HasPrefix(s, prefix) || !k.liveIn(mode) {
			continue
		}
		rest := strings.Fields(strings.TrimPrefix(s, prefix))
		next := rest[0]
		if seen[next] {
			continue
		}
		seen[next] = true

		desc := k.Desc
		switch {
		case len(rest) > 1:
			desc = submenuLabels[next]
			if desc == "" {
				desc = next + "…"
			}
		case desc == "":
			desc = s
		}
		hints = append(hints, Hint{Key: next, Desc: desc})
	}
	return hints
}

// normalizeSeq rewrites space as SPC and collapses whitespace.
func normalizeSeq(seq string) string {
	if seq == leaderKey {
		return leaderSeq
	}
	parts := strings.Fields(seq)
	for i, p := range parts {
		if p == "space" {
			parts[i] = leaderSeq
		}
	}
	return strings.Join(parts, " ")
}

// KeyHandler feeds table-panel keys through the registry, buffering leader
// sequences until they resolve.
type KeyHandler struct {
	Registry      *KeybindRegistry
	Mode          func() FormMode // nil: every binding is live
	LeaderWaiting bool
	Buffer        []string // sequence typed so far, starting with SPC
}

// NewKeyHandler creates a handler with SPC as leader.
func NewKeyHandler(reg *KeybindRegistry) *KeyHandler {
	return &KeyHandler{Registry: reg}
}

// Handle processes a key. consumed means the key belongs to the keybind
// system and must not reach the focused view.
func (h *KeyHandler) Handle(msg tea.KeyMsg) (consumed bool, cmd tea.Cmd) {
	s := msg.String()

	if s == "esc" {
		if !h.LeaderWaiting {
			return false, nil
		}
		h.reset()
		return true, nil
	}

	if !h.LeaderWaiting {
		if s == leaderKey {
			h.LeaderWaiting = true
			h.Buffer = []string{leaderSeq}
			return true, nil
		}
		if c := h.lookup(s); c != nil {
			return true, c
		}
		return false, nil
	}

	h.Buffer = append(h.Buffer, normalizeSeq(s))
	seq := strings.Join(h.Buffer, " ")
	if c := h.lookup(seq); c != nil {
		h.reset()
		return true, c
	}
	if !h.Registry.HasPrefix(seq) {
		h.reset()
	}
	return true, nil
}

// Prefix returns the buffered leader sequence, or "" outside leader mode.
func (h *KeyHandler) Prefix() string {
	return strings.Join(h.Buffer, " ")
}

func (h *KeyHandler) lookup(seq string) tea.Cmd {
	if h.Mode == nil {
		return h.Registry.Lookup(seq)
	}
	return h.Registry.LookupMode(seq, h.Mode())
}

func (h *KeyHandler) reset() {
	h.LeaderWaiting = false
	h.Buffer = nil
}
