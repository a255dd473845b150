package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDispatchResolvesBindings(t *testing.T) {
	d := NewDispatcher(DefaultKeyMap())
	d.Activate()

	cases := []struct {
		msg  tea.KeyMsg
		want Action
	}{
		{runeKey("+"), ActionZoomIn},
		{runeKey("="), ActionZoomIn},
		{runeKey("-"), ActionZoomOut},
		{runeKey("0"), ActionResetView},
		{runeKey("f"), ActionFitView},
		{runeKey("F"), ActionFitView},
		{tea.KeyMsg{Type: tea.KeyCtrlA}, ActionSelectAll},
		{tea.KeyMsg{Type: tea.KeyEsc}, ActionClearSelection},
		{runeKey("/"), ActionSearch},
		{tea.KeyMsg{Type: tea.KeyTab}, ActionCyclePanel},
		{runeKey("["), ActionPrevChain},
		{runeKey("]"), ActionNextChain},
		{runeKey("v"), ActionToggleChain},
		{runeKey("e"), ActionExport},
		{runeKey("c"), ActionCopyIDs},
		{runeKey("?"), ActionHelp},
		{runeKey("q"), ActionQuit},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, ActionQuit},
	}
	for _, tc := range cases {
		got, ok := d.Dispatch(tc.msg)
		if !ok || got != tc.want {
			t.Errorf("Dispatch(%q) = %v, %v; want %v", tc.msg.String(), got, ok, tc.want)
		}
	}
}

func TestDispatchUnboundKeyPassesThrough(t *testing.T) {
	d := NewDispatcher(DefaultKeyMap())
	d.Activate()

	if got, ok := d.Dispatch(runeKey("x")); ok {
		t.Fatalf("unbound key should pass through, got %v", got)
	}
	if got, ok := d.Dispatch(tea.KeyMsg{Type: tea.KeyF5}); ok {
		t.Fatalf("unbound key should pass through, got %v", got)
	}
}

func TestDispatchInactiveByDefault(t *testing.T) {
	d := NewDispatcher(DefaultKeyMap())

	if _, ok := d.Dispatch(runeKey("+")); ok {
		t.Fatal("dispatcher should start inactive")
	}
	d.Activate()
	if _, ok := d.Dispatch(runeKey("+")); !ok {
		t.Fatal("activated dispatcher should resolve keys")
	}
	d.Deactivate()
	if _, ok := d.Dispatch(runeKey("+")); ok {
		t.Fatal("deactivated dispatcher should be silent")
	}
}

func TestDispatchActivateIsIdempotent(t *testing.T) {
	d := NewDispatcher(DefaultKeyMap())
	d.Activate()
	d.Activate()

	got, ok := d.Dispatch(runeKey("0"))
	if !ok || got != ActionResetView {
		t.Fatalf("expected one reset action, got %v, %v", got, ok)
	}
	d.Deactivate()
	d.Deactivate()
	if d.Active() {
		t.Fatal("expected inactive after deactivate")
	}
}

func TestTypingGuardSuspendsDispatch(t *testing.T) {
	d := NewDispatcher(DefaultKeyMap())
	d.Activate()

	d.SetTyping(true)
	// Printable bindings must reach the text input, not the graph.
	for _, k := range []string{"+", "-", "0", "f", "v", "e", "c", "q"} {
		if got, ok := d.Dispatch(runeKey(k)); ok {
			t.Fatalf("key %q dispatched while typing: %v", k, got)
		}
	}
	if !d.Typing() {
		t.Fatal("typing flag lost")
	}

	d.SetTyping(false)
	if got, ok := d.Dispatch(runeKey("q")); !ok || got != ActionQuit {
		t.Fatalf("dispatch should resume after typing, got %v, %v", got, ok)
	}
}

func TestKeyMapHelpSurfaces(t *testing.T) {
	k := DefaultKeyMap()

	short := k.ShortHelp()
	if len(short) == 0 {
		t.Fatal("short help is empty")
	}
	full := k.FullHelp()
	if len(full) == 0 {
		t.Fatal("full help is empty")
	}
	bindings := 0
	for _, row := range full {
		bindings += len(row)
	}
	if bindings != 15 {
		t.Fatalf("full help should list every binding, got %d", bindings)
	}
}
