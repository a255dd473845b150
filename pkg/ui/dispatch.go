package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Action is a keyboard command resolved by the dispatcher. The update
// loop consumes actions instead of raw key strings.
type Action int

const (
	ActionNone Action = iota
	ActionZoomIn
	ActionZoomOut
	ActionResetView
	ActionFitView
	ActionSelectAll
	ActionClearSelection
	ActionSearch
	ActionCyclePanel
	ActionPrevChain
	ActionNextChain
	ActionToggleChain
	ActionExport
	ActionCopyIDs
	ActionHelp
	ActionQuit
)

// KeyMap holds every graph binding. It satisfies help.KeyMap so the
// help bar renders straight from it.
type KeyMap struct {
	ZoomIn         key.Binding
	ZoomOut        key.Binding
	ResetView      key.Binding
	FitView        key.Binding
	SelectAll      key.Binding
	ClearSelection key.Binding
	Search         key.Binding
	CyclePanel     key.Binding
	PrevChain      key.Binding
	NextChain      key.Binding
	ToggleChain    key.Binding
	Export         key.Binding
	CopyIDs        key.Binding
	Help           key.Binding
	Quit           key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		ZoomIn: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "zoom out"),
		),
		ResetView: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "reset view"),
		),
		FitView: key.NewBinding(
			key.WithKeys("f", "F"),
			key.WithHelp("f", "fit graph"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("ctrl+a", "select all"),
		),
		ClearSelection: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear selection"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		CyclePanel: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "cycle panel"),
		),
		PrevChain: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev chain"),
		),
		NextChain: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next chain"),
		),
		ToggleChain: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "toggle chain"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export snapshot"),
		),
		CopyIDs: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy ids"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.FitView, k.ToggleChain, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ZoomIn, k.ZoomOut, k.ResetView, k.FitView},
		{k.SelectAll, k.ClearSelection, k.Search, k.CopyIDs},
		{k.PrevChain, k.NextChain, k.ToggleChain, k.CyclePanel},
		{k.Export, k.Help, k.Quit},
	}
}

// Dispatcher resolves key presses into actions while the graph has
// focus. Activate and Deactivate pair with the component's lifetime so
// a remount never stacks handlers, and SetTyping suspends dispatch
// entirely while a text input owns the keyboard.
type Dispatcher struct {
	keys   KeyMap
	active bool
	typing bool
}

func NewDispatcher(keys KeyMap) *Dispatcher {
	return &Dispatcher{keys: keys}
}

func (d *Dispatcher) Activate()   { d.active = true }
func (d *Dispatcher) Deactivate() { d.active = false }

func (d *Dispatcher) Active() bool { return d.active }

// SetTyping toggles the typing guard.
func (d *Dispatcher) SetTyping(on bool) { d.typing = on }

func (d *Dispatcher) Typing() bool { return d.typing }

func (d *Dispatcher) Keys() KeyMap { return d.keys }

// Dispatch resolves one key press. The second return is false when the
// dispatcher is inactive, suspended for typing, or the key is unbound,
// in which case the key passes through to whoever is underneath.
func (d *Dispatcher) Dispatch(msg tea.KeyMsg) (Action, bool) {
	if !d.active || d.typing {
		return ActionNone, false
	}
	switch {
	case key.Matches(msg, d.keys.ZoomIn):
		return ActionZoomIn, true
	case key.Matches(msg, d.keys.ZoomOut):
		return ActionZoomOut, true
	case key.Matches(msg, d.keys.ResetView):
		return ActionResetView, true
	case key.Matches(msg, d.keys.FitView):
		return ActionFitView, true
	case key.Matches(msg, d.keys.SelectAll):
		return ActionSelectAll, true
	case key.Matches(msg, d.keys.ClearSelection):
		return ActionClearSelection, true
	case key.Matches(msg, d.keys.Search):
		return ActionSearch, true
	case key.Matches(msg, d.keys.CyclePanel):
		return ActionCyclePanel, true
	case key.Matches(msg, d.keys.PrevChain):
		return ActionPrevChain, true
	case key.Matches(msg, d.keys.NextChain):
		return ActionNextChain, true
	case key.Matches(msg, d.keys.ToggleChain):
		return ActionToggleChain, true
	case key.Matches(msg, d.keys.Export):
		return ActionExport, true
	case key.Matches(msg, d.keys.CopyIDs):
		return ActionCopyIDs, true
	case key.Matches(msg, d.keys.Help):
		return ActionHelp, true
	case key.Matches(msg, d.keys.Quit):
		return ActionQuit, true
	}
	return ActionNone, false
}
