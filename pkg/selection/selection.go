// Package selection tracks which nodes are selected and which node the
// pointer is over. Selection is a plain id set; single versus multi
// selection differs only in how many ids the set holds.
package selection

import "sort"

// Mode describes how many nodes are selected.
type Mode int

const (
	ModeNone Mode = iota
	ModeSingle
	ModeMulti
)

func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	case ModeMulti:
		return "multi"
	default:
		return "none"
	}
}

// ChangeFunc receives the sorted selected ids after each change.
type ChangeFunc func(ids []string)

// State is the selection state machine. It is not safe for concurrent
// use; the frame loop is its only writer.
type State struct {
	selected map[string]bool
	hovered  string
	onChange ChangeFunc
}

// New returns an empty selection.
func New() *State {
	return &State{selected: make(map[string]bool)}
}

// OnChange registers the listener notified after every selection
// change. Hover updates do not notify.
func (s *State) OnChange(fn ChangeFunc) {
	s.onChange = fn
}

// Click replaces the selection with the single clicked node.
func (s *State) Click(id string) {
	if id == "" {
		return
	}
	if len(s.selected) == 1 && s.selected[id] {
		return
	}
	s.selected = map[string]bool{id: true}
	s.emit()
}

// Toggle flips membership of one node, for ctrl- or meta-clicks.
func (s *State) Toggle(id string) {
	if id == "" {
		return
	}
	if s.selected[id] {
		delete(s.selected, id)
	} else {
		s.selected[id] = true
	}
	s.emit()
}

// ClickBackground clears the selection.
func (s *State) ClickBackground() {
	s.Clear()
}

// LongPress single-selects the pressed node, mirroring a plain click
// for touch input.
func (s *State) LongPress(id string) {
	s.Click(id)
}

// SelectAll selects every given node id.
func (s *State) SelectAll(ids []string) {
	if len(ids) == 0 {
		return
	}
	next := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id != "" {
			next[id] = true
		}
	}
	if !s.sameSet(next) {
		s.selected = next
		s.emit()
	}
}

// Clear empties the selection if it holds anything.
func (s *State) Clear() {
	if len(s.selected) == 0 {
		return
	}
	s.selected = make(map[string]bool)
	s.emit()
}

// PruneTo drops selected ids that are no longer present, keeping the
// selection a subset of the live topology after a replacement.
func (s *State) PruneTo(present map[string]bool) {
	pruned := false
	for id := range s.selected {
		if !present[id] {
			delete(s.selected, id)
			pruned = true
		}
	}
	if pruned {
		s.emit()
	}
}

// IsSelected reports membership of one node.
func (s *State) IsSelected(id string) bool {
	return s.selected[id]
}

// Selected returns the selected ids in sorted order.
func (s *State) Selected() []string {
	ids := make([]string, 0, len(s.selected))
	for id := range s.selected {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns how many nodes are selected.
func (s *State) Count() int {
	return len(s.selected)
}

// Mode reports none, single or multi based on the set size.
func (s *State) Mode() Mode {
	switch len(s.selected) {
	case 0:
		return ModeNone
	case 1:
		return ModeSingle
	default:
		return ModeMulti
	}
}

// SetHovered records the node under the pointer, empty for none.
func (s *State) SetHovered(id string) {
	s.hovered = id
}

// Hovered returns the node under the pointer, empty for none.
func (s *State) Hovered() string {
	return s.hovered
}

func (s *State) sameSet(other map[string]bool) bool {
	if len(s.selected) != len(other) {
		return false
	}
	for id := range other {
		if !s.selected[id] {
			return false
		}
	}
	return true
}

func (s *State) emit() {
	if s.onChange != nil {
		s.onChange(s.Selected())
	}
}
