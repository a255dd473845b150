package ui

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cbayliss/netweave/pkg/model"
)

// searchEntry is one searchable node.
type searchEntry struct {
	id    string
	label string
	kind  model.NodeKind
}

// SearchModel is the node search overlay. Typing filters nodes by id
// and label with fuzzy scoring; Enter resolves to the highlighted node.
type SearchModel struct {
	entries  []searchEntry
	filtered []searchEntry
	input    textinput.Model
	index    int
	width    int
	height   int
	theme    Theme
}

func NewSearchModel(theme Theme) SearchModel {
	ti := textinput.New()
	ti.Placeholder = "node id or label..."
	ti.CharLimit = 64
	ti.Width = 32
	ti.Focus()
	return SearchModel{input: ti, theme: theme}
}

// SetSize updates the overlay dimensions.
func (m *SearchModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetTopology rebuilds the searchable entries from the current graph.
func (m *SearchModel) SetTopology(t *model.Topology) {
	m.entries = m.entries[:0]
	if t != nil {
		for _, n := range t.Nodes {
			m.entries = append(m.entries, searchEntry{id: n.ID, label: n.Label, kind: n.Kind})
		}
	}
	sort.Slice(m.entries, func(i, j int) bool {
		return m.entries[i].label < m.entries[j].label
	})
	m.filter()
}

// MoveUp moves the highlight up.
func (m *SearchModel) MoveUp() {
	if m.index > 0 {
		m.index--
	}
}

// MoveDown moves the highlight down.
func (m *SearchModel) MoveDown() {
	if m.index < len(m.filtered)-1 {
		m.index++
	}
}

// Selected returns the highlighted node id, or empty when nothing
// matches.
func (m *SearchModel) Selected() string {
	if len(m.filtered) == 0 || m.index >= len(m.filtered) {
		return ""
	}
	return m.filtered[m.index].id
}

// UpdateInput forwards a key message to the text input and refilters.
func (m *SearchModel) UpdateInput(msg tea.Msg) {
	m.input, _ = m.input.Update(msg)
	m.filter()
}

// Reset clears the query and the highlight.
func (m *SearchModel) Reset() {
	m.input.SetValue("")
	m.filter()
}

// Value returns the current query text.
func (m *SearchModel) Value() string {
	return m.input.Value()
}

// MatchCount returns how many nodes match the current query.
func (m *SearchModel) MatchCount() int {
	return len(m.filtered)
}

func (m *SearchModel) filter() {
	query := strings.ToLower(strings.TrimSpace(m.input.Value()))
	if query == "" {
		m.filtered = append(m.filtered[:0], m.entries...)
		m.index = 0
		return
	}

	type scored struct {
		entry searchEntry
		score int
	}

	var matches []scored
	for _, e := range m.entries {
		if s := nodeScore(e, query); s > 0 {
			matches = append(matches, scored{e, s})
		}
	}

	// Higher score first, then shorter label, then alphabetical, so an
	// exact "db" beats "db-replica-2".
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		li, lj := matches[i].entry.label, matches[j].entry.label
		if len(li) != len(lj) {
			return len(li) < len(lj)
		}
		return li < lj
	})

	m.filtered = m.filtered[:0]
	for _, match := range matches {
		m.filtered = append(m.filtered, match.entry)
	}

	if m.index >= len(m.filtered) {
		m.index = len(m.filtered) - 1
	}
	if m.index < 0 {
		m.index = 0
	}
}

// nodeScore rates how well the query matches a node. An exact id hit
// outranks every label match.
func nodeScore(e searchEntry, query string) int {
	if strings.ToLower(e.id) == query {
		return 1200
	}
	s := fuzzyScore(e.label, query)
	if is := fuzzyScore(e.id, query); is > s {
		s = is
	}
	return s
}

// fuzzyScore returns a score for how well query matches text, 0 for no
// match. Exact beats prefix beats substring beats subsequence, with
// bonuses for consecutive and word-boundary hits.
func fuzzyScore(text, query string) int {
	text = strings.ToLower(text)

	if text == query {
		return 1000
	}
	if strings.HasPrefix(text, query) {
		return 500 + len(query)
	}
	if strings.Contains(text, query) {
		return 200 + len(query)
	}

	ti, qi := 0, 0
	score := 0
	consecutive := 0
	lastMatch := -1
	for ti < len(text) && qi < len(query) {
		if text[ti] == query[qi] {
			qi++
			hit := 10
			if lastMatch == ti-1 {
				consecutive++
				hit += consecutive * 5
			} else {
				consecutive = 0
			}
			if ti == 0 || !unicode.IsLetter(rune(text[ti-1])) {
				hit += 15
			}
			score += hit
			lastMatch = ti
		}
		ti++
	}
	if qi == len(query) {
		return score
	}
	return 0
}

// View renders the search overlay centered in the graph area.
func (m *SearchModel) View() string {
	if m.width == 0 {
		m.width = 60
	}
	if m.height == 0 {
		m.height = 20
	}

	t := m.theme

	boxWidth := 44
	if m.width < 54 {
		boxWidth = m.width - 10
	}
	if boxWidth < 28 {
		boxWidth = 28
	}

	maxVisible := 8
	if m.height < 16 {
		maxVisible = m.height - 8
	}
	if maxVisible < 3 {
		maxVisible = 3
	}

	var lines []string

	titleStyle := t.Renderer.NewStyle().
		Foreground(t.Primary).
		Bold(true).
		MarginBottom(1)
	lines = append(lines, titleStyle.Render("Node Search"))
	lines = append(lines, "")

	inputStyle := t.Renderer.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		Padding(0, 1).
		Width(boxWidth - 6)
	lines = append(lines, inputStyle.Render(m.input.View()))
	lines = append(lines, "")

	if len(m.filtered) == 0 {
		dimStyle := t.Renderer.NewStyle().
			Foreground(t.Secondary).
			Italic(true)
		lines = append(lines, dimStyle.Render("  no matching nodes"))
	} else {
		start := 0
		if m.index >= maxVisible {
			start = m.index - maxVisible + 1
		}
		end := start + maxVisible
		if end > len(m.filtered) {
			end = len(m.filtered)
		}

		for i := start; i < end; i++ {
			e := m.filtered[i]
			highlighted := i == m.index

			itemStyle := t.Renderer.NewStyle()
			if highlighted {
				itemStyle = itemStyle.Foreground(t.Primary).Bold(true)
			} else {
				itemStyle = itemStyle.Foreground(t.Base.GetForeground())
			}

			prefix := "  "
			if highlighted {
				prefix = "> "
			}

			name := e.label
			if name == "" {
				name = e.id
			}
			row := prefix + string(t.KindGlyph(e.kind)) + " " +
				truncateWidth(name, boxWidth-14, "...")
			lines = append(lines, itemStyle.Render(row))
		}

		if len(m.filtered) > maxVisible {
			countStyle := t.Renderer.NewStyle().
				Foreground(t.Secondary).
				Italic(true)
			lines = append(lines, "")
			lines = append(lines, countStyle.Render(
				"  ("+strconv.Itoa(m.index+1)+"/"+strconv.Itoa(len(m.filtered))+")",
			))
		}
	}

	lines = append(lines, "")
	footerStyle := t.Renderer.NewStyle().
		Foreground(t.Secondary).
		Italic(true)
	lines = append(lines, footerStyle.Render("up/down: navigate | enter: jump | esc: cancel"))

	content := strings.Join(lines, "\n")

	boxStyle := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2).
		Width(boxWidth)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		boxStyle.Render(content),
	)
}
