package ui

import (
	"strconv"
	"strings"
)

// ChainEntry is one row of the chain panel, combining overlay state
// (visibility, active flag) with audit counts of resolved versus
// authored hops.
type ChainEntry struct {
	ID       string
	Name     string
	Color    string
	Visible  bool
	Active   bool
	Resolved int
	Total    int
}

// ChainListModel renders the ordered attack chain list. There is no
// separate cursor; the active chain is the highlighted row and the
// bracket keys move it.
type ChainListModel struct {
	entries []ChainEntry
	width   int
	theme   Theme
}

func NewChainListModel(theme Theme) ChainListModel {
	return ChainListModel{theme: theme}
}

// SetSize updates the usable content width.
func (m *ChainListModel) SetSize(width int) {
	m.width = width
}

// SetEntries replaces the rows.
func (m *ChainListModel) SetEntries(entries []ChainEntry) {
	m.entries = entries
}

func (m *ChainListModel) Entries() []ChainEntry {
	return m.entries
}

// View renders the panel body. The outer border belongs to the root
// model's layout.
func (m *ChainListModel) View() string {
	t := m.theme
	inner := m.width
	if inner < 16 {
		inner = 16
	}

	var lines []string
	lines = append(lines, t.Header.Render("Chains ("+strconv.Itoa(len(m.entries))+")"))

	if len(m.entries) == 0 {
		dim := t.Renderer.NewStyle().Foreground(t.Secondary).Italic(true)
		lines = append(lines, dim.Render("  no chains loaded"))
		return strings.Join(lines, "\n")
	}

	for _, e := range m.entries {
		marker := "  "
		if e.Active {
			marker = "▶ "
		}

		dot := "○"
		if e.Visible {
			dot = "◉"
		}
		dotStyle := t.Renderer.NewStyle().Foreground(ThemeFg(e.Color))
		if !e.Visible {
			dotStyle = dotStyle.Faint(true)
		}

		hops := strconv.Itoa(e.Resolved) + "/" + strconv.Itoa(e.Total)
		hopStyle := t.MutedText
		if e.Resolved < e.Total {
			hopStyle = t.Renderer.NewStyle().Foreground(ColorWarning)
		}

		nameWidth := inner - len(marker) - 2 - len(hops) - 1
		if nameWidth < 4 {
			nameWidth = 4
		}
		name := e.Name
		if name == "" {
			name = e.ID
		}
		name = truncateWidth(name, nameWidth, "…")

		nameStyle := t.Renderer.NewStyle()
		switch {
		case e.Active:
			nameStyle = nameStyle.Foreground(t.Primary).Bold(true)
		case !e.Visible:
			nameStyle = nameStyle.Foreground(t.Secondary)
		}

		lines = append(lines,
			marker+dotStyle.Render(dot)+" "+
				nameStyle.Render(padRight(name, nameWidth))+" "+
				hopStyle.Render(hops))
	}

	return strings.Join(lines, "\n")
}
