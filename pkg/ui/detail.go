package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cbayliss/netweave/pkg/model"
)

// ChainHopNote is one attack chain hop that references the detailed
// node, carried into the panel with its chain's display attributes.
type ChainHopNote struct {
	ChainName string
	Color     string
	Sequence  int
	Notes     string
	Branch    string
}

// DetailData is everything the detail panel needs for one frame. The
// root model assembles it from selection, analysis, and chain state.
type DetailData struct {
	Node        *model.GraphNode
	Selected    []string
	Hovered     string
	Degree      int
	Criticality float64
	CritRank    int
	CritTotal   int
	Hops        []ChainHopNote
}

// DetailModel renders the panel describing the current selection:
// metadata and analysis scores for a single node, an id roster for a
// multi selection, a hint otherwise.
type DetailModel struct {
	theme Theme
	md    *MarkdownRenderer
	width int
}

func NewDetailModel(theme Theme) DetailModel {
	return DetailModel{theme: theme, md: NewMarkdownRenderer(40)}
}

// SetSize updates the usable content width.
func (m *DetailModel) SetSize(width int) {
	m.width = width
	m.md.SetWidth(width - 2)
}

func (m *DetailModel) View(d DetailData) string {
	t := m.theme
	inner := m.width
	if inner < 16 {
		inner = 16
	}

	var lines []string

	switch {
	case len(d.Selected) > 1:
		lines = append(lines, t.Header.Render("Selection ("+strconv.Itoa(len(d.Selected))+")"))
		shown := d.Selected
		more := 0
		if len(shown) > 8 {
			more = len(shown) - 8
			shown = shown[:8]
		}
		for _, id := range shown {
			lines = append(lines, "  "+truncateWidth(id, inner-2, "…"))
		}
		if more > 0 {
			lines = append(lines, t.MutedText.Render("  +"+strconv.Itoa(more)+" more"))
		}
		lines = append(lines, "")
		lines = append(lines, t.MutedText.Render("c copies all ids"))

	case d.Node != nil:
		n := d.Node
		name := n.Label
		if name == "" {
			name = n.ID
		}
		lines = append(lines, t.Header.Render(truncateWidth(name, inner, "…")))
		lines = append(lines, RenderKindBadge(n.Kind)+" "+RenderSeverityBadge(n.Metadata.Severity))
		lines = append(lines, t.MutedText.Render(truncateWidth(n.Key().String(), inner, "…")))
		lines = append(lines, RenderDivider(inner))

		if n.Metadata.VulnCount > 0 {
			lines = append(lines, fmt.Sprintf("vulns  %d", n.Metadata.VulnCount))
		}
		lines = append(lines, fmt.Sprintf("degree %d", d.Degree))
		if d.CritTotal > 0 {
			lines = append(lines,
				"crit   "+RenderMiniBar(d.Criticality, 10, t)+" "+
					RenderRankBadge(d.CritRank, d.CritTotal))
		}
		if n.Pinned() {
			lines = append(lines, t.InfoText.Render("pinned"))
		}

		if len(d.Hops) > 0 {
			lines = append(lines, RenderSubtleDivider(inner))
			lines = append(lines, t.SecondaryText.Render("Chains"))
			for _, h := range d.Hops {
				head := "#" + strconv.Itoa(h.Sequence) + " " + h.ChainName
				nameStyle := t.Renderer.NewStyle().Foreground(ThemeFg(h.Color)).Bold(true)
				lines = append(lines, nameStyle.Render(truncateWidth(head, inner, "…")))
				if h.Branch != "" {
					lines = append(lines, t.MutedText.Render("  branch: "+truncateWidth(h.Branch, inner-10, "…")))
				}
				if h.Notes != "" {
					lines = append(lines, m.md.Render(h.Notes))
				}
			}
		}

	default:
		lines = append(lines, t.Header.Render("Details"))
		lines = append(lines, t.MutedText.Render("click a node to inspect it"))
		if d.Hovered != "" {
			lines = append(lines, "")
			lines = append(lines, t.InfoText.Render("hover: "+truncateWidth(d.Hovered, inner-7, "…")))
		}
	}

	return strings.Join(lines, "\n")
}
