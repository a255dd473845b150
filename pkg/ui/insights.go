package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/cbayliss/netweave/pkg/analysis"
)

// InsightsModel renders graph analysis in a scrollable panel: headline
// stats, the most critical and most bottlenecked nodes, and per-chain
// audit results.
type InsightsModel struct {
	vp     viewport.Model
	theme  Theme
	width  int
	height int
	ready  bool

	insights    *analysis.Insights
	critical    []analysis.RankedNode
	bottlenecks []analysis.RankedNode
	audits      []analysis.ChainAudit
}

func NewInsightsModel(theme Theme) InsightsModel {
	return InsightsModel{vp: viewport.New(40, 20), theme: theme}
}

func (m *InsightsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.vp.Width = width
	m.vp.Height = height
	m.ready = true
	m.rebuild()
}

// SetData replaces the rendered analysis wholesale.
func (m *InsightsModel) SetData(ins *analysis.Insights, critical, bottlenecks []analysis.RankedNode, audits []analysis.ChainAudit) {
	m.insights = ins
	m.critical = critical
	m.bottlenecks = bottlenecks
	m.audits = audits
	m.rebuild()
}

func (m *InsightsModel) ScrollUp()   { m.vp.LineUp(3) }
func (m *InsightsModel) ScrollDown() { m.vp.LineDown(3) }

func (m *InsightsModel) rebuild() {
	m.vp.SetContent(m.content())
}

func (m *InsightsModel) content() string {
	t := m.theme
	if m.insights == nil {
		return t.MutedText.Render("no analysis yet")
	}
	ins := m.insights
	inner := m.width
	if inner < 20 {
		inner = 20
	}

	var lines []string
	lines = append(lines, t.Header.Render("Topology"))
	lines = append(lines, fmt.Sprintf("nodes %d  edges %d", ins.NodeCount, ins.EdgeCount))
	lines = append(lines, fmt.Sprintf("density %.3f", ins.Density))
	lines = append(lines, fmt.Sprintf("components %d  isolated %d", len(ins.Components), len(ins.Isolated)))

	if len(m.critical) > 0 {
		lines = append(lines, RenderSubtleDivider(inner))
		lines = append(lines, t.SecondaryText.Render("Critical nodes"))
		lines = append(lines, m.rankedRows(m.critical, inner)...)
	}
	if len(m.bottlenecks) > 0 {
		lines = append(lines, RenderSubtleDivider(inner))
		lines = append(lines, t.SecondaryText.Render("Bottlenecks"))
		lines = append(lines, m.rankedRows(m.bottlenecks, inner)...)
	}
	if len(m.audits) > 0 {
		lines = append(lines, RenderSubtleDivider(inner))
		lines = append(lines, t.SecondaryText.Render("Chain audits"))
		for _, a := range m.audits {
			name := a.Name
			if name == "" {
				name = a.ChainID
			}
			status := fmt.Sprintf("%d/%d hops", a.ResolvedHops, a.TotalHops)
			style := t.OKText
			if a.ResolvedHops < a.TotalHops {
				style = t.ErrorText
			}
			lines = append(lines, truncateWidth(name, inner-12, "…")+" "+style.Render(status))
			for _, k := range a.MissingKeys {
				lines = append(lines, t.MutedText.Render("  missing "+truncateWidth(k, inner-10, "…")))
			}
			if len(a.Gaps) > 0 {
				lines = append(lines, t.MutedText.Render(fmt.Sprintf("  %d hops have no topology route", len(a.Gaps))))
			}
		}
	}

	return strings.Join(lines, "\n")
}

func (m *InsightsModel) rankedRows(items []analysis.RankedNode, inner int) []string {
	t := m.theme
	rows := make([]string, 0, len(items))
	for _, rn := range items {
		name := rn.Label
		if name == "" {
			name = rn.ID
		}
		rows = append(rows, fmt.Sprintf("%.2f %s %s",
			rn.Score,
			RenderMiniBar(rn.Score, 8, t),
			truncateWidth(name, inner-16, "…")))
	}
	return rows
}

func (m *InsightsModel) View() string {
	if !m.ready {
		return ""
	}
	return m.vp.View()
}
