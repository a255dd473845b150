package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer wraps glamour for panel text such as chain method
// notes. When the underlying renderer fails to initialize, Render
// degrades to returning the raw markdown.
type MarkdownRenderer struct {
	tr    *glamour.TermRenderer
	width int
}

func NewMarkdownRenderer(width int) *MarkdownRenderer {
	m := &MarkdownRenderer{}
	m.SetWidth(width)
	return m
}

// SetWidth rebuilds the underlying renderer at the new wrap width.
func (m *MarkdownRenderer) SetWidth(width int) {
	if width < 20 {
		width = 20
	}
	if width == m.width && m.tr != nil {
		return
	}
	m.width = width
	tr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		m.tr = nil
		return
	}
	m.tr = tr
}

// Render returns styled terminal text for the markdown, or the raw
// input when glamour is unavailable. Trailing whitespace glamour adds
// is stripped so panels control their own spacing.
func (m *MarkdownRenderer) Render(md string) string {
	if m.tr == nil {
		return md
	}
	out, err := m.tr.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, " \n\r\t")
}
