package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"

	"github.com/cbayliss/netweave/pkg/model"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals. Chain colors
// arrive as author-picked hex strings, so low-color terminals need a
// readable fallback rather than a blind down-conversion.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor

	// Severity scale
	Critical lipgloss.AdaptiveColor
	High     lipgloss.AdaptiveColor
	Medium   lipgloss.AdaptiveColor
	Low      lipgloss.AdaptiveColor
	Info     lipgloss.AdaptiveColor

	// Node kinds
	Host    lipgloss.AdaptiveColor
	Service lipgloss.AdaptiveColor

	// UI Elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Danger    lipgloss.AdaptiveColor
	Success   lipgloss.AdaptiveColor

	// Styles
	Base     lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style

	// Pre-computed styles so per-frame renders don't re-allocate a
	// style chain per list row.
	MutedText     lipgloss.Style
	InfoText      lipgloss.Style
	SecondaryText lipgloss.Style
	PrimaryBold   lipgloss.Style
	ErrorText     lipgloss.Style
	OKText        lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive).
// Light mode colors are tuned for WCAG AA contrast on white terminals.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}, // Purple
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}, // Gray
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"}, // Dim

		Critical: lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}, // Red
		High:     lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}, // Orange
		Medium:   lipgloss.AdaptiveColor{Light: "#808000", Dark: "#F1FA8C"}, // Yellow
		Low:      lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}, // Green
		Info:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}, // Gray

		Host:    lipgloss.AdaptiveColor{Light: "#2684FF", Dark: "#4C9AFF"}, // Blue
		Service: lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}, // Purple

		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Danger:    lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"},
		Success:   lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})

	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Bold(true)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.InfoText = r.NewStyle().Foreground(ColorInfo)
	t.SecondaryText = r.NewStyle().Foreground(t.Secondary)
	t.PrimaryBold = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.ErrorText = r.NewStyle().Foreground(t.Danger).Bold(true)
	t.OKText = r.NewStyle().Foreground(t.Success)

	return t
}

// SeverityColor maps a node severity onto the theme scale. Unknown or
// empty severities fall back to the kind-neutral subtext color.
func (t Theme) SeverityColor(s model.Severity) lipgloss.AdaptiveColor {
	switch s {
	case model.SeverityCritical:
		return t.Critical
	case model.SeverityHigh:
		return t.High
	case model.SeverityMedium:
		return t.Medium
	case model.SeverityLow:
		return t.Low
	case model.SeverityInfo:
		return t.Info
	default:
		return t.Subtext
	}
}

// KindColor returns the base color for a node kind.
func (t Theme) KindColor(k model.NodeKind) lipgloss.AdaptiveColor {
	if k == model.KindHost {
		return t.Host
	}
	return t.Service
}

// KindGlyph returns the canvas glyph for a node kind. Hosts render
// heavier than services, mirroring their larger model radius.
func (t Theme) KindGlyph(k model.NodeKind) rune {
	if k == model.KindHost {
		return '●'
	}
	return '◆'
}

// TestTheme returns a theme suitable for use in tests (stdout renderer).
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
