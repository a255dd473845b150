package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cbayliss/netweave/pkg/model"
)

// ══════════════════════════════════════════════════════════════════════════════
// COLOR PALETTE - Adaptive colors for light and dark terminals
// Light mode colors tuned for WCAG AA compliance (contrast ratio >= 4.5:1)
// ══════════════════════════════════════════════════════════════════════════════

var (
	// Base colors - Light mode uses darker colors for contrast on white backgrounds
	ColorBgSubtle    = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#363949"}
	ColorBgHighlight = lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#44475A"}
	ColorMuted       = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"}

	// Primary accent colors
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}
	ColorInfo    = lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}
	ColorDanger  = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}

	// Severity colors
	ColorSevCritical = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}
	ColorSevHigh     = lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}
	ColorSevMedium   = lipgloss.AdaptiveColor{Light: "#808000", Dark: "#F1FA8C"}
	ColorSevLow      = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
	ColorSevInfo     = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}

	// Severity background colors (for badges) - subtle backgrounds
	ColorSevCriticalBg = lipgloss.AdaptiveColor{Light: "#F8D7DA", Dark: "#3D1A1A"}
	ColorSevHighBg     = lipgloss.AdaptiveColor{Light: "#FFE8CC", Dark: "#3D2A1A"}
	ColorSevMediumBg   = lipgloss.AdaptiveColor{Light: "#FFF3CD", Dark: "#3D3D1A"}
	ColorSevLowBg      = lipgloss.AdaptiveColor{Light: "#D4EDDA", Dark: "#1A3D2A"}
	ColorSevInfoBg     = lipgloss.AdaptiveColor{Light: "#E2E3E5", Dark: "#2A2A3D"}

	// Kind badge text color (white on colored background)
	ColorKindBadgeText = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}

	// Kind background colors (saturated badge backgrounds)
	ColorKindHostBg    = lipgloss.AdaptiveColor{Light: "#2684FF", Dark: "#4C9AFF"} // Blue
	ColorKindServiceBg = lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#904EE2"} // Purple
)

// ══════════════════════════════════════════════════════════════════════════════
// PANEL STYLES - For split view layouts
// ══════════════════════════════════════════════════════════════════════════════

var (
	// PanelStyle is the default style for unfocused panels
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBgHighlight)

	// FocusedPanelStyle is the style for focused panels
	FocusedPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary)
)

// ══════════════════════════════════════════════════════════════════════════════
// BADGE RENDERING - Polished, consistent badge styles
// ══════════════════════════════════════════════════════════════════════════════

// RenderSeverityBadge returns a styled severity badge for a node's worst
// known finding.
func RenderSeverityBadge(s model.Severity) string {
	var fg, bg lipgloss.AdaptiveColor
	var label string

	switch s {
	case model.SeverityCritical:
		fg, bg, label = ColorSevCritical, ColorSevCriticalBg, "CRIT"
	case model.SeverityHigh:
		fg, bg, label = ColorSevHigh, ColorSevHighBg, "HIGH"
	case model.SeverityMedium:
		fg, bg, label = ColorSevMedium, ColorSevMediumBg, "MED"
	case model.SeverityLow:
		fg, bg, label = ColorSevLow, ColorSevLowBg, "LOW"
	case model.SeverityInfo:
		fg, bg, label = ColorSevInfo, ColorSevInfoBg, "INFO"
	default:
		fg, bg, label = ColorMuted, ColorBgSubtle, "none"
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Background(bg).
		Bold(true).
		Padding(0, 0).
		Render(label)
}

// RenderKindBadge returns a colored square badge with a single letter.
// All badges are exactly 1 cell wide for consistent alignment.
func RenderKindBadge(k model.NodeKind) string {
	var bg lipgloss.AdaptiveColor
	var label string

	switch k {
	case model.KindHost:
		bg, label = ColorKindHostBg, "H"
	case model.KindService:
		bg, label = ColorKindServiceBg, "S"
	default:
		bg, label = ColorBgSubtle, "·"
	}

	return lipgloss.NewStyle().
		Foreground(ColorKindBadgeText).
		Background(bg).
		Bold(true).
		Render(label)
}

// ══════════════════════════════════════════════════════════════════════════════
// METRIC VISUALIZATION - Mini-bars and rank badges
// ══════════════════════════════════════════════════════════════════════════════

// RenderMiniBar renders a mini horizontal bar for a value between 0 and 1.
// Higher values mean more critical, so the scale runs muted to red.
func RenderMiniBar(value float64, width int, t Theme) string {
	if width <= 0 {
		return ""
	}
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}

	filled := int(value * float64(width))
	if filled > width {
		filled = width
	}

	var barColor lipgloss.AdaptiveColor
	if value >= 0.75 {
		barColor = t.Critical
	} else if value >= 0.5 {
		barColor = t.High
	} else if value >= 0.25 {
		barColor = t.Medium
	} else {
		barColor = t.Secondary
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return t.Renderer.NewStyle().Foreground(barColor).Render(bar)
}

// RenderRankBadge renders a rank badge like "#1" with color based on
// percentile. Rank 1 is the most critical node.
func RenderRankBadge(rank, total int) string {
	if total == 0 {
		return lipgloss.NewStyle().Foreground(ColorMuted).Render("#?")
	}

	percentile := float64(rank) / float64(total)

	var color lipgloss.AdaptiveColor
	if percentile <= 0.1 {
		color = ColorDanger // Top 10%
	} else if percentile <= 0.25 {
		color = ColorWarning // Top 25%
	} else if percentile <= 0.5 {
		color = ColorInfo // Top 50%
	} else {
		color = ColorMuted // Bottom 50%
	}

	return lipgloss.NewStyle().
		Foreground(color).
		Render(fmt.Sprintf("#%d", rank))
}

// ══════════════════════════════════════════════════════════════════════════════
// DIVIDERS AND SEPARATORS
// ══════════════════════════════════════════════════════════════════════════════

// RenderDivider renders a horizontal divider line
func RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(ColorBgHighlight).
		Render(strings.Repeat("─", width))
}

// RenderSubtleDivider renders a more subtle divider using dots
func RenderSubtleDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(ColorMuted).
		Render(strings.Repeat("·", width))
}
