package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// truncateWidth shortens s to at most max terminal cells, appending the
// suffix when anything was cut. Wide runes count as two cells.
func truncateWidth(s string, max int, suffix string) string {
	if max <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= max {
		return s
	}
	sw := runewidth.StringWidth(suffix)
	if sw > max {
		return runewidth.Truncate(suffix, max, "")
	}
	return runewidth.Truncate(s, max-sw, "") + suffix
}

// padRight fills s with spaces up to width cells. Strings already at or
// over the width pass through unchanged.
func padRight(s string, width int) string {
	gap := width - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}

func truncate(s string, max int) string {
	return truncateWidth(s, max, "…")
}
