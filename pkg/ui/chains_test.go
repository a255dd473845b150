package ui

import (
	"strings"
	"testing"
)

func TestChainListEmpty(t *testing.T) {
	m := NewChainListModel(TestTheme())
	m.SetSize(30)

	out := m.View()
	if !strings.Contains(out, "Chains (0)") {
		t.Fatalf("expected zero-count header:\n%s", out)
	}
	if !strings.Contains(out, "no chains loaded") {
		t.Fatalf("expected empty state:\n%s", out)
	}
}

func TestChainListRows(t *testing.T) {
	m := NewChainListModel(TestTheme())
	m.SetSize(36)
	m.SetEntries([]ChainEntry{
		{ID: "ch1", Name: "perimeter breach", Color: "#ff5555", Visible: true, Active: true, Resolved: 4, Total: 4},
		{ID: "ch2", Name: "lateral movement", Color: "#8be9fd", Visible: false, Resolved: 2, Total: 5},
	})

	out := m.View()
	if !strings.Contains(out, "Chains (2)") {
		t.Fatalf("expected header count:\n%s", out)
	}
	if !strings.Contains(out, "perimeter breach") || !strings.Contains(out, "lateral movement") {
		t.Fatalf("expected both chain names:\n%s", out)
	}
	if !strings.Contains(out, "▶") {
		t.Fatalf("expected active marker:\n%s", out)
	}
	if !strings.Contains(out, "◉") || !strings.Contains(out, "○") {
		t.Fatalf("expected visibility dots for shown and hidden chains:\n%s", out)
	}
	if !strings.Contains(out, "4/4") || !strings.Contains(out, "2/5") {
		t.Fatalf("expected resolved/total hop counts:\n%s", out)
	}
}

func TestChainListNameFallsBackToID(t *testing.T) {
	m := NewChainListModel(TestTheme())
	m.SetSize(30)
	m.SetEntries([]ChainEntry{{ID: "ch-raw", Visible: true, Resolved: 1, Total: 1}})

	if out := m.View(); !strings.Contains(out, "ch-raw") {
		t.Fatalf("expected ID fallback:\n%s", out)
	}
}

func TestChainListTruncatesLongNames(t *testing.T) {
	m := NewChainListModel(TestTheme())
	m.SetSize(24)
	long := strings.Repeat("exfiltration-", 8)
	m.SetEntries([]ChainEntry{{ID: "ch1", Name: long, Visible: true, Resolved: 1, Total: 1}})

	out := m.View()
	if strings.Contains(out, long) {
		t.Fatal("expected long name to truncate")
	}
	if !strings.Contains(out, "…") {
		t.Fatalf("expected ellipsis after truncation:\n%s", out)
	}
}
