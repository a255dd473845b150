package ui

import (
	"strings"
	"testing"
)

func TestMarkdownRenderPlainContent(t *testing.T) {
	r := NewMarkdownRenderer(40)
	out := r.Render("exploited weak ssh credentials")
	if !strings.Contains(out, "exploited weak ssh credentials") {
		t.Fatalf("content lost in rendering:\n%s", out)
	}
}

func TestMarkdownRenderFormatting(t *testing.T) {
	r := NewMarkdownRenderer(60)
	out := r.Render("pivoted via **smb** to the file server")
	if !strings.Contains(out, "smb") {
		t.Fatalf("expected body text to survive:\n%s", out)
	}
	if strings.HasSuffix(out, "\n") {
		t.Fatal("trailing newline should be trimmed")
	}
}

func TestMarkdownSetWidthFloor(t *testing.T) {
	r := NewMarkdownRenderer(40)
	r.SetWidth(3)
	out := r.Render("short note")
	if out == "" {
		t.Fatal("narrow renderer should still produce output")
	}
}

func TestMarkdownEmptyInput(t *testing.T) {
	r := NewMarkdownRenderer(40)
	if out := r.Render(""); strings.TrimSpace(out) != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
}
