package ui

import "testing"

func TestTruncateWidth(t *testing.T) {
	cases := []struct {
		in     string
		max    int
		suffix string
		want   string
	}{
		{"short", 10, "...", "short"},
		{"exactly-10", 10, "...", "exactly-10"},
		{"longer-than-allowed", 10, "...", "longer-..."},
		{"anything", 0, "...", ""},
		{"wide: 日本語テキスト", 10, "…", "wide: 日…"},
	}
	for _, tc := range cases {
		if got := truncateWidth(tc.in, tc.max, tc.suffix); got != tc.want {
			t.Errorf("truncateWidth(%q, %d, %q) = %q, want %q",
				tc.in, tc.max, tc.suffix, got, tc.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 5); got != "ab   " {
		t.Errorf("padRight(ab, 5) = %q", got)
	}
	if got := padRight("abcdef", 3); got != "abcdef" {
		t.Errorf("padRight should not shorten, got %q", got)
	}
	// Wide runes take two cells, so only one space fits.
	if got := padRight("日本", 5); got != "日本 " {
		t.Errorf("padRight(日本, 5) = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("perimeter-switch", 8); got != "perimet…" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("db", 8); got != "db" {
		t.Errorf("truncate should pass short strings, got %q", got)
	}
}
