package ui

import (
	"strings"
	"testing"

	"github.com/cbayliss/netweave/pkg/model"
	"github.com/cbayliss/netweave/pkg/overlay"
	"github.com/cbayliss/netweave/pkg/scene"
	"github.com/cbayliss/netweave/pkg/viewport"
)

// identityScene wraps nodes in a scene with no zoom or pan so world
// coordinates land on predictable cells.
func identityScene(nodes []scene.Node, edges []scene.Edge, chains []overlay.ChainPath) *scene.Scene {
	return &scene.Scene{
		Width:     80,
		Height:    40,
		Transform: viewport.Identity(),
		Nodes:     nodes,
		Edges:     edges,
		Chains:    chains,
	}
}

func cellAt(rendered string, x, y int) rune {
	lines := strings.Split(rendered, "\n")
	if y < 0 || y >= len(lines) {
		return 0
	}
	runes := []rune(lines[y])
	if x < 0 || x >= len(runes) {
		return 0
	}
	return runes[x]
}

func TestRenderNilSceneShowsPlaceholder(t *testing.T) {
	c := NewCanvas(40, 10)
	out := c.Render(nil, TestTheme(), false)
	if !strings.Contains(out, "no topology loaded") {
		t.Fatalf("expected placeholder, got:\n%s", out)
	}
}

func TestRenderEmptySceneShowsPlaceholder(t *testing.T) {
	c := NewCanvas(40, 10)
	out := c.Render(identityScene(nil, nil, nil), TestTheme(), false)
	if !strings.Contains(out, "no topology loaded") {
		t.Fatalf("expected placeholder, got:\n%s", out)
	}
}

func TestRenderNodeGlyphAndLabel(t *testing.T) {
	sc := identityScene([]scene.Node{
		{ID: "web-01", Kind: model.KindHost, Label: "web", X: 10, Y: 8, Radius: 2},
	}, nil, nil)
	c := NewCanvas(40, 10)
	out := c.Render(sc, TestTheme(), false)

	// World (10, 8) lands on cell (10, 4): terminal rows count double.
	if got := cellAt(out, 10, 4); got != '●' {
		t.Fatalf("expected host glyph at (10,4), got %q", got)
	}
	if got := cellAt(out, 9, 5); got != 'w' {
		t.Fatalf("expected centered label below node, got %q\n%s", got, out)
	}
}

func TestRenderServiceGlyph(t *testing.T) {
	sc := identityScene([]scene.Node{
		{ID: "svc-01", Kind: model.KindService, Label: "api", X: 6, Y: 4, Radius: 2},
	}, nil, nil)
	c := NewCanvas(40, 10)
	out := c.Render(sc, TestTheme(), false)

	if got := cellAt(out, 6, 2); got != '◆' {
		t.Fatalf("expected service glyph, got %q", got)
	}
}

func TestRenderSelectionBrackets(t *testing.T) {
	sc := identityScene([]scene.Node{
		{ID: "web-01", Kind: model.KindHost, Label: "web", X: 10, Y: 8, Radius: 2, Selected: true},
	}, nil, nil)
	c := NewCanvas(40, 10)
	out := c.Render(sc, TestTheme(), false)

	if cellAt(out, 9, 4) != '[' || cellAt(out, 11, 4) != ']' {
		t.Fatalf("expected selection brackets around node:\n%s", out)
	}
}

func TestRenderHoverParens(t *testing.T) {
	sc := identityScene([]scene.Node{
		{ID: "web-01", Kind: model.KindHost, Label: "web", X: 10, Y: 8, Radius: 2, Hovered: true},
	}, nil, nil)
	c := NewCanvas(40, 10)
	out := c.Render(sc, TestTheme(), false)

	if cellAt(out, 9, 4) != '(' || cellAt(out, 11, 4) != ')' {
		t.Fatalf("expected hover parens around node:\n%s", out)
	}
}

func TestRenderLabelFallsBackToID(t *testing.T) {
	sc := identityScene([]scene.Node{
		{ID: "db", Kind: model.KindHost, X: 10, Y: 8, Radius: 2},
	}, nil, nil)
	c := NewCanvas(40, 10)
	out := c.Render(sc, TestTheme(), false)

	if !strings.Contains(out, "db") {
		t.Fatalf("expected ID as label fallback:\n%s", out)
	}
}

func TestCrowdedSceneLabelsOnlySelected(t *testing.T) {
	nodes := make([]scene.Node, labelMaxNodes+1)
	for i := range nodes {
		nodes[i] = scene.Node{
			ID: "n", Kind: model.KindHost, Label: "zzlabel",
			X: float64(2 + i), Y: 2, Radius: 1,
		}
	}
	nodes[10].ID = "picked"
	nodes[10].Label = "pickme"
	nodes[10].Selected = true

	c := NewCanvas(60, 12)
	out := c.Render(identityScene(nodes, nil, nil), TestTheme(), false)

	if !strings.Contains(out, "pickme") {
		t.Fatalf("selected node should keep its label:\n%s", out)
	}
	if strings.Contains(out, "zzlabel") {
		t.Fatalf("unselected labels should drop in crowded scenes:\n%s", out)
	}
}

func TestRenderEdges(t *testing.T) {
	sc := identityScene(
		[]scene.Node{
			{ID: "a", Kind: model.KindHost, Label: "a", X: 2, Y: 2, Radius: 1},
			{ID: "b", Kind: model.KindHost, Label: "b", X: 12, Y: 2, Radius: 1},
		},
		[]scene.Edge{{SourceID: "a", TargetID: "b", X1: 2, Y1: 2, X2: 12, Y2: 2}},
		nil,
	)
	c := NewCanvas(40, 10)
	out := c.Render(sc, TestTheme(), false)

	// Midpoint of the edge, clear of both node glyphs.
	if got := cellAt(out, 7, 1); got != '·' {
		t.Fatalf("expected edge dot at midpoint, got %q\n%s", got, out)
	}
}

func TestHighlightedEdgeUsesHeavyDot(t *testing.T) {
	sc := identityScene(
		[]scene.Node{
			{ID: "a", Kind: model.KindHost, Label: "a", X: 2, Y: 2, Radius: 1},
			{ID: "b", Kind: model.KindHost, Label: "b", X: 12, Y: 2, Radius: 1},
		},
		[]scene.Edge{{SourceID: "a", TargetID: "b", X1: 2, Y1: 2, X2: 12, Y2: 2, Highlighted: true}},
		nil,
	)
	c := NewCanvas(40, 10)
	out := c.Render(sc, TestTheme(), false)

	if got := cellAt(out, 7, 1); got != '•' {
		t.Fatalf("expected highlighted edge dot, got %q", got)
	}
}

func TestChainStrokeAndReveal(t *testing.T) {
	chain := overlay.ChainPath{
		ChainID: "ch1",
		Color:   "#ff5555",
		Segments: []overlay.Segment{{
			From: overlay.Point{X: 2, Y: 4},
			Ctrl: overlay.Point{X: 12, Y: 4},
			To:   overlay.Point{X: 22, Y: 4},
		}},
	}
	nodes := []scene.Node{{ID: "a", Kind: model.KindHost, Label: "a", X: 2, Y: 4, Radius: 1}}

	c := NewCanvas(40, 10)
	full := c.Render(identityScene(nodes, nil, []overlay.ChainPath{chain}), TestTheme(), false)
	fullCount := strings.Count(full, "▓")
	if fullCount == 0 {
		t.Fatalf("expected chain stroke cells:\n%s", full)
	}

	chain.Reveal = 0.5
	half := c.Render(identityScene(nodes, nil, []overlay.ChainPath{chain}), TestTheme(), false)
	halfCount := strings.Count(half, "▓")
	if halfCount == 0 || halfCount >= fullCount {
		t.Fatalf("reveal should shorten the stroke: full %d, half %d", fullCount, halfCount)
	}
}

func TestActiveChainUsesSolidBlock(t *testing.T) {
	chain := overlay.ChainPath{
		ChainID: "ch1",
		Active:  true,
		Segments: []overlay.Segment{{
			From: overlay.Point{X: 2, Y: 4},
			Ctrl: overlay.Point{X: 12, Y: 4},
			To:   overlay.Point{X: 22, Y: 4},
		}},
	}
	nodes := []scene.Node{{ID: "a", Kind: model.KindHost, Label: "a", X: 2, Y: 4, Radius: 1}}

	c := NewCanvas(40, 10)
	out := c.Render(identityScene(nodes, nil, []overlay.ChainPath{chain}), TestTheme(), false)
	if !strings.Contains(out, "█") {
		t.Fatalf("active chain should render solid blocks:\n%s", out)
	}
}

func TestChainArrowAndBadges(t *testing.T) {
	chain := overlay.ChainPath{
		ChainID: "ch1",
		Segments: []overlay.Segment{{
			From: overlay.Point{X: 2, Y: 4},
			Ctrl: overlay.Point{X: 12, Y: 4},
			To:   overlay.Point{X: 22, Y: 4},
		}},
		HasArrow: true,
		ArrowAt:  overlay.Point{X: 22, Y: 4},
		ArrowDir: overlay.Point{X: 1, Y: 0},
		Badges: []overlay.Badge{
			{At: overlay.Point{X: 2, Y: 4}, Number: 1},
		},
	}

	c := NewCanvas(40, 10)
	out := c.Render(identityScene([]scene.Node{{ID: "a", X: 2, Y: 4, Radius: 1, Kind: model.KindHost, Label: "a"}}, nil, []overlay.ChainPath{chain}), TestTheme(), false)

	if got := cellAt(out, 22, 2); got != '▶' {
		t.Fatalf("expected rightward arrow at chain end, got %q\n%s", got, out)
	}
	if got := cellAt(out, 2, 2); got != '1' {
		t.Fatalf("expected sequence badge over first hop, got %q", got)
	}
}

func TestChainArrowHiddenDuringReveal(t *testing.T) {
	chain := overlay.ChainPath{
		ChainID:  "ch1",
		Reveal:   0.4,
		HasArrow: true,
		ArrowAt:  overlay.Point{X: 22, Y: 4},
		ArrowDir: overlay.Point{X: 1, Y: 0},
		Segments: []overlay.Segment{{
			From: overlay.Point{X: 2, Y: 4},
			Ctrl: overlay.Point{X: 12, Y: 4},
			To:   overlay.Point{X: 22, Y: 4},
		}},
	}

	c := NewCanvas(40, 10)
	out := c.Render(identityScene([]scene.Node{{ID: "a", X: 2, Y: 4, Radius: 1, Kind: model.KindHost, Label: "a"}}, nil, []overlay.ChainPath{chain}), TestTheme(), false)

	if got := cellAt(out, 22, 2); got == '▶' {
		t.Fatalf("arrow should wait for the reveal to finish:\n%s", out)
	}
}

func TestBranchMarkerLabel(t *testing.T) {
	chain := overlay.ChainPath{
		ChainID: "ch1",
		Points:  []overlay.Point{{X: 4, Y: 4}},
		Branches: []overlay.BranchMarker{{
			At:    overlay.Point{X: 4, Y: 4},
			Tip:   overlay.Point{X: 12, Y: 8},
			Label: "crown jewels",
		}},
	}

	c := NewCanvas(40, 12)
	out := c.Render(identityScene([]scene.Node{{ID: "a", X: 4, Y: 4, Radius: 1, Kind: model.KindHost, Label: "a"}}, nil, []overlay.ChainPath{chain}), TestTheme(), false)

	if !strings.Contains(out, "crown jewels") {
		t.Fatalf("expected branch label:\n%s", out)
	}
}

func TestLegendRow(t *testing.T) {
	sc := identityScene([]scene.Node{{ID: "a", X: 4, Y: 4, Radius: 1, Kind: model.KindHost, Label: "a"}}, nil, nil)
	c := NewCanvas(60, 12)
	out := c.Render(sc, TestTheme(), true)

	last := strings.Split(out, "\n")
	bottom := last[len(last)-1]
	for _, want := range []string{"host", "service", "crit"} {
		if !strings.Contains(bottom, want) {
			t.Fatalf("legend missing %q in bottom row: %q", want, bottom)
		}
	}
}

func TestHitNode(t *testing.T) {
	sc := identityScene([]scene.Node{
		{ID: "web-01", Kind: model.KindHost, X: 10, Y: 8, Radius: 2},
	}, nil, nil)

	cases := []struct {
		x, y int
		want string
	}{
		{10, 4, "web-01"}, // dead center
		{12, 4, "web-01"}, // within horizontal radius
		{13, 4, ""},       // just outside
		{10, 5, "web-01"}, // within squashed vertical radius
		{10, 6, ""},       // below it
	}
	for _, tc := range cases {
		if got := HitNode(sc, tc.x, tc.y); got != tc.want {
			t.Errorf("HitNode(%d,%d) = %q, want %q", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestHitNodeLaterNodeWins(t *testing.T) {
	sc := identityScene([]scene.Node{
		{ID: "under", Kind: model.KindHost, X: 10, Y: 8, Radius: 2},
		{ID: "over", Kind: model.KindHost, X: 10, Y: 8, Radius: 2},
	}, nil, nil)

	if got := HitNode(sc, 10, 4); got != "over" {
		t.Fatalf("expected draw-order winner, got %q", got)
	}
}

func TestHitNodeNilScene(t *testing.T) {
	if got := HitNode(nil, 5, 5); got != "" {
		t.Fatalf("expected empty hit on nil scene, got %q", got)
	}
}

func TestHitRadiusScalesWithZoom(t *testing.T) {
	sc := identityScene([]scene.Node{
		{ID: "web-01", Kind: model.KindHost, X: 10, Y: 8, Radius: 2},
	}, nil, nil)
	sc.Transform = viewport.Transform{Scale: 3, TX: 0, TY: 0}

	// Node projects to (30, 12); radius 2*3=6 cells wide, 3 tall.
	if got := HitNode(sc, 36, 12); got != "web-01" {
		t.Fatalf("expected zoomed hit box to widen, got %q", got)
	}
	if got := HitNode(sc, 37, 12); got != "" {
		t.Fatalf("expected miss outside zoomed radius, got %q", got)
	}
}

func TestCanvasResizeClamps(t *testing.T) {
	c := NewCanvas(0, -3)
	cols, rows := c.Size()
	if cols != 1 || rows != 1 {
		t.Fatalf("expected 1x1 floor, got %dx%d", cols, rows)
	}
	c.Resize(20, 5)
	cols, rows = c.Size()
	if cols != 20 || rows != 5 {
		t.Fatalf("expected 20x5, got %dx%d", cols, rows)
	}
	out := c.Render(nil, TestTheme(), false)
	if lines := strings.Split(out, "\n"); len(lines) != 5 {
		t.Fatalf("expected 5 rendered rows, got %d", len(lines))
	}
}
