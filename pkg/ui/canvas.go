package ui

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cbayliss/netweave/pkg/overlay"
	"github.com/cbayliss/netweave/pkg/scene"
	"github.com/cbayliss/netweave/pkg/viewport"
)

const (
	// halfRowsPerRow compensates terminal cells being roughly twice as
	// tall as wide: the viewport's screen space counts half rows
	// vertically, and y collapses by two when plotting, so world-space
	// squares stay square on screen.
	halfRowsPerRow = 2

	// labelMaxNodes is the node count up to which every node gets a
	// label row. Beyond it only selected and hovered nodes are labeled.
	labelMaxNodes = 24

	// maxLineSteps caps Bresenham iteration for segments that extend
	// far outside the canvas at high zoom.
	maxLineSteps = 4096

	// maxHitRadius caps the cell hit box so zoomed-in nodes don't
	// swallow clicks half a screen away.
	maxHitRadius = 8
)

// Canvas rasterizes a scene into a colored cell grid. It holds one rune
// plus foreground color and bold flag per cell and re-renders from
// scratch every frame.
type Canvas struct {
	cols, rows int
	runes      [][]rune
	fg         [][]lipgloss.TerminalColor
	bold       [][]bool
}

// NewCanvas returns a canvas of the given cell size.
func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{}
	c.Resize(cols, rows)
	return c
}

// Resize reallocates the cell grid. Content is discarded.
func (c *Canvas) Resize(cols, rows int) {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	c.cols, c.rows = cols, rows
	c.runes = make([][]rune, rows)
	c.fg = make([][]lipgloss.TerminalColor, rows)
	c.bold = make([][]bool, rows)
	for y := 0; y < rows; y++ {
		c.runes[y] = make([]rune, cols)
		c.fg[y] = make([]lipgloss.TerminalColor, cols)
		c.bold[y] = make([]bool, cols)
	}
	c.Clear()
}

// Size returns the canvas dimensions in cells.
func (c *Canvas) Size() (cols, rows int) {
	return c.cols, c.rows
}

// Clear blanks every cell.
func (c *Canvas) Clear() {
	for y := 0; y < c.rows; y++ {
		for x := 0; x < c.cols; x++ {
			c.runes[y][x] = ' '
			c.fg[y][x] = nil
			c.bold[y][x] = false
		}
	}
}

func (c *Canvas) set(x, y int, r rune, fg lipgloss.TerminalColor, bold bool) {
	if x < 0 || x >= c.cols || y < 0 || y >= c.rows {
		return
	}
	c.runes[y][x] = r
	c.fg[y][x] = fg
	c.bold[y][x] = bold
}

func (c *Canvas) setString(x, y int, s string, fg lipgloss.TerminalColor, bold bool) {
	for i, r := range []rune(s) {
		c.set(x+i, y, r, fg, bold)
	}
}

// cellOf projects a world coordinate through the scene transform into a
// cell position. The transform's screen space counts half rows
// vertically, so y collapses by two here.
func cellOf(t viewport.Transform, wx, wy float64) (int, int) {
	sx, sy := t.Apply(wx, wy)
	return roundCell(sx), roundCell(sy / halfRowsPerRow)
}

func roundCell(v float64) int {
	if v > 1e9 {
		return 1e9
	}
	if v < -1e9 {
		return -1e9
	}
	return int(math.Round(v))
}

// Render rasterizes the scene and returns it as rows*cols styled cells
// joined by newlines.
func (c *Canvas) Render(sc *scene.Scene, th Theme, showLegend bool) string {
	c.Clear()
	if sc == nil || len(sc.Nodes) == 0 {
		c.centerText("no topology loaded", th)
		return c.String(th)
	}
	c.drawEdges(sc, th)
	c.drawNodes(sc, th)
	c.drawChains(sc, th)
	if showLegend {
		c.drawLegend(th)
	}
	return c.String(th)
}

func (c *Canvas) drawEdges(sc *scene.Scene, th Theme) {
	for i := range sc.Edges {
		e := &sc.Edges[i]
		x1, y1 := cellOf(sc.Transform, e.X1, e.Y1)
		x2, y2 := cellOf(sc.Transform, e.X2, e.Y2)
		glyph, fg, bold := '·', lipgloss.TerminalColor(th.Muted), false
		if e.Highlighted {
			glyph, fg, bold = '•', th.High, true
		}
		c.line(x1, y1, x2, y2, glyph, fg, bold)
	}
}

func (c *Canvas) drawNodes(sc *scene.Scene, th Theme) {
	showAllLabels := len(sc.Nodes) <= labelMaxNodes
	for i := range sc.Nodes {
		n := &sc.Nodes[i]
		x, y := cellOf(sc.Transform, n.X, n.Y)
		fg := nodeColor(n, th)
		c.set(x, y, th.KindGlyph(n.Kind), fg, n.Selected || n.Hovered)

		switch {
		case n.Selected:
			c.set(x-1, y, '[', th.Primary, true)
			c.set(x+1, y, ']', th.Primary, true)
		case n.Hovered:
			c.set(x-1, y, '(', th.Subtext, false)
			c.set(x+1, y, ')', th.Subtext, false)
		}

		if showAllLabels || n.Selected || n.Hovered {
			label := n.Label
			if label == "" {
				label = n.ID
			}
			label = truncate(label, 18)
			c.setString(x-len([]rune(label))/2, y+1, label, th.Subtext, false)
		}
	}
}

// nodeColor resolves the node fill: explicit metadata color wins, then
// severity, then the kind base color.
func nodeColor(n *scene.Node, th Theme) lipgloss.TerminalColor {
	if n.Color != "" {
		return ThemeFg(n.Color)
	}
	if n.Severity != "" {
		return th.SeverityColor(n.Severity)
	}
	return th.KindColor(n.Kind)
}

func (c *Canvas) drawChains(sc *scene.Scene, th Theme) {
	for i := range sc.Chains {
		cp := &sc.Chains[i]
		fg := ThemeFg(cp.Color)
		glyph := '▓'
		if cp.Active {
			glyph = '█'
		}

		// The dash reveal draws a growing prefix of the sampled path,
		// the cell-grid analog of animating stroke-dashoffset.
		cells := chainCells(sc.Transform, cp)
		keep := len(cells)
		if cp.Reveal > 0 {
			keep = int(float64(len(cells)) * (1 - cp.Reveal))
		}
		for j := 0; j < keep && j < len(cells); j++ {
			c.set(cells[j].x, cells[j].y, glyph, fg, cp.Active)
		}

		if cp.HasArrow && cp.Reveal == 0 {
			ax, ay := cellOf(sc.Transform, cp.ArrowAt.X, cp.ArrowAt.Y)
			c.set(ax, ay, arrowGlyph(cp.ArrowDir), fg, true)
		}

		for _, b := range cp.Branches {
			c.drawBranch(sc.Transform, b, fg)
		}

		// Badges last so sequence numbers stay readable on top of the
		// stroke and the node glyph.
		for _, bd := range cp.Badges {
			bx, by := cellOf(sc.Transform, bd.At.X, bd.At.Y)
			c.setString(bx, by, strconv.Itoa(bd.Number), fg, true)
		}
	}
}

type cellPos struct{ x, y int }

// chainCells samples every quadratic segment of a chain into an ordered,
// deduplicated cell run.
func chainCells(t viewport.Transform, cp *overlay.ChainPath) []cellPos {
	var cells []cellPos
	push := func(x, y int) {
		if n := len(cells); n > 0 && cells[n-1].x == x && cells[n-1].y == y {
			return
		}
		cells = append(cells, cellPos{x, y})
	}

	if len(cp.Segments) == 0 {
		for _, p := range cp.Points {
			x, y := cellOf(t, p.X, p.Y)
			push(x, y)
		}
		return cells
	}

	for _, seg := range cp.Segments {
		x1, y1 := cellOf(t, seg.From.X, seg.From.Y)
		x2, y2 := cellOf(t, seg.To.X, seg.To.Y)
		steps := 2 * (abs(x2-x1) + abs(y2-y1))
		if steps < 8 {
			steps = 8
		}
		if steps > 512 {
			steps = 512
		}
		for i := 0; i <= steps; i++ {
			u := float64(i) / float64(steps)
			wx, wy := quadAt(seg, u)
			x, y := cellOf(t, wx, wy)
			push(x, y)
		}
	}
	return cells
}

// quadAt evaluates a quadratic Bezier segment at parameter u in [0, 1].
func quadAt(seg overlay.Segment, u float64) (float64, float64) {
	v := 1 - u
	x := v*v*seg.From.X + 2*v*u*seg.Ctrl.X + u*u*seg.To.X
	y := v*v*seg.From.Y + 2*v*u*seg.Ctrl.Y + u*u*seg.To.Y
	return x, y
}

func arrowGlyph(dir overlay.Point) rune {
	if math.Abs(dir.X) >= math.Abs(dir.Y) {
		if dir.X >= 0 {
			return '▶'
		}
		return '◀'
	}
	if dir.Y >= 0 {
		return '▼'
	}
	return '▲'
}

func (c *Canvas) drawBranch(t viewport.Transform, b overlay.BranchMarker, fg lipgloss.TerminalColor) {
	x1, y1 := cellOf(t, b.At.X, b.At.Y)
	x2, y2 := cellOf(t, b.Tip.X, b.Tip.Y)
	c.plotLine(x1, y1, x2, y2, func(x, y, i int) {
		if i%2 == 0 {
			c.set(x, y, '┄', fg, false)
		}
	})
	if b.Label != "" {
		c.setString(x2+2, y2, truncate(b.Label, 20), fg, false)
	}
}

func (c *Canvas) line(x1, y1, x2, y2 int, r rune, fg lipgloss.TerminalColor, bold bool) {
	c.plotLine(x1, y1, x2, y2, func(x, y, _ int) {
		c.set(x, y, r, fg, bold)
	})
}

// plotLine walks a Bresenham line, invoking plot per cell with a step
// index. Segments entirely off one side of the canvas are skipped.
func (c *Canvas) plotLine(x1, y1, x2, y2 int, plot func(x, y, i int)) {
	const margin = 4
	if (x1 < -margin && x2 < -margin) || (x1 >= c.cols+margin && x2 >= c.cols+margin) ||
		(y1 < -margin && y2 < -margin) || (y1 >= c.rows+margin && y2 >= c.rows+margin) {
		return
	}

	dx, dy := abs(x2-x1), -abs(y2-y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx + dy
	x, y := x1, y1
	for i := 0; ; i++ {
		plot(x, y, i)
		if (x == x2 && y == y2) || i > maxLineSteps {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func (c *Canvas) drawLegend(th Theme) {
	y := c.rows - 1
	x := 1
	put := func(r rune, fg lipgloss.TerminalColor, label string) {
		c.set(x, y, r, fg, true)
		x += 2
		c.setString(x, y, label, th.Muted, false)
		x += len([]rune(label)) + 2
	}
	put('●', th.Host, "host")
	put('◆', th.Service, "service")
	put('■', th.Critical, "crit")
	put('■', th.High, "high")
	put('■', th.Medium, "med")
	put('■', th.Low, "low")
}

func (c *Canvas) centerText(s string, th Theme) {
	y := c.rows / 2
	x := (c.cols - len([]rune(s))) / 2
	if x < 0 {
		x = 0
	}
	c.setString(x, y, s, th.Muted, false)
}

// String flattens the grid into styled terminal rows, batching adjacent
// cells with identical styling into one render call.
func (c *Canvas) String(th Theme) string {
	var sb strings.Builder
	for y := 0; y < c.rows; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		x := 0
		for x < c.cols {
			fg, bold := c.fg[y][x], c.bold[y][x]
			start := x
			for x < c.cols && c.fg[y][x] == fg && c.bold[y][x] == bold {
				x++
			}
			run := string(c.runes[y][start:x])
			if fg == nil && !bold {
				sb.WriteString(run)
				continue
			}
			st := th.Renderer.NewStyle()
			if fg != nil {
				st = st.Foreground(fg)
			}
			if bold {
				st = st.Bold(true)
			}
			sb.WriteString(st.Render(run))
		}
	}
	return sb.String()
}

// HitNode returns the id of the node covering the given cell, or the
// empty string. Later nodes in scene order win, matching draw order.
// The hit box tracks the node's projected radius with a floor of one
// cell and a cap so zoomed-in nodes don't swallow distant clicks.
func HitNode(sc *scene.Scene, cellX, cellY int) string {
	if sc == nil {
		return ""
	}
	hit := ""
	for i := range sc.Nodes {
		n := &sc.Nodes[i]
		x, y := cellOf(sc.Transform, n.X, n.Y)
		rx := int(n.Radius * sc.Transform.Scale)
		if rx < 1 {
			rx = 1
		}
		if rx > maxHitRadius {
			rx = maxHitRadius
		}
		ry := rx / halfRowsPerRow
		if ry < 1 {
			ry = 1
		}
		if abs(cellX-x) <= rx && abs(cellY-y) <= ry {
			hit = n.ID
		}
	}
	return hit
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
