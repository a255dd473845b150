// Package export renders static snapshots of the topology scene.
package export

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/cbayliss/netweave/pkg/analysis"
	"github.com/cbayliss/netweave/pkg/metrics"
	"github.com/cbayliss/netweave/pkg/model"
	"github.com/cbayliss/netweave/pkg/scene"
	"github.com/cbayliss/netweave/pkg/viewport"

	"git.sr.ht/~sbinet/gg"
	"github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"
)

// SceneSnapshotOptions controls scene snapshot export behaviour.
type SceneSnapshotOptions struct {
	Path     string             // Output path; format inferred from extension when Format empty
	Format   string             // "svg" or "png" (case-insensitive). If empty, inferred from Path.
	Title    string             // Optional title rendered in the summary block
	Source   string             // Data source description for provenance
	Width    int                // Output pixel width. When zero, derived from the scene size.
	Height   int                // Output pixel height. When zero, derived from the scene size.
	Scene    *scene.Scene       // Snapshot geometry, usually from Scene.Snapshot
	Insights *analysis.Insights // Optional graph analysis for the summary block
	Legend   bool               // Render the severity legend
}

// SaveSceneSnapshot renders a static snapshot (SVG or PNG) of the scene
// with a minimal summary block. The world-space bounding box is fitted
// to the output size; the scene's own transform is never baked in.
func SaveSceneSnapshot(opts SceneSnapshotOptions) error {
	defer metrics.Timer(metrics.SnapshotExport)()

	if opts.Scene == nil || len(opts.Scene.Nodes) == 0 {
		return fmt.Errorf("no nodes to export")
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".svg":
			format = "svg"
		case ".png":
			format = "png"
		default:
			format = "svg" // safe default
			if opts.Path != "" && filepath.Ext(opts.Path) == "" {
				opts.Path = opts.Path + ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}

	if dir := filepath.Dir(opts.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create parent dir: %w", err)
		}
	}

	layout := buildCanvas(opts)

	switch format {
	case "svg":
		return renderSVG(opts.Path, layout)
	case "png":
		return renderPNG(opts.Path, layout)
	default:
		return fmt.Errorf("unhandled format %q", format)
	}
}

// --- layout computation ----------------------------------------------------

type snapNode struct {
	ID       string
	Label    string
	X, Y     float64
	R        float64
	Fill     color.RGBA
	Selected bool
}

type snapEdge struct {
	X1, Y1, X2, Y2 float64
	Highlighted    bool
}

type snapSegment struct {
	X1, Y1 float64
	CX, CY float64
	X2, Y2 float64
}

type snapBadge struct {
	X, Y   float64
	Number int
}

type snapBranch struct {
	X1, Y1, X2, Y2 float64
	Label          string
}

type snapChain struct {
	Name     string
	Stroke   color.RGBA
	Active   bool
	Dashed   bool
	Segments []snapSegment
	Badges   []snapBadge
	Branches []snapBranch
	Arrow    [6]float64 // triangle vertices x1,y1,x2,y2,x3,y3
	HasArrow bool
}

type canvasLayout struct {
	Width   int
	Height  int
	Header  float64
	Legend  bool
	Nodes   []snapNode
	Edges   []snapEdge
	Chains  []snapChain
	Summary summaryInfo
}

type summaryInfo struct {
	Title       string
	Source      string
	NodeCount   int
	EdgeCount   int
	ChainCount  int
	Scale       float64
	TopCritical string
}

func buildCanvas(opts SceneSnapshotOptions) canvasLayout {
	const (
		padding      = 36.0
		headerHeight = 120.0
		arrowLen     = 12.0
		arrowHalf    = 5.0
	)

	sc := opts.Scene
	width := opts.Width
	if width <= 0 {
		width = int(sc.Width)
	}
	height := opts.Height
	if height <= 0 {
		height = int(sc.Height)
	}
	if width < 640 {
		width = 640
	}
	if height < 480 {
		height = 480
	}

	// Fit the world-space bounding box into the content area below the
	// header, using the same fit rule as the live viewport.
	contentW := float64(width) - 2*padding
	contentH := float64(height) - headerHeight - 2*padding
	t, ok := viewport.FitTransform(sc.Bounds, contentW, contentH)
	if !ok {
		t = viewport.Identity()
	}
	t.TX += padding
	t.TY += headerHeight + padding

	layout := canvasLayout{
		Width:  width,
		Height: height,
		Header: headerHeight,
		Legend: opts.Legend,
	}

	for _, n := range sc.Nodes {
		x, y := t.Apply(n.X, n.Y)
		r := n.Radius * t.Scale
		if r < 3 {
			r = 3
		}
		layout.Nodes = append(layout.Nodes, snapNode{
			ID:       n.ID,
			Label:    truncate(n.Label, 28),
			X:        x,
			Y:        y,
			R:        r,
			Fill:     nodeFill(n),
			Selected: n.Selected,
		})
	}

	for _, e := range sc.Edges {
		x1, y1 := t.Apply(e.X1, e.Y1)
		x2, y2 := t.Apply(e.X2, e.Y2)
		layout.Edges = append(layout.Edges, snapEdge{
			X1: x1, Y1: y1, X2: x2, Y2: y2,
			Highlighted: e.Highlighted,
		})
	}

	for _, cp := range sc.Chains {
		chain := snapChain{
			Name:   cp.Name,
			Stroke: chainStroke(cp.Color),
			Active: cp.Active,
			Dashed: cp.Reveal > 0,
		}
		for _, seg := range cp.Segments {
			x1, y1 := t.Apply(seg.From.X, seg.From.Y)
			cx, cy := t.Apply(seg.Ctrl.X, seg.Ctrl.Y)
			x2, y2 := t.Apply(seg.To.X, seg.To.Y)
			chain.Segments = append(chain.Segments, snapSegment{
				X1: x1, Y1: y1, CX: cx, CY: cy, X2: x2, Y2: y2,
			})
		}
		for _, b := range cp.Badges {
			x, y := t.Apply(b.At.X, b.At.Y)
			chain.Badges = append(chain.Badges, snapBadge{X: x, Y: y, Number: b.Number})
		}
		for _, br := range cp.Branches {
			x1, y1 := t.Apply(br.At.X, br.At.Y)
			x2, y2 := t.Apply(br.Tip.X, br.Tip.Y)
			chain.Branches = append(chain.Branches, snapBranch{
				X1: x1, Y1: y1, X2: x2, Y2: y2,
				Label: truncate(br.Label, 32),
			})
		}
		if cp.HasArrow {
			tipX, tipY := t.Apply(cp.ArrowAt.X, cp.ArrowAt.Y)
			dx, dy := cp.ArrowDir.X, cp.ArrowDir.Y
			if mag := math.Hypot(dx, dy); mag > 0 {
				dx /= mag
				dy /= mag
			}
			baseX := tipX - dx*arrowLen
			baseY := tipY - dy*arrowLen
			chain.Arrow = [6]float64{
				tipX, tipY,
				baseX - dy*arrowHalf, baseY + dx*arrowHalf,
				baseX + dy*arrowHalf, baseY - dx*arrowHalf,
			}
			chain.HasArrow = true
		}
		layout.Chains = append(layout.Chains, chain)
	}

	title := opts.Title
	if strings.TrimSpace(title) == "" {
		title = "Topology Snapshot"
	}
	source := opts.Source
	if strings.TrimSpace(source) == "" {
		source = "unknown"
	}
	layout.Summary = summaryInfo{
		Title:       title,
		Source:      source,
		NodeCount:   len(sc.Nodes),
		EdgeCount:   len(sc.Edges),
		ChainCount:  len(sc.Chains),
		Scale:       t.Scale,
		TopCritical: topCriticalLabel(opts.Insights),
	}
	return layout
}

func topCriticalLabel(ins *analysis.Insights) string {
	if ins == nil {
		return ""
	}
	top := ins.TopCritical(1)
	if len(top) == 0 {
		return "n/a"
	}
	name := top[0].Label
	if name == "" {
		name = top[0].ID
	}
	return fmt.Sprintf("%s (%.3f)", name, top[0].Score)
}

// --- rendering -------------------------------------------------------------

var (
	colorBackdrop = color.RGBA{0x11, 0x15, 0x1c, 0xff}
	colorHeaderBG = color.RGBA{0x1b, 0x21, 0x2b, 0xff}
	colorLegendBG = color.RGBA{0x1b, 0x21, 0x2b, 0xff}
	colorText     = color.RGBA{0xe6, 0xe8, 0xeb, 0xff}
	colorSubtle   = color.RGBA{0x8b, 0x94, 0x9e, 0xff}
	colorStroke   = color.RGBA{0xd0, 0xd7, 0xde, 0xff}
	colorEdge     = color.RGBA{0x3d, 0x44, 0x4d, 0xff}
	colorEdgeHot  = color.RGBA{0xff, 0xb3, 0x00, 0xff}
	colorSelected = color.RGBA{0x4c, 0xc2, 0xff, 0xff}
	colorChain    = color.RGBA{0xe5, 0x39, 0x35, 0xff}

	colorCritical = color.RGBA{0xd3, 0x2f, 0x2f, 0xff}
	colorHigh     = color.RGBA{0xf5, 0x7c, 0x00, 0xff}
	colorMedium   = color.RGBA{0xfb, 0xc0, 0x2d, 0xff}
	colorLow      = color.RGBA{0x7c, 0xb3, 0x42, 0xff}
	colorInfo     = color.RGBA{0x54, 0x6e, 0x7a, 0xff}

	colorHost    = color.RGBA{0x1e, 0x88, 0xe5, 0xff}
	colorService = color.RGBA{0x8e, 0x24, 0xaa, 0xff}
)

func severityFill(s model.Severity) (color.RGBA, bool) {
	switch s {
	case model.SeverityCritical:
		return colorCritical, true
	case model.SeverityHigh:
		return colorHigh, true
	case model.SeverityMedium:
		return colorMedium, true
	case model.SeverityLow:
		return colorLow, true
	case model.SeverityInfo:
		return colorInfo, true
	default:
		return color.RGBA{}, false
	}
}

func kindFill(k model.NodeKind) color.RGBA {
	if k == model.KindService {
		return colorService
	}
	return colorHost
}

// nodeFill picks the explicit metadata color when present, then the
// severity palette, then the kind palette.
func nodeFill(n scene.Node) color.RGBA {
	if c, ok := parseHexColor(n.Color); ok {
		return c
	}
	if c, ok := severityFill(n.Severity); ok {
		return c
	}
	return kindFill(n.Kind)
}

func chainStroke(hex string) color.RGBA {
	if c, ok := parseHexColor(hex); ok {
		return c
	}
	return colorChain
}

func renderSVG(path string, layout canvasLayout) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return renderSVGToWriter(file, layout)
}

func renderSVGToWriter(w io.Writer, layout canvasLayout) error {
	canvas := svg.New(w)
	canvas.Start(layout.Width, layout.Height)

	canvas.Def()
	canvas.Filter("glow")
	canvas.FeGaussianBlur(svg.Filterspec{In: "SourceGraphic"}, 3, 3)
	canvas.Fend()
	canvas.DefEnd()

	canvas.Rect(0, 0, layout.Width, layout.Height, fmt.Sprintf("fill:%s", css(colorBackdrop)))
	canvas.Roundrect(16, 16, layout.Width-32, int(layout.Header-24), 10, 10, fmt.Sprintf("fill:%s", css(colorHeaderBG)))

	drawSummaryBlockSVG(canvas, layout)
	if layout.Legend {
		drawLegendSVG(canvas, layout)
	}

	for _, e := range layout.Edges {
		stroke := colorEdge
		width := 1.2
		if e.Highlighted {
			stroke = colorEdgeHot
			width = 2.0
		}
		canvas.Line(int(e.X1), int(e.Y1), int(e.X2), int(e.Y2),
			fmt.Sprintf("stroke:%s;stroke-width:%.1f", css(stroke), width))
	}

	for _, n := range layout.Nodes {
		if n.Selected {
			canvas.Circle(int(n.X), int(n.Y), int(n.R+3),
				fmt.Sprintf("fill:none;stroke:%s;stroke-width:2", css(colorSelected)))
		}
		canvas.Circle(int(n.X), int(n.Y), int(n.R),
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1.2", css(n.Fill), css(colorStroke)))
		if n.Label != "" {
			canvas.Text(int(n.X), int(n.Y+n.R+14), n.Label,
				fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace;text-anchor:middle", css(colorSubtle)))
		}
	}

	for _, c := range layout.Chains {
		style := fmt.Sprintf("fill:none;stroke:%s;stroke-width:2.5;stroke-linecap:round", css(c.Stroke))
		if c.Active {
			glow := fmt.Sprintf("fill:none;stroke:%s;stroke-width:6;stroke-linecap:round;filter:url(#glow)", css(c.Stroke))
			for _, s := range c.Segments {
				canvas.Qbez(int(s.X1), int(s.Y1), int(s.CX), int(s.CY), int(s.X2), int(s.Y2), glow)
			}
			style = fmt.Sprintf("fill:none;stroke:%s;stroke-width:4;stroke-linecap:round", css(c.Stroke))
		}
		if c.Dashed {
			style += ";stroke-dasharray:7,5"
		}
		for _, s := range c.Segments {
			canvas.Qbez(int(s.X1), int(s.Y1), int(s.CX), int(s.CY), int(s.X2), int(s.Y2), style)
		}
		if c.HasArrow {
			a := c.Arrow
			canvas.Polygon(
				[]int{int(a[0]), int(a[2]), int(a[4])},
				[]int{int(a[1]), int(a[3]), int(a[5])},
				fmt.Sprintf("fill:%s", css(c.Stroke)),
			)
		}
		for _, br := range c.Branches {
			canvas.Line(int(br.X1), int(br.Y1), int(br.X2), int(br.Y2),
				fmt.Sprintf("stroke:%s;stroke-width:1.5;stroke-dasharray:4,3", css(c.Stroke)))
			if br.Label != "" {
				canvas.Text(int(br.X2+6), int(br.Y2+4), br.Label,
					fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace", css(colorSubtle)))
			}
		}
		for _, b := range c.Badges {
			canvas.Circle(int(b.X), int(b.Y), 9,
				fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(c.Stroke), css(colorBackdrop)))
			canvas.Text(int(b.X), int(b.Y+4), fmt.Sprintf("%d", b.Number),
				fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace;font-weight:bold;text-anchor:middle", css(colorText)))
		}
	}

	canvas.End()
	return nil
}

func renderPNG(path string, layout canvasLayout) error {
	dc := gg.NewContext(layout.Width, layout.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()

	dc.SetColor(colorHeaderBG)
	dc.DrawRoundedRectangle(16, 16, float64(layout.Width)-32, layout.Header-24, 10)
	dc.Fill()

	dc.SetFontFace(basicfont.Face7x13)

	drawSummaryBlock(dc, layout)
	if layout.Legend {
		drawLegend(dc, layout)
	}

	for _, e := range layout.Edges {
		if e.Highlighted {
			dc.SetColor(colorEdgeHot)
			dc.SetLineWidth(2)
		} else {
			dc.SetColor(colorEdge)
			dc.SetLineWidth(1.2)
		}
		dc.DrawLine(e.X1, e.Y1, e.X2, e.Y2)
		dc.Stroke()
	}

	for _, n := range layout.Nodes {
		if n.Selected {
			dc.SetColor(colorSelected)
			dc.SetLineWidth(2)
			dc.DrawCircle(n.X, n.Y, n.R+3)
			dc.Stroke()
		}
		dc.SetColor(n.Fill)
		dc.DrawCircle(n.X, n.Y, n.R)
		dc.Fill()
		dc.SetColor(colorStroke)
		dc.SetLineWidth(1.2)
		dc.DrawCircle(n.X, n.Y, n.R)
		dc.Stroke()
		if n.Label != "" {
			dc.SetColor(colorSubtle)
			dc.DrawStringAnchored(n.Label, n.X, n.Y+n.R+12, 0.5, 0.5)
		}
	}

	for _, c := range layout.Chains {
		if c.Active {
			// Wide translucent pass underneath stands in for the glow.
			under := c.Stroke
			under.A = 0x50
			dc.SetColor(under)
			dc.SetLineWidth(7)
			strokeChainPath(dc, c)
		}
		dc.SetColor(c.Stroke)
		if c.Active {
			dc.SetLineWidth(4)
		} else {
			dc.SetLineWidth(2.5)
		}
		if c.Dashed {
			dc.SetDash(7, 5)
		}
		strokeChainPath(dc, c)
		dc.SetDash()

		if c.HasArrow {
			a := c.Arrow
			dc.NewSubPath()
			dc.MoveTo(a[0], a[1])
			dc.LineTo(a[2], a[3])
			dc.LineTo(a[4], a[5])
			dc.ClosePath()
			dc.Fill()
		}
		for _, br := range c.Branches {
			dc.SetColor(c.Stroke)
			dc.SetLineWidth(1.5)
			dc.SetDash(4, 3)
			dc.DrawLine(br.X1, br.Y1, br.X2, br.Y2)
			dc.Stroke()
			dc.SetDash()
			if br.Label != "" {
				dc.SetColor(colorSubtle)
				dc.DrawStringAnchored(br.Label, br.X2+6, br.Y2, 0, 0.5)
			}
		}
		for _, b := range c.Badges {
			dc.SetColor(c.Stroke)
			dc.DrawCircle(b.X, b.Y, 9)
			dc.Fill()
			dc.SetColor(colorText)
			dc.DrawStringAnchored(fmt.Sprintf("%d", b.Number), b.X, b.Y, 0.5, 0.5)
		}
	}

	return dc.SavePNG(path)
}

func strokeChainPath(dc *gg.Context, c snapChain) {
	for _, s := range c.Segments {
		dc.MoveTo(s.X1, s.Y1)
		dc.QuadraticTo(s.CX, s.CY, s.X2, s.Y2)
	}
	dc.Stroke()
}

func drawSummaryBlock(dc *gg.Context, layout canvasLayout) {
	dc.SetColor(colorText)
	dc.DrawStringAnchored(layout.Summary.Title, 32, 44, 0, 0.5)
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(fmt.Sprintf("source: %s", layout.Summary.Source), 32, 64, 0, 0.5)
	dc.DrawStringAnchored(summaryCounts(layout.Summary), 32, 84, 0, 0.5)
	if layout.Summary.TopCritical != "" {
		dc.DrawStringAnchored(fmt.Sprintf("top critical: %s", layout.Summary.TopCritical), 32, 104, 0, 0.5)
	}
}

func drawSummaryBlockSVG(canvas *svg.SVG, layout canvasLayout) {
	canvas.Text(32, 44, layout.Summary.Title,
		fmt.Sprintf("fill:%s;font-size:16px;font-family:monospace;font-weight:bold", css(colorText)))
	canvas.Text(32, 64, fmt.Sprintf("source: %s", layout.Summary.Source),
		fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", css(colorSubtle)))
	canvas.Text(32, 84, summaryCounts(layout.Summary),
		fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", css(colorSubtle)))
	if layout.Summary.TopCritical != "" {
		canvas.Text(32, 104, fmt.Sprintf("top critical: %s", layout.Summary.TopCritical),
			fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", css(colorSubtle)))
	}
}

func summaryCounts(s summaryInfo) string {
	return fmt.Sprintf("nodes: %d  edges: %d  chains: %d  scale: %.2f",
		s.NodeCount, s.EdgeCount, s.ChainCount, s.Scale)
}

func drawLegend(dc *gg.Context, layout canvasLayout) {
	boxW := 190.0
	boxH := 128.0
	x := float64(layout.Width) - boxW - 20
	y := 24.0
	dc.SetColor(colorLegendBG)
	dc.DrawRoundedRectangle(x, y, boxW, boxH, 10)
	dc.Fill()
	dc.SetColor(colorStroke)
	dc.DrawRoundedRectangle(x, y, boxW, boxH, 10)
	dc.Stroke()

	dc.SetColor(colorText)
	dc.DrawStringAnchored("Severity", x+12, y+18, 0, 0.5)
	drawLegendRow(dc, x+12, y+36, colorCritical, "Critical")
	drawLegendRow(dc, x+12, y+52, colorHigh, "High")
	drawLegendRow(dc, x+12, y+68, colorMedium, "Medium")
	drawLegendRow(dc, x+12, y+84, colorLow, "Low")
	drawLegendRow(dc, x+12, y+100, colorInfo, "Info")

	dc.SetColor(colorHost)
	dc.DrawCircle(x+19, y+116, 6)
	dc.Fill()
	dc.SetColor(colorService)
	dc.DrawCircle(x+36, y+116, 4)
	dc.Fill()
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored("host / service", x+48, y+116, 0, 0.5)
}

func drawLegendRow(dc *gg.Context, x, y float64, c color.RGBA, label string) {
	dc.SetColor(c)
	dc.DrawRoundedRectangle(x, y-8, 14, 14, 3)
	dc.Fill()
	dc.SetColor(colorStroke)
	dc.DrawRoundedRectangle(x, y-8, 14, 14, 3)
	dc.Stroke()
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(label, x+20, y, 0, 0.5)
}

func drawLegendSVG(canvas *svg.SVG, layout canvasLayout) {
	boxW := 190
	boxH := 128
	x := layout.Width - boxW - 20
	y := 24
	canvas.Roundrect(x, y, boxW, boxH, 10, 10,
		fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(colorLegendBG), css(colorStroke)))
	canvas.Text(x+12, y+18, "Severity",
		fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace;font-weight:bold", css(colorText)))
	drawLegendRowSVG(canvas, x+12, y+36, colorCritical, "Critical")
	drawLegendRowSVG(canvas, x+12, y+52, colorHigh, "High")
	drawLegendRowSVG(canvas, x+12, y+68, colorMedium, "Medium")
	drawLegendRowSVG(canvas, x+12, y+84, colorLow, "Low")
	drawLegendRowSVG(canvas, x+12, y+100, colorInfo, "Info")

	canvas.Circle(x+19, y+116, 6, fmt.Sprintf("fill:%s", css(colorHost)))
	canvas.Circle(x+36, y+116, 4, fmt.Sprintf("fill:%s", css(colorService)))
	canvas.Text(x+48, y+120, "host / service",
		fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))
}

func drawLegendRowSVG(canvas *svg.SVG, x, y int, c color.RGBA, label string) {
	canvas.Roundrect(x, y-8, 14, 14, 3, 3,
		fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(c), css(colorStroke)))
	canvas.Text(x+20, y+4, label,
		fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))
}

// --- helpers ---------------------------------------------------------------

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func parseHexColor(s string) (color.RGBA, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.RGBA{}, false
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, true
}
