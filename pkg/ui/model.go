package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cbayliss/netweave/internal/datasource"
	"github.com/cbayliss/netweave/pkg/analysis"
	"github.com/cbayliss/netweave/pkg/config"
	"github.com/cbayliss/netweave/pkg/debug"
	"github.com/cbayliss/netweave/pkg/export"
	"github.com/cbayliss/netweave/pkg/metrics"
	"github.com/cbayliss/netweave/pkg/model"
	"github.com/cbayliss/netweave/pkg/overlay"
	"github.com/cbayliss/netweave/pkg/scene"
	"github.com/cbayliss/netweave/pkg/selection"
	"github.com/cbayliss/netweave/pkg/sim"
	"github.com/cbayliss/netweave/pkg/viewport"
	"github.com/cbayliss/netweave/pkg/watcher"
)

// FrameMsg drives one frame: simulation tick, viewport animation step,
// overlay sync, scene rebuild.
type FrameMsg struct{ At time.Time }

// FileChangedMsg reports a data file change from a watcher.
type FileChangedMsg struct{ Path string }

// ReloadedMsg carries a freshly loaded bundle, or the load error.
type ReloadedMsg struct {
	Bundle *datasource.Bundle
	Err    error
}

// ExportedMsg reports the outcome of a snapshot export.
type ExportedMsg struct {
	Path string
	Err  error
}

// Panel identifies which component has keyboard focus. The graph is
// the default; tab cycles through the side panels and back.
type Panel int

const (
	PanelGraph Panel = iota
	PanelChains
	PanelDetail
	PanelInsights
	panelCount
)

// selectionFeed carries selection-changed callback output into the
// update loop. The pointer survives bubbletea's model copies.
type selectionFeed struct {
	ids     []string
	changed bool
}

// Model is the root bubbletea model. The update loop is the only
// writer: frames advance the simulation synchronously, loads happen in
// commands and arrive as messages carrying complete replacement data.
type Model struct {
	cfg     config.Config
	theme   Theme
	dataDir string

	bundle   *datasource.Bundle
	topology *model.Topology
	chains   []*model.AttackChain

	simulation  *sim.Simulation
	vp          *viewport.Viewport
	sel         *selection.State
	index       *overlay.PositionIndex
	overlaySync *overlay.Synchronizer
	sc          *scene.Scene

	insights *analysis.Insights
	audits   []analysis.ChainAudit
	critRank map[string]int
	notes    map[model.EntityKey][]ChainHopNote

	canvas    *Canvas
	disp      *Dispatcher
	gestures  Gestures
	search    SearchModel
	chainList ChainListModel
	detail    DetailModel
	insightsP InsightsModel
	helpModel help.Model

	watchers []*watcher.Watcher
	selFeed  *selectionFeed

	width, height int
	graphCols     int
	graphRows     int
	sideInner     int
	bodyHeight    int
	chainsRows    int
	detailRows    int
	insightsRows  int
	ready         bool

	focusedPanel Panel
	searching    bool
	showHelp     bool
	statusMsg    string

	frameInterval time.Duration
}

// NewModel builds the root model around an already loaded bundle.
// bundle may be nil; the Init command then loads from dataDir.
func NewModel(cfg config.Config, dataDir string, bundle *datasource.Bundle) Model {
	r := lipgloss.NewRenderer(os.Stdout)
	switch cfg.UI.Theme {
	case "light":
		r.SetHasDarkBackground(false)
	case "dark":
		r.SetHasDarkBackground(true)
	}
	theme := DefaultTheme(r)

	fps := cfg.UI.FPS
	if fps < 1 {
		fps = 30
	}

	m := Model{
		cfg:           cfg,
		theme:         theme,
		dataDir:       dataDir,
		width:         120,
		height:        40,
		ready:         true,
		frameInterval: time.Second / time.Duration(fps),
		canvas:        NewCanvas(80, 36),
		disp:          NewDispatcher(DefaultKeyMap()),
		sel:           selection.New(),
		index:         overlay.NewPositionIndex(),
		search:        NewSearchModel(theme),
		chainList:     NewChainListModel(theme),
		detail:        NewDetailModel(theme),
		insightsP:     NewInsightsModel(theme),
		helpModel:     help.New(),
		selFeed:       &selectionFeed{},
	}
	m.overlaySync = overlay.NewSynchronizer(m.index)
	m.vp = viewport.New(80, 72)
	m.disp.Activate()

	feed := m.selFeed
	m.sel.OnChange(func(ids []string) {
		feed.ids = append(feed.ids[:0], ids...)
		feed.changed = true
	})

	m.layout()
	m.startWatchers()
	if bundle != nil {
		m.applyBundle(bundle)
	}
	return m
}

func (m *Model) startWatchers() {
	names := []string{
		datasource.TopologyFileName,
		datasource.ChainsFileName,
		datasource.DBFileName,
	}
	for _, name := range names {
		path := filepath.Join(m.dataDir, name)
		w, err := watcher.New(path)
		if err != nil {
			debug.Log("ui: watcher %s: %v", path, err)
			continue
		}
		if err := w.Start(); err != nil {
			debug.Log("ui: watcher start %s: %v", path, err)
			continue
		}
		m.watchers = append(m.watchers, w)
	}
}

// layout recomputes every layout-derived dimension from the terminal
// size. The viewport's screen space counts half rows vertically.
func (m *Model) layout() {
	const headerH, footerH = 1, 1
	bodyH := m.height - headerH - footerH
	if bodyH < 7 {
		bodyH = 7
	}
	m.bodyHeight = bodyH

	graphOuter := int(float64(m.width) * m.cfg.UI.SplitRatio)
	if graphOuter > m.width-26 {
		graphOuter = m.width - 26
	}
	if graphOuter < 32 {
		graphOuter = 32
	}
	sideOuter := m.width - graphOuter

	m.graphCols = graphOuter - 2
	m.graphRows = bodyH - 2
	if m.graphCols < 10 {
		m.graphCols = 10
	}
	if m.graphRows < 5 {
		m.graphRows = 5
	}
	m.sideInner = sideOuter - 2
	if m.sideInner < 12 {
		m.sideInner = 12
	}

	m.chainsRows = bodyH/4 - 2
	if m.chainsRows < 4 {
		m.chainsRows = 4
	}
	m.insightsRows = bodyH/3 - 2
	if m.insightsRows < 5 {
		m.insightsRows = 5
	}
	m.detailRows = bodyH - m.chainsRows - m.insightsRows - 6
	if m.detailRows < 4 {
		m.detailRows = 4
	}

	m.canvas.Resize(m.graphCols, m.graphRows)
	m.vp.SetSize(float64(m.graphCols), float64(m.graphRows*halfRowsPerRow))
	if m.simulation != nil {
		m.simulation.SetCenter(float64(m.graphCols), float64(m.graphRows*halfRowsPerRow))
	}
	m.search.SetSize(m.graphCols, m.graphRows)
	m.chainList.SetSize(m.sideInner)
	m.detail.SetSize(m.sideInner)
	m.insightsP.SetSize(m.sideInner, m.insightsRows)
	m.helpModel.Width = m.width
}

// applyBundle swaps topology and chain data wholesale: a fresh
// simulation replaces the old one before it ever ticks, the position
// index is rebuilt, selection is pruned to surviving nodes.
func (m *Model) applyBundle(b *datasource.Bundle) {
	var summary string
	if m.bundle != nil {
		metrics.TopologyReloads.Inc()
		if diff := datasource.DiffBundles(m.bundle, b); diff.HasChanges() {
			summary = diff.Summary()
		} else {
			summary = "no data changes"
		}
	}

	m.bundle = b
	m.topology = b.Topology
	m.chains = b.Chains

	worldW := float64(m.graphCols)
	worldH := float64(m.graphRows * halfRowsPerRow)
	m.simulation = sim.New(m.topology, worldW, worldH, m.simOptions()...)

	m.index.Rebuild(m.topology)
	m.overlaySync.SetChains(b.Chains)
	m.sel.PruneTo(m.topology.NodeIDs())
	m.search.SetTopology(m.topology)
	m.recomputeAnalysis()
	m.rebuildNotes()
	m.rebuildScene()

	if summary != "" {
		m.statusMsg = summary
	}
	debug.Log("ui: applied %s (%d nodes, %d chains)",
		b.Source.Path, len(b.Topology.Nodes), len(b.Chains))
}

func (m *Model) simOptions() []sim.Option {
	var opts []sim.Option
	s := m.cfg.Simulation
	if s.ChargeStrength != 0 {
		opts = append(opts, sim.WithChargeStrength(s.ChargeStrength))
	}
	if s.LinkDistance > 0 {
		opts = append(opts, sim.WithLinkDistance(s.LinkDistance))
	}
	if s.VelocityDecay > 0 {
		opts = append(opts, sim.WithVelocityDecay(s.VelocityDecay))
	}
	return opts
}

func (m *Model) recomputeAnalysis() {
	if m.topology == nil {
		m.insights = nil
		m.audits = nil
		m.critRank = nil
		m.insightsP.SetData(nil, nil, nil, nil)
		return
	}
	an := analysis.NewAnalyzer(m.topology)
	m.insights = an.Analyze()
	m.audits = an.AuditChains(m.chains)

	ranked := m.insights.TopCritical(m.insights.NodeCount)
	m.critRank = make(map[string]int, len(ranked))
	for i, rn := range ranked {
		m.critRank[rn.ID] = i + 1
	}

	m.insightsP.SetData(m.insights, m.insights.TopCritical(5), m.insights.TopBottlenecks(5), m.audits)
}

func (m *Model) rebuildNotes() {
	m.notes = make(map[model.EntityKey][]ChainHopNote, len(m.chains))
	for _, ch := range m.chains {
		for _, hop := range ch.SortedNodes() {
			m.notes[hop.Key()] = append(m.notes[hop.Key()], ChainHopNote{
				ChainName: ch.Name,
				Color:     ch.DisplayColor(),
				Sequence:  hop.SequenceOrder,
				Notes:     hop.MethodNotes,
				Branch:    hop.BranchDescription,
			})
		}
	}
}

func (m *Model) rebuildScene() {
	if m.topology == nil {
		m.sc = nil
		return
	}
	m.sc = scene.Build(m.topology, m.vp, m.sel, m.overlaySync.Sync())
}

// Init schedules the frame loop, one blocking command per watcher, and
// an initial load when no bundle was supplied up front.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.frameTickCmd()}
	for _, w := range m.watchers {
		cmds = append(cmds, watchCmd(w))
	}
	if m.bundle == nil {
		cmds = append(cmds, m.reloadCmd())
	}
	return tea.Batch(cmds...)
}

func (m Model) frameTickCmd() tea.Cmd {
	return tea.Tick(m.frameInterval, func(t time.Time) tea.Msg {
		return FrameMsg{At: t}
	})
}

func watchCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{Path: w.Path()}
	}
}

func (m Model) reloadCmd() tea.Cmd {
	dir := m.dataDir
	return func() tea.Msg {
		b, err := datasource.LoadBundle(dir)
		return ReloadedMsg{Bundle: b, Err: err}
	}
}

// exportCmd snapshots the current scene and writes it off the update
// loop. The geometry is copied before the goroutine starts, so the
// running simulation can't smear the output.
func (m Model) exportCmd() tea.Cmd {
	if m.sc == nil || len(m.sc.Nodes) == 0 {
		return func() tea.Msg {
			return ExportedMsg{Err: fmt.Errorf("no topology to export")}
		}
	}
	snap := m.sc.Snapshot()
	ins := m.insights
	source := ""
	if m.bundle != nil {
		source = m.bundle.Source.Path
	}
	legend := m.cfg.UI.ShowLegend
	path := filepath.Join(m.dataDir,
		fmt.Sprintf("netweave-%s.svg", time.Now().Format("20060102-150405")))

	return func() tea.Msg {
		err := export.SaveSceneSnapshot(export.SceneSnapshotOptions{
			Path:     path,
			Title:    "netweave snapshot",
			Source:   source,
			Scene:    snap,
			Insights: ins,
			Legend:   legend,
		})
		if err != nil {
			return ExportedMsg{Err: err}
		}
		if err := clipboard.WriteAll(path); err != nil {
			debug.Log("ui: clipboard: %v", err)
		}
		return ExportedMsg{Path: path}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FrameMsg:
		return m.handleFrame(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.WindowSizeMsg:
		if msg.Width > 0 && msg.Height > 0 {
			m.width, m.height = msg.Width, msg.Height
			m.layout()
			m.rebuildScene()
		}
		return m, nil
	case FileChangedMsg:
		debug.Log("ui: change detected: %s", msg.Path)
		m.statusMsg = "data changed, reloading"
		cmds := []tea.Cmd{m.reloadCmd()}
		for _, w := range m.watchers {
			if w.Path() == msg.Path {
				cmds = append(cmds, watchCmd(w))
			}
		}
		return m, tea.Batch(cmds...)
	case ReloadedMsg:
		if msg.Err != nil {
			m.statusMsg = "reload failed: " + msg.Err.Error()
			debug.Log("ui: reload: %v", msg.Err)
			return m, nil
		}
		m.applyBundle(msg.Bundle)
		return m, nil
	case ExportedMsg:
		if msg.Err != nil {
			m.statusMsg = "export failed: " + msg.Err.Error()
		} else {
			m.statusMsg = "exported " + msg.Path + " (path copied)"
		}
		return m, nil
	}
	return m, nil
}

// handleFrame advances exactly one simulation tick, steps the viewport
// animation, re-syncs the overlay, and rebuilds the scene, all within
// the frame.
func (m Model) handleFrame(msg FrameMsg) (tea.Model, tea.Cmd) {
	if g := m.gestures.Tick(msg.At); g.Kind == GestureLongPress {
		m.sel.LongPress(g.NodeID)
	}

	if m.simulation != nil && !m.simulation.Settled() {
		m.simulation.Tick()
	}
	m.vp.Step()
	m.rebuildScene()

	if m.selFeed.changed {
		m.selFeed.changed = false
		switch n := len(m.selFeed.ids); {
		case n == 0:
			m.statusMsg = "selection cleared"
		case n == 1:
			m.statusMsg = "selected " + m.selFeed.ids[0]
		default:
			m.statusMsg = fmt.Sprintf("selected %d nodes", n)
		}
	}

	return m, m.frameTickCmd()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	if m.searching {
		switch msg.String() {
		case "esc":
			m.closeSearch()
		case "enter":
			if id := m.search.Selected(); id != "" {
				m.sel.Click(id)
				m.focusNode(id)
				m.statusMsg = "jumped to " + id
			}
			m.closeSearch()
		case "up", "ctrl+k":
			m.search.MoveUp()
		case "down", "ctrl+j":
			m.search.MoveDown()
		default:
			m.search.UpdateInput(msg)
		}
		return m, nil
	}

	// Any keypress clears the previous status flash.
	m.statusMsg = ""

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.focusedPanel != PanelGraph {
		return m.handlePanelKey(msg)
	}

	if action, ok := m.disp.Dispatch(msg); ok {
		return m.applyAction(action)
	}
	return m, nil
}

// handlePanelKey routes keys while a side panel has focus. The graph
// dispatcher is deactivated here; each panel consumes its own keys.
func (m Model) handlePanelKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.quit()
	case "tab":
		m.cycleFocus()
		return m, nil
	case "esc":
		m.focusGraph()
		return m, nil
	}

	switch m.focusedPanel {
	case PanelChains:
		switch msg.String() {
		case "up", "k", "[":
			m.cycleChain(-1)
		case "down", "j", "]":
			m.cycleChain(1)
		case "enter", "v", " ":
			m.toggleActiveChain()
		}
	case PanelInsights:
		switch msg.String() {
		case "up", "k":
			m.insightsP.ScrollUp()
		case "down", "j":
			m.insightsP.ScrollDown()
		}
	}
	return m, nil
}

func (m Model) applyAction(a Action) (tea.Model, tea.Cmd) {
	switch a {
	case ActionZoomIn:
		m.vp.ZoomIn()
	case ActionZoomOut:
		m.vp.ZoomOut()
	case ActionResetView:
		m.vp.Reset()
	case ActionFitView:
		if m.sc != nil && m.sc.HasBounds {
			m.vp.FitTo(m.sc.Bounds)
		} else {
			m.statusMsg = "nothing to fit"
		}
	case ActionSelectAll:
		if m.topology != nil {
			ids := make([]string, 0, len(m.topology.Nodes))
			for _, n := range m.topology.Nodes {
				ids = append(ids, n.ID)
			}
			m.sel.SelectAll(ids)
		}
	case ActionClearSelection:
		m.sel.Clear()
	case ActionSearch:
		m.openSearch()
	case ActionCyclePanel:
		m.cycleFocus()
	case ActionPrevChain:
		m.cycleChain(-1)
	case ActionNextChain:
		m.cycleChain(1)
	case ActionToggleChain:
		m.toggleActiveChain()
	case ActionExport:
		m.statusMsg = "exporting..."
		return m, m.exportCmd()
	case ActionCopyIDs:
		m.copySelection()
	case ActionHelp:
		m.showHelp = true
	case ActionQuit:
		return m.quit()
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.searching || m.showHelp {
		return m, nil
	}
	cx, cy, inside := m.graphCell(msg.X, msg.Y)

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		if inside {
			m.vp.ZoomAt(float64(cx), float64(cy*halfRowsPerRow), viewport.ZoomInFactor)
		}
	case msg.Button == tea.MouseButtonWheelDown:
		if inside {
			m.vp.ZoomAt(float64(cx), float64(cy*halfRowsPerRow), viewport.ZoomOutFactor)
		}
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if !inside {
			return m, nil
		}
		m.gestures.Press(HitNode(m.sc, cx, cy), cx, cy, msg.Ctrl, time.Now())
	case msg.Action == tea.MouseActionMotion:
		g := m.gestures.Motion(cx, cy)
		switch g.Kind {
		case GestureDragNode:
			wx, wy := m.vp.ScreenToWorld(float64(cx), float64(cy*halfRowsPerRow))
			if m.simulation != nil {
				m.simulation.Pin(g.NodeID, wx, wy)
			}
		case GesturePan:
			m.vp.PanBy(float64(g.DX), float64(g.DY*halfRowsPerRow))
		default:
			if inside {
				m.sel.SetHovered(HitNode(m.sc, cx, cy))
			} else {
				m.sel.SetHovered("")
			}
		}
	case msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft:
		g := m.gestures.Release(cx, cy, time.Now())
		switch g.Kind {
		case GestureClick:
			m.sel.Click(g.NodeID)
		case GestureToggle:
			m.sel.Toggle(g.NodeID)
		case GestureDoubleClick:
			m.focusNode(g.NodeID)
		case GestureBackgroundClick:
			if inside {
				m.sel.ClickBackground()
			}
		case GestureDragEnd:
			if m.simulation != nil {
				m.simulation.Release(g.NodeID)
			}
		}
	}
	return m, nil
}

// graphCell converts terminal coordinates to canvas-local cells.
// Header row plus the panel border offset the content by (1, 2).
func (m Model) graphCell(x, y int) (cx, cy int, inside bool) {
	cx = x - 1
	cy = y - 2
	inside = cx >= 0 && cx < m.graphCols && cy >= 0 && cy < m.graphRows
	return cx, cy, inside
}

func (m *Model) openSearch() {
	m.searching = true
	m.disp.SetTyping(true)
	m.search.SetTopology(m.topology)
	m.search.Reset()
}

func (m *Model) closeSearch() {
	m.searching = false
	m.disp.SetTyping(false)
	m.search.Reset()
}

func (m *Model) cycleFocus() {
	m.focusedPanel = (m.focusedPanel + 1) % panelCount
	if m.focusedPanel == PanelGraph {
		m.disp.Activate()
	} else {
		m.disp.Deactivate()
	}
}

func (m *Model) focusGraph() {
	m.focusedPanel = PanelGraph
	m.disp.Activate()
}

func (m *Model) focusNode(id string) {
	if m.topology == nil {
		return
	}
	if n := m.topology.NodeByID(id); n != nil {
		m.vp.CenterOn(n.X, n.Y)
	}
}

func (m *Model) cycleChain(delta int) {
	chains := m.overlaySync.Chains()
	if len(chains) == 0 {
		m.statusMsg = "no chains loaded"
		return
	}
	active := m.overlaySync.Active()
	next := 0
	if delta < 0 {
		next = len(chains) - 1
	}
	for i, ch := range chains {
		if ch.ID == active {
			next = (i + delta + len(chains)) % len(chains)
			break
		}
	}
	m.overlaySync.SetActive(chains[next].ID)
	name := chains[next].Name
	if name == "" {
		name = chains[next].ID
	}
	m.statusMsg = "active chain: " + name
}

func (m *Model) toggleActiveChain() {
	id := m.overlaySync.Active()
	if id == "" {
		chains := m.overlaySync.Chains()
		if len(chains) == 0 {
			m.statusMsg = "no chains loaded"
			return
		}
		id = chains[0].ID
		m.overlaySync.SetActive(id)
	}
	if m.overlaySync.ToggleVisible(id) {
		m.statusMsg = "chain shown"
	} else {
		m.statusMsg = "chain hidden"
	}
}

func (m *Model) copySelection() {
	ids := m.sel.Selected()
	if len(ids) == 0 {
		m.statusMsg = "nothing selected"
		return
	}
	if err := clipboard.WriteAll(strings.Join(ids, "\n")); err != nil {
		m.statusMsg = "clipboard unavailable"
		debug.Log("ui: clipboard: %v", err)
		return
	}
	m.statusMsg = fmt.Sprintf("copied %d ids", len(ids))
}

// Stop halts the file watchers. Quitting through the TUI already stops
// them; hosts call Stop for exit paths that bypass the quit key.
func (m Model) Stop() {
	for _, w := range m.watchers {
		w.Stop()
	}
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.Stop()
	return m, tea.Quit
}

func (m Model) chainEntries() []ChainEntry {
	auditByID := make(map[string]analysis.ChainAudit, len(m.audits))
	for _, a := range m.audits {
		auditByID[a.ChainID] = a
	}
	chains := m.overlaySync.Chains()
	active := m.overlaySync.Active()
	entries := make([]ChainEntry, 0, len(chains))
	for _, ch := range chains {
		e := ChainEntry{
			ID:      ch.ID,
			Name:    ch.Name,
			Color:   ch.DisplayColor(),
			Visible: m.overlaySync.IsVisible(ch.ID),
			Active:  ch.ID == active,
		}
		if a, ok := auditByID[ch.ID]; ok {
			e.Resolved, e.Total = a.ResolvedHops, a.TotalHops
		}
		entries = append(entries, e)
	}
	return entries
}

func (m Model) detailData() DetailData {
	d := DetailData{
		Selected: m.sel.Selected(),
		Hovered:  m.sel.Hovered(),
	}
	if len(d.Selected) != 1 || m.topology == nil {
		return d
	}
	n := m.topology.NodeByID(d.Selected[0])
	if n == nil {
		return d
	}
	d.Node = n
	if m.insights != nil {
		d.Degree = m.insights.Degree[n.ID]
		d.Criticality = m.insights.Criticality[n.ID]
	}
	d.CritRank = m.critRank[n.ID]
	d.CritTotal = len(m.critRank)
	d.Hops = m.notes[n.Key()]
	return d
}

func (m Model) View() string {
	if !m.ready {
		return "initializing..."
	}
	done := metrics.Timer(metrics.UIRender)
	defer done()

	header := m.renderHeader()

	var graphContent string
	if m.searching {
		graphContent = m.search.View()
	} else {
		graphContent = m.canvas.Render(m.sc, m.theme, m.cfg.UI.ShowLegend)
	}
	graph := m.panelBox(graphContent, m.graphCols, m.graphRows, m.focusedPanel == PanelGraph)

	body := lipgloss.JoinHorizontal(lipgloss.Top, graph, m.renderSide())

	if m.showHelp {
		h := m.helpModel
		h.ShowAll = true
		box := FocusedPanelStyle.Padding(1, 2).Render(h.View(m.disp.Keys()))
		body = lipgloss.Place(m.width, lipgloss.Height(body),
			lipgloss.Center, lipgloss.Center, box)
	}

	view := lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderFooter())

	final := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		MaxHeight(m.height)
	return final.Render(view)
}

func (m Model) renderHeader() string {
	t := m.theme
	parts := []string{t.PrimaryBold.Render("netweave")}
	if m.bundle != nil {
		parts = append(parts, t.MutedText.Render(filepath.Base(m.bundle.Source.Path)))
	}
	if m.topology != nil {
		parts = append(parts, fmt.Sprintf("%d nodes  %d edges  %d chains",
			len(m.topology.Nodes), len(m.topology.Edges), len(m.chains)))
	}
	if m.simulation != nil {
		state := fmt.Sprintf("alpha %.2f", m.simulation.Alpha())
		if m.simulation.Settled() {
			state = "settled"
		}
		parts = append(parts, t.InfoText.Render(state))
	}
	parts = append(parts, t.InfoText.Render(fmt.Sprintf("%d%%", int(m.vp.Scale()*100+0.5))))

	left := strings.Join(parts, t.MutedText.Render(" | "))
	if m.statusMsg == "" {
		return left
	}
	status := t.SecondaryText.Render(m.statusMsg)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(status)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + status
}

func (m Model) renderFooter() string {
	if m.focusedPanel != PanelGraph {
		return m.theme.MutedText.Render("tab: next panel | esc: back to graph | q: quit")
	}
	return m.helpModel.View(m.disp.Keys())
}

func (m Model) renderSide() string {
	cl := m.chainList
	cl.SetEntries(m.chainEntries())
	chainBox := m.panelBox(cl.View(), m.sideInner, m.chainsRows, m.focusedPanel == PanelChains)

	det := m.detail
	detailBox := m.panelBox(det.View(m.detailData()), m.sideInner, m.detailRows, m.focusedPanel == PanelDetail)

	insBox := m.panelBox(m.insightsP.View(), m.sideInner, m.insightsRows, m.focusedPanel == PanelInsights)

	return lipgloss.JoinVertical(lipgloss.Left, chainBox, detailBox, insBox)
}

func (m Model) panelBox(content string, w, h int, focused bool) string {
	style := PanelStyle
	if focused {
		style = FocusedPanelStyle
	}
	return style.Width(w).Height(h).MaxHeight(h + 2).Render(content)
}
