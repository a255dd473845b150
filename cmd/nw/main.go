package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/cbayliss/netweave/internal/datasource"
	"github.com/cbayliss/netweave/pkg/analysis"
	"github.com/cbayliss/netweave/pkg/config"
	"github.com/cbayliss/netweave/pkg/debug"
	"github.com/cbayliss/netweave/pkg/export"
	"github.com/cbayliss/netweave/pkg/metrics"
	"github.com/cbayliss/netweave/pkg/overlay"
	"github.com/cbayliss/netweave/pkg/scene"
	"github.com/cbayliss/netweave/pkg/selection"
	"github.com/cbayliss/netweave/pkg/sim"
	"github.com/cbayliss/netweave/pkg/ui"
	"github.com/cbayliss/netweave/pkg/version"
	"github.com/cbayliss/netweave/pkg/viewport"
)

func main() {
	cpuProfile := flag.String("cpu-profile", "", "Write CPU profile to file")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	dataDir := flag.String("data-dir", "", "Directory searched for scan exports (default: $NW_DATA_DIR or current directory)")
	topologyPath := flag.String("topology", "", "Load this topology JSON file instead of discovering sources")
	chainsPath := flag.String("chains", "", "Load chains from this JSON file (use with --topology)")
	dbPath := flag.String("db", "", "Load this scanner database instead of discovering sources")
	snapshotPath := flag.String("snapshot", "", "Write an SVG/PNG snapshot to this path and exit without the TUI")
	snapshotTitle := flag.String("title", "", "Title rendered on the snapshot header (use with --snapshot)")
	width := flag.Int("width", 0, "Snapshot width in pixels (0 = derive from the layout)")
	height := flag.Int("height", 0, "Snapshot height in pixels (0 = derive from the layout)")
	wizardFlag := flag.Bool("wizard", false, "Run the interactive snapshot wizard and exit")
	fps := flag.Int("fps", 0, "Frame rate of the render loop (default 30)")
	flag.Parse()

	// CPU profiling support
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	if *help {
		fmt.Println("Usage: nw [options]")
		fmt.Println("\nA TUI viewer for network scan topologies and attack chains.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("nw %s\n", version.Version)
		os.Exit(0)
	}

	if *topologyPath != "" && *dbPath != "" {
		fmt.Fprintln(os.Stderr, "Error: --topology and --db are mutually exclusive")
		os.Exit(2)
	}

	// Load nw config for UI and simulation tunables.
	appCfg, cfgErr := config.Load()
	if cfgErr != nil {
		// Non-fatal: continue without config
		appCfg = config.DefaultConfig()
	}
	applyFlagOverrides(&appCfg, flagOverrides{
		dataDir:  *dataDir,
		topology: *topologyPath,
		chains:   *chainsPath,
		db:       *dbPath,
		fps:      *fps,
	})

	bundle, err := loadBundle(appCfg.Files)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scan data: %v\n", err)
		fmt.Fprintln(os.Stderr, "Point nw at a scan export with --data-dir, --topology or --db.")
		os.Exit(1)
	}
	if len(bundle.Topology.Nodes) == 0 {
		fmt.Printf("No nodes in %s. Run a scan and export it first.\n", bundle.Source.Path)
		os.Exit(0)
	}

	// Handle --wizard: interactive export, no TUI.
	if *wizardFlag {
		wcfg, err := export.NewSnapshotWizard().Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Snapshot wizard failed: %v\n", err)
			os.Exit(1)
		}
		w, h := wcfg.Dimensions()
		written, err := writeSnapshot(bundle, appCfg, snapshotOptions{
			path:     wcfg.Path,
			format:   wcfg.Format,
			title:    wcfg.Title,
			width:    w,
			height:   h,
			legend:   wcfg.Legend,
			insights: wcfg.Insights,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Exported %s\n", written)
		dumpMetrics()
		os.Exit(0)
	}

	// Handle --snapshot: headless export, no TUI.
	if *snapshotPath != "" {
		written, err := writeSnapshot(bundle, appCfg, snapshotOptions{
			path:     *snapshotPath,
			title:    *snapshotTitle,
			width:    *width,
			height:   *height,
			legend:   appCfg.UI.ShowLegend,
			insights: true,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Exported %s\n", written)
		dumpMetrics()
		os.Exit(0)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: stdout is not a terminal")
		fmt.Fprintln(os.Stderr, "Use --snapshot FILE to export a snapshot without the TUI.")
		os.Exit(1)
	}

	// Launch TUI; the watcher follows the directory the data came from.
	m := ui.NewModel(appCfg, filepath.Dir(bundle.Source.Path), bundle)
	defer m.Stop()

	if err := runTUIProgram(m); err != nil {
		fmt.Printf("Error running netweave: %v\n", err)
		os.Exit(1)
	}
	dumpMetrics()
}

// dumpMetrics writes the collected timings and counters to the debug
// log. A no-op unless NW_DEBUG is set.
func dumpMetrics() {
	if !debug.Enabled() {
		return
	}
	if data, err := metrics.Snapshot().JSON(); err == nil {
		debug.Log("metrics: %s", data)
	}
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set NW_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("NW_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	_, err := p.Run()
	if err != nil && (errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted)) {
		return nil
	}
	return err
}

// flagOverrides carries the command line values that shadow the config
// file. Zero values leave the config untouched.
type flagOverrides struct {
	dataDir  string
	topology string
	chains   string
	db       string
	fps      int
}

func applyFlagOverrides(cfg *config.Config, o flagOverrides) {
	if o.dataDir != "" {
		cfg.Files.DataDir = o.dataDir
	}
	if o.topology != "" {
		cfg.Files.Topology = o.topology
	}
	if o.chains != "" {
		cfg.Files.Chains = o.chains
	}
	if o.db != "" {
		cfg.Files.DB = o.db
	}
	if o.fps > 0 {
		cfg.UI.FPS = o.fps
		if cfg.UI.FPS > 120 {
			cfg.UI.FPS = 120
		}
	}
}

// loadBundle resolves the configured data location: an explicit
// database or topology path bypasses discovery, otherwise the data
// directory is searched for the freshest valid source.
func loadBundle(files config.FilesConfig) (*datasource.Bundle, error) {
	switch {
	case files.DB != "":
		return datasource.LoadBundleFromSource(datasource.DataSource{
			Type:     datasource.SourceTypeSQLite,
			Path:     files.DB,
			Priority: datasource.PrioritySQLite,
		})
	case files.Topology != "":
		return datasource.LoadBundleFromFiles(files.Topology, files.Chains)
	default:
		return datasource.LoadBundle(files.DataDir)
	}
}

type snapshotOptions struct {
	path     string
	format   string
	title    string
	width    int
	height   int
	legend   bool
	insights bool
}

// snapshotTickBudget bounds the headless layout run. Small graphs
// settle well inside it; large graphs are already warmed up and frozen
// by the solver itself.
const snapshotTickBudget = 2 * sim.WarmupTicks

// writeSnapshot runs the layout to rest and renders the scene to the
// requested file. It returns the path actually written, which may gain
// an extension the caller omitted.
func writeSnapshot(bundle *datasource.Bundle, cfg config.Config, opts snapshotOptions) (string, error) {
	path := snapshotFileName(opts.path, opts.format)

	worldW, worldH := float64(export.DefaultSnapshotWidth), float64(export.DefaultSnapshotHeight)
	if opts.width > 0 && opts.height > 0 {
		worldW, worldH = float64(opts.width), float64(opts.height)
	}

	var simOpts []sim.Option
	s := cfg.Simulation
	if s.ChargeStrength != 0 {
		simOpts = append(simOpts, sim.WithChargeStrength(s.ChargeStrength))
	}
	if s.LinkDistance > 0 {
		simOpts = append(simOpts, sim.WithLinkDistance(s.LinkDistance))
	}
	if s.VelocityDecay > 0 {
		simOpts = append(simOpts, sim.WithVelocityDecay(s.VelocityDecay))
	}

	layoutStart := time.Now()
	solver := sim.New(bundle.Topology, worldW, worldH, simOpts...)
	for i := 0; i < snapshotTickBudget && !solver.Settled(); i++ {
		solver.Tick()
	}
	debug.LogTiming("headless layout", time.Since(layoutStart))

	index := overlay.NewPositionIndex()
	index.Rebuild(bundle.Topology)
	sync := overlay.NewSynchronizer(index)
	sync.SetChains(bundle.Chains)

	sc := scene.Build(bundle.Topology, viewport.New(worldW, worldH), selection.New(), sync.Sync())

	var ins *analysis.Insights
	if opts.insights {
		ins = analysis.NewAnalyzer(bundle.Topology).Analyze()
	}

	err := export.SaveSceneSnapshot(export.SceneSnapshotOptions{
		Path:     path,
		Format:   opts.format,
		Title:    opts.title,
		Source:   bundle.Source.Path,
		Width:    opts.width,
		Height:   opts.height,
		Scene:    sc.Snapshot(),
		Insights: ins,
		Legend:   opts.legend,
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

// snapshotFileName appends the format extension when the requested
// path has none, so the reported output path matches the file written.
func snapshotFileName(path, format string) string {
	if path == "" || filepath.Ext(path) != "" {
		return path
	}
	ext := strings.TrimPrefix(strings.ToLower(format), ".")
	if ext == "" {
		ext = "svg"
	}
	return path + "." + ext
}
