// This file implements the interactive snapshot wizard. It guides the
// user through choosing an output path, format, size and content
// options, and remembers the answers for the next run.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cbayliss/netweave/pkg/config"

	"github.com/charmbracelet/huh"
	json "github.com/goccy/go-json"
	"golang.org/x/term"
)

// Default output dimensions when the saved size cannot be parsed.
const (
	DefaultSnapshotWidth  = 1600
	DefaultSnapshotHeight = 1000
)

// SnapshotWizardConfig holds the answers collected by the wizard.
type SnapshotWizardConfig struct {
	Path     string `json:"path"`
	Format   string `json:"format"` // "svg" or "png"
	Size     string `json:"size"`   // "WIDTHxHEIGHT"
	Title    string `json:"title,omitempty"`
	Legend   bool   `json:"legend"`
	Insights bool   `json:"insights"`
}

// Dimensions parses the stored size, falling back to the defaults when
// it is malformed.
func (c *SnapshotWizardConfig) Dimensions() (width, height int) {
	if _, err := fmt.Sscanf(c.Size, "%dx%d", &width, &height); err != nil || width <= 0 || height <= 0 {
		return DefaultSnapshotWidth, DefaultSnapshotHeight
	}
	return width, height
}

// SnapshotWizard handles the interactive export flow.
type SnapshotWizard struct {
	config *SnapshotWizardConfig
}

// NewSnapshotWizard creates a wizard seeded with sensible defaults.
func NewSnapshotWizard() *SnapshotWizard {
	return &SnapshotWizard{
		config: &SnapshotWizardConfig{
			Path:     "netweave-snapshot.svg",
			Format:   "svg",
			Size:     fmt.Sprintf("%dx%d", DefaultSnapshotWidth, DefaultSnapshotHeight),
			Legend:   true,
			Insights: true,
		},
	}
}

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form with appropriate settings based on TTY detection
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// Run executes the interactive wizard flow and returns the collected
// configuration. The answers are saved for the next invocation.
func (w *SnapshotWizard) Run() (*SnapshotWizardConfig, error) {
	saved, err := LoadSnapshotWizardConfig()
	if err == nil && saved != nil && saved.Path != "" {
		useSaved, err := w.offerSavedConfig(saved)
		if err != nil {
			return nil, err
		}
		if useSaved {
			w.config = saved
			return w.config, nil
		}
	}

	if err := w.collectOutputOptions(); err != nil {
		return nil, err
	}
	if err := w.collectContentOptions(); err != nil {
		return nil, err
	}

	// Saving the answers is best effort; the export itself must not
	// fail because the config directory is unwritable.
	if err := SaveSnapshotWizardConfig(w.config); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not save wizard settings: %v\n", err)
	}

	return w.config, nil
}

func (w *SnapshotWizard) offerSavedConfig(saved *SnapshotWizardConfig) (bool, error) {
	fmt.Println("Found previous snapshot settings:")
	fmt.Println("────────────────────────────────────────")
	fmt.Printf("  Path:   %s\n", saved.Path)
	fmt.Printf("  Format: %s\n", saved.Format)
	fmt.Printf("  Size:   %s\n", saved.Size)
	if saved.Title != "" {
		fmt.Printf("  Title:  %s\n", saved.Title)
	}
	fmt.Println("")

	useSaved := true
	form := newForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Export with these settings?").
				Description("Select No to reconfigure").
				Value(&useSaved).
				Affirmative("Yes, export").
				Negative("No, reconfigure"),
		),
	)

	if err := form.Run(); err != nil {
		return false, err
	}

	fmt.Println("")
	return useSaved, nil
}

func (w *SnapshotWizard) collectOutputOptions() error {
	fmt.Println("Step 1: Output")
	fmt.Println("────────────────────────────")

	form := newForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Output path").
				Value(&w.config.Path).
				Placeholder("netweave-snapshot.svg"),
			huh.NewSelect[string]().
				Title("Format").
				Options(
					huh.NewOption("SVG (vector, small files)", "svg"),
					huh.NewOption("PNG (raster)", "png"),
				).
				Value(&w.config.Format),
			huh.NewSelect[string]().
				Title("Size").
				Options(
					huh.NewOption("1600 x 1000", "1600x1000"),
					huh.NewOption("1920 x 1200", "1920x1200"),
					huh.NewOption("2560 x 1600", "2560x1600"),
				).
				Value(&w.config.Size),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	if w.config.Path == "" {
		w.config.Path = "netweave-snapshot." + w.config.Format
	}

	fmt.Println("")
	return nil
}

func (w *SnapshotWizard) collectContentOptions() error {
	fmt.Println("Step 2: Content")
	fmt.Println("────────────────────────────")

	form := newForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Snapshot title (optional)").
				Value(&w.config.Title).
				Placeholder("Topology Snapshot"),
			huh.NewConfirm().
				Title("Include severity legend?").
				Value(&w.config.Legend),
			huh.NewConfirm().
				Title("Include analysis summary?").
				Description("Adds the top critical node to the header").
				Value(&w.config.Insights),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	fmt.Println("")
	return nil
}

// SnapshotWizardConfigPath returns the path of the saved wizard answers.
func SnapshotWizardConfigPath() string {
	return filepath.Join(config.ConfigDir(), "snapshot-wizard.json")
}

// LoadSnapshotWizardConfig loads previously saved wizard answers.
func LoadSnapshotWizardConfig() (*SnapshotWizardConfig, error) {
	data, err := os.ReadFile(SnapshotWizardConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // no saved config
		}
		return nil, err
	}

	var cfg SnapshotWizardConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveSnapshotWizardConfig saves wizard answers for future runs.
func SaveSnapshotWizardConfig(cfg *SnapshotWizardConfig) error {
	path := SnapshotWizardConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
