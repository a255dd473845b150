// Package config handles loading and saving netweave configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/netweave/config.yaml
//   - Data:    ~/.local/share/netweave/ (exported snapshots)
//   - State:   ~/.local/state/netweave/ (recent data dirs)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// UIConfig holds viewer preference settings.
type UIConfig struct {
	FPS        int     `yaml:"fps,omitempty"`         // Frame rate of the tick loop (default 30)
	Theme      string  `yaml:"theme,omitempty"`       // dark, light
	ShowLegend bool    `yaml:"show_legend,omitempty"` // Severity/kind legend overlay
	SplitRatio float64 `yaml:"split_ratio,omitempty"` // Graph vs side panel (0.2-0.9)
}

// SimulationConfig overrides layout force parameters.
type SimulationConfig struct {
	ChargeStrength float64 `yaml:"charge_strength,omitempty"`
	LinkDistance   float64 `yaml:"link_distance,omitempty"`
	VelocityDecay  float64 `yaml:"velocity_decay,omitempty"`
}

// FilesConfig points at scan data outside the default discovery path.
type FilesConfig struct {
	DataDir  string `yaml:"data_dir,omitempty"`  // Directory searched for scan exports
	Topology string `yaml:"topology,omitempty"`  // Explicit topology.json path
	Chains   string `yaml:"chains,omitempty"`    // Explicit chains.json path
	DB       string `yaml:"db,omitempty"`        // Explicit scanner database path
}

// Config is the top-level configuration for nw.
type Config struct {
	UI         UIConfig         `yaml:"ui,omitempty"`
	Simulation SimulationConfig `yaml:"simulation,omitempty"`
	Files      FilesConfig      `yaml:"files,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		UI: UIConfig{
			FPS:        30,
			Theme:      "dark",
			ShowLegend: true,
			SplitRatio: 0.7,
		},
	}
}

// ConfigDir returns the XDG config directory for nw.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "netweave")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "netweave")
}

// DataDir returns the XDG data directory for nw.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "netweave")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "netweave")
}

// StateDir returns the XDG state directory for nw.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "netweave")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "netweave")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Files.DataDir = expandHome(cfg.Files.DataDir)
	cfg.Files.Topology = expandHome(cfg.Files.Topology)
	cfg.Files.Chains = expandHome(cfg.Files.Chains)
	cfg.Files.DB = expandHome(cfg.Files.DB)

	cfg.clampValues()
	return cfg, nil
}

// clampValues pulls out-of-range settings back to usable values rather
// than failing the load.
func (c *Config) clampValues() {
	if c.UI.FPS <= 0 {
		c.UI.FPS = 30
	}
	if c.UI.FPS > 120 {
		c.UI.FPS = 120
	}
	if c.UI.SplitRatio != 0 && (c.UI.SplitRatio < 0.2 || c.UI.SplitRatio > 0.9) {
		c.UI.SplitRatio = 0.7
	}
	if c.Simulation.VelocityDecay < 0 || c.Simulation.VelocityDecay >= 1 {
		c.Simulation.VelocityDecay = 0
	}
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
