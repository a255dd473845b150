package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cbayliss/netweave/internal/datasource"
	"github.com/cbayliss/netweave/pkg/config"
	"github.com/cbayliss/netweave/pkg/model"
	"github.com/cbayliss/netweave/pkg/testutil"
)

func TestApplyFlagOverrides(t *testing.T) {
	base := config.DefaultConfig()
	base.Files.DataDir = "/from/config"

	t.Run("zero values keep config", func(t *testing.T) {
		cfg := base
		applyFlagOverrides(&cfg, flagOverrides{})
		if cfg.Files.DataDir != "/from/config" || cfg.UI.FPS != 30 {
			t.Errorf("cfg = %+v", cfg)
		}
	})

	t.Run("flags shadow config", func(t *testing.T) {
		cfg := base
		applyFlagOverrides(&cfg, flagOverrides{
			dataDir:  "/from/flag",
			topology: "/t.json",
			chains:   "/c.json",
			db:       "/scan.db",
			fps:      60,
		})
		if cfg.Files.DataDir != "/from/flag" {
			t.Errorf("data dir = %q", cfg.Files.DataDir)
		}
		if cfg.Files.Topology != "/t.json" || cfg.Files.Chains != "/c.json" || cfg.Files.DB != "/scan.db" {
			t.Errorf("files = %+v", cfg.Files)
		}
		if cfg.UI.FPS != 60 {
			t.Errorf("fps = %d", cfg.UI.FPS)
		}
	})

	t.Run("fps clamped", func(t *testing.T) {
		cfg := base
		applyFlagOverrides(&cfg, flagOverrides{fps: 500})
		if cfg.UI.FPS != 120 {
			t.Errorf("fps = %d, want 120", cfg.UI.FPS)
		}
	})
}

func TestLoadBundleResolution(t *testing.T) {
	gen := testutil.NewDefault()
	topo := gen.ToTopology(gen.Line(3))
	chain := gen.ChainThrough(topo, "ch-1", "ingress", "test-n0", "test-n2")

	t.Run("discovery from data dir", func(t *testing.T) {
		dir := t.TempDir()
		testutil.WriteTopologyFile(t, dir, topo)

		b, err := loadBundle(config.FilesConfig{DataDir: dir})
		if err != nil {
			t.Fatalf("loadBundle: %v", err)
		}
		if b.Source.Type != datasource.SourceTypeJSON || len(b.Topology.Nodes) != 3 {
			t.Errorf("bundle = %+v", b.Source)
		}
	})

	t.Run("explicit topology bypasses discovery", func(t *testing.T) {
		topoDir := t.TempDir()
		chainDir := t.TempDir()
		topoPath := testutil.WriteTopologyFile(t, topoDir, topo)
		chainPath := testutil.WriteChainsFile(t, chainDir, []*model.AttackChain{chain})

		// The empty data dir would fail discovery, proving the
		// explicit paths won.
		b, err := loadBundle(config.FilesConfig{
			DataDir:  t.TempDir(),
			Topology: topoPath,
			Chains:   chainPath,
		})
		if err != nil {
			t.Fatalf("loadBundle: %v", err)
		}
		if len(b.Topology.Nodes) != 3 || len(b.Chains) != 1 {
			t.Errorf("loaded %d nodes, %d chains", len(b.Topology.Nodes), len(b.Chains))
		}
	})

	t.Run("explicit db wins over topology dir", func(t *testing.T) {
		dir := t.TempDir()
		testutil.WriteTopologyFile(t, dir, topo)

		_, err := loadBundle(config.FilesConfig{
			DataDir: dir,
			DB:      filepath.Join(dir, "absent.db"),
		})
		if err == nil {
			t.Fatal("missing db path did not fail the load")
		}
	})
}

func TestWriteSnapshot(t *testing.T) {
	gen := testutil.NewDefault()
	topo := gen.ToTopology(gen.Star(4))
	bundle := &datasource.Bundle{
		Topology: topo,
		Chains: []*model.AttackChain{
			gen.ChainThrough(topo, "ch-1", "pivot", "test-hub", "test-spoke1"),
		},
		Source: datasource.DataSource{Type: datasource.SourceTypeJSON, Path: "star.json"},
	}

	out := filepath.Join(t.TempDir(), "snap")
	written, err := writeSnapshot(bundle, config.DefaultConfig(), snapshotOptions{
		path:     out,
		title:    "staging segment",
		legend:   true,
		insights: true,
	})
	if err != nil {
		t.Fatalf("writeSnapshot: %v", err)
	}
	if written != out+".svg" {
		t.Errorf("written = %q, want svg extension added", written)
	}

	data, err := os.ReadFile(written)
	if err != nil {
		t.Fatalf("reading snapshot: %v", err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("output is not SVG")
	}
	if !strings.Contains(string(data), "staging segment") {
		t.Error("title missing from snapshot")
	}
}

func TestSnapshotFileName(t *testing.T) {
	tests := []struct {
		path, format, want string
	}{
		{"out.svg", "", "out.svg"},
		{"out.png", "svg", "out.png"},
		{"out", "", "out.svg"},
		{"out", "png", "out.png"},
		{"out", ".PNG", "out.png"},
		{"", "svg", ""},
	}
	for _, tt := range tests {
		if got := snapshotFileName(tt.path, tt.format); got != tt.want {
			t.Errorf("snapshotFileName(%q, %q) = %q, want %q", tt.path, tt.format, got, tt.want)
		}
	}
}
