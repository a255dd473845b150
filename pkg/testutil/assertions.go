package testutil

import (
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/cbayliss/netweave/pkg/model"
)

// AssertNodeCount verifies the expected number of nodes.
func AssertNodeCount(t *testing.T, topo *model.Topology, expected int) {
	t.Helper()
	if len(topo.Nodes) != expected {
		t.Errorf("expected %d nodes, got %d", expected, len(topo.Nodes))
	}
}

// AssertNoDuplicateIDs verifies all node IDs are unique.
func AssertNoDuplicateIDs(t *testing.T, topo *model.Topology) {
	t.Helper()
	seen := make(map[string]bool)
	for _, n := range topo.Nodes {
		if seen[n.ID] {
			t.Errorf("duplicate node ID: %s", n.ID)
		}
		seen[n.ID] = true
	}
}

// AssertValid verifies the topology passes structural validation.
func AssertValid(t *testing.T, topo *model.Topology) {
	t.Helper()
	if err := topo.Validate(); err != nil {
		t.Errorf("topology invalid: %v", err)
	}
}

// AssertEdge verifies that an edge between the two IDs exists in
// either direction.
func AssertEdge(t *testing.T, topo *model.Topology, a, b string) {
	t.Helper()
	for _, e := range topo.Edges {
		if (e.Source == a && e.Target == b) || (e.Source == b && e.Target == a) {
			return
		}
	}
	t.Errorf("expected edge between %s and %s not found", a, b)
}

// CountByKind returns a kind to count map.
func CountByKind(topo *model.Topology) map[model.NodeKind]int {
	counts := make(map[model.NodeKind]int)
	for _, n := range topo.Nodes {
		counts[n.Kind]++
	}
	return counts
}

// NodeIDs returns all node IDs in declaration order.
func NodeIDs(topo *model.Topology) []string {
	ids := make([]string, len(topo.Nodes))
	for i, n := range topo.Nodes {
		ids[i] = n.ID
	}
	return ids
}

// WriteTopologyFile writes a topology.json the loader will discover
// into dir and returns its path.
func WriteTopologyFile(t *testing.T, dir string, topo *model.Topology) string {
	t.Helper()
	data, err := json.MarshalIndent(topo, "", "  ")
	if err != nil {
		t.Fatalf("marshal topology: %v", err)
	}
	path := filepath.Join(dir, "topology.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write topology file: %v", err)
	}
	return path
}

// WriteChainsFile writes a chains.json next to the topology and
// returns its path. The bare array form is used.
func WriteChainsFile(t *testing.T, dir string, chains []*model.AttackChain) string {
	t.Helper()
	data, err := json.MarshalIndent(chains, "", "  ")
	if err != nil {
		t.Fatalf("marshal chains: %v", err)
	}
	path := filepath.Join(dir, "chains.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write chains file: %v", err)
	}
	return path
}
