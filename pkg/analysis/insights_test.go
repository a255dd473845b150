package analysis

import (
	"reflect"
	"testing"

	"github.com/cbayliss/netweave/pkg/model"
	"github.com/cbayliss/netweave/pkg/testutil"
)

func hostNode(id string) *model.GraphNode {
	return &model.GraphNode{ID: id, Kind: model.KindHost, Label: id}
}

func TestHubOutranksLeaves(t *testing.T) {
	// Fan-in: every leaf connects toward the hub.
	topo := &model.Topology{
		Nodes: []*model.GraphNode{
			hostNode("hub"), hostNode("l1"), hostNode("l2"), hostNode("l3"),
		},
		Edges: []model.GraphEdge{
			{Source: "l1", Target: "hub"},
			{Source: "l2", Target: "hub"},
			{Source: "l3", Target: "hub"},
		},
	}
	ins := NewAnalyzer(topo).Analyze()

	for _, leaf := range []string{"l1", "l2", "l3"} {
		if ins.Criticality["hub"] <= ins.Criticality[leaf] {
			t.Errorf("hub criticality %v not above leaf %s (%v)",
				ins.Criticality["hub"], leaf, ins.Criticality[leaf])
		}
	}
	if ins.Degree["hub"] != 3 {
		t.Errorf("hub degree = %d, want 3", ins.Degree["hub"])
	}

	top := ins.TopCritical(2)
	if len(top) != 2 || top[0].ID != "hub" {
		t.Errorf("TopCritical(2) = %+v, want hub first", top)
	}
}

func TestBridgeNodeScoresBetweenness(t *testing.T) {
	topo := &model.Topology{
		Nodes: []*model.GraphNode{hostNode("a"), hostNode("b"), hostNode("c")},
		Edges: []model.GraphEdge{
			{Source: "a", Target: "b"},
			{Source: "b", Target: "c"},
		},
	}
	ins := NewAnalyzer(topo).Analyze()

	if ins.Bottleneck["b"] <= ins.Bottleneck["a"] || ins.Bottleneck["b"] <= ins.Bottleneck["c"] {
		t.Errorf("bridge b = %v, endpoints a = %v, c = %v",
			ins.Bottleneck["b"], ins.Bottleneck["a"], ins.Bottleneck["c"])
	}
}

func TestComponentsAndIsolation(t *testing.T) {
	topo := &model.Topology{
		Nodes: []*model.GraphNode{
			hostNode("a"), hostNode("b"), hostNode("c"),
			hostNode("x"), hostNode("y"),
			hostNode("lone"),
		},
		Edges: []model.GraphEdge{
			{Source: "a", Target: "b"},
			{Source: "b", Target: "c"},
			{Source: "x", Target: "y"},
		},
	}
	ins := NewAnalyzer(topo).Analyze()

	if len(ins.Components) != 3 {
		t.Fatalf("components = %d, want 3", len(ins.Components))
	}
	if !reflect.DeepEqual(ins.Components[0], []string{"a", "b", "c"}) {
		t.Errorf("largest component = %v", ins.Components[0])
	}
	if !reflect.DeepEqual(ins.Isolated, []string{"lone"}) {
		t.Errorf("isolated = %v, want [lone]", ins.Isolated)
	}
}

func TestDensityScalesWithEdges(t *testing.T) {
	gen := testutil.NewDefault()

	// A complete graph carries every pair once, half the directed maximum.
	mesh := NewAnalyzer(gen.ToTopology(gen.Mesh(4))).Analyze()
	if mesh.Density != 0.5 {
		t.Errorf("mesh density = %v, want 0.5", mesh.Density)
	}

	line := NewAnalyzer(gen.ToTopology(gen.Line(4))).Analyze()
	if line.Density != 0.25 {
		t.Errorf("line density = %v, want 0.25", line.Density)
	}
}

func TestDanglingAndSelfEdgesSkipped(t *testing.T) {
	topo := &model.Topology{
		Nodes: []*model.GraphNode{hostNode("a"), hostNode("b")},
		Edges: []model.GraphEdge{
			{Source: "a", Target: "b"},
			{Source: "a", Target: "a"},
			{Source: "a", Target: "ghost"},
		},
	}
	ins := NewAnalyzer(topo).Analyze()
	if ins.EdgeCount != 1 {
		t.Errorf("edge count = %d, want 1", ins.EdgeCount)
	}
}

func TestEmptyTopologyInsights(t *testing.T) {
	ins := NewAnalyzer(&model.Topology{}).Analyze()
	if ins.NodeCount != 0 || ins.EdgeCount != 0 {
		t.Errorf("counts = %d nodes, %d edges", ins.NodeCount, ins.EdgeCount)
	}
	if got := ins.TopCritical(5); len(got) != 0 {
		t.Errorf("TopCritical on empty = %v", got)
	}
}

func TestAuditChains(t *testing.T) {
	topo := &model.Topology{
		Nodes: []*model.GraphNode{
			hostNode("a"), hostNode("b"), hostNode("c"), hostNode("far"),
		},
		Edges: []model.GraphEdge{
			{Source: "a", Target: "b"},
			{Source: "b", Target: "c"},
		},
	}
	a := NewAnalyzer(topo)

	audits := a.AuditChains([]*model.AttackChain{{
		ID:   "ch1",
		Name: "lateral movement",
		Nodes: []model.ChainNode{
			{EntityType: model.KindHost, EntityID: "a", SequenceOrder: 1},
			{EntityType: model.KindHost, EntityID: "c", SequenceOrder: 2},
			{EntityType: model.KindHost, EntityID: "far", SequenceOrder: 3},
			{EntityType: model.KindService, EntityID: "nope", SequenceOrder: 4},
		},
	}})

	if len(audits) != 1 {
		t.Fatalf("audits = %d, want 1", len(audits))
	}
	got := audits[0]
	if got.TotalHops != 4 || got.ResolvedHops != 3 {
		t.Errorf("hops = %d/%d, want 3/4", got.ResolvedHops, got.TotalHops)
	}
	if len(got.MissingKeys) != 1 || got.MissingKeys[0] != "service:nope" {
		t.Errorf("missing = %v, want [service:nope]", got.MissingKeys)
	}
	// a reaches c through b; far is in another component entirely.
	if !reflect.DeepEqual(got.Gaps, []HopGap{{FromID: "c", ToID: "far"}}) {
		t.Errorf("gaps = %v", got.Gaps)
	}
}
