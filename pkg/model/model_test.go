package model

import "testing"

func TestNodeKindRadius(t *testing.T) {
	cases := []struct {
		kind NodeKind
		want float64
	}{
		{KindHost, 20},
		{KindService, 15},
	}
	for _, tc := range cases {
		if got := tc.kind.Radius(); got != tc.want {
			t.Errorf("Radius(%s) = %v, want %v", tc.kind, got, tc.want)
		}
	}
}

func TestSeverityRank(t *testing.T) {
	ordered := []Severity{SeverityInfo, SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
	for i := 1; i < len(ordered); i++ {
		if ordered[i].Rank() <= ordered[i-1].Rank() {
			t.Errorf("Rank(%s)=%d not above Rank(%s)=%d",
				ordered[i], ordered[i].Rank(), ordered[i-1], ordered[i-1].Rank())
		}
	}
	if Severity("bogus").Rank() >= SeverityInfo.Rank() {
		t.Errorf("unknown severity should rank below info")
	}
}

func TestTopologyValidate(t *testing.T) {
	cases := []struct {
		name    string
		topo    Topology
		wantErr bool
	}{
		{
			name: "valid",
			topo: Topology{Nodes: []*GraphNode{
				{ID: "h1", Kind: KindHost, Label: "web-01"},
				{ID: "s1", Kind: KindService, Label: "nginx"},
			}},
		},
		{
			name: "duplicate id",
			topo: Topology{Nodes: []*GraphNode{
				{ID: "h1", Kind: KindHost},
				{ID: "h1", Kind: KindHost},
			}},
			wantErr: true,
		},
		{
			name:    "empty id",
			topo:    Topology{Nodes: []*GraphNode{{ID: "  ", Kind: KindHost}}},
			wantErr: true,
		},
		{
			name:    "bad kind",
			topo:    Topology{Nodes: []*GraphNode{{ID: "x", Kind: "router"}}},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.topo.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestTopologyNormalize(t *testing.T) {
	topo := Topology{
		Nodes: []*GraphNode{
			{ID: "h1", Kind: KindHost},
			{ID: "h1", Kind: KindHost}, // duplicate
			{ID: "s1", Kind: KindService},
		},
		Edges: []GraphEdge{
			{Source: "h1", Target: "s1"},
			{Source: "h1", Target: "ghost"}, // dangling target
			{Source: "nope", Target: "s1"},  // dangling source
		},
	}

	res := topo.Normalize()

	if res.DuplicateNodes != 1 {
		t.Errorf("DuplicateNodes = %d, want 1", res.DuplicateNodes)
	}
	if res.DanglingEdges != 2 {
		t.Errorf("DanglingEdges = %d, want 2", res.DanglingEdges)
	}
	if len(topo.Nodes) != 2 {
		t.Errorf("kept %d nodes, want 2", len(topo.Nodes))
	}
	if len(topo.Edges) != 1 {
		t.Fatalf("kept %d edges, want 1", len(topo.Edges))
	}
	if topo.Edges[0].Source != "h1" || topo.Edges[0].Target != "s1" {
		t.Errorf("surviving edge = %+v, want h1->s1", topo.Edges[0])
	}

	// Every surviving edge endpoint exists among surviving nodes.
	ids := topo.NodeIDs()
	for _, e := range topo.Edges {
		if !ids[e.Source] || !ids[e.Target] {
			t.Errorf("edge %+v references missing node after Normalize", e)
		}
	}
}

func TestNodePin(t *testing.T) {
	n := &GraphNode{ID: "h1", Kind: KindHost}
	if n.Pinned() {
		t.Fatal("new node should not be pinned")
	}
	n.SetPin(12, -7)
	if !n.Pinned() || n.Pin.X != 12 || n.Pin.Y != -7 {
		t.Fatalf("pin = %+v, want (12,-7)", n.Pin)
	}
	n.ClearPin()
	if n.Pinned() {
		t.Fatal("pin not cleared")
	}
}
