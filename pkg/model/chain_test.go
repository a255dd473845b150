package model

import "testing"

func TestChainValidate(t *testing.T) {
	cases := []struct {
		name    string
		chain   AttackChain
		wantErr bool
	}{
		{
			name: "valid",
			chain: AttackChain{ID: "ch1", Nodes: []ChainNode{
				{EntityType: KindHost, EntityID: "h1", SequenceOrder: 1},
				{EntityType: KindService, EntityID: "s1", SequenceOrder: 2},
			}},
		},
		{
			name:    "empty id",
			chain:   AttackChain{ID: " "},
			wantErr: true,
		},
		{
			name: "duplicate sequence order",
			chain: AttackChain{ID: "ch1", Nodes: []ChainNode{
				{EntityID: "a", SequenceOrder: 3},
				{EntityID: "b", SequenceOrder: 3},
			}},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.chain.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestChainSortedNodes(t *testing.T) {
	chain := AttackChain{ID: "ch1", Nodes: []ChainNode{
		{EntityID: "c", SequenceOrder: 30},
		{EntityID: "a", SequenceOrder: 10},
		{EntityID: "b", SequenceOrder: 20},
	}}

	sorted := chain.SortedNodes()

	want := []string{"a", "b", "c"}
	for i, id := range want {
		if sorted[i].EntityID != id {
			t.Errorf("sorted[%d] = %s, want %s", i, sorted[i].EntityID, id)
		}
	}

	// Stored order untouched.
	if chain.Nodes[0].EntityID != "c" {
		t.Error("SortedNodes mutated the stored hop order")
	}
}

func TestChainDisplayColor(t *testing.T) {
	withColor := AttackChain{ID: "a", Color: "#00ff88"}
	if got := withColor.DisplayColor(); got != "#00ff88" {
		t.Errorf("DisplayColor = %s, want #00ff88", got)
	}
	noColor := AttackChain{ID: "b"}
	if got := noColor.DisplayColor(); got != DefaultChainColor {
		t.Errorf("DisplayColor = %s, want default %s", got, DefaultChainColor)
	}
}

func TestEntityKey(t *testing.T) {
	hop := ChainNode{EntityType: KindHost, EntityID: "h1"}
	node := &GraphNode{ID: "h1", Kind: KindHost}
	if hop.Key() != node.Key() {
		t.Errorf("hop key %v != node key %v", hop.Key(), node.Key())
	}
	other := &GraphNode{ID: "h1", Kind: KindService}
	if hop.Key() == other.Key() {
		t.Error("keys with different kinds must differ")
	}
}
