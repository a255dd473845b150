package model

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultChainColor is used when a chain record arrives without a color.
const DefaultChainColor = "#ff5555"

// ChainNode is one hop of an attack chain. Hops reference topology
// entities by composite key; the referenced entity may legitimately be
// absent from the current topology (the two datasets are edited
// independently), in which case the hop is skipped at render time.
type ChainNode struct {
	EntityType        NodeKind `json:"entityType"`
	EntityID          string   `json:"entityId"`
	SequenceOrder     int      `json:"sequenceOrder"`
	MethodNotes       string   `json:"methodNotes,omitempty"`
	IsBranchPoint     bool     `json:"isBranchPoint"`
	BranchDescription string   `json:"branchDescription,omitempty"`
}

// Key returns the composite lookup key for this hop.
func (c ChainNode) Key() EntityKey {
	return EntityKey{Kind: c.EntityType, ID: c.EntityID}
}

// AttackChain is an ordered exploitation path authored by an analyst.
// Storage order of Nodes is not guaranteed; consumers must sort by
// SequenceOrder (see SortedNodes).
type AttackChain struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Color string      `json:"color"`
	Nodes []ChainNode `json:"nodes"`
}

// Validate checks chain invariants: non-empty ID and unique sequence
// orders. Duplicate orders would make the hop ordering ambiguous.
func (c *AttackChain) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("chain has empty id")
	}
	seen := make(map[int]bool, len(c.Nodes))
	for _, n := range c.Nodes {
		if seen[n.SequenceOrder] {
			return fmt.Errorf("chain %s: duplicate sequenceOrder %d", c.ID, n.SequenceOrder)
		}
		seen[n.SequenceOrder] = true
	}
	return nil
}

// SortedNodes returns a copy of the hops ordered by SequenceOrder.
// The copy keeps callers from perturbing the stored order.
func (c *AttackChain) SortedNodes() []ChainNode {
	out := make([]ChainNode, len(c.Nodes))
	copy(out, c.Nodes)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SequenceOrder < out[j].SequenceOrder
	})
	return out
}

// DisplayColor returns the chain color, falling back to the default
// when the record has none.
func (c *AttackChain) DisplayColor() string {
	if strings.TrimSpace(c.Color) == "" {
		return DefaultChainColor
	}
	return c.Color
}
