// Package model defines the core data types for netweave: the network
// topology (hosts, services, edges) that the layout engine animates, and
// the attack chains overlaid on top of it.
//
// Topology and chain records arrive from external collaborators (scanner
// output files, a chain editor) and are replaced wholesale; node positions
// and velocities are ephemeral simulation state and never serialized.
package model

import (
	"fmt"
	"strings"
)

// NodeKind classifies a topology node.
type NodeKind string

const (
	KindHost    NodeKind = "host"
	KindService NodeKind = "service"
)

// Valid reports whether the kind is one of the known values.
func (k NodeKind) Valid() bool {
	return k == KindHost || k == KindService
}

// Radius returns the collision/render radius for nodes of this kind,
// in model-space units.
func (k NodeKind) Radius() float64 {
	if k == KindHost {
		return 20
	}
	return 15
}

// Severity grades a node's worst known finding.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// Rank returns a sortable weight, highest severity first (critical=4 .. info=0).
// Unknown severities rank below info.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	case SeverityInfo:
		return 0
	}
	return -1
}

// NodeMetadata carries display attributes supplied by the scanner.
type NodeMetadata struct {
	Severity  Severity `json:"severity,omitempty"`
	VulnCount int      `json:"vulnCount,omitempty"`
	Color     string   `json:"color,omitempty"`
}

// GraphNode is one node of the coordinate model. X/Y/VX/VY are mutated by
// the force simulation every tick; Pin, when non-nil, overrides integration
// with a fixed position (used while the node is dragged).
type GraphNode struct {
	ID       string       `json:"id"`
	Kind     NodeKind     `json:"kind"`
	Label    string       `json:"label"`
	Metadata NodeMetadata `json:"metadata,omitempty"`

	X, Y   float64 `json:"-"`
	VX, VY float64 `json:"-"`
	Pin    *Pos    `json:"-"`
}

// Pos is a plain model-space coordinate pair.
type Pos struct {
	X, Y float64
}

// Pinned reports whether the node's position is currently overridden.
func (n *GraphNode) Pinned() bool { return n.Pin != nil }

// SetPin fixes the node at (x, y) until ClearPin.
func (n *GraphNode) SetPin(x, y float64) {
	n.Pin = &Pos{X: x, Y: y}
}

// ClearPin releases a pinned node back to free integration.
func (n *GraphNode) ClearPin() { n.Pin = nil }

// Radius returns the node's collision/render radius.
func (n *GraphNode) Radius() float64 { return n.Kind.Radius() }

// Key returns the composite identity used for chain hop resolution.
func (n *GraphNode) Key() EntityKey {
	return EntityKey{Kind: n.Kind, ID: n.ID}
}

// GraphEdge links two nodes by ID. Edges whose endpoints are missing from
// the node set are dropped during Normalize, never rendered.
type GraphEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// EntityKey is the composite key (entity type + entity id) that chain hops
// resolve against. Node IDs are only guaranteed unique within a kind when
// data comes from older scanner versions, hence the compound key.
type EntityKey struct {
	Kind NodeKind
	ID   string
}

func (k EntityKey) String() string {
	return string(k.Kind) + ":" + k.ID
}

// Topology is a wholesale snapshot of the known network. It replaces any
// previous snapshot completely; there is no incremental diffing.
type Topology struct {
	Nodes []*GraphNode      `json:"nodes"`
	Edges []GraphEdge       `json:"edges"`
	Meta  map[string]string `json:"meta,omitempty"`
}

// Validate checks structural invariants: non-empty unique node IDs and
// known node kinds. Dangling edges are not an error (see Normalize).
func (t *Topology) Validate() error {
	seen := make(map[string]bool, len(t.Nodes))
	for i, n := range t.Nodes {
		if n == nil {
			return fmt.Errorf("node %d is nil", i)
		}
		if strings.TrimSpace(n.ID) == "" {
			return fmt.Errorf("node %d has empty id", i)
		}
		if !n.Kind.Valid() {
			return fmt.Errorf("node %s has unknown kind %q", n.ID, n.Kind)
		}
		if seen[n.ID] {
			return fmt.Errorf("duplicate node id %s", n.ID)
		}
		seen[n.ID] = true
	}
	return nil
}

// NormalizeResult reports what Normalize removed.
type NormalizeResult struct {
	DuplicateNodes int
	DanglingEdges  int
}

// Normalize removes duplicate nodes (first occurrence wins) and edges
// whose endpoints are absent. Both are data-quality issues from
// independently edited sources, not fatal errors.
func (t *Topology) Normalize() NormalizeResult {
	var res NormalizeResult

	seen := make(map[string]bool, len(t.Nodes))
	nodes := t.Nodes[:0]
	for _, n := range t.Nodes {
		if n == nil || seen[n.ID] {
			res.DuplicateNodes++
			continue
		}
		seen[n.ID] = true
		nodes = append(nodes, n)
	}
	t.Nodes = nodes

	edges := t.Edges[:0]
	for _, e := range t.Edges {
		if !seen[e.Source] || !seen[e.Target] {
			res.DanglingEdges++
			continue
		}
		edges = append(edges, e)
	}
	t.Edges = edges

	return res
}

// NodeByID returns the node with the given ID, or nil.
func (t *Topology) NodeByID(id string) *GraphNode {
	for _, n := range t.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// NodeIDs returns the set of present node IDs. Used to prune selection
// when the topology is replaced.
func (t *Topology) NodeIDs() map[string]bool {
	ids := make(map[string]bool, len(t.Nodes))
	for _, n := range t.Nodes {
		ids[n.ID] = true
	}
	return ids
}
