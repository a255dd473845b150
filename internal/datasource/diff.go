package datasource

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cbayliss/netweave/pkg/model"
)

// SnapshotDiff summarizes what changed between two loaded bundles,
// for the reload status line.
type SnapshotDiff struct {
	AddedNodes   []string `json:"added_nodes,omitempty"`
	RemovedNodes []string `json:"removed_nodes,omitempty"`
	AddedEdges   int      `json:"added_edges"`
	RemovedEdges int      `json:"removed_edges"`
	AddedChains  int      `json:"added_chains"`
	RemovedChains int     `json:"removed_chains"`
}

// HasChanges reports whether anything differs between the snapshots.
func (d SnapshotDiff) HasChanges() bool {
	return len(d.AddedNodes) > 0 || len(d.RemovedNodes) > 0 ||
		d.AddedEdges > 0 || d.RemovedEdges > 0 ||
		d.AddedChains > 0 || d.RemovedChains > 0
}

// Summary returns a status-line description of the diff.
func (d SnapshotDiff) Summary() string {
	if !d.HasChanges() {
		return "no changes"
	}
	var parts []string
	if n := len(d.AddedNodes); n > 0 {
		parts = append(parts, fmt.Sprintf("+%d node%s", n, plural(n)))
	}
	if n := len(d.RemovedNodes); n > 0 {
		parts = append(parts, fmt.Sprintf("-%d node%s", n, plural(n)))
	}
	if d.AddedEdges > 0 {
		parts = append(parts, fmt.Sprintf("+%d edge%s", d.AddedEdges, plural(d.AddedEdges)))
	}
	if d.RemovedEdges > 0 {
		parts = append(parts, fmt.Sprintf("-%d edge%s", d.RemovedEdges, plural(d.RemovedEdges)))
	}
	if d.AddedChains > 0 {
		parts = append(parts, fmt.Sprintf("+%d chain%s", d.AddedChains, plural(d.AddedChains)))
	}
	if d.RemovedChains > 0 {
		parts = append(parts, fmt.Sprintf("-%d chain%s", d.RemovedChains, plural(d.RemovedChains)))
	}
	return strings.Join(parts, ", ")
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// DiffBundles compares two bundles by identity: node ids, edge pairs
// and chain ids. Either side may be nil.
func DiffBundles(prev, next *Bundle) SnapshotDiff {
	var d SnapshotDiff

	prevNodes := bundleNodeIDs(prev)
	nextNodes := bundleNodeIDs(next)
	for id := range nextNodes {
		if !prevNodes[id] {
			d.AddedNodes = append(d.AddedNodes, id)
		}
	}
	for id := range prevNodes {
		if !nextNodes[id] {
			d.RemovedNodes = append(d.RemovedNodes, id)
		}
	}
	sort.Strings(d.AddedNodes)
	sort.Strings(d.RemovedNodes)

	prevEdges := bundleEdgeSet(prev)
	nextEdges := bundleEdgeSet(next)
	for e := range nextEdges {
		if !prevEdges[e] {
			d.AddedEdges++
		}
	}
	for e := range prevEdges {
		if !nextEdges[e] {
			d.RemovedEdges++
		}
	}

	prevChains := bundleChainIDs(prev)
	nextChains := bundleChainIDs(next)
	for id := range nextChains {
		if !prevChains[id] {
			d.AddedChains++
		}
	}
	for id := range prevChains {
		if !nextChains[id] {
			d.RemovedChains++
		}
	}

	return d
}

func bundleNodeIDs(b *Bundle) map[string]bool {
	if b == nil || b.Topology == nil {
		return nil
	}
	return b.Topology.NodeIDs()
}

func bundleEdgeSet(b *Bundle) map[model.GraphEdge]bool {
	if b == nil || b.Topology == nil {
		return nil
	}
	set := make(map[model.GraphEdge]bool, len(b.Topology.Edges))
	for _, e := range b.Topology.Edges {
		set[e] = true
	}
	return set
}

func bundleChainIDs(b *Bundle) map[string]bool {
	if b == nil {
		return nil
	}
	set := make(map[string]bool, len(b.Chains))
	for _, ch := range b.Chains {
		set[ch.ID] = true
	}
	return set
}
