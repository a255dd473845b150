package overlay

import (
	"github.com/cbayliss/netweave/pkg/metrics"
	"github.com/cbayliss/netweave/pkg/model"
)

// PositionIndex resolves chain hops to live nodes by composite key in
// O(1). It holds pointers into the current topology, so coordinates
// read through it are always the latest tick's. Rebuild it whenever
// the topology is replaced, never per tick.
type PositionIndex struct {
	byKey map[model.EntityKey]*model.GraphNode
}

// NewPositionIndex returns an empty index.
func NewPositionIndex() *PositionIndex {
	return &PositionIndex{byKey: make(map[model.EntityKey]*model.GraphNode)}
}

// Rebuild repopulates the index from a replacement topology.
func (ix *PositionIndex) Rebuild(topo *model.Topology) {
	ix.byKey = make(map[model.EntityKey]*model.GraphNode, len(topo.Nodes))
	for _, n := range topo.Nodes {
		ix.byKey[n.Key()] = n
	}
	metrics.IndexRebuilds.Inc()
}

// Lookup resolves a composite entity key to its live node.
func (ix *PositionIndex) Lookup(key model.EntityKey) (*model.GraphNode, bool) {
	n, ok := ix.byKey[key]
	return n, ok
}

// Len returns the number of indexed nodes.
func (ix *PositionIndex) Len() int {
	return len(ix.byKey)
}
