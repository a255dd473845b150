// Package analysis derives structural insights from a topology using
// gonum graph algorithms: criticality (PageRank), bottleneck scores
// (betweenness), connectivity components and isolated nodes, plus a
// per-chain audit of how well chains map onto the live topology.
package analysis

import (
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/graph/traverse"

	"github.com/cbayliss/netweave/pkg/metrics"
	"github.com/cbayliss/netweave/pkg/model"
)

// betweennessNodeCap skips the O(V*E) betweenness pass on graphs too
// large to score within an interactive load.
const betweennessNodeCap = 2000

// Analyzer wraps gonum graphs built from one topology snapshot.
type Analyzer struct {
	directed   *simple.DirectedGraph
	undirected *simple.UndirectedGraph
	idToNode   map[string]int64
	nodeToID   map[int64]string
	byKey      map[model.EntityKey]string
	labels     map[string]string
}

// NewAnalyzer indexes a topology for analysis. Dangling edges and
// self-loops are skipped.
func NewAnalyzer(t *model.Topology) *Analyzer {
	a := &Analyzer{
		directed:   simple.NewDirectedGraph(),
		undirected: simple.NewUndirectedGraph(),
		idToNode:   make(map[string]int64, len(t.Nodes)),
		nodeToID:   make(map[int64]string, len(t.Nodes)),
		byKey:      make(map[model.EntityKey]string, len(t.Nodes)),
		labels:     make(map[string]string, len(t.Nodes)),
	}

	for _, n := range t.Nodes {
		gn := a.directed.NewNode()
		a.directed.AddNode(gn)
		a.undirected.AddNode(simple.Node(gn.ID()))
		a.idToNode[n.ID] = gn.ID()
		a.nodeToID[gn.ID()] = n.ID
		a.byKey[n.Key()] = n.ID
		a.labels[n.ID] = n.Label
	}

	for _, e := range t.Edges {
		u, okU := a.idToNode[e.Source]
		v, okV := a.idToNode[e.Target]
		if !okU || !okV || u == v {
			continue
		}
		a.directed.SetEdge(a.directed.NewEdge(a.directed.Node(u), a.directed.Node(v)))
		a.undirected.SetEdge(a.undirected.NewEdge(a.undirected.Node(u), a.undirected.Node(v)))
	}

	return a
}

// RankedNode pairs a node with one metric score, for top-N summaries.
type RankedNode struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Insights holds the metrics for one topology snapshot. Maps are keyed
// by node id.
type Insights struct {
	NodeCount int     `json:"nodeCount"`
	EdgeCount int     `json:"edgeCount"`
	Density   float64 `json:"density"`

	Criticality map[string]float64 `json:"criticality"`
	Bottleneck  map[string]float64 `json:"bottleneck"`
	Degree      map[string]int     `json:"degree"`

	// Components lists connected node-id groups of the undirected
	// view, largest first. Isolated lists degree-zero nodes.
	Components [][]string `json:"components"`
	Isolated   []string   `json:"isolated"`

	labels map[string]string
}

// Analyze computes all metrics synchronously.
func (a *Analyzer) Analyze() *Insights {
	defer metrics.Timer(metrics.InsightCompute)()

	nodeCount := len(a.idToNode)
	ins := &Insights{
		NodeCount:   nodeCount,
		EdgeCount:   a.directed.Edges().Len(),
		Criticality: make(map[string]float64, nodeCount),
		Bottleneck:  make(map[string]float64, nodeCount),
		Degree:      make(map[string]int, nodeCount),
		labels:      a.labels,
	}
	if nodeCount == 0 {
		return ins
	}
	if nodeCount > 1 {
		ins.Density = float64(ins.EdgeCount) / float64(nodeCount*(nodeCount-1))
	}

	for id, gid := range a.idToNode {
		deg := a.undirected.From(gid).Len()
		ins.Degree[id] = deg
		if deg == 0 {
			ins.Isolated = append(ins.Isolated, id)
		}
	}
	sort.Strings(ins.Isolated)

	for gid, score := range network.PageRank(a.directed, 0.85, 1e-6) {
		ins.Criticality[a.nodeToID[gid]] = score
	}

	if nodeCount <= betweennessNodeCap {
		for gid, score := range network.Betweenness(a.directed) {
			ins.Bottleneck[a.nodeToID[gid]] = score
		}
	}

	for _, comp := range topo.ConnectedComponents(a.undirected) {
		ids := make([]string, 0, len(comp))
		for _, gn := range comp {
			ids = append(ids, a.nodeToID[gn.ID()])
		}
		sort.Strings(ids)
		ins.Components = append(ins.Components, ids)
	}
	sort.Slice(ins.Components, func(i, j int) bool {
		if len(ins.Components[i]) != len(ins.Components[j]) {
			return len(ins.Components[i]) > len(ins.Components[j])
		}
		return ins.Components[i][0] < ins.Components[j][0]
	})

	return ins
}

// TopCritical returns up to n nodes by descending criticality.
func (ins *Insights) TopCritical(n int) []RankedNode {
	return ins.top(ins.Criticality, n)
}

// TopBottlenecks returns up to n nodes by descending bottleneck score.
// Nodes that sit between otherwise separate parts of the network rank
// highest.
func (ins *Insights) TopBottlenecks(n int) []RankedNode {
	return ins.top(ins.Bottleneck, n)
}

func (ins *Insights) top(scores map[string]float64, n int) []RankedNode {
	ranked := make([]RankedNode, 0, len(scores))
	for id, score := range scores {
		ranked = append(ranked, RankedNode{ID: id, Label: ins.labels[id], Score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ID < ranked[j].ID
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// HopGap marks two consecutive resolved chain hops with no topology
// path between them, not even an indirect one.
type HopGap struct {
	FromID string `json:"fromId"`
	ToID   string `json:"toId"`
}

// ChainAudit reports how one chain maps onto the current topology.
type ChainAudit struct {
	ChainID      string   `json:"chainId"`
	Name         string   `json:"name"`
	TotalHops    int      `json:"totalHops"`
	ResolvedHops int      `json:"resolvedHops"`
	MissingKeys  []string `json:"missingKeys,omitempty"`
	Gaps         []HopGap `json:"gaps,omitempty"`
}

// AuditChains checks every chain hop against the topology: unresolved
// composite keys are reported as missing, and consecutive resolved
// hops the topology cannot connect at all are reported as gaps.
func (a *Analyzer) AuditChains(chains []*model.AttackChain) []ChainAudit {
	audits := make([]ChainAudit, 0, len(chains))
	for _, ch := range chains {
		audit := ChainAudit{
			ChainID:   ch.ID,
			Name:      ch.Name,
			TotalHops: len(ch.Nodes),
		}

		prev := ""
		for _, hop := range ch.SortedNodes() {
			id, ok := a.byKey[hop.Key()]
			if !ok {
				audit.MissingKeys = append(audit.MissingKeys, hop.Key().String())
				continue
			}
			audit.ResolvedHops++
			if prev != "" && !a.connected(prev, id) {
				audit.Gaps = append(audit.Gaps, HopGap{FromID: prev, ToID: id})
			}
			prev = id
		}
		audits = append(audits, audit)
	}
	return audits
}

// connected reports whether any path joins the two nodes, ignoring
// edge direction. Chains are short, so one BFS per hop pair is cheap.
func (a *Analyzer) connected(x, y string) bool {
	u, okU := a.idToNode[x]
	v, okV := a.idToNode[y]
	if !okU || !okV {
		return false
	}
	if u == v {
		return true
	}
	bfs := traverse.BreadthFirst{}
	hit := bfs.Walk(a.undirected, a.undirected.Node(u), func(n graph.Node, _ int) bool {
		return n.ID() == v
	})
	return hit != nil
}
