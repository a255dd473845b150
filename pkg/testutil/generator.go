// Package testutil provides deterministic topology and chain fixtures.
// All generators are seeded so tests reproduce byte for byte.
package testutil

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/cbayliss/netweave/pkg/model"
)

// GeneratorConfig controls fixture generation.
type GeneratorConfig struct {
	Seed         int64            // Random seed (0 = current time, breaks determinism)
	IDPrefix     string           // Prefix for node IDs (default "test")
	KindMix      []model.NodeKind // Kind distribution (nil = all hosts)
	SeverityMix  []model.Severity // Severity distribution (nil = all info)
	IncludeVulns bool             // Assign random vulnerability counts
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:        42,
		IDPrefix:    "test",
		KindMix:     []model.NodeKind{model.KindHost},
		SeverityMix: []model.Severity{model.SeverityInfo},
	}
}

// Generator creates test fixtures with various network shapes.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if cfg.IDPrefix == "" {
		cfg.IDPrefix = "test"
	}
	if len(cfg.KindMix) == 0 {
		cfg.KindMix = []model.NodeKind{model.KindHost}
	}
	if len(cfg.SeverityMix) == 0 {
		cfg.SeverityMix = []model.Severity{model.SeverityInfo}
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// FixtureNode is one abstract node in a fixture. Kind is optional;
// ToTopology fills empty kinds from the configured mix.
type FixtureNode struct {
	Name string
	Kind model.NodeKind
}

// GraphFixture is an abstract graph shape before conversion to a
// topology. Edges index into Nodes.
type GraphFixture struct {
	Description string
	Nodes       []FixtureNode
	Edges       [][2]int
	Connected   bool
	Components  int
}

// Line creates a linear path: n0 - n1 - ... - n{size-1}.
func (g *Generator) Line(size int) GraphFixture {
	nodes := make([]FixtureNode, size)
	edges := make([][2]int, 0, size-1)
	for i := 0; i < size; i++ {
		nodes[i] = FixtureNode{Name: fmt.Sprintf("n%d", i)}
		if i > 0 {
			edges = append(edges, [2]int{i - 1, i})
		}
	}
	return GraphFixture{
		Description: fmt.Sprintf("line of %d nodes", size),
		Nodes:       nodes,
		Edges:       edges,
		Connected:   true,
		Components:  1,
	}
}

// Star creates a hub with the given number of spokes.
func (g *Generator) Star(spokes int) GraphFixture {
	nodes := make([]FixtureNode, spokes+1)
	edges := make([][2]int, spokes)
	nodes[0] = FixtureNode{Name: "hub"}
	for i := 1; i <= spokes; i++ {
		nodes[i] = FixtureNode{Name: fmt.Sprintf("spoke%d", i)}
		edges[i-1] = [2]int{0, i}
	}
	return GraphFixture{
		Description: fmt.Sprintf("star with %d spokes", spokes),
		Nodes:       nodes,
		Edges:       edges,
		Connected:   true,
		Components:  1,
	}
}

// Ring creates a cycle: n0 - n1 - ... - n{size-1} - n0.
func (g *Generator) Ring(size int) GraphFixture {
	nodes := make([]FixtureNode, size)
	edges := make([][2]int, size)
	for i := 0; i < size; i++ {
		nodes[i] = FixtureNode{Name: fmt.Sprintf("n%d", i)}
		edges[i] = [2]int{i, (i + 1) % size}
	}
	return GraphFixture{
		Description: fmt.Sprintf("ring of %d nodes", size),
		Nodes:       nodes,
		Edges:       edges,
		Connected:   true,
		Components:  1,
	}
}

// Mesh creates a complete graph where every pair is connected.
func (g *Generator) Mesh(size int) GraphFixture {
	nodes := make([]FixtureNode, size)
	edges := make([][2]int, 0, size*(size-1)/2)
	for i := 0; i < size; i++ {
		nodes[i] = FixtureNode{Name: fmt.Sprintf("n%d", i)}
		for j := i + 1; j < size; j++ {
			edges = append(edges, [2]int{i, j})
		}
	}
	return GraphFixture{
		Description: fmt.Sprintf("full mesh of %d nodes (%d edges)", size, len(edges)),
		Nodes:       nodes,
		Edges:       edges,
		Connected:   size > 0,
		Components:  1,
	}
}

// Tiered creates hosts wired to services, every host to every service.
func (g *Generator) Tiered(hosts, services int) GraphFixture {
	nodes := make([]FixtureNode, hosts+services)
	var edges [][2]int
	for i := 0; i < hosts; i++ {
		nodes[i] = FixtureNode{Name: fmt.Sprintf("host%d", i), Kind: model.KindHost}
	}
	for j := 0; j < services; j++ {
		nodes[hosts+j] = FixtureNode{Name: fmt.Sprintf("svc%d", j), Kind: model.KindService}
	}
	for i := 0; i < hosts; i++ {
		for j := 0; j < services; j++ {
			edges = append(edges, [2]int{i, hosts + j})
		}
	}
	return GraphFixture{
		Description: fmt.Sprintf("%d hosts wired to %d services", hosts, services),
		Nodes:       nodes,
		Edges:       edges,
		Connected:   hosts > 0 && services > 0,
		Components:  1,
	}
}

// Segments creates isolated components, each a small line.
func (g *Generator) Segments(components, componentSize int) GraphFixture {
	var nodes []FixtureNode
	var edges [][2]int
	id := 0
	for c := 0; c < components; c++ {
		for i := 0; i < componentSize; i++ {
			nodes = append(nodes, FixtureNode{Name: fmt.Sprintf("c%d_n%d", c, i)})
			if i > 0 {
				edges = append(edges, [2]int{id - 1, id})
			}
			id++
		}
	}
	return GraphFixture{
		Description: fmt.Sprintf("%d segments of %d nodes each", components, componentSize),
		Nodes:       nodes,
		Edges:       edges,
		Connected:   components <= 1,
		Components:  components,
	}
}

// Random creates a random graph. density is the probability of each
// possible edge existing.
func (g *Generator) Random(size int, density float64) GraphFixture {
	if density < 0 {
		density = 0
	}
	if density > 1 {
		density = 1
	}
	nodes := make([]FixtureNode, size)
	var edges [][2]int
	for i := 0; i < size; i++ {
		nodes[i] = FixtureNode{Name: fmt.Sprintf("n%d", i)}
	}
	for i := 0; i < size; i++ {
		for j := i + 1; j < size; j++ {
			if g.rng.Float64() < density {
				edges = append(edges, [2]int{i, j})
			}
		}
	}
	return GraphFixture{
		Description: fmt.Sprintf("random graph, %d nodes, density %.2f (%d edges)", size, density, len(edges)),
		Nodes:       nodes,
		Edges:       edges,
	}
}

// ToTopology converts a fixture into a topology. Node IDs are prefixed
// so fixtures from different generators never collide.
func (g *Generator) ToTopology(gf GraphFixture) *model.Topology {
	t := &model.Topology{
		Nodes: make([]*model.GraphNode, len(gf.Nodes)),
		Edges: make([]model.GraphEdge, 0, len(gf.Edges)),
	}
	for i, fn := range gf.Nodes {
		kind := fn.Kind
		if kind == "" {
			kind = g.pickKind()
		}
		n := &model.GraphNode{
			ID:    fmt.Sprintf("%s-%s", g.cfg.IDPrefix, fn.Name),
			Kind:  kind,
			Label: fn.Name,
			Metadata: model.NodeMetadata{
				Severity: g.pickSeverity(),
			},
		}
		if g.cfg.IncludeVulns {
			n.Metadata.VulnCount = g.rng.Intn(12)
		}
		t.Nodes[i] = n
	}
	for _, e := range gf.Edges {
		t.Edges = append(t.Edges, model.GraphEdge{
			Source: t.Nodes[e[0]].ID,
			Target: t.Nodes[e[1]].ID,
		})
	}
	return t
}

var chainColors = []string{"#ff5555", "#f1fa8c", "#8be9fd", "#50fa7b", "#bd93f9"}

// ChainThrough builds an attack chain visiting the given node IDs in
// order. Hop kinds are resolved against the topology; unknown IDs
// become host hops so gap handling can be tested.
func (g *Generator) ChainThrough(t *model.Topology, id, name string, ids ...string) *model.AttackChain {
	ch := &model.AttackChain{
		ID:    id,
		Name:  name,
		Color: chainColors[g.rng.Intn(len(chainColors))],
	}
	for i, nodeID := range ids {
		kind := model.KindHost
		if n := t.NodeByID(nodeID); n != nil {
			kind = n.Kind
		}
		ch.Nodes = append(ch.Nodes, model.ChainNode{
			EntityType:    kind,
			EntityID:      nodeID,
			SequenceOrder: i + 1,
		})
	}
	return ch
}

func (g *Generator) pickKind() model.NodeKind {
	return g.cfg.KindMix[g.rng.Intn(len(g.cfg.KindMix))]
}

func (g *Generator) pickSeverity() model.Severity {
	return g.cfg.SeverityMix[g.rng.Intn(len(g.cfg.SeverityMix))]
}

// Convenience constructors for the common shapes.

func QuickLine(size int) *model.Topology {
	gen := NewDefault()
	return gen.ToTopology(gen.Line(size))
}

func QuickTiered(hosts, services int) *model.Topology {
	gen := NewDefault()
	return gen.ToTopology(gen.Tiered(hosts, services))
}
