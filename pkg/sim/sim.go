// Package sim implements the force-directed layout solver that owns and
// animates the coordinate model.
//
// The solver runs a decaying-alpha integration: each Tick applies a link
// spring force, many-body repulsion, a centering force and pairwise
// collision resolution, all scaled by a cooling coefficient that starts
// near 1 and decays toward zero. Small graphs cool at the standard rate
// and animate until settled; graphs above LargeGraphThreshold nodes cool
// faster and are warmed up synchronously at construction, then frozen,
// bounding worst-case cost at the expense of final-layout fidelity.
//
// The simulation is single-writer: callers invoke Tick once per render
// frame from one goroutine and read positions off the shared node records
// afterwards. Dragging pins a node's position each tick (bypassing
// integration); releasing it reheats the solver so the neighborhood
// resettles.
package sim

import (
	"math"

	"github.com/cbayliss/netweave/pkg/debug"
	"github.com/cbayliss/netweave/pkg/metrics"
	"github.com/cbayliss/netweave/pkg/model"
)

// Layout defaults. Distances are in model-space units.
const (
	DefaultLinkDistance   = 100.0
	DefaultChargeStrength = -300.0
	DefaultVelocityDecay  = 0.25

	// LargeGraphThreshold is the node count above which the accelerated
	// cooling profile and the synchronous warmup/freeze policy apply.
	LargeGraphThreshold = 100

	// WarmupTicks is the fixed synchronous tick budget for large graphs.
	WarmupTicks = 300

	alphaMin    = 0.001
	reheatAlpha = 0.3

	// distEpsilon pads squared pairwise distances so coincident nodes
	// never divide by zero and no non-finite value reaches rendering.
	distEpsilon = 0.01
)

// Standard and accelerated cooling rates: alpha reaches alphaMin after
// roughly 300 (standard) or 100 (accelerated) ticks.
var (
	standardAlphaDecay    = 1 - math.Pow(alphaMin, 1.0/300)
	acceleratedAlphaDecay = 1 - math.Pow(alphaMin, 1.0/100)
)

// link is a preprocessed spring between two live node records. Strength
// and bias follow the degree-weighted scheme so high-degree nodes are
// pulled proportionally less.
type link struct {
	source, target *model.GraphNode
	strength       float64
	bias           float64
}

// Simulation is the force-directed solver. It holds the only references
// that mutate node positions; render and overlay code read the same
// records after each tick.
type Simulation struct {
	nodes []*model.GraphNode
	links []link
	byID  map[string]*model.GraphNode

	alpha          float64
	alphaDecay     float64
	alphaTarget    float64
	velocityDecay  float64
	chargeStrength float64
	linkDistance   float64

	centerX, centerY float64

	frozen bool
	ticks  int
}

// Option configures a Simulation at construction.
type Option func(*Simulation)

// WithChargeStrength overrides the many-body repulsion strength
// (negative repels).
func WithChargeStrength(v float64) Option {
	return func(s *Simulation) { s.chargeStrength = v }
}

// WithLinkDistance overrides the spring target distance.
func WithLinkDistance(v float64) Option {
	return func(s *Simulation) { s.linkDistance = v }
}

// WithVelocityDecay overrides the per-tick velocity damping fraction.
func WithVelocityDecay(v float64) Option {
	return func(s *Simulation) { s.velocityDecay = v }
}

// WithAlphaDecay overrides the cooling rate picked by graph size.
func WithAlphaDecay(v float64) Option {
	return func(s *Simulation) { s.alphaDecay = v }
}

// New builds a solver for the given topology sized to the viewport.
// Node positions are seeded on a deterministic phyllotaxis spiral around
// the viewport center. Graphs above LargeGraphThreshold are warmed up
// with WarmupTicks synchronous ticks and frozen before New returns.
func New(topo *model.Topology, viewW, viewH float64, opts ...Option) *Simulation {
	s := &Simulation{
		nodes:          topo.Nodes,
		byID:           make(map[string]*model.GraphNode, len(topo.Nodes)),
		alpha:          1,
		alphaDecay:     standardAlphaDecay,
		velocityDecay:  DefaultVelocityDecay,
		chargeStrength: DefaultChargeStrength,
		linkDistance:   DefaultLinkDistance,
		centerX:        viewW / 2,
		centerY:        viewH / 2,
	}

	large := len(topo.Nodes) > LargeGraphThreshold
	if large {
		s.alphaDecay = acceleratedAlphaDecay
	}

	for _, opt := range opts {
		opt(s)
	}

	for _, n := range s.nodes {
		s.byID[n.ID] = n
	}
	s.seedPositions()
	s.buildLinks(topo.Edges)

	if large {
		s.warmup()
	}
	return s
}

// seedPositions places nodes on a phyllotaxis spiral around the center.
// Deterministic: the same topology always starts in the same arrangement.
func (s *Simulation) seedPositions() {
	const initialRadius = 10.0
	initialAngle := math.Pi * (3 - math.Sqrt(5))

	for i, n := range s.nodes {
		radius := initialRadius * math.Sqrt(0.5+float64(i))
		angle := float64(i) * initialAngle
		n.X = s.centerX + radius*math.Cos(angle)
		n.Y = s.centerY + radius*math.Sin(angle)
		n.VX, n.VY = 0, 0
	}
}

// buildLinks resolves edges against the node map and precomputes the
// degree-weighted strength and bias per link. Edges with a missing
// endpoint are skipped; Normalize should already have dropped them.
func (s *Simulation) buildLinks(edges []model.GraphEdge) {
	degree := make(map[string]int, len(s.byID))
	resolved := make([][2]*model.GraphNode, 0, len(edges))

	for _, e := range edges {
		src, ok := s.byID[e.Source]
		if !ok {
			continue
		}
		dst, ok := s.byID[e.Target]
		if !ok {
			continue
		}
		degree[src.ID]++
		degree[dst.ID]++
		resolved = append(resolved, [2]*model.GraphNode{src, dst})
	}

	s.links = make([]link, 0, len(resolved))
	for _, pair := range resolved {
		src, dst := pair[0], pair[1]
		ds, dt := degree[src.ID], degree[dst.ID]
		s.links = append(s.links, link{
			source:   src,
			target:   dst,
			strength: 1 / float64(min(ds, dt)),
			bias:     float64(ds) / float64(ds+dt),
		})
	}
}

// warmup runs the fixed synchronous tick budget and freezes the solver.
func (s *Simulation) warmup() {
	defer metrics.Timer(metrics.SimulationWarm)()
	for i := 0; i < WarmupTicks && !s.Settled(); i++ {
		s.Tick()
	}
	s.frozen = true
	debug.Log("simulation frozen after warmup: %d nodes, %d ticks, alpha=%.4f",
		len(s.nodes), s.ticks, s.alpha)
}

// Tick advances the solver one integration step. Frozen or fully cooled
// simulations only re-apply pinned positions, so per-frame calls stay
// cheap once the layout has settled.
func (s *Simulation) Tick() {
	defer metrics.Timer(metrics.SimulationTick)()

	if s.Settled() {
		s.applyPins()
		return
	}

	s.ticks++
	s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay

	s.forceLink()
	s.forceManyBody()
	s.forceCenter()
	s.forceCollide()
	s.integrate()
}

// Settled reports whether the solver has cooled below the minimum alpha
// or been frozen by the large-graph policy.
func (s *Simulation) Settled() bool {
	return s.frozen || s.alpha < alphaMin
}

// Frozen reports whether the large-graph freeze is in effect.
func (s *Simulation) Frozen() bool { return s.frozen }

// Alpha returns the current cooling coefficient.
func (s *Simulation) Alpha() float64 { return s.alpha }

// Ticks returns the number of integration steps taken so far.
func (s *Simulation) Ticks() int { return s.ticks }

// Nodes returns the live node records the solver mutates.
func (s *Simulation) Nodes() []*model.GraphNode { return s.nodes }

// Pin fixes a node's position from pointer coordinates. While pinned the
// node bypasses force integration entirely: every tick re-applies the
// pinned position and zeroes its velocity. Returns false for unknown IDs.
func (s *Simulation) Pin(id string, x, y float64) bool {
	n, ok := s.byID[id]
	if !ok {
		return false
	}
	n.SetPin(x, y)
	n.X, n.Y = x, y
	n.VX, n.VY = 0, 0
	return true
}

// Release unpins a node and reheats the solver so the neighborhood
// resettles locally. A frozen large graph unfreezes for the reheat; the
// accelerated cooling profile bounds the extra work.
func (s *Simulation) Release(id string) bool {
	n, ok := s.byID[id]
	if !ok || !n.Pinned() {
		return false
	}
	n.ClearPin()
	s.Reheat()
	return true
}

// Reheat raises the cooling coefficient so the layout resettles.
func (s *Simulation) Reheat() {
	if s.alpha < reheatAlpha {
		s.alpha = reheatAlpha
	}
	s.frozen = false
}

// SetCenter retargets the centering force, typically on viewport resize.
func (s *Simulation) SetCenter(viewW, viewH float64) {
	s.centerX = viewW / 2
	s.centerY = viewH / 2
}

// applyPins re-asserts pinned positions without integrating. Used when
// the solver is settled but a drag is in progress.
func (s *Simulation) applyPins() {
	for _, n := range s.nodes {
		if n.Pin != nil {
			n.X, n.Y = n.Pin.X, n.Pin.Y
			n.VX, n.VY = 0, 0
		}
	}
}
