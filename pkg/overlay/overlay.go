// Package overlay projects attack chains onto live node coordinates.
// Each visible chain becomes a ChainPath: an ordered set of resolved
// points with quadratic path segments, sequence badges, branch markers
// and reveal animation state, recomputed every frame so geometry tracks
// the simulation.
package overlay

import (
	"math"

	"github.com/cbayliss/netweave/pkg/debug"
	"github.com/cbayliss/netweave/pkg/metrics"
	"github.com/cbayliss/netweave/pkg/model"
)

const (
	// revealStep is the fraction of the dash reveal consumed per frame.
	revealStep = 1.0 / 30

	// branchOffset is how far the dashed branch indicator reaches away
	// from the main path, in world units.
	branchOffset = 40.0
)

// Point is a world-space coordinate.
type Point struct {
	X, Y float64
}

// Segment is one quadratic piece of a chain path. The control point is
// the midpoint of its endpoints.
type Segment struct {
	From, Ctrl, To Point
}

// Badge labels a resolved hop with its 1-based position in the ordered
// chain. Hops that failed to resolve leave gaps in the numbering.
type Badge struct {
	At     Point
	Number int
}

// BranchMarker is the dashed side indicator for a branch-point hop. It
// is drawn separately from the main path.
type BranchMarker struct {
	At    Point
	Tip   Point
	Label string
}

// ChainPath is the per-frame render geometry for one visible chain.
type ChainPath struct {
	ChainID string
	Name    string
	Color   string
	Active  bool

	Points   []Point
	Segments []Segment
	Badges   []Badge
	Branches []BranchMarker

	// ArrowAt and ArrowDir place the directional end marker. HasArrow
	// is false for single-point chains, which have no direction.
	ArrowAt  Point
	ArrowDir Point
	HasArrow bool

	// Reveal runs 1 to 0 while the one-shot dash animation plays.
	// Renderers use it as dashoffset = Length * Reveal.
	Reveal float64
	Length float64
}

// Synchronizer owns chain visibility, focus and reveal state, and
// rebuilds chain geometry from the live position index each frame.
// Chains are independent entries in list order; later entries render
// on top.
type Synchronizer struct {
	index   *PositionIndex
	chains  []*model.AttackChain
	visible map[string]bool
	reveal  map[string]float64
	active  string
}

// NewSynchronizer returns a synchronizer resolving against the given
// index.
func NewSynchronizer(index *PositionIndex) *Synchronizer {
	return &Synchronizer{
		index:   index,
		visible: make(map[string]bool),
		reveal:  make(map[string]float64),
	}
}

// SetChains replaces the chain list, keeping list order for z-order.
// Visibility and reveal state survive for chain ids that persist;
// entries for removed chains are dropped. Chains seen for the first
// time start visible with their reveal armed, so an explicit hide is
// the only state that outlives a data reload.
func (s *Synchronizer) SetChains(chains []*model.AttackChain) {
	s.chains = chains

	present := make(map[string]bool, len(chains))
	for _, ch := range chains {
		present[ch.ID] = true
	}
	for id := range s.visible {
		if !present[id] {
			delete(s.visible, id)
			delete(s.reveal, id)
		}
	}
	if s.active != "" && !present[s.active] {
		s.active = ""
	}
	for _, ch := range chains {
		if _, known := s.visible[ch.ID]; !known {
			s.SetVisible(ch.ID, true)
		}
	}
}

// Chains returns the current chain list in order.
func (s *Synchronizer) Chains() []*model.AttackChain {
	return s.chains
}

// SetVisible shows or hides one chain. The hidden-to-visible edge arms
// a single reveal animation; repeated calls with the same value do not
// restart it.
func (s *Synchronizer) SetVisible(chainID string, visible bool) {
	was := s.visible[chainID]
	switch {
	case visible && !was:
		s.reveal[chainID] = 1
	case !visible && was:
		delete(s.reveal, chainID)
	}
	s.visible[chainID] = visible
}

// ToggleVisible flips one chain's visibility and reports the new state.
func (s *Synchronizer) ToggleVisible(chainID string) bool {
	next := !s.visible[chainID]
	s.SetVisible(chainID, next)
	return next
}

// IsVisible reports whether a chain is currently shown.
func (s *Synchronizer) IsVisible(chainID string) bool {
	return s.visible[chainID]
}

// SetActive focuses one chain, or none for the empty id. The active
// chain renders with a heavier stroke and a glow.
func (s *Synchronizer) SetActive(chainID string) {
	s.active = chainID
}

// Active returns the focused chain id, empty for none.
func (s *Synchronizer) Active() string {
	return s.active
}

// Sync rebuilds geometry for every visible chain and advances reveal
// animations one frame. The result is in chain list order. Chains with
// no resolvable hops are omitted entirely.
func (s *Synchronizer) Sync() []*ChainPath {
	defer metrics.Timer(metrics.OverlaySync)()

	paths := make([]*ChainPath, 0, len(s.chains))
	for _, ch := range s.chains {
		if !s.visible[ch.ID] {
			continue
		}
		p := s.buildPath(ch)
		if p == nil {
			continue
		}
		paths = append(paths, p)
	}
	return paths
}

// buildPath resolves one chain against the index. Work is linear in
// the chain length.
func (s *Synchronizer) buildPath(ch *model.AttackChain) *ChainPath {
	sorted := ch.SortedNodes()

	p := &ChainPath{
		ChainID: ch.ID,
		Name:    ch.Name,
		Color:   ch.DisplayColor(),
		Active:  ch.ID == s.active,
	}

	for i, hop := range sorted {
		node, ok := s.index.Lookup(hop.Key())
		if !ok {
			debug.Log("overlay: chain %q hop %d (%s/%s) missing from topology, dropping",
				ch.ID, i+1, hop.EntityType, hop.EntityID)
			metrics.DroppedChainHops.Inc()
			continue
		}
		pt := Point{X: node.X, Y: node.Y}
		p.Points = append(p.Points, pt)
		p.Badges = append(p.Badges, Badge{At: pt, Number: i + 1})
		if hop.IsBranchPoint {
			p.Branches = append(p.Branches, branchMarker(p.Points, pt, hop.BranchDescription))
		}
	}
	if len(p.Points) == 0 {
		return nil
	}

	for i := 0; i+1 < len(p.Points); i++ {
		a, b := p.Points[i], p.Points[i+1]
		seg := Segment{
			From: a,
			Ctrl: Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2},
			To:   b,
		}
		p.Segments = append(p.Segments, seg)
		p.Length += math.Hypot(b.X-a.X, b.Y-a.Y)
	}

	if n := len(p.Points); n >= 2 {
		last, prev := p.Points[n-1], p.Points[n-2]
		dx, dy := last.X-prev.X, last.Y-prev.Y
		if d := math.Hypot(dx, dy); d > 1e-9 {
			p.ArrowAt = last
			p.ArrowDir = Point{X: dx / d, Y: dy / d}
			p.HasArrow = true
		}
	}

	if r, ok := s.reveal[ch.ID]; ok {
		p.Reveal = r
		r -= revealStep
		if r <= 0 {
			delete(s.reveal, ch.ID)
		} else {
			s.reveal[ch.ID] = r
		}
	}

	return p
}

// branchMarker aims the dashed indicator perpendicular to the local
// path direction so it never overlaps the primary geometry.
func branchMarker(resolved []Point, at Point, label string) BranchMarker {
	dirX, dirY := 1.0, 0.0
	if n := len(resolved); n >= 2 {
		prev := resolved[n-2]
		dx, dy := at.X-prev.X, at.Y-prev.Y
		if d := math.Hypot(dx, dy); d > 1e-9 {
			dirX, dirY = dx/d, dy/d
		}
	}
	return BranchMarker{
		At:    at,
		Tip:   Point{X: at.X - dirY*branchOffset, Y: at.Y + dirX*branchOffset},
		Label: label,
	}
}
