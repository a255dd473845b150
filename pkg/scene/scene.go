// Package scene assembles per-frame render geometry. A Scene carries
// node, edge and chain geometry in world coordinates plus the single
// viewport transform to apply to all of it; renderers never see
// transformed model coordinates.
package scene

import (
	"github.com/cbayliss/netweave/pkg/metrics"
	"github.com/cbayliss/netweave/pkg/model"
	"github.com/cbayliss/netweave/pkg/overlay"
	"github.com/cbayliss/netweave/pkg/selection"
	"github.com/cbayliss/netweave/pkg/viewport"
)

// Node is one renderable node.
type Node struct {
	ID       string
	Kind     model.NodeKind
	Label    string
	X, Y     float64
	Radius   float64
	Severity model.Severity
	Color    string
	Selected bool
	Hovered  bool
}

// Edge is one renderable edge with resolved endpoint coordinates.
// Highlighted marks edges touching any selected node.
type Edge struct {
	SourceID, TargetID string
	X1, Y1, X2, Y2     float64
	Highlighted        bool
}

// Scene is the complete geometry for one frame or one export.
type Scene struct {
	Width, Height float64
	Transform     viewport.Transform

	Nodes  []Node
	Edges  []Edge
	Chains []overlay.ChainPath

	Bounds    viewport.Rect
	HasBounds bool
}

// Build assembles a scene from the live topology, viewport, selection
// and synchronized chain paths. Edges whose endpoints are missing from
// the node set are skipped, so every rendered edge resolves.
func Build(topo *model.Topology, vp *viewport.Viewport, sel *selection.State, chains []*overlay.ChainPath) *Scene {
	defer metrics.Timer(metrics.SceneBuild)()

	w, h := vp.Size()
	s := &Scene{
		Width:     w,
		Height:    h,
		Transform: vp.Transform(),
	}

	byID := make(map[string]*model.GraphNode, len(topo.Nodes))
	hovered := sel.Hovered()
	for _, n := range topo.Nodes {
		byID[n.ID] = n
		s.Nodes = append(s.Nodes, Node{
			ID:       n.ID,
			Kind:     n.Kind,
			Label:    n.Label,
			X:        n.X,
			Y:        n.Y,
			Radius:   n.Radius(),
			Severity: n.Metadata.Severity,
			Color:    n.Metadata.Color,
			Selected: sel.IsSelected(n.ID),
			Hovered:  n.ID == hovered,
		})
	}

	for _, e := range topo.Edges {
		src, okS := byID[e.Source]
		dst, okT := byID[e.Target]
		if !okS || !okT {
			continue
		}
		s.Edges = append(s.Edges, Edge{
			SourceID:    e.Source,
			TargetID:    e.Target,
			X1:          src.X,
			Y1:          src.Y,
			X2:          dst.X,
			Y2:          dst.Y,
			Highlighted: sel.IsSelected(e.Source) || sel.IsSelected(e.Target),
		})
	}

	for _, cp := range chains {
		s.Chains = append(s.Chains, *cp)
	}

	s.Bounds, s.HasBounds = viewport.BoundsOf(topo.Nodes)
	return s
}

// Snapshot copies the scene for export: same geometry, identity
// transform, explicit dimensions from the last known container size
// and the world-space bounding box already set by Build.
func (s *Scene) Snapshot() *Scene {
	out := &Scene{
		Width:     s.Width,
		Height:    s.Height,
		Transform: viewport.Identity(),
		Nodes:     make([]Node, len(s.Nodes)),
		Edges:     make([]Edge, len(s.Edges)),
		Chains:    make([]overlay.ChainPath, len(s.Chains)),
		Bounds:    s.Bounds,
		HasBounds: s.HasBounds,
	}
	copy(out.Nodes, s.Nodes)
	copy(out.Edges, s.Edges)
	copy(out.Chains, s.Chains)
	return out
}
