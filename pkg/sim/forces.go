package sim

import (
	"math"

	"github.com/cbayliss/netweave/pkg/debug"
)

// forceLink pulls each linked pair toward the target distance. The
// correction is proportional to the displacement from that distance,
// scaled by alpha and split across both endpoints by degree bias.
func (s *Simulation) forceLink() {
	for _, l := range s.links {
		dx := l.target.X + l.target.VX - l.source.X - l.source.VX
		dy := l.target.Y + l.target.VY - l.source.Y - l.source.VY

		d := math.Sqrt(dx*dx + dy*dy)
		if d < 1e-6 {
			d = 1e-6
		}
		k := (d - s.linkDistance) / d * s.alpha * l.strength
		dx *= k
		dy *= k

		l.target.VX -= dx * l.bias
		l.target.VY -= dy * l.bias
		l.source.VX += dx * (1 - l.bias)
		l.source.VY += dy * (1 - l.bias)
	}
}

// forceManyBody applies pairwise repulsion with a 1/distance falloff.
// The squared distance is padded by distEpsilon so coincident nodes
// cannot produce a non-finite force.
func (s *Simulation) forceManyBody() {
	for i := 0; i < len(s.nodes); i++ {
		ni := s.nodes[i]
		for j := i + 1; j < len(s.nodes); j++ {
			nj := s.nodes[j]

			dx := nj.X - ni.X
			dy := nj.Y - ni.Y
			dist2 := dx*dx + dy*dy + distEpsilon

			f := s.chargeStrength * s.alpha / dist2
			ni.VX += dx * f
			ni.VY += dy * f
			nj.VX -= dx * f
			nj.VY -= dy * f
		}
	}
}

// forceCenter shifts all positions so the centroid moves onto the
// viewport center. Pinned nodes get their position re-asserted during
// integration, so the shift never displaces a node under drag.
func (s *Simulation) forceCenter() {
	n := len(s.nodes)
	if n == 0 {
		return
	}

	var sx, sy float64
	for _, node := range s.nodes {
		sx += node.X
		sy += node.Y
	}
	sx = sx/float64(n) - s.centerX
	sy = sy/float64(n) - s.centerY

	for _, node := range s.nodes {
		node.X -= sx
		node.Y -= sy
	}
}

// forceCollide separates overlapping pairs by their kind radii, pushing
// the smaller-radius node further. Single pass per tick.
func (s *Simulation) forceCollide() {
	for i := 0; i < len(s.nodes); i++ {
		ni := s.nodes[i]
		ri := ni.Radius()
		for j := i + 1; j < len(s.nodes); j++ {
			nj := s.nodes[j]
			rj := nj.Radius()
			r := ri + rj

			dx := ni.X + ni.VX - nj.X - nj.VX
			dy := ni.Y + ni.VY - nj.Y - nj.VY
			d2 := dx*dx + dy*dy
			if d2 >= r*r {
				continue
			}
			if d2 < 1e-12 {
				// Coincident centers: separate along a fixed axis.
				dx, d2 = 1e-6, 1e-12
			}

			d := math.Sqrt(d2)
			k := (r - d) / d
			dx *= k
			dy *= k
			w := rj * rj / (ri*ri + rj*rj)

			ni.VX += dx * w
			ni.VY += dy * w
			nj.VX -= dx * (1 - w)
			nj.VY -= dy * (1 - w)
		}
	}
}

// integrate applies velocity damping and advances positions. Pinned
// nodes are re-asserted verbatim with zero velocity. A final finiteness
// guard resets any degenerate coordinate to the center rather than
// letting it reach rendering.
func (s *Simulation) integrate() {
	damping := 1 - s.velocityDecay
	for _, n := range s.nodes {
		if n.Pin != nil {
			n.X, n.Y = n.Pin.X, n.Pin.Y
			n.VX, n.VY = 0, 0
			continue
		}

		n.VX *= damping
		n.VY *= damping
		n.X += n.VX
		n.Y += n.VY

		if !finite(n.X) || !finite(n.Y) {
			debug.Log("non-finite position for %s reset to center", n.ID)
			n.X, n.Y = s.centerX, s.centerY
			n.VX, n.VY = 0, 0
		}
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
