// Package viewport tracks the zoom and pan transform applied to the
// rendered scene. Model coordinates are never modified; the transform
// is applied at draw time and inverted for hit testing.
package viewport

import (
	"math"

	"github.com/cbayliss/netweave/pkg/model"
)

const (
	// MinScale and MaxScale bound every transform the viewport can
	// reach, whatever sequence of operations produced it.
	MinScale = 0.1
	MaxScale = 10.0

	// Keyboard zoom steps. The factors are intentionally not exact
	// inverses, so alternating in/out drifts slightly toward zoom-out.
	ZoomInFactor  = 1.3
	ZoomOutFactor = 0.7

	// FitMargin leaves breathing room around the content box when
	// fitting it to the view.
	FitMargin = 0.9

	// FocusZoomFactor is applied when jumping to a single node.
	FocusZoomFactor = 1.5

	// easing is the per-frame interpolation factor toward the target
	// transform. snapEpsilon ends the animation once the remaining
	// delta is imperceptible.
	easing      = 0.25
	snapEpsilon = 1e-3
)

// Transform maps world (model) coordinates to screen coordinates:
// screen = world*Scale + T.
type Transform struct {
	Scale float64 `json:"scale"`
	TX    float64 `json:"tx"`
	TY    float64 `json:"ty"`
}

// Identity returns the neutral transform.
func Identity() Transform {
	return Transform{Scale: 1}
}

// Apply converts a world coordinate to screen space.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return x*t.Scale + t.TX, y*t.Scale + t.TY
}

// Invert converts a screen coordinate back to world space.
func (t Transform) Invert(x, y float64) (float64, float64) {
	if t.Scale == 0 {
		return 0, 0
	}
	return (x - t.TX) / t.Scale, (y - t.TY) / t.Scale
}

// IsIdentity reports whether the transform is the neutral one.
func (t Transform) IsIdentity() bool {
	return t.Scale == 1 && t.TX == 0 && t.TY == 0
}

func clampScale(s float64) float64 {
	if math.IsNaN(s) {
		return 1
	}
	if s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}

// Rect is an axis-aligned bounding box in world coordinates.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Empty reports whether the rect holds no area and no point.
func (r Rect) Empty() bool {
	return r.MaxX < r.MinX || r.MaxY < r.MinY
}

// Width returns the horizontal extent, zero for degenerate rects.
func (r Rect) Width() float64 {
	if r.Empty() {
		return 0
	}
	return r.MaxX - r.MinX
}

// Height returns the vertical extent, zero for degenerate rects.
func (r Rect) Height() float64 {
	if r.Empty() {
		return 0
	}
	return r.MaxY - r.MinY
}

// CenterX returns the horizontal midpoint.
func (r Rect) CenterX() float64 { return (r.MinX + r.MaxX) / 2 }

// CenterY returns the vertical midpoint.
func (r Rect) CenterY() float64 { return (r.MinY + r.MaxY) / 2 }

// BoundsOf computes the bounding box of the given nodes, including
// each node's visual radius. ok is false when the slice is empty.
func BoundsOf(nodes []*model.GraphNode) (Rect, bool) {
	if len(nodes) == 0 {
		return Rect{MinX: 1, MaxX: 0}, false
	}
	r := Rect{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	for _, n := range nodes {
		rad := n.Radius()
		r.MinX = math.Min(r.MinX, n.X-rad)
		r.MinY = math.Min(r.MinY, n.Y-rad)
		r.MaxX = math.Max(r.MaxX, n.X+rad)
		r.MaxY = math.Max(r.MaxY, n.Y+rad)
	}
	return r, true
}

// Viewport holds the current transform plus an animation target. Call
// Step once per frame to ease toward the target; immediate operations
// such as wheel zoom and drag pan cancel any running animation.
type Viewport struct {
	width, height float64

	current Transform
	target  Transform
}

// New creates a viewport for a view of the given pixel size.
func New(width, height float64) *Viewport {
	return &Viewport{
		width:   width,
		height:  height,
		current: Identity(),
		target:  Identity(),
	}
}

// SetSize records a new view size. The transform is kept as is; callers
// that want the content refitted issue a FitTo afterwards.
func (v *Viewport) SetSize(width, height float64) {
	v.width = width
	v.height = height
}

// Size returns the last recorded view size.
func (v *Viewport) Size() (width, height float64) {
	return v.width, v.height
}

// Transform returns the transform to apply this frame.
func (v *Viewport) Transform() Transform {
	return v.current
}

// Scale returns the current scale factor.
func (v *Viewport) Scale() float64 {
	return v.current.Scale
}

// ZoomIn animates one keyboard zoom step toward the view center.
func (v *Viewport) ZoomIn() {
	v.zoomAroundCenter(ZoomInFactor)
}

// ZoomOut animates one keyboard zoom step away from the view center.
func (v *Viewport) ZoomOut() {
	v.zoomAroundCenter(ZoomOutFactor)
}

// zoomAroundCenter rescales the animation target, keeping the world
// point currently at the view center fixed. Basing the step on the
// target rather than the current transform lets rapid key presses
// accumulate.
func (v *Viewport) zoomAroundCenter(factor float64) {
	cx, cy := v.width/2, v.height/2
	wx, wy := v.target.Invert(cx, cy)
	scale := clampScale(v.target.Scale * factor)
	v.target = Transform{
		Scale: scale,
		TX:    cx - wx*scale,
		TY:    cy - wy*scale,
	}
}

// ZoomAt applies an immediate zoom step anchored at a screen point, so
// the world location under the cursor stays under the cursor.
func (v *Viewport) ZoomAt(screenX, screenY, factor float64) {
	wx, wy := v.current.Invert(screenX, screenY)
	scale := clampScale(v.current.Scale * factor)
	v.current = Transform{
		Scale: scale,
		TX:    screenX - wx*scale,
		TY:    screenY - wy*scale,
	}
	v.target = v.current
}

// PanBy shifts the view immediately by a screen-space delta.
func (v *Viewport) PanBy(dx, dy float64) {
	v.current.TX += dx
	v.current.TY += dy
	v.target = v.current
}

// Reset animates back to the identity transform.
func (v *Viewport) Reset() {
	v.target = Identity()
}

// FitTransform computes the transform that fills a width x height view
// with the given world-space box, leaving the standard margin. ok is
// false for degenerate boxes or view sizes, in which case callers keep
// their current transform.
func FitTransform(bounds Rect, width, height float64) (Transform, bool) {
	if bounds.Empty() || width <= 0 || height <= 0 {
		return Identity(), false
	}
	bw, bh := bounds.Width(), bounds.Height()
	if bw <= 0 && bh <= 0 {
		return Identity(), false
	}
	ratio := math.Max(bw/width, bh/height)
	scale := clampScale(FitMargin / ratio)
	return Transform{
		Scale: scale,
		TX:    width/2 - bounds.CenterX()*scale,
		TY:    height/2 - bounds.CenterY()*scale,
	}, true
}

// FitTo animates the transform so the given world-space box fills the
// view with a margin. Degenerate boxes are ignored.
func (v *Viewport) FitTo(bounds Rect) {
	if t, ok := FitTransform(bounds, v.width, v.height); ok {
		v.target = t
	}
}

// CenterOn animates toward the given world point at a boosted zoom
// level, used when a node is focused directly.
func (v *Viewport) CenterOn(worldX, worldY float64) {
	scale := clampScale(v.current.Scale * FocusZoomFactor)
	v.target = Transform{
		Scale: scale,
		TX:    v.width/2 - worldX*scale,
		TY:    v.height/2 - worldY*scale,
	}
}

// Animating reports whether the current transform has not yet reached
// its target.
func (v *Viewport) Animating() bool {
	return v.current != v.target
}

// Step advances the animation one frame and reports whether more
// frames are needed. The scale is clamped on every intermediate frame,
// never only at the end.
func (v *Viewport) Step() bool {
	if v.current == v.target {
		return false
	}
	v.current.Scale += (v.target.Scale - v.current.Scale) * easing
	v.current.TX += (v.target.TX - v.current.TX) * easing
	v.current.TY += (v.target.TY - v.current.TY) * easing
	v.current.Scale = clampScale(v.current.Scale)

	if math.Abs(v.current.Scale-v.target.Scale) < snapEpsilon &&
		math.Abs(v.current.TX-v.target.TX) < snapEpsilon &&
		math.Abs(v.current.TY-v.target.TY) < snapEpsilon {
		v.current = v.target
		return false
	}
	return true
}

// WorldToScreen converts a world coordinate using the current transform.
func (v *Viewport) WorldToScreen(x, y float64) (float64, float64) {
	return v.current.Apply(x, y)
}

// ScreenToWorld converts a screen coordinate using the current transform.
func (v *Viewport) ScreenToWorld(x, y float64) (float64, float64) {
	return v.current.Invert(x, y)
}
