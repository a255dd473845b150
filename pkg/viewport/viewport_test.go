package viewport

import (
	"math"
	"testing"

	"github.com/cbayliss/netweave/pkg/model"
)

func settle(t *testing.T, v *Viewport) {
	t.Helper()
	for i := 0; i < 500; i++ {
		if !v.Step() {
			return
		}
	}
	t.Fatal("animation did not converge within 500 steps")
}

func almost(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestZoomStepsAreAsymmetric(t *testing.T) {
	v := New(800, 600)

	v.ZoomIn()
	settle(t, v)
	if got := v.Scale(); !almost(got, 1.3) {
		t.Fatalf("scale after zoom in = %v, want 1.3", got)
	}

	v.ZoomOut()
	settle(t, v)
	// 1.3 * 0.7 = 0.91, deliberately not back to 1.
	if got := v.Scale(); !almost(got, 0.91) {
		t.Errorf("scale after in+out = %v, want 0.91", got)
	}
}

func TestScaleClampedAtEveryStep(t *testing.T) {
	v := New(800, 600)
	for i := 0; i < 30; i++ {
		v.ZoomIn()
	}
	for i := 0; i < 500; i++ {
		cont := v.Step()
		if s := v.Scale(); s < MinScale || s > MaxScale {
			t.Fatalf("scale %v outside [%v, %v] mid-animation", s, MinScale, MaxScale)
		}
		if !cont {
			break
		}
	}
	if got := v.Scale(); got != MaxScale {
		t.Errorf("scale after repeated zoom in = %v, want %v", got, MaxScale)
	}

	for i := 0; i < 60; i++ {
		v.ZoomOut()
	}
	settle(t, v)
	if got := v.Scale(); got != MinScale {
		t.Errorf("scale after repeated zoom out = %v, want %v", got, MinScale)
	}
}

func TestResetReturnsToIdentity(t *testing.T) {
	v := New(800, 600)
	v.ZoomIn()
	v.PanBy(40, -25)
	v.Reset()
	settle(t, v)

	if tr := v.Transform(); !tr.IsIdentity() {
		t.Errorf("transform after reset = %+v, want identity", tr)
	}
}

func TestFitToCentersAndScales(t *testing.T) {
	v := New(800, 600)
	v.FitTo(Rect{MinX: 0, MinY: 0, MaxX: 400, MaxY: 300})
	settle(t, v)

	tr := v.Transform()
	// 0.9 / max(400/800, 300/600) = 1.8
	if !almost(tr.Scale, 1.8) {
		t.Fatalf("fit scale = %v, want 1.8", tr.Scale)
	}
	// Box center must land on the view center.
	sx, sy := tr.Apply(200, 150)
	if !almost(sx, 400) || !almost(sy, 300) {
		t.Errorf("box center mapped to (%v, %v), want (400, 300)", sx, sy)
	}
}

func TestFitToEmptyRectIsNoOp(t *testing.T) {
	v := New(800, 600)
	v.ZoomIn()
	settle(t, v)
	before := v.Transform()

	var none Rect
	none.MinX, none.MaxX = 1, 0
	v.FitTo(none)
	settle(t, v)

	if v.Transform() != before {
		t.Errorf("fit to empty rect changed transform from %+v to %+v", before, v.Transform())
	}
}

func TestFitScaleClamped(t *testing.T) {
	v := New(800, 600)
	v.FitTo(Rect{MinX: 0, MinY: 0, MaxX: 2, MaxY: 2})
	settle(t, v)
	if got := v.Scale(); got != MaxScale {
		t.Errorf("fit to tiny box scale = %v, want clamp at %v", got, MaxScale)
	}
}

func TestZoomAtKeepsCursorPointFixed(t *testing.T) {
	v := New(800, 600)
	v.PanBy(37, -12)

	wx, wy := v.ScreenToWorld(250, 180)
	v.ZoomAt(250, 180, 1.1)

	sx, sy := v.WorldToScreen(wx, wy)
	if !almost(sx, 250) || !almost(sy, 180) {
		t.Errorf("anchor moved to (%v, %v), want (250, 180)", sx, sy)
	}
}

func TestCenterOnFocusesNode(t *testing.T) {
	v := New(800, 600)
	v.CenterOn(120, -40)
	settle(t, v)

	tr := v.Transform()
	if !almost(tr.Scale, FocusZoomFactor) {
		t.Fatalf("focus scale = %v, want %v", tr.Scale, FocusZoomFactor)
	}
	sx, sy := tr.Apply(120, -40)
	if !almost(sx, 400) || !almost(sy, 300) {
		t.Errorf("focused point at (%v, %v), want view center", sx, sy)
	}
}

func TestCenterOnCapsScale(t *testing.T) {
	v := New(800, 600)
	v.ZoomAt(400, 300, 9.0)
	v.CenterOn(0, 0)
	settle(t, v)
	if got := v.Scale(); got != MaxScale {
		t.Errorf("focus scale = %v, want cap at %v", got, MaxScale)
	}
}

func TestTransformRoundTrip(t *testing.T) {
	tr := Transform{Scale: 2.5, TX: 100, TY: 50}
	sx, sy := tr.Apply(40, -7)
	wx, wy := tr.Invert(sx, sy)
	if !almost(wx, 40) || !almost(wy, -7) {
		t.Errorf("round trip gave (%v, %v), want (40, -7)", wx, wy)
	}
}

func TestBoundsOfIncludesRadius(t *testing.T) {
	nodes := []*model.GraphNode{
		{ID: "h", Kind: model.KindHost, X: 100, Y: 100},
		{ID: "s", Kind: model.KindService, X: 200, Y: 160},
	}
	r, ok := BoundsOf(nodes)
	if !ok {
		t.Fatal("BoundsOf returned not ok for two nodes")
	}
	want := Rect{MinX: 80, MinY: 80, MaxX: 215, MaxY: 175}
	if r != want {
		t.Errorf("bounds = %+v, want %+v", r, want)
	}
}

func TestBoundsOfEmpty(t *testing.T) {
	if _, ok := BoundsOf(nil); ok {
		t.Error("BoundsOf(nil) reported ok")
	}
}

func TestImmediateOpsCancelAnimation(t *testing.T) {
	v := New(800, 600)
	v.ZoomIn()
	if !v.Animating() {
		t.Fatal("expected animation after ZoomIn")
	}
	v.PanBy(10, 10)
	if v.Animating() {
		t.Error("PanBy should cancel the pending animation")
	}
}

func TestFitTransformDirect(t *testing.T) {
	box := Rect{MinX: 0, MinY: 0, MaxX: 400, MaxY: 300}
	tr, ok := FitTransform(box, 800, 600)
	if !ok {
		t.Fatal("FitTransform returned not ok for a valid box")
	}
	if !almost(tr.Scale, 1.8) {
		t.Errorf("scale = %v, want 1.8", tr.Scale)
	}
	// Box center lands at the view center.
	x, y := tr.Apply(box.CenterX(), box.CenterY())
	if !almost(x, 400) || !almost(y, 300) {
		t.Errorf("box center maps to (%v, %v), want (400, 300)", x, y)
	}

	if _, ok := FitTransform(Rect{MinX: 1, MaxX: 0}, 800, 600); ok {
		t.Error("empty rect should not produce a transform")
	}
	if _, ok := FitTransform(box, 0, 600); ok {
		t.Error("zero view width should not produce a transform")
	}
}
