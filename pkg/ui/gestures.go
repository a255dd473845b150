package ui

import "time"

const (
	// dragThresholdCells is how far the pointer must travel before a
	// press turns into a drag instead of a click.
	dragThresholdCells = 2

	// doubleClickWindow is the longest gap between two clicks on the
	// same node that still counts as a double click.
	doubleClickWindow = 400 * time.Millisecond

	// longPressDelay is how long a motionless press must be held
	// before it fires as a long press.
	longPressDelay = 600 * time.Millisecond
)

// GestureKind identifies what a pointer interaction resolved to.
type GestureKind int

const (
	GestureNone GestureKind = iota
	GestureClick
	GestureToggle
	GestureDoubleClick
	GestureBackgroundClick
	GestureLongPress
	GestureDragNode
	GesturePan
	GestureDragEnd
)

// Gesture is one resolved pointer event. X and Y are the current cell;
// DX and DY carry the cell delta since the previous motion for drags
// and pans.
type Gesture struct {
	Kind   GestureKind
	NodeID string
	X, Y   int
	DX, DY int
}

// Gestures turns raw press, motion, and release events into clicks,
// double clicks, long presses, node drags, and camera pans. Clicks
// resolve on release so a press that turns into a drag never selects.
type Gestures struct {
	pressed        bool
	ctrl           bool
	nodeID         string
	startX, startY int
	lastX, lastY   int
	moved          bool
	pressedAt      time.Time
	longFired      bool

	lastClickID string
	lastClickAt time.Time
}

// Press records a button-down at the given cell. nodeID is the node
// under the pointer, or empty over the background.
func (g *Gestures) Press(nodeID string, x, y int, ctrl bool, now time.Time) {
	g.pressed = true
	g.ctrl = ctrl
	g.nodeID = nodeID
	g.startX, g.startY = x, y
	g.lastX, g.lastY = x, y
	g.moved = false
	g.pressedAt = now
	g.longFired = false
}

// Motion handles pointer movement. While a press is held it reports a
// node drag or a camera pan once the drag threshold is crossed;
// otherwise it reports nothing and the caller treats it as hover.
func (g *Gestures) Motion(x, y int) Gesture {
	if !g.pressed {
		return Gesture{Kind: GestureNone, X: x, Y: y}
	}
	dx, dy := x-g.lastX, y-g.lastY
	if !g.moved {
		if abs(x-g.startX) < dragThresholdCells && abs(y-g.startY) < dragThresholdCells {
			return Gesture{}
		}
		g.moved = true
	}
	g.lastX, g.lastY = x, y
	if g.nodeID != "" {
		return Gesture{Kind: GestureDragNode, NodeID: g.nodeID, X: x, Y: y, DX: dx, DY: dy}
	}
	return Gesture{Kind: GesturePan, X: x, Y: y, DX: dx, DY: dy}
}

// Release resolves the held press. Drags end as GestureDragEnd for
// nodes and silently for pans. A motionless release becomes a
// background click, a ctrl toggle, a double click when it lands on the
// node clicked just before, or a plain click.
func (g *Gestures) Release(x, y int, now time.Time) Gesture {
	if !g.pressed {
		return Gesture{}
	}
	pressedID, ctrl, moved, longFired := g.nodeID, g.ctrl, g.moved, g.longFired
	g.pressed = false
	g.nodeID = ""

	if moved {
		if pressedID != "" {
			return Gesture{Kind: GestureDragEnd, NodeID: pressedID, X: x, Y: y}
		}
		return Gesture{}
	}
	if longFired {
		return Gesture{}
	}
	if pressedID == "" {
		g.lastClickID = ""
		return Gesture{Kind: GestureBackgroundClick, X: x, Y: y}
	}
	if ctrl {
		g.lastClickID = ""
		return Gesture{Kind: GestureToggle, NodeID: pressedID, X: x, Y: y}
	}
	if pressedID == g.lastClickID && now.Sub(g.lastClickAt) <= doubleClickWindow {
		g.lastClickID = ""
		return Gesture{Kind: GestureDoubleClick, NodeID: pressedID, X: x, Y: y}
	}
	g.lastClickID = pressedID
	g.lastClickAt = now
	return Gesture{Kind: GestureClick, NodeID: pressedID, X: x, Y: y}
}

// Tick fires the long press once a motionless press on a node has been
// held past the delay. Call it from the frame loop; the subsequent
// release reports nothing.
func (g *Gestures) Tick(now time.Time) Gesture {
	if !g.pressed || g.moved || g.longFired || g.nodeID == "" {
		return Gesture{}
	}
	if now.Sub(g.pressedAt) < longPressDelay {
		return Gesture{}
	}
	g.longFired = true
	return Gesture{Kind: GestureLongPress, NodeID: g.nodeID, X: g.lastX, Y: g.lastY}
}

// Dragging reports whether a node drag is in flight and which node.
func (g *Gestures) Dragging() (string, bool) {
	if g.pressed && g.moved && g.nodeID != "" {
		return g.nodeID, true
	}
	return "", false
}
