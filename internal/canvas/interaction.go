package canvas

import (
	"flowpaint/internal/geom"
	"flowpaint/internal/shape"

	"github.com/google/uuid"
)

type dragMode int

const (
	dragNone dragMode = iota
	dragMove
	dragResize
	dragRotate
	dragEndpoint
)

type dragState struct {
	mode   dragMode
	target uuid.UUID
	last   geom.Point
	start  geom.Point

	origRect     geom.Rect
	origRotation float64

	// loose arrow ends bound by auto reconnection during the drag
	reconnects []reconnection

	// endpoint drags
	endStart  bool
	creating  bool
	origPoint geom.Point
}

// Dragging reports whether a press is in progress.
func (c *Canvas) Dragging() bool {
	return c.drag.mode != dragNone
}

func (c *Canvas) cancelDrag() {
	if s := c.shapeByID(c.drag.target); s != nil {
		s.ClearSelectedHandle()
	}
	c.drag = dragState{}
	c.snap = nil
}

// Press handles a primary button press at a screen position.
func (c *Canvas) Press(screen geom.Point) {
	doc := c.ScreenToDoc(screen)
	c.cursor = doc
	c.drag = dragState{last: doc, start: doc}
	c.snap = nil

	if sel := c.Selected(); sel != nil {
		if i := sel.HandleAt(doc); i >= 0 {
			c.pressHandle(sel, sel.Handles()[i], doc)
			return
		}
	}

	for i := len(c.shapes) - 1; i >= 0; i-- {
		s := c.shapes[i]
		if !s.Contains(doc) {
			continue
		}
		c.selectShape(s)
		if !s.IsArrow() {
			c.drag.mode = dragMove
			c.drag.target = s.ID
		}
		return
	}
	c.clearSelection()
}

func (c *Canvas) pressHandle(sel *shape.Shape, h shape.Handle, doc geom.Point) {
	c.drag.target = sel.ID
	switch h.Type {
	case shape.HandleArrow:
		c.spawnArrow(sel, h, doc)
	case shape.HandleScale:
		sel.SetSelectedHandle(h.Index)
		c.drag.mode = dragResize
		c.drag.origRect = sel.Rect
	case shape.HandleRotate:
		sel.SetSelectedHandle(h.Index)
		c.drag.mode = dragRotate
		c.drag.origRotation = sel.Rotation
	case shape.HandleEndpoint:
		sel.SetSelectedHandle(h.Index)
		c.drag.mode = dragEndpoint
		c.drag.endStart = h.Index == 0
		c.drag.origPoint = sel.Endpoint(c.drag.endStart)
	}
}

// spawnArrow starts a new arrow on the anchor matching an arrow handle.
func (c *Canvas) spawnArrow(owner *shape.Shape, h shape.Handle, doc geom.Point) {
	anchor := shape.MapArrowHandleToAnchor(h.Index)
	anchors := owner.ArrowAnchors()
	if anchor < 0 || anchor >= len(anchors) {
		return
	}
	arrow := shape.NewArrow(anchors[anchor].Center, doc)
	arrow.LineColor = owner.LineColor
	c.shapes = append(c.shapes, arrow)
	c.recordAction(Action{Type: ActionAdd, Data: AddData{Index: len(c.shapes) - 1, Shape: arrow.Clone()}})
	c.setConnection(Connection{Arrow: arrow.ID, Shape: owner.ID, Handle: anchor, Start: true})

	c.selectShape(arrow)
	arrow.SetSelectedHandle(1)
	c.drag.mode = dragEndpoint
	c.drag.target = arrow.ID
	c.drag.endStart = false
	c.drag.creating = true
	c.drag.origPoint = doc
	c.changed()
}

// Move handles pointer motion. Without a press it only tracks the cursor.
func (c *Canvas) Move(screen geom.Point) {
	doc := c.ScreenToDoc(screen)
	c.cursor = doc
	if c.drag.mode == dragNone {
		return
	}
	s := c.shapeByID(c.drag.target)
	if s == nil {
		c.cancelDrag()
		return
	}
	c.step(s, doc)
	c.drag.last = doc
	c.changed()
}

func (c *Canvas) step(s *shape.Shape, doc geom.Point) {
	delta := doc.Sub(c.drag.last)
	switch c.drag.mode {
	case dragMove:
		if delta.IsZero() {
			return
		}
		s.MoveBy(delta)
		c.drag.reconnects = append(c.drag.reconnects, c.syncConnections(s, delta)...)
	case dragResize, dragRotate:
		if s.HandleAnchorInteraction(doc, c.drag.last) {
			c.drag.reconnects = append(c.drag.reconnects, c.syncConnections(s, delta)...)
		}
	case dragEndpoint:
		c.snap = c.findSnap(s, c.drag.endStart, doc)
		p := doc
		if c.snap != nil {
			p = c.snap.Point
		}
		s.SetEndpoint(c.drag.endStart, p)
	}
}

// Release finishes a press and records the resulting history entry.
func (c *Canvas) Release(screen geom.Point) {
	doc := c.ScreenToDoc(screen)
	c.cursor = doc
	if c.drag.mode == dragNone {
		return
	}
	s := c.shapeByID(c.drag.target)
	if s == nil {
		c.cancelDrag()
		return
	}

	switch c.drag.mode {
	case dragMove:
		c.step(s, doc)
		total := doc.Sub(c.drag.start)
		if total.ManhattanLength() > 0 || len(c.drag.reconnects) > 0 {
			c.recordAction(Action{Type: ActionMove, Data: MoveData{ID: s.ID, Delta: total, Reconnects: c.drag.reconnects}})
		}
	case dragResize:
		c.step(s, doc)
		if s.Rect != c.drag.origRect || len(c.drag.reconnects) > 0 {
			c.recordAction(Action{Type: ActionResize, Data: ResizeData{ID: s.ID, Old: c.drag.origRect, New: s.Rect, Reconnects: c.drag.reconnects}})
		}
	case dragRotate:
		c.step(s, doc)
		if s.Rotation != c.drag.origRotation || len(c.drag.reconnects) > 0 {
			c.recordAction(Action{Type: ActionRotate, Data: RotateData{ID: s.ID, Old: c.drag.origRotation, New: s.Rotation, Reconnects: c.drag.reconnects}})
		}
	case dragEndpoint:
		c.finishEndpoint(s, doc)
	}

	c.cancelDrag()
	c.changed()
}

// finishEndpoint binds the released arrow end to the anchor under it, if any,
// and drops the previous binding of that end.
func (c *Canvas) finishEndpoint(arrow *shape.Shape, doc geom.Point) {
	start := c.drag.endStart
	target := c.findSnap(arrow, start, doc)

	old := c.takeConnections(c.endOf(arrow.ID, start))
	at := len(c.connections)
	if len(old) > 0 {
		at = old[0].At
	}

	var bound []connSlot
	p := doc
	if target != nil {
		p = target.Point
		bound = []connSlot{{At: at, Conn: Connection{Arrow: arrow.ID, Shape: target.Shape, Handle: target.Handle, Start: start}}}
		c.restoreConnections(bound)
	}
	arrow.SetEndpoint(start, p)

	if c.drag.creating {
		return
	}
	if p == c.drag.origPoint && sameSlots(old, bound) {
		return
	}
	c.recordAction(Action{Type: ActionEndpoint, Data: EndpointData{
		ID:       arrow.ID,
		Start:    start,
		OldPoint: c.drag.origPoint,
		NewPoint: p,
		Old:      old,
		New:      bound,
	}})
}

func sameSlots(a, b []connSlot) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Conn != b[i].Conn {
			return false
		}
	}
	return true
}

// DoubleClick starts editing the label of the topmost text capable shape under the pointer.
func (c *Canvas) DoubleClick(screen geom.Point) {
	doc := c.ScreenToDoc(screen)
	for i := len(c.shapes) - 1; i >= 0; i-- {
		s := c.shapes[i]
		if s.Contains(doc) && s.Traits().Text {
			c.selectShape(s)
			c.StartTextEditing(i)
			return
		}
	}
}
