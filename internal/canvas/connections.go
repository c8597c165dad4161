package canvas

import (
	"slices"

	"flowpaint/internal/document"
	"flowpaint/internal/geom"
	"flowpaint/internal/shape"

	"github.com/google/uuid"
)

// Connection binds one end of an arrow to an anchor of another shape.
type Connection struct {
	Arrow  uuid.UUID
	Shape  uuid.UUID
	Handle int  // anchor index on Shape
	Start  bool // true for the arrow's start point
}

// connSlot remembers where a connection sat so it can be put back in place.
type connSlot struct {
	At   int
	Conn Connection
}

// SnapInfo describes the anchor an arrow endpoint is currently locked to.
type SnapInfo struct {
	ShapeIndex int
	Handle     int
	Point      geom.Point
}

type snapTarget struct {
	Shape  uuid.UUID
	Handle int
	Point  geom.Point
}

// Connections returns the connection list in positional form.
func (c *Canvas) Connections() []document.Connection {
	out := make([]document.Connection, 0, len(c.connections))
	for _, conn := range c.connections {
		ai, si := c.indexOf(conn.Arrow), c.indexOf(conn.Shape)
		if ai < 0 || si < 0 {
			continue
		}
		out = append(out, document.Connection{
			ArrowIndex:   ai,
			ShapeIndex:   si,
			HandleIndex:  conn.Handle,
			IsStartPoint: conn.Start,
		})
	}
	return out
}

// ConnectionFor returns the connection bound to one end of an arrow.
func (c *Canvas) ConnectionFor(arrow int, start bool) (document.Connection, bool) {
	s := c.Shape(arrow)
	if s == nil {
		return document.Connection{}, false
	}
	for _, conn := range c.connections {
		if conn.Arrow == s.ID && conn.Start == start {
			return document.Connection{
				ArrowIndex:   arrow,
				ShapeIndex:   c.indexOf(conn.Shape),
				HandleIndex:  conn.Handle,
				IsStartPoint: start,
			}, true
		}
	}
	return document.Connection{}, false
}

// Snap reports the live snap target of the endpoint being dragged.
func (c *Canvas) Snap() (SnapInfo, bool) {
	if c.snap == nil {
		return SnapInfo{}, false
	}
	return SnapInfo{ShapeIndex: c.indexOf(c.snap.Shape), Handle: c.snap.Handle, Point: c.snap.Point}, true
}

func (c *Canvas) validConnection(conn Connection) bool {
	arrow, owner := c.shapeByID(conn.Arrow), c.shapeByID(conn.Shape)
	if arrow == nil || owner == nil || !arrow.IsArrow() || !owner.Traits().Anchors {
		return false
	}
	return conn.Arrow != conn.Shape
}

// setConnection binds an arrow end, replacing any existing binding for that end in place.
func (c *Canvas) setConnection(conn Connection) {
	if !c.validConnection(conn) {
		return
	}
	for i, existing := range c.connections {
		if existing.Arrow == conn.Arrow && existing.Start == conn.Start {
			c.connections[i] = conn
			c.pruneDuplicates(i)
			return
		}
	}
	c.connections = append(c.connections, conn)
}

// pruneDuplicates drops any other binding for the same arrow end as the one at keep.
func (c *Canvas) pruneDuplicates(keep int) {
	k := c.connections[keep]
	out := c.connections[:0]
	for i, conn := range c.connections {
		if i != keep && conn.Arrow == k.Arrow && conn.Start == k.Start {
			c.log.Printf("pruning stale connection for arrow %s", conn.Arrow)
			continue
		}
		out = append(out, conn)
	}
	c.connections = out
}

// takeConnections removes every connection matching fn and returns them with their positions.
func (c *Canvas) takeConnections(fn func(Connection) bool) []connSlot {
	var taken []connSlot
	kept := make([]Connection, 0, len(c.connections))
	for i, conn := range c.connections {
		if fn(conn) {
			taken = append(taken, connSlot{At: i, Conn: conn})
			continue
		}
		kept = append(kept, conn)
	}
	c.connections = kept
	return taken
}

// restoreConnections reinserts connections at their recorded positions, oldest slot first.
func (c *Canvas) restoreConnections(slots []connSlot) {
	for _, slot := range slots {
		if !c.validConnection(slot.Conn) {
			c.log.Printf("skipping unresolvable connection for arrow %s", slot.Conn.Arrow)
			continue
		}
		c.takeConnections(func(conn Connection) bool {
			return conn.Arrow == slot.Conn.Arrow && conn.Start == slot.Conn.Start
		})
		at := min(max(slot.At, 0), len(c.connections))
		c.connections = slices.Insert(c.connections, at, slot.Conn)
	}
}

func (c *Canvas) connectionsOf(id uuid.UUID) func(Connection) bool {
	return func(conn Connection) bool {
		return conn.Arrow == id || conn.Shape == id
	}
}

func (c *Canvas) endOf(arrow uuid.UUID, start bool) func(Connection) bool {
	return func(conn Connection) bool {
		return conn.Arrow == arrow && conn.Start == start
	}
}

func (c *Canvas) isConnected(arrow uuid.UUID, start bool) bool {
	return slices.ContainsFunc(c.connections, c.endOf(arrow, start))
}

// syncConnections glues every arrow end bound to s back onto its anchor.
// Ends whose anchor index no longer exists are shifted by delta instead.
// Loose ends picked up by auto reconnection are returned so the caller can record them.
func (c *Canvas) syncConnections(s *shape.Shape, delta geom.Point) []reconnection {
	anchors := s.ArrowAnchors()
	for _, conn := range c.connections {
		if conn.Shape != s.ID {
			continue
		}
		arrow := c.shapeByID(conn.Arrow)
		if arrow == nil {
			continue
		}
		if conn.Handle >= 0 && conn.Handle < len(anchors) {
			arrow.SetEndpoint(conn.Start, anchors[conn.Handle].Center)
		} else {
			arrow.UpdateConnection(conn.Start, delta)
		}
	}
	if c.opts.AutoReconnect && !c.replaying {
		return c.reconnectNear(s)
	}
	return nil
}

// reconnection is a binding made by reconnectNear, with the point the arrow end had before.
type reconnection struct {
	Slot     connSlot
	OldPoint geom.Point
}

// reconnectNear binds loose arrow ends that sit on one of s's anchors.
func (c *Canvas) reconnectNear(s *shape.Shape) []reconnection {
	anchors := s.ArrowAnchors()
	if len(anchors) == 0 {
		return nil
	}
	var made []reconnection
	for _, arrow := range c.shapes {
		if !arrow.IsArrow() || arrow.ID == s.ID {
			continue
		}
		for _, start := range []bool{true, false} {
			if c.isConnected(arrow.ID, start) {
				continue
			}
			end := arrow.Endpoint(start)
			for _, a := range anchors {
				if a.Center.Sub(end).ManhattanLength() > ReconnectDistance {
					continue
				}
				conn := Connection{Arrow: arrow.ID, Shape: s.ID, Handle: a.Index, Start: start}
				arrow.SetEndpoint(start, a.Center)
				c.setConnection(conn)
				made = append(made, reconnection{Slot: connSlot{At: len(c.connections) - 1, Conn: conn}, OldPoint: end})
				c.log.Printf("reconnected arrow %d to shape %d anchor %d", c.indexOf(arrow.ID), c.indexOf(s.ID), a.Index)
				break
			}
		}
	}
	return made
}

// unbindReconnections drops bindings made by auto reconnection, newest first.
// Call it before moving the owner back so the arrows stay where they are.
func (c *Canvas) unbindReconnections(rs []reconnection) {
	for i := len(rs) - 1; i >= 0; i-- {
		conn := rs[i].Slot.Conn
		c.takeConnections(c.endOf(conn.Arrow, conn.Start))
	}
}

// resetReconnectedEnds puts reconnected arrow ends back where they were before binding.
func (c *Canvas) resetReconnectedEnds(rs []reconnection) {
	for i := len(rs) - 1; i >= 0; i-- {
		r := rs[i]
		if arrow := c.shapeByID(r.Slot.Conn.Arrow); arrow != nil {
			arrow.SetEndpoint(r.Slot.Conn.Start, r.OldPoint)
		}
	}
}

// rebindReconnections replays the bindings and glues them onto owner's anchors.
func (c *Canvas) rebindReconnections(owner uuid.UUID, rs []reconnection) {
	if len(rs) == 0 {
		return
	}
	slots := make([]connSlot, len(rs))
	for i, r := range rs {
		slots[i] = r.Slot
	}
	c.restoreConnections(slots)
	if s := c.shapeByID(owner); s != nil {
		c.syncConnections(s, geom.Point{})
	}
}

// findSnap returns the nearest anchor within the zoom adjusted snap radius of p.
// Anchors sitting on the arrow's other end are not eligible.
func (c *Canvas) findSnap(arrow *shape.Shape, start bool, p geom.Point) *snapTarget {
	radius := c.opts.SnapRadius / c.zoom
	other := arrow.Endpoint(!start)

	var best *snapTarget
	bestDist := radius
	for _, s := range c.shapes {
		if s.ID == arrow.ID || !s.Traits().Anchors {
			continue
		}
		for _, a := range s.ArrowAnchors() {
			if a.Center.Near(other) {
				continue
			}
			d := a.Center.Sub(p).ManhattanLength()
			if d > bestDist || (best != nil && d == bestDist) {
				continue
			}
			best = &snapTarget{Shape: s.ID, Handle: a.Index, Point: a.Center}
			bestDist = d
		}
	}
	return best
}
