package canvas

import (
	"image/color"

	"flowpaint/internal/geom"
	"flowpaint/internal/shape"

	"github.com/google/uuid"
)

type ActionType int

const (
	ActionAdd ActionType = iota
	ActionRemove
	ActionMove
	ActionResize
	ActionProperty
	ActionRotate
	ActionText
	ActionEndpoint
)

func (t ActionType) String() string {
	switch t {
	case ActionAdd:
		return "add"
	case ActionRemove:
		return "remove"
	case ActionMove:
		return "move"
	case ActionResize:
		return "resize"
	case ActionProperty:
		return "property"
	case ActionRotate:
		return "rotate"
	case ActionText:
		return "text"
	case ActionEndpoint:
		return "endpoint"
	}
	return "unknown"
}

// Action is one undoable edit. Data holds the variant struct matching Type.
type Action struct {
	Type ActionType
	Data interface{}
}

// AddData is refreshed with the live shape and its connections when the add is undone.
type AddData struct {
	Index       int
	Shape       *shape.Shape
	Connections []connSlot
}

type RemoveData struct {
	Index       int
	Shape       *shape.Shape
	Connections []connSlot
}

// Reconnects on move, resize and rotate hold the loose arrow ends bound along the way.
type MoveData struct {
	ID         uuid.UUID
	Delta      geom.Point
	Reconnects []reconnection
}

type ResizeData struct {
	ID         uuid.UUID
	Old, New   geom.Rect
	Reconnects []reconnection
}

type PropertyData struct {
	ID                 uuid.UUID
	OldColor, NewColor color.RGBA
	OldWidth, NewWidth float64
}

type RotateData struct {
	ID         uuid.UUID
	Old, New   float64
	Reconnects []reconnection
}

type TextData struct {
	ID       uuid.UUID
	Old, New string
}

type EndpointData struct {
	ID                 uuid.UUID
	Start              bool
	OldPoint, NewPoint geom.Point
	Old, New           []connSlot
}

func (c *Canvas) CanUndo() bool {
	return len(c.undoStack) > 0
}

func (c *Canvas) CanRedo() bool {
	return len(c.redoStack) > 0
}

// History returns the undo stack, oldest first.
func (c *Canvas) History() []Action {
	return append([]Action(nil), c.undoStack...)
}

func (c *Canvas) recordAction(a Action) {
	if c.replaying {
		return
	}
	c.undoStack = append(c.undoStack, a)
	c.redoStack = nil
	c.notifyHistory()
}

func (c *Canvas) notifyHistory() {
	c.emit(EventCanUndoChanged, c.CanUndo())
	c.emit(EventCanRedoChanged, c.CanRedo())
}

func (c *Canvas) Undo() {
	if len(c.undoStack) == 0 {
		return
	}
	c.cancelDrag()
	c.stopEditing()

	lastIndex := len(c.undoStack) - 1
	action := c.undoStack[lastIndex]
	c.undoStack = c.undoStack[:lastIndex]

	c.replaying = true
	action = c.revert(action)
	c.replaying = false

	c.redoStack = append(c.redoStack, action)
	c.notifyHistory()
	c.changed()
}

func (c *Canvas) Redo() {
	if len(c.redoStack) == 0 {
		return
	}
	c.cancelDrag()
	c.stopEditing()

	lastIndex := len(c.redoStack) - 1
	action := c.redoStack[lastIndex]
	c.redoStack = c.redoStack[:lastIndex]

	c.replaying = true
	action = c.apply(action)
	c.replaying = false

	c.undoStack = append(c.undoStack, action)
	c.notifyHistory()
	c.changed()
}

// revert applies the inverse of a and returns it, possibly refreshed for redo.
func (c *Canvas) revert(a Action) Action {
	switch a.Type {
	case ActionAdd:
		data := a.Data.(AddData)
		if idx, s, slots := c.detachShape(data.Shape.ID); s != nil {
			data.Index = idx
			data.Shape = s.Clone()
			data.Connections = slots
		}
		a.Data = data
	case ActionRemove:
		data := a.Data.(RemoveData)
		c.insertShape(data.Index, data.Shape.Clone())
		c.restoreConnections(data.Connections)
	case ActionMove:
		data := a.Data.(MoveData)
		c.unbindReconnections(data.Reconnects)
		if s := c.shapeByID(data.ID); s != nil {
			c.moveShape(s, data.Delta.Neg())
		}
		c.resetReconnectedEnds(data.Reconnects)
	case ActionResize:
		data := a.Data.(ResizeData)
		c.unbindReconnections(data.Reconnects)
		c.resizeShape(data.ID, data.Old)
		c.resetReconnectedEnds(data.Reconnects)
	case ActionProperty:
		data := a.Data.(PropertyData)
		if s := c.shapeByID(data.ID); s != nil {
			s.LineColor, s.LineWidth = data.OldColor, data.OldWidth
		}
	case ActionRotate:
		data := a.Data.(RotateData)
		c.unbindReconnections(data.Reconnects)
		c.rotateShape(data.ID, data.Old)
		c.resetReconnectedEnds(data.Reconnects)
	case ActionText:
		data := a.Data.(TextData)
		if s := c.shapeByID(data.ID); s != nil {
			s.Text = data.Old
		}
	case ActionEndpoint:
		data := a.Data.(EndpointData)
		c.setEndpoint(data.ID, data.Start, data.OldPoint, data.Old)
	}
	return a
}

// apply replays a forward and returns it.
func (c *Canvas) apply(a Action) Action {
	switch a.Type {
	case ActionAdd:
		data := a.Data.(AddData)
		c.insertShape(data.Index, data.Shape.Clone())
		c.restoreConnections(data.Connections)
	case ActionRemove:
		data := a.Data.(RemoveData)
		c.detachShape(data.Shape.ID)
	case ActionMove:
		data := a.Data.(MoveData)
		if s := c.shapeByID(data.ID); s != nil {
			c.moveShape(s, data.Delta)
		}
		c.rebindReconnections(data.ID, data.Reconnects)
	case ActionResize:
		data := a.Data.(ResizeData)
		c.resizeShape(data.ID, data.New)
		c.rebindReconnections(data.ID, data.Reconnects)
	case ActionProperty:
		data := a.Data.(PropertyData)
		if s := c.shapeByID(data.ID); s != nil {
			s.LineColor, s.LineWidth = data.NewColor, data.NewWidth
		}
	case ActionRotate:
		data := a.Data.(RotateData)
		c.rotateShape(data.ID, data.New)
		c.rebindReconnections(data.ID, data.Reconnects)
	case ActionText:
		data := a.Data.(TextData)
		if s := c.shapeByID(data.ID); s != nil {
			s.Text = data.New
		}
	case ActionEndpoint:
		data := a.Data.(EndpointData)
		c.setEndpoint(data.ID, data.Start, data.NewPoint, data.New)
	}
	return a
}

func (c *Canvas) resizeShape(id uuid.UUID, r geom.Rect) {
	s := c.shapeByID(id)
	if s == nil {
		return
	}
	delta := r.TopLeft().Sub(s.Rect.TopLeft())
	s.SetRect(r)
	c.syncConnections(s, delta)
}

func (c *Canvas) rotateShape(id uuid.UUID, angle float64) {
	s := c.shapeByID(id)
	if s == nil {
		return
	}
	s.Rotation = angle
	c.syncConnections(s, geom.Point{})
}

func (c *Canvas) setEndpoint(id uuid.UUID, start bool, p geom.Point, slots []connSlot) {
	s := c.shapeByID(id)
	if s == nil {
		return
	}
	s.SetEndpoint(start, p)
	c.takeConnections(c.endOf(id, start))
	c.restoreConnections(slots)
}
