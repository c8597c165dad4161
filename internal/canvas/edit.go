package canvas

import (
	"image/color"
	"slices"

	"flowpaint/internal/geom"
	"flowpaint/internal/shape"

	"github.com/google/uuid"
)

// DeleteSelected removes the selected shape along with every connection that references it.
func (c *Canvas) DeleteSelected() {
	s := c.Selected()
	if s == nil {
		return
	}
	idx := c.indexOf(s.ID)
	_, _, slots := c.detachShape(s.ID)
	c.recordAction(Action{Type: ActionRemove, Data: RemoveData{Index: idx, Shape: s.Clone(), Connections: slots}})
	c.changed()
}

// detachShape takes a shape and its connections out of the model.
func (c *Canvas) detachShape(id uuid.UUID) (int, *shape.Shape, []connSlot) {
	idx := c.indexOf(id)
	if idx < 0 {
		return -1, nil, nil
	}
	s := c.shapes[idx]
	if c.drag.target == id {
		c.cancelDrag()
	}
	if c.editing == id {
		c.stopEditing()
	}
	if c.selected == id {
		c.clearSelection()
	}
	c.shapes = slices.Delete(c.shapes, idx, idx+1)
	slots := c.takeConnections(c.connectionsOf(id))
	return idx, s, slots
}

// insertShape puts s back at idx, clamped to the current length.
func (c *Canvas) insertShape(idx int, s *shape.Shape) {
	idx = min(max(idx, 0), len(c.shapes))
	c.shapes = slices.Insert(c.shapes, idx, s)
}

// addShape appends s, selects it and records the addition.
func (c *Canvas) addShape(s *shape.Shape) {
	c.shapes = append(c.shapes, s)
	c.recordAction(Action{Type: ActionAdd, Data: AddData{Index: len(c.shapes) - 1, Shape: s.Clone()}})
	c.selectShape(s)
	c.changed()
}

// MoveUp swaps the selected shape with the one above it.
func (c *Canvas) MoveUp() {
	i := c.SelectedIndex()
	if i < 0 || i >= len(c.shapes)-1 {
		return
	}
	c.shapes[i], c.shapes[i+1] = c.shapes[i+1], c.shapes[i]
	c.reordered()
}

// MoveDown swaps the selected shape with the one below it.
func (c *Canvas) MoveDown() {
	i := c.SelectedIndex()
	if i <= 0 {
		return
	}
	c.shapes[i], c.shapes[i-1] = c.shapes[i-1], c.shapes[i]
	c.reordered()
}

func (c *Canvas) MoveToTop() {
	i := c.SelectedIndex()
	if i < 0 || i == len(c.shapes)-1 {
		return
	}
	s := c.shapes[i]
	c.shapes = append(slices.Delete(c.shapes, i, i+1), s)
	c.reordered()
}

func (c *Canvas) MoveToBottom() {
	i := c.SelectedIndex()
	if i <= 0 {
		return
	}
	s := c.shapes[i]
	c.shapes = slices.Insert(slices.Delete(c.shapes, i, i+1), 0, s)
	c.reordered()
}

func (c *Canvas) reordered() {
	c.emit(EventSelectionChanged, c.SelectedIndex())
	c.changed()
}

// Copy places a clone of the selected shape in the clipboard slot.
func (c *Canvas) Copy() {
	if s := c.Selected(); s != nil {
		c.clipboard = s.Clone()
	}
}

func (c *Canvas) Cut() {
	if c.Selected() == nil {
		return
	}
	c.Copy()
	c.DeleteSelected()
}

// Paste adds a copy of the clipboard shape with its top-left at the cursor.
func (c *Canvas) Paste() {
	if c.clipboard == nil {
		return
	}
	s := c.clipboard.Duplicate()
	s.MoveTo(c.cursor)
	c.addShape(s)
}

func (c *Canvas) Clipboard() *shape.Shape {
	return c.clipboard
}

// SetClipboard replaces the clipboard slot, e.g. with a shape read from the OS clipboard.
func (c *Canvas) SetClipboard(s *shape.Shape) {
	if s == nil {
		c.clipboard = nil
		return
	}
	c.clipboard = s.Clone()
}

// Drop creates a default sized shape for tag centred on a screen position.
// Arrows are laid horizontally through the point. Unknown tags are ignored.
func (c *Canvas) Drop(tag string, screen geom.Point) {
	kind, ok := shape.ParseKind(tag)
	if !ok {
		c.log.Printf("ignoring drop of unknown shape %q", tag)
		return
	}
	p := c.ScreenToDoc(screen)
	c.cursor = p

	var s *shape.Shape
	if kind == shape.Arrow {
		s = shape.NewArrow(geom.Pt(p.X-DropWidth/2, p.Y), geom.Pt(p.X+DropWidth/2, p.Y))
	} else {
		s = shape.New(kind, geom.RectAround(p, DropWidth, DropHeight))
	}
	c.addShape(s)
}

// NudgeSelected moves the selected shape by d document units as one history entry.
func (c *Canvas) NudgeSelected(d geom.Point) {
	s := c.Selected()
	if s == nil || s.IsArrow() || d.IsZero() {
		return
	}
	made := c.moveShape(s, d)
	c.recordAction(Action{Type: ActionMove, Data: MoveData{ID: s.ID, Delta: d, Reconnects: made}})
	c.changed()
}

func (c *Canvas) moveShape(s *shape.Shape, d geom.Point) []reconnection {
	s.MoveBy(d)
	return c.syncConnections(s, d)
}

func (c *Canvas) SetSelectedLineColor(col color.RGBA) {
	s := c.Selected()
	if s == nil || s.LineColor == col {
		return
	}
	c.setProperty(s, col, s.LineWidth)
}

func (c *Canvas) SetSelectedLineWidth(w float64) {
	s := c.Selected()
	if s == nil || w <= 0 || s.LineWidth == w {
		return
	}
	c.setProperty(s, s.LineColor, w)
}

func (c *Canvas) setProperty(s *shape.Shape, col color.RGBA, w float64) {
	c.recordAction(Action{Type: ActionProperty, Data: PropertyData{
		ID:       s.ID,
		OldColor: s.LineColor,
		NewColor: col,
		OldWidth: s.LineWidth,
		NewWidth: w,
	}})
	s.LineColor = col
	s.LineWidth = w
	c.changed()
}

// StartTextEditing opens the label of the shape at i for editing.
func (c *Canvas) StartTextEditing(i int) {
	s := c.Shape(i)
	if s == nil || !s.Traits().Text {
		return
	}
	if c.editing != uuid.Nil && c.editing != s.ID {
		c.CancelTextEditing()
	}
	c.editing = s.ID
	c.editText = s.Text
	s.Editing = true
	r, _ := c.EditorRect()
	c.emit(EventTextEditingChanged, r)
}

// FinishTextEditing commits text as the new label of the shape being edited.
func (c *Canvas) FinishTextEditing(text string) {
	s := c.shapeByID(c.editing)
	if s == nil {
		c.stopEditing()
		return
	}
	old := c.editText
	c.stopEditing()
	if text == old {
		return
	}
	s.Text = text
	c.recordAction(Action{Type: ActionText, Data: TextData{ID: s.ID, Old: old, New: text}})
	c.changed()
}

func (c *Canvas) CancelTextEditing() {
	c.stopEditing()
}

func (c *Canvas) stopEditing() {
	if c.editing == uuid.Nil {
		return
	}
	if s := c.shapeByID(c.editing); s != nil {
		s.Editing = false
	}
	c.editing = uuid.Nil
	c.editText = ""
	c.emit(EventTextEditingChanged, nil)
}

// EditingIndex is the index of the shape whose label is being edited, or -1.
func (c *Canvas) EditingIndex() int {
	return c.indexOf(c.editing)
}

// EditorRect is the screen space area of the label being edited.
func (c *Canvas) EditorRect() (geom.Rect, bool) {
	s := c.shapeByID(c.editing)
	if s == nil {
		return geom.Rect{}, false
	}
	return c.DocToScreenRect(s.BoundingRect()), true
}
