package canvas

import (
	"fmt"

	"flowpaint/internal/document"
	"flowpaint/internal/geom"
	"flowpaint/internal/shape"

	"github.com/google/uuid"
)

// Load replaces the model with doc. Unknown shape tags are skipped and
// connections that do not resolve to an arrow and an anchored shape are dropped.
func (c *Canvas) Load(doc document.Document) {
	c.Clear()

	if col, err := shape.ParseColor(doc.BackgroundColor); err == nil {
		c.SetBackground(col)
	} else if doc.BackgroundColor != "" {
		c.log.Printf("ignoring background: %v", err)
	}
	c.SetGridSize(doc.GridSize)
	c.SetPageSize(geom.Size{W: doc.Size.Width, H: doc.Size.Height})

	ids := make([]uuid.UUID, len(doc.Shapes))
	for i, rec := range doc.Shapes {
		s, ok := shape.FromRecord(rec)
		if !ok {
			c.log.Printf("skipping shape %d with unknown type %q", i, rec.Type)
			continue
		}
		ids[i] = s.ID
		c.shapes = append(c.shapes, s)
	}

	for i, dc := range doc.Connections {
		if dc.ArrowIndex < 0 || dc.ArrowIndex >= len(ids) || dc.ShapeIndex < 0 || dc.ShapeIndex >= len(ids) {
			c.log.Printf("dropping connection %d: index out of range", i)
			continue
		}
		conn := Connection{Arrow: ids[dc.ArrowIndex], Shape: ids[dc.ShapeIndex], Handle: dc.HandleIndex, Start: dc.IsStartPoint}
		if !c.validConnection(conn) {
			c.log.Printf("dropping connection %d: arrow %d to shape %d does not resolve", i, dc.ArrowIndex, dc.ShapeIndex)
			continue
		}
		if c.isConnected(conn.Arrow, conn.Start) {
			c.log.Printf("dropping connection %d: endpoint already bound", i)
			continue
		}
		c.connections = append(c.connections, conn)
	}
	c.changed()
}

// Snapshot returns the model as a persisted document.
func (c *Canvas) Snapshot() document.Document {
	doc := document.New()
	doc.BackgroundColor = shape.FormatColor(c.background)
	doc.GridSize = c.gridSize
	doc.Size = document.Size{Width: c.pageSize.W, Height: c.pageSize.H}
	for _, s := range c.shapes {
		doc.Shapes = append(doc.Shapes, s.ToRecord())
	}
	doc.Connections = c.Connections()
	return doc
}

// LoadFile reads path into the model. On failure the model is left empty.
func (c *Canvas) LoadFile(path string) error {
	c.Clear()
	doc, err := document.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load drawing: %w", err)
	}
	c.Load(doc)
	c.log.Printf("loaded %s: %d shapes, %d connections", path, len(c.shapes), len(c.connections))
	return nil
}

func (c *Canvas) SaveFile(path string) error {
	if err := document.WriteFile(path, c.Snapshot()); err != nil {
		return fmt.Errorf("save drawing: %w", err)
	}
	c.log.Printf("saved %s", path)
	return nil
}
