// Package canvas owns a drawing: its ordered shapes, the arrow connections
// between them, selection, zoom, pointer interaction and undo/redo history.
//
// All methods are meant to be called from a single event loop.
package canvas

import (
	"image/color"
	"io"
	"log"
	"slices"

	"flowpaint/internal/document"
	"flowpaint/internal/geom"
	"flowpaint/internal/shape"

	"github.com/google/uuid"
)

const (
	MinZoom    = 0.1
	MaxZoom    = 5.0
	ZoomStep   = 1.2
	Margin     = 40.0
	SnapRadius = 10.0

	// ReconnectDistance is the fixed distance used when healing connections after a move.
	ReconnectDistance = 5.0

	DropWidth  = 80.0
	DropHeight = 60.0
)

// Options configure a canvas. PageSize and GridSize are the page defaults
// a new or cleared canvas starts from.
type Options struct {
	Logger        *log.Logger
	SnapRadius    float64
	AutoReconnect bool
	PageSize      geom.Size
	GridSize      int
}

func DefaultOptions() Options {
	return Options{
		SnapRadius:    SnapRadius,
		AutoReconnect: true,
		PageSize:      geom.Size{W: document.DefaultWidth, H: document.DefaultHeight},
		GridSize:      document.DefaultGridSize,
	}
}

var defaultBackground = color.RGBA{R: 255, G: 255, B: 255, A: 255}

type Canvas struct {
	opts Options
	log  *log.Logger

	shapes      []*shape.Shape
	connections []Connection
	selected    uuid.UUID

	zoom        float64
	pageSize    geom.Size
	background  color.RGBA
	gridSize    int
	gridVisible bool

	clipboard *shape.Shape
	cursor    geom.Point
	drag      dragState
	snap      *snapTarget

	editing  uuid.UUID
	editText string

	undoStack []Action
	redoStack []Action
	replaying bool

	listeners map[EventType][]EventListener
}

func New(opts Options) *Canvas {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	if opts.SnapRadius <= 0 {
		opts.SnapRadius = SnapRadius
	}
	if opts.PageSize.W <= 0 || opts.PageSize.H <= 0 {
		opts.PageSize = geom.Size{W: document.DefaultWidth, H: document.DefaultHeight}
	}
	if opts.GridSize <= 0 {
		opts.GridSize = document.DefaultGridSize
	}
	return &Canvas{
		opts:        opts,
		log:         opts.Logger,
		zoom:        1,
		pageSize:    opts.PageSize,
		background:  defaultBackground,
		gridSize:    opts.GridSize,
		gridVisible: true,
		listeners:   make(map[EventType][]EventListener),
	}
}

func (c *Canvas) Len() int {
	return len(c.shapes)
}

// Shape returns the shape at index i, or nil when i is out of range.
func (c *Canvas) Shape(i int) *shape.Shape {
	if i < 0 || i >= len(c.shapes) {
		return nil
	}
	return c.shapes[i]
}

// Shapes returns the shapes in z-order, bottom first. The slice is a copy.
func (c *Canvas) Shapes() []*shape.Shape {
	return slices.Clone(c.shapes)
}

func (c *Canvas) indexOf(id uuid.UUID) int {
	if id == uuid.Nil {
		return -1
	}
	return slices.IndexFunc(c.shapes, func(s *shape.Shape) bool { return s.ID == id })
}

func (c *Canvas) shapeByID(id uuid.UUID) *shape.Shape {
	if i := c.indexOf(id); i >= 0 {
		return c.shapes[i]
	}
	return nil
}

// IndexOf returns the current position of the shape with the given id, or -1.
func (c *Canvas) IndexOf(id uuid.UUID) int {
	return c.indexOf(id)
}

func (c *Canvas) SelectedIndex() int {
	return c.indexOf(c.selected)
}

func (c *Canvas) Selected() *shape.Shape {
	return c.shapeByID(c.selected)
}

// Select makes the shape at index i the selection. Out of range indices are ignored.
func (c *Canvas) Select(i int) {
	if s := c.Shape(i); s != nil {
		c.selectShape(s)
	}
}

func (c *Canvas) ClearSelection() {
	c.clearSelection()
}

func (c *Canvas) selectShape(s *shape.Shape) {
	if c.selected == s.ID {
		return
	}
	if prev := c.Selected(); prev != nil {
		prev.ClearSelectedHandle()
	}
	c.selected = s.ID
	c.emit(EventSelectionChanged, c.indexOf(s.ID))
}

func (c *Canvas) clearSelection() {
	if c.selected == uuid.Nil {
		return
	}
	if prev := c.Selected(); prev != nil {
		prev.ClearSelectedHandle()
	}
	c.selected = uuid.Nil
	c.emit(EventSelectionCleared, nil)
}

// Cursor is the last known pointer position in document coordinates.
func (c *Canvas) Cursor() geom.Point {
	return c.cursor
}

func (c *Canvas) SetCursor(screen geom.Point) {
	c.cursor = c.ScreenToDoc(screen)
}

func (c *Canvas) Zoom() float64 {
	return c.zoom
}

func (c *Canvas) ScreenToDoc(p geom.Point) geom.Point {
	return p.Div(c.zoom)
}

func (c *Canvas) DocToScreen(p geom.Point) geom.Point {
	return p.Mul(c.zoom)
}

func (c *Canvas) ScreenToDocRect(r geom.Rect) geom.Rect {
	return r.Div(c.zoom)
}

func (c *Canvas) DocToScreenRect(r geom.Rect) geom.Rect {
	return r.Mul(c.zoom)
}

func (c *Canvas) ScreenToDocSize(s geom.Size) geom.Size {
	return s.Div(c.zoom)
}

func (c *Canvas) DocToScreenSize(s geom.Size) geom.Size {
	return s.Mul(c.zoom)
}

// SetZoomFactor clamps f to [MinZoom, MaxZoom] and applies it.
func (c *Canvas) SetZoomFactor(f float64) {
	f = max(MinZoom, min(MaxZoom, f))
	if f == c.zoom {
		return
	}
	c.zoom = f
	c.emit(EventZoomChanged, f)
	if r, ok := c.EditorRect(); ok {
		c.emit(EventTextEditingChanged, r)
	}
}

func (c *Canvas) ZoomIn() {
	c.SetZoomFactor(c.zoom * ZoomStep)
}

func (c *Canvas) ZoomOut() {
	c.SetZoomFactor(c.zoom / ZoomStep)
}

func (c *Canvas) ResetZoom() {
	c.SetZoomFactor(1)
}

// ViewportSize is the scaled page plus Margin on every side.
func (c *Canvas) ViewportSize() geom.Size {
	s := c.DocToScreenSize(c.pageSize)
	return geom.Size{W: s.W + 2*Margin, H: s.H + 2*Margin}
}

func (c *Canvas) PageSize() geom.Size {
	return c.pageSize
}

func (c *Canvas) SetPageSize(s geom.Size) {
	if s.W <= 0 || s.H <= 0 || s == c.pageSize {
		return
	}
	c.pageSize = s
	c.emit(EventPageSizeChanged, s)
}

func (c *Canvas) GridSize() int {
	return c.gridSize
}

func (c *Canvas) SetGridSize(n int) {
	if n <= 0 || n == c.gridSize {
		return
	}
	c.gridSize = n
	c.emit(EventGridSizeChanged, n)
}

func (c *Canvas) GridVisible() bool {
	return c.gridVisible
}

func (c *Canvas) SetGridVisible(v bool) {
	if v == c.gridVisible {
		return
	}
	c.gridVisible = v
	c.emit(EventGridVisibilityChanged, v)
}

func (c *Canvas) Background() color.RGBA {
	return c.background
}

func (c *Canvas) SetBackground(col color.RGBA) {
	if col == c.background {
		return
	}
	c.background = col
	c.emit(EventBackgroundChanged, col)
}

// Clear drops every shape, connection and history entry and puts the page
// settings back to their defaults. The clipboard survives.
func (c *Canvas) Clear() {
	c.cancelDrag()
	c.clearSelection()
	c.editing = uuid.Nil
	c.shapes = nil
	c.connections = nil
	c.undoStack = nil
	c.redoStack = nil
	c.SetBackground(defaultBackground)
	c.SetGridSize(c.opts.GridSize)
	c.SetPageSize(c.opts.PageSize)
	c.notifyHistory()
	c.emit(EventChanged, nil)
}
