// Package termview rasterizes shapes into a grid of terminal cells.
package termview

import (
	"math"
	"strings"

	"flowpaint/internal/geom"
	"flowpaint/internal/shape"
)

// Pixels covered by one terminal cell.
const (
	CellWidth  = 8.0
	CellHeight = 16.0
)

// View maps screen pixels onto cells. Pan is the screen pixel shown in the top-left cell.
type View struct {
	Zoom          float64
	Pan           geom.Point
	Width, Height int
}

func (v View) zoom() float64 {
	if v.Zoom <= 0 {
		return 1
	}
	return v.Zoom
}

// CellOf returns the cell showing document point p.
func (v View) CellOf(p geom.Point) (int, int) {
	s := p.Mul(v.zoom()).Sub(v.Pan)
	return int(math.Floor(s.X / CellWidth)), int(math.Floor(s.Y / CellHeight))
}

// ScreenOf returns the screen pixel at the centre of a cell.
func (v View) ScreenOf(col, row int) geom.Point {
	return geom.Point{
		X: (float64(col)+0.5)*CellWidth + v.Pan.X,
		Y: (float64(row)+0.5)*CellHeight + v.Pan.Y,
	}
}

type Options struct {
	Selected int // index of the selected shape, -1 for none
	Handles  bool
	Snap     *geom.Point
	Cursor   *geom.Point
}

// Grid is a rendered frame. Owner records which shape index drew each cell.
type Grid struct {
	Width, Height int
	cells         [][]rune
	owner         [][]int
	view          View
}

func newGrid(v View) *Grid {
	g := &Grid{Width: v.Width, Height: v.Height, view: v}
	g.cells = make([][]rune, v.Height)
	g.owner = make([][]int, v.Height)
	for y := range g.cells {
		g.cells[y] = []rune(strings.Repeat(" ", v.Width))
		g.owner[y] = make([]int, v.Width)
		for x := range g.owner[y] {
			g.owner[y][x] = -1
		}
	}
	return g
}

func (g *Grid) isValidPos(x, y int) bool {
	return y >= 0 && y < g.Height && x >= 0 && x < g.Width
}

func (g *Grid) set(x, y int, ch rune, owner int) {
	if g.isValidPos(x, y) {
		g.cells[y][x] = ch
		g.owner[y][x] = owner
	}
}

func (g *Grid) At(x, y int) rune {
	if !g.isValidPos(x, y) {
		return 0
	}
	return g.cells[y][x]
}

// Owner is the index of the shape that drew cell (x, y), or -1.
func (g *Grid) Owner(x, y int) int {
	if !g.isValidPos(x, y) {
		return -1
	}
	return g.owner[y][x]
}

func (g *Grid) Lines() []string {
	lines := make([]string, g.Height)
	for y, row := range g.cells {
		lines[y] = string(row)
	}
	return lines
}

// Render draws shapes bottom first so later shapes overwrite earlier ones.
func Render(shapes []*shape.Shape, v View, opts Options) *Grid {
	g := newGrid(v)
	for i, s := range shapes {
		g.drawShape(s, i, i == opts.Selected)
	}
	if opts.Handles && opts.Selected >= 0 && opts.Selected < len(shapes) {
		g.drawHandles(shapes[opts.Selected], opts.Selected)
	}
	if opts.Snap != nil {
		x, y := v.CellOf(*opts.Snap)
		g.set(x, y, '*', -1)
	}
	if opts.Cursor != nil {
		x, y := v.CellOf(*opts.Cursor)
		if g.At(x, y) == ' ' {
			g.set(x, y, '+', -1)
		}
	}
	return g
}

func (g *Grid) drawShape(s *shape.Shape, idx int, selected bool) {
	if s.IsArrow() {
		g.drawArrow(s, idx)
		return
	}
	if s.Rotation == 0 && (s.Kind == shape.Rect || s.Kind == shape.RoundedRect) {
		g.drawBox(s, idx, selected)
	} else {
		pts := s.RotatedOutline()
		for i := range pts {
			g.drawSegment(pts[i], pts[(i+1)%len(pts)], idx, selected)
		}
	}
	g.drawLabel(s, idx)
}

func (g *Grid) drawBox(s *shape.Shape, idx int, selected bool) {
	x0, y0 := g.view.CellOf(s.Rect.TopLeft())
	x1, y1 := g.view.CellOf(s.Rect.BottomRight())

	var corners [4]rune
	var horizontal, vertical rune
	switch {
	case selected:
		corners, horizontal, vertical = [4]rune{'#', '#', '#', '#'}, '#', '#'
	case s.Kind == shape.RoundedRect:
		corners, horizontal, vertical = [4]rune{'.', '.', '\'', '\''}, '-', '|'
	default:
		corners, horizontal, vertical = [4]rune{'+', '+', '+', '+'}, '-', '|'
	}

	for x := x0 + 1; x < x1; x++ {
		g.set(x, y0, horizontal, idx)
		g.set(x, y1, horizontal, idx)
	}
	for y := y0 + 1; y < y1; y++ {
		g.set(x0, y, vertical, idx)
		g.set(x1, y, vertical, idx)
	}
	g.set(x0, y0, corners[0], idx)
	g.set(x1, y0, corners[1], idx)
	g.set(x0, y1, corners[2], idx)
	g.set(x1, y1, corners[3], idx)
}

// lineRune picks a character for a segment from its direction in screen pixels.
func lineRune(dx, dy float64) rune {
	adx, ady := math.Abs(dx), math.Abs(dy)
	switch {
	case ady <= adx*0.4:
		return '-'
	case adx <= ady*0.4:
		return '|'
	case (dx > 0) == (dy > 0):
		return '\\'
	default:
		return '/'
	}
}

func (g *Grid) drawSegment(a, b geom.Point, idx int, selected bool) {
	ch := lineRune(b.X-a.X, b.Y-a.Y)
	if selected {
		ch = '#'
	}
	x0, y0 := g.view.CellOf(a)
	x1, y1 := g.view.CellOf(b)
	g.line(x0, y0, x1, y1, func(x, y int) { g.set(x, y, ch, idx) })
}

// line walks the cells between two cells with Bresenham's algorithm.
func (g *Grid) line(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (g *Grid) drawArrow(s *shape.Shape, idx int) {
	a, b := s.Line.P1, s.Line.P2
	g.drawSegment(a, b, idx, false)
	x, y := g.view.CellOf(b)
	g.set(x, y, arrowHead(b.X-a.X, b.Y-a.Y), idx)
}

func arrowHead(dx, dy float64) rune {
	if math.Abs(dx)*CellHeight/CellWidth >= math.Abs(dy) {
		if dx >= 0 {
			return '>'
		}
		return '<'
	}
	if dy >= 0 {
		return 'v'
	}
	return '^'
}

// drawLabel writes the label lines centred vertically inside the bounding box.
func (g *Grid) drawLabel(s *shape.Shape, idx int) {
	if s.Text == "" {
		return
	}
	x0, y0 := g.view.CellOf(s.Rect.TopLeft())
	x1, y1 := g.view.CellOf(s.Rect.BottomRight())
	inner := x1 - x0 - 1
	if inner <= 0 {
		return
	}

	lines := strings.Split(s.Text, "\n")
	top := y0 + (y1-y0-len(lines))/2 + 1
	for i, line := range lines {
		y := top + i
		if y <= y0 || y >= y1 {
			continue
		}
		runes := []rune(line)
		if len(runes) > inner {
			runes = runes[:inner]
		}
		x := x0 + 1
		switch s.Align {
		case shape.AlignCenter:
			x += (inner - len(runes)) / 2
		case shape.AlignRight:
			x += inner - len(runes)
		}
		for j, ch := range runes {
			g.set(x+j, y, ch, idx)
		}
	}
}

// drawHandles paints in reverse so the handle that wins hit testing ends up visible.
func (g *Grid) drawHandles(s *shape.Shape, idx int) {
	handles := s.Handles()
	for i := len(handles) - 1; i >= 0; i-- {
		h := handles[i]
		var ch rune
		switch h.Type {
		case shape.HandleScale, shape.HandleEndpoint:
			ch = 'o'
		case shape.HandleRotate:
			ch = '@'
		case shape.HandleArrow:
			ch = '+'
		}
		x, y := g.view.CellOf(h.Center)
		g.set(x, y, ch, idx)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
