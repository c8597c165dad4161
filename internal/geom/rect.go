package geom

import "math"

// Rect is an axis aligned rectangle. Right and Bottom are X+W and Y+H.
type Rect struct {
	X, Y, W, H float64
}

func R(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// RectAround returns a w x h rect centred on c.
func RectAround(c Point, w, h float64) Rect {
	return Rect{c.X - w/2, c.Y - h/2, w, h}
}

// FromPoints returns the normalized rect spanning a and b.
func FromPoints(a, b Point) Rect {
	x0, x1 := math.Min(a.X, b.X), math.Max(a.X, b.X)
	y0, y1 := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	return Rect{x0, y0, x1 - x0, y1 - y0}
}

func (r Rect) Left() float64   { return r.X }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }

func (r Rect) TopLeft() Point     { return Point{r.X, r.Y} }
func (r Rect) TopRight() Point    { return Point{r.Right(), r.Y} }
func (r Rect) BottomLeft() Point  { return Point{r.X, r.Bottom()} }
func (r Rect) BottomRight() Point { return Point{r.Right(), r.Bottom()} }

func (r Rect) Center() Point {
	return Point{r.X + r.W/2, r.Y + r.H/2}
}

func (r Rect) Size() Size {
	return Size{r.W, r.H}
}

// Contains uses inclusive edges so that handles on the boundary are hittable.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

func (r Rect) Translate(d Point) Rect {
	return Rect{r.X + d.X, r.Y + d.Y, r.W, r.H}
}

func (r Rect) Mul(f float64) Rect {
	return Rect{r.X * f, r.Y * f, r.W * f, r.H * f}
}

func (r Rect) Div(f float64) Rect {
	return Rect{r.X / f, r.Y / f, r.W / f, r.H / f}
}

// WithLeft and friends move one edge and keep the opposite one in place.
func (r Rect) WithLeft(x float64) Rect {
	return Rect{x, r.Y, r.Right() - x, r.H}
}

func (r Rect) WithRight(x float64) Rect {
	return Rect{r.X, r.Y, x - r.X, r.H}
}

func (r Rect) WithTop(y float64) Rect {
	return Rect{r.X, y, r.W, r.Bottom() - y}
}

func (r Rect) WithBottom(y float64) Rect {
	return Rect{r.X, r.Y, r.W, y - r.Y}
}

// PolygonContains is an even-odd ray casting test.
func PolygonContains(poly []Point, p Point) bool {
	inside := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}
