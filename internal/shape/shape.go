// Package shape implements the shapes placed on a canvas: geometry, hit testing,
// interactive handles, arrow anchors and the record form used for persistence.
package shape

import (
	"image/color"
	"math"

	"flowpaint/internal/geom"

	"github.com/google/uuid"
)

const (
	DefaultLineWidth = 2.0
	DefaultFontSize  = 12.0
	DefaultFont      = "Sans"

	// arrowHitTolerance is added to half the line width when testing arrows.
	arrowHitTolerance = 5.0
)

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

var alignNames = [...]string{"left", "center", "right"}

func (a Align) String() string {
	if a < 0 || int(a) >= len(alignNames) {
		return alignNames[AlignCenter]
	}
	return alignNames[a]
}

func parseAlign(s string) Align {
	for i, n := range alignNames {
		if n == s {
			return Align(i)
		}
	}
	return AlignCenter
}

type Font struct {
	Family string
	Size   float64
	Bold   bool
	Italic bool
}

// Shape is one element of a drawing. Non-arrow kinds use Rect, arrows use Line.
// Colors are opaque; transparency is carried by Opacity.
type Shape struct {
	ID        uuid.UUID
	Kind      Kind
	Rect      geom.Rect
	Line      geom.Line
	Rotation  float64
	Opacity   float64
	LineColor color.RGBA
	LineWidth float64
	Text      string
	Font      Font
	Align     Align
	TextColor color.RGBA
	Editing   bool

	selectedHandle int
}

func defaults(kind Kind) *Shape {
	return &Shape{
		ID:             uuid.New(),
		Kind:           kind,
		Opacity:        1,
		LineColor:      color.RGBA{A: 255},
		LineWidth:      DefaultLineWidth,
		Font:           Font{Family: DefaultFont, Size: DefaultFontSize},
		Align:          AlignCenter,
		TextColor:      color.RGBA{A: 255},
		selectedHandle: -1,
	}
}

// New creates a non-arrow shape occupying r. Passing Arrow maps r's diagonal to the line.
func New(kind Kind, r geom.Rect) *Shape {
	s := defaults(kind)
	if kind == Arrow {
		s.Line = geom.Line{P1: r.TopLeft(), P2: r.BottomRight()}
		return s
	}
	s.Rect = r
	return s
}

func NewArrow(p1, p2 geom.Point) *Shape {
	s := defaults(Arrow)
	s.Line = geom.Line{P1: p1, P2: p2}
	return s
}

// Clone copies the shape including its ID.
func (s *Shape) Clone() *Shape {
	c := *s
	return &c
}

// Duplicate copies the shape under a fresh ID with interaction state reset.
func (s *Shape) Duplicate() *Shape {
	c := s.Clone()
	c.ID = uuid.New()
	c.Editing = false
	c.selectedHandle = -1
	return c
}

func (s *Shape) Traits() Traits {
	return s.Kind.Traits()
}

func (s *Shape) IsArrow() bool {
	return s.Kind == Arrow
}

func (s *Shape) BoundingRect() geom.Rect {
	if s.IsArrow() {
		return s.Line.Bounds()
	}
	return s.Rect
}

func (s *Shape) Center() geom.Point {
	return s.BoundingRect().Center()
}

func (s *Shape) SelectedHandle() int {
	return s.selectedHandle
}

func (s *Shape) SetSelectedHandle(i int) {
	s.selectedHandle = i
}

func (s *Shape) ClearSelectedHandle() {
	s.selectedHandle = -1
}

// Contains reports whether p (document coordinates) lies on the shape.
func (s *Shape) Contains(p geom.Point) bool {
	if s.IsArrow() {
		return s.Line.DistanceTo(p) <= arrowHitTolerance+s.LineWidth/2
	}
	q := geom.RotateAbout(p, s.Rect.Center(), -s.Rotation)
	switch s.Kind {
	case Rect, RoundedRect:
		return s.Rect.Contains(q)
	case Ellipse:
		rx, ry := s.Rect.W/2, s.Rect.H/2
		if rx <= 0 || ry <= 0 {
			return false
		}
		c := s.Rect.Center()
		dx, dy := (q.X-c.X)/rx, (q.Y-c.Y)/ry
		return dx*dx+dy*dy <= 1
	default:
		return geom.PolygonContains(s.Outline(), q)
	}
}

// Outline returns the vertices of the shape in its unrotated frame.
// Ellipses are approximated with a fixed number of segments.
func (s *Shape) Outline() []geom.Point {
	r := s.Rect
	switch s.Kind {
	case Arrow:
		return []geom.Point{s.Line.P1, s.Line.P2}
	case Triangle:
		return []geom.Point{
			{X: r.X + r.W/2, Y: r.Y},
			r.BottomRight(),
			r.BottomLeft(),
		}
	case Diamond:
		c := r.Center()
		return []geom.Point{
			{X: c.X, Y: r.Y},
			{X: r.Right(), Y: c.Y},
			{X: c.X, Y: r.Bottom()},
			{X: r.X, Y: c.Y},
		}
	case Pentagon:
		return []geom.Point{
			{X: r.X + r.W/2, Y: r.Y},
			{X: r.Right(), Y: r.Y + r.H*0.38},
			{X: r.X + r.W*0.81, Y: r.Bottom()},
			{X: r.X + r.W*0.19, Y: r.Bottom()},
			{X: r.X, Y: r.Y + r.H*0.38},
		}
	case Ellipse:
		const segments = 36
		c := r.Center()
		pts := make([]geom.Point, segments)
		for i := range pts {
			a := 2 * math.Pi * float64(i) / segments
			pts[i] = geom.Point{X: c.X + r.W/2*math.Cos(a), Y: c.Y + r.H/2*math.Sin(a)}
		}
		return pts
	default:
		return []geom.Point{r.TopLeft(), r.TopRight(), r.BottomRight(), r.BottomLeft()}
	}
}

// RotatedOutline is Outline with the shape's rotation applied.
func (s *Shape) RotatedOutline() []geom.Point {
	pts := s.Outline()
	if s.IsArrow() || s.Rotation == 0 {
		return pts
	}
	c := s.Rect.Center()
	for i, p := range pts {
		pts[i] = geom.RotateAbout(p, c, s.Rotation)
	}
	return pts
}

func (s *Shape) MoveBy(d geom.Point) {
	if s.IsArrow() {
		s.Line = s.Line.Translate(d)
		return
	}
	s.Rect = s.Rect.Translate(d)
}

// MoveTo places the top-left of the bounding rect at p.
func (s *Shape) MoveTo(p geom.Point) {
	s.MoveBy(p.Sub(s.BoundingRect().TopLeft()))
}

// SetRect resizes the shape. Arrows map their endpoints proportionally into r.
func (s *Shape) SetRect(r geom.Rect) {
	if !s.IsArrow() {
		s.Rect = r
		return
	}
	old := s.Line.Bounds()
	remap := func(p geom.Point) geom.Point {
		out := r.TopLeft()
		if old.W != 0 {
			out.X += (p.X - old.X) / old.W * r.W
		}
		if old.H != 0 {
			out.Y += (p.Y - old.Y) / old.H * r.H
		}
		return out
	}
	s.Line = geom.Line{P1: remap(s.Line.P1), P2: remap(s.Line.P2)}
}

// Rotate adds delta radians. Arrows turn their endpoints about the midpoint instead.
func (s *Shape) Rotate(delta float64) {
	if s.IsArrow() {
		c := s.Line.Bounds().Center()
		s.Line = geom.Line{
			P1: geom.RotateAbout(s.Line.P1, c, delta),
			P2: geom.RotateAbout(s.Line.P2, c, delta),
		}
		return
	}
	s.Rotation += delta
}

func (s *Shape) SetP1(p geom.Point) {
	s.Line.P1 = p
}

func (s *Shape) SetP2(p geom.Point) {
	s.Line.P2 = p
}

func (s *Shape) Endpoint(start bool) geom.Point {
	if start {
		return s.Line.P1
	}
	return s.Line.P2
}

func (s *Shape) SetEndpoint(start bool, p geom.Point) {
	if start {
		s.SetP1(p)
		return
	}
	s.SetP2(p)
}

// UpdateConnection shifts one endpoint of an arrow by delta.
func (s *Shape) UpdateConnection(start bool, delta geom.Point) {
	s.SetEndpoint(start, s.Endpoint(start).Add(delta))
}
