// Package geom holds the document-space primitives shared by the canvas and its painters.
package geom

import (
	"math"

	"github.com/fogleman/gg"
	"gonum.org/v1/gonum/floats/scalar"
)

// Epsilon is the tolerance used by Near comparisons.
const Epsilon = 1e-9

type Point struct {
	X, Y float64
}

func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

func (p Point) Mul(f float64) Point {
	return Point{p.X * f, p.Y * f}
}

func (p Point) Div(f float64) Point {
	return Point{p.X / f, p.Y / f}
}

func (p Point) Neg() Point {
	return Point{-p.X, -p.Y}
}

func (p Point) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

// ManhattanLength is |x| + |y|, the distance used for snapping.
func (p Point) ManhattanLength() float64 {
	return math.Abs(p.X) + math.Abs(p.Y)
}

func (p Point) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// Near reports whether p and q are equal within Epsilon on both axes.
func (p Point) Near(q Point) bool {
	return scalar.EqualWithinAbs(p.X, q.X, Epsilon) && scalar.EqualWithinAbs(p.Y, q.Y, Epsilon)
}

type Size struct {
	W, H float64
}

func (s Size) Mul(f float64) Size {
	return Size{s.W * f, s.H * f}
}

func (s Size) Div(f float64) Size {
	return Size{s.W / f, s.H / f}
}

// RotateAbout rotates p by angle radians around center.
func RotateAbout(p, center Point, angle float64) Point {
	if angle == 0 {
		return p
	}
	m := gg.Translate(center.X, center.Y).Rotate(angle).Translate(-center.X, -center.Y)
	x, y := m.TransformPoint(p.X, p.Y)
	return Point{x, y}
}

// Angle returns the signed angle of p around the origin, as atan2.
func (p Point) Angle() float64 {
	return math.Atan2(p.Y, p.X)
}

type Line struct {
	P1, P2 Point
}

func (l Line) Translate(d Point) Line {
	return Line{l.P1.Add(d), l.P2.Add(d)}
}

func (l Line) Bounds() Rect {
	return FromPoints(l.P1, l.P2)
}

// DistanceTo is the euclidean distance from p to the segment.
func (l Line) DistanceTo(p Point) float64 {
	d := l.P2.Sub(l.P1)
	lenSq := d.X*d.X + d.Y*d.Y
	if lenSq == 0 {
		return p.Sub(l.P1).Length()
	}
	t := ((p.X-l.P1.X)*d.X + (p.Y-l.P1.Y)*d.Y) / lenSq
	t = math.Max(0, math.Min(1, t))
	closest := l.P1.Add(d.Mul(t))
	return p.Sub(closest).Length()
}
