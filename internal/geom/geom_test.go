package geom

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestRotateAbout(t *testing.T) {
	tests := []struct {
		name   string
		p, c   Point
		angle  float64
		expect Point
	}{
		{"zero angle", Pt(3, 4), Pt(0, 0), 0, Pt(3, 4)},
		{"quarter turn origin", Pt(1, 0), Pt(0, 0), math.Pi / 2, Pt(0, 1)},
		{"half turn about centre", Pt(10, 5), Pt(5, 5), math.Pi, Pt(0, 5)},
		{"quarter turn about centre", Pt(90, 30), Pt(40, 30), math.Pi / 2, Pt(40, 80)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RotateAbout(tt.p, tt.c, tt.angle)
			if !got.Near(tt.expect) {
				t.Errorf("RotateAbout(%v, %v, %v) = %v, want %v", tt.p, tt.c, tt.angle, got, tt.expect)
			}
		})
	}
}

func TestManhattanLength(t *testing.T) {
	if got := Pt(-3, 4).ManhattanLength(); got != 7 {
		t.Errorf("ManhattanLength = %v, want 7", got)
	}
}

func TestDistanceToSegment(t *testing.T) {
	l := Line{Pt(0, 0), Pt(10, 0)}
	tests := []struct {
		p    Point
		want float64
	}{
		{Pt(5, 3), 3},
		{Pt(-4, 3), 5},
		{Pt(13, 4), 5},
		{Pt(10, 0), 0},
	}
	for _, tt := range tests {
		if got := l.DistanceTo(tt.p); !scalar.EqualWithinAbs(got, tt.want, 1e-9) {
			t.Errorf("DistanceTo(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}

	degenerate := Line{Pt(1, 1), Pt(1, 1)}
	if got := degenerate.DistanceTo(Pt(4, 5)); got != 5 {
		t.Errorf("degenerate DistanceTo = %v, want 5", got)
	}
}

func TestRectEdges(t *testing.T) {
	r := R(10, 20, 30, 40)
	if r.Right() != 40 || r.Bottom() != 60 {
		t.Fatalf("Right/Bottom = %v/%v", r.Right(), r.Bottom())
	}
	if got := r.WithLeft(0); got != R(0, 20, 40, 40) {
		t.Errorf("WithLeft = %v", got)
	}
	if got := r.WithBottom(100); got != R(10, 20, 30, 80) {
		t.Errorf("WithBottom = %v", got)
	}
	if !r.Contains(Pt(40, 60)) {
		t.Error("expected inclusive bottom-right corner")
	}
	if r.Contains(Pt(41, 60)) {
		t.Error("point right of rect reported inside")
	}
}

func TestFromPointsNormalizes(t *testing.T) {
	got := FromPoints(Pt(10, 0), Pt(0, 10))
	if got != R(0, 0, 10, 10) {
		t.Errorf("FromPoints = %v", got)
	}
}

func TestPolygonContains(t *testing.T) {
	tri := []Point{Pt(0, 0), Pt(10, 0), Pt(0, 10)}
	if !PolygonContains(tri, Pt(2, 2)) {
		t.Error("expected (2,2) inside triangle")
	}
	if PolygonContains(tri, Pt(8, 8)) {
		t.Error("expected (8,8) outside triangle")
	}
}

func TestScreenRoundTrip(t *testing.T) {
	for _, zoom := range []float64{0.1, 0.3, 1, 1.2, 5} {
		r := R(12.5, -7, 80, 60)
		back := r.Mul(zoom).Div(zoom)
		if !back.TopLeft().Near(r.TopLeft()) || !scalar.EqualWithinAbs(back.W, r.W, 1e-9) {
			t.Errorf("zoom %v: %v -> %v", zoom, r, back)
		}
	}
}
