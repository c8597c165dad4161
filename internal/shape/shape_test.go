package shape

import (
	"image/color"
	"math"
	"testing"

	"flowpaint/internal/geom"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := ParseKind("hexagon"); ok {
		t.Error("expected unknown tag to be rejected")
	}
}

func TestTraits(t *testing.T) {
	if tr := Arrow.Traits(); tr.Text || tr.Anchors {
		t.Errorf("arrow traits = %+v", tr)
	}
	for _, k := range []Kind{Rect, Ellipse, Pentagon, Triangle, Diamond, RoundedRect} {
		if tr := k.Traits(); !tr.Text || !tr.Anchors {
			t.Errorf("%v traits = %+v", k, tr)
		}
	}
}

func TestContains(t *testing.T) {
	tests := []struct {
		name string
		s    *Shape
		p    geom.Point
		want bool
	}{
		{"rect inside", New(Rect, geom.R(0, 0, 80, 60)), geom.Pt(10, 10), true},
		{"rect outside", New(Rect, geom.R(0, 0, 80, 60)), geom.Pt(90, 10), false},
		{"ellipse centre", New(Ellipse, geom.R(0, 0, 80, 60)), geom.Pt(40, 30), true},
		{"ellipse corner", New(Ellipse, geom.R(0, 0, 80, 60)), geom.Pt(2, 2), false},
		{"triangle apex region", New(Triangle, geom.R(0, 0, 80, 60)), geom.Pt(40, 5), true},
		{"triangle top corner", New(Triangle, geom.R(0, 0, 80, 60)), geom.Pt(2, 2), false},
		{"diamond corner", New(Diamond, geom.R(0, 0, 80, 60)), geom.Pt(3, 3), false},
		{"pentagon centre", New(Pentagon, geom.R(0, 0, 80, 60)), geom.Pt(40, 30), true},
		{"arrow near line", NewArrow(geom.Pt(0, 0), geom.Pt(100, 0)), geom.Pt(50, 5), true},
		{"arrow far", NewArrow(geom.Pt(0, 0), geom.Pt(100, 0)), geom.Pt(50, 7), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestContainsRotated(t *testing.T) {
	s := New(Rect, geom.R(0, 0, 100, 20))
	s.Rotate(math.Pi / 2)
	if !s.Contains(geom.Pt(50, -30)) {
		t.Error("expected point on rotated long axis inside")
	}
	if s.Contains(geom.Pt(90, 10)) {
		t.Error("expected point on unrotated long axis outside")
	}
}

func TestHandlesLayout(t *testing.T) {
	s := New(Rect, geom.R(0, 0, 80, 60))
	hs := s.Handles()
	if len(hs) != 13 {
		t.Fatalf("len(Handles) = %d, want 13", len(hs))
	}
	for i, h := range hs {
		if h.Index != i {
			t.Errorf("handle %d has index %d", i, h.Index)
		}
	}
	if hs[7].Center != geom.Pt(80, 60) || hs[7].Type != HandleScale {
		t.Errorf("bottom-right handle = %+v", hs[7])
	}
	if hs[RotateHandle].Center != geom.Pt(40, -30) || hs[RotateHandle].Type != HandleRotate {
		t.Errorf("rotate handle = %+v", hs[RotateHandle])
	}
	if hs[12].Type != HandleArrow || hs[12].Center != geom.Pt(98, 30) {
		t.Errorf("right arrow handle = %+v", hs[12])
	}

	// rotate grip wins over the overlapping top spawn handle
	if got := s.HandleAt(geom.Pt(40, -30)); got != RotateHandle {
		t.Errorf("HandleAt(rotate grip) = %d", got)
	}
	if got := s.HandleAt(geom.Pt(40, -12)); got != 9 {
		t.Errorf("HandleAt(top spawn) = %d", got)
	}
	if got := s.HandleAt(geom.Pt(40, 30)); got != -1 {
		t.Errorf("HandleAt(centre) = %d", got)
	}

	arrow := NewArrow(geom.Pt(0, 0), geom.Pt(50, 0))
	if hs := arrow.Handles(); len(hs) != 2 || hs[1].Type != HandleEndpoint || hs[1].Center != geom.Pt(50, 0) {
		t.Errorf("arrow handles = %+v", hs)
	}
	if arrow.ArrowAnchors() != nil {
		t.Error("arrows must not expose anchors")
	}
}

func TestArrowAnchors(t *testing.T) {
	s := New(Rect, geom.R(0, 0, 80, 60))
	want := []geom.Point{{X: 40, Y: 0}, {X: 40, Y: 60}, {X: 0, Y: 30}, {X: 80, Y: 30}}
	for i, a := range s.ArrowAnchors() {
		if a.Index != i || !a.Center.Near(want[i]) {
			t.Errorf("anchor %d = %+v, want %v", i, a, want[i])
		}
	}

	s.Rotate(math.Pi / 2)
	if right := s.ArrowAnchors()[AnchorRight].Center; !right.Near(geom.Pt(40, 70)) {
		t.Errorf("rotated right anchor = %v", right)
	}
}

func TestMapArrowHandleToAnchor(t *testing.T) {
	cases := map[int]int{8: -1, 9: AnchorTop, 10: AnchorBottom, 11: AnchorLeft, 12: AnchorRight, 13: -1}
	for in, want := range cases {
		if got := MapArrowHandleToAnchor(in); got != want {
			t.Errorf("MapArrowHandleToAnchor(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestScaleInteraction(t *testing.T) {
	s := New(Rect, geom.R(0, 0, 80, 60))
	s.SetSelectedHandle(7)
	if !s.HandleAnchorInteraction(geom.Pt(100, 70), geom.Pt(80, 60)) {
		t.Fatal("expected resize to apply")
	}
	if s.Rect != geom.R(0, 0, 100, 70) {
		t.Errorf("rect after BR drag = %v", s.Rect)
	}

	s.SetSelectedHandle(4)
	if s.HandleAnchorInteraction(geom.Pt(-10, 30), geom.Pt(100, 30)) {
		t.Error("expected collapsing drag to be rejected")
	}
	if s.Rect != geom.R(0, 0, 100, 70) {
		t.Errorf("rect changed by rejected drag: %v", s.Rect)
	}

	s.SetSelectedHandle(0)
	s.HandleAnchorInteraction(geom.Pt(10, 5), geom.Pt(0, 0))
	if s.Rect != geom.R(10, 5, 90, 65) {
		t.Errorf("rect after TL drag = %v", s.Rect)
	}
}

func TestRotateInteraction(t *testing.T) {
	s := New(Rect, geom.R(0, 0, 80, 60))
	s.SetSelectedHandle(RotateHandle)
	if !s.HandleAnchorInteraction(geom.Pt(40, 70), geom.Pt(80, 30)) {
		t.Fatal("expected rotation to apply")
	}
	if !scalar.EqualWithinAbs(s.Rotation, math.Pi/2, 1e-9) {
		t.Errorf("Rotation = %v", s.Rotation)
	}
}

func TestCloneAndDuplicate(t *testing.T) {
	s := New(Ellipse, geom.R(1, 2, 3, 4))
	s.Text = "hello"
	s.SetSelectedHandle(3)

	c := s.Clone()
	if *c != *s {
		t.Errorf("clone differs: %+v vs %+v", c, s)
	}
	c.MoveBy(geom.Pt(5, 5))
	if s.Rect != geom.R(1, 2, 3, 4) {
		t.Error("moving the clone changed the original")
	}

	d := s.Duplicate()
	if d.ID == s.ID {
		t.Error("duplicate kept the original ID")
	}
	if d.SelectedHandle() != -1 || d.Text != "hello" {
		t.Errorf("duplicate = %+v", d)
	}
}

func TestMoveTo(t *testing.T) {
	a := NewArrow(geom.Pt(10, 50), geom.Pt(90, 20))
	a.MoveTo(geom.Pt(0, 0))
	if a.Line.P1 != geom.Pt(0, 30) || a.Line.P2 != geom.Pt(80, 0) {
		t.Errorf("arrow after MoveTo = %+v", a.Line)
	}
}

func TestRecordRoundTrip(t *testing.T) {
	s := New(Diamond, geom.R(5, 6, 70, 40))
	s.Rotation = 0.25
	s.Opacity = 0.5
	s.LineColor = color.RGBA{R: 0x12, G: 0x34, B: 0x56, A: 255}
	s.LineWidth = 3
	s.Text = "decide"
	s.Font = Font{Family: "Mono", Size: 14, Bold: true}
	s.Align = AlignRight
	s.TextColor = color.RGBA{R: 255, A: 255}

	back, ok := FromRecord(s.ToRecord())
	if !ok {
		t.Fatal("FromRecord rejected a known kind")
	}
	back.ID = s.ID
	if *back != *s {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", back, s)
	}

	arrow := NewArrow(geom.Pt(1, 2), geom.Pt(3, 4))
	back, ok = FromRecord(arrow.ToRecord())
	if !ok || back.Line != arrow.Line || back.Kind != Arrow {
		t.Errorf("arrow round trip = %+v", back)
	}

	if _, ok := FromRecord(Record{Type: "star"}); ok {
		t.Error("expected unknown tag to be skipped")
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#ff8000")
	if err != nil {
		t.Fatal(err)
	}
	if c != (color.RGBA{R: 255, G: 128, A: 255}) {
		t.Errorf("ParseColor = %v", c)
	}
	if FormatColor(c) != "#ff8000" {
		t.Errorf("FormatColor = %s", FormatColor(c))
	}
	if _, err := ParseColor("tomato"); err == nil {
		t.Error("expected error for a named color")
	}
}
