package shape

import "flowpaint/internal/geom"

type HandleType int

const (
	HandleScale HandleType = iota
	HandleRotate
	HandleArrow    // spawns a new arrow from the matching anchor
	HandleEndpoint // one end of an arrow
)

func (t HandleType) String() string {
	switch t {
	case HandleScale:
		return "scale"
	case HandleRotate:
		return "rotate"
	case HandleArrow:
		return "arrow"
	case HandleEndpoint:
		return "endpoint"
	}
	return "unknown"
}

const (
	ScaleHandleSize    = 8.0
	RotateHandleSize   = 12.0
	ArrowHandleSize    = 24.0
	EndpointHandleSize = 10.0

	rotateHandleOffset = 30.0
	arrowHandleOffset  = 30.0

	// RotateHandle is the direction of the rotate grip; arrow spawn handles follow it.
	RotateHandle     = 8
	FirstArrowHandle = 9
)

// Anchor indices shared by ArrowAnchors and arrow spawn handles.
const (
	AnchorTop = iota
	AnchorBottom
	AnchorLeft
	AnchorRight
)

// Handle is an interactive control point. Index is the handle's direction:
// 0..7 for the scale grips (TL, T, TR, L, R, BL, B, BR), 8 for rotate and
// 9..12 for the arrow spawn handles (top, bottom, left, right). Arrow
// endpoints use 0 (start) and 1 (end).
type Handle struct {
	Type   HandleType
	Index  int
	Center geom.Point
	Size   float64
}

func (h Handle) Bounds() geom.Rect {
	return geom.RectAround(h.Center, h.Size, h.Size)
}

func (h Handle) Contains(p geom.Point) bool {
	return h.Bounds().Contains(p)
}

type Anchor struct {
	Index  int
	Center geom.Point
}

// MapArrowHandleToAnchor turns an arrow spawn handle direction into an anchor index, or -1.
func MapArrowHandleToAnchor(direction int) int {
	if direction < FirstArrowHandle || direction > FirstArrowHandle+AnchorRight {
		return -1
	}
	return direction - FirstArrowHandle
}

func (s *Shape) rotated(p geom.Point) geom.Point {
	return geom.RotateAbout(p, s.Rect.Center(), s.Rotation)
}

// Handles lists the handles in hit-test order. A handle's position in the list equals its Index.
func (s *Shape) Handles() []Handle {
	if s.IsArrow() {
		return []Handle{
			{Type: HandleEndpoint, Index: 0, Center: s.Line.P1, Size: EndpointHandleSize},
			{Type: HandleEndpoint, Index: 1, Center: s.Line.P2, Size: EndpointHandleSize},
		}
	}

	r := s.Rect
	c := r.Center()
	grips := [8]geom.Point{
		r.TopLeft(),
		{X: c.X, Y: r.Y},
		r.TopRight(),
		{X: r.X, Y: c.Y},
		{X: r.Right(), Y: c.Y},
		r.BottomLeft(),
		{X: c.X, Y: r.Bottom()},
		r.BottomRight(),
	}
	handles := make([]Handle, 0, 13)
	for i, p := range grips {
		handles = append(handles, Handle{Type: HandleScale, Index: i, Center: s.rotated(p), Size: ScaleHandleSize})
	}
	handles = append(handles, Handle{
		Type:   HandleRotate,
		Index:  RotateHandle,
		Center: s.rotated(geom.Point{X: c.X, Y: r.Y - rotateHandleOffset}),
		Size:   RotateHandleSize,
	})

	if !s.Traits().Anchors {
		return handles
	}
	inset := arrowHandleOffset - ArrowHandleSize/2
	spawn := [4]geom.Point{
		AnchorTop:    {X: c.X, Y: r.Y - inset},
		AnchorBottom: {X: c.X, Y: r.Bottom() + inset},
		AnchorLeft:   {X: r.X - inset, Y: c.Y},
		AnchorRight:  {X: r.Right() + inset, Y: c.Y},
	}
	for i, p := range spawn {
		handles = append(handles, Handle{
			Type:   HandleArrow,
			Index:  FirstArrowHandle + i,
			Center: s.rotated(p),
			Size:   ArrowHandleSize,
		})
	}
	return handles
}

// HandleAt returns the index of the first handle containing p, or -1.
func (s *Shape) HandleAt(p geom.Point) int {
	for i, h := range s.Handles() {
		if h.Contains(p) {
			return i
		}
	}
	return -1
}

// ArrowAnchors returns the edge midpoints arrows can bind to, or nil for arrows.
func (s *Shape) ArrowAnchors() []Anchor {
	if !s.Traits().Anchors {
		return nil
	}
	r := s.Rect
	c := r.Center()
	mids := [4]geom.Point{
		AnchorTop:    {X: c.X, Y: r.Y},
		AnchorBottom: {X: c.X, Y: r.Bottom()},
		AnchorLeft:   {X: r.X, Y: c.Y},
		AnchorRight:  {X: r.Right(), Y: c.Y},
	}
	anchors := make([]Anchor, len(mids))
	for i, p := range mids {
		anchors[i] = Anchor{Index: i, Center: s.rotated(p)}
	}
	return anchors
}

// HandleAnchorInteraction applies one drag step on the selected handle.
// It reports whether the shape changed.
func (s *Shape) HandleAnchorInteraction(cur, last geom.Point) bool {
	handles := s.Handles()
	if s.selectedHandle < 0 || s.selectedHandle >= len(handles) {
		return false
	}
	h := handles[s.selectedHandle]

	switch h.Type {
	case HandleRotate:
		c := s.Center()
		delta := cur.Sub(c).Angle() - last.Sub(c).Angle()
		if delta == 0 {
			return false
		}
		s.Rotate(delta)
		return true
	case HandleScale:
		// the drag is applied in the shape's own frame
		d := geom.RotateAbout(cur.Sub(last), geom.Point{}, -s.Rotation)
		r, ok := s.calculateNewRect(h.Index, d)
		if !ok || r == s.Rect {
			return false
		}
		s.SetRect(r)
		return true
	case HandleEndpoint:
		s.UpdateConnection(h.Index == 0, cur.Sub(last))
		return true
	}
	return false
}

// calculateNewRect moves the edges named by a scale direction by d.
// A result narrower or shorter than one unit yields the current rect.
func (s *Shape) calculateNewRect(direction int, d geom.Point) (geom.Rect, bool) {
	r := s.Rect
	switch direction {
	case 0:
		r = r.WithLeft(r.X + d.X).WithTop(r.Y + d.Y)
	case 1:
		r = r.WithTop(r.Y + d.Y)
	case 2:
		r = r.WithRight(r.Right() + d.X).WithTop(r.Y + d.Y)
	case 3:
		r = r.WithLeft(r.X + d.X)
	case 4:
		r = r.WithRight(r.Right() + d.X)
	case 5:
		r = r.WithLeft(r.X + d.X).WithBottom(r.Bottom() + d.Y)
	case 6:
		r = r.WithBottom(r.Bottom() + d.Y)
	case 7:
		r = r.WithRight(r.Right() + d.X).WithBottom(r.Bottom() + d.Y)
	default:
		return geom.Rect{}, false
	}
	if r.W < 1 || r.H < 1 {
		return s.Rect, true
	}
	return r, true
}
