package shape

import (
	"fmt"
	"image/color"

	"flowpaint/internal/geom"

	"github.com/lucasb-eyer/go-colorful"
)

// Record is the serialized form of a shape. Geometry uses x/y/width/height for
// boxed kinds and x1/y1/x2/y2 for arrows.
type Record struct {
	Type      string      `json:"type"`
	X         float64     `json:"x,omitempty"`
	Y         float64     `json:"y,omitempty"`
	Width     float64     `json:"width,omitempty"`
	Height    float64     `json:"height,omitempty"`
	X1        float64     `json:"x1,omitempty"`
	Y1        float64     `json:"y1,omitempty"`
	X2        float64     `json:"x2,omitempty"`
	Y2        float64     `json:"y2,omitempty"`
	Rotation  float64     `json:"rotation,omitempty"`
	Opacity   float64     `json:"opacity"`
	LineColor string      `json:"lineColor"`
	LineWidth float64     `json:"lineWidth"`
	Text      string      `json:"text,omitempty"`
	Font      *FontRecord `json:"font,omitempty"`
	Alignment string      `json:"alignment,omitempty"`
	TextColor string      `json:"textColor,omitempty"`
}

type FontRecord struct {
	Family string  `json:"family"`
	Size   float64 `json:"size"`
	Bold   bool    `json:"bold,omitempty"`
	Italic bool    `json:"italic,omitempty"`
}

// FormatColor renders c as #rrggbb.
func FormatColor(c color.RGBA) string {
	cf, _ := colorful.MakeColor(color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
	return cf.Hex()
}

// ParseColor reads a #rrggbb (or #rgb) string into an opaque color.
func ParseColor(s string) (color.RGBA, error) {
	cf, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := cf.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

func (s *Shape) ToRecord() Record {
	rec := Record{
		Type:      s.Kind.String(),
		Opacity:   s.Opacity,
		LineColor: FormatColor(s.LineColor),
		LineWidth: s.LineWidth,
	}
	if s.IsArrow() {
		rec.X1, rec.Y1 = s.Line.P1.X, s.Line.P1.Y
		rec.X2, rec.Y2 = s.Line.P2.X, s.Line.P2.Y
		return rec
	}
	rec.X, rec.Y, rec.Width, rec.Height = s.Rect.X, s.Rect.Y, s.Rect.W, s.Rect.H
	rec.Rotation = s.Rotation
	rec.Text = s.Text
	rec.Font = &FontRecord{Family: s.Font.Family, Size: s.Font.Size, Bold: s.Font.Bold, Italic: s.Font.Italic}
	rec.Alignment = s.Align.String()
	rec.TextColor = FormatColor(s.TextColor)
	return rec
}

// FromRecord builds a shape from its record. Unknown type tags report ok=false;
// unparsable colors fall back to the defaults.
func FromRecord(rec Record) (*Shape, bool) {
	kind, ok := ParseKind(rec.Type)
	if !ok {
		return nil, false
	}
	s := defaults(kind)
	s.Opacity = rec.Opacity
	s.LineWidth = rec.LineWidth
	if c, err := ParseColor(rec.LineColor); err == nil {
		s.LineColor = c
	}
	if kind == Arrow {
		s.Line = geom.Line{P1: geom.Pt(rec.X1, rec.Y1), P2: geom.Pt(rec.X2, rec.Y2)}
		return s, true
	}
	s.Rect = geom.R(rec.X, rec.Y, rec.Width, rec.Height)
	s.Rotation = rec.Rotation
	s.Text = rec.Text
	if rec.Font != nil {
		s.Font = Font{Family: rec.Font.Family, Size: rec.Font.Size, Bold: rec.Font.Bold, Italic: rec.Font.Italic}
	}
	s.Align = parseAlign(rec.Alignment)
	if c, err := ParseColor(rec.TextColor); err == nil {
		s.TextColor = c
	}
	return s, true
}
