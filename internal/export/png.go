package export

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"flowpaint/internal/shape"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

const (
	arrowSize  = 10.0
	arrowAngle = 0.5 // radians
	cornerFrac = 0.2 // rounded rect corner radius as a share of the short side
)

// WritePNG paints the page at 1:1 scale.
func WritePNG(w io.Writer, sc Scene) error {
	dc := gg.NewContext(int(math.Ceil(sc.Size.W)), int(math.Ceil(sc.Size.H)))
	dc.SetColor(sc.Background)
	dc.Clear()

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %v", err)
	}

	for _, s := range sc.Shapes {
		dc.Push()
		if s.IsArrow() {
			drawArrowPNG(dc, s)
		} else {
			drawShapePNG(dc, s, ttfFont)
		}
		dc.Pop()
	}
	return dc.EncodePNG(w)
}

func withOpacity(c color.RGBA, opacity float64) color.NRGBA {
	opacity = math.Max(0, math.Min(1, opacity))
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(opacity * 255))}
}

func drawShapePNG(dc *gg.Context, s *shape.Shape, ttfFont *truetype.Font) {
	r := s.Rect
	c := r.Center()
	dc.RotateAbout(s.Rotation, c.X, c.Y)

	switch s.Kind {
	case shape.Rect:
		dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	case shape.RoundedRect:
		dc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, math.Min(r.W, r.H)*cornerFrac)
	case shape.Ellipse:
		dc.DrawEllipse(c.X, c.Y, r.W/2, r.H/2)
	default:
		for i, p := range s.Outline() {
			if i == 0 {
				dc.MoveTo(p.X, p.Y)
			} else {
				dc.LineTo(p.X, p.Y)
			}
		}
		dc.ClosePath()
	}
	dc.SetColor(withOpacity(s.LineColor, s.Opacity))
	dc.SetLineWidth(s.LineWidth)
	dc.Stroke()

	if s.Text == "" {
		return
	}
	size := s.Font.Size
	if size <= 0 {
		size = shape.DefaultFontSize
	}
	face := truetype.NewFace(ttfFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	dc.SetFontFace(face)
	dc.SetColor(withOpacity(s.TextColor, s.Opacity))
	dc.DrawStringWrapped(s.Text, c.X, c.Y, 0.5, 0.5, r.W, 1.2, ggAlign(s.Align))
}

func ggAlign(a shape.Align) gg.Align {
	switch a {
	case shape.AlignLeft:
		return gg.AlignLeft
	case shape.AlignRight:
		return gg.AlignRight
	}
	return gg.AlignCenter
}

func drawArrowPNG(dc *gg.Context, s *shape.Shape) {
	from, to := s.Line.P1, s.Line.P2
	dc.SetColor(withOpacity(s.LineColor, s.Opacity))
	dc.SetLineWidth(s.LineWidth)
	dc.DrawLine(from.X, from.Y, to.X, to.Y)
	dc.Stroke()

	tip, b1, b2, ok := arrowHeadPoints(from.X, from.Y, to.X, to.Y)
	if !ok {
		return
	}
	dc.MoveTo(tip[0], tip[1])
	dc.LineTo(b1[0], b1[1])
	dc.LineTo(b2[0], b2[1])
	dc.ClosePath()
	dc.Fill()
}

// arrowHeadPoints returns the triangle of an arrow head pointing at (tx, ty).
func arrowHeadPoints(fx, fy, tx, ty float64) (tip, base1, base2 [2]float64, ok bool) {
	dx := tx - fx
	dy := ty - fy
	length := math.Sqrt(dx*dx + dy*dy)
	if length < 0.1 {
		return tip, base1, base2, false
	}
	dx /= length
	dy /= length

	tip = [2]float64{tx, ty}
	base1 = [2]float64{tx - arrowSize*dx + arrowSize*dy*arrowAngle, ty - arrowSize*dy - arrowSize*dx*arrowAngle}
	base2 = [2]float64{tx - arrowSize*dx - arrowSize*dy*arrowAngle, ty - arrowSize*dy + arrowSize*dx*arrowAngle}
	return tip, base1, base2, true
}
