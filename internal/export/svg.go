package export

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"math"
	"strings"

	"flowpaint/internal/shape"
)

// WriteSVG writes the page as a standalone SVG document.
func WriteSVG(w io.Writer, sc Scene) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%g" height="%g" viewBox="0 0 %g %g">`+"\n",
		sc.Size.W, sc.Size.H, sc.Size.W, sc.Size.H)
	fmt.Fprintf(bw, `<rect width="100%%" height="100%%" fill="%s"/>`+"\n", shape.FormatColor(sc.Background))
	fmt.Fprintln(bw, `<defs><marker id="head" markerWidth="10" markerHeight="7" refX="10" refY="3.5" orient="auto"><polygon points="0 0, 10 3.5, 0 7" fill="context-stroke"/></marker></defs>`)

	for _, s := range sc.Shapes {
		if s.IsArrow() {
			fmt.Fprintf(bw, `<line x1="%g" y1="%g" x2="%g" y2="%g" %s marker-end="url(#head)"/>`+"\n",
				s.Line.P1.X, s.Line.P1.Y, s.Line.P2.X, s.Line.P2.Y, strokeAttrs(s))
			continue
		}
		writeSVGShape(bw, s)
	}
	fmt.Fprintln(bw, "</svg>")
	return bw.Flush()
}

func strokeAttrs(s *shape.Shape) string {
	return fmt.Sprintf(`fill="none" stroke="%s" stroke-width="%g" stroke-opacity="%g"`,
		shape.FormatColor(s.LineColor), s.LineWidth, s.Opacity)
}

func writeSVGShape(w io.Writer, s *shape.Shape) {
	r := s.Rect
	c := r.Center()
	fmt.Fprintf(w, `<g transform="rotate(%g %g %g)">`+"\n", s.Rotation*180/math.Pi, c.X, c.Y)

	switch s.Kind {
	case shape.Rect:
		fmt.Fprintf(w, `<rect x="%g" y="%g" width="%g" height="%g" %s/>`+"\n", r.X, r.Y, r.W, r.H, strokeAttrs(s))
	case shape.RoundedRect:
		rad := math.Min(r.W, r.H) * cornerFrac
		fmt.Fprintf(w, `<rect x="%g" y="%g" width="%g" height="%g" rx="%g" %s/>`+"\n", r.X, r.Y, r.W, r.H, rad, strokeAttrs(s))
	case shape.Ellipse:
		fmt.Fprintf(w, `<ellipse cx="%g" cy="%g" rx="%g" ry="%g" %s/>`+"\n", c.X, c.Y, r.W/2, r.H/2, strokeAttrs(s))
	default:
		var pts []string
		for _, p := range s.Outline() {
			pts = append(pts, fmt.Sprintf("%g,%g", p.X, p.Y))
		}
		fmt.Fprintf(w, `<polygon points="%s" %s/>`+"\n", strings.Join(pts, " "), strokeAttrs(s))
	}

	if s.Text != "" {
		anchor, x := "middle", c.X
		switch s.Align {
		case shape.AlignLeft:
			anchor, x = "start", r.Left()
		case shape.AlignRight:
			anchor, x = "end", r.Right()
		}
		weight, style := "normal", "normal"
		if s.Font.Bold {
			weight = "bold"
		}
		if s.Font.Italic {
			style = "italic"
		}
		fmt.Fprintf(w, `<text x="%g" y="%g" text-anchor="%s" dominant-baseline="middle" font-family="%s" font-size="%g" font-weight="%s" font-style="%s" fill="%s" fill-opacity="%g">%s</text>`+"\n",
			x, c.Y, anchor, html.EscapeString(s.Font.Family), s.Font.Size, weight, style,
			shape.FormatColor(s.TextColor), s.Opacity, html.EscapeString(s.Text))
	}
	fmt.Fprintln(w, "</g>")
}
