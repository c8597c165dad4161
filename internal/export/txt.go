package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"flowpaint/internal/termview"
)

// WriteTXT writes the page as it appears in the terminal at zoom 1.
func WriteTXT(w io.Writer, sc Scene) error {
	v := termview.View{
		Zoom:   1,
		Width:  int(math.Ceil(sc.Size.W / termview.CellWidth)),
		Height: int(math.Ceil(sc.Size.H / termview.CellHeight)),
	}
	lines := termview.Render(sc.Shapes, v, termview.Options{Selected: -1}).Lines()

	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
