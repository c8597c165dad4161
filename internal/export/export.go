// Package export renders drawings to PNG, SVG and plain text. Selection
// handles are never part of an export.
package export

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"flowpaint/internal/document"
	"flowpaint/internal/geom"
	"flowpaint/internal/shape"
)

var ErrEmpty = errors.New("nothing to export")

// Scene is the render-only view of a drawing.
type Scene struct {
	Shapes     []*shape.Shape
	Size       geom.Size
	Background color.RGBA
}

// FromDocument rebuilds the shapes of doc. Unknown shape types are skipped.
func FromDocument(doc document.Document) Scene {
	sc := Scene{
		Size:       geom.Size{W: doc.Size.Width, H: doc.Size.Height},
		Background: color.RGBA{R: 255, G: 255, B: 255, A: 255},
	}
	if bg, err := shape.ParseColor(doc.BackgroundColor); err == nil {
		sc.Background = bg
	}
	for _, rec := range doc.Shapes {
		if s, ok := shape.FromRecord(rec); ok {
			sc.Shapes = append(sc.Shapes, s)
		}
	}
	return sc
}

type Format int

const (
	FormatPNG Format = iota
	FormatSVG
	FormatTXT
)

var formatExts = [...]string{FormatPNG: ".png", FormatSVG: ".svg", FormatTXT: ".txt"}

// Ext is the file extension written for f.
func (f Format) Ext() string {
	if f < 0 || int(f) >= len(formatExts) {
		return ""
	}
	return formatExts[f]
}

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".svg":
		return FormatSVG, nil
	case ".txt":
		return FormatTXT, nil
	}
	return 0, fmt.Errorf("unsupported export format %q", filepath.Ext(path))
}

func Write(w io.Writer, f Format, sc Scene) error {
	if len(sc.Shapes) == 0 {
		return ErrEmpty
	}
	switch f {
	case FormatPNG:
		return WritePNG(w, sc)
	case FormatSVG:
		return WriteSVG(w, sc)
	case FormatTXT:
		return WriteTXT(w, sc)
	}
	return fmt.Errorf("unknown export format %d", f)
}

// SaveFile exports sc to path in the format given by its extension.
func SaveFile(path string, sc Scene) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	return SaveFileAs(path, f, sc)
}

// SaveFileAs exports sc to path in format f whatever the extension.
func SaveFileAs(path string, f Format, sc Scene) error {
	if len(sc.Shapes) == 0 {
		return ErrEmpty
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	if err := Write(file, f, sc); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	return file.Close()
}
