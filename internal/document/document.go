// Package document defines the persisted drawing format and its JSON codec.
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"flowpaint/internal/shape"
)

// ErrMalformed is returned when a file cannot be decoded as a drawing.
var ErrMalformed = errors.New("malformed document")

const (
	DefaultWidth      = 800
	DefaultHeight     = 600
	DefaultGridSize   = 20
	DefaultBackground = "#ffffff"
)

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Connection binds one end of the arrow at ArrowIndex to anchor HandleIndex
// of the shape at ShapeIndex. Indices are positions in Shapes.
type Connection struct {
	ArrowIndex   int  `json:"arrowIndex"`
	ShapeIndex   int  `json:"shapeIndex"`
	HandleIndex  int  `json:"handleIndex"`
	IsStartPoint bool `json:"isStartPoint"`
}

type Document struct {
	Shapes          []shape.Record `json:"shapes"`
	BackgroundColor string         `json:"backgroundColor"`
	GridSize        int            `json:"gridSize"`
	Size            Size           `json:"size"`
	Connections     []Connection   `json:"connections"`
}

func New() Document {
	return Document{
		Shapes:          []shape.Record{},
		BackgroundColor: DefaultBackground,
		GridSize:        DefaultGridSize,
		Size:            Size{Width: DefaultWidth, Height: DefaultHeight},
		Connections:     []Connection{},
	}
}

func Decode(r io.Reader) (Document, error) {
	doc := New()
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc.Size.Width <= 0 || doc.Size.Height <= 0 {
		return Document{}, fmt.Errorf("%w: invalid canvas size %vx%v", ErrMalformed, doc.Size.Width, doc.Size.Height)
	}
	return doc, nil
}

func Encode(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return nil
}

func ReadFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	return doc, nil
}

// WriteFile writes through a temp file in the same directory and renames it
// into place, so readers never observe a half written drawing.
func WriteFile(path string, doc Document) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".flowpaint-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := Encode(tmp, doc); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
