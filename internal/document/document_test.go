package document

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"flowpaint/internal/geom"
	"flowpaint/internal/shape"
)

func sample() Document {
	doc := New()
	doc.Shapes = []shape.Record{
		shape.New(shape.Rect, geom.R(0, 0, 80, 60)).ToRecord(),
		shape.NewArrow(geom.Pt(80, 30), geom.Pt(200, 30)).ToRecord(),
		shape.New(shape.Ellipse, geom.R(200, 0, 80, 60)).ToRecord(),
	}
	doc.Connections = []Connection{
		{ArrowIndex: 1, ShapeIndex: 0, HandleIndex: 3, IsStartPoint: true},
		{ArrowIndex: 1, ShapeIndex: 2, HandleIndex: 2, IsStartPoint: false},
	}
	doc.GridSize = 10
	doc.BackgroundColor = "#eeeeee"
	return doc
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	doc := sample()
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"isStartPoint": true`) {
		t.Errorf("expected camelCase connection keys, got:\n%s", buf.String())
	}

	back, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back, doc) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", back, doc)
	}
}

func TestDecodeMalformed(t *testing.T) {
	inputs := []string{
		`{"shapes": [`,
		`not json`,
		`{"size": {"width": 0, "height": 10}}`,
	}
	for _, in := range inputs {
		_, err := Decode(strings.NewReader(in))
		if !errors.Is(err, ErrMalformed) {
			t.Errorf("Decode(%q) error = %v, want ErrMalformed", in, err)
		}
	}
}

func TestDecodeDefaults(t *testing.T) {
	doc, err := Decode(strings.NewReader(`{"shapes": []}`))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Size.Width != DefaultWidth || doc.GridSize != DefaultGridSize {
		t.Errorf("defaults not applied: %+v", doc)
	}
}

func TestWriteReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flow.json")
	doc := sample()

	if err := WriteFile(path, doc); err != nil {
		t.Fatal(err)
	}
	back, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back, doc) {
		t.Errorf("file round trip mismatch")
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected only the target file, found %d entries", len(entries))
	}

	if _, err := ReadFile(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadFile(missing) = %v", err)
	}
}
