package export

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"flowpaint/internal/document"
	"flowpaint/internal/geom"
	"flowpaint/internal/shape"
)

func testScene() Scene {
	box := shape.New(shape.Rect, geom.R(8, 16, 80, 48))
	box.Text = "a<b"
	tri := shape.New(shape.Triangle, geom.R(120, 16, 64, 48))
	tri.Rotation = 0.3
	arrow := shape.NewArrow(geom.Pt(88, 40), geom.Pt(120, 40))
	return Scene{
		Shapes:     []*shape.Shape{box, tri, arrow},
		Size:       geom.Size{W: 200, H: 96},
		Background: color.RGBA{R: 255, G: 255, B: 255, A: 255},
	}
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, testScene()); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 200 || b.Dy() != 96 {
		t.Errorf("image size = %dx%d, want 200x96", b.Dx(), b.Dy())
	}
	if r, g, bl, _ := img.At(199, 95).RGBA(); r>>8 != 255 || g>>8 != 255 || bl>>8 != 255 {
		t.Errorf("background pixel = %d,%d,%d", r>>8, g>>8, bl>>8)
	}
	if r, _, _, _ := img.At(8, 40).RGBA(); r>>8 > 128 {
		t.Errorf("expected rectangle stroke at left edge, got red=%d", r>>8)
	}
}

func TestWriteSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, testScene()); err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg" width="200" height="96"`,
		`<rect x="8" y="16" width="80" height="48"`,
		`<polygon points=`,
		`marker-end="url(#head)"`,
		`a&lt;b`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("svg missing %q", want)
		}
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "</svg>") {
		t.Error("svg not closed")
	}
}

func TestWriteTXT(t *testing.T) {
	sc := Scene{
		Shapes: []*shape.Shape{shape.New(shape.Rect, geom.R(0, 0, 80, 48))},
		Size:   geom.Size{W: 160, H: 160},
	}
	var buf bytes.Buffer
	if err := WriteTXT(&buf, sc); err != nil {
		t.Fatalf("WriteTXT: %v", err)
	}
	want := "+---------+\n|         |\n|         |\n+---------+\n"
	if buf.String() != want {
		t.Errorf("txt =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestSaveFile(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"out.png", "out.svg", "out.txt"} {
		path := filepath.Join(dir, name)
		if err := SaveFile(path, testScene()); err != nil {
			t.Fatalf("SaveFile(%s): %v", name, err)
		}
		if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
			t.Errorf("%s not written", name)
		}
	}

	if err := SaveFile(filepath.Join(dir, "out.bmp"), testScene()); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if err := SaveFile(filepath.Join(dir, "empty.png"), Scene{Size: geom.Size{W: 10, H: 10}}); !errors.Is(err, ErrEmpty) {
		t.Errorf("empty scene err = %v, want ErrEmpty", err)
	}
}

func TestSaveFileAsIgnoresExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drawing.png")
	if err := SaveFileAs(path, FormatSVG, testScene()); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Errorf("expected SVG content in %s", path)
	}
	for f, want := range map[Format]string{FormatPNG: ".png", FormatSVG: ".svg", FormatTXT: ".txt", Format(9): ""} {
		if got := f.Ext(); got != want {
			t.Errorf("Format(%d).Ext() = %q, want %q", f, got, want)
		}
	}
}

func TestFromDocument(t *testing.T) {
	doc := document.New()
	doc.BackgroundColor = "#102030"
	doc.Shapes = []shape.Record{
		shape.New(shape.Ellipse, geom.R(0, 0, 10, 10)).ToRecord(),
		{Type: "hexagon"},
	}
	sc := FromDocument(doc)
	if len(sc.Shapes) != 1 {
		t.Fatalf("shapes = %d, want 1", len(sc.Shapes))
	}
	if sc.Background.R != 0x10 || sc.Background.G != 0x20 || sc.Background.B != 0x30 {
		t.Errorf("background = %v", sc.Background)
	}
	if sc.Size.W != document.DefaultWidth {
		t.Errorf("size = %v", sc.Size)
	}
}
