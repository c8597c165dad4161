package store

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"flowpaint/internal/document"
	"flowpaint/internal/geom"
	"flowpaint/internal/shape"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "lib", "library.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func drawing(n int) document.Document {
	doc := document.New()
	for i := 0; i < n; i++ {
		doc.Shapes = append(doc.Shapes, shape.New(shape.Rect, geom.R(float64(i*100), 0, 80, 60)).ToRecord())
	}
	return doc
}

func TestSaveLoad(t *testing.T) {
	s := openTestStore(t)
	doc := drawing(2)
	if err := s.Save("flow", doc); err != nil {
		t.Fatal(err)
	}
	got, err := s.Load("flow")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, doc) {
		t.Errorf("loaded document differs:\n got %+v\nwant %+v", got, doc)
	}
}

func TestSaveUpserts(t *testing.T) {
	s := openTestStore(t)
	if err := s.Save("a", drawing(1)); err != nil {
		t.Fatal(err)
	}
	if err := s.Save("b", drawing(2)); err != nil {
		t.Fatal(err)
	}
	if err := s.Save("a", drawing(3)); err != nil {
		t.Fatal(err)
	}

	list, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("List returned %d drawings, want 2", len(list))
	}
	if list[0].Name != "a" || list[0].Shapes != 3 {
		t.Errorf("newest entry = %+v", list[0])
	}
	if list[0].CreatedAt.After(list[0].UpdatedAt) {
		t.Errorf("created after updated: %+v", list[0])
	}
}

func TestMissingDrawing(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Load("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load error = %v, want ErrNotFound", err)
	}
	if err := s.Delete("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete error = %v, want ErrNotFound", err)
	}
	if err := s.Save("  ", drawing(0)); err == nil {
		t.Error("expected an error for an empty name")
	}
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	s.Save("x", drawing(1))
	if err := s.Delete("x"); err != nil {
		t.Fatal(err)
	}
	list, _ := s.List()
	if len(list) != 0 {
		t.Errorf("List after delete = %+v", list)
	}
}
