package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"flowpaint/internal/config"
	"flowpaint/internal/shape"
)

func newTestModel(t *testing.T) *model {
	t.Helper()
	cfg := config.Default()
	cfg.SaveDirectory = t.TempDir()
	m := newModel(cfg, nil)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 25})
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDropKeysAddShapes(t *testing.T) {
	m := newTestModel(t)
	for d, kind := range dropKinds {
		m.Update(runes(d))
		last := m.canvas.Shape(m.canvas.Len() - 1)
		if last.Kind != kind {
			t.Errorf("key %s dropped %v, want %v", d, last.Kind, kind)
		}
	}
	if m.canvas.Len() != len(dropKinds) {
		t.Errorf("Len = %d, want %d", m.canvas.Len(), len(dropKinds))
	}
	if !m.state.modified {
		t.Error("drawing should be marked modified")
	}
}

func TestMouseDragMovesShape(t *testing.T) {
	m := newTestModel(t)
	m.Update(runes("1"))
	before := m.canvas.Shape(0).Rect

	m.Update(tea.MouseMsg{X: 40, Y: 12, Type: tea.MouseLeft})
	m.Update(tea.MouseMsg{X: 43, Y: 12, Type: tea.MouseMotion})
	m.Update(tea.MouseMsg{X: 45, Y: 12, Type: tea.MouseMotion})
	m.Update(tea.MouseMsg{X: 45, Y: 12, Type: tea.MouseRelease})

	after := m.canvas.Shape(0).Rect
	if after.X-before.X != 40 || after.Y != before.Y {
		t.Errorf("rect moved from %v to %v, want +40 in x", before, after)
	}

	m.Update(runes("u"))
	if got := m.canvas.Shape(0).Rect; got != before {
		t.Errorf("after undo rect = %v, want %v", got, before)
	}
	m.Update(runes("U"))
	if got := m.canvas.Shape(0).Rect; got != after {
		t.Errorf("after redo rect = %v, want %v", got, after)
	}
}

func TestEditLabelWithTextInput(t *testing.T) {
	m := newTestModel(t)
	m.Update(runes("2"))
	m.Update(runes("e"))
	if m.mode != ModeEditing {
		t.Fatalf("mode = %v, want editing", m.mode)
	}
	m.Update(runes("ok"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if m.mode != ModeNormal {
		t.Errorf("mode = %v after enter", m.mode)
	}
	if got := m.canvas.Shape(0).Text; got != "ok" {
		t.Errorf("label = %q, want ok", got)
	}
	m.Update(runes("u"))
	if got := m.canvas.Shape(0).Text; got != "" {
		t.Errorf("label after undo = %q", got)
	}
}

func TestZOrderAndDeleteKeys(t *testing.T) {
	m := newTestModel(t)
	m.Update(runes("1"))
	m.Update(runes("2"))
	m.Update(runes("{"))
	if m.canvas.Shape(0).Kind != shape.Ellipse || m.canvas.SelectedIndex() != 0 {
		t.Fatalf("ellipse not moved to bottom")
	}
	m.Update(runes("d"))
	if m.canvas.Len() != 1 || m.canvas.Shape(0).Kind != shape.Rect {
		t.Errorf("delete removed the wrong shape")
	}
}

func TestSaveAndOpen(t *testing.T) {
	m := newTestModel(t)
	m.Update(runes("1"))
	m.Update(runes("7"))
	if err := m.save("chart"); err != nil {
		t.Fatalf("save: %v", err)
	}
	path := filepath.Join(m.cfg.SaveDirectory, "chart.json")
	if m.filename != path {
		t.Errorf("filename = %q, want %q", m.filename, path)
	}
	if m.state.modified {
		t.Error("save should clear the modified flag")
	}

	other := newTestModel(t)
	if err := other.open(path); err != nil {
		t.Fatalf("open: %v", err)
	}
	if other.canvas.Len() != 2 || other.canvas.Shape(1).Kind != shape.Arrow {
		t.Errorf("opened %d shapes", other.canvas.Len())
	}

	missing := filepath.Join(t.TempDir(), "new.json")
	if err := other.open(missing); err != nil {
		t.Fatalf("open missing: %v", err)
	}
	if other.canvas.Len() != 0 || other.filename != missing {
		t.Error("opening a missing file should start an empty drawing")
	}
}

func TestFailedOpenKeepsFileSafe(t *testing.T) {
	m := newTestModel(t)
	m.Update(runes("1"))
	good := filepath.Join(m.cfg.SaveDirectory, "good.json")
	if err := m.save("good"); err != nil {
		t.Fatal(err)
	}
	goodBytes, err := os.ReadFile(good)
	if err != nil {
		t.Fatal(err)
	}

	broken := filepath.Join(m.cfg.SaveDirectory, "broken.json")
	brokenBytes := []byte(`{"shapes": [{"type": "rect"`)
	if err := os.WriteFile(broken, brokenBytes, 0644); err != nil {
		t.Fatal(err)
	}
	if err := m.open(broken); err == nil {
		t.Fatal("expected an error for a truncated document")
	}
	if m.filename != "" {
		t.Errorf("filename = %q after a failed open, want untitled", m.filename)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.mode != ModeFileInput {
		t.Errorf("ctrl+s on an untitled drawing should prompt, mode = %v", m.mode)
	}
	for path, want := range map[string][]byte{broken: brokenBytes, good: goodBytes} {
		if got, _ := os.ReadFile(path); !bytes.Equal(got, want) {
			t.Errorf("%s was rewritten:\n%s", filepath.Base(path), got)
		}
	}
}

func TestInsertLabelTextKeepsRunes(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("größe")
	m.input.SetCursor(3)

	m.insertLabelText("→\nok")
	got := m.input.Value()
	if !utf8.ValidString(got) {
		t.Fatalf("value %q is not valid UTF-8", got)
	}
	if want := `grö→\nokße`; got != want {
		t.Errorf("value = %q, want %q", got, want)
	}
	if m.input.Position() != 8 {
		t.Errorf("cursor = %d, want 8", m.input.Position())
	}
}

func TestExportFromModel(t *testing.T) {
	m := newTestModel(t)
	if err := m.exportTo("empty.png"); err == nil {
		t.Error("exporting an empty drawing should fail")
	}
	m.Update(runes("1"))
	if err := m.exportTo("out.txt"); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(m.cfg.SaveDirectory, "out.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "+---------+") {
		t.Errorf("txt export:\n%s", data)
	}
}

func TestQuitAsksWhenModified(t *testing.T) {
	m := newTestModel(t)
	if _, cmd := m.Update(runes("q")); cmd == nil {
		t.Error("quit on a clean drawing should return tea.Quit")
	}

	m.Update(runes("1"))
	if _, cmd := m.Update(runes("q")); cmd != nil || m.mode != ModeConfirm {
		t.Fatalf("quit with changes should ask first")
	}
	m.Update(runes("n"))
	if m.mode != ModeNormal {
		t.Errorf("mode = %v after declining", m.mode)
	}
}

func TestViewRendersStatusLine(t *testing.T) {
	m := newTestModel(t)
	m.Update(runes("1"))
	out := m.View()
	lines := strings.Split(out, "\n")
	if len(lines) != 25 {
		t.Fatalf("view has %d lines, want 25", len(lines))
	}
	if !strings.Contains(lines[24], "NORMAL") || !strings.Contains(lines[24], "1 shapes") {
		t.Errorf("status line = %q", lines[24])
	}
}

func TestWriteInfo(t *testing.T) {
	m := newTestModel(t)
	m.Update(runes("1"))
	m.Update(runes("1"))
	m.Update(runes("5"))
	doc := m.canvas.Snapshot()

	var buf bytes.Buffer
	if err := writeInfo(&buf, doc, m.canvas); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"shapes", "rect", "diamond", "connections"} {
		if !strings.Contains(out, want) {
			t.Errorf("info missing %q:\n%s", want, out)
		}
	}
}

func TestClamp(t *testing.T) {
	cases := []struct{ v, lo, hi, want float64 }{
		{5, 0, 3, 3},
		{-1, 0, 3, 0},
		{2, 0, 3, 2},
		{2, 4, 1, 4},
	}
	for _, c := range cases {
		if got := clamp(c.v, c.lo, c.hi); got != c.want {
			t.Errorf("clamp(%v, %v, %v) = %v, want %v", c.v, c.lo, c.hi, got, c.want)
		}
	}
}
