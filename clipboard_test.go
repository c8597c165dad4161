package main

import (
	"encoding/json"
	"testing"

	"flowpaint/internal/geom"
	"flowpaint/internal/shape"
)

func TestCleanClipboardText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "hello", "hello"},
		{"crlf", "a\r\nb\rc", "a\nb\nc"},
		{"control chars", "a\x00b\x07c\x7f", "abc"},
		{"tabs kept", "a\tb", "a\tb"},
		{"unicode kept", "größe → ok", "größe → ok"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := cleanClipboardText(c.in); got != c.want {
				t.Errorf("cleanClipboardText(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

func TestExtractTextFromRTF(t *testing.T) {
	rtf := `{\rtf1\ansi{\fonttbl\f0\fswiss Helvetica;}{\colortbl;\red0\green0\blue0;}\f0\pard Hello\par World\tab!\'e9}`
	if !isRTF(rtf) {
		t.Fatal("isRTF = false")
	}
	got := extractTextFromRTF(rtf)
	want := "Hello\nWorld\t!\xe9"
	if got != want {
		t.Errorf("extractTextFromRTF = %q, want %q", got, want)
	}
}

func TestExtractTextFromHTML(t *testing.T) {
	html := `<html><body><div>Start &amp; End</div><p>a&lt;b</p></body></html>`
	if !isHTML(html) {
		t.Fatal("isHTML = false")
	}
	got := extractTextFromHTML(html)
	want := "Start & End\na<b"
	if got != want {
		t.Errorf("extractTextFromHTML = %q, want %q", got, want)
	}
	if isHTML("x < y") {
		t.Error("plain comparison detected as HTML")
	}
}

func TestDecodeClipboardShape(t *testing.T) {
	s := shape.New(shape.Diamond, geom.R(10, 20, 30, 40))
	s.Text = "decide"
	data, err := json.Marshal(clipboardPayload{Kind: clipboardTag, Shape: s.ToRecord()})
	if err != nil {
		t.Fatal(err)
	}

	got, ok := decodeClipboardShape(string(data))
	if !ok {
		t.Fatal("decodeClipboardShape failed")
	}
	if got.Kind != shape.Diamond || got.Text != "decide" || got.Rect != s.Rect {
		t.Errorf("decoded %v %q %v", got.Kind, got.Text, got.Rect)
	}
	if got.ID == s.ID {
		t.Error("decoded shape should get a fresh id")
	}

	for _, text := range []string{"", "hello", `{"kind":"other"}`, `{"kind":"flowpaint/shape","shape":{"type":"hexagon"}}`} {
		if _, ok := decodeClipboardShape(text); ok {
			t.Errorf("decodeClipboardShape(%q) accepted", text)
		}
	}
}
