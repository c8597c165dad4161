package main

import (
	"encoding/json"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"flowpaint/internal/canvas"
	"flowpaint/internal/shape"

	"github.com/atotto/clipboard"
)

// clipboardTag marks a shape record copied to the OS clipboard by flowpaint.
const clipboardTag = "flowpaint/shape"

type clipboardPayload struct {
	Kind  string       `json:"kind"`
	Shape shape.Record `json:"shape"`
}

// mirrorClipboard writes the canvas clipboard shape to the system clipboard so
// another flowpaint instance can paste it.
func mirrorClipboard(c *canvas.Canvas) error {
	s := c.Clipboard()
	if s == nil {
		return nil
	}
	data, err := json.Marshal(clipboardPayload{Kind: clipboardTag, Shape: s.ToRecord()})
	if err != nil {
		return err
	}
	return clipboard.WriteAll(string(data))
}

// adoptClipboard loads a shape copied by another instance into the canvas
// clipboard. It reports whether the system clipboard held one.
func adoptClipboard(c *canvas.Canvas) bool {
	text, err := readClipboardText()
	if err != nil {
		return false
	}
	s, ok := decodeClipboardShape(text)
	if !ok {
		return false
	}
	c.SetClipboard(s)
	return true
}

func decodeClipboardShape(text string) (*shape.Shape, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "{") {
		return nil, false
	}
	var p clipboardPayload
	if err := json.Unmarshal([]byte(text), &p); err != nil || p.Kind != clipboardTag {
		return nil, false
	}
	return shape.FromRecord(p.Shape)
}

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

// pasteLabelText returns the system clipboard as plain label text.
func pasteLabelText() (string, error) {
	text, err := readClipboardText()
	if err != nil {
		return "", err
	}
	if isHTML(text) {
		text = extractTextFromHTML(text)
	} else if isRTF(text) {
		text = extractTextFromRTF(text)
	}
	return cleanClipboardText(text), nil
}

func isRTF(text string) bool {
	return strings.HasPrefix(text, "{\\rtf") || strings.Contains(text, "\\rtf1")
}

func isHTML(text string) bool {
	trimmed := strings.TrimSpace(text)
	return strings.HasPrefix(trimmed, "<") &&
		(strings.Contains(trimmed, "<html") || strings.Contains(trimmed, "<body") || strings.Contains(trimmed, "<div") || strings.Contains(trimmed, "<p"))
}

// extractTextFromRTF keeps the visible text of an RTF document. Paragraph and
// line controls become newlines, \tab a tab, \'hh the byte hh.
func extractTextFromRTF(rtf string) string {
	var out strings.Builder
	out.Grow(len(rtf))
	b := []byte(rtf)
	depth, skipDepth := 0, -1

	for i := 0; i < len(b); i++ {
		switch ch := b[i]; ch {
		case '{':
			depth++
		case '}':
			if depth == skipDepth {
				skipDepth = -1
			}
			depth--
		case '\\':
			if i+1 >= len(b) {
				continue
			}
			next := b[i+1]
			switch {
			case next == '\'' && i+3 < len(b):
				if v, err := strconv.ParseUint(string(b[i+2:i+4]), 16, 8); err == nil && skipDepth < 0 {
					out.WriteByte(byte(v))
				}
				i += 3
			case next == '\\' || next == '{' || next == '}':
				if skipDepth < 0 {
					out.WriteByte(next)
				}
				i++
			case next == '*':
				skipDepth = depth
				i++
			case isASCIILetter(next):
				j := i + 1
				for j < len(b) && isASCIILetter(b[j]) {
					j++
				}
				word := string(b[i+1 : j])
				for j < len(b) && (b[j] == '-' || (b[j] >= '0' && b[j] <= '9')) {
					j++
				}
				if j < len(b) && b[j] == ' ' {
					j++
				}
				i = j - 1
				if skipDepth >= 0 {
					continue
				}
				switch word {
				case "par", "line":
					out.WriteByte('\n')
				case "tab":
					out.WriteByte('\t')
				case "fonttbl", "colortbl", "stylesheet", "info":
					skipDepth = depth
				}
			default:
				i++
			}
		default:
			if skipDepth >= 0 {
				continue
			}
			if ch >= 32 && ch < 127 || ch == '\t' {
				out.WriteByte(ch)
			}
		}
	}
	return strings.TrimSpace(out.String())
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func extractTextFromHTML(html string) string {
	var result strings.Builder
	result.Grow(len(html))
	inTag := false
	var tag strings.Builder
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
			tag.Reset()
		case r == '>':
			inTag = false
			switch t := strings.ToLower(strings.Fields(tag.String() + " x")[0]); t {
			case "br", "br/", "/p", "/div":
				result.WriteByte('\n')
			}
		case inTag:
			tag.WriteRune(r)
		default:
			result.WriteRune(r)
		}
	}
	text := result.String()
	text = strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&amp;", "&",
		"&quot;", "\"",
		"&#39;", "'",
		"&nbsp;", " ",
	).Replace(text)
	return strings.TrimSpace(text)
}

// cleanClipboardText drops control characters and normalizes line endings.
func cleanClipboardText(text string) string {
	if text == "" {
		return text
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\t' || r >= 32 && r != 127 {
			result.WriteRune(r)
		}
	}
	return result.String()
}
