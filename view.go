package main

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"flowpaint/internal/geom"
	"flowpaint/internal/termview"
)

var (
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("238"))
	modeStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("16")).Background(lipgloss.Color("110")).Padding(0, 1)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Background(lipgloss.Color("238"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Background(lipgloss.Color("238"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	handleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	gridStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("237"))
)

func (m *model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.help {
		return m.helpView()
	}

	v := m.view()
	opts := termview.Options{
		Selected: m.canvas.SelectedIndex(),
		Handles:  true,
	}
	if snap, ok := m.canvas.Snap(); ok {
		p := snap.Point
		opts.Snap = &p
	}
	g := termview.Render(m.canvas.Shapes(), v, opts)

	var b strings.Builder
	for y := 0; y < g.Height; y++ {
		b.WriteString(m.renderRow(g, y))
		b.WriteByte('\n')
	}
	b.WriteString(m.statusLine())
	return b.String()
}

// renderRow styles runs of cells that share an owner.
func (m *model) renderRow(g *termview.Grid, y int) string {
	var b strings.Builder
	var run strings.Builder
	runStyle := lipgloss.Style{}
	hasStyle := false

	flush := func() {
		if run.Len() == 0 {
			return
		}
		if hasStyle {
			b.WriteString(runStyle.Render(run.String()))
		} else {
			b.WriteString(run.String())
		}
		run.Reset()
	}

	for x := 0; x < g.Width; x++ {
		ch := g.At(x, y)
		style, ok := m.cellStyle(g, x, y, ch)
		if ch == ' ' && m.canvas.GridVisible() && m.onGrid(x, y) {
			ch, style, ok = '·', gridStyle, true
		}
		if ok != hasStyle || (ok && style.GetForeground() != runStyle.GetForeground()) || (ok && style.GetBold() != runStyle.GetBold()) {
			flush()
			runStyle, hasStyle = style, ok
		}
		run.WriteRune(ch)
	}
	flush()
	return b.String()
}

func (m *model) cellStyle(g *termview.Grid, x, y int, ch rune) (lipgloss.Style, bool) {
	owner := g.Owner(x, y)
	if owner < 0 {
		if ch == '*' {
			return handleStyle, true
		}
		return lipgloss.Style{}, false
	}
	if owner == m.canvas.SelectedIndex() {
		if ch == 'o' || ch == '@' || ch == '+' {
			return handleStyle, true
		}
		return selectedStyle, true
	}
	s := m.canvas.Shape(owner)
	if s == nil {
		return lipgloss.Style{}, false
	}
	style, ok := shapeStyles[s.Kind]
	return style, ok
}

// onGrid reports whether the cell holds a grid intersection inside the page.
func (m *model) onGrid(x, y int) bool {
	size := float64(m.canvas.GridSize())
	if size <= 0 {
		return false
	}
	v := m.view()
	p := m.canvas.ScreenToDoc(v.ScreenOf(x, y))
	page := m.canvas.PageSize()
	if p.X < 0 || p.Y < 0 || p.X > page.W || p.Y > page.H {
		return false
	}
	col, row := v.CellOf(geom.Pt(math.Round(p.X/size)*size, math.Round(p.Y/size)*size))
	return col == x && row == y
}

func (m *model) statusLine() string {
	var left string
	switch m.mode {
	case ModeEditing, ModeFileInput:
		left = modeStyle.Render(m.modeString()) + " " + m.input.View()
	case ModeConfirm:
		left = modeStyle.Render(m.modeString()) + " Unsaved changes. Quit anyway? (y/n)"
	default:
		name := "untitled"
		if m.filename != "" {
			name = filepath.Base(m.filename)
		}
		if m.state.modified {
			name += " [+]"
		}
		left = modeStyle.Render(m.modeString()) + " " + name
		if s := m.canvas.Selected(); s != nil {
			left += fmt.Sprintf(" | %s", s.Kind)
		}
	}

	right := fmt.Sprintf("%d shapes  %.0f%%  ?:help ", m.canvas.Len(), m.canvas.Zoom()*100)
	switch {
	case m.errorMessage != "":
		right = errorStyle.Render(m.errorMessage+" ") + right
	case m.successMessage != "":
		right = successStyle.Render(m.successMessage+" ") + right
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return statusStyle.Width(m.width).MaxWidth(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m *model) modeString() string {
	switch m.mode {
	case ModeNormal:
		if m.canvas.Dragging() {
			return "DRAG"
		}
		return "NORMAL"
	case ModeEditing:
		return "LABEL"
	case ModeFileInput:
		switch m.fileOp {
		case FileOpSave:
			return "SAVE"
		case FileOpExport:
			return "EXPORT"
		}
		return "OPEN"
	case ModeConfirm:
		return "CONFIRM"
	default:
		return "UNKNOWN"
	}
}

func (m *model) helpView() string {
	helpLines := append([]string{
		"flowpaint help",
		"==============",
		"",
	}, m.keys.helpLines()...)

	visibleHeight := m.height - 1
	if visibleHeight < 1 {
		visibleHeight = 1
	}
	start := m.helpScroll
	if start > len(helpLines)-visibleHeight {
		start = len(helpLines) - visibleHeight
	}
	if start < 0 {
		start = 0
	}
	end := start + visibleHeight
	if end > len(helpLines) {
		end = len(helpLines)
	}

	status := fmt.Sprintf("Help (%d-%d of %d lines) | j/k to scroll, Esc to close", start+1, end, len(helpLines))
	return strings.Join(helpLines[start:end], "\n") + "\n" + statusStyle.Width(m.width).Render(status)
}
