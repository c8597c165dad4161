package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"flowpaint/internal/geom"
	"flowpaint/internal/termview"
)

func (m *model) handleNavigation(key string) (tea.Model, tea.Cmd) {
	speed := m.getMoveSpeed(key)
	switch key {
	case "left", "shift+left":
		m.pan.X -= float64(speed) * termview.CellWidth
	case "right", "shift+right":
		m.pan.X += float64(speed) * termview.CellWidth
	case "up", "shift+up":
		m.pan.Y -= float64(speed) * termview.CellHeight
	case "down", "shift+down":
		m.pan.Y += float64(speed) * termview.CellHeight
	}
	m.clampPan()
	return m, nil
}

// handleNudge moves the selected shape by one cell in document units.
func (m *model) handleNudge(key string) (tea.Model, tea.Cmd) {
	z := m.canvas.Zoom()
	var d geom.Point
	switch key {
	case "H":
		d = geom.Pt(-termview.CellWidth/z, 0)
	case "L":
		d = geom.Pt(termview.CellWidth/z, 0)
	case "K":
		d = geom.Pt(0, -termview.CellHeight/z)
	case "J":
		d = geom.Pt(0, termview.CellHeight/z)
	}
	m.canvas.NudgeSelected(d)
	return m, nil
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "shift+left", "shift+right", "shift+up", "shift+down":
		return 4
	default:
		return 1
	}
}

// clampPan keeps the pan offset inside the zoomed page plus its margin.
func (m *model) clampPan() {
	vp := m.canvas.ViewportSize()
	minX, minY := -termview.CellWidth*4, -termview.CellHeight*2
	maxX := vp.W - float64(m.width)*termview.CellWidth/2
	maxY := vp.H - float64(m.canvasRows())*termview.CellHeight/2
	m.pan.X = clamp(m.pan.X, minX, maxX)
	m.pan.Y = clamp(m.pan.Y, minY, maxY)
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (m *model) view() termview.View {
	return termview.View{
		Zoom:   m.canvas.Zoom(),
		Pan:    m.pan,
		Width:  m.width,
		Height: m.canvasRows(),
	}
}

// canvasRows leaves room for the status line.
func (m *model) canvasRows() int {
	if m.height < 2 {
		return 1
	}
	return m.height - 1
}
