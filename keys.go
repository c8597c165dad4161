package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"flowpaint/internal/shape"
)

type keyMap struct {
	Undo       key.Binding
	Redo       key.Binding
	Delete     key.Binding
	Copy       key.Binding
	Cut        key.Binding
	Paste      key.Binding
	ZoomIn     key.Binding
	ZoomOut    key.Binding
	ZoomReset  key.Binding
	Raise      key.Binding
	Lower      key.Binding
	ToTop      key.Binding
	ToBottom   key.Binding
	Drop       key.Binding
	Edit       key.Binding
	Width      key.Binding
	Color      key.Binding
	Grid       key.Binding
	Pan        key.Binding
	PanFast    key.Binding
	Nudge      key.Binding
	Save       key.Binding
	Export     key.Binding
	Open       key.Binding
	Help       key.Binding
	Cancel     key.Binding
	Quit       key.Binding
	Confirm    key.Binding
	PasteLabel key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Undo:       key.NewBinding(key.WithKeys("ctrl+z", "u"), key.WithHelp("u", "undo")),
		Redo:       key.NewBinding(key.WithKeys("ctrl+y", "U"), key.WithHelp("U", "redo")),
		Delete:     key.NewBinding(key.WithKeys("delete", "d"), key.WithHelp("d", "delete")),
		Copy:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy")),
		Cut:        key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "cut")),
		Paste:      key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "paste")),
		ZoomIn:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:    key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
		ZoomReset:  key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "zoom 100%")),
		Raise:      key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "raise")),
		Lower:      key.NewBinding(key.WithKeys("["), key.WithHelp("[", "lower")),
		ToTop:      key.NewBinding(key.WithKeys("}"), key.WithHelp("}", "to top")),
		ToBottom:   key.NewBinding(key.WithKeys("{"), key.WithHelp("{", "to bottom")),
		Drop:       key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7"), key.WithHelp("1-7", "add shape")),
		Edit:       key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit label")),
		Width:      key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "line width")),
		Color:      key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "line color")),
		Grid:       key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "grid")),
		Pan:        key.NewBinding(key.WithKeys("left", "right", "up", "down"), key.WithHelp("←↓↑→", "pan")),
		PanFast:    key.NewBinding(key.WithKeys("shift+left", "shift+right", "shift+up", "shift+down"), key.WithHelp("shift+←↓↑→", "pan fast")),
		Nudge:      key.NewBinding(key.WithKeys("H", "J", "K", "L"), key.WithHelp("HJKL", "nudge")),
		Save:       key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", "save")),
		Export:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "export")),
		Open:       key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Confirm:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		PasteLabel: key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "paste text")),
	}
}

// dropKinds maps the digit keys to the shapes they add.
var dropKinds = map[string]shape.Kind{
	"1": shape.Rect,
	"2": shape.Ellipse,
	"3": shape.Pentagon,
	"4": shape.Triangle,
	"5": shape.Diamond,
	"6": shape.RoundedRect,
	"7": shape.Arrow,
}

// palette is cycled by the line color key.
var palette = []string{"#000000", "#d62728", "#1f77b4", "#2ca02c", "#ff7f0e", "#9467bd", "#8c564b", "#7f7f7f"}

var lineWidths = []float64{1, 2, 3, 4, 6, 8}

// shapeStyles colors cells by the kind of the shape that drew them.
var shapeStyles = map[shape.Kind]lipgloss.Style{
	shape.Rect:        lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	shape.Ellipse:     lipgloss.NewStyle().Foreground(lipgloss.Color("81")),
	shape.Pentagon:    lipgloss.NewStyle().Foreground(lipgloss.Color("177")),
	shape.Triangle:    lipgloss.NewStyle().Foreground(lipgloss.Color("221")),
	shape.Diamond:     lipgloss.NewStyle().Foreground(lipgloss.Color("209")),
	shape.RoundedRect: lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
	shape.Arrow:       lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
}

func (k keyMap) helpLines() []string {
	groups := [][]key.Binding{
		{k.Drop, k.Edit, k.Delete, k.Copy, k.Cut, k.Paste, k.PasteLabel},
		{k.Undo, k.Redo, k.Raise, k.Lower, k.ToTop, k.ToBottom},
		{k.ZoomIn, k.ZoomOut, k.ZoomReset, k.Pan, k.PanFast, k.Nudge, k.Grid},
		{k.Width, k.Color, k.Save, k.Open, k.Export, k.Help, k.Cancel, k.Quit},
	}
	var lines []string
	for _, g := range groups {
		for _, b := range g {
			h := b.Help()
			lines = append(lines, "  "+padRight(h.Key, 14)+h.Desc)
		}
		lines = append(lines, "")
	}
	lines = append(lines,
		"Mouse:",
		"  click            select shape / handle",
		"  drag             move, resize, rotate; drag a + handle to draw a connected arrow",
		"  double click     edit label",
	)
	return lines
}

func padRight(s string, n int) string {
	w := lipgloss.Width(s)
	if w >= n {
		return s + " "
	}
	return s + strings.Repeat(" ", n-w)
}
