package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"flowpaint/internal/canvas"
	"flowpaint/internal/config"
	"flowpaint/internal/export"
	"flowpaint/internal/geom"
	"flowpaint/internal/shape"
)

const doubleClickInterval = 400 * time.Millisecond

type Mode int

const (
	ModeNormal Mode = iota
	ModeEditing
	ModeFileInput
	ModeConfirm
)

type FileOperation int

const (
	FileOpSave FileOperation = iota
	FileOpExport
	FileOpOpen
)

// session holds state that canvas listeners mutate.
type session struct {
	modified bool
}

type model struct {
	canvas  *canvas.Canvas
	cfg     *config.Config
	keys    keyMap
	watcher *fileWatcher
	state   *session

	width      int
	height     int
	pan        geom.Point
	mode       Mode
	help       bool
	helpScroll int

	filename string
	fileOp   FileOperation
	input    textinput.Model

	lastClick     time.Time
	lastClickCell [2]int
	mouseDown     bool

	colorIndex int
	widthIndex int

	errorMessage   string
	successMessage string
}

func newModel(cfg *config.Config, logger *log.Logger) *model {
	opts := canvas.DefaultOptions()
	opts.Logger = logger
	opts.SnapRadius = cfg.SnapRadius
	opts.AutoReconnect = cfg.AutoReconnect
	opts.GridSize = cfg.GridSize
	opts.PageSize = geom.Size{W: cfg.PageWidth, H: cfg.PageHeight}

	c := canvas.New(opts)
	c.SetZoomFactor(cfg.Zoom)

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 256

	m := &model{
		canvas:     c,
		cfg:        cfg,
		keys:       defaultKeyMap(),
		state:      &session{},
		input:      ti,
		widthIndex: 1,
	}
	c.On(canvas.EventChanged, func(interface{}) { m.state.modified = true })
	return m
}

// open loads path into the canvas. A file that does not exist yet starts an
// empty drawing with that name. A failed load leaves an untitled drawing.
func (m *model) open(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		m.canvas.Clear()
	} else if err := m.canvas.LoadFile(path); err != nil {
		m.filename = ""
		if m.watcher != nil {
			m.watcher.Watch("")
		}
		return err
	}
	m.filename = path
	m.state.modified = false
	if m.watcher != nil {
		if err := m.watcher.Watch(path); err != nil {
			log.Printf("watch %s: %v", path, err)
		}
	}
	return nil
}

func (m *model) save(path string) error {
	if filepath.Ext(path) == "" {
		path += ".json"
	}
	path = m.cfg.GetSavePath(path)
	if m.watcher != nil {
		m.watcher.IgnoreFor(time.Second)
	}
	if err := m.canvas.SaveFile(path); err != nil {
		return err
	}
	if m.filename != path {
		m.filename = path
		if m.watcher != nil {
			if err := m.watcher.Watch(path); err != nil {
				log.Printf("watch %s: %v", path, err)
			}
		}
	}
	m.state.modified = false
	return nil
}

func (m *model) exportTo(path string) error {
	if filepath.Ext(path) == "" {
		path += ".png"
	}
	path = m.cfg.GetSavePath(path)
	if err := export.SaveFile(path, export.FromDocument(m.canvas.Snapshot())); err != nil {
		return err
	}
	m.successMessage = "Exported " + path
	return nil
}

func (m *model) Init() tea.Cmd {
	if m.watcher != nil {
		return m.watcher.wait()
	}
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampPan()
		return m, nil

	case fileChangedMsg:
		if !m.state.modified && msg.path == m.filename {
			if err := m.canvas.LoadFile(m.filename); err != nil {
				m.errorMessage = err.Error()
			} else {
				m.successMessage = "Reloaded " + filepath.Base(m.filename)
			}
			m.state.modified = false
		}
		return m, m.watcher.wait()

	case tea.MouseMsg:
		if m.mode != ModeNormal || m.help {
			return m, nil
		}
		return m.handleMouse(msg)

	case tea.KeyMsg:
		m.errorMessage = ""
		m.successMessage = ""
		if m.help {
			return m.handleHelpKey(msg)
		}
		switch m.mode {
		case ModeEditing:
			return m.handleEditingKey(msg)
		case ModeFileInput:
			return m.handleFileInputKey(msg)
		case ModeConfirm:
			return m.handleConfirmKey(msg)
		}
		return m.handleNormalKey(msg)
	}
	return m, nil
}

func (m *model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	p := m.view().ScreenOf(msg.X, msg.Y)
	switch msg.Type {
	case tea.MouseLeft:
		if m.mouseDown {
			m.canvas.Move(p)
			return m, nil
		}
		m.mouseDown = true
		cell := [2]int{msg.X, msg.Y}
		if time.Since(m.lastClick) < doubleClickInterval && cell == m.lastClickCell {
			m.lastClick = time.Time{}
			m.mouseDown = false
			m.canvas.DoubleClick(p)
			m.beginEditing()
			return m, textinput.Blink
		}
		m.lastClick = time.Now()
		m.lastClickCell = cell
		m.canvas.SetCursor(p)
		m.canvas.Press(p)
	case tea.MouseMotion:
		if m.mouseDown {
			m.canvas.Move(p)
		}
	case tea.MouseRelease:
		if m.mouseDown {
			m.mouseDown = false
			m.canvas.Release(p)
		}
	case tea.MouseWheelUp:
		m.zoomAround(msg.X, msg.Y, m.canvas.ZoomIn)
	case tea.MouseWheelDown:
		m.zoomAround(msg.X, msg.Y, m.canvas.ZoomOut)
	}
	return m, nil
}

// zoomAround keeps the document point under cell (col, row) fixed while zooming.
func (m *model) zoomAround(col, row int, zoom func()) {
	before := m.canvas.ScreenToDoc(m.view().ScreenOf(col, row))
	zoom()
	after := m.canvas.DocToScreen(before)
	m.pan = m.pan.Add(after.Sub(m.view().ScreenOf(col, row)))
	m.clampPan()
}

// cursorScreen is the screen position of the canvas cursor, used for paste and drop.
func (m *model) cursorScreen() geom.Point {
	if m.width > 0 && m.canvas.Cursor().IsZero() {
		return m.view().ScreenOf(m.width/2, m.canvasRows()/2)
	}
	return m.canvas.DocToScreen(m.canvas.Cursor())
}

func (m *model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		if m.state.modified && m.cfg.Confirmations {
			m.mode = ModeConfirm
			return m, nil
		}
		return m, tea.Quit
	case key.Matches(msg, k.Help):
		m.help = true
		m.helpScroll = 0
	case key.Matches(msg, k.Cancel):
		m.canvas.ClearSelection()
	case key.Matches(msg, k.Undo):
		m.canvas.Undo()
	case key.Matches(msg, k.Redo):
		m.canvas.Redo()
	case key.Matches(msg, k.Delete):
		m.canvas.DeleteSelected()
	case key.Matches(msg, k.Copy):
		m.canvas.Copy()
		if err := mirrorClipboard(m.canvas); err != nil {
			log.Printf("clipboard: %v", err)
		}
	case key.Matches(msg, k.Cut):
		m.canvas.Cut()
		if err := mirrorClipboard(m.canvas); err != nil {
			log.Printf("clipboard: %v", err)
		}
	case key.Matches(msg, k.Paste):
		if m.canvas.Clipboard() == nil {
			adoptClipboard(m.canvas)
		}
		m.canvas.Paste()
	case key.Matches(msg, k.ZoomIn):
		m.zoomAround(m.width/2, m.canvasRows()/2, m.canvas.ZoomIn)
	case key.Matches(msg, k.ZoomOut):
		m.zoomAround(m.width/2, m.canvasRows()/2, m.canvas.ZoomOut)
	case key.Matches(msg, k.ZoomReset):
		m.zoomAround(m.width/2, m.canvasRows()/2, m.canvas.ResetZoom)
	case key.Matches(msg, k.Raise):
		m.canvas.MoveUp()
	case key.Matches(msg, k.Lower):
		m.canvas.MoveDown()
	case key.Matches(msg, k.ToTop):
		m.canvas.MoveToTop()
	case key.Matches(msg, k.ToBottom):
		m.canvas.MoveToBottom()
	case key.Matches(msg, k.Drop):
		m.canvas.Drop(dropKinds[msg.String()].String(), m.cursorScreen())
	case key.Matches(msg, k.Edit):
		if i := m.canvas.SelectedIndex(); i >= 0 {
			m.canvas.StartTextEditing(i)
			m.beginEditing()
			return m, textinput.Blink
		}
	case key.Matches(msg, k.Width):
		m.widthIndex = (m.widthIndex + 1) % len(lineWidths)
		m.canvas.SetSelectedLineWidth(lineWidths[m.widthIndex])
	case key.Matches(msg, k.Color):
		m.colorIndex = (m.colorIndex + 1) % len(palette)
		if col, err := shape.ParseColor(palette[m.colorIndex]); err == nil {
			m.canvas.SetSelectedLineColor(col)
		}
	case key.Matches(msg, k.Grid):
		m.canvas.SetGridVisible(!m.canvas.GridVisible())
	case key.Matches(msg, k.Pan), key.Matches(msg, k.PanFast):
		return m.handleNavigation(msg.String())
	case key.Matches(msg, k.Nudge):
		return m.handleNudge(msg.String())
	case key.Matches(msg, k.Save):
		if m.filename != "" && msg.String() == "ctrl+s" {
			if err := m.save(m.filename); err != nil {
				m.errorMessage = err.Error()
			} else {
				m.successMessage = "Saved " + m.filename
			}
			return m, nil
		}
		return m.beginFileInput(FileOpSave, strings.TrimSuffix(filepath.Base(m.filename), filepath.Ext(m.filename)))
	case key.Matches(msg, k.Export):
		return m.beginFileInput(FileOpExport, "")
	case key.Matches(msg, k.Open):
		return m.beginFileInput(FileOpOpen, "")
	}
	return m, nil
}

func (m *model) beginEditing() {
	i := m.canvas.EditingIndex()
	if i < 0 {
		return
	}
	m.mode = ModeEditing
	m.input.Placeholder = "label"
	m.input.SetValue(strings.ReplaceAll(m.canvas.Shape(i).Text, "\n", `\n`))
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *model) handleEditingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.canvas.CancelTextEditing()
		m.endInput()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		m.canvas.FinishTextEditing(strings.ReplaceAll(m.input.Value(), `\n`, "\n"))
		m.endInput()
		return m, nil
	case key.Matches(msg, m.keys.PasteLabel):
		text, err := pasteLabelText()
		if err != nil {
			m.errorMessage = "Clipboard: " + err.Error()
			return m, nil
		}
		m.insertLabelText(text)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// insertLabelText splices text into the label input at the cursor.
// Position counts runes, so the value is split as runes.
func (m *model) insertLabelText(text string) {
	v := []rune(m.input.Value())
	pos := min(max(m.input.Position(), 0), len(v))
	ins := []rune(strings.ReplaceAll(text, "\n", `\n`))
	out := make([]rune, 0, len(v)+len(ins))
	out = append(append(append(out, v[:pos]...), ins...), v[pos:]...)
	m.input.SetValue(string(out))
	m.input.SetCursor(pos + len(ins))
}

func (m *model) beginFileInput(op FileOperation, value string) (tea.Model, tea.Cmd) {
	m.mode = ModeFileInput
	m.fileOp = op
	switch op {
	case FileOpSave:
		m.input.Placeholder = "drawing name"
	case FileOpExport:
		m.input.Placeholder = "file.png, file.svg or file.txt"
	case FileOpOpen:
		m.input.Placeholder = "file to open"
	}
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
	return m, textinput.Blink
}

func (m *model) handleFileInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.endInput()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		name := strings.TrimSpace(m.input.Value())
		m.endInput()
		if name == "" {
			m.errorMessage = "No file name given"
			return m, nil
		}
		var err error
		switch m.fileOp {
		case FileOpSave:
			if err = m.save(name); err == nil {
				m.successMessage = "Saved " + m.filename
			}
		case FileOpExport:
			err = m.exportTo(name)
		case FileOpOpen:
			if err = m.open(m.cfg.GetSavePath(name)); err == nil {
				m.successMessage = fmt.Sprintf("Opened %s (%d shapes)", m.filename, m.canvas.Len())
			}
		}
		if err != nil {
			m.errorMessage = err.Error()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		return m, tea.Quit
	default:
		m.mode = ModeNormal
	}
	return m, nil
}

func (m *model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "?":
		m.help = false
		m.helpScroll = 0
	case "j", "down":
		if m.helpScroll < len(m.keys.helpLines())-1 {
			m.helpScroll++
		}
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	}
	return m, nil
}

func (m *model) endInput() {
	m.mode = ModeNormal
	m.input.Blur()
	m.input.SetValue("")
}

func runTUI(cfg *config.Config, path string) error {
	logger := log.New(os.Stderr, "[canvas] ", log.LstdFlags)
	if os.Getenv("FLOWPAINT_DEBUG") != "" {
		f, err := tea.LogToFile("flowpaint-debug.log", "flowpaint")
		if err != nil {
			return fmt.Errorf("open debug log: %w", err)
		}
		defer f.Close()
		logger.SetOutput(f)
	} else {
		logger.SetOutput(io.Discard)
		log.SetOutput(io.Discard)
	}

	m := newModel(cfg, logger)
	watcher, err := newFileWatcher()
	if err != nil {
		logger.Printf("file watching disabled: %v", err)
	} else {
		defer watcher.Close()
		m.watcher = watcher
	}
	if path != "" {
		if err := m.open(path); err != nil {
			return err
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
