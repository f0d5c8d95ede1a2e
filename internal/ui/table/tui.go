package table

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/imgajeed76/gridview/internal/grid"
	"github.com/imgajeed76/gridview/internal/logger"
	"github.com/imgajeed76/gridview/internal/ui/styles"
)

// ═══════════════════════════════════════════════════════════════════════════
// Constants
// ═══════════════════════════════════════════════════════════════════════════

const (
	recomputeDelay = 100 * time.Millisecond
	remeasureDelay = 16 * time.Millisecond
	toastDuration  = 2 * time.Second
	doubleClickGap = 400 * time.Millisecond
)

// Table mode
type tableMode int

const (
	tableModeNormal tableMode = iota
	tableModeFilter
	tableModeColumns
)

// Exit mode: what to print after quitting the TUI
type exitMode int

const (
	exitNormal exitMode = iota
	exitJSON
	exitRaw
	exitPlain
)

// ═══════════════════════════════════════════════════════════════════════════
// Model
// ═══════════════════════════════════════════════════════════════════════════

type tableModel struct {
	table *grid.Table
	opts  ViewOptions
	log   *logger.Logger

	width    int
	height   int
	ready    bool
	mode     tableMode
	exitMode exitMode

	cursor     int // selected row, as a view index
	colCursor  int // selected visible column
	pickCursor int // selected entry in the column picker
	hover      int // view index under the pointer, -1 when none

	filterInput textinput.Model
	filterErr   string

	help     help.Model
	showHelp bool
	spinner  spinner.Model

	// Deferred work. Each tick carries the sequence number it was
	// scheduled with; stale ticks are dropped.
	recomputing  bool
	recomputeSeq int
	resize       *resizeNotifier
	resizeSeq    int
	toast        string
	toastSeq     int

	lastClick    time.Time
	lastClickRow int
	lastClickCol string

	clipboard grid.Clipboard
	release   func()
}

type recomputeDoneMsg struct{ seq int }
type remeasureMsg struct{ seq int }
type toastClearMsg struct{ seq int }

// ═══════════════════════════════════════════════════════════════════════════
// Key Bindings
// ═══════════════════════════════════════════════════════════════════════════

type tableKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	HalfUp      key.Binding
	HalfDown    key.Binding
	ScrollLeft  key.Binding
	ScrollRight key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Home        key.Binding
	End         key.Binding
	Sort        key.Binding
	Filter      key.Binding
	ClearFilter key.Binding
	Columns     key.Binding
	MoveLeft    key.Binding
	MoveRight   key.Binding
	Hide        key.Binding
	ZoomIn      key.Binding
	ZoomOut     key.Binding
	ZoomReset   key.Binding
	YankCell    key.Binding
	YankRow     key.Binding
	ExportJSON  key.Binding
	ExportRaw   key.Binding
	ExportPlain key.Binding
	Help        key.Binding
	Quit        key.Binding
}

var tableKeys = tableKeyMap{
	Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev column")),
	Right:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next column")),
	HalfUp:      key.NewBinding(key.WithKeys("shift+up", "ctrl+u"), key.WithHelp("⇧↑", "half page up")),
	HalfDown:    key.NewBinding(key.WithKeys("shift+down", "ctrl+d"), key.WithHelp("⇧↓", "half page down")),
	ScrollLeft:  key.NewBinding(key.WithKeys("shift+left"), key.WithHelp("⇧←", "scroll left")),
	ScrollRight: key.NewBinding(key.WithKeys("shift+right"), key.WithHelp("⇧→", "scroll right")),
	PageUp:      key.NewBinding(key.WithKeys("pgup", "b"), key.WithHelp("pgup", "page up")),
	PageDown:    key.NewBinding(key.WithKeys("pgdown", " "), key.WithHelp("pgdn", "page down")),
	Home:        key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first row")),
	End:         key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last row")),
	Sort:        key.NewBinding(key.WithKeys("s", "enter"), key.WithHelp("s", "sort column")),
	Filter:      key.NewBinding(key.WithKeys("/", "f"), key.WithHelp("/", "filter")),
	ClearFilter: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear filter")),
	Columns:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "columns")),
	MoveLeft:    key.NewBinding(key.WithKeys("<"), key.WithHelp("<", "move column left")),
	MoveRight:   key.NewBinding(key.WithKeys(">"), key.WithHelp(">", "move column right")),
	Hide:        key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "hide column")),
	ZoomIn:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
	ZoomOut:     key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
	ZoomReset:   key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset zoom")),
	YankCell:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy cell")),
	YankRow:     key.NewBinding(key.WithKeys("Y"), key.WithHelp("Y", "copy row")),
	ExportJSON:  key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "print as JSON")),
	ExportRaw:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "print raw")),
	ExportPlain: key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "print table")),
	Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
}

// ShortHelp implements help.KeyMap.
func (k tableKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Sort, k.Filter, k.Columns, k.ZoomIn, k.YankCell, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k tableKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.HalfUp, k.HalfDown, k.PageUp, k.PageDown, k.Home, k.End},
		{k.Left, k.Right, k.ScrollLeft, k.ScrollRight, k.MoveLeft, k.MoveRight, k.Hide, k.Columns},
		{k.Sort, k.Filter, k.ClearFilter, k.ZoomIn, k.ZoomOut, k.ZoomReset},
		{k.YankCell, k.YankRow, k.ExportJSON, k.ExportRaw, k.ExportPlain, k.Help, k.Quit},
	}
}

type pickerKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Done     key.Binding
}

var pickerKeys = pickerKeyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "down")),
	Toggle:   key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "show/hide")),
	MoveUp:   key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("⇧↑", "move earlier")),
	MoveDown: key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("⇧↓", "move later")),
	Done:     key.NewBinding(key.WithKeys("esc", "enter", "c", "q"), key.WithHelp("esc", "done")),
}

func (k pickerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.MoveUp, k.MoveDown, k.Done}
}

func (k pickerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// ═══════════════════════════════════════════════════════════════════════════
// Entry Point
// ═══════════════════════════════════════════════════════════════════════════

func newTableModel(t *grid.Table, opts ViewOptions, clip grid.Clipboard) tableModel {
	if opts.Title == "" {
		opts.Title = "gridview"
	}
	if opts.WheelColumns <= 0 {
		opts.WheelColumns = 4
	}
	if opts.PageSize <= 0 {
		opts.PageSize = grid.DefaultPageSize
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	ti := textinput.New()
	ti.Prompt = "filter: "
	ti.Placeholder = "age > 30 and name contains ann"
	ti.CharLimit = 500

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = styles.InfoStyle

	m := tableModel{
		table:       t,
		opts:        opts,
		log:         log.With("component", "tui"),
		hover:       -1,
		filterInput: ti,
		help:        help.New(),
		spinner:     sp,
		resize:      newResizeNotifier(),
		clipboard:   clip,
	}
	m.release = t.Mount(grid.Environment{Clipboard: clip, Resize: m.resize})
	return m
}

// RunTableTUI launches the interactive table viewer. It blocks until the
// user quits. If the user requests an export (J/R/P), the current view is
// printed to stdout after the TUI exits.
func RunTableTUI(t *grid.Table, opts ViewOptions) error {
	m := newTableModel(t, opts, systemClipboard{})
	defer m.release()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	if fm, ok := finalModel.(tableModel); ok {
		switch fm.exitMode {
		case exitJSON:
			return PrintJSON(os.Stdout, t)
		case exitRaw:
			return PrintRaw(os.Stdout, t)
		case exitPlain:
			return PrintPlainTable(os.Stdout, t)
		}
	}
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Bubble Tea Interface
// ═══════════════════════════════════════════════════════════════════════════

func (m tableModel) Init() tea.Cmd {
	return nil
}

func (m tableModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.filterInput.Width = max(10, msg.Width-len(m.filterInput.Prompt)-2)
		m.applyPageSize()
		// Re-measure once the terminal stops resizing.
		m.resizeSeq++
		seq := m.resizeSeq
		return m, tea.Tick(remeasureDelay, func(time.Time) tea.Msg { return remeasureMsg{seq: seq} })

	case remeasureMsg:
		if msg.seq == m.resizeSeq {
			m.resize.Notify()
			m.clampScroll()
		}
		return m, nil

	case recomputeDoneMsg:
		if msg.seq == m.recomputeSeq {
			m.recomputing = false
		}
		return m, nil

	case spinner.TickMsg:
		if !m.recomputing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case toastClearMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil

	case tea.MouseMsg:
		if m.mode != tableModeNormal {
			return m, nil
		}
		return m.updateMouse(tea.MouseEvent(msg))

	case tea.KeyMsg:
		switch m.mode {
		case tableModeFilter:
			return m.updateFilter(msg)
		case tableModeColumns:
			return m.updatePicker(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m tableModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, tableKeys.Quit):
		return m, tea.Quit

	case key.Matches(msg, tableKeys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, tableKeys.Down):
		m.moveCursor(1)
	case key.Matches(msg, tableKeys.HalfUp):
		m.navigate(grid.NavPageUp, true)
	case key.Matches(msg, tableKeys.HalfDown):
		m.navigate(grid.NavPageDown, true)
	case key.Matches(msg, tableKeys.PageUp):
		m.navigate(grid.NavPageUp, false)
	case key.Matches(msg, tableKeys.PageDown):
		m.navigate(grid.NavPageDown, false)
	case key.Matches(msg, tableKeys.Home):
		m.navigate(grid.NavHome, false)
	case key.Matches(msg, tableKeys.End):
		m.navigate(grid.NavEnd, false)

	case key.Matches(msg, tableKeys.Left):
		m.selectColumnIndex(m.colCursor - 1)
	case key.Matches(msg, tableKeys.Right):
		m.selectColumnIndex(m.colCursor + 1)
	case key.Matches(msg, tableKeys.ScrollLeft):
		m.table.ScrollColumns(-max(1, m.bodyWidth()/2), m.bodyWidth())
	case key.Matches(msg, tableKeys.ScrollRight):
		m.table.ScrollColumns(max(1, m.bodyWidth()/2), m.bodyWidth())

	case key.Matches(msg, tableKeys.Sort):
		col, ok := m.selectedColumn()
		if !ok {
			return m, nil
		}
		m.table.ClickSort(col)
		m.keepCursor()
		return m, m.recompute()

	case key.Matches(msg, tableKeys.Filter):
		m.mode = tableModeFilter
		m.filterErr = ""
		m.filterInput.SetValue(grid.FormatFilter(m.table.State().Conditions))
		m.filterInput.CursorEnd()
		return m, m.filterInput.Focus()

	case key.Matches(msg, tableKeys.ClearFilter):
		if len(m.table.State().Conditions) == 0 {
			return m, nil
		}
		m.table.ClearConditions()
		m.cursor = 0
		return m, tea.Batch(m.recompute(), m.setToast("Filter cleared"))

	case key.Matches(msg, tableKeys.Columns):
		m.mode = tableModeColumns
		m.pickCursor = 0
		if col, ok := m.selectedColumn(); ok {
			m.pickCursor = max(0, slices.Index(m.table.State().Columns.Order, col))
		}

	case key.Matches(msg, tableKeys.MoveLeft):
		if col, ok := m.selectedColumn(); ok && m.table.ShiftColumn(col, -1) {
			m.selectColumn(col)
			return m, m.recompute()
		}
	case key.Matches(msg, tableKeys.MoveRight):
		if col, ok := m.selectedColumn(); ok && m.table.ShiftColumn(col, 1) {
			m.selectColumn(col)
			return m, m.recompute()
		}
	case key.Matches(msg, tableKeys.Hide):
		if col, ok := m.selectedColumn(); ok && m.table.ToggleColumn(col) {
			m.selectColumnIndex(m.colCursor)
			m.clampScroll()
			return m, tea.Batch(m.recompute(), m.setToast("Hid "+col+" (c to restore)"))
		}

	case key.Matches(msg, tableKeys.ZoomIn):
		return m, m.zoomed(m.table.ZoomIn())
	case key.Matches(msg, tableKeys.ZoomOut):
		return m, m.zoomed(m.table.ZoomOut())
	case key.Matches(msg, tableKeys.ZoomReset):
		return m, m.zoomed(m.table.ZoomReset())

	case key.Matches(msg, tableKeys.YankCell):
		col, ok := m.selectedColumn()
		if !ok {
			return m, nil
		}
		return m, m.copyCell(m.cursor, col)
	case key.Matches(msg, tableKeys.YankRow):
		return m, m.copyRow(m.cursor)

	case key.Matches(msg, tableKeys.ExportJSON):
		m.exitMode = exitJSON
		return m, tea.Quit
	case key.Matches(msg, tableKeys.ExportRaw):
		m.exitMode = exitRaw
		return m, tea.Quit
	case key.Matches(msg, tableKeys.ExportPlain):
		m.exitMode = exitPlain
		return m, tea.Quit

	case key.Matches(msg, tableKeys.Help):
		m.showHelp = true
	}

	return m, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Filter prompt
// ═══════════════════════════════════════════════════════════════════════════

func (m tableModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = tableModeNormal
		m.filterErr = ""
		m.filterInput.Blur()
		return m, nil
	case tea.KeyEnter:
		if err := m.table.ApplyFilter(m.filterInput.Value()); err != nil {
			m.filterErr = err.Error()
			m.log.WarnErr(err, "filter rejected")
			return m, nil
		}
		m.mode = tableModeNormal
		m.filterErr = ""
		m.filterInput.Blur()
		m.cursor = 0
		return m, tea.Batch(m.recompute(), m.setToast(fmt.Sprintf("%d rows match", m.table.Len())))
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.filterErr = ""
	return m, cmd
}

// ═══════════════════════════════════════════════════════════════════════════
// Column picker
// ═══════════════════════════════════════════════════════════════════════════

func (m tableModel) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	order := m.table.State().Columns.Order
	if len(order) == 0 {
		m.mode = tableModeNormal
		return m, nil
	}
	m.pickCursor = min(max(0, m.pickCursor), len(order)-1)
	col := order[m.pickCursor]

	switch {
	case key.Matches(msg, pickerKeys.Done):
		m.mode = tableModeNormal
		m.selectColumnIndex(m.colCursor)
		m.clampScroll()
	case key.Matches(msg, pickerKeys.Up):
		m.pickCursor = max(0, m.pickCursor-1)
	case key.Matches(msg, pickerKeys.Down):
		m.pickCursor = min(len(order)-1, m.pickCursor+1)
	case key.Matches(msg, pickerKeys.Toggle):
		if m.table.ToggleColumn(col) {
			return m, m.recompute()
		}
	case key.Matches(msg, pickerKeys.MoveUp):
		if m.pickCursor > 0 && m.table.MoveColumn(col, order[m.pickCursor-1]) {
			m.pickCursor--
			return m, m.recompute()
		}
	case key.Matches(msg, pickerKeys.MoveDown):
		if m.pickCursor < len(order)-1 && m.table.MoveColumn(col, order[m.pickCursor+1]) {
			m.pickCursor++
			return m, m.recompute()
		}
	}
	return m, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Mouse
// ═══════════════════════════════════════════════════════════════════════════

func (m tableModel) updateMouse(ev tea.MouseEvent) (tea.Model, tea.Cmd) {
	if ev.IsWheel() {
		we := grid.WheelEvent{Ctrl: ev.Ctrl, Shift: ev.Shift}
		switch ev.Button {
		case tea.MouseButtonWheelUp:
			we.DeltaY = -1
		case tea.MouseButtonWheelDown:
			we.DeltaY = 1
		case tea.MouseButtonWheelLeft:
			we.DeltaX = -1
		case tea.MouseButtonWheelRight:
			we.DeltaX = 1
		}
		return m, m.wheel(we)
	}

	switch ev.Action {
	case tea.MouseActionPress:
		if ev.Button != tea.MouseButtonLeft {
			return m, nil
		}
		var cmd tea.Cmd
		p := m.pointer(ev.X, ev.Y)
		if p.Area == grid.AreaBody {
			cmd = m.clickCell(ev.X, ev.Y)
		}
		m.table.PointerDown(p)
		return m, cmd

	case tea.MouseActionMotion:
		if m.table.Drag().Dragging() {
			if m.table.PointerMove(m.pointer(ev.X, ev.Y)) {
				m.keepCursor()
			}
			return m, nil
		}
		m.hover = -1
		if idx, ok := m.rowAt(ev.Y); ok {
			m.hover = idx
		}

	case tea.MouseActionRelease:
		drag := m.table.Drag()
		m.table.PointerUp(m.pointer(ev.X, ev.Y))
		if drag.Kind == grid.DragColumn {
			// Either a reorder or a sort click.
			if col, ok := m.selectedColumn(); ok {
				m.selectColumn(col)
			}
			m.keepCursor()
			return m, m.recompute()
		}
	}
	return m, nil
}

func (m *tableModel) wheel(we grid.WheelEvent) tea.Cmd {
	switch grid.ClassifyWheel(we) {
	case grid.GestureScrollColumns:
		d := we.DeltaX
		if d == 0 {
			d = we.DeltaY
		}
		step := m.opts.WheelColumns
		if d < 0 {
			step = -step
		}
		m.table.ScrollColumns(step, m.bodyWidth())
		return nil
	case grid.GestureZoomIn, grid.GestureZoomOut:
		return m.zoomed(m.table.Wheel(we))
	}
	if m.table.Wheel(we) {
		m.keepCursor()
	}
	return nil
}

// clickCell selects the clicked cell; a second click on it within
// doubleClickGap copies it.
func (m *tableModel) clickCell(x, y int) tea.Cmd {
	idx, ok := m.rowAt(y)
	if !ok || x >= m.bodyWidth() {
		return nil
	}
	col, ok := m.table.ColumnAt(x + m.table.ScrollLeft())
	if !ok {
		return nil
	}
	m.cursor = idx
	m.selectColumn(col)

	now := time.Now()
	if idx == m.lastClickRow && col == m.lastClickCol && now.Sub(m.lastClick) < doubleClickGap {
		m.lastClick = time.Time{}
		return m.copyCell(idx, col)
	}
	m.lastClick, m.lastClickRow, m.lastClickCol = now, idx, col
	return nil
}

// pointer resolves a screen position to the table area under it.
func (m tableModel) pointer(x, y int) grid.Pointer {
	top, height := m.bodyTop(), m.bodyHeight()
	p := grid.Pointer{
		X:           float64(x),
		Y:           float64(y),
		TrackTop:    float64(top),
		TrackHeight: float64(max(1, height-1)),
	}
	inBody := y >= top && y < top+height
	switch {
	case inBody && x >= m.bodyWidth():
		p.Area = grid.AreaScrollbar
	case y == m.headerY():
		p.Area = grid.AreaHeader
		if col, ok := m.table.ColumnAt(x + m.table.ScrollLeft()); ok {
			p.Column = col
		}
	case inBody:
		p.Area = grid.AreaBody
	}
	return p
}

// rowAt returns the view index of the row drawn at screen line y.
func (m tableModel) rowAt(y int) (int, bool) {
	line := y - m.bodyTop()
	if line < 0 || line >= m.bodyHeight() {
		return 0, false
	}
	for _, r := range m.placeRows(m.frame()) {
		if line >= r.y && line < r.y+r.height {
			return r.Index, true
		}
	}
	return 0, false
}

// ═══════════════════════════════════════════════════════════════════════════
// State helpers
// ═══════════════════════════════════════════════════════════════════════════

func (m tableModel) headerY() int {
	if m.opts.ControlBar {
		return 2
	}
	return 1
}

func (m tableModel) bodyTop() int {
	return m.headerY() + 2
}

// bodyHeight is the number of screen lines available for rows.
func (m tableModel) bodyHeight() int {
	return max(1, m.height-m.bodyTop()-1)
}

// bodyWidth excludes the scrollbar column.
func (m tableModel) bodyWidth() int {
	return max(1, m.width-1)
}

// lineHeight is how many screen lines a row takes in the fixed layout.
func (m tableModel) lineHeight() int {
	if m.opts.HorizontalLines {
		return 2
	}
	return 1
}

func (m tableModel) frame() grid.Frame {
	return m.table.Frame(m.bodyHeight(), m.bodyWidth())
}

// applyPageSize shrinks the window to what fits on screen.
func (m *tableModel) applyPageSize() {
	fit := m.bodyHeight() / m.lineHeight()
	m.table.SetPageSize(max(1, min(m.opts.PageSize, fit)))
	m.keepCursor()
}

func (m *tableModel) clampScroll() {
	m.table.SetBodyScroll(m.table.ScrollLeft(), m.bodyWidth())
}

// moveCursor moves the selected row. Reaching the edge of the window
// advances it by a row, so the cursor never sits on the last visible line.
func (m *tableModel) moveCursor(delta int) {
	n := m.table.Len()
	if n == 0 {
		return
	}
	w := m.table.Window()
	page := max(1, w.PageSize)
	prev := m.cursor - w.Start
	m.cursor = min(max(0, m.cursor+delta), n-1)
	m.table.BodyScrolled(grid.EdgeInput{
		PrevTop:      float64(prev),
		Top:          float64(m.cursor - w.Start),
		ScrollHeight: float64(page),
		ClientHeight: 1,
	})

	m.revealCursor()
}

// revealCursor moves the window until the cursor row is fully drawn.
func (m *tableModel) revealCursor() {
	for range m.table.Len() {
		lo, hi := m.visibleRows()
		switch {
		case m.cursor < lo:
			if !m.table.JumpTo(m.cursor) {
				return
			}
		case m.cursor >= hi:
			if !m.table.Shift(m.cursor - hi + 1) {
				return
			}
		default:
			return
		}
	}
}

// visibleRows returns the view index range [lo, hi) of the rows drawn in
// full. In the virtual layout that depends on row heights, so a row that
// is taller than the whole body counts on its own.
func (m *tableModel) visibleRows() (lo, hi int) {
	if m.table.LayoutMode() != grid.LayoutVirtual {
		return m.table.Window().Slice(m.table.Len())
	}
	f := m.frame()
	bottom := f.Offset + m.bodyHeight()
	lo, hi = -1, -1
	for _, r := range f.Rows {
		if r.Top < f.Offset || r.Top+r.Height > bottom {
			continue
		}
		if lo < 0 {
			lo = r.Index
		}
		hi = r.Index + 1
	}
	if lo >= 0 {
		return lo, hi
	}
	for _, r := range f.Rows {
		if r.Top+r.Height > f.Offset {
			return r.Index, r.Index + 1
		}
	}
	return 0, 0
}

func (m *tableModel) navigate(k grid.NavKey, half bool) {
	before := m.table.Window().Start
	moved := m.table.Navigate(k, half)
	switch {
	case k == grid.NavHome:
		m.cursor = 0
	case k == grid.NavEnd:
		m.cursor = m.table.Len() - 1
	case moved:
		m.cursor += m.table.Window().Start - before
	case k == grid.NavPageDown:
		m.cursor = m.table.Len() - 1
	case k == grid.NavPageUp:
		m.cursor = 0
	}
	m.keepCursor()
}

// keepCursor pulls the cursor back inside the window.
func (m *tableModel) keepCursor() {
	n := m.table.Len()
	if n == 0 {
		m.cursor = 0
		return
	}
	lo, hi := m.visibleRows()
	m.cursor = min(max(lo, m.cursor), max(lo, hi-1))
}

func (m tableModel) selectedColumn() (string, bool) {
	cols := m.table.VisibleColumns()
	if m.colCursor < 0 || m.colCursor >= len(cols) {
		return "", false
	}
	return cols[m.colCursor], true
}

func (m *tableModel) selectColumn(col string) {
	if i := slices.Index(m.table.VisibleColumns(), col); i >= 0 {
		m.selectColumnIndex(i)
	}
}

// selectColumnIndex selects a visible column and scrolls it into view.
func (m *tableModel) selectColumnIndex(i int) {
	cols := m.table.VisibleColumns()
	if len(cols) == 0 {
		m.colCursor = 0
		return
	}
	m.colCursor = min(max(0, i), len(cols)-1)

	widths := m.table.ColumnWidths()
	if m.colCursor >= len(widths) {
		return
	}
	start := 0
	for _, w := range widths[:m.colCursor] {
		start += w + m.table.ColumnGap()
	}
	end := start + widths[m.colCursor]
	left, vw := m.table.ScrollLeft(), m.bodyWidth()
	switch {
	case start < left:
		m.table.SetBodyScroll(start, vw)
	case end > left+vw:
		m.table.SetBodyScroll(min(start, end-vw), vw)
	}
}

func (m *tableModel) zoomed(changed bool) tea.Cmd {
	if !changed {
		return nil
	}
	m.clampScroll()
	pct := int(m.table.Zoom().Level*100 + 0.5)
	return tea.Batch(m.recompute(), m.setToast(fmt.Sprintf("Zoom %d%%", pct)))
}

// recompute shows the spinner for recomputeDelay after a view change.
func (m *tableModel) recompute() tea.Cmd {
	m.recomputeSeq++
	seq := m.recomputeSeq
	cmds := []tea.Cmd{tea.Tick(recomputeDelay, func(time.Time) tea.Msg { return recomputeDoneMsg{seq: seq} })}
	if !m.recomputing {
		cmds = append(cmds, m.spinner.Tick)
	}
	m.recomputing = true
	return tea.Batch(cmds...)
}

// setToast sets a temporary status message that auto-clears.
func (m *tableModel) setToast(msg string) tea.Cmd {
	m.toastSeq++
	seq := m.toastSeq
	m.toast = msg
	return tea.Tick(toastDuration, func(time.Time) tea.Msg { return toastClearMsg{seq: seq} })
}

// ═══════════════════════════════════════════════════════════════════════════
// Clipboard (yank)
// ═══════════════════════════════════════════════════════════════════════════

// copyCell copies one cell. Failures are logged by the grid and only show
// as a missing confirmation.
func (m *tableModel) copyCell(idx int, col string) tea.Cmd {
	text, ok := m.table.CopyCell(idx, col)
	if !ok {
		return nil
	}
	return m.setToast("Copied: " + Truncate(text, 40))
}

// copyRow copies the visible cells of a row, tab-separated.
func (m *tableModel) copyRow(idx int) tea.Cmd {
	cols := m.table.VisibleColumns()
	cells := make([]string, 0, len(cols))
	for _, col := range cols {
		text, _ := m.table.CellText(idx, col)
		cells = append(cells, text)
	}
	if len(cells) == 0 || m.clipboard == nil {
		m.log.With("row", idx).Debug("row copy skipped")
		return nil
	}
	if err := m.clipboard.WriteAll(strings.Join(cells, "\t")); err != nil {
		m.log.With("row", idx).Error(err, "clipboard write failed")
		return nil
	}
	return m.setToast(fmt.Sprintf("Copied row (%d columns)", len(cells)))
}
