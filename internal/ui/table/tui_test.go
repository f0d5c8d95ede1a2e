package table

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/imgajeed76/gridview/internal/grid"
)

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

func peopleRows(n int) []grid.Row {
	rows := make([]grid.Row, n)
	for i := range rows {
		rows[i] = grid.RowOf("id", i, "name", fmt.Sprintf("name-%d", i))
	}
	return rows
}

func newTestModel(t *testing.T, rows []grid.Row, gopts grid.Options, view ViewOptions) (tableModel, *fakeClipboard) {
	t.Helper()
	view.Title = "people"
	clip := &fakeClipboard{}
	m := newTableModel(NewGrid(rows, gopts, view), view, clip)
	t.Cleanup(m.release)
	return update(m, tea.WindowSizeMsg{Width: 80, Height: 20}), clip
}

func update(m tableModel, msg tea.Msg) tableModel {
	next, _ := m.Update(msg)
	return next.(tableModel)
}

func press(m tableModel, keys ...string) tableModel {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m = update(m, msg)
	}
	return m
}

func mouse(m tableModel, action tea.MouseAction, button tea.MouseButton, x, y int) tableModel {
	return update(m, tea.MouseMsg{X: x, Y: y, Action: action, Button: button})
}

func click(m tableModel, x, y int) tableModel {
	m = mouse(m, tea.MouseActionPress, tea.MouseButtonLeft, x, y)
	return mouse(m, tea.MouseActionRelease, tea.MouseButtonNone, x, y)
}

func TestResizeFitsPageAndMounts(t *testing.T) {
	t.Parallel()

	view := DefaultViewOptions()
	view.PageSize = 50
	m, _ := newTestModel(t, peopleRows(30), grid.Options{}, view)

	// 20 lines minus title, control bar, header, rule and footer.
	require.Equal(t, 15, m.bodyHeight())
	require.Equal(t, 15, m.table.Window().PageSize)
	require.Equal(t, 1, m.resize.Len())

	m = update(m, remeasureMsg{seq: m.resizeSeq})
	require.Len(t, m.table.ColumnWidths(), 2)

	m.release()
	require.Equal(t, 0, m.resize.Len())
}

func TestPageSizeCapsWindow(t *testing.T) {
	t.Parallel()

	view := DefaultViewOptions()
	view.PageSize = 10
	m, _ := newTestModel(t, peopleRows(30), grid.Options{}, view)
	require.Equal(t, 10, m.table.Window().PageSize)
	require.Len(t, m.table.Page(), 10)
}

func TestSortKeyCyclesAndShowsSpinner(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, peopleRows(30), grid.Options{}, DefaultViewOptions())

	m = press(m, "s")
	require.Equal(t, grid.Sort{Column: "id", Direction: grid.DirectionAsc}, m.table.State().Sort)
	require.True(t, m.recomputing)

	m = press(m, "s")
	require.Equal(t, grid.DirectionDesc, m.table.State().Sort.Direction)
	text, ok := m.table.CellText(0, "id")
	require.True(t, ok)
	require.Equal(t, "29", text)

	stale := update(m, recomputeDoneMsg{seq: m.recomputeSeq - 1})
	require.True(t, stale.recomputing)
	m = update(m, recomputeDoneMsg{seq: m.recomputeSeq})
	require.False(t, m.recomputing)
}

func TestCursorAdvancesWindowAtEdge(t *testing.T) {
	t.Parallel()

	view := DefaultViewOptions()
	view.PageSize = 10
	m, _ := newTestModel(t, peopleRows(30), grid.Options{EdgeThreshold: 1}, view)

	for range 7 {
		m = press(m, "down")
	}
	require.Equal(t, 7, m.cursor)
	require.Equal(t, 0, m.table.Window().Start)

	m = press(m, "down")
	require.Equal(t, 8, m.cursor)
	require.Equal(t, 1, m.table.Window().Start)

	m = press(m, "G")
	require.Equal(t, 29, m.cursor)
	require.Equal(t, 20, m.table.Window().Start)

	m = press(m, "g")
	require.Equal(t, 0, m.cursor)
	require.Equal(t, 0, m.table.Window().Start)
}

func TestFilterPrompt(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, peopleRows(30), grid.Options{}, DefaultViewOptions())

	m = press(m, "/")
	require.Equal(t, tableModeFilter, m.mode)

	m.filterInput.SetValue("nope > 1")
	m = press(m, "enter")
	require.Equal(t, tableModeFilter, m.mode)
	require.Contains(t, m.filterErr, "unknown column")
	require.Equal(t, 30, m.table.Len())

	m.filterInput.SetValue("id > 24")
	m = press(m, "enter")
	require.Equal(t, tableModeNormal, m.mode)
	require.Equal(t, 5, m.table.Len())
	require.Equal(t, "5 rows match", m.toast)

	// Reopening the prompt shows the applied filter.
	m = press(m, "/")
	require.Equal(t, "id greater_than 24", m.filterInput.Value())
	m = press(m, "esc")
	require.Equal(t, tableModeNormal, m.mode)

	m = press(m, "x")
	require.Equal(t, 30, m.table.Len())
}

func TestHeaderClickSortsAndDragReorders(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, peopleRows(30), grid.Options{}, DefaultViewOptions())
	header := m.headerY()

	m = click(m, 0, header)
	require.Equal(t, grid.Sort{Column: "id", Direction: grid.DirectionAsc}, m.table.State().Sort)

	// id is 4 cells wide plus a 2 cell gap, so name starts at x=6.
	m = mouse(m, tea.MouseActionPress, tea.MouseButtonLeft, 0, header)
	m = mouse(m, tea.MouseActionMotion, tea.MouseButtonLeft, 7, header)
	require.Equal(t, "name", m.table.ColumnDrag().Target())
	m = mouse(m, tea.MouseActionRelease, tea.MouseButtonNone, 7, header)

	require.Equal(t, []string{"name", "id"}, m.table.VisibleColumns())
	require.False(t, m.table.Drag().Dragging())
	require.Equal(t, grid.DirectionAsc, m.table.State().Sort.Direction)
}

func TestWheelScrollsAndZooms(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, peopleRows(30), grid.Options{}, DefaultViewOptions())

	m = mouse(m, tea.MouseActionPress, tea.MouseButtonWheelDown, 5, 6)
	require.Equal(t, 1, m.table.Window().Start)

	m = update(m, tea.MouseMsg{X: 5, Y: 6, Ctrl: true, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	require.InDelta(t, 1.1, m.table.Zoom().Level, 1e-9)
	require.Equal(t, "Zoom 110%", m.toast)

	m = press(m, "0")
	require.InDelta(t, 1.0, m.table.Zoom().Level, 1e-9)
}

func TestScrollbarDragJumps(t *testing.T) {
	t.Parallel()

	view := DefaultViewOptions()
	view.PageSize = 10
	m, _ := newTestModel(t, peopleRows(30), grid.Options{}, view)

	bottom := m.bodyTop() + m.bodyHeight() - 1
	m = mouse(m, tea.MouseActionPress, tea.MouseButtonLeft, m.width-1, bottom)
	require.Equal(t, grid.DragScrollbar, m.table.Drag().Kind)
	require.Equal(t, 20, m.table.Window().Start)

	m = mouse(m, tea.MouseActionMotion, tea.MouseButtonLeft, m.width-1, m.bodyTop())
	require.Equal(t, 0, m.table.Window().Start)

	m = mouse(m, tea.MouseActionRelease, tea.MouseButtonNone, m.width-1, m.bodyTop())
	require.False(t, m.table.Drag().Dragging())
}

func TestDoubleClickCopiesCell(t *testing.T) {
	t.Parallel()

	m, clip := newTestModel(t, peopleRows(30), grid.Options{}, DefaultViewOptions())
	row := m.bodyTop() + 2

	m = click(m, 7, row)
	require.Equal(t, 2, m.cursor)
	require.Empty(t, clip.text)

	m = click(m, 7, row)
	require.Equal(t, "name-2", clip.text)
	require.Equal(t, "Copied: name-2", m.toast)
}

func TestYankRowAndClipboardFailure(t *testing.T) {
	t.Parallel()

	m, clip := newTestModel(t, peopleRows(3), grid.Options{}, DefaultViewOptions())

	m = press(m, "Y")
	require.Equal(t, "0\tname-0", clip.text)

	require.Equal(t, "Copied row (2 columns)", m.toast)
	m = update(m, toastClearMsg{seq: m.toastSeq})
	require.Empty(t, m.toast)

	// Clipboard failures are logged only; no confirmation appears.
	clip.err = errors.New("no display")
	m = press(m, "y")
	require.Empty(t, m.toast)

	m = press(m, "Y")
	require.Empty(t, m.toast)
	require.Equal(t, "0\tname-0", clip.text)
}

func TestColumnPicker(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, peopleRows(5), grid.Options{}, DefaultViewOptions())

	m = press(m, "c")
	require.Equal(t, tableModeColumns, m.mode)

	m = press(m, " ")
	require.Equal(t, []string{"name"}, m.table.VisibleColumns())

	m = press(m, "J")
	require.Equal(t, []string{"name", "id"}, m.table.State().Columns.Order)
	require.Equal(t, 1, m.pickCursor)

	m = press(m, " ")
	require.Equal(t, []string{"name", "id"}, m.table.VisibleColumns())

	m = press(m, "esc")
	require.Equal(t, tableModeNormal, m.mode)
}

func TestKeyboardColumnMoves(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, peopleRows(5), grid.Options{}, DefaultViewOptions())

	m = press(m, ">")
	require.Equal(t, []string{"name", "id"}, m.table.VisibleColumns())
	require.Equal(t, 1, m.colCursor)

	m = press(m, "H")
	require.Equal(t, []string{"name"}, m.table.VisibleColumns())
	require.Equal(t, 0, m.colCursor)
}

func TestViewFillsScreen(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, peopleRows(30), grid.Options{}, DefaultViewOptions())
	out := m.View()

	require.Contains(t, out, "people: 30 rows")
	require.Contains(t, out, "name-0")
	require.Len(t, strings.Split(out, "\n"), 20)
}

func TestVirtualLayoutWrapsRows(t *testing.T) {
	t.Parallel()

	view := DefaultViewOptions()
	view.MaxColumnWidth = 10
	rows := []grid.Row{
		grid.RowOf("text", "aaaa bbbb cccc"),
		grid.RowOf("text", "short"),
	}
	m, _ := newTestModel(t, rows, grid.Options{Layout: grid.LayoutVirtual}, view)

	placed := m.placeRows(m.frame())
	require.Len(t, placed, 2)
	require.Equal(t, 2, placed[0].height)
	require.Equal(t, 2, placed[1].y)

	out := m.View()
	require.Contains(t, out, "cccc")
	require.Len(t, strings.Split(out, "\n"), 20)
}

func TestVirtualLayoutCursorReachesLastRow(t *testing.T) {
	t.Parallel()

	gopts := grid.Options{
		Layout:     grid.LayoutVirtual,
		MeasureRow: func(grid.ViewRow, int, int) int { return 2 },
	}
	m, _ := newTestModel(t, peopleRows(40), gopts, DefaultViewOptions())

	inFrame := func(m tableModel, idx int) bool {
		for _, r := range m.frame().Rows {
			if r.Index == idx {
				return true
			}
		}
		return false
	}

	m = press(m, "G")
	require.Equal(t, 39, m.cursor)
	require.True(t, inFrame(m, 39), "last row never drawn")
	lo, hi := m.visibleRows()
	require.Less(t, m.cursor, hi)
	require.GreaterOrEqual(t, m.cursor, lo)

	m = press(m, "g")
	require.Equal(t, 0, m.cursor)
	for range 60 {
		m = press(m, "down")
		require.True(t, inFrame(m, m.cursor), "cursor row %d off screen", m.cursor)
	}
	require.Equal(t, 39, m.cursor)
}
