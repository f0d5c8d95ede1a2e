package grid

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/imgajeed76/gridview/internal/logger"
)

func numberedRows(n int) []Row {
	rows := make([]Row, n)
	for i := range rows {
		rows[i] = RowOf("id", i, "name", fmt.Sprintf("row %d", i), "even", i%2 == 0)
	}
	return rows
}

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

type fakeResize struct {
	subs      []func()
	cancelled int
}

func (r *fakeResize) Subscribe(fn func()) func() {
	r.subs = append(r.subs, fn)
	return func() { r.cancelled++ }
}

func TestTableDefaults(t *testing.T) {
	t.Parallel()

	tbl := New(numberedRows(100), Options{})
	require.Equal(t, 100, tbl.Len())
	require.Len(t, tbl.Page(), DefaultPageSize)
	require.Equal(t, []string{"id", "name", "even"}, tbl.VisibleColumns())
	require.InDelta(t, 0.15, tbl.Thumb().Fraction, 1e-9)
	require.Equal(t, LayoutFixed, tbl.LayoutMode())
}

func TestTableFilterResetsWindow(t *testing.T) {
	t.Parallel()

	var counts []int
	tbl := New(numberedRows(100), Options{OnCountChange: func(n int) { counts = append(counts, n) }})
	tbl.View()
	require.True(t, tbl.JumpTo(60))

	tbl.AddCondition(NewCondition("even", PredicateEquals, "true"))
	require.Equal(t, 0, tbl.Window().Start)
	require.Equal(t, 50, tbl.Len())
	require.Equal(t, []int{100, 50}, counts)

	// Reading the view again does not re-notify.
	tbl.View()
	require.Len(t, counts, 2)
}

func TestTableSortClampsWindow(t *testing.T) {
	t.Parallel()

	tbl := New(numberedRows(40), Options{PageSize: 10})
	tbl.JumpTo(25)
	tbl.ClickSort("id")
	tbl.ClickSort("id")
	require.Equal(t, 25, tbl.Window().Start)
	require.Equal(t, 14, tbl.Page()[0].Row.Get("id"))
}

func TestTableConditionLifecycle(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := logger.New(logger.Options{Level: "warn", Writer: buf})
	require.NoError(t, err)

	tbl := New(numberedRows(10), Options{Logger: log})
	id := tbl.AddCondition(Condition{Column: "id", Predicate: PredicateGreaterThan, Value: "many"})
	require.NotEmpty(t, id)
	require.Contains(t, buf.String(), "value is not a number")
	require.Equal(t, 0, tbl.Len())

	require.True(t, tbl.UpdateCondition(id, func(c *Condition) { c.Value = "6" }))
	require.Equal(t, 3, tbl.Len())
	require.Equal(t, id, tbl.State().Conditions[0].ID)

	require.True(t, tbl.RemoveCondition(id))
	require.False(t, tbl.RemoveCondition(id))
	require.Equal(t, 10, tbl.Len())

	require.NoError(t, tbl.ApplyFilter("id < 2 or id > 8"))
	require.Equal(t, 3, tbl.Len())
	require.Error(t, tbl.ApplyFilter("nope = 1"))
	require.Equal(t, 3, tbl.Len())

	tbl.ClearConditions()
	require.Equal(t, 10, tbl.Len())
}

func TestTableSetRowsKeepsOrResetsState(t *testing.T) {
	t.Parallel()

	var visible [][]string
	tbl := New(numberedRows(30), Options{OnColumnsChange: func(v []string) { visible = append(visible, v) }})
	tbl.ToggleColumn("name")
	tbl.SetSort(Sort{Column: "id", Direction: DirectionDesc})
	tbl.JumpTo(10)

	// Same key set: state survives, window clamps.
	tbl.SetRows(numberedRows(20))
	require.Equal(t, []string{"id", "even"}, tbl.VisibleColumns())
	require.Equal(t, DirectionDesc, tbl.State().Sort.Direction)
	require.Equal(t, 5, tbl.Window().Start)

	// Different key set: everything resets.
	tbl.SetRows([]Row{RowOf("x", 1), RowOf("y", 2)})
	require.Equal(t, []string{"x", "y"}, tbl.VisibleColumns())
	require.False(t, tbl.State().Sort.Active())
	require.Equal(t, 0, tbl.Window().Start)
	require.Equal(t, [][]string{{"id", "even"}, {"x", "y"}}, visible)
}

func TestTableHeaderDragReorders(t *testing.T) {
	t.Parallel()

	tbl := New(numberedRows(5), Options{})
	tbl.PointerDown(Pointer{Area: AreaHeader, Column: "id", X: 1})
	require.Equal(t, DragColumn, tbl.Drag().Kind)
	require.True(t, tbl.PointerMove(Pointer{Area: AreaHeader, Column: "even", X: 30}))
	require.Equal(t, "even", tbl.ColumnDrag().Target())

	tbl.PointerUp(Pointer{Area: AreaHeader, Column: "even", X: 30})
	require.Equal(t, []string{"name", "even", "id"}, tbl.VisibleColumns())
	require.False(t, tbl.Drag().Dragging())
	require.False(t, tbl.State().Sort.Active())
}

func TestTableHeaderClickSorts(t *testing.T) {
	t.Parallel()

	tbl := New(numberedRows(5), Options{})
	tbl.PointerDown(Pointer{Area: AreaHeader, Column: "id"})
	tbl.PointerUp(Pointer{Area: AreaHeader, Column: "id"})
	require.Equal(t, Sort{Column: "id", Direction: DirectionAsc}, tbl.State().Sort)
	require.Equal(t, []string{"id", "name", "even"}, tbl.VisibleColumns())
}

func TestTableScrollbarAndBodyDrag(t *testing.T) {
	t.Parallel()

	tbl := New(numberedRows(100), Options{DragThreshold: 1})
	tbl.PointerDown(Pointer{Area: AreaScrollbar, Y: 50, TrackTop: 0, TrackHeight: 100})
	require.Equal(t, 42, tbl.Window().Start)
	tbl.PointerMove(Pointer{Area: AreaScrollbar, Y: 100, TrackTop: 0, TrackHeight: 100})
	require.Equal(t, 85, tbl.Window().Start)
	tbl.PointerLeave()
	require.Equal(t, DragNone, tbl.Drag().Kind)

	tbl.JumpTo(83)
	tbl.PointerDown(Pointer{Area: AreaBody, Y: 10})
	require.False(t, tbl.PointerMove(Pointer{Area: AreaBody, Y: 9.5}))
	require.True(t, tbl.PointerMove(Pointer{Area: AreaBody, Y: 8.5}))
	require.Equal(t, 84, tbl.Window().Start)
	tbl.PointerUp(Pointer{Area: AreaBody})
	require.Equal(t, DragNone, tbl.Drag().Kind)
}

func TestTableWheelAndZoom(t *testing.T) {
	t.Parallel()

	tbl := New(numberedRows(50), Options{})
	before := tbl.ColumnWidths()
	require.True(t, tbl.Wheel(WheelEvent{DeltaY: 1}))
	require.Equal(t, 1, tbl.Window().Start)

	gen := tbl.Generation()
	require.True(t, tbl.Wheel(WheelEvent{DeltaY: -1, Ctrl: true}))
	require.Equal(t, 1.1, tbl.Zoom().Level)
	require.Greater(t, tbl.Generation(), gen)
	require.Equal(t, 1, tbl.Window().Start)

	for tbl.ZoomIn() {
	}
	after := tbl.ColumnWidths()
	require.Greater(t, after[1], before[1])

	require.True(t, tbl.ZoomReset())
	require.Equal(t, before, tbl.ColumnWidths())
}

func TestTableHorizontalSync(t *testing.T) {
	t.Parallel()

	tbl := New(numberedRows(5), Options{})
	width := tbl.ContentWidth()
	require.True(t, tbl.ScrollColumns(4, 5))
	require.Equal(t, 4, tbl.HeaderPane().ScrollLeft())

	require.True(t, tbl.SetHeaderScroll(1000, 5))
	require.Equal(t, width-5, tbl.BodyPane().ScrollLeft())
	writes := tbl.BodyPane().Writes()
	require.False(t, tbl.SetBodyScroll(width-5, 5))
	require.Equal(t, writes, tbl.BodyPane().Writes())
}

func TestTableBodyScrolled(t *testing.T) {
	t.Parallel()

	tbl := New(numberedRows(20), Options{PageSize: 10, EdgeThreshold: 2})
	res := tbl.BodyScrolled(EdgeInput{PrevTop: 0, Top: 9, ScrollHeight: 20, ClientHeight: 10})
	require.Equal(t, 1, res.Delta)
	require.Equal(t, 1, tbl.Window().Start)

	tbl.JumpTo(10)
	res = tbl.BodyScrolled(EdgeInput{PrevTop: 0, Top: 9, ScrollHeight: 20, ClientHeight: 10})
	require.Zero(t, res.Delta)
}

func TestTableCopyCell(t *testing.T) {
	t.Parallel()

	tbl := New(numberedRows(5), Options{})
	_, ok := tbl.CopyCell(0, "name")
	require.False(t, ok)

	clip := &fakeClipboard{}
	resize := &fakeResize{}
	release := tbl.Mount(Environment{Clipboard: clip, Resize: resize})

	text, ok := tbl.CopyCell(2, "name")
	require.True(t, ok)
	require.Equal(t, "row 2", text)
	require.Equal(t, "row 2", clip.text)

	_, ok = tbl.CopyCell(99, "name")
	require.False(t, ok)

	clip.err = errors.New("no display")
	_, ok = tbl.CopyCell(1, "name")
	require.False(t, ok)

	require.Len(t, resize.subs, 1)
	tbl.ColumnWidths()
	resize.subs[0]()

	release()
	release()
	require.Equal(t, 1, resize.cancelled)
	_, ok = tbl.CopyCell(2, "name")
	require.False(t, ok)
}

func TestTableVirtualFrame(t *testing.T) {
	t.Parallel()

	tbl := New(numberedRows(30), Options{
		Layout:     LayoutVirtual,
		PageSize:   5,
		MeasureRow: func(ViewRow, int, int) int { return 2 },
	})
	tbl.JumpTo(10)
	frame := tbl.Frame(6, 80)

	// Rows above the window are not measured yet and count as one line.
	// The visible rows and the trailing rows that bound the window are.
	require.Equal(t, 10, frame.Offset)
	require.Equal(t, 10, frame.Rows[0].Index)
	require.Equal(t, frame.Offset, frame.Rows[0].Top)
	require.Len(t, frame.Rows, 3)
	require.Equal(t, 10+3*2+14+3*2, frame.TotalHeight)

	thumb := tbl.FrameThumb(frame, 6)
	require.InDelta(t, 6.0/36.0, thumb.Fraction, 1e-9)
}

func TestTableVirtualReachesLastRow(t *testing.T) {
	t.Parallel()

	const n, viewport = 100, 20
	moves := map[string]func(*Table) bool{
		"shift":     func(tbl *Table) bool { return tbl.Shift(1) },
		"page down": func(tbl *Table) bool { return tbl.Navigate(NavPageDown, false) },
		"wheel":     func(tbl *Table) bool { return tbl.Wheel(WheelEvent{DeltaY: 1}) },
		"end":       func(tbl *Table) bool { return tbl.Navigate(NavEnd, false) },
	}
	for name, move := range moves {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			tbl := New(numberedRows(n), Options{
				Layout:     LayoutVirtual,
				PageSize:   20,
				MeasureRow: func(ViewRow, int, int) int { return 2 },
			})
			frame := tbl.Frame(viewport, 80)
			for steps := 0; move(tbl); steps++ {
				require.Less(t, steps, n, "window never stopped moving")
				frame = tbl.Frame(viewport, 80)
			}
			frame = tbl.Frame(viewport, 80)

			last := frame.Rows[len(frame.Rows)-1]
			require.Equal(t, n-1, last.Index, "last row never drawn")
			require.Equal(t, n-viewport/2, tbl.Window().Start)
			require.Equal(t, frame.TotalHeight-viewport, frame.Offset)
			require.LessOrEqual(t, last.Top+last.Height, frame.Offset+viewport)

			thumb := tbl.FrameThumb(frame, viewport)
			require.InDelta(t, 1.0, thumb.Position+thumb.Fraction, 1e-9)
			top, size := thumb.Cells(viewport)
			require.Equal(t, viewport, top+size)

			require.False(t, tbl.Navigate(NavEnd, false))
		})
	}
}

func TestTableVirtualEndBeforeFirstFrame(t *testing.T) {
	t.Parallel()

	tbl := New(numberedRows(50), Options{
		Layout:     LayoutVirtual,
		PageSize:   4,
		MeasureRow: func(ViewRow, int, int) int { return 3 },
	})
	// Without a frame the page size stands in for the viewport.
	require.True(t, tbl.Navigate(NavEnd, false))
	require.Equal(t, 49, tbl.Window().Start)

	frame := tbl.Frame(9, 80)
	require.Equal(t, 47, tbl.Window().Start)
	require.Equal(t, 49, frame.Rows[len(frame.Rows)-1].Index)
	require.Equal(t, frame.TotalHeight-9, frame.Offset)

	tbl.SetRows(numberedRows(10))
	require.Equal(t, 7, tbl.Window().Start)
}
