package grid

// FrameRow is one row placed by a Layout.
type FrameRow struct {
	ViewRow
	// Index is the row's position in the filtered view.
	Index int
	// Top is the row's vertical offset from the top of the content, in
	// the layout's units.
	Top    int
	Height int
}

// Striped reports whether the row gets the alternate background.
func (r FrameRow) Striped() bool {
	return Striped(r.Index)
}

// Striped reports whether view index i gets the alternate background.
func Striped(i int) bool {
	return i%2 == 1
}

// Frame is what a renderer draws: the placed rows plus the total content
// height the scrollbar is proportioned against.
type Frame struct {
	Rows        []FrameRow
	TotalHeight int
	// Offset is the vertical scroll offset the rows were placed for.
	Offset int
}

// LayoutRequest carries the window and viewport a layout works against.
type LayoutRequest struct {
	Window Window
	// Offset and Viewport are the vertical scroll position and the height
	// of the visible area, used by the virtual layout.
	Offset   int
	Viewport int
	// Width is the content width rows are measured at.
	Width int
}

// Layout places rows for rendering.
type Layout interface {
	Layout(rows []ViewRow, req LayoutRequest) Frame
}

// FixedLayout renders exactly the rows in the current window, each
// RowHeight tall.
type FixedLayout struct {
	RowHeight int
}

// Layout implements Layout.
func (l FixedLayout) Layout(rows []ViewRow, req LayoutRequest) Frame {
	h := max(1, l.RowHeight)
	lo, hi := req.Window.Slice(len(rows))

	frame := Frame{
		Rows:        make([]FrameRow, 0, hi-lo),
		TotalHeight: len(rows) * h,
		Offset:      lo * h,
	}
	for i := lo; i < hi; i++ {
		frame.Rows = append(frame.Rows, FrameRow{
			ViewRow: rows[i],
			Index:   i,
			Top:     (i - lo) * h,
			Height:  h,
		})
	}
	return frame
}

// Measurer returns the rendered height of a row at the given width.
type Measurer func(row ViewRow, index, width int) int

// HeightCache remembers measured row heights by view index. Unmeasured
// rows count as the estimate.
type HeightCache struct {
	Estimate int
	heights  map[int]int
	width    int
}

// NewHeightCache returns an empty cache. Non-positive estimates become 1.
func NewHeightCache(estimate int) *HeightCache {
	return &HeightCache{Estimate: max(1, estimate), heights: make(map[int]int)}
}

// Height returns the measured height of row i, or the estimate.
func (c *HeightCache) Height(i int) int {
	if h, ok := c.heights[i]; ok {
		return h
	}
	return max(1, c.Estimate)
}

// Measured reports whether row i has a real measurement.
func (c *HeightCache) Measured(i int) bool {
	_, ok := c.heights[i]
	return ok
}

// Set stores a measurement. It reports whether the height changed.
func (c *HeightCache) Set(i, h int) bool {
	h = max(1, h)
	old, ok := c.heights[i]
	c.heights[i] = h
	return !ok || old != h
}

// Invalidate drops every measurement, for example after the content, the
// zoom level or the width changed.
func (c *HeightCache) Invalidate() {
	c.heights = make(map[int]int)
}

// Len returns how many rows have been measured.
func (c *HeightCache) Len() int {
	return len(c.heights)
}

// Total returns the summed height of n rows.
func (c *HeightCache) Total(n int) int {
	total := 0
	for i := 0; i < n; i++ {
		total += c.Height(i)
	}
	return total
}

// Top returns the vertical offset of row i: the summed height of every row
// before it.
func (c *HeightCache) Top(i int) int {
	top := 0
	for j := 0; j < i; j++ {
		top += c.Height(j)
	}
	return top
}

// IndexAt returns the row that covers vertical offset y among n rows.
func (c *HeightCache) IndexAt(y, n int) int {
	if n <= 0 {
		return 0
	}
	pos := 0
	for i := 0; i < n; i++ {
		pos += c.Height(i)
		if pos > y {
			return i
		}
	}
	return n - 1
}

// VirtualLayout renders only the rows whose measured extent intersects the
// viewport. Rows are positioned at the cumulative height of the rows before
// them, so heights may vary from row to row.
type VirtualLayout struct {
	Cache   *HeightCache
	Measure Measurer
	// Overscan rows are placed above and below the viewport.
	Overscan int
}

// NewVirtualLayout returns a layout measuring rows with measure.
func NewVirtualLayout(estimate int, measure Measurer) *VirtualLayout {
	return &VirtualLayout{Cache: NewHeightCache(estimate), Measure: measure}
}

// Layout implements Layout.
func (l *VirtualLayout) Layout(rows []ViewRow, req LayoutRequest) Frame {
	if l.Cache == nil {
		l.Cache = NewHeightCache(1)
	}
	if req.Width != l.Cache.width {
		l.Cache.Invalidate()
		l.Cache.width = req.Width
	}

	n := len(rows)
	viewport := max(1, req.Viewport)
	offset := l.ClampOffset(req.Offset, viewport, n)

	// Measure the rows that land in the viewport under the current
	// estimates, repeating while measurements move the boundary.
	first := l.Cache.IndexAt(offset, n)
	for pass := 0; pass < 3 && n > 0; pass++ {
		changed := false
		for i, y := first, l.Cache.Top(first); i < n && y < offset+viewport; i++ {
			if l.measure(rows[i], i, req.Width) {
				changed = true
			}
			y += l.Cache.Height(i)
		}
		offset = l.ClampOffset(req.Offset, viewport, n)
		first = l.Cache.IndexAt(offset, n)
		if !changed {
			break
		}
	}

	frame := Frame{TotalHeight: l.Cache.Total(n), Offset: offset}
	if n == 0 {
		return frame
	}

	lo := max(0, first-l.Overscan)
	top := l.Cache.Top(lo)
	below := 0
	for i := lo; i < n; i++ {
		if top >= offset+viewport {
			if below >= l.Overscan {
				break
			}
			below++
		}
		l.measure(rows[i], i, req.Width)
		h := l.Cache.Height(i)
		frame.Rows = append(frame.Rows, FrameRow{
			ViewRow: rows[i],
			Index:   i,
			Top:     top,
			Height:  h,
		})
		top += h
	}
	frame.TotalHeight = l.Cache.Total(n)
	return frame
}

// ClampOffset keeps offset within [0, total-viewport].
func (l *VirtualLayout) ClampOffset(offset, viewport, n int) int {
	return clamp(offset, 0, max(0, l.Cache.Total(n)-viewport))
}

// OffsetOf returns the vertical offset at which row i starts.
func (l *VirtualLayout) OffsetOf(i int) int {
	return l.Cache.Top(i)
}

func (l *VirtualLayout) measure(row ViewRow, i, width int) bool {
	if l.Measure == nil || l.Cache.Measured(i) {
		return false
	}
	return l.Cache.Set(i, l.Measure(row, i, width))
}

// Separators returns the x position of the vertical line after each column,
// given the measured column widths and the gap between columns. Lines sit
// in the first cell of each gap.
func Separators(widths []int, gap int) []int {
	out := make([]int, len(widths))
	x := 0
	for i, w := range widths {
		x += max(0, w)
		out[i] = x
		x += max(0, gap)
	}
	return out
}

// ColumnAt returns the index of the column under x, given widths and gap,
// or -1 when x falls outside every column. A point in a gap belongs to the
// column on its left.
func ColumnAt(x int, widths []int, gap int) int {
	if x < 0 {
		return -1
	}
	pos := 0
	for i, w := range widths {
		end := pos + max(0, w) + max(0, gap)
		if x < end {
			return i
		}
		pos = end
	}
	return -1
}
