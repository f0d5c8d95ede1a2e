package grid

import "math"

// DefaultPageSize is the window size used when none is configured.
const DefaultPageSize = 15

// Window is the contiguous slice of the filtered rows that is materialized
// for rendering. Start never exceeds max(0, n-PageSize) for the current
// row count n; every mutator clamps. Layouts with variable row heights
// bound Start by height instead and use the *Within variants.
type Window struct {
	Start    int
	PageSize int
}

// NewWindow returns a window at the top of the data. Non-positive page
// sizes fall back to DefaultPageSize.
func NewWindow(pageSize int) Window {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return Window{PageSize: pageSize}
}

// MaxStart returns the last valid start index for n rows.
func (w Window) MaxStart(n int) int {
	return max(0, n-w.page())
}

// Slice returns the half-open row range [lo, hi) the window covers. Its
// length is min(PageSize, n-Start) and never exceeds PageSize.
func (w Window) Slice(n int) (lo, hi int) {
	if n <= 0 {
		return 0, 0
	}
	lo = min(max(0, w.Start), n)
	hi = min(lo+w.page(), n)
	return lo, hi
}

// Clamp pulls Start back into range after the row count changed.
func (w *Window) Clamp(n int) {
	w.ClampWithin(w.MaxStart(n))
}

// ClampWithin pulls Start into [0, last].
func (w *Window) ClampWithin(last int) {
	w.Start = clamp(w.Start, 0, max(0, last))
}

// Shift moves the window by delta rows and clamps. It reports whether Start
// changed.
func (w *Window) Shift(delta, n int) bool {
	return w.JumpWithin(w.Start+delta, w.MaxStart(n))
}

// JumpTo sets Start and clamps. It reports whether Start changed.
func (w *Window) JumpTo(start, n int) bool {
	return w.JumpWithin(start, w.MaxStart(n))
}

// JumpWithin sets Start, clamped to [0, last]. It reports whether Start
// changed.
func (w *Window) JumpWithin(start, last int) bool {
	next := clamp(start, 0, max(0, last))
	if next == w.Start {
		return false
	}
	w.Start = next
	return true
}

// Wheel moves one row per wheel tick in the direction of deltaY.
func (w *Window) Wheel(deltaY float64, n int) bool {
	return w.WheelWithin(deltaY, w.MaxStart(n))
}

// WheelWithin is Wheel with an explicit last start.
func (w *Window) WheelWithin(deltaY float64, last int) bool {
	switch {
	case deltaY > 0:
		return w.JumpWithin(w.Start+1, last)
	case deltaY < 0:
		return w.JumpWithin(w.Start-1, last)
	}
	return false
}

// NavKey is a keyboard navigation command.
type NavKey int

const (
	NavUp NavKey = iota
	NavDown
	NavPageUp
	NavPageDown
	NavHome
	NavEnd
)

// Navigate applies a keyboard command. Page keys move a full page, or half
// a page when half is set.
func (w *Window) Navigate(k NavKey, n int, half bool) bool {
	return w.NavigateWithin(k, w.MaxStart(n), half)
}

// NavigateWithin is Navigate with an explicit last start. End jumps to
// last.
func (w *Window) NavigateWithin(k NavKey, last int, half bool) bool {
	page := w.page()
	if half {
		page = max(1, page/2)
	}
	switch k {
	case NavUp:
		return w.JumpWithin(w.Start-1, last)
	case NavDown:
		return w.JumpWithin(w.Start+1, last)
	case NavPageUp:
		return w.JumpWithin(w.Start-page, last)
	case NavPageDown:
		return w.JumpWithin(w.Start+page, last)
	case NavHome:
		return w.JumpWithin(0, last)
	case NavEnd:
		return w.JumpWithin(last, last)
	}
	return false
}

func (w Window) page() int {
	if w.PageSize <= 0 {
		return DefaultPageSize
	}
	return w.PageSize
}

// EdgeInput describes one scroll event on the body container of the fixed
// window layout.
type EdgeInput struct {
	PrevTop      float64
	Top          float64
	ScrollHeight float64
	ClientHeight float64
	Threshold    float64
}

// EdgeResult tells the renderer how to react to an edge scroll.
type EdgeResult struct {
	// Delta is +1 to advance the window, -1 to retreat, 0 to leave it.
	Delta int
	// ResetTop is where the body scroll offset must be put back to when
	// Delta is non-zero, so the next event does not advance again.
	ResetTop float64
}

// EdgeAdvance advances the window by one row when the body is scrolled
// down to within Threshold of its bottom edge, and retreats it when
// scrolled up to within Threshold of the top. Scrolling toward the other
// edge, or not moving, does nothing.
func EdgeAdvance(in EdgeInput) EdgeResult {
	maxTop := math.Max(0, in.ScrollHeight-in.ClientHeight)
	scrollingDown := in.Top > in.PrevTop
	scrollingUp := in.Top < in.PrevTop
	atBottom := in.Top >= maxTop-in.Threshold
	atTop := in.Top <= in.Threshold

	var delta int
	switch {
	case scrollingDown && atBottom:
		delta = 1
	case scrollingUp && atTop:
		delta = -1
	default:
		return EdgeResult{}
	}
	return EdgeResult{Delta: delta, ResetTop: maxTop / 2}
}

// DragScroller turns vertical pointer drags on the body into one-row window
// shifts. Dragging down pulls earlier rows into view.
type DragScroller struct {
	Threshold float64
	acc       float64
}

// Move adds dy to the accumulated drag. Once its magnitude exceeds the
// threshold it returns the row delta and resets the accumulator; the
// renderer then recentres the body scroll offset so dragging can continue.
func (d *DragScroller) Move(dy float64) int {
	d.acc += dy
	threshold := d.Threshold
	if threshold <= 0 {
		threshold = 1
	}
	if math.Abs(d.acc) <= threshold {
		return 0
	}
	delta := -1
	if d.acc < 0 {
		delta = 1
	}
	d.acc = 0
	return delta
}

// Reset clears the accumulated drag.
func (d *DragScroller) Reset() {
	d.acc = 0
}

// Pending returns the accumulated, not yet applied, drag distance.
func (d *DragScroller) Pending() float64 {
	return d.acc
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
