package grid

import "math"

// ScrollTarget is anything with a horizontal scroll offset, such as the
// header or body pane of a renderer.
type ScrollTarget interface {
	ScrollLeft() int
	SetScrollLeft(x int)
}

// ScrollPane is a plain ScrollTarget with a write counter, used by renderers
// that keep pane offsets in memory.
type ScrollPane struct {
	x      int
	writes int
}

// ScrollLeft implements ScrollTarget.
func (p *ScrollPane) ScrollLeft() int { return p.x }

// SetScrollLeft implements ScrollTarget.
func (p *ScrollPane) SetScrollLeft(x int) {
	p.x = x
	p.writes++
}

// Writes returns how many times the offset has been set.
func (p *ScrollPane) Writes() int { return p.writes }

// SyncHorizontal mirrors from's offset onto to. It only writes when the two
// differ, so calling it from both panes' scroll handlers cannot loop. It
// reports whether a write happened.
func SyncHorizontal(from, to ScrollTarget) bool {
	x := from.ScrollLeft()
	if to.ScrollLeft() == x {
		return false
	}
	to.SetScrollLeft(x)
	return true
}

// DefaultMinThumb is the smallest thumb, as a fraction of the track.
const DefaultMinThumb = 0.10

// Thumb is the custom scrollbar's thumb geometry as fractions of the track.
type Thumb struct {
	// Fraction is the thumb length over the track length.
	Fraction float64
	// Position is the thumb's top offset over the track length.
	Position float64
}

// ComputeThumb sizes the thumb as min(1, page/n), raised to minFraction,
// and places it at start/max(1, n-page) of the free track.
func ComputeThumb(start, page, n int, minFraction float64) Thumb {
	if minFraction <= 0 {
		minFraction = DefaultMinThumb
	}
	frac := 1.0
	if n > 0 && page > 0 {
		frac = math.Min(1, float64(page)/float64(n))
	}
	frac = math.Min(1, math.Max(frac, minFraction))

	span := max(1, n-page)
	pos := float64(start) / float64(span) * (1 - frac)
	pos = math.Max(0, math.Min(pos, 1-frac))
	return Thumb{Fraction: frac, Position: pos}
}

// Percent returns the thumb length and top as percentages of the track.
func (t Thumb) Percent() (size, top float64) {
	return t.Fraction * 100, t.Position * 100
}

// Cells maps the thumb onto a track of height cells. The thumb is at least
// one cell and stays inside the track.
func (t Thumb) Cells(height int) (top, size int) {
	if height <= 0 {
		return 0, 0
	}
	size = max(1, int(math.Round(t.Fraction*float64(height))))
	size = min(size, height)
	top = int(math.Round(t.Position * float64(height)))
	top = clamp(top, 0, height-size)
	return top, size
}

// TrackToStart maps a pointer position on the scrollbar track straight to a
// window start: floor(fraction * max(0, n-page)), with the fraction clamped
// to [0, 1].
func TrackToStart(pointerY, trackTop, trackHeight float64, page, n int) int {
	if trackHeight <= 0 {
		return 0
	}
	frac := (pointerY - trackTop) / trackHeight
	frac = math.Max(0, math.Min(1, frac))
	return int(math.Floor(frac * float64(max(0, n-page))))
}

// Zoom is a scale factor applied to font size and padding.
type Zoom struct {
	Level float64
	Min   float64
	Max   float64
	Step  float64
}

// DefaultZoom returns 100% zoom adjustable between 50% and 200% in 10%
// steps.
func DefaultZoom() Zoom {
	return Zoom{Level: 1, Min: 0.5, Max: 2, Step: 0.1}
}

// Normalized returns z with Min ≤ Max, a positive step and Level clamped.
func (z Zoom) Normalized() Zoom {
	d := DefaultZoom()
	if z.Min <= 0 {
		z.Min = d.Min
	}
	if z.Max <= 0 {
		z.Max = d.Max
	}
	if z.Min > z.Max {
		z.Min, z.Max = z.Max, z.Min
	}
	if z.Step <= 0 {
		z.Step = d.Step
	}
	if z.Level == 0 {
		z.Level = 1
	}
	z.Level = z.clampLevel(z.Level)
	return z
}

// In zooms in by one step. It reports whether the level changed.
func (z *Zoom) In() bool { return z.set(z.Level + z.Step) }

// Out zooms out by one step. It reports whether the level changed.
func (z *Zoom) Out() bool { return z.set(z.Level - z.Step) }

// Reset returns to 100%, clamped to the allowed range.
func (z *Zoom) Reset() bool { return z.set(1) }

func (z *Zoom) set(level float64) bool {
	// Round away float drift from repeated steps.
	level = math.Round(level*1000) / 1000
	next := z.clampLevel(level)
	if next == z.Level {
		return false
	}
	z.Level = next
	return true
}

func (z Zoom) clampLevel(level float64) float64 {
	return math.Max(z.Min, math.Min(z.Max, level))
}

// Metrics are the typography and spacing values zoom scales.
type Metrics struct {
	FontSize float64
	PaddingX float64
	PaddingY float64
}

// Scale multiplies m by the zoom level.
func (z Zoom) Scale(m Metrics) Metrics {
	return Metrics{
		FontSize: m.FontSize * z.Level,
		PaddingX: m.PaddingX * z.Level,
		PaddingY: m.PaddingY * z.Level,
	}
}

// WheelEvent is a pointer wheel event.
type WheelEvent struct {
	DeltaX float64
	DeltaY float64
	Ctrl   bool
	Shift  bool
}

// Gesture is what a wheel event means to the table.
type Gesture int

const (
	GestureNone Gesture = iota
	GestureScrollRows
	GestureScrollColumns
	GestureZoomIn
	GestureZoomOut
)

// ClassifyWheel reinterprets Ctrl+wheel as zoom (wheel up zooms in) and
// Shift+wheel, or a purely horizontal delta, as column scrolling.
func ClassifyWheel(ev WheelEvent) Gesture {
	switch {
	case ev.Ctrl && ev.DeltaY < 0:
		return GestureZoomIn
	case ev.Ctrl && ev.DeltaY > 0:
		return GestureZoomOut
	case ev.Ctrl:
		return GestureNone
	case ev.Shift && ev.DeltaY != 0, ev.DeltaY == 0 && ev.DeltaX != 0:
		return GestureScrollColumns
	case ev.DeltaY != 0:
		return GestureScrollRows
	}
	return GestureNone
}
