package grid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeThumb(t *testing.T) {
	t.Parallel()

	top := ComputeThumb(0, 15, 100, DefaultMinThumb)
	require.InDelta(t, 0.15, top.Fraction, 1e-9)
	require.Zero(t, top.Position)

	bottom := ComputeThumb(85, 15, 100, DefaultMinThumb)
	require.InDelta(t, 0.85, bottom.Position, 1e-9)

	tiny := ComputeThumb(0, 15, 10000, DefaultMinThumb)
	require.InDelta(t, 0.10, tiny.Fraction, 1e-9)

	all := ComputeThumb(0, 15, 10, DefaultMinThumb)
	require.Equal(t, 1.0, all.Fraction)
	require.Zero(t, all.Position)

	size, pos := ComputeThumb(0, 15, 100, 0).Percent()
	require.InDelta(t, 15.0, size, 1e-9)
	require.Zero(t, pos)
}

func TestThumbCells(t *testing.T) {
	t.Parallel()

	top, size := Thumb{Fraction: 0.15, Position: 0.85}.Cells(20)
	require.Equal(t, 3, size)
	require.Equal(t, 17, top)

	top, size = Thumb{Fraction: 0.01, Position: 0.99}.Cells(10)
	require.Equal(t, 1, size)
	require.Equal(t, 9, top)
}

func TestTrackToStart(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0, TrackToStart(-5, 0, 100, 15, 100))
	require.Equal(t, 42, TrackToStart(50, 0, 100, 15, 100))
	require.Equal(t, 85, TrackToStart(500, 0, 100, 15, 100))
	require.Equal(t, 0, TrackToStart(50, 0, 0, 15, 100))
}

func TestSyncHorizontalWritesOnlyOnChange(t *testing.T) {
	t.Parallel()

	var header, body ScrollPane
	body.SetScrollLeft(30)
	require.True(t, SyncHorizontal(&body, &header))
	require.Equal(t, 30, header.ScrollLeft())

	// The echo from the header back to the body must not write.
	require.False(t, SyncHorizontal(&header, &body))
	require.Equal(t, 1, body.Writes())
	require.Equal(t, 1, header.Writes())
}

func TestZoomBounds(t *testing.T) {
	t.Parallel()

	z := DefaultZoom()
	for i := 0; i < 20; i++ {
		z.In()
	}
	require.Equal(t, 2.0, z.Level)
	require.False(t, z.In())

	for i := 0; i < 30; i++ {
		z.Out()
	}
	require.Equal(t, 0.5, z.Level)

	require.True(t, z.Reset())
	require.Equal(t, 1.0, z.Level)

	z.In()
	require.Equal(t, 1.1, z.Level)
	m := z.Scale(Metrics{FontSize: 10, PaddingX: 4, PaddingY: 2})
	require.InDelta(t, 11, m.FontSize, 1e-9)
	require.InDelta(t, 4.4, m.PaddingX, 1e-9)
}

func TestZoomNormalized(t *testing.T) {
	t.Parallel()

	z := Zoom{Level: 5, Min: 3, Max: 1}.Normalized()
	require.Equal(t, 1.0, z.Min)
	require.Equal(t, 3.0, z.Max)
	require.Equal(t, 3.0, z.Level)
	require.Equal(t, 0.1, z.Step)

	require.Equal(t, DefaultZoom(), Zoom{}.Normalized())
}

func TestClassifyWheel(t *testing.T) {
	t.Parallel()

	require.Equal(t, GestureZoomIn, ClassifyWheel(WheelEvent{DeltaY: -1, Ctrl: true}))
	require.Equal(t, GestureZoomOut, ClassifyWheel(WheelEvent{DeltaY: 1, Ctrl: true}))
	require.Equal(t, GestureScrollColumns, ClassifyWheel(WheelEvent{DeltaY: 1, Shift: true}))
	require.Equal(t, GestureScrollColumns, ClassifyWheel(WheelEvent{DeltaX: 1}))
	require.Equal(t, GestureScrollRows, ClassifyWheel(WheelEvent{DeltaY: 1}))
	require.Equal(t, GestureNone, ClassifyWheel(WheelEvent{}))
}
