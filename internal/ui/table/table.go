// Package table renders a grid.Table. It supports an interactive TUI (filter
// prompt, column picker, mouse drag and zoom, virtualized scrolling), plain
// text tables, JSON output, and raw tab-separated output.
//
// This package is used by both `gridview view` and `gridview sql` to
// display rows.
package table

import (
	"io"
	"os"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/imgajeed76/gridview/internal/grid"
	"github.com/imgajeed76/gridview/internal/logger"
)

// ViewOptions controls how the interactive table looks and reacts.
type ViewOptions struct {
	Title string

	Striped         bool
	Hover           bool
	HorizontalLines bool
	VerticalLines   bool
	ControlBar      bool

	// PageSize caps the row window; the TUI shrinks it to the rows that
	// fit on screen.
	PageSize       int
	MaxColumnWidth int
	// WheelColumns is how far one horizontal wheel tick scrolls.
	WheelColumns int

	Logger *logger.Logger
}

// DefaultViewOptions returns the options used when no config is loaded.
func DefaultViewOptions() ViewOptions {
	return ViewOptions{
		Striped:        true,
		Hover:          true,
		VerticalLines:  true,
		ControlBar:     true,
		PageSize:       grid.DefaultPageSize,
		MaxColumnWidth: 40,
		WheelColumns:   4,
	}
}

// DisplayOptions controls how results are rendered.
type DisplayOptions struct {
	// JSON outputs results as a JSON array of objects.
	JSON bool
	// Raw outputs results as tab-separated values (for piping).
	Raw bool
	// NoPager forces plain table output even on a TTY.
	NoPager bool
}

// NewGrid builds a table over rows with measurers that match how this
// package draws cells: measured widths are capped at MaxColumnWidth, and in
// the virtual layout a row is as tall as its most wrapped cell.
func NewGrid(rows []grid.Row, opts grid.Options, view ViewOptions) *grid.Table {
	maxWidth := view.MaxColumnWidth
	if maxWidth <= 0 {
		maxWidth = 40
	}
	if opts.MeasureColumn == nil {
		opts.MeasureColumn = func(col grid.Column, rows []grid.Row, zoom grid.Zoom) int {
			return measureColumn(col, rows, zoom, maxWidth)
		}
	}

	var t *grid.Table
	if opts.MeasureRow == nil {
		rule := 0
		if view.HorizontalLines {
			rule = 1
		}
		opts.MeasureRow = func(row grid.ViewRow, _, _ int) int {
			return wrappedHeight(row.Row, t.View().Columns, t.ColumnWidths()) + rule
		}
	}
	if opts.PageSize <= 0 {
		opts.PageSize = view.PageSize
	}
	if opts.Logger == nil {
		opts.Logger = view.Logger
	}
	t = grid.New(rows, opts)
	return t
}

// DisplayResults picks the right output mode based on options and
// environment, then renders the table's current view.
func DisplayResults(t *grid.Table, view ViewOptions, opts DisplayOptions) error {
	return DisplayResultsTo(os.Stdout, t, view, opts)
}

// DisplayResultsTo is DisplayResults for an arbitrary writer. The
// interactive view only starts when w is a terminal.
func DisplayResultsTo(w io.Writer, t *grid.Table, view ViewOptions, opts DisplayOptions) error {
	isTTY := false
	if f, ok := w.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}
	return display(w, t, view, opts, isTTY)
}

func display(w io.Writer, t *grid.Table, view ViewOptions, opts DisplayOptions, isTTY bool) error {
	if opts.Raw {
		return PrintRaw(w, t)
	}
	if opts.JSON {
		return PrintJSON(w, t)
	}
	if !isTTY || opts.NoPager || t.Len() == 0 {
		return PrintPlainTable(w, t)
	}
	return RunTableTUI(t, view)
}

func measureColumn(col grid.Column, rows []grid.Row, zoom grid.Zoom, maxWidth int) int {
	if col.Width > 0 {
		return max(1, int(float64(col.Width)*zoom.Level+0.5))
	}
	w := runewidth.StringWidth(col.Label) + 2 // room for the sort arrow
	for _, r := range rows {
		if cw := runewidth.StringWidth(displayText(r.Get(col.Key))); cw > w {
			w = cw
		}
		if w >= maxWidth {
			w = maxWidth
			break
		}
	}
	return max(1, int(float64(w)*zoom.Level+0.5))
}

// wrappedHeight is the number of lines the row's tallest cell wraps to.
func wrappedHeight(row grid.Row, cols []grid.Column, widths []int) int {
	h := 1
	for i, c := range cols {
		if i >= len(widths) {
			break
		}
		if n := len(wrap(displayText(row.Get(c.Key)), widths[i])); n > h {
			h = n
		}
	}
	return h
}
