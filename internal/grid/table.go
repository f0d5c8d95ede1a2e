package grid

import (
	"slices"

	"github.com/mattn/go-runewidth"

	"github.com/imgajeed76/gridview/internal/logger"
)

// LayoutMode selects the render surface strategy.
type LayoutMode string

const (
	LayoutFixed   LayoutMode = "fixed"
	LayoutVirtual LayoutMode = "virtual"
)

// Options configure a Table. Zero values pick the defaults.
type Options struct {
	// Columns, when set, replace column inference from the rows.
	Columns  []Column
	PageSize int
	Layout   LayoutMode

	Zoom          Zoom
	MinThumb      float64
	EdgeThreshold float64
	DragThreshold float64
	// ColumnGap is the spacing between columns, in cells.
	ColumnGap int

	// MeasureColumn returns the display width of a column over the rows.
	// The default measures labels and normalized values with runewidth.
	MeasureColumn func(col Column, rows []Row, zoom Zoom) int
	// MeasureRow returns a row's rendered height for the virtual layout.
	MeasureRow Measurer

	// OnColumnsChange receives the visible keys in display order whenever
	// visibility or order changes.
	OnColumnsChange func(visible []string)
	// OnCountChange receives the filtered row count whenever it changes.
	OnCountChange func(n int)

	Logger *logger.Logger
}

// Clipboard is the clipboard-write capability the table needs for cell
// copy.
type Clipboard interface {
	WriteAll(text string) error
}

// ResizeSource notifies subscribers when the display area changes size.
type ResizeSource interface {
	Subscribe(fn func()) (cancel func())
}

// Environment is what a renderer lends the table while it is mounted.
type Environment struct {
	Clipboard Clipboard
	Resize    ResizeSource
}

// Table owns all per-instance grid state: filters, sort, column order and
// visibility, the row window, zoom, drags and layout measurements. All
// methods must be called from the one goroutine that handles input.
type Table struct {
	opts   Options
	log    *logger.Logger
	engine *Engine

	rows []Row
	cols []Column

	state  FilterState
	window Window
	zoom   Zoom

	drag       DragMode
	colDrag    ColumnDrag
	dragScroll DragScroller
	lastY      float64

	header ScrollPane
	body   ScrollPane

	layout      Layout
	virtual     *VirtualLayout
	layoutGen   int
	viewport    int
	frameWidth  int
	widths      []int
	widthsStale bool

	gen       int
	cached    Result
	cachedGen int
	lastCount int

	clipboard Clipboard
	releases  []func()
}

// New creates a table over rows with default state: all columns visible,
// no conditions, unsorted, window at the top.
func New(rows []Row, opts Options) *Table {
	if opts.ColumnGap <= 0 {
		opts.ColumnGap = 2
	}
	if opts.MinThumb <= 0 {
		opts.MinThumb = DefaultMinThumb
	}
	if opts.Layout == "" {
		opts.Layout = LayoutFixed
	}
	if opts.MeasureColumn == nil {
		opts.MeasureColumn = MeasureText
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	t := &Table{
		opts:      opts,
		log:       log.With("component", "grid"),
		engine:    NewEngine(),
		window:    NewWindow(opts.PageSize),
		zoom:      opts.Zoom.Normalized(),
		cachedGen: -1,
		lastCount: -1,
	}
	t.dragScroll.Threshold = opts.DragThreshold

	if opts.Layout == LayoutVirtual {
		t.virtual = NewVirtualLayout(1, opts.MeasureRow)
		t.layout = t.virtual
	} else {
		t.layout = FixedLayout{RowHeight: 1}
	}

	t.rows = rows
	t.cols = ResolveColumns(opts.Columns, rows)
	t.state = NewFilterState(t.cols)
	t.widthsStale = true
	return t
}

// SetRows replaces the data. When the resolved column set differs from the
// current one, filters, order, visibility, sort and window reset to their
// defaults; otherwise they are kept and the window is clamped.
func (t *Table) SetRows(rows []Row) {
	cols := ResolveColumns(t.opts.Columns, rows)
	t.rows = rows
	if !sameKeySet(cols, t.cols) {
		t.cols = cols
		t.state = NewFilterState(cols)
		t.window.Start = 0
		t.drag = DragMode{}
		t.colDrag.Cancel()
		t.log.WithFields(map[string]any{"columns": len(cols), "rows": len(rows)}).Info("column set changed, state reset")
		t.notifyColumns()
	} else {
		t.cols = cols
	}
	t.widthsStale = true
	t.touch()
	t.clampWindow()
}

// Rows returns the source rows.
func (t *Table) Rows() []Row { return t.rows }

// Columns returns every column, visible or not, in configured order.
func (t *Table) Columns() []Column { return t.cols }

// Column looks a column up by key.
func (t *Table) Column(key string) (Column, bool) {
	for _, c := range t.cols {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}

// State returns a copy of the filter state.
func (t *Table) State() FilterState { return t.state.Clone() }

// Window returns the row window.
func (t *Table) Window() Window { return t.window }

// Zoom returns the zoom state.
func (t *Table) Zoom() Zoom { return t.zoom }

// Drag returns the active drag mode.
func (t *Table) Drag() DragMode { return t.drag }

// ColumnDrag exposes the header drag controller for drawing the ghost and
// drop target.
func (t *Table) ColumnDrag() *ColumnDrag { return &t.colDrag }

// LayoutMode returns the render surface strategy.
func (t *Table) LayoutMode() LayoutMode { return t.opts.Layout }

// Generation changes whenever anything that affects the view changes.
func (t *Table) Generation() int { return t.gen }

func (t *Table) touch() { t.gen++ }

// View returns the filtered, projected and sorted rows. It is recomputed
// after any state change and reused otherwise.
func (t *Table) View() Result {
	if t.cachedGen != t.gen {
		t.cached = t.engine.Apply(t.rows, t.cols, t.state)
		t.cachedGen = t.gen
	}
	if n := t.cached.Len(); n != t.lastCount {
		t.lastCount = n
		if t.opts.OnCountChange != nil {
			t.opts.OnCountChange(n)
		}
	}
	return t.cached
}

// Len returns the filtered row count.
func (t *Table) Len() int { return t.View().Len() }

// Page returns the rows inside the current window.
func (t *Table) Page() []ViewRow {
	v := t.View()
	lo, hi := t.window.Slice(v.Len())
	return v.Rows[lo:hi]
}

// ═══════════════════════════════════════════════════════════════════════════
// Filters and sort
// ═══════════════════════════════════════════════════════════════════════════

// SetConditions replaces the condition list and returns the window to the
// top. Advisory validation problems are logged, never rejected.
func (t *Table) SetConditions(conds []Condition) {
	next := slices.Clone(conds)
	for i := range next {
		if next[i].ID == "" {
			next[i].ID = NewCondition("", PredicateNone, "").ID
		}
		t.warnInvalid(next[i])
	}
	t.state.Conditions = next
	t.filtersChanged()
}

// AddCondition appends a condition and returns its ID.
func (t *Table) AddCondition(c Condition) string {
	if c.ID == "" {
		c.ID = NewCondition("", PredicateNone, "").ID
	}
	t.warnInvalid(c)
	t.state.Conditions = append(slices.Clone(t.state.Conditions), c)
	t.filtersChanged()
	return c.ID
}

// UpdateCondition edits the condition with the given ID in place. It
// reports whether the condition exists.
func (t *Table) UpdateCondition(id string, edit func(*Condition)) bool {
	i := slices.IndexFunc(t.state.Conditions, func(c Condition) bool { return c.ID == id })
	if i < 0 {
		return false
	}
	next := slices.Clone(t.state.Conditions)
	edit(&next[i])
	next[i].ID = id
	t.warnInvalid(next[i])
	t.state.Conditions = next
	t.filtersChanged()
	return true
}

// RemoveCondition deletes the condition with the given ID.
func (t *Table) RemoveCondition(id string) bool {
	i := slices.IndexFunc(t.state.Conditions, func(c Condition) bool { return c.ID == id })
	if i < 0 {
		return false
	}
	t.state.Conditions = slices.Delete(slices.Clone(t.state.Conditions), i, i+1)
	t.filtersChanged()
	return true
}

// ClearConditions removes every condition.
func (t *Table) ClearConditions() {
	t.state.Conditions = nil
	t.filtersChanged()
}

// ApplyFilter parses expr and replaces the conditions with the result.
func (t *Table) ApplyFilter(expr string) error {
	conds, err := ParseFilter(expr, t.cols)
	if err != nil {
		return err
	}
	t.SetConditions(conds)
	return nil
}

func (t *Table) warnInvalid(c Condition) {
	if err := c.Validate(); err != nil {
		t.log.With("condition", c.String()).WarnErr(err, "filter condition will match nothing")
	}
}

func (t *Table) filtersChanged() {
	t.touch()
	t.window.Start = 0
	t.clampWindow()
}

// ClickSort applies a header click to the sort state.
func (t *Table) ClickSort(key string) {
	if _, ok := t.Column(key); !ok {
		return
	}
	t.SetSort(t.state.Sort.Click(key))
}

// SetSort replaces the sort key.
func (t *Table) SetSort(s Sort) {
	if s.Column != "" {
		if _, ok := t.Column(s.Column); !ok {
			t.log.With("column", s.Column).Warn("sort on unknown column ignored")
			return
		}
	}
	t.state.Sort = s
	t.touch()
	t.clampWindow()
}

// ═══════════════════════════════════════════════════════════════════════════
// Columns
// ═══════════════════════════════════════════════════════════════════════════

// VisibleColumns returns the visible keys in display order.
func (t *Table) VisibleColumns() []string {
	return t.state.Columns.Ordered()
}

// ToggleColumn shows or hides a column.
func (t *Table) ToggleColumn(key string) bool {
	if !t.state.Columns.Toggle(key) {
		return false
	}
	t.columnsChanged()
	return true
}

// SetVisibleColumns replaces the visible set.
func (t *Table) SetVisibleColumns(keys []string) {
	t.state.Columns.SetVisible(keys)
	t.columnsChanged()
}

// MoveColumn reorders dragged into target's slot.
func (t *Table) MoveColumn(dragged, target string) bool {
	if !t.state.Columns.Move(dragged, target) {
		return false
	}
	t.columnsChanged()
	return true
}

// ShiftColumn moves a visible column one slot left or right.
func (t *Table) ShiftColumn(key string, delta int) bool {
	if !t.state.Columns.Shift(key, delta) {
		return false
	}
	t.columnsChanged()
	return true
}

func (t *Table) columnsChanged() {
	t.widthsStale = true
	t.touch()
	t.notifyColumns()
}

func (t *Table) notifyColumns() {
	if t.opts.OnColumnsChange != nil {
		t.opts.OnColumnsChange(t.state.Columns.Ordered())
	}
}

// ColumnWidths returns the measured width of each visible column, in
// display order. Measurements are redone after zoom, data or column set
// changes and after Remeasure.
func (t *Table) ColumnWidths() []int {
	if !t.widthsStale && t.widths != nil {
		return t.widths
	}
	cols := t.View().Columns
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = t.opts.MeasureColumn(c, t.rows, t.zoom)
	}
	t.widths = widths
	t.widthsStale = false
	return widths
}

// Separators returns the x positions of the vertical column lines.
func (t *Table) Separators() []int {
	return Separators(t.ColumnWidths(), t.opts.ColumnGap)
}

// ColumnGap returns the spacing between columns.
func (t *Table) ColumnGap() int { return t.opts.ColumnGap }

// ContentWidth returns the full width of the visible columns.
func (t *Table) ContentWidth() int {
	widths := t.ColumnWidths()
	total := 0
	for _, w := range widths {
		total += w
	}
	if len(widths) > 1 {
		total += (len(widths) - 1) * t.opts.ColumnGap
	}
	return total
}

// ColumnAt returns the visible column key under content x.
func (t *Table) ColumnAt(x int) (string, bool) {
	i := ColumnAt(x, t.ColumnWidths(), t.opts.ColumnGap)
	cols := t.View().Columns
	if i < 0 || i >= len(cols) {
		return "", false
	}
	return cols[i].Key, true
}

// Remeasure marks column and row measurements stale, e.g. after a resize.
func (t *Table) Remeasure() {
	t.widthsStale = true
	t.layoutGen = -1
}

// MeasureText is the default column measurer: the widest of the label and
// every normalized value, scaled by zoom and capped at 40 cells. A column's
// configured Width wins.
func MeasureText(col Column, rows []Row, zoom Zoom) int {
	if col.Width > 0 {
		return max(1, int(float64(col.Width)*zoom.Level+0.5))
	}
	w := runewidth.StringWidth(col.Label)
	for _, r := range rows {
		if cw := runewidth.StringWidth(Normalize(r.Get(col.Key))); cw > w {
			w = cw
		}
		if w >= 40 {
			w = 40
			break
		}
	}
	return max(1, int(float64(w)*zoom.Level+0.5))
}

// ═══════════════════════════════════════════════════════════════════════════
// Window and scrolling
// ═══════════════════════════════════════════════════════════════════════════

// SetPageSize changes how many rows the window holds.
func (t *Table) SetPageSize(n int) {
	if n <= 0 {
		n = DefaultPageSize
	}
	if n == t.window.PageSize {
		return
	}
	t.window.PageSize = n
	t.clampWindow()
}

// MaxStart returns the last reachable window start. The fixed layout
// allows Len()-PageSize. The virtual layout allows the first row of the
// run of trailing rows that fits fully in the last viewport passed to
// Frame, so the final row can always be scrolled into view.
func (t *Table) MaxStart() int {
	n := t.Len()
	if t.virtual == nil {
		return t.window.MaxStart(n)
	}
	if n == 0 {
		return 0
	}
	t.syncVirtual(t.frameWidth)
	viewport := t.viewport
	if viewport <= 0 {
		viewport = t.window.page()
	}
	rows := t.View().Rows
	start, used := n, 0
	for start > 0 {
		i := start - 1
		t.virtual.measure(rows[i], i, t.frameWidth)
		h := t.virtual.Cache.Height(i)
		if used+h > viewport {
			break
		}
		used += h
		start = i
	}
	return min(start, n-1)
}

func (t *Table) clampWindow() {
	t.window.ClampWithin(t.MaxStart())
}

// syncVirtual drops stale height measurements after the content or the
// width changed.
func (t *Table) syncVirtual(width int) {
	if t.layoutGen != t.gen {
		t.virtual.Cache.Invalidate()
		t.layoutGen = t.gen
	}
	if t.virtual.Cache.width != width {
		t.virtual.Cache.Invalidate()
		t.virtual.Cache.width = width
	}
}

// Shift moves the window by delta rows.
func (t *Table) Shift(delta int) bool {
	return t.window.JumpWithin(t.window.Start+delta, t.MaxStart())
}

// JumpTo moves the window start to row i.
func (t *Table) JumpTo(i int) bool {
	return t.window.JumpWithin(i, t.MaxStart())
}

// Navigate applies a keyboard navigation command.
func (t *Table) Navigate(k NavKey, half bool) bool {
	return t.window.NavigateWithin(k, t.MaxStart(), half)
}

// Wheel dispatches a wheel event: rows, columns or zoom.
func (t *Table) Wheel(ev WheelEvent) bool {
	switch ClassifyWheel(ev) {
	case GestureZoomIn:
		return t.ZoomIn()
	case GestureZoomOut:
		return t.ZoomOut()
	case GestureScrollColumns:
		d := ev.DeltaX
		if d == 0 {
			d = ev.DeltaY
		}
		step := 4
		if d < 0 {
			step = -step
		}
		return t.ScrollColumns(step, 0)
	case GestureScrollRows:
		return t.window.WheelWithin(ev.DeltaY, t.MaxStart())
	}
	return false
}

// BodyScrolled applies edge auto-advance for a body scroll event and
// returns what the renderer must do with its scroll offset.
func (t *Table) BodyScrolled(in EdgeInput) EdgeResult {
	if in.Threshold <= 0 {
		in.Threshold = t.opts.EdgeThreshold
	}
	res := EdgeAdvance(in)
	if res.Delta == 0 {
		return res
	}
	if !t.Shift(res.Delta) {
		// Already at the boundary; leave the renderer's offset alone.
		return EdgeResult{}
	}
	return res
}

// EdgeThreshold returns the configured edge auto-advance distance.
func (t *Table) EdgeThreshold() float64 { return t.opts.EdgeThreshold }

// HeaderPane and BodyPane are the two horizontally scrolled surfaces.
func (t *Table) HeaderPane() *ScrollPane { return &t.header }
func (t *Table) BodyPane() *ScrollPane   { return &t.body }

// ScrollLeft returns the body's horizontal offset.
func (t *Table) ScrollLeft() int { return t.body.ScrollLeft() }

// ScrollColumns scrolls the body horizontally by dx, clamped to the content
// width minus viewportWidth, and mirrors the offset onto the header.
func (t *Table) ScrollColumns(dx, viewportWidth int) bool {
	return t.SetBodyScroll(t.body.ScrollLeft()+dx, viewportWidth)
}

// SetBodyScroll sets the body offset and mirrors it onto the header.
func (t *Table) SetBodyScroll(x, viewportWidth int) bool {
	x = t.clampScroll(x, viewportWidth)
	changed := x != t.body.ScrollLeft()
	if changed {
		t.body.SetScrollLeft(x)
	}
	SyncHorizontal(&t.body, &t.header)
	return changed
}

// SetHeaderScroll sets the header offset and mirrors it onto the body.
func (t *Table) SetHeaderScroll(x, viewportWidth int) bool {
	x = t.clampScroll(x, viewportWidth)
	changed := x != t.header.ScrollLeft()
	if changed {
		t.header.SetScrollLeft(x)
	}
	SyncHorizontal(&t.header, &t.body)
	return changed
}

func (t *Table) clampScroll(x, viewportWidth int) int {
	limit := t.ContentWidth()
	if viewportWidth > 0 {
		limit = max(0, limit-viewportWidth)
	}
	return clamp(x, 0, limit)
}

// Thumb returns the scrollbar thumb for the current window.
func (t *Table) Thumb() Thumb {
	return ComputeThumb(t.window.Start, t.window.page(), t.Len(), t.opts.MinThumb)
}

// FrameThumb returns the thumb for a laid-out frame. The virtual layout is
// proportioned by content height rather than row count.
func (t *Table) FrameThumb(f Frame, viewport int) Thumb {
	if t.opts.Layout == LayoutVirtual {
		return ComputeThumb(f.Offset, viewport, f.TotalHeight, t.opts.MinThumb)
	}
	return t.Thumb()
}

// Frame lays out the current window for a viewport of the given height
// and width. The virtual layout remembers both so later window moves are
// bounded by the measured tail of the data.
func (t *Table) Frame(viewport, width int) Frame {
	rows := t.View().Rows
	if t.virtual != nil {
		t.viewport, t.frameWidth = viewport, width
		t.syncVirtual(width)
		t.clampWindow()
		req := LayoutRequest{
			Window:   t.window,
			Offset:   t.virtual.OffsetOf(t.window.Start),
			Viewport: viewport,
			Width:    width,
		}
		return t.virtual.Layout(rows, req)
	}
	return t.layout.Layout(rows, LayoutRequest{Window: t.window, Viewport: viewport, Width: width})
}

// ═══════════════════════════════════════════════════════════════════════════
// Zoom
// ═══════════════════════════════════════════════════════════════════════════

// ZoomIn raises the zoom level by one step.
func (t *Table) ZoomIn() bool { return t.zoomed(t.zoom.In()) }

// ZoomOut lowers the zoom level by one step.
func (t *Table) ZoomOut() bool { return t.zoomed(t.zoom.Out()) }

// ZoomReset returns to 100%.
func (t *Table) ZoomReset() bool { return t.zoomed(t.zoom.Reset()) }

func (t *Table) zoomed(changed bool) bool {
	if changed {
		// Pixel widths change with zoom, so every measurement is stale.
		t.widthsStale = true
		t.touch()
		t.log.With("level", t.zoom.Level).Debug("zoom changed")
	}
	return changed
}

// ═══════════════════════════════════════════════════════════════════════════
// Pointer
// ═══════════════════════════════════════════════════════════════════════════

// Area is the part of the table under the pointer.
type Area int

const (
	AreaNone Area = iota
	AreaHeader
	AreaBody
	AreaScrollbar
)

// Pointer is a pointer position resolved by the renderer.
type Pointer struct {
	Area Area
	// Column is the header column under the pointer, for AreaHeader.
	Column string
	X, Y   float64
	// TrackTop and TrackHeight locate the scrollbar track, for
	// scrollbar drags.
	TrackTop    float64
	TrackHeight float64
}

// PointerDown starts a drag according to where the pointer went down.
func (t *Table) PointerDown(p Pointer) {
	t.cancelDrags()
	switch p.Area {
	case AreaScrollbar:
		t.drag = DragMode{Kind: DragScrollbar}
		t.trackTo(p)
	case AreaHeader:
		if p.Column == "" {
			return
		}
		label := p.Column
		if c, ok := t.Column(p.Column); ok {
			label = c.Label
		}
		t.drag = DragMode{Kind: DragColumn, Column: p.Column}
		t.colDrag.Start(p.Column, label, int(p.X), int(p.Y))
	case AreaBody:
		t.drag = DragMode{Kind: DragTable}
		t.dragScroll.Reset()
		t.lastY = p.Y
	}
}

// PointerMove continues the active drag. It reports whether anything the
// renderer draws changed.
func (t *Table) PointerMove(p Pointer) bool {
	switch t.drag.Kind {
	case DragScrollbar:
		return t.trackTo(p)
	case DragTable:
		dy := p.Y - t.lastY
		t.lastY = p.Y
		if delta := t.dragScroll.Move(dy); delta != 0 {
			return t.Shift(delta)
		}
	case DragColumn:
		t.colDrag.Move(int(p.X), int(p.Y))
		if p.Area == AreaHeader && p.Column != "" {
			t.colDrag.Over(p.Column)
		}
		return true
	}
	return false
}

// PointerUp ends the active drag. A column drag dropped on another header
// reorders; released on its own header it counts as a sort click.
func (t *Table) PointerUp(p Pointer) {
	if t.drag.Kind == DragColumn {
		if p.Area == AreaHeader && p.Column != "" {
			t.colDrag.Over(p.Column)
		}
		dragged, target := t.colDrag.Dragged(), t.colDrag.Target()
		if target == "" || target == dragged {
			t.colDrag.Cancel()
			t.ClickSort(dragged)
		} else if t.colDrag.Drop(&t.state.Columns) {
			t.columnsChanged()
		}
	}
	t.cancelDrags()
}

// PointerLeave cancels any drag when the pointer leaves the window.
func (t *Table) PointerLeave() {
	t.cancelDrags()
}

func (t *Table) cancelDrags() {
	t.drag = DragMode{}
	t.colDrag.Cancel()
	t.dragScroll.Reset()
}

func (t *Table) trackTo(p Pointer) bool {
	start := TrackToStart(p.Y, p.TrackTop, p.TrackHeight, 0, t.MaxStart())
	return t.JumpTo(start)
}

// ═══════════════════════════════════════════════════════════════════════════
// Lifecycle
// ═══════════════════════════════════════════════════════════════════════════

// Mount borrows the environment and subscribes to resize notifications.
// The returned release function drops every subscription and the
// clipboard; it is safe to call more than once. Callers defer it so the
// cleanup runs however the renderer exits.
func (t *Table) Mount(env Environment) (release func()) {
	t.clipboard = env.Clipboard
	if env.Resize != nil {
		cancel := env.Resize.Subscribe(t.Remeasure)
		t.releases = append(t.releases, cancel)
	}
	return t.unmount
}

func (t *Table) unmount() {
	for i := len(t.releases) - 1; i >= 0; i-- {
		if t.releases[i] != nil {
			t.releases[i]()
		}
	}
	t.releases = nil
	t.clipboard = nil
}

// CellText returns the normalized text of a view cell.
func (t *Table) CellText(viewIndex int, key string) (string, bool) {
	v := t.View()
	if viewIndex < 0 || viewIndex >= v.Len() {
		return "", false
	}
	row := v.Rows[viewIndex].Row
	if !row.Has(key) {
		return "", false
	}
	return Normalize(row.Get(key)), true
}

// CopyCell writes a cell's text to the clipboard. Failures are logged and
// reported as false; they never surface as errors.
func (t *Table) CopyCell(viewIndex int, key string) (string, bool) {
	text, ok := t.CellText(viewIndex, key)
	if !ok {
		return "", false
	}
	if t.clipboard == nil {
		t.log.Warn("copy requested while no clipboard is mounted")
		return "", false
	}
	if err := t.clipboard.WriteAll(text); err != nil {
		t.log.With("column", key).Error(err, "clipboard write failed")
		return "", false
	}
	return text, true
}
