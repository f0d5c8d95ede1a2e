package grid

// DragKind tags the active pointer drag.
type DragKind int

const (
	DragNone DragKind = iota
	DragScrollbar
	DragTable
	DragColumn
)

func (k DragKind) String() string {
	switch k {
	case DragScrollbar:
		return "scrollbar"
	case DragTable:
		return "table"
	case DragColumn:
		return "column"
	}
	return "none"
}

// DragMode is the single source of truth for what the pointer is dragging.
// Column is only set for DragColumn.
type DragMode struct {
	Kind   DragKind
	Column string
}

// Dragging reports whether any drag is in progress.
func (m DragMode) Dragging() bool {
	return m.Kind != DragNone
}

// Ghost is the floating header label that follows the pointer during a
// column drag.
type Ghost struct {
	Label string
	X, Y  int
}

// ColumnDrag is the header drag-and-drop controller. It only ever touches a
// ColumnState's Order.
type ColumnDrag struct {
	dragged string
	target  string
	ghost   Ghost
	active  bool
}

// Start records the dragged column and places its ghost at the pointer.
func (d *ColumnDrag) Start(key, label string, x, y int) {
	d.dragged = key
	d.target = ""
	d.ghost = Ghost{Label: label, X: x, Y: y}
	d.active = key != ""
}

// Move keeps the ghost under the pointer.
func (d *ColumnDrag) Move(x, y int) {
	if !d.active {
		return
	}
	d.ghost.X, d.ghost.Y = x, y
}

// Over marks key as the drop target. It only affects how the header is
// drawn until Drop.
func (d *ColumnDrag) Over(key string) {
	if !d.active {
		return
	}
	d.target = key
}

// Drop reorders state so the dragged column takes the target's slot, then
// ends the drag. It reports whether the order changed.
func (d *ColumnDrag) Drop(state *ColumnState) bool {
	if !d.active {
		return false
	}
	dragged, target := d.dragged, d.target
	d.Cancel()
	if dragged == "" || target == "" {
		return false
	}
	return state.Move(dragged, target)
}

// Cancel ends the drag without reordering.
func (d *ColumnDrag) Cancel() {
	*d = ColumnDrag{}
}

// Active reports whether a column drag is in progress.
func (d *ColumnDrag) Active() bool { return d.active }

// Dragged returns the key being dragged.
func (d *ColumnDrag) Dragged() string { return d.dragged }

// Target returns the current drop target, if any.
func (d *ColumnDrag) Target() string { return d.target }

// Ghost returns the floating label and whether it should be drawn.
func (d *ColumnDrag) Ghost() (Ghost, bool) { return d.ghost, d.active }
