package table

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/imgajeed76/gridview/internal/grid"
	"github.com/imgajeed76/gridview/internal/ui/styles"
)

var cellFocusStyle = lipgloss.NewStyle().Background(styles.Accent).Foreground(styles.TextPrimary)

// placedRow is a frame row mapped to body screen lines.
type placedRow struct {
	grid.FrameRow
	y      int
	height int
}

func (m tableModel) placeRows(f grid.Frame) []placedRow {
	out := make([]placedRow, 0, len(f.Rows))
	virtual := m.table.LayoutMode() == grid.LayoutVirtual
	for _, r := range f.Rows {
		pr := placedRow{FrameRow: r}
		if virtual {
			pr.y, pr.height = r.Top-f.Offset, r.Height
		} else {
			lh := m.lineHeight()
			pr.y, pr.height = r.Top*lh, lh
		}
		out = append(out, pr)
	}
	return out
}

// ═══════════════════════════════════════════════════════════════════════════
// View
// ═══════════════════════════════════════════════════════════════════════════

func (m tableModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	var sb strings.Builder
	sb.WriteString(m.renderTitle())
	sb.WriteString("\n")
	if m.opts.ControlBar {
		sb.WriteString(m.renderControlBar())
		sb.WriteString("\n")
	}

	switch {
	case m.showHelp:
		sb.WriteString(m.renderLines(strings.Split(m.help.FullHelpView(tableKeys.FullHelp()), "\n")))
	case m.mode == tableModeColumns:
		sb.WriteString(m.renderPicker())
	default:
		sb.WriteString(m.renderTable())
	}

	sb.WriteString("\n")
	sb.WriteString(m.renderFooter())
	return sb.String()
}

func (m tableModel) renderTitle() string {
	v := m.table.View()
	n, total := v.Len(), len(m.table.Rows())

	var title string
	if n != total {
		title = fmt.Sprintf("%s: %d/%d rows", m.opts.Title, n, total)
	} else {
		title = fmt.Sprintf("%s: %d rows", m.opts.Title, n)
	}
	if shown, all := len(v.Columns), len(m.table.Columns()); shown != all {
		title += fmt.Sprintf(", %d/%d columns", shown, all)
	} else {
		title += fmt.Sprintf(", %d columns", all)
	}

	var info []string
	if lo, hi := m.table.Window().Slice(n); hi > lo {
		info = append(info, fmt.Sprintf("%d-%d", lo+1, hi))
	}
	if z := m.table.Zoom(); z.Level != 1 {
		info = append(info, fmt.Sprintf("zoom %d%%", int(z.Level*100+0.5)))
	}

	out := styles.Render(styles.HeaderStyle, title)
	if len(info) > 0 {
		out += styles.Mute("  " + strings.Join(info, "  "))
	}
	if m.recomputing {
		out += " " + m.spinner.View()
	}
	return out
}

func (m tableModel) renderControlBar() string {
	if m.mode == tableModeFilter {
		out := m.filterInput.View()
		if m.filterErr != "" {
			out += "  " + styles.ErrorText(m.filterErr)
		}
		return out
	}

	state := m.table.State()
	var parts []string
	for i, c := range state.Conditions {
		if !c.Active() {
			continue
		}
		parts = append(parts, styles.Render(styles.ChipStyle, c.String()))
		if c.Join != grid.JoinNone && i < len(state.Conditions)-1 {
			parts = append(parts, styles.Mute(string(c.Join)))
		}
	}
	if state.Sort.Active() {
		chip := "sort " + state.Sort.Column + " " + styles.SortArrow(state.Sort.Direction == grid.DirectionDesc)
		parts = append(parts, styles.Render(styles.ChipFocusStyle, chip))
	}
	if hidden := len(state.Columns.Order) - len(state.Columns.Visible); hidden > 0 {
		parts = append(parts, styles.Mutef("%d hidden", hidden))
	}
	if len(parts) == 0 {
		return styles.Mute("/ filter  c columns  ? help")
	}
	return strings.Join(parts, " ")
}

func (m tableModel) renderFooter() string {
	if m.toast != "" {
		return styles.SuccessMsg(m.toast)
	}
	switch m.mode {
	case tableModeFilter:
		return styles.Mute("enter apply  esc cancel  e.g. price > 10 and name starts_with a")
	case tableModeColumns:
		return m.help.View(pickerKeys)
	}
	return m.help.View(tableKeys)
}

// renderLines pads or cuts lines to the table area height.
func (m tableModel) renderLines(lines []string) string {
	n := m.bodyHeight() + 2
	out := make([]string, n)
	copy(out, lines)
	return strings.Join(out, "\n")
}

// ═══════════════════════════════════════════════════════════════════════════
// Column picker
// ═══════════════════════════════════════════════════════════════════════════

func (m tableModel) renderPicker() string {
	state := m.table.State()
	lines := []string{styles.SectionHeader("Columns"), ""}

	avail := m.bodyHeight()
	first := max(0, m.pickCursor-avail+1)
	for i := first; i < len(state.Columns.Order) && i < first+avail; i++ {
		key := state.Columns.Order[i]
		label := key
		if c, ok := m.table.Column(key); ok {
			label = c.Label
		}
		mark := styles.SymbolHidden
		if state.Columns.IsVisible(key) {
			mark = styles.Render(styles.SuccessStyle, styles.SymbolShown)
		}
		line := fmt.Sprintf(" %s %s", mark, label)
		if i == m.pickCursor {
			line = styles.Render(styles.SelectedStyle, PadOrTruncate(line, m.bodyWidth()))
		}
		lines = append(lines, line)
	}
	return m.renderLines(lines)
}

// ═══════════════════════════════════════════════════════════════════════════
// Render Table
// ═══════════════════════════════════════════════════════════════════════════

func (m tableModel) renderTable() string {
	cols := m.table.View().Columns
	if len(cols) == 0 {
		return m.renderLines([]string{styles.Mute("No visible columns (c to pick)")})
	}

	widths := m.table.ColumnWidths()
	left, vw := m.table.ScrollLeft(), m.bodyWidth()
	height := m.bodyHeight()

	lines := make([]string, 0, height+2)
	lines = append(lines, applyViewport(m.headerLine(cols, widths), left, vw)+" ")
	lines = append(lines, m.dragLine(widths, left, vw)+" ")

	frame := m.frame()
	body := make([]string, height)
	for _, pr := range m.placeRows(frame) {
		for k, l := range m.rowLines(pr, cols, widths) {
			if y := pr.y + k; y >= 0 && y < height {
				body[y] = applyViewport(l, left, vw)
			}
		}
	}

	thumbTop, thumbSize := m.table.FrameThumb(frame, height).Cells(height)
	for i := range body {
		if body[i] == "" {
			body[i] = strings.Repeat(" ", vw)
		}
		if i >= thumbTop && i < thumbTop+thumbSize {
			body[i] += styles.Render(styles.ThumbStyle, styles.SymbolThumb)
		} else {
			body[i] += styles.Render(styles.TrackStyle, styles.SymbolTrack)
		}
	}
	return strings.Join(append(lines, body...), "\n")
}

func (m tableModel) headerLine(cols []grid.Column, widths []int) string {
	var sb strings.Builder
	sort := m.table.State().Sort
	drag := m.table.ColumnDrag()
	selected, _ := m.selectedColumn()

	for i, c := range cols {
		w := widths[i]
		arrow := ""
		if sort.Active() && sort.Column == c.Key && w > 2 {
			arrow = " " + styles.SortArrow(sort.Direction == grid.DirectionDesc)
			w -= 2
		}

		st := styles.HeaderStyle
		switch {
		case drag.Active() && c.Key == drag.Dragged():
			st = styles.DraggedStyle
		case drag.Active() && c.Key == drag.Target():
			st = styles.DropTargetStyle
		case c.Key == selected:
			st = st.Underline(true)
		}
		sb.WriteString(styles.Render(st, PadOrTruncate(c.Label, w)))
		sb.WriteString(arrow)
		if i < len(cols)-1 {
			sb.WriteString(m.gapText(lipgloss.NewStyle()))
		}
	}
	return sb.String()
}

// dragLine is the rule under the header, or the floating ghost label while
// a column is being dragged.
func (m tableModel) dragLine(widths []int, left, vw int) string {
	if g, ok := m.table.ColumnDrag().Ghost(); ok {
		x := min(max(0, g.X), max(0, vw-1))
		label := Truncate(g.Label, max(1, vw-x))
		return strings.Repeat(" ", x) + styles.Render(styles.GhostStyle, label) +
			strings.Repeat(" ", max(0, vw-x-runewidth.StringWidth(label)-2))
	}
	return styles.Render(styles.SeparatorStyle, applyViewport(m.rule(widths), left, vw))
}

// rule is a full-width horizontal line crossing the column separators.
func (m tableModel) rule(widths []int) string {
	var sb strings.Builder
	gap := m.table.ColumnGap()
	for i, w := range widths {
		sb.WriteString(strings.Repeat(styles.SymbolRowLine, w))
		if i == len(widths)-1 {
			break
		}
		if m.opts.VerticalLines {
			sb.WriteString("┼")
			sb.WriteString(strings.Repeat(styles.SymbolRowLine, max(0, gap-1)))
		} else {
			sb.WriteString(strings.Repeat(styles.SymbolRowLine, gap))
		}
	}
	return sb.String()
}

// gapText is the space between two columns, with the vertical line in its
// first cell when enabled.
func (m tableModel) gapText(rowStyle lipgloss.Style) string {
	gap := m.table.ColumnGap()
	if !m.opts.VerticalLines {
		return styles.Render(rowStyle, strings.Repeat(" ", gap))
	}
	return styles.Render(styles.SeparatorStyle.Inherit(rowStyle), styles.SymbolColLine) +
		styles.Render(rowStyle, strings.Repeat(" ", max(0, gap-1)))
}

func (m tableModel) rowStyle(pr placedRow) lipgloss.Style {
	switch {
	case pr.Index == m.cursor:
		return styles.SelectedStyle
	case m.opts.Hover && pr.Index == m.hover:
		return styles.HoverStyle
	case m.opts.Striped && pr.Striped():
		return styles.StripeStyle
	}
	return lipgloss.NewStyle()
}

// rowLines draws one row. In the virtual layout cells wrap, so a row spans
// as many lines as its tallest cell.
func (m tableModel) rowLines(pr placedRow, cols []grid.Column, widths []int) []string {
	rowStyle := m.rowStyle(pr)
	textH := pr.height
	if m.opts.HorizontalLines {
		textH--
	}
	textH = max(1, textH)
	virtual := m.table.LayoutMode() == grid.LayoutVirtual

	cells := make([][]string, len(cols))
	for i, c := range cols {
		text := displayText(pr.Row.Get(c.Key))
		if virtual {
			cells[i] = wrap(text, widths[i])
		} else {
			cells[i] = []string{text}
		}
	}

	selected, _ := m.selectedColumn()
	lines := make([]string, 0, pr.height)
	for k := 0; k < textH; k++ {
		var sb strings.Builder
		for i, c := range cols {
			text := ""
			if k < len(cells[i]) {
				text = cells[i][k]
			}
			v := pr.Row.Get(c.Key)
			st := cellStyle(v).Inherit(rowStyle)
			if pr.Index == m.cursor && c.Key == selected {
				st = cellFocusStyle
			}
			sb.WriteString(renderCell(v, text, widths[i], st, len(cells[i]) == 1))
			if i < len(cols)-1 {
				sb.WriteString(m.gapText(rowStyle))
			}
		}
		lines = append(lines, sb.String())
	}
	if m.opts.HorizontalLines {
		lines = append(lines, styles.Render(styles.SeparatorStyle, m.rule(widths)))
	}
	return lines
}

func cellStyle(v any) lipgloss.Style {
	switch grid.Classify(v) {
	case grid.KindNull:
		return styles.NullStyle
	case grid.KindNumber:
		return styles.NumberStyle
	case grid.KindBool:
		return styles.BoolStyle
	}
	return lipgloss.NewStyle()
}

// renderCell fits text to width. Numbers align right; a styled span that
// fits on one line keeps its own styling.
func renderCell(v any, text string, width int, st lipgloss.Style, whole bool) string {
	if span, ok := v.(grid.Span); ok && whole && !styles.NoColor() {
		if sw := runewidth.StringWidth(text); sw <= width {
			return span.Render() + styles.Render(st, strings.Repeat(" ", width-sw))
		}
	}
	text = Truncate(text, width)
	if grid.Classify(v) == grid.KindNumber {
		text = strings.Repeat(" ", max(0, width-runewidth.StringWidth(text))) + text
	}
	return styles.Render(st, pad(text, width))
}

// ═══════════════════════════════════════════════════════════════════════════
// ANSI-aware Viewport Slicing
// ═══════════════════════════════════════════════════════════════════════════

// applyViewport extracts a horizontal slice of a string, handling ANSI escape
// codes properly. It returns the portion of the string from visual column
// startX with the given width, padded with spaces.
func applyViewport(s string, startX, width int) string {
	if width <= 0 {
		return ""
	}
	if startX < 0 {
		startX = 0
	}

	var result strings.Builder
	result.Grow(width + 64)

	visualPos := 0
	outputW := 0
	stylesApplied := false
	inEscape := false
	var escapeSeq strings.Builder
	var activeStyles []string

	runes := []rune(s)
	for i := 0; i < len(runes) && outputW < width; i++ {
		r := runes[i]

		if r == '\x1b' && i+1 < len(runes) && runes[i+1] == '[' {
			inEscape = true
			escapeSeq.Reset()
			escapeSeq.WriteRune(r)
			continue
		}

		if inEscape {
			escapeSeq.WriteRune(r)
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEscape = false
				seq := escapeSeq.String()
				if r == 'm' {
					if seq == "\x1b[0m" || seq == "\x1b[m" {
						activeStyles = nil
					} else {
						activeStyles = append(activeStyles, seq)
					}
				}
				if visualPos >= startX {
					result.WriteString(seq)
				}
			}
			continue
		}

		rw := runewidth.RuneWidth(r)
		switch {
		case visualPos >= startX && outputW+rw <= width:
			if !stylesApplied {
				for _, style := range activeStyles {
					result.WriteString(style)
				}
				stylesApplied = true
			}
			result.WriteRune(r)
			outputW += rw
		case visualPos+rw > startX && visualPos < startX:
			// A wide rune cut by the left edge leaves a blank.
			result.WriteString(strings.Repeat(" ", visualPos+rw-startX))
			outputW += visualPos + rw - startX
		case visualPos >= startX:
			// A wide rune cut by the right edge.
			result.WriteString(strings.Repeat(" ", width-outputW))
			outputW = width
		}
		visualPos += rw
	}

	if len(activeStyles) > 0 && outputW > 0 {
		result.WriteString("\x1b[0m")
	}
	if outputW < width {
		result.WriteString(strings.Repeat(" ", width-outputW))
	}
	return result.String()
}
