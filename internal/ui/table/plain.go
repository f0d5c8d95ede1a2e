package table

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/imgajeed76/gridview/internal/grid"
	"github.com/imgajeed76/gridview/internal/ui/styles"
)

// displayText is what a cell shows. Absent cells are blank; explicit nulls
// read "null".
func displayText(v any) string {
	if v == grid.Undefined {
		return ""
	}
	s := grid.Normalize(v)
	return strings.NewReplacer("\n", " ", "\t", " ", "\r", "").Replace(s)
}

// PrintJSON writes the view as a JSON array of objects. Keys keep display
// order; absent cells are left out.
func PrintJSON(w io.Writer, t *grid.Table) error {
	v := t.View()
	bw := bufio.NewWriter(w)
	bw.WriteString("[")
	for i, vr := range v.Rows {
		if i > 0 {
			bw.WriteString(",")
		}
		bw.WriteString("\n  {")
		first := true
		for _, c := range v.Columns {
			if !vr.Row.Has(c.Key) {
				continue
			}
			if !first {
				bw.WriteString(", ")
			}
			first = false
			k, err := json.Marshal(c.Key)
			if err != nil {
				return err
			}
			val, err := jsonValue(vr.Row.Get(c.Key))
			if err != nil {
				return fmt.Errorf("column %s: %w", c.Key, err)
			}
			bw.Write(k)
			bw.WriteString(": ")
			bw.Write(val)
		}
		bw.WriteString("}")
	}
	if len(v.Rows) > 0 {
		bw.WriteString("\n")
	}
	bw.WriteString("]\n")
	return bw.Flush()
}

func jsonValue(v any) ([]byte, error) {
	if f, ok := v.(grid.Fragment); ok {
		return json.Marshal(f.VisibleText())
	}
	b, err := json.Marshal(v)
	if err != nil {
		return json.Marshal(grid.Normalize(v))
	}
	return b, nil
}

// PrintRaw writes the view as tab-separated lines without a header.
func PrintRaw(w io.Writer, t *grid.Table) error {
	v := t.View()
	bw := bufio.NewWriter(w)
	for _, vr := range v.Rows {
		for i, c := range v.Columns {
			if i > 0 {
				bw.WriteString("\t")
			}
			bw.WriteString(displayText(vr.Row.Get(c.Key)))
		}
		bw.WriteString("\n")
	}
	return bw.Flush()
}

// PrintPlainTable prints a properly aligned table for non-TTY output.
// Shows full content without truncation.
func PrintPlainTable(w io.Writer, t *grid.Table) error {
	v := t.View()
	bw := bufio.NewWriter(w)
	if len(v.Columns) == 0 {
		fmt.Fprintln(bw, "(0 rows)")
		return bw.Flush()
	}

	// Calculate column widths based on actual content (no truncation)
	colWidths := make([]int, len(v.Columns))
	for i, c := range v.Columns {
		colWidths[i] = runewidth.StringWidth(headerLabel(t, c))
	}
	cells := make([][]string, len(v.Rows))
	for r, vr := range v.Rows {
		cells[r] = make([]string, len(v.Columns))
		for i, c := range v.Columns {
			s := displayText(vr.Row.Get(c.Key))
			cells[r][i] = s
			if sw := runewidth.StringWidth(s); sw > colWidths[i] {
				colWidths[i] = sw
			}
		}
	}

	for i, c := range v.Columns {
		if i > 0 {
			bw.WriteString("  ")
		}
		bw.WriteString(pad(headerLabel(t, c), colWidths[i]))
	}
	bw.WriteString("\n")

	for i, cw := range colWidths {
		if i > 0 {
			bw.WriteString("  ")
		}
		bw.WriteString(strings.Repeat(styles.SymbolRowLine, cw))
	}
	bw.WriteString("\n")

	for _, row := range cells {
		for i, val := range row {
			if i > 0 {
				bw.WriteString("  ")
			}
			bw.WriteString(pad(val, colWidths[i]))
		}
		bw.WriteString("\n")
	}

	fmt.Fprintf(bw, "\n(%d rows)\n", len(v.Rows))
	return bw.Flush()
}

// headerLabel is the column label plus a sort marker.
func headerLabel(t *grid.Table, c grid.Column) string {
	s := t.State().Sort
	if !s.Active() || s.Column != c.Key {
		return c.Label
	}
	if s.Direction == grid.DirectionDesc {
		return c.Label + " v"
	}
	return c.Label + " ^"
}

// pad adds spaces to reach the desired width (no truncation).
func pad(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

// Truncate shortens a string to fit width, adding "..." if needed.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width > 3 {
		return runewidth.Truncate(s, width, "...")
	}
	return runewidth.Truncate(s, width, "")
}

// PadOrTruncate pads or truncates to exact width (for TUI table).
func PadOrTruncate(s string, width int) string {
	return pad(Truncate(s, width), width)
}

// wrap breaks s into lines of at most width cells. It breaks at spaces
// and splits words wider than a line.
func wrap(s string, width int) []string {
	if width <= 0 {
		return []string{""}
	}
	if runewidth.StringWidth(s) <= width {
		return []string{s}
	}
	var lines []string
	line, lineW := "", 0
	for _, word := range strings.Fields(s) {
		ww := runewidth.StringWidth(word)
		for ww > width {
			if lineW > 0 {
				lines = append(lines, line)
				line, lineW = "", 0
			}
			head := runewidth.Truncate(word, width, "")
			if head == "" {
				head = string([]rune(word)[:1])
			}
			lines = append(lines, head)
			word = word[len(head):]
			ww = runewidth.StringWidth(word)
		}
		switch {
		case ww == 0:
		case lineW == 0:
			line, lineW = word, ww
		case lineW+1+ww <= width:
			line += " " + word
			lineW += 1 + ww
		default:
			lines = append(lines, line)
			line, lineW = word, ww
		}
	}
	if lineW > 0 || len(lines) == 0 {
		lines = append(lines, line)
	}
	return lines
}
