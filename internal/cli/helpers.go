package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/imgajeed76/gridview/internal/config"
	"github.com/imgajeed76/gridview/internal/grid"
	"github.com/imgajeed76/gridview/internal/ui/table"
	"github.com/imgajeed76/gridview/internal/util"
)

// tableFlags are the view flags shared by every command that shows rows.
type tableFlags struct {
	filter   string
	sort     string
	columns  string
	layout   string
	pageSize int
	display  table.DisplayOptions
}

func addTableFlags(cmd *cobra.Command) {
	cmd.Flags().String("filter", "", `Filter rows, e.g. 'age > 25 and name ~ "bo"'`)
	cmd.Flags().String("sort", "", "Sort by a column, e.g. age or age:desc")
	cmd.Flags().String("columns", "", "Comma-separated columns to show, in display order")
	cmd.Flags().String("layout", "", "Render surface: fixed or virtual (default from config)")
	cmd.Flags().Int("page-size", 0, "Rows in the render window (default from config)")
	cmd.Flags().Bool("json", false, "Output results as JSON array")
	cmd.Flags().Bool("raw", false, "Output raw values without formatting (for piping)")
	cmd.Flags().Bool("no-pager", false, "Disable interactive table view")
}

func readTableFlags(cmd *cobra.Command) tableFlags {
	var f tableFlags
	f.filter, _ = cmd.Flags().GetString("filter")
	f.sort, _ = cmd.Flags().GetString("sort")
	f.columns, _ = cmd.Flags().GetString("columns")
	f.layout, _ = cmd.Flags().GetString("layout")
	f.pageSize, _ = cmd.Flags().GetInt("page-size")
	f.display.JSON, _ = cmd.Flags().GetBool("json")
	f.display.Raw, _ = cmd.Flags().GetBool("raw")
	f.display.NoPager, _ = cmd.Flags().GetBool("no-pager")
	return f
}

// effectiveConfig returns a copy of the loaded config with the layout and
// page size flags applied. Flag values go through the same validation as
// the config file.
func (a *app) effectiveConfig(f tableFlags) (*config.Config, error) {
	cfg := *a.cfg
	if f.layout != "" {
		if err := cfg.SetValue("table.layout", f.layout); err != nil {
			return nil, util.NewError("Invalid --layout").
				WithContext(f.layout).
				WithMessage(err.Error()).
				WithSuggestions("gridview view data.json --layout virtual").
				Wrap(err)
		}
	}
	if f.pageSize != 0 {
		if err := cfg.SetValue("table.page_size", strconv.Itoa(f.pageSize)); err != nil {
			return nil, util.NewError("Invalid --page-size").
				WithContext(strconv.Itoa(f.pageSize)).
				WithMessage(err.Error()).
				Wrap(err)
		}
	}
	return &cfg, nil
}

func (a *app) viewOptions(cfg *config.Config, title string) table.ViewOptions {
	return table.ViewOptions{
		Title:           title,
		Striped:         cfg.Table.Striped,
		Hover:           cfg.Table.Hover,
		HorizontalLines: cfg.Table.HorizontalLines,
		VerticalLines:   cfg.Table.VerticalLines,
		ControlBar:      cfg.Table.ControlBar,
		PageSize:        cfg.Table.PageSize,
		MaxColumnWidth:  cfg.Table.MaxColumnWidth,
		WheelColumns:    cfg.Scroll.WheelColumns,
		Logger:          a.log,
	}
}

func (a *app) gridOptions(cfg *config.Config, cols []grid.Column) grid.Options {
	return grid.Options{
		Columns:       cols,
		PageSize:      cfg.Table.PageSize,
		Layout:        cfg.LayoutMode(),
		Zoom:          cfg.GridZoom(),
		MinThumb:      cfg.Scroll.MinThumb,
		EdgeThreshold: cfg.Scroll.EdgeThreshold,
		DragThreshold: cfg.Scroll.DragThreshold,
		ColumnGap:     cfg.Table.ColumnGap,
		OnCountChange: func(n int) {
			a.log.With("rows", n).Debug("row count changed")
		},
		OnColumnsChange: func(visible []string) {
			a.log.With("columns", visible).Debug("visible columns changed")
		},
		Logger: a.log,
	}
}

// buildTable creates the grid for rows and applies the --columns, --filter
// and --sort flags. cols may be nil to infer columns from the rows.
func (a *app) buildTable(rows []grid.Row, cols []grid.Column, title string, f tableFlags) (*grid.Table, table.ViewOptions, error) {
	cfg, err := a.effectiveConfig(f)
	if err != nil {
		return nil, table.ViewOptions{}, err
	}
	view := a.viewOptions(cfg, title)
	t := table.NewGrid(rows, a.gridOptions(cfg, cols), view)
	if err := applyTableFlags(t, f); err != nil {
		return nil, view, err
	}
	return t, view, nil
}

func applyTableFlags(t *grid.Table, f tableFlags) error {
	if f.columns != "" {
		keys, err := resolveColumns(t, strings.Split(f.columns, ","))
		if err != nil {
			return err
		}
		showColumns(t, keys)
	}

	if f.filter != "" {
		if err := t.ApplyFilter(f.filter); err != nil {
			return util.InvalidFilterError(f.filter, err)
		}
	}

	if f.sort != "" {
		s, err := grid.ParseSort(f.sort)
		if err != nil {
			return util.InvalidSortError(f.sort, err)
		}
		key, err := resolveColumn(t, s.Column)
		if err != nil {
			return util.InvalidSortError(f.sort, err)
		}
		s.Column = key
		t.SetSort(s)
	}
	return nil
}

// showColumns makes exactly keys visible, in the given order.
func showColumns(t *grid.Table, keys []string) {
	t.SetVisibleColumns(keys)
	for i, key := range keys {
		visible := t.VisibleColumns()
		if i < len(visible) && visible[i] != key {
			t.MoveColumn(key, visible[i])
		}
	}
}

func resolveColumns(t *grid.Table, names []string) ([]string, error) {
	var keys []string
	seen := make(map[string]bool)
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key, err := resolveColumn(t, name)
		if err != nil {
			return nil, err
		}
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// resolveColumn matches name against column keys exactly, then against
// keys and labels ignoring case.
func resolveColumn(t *grid.Table, name string) (string, error) {
	if c, ok := t.Column(name); ok {
		return c.Key, nil
	}
	var available []string
	for _, c := range t.Columns() {
		if strings.EqualFold(c.Key, name) || strings.EqualFold(c.Label, name) {
			return c.Key, nil
		}
		available = append(available, c.Key)
	}
	return "", util.UnknownColumnError(name, available)
}
