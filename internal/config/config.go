package config

import (
	"github.com/imgajeed76/gridview/internal/grid"
)

// Config represents the gridview config file
type Config struct {
	Table  TableConfig  `toml:"table" yaml:"table"`
	Zoom   ZoomConfig   `toml:"zoom" yaml:"zoom"`
	Scroll ScrollConfig `toml:"scroll" yaml:"scroll"`
	Log    LogConfig    `toml:"log" yaml:"log"`
}

// TableConfig contains table appearance and paging settings
type TableConfig struct {
	PageSize        int    `toml:"page_size" yaml:"page_size" config:"table.page_size" default:"15" min:"1" max:"10000" desc:"Rows in the render window" validate:"min=1,max=10000"`
	Layout          string `toml:"layout" yaml:"layout" config:"table.layout" default:"fixed" desc:"Render surface: fixed or virtual" validate:"oneof=fixed virtual"`
	Striped         bool   `toml:"striped" yaml:"striped" config:"table.striped" default:"true" desc:"Alternate row background"`
	Hover           bool   `toml:"hover" yaml:"hover" config:"table.hover" default:"true" desc:"Highlight the row under the cursor"`
	HorizontalLines bool   `toml:"horizontal_lines" yaml:"horizontal_lines" config:"table.horizontal_lines" default:"false" desc:"Draw lines between rows"`
	VerticalLines   bool   `toml:"vertical_lines" yaml:"vertical_lines" config:"table.vertical_lines" default:"true" desc:"Draw lines between columns"`
	ControlBar      bool   `toml:"control_bar" yaml:"control_bar" config:"table.control_bar" default:"true" desc:"Show the filter and column control bar"`
	ColumnGap       int    `toml:"column_gap" yaml:"column_gap" config:"table.column_gap" default:"2" min:"1" max:"8" desc:"Spacing between columns" validate:"min=1,max=8"`
	MaxColumnWidth  int    `toml:"max_column_width" yaml:"max_column_width" config:"table.max_column_width" default:"40" min:"4" max:"500" desc:"Widest a measured column may grow" validate:"min=4,max=500"`
}

// ZoomConfig contains zoom range settings
type ZoomConfig struct {
	Level float64 `toml:"level" yaml:"level" config:"zoom.level" default:"1" desc:"Initial zoom factor" validate:"gtefield=Min,ltefield=Max"`
	Min   float64 `toml:"min" yaml:"min" config:"zoom.min" default:"0.5" desc:"Smallest zoom factor" validate:"gt=0,ltefield=Max"`
	Max   float64 `toml:"max" yaml:"max" config:"zoom.max" default:"2" desc:"Largest zoom factor" validate:"gt=0,lte=10"`
	Step  float64 `toml:"step" yaml:"step" config:"zoom.step" default:"0.1" desc:"Zoom change per step" validate:"gt=0,lte=1"`
}

// ScrollConfig contains scrolling and scrollbar settings
type ScrollConfig struct {
	MinThumb      float64 `toml:"min_thumb" yaml:"min_thumb" config:"scroll.min_thumb" default:"0.1" desc:"Smallest scrollbar thumb as a track fraction" validate:"gt=0,lte=1"`
	EdgeThreshold float64 `toml:"edge_threshold" yaml:"edge_threshold" config:"scroll.edge_threshold" default:"1" desc:"Rows from the edge that advance the window" validate:"gte=0"`
	DragThreshold float64 `toml:"drag_threshold" yaml:"drag_threshold" config:"scroll.drag_threshold" default:"0.5" desc:"Drag distance per row shift" validate:"gt=0"`
	WheelColumns  int     `toml:"wheel_columns" yaml:"wheel_columns" config:"scroll.wheel_columns" default:"4" min:"1" max:"100" desc:"Cells per horizontal wheel tick" validate:"min=1,max=100"`
}

// LogConfig contains logging settings
type LogConfig struct {
	File  string `toml:"file" yaml:"file" config:"log.file" desc:"Log file (empty = no logging)"`
	Level string `toml:"level" yaml:"level" config:"log.level" default:"info" desc:"Log level: debug, info, warn or error" validate:"oneof=debug info warn error"`
}

// DefaultConfig returns a new config with default values
func DefaultConfig() *Config {
	zoom := grid.DefaultZoom()
	return &Config{
		Table: TableConfig{
			PageSize:       grid.DefaultPageSize,
			Layout:         string(grid.LayoutFixed),
			Striped:        true,
			Hover:          true,
			VerticalLines:  true,
			ControlBar:     true,
			ColumnGap:      2,
			MaxColumnWidth: 40,
		},
		Zoom: ZoomConfig{
			Level: zoom.Level,
			Min:   zoom.Min,
			Max:   zoom.Max,
			Step:  zoom.Step,
		},
		Scroll: ScrollConfig{
			MinThumb:      grid.DefaultMinThumb,
			EdgeThreshold: 1,
			DragThreshold: 0.5,
			WheelColumns:  4,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// GridZoom returns the zoom settings as a grid.Zoom.
func (c *Config) GridZoom() grid.Zoom {
	return grid.Zoom{Level: c.Zoom.Level, Min: c.Zoom.Min, Max: c.Zoom.Max, Step: c.Zoom.Step}.Normalized()
}

// LayoutMode returns the configured render surface.
func (c *Config) LayoutMode() grid.LayoutMode {
	return grid.LayoutMode(c.Table.Layout)
}

// GetValue returns a config value by key (uses reflection)
func (c *Config) GetValue(key string) (string, bool) {
	return getFieldValue(c, key)
}

// SetValue sets a config value by key. The whole config is re-validated
// and the change is rolled back when it fails.
func (c *Config) SetValue(key, value string) error {
	before := *c
	if err := setFieldValue(c, key, value); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		*c = before
		return err
	}
	return nil
}
