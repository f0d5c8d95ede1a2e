package config

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/imgajeed76/gridview/internal/grid"
	"github.com/imgajeed76/gridview/internal/util"
)

func TestDefaultsMatchTags(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	for _, f := range configFields() {
		if f.Default == "" {
			continue
		}
		got, ok := cfg.GetValue(f.Key)
		require.True(t, ok, f.Key)
		if f.Type == "float" {
			want, err := strconv.ParseFloat(f.Default, 64)
			require.NoError(t, err)
			have, err := strconv.ParseFloat(got, 64)
			require.NoError(t, err)
			require.InDelta(t, want, have, 1e-9, f.Key)
			continue
		}
		require.Equal(t, f.Default, got, f.Key)
	}
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestLoadTOMLOverlaysDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[table]
page_size = 30
layout = "virtual"

[zoom]
level = 1.5
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 30, cfg.Table.PageSize)
	require.Equal(t, grid.LayoutVirtual, cfg.LayoutMode())
	require.True(t, cfg.Table.Striped)
	require.Equal(t, 1.5, cfg.GridZoom().Level)
	require.Equal(t, 0.5, cfg.Zoom.Min)
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("table:\n  striped: false\nlog:\n  level: debug\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.False(t, cfg.Table.Striped)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, 15, cfg.Table.PageSize)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[table]\nlayout = \"grid\"\n[zoom]\nlevel = 5\n"), 0644))
	_, err := Load(bad)
	require.Error(t, err)
	require.Contains(t, err.Error(), "table.layout must be one of: fixed virtual")
	require.Contains(t, err.Error(), "zoom.level")

	unknown := filepath.Join(dir, "unknown.toml")
	require.NoError(t, os.WriteFile(unknown, []byte("[table]\nrows = 3\n"), 0644))
	_, err = Load(unknown)
	require.ErrorIs(t, err, util.ErrUnknownConfigKey)
}

func TestSetValue(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	require.NoError(t, cfg.SetValue("table.page_size", "40"))
	require.NoError(t, cfg.SetValue("layout", "virtual"))
	require.NoError(t, cfg.SetValue("table.striped", "false"))
	require.NoError(t, cfg.SetValue("zoom.step", "0.25"))

	v, ok := cfg.GetValue("page_size")
	require.True(t, ok)
	require.Equal(t, "40", v)
	require.Equal(t, "virtual", cfg.Table.Layout)
	require.False(t, cfg.Table.Striped)
	require.Equal(t, 0.25, cfg.Zoom.Step)

	require.Error(t, cfg.SetValue("table.page_size", "0"))
	require.Error(t, cfg.SetValue("table.page_size", "many"))
	require.ErrorIs(t, cfg.SetValue("table.nope", "1"), util.ErrUnknownConfigKey)

	// Validation failures roll back.
	require.Error(t, cfg.SetValue("zoom.level", "9"))
	require.Equal(t, 1.0, cfg.Zoom.Level)
	require.Error(t, cfg.SetValue("table.layout", "cards"))
	require.Equal(t, "virtual", cfg.Table.Layout)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"config.toml", "config.yml"} {
		path := filepath.Join(t.TempDir(), "nested", name)
		cfg := DefaultConfig()
		require.NoError(t, cfg.SetValue("table.page_size", "25"))
		require.NoError(t, cfg.SetValue("log.file", "/tmp/gv.log"))
		require.NoError(t, cfg.Save(path))

		loaded, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, cfg, loaded, name)
	}
}

func TestHelpText(t *testing.T) {
	t.Parallel()

	help := GenerateHelpText()
	require.Contains(t, help, "Table:")
	require.Contains(t, help, "table.page_size")
	require.Contains(t, help, "(default: 15)")
	require.Contains(t, ListKeys(), "scroll.min_thumb")
}
