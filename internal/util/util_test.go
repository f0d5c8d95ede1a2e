package util

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"
)

func TestGridErrorFormat(t *testing.T) {
	t.Parallel()

	base := errors.New("connection refused")
	err := DatabaseConnectionError("postgres://bob:secret@db:5432/app", base)

	require.ErrorIs(t, err, base)
	out := err.Format()
	require.Contains(t, out, "Error: Cannot connect to database")
	require.Contains(t, out, "postgres://bob:***@db:5432/app")
	require.NotContains(t, out, "secret")
	require.Contains(t, out, "Possible causes:")
	require.Contains(t, out, "$ gridview sql")
}

func TestUnsupportedFormatError(t *testing.T) {
	t.Parallel()

	err := UnsupportedFormatError("data.xls")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	require.Contains(t, err.Error(), "Unsupported data format")
}

func TestRedactURL(t *testing.T) {
	t.Parallel()

	require.Equal(t, "postgres://u:***@h/db", RedactURL("postgres://u:p@h/db"))
	require.Equal(t, "postgres://u@h/db", RedactURL("postgres://u@h/db"))
	require.Equal(t, "host=x", RedactURL("host=x"))
}

func TestIDSourceIsMonotonic(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	ids := NewIDSource(func() time.Time { return fixed })

	a, b := ids.Next(), ids.Next()
	require.Less(t, a, b)

	u, err := ulid.ParseStrict(a)
	require.NoError(t, err)
	require.True(t, fixed.Equal(ulid.Time(u.Time())))

	require.NotEqual(t, NewULID(), NewULID())
}

func TestToValidUTF8(t *testing.T) {
	t.Parallel()

	require.Equal(t, "plain", ToValidUTF8("plain"))
	require.Equal(t, "café", ToValidUTF8("caf\xe9"))
	require.Equal(t, "ü", ToValidUTF8("\xfc"))
}

func TestCleanText(t *testing.T) {
	t.Parallel()

	require.Equal(t, "a\tb\nc", CleanText("a\tb\nc"))
	require.Equal(t, "[31mred", CleanText("\x1b[31mred"))
	require.Equal(t, "naïve", CleanText("na\xefve\x00"))
}

func TestPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_STATE_HOME", "/tmp/state")

	p, err := ConfigPath()
	require.NoError(t, err)
	require.Equal(t, filepath.Join("/tmp/cfg", "gridview", "config.toml"), p)

	l, err := DefaultLogPath()
	require.NoError(t, err)
	require.Equal(t, filepath.Join("/tmp/state", "gridview", "gridview.log"), l)

	require.Equal(t, "yaml", Extension("A/B.YAML"))
	require.Equal(t, "/abs", ExpandHome("/abs"))
}

func TestFormatting(t *testing.T) {
	t.Parallel()

	require.Equal(t, "2024-03-01", FormatTimestamp(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, "2024-03-01T10:30:00Z", FormatTimestamp(time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)))
	require.Equal(t, "", FormatTimestamp(time.Time{}))
	require.Equal(t, "42ms", FormatElapsed(42*time.Millisecond))
	require.Equal(t, "1.5s", FormatElapsed(1500*time.Millisecond))
}
