package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type logEntry map[string]any

func TestLoggerInfoWithFields(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "info", Writer: buf})
	require.NoError(t, err)

	log = log.WithFields(map[string]any{"component": "grid", "rows": 3})
	log.Info("rows loaded")

	var entry logEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "rows loaded", entry["message"])
	require.Equal(t, "grid", entry["component"])
	require.EqualValues(t, 3, entry["rows"])
	require.Equal(t, "info", entry["level"])
}

func TestLoggerDebugRespectsLevel(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "info", Writer: buf})
	require.NoError(t, err)

	log.Debug("this should not appear")
	require.Equal(t, "", strings.TrimSpace(buf.String()))
}

func TestLoggerWarnErrIncludesError(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "debug", Writer: buf})
	require.NoError(t, err)

	log.With("condition", "age greater_than x").WarnErr(errors.New("value is not a number"), "filter warning")

	var entry logEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "warn", entry["level"])
	require.Equal(t, "value is not a number", entry["error"])
	require.Equal(t, "age greater_than x", entry["condition"])
}

func TestLoggerRejectsBadLevel(t *testing.T) {
	t.Parallel()

	_, err := New(Options{Level: "loud", Writer: &bytes.Buffer{}})
	require.Error(t, err)
}

func TestNilAndNopLoggersDiscard(t *testing.T) {
	t.Parallel()

	var nilLog *Logger
	require.NotPanics(t, func() {
		nilLog.Info("x")
		nilLog.Error(errors.New("boom"), "x")
		require.Nil(t, nilLog.WithFields(map[string]any{"a": 1}))
	})

	log, err := New(Options{})
	require.NoError(t, err)
	require.NotPanics(t, func() { log.Warn("discarded") })
}

func TestOpenFileAppends(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "gridview.log")
	log, closeFn, err := OpenFile(path, "debug")
	require.NoError(t, err)
	log.Info("first")
	log.Debug("second")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
}
