// Package source loads rows for the grid from files and databases. Row key
// order always follows the input: object key order for JSON and YAML, the
// header for CSV, the select list for SQL.
package source

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/imgajeed76/gridview/internal/grid"
	"github.com/imgajeed76/gridview/internal/util"
)

// Format names an input encoding.
type Format string

const (
	FormatAuto  Format = ""
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
	FormatCSV   Format = "csv"
	FormatTSV   Format = "tsv"
)

// Formats lists the formats accepted by ParseFormat.
var Formats = []Format{FormatJSON, FormatJSONL, FormatYAML, FormatCSV, FormatTSV}

// Options control decoding.
type Options struct {
	// Infer turns CSV/TSV fields that look like numbers or booleans into
	// typed values so they sort numerically.
	Infer bool
}

// ParseFormat parses a --format value. The empty string means auto-detect.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "auto":
		return FormatAuto, nil
	case "yml":
		return FormatYAML, nil
	case "ndjson":
		return FormatJSONL, nil
	}
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return FormatAuto, fmt.Errorf("%w: %q", util.ErrUnsupportedFormat, s)
}

// DetectFormat picks a format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch util.Extension(path) {
	case "json":
		return FormatJSON, nil
	case "jsonl", "ndjson":
		return FormatJSONL, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	case "tsv", "tab":
		return FormatTSV, nil
	}
	return FormatAuto, util.UnsupportedFormatError(path)
}

// sniff guesses the format of data read from a pipe.
func sniff(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return FormatJSON
	}
	switch trimmed[0] {
	case '[':
		return FormatJSON
	case '{':
		if bytes.Contains(trimmed, []byte("}\n{")) || bytes.Contains(trimmed, []byte("}\r\n{")) {
			return FormatJSONL
		}
		return FormatJSON
	}
	firstLine, _, _ := bytes.Cut(trimmed, []byte("\n"))
	switch {
	case bytes.Contains(firstLine, []byte("\t")):
		return FormatTSV
	case bytes.HasPrefix(trimmed, []byte("- ")), bytes.HasPrefix(trimmed, []byte("---")):
		return FormatYAML
	case bytes.Contains(firstLine, []byte(",")):
		return FormatCSV
	}
	return FormatYAML
}

// ReadFile loads rows from path. "-" reads standard input, in which case an
// auto format is guessed from the content.
func ReadFile(path string, f Format, opts Options) ([]grid.Row, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		if f == FormatAuto {
			if f, err = DetectFormat(path); err != nil {
				return nil, err
			}
		}
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, util.ReadDataError(path, err)
	}

	if f == FormatAuto {
		f = sniff(data)
	}
	rows, err := Decode(bytes.NewReader(data), f, opts)
	if err != nil {
		return nil, util.ReadDataError(path, err)
	}
	return rows, nil
}

// Decode reads rows in the given format.
func Decode(r io.Reader, f Format, opts Options) ([]grid.Row, error) {
	switch f {
	case FormatJSON, FormatYAML:
		return decodeDocument(r)
	case FormatJSONL:
		return decodeLines(r)
	case FormatCSV:
		return decodeDelimited(r, ',', opts)
	case FormatTSV:
		return decodeDelimited(r, '\t', opts)
	}
	return nil, fmt.Errorf("%w: %q", util.ErrUnsupportedFormat, f)
}
