package source

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/imgajeed76/gridview/internal/grid"
	"github.com/imgajeed76/gridview/internal/util"
)

// ValueKey is the column used for list elements that are not records.
const ValueKey = "value"

// decodeDocument reads one JSON or YAML document. yaml.v3 parses JSON as
// well and, unlike encoding/json into a map, keeps object keys in order.
//
// A list of records yields one row per record. A single record yields one
// row. A record whose first list-of-records field holds the data (as in
// {"items": [...]}) yields that list.
func decodeDocument(r io.Reader) ([]grid.Row, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode: %w", err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	return rowsFromNode(root)
}

// decodeLines reads one JSON value per line.
func decodeLines(r io.Reader) ([]grid.Row, error) {
	var rows []grid.Row
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 {
			continue
		}
		var node yaml.Node
		if err := yaml.Unmarshal(text, &node); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(node.Content) == 0 {
			continue
		}
		rows = append(rows, rowFromNode(node.Content[0]))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

func rowsFromNode(n *yaml.Node) ([]grid.Row, error) {
	n = resolveAlias(n)
	switch n.Kind {
	case yaml.SequenceNode:
		rows := make([]grid.Row, 0, len(n.Content))
		for _, item := range n.Content {
			rows = append(rows, rowFromNode(item))
		}
		return rows, nil
	case yaml.MappingNode:
		for i := 1; i < len(n.Content); i += 2 {
			if isRecordList(n.Content[i]) {
				return rowsFromNode(n.Content[i])
			}
		}
		return []grid.Row{rowFromNode(n)}, nil
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected a list of records, got %s", kindName(n))
}

func isRecordList(n *yaml.Node) bool {
	n = resolveAlias(n)
	if n.Kind != yaml.SequenceNode || len(n.Content) == 0 {
		return false
	}
	return resolveAlias(n.Content[0]).Kind == yaml.MappingNode
}

// rowFromNode turns a mapping into a row, keeping key order. Anything else
// becomes a one-cell row under ValueKey.
func rowFromNode(n *yaml.Node) grid.Row {
	n = resolveAlias(n)
	if n.Kind != yaml.MappingNode {
		return grid.RowOf(ValueKey, nodeValue(n))
	}
	keys := make([]string, 0, len(n.Content)/2)
	values := make(map[string]any, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := util.CleanText(n.Content[i].Value)
		if _, dup := values[k]; !dup {
			keys = append(keys, k)
		}
		values[k] = nodeValue(n.Content[i+1])
	}
	return grid.NewRow(keys, values)
}

// nodeValue converts a YAML node to a cell value: nil, bool, int64,
// float64, string, []any or map[string]any.
func nodeValue(n *yaml.Node) any {
	n = resolveAlias(n)
	switch n.Kind {
	case yaml.ScalarNode:
		return scalarValue(n)
	case yaml.SequenceNode:
		out := make([]any, len(n.Content))
		for i, item := range n.Content {
			out[i] = nodeValue(item)
		}
		return out
	case yaml.MappingNode:
		out := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			out[n.Content[i].Value] = nodeValue(n.Content[i+1])
		}
		return out
	}
	return nil
}

func scalarValue(n *yaml.Node) any {
	switch n.ShortTag() {
	case "!!null":
		return nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return b
		}
	case "!!int":
		if i, err := strconv.ParseInt(strings.ReplaceAll(n.Value, "_", ""), 0, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(n.Value, 64); err == nil {
			return f
		}
	case "!!float":
		var f float64
		if err := n.Decode(&f); err == nil && !math.IsNaN(f) {
			return f
		}
	}
	return util.CleanText(n.Value)
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		return "a scalar"
	case yaml.SequenceNode:
		return "a list"
	case yaml.MappingNode:
		return "a record"
	}
	return "an empty document"
}
