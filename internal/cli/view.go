package cli

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/imgajeed76/gridview/internal/source"
	"github.com/imgajeed76/gridview/internal/ui"
	"github.com/imgajeed76/gridview/internal/ui/table"
	"github.com/imgajeed76/gridview/internal/util"
)

func newViewCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "view <file>",
		Aliases: []string{"open"},
		Short:   "Show a JSON, YAML, CSV or TSV file as a table",
		Long: `Show a data file as an interactive table.

The file must hold a list of records: a JSON or YAML array of objects,
JSON lines, or CSV/TSV with a header row. Use - to read standard input.

Filter expressions combine conditions left to right with and/or:
  age > 25 and name ~ "bo"
  status = active or status = pending
  price between 10, 20
  "unit price" = "$5"

Quote column names and values that contain spaces or operator characters.
Operators: = != ~ (contains) !~ ^= (starts with) $= (ends with) > < between`,
		Example: `  gridview view people.json
  gridview view orders.csv --sort total:desc --filter 'total > 100'
  cat data.jsonl | gridview view - --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runView(cmd, args)
		},
	}

	addTableFlags(cmd)
	cmd.Flags().String("format", "", "Input format: json, jsonl, yaml, csv or tsv (default: detect)")
	cmd.Flags().Bool("no-infer", false, "Keep CSV and TSV fields as text")
	cmd.Flags().String("title", "", "Title shown above the table (default: file name)")

	return cmd
}

func (a *app) runView(cmd *cobra.Command, args []string) error {
	switch {
	case len(args) == 0:
		return util.MissingArgumentError("file", "gridview view data.json")
	case len(args) > 1:
		return util.TooManyArgumentsError(1, len(args))
	}
	path := args[0]

	formatName, _ := cmd.Flags().GetString("format")
	noInfer, _ := cmd.Flags().GetBool("no-infer")
	title, _ := cmd.Flags().GetString("title")
	flags := readTableFlags(cmd)

	format, err := source.ParseFormat(formatName)
	if err != nil {
		return util.UnsupportedFormatError(path).WithMessage(err.Error())
	}

	if title == "" {
		title = filepath.Base(path)
		if path == "-" {
			title = "stdin"
		}
	}

	spin := ui.NewSpinner("Loading " + title)
	spin.Start()
	start := time.Now()
	rows, err := source.ReadFile(path, format, source.Options{Infer: !noInfer})
	spin.Stop()
	if err != nil {
		return err
	}
	a.log.WithFields(map[string]any{
		"path":    path,
		"rows":    len(rows),
		"elapsed": util.FormatElapsed(time.Since(start)),
	}).Info("loaded rows")

	t, view, err := a.buildTable(rows, nil, title, flags)
	if err != nil {
		return err
	}
	return table.DisplayResultsTo(cmd.OutOrStdout(), t, view, flags.display)
}
