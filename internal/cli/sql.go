package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/imgajeed76/gridview/internal/db"
	"github.com/imgajeed76/gridview/internal/source"
	"github.com/imgajeed76/gridview/internal/ui"
	"github.com/imgajeed76/gridview/internal/ui/table"
	"github.com/imgajeed76/gridview/internal/util"
)

func newSQLCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sql [query]",
		Short: "Run a PostgreSQL query and show the result as a table",
		Long: `Run a query against a PostgreSQL database and explore the result.

The connection URL comes from --url, or from GRIDVIEW_DATABASE_URL or
DATABASE_URL. Sessions are read-only unless --write is given.

Use --tables to list the tables of the database instead of running a
query. Filtering, sorting and column flags work as for 'gridview view'.`,
		Example: `  gridview sql --url postgres://localhost/shop "select * from orders"
  DATABASE_URL=postgres://localhost/shop gridview sql --tables
  gridview sql "select id, total from orders" --sort total:desc --raw`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSQL(cmd, args)
		},
	}

	addTableFlags(cmd)
	cmd.Flags().String("url", "", "PostgreSQL connection URL (default: $GRIDVIEW_DATABASE_URL or $DATABASE_URL)")
	cmd.Flags().Bool("tables", false, "List the tables of the database")
	cmd.Flags().Bool("write", false, "Allow write operations (INSERT, UPDATE, DELETE)")
	cmd.Flags().Int("timeout", 60, "Query timeout in seconds")

	return cmd
}

// databaseURL returns the --url flag or the first URL set in the
// environment.
func databaseURL(cmd *cobra.Command) string {
	if url, _ := cmd.Flags().GetString("url"); url != "" {
		return url
	}
	for _, env := range []string{"GRIDVIEW_DATABASE_URL", "DATABASE_URL"} {
		if url := os.Getenv(env); url != "" {
			return url
		}
	}
	return ""
}

func sqlQuery(listTables bool, args []string) (string, error) {
	switch {
	case listTables && len(args) > 0:
		return "", util.TooManyArgumentsError(0, len(args))
	case listTables:
		return db.TablesQuery, nil
	case len(args) == 0:
		return "", util.MissingArgumentError("query", `gridview sql "select * from orders"`).Wrap(util.ErrNoQuery)
	case len(args) > 1:
		return "", util.TooManyArgumentsError(1, len(args))
	}
	return args[0], nil
}

func (a *app) runSQL(cmd *cobra.Command, args []string) error {
	listTables, _ := cmd.Flags().GetBool("tables")
	allowWrite, _ := cmd.Flags().GetBool("write")
	timeout, _ := cmd.Flags().GetInt("timeout")
	flags := readTableFlags(cmd)

	query, err := sqlQuery(listTables, args)
	if err != nil {
		return err
	}

	url := databaseURL(cmd)
	if url == "" {
		return util.NewError("No database URL").
			WithMessage("Pass --url or set DATABASE_URL").
			WithSuggestions(`gridview sql --url postgres://user@host/db "select 1"`).
			Wrap(util.ErrNotConnected)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	limit := time.Duration(timeout) * time.Second
	if limit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, limit)
		defer cancel()
	}

	spin := ui.NewSpinner("Connecting to " + util.RedactURL(url))
	spin.Start()
	conn, err := db.Connect(ctx, url, db.Options{StatementTimeout: limit, ReadWrite: allowWrite})
	if err != nil {
		spin.Stop()
		return util.DatabaseConnectionError(url, err)
	}
	defer conn.Close()

	if version, err := conn.ServerVersion(ctx); err == nil {
		a.log.WithFields(map[string]any{"url": util.RedactURL(url), "server": version}).Debug("connected")
	}

	res, err := source.Query(ctx, conn, query)
	spin.Stop()
	if err != nil {
		e := util.NewError("Query failed").
			WithContext(table.Truncate(query, 80)).
			WithMessage(err.Error())
		if !allowWrite {
			e.WithCauses("Sessions are read-only unless --write is given")
		}
		return e.Wrap(err)
	}
	a.log.WithFields(map[string]any{
		"rows":    len(res.Rows),
		"columns": len(res.Columns),
		"elapsed": util.FormatElapsed(res.Elapsed),
	}).Info("query finished")

	title := "query"
	if listTables {
		title = "tables"
	}
	title = fmt.Sprintf("%s (%s)", title, util.FormatElapsed(res.Elapsed))

	t, view, err := a.buildTable(res.Rows, res.Columns, title, flags)
	if err != nil {
		return err
	}
	return table.DisplayResultsTo(cmd.OutOrStdout(), t, view, flags.display)
}
