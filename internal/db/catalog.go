package db

import "context"

// TablesQuery lists the user tables and views with their estimated row
// counts. It backs `gridview sql --tables`.
const TablesQuery = `
	SELECT n.nspname AS schema,
	       c.relname AS name,
	       CASE c.relkind WHEN 'r' THEN 'table' WHEN 'v' THEN 'view'
	                      WHEN 'm' THEN 'materialized view' WHEN 'p' THEN 'partitioned table'
	                      ELSE c.relkind::text END AS kind,
	       c.reltuples::bigint AS estimated_rows,
	       pg_total_relation_size(c.oid) AS total_bytes
	FROM pg_class c
	JOIN pg_namespace n ON n.oid = c.relnamespace
	WHERE c.relkind IN ('r', 'v', 'm', 'p')
	  AND n.nspname NOT IN ('pg_catalog', 'information_schema')
	  AND n.nspname NOT LIKE 'pg_toast%'
	ORDER BY n.nspname, c.relname
`

// ServerVersion returns the server's version string.
func (db *DB) ServerVersion(ctx context.Context) (string, error) {
	var v string
	if err := db.QueryRow(ctx, "SHOW server_version").Scan(&v); err != nil {
		return "", err
	}
	return v, nil
}
