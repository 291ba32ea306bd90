package supabase

import (
	"context"
	"fmt"
)

// Column describes one column of a table as reported by the catalog.
type Column struct {
	Name     string  `json:"name"`
	DataType string  `json:"dataType"`
	Nullable bool    `json:"nullable"`
	Default  *string `json:"default,omitempty"`
}

const listTablesSQL = `
SELECT table_name
FROM information_schema.tables
WHERE table_schema = $1 AND table_type = 'BASE TABLE'
ORDER BY table_name`

const tableColumnsSQL = `
SELECT column_name, data_type, is_nullable, column_default
FROM information_schema.columns
WHERE table_schema = $1 AND table_name = $2
ORDER BY ordinal_position`

// ListTables returns the names of the base tables in the client's schema.
func (c *Client) ListTables(ctx context.Context) ([]string, error) {
	rows, err := c.queryRows(ctx, listTablesSQL, c.schema)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		if name, ok := row["table_name"].(string); ok {
			names = append(names, name)
		}
	}

	return names, nil
}

// TableSchema returns the column definitions of the named table, or
// ErrUnknownTable when the catalog has no columns for it.
func (c *Client) TableSchema(ctx context.Context, table string) ([]Column, error) {
	rows, err := c.queryRows(ctx, tableColumnsSQL, c.schema, table)
	if err != nil {
		return nil, fmt.Errorf("describing table %s: %w", table, err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownTable, c.schema, table)
	}

	columns := make([]Column, 0, len(rows))
	for _, row := range rows {
		col := Column{}
		col.Name, _ = row["column_name"].(string)
		col.DataType, _ = row["data_type"].(string)

		if nullable, ok := row["is_nullable"].(string); ok {
			col.Nullable = nullable == "YES"
		}

		if def, ok := row["column_default"].(string); ok {
			col.Default = &def
		}

		columns = append(columns, col)
	}

	return columns, nil
}
