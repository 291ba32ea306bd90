package supabase

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// SelectParams describes a read against one table.
type SelectParams struct {
	Table      string
	Columns    []string       // empty means all columns
	Filter     map[string]any // equality conjunction; nil values match IS NULL
	OrderBy    string
	Descending bool
	Limit      int
}

// InsertParams describes a single-record insert.
type InsertParams struct {
	Table  string
	Record map[string]any
}

// UpdateParams describes a filtered update.
type UpdateParams struct {
	Table  string
	Set    map[string]any
	Filter map[string]any
}

// DeleteParams describes a filtered delete.
type DeleteParams struct {
	Table  string
	Filter map[string]any
}

// Select returns the matching rows as column-name keyed maps.
func (c *Client) Select(ctx context.Context, p SelectParams) ([]map[string]any, error) {
	sql, args, err := buildSelect(c.schema, p)
	if err != nil {
		return nil, err
	}

	c.log.Debug("select", "table", p.Table, "limit", p.Limit)

	return c.queryRows(ctx, sql, args...)
}

// Insert writes one record and returns it as stored, defaults applied.
func (c *Client) Insert(ctx context.Context, p InsertParams) (map[string]any, error) {
	sql, args, err := buildInsert(c.schema, p)
	if err != nil {
		return nil, err
	}

	c.log.Debug("insert", "table", p.Table)

	rows, err := c.queryRows(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("insert into %s returned no row", p.Table)
	}

	return rows[0], nil
}

// Update applies the set clause to every row matching the filter and returns
// the updated rows.
func (c *Client) Update(ctx context.Context, p UpdateParams) ([]map[string]any, error) {
	sql, args, err := buildUpdate(c.schema, p)
	if err != nil {
		return nil, err
	}

	c.log.Debug("update", "table", p.Table)

	return c.queryRows(ctx, sql, args...)
}

// Delete removes every row matching the filter and returns the count removed.
func (c *Client) Delete(ctx context.Context, p DeleteParams) (int64, error) {
	sql, args, err := buildDelete(c.schema, p)
	if err != nil {
		return 0, err
	}

	c.log.Debug("delete", "table", p.Table)

	tag, err := c.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

// quoteIdent quotes a Postgres identifier, doubling embedded quotes so table
// and column names can never break out of their position in the statement.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func qualifiedTable(schema, table string) (string, error) {
	if table == "" {
		return "", fmt.Errorf("table name is required")
	}

	return quoteIdent(schema) + "." + quoteIdent(table), nil
}

// sortedKeys returns the map keys in a stable order so generated SQL is
// deterministic regardless of map iteration order.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// buildWhere appends an equality conjunction for filter, numbering the
// placeholders from next. Nil values become IS NULL tests.
func buildWhere(sb *strings.Builder, filter map[string]any, args []any, next int) []any {
	sb.WriteString(" WHERE ")

	for i, key := range sortedKeys(filter) {
		if i > 0 {
			sb.WriteString(" AND ")
		}

		value := filter[key]
		if value == nil {
			sb.WriteString(quoteIdent(key) + " IS NULL")
			continue
		}

		args = append(args, value)
		fmt.Fprintf(sb, "%s = $%d", quoteIdent(key), next)
		next++
	}

	return args
}

func buildSelect(schema string, p SelectParams) (string, []any, error) {
	table, err := qualifiedTable(schema, p.Table)
	if err != nil {
		return "", nil, err
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")

	if len(p.Columns) == 0 {
		sb.WriteString("*")
	} else {
		for i, col := range p.Columns {
			if i > 0 {
				sb.WriteString(", ")
			}

			sb.WriteString(quoteIdent(col))
		}
	}

	sb.WriteString(" FROM " + table)

	var args []any
	if len(p.Filter) > 0 {
		args = buildWhere(&sb, p.Filter, args, 1)
	}

	if p.OrderBy != "" {
		sb.WriteString(" ORDER BY " + quoteIdent(p.OrderBy))
		if p.Descending {
			sb.WriteString(" DESC")
		}
	}

	if p.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", p.Limit)
	}

	return sb.String(), args, nil
}

func buildInsert(schema string, p InsertParams) (string, []any, error) {
	table, err := qualifiedTable(schema, p.Table)
	if err != nil {
		return "", nil, err
	}

	if len(p.Record) == 0 {
		return "", nil, fmt.Errorf("record is required")
	}

	keys := sortedKeys(p.Record)
	args := make([]any, 0, len(keys))

	var sb strings.Builder
	sb.WriteString("INSERT INTO " + table + " (")

	for i, key := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(quoteIdent(key))
	}

	sb.WriteString(") VALUES (")

	for i, key := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}

		args = append(args, p.Record[key])
		fmt.Fprintf(&sb, "$%d", i+1)
	}

	sb.WriteString(") RETURNING *")

	return sb.String(), args, nil
}

func buildUpdate(schema string, p UpdateParams) (string, []any, error) {
	table, err := qualifiedTable(schema, p.Table)
	if err != nil {
		return "", nil, err
	}

	if len(p.Set) == 0 {
		return "", nil, fmt.Errorf("set clause is required")
	}

	if len(p.Filter) == 0 {
		return "", nil, fmt.Errorf("%w: refusing to update every row in %s", ErrEmptyFilter, p.Table)
	}

	keys := sortedKeys(p.Set)
	args := make([]any, 0, len(keys)+len(p.Filter))

	var sb strings.Builder
	sb.WriteString("UPDATE " + table + " SET ")

	for i, key := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}

		args = append(args, p.Set[key])
		fmt.Fprintf(&sb, "%s = $%d", quoteIdent(key), i+1)
	}

	args = buildWhere(&sb, p.Filter, args, len(keys)+1)
	sb.WriteString(" RETURNING *")

	return sb.String(), args, nil
}

func buildDelete(schema string, p DeleteParams) (string, []any, error) {
	table, err := qualifiedTable(schema, p.Table)
	if err != nil {
		return "", nil, err
	}

	if len(p.Filter) == 0 {
		return "", nil, fmt.Errorf("%w: refusing to delete every row in %s", ErrEmptyFilter, p.Table)
	}

	var sb strings.Builder
	sb.WriteString("DELETE FROM " + table)

	args := buildWhere(&sb, p.Filter, nil, 1)

	return sb.String(), args, nil
}
