// Package tools registers the Supabase CRUD and schema tools against a
// protocol registry. The data backend is consumed through the narrow Backend
// interface so tool handlers never depend on how the connection is made.
package tools

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/mamenendez92/mcp-supabase-native/internal/protocol"
	"github.com/mamenendez92/mcp-supabase-native/internal/supabase"
)

// Backend is the surface the tools need from the data layer.
type Backend interface {
	ListTables(ctx context.Context) ([]string, error)
	TableSchema(ctx context.Context, table string) ([]supabase.Column, error)
	Select(ctx context.Context, p supabase.SelectParams) ([]map[string]any, error)
	Insert(ctx context.Context, p supabase.InsertParams) (map[string]any, error)
	Update(ctx context.Context, p supabase.UpdateParams) ([]map[string]any, error)
	Delete(ctx context.Context, p supabase.DeleteParams) (int64, error)
}

// Compile-time verification that the real client satisfies Backend.
var _ Backend = (*supabase.Client)(nil)

// Options controls which tools are registered.
type Options struct {
	// ReadOnly skips the insert/update/delete tools, leaving only the
	// read and schema inspection tools.
	ReadOnly bool
}

// Register wires the Supabase tools into the registry. Registration happens
// once during startup; a duplicate name is a wiring bug and fails loudly.
func Register(reg *protocol.Registry, backend Backend, opts Options) error {
	all := []*protocol.Tool{
		listTablesTool(backend),
		tableSchemaTool(backend),
		queryRecordsTool(backend),
	}

	if !opts.ReadOnly {
		all = append(all,
			insertRecordTool(backend),
			updateRecordTool(backend),
			deleteRecordTool(backend),
		)
	}

	for _, tool := range all {
		if err := reg.Register(tool); err != nil {
			return fmt.Errorf("registering tool %s: %w", tool.Name, err)
		}
	}

	return nil
}

func listTablesTool(backend Backend) *protocol.Tool {
	return &protocol.Tool{
		Name:        "list_tables",
		Description: "List the tables available in the database schema.",
		InputSchema: &jsonschema.Schema{Type: "object"},
		Handler: func(ctx context.Context, _ map[string]any) (any, error) {
			tables, err := backend.ListTables(ctx)
			if err != nil {
				return nil, err
			}

			return map[string]any{"tables": tables}, nil
		},
	}
}

func tableSchemaTool(backend Backend) *protocol.Tool {
	return &protocol.Tool{
		Name:        "get_table_schema",
		Description: "Describe the columns of a table: name, type, nullability, and default.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"table": {Type: "string", Description: "Table name"},
			},
			Required: []string{"table"},
		},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			table, err := stringArg(args, "table")
			if err != nil {
				return nil, err
			}

			columns, err := backend.TableSchema(ctx, table)
			if err != nil {
				return nil, err
			}

			return map[string]any{"table": table, "columns": columns}, nil
		},
	}
}

func queryRecordsTool(backend Backend) *protocol.Tool {
	return &protocol.Tool{
		Name:        "query_records",
		Description: "Read records from a table with optional column projection, equality filter, ordering, and limit.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"table":      {Type: "string", Description: "Table name"},
				"columns":    {Type: "array", Items: &jsonschema.Schema{Type: "string"}, Description: "Columns to return; all when omitted"},
				"filter":     {Type: "object", Description: "Column/value equality pairs combined with AND"},
				"order_by":   {Type: "string", Description: "Column to sort by"},
				"descending": {Type: "boolean", Description: "Sort descending"},
				"limit":      {Type: "integer", Description: "Maximum number of records"},
			},
			Required: []string{"table"},
		},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			table, err := stringArg(args, "table")
			if err != nil {
				return nil, err
			}

			columns, err := stringSliceArg(args, "columns")
			if err != nil {
				return nil, err
			}

			records, err := backend.Select(ctx, supabase.SelectParams{
				Table:      table,
				Columns:    columns,
				Filter:     mapArg(args, "filter"),
				OrderBy:    optionalStringArg(args, "order_by"),
				Descending: boolArg(args, "descending"),
				Limit:      intArg(args, "limit"),
			})
			if err != nil {
				return nil, err
			}

			return map[string]any{"records": records, "count": len(records)}, nil
		},
	}
}

func insertRecordTool(backend Backend) *protocol.Tool {
	return &protocol.Tool{
		Name:        "insert_record",
		Description: "Insert one record into a table and return it as stored.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"table":  {Type: "string", Description: "Table name"},
				"record": {Type: "object", Description: "Column/value pairs to insert"},
			},
			Required: []string{"table", "record"},
		},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			table, err := stringArg(args, "table")
			if err != nil {
				return nil, err
			}

			record, err := backend.Insert(ctx, supabase.InsertParams{
				Table:  table,
				Record: mapArg(args, "record"),
			})
			if err != nil {
				return nil, err
			}

			return map[string]any{"record": record}, nil
		},
	}
}

func updateRecordTool(backend Backend) *protocol.Tool {
	return &protocol.Tool{
		Name:        "update_record",
		Description: "Update the records matching an equality filter and return them.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"table":  {Type: "string", Description: "Table name"},
				"set":    {Type: "object", Description: "Column/value pairs to apply"},
				"filter": {Type: "object", Description: "Column/value equality pairs selecting rows; required"},
			},
			Required: []string{"table", "set", "filter"},
		},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			table, err := stringArg(args, "table")
			if err != nil {
				return nil, err
			}

			records, err := backend.Update(ctx, supabase.UpdateParams{
				Table:  table,
				Set:    mapArg(args, "set"),
				Filter: mapArg(args, "filter"),
			})
			if err != nil {
				return nil, err
			}

			return map[string]any{"records": records, "count": len(records)}, nil
		},
	}
}

func deleteRecordTool(backend Backend) *protocol.Tool {
	return &protocol.Tool{
		Name:        "delete_record",
		Description: "Delete the records matching an equality filter and return how many were removed.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"table":  {Type: "string", Description: "Table name"},
				"filter": {Type: "object", Description: "Column/value equality pairs selecting rows; required"},
			},
			Required: []string{"table", "filter"},
		},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			table, err := stringArg(args, "table")
			if err != nil {
				return nil, err
			}

			deleted, err := backend.Delete(ctx, supabase.DeleteParams{
				Table:  table,
				Filter: mapArg(args, "filter"),
			})
			if err != nil {
				return nil, err
			}

			return map[string]any{"deleted": deleted}, nil
		},
	}
}
