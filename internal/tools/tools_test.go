package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mamenendez92/mcp-supabase-native/internal/protocol"
	"github.com/mamenendez92/mcp-supabase-native/internal/supabase"
)

// fakeBackend records the parameters of the last call and returns canned data.
type fakeBackend struct {
	tables     []string
	columns    []supabase.Column
	records    []map[string]any
	inserted   map[string]any
	deleted    int64
	err        error
	lastSelect supabase.SelectParams
	lastInsert supabase.InsertParams
	lastUpdate supabase.UpdateParams
	lastDelete supabase.DeleteParams
}

func (f *fakeBackend) ListTables(_ context.Context) ([]string, error) {
	return f.tables, f.err
}

func (f *fakeBackend) TableSchema(_ context.Context, _ string) ([]supabase.Column, error) {
	return f.columns, f.err
}

func (f *fakeBackend) Select(_ context.Context, p supabase.SelectParams) ([]map[string]any, error) {
	f.lastSelect = p
	return f.records, f.err
}

func (f *fakeBackend) Insert(_ context.Context, p supabase.InsertParams) (map[string]any, error) {
	f.lastInsert = p
	return f.inserted, f.err
}

func (f *fakeBackend) Update(_ context.Context, p supabase.UpdateParams) ([]map[string]any, error) {
	f.lastUpdate = p
	return f.records, f.err
}

func (f *fakeBackend) Delete(_ context.Context, p supabase.DeleteParams) (int64, error) {
	f.lastDelete = p
	return f.deleted, f.err
}

func registered(t *testing.T, backend Backend, opts Options) *protocol.Registry {
	t.Helper()

	reg := protocol.NewRegistry()
	require.NoError(t, Register(reg, backend, opts))

	return reg
}

func invoke(t *testing.T, reg *protocol.Registry, name string, args map[string]any) (any, error) {
	t.Helper()

	tool, ok := reg.Lookup(name)
	require.True(t, ok, "tool %s not registered", name)

	return tool.Handler(context.Background(), args)
}

func TestRegisterOrderAndReadOnly(t *testing.T) {
	full := registered(t, &fakeBackend{}, Options{})

	names := make([]string, 0, full.Len())
	for _, d := range full.Descriptors() {
		names = append(names, d.Name)
	}

	require.Equal(t, []string{
		"list_tables",
		"get_table_schema",
		"query_records",
		"insert_record",
		"update_record",
		"delete_record",
	}, names)

	readOnly := registered(t, &fakeBackend{}, Options{ReadOnly: true})
	require.Equal(t, 3, readOnly.Len())

	_, ok := readOnly.Lookup("delete_record")
	require.False(t, ok)
}

func TestQueryRecordsMapsArguments(t *testing.T) {
	backend := &fakeBackend{records: []map[string]any{{"id": 1}}}
	reg := registered(t, backend, Options{})

	result, err := invoke(t, reg, "query_records", map[string]any{
		"table":      "users",
		"columns":    []any{"id", "email"},
		"filter":     map[string]any{"active": true},
		"order_by":   "created_at",
		"descending": true,
		"limit":      float64(25),
	})
	require.NoError(t, err)

	require.Equal(t, supabase.SelectParams{
		Table:      "users",
		Columns:    []string{"id", "email"},
		Filter:     map[string]any{"active": true},
		OrderBy:    "created_at",
		Descending: true,
		Limit:      25,
	}, backend.lastSelect)

	out := result.(map[string]any)
	require.Equal(t, 1, out["count"])
}

func TestQueryRecordsRequiresTable(t *testing.T) {
	reg := registered(t, &fakeBackend{}, Options{})

	_, err := invoke(t, reg, "query_records", map[string]any{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "table")
}

func TestInsertRecord(t *testing.T) {
	backend := &fakeBackend{inserted: map[string]any{"id": 5, "title": "hi"}}
	reg := registered(t, backend, Options{})

	result, err := invoke(t, reg, "insert_record", map[string]any{
		"table":  "notes",
		"record": map[string]any{"title": "hi"},
	})
	require.NoError(t, err)
	require.Equal(t, supabase.InsertParams{Table: "notes", Record: map[string]any{"title": "hi"}}, backend.lastInsert)
	require.Equal(t, map[string]any{"record": map[string]any{"id": 5, "title": "hi"}}, result)
}

func TestUpdateRecord(t *testing.T) {
	backend := &fakeBackend{records: []map[string]any{{"id": 1}, {"id": 2}}}
	reg := registered(t, backend, Options{})

	result, err := invoke(t, reg, "update_record", map[string]any{
		"table":  "notes",
		"set":    map[string]any{"done": true},
		"filter": map[string]any{"owner": "ana"},
	})
	require.NoError(t, err)
	require.Equal(t, supabase.UpdateParams{
		Table:  "notes",
		Set:    map[string]any{"done": true},
		Filter: map[string]any{"owner": "ana"},
	}, backend.lastUpdate)

	out := result.(map[string]any)
	require.Equal(t, 2, out["count"])
}

func TestDeleteRecord(t *testing.T) {
	backend := &fakeBackend{deleted: 4}
	reg := registered(t, backend, Options{})

	result, err := invoke(t, reg, "delete_record", map[string]any{
		"table":  "notes",
		"filter": map[string]any{"done": true},
	})
	require.NoError(t, err)
	require.Equal(t, map[string]any{"deleted": int64(4)}, result)
}

func TestBackendErrorsPropagate(t *testing.T) {
	backend := &fakeBackend{err: errors.New("connection refused")}
	reg := registered(t, backend, Options{})

	_, err := invoke(t, reg, "list_tables", map[string]any{})
	require.ErrorContains(t, err, "connection refused")
}

func TestGetTableSchema(t *testing.T) {
	backend := &fakeBackend{columns: []supabase.Column{{Name: "id", DataType: "bigint"}}}
	reg := registered(t, backend, Options{})

	result, err := invoke(t, reg, "get_table_schema", map[string]any{"table": "notes"})
	require.NoError(t, err)

	out := result.(map[string]any)
	require.Equal(t, "notes", out["table"])
	require.Len(t, out["columns"], 1)
}
