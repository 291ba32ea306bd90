package supabase

import (
	"context"
	"log/slog"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

// fakeRows replays a canned result set through the pgx.Rows interface.
type fakeRows struct {
	fields []pgconn.FieldDescription
	rows   [][]any
	pos    int
}

func newFakeRows(columns []string, rows [][]any) *fakeRows {
	fields := make([]pgconn.FieldDescription, len(columns))
	for i, name := range columns {
		fields[i] = pgconn.FieldDescription{Name: name}
	}

	return &fakeRows{fields: fields, rows: rows}
}

func (f *fakeRows) Close()                                       {}
func (f *fakeRows) Err() error                                   { return nil }
func (f *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (f *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return f.fields }
func (f *fakeRows) Next() bool {
	f.pos++
	return f.pos <= len(f.rows)
}
func (f *fakeRows) Scan(_ ...any) error { return nil }
func (f *fakeRows) Values() ([]any, error) {
	return f.rows[f.pos-1], nil
}
func (f *fakeRows) RawValues() [][]byte { return nil }
func (f *fakeRows) Conn() *pgx.Conn    { return nil }

// fakePool records the last statement and returns canned rows.
type fakePool struct {
	lastSQL  string
	lastArgs []any
	rows     *fakeRows
	tag      pgconn.CommandTag
}

func (f *fakePool) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.lastSQL = sql
	f.lastArgs = args

	return f.rows, nil
}

func (f *fakePool) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.lastSQL = sql
	f.lastArgs = args

	return f.tag, nil
}

func (f *fakePool) Ping(_ context.Context) error { return nil }
func (f *fakePool) Close()                       {}

func testClient(db pool) *Client {
	return &Client{log: slog.New(slog.DiscardHandler), db: db, schema: "public"}
}

func TestSelectDecodesRows(t *testing.T) {
	db := &fakePool{rows: newFakeRows(
		[]string{"id", "email"},
		[][]any{{int64(1), "a@example.com"}, {int64(2), "b@example.com"}},
	)}
	c := testClient(db)

	rows, err := c.Select(context.Background(), SelectParams{Table: "users", Limit: 5})
	require.NoError(t, err)
	require.Equal(t, []map[string]any{
		{"id": int64(1), "email": "a@example.com"},
		{"id": int64(2), "email": "b@example.com"},
	}, rows)
	require.Equal(t, `SELECT * FROM "public"."users" LIMIT 5`, db.lastSQL)
}

func TestInsertReturnsStoredRow(t *testing.T) {
	db := &fakePool{rows: newFakeRows([]string{"id", "title"}, [][]any{{int64(9), "hi"}})}
	c := testClient(db)

	row, err := c.Insert(context.Background(), InsertParams{Table: "notes", Record: map[string]any{"title": "hi"}})
	require.NoError(t, err)
	require.Equal(t, map[string]any{"id": int64(9), "title": "hi"}, row)
	require.Equal(t, []any{"hi"}, db.lastArgs)
}

func TestDeleteReturnsAffectedCount(t *testing.T) {
	db := &fakePool{tag: pgconn.NewCommandTag("DELETE 3")}
	c := testClient(db)

	n, err := c.Delete(context.Background(), DeleteParams{Table: "notes", Filter: map[string]any{"done": true}})
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
}

func TestListTables(t *testing.T) {
	db := &fakePool{rows: newFakeRows([]string{"table_name"}, [][]any{{"notes"}, {"users"}})}
	c := testClient(db)

	tables, err := c.ListTables(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"notes", "users"}, tables)
	require.Equal(t, []any{"public"}, db.lastArgs)
}

func TestTableSchemaUnknownTable(t *testing.T) {
	db := &fakePool{rows: newFakeRows([]string{"column_name"}, nil)}
	c := testClient(db)

	_, err := c.TableSchema(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrUnknownTable)
}

func TestTableSchemaDecodesColumns(t *testing.T) {
	db := &fakePool{rows: newFakeRows(
		[]string{"column_name", "data_type", "is_nullable", "column_default"},
		[][]any{
			{"id", "bigint", "NO", "nextval('notes_id_seq')"},
			{"title", "text", "YES", nil},
		},
	)}
	c := testClient(db)

	cols, err := c.TableSchema(context.Background(), "notes")
	require.NoError(t, err)
	require.Len(t, cols, 2)
	require.Equal(t, "id", cols[0].Name)
	require.Equal(t, "bigint", cols[0].DataType)
	require.False(t, cols[0].Nullable)
	require.NotNil(t, cols[0].Default)
	require.True(t, cols[1].Nullable)
	require.Nil(t, cols[1].Default)
}
