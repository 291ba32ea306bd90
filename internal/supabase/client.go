package supabase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Sentinel errors for commonly checked backend conditions.
var (
	// ErrUnknownTable indicates the named table does not exist in the schema.
	ErrUnknownTable = errors.New("unknown table")

	// ErrEmptyFilter indicates an update or delete was attempted without a
	// filter. Whole-table writes must be expressed explicitly by the caller,
	// not reached by omission.
	ErrEmptyFilter = errors.New("empty filter")
)

// pool is the subset of pgxpool.Pool the client uses. Tests substitute a
// fake; production code always passes the real pool.
type pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
	Close()
}

// Compile-time verification that the real pool satisfies the interface.
var _ pool = (*pgxpool.Pool)(nil)

// Config controls the backend connection.
type Config struct {
	// URL is a postgres:// connection string, as found in the Supabase
	// project settings under Database > Connection string.
	URL string

	// Schema is the namespace tools operate in. Defaults to "public".
	Schema string

	// MaxConns caps the pool size. Zero keeps the pgxpool default.
	MaxConns int32
}

// Client executes CRUD and schema operations against one Supabase database.
type Client struct {
	log    *slog.Logger
	db     pool
	schema string
}

// New connects to the database and verifies the connection with a ping.
func New(ctx context.Context, log *slog.Logger, cfg Config) (*Client, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	db, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	schema := cfg.Schema
	if schema == "" {
		schema = "public"
	}

	log = log.With("component", "supabase")
	log.Debug("connected to database", "schema", schema)

	return &Client{log: log, db: db, schema: schema}, nil
}

// Close releases the connection pool.
func (c *Client) Close() {
	c.db.Close()
}

// Schema returns the namespace this client operates in.
func (c *Client) Schema() string {
	return c.schema
}

// queryRows runs sql and decodes every row into a column-name keyed map.
func (c *Client) queryRows(ctx context.Context, sql string, args ...any) ([]map[string]any, error) {
	rows, err := c.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	out := []map[string]any{}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}

		record := make(map[string]any, len(fields))
		for i, fd := range fields {
			record[fd.Name] = values[i]
		}

		out = append(out, record)
	}

	return out, rows.Err()
}
