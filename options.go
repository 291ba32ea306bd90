package supabasemcp

import (
	"context"
	"log/slog"
)

// ToolFunc is the handler signature for tools registered with WithTool.
// The input is the decoded arguments object; the return value must be
// JSON-serializable.
type ToolFunc func(ctx context.Context, input map[string]any) (any, error)

// customTool holds a tool registration supplied through options.
type customTool struct {
	name        string
	description string
	schema      map[string]any
	fn          ToolFunc
}

// serverOptions collects everything configurable on a Server.
type serverOptions struct {
	logger       *slog.Logger
	databaseURL  string
	schema       string
	readOnly     bool
	httpListen   string
	socketListen string
	maxConns     int32
	tools        []customTool
}

// Option configures a Server during construction.
type Option func(*serverOptions)

// ===== Basic Configuration =====

// WithLogger sets the logger for operation tracking.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *serverOptions) {
		o.logger = logger
	}
}

// WithDatabaseURL sets the postgres:// connection string of the Supabase
// project database.
func WithDatabaseURL(url string) Option {
	return func(o *serverOptions) {
		o.databaseURL = url
	}
}

// WithSchema sets the Postgres namespace the tools operate in.
// Defaults to "public".
func WithSchema(schema string) Option {
	return func(o *serverOptions) {
		o.schema = schema
	}
}

// WithReadOnly disables the mutating tools, leaving only reads and schema
// inspection.
func WithReadOnly(readOnly bool) Option {
	return func(o *serverOptions) {
		o.readOnly = readOnly
	}
}

// WithMaxConns caps the database connection pool size.
func WithMaxConns(n int32) Option {
	return func(o *serverOptions) {
		o.maxConns = n
	}
}

// ===== Transports =====

// WithHTTPListen sets the bind address for the HTTP transport
// (POST /rpc, GET /sse, POST /message). Empty disables it.
func WithHTTPListen(addr string) Option {
	return func(o *serverOptions) {
		o.httpListen = addr
	}
}

// WithSocketListen sets the bind address for the newline-delimited JSON
// TCP transport. Empty disables it.
func WithSocketListen(addr string) Option {
	return func(o *serverOptions) {
		o.socketListen = addr
	}
}

// ===== Tools =====

// WithTool registers a custom tool next to the built-in Supabase tools.
//
// The schema is a JSON Schema object describing the expected input.
// Registering two tools under the same name fails at NewServer.
func WithTool(name, description string, schema map[string]any, fn ToolFunc) Option {
	return func(o *serverOptions) {
		o.tools = append(o.tools, customTool{
			name:        name,
			description: description,
			schema:      schema,
			fn:          fn,
		})
	}
}
