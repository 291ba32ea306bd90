// Package supabasemcp serves the Model Context Protocol (MCP) over a
// Supabase Postgres database, exposing CRUD and schema-inspection tools to
// MCP clients.
//
// # Basic Usage
//
// Create a server with a database connection string and run it:
//
//	ctx := context.Background()
//	srv, err := supabasemcp.NewServer(
//	    supabasemcp.WithDatabaseURL(os.Getenv("SUPABASE_DB_URL")),
//	    supabasemcp.WithHTTPListen("127.0.0.1:8910"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// The server speaks JSON-RPC 2.0 over three transports: a newline-delimited
// TCP socket, a plain HTTP request/response endpoint at POST /rpc, and a
// server-sent-events pairing at GET /sse + POST /message.
//
// # Custom Tools
//
// Beyond the built-in Supabase tools, applications can register their own:
//
//	srv, err := supabasemcp.NewServer(
//	    supabasemcp.WithDatabaseURL(dbURL),
//	    supabasemcp.WithTool("health_check", "Report server health",
//	        map[string]any{"type": "object"},
//	        func(ctx context.Context, input map[string]any) (any, error) {
//	            return map[string]any{"ok": true}, nil
//	        },
//	    ),
//	)
//
// # Logging
//
// Pass a logger with WithLogger for structured operation tracking; the
// default is silent:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
//	srv, err := supabasemcp.NewServer(
//	    supabasemcp.WithLogger(logger),
//	    supabasemcp.WithDatabaseURL(dbURL),
//	)
package supabasemcp
