// Package supabase provides the native Postgres client behind the server's
// tools. Supabase projects expose a plain Postgres database, so the client
// speaks the wire protocol directly through a pgx connection pool instead of
// going through the PostgREST HTTP layer.
//
// All SQL is parameterized; table and column names are validated and quoted
// before they are interpolated. The client performs no retries: each call is
// an independent unit of work and failures surface to the tool handler.
package supabase
