package supabasemcp

import "log/slog"

// NopLogger returns a logger whose records are dropped without formatting.
// It is the default when no WithLogger option is supplied, keeping the
// server silent unless the caller opts in.
func NopLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
