package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://user:pw@db.example.supabase.co:5432/postgres")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "public", cfg.Schema)
	require.Equal(t, "127.0.0.1:8910", cfg.HTTPListen)
	require.Empty(t, cfg.SocketListen)
	require.False(t, cfg.ReadOnly)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoadMissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SUPABASE_DB_URL", "")

	_, err := Load("")
	require.ErrorIs(t, err, ErrMissingDatabaseURL)
}

func TestSupabaseURLTakesPrecedence(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://generic/db")
	t.Setenv("SUPABASE_DB_URL", "postgres://specific/db")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "postgres://specific/db", cfg.DatabaseURL)
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SUPABASE_DB_URL", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database_url: postgres://file:pw@localhost:5432/postgres
schema: analytics
read_only: true
socket_listen: 127.0.0.1:9100
log_level: debug
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "analytics", cfg.Schema)
	require.True(t, cfg.ReadOnly)
	require.Equal(t, "127.0.0.1:9100", cfg.SocketListen)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestValidateRejectsBadScheme(t *testing.T) {
	cfg := &Config{DatabaseURL: "mysql://nope", HTTPListen: ":1", LogLevel: "info"}

	err := cfg.Validate()
	require.Error(t, err)
	require.NotContains(t, err.Error(), "nope", "error must not leak the connection string")
}

func TestValidateRequiresATransport(t *testing.T) {
	cfg := &Config{DatabaseURL: "postgres://x/y", LogLevel: "info"}
	require.ErrorIs(t, cfg.Validate(), ErrNoTransport)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}

	_, err := ParseLevel("verbose")
	require.ErrorIs(t, err, ErrInvalidLogLevel)
}
