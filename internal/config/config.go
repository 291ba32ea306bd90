// Package config loads server configuration with multi-source priority:
// environment variables override the optional YAML config file, which
// overrides the built-in defaults. The environment prefix is SUPABASE_MCP_
// (e.g. SUPABASE_MCP_HTTP_LISTEN), with DATABASE_URL and SUPABASE_DB_URL
// honored as the conventional cloud-deployment spellings of the database
// connection string.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Sentinel errors for configuration validation.
var (
	// ErrMissingDatabaseURL indicates no database connection string was
	// provided by any source.
	ErrMissingDatabaseURL = errors.New("missing database URL")

	// ErrNoTransport indicates every transport listener was disabled.
	ErrNoTransport = errors.New("no transport enabled")

	// ErrInvalidLogLevel indicates the log level is not one of debug, info,
	// warn, error.
	ErrInvalidLogLevel = errors.New("invalid log level")
)

// Config is the resolved server configuration.
type Config struct {
	// DatabaseURL is the postgres:// connection string of the Supabase
	// project database.
	DatabaseURL string `mapstructure:"database_url"`

	// Schema is the Postgres namespace tools operate in.
	Schema string `mapstructure:"schema"`

	// ReadOnly disables the mutating tools (insert/update/delete).
	ReadOnly bool `mapstructure:"read_only"`

	// HTTPListen is the bind address of the HTTP transport (/rpc, /sse,
	// /message). Empty disables it.
	HTTPListen string `mapstructure:"http_listen"`

	// SocketListen is the bind address of the TCP socket transport.
	// Empty disables it.
	SocketListen string `mapstructure:"socket_listen"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`
}

// Load resolves the configuration. path names an explicit config file; when
// empty only defaults and the environment apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Every key needs a default so AutomaticEnv can resolve it during
	// Unmarshal.
	v.SetDefault("database_url", "")
	v.SetDefault("schema", "public")
	v.SetDefault("read_only", false)
	v.SetDefault("http_listen", "127.0.0.1:8910")
	v.SetDefault("socket_listen", "")
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("SUPABASE_MCP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	// DATABASE_URL / SUPABASE_DB_URL take precedence over the file value;
	// they are how hosted deployments inject credentials.
	if url := os.Getenv("SUPABASE_DB_URL"); url != "" {
		cfg.DatabaseURL = url
	} else if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.DatabaseURL = url
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration for the serve path.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("%w: set SUPABASE_MCP_DATABASE_URL, DATABASE_URL, or database_url in the config file", ErrMissingDatabaseURL)
	}

	if !strings.HasPrefix(c.DatabaseURL, "postgres://") && !strings.HasPrefix(c.DatabaseURL, "postgresql://") {
		return fmt.Errorf("database URL must start with postgres:// or postgresql://, got %q", redact(c.DatabaseURL))
	}

	if c.HTTPListen == "" && c.SocketListen == "" {
		return ErrNoTransport
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrInvalidLogLevel, level)
	}
}

// redact trims a connection string down to its scheme so credentials never
// reach error messages or logs.
func redact(url string) string {
	if i := strings.Index(url, "://"); i > 0 {
		return url[:i+3] + "..."
	}

	return "..."
}
