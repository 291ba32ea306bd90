package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	supabasemcp "github.com/mamenendez92/mcp-supabase-native"
	"github.com/mamenendez92/mcp-supabase-native/internal/config"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "supabase-mcp",
		Short:         "MCP server exposing Supabase CRUD and schema tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCommand())
	root.AddCommand(newVersionCommand())

	return root
}

func newServeCommand() *cobra.Command {
	var (
		configPath   string
		httpListen   string
		socketListen string
		schema       string
		readOnly     bool
		logLevel     string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			// Flags the user set explicitly override the resolved config.
			if cmd.Flags().Changed("http-listen") {
				cfg.HTTPListen = httpListen
			}

			if cmd.Flags().Changed("socket-listen") {
				cfg.SocketListen = socketListen
			}

			if cmd.Flags().Changed("schema") {
				cfg.Schema = schema
			}

			if cmd.Flags().Changed("read-only") {
				cfg.ReadOnly = readOnly
			}

			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			level, err := config.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			srv, err := supabasemcp.NewServer(
				supabasemcp.WithLogger(logger),
				supabasemcp.WithDatabaseURL(cfg.DatabaseURL),
				supabasemcp.WithSchema(cfg.Schema),
				supabasemcp.WithReadOnly(cfg.ReadOnly),
				supabasemcp.WithHTTPListen(cfg.HTTPListen),
				supabasemcp.WithSocketListen(cfg.SocketListen),
			)
			if err != nil {
				return err
			}

			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVar(&httpListen, "http-listen", "", "HTTP transport bind address")
	cmd.Flags().StringVar(&socketListen, "socket-listen", "", "TCP socket transport bind address")
	cmd.Flags().StringVar(&schema, "schema", "", "database schema to operate in")
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "disable mutating tools")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the server version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "supabase-mcp", supabasemcp.Version)
		},
	}
}
