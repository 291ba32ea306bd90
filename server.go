package supabasemcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"golang.org/x/sync/errgroup"

	"github.com/mamenendez92/mcp-supabase-native/internal/protocol"
	"github.com/mamenendez92/mcp-supabase-native/internal/supabase"
	"github.com/mamenendez92/mcp-supabase-native/internal/tools"
	"github.com/mamenendez92/mcp-supabase-native/internal/transport"
)

// ErrNoDatabaseURL indicates the server was constructed without a database
// connection string.
var ErrNoDatabaseURL = errors.New("no database URL configured")

// ErrNoTransport indicates the server was constructed without an HTTP or
// socket listen address, so Run would have nothing to serve.
var ErrNoTransport = errors.New("no transport configured")

// shutdownGrace bounds how long in-flight HTTP requests may drain on stop.
const shutdownGrace = 5 * time.Second

// Server wires the protocol engine, the Supabase backend, and the transports
// together. Construct it with NewServer and drive it with Run; it stops when
// the context is cancelled.
type Server struct {
	log      *slog.Logger
	opts     serverOptions
	registry *protocol.Registry
	engine   *protocol.Engine
}

// NewServer builds a server from the given options. Custom tools are
// registered immediately, so a duplicate tool name fails here rather than at
// first use.
func NewServer(opts ...Option) (*Server, error) {
	options := serverOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	log := options.logger
	if log == nil {
		log = NopLogger()
	}

	registry := protocol.NewRegistry()

	for _, tool := range options.tools {
		schema, err := mapToSchema(tool.schema)
		if err != nil {
			return nil, fmt.Errorf("tool %s: %w", tool.name, err)
		}

		fn := tool.fn
		err = registry.Register(&protocol.Tool{
			Name:        tool.name,
			Description: tool.description,
			InputSchema: schema,
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return fn(ctx, args)
			},
		})
		if err != nil {
			return nil, err
		}
	}

	engine := protocol.NewEngine(log, registry, protocol.ServerInfo{
		Name:    "supabase-mcp",
		Version: Version,
	})

	engine.OnInitialized(func(_ *protocol.Session) {
		log.Info("client handshake complete")
	})

	return &Server{
		log:      log,
		opts:     options,
		registry: registry,
		engine:   engine,
	}, nil
}

// Run connects to the database, registers the Supabase tools, and serves all
// configured transports until ctx is cancelled. It returns nil on a clean
// shutdown.
func (s *Server) Run(ctx context.Context) error {
	if s.opts.databaseURL == "" {
		return ErrNoDatabaseURL
	}
	if s.opts.httpListen == "" && s.opts.socketListen == "" {
		return ErrNoTransport
	}

	backend, err := supabase.New(ctx, s.log, supabase.Config{
		URL:      s.opts.databaseURL,
		Schema:   s.opts.schema,
		MaxConns: s.opts.maxConns,
	})
	if err != nil {
		return fmt.Errorf("connecting backend: %w", err)
	}
	defer backend.Close()

	if err := tools.Register(s.registry, backend, tools.Options{ReadOnly: s.opts.readOnly}); err != nil {
		return fmt.Errorf("registering tools: %w", err)
	}

	s.log.Info("server starting",
		"version", Version,
		"tools", s.registry.Len(),
		"read_only", s.opts.readOnly,
	)

	group, ctx := errgroup.WithContext(ctx)

	if s.opts.httpListen != "" {
		group.Go(func() error {
			return s.serveHTTP(ctx, s.opts.httpListen)
		})
	}

	if s.opts.socketListen != "" {
		group.Go(func() error {
			return s.serveSocket(ctx, s.opts.socketListen)
		})
	}

	err = group.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

func (s *Server) serveHTTP(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           transport.NewHTTPServer(s.log, s.engine).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()

		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			s.log.Warn("http shutdown", "error", err)
		}
	}()

	s.log.Info("http transport listening", "addr", addr)

	return httpSrv.ListenAndServe()
}

func (s *Server) serveSocket(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("socket listen: %w", err)
	}

	return transport.NewSocket(s.log, s.engine).Serve(ctx, ln)
}

// mapToSchema converts a map-shaped JSON schema into the typed form the
// registry stores.
func mapToSchema(m map[string]any) (*jsonschema.Schema, error) {
	if m == nil {
		return &jsonschema.Schema{Type: "object"}, nil
	}

	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoding input schema: %w", err)
	}

	var schema jsonschema.Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("decoding input schema: %w", err)
	}

	return &schema, nil
}
