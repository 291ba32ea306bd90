package transport

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"

	"github.com/mamenendez92/mcp-supabase-native/internal/protocol"
)

// Socket serves the protocol over a stream of newline-delimited JSON
// envelopes. Each accepted connection gets its own Session and is handled on
// its own goroutine; requests within a connection are processed in order.
type Socket struct {
	log     *slog.Logger
	handler Handler
}

// NewSocket creates a socket transport dispatching into handler.
func NewSocket(log *slog.Logger, handler Handler) *Socket {
	return &Socket{
		log:     log.With("component", "transport.socket"),
		handler: handler,
	}
}

// Serve accepts connections until the context is cancelled or the listener
// fails. Cancelling the context closes the listener, which unblocks Accept.
func (s *Socket) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	s.log.Info("socket transport listening", "addr", ln.Addr().String())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			return err
		}

		s.log.Debug("connection accepted", "remote", conn.RemoteAddr().String())

		go func() {
			defer conn.Close()

			// Closing the connection on cancellation unblocks a read
			// parked inside ServeStream.
			stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
			defer stop()

			s.ServeStream(ctx, conn, conn)
		}()
	}
}

// ServeStream runs the request loop over an arbitrary byte stream. It reads
// line-delimited envelopes from r, dispatches each one, and writes response
// envelopes to w. The loop exits when the stream ends, the context is
// cancelled, or a write fails.
//
// A payload that does not decode produces a parse-error envelope with a null
// id; decoding failures never terminate the connection.
func (s *Socket) ServeStream(ctx context.Context, r io.Reader, w io.Writer) {
	sess := &protocol.Session{}

	scanner := bufio.NewScanner(r)
	buf := make([]byte, maxMessageSize)
	scanner.Buffer(buf, maxMessageSize)

	enc := json.NewEncoder(w)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		req, parseErr := decode(line)
		if parseErr != nil {
			s.log.Debug("undecodable payload", "error", parseErr.Error.Message)

			if err := enc.Encode(parseErr); err != nil {
				return
			}

			continue
		}

		resp := s.handler.Handle(ctx, sess, req)
		if resp == nil {
			continue
		}

		// Encode appends the newline delimiter.
		if err := enc.Encode(resp); err != nil {
			s.log.Debug("write failed", "error", err)
			return
		}
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		s.log.Debug("scanner stopped", "error", err)
	}
}
