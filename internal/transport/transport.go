// Package transport adapts the protocol engine to concrete wire transports:
// a newline-delimited JSON socket server, a plain HTTP request/response
// endpoint, and a server-sent-events endpoint for push-style clients.
//
// Adapters own the byte-level concerns the engine refuses to know about:
// decoding payloads into request envelopes (and producing the -32700 parse
// error when that fails), tracking one Session per connection, and writing
// whatever envelope the engine returns.
package transport

import (
	"context"
	"encoding/json"

	"github.com/mamenendez92/mcp-supabase-native/internal/protocol"
)

// maxMessageSize bounds a single envelope on the socket transport.
const maxMessageSize = 10 * 1024 * 1024

// Handler is the engine surface the transports dispatch into.
type Handler interface {
	Handle(ctx context.Context, sess *protocol.Session, req *protocol.Request) *protocol.Response
}

// decode parses raw bytes into a request envelope. On failure it returns the
// parse-error response the transport must send instead.
func decode(data []byte) (*protocol.Request, *protocol.Response) {
	var req protocol.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, protocol.NewErrorResponse(nil, protocol.CodeParse, "parse error: "+err.Error())
	}

	return &req, nil
}
