package transport

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/mamenendez92/mcp-supabase-native/internal/protocol"
)

// HTTPServer exposes the protocol over HTTP in two shapes:
//
//   - POST /rpc: strict request/response. One envelope in, one envelope out
//     (or 202 with no body for notifications). The endpoint is stateless:
//     each request is dispatched against a fresh Session.
//   - GET /sse plus POST /message: the push-style event-stream pairing
//     implemented in sse.go, where the session lives as long as the stream.
type HTTPServer struct {
	log     *slog.Logger
	handler Handler
	hub     *sseHub
}

// NewHTTPServer creates the HTTP transport dispatching into handler.
func NewHTTPServer(log *slog.Logger, handler Handler) *HTTPServer {
	log = log.With("component", "transport.http")

	return &HTTPServer{
		log:     log,
		handler: handler,
		hub:     newSSEHub(log, handler),
	}
}

// Routes returns the handler wiring all protocol endpoints.
func (s *HTTPServer) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /rpc", s.handleRPC)
	mux.HandleFunc("GET /sse", s.hub.handleStream)
	mux.HandleFunc("POST /message", s.hub.handleMessage)

	return mux
}

func (s *HTTPServer) handleRPC(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxMessageSize))
	if err != nil {
		writeEnvelope(w, s.log, protocol.NewErrorResponse(nil, protocol.CodeParse, "parse error: "+err.Error()))
		return
	}

	req, parseErr := decode(body)
	if parseErr != nil {
		writeEnvelope(w, s.log, parseErr)
		return
	}

	resp := s.handler.Handle(r.Context(), &protocol.Session{}, req)
	if resp == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	writeEnvelope(w, s.log, resp)
}

// writeEnvelope serializes a response envelope. Protocol failures ride in the
// envelope itself, so the HTTP status is 200 either way.
func writeEnvelope(w http.ResponseWriter, log *slog.Logger, resp *protocol.Response) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Debug("response write failed", "error", err)
	}
}
