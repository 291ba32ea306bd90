package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/mamenendez92/mcp-supabase-native/internal/protocol"
)

// sseHub tracks live event streams. A client opens GET /sse, receives an
// endpoint event naming the POST URL for its session, and then feeds request
// envelopes through POST /message while responses are pushed down the stream.
type sseHub struct {
	log     *slog.Logger
	handler Handler

	mu      sync.Mutex
	streams map[string]*sseStream
}

// sseStream is one connected event-stream client and its session. done is
// closed when the stream goroutine stops draining events, releasing any
// message handler blocked on a send.
type sseStream struct {
	session *protocol.Session
	events  chan *protocol.Response
	done    chan struct{}
}

// push queues a response for the stream without ever blocking past the
// stream's lifetime: a send races against the stream closing and the caller's
// own context. Returns false when the envelope was dropped.
func (s *sseStream) push(ctx context.Context, resp *protocol.Response) bool {
	select {
	case s.events <- resp:
		return true
	case <-s.done:
		return false
	case <-ctx.Done():
		return false
	}
}

func newSSEHub(log *slog.Logger, handler Handler) *sseHub {
	return &sseHub{
		log:     log.With("component", "transport.sse"),
		handler: handler,
		streams: make(map[string]*sseStream, 4),
	}
}

func (h *sseHub) register() (string, *sseStream) {
	id := ulid.Make().String()
	stream := &sseStream{
		session: &protocol.Session{},
		events:  make(chan *protocol.Response, 16),
		done:    make(chan struct{}),
	}

	h.mu.Lock()
	h.streams[id] = stream
	h.mu.Unlock()

	return id, stream
}

func (h *sseHub) unregister(id string) {
	h.mu.Lock()
	stream, ok := h.streams[id]
	delete(h.streams, id)
	h.mu.Unlock()

	if ok {
		close(stream.done)
	}
}

func (h *sseHub) lookup(id string) (*sseStream, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	stream, ok := h.streams[id]

	return stream, ok
}

// handleStream serves GET /sse: it opens the event stream, announces the
// message endpoint for this session, and pushes response envelopes until the
// client disconnects.
func (h *sseHub) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	id, stream := h.register()
	defer h.unregister(id)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: endpoint\ndata: /message?sessionId=%s\n\n", id)
	flusher.Flush()

	h.log.Debug("stream opened", "session_id", id)

	for {
		select {
		case <-r.Context().Done():
			h.log.Debug("stream closed", "session_id", id)
			return
		case resp := <-stream.events:
			if err := writeEvent(w, resp); err != nil {
				h.log.Debug("event write failed", "session_id", id, "error", err)
				return
			}

			flusher.Flush()
		}
	}
}

// handleMessage serves POST /message?sessionId=: it dispatches the envelope
// against the stream's session and queues the response for the stream.
// The POST itself is acknowledged with 202; the response envelope travels
// over the event stream.
func (h *sseHub) handleMessage(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("sessionId")

	stream, ok := h.lookup(id)
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxMessageSize))
	if err != nil {
		http.Error(w, "unreadable body", http.StatusBadRequest)
		return
	}

	req, parseErr := decode(body)
	if parseErr != nil {
		stream.push(r.Context(), parseErr)
		w.WriteHeader(http.StatusAccepted)
		return
	}

	resp := h.handler.Handle(r.Context(), stream.session, req)
	if resp != nil && !stream.push(r.Context(), resp) {
		h.log.Debug("response dropped, stream gone", "session_id", id)
	}

	w.WriteHeader(http.StatusAccepted)
}

func writeEvent(w io.Writer, resp *protocol.Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "event: message\ndata: %s\n\n", data)

	return err
}
